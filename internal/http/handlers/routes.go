package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"tiketku/internal/domain/models"
	"tiketku/internal/utils"
)

type routeRequest struct {
	Origin        string `json:"lokasi_keberangkatan"`
	Destination   string `json:"lokasi_tujuan"`
	DepartureDate string `json:"tanggal_keberangkatan"`
}

// GET /api/routes
func (a *API) GetRoutes(c *gin.Context) {
	routes, err := a.Routes.List(c.Request.Context())
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"routes": routes, "total": len(routes)})
}

// GET /api/routes/:id
func (a *API) GetRouteByID(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	rt, err := a.Routes.GetByID(c.Request.Context(), id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"route": rt})
}

// POST /api/routes (admin)
func (a *API) CreateRoute(c *gin.Context) {
	var req routeRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	req.Origin = strings.TrimSpace(req.Origin)
	req.Destination = strings.TrimSpace(req.Destination)
	if req.Origin == "" || req.Destination == "" {
		respondError(c, http.StatusBadRequest, "validation_error", "lokasi keberangkatan dan tujuan wajib diisi", nil)
		return
	}
	if req.DepartureDate != "" {
		if _, err := utils.ParseDate(req.DepartureDate); err != nil {
			respondError(c, http.StatusBadRequest, "validation_error", "tanggal keberangkatan tidak valid (YYYY-MM-DD)", nil)
			return
		}
	}

	rt := &models.Route{
		Origin:        req.Origin,
		Destination:   req.Destination,
		DepartureDate: req.DepartureDate,
	}
	if err := a.Routes.Create(c.Request.Context(), rt); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "rute dibuat", "route": rt})
}

// DELETE /api/routes/:id (admin)
func (a *API) DeleteRoute(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := a.Routes.Delete(c.Request.Context(), id); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "rute dihapus"})
}
