package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"tiketku/internal/domain/models"
)

type vehicleRequest struct {
	VehicleType string `json:"tipe_kendaraan"`
	Capacity    int    `json:"kapasitas"`
	PlateNumber string `json:"nomor_plat"`
	Status      string `json:"status"`
}

func validVehicleType(t string) bool {
	switch t {
	case models.VehicleBus, models.VehicleMiniBus, models.VehicleTravel, models.VehicleTrain:
		return true
	}
	return false
}

func validVehicleStatus(s string) bool {
	switch s {
	case models.VehicleActive, models.VehicleMaintenance, models.VehicleInactive:
		return true
	}
	return false
}

// GET /api/vehicles
func (a *API) GetVehicles(c *gin.Context) {
	vehicles, err := a.Vehicles.List(c.Request.Context())
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"vehicles": vehicles, "total": len(vehicles)})
}

// GET /api/vehicles/:id
func (a *API) GetVehicleByID(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	v, err := a.Vehicles.GetByID(c.Request.Context(), id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"vehicle": v})
}

// POST /api/vehicles (admin)
func (a *API) CreateVehicle(c *gin.Context) {
	var req vehicleRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	req.VehicleType = strings.ToUpper(strings.TrimSpace(req.VehicleType))
	if !validVehicleType(req.VehicleType) {
		respondError(c, http.StatusBadRequest, "validation_error", "tipe kendaraan tidak dikenal", nil)
		return
	}
	if req.Capacity <= 0 {
		respondError(c, http.StatusBadRequest, "validation_error", "kapasitas harus lebih dari 0", nil)
		return
	}
	if req.Status == "" {
		req.Status = models.VehicleActive
	}
	if !validVehicleStatus(req.Status) {
		respondError(c, http.StatusBadRequest, "validation_error", "status armada tidak dikenal", nil)
		return
	}

	v := &models.Vehicle{
		VehicleType: req.VehicleType,
		Capacity:    req.Capacity,
		PlateNumber: strings.TrimSpace(req.PlateNumber),
		Status:      req.Status,
	}
	if err := a.Vehicles.Create(c.Request.Context(), v); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "armada dibuat", "vehicle": v})
}

// PUT /api/vehicles/:id (admin)
func (a *API) UpdateVehicle(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req vehicleRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	v, err := a.Vehicles.GetByID(c.Request.Context(), id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	if req.VehicleType != "" {
		t := strings.ToUpper(strings.TrimSpace(req.VehicleType))
		if !validVehicleType(t) {
			respondError(c, http.StatusBadRequest, "validation_error", "tipe kendaraan tidak dikenal", nil)
			return
		}
		v.VehicleType = t
	}
	if req.Capacity > 0 {
		v.Capacity = req.Capacity
	}
	if req.PlateNumber != "" {
		v.PlateNumber = strings.TrimSpace(req.PlateNumber)
	}
	if req.Status != "" {
		if !validVehicleStatus(req.Status) {
			respondError(c, http.StatusBadRequest, "validation_error", "status armada tidak dikenal", nil)
			return
		}
		v.Status = req.Status
	}

	if err := a.Vehicles.Update(c.Request.Context(), v); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "armada diperbarui", "vehicle": v})
}

// DELETE /api/vehicles/:id (admin)
func (a *API) DeleteVehicle(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := a.Vehicles.Delete(c.Request.Context(), id); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "armada dihapus"})
}
