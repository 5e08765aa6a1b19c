package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"tiketku/internal/domain/models"
	"tiketku/internal/services"
)

// GET /api/schedules?origin=&destination=&date=&status=&page=&limit=
func (a *API) GetSchedules(c *gin.Context) {
	page := intQuery(c, "page", 1)
	limit := intQuery(c, "limit", 10)
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}

	f := models.ScheduleFilter{
		Origin:      strings.TrimSpace(c.Query("origin")),
		Destination: strings.TrimSpace(c.Query("destination")),
		Date:        strings.TrimSpace(c.Query("date")),
		Status:      models.ScheduleStatus(strings.ToUpper(strings.TrimSpace(c.Query("status")))),
		Limit:       limit,
		Offset:      (page - 1) * limit,
	}
	if f.Status != "" && !f.Status.Valid() {
		respondError(c, http.StatusBadRequest, "validation_error", "status jadwal tidak dikenal", nil)
		return
	}

	schedules, total, err := a.Schedules.List(c.Request.Context(), f)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"schedules": schedules,
		"total":     total,
		"page":      page,
		"limit":     limit,
	})
}

// GET /api/schedules/:id
func (a *API) GetScheduleByID(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	sched, err := a.Schedules.Get(c.Request.Context(), id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"schedule": sched})
}

// POST /api/schedules (admin)
func (a *API) CreateSchedule(c *gin.Context) {
	var req services.CreateScheduleRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	sched, err := a.Schedules.Create(c.Request.Context(), req)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "jadwal dibuat", "schedule": sched})
}

// PUT /api/schedules/:id (admin)
func (a *API) UpdateSchedule(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req services.UpdateScheduleRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	sched, err := a.Schedules.Update(c.Request.Context(), id, req)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "jadwal diperbarui", "schedule": sched})
}

// DELETE /api/schedules/:id (admin)
func (a *API) DeleteSchedule(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := a.Schedules.Delete(c.Request.Context(), id); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "jadwal dihapus"})
}

// GET /api/schedules/:id/seats
func (a *API) GetScheduleSeats(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	summary, err := a.Schedules.Seats(c.Request.Context(), id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// POST /api/schedules/:id/seats/regenerate (admin)
func (a *API) RegenerateScheduleSeats(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	inv, err := a.Schedules.RegenerateSeats(c.Request.Context(), id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "inventaris kursi dibuat ulang", "inventory": inv})
}
