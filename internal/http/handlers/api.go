package handlers

import (
	"database/sql"
	"sync"

	"github.com/gin-gonic/gin"

	"tiketku/internal/config"
	"tiketku/internal/repositories"
	"tiketku/internal/services"
)

// API bundles the wired services behind the HTTP handlers. Services keep
// per-schedule lock state, so one API instance serves the whole process.
type API struct {
	Env config.Env
	DB  *sql.DB

	Users    repositories.UserRepository
	Vehicles repositories.VehicleRepository
	Routes   repositories.RouteRepository

	Schedules *services.ScheduleService
	Bookings  *services.BookingService
	Inventory *services.InventoryService
	Docs      services.DocsService

	routerMu sync.RWMutex
	router   *gin.Engine
}

// SetRouter stores the active gin engine for later inspection (e.g., /api/routes).
func (a *API) SetRouter(r *gin.Engine) {
	a.routerMu.Lock()
	defer a.routerMu.Unlock()
	a.router = r
}
