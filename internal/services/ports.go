package services

import (
	"context"
	"time"

	"tiketku/internal/domain/models"
)

// Store interfaces decouple the engine from MySQL; the repositories
// package provides the production implementations.

type InventoryStore interface {
	Create(ctx context.Context, inv *models.ScheduleInventory) error
	GetBySchedule(ctx context.Context, scheduleID int64) (*models.ScheduleInventory, error)
	// Save must be atomic and compare-and-set on the inventory version.
	Save(ctx context.Context, inv *models.ScheduleInventory) error
	// ListHeld returns every inventory that still has TERISI seats.
	ListHeld(ctx context.Context) ([]models.ScheduleInventory, error)
}

type BookingStore interface {
	Create(ctx context.Context, b *models.Booking) error
	GetByID(ctx context.Context, id string) (*models.Booking, error)
	GetByCode(ctx context.Context, code string) (*models.Booking, error)
	ListByUser(ctx context.Context, userID int64, status models.BookingStatus, limit, offset int) ([]models.Booking, int, error)
	// The Mark* transitions return false when the status guard did not
	// match, so exactly one caller wins each transition.
	MarkPaid(ctx context.Context, id string, p models.Payment) (bool, error)
	MarkExpired(ctx context.Context, id string) (bool, error)
	MarkCancelled(ctx context.Context, id string, from, to models.BookingStatus, notes string) (bool, error)
	ListOverdue(ctx context.Context, now time.Time) ([]models.Booking, error)
}

type ScheduleStore interface {
	Create(ctx context.Context, s *models.Schedule) error
	GetByID(ctx context.Context, id int64) (*models.Schedule, error)
	List(ctx context.Context, f models.ScheduleFilter) ([]models.Schedule, int, error)
	Update(ctx context.Context, s *models.Schedule) error
	Delete(ctx context.Context, id int64) error
	HasVehicleConflict(ctx context.Context, vehicleID int64, departure time.Time) (bool, error)
}

type VehicleStore interface {
	GetByID(ctx context.Context, id int64) (*models.Vehicle, error)
}

type RouteStore interface {
	GetByID(ctx context.Context, id int64) (*models.Route, error)
}
