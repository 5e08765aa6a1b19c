package services

import (
	"context"
	"fmt"
	"time"

	"tiketku/internal/domain"
	"tiketku/internal/domain/models"
	"tiketku/internal/utils"
)

type CreateScheduleRequest struct {
	RouteID        int64  `json:"rute_id"`
	VehicleID      int64  `json:"armada_id"`
	DepartureTime  string `json:"waktu_keberangkatan"` // "YYYY-MM-DD HH:MM:SS"
	TravelEstimate string `json:"estimasi_waktu_perjalanan"`
	BasePrice      int64  `json:"harga_dasar"`
}

type UpdateScheduleRequest struct {
	DepartureTime  *string                `json:"waktu_keberangkatan"`
	TravelEstimate *string                `json:"estimasi_waktu_perjalanan"`
	BasePrice      *int64                 `json:"harga_dasar"`
	Status         *models.ScheduleStatus `json:"status_jadwal"`
}

// SeatSummary is the seat listing payload: map, free labels and counts.
type SeatSummary struct {
	Schedule  *models.Schedule `json:"jadwal"`
	SeatMap   []models.Seat    `json:"seat_map"`
	Available []string         `json:"available_seats"`
	Capacity  int              `json:"total_kapasitas"`
	FreeCount int              `json:"kursi_tersedia"`
	HeldCount int              `json:"kursi_terpesan"`
}

type ScheduleService struct {
	Schedules ScheduleStore
	Vehicles  VehicleStore
	Routes    RouteStore
	Inventory *InventoryService

	Now func() time.Time
}

func NewScheduleService(schedules ScheduleStore, vehicles VehicleStore, routes RouteStore, inventory *InventoryService) *ScheduleService {
	return &ScheduleService{
		Schedules: schedules,
		Vehicles:  vehicles,
		Routes:    routes,
		Inventory: inventory,
		Now:       time.Now,
	}
}

// Create registers a departure and its seat inventory. The vehicle must
// be AKTIF and free at the exact departure timestamp.
func (s *ScheduleService) Create(ctx context.Context, req CreateScheduleRequest) (*models.Schedule, error) {
	if req.BasePrice < 0 {
		return nil, domain.ValidationError{Field: "harga_dasar", Msg: "tidak boleh negatif"}
	}
	departure, err := utils.ParseDateTime(req.DepartureTime)
	if err != nil {
		return nil, domain.ValidationError{Field: "waktu_keberangkatan", Msg: "format harus YYYY-MM-DD HH:MM:SS", Err: err}
	}

	if _, err := s.Routes.GetByID(ctx, req.RouteID); err != nil {
		return nil, err
	}
	vehicle, err := s.Vehicles.GetByID(ctx, req.VehicleID)
	if err != nil {
		return nil, err
	}
	if vehicle.Status != models.VehicleActive {
		return nil, domain.ConflictError{Resource: "armada", Msg: "armada tidak aktif"}
	}

	conflict, err := s.Schedules.HasVehicleConflict(ctx, req.VehicleID, departure)
	if err != nil {
		return nil, err
	}
	if conflict {
		return nil, domain.ConflictError{
			Resource: "armada",
			Msg:      fmt.Sprintf("armada %d sudah memiliki jadwal pada waktu tersebut", req.VehicleID),
		}
	}

	sched := &models.Schedule{
		RouteID:        req.RouteID,
		VehicleID:      req.VehicleID,
		DepartureTime:  departure,
		TravelEstimate: req.TravelEstimate,
		BasePrice:      req.BasePrice,
		Status:         models.ScheduleActive,
	}
	if err := s.Schedules.Create(ctx, sched); err != nil {
		return nil, err
	}

	if _, err := s.Inventory.CreateForSchedule(ctx, sched.ID, vehicle.VehicleType, vehicle.Capacity); err != nil {
		return nil, domain.InternalError{Msg: "jadwal dibuat tanpa inventaris kursi", Err: err}
	}

	utils.LogEvent("", "schedule", "create", fmt.Sprintf("id=%d armada=%d berangkat=%s", sched.ID, sched.VehicleID, utils.FormatDateTime(departure)))
	return sched, nil
}

func (s *ScheduleService) Get(ctx context.Context, id int64) (*models.Schedule, error) {
	return s.Schedules.GetByID(ctx, id)
}

func (s *ScheduleService) List(ctx context.Context, f models.ScheduleFilter) ([]models.Schedule, int, error) {
	if f.Status != "" && !f.Status.Valid() {
		return nil, 0, domain.ValidationError{Field: "status_jadwal", Msg: "status tidak dikenal"}
	}
	return s.Schedules.List(ctx, f)
}

func (s *ScheduleService) Update(ctx context.Context, id int64, req UpdateScheduleRequest) (*models.Schedule, error) {
	sched, err := s.Schedules.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.DepartureTime != nil {
		departure, err := utils.ParseDateTime(*req.DepartureTime)
		if err != nil {
			return nil, domain.ValidationError{Field: "waktu_keberangkatan", Msg: "format harus YYYY-MM-DD HH:MM:SS", Err: err}
		}
		sched.DepartureTime = departure
	}
	if req.TravelEstimate != nil {
		sched.TravelEstimate = *req.TravelEstimate
	}
	if req.BasePrice != nil {
		if *req.BasePrice < 0 {
			return nil, domain.ValidationError{Field: "harga_dasar", Msg: "tidak boleh negatif"}
		}
		sched.BasePrice = *req.BasePrice
	}
	if req.Status != nil {
		if !req.Status.Valid() {
			return nil, domain.ValidationError{Field: "status_jadwal", Msg: "status tidak dikenal"}
		}
		sched.Status = *req.Status
	}

	if err := s.Schedules.Update(ctx, sched); err != nil {
		return nil, err
	}
	return sched, nil
}

func (s *ScheduleService) Delete(ctx context.Context, id int64) error {
	return s.Schedules.Delete(ctx, id)
}

// Seats builds the seat diagram payload for one schedule.
func (s *ScheduleService) Seats(ctx context.Context, scheduleID int64) (*SeatSummary, error) {
	sched, err := s.Schedules.GetByID(ctx, scheduleID)
	if err != nil {
		return nil, err
	}
	inv, err := s.Inventory.SeatMap(ctx, scheduleID)
	if err != nil {
		return nil, err
	}

	available := inv.AvailableLabels()
	return &SeatSummary{
		Schedule:  sched,
		SeatMap:   inv.Seats,
		Available: available,
		Capacity:  inv.Capacity,
		FreeCount: len(available),
		HeldCount: inv.Capacity - len(available),
	}, nil
}

// RegenerateSeats rebuilds the seat map from the assigned vehicle's
// current layout. Only allowed while no seat is held.
func (s *ScheduleService) RegenerateSeats(ctx context.Context, scheduleID int64) (*models.ScheduleInventory, error) {
	sched, err := s.Schedules.GetByID(ctx, scheduleID)
	if err != nil {
		return nil, err
	}
	vehicle, err := s.Vehicles.GetByID(ctx, sched.VehicleID)
	if err != nil {
		return nil, err
	}
	return s.Inventory.Regenerate(ctx, scheduleID, vehicle.VehicleType, vehicle.Capacity)
}
