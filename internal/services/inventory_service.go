package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"tiketku/internal/domain"
	"tiketku/internal/domain/models"
	"tiketku/internal/utils"
)

const seatCacheTTL = 30 * time.Second

// InventoryService owns all seat mutations. Claim and Release on one
// schedule run inside that schedule's critical section; the store's
// versioned Save is the backstop against writers outside this process.
type InventoryService struct {
	Store InventoryStore
	Cache *redis.Client

	locks *scheduleLocks
}

func NewInventoryService(store InventoryStore, cache *redis.Client) *InventoryService {
	return &InventoryService{
		Store: store,
		Cache: cache,
		locks: newScheduleLocks(),
	}
}

func seatCacheKey(scheduleID int64) string {
	return fmt.Sprintf("seats:%d", scheduleID)
}

// CreateForSchedule builds and persists a fresh all-available inventory.
func (s *InventoryService) CreateForSchedule(ctx context.Context, scheduleID int64, vehicleType string, capacity int) (*models.ScheduleInventory, error) {
	inv, err := models.NewScheduleInventory(scheduleID, vehicleType, capacity)
	if err != nil {
		return nil, err
	}
	if err := s.Store.Create(ctx, inv); err != nil {
		return nil, err
	}
	return inv, nil
}

// Claim holds every requested seat for the booking, or none of them.
func (s *InventoryService) Claim(ctx context.Context, scheduleID int64, labels []string, bookingID string) error {
	if len(labels) == 0 {
		return domain.ValidationError{Field: "kursi", Msg: "tidak ada kursi yang dipilih"}
	}

	unlock := s.locks.acquire(scheduleID)
	defer unlock()

	inv, err := s.Store.GetBySchedule(ctx, scheduleID)
	if err != nil {
		return err
	}
	if err := inv.Claim(labels, bookingID); err != nil {
		return err
	}
	if err := s.Store.Save(ctx, inv); err != nil {
		return err
	}

	s.invalidate(ctx, scheduleID)
	utils.LogEvent("", "inventory", "claim", fmt.Sprintf("jadwal=%d kursi=%v booking=%s", scheduleID, labels, bookingID))
	return nil
}

// Release is idempotent: labels that are not currently held are skipped
// and a fully redundant call never touches the store.
func (s *InventoryService) Release(ctx context.Context, scheduleID int64, labels []string) error {
	if len(labels) == 0 {
		return nil
	}

	unlock := s.locks.acquire(scheduleID)
	defer unlock()

	inv, err := s.Store.GetBySchedule(ctx, scheduleID)
	if err != nil {
		return err
	}
	released := inv.Release(labels)
	if released == 0 {
		return nil
	}
	if err := s.Store.Save(ctx, inv); err != nil {
		return err
	}

	s.invalidate(ctx, scheduleID)
	utils.LogEvent("", "inventory", "release", fmt.Sprintf("jadwal=%d kursi=%v dilepas=%d", scheduleID, labels, released))
	return nil
}

func (s *InventoryService) IsAvailable(ctx context.Context, scheduleID int64, label string) (bool, error) {
	inv, err := s.Store.GetBySchedule(ctx, scheduleID)
	if err != nil {
		return false, err
	}
	return inv.IsAvailable(label), nil
}

// AvailableSeats lists TERSEDIA labels in declaration order, via the
// cache when one is configured. The cache is only repopulated inside
// the schedule's critical section so a delete by a concurrent claim
// always lands after the stale write, never before.
func (s *InventoryService) AvailableSeats(ctx context.Context, scheduleID int64) ([]string, error) {
	if s.Cache != nil {
		if raw, err := s.Cache.Get(ctx, seatCacheKey(scheduleID)).Result(); err == nil {
			var labels []string
			if json.Unmarshal([]byte(raw), &labels) == nil {
				return labels, nil
			}
		}
	}

	unlock := s.locks.acquire(scheduleID)
	defer unlock()

	inv, err := s.Store.GetBySchedule(ctx, scheduleID)
	if err != nil {
		return nil, err
	}
	labels := inv.AvailableLabels()

	if s.Cache != nil {
		if raw, err := json.Marshal(labels); err == nil {
			s.Cache.Set(ctx, seatCacheKey(scheduleID), raw, seatCacheTTL)
		}
	}
	return labels, nil
}

// Held lists every inventory that still has TERISI seats.
func (s *InventoryService) Held(ctx context.Context) ([]models.ScheduleInventory, error) {
	return s.Store.ListHeld(ctx)
}

// SeatMap returns the full inventory snapshot for seat diagrams.
func (s *InventoryService) SeatMap(ctx context.Context, scheduleID int64) (*models.ScheduleInventory, error) {
	return s.Store.GetBySchedule(ctx, scheduleID)
}

// Regenerate rebuilds the seat map from the vehicle layout, for repair
// tooling. It refuses to run while any seat is held: regeneration would
// orphan the holding bookings.
func (s *InventoryService) Regenerate(ctx context.Context, scheduleID int64, vehicleType string, capacity int) (*models.ScheduleInventory, error) {
	if capacity <= 0 {
		return nil, domain.ValidationError{Field: "kapasitas", Msg: "harus lebih dari 0"}
	}

	unlock := s.locks.acquire(scheduleID)
	defer unlock()

	inv, err := s.Store.GetBySchedule(ctx, scheduleID)
	if err != nil {
		return nil, err
	}
	for i := range inv.Seats {
		if inv.Seats[i].Status == models.SeatHeld {
			return nil, domain.ConflictError{Resource: "inventaris kursi", Msg: fmt.Sprintf("kursi %s masih terisi", inv.Seats[i].Label)}
		}
	}

	inv.Capacity = capacity
	inv.Available = capacity
	inv.Seats = models.GenerateSeatMap(vehicleType, capacity)
	if err := s.Store.Save(ctx, inv); err != nil {
		return nil, err
	}

	s.invalidate(ctx, scheduleID)
	utils.LogEvent("", "inventory", "regenerate", fmt.Sprintf("jadwal=%d kapasitas=%d", scheduleID, capacity))
	return inv, nil
}

func (s *InventoryService) invalidate(ctx context.Context, scheduleID int64) {
	if s.Cache == nil {
		return
	}
	if err := s.Cache.Del(ctx, seatCacheKey(scheduleID)).Err(); err != nil {
		utils.LogEvent("", "inventory", "cache_del", fmt.Sprintf("jadwal=%d err=%v", scheduleID, err))
	}
}
