package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"tiketku/internal/domain"
	"tiketku/internal/domain/models"
)

// In-memory stores backing the service tests. They copy on read and
// write so tests see the same aliasing the SQL stores would give, and
// the inventory store enforces the same version compare-and-set.

type memInventoryStore struct {
	mu      sync.Mutex
	docs    map[int64]*models.ScheduleInventory
	saveErr error
}

func newMemInventoryStore() *memInventoryStore {
	return &memInventoryStore{docs: map[int64]*models.ScheduleInventory{}}
}

func copyInventory(inv *models.ScheduleInventory) *models.ScheduleInventory {
	out := *inv
	out.Seats = make([]models.Seat, len(inv.Seats))
	copy(out.Seats, inv.Seats)
	return &out
}

func (s *memInventoryStore) Create(_ context.Context, inv *models.ScheduleInventory) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.docs[inv.ScheduleID]; ok {
		return domain.ConflictError{Resource: "inventaris kursi", Msg: "sudah ada untuk jadwal ini"}
	}
	inv.Version = 1
	s.docs[inv.ScheduleID] = copyInventory(inv)
	return nil
}

func (s *memInventoryStore) GetBySchedule(_ context.Context, scheduleID int64) (*models.ScheduleInventory, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	inv, ok := s.docs[scheduleID]
	if !ok {
		return nil, domain.NotFoundError{Resource: "inventaris kursi"}
	}
	return copyInventory(inv), nil
}

func (s *memInventoryStore) ListHeld(_ context.Context) ([]models.ScheduleInventory, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.ScheduleInventory
	for _, inv := range s.docs {
		if inv.Available < inv.Capacity {
			out = append(out, *copyInventory(inv))
		}
	}
	return out, nil
}

func (s *memInventoryStore) Save(_ context.Context, inv *models.ScheduleInventory) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveErr != nil {
		return s.saveErr
	}
	stored, ok := s.docs[inv.ScheduleID]
	if !ok || stored.Version != inv.Version {
		return domain.ConflictError{Resource: "inventaris kursi", Msg: "versi berubah, ulangi operasi"}
	}
	inv.Version++
	s.docs[inv.ScheduleID] = copyInventory(inv)
	return nil
}

type memBookingStore struct {
	mu         sync.Mutex
	byID       map[string]*models.Booking
	failCreate bool
}

func newMemBookingStore() *memBookingStore {
	return &memBookingStore{byID: map[string]*models.Booking{}}
}

func copyBooking(b *models.Booking) *models.Booking {
	out := *b
	out.Passengers = make([]models.Passenger, len(b.Passengers))
	copy(out.Passengers, b.Passengers)
	if b.Payment != nil {
		p := *b.Payment
		out.Payment = &p
	}
	return &out
}

func (s *memBookingStore) Create(_ context.Context, b *models.Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failCreate {
		return errors.New("store unavailable")
	}
	for _, existing := range s.byID {
		if existing.Code == b.Code {
			return domain.ConflictError{Resource: "kode booking", Msg: b.Code + " sudah terpakai"}
		}
	}
	s.byID[b.ID] = copyBooking(b)
	return nil
}

func (s *memBookingStore) GetByID(_ context.Context, id string) (*models.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.byID[id]
	if !ok {
		return nil, domain.NotFoundError{Resource: "pemesanan"}
	}
	return copyBooking(b), nil
}

func (s *memBookingStore) GetByCode(_ context.Context, code string) (*models.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, b := range s.byID {
		if b.Code == code {
			return copyBooking(b), nil
		}
	}
	return nil, domain.NotFoundError{Resource: "pemesanan"}
}

func (s *memBookingStore) ListByUser(_ context.Context, userID int64, status models.BookingStatus, limit, offset int) ([]models.Booking, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var all []models.Booking
	for _, b := range s.byID {
		if b.UserID != userID {
			continue
		}
		if status != "" && b.Status != status {
			continue
		}
		all = append(all, *copyBooking(b))
	}
	total := len(all)
	if offset >= len(all) {
		return nil, total, nil
	}
	all = all[offset:]
	if limit < len(all) {
		all = all[:limit]
	}
	return all, total, nil
}

func (s *memBookingStore) MarkPaid(_ context.Context, id string, p models.Payment) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.byID[id]
	if !ok || b.Status != models.BookingPendingPayment {
		return false, nil
	}
	b.Status = models.BookingPaid
	pay := p
	b.Payment = &pay
	return true, nil
}

func (s *memBookingStore) MarkExpired(_ context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.byID[id]
	if !ok || b.Status != models.BookingPendingPayment {
		return false, nil
	}
	b.Status = models.BookingExpired
	return true, nil
}

func (s *memBookingStore) MarkCancelled(_ context.Context, id string, from, to models.BookingStatus, notes string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.byID[id]
	if !ok || b.Status != from {
		return false, nil
	}
	b.Status = to
	b.Notes = notes
	return true, nil
}

func (s *memBookingStore) ListOverdue(_ context.Context, now time.Time) ([]models.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Booking
	for _, b := range s.byID {
		if b.Status == models.BookingPendingPayment && b.PaymentDeadline.Before(now) {
			out = append(out, *copyBooking(b))
		}
	}
	return out, nil
}

type memScheduleStore struct {
	mu     sync.Mutex
	byID   map[int64]*models.Schedule
	nextID int64
	getErr error
}

func newMemScheduleStore() *memScheduleStore {
	return &memScheduleStore{byID: map[int64]*models.Schedule{}, nextID: 1}
}

func (s *memScheduleStore) Create(_ context.Context, sched *models.Schedule) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sched.ID = s.nextID
	s.nextID++
	cp := *sched
	s.byID[sched.ID] = &cp
	return nil
}

func (s *memScheduleStore) GetByID(_ context.Context, id int64) (*models.Schedule, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.getErr != nil {
		return nil, s.getErr
	}
	sched, ok := s.byID[id]
	if !ok {
		return nil, domain.NotFoundError{Resource: "jadwal"}
	}
	cp := *sched
	return &cp, nil
}

func (s *memScheduleStore) List(_ context.Context, f models.ScheduleFilter) ([]models.Schedule, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Schedule
	for _, sched := range s.byID {
		if f.Status != "" && sched.Status != f.Status {
			continue
		}
		out = append(out, *sched)
	}
	return out, len(out), nil
}

func (s *memScheduleStore) Update(_ context.Context, sched *models.Schedule) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[sched.ID]; !ok {
		return domain.NotFoundError{Resource: "jadwal"}
	}
	cp := *sched
	s.byID[sched.ID] = &cp
	return nil
}

func (s *memScheduleStore) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[id]; !ok {
		return domain.NotFoundError{Resource: "jadwal"}
	}
	delete(s.byID, id)
	return nil
}

func (s *memScheduleStore) HasVehicleConflict(_ context.Context, vehicleID int64, departure time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sched := range s.byID {
		if sched.VehicleID != vehicleID {
			continue
		}
		if !sched.DepartureTime.Equal(departure) {
			continue
		}
		if sched.Status == models.ScheduleActive || sched.Status == models.ScheduleDelayed {
			return true, nil
		}
	}
	return false, nil
}

type memVehicleStore struct {
	byID map[int64]*models.Vehicle
}

func (s memVehicleStore) GetByID(_ context.Context, id int64) (*models.Vehicle, error) {
	v, ok := s.byID[id]
	if !ok {
		return nil, domain.NotFoundError{Resource: "armada"}
	}
	cp := *v
	return &cp, nil
}

type memRouteStore struct {
	byID map[int64]*models.Route
}

func (s memRouteStore) GetByID(_ context.Context, id int64) (*models.Route, error) {
	rt, ok := s.byID[id]
	if !ok {
		return nil, domain.NotFoundError{Resource: "rute"}
	}
	cp := *rt
	return &cp, nil
}
