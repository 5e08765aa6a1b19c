package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"tiketku/internal/domain"
	"tiketku/internal/domain/models"
	"tiketku/internal/utils"
)

const (
	minPassengers = 1
	maxPassengers = 6
)

type CreateBookingRequest struct {
	UserID     int64              `json:"user_pemesan_id"`
	ScheduleID int64              `json:"jadwal_id"`
	Contact    models.Contact     `json:"kontak_darurat"`
	Passengers []models.Passenger `json:"daftar_penumpang"`
	Notes      string             `json:"catatan"`
}

// RefundInfo is returned when a paid booking is cancelled.
type RefundInfo struct {
	Eligible       bool   `json:"eligible"`
	Amount         int64  `json:"amount"`
	ProcessingTime string `json:"processing_time"`
}

// BookingService drives the booking lifecycle. All seat mutations go
// through the InventoryService; booking status changes go through the
// store's CAS transitions so the lazy and swept expiry paths cannot
// both release a seat.
type BookingService struct {
	Bookings  BookingStore
	Schedules ScheduleStore
	Inventory *InventoryService

	// Now is overridable in tests; zero value falls back to time.Now.
	Now           func() time.Time
	PaymentWindow time.Duration
}

func NewBookingService(bookings BookingStore, schedules ScheduleStore, inventory *InventoryService, paymentWindow time.Duration) *BookingService {
	if paymentWindow <= 0 {
		paymentWindow = 24 * time.Hour
	}
	return &BookingService{
		Bookings:      bookings,
		Schedules:     schedules,
		Inventory:     inventory,
		Now:           time.Now,
		PaymentWindow: paymentWindow,
	}
}

func (s *BookingService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Create validates the request, claims the seats, then persists the
// booking. Validation always precedes the claim so a rejected request
// never touches the inventory; a persistence failure after a
// successful claim releases the seats again.
func (s *BookingService) Create(ctx context.Context, req CreateBookingRequest) (*models.Booking, error) {
	if len(req.Passengers) < minPassengers || len(req.Passengers) > maxPassengers {
		return nil, domain.ValidationError{
			Field: "daftar_penumpang",
			Msg:   fmt.Sprintf("jumlah penumpang harus %d-%d", minPassengers, maxPassengers),
		}
	}

	labels := make([]string, 0, len(req.Passengers))
	seen := make(map[string]bool, len(req.Passengers))
	for i := range req.Passengers {
		p := &req.Passengers[i]
		p.FullName = strings.TrimSpace(p.FullName)
		if p.FullName == "" {
			return nil, domain.ValidationError{Field: "nama_lengkap", Msg: "wajib diisi"}
		}
		p.SeatLabel = utils.NormalizeSeatLabel(p.SeatLabel)
		if p.SeatLabel == "" {
			return nil, domain.ValidationError{Field: "nomor_kursi", Msg: "wajib diisi"}
		}
		if seen[p.SeatLabel] {
			return nil, domain.ValidationError{Field: "nomor_kursi", Msg: fmt.Sprintf("kursi duplikat: %s", p.SeatLabel)}
		}
		seen[p.SeatLabel] = true
		if p.CheckIn == "" {
			p.CheckIn = models.CheckInPending
		}
		labels = append(labels, p.SeatLabel)
	}

	sched, err := s.Schedules.GetByID(ctx, req.ScheduleID)
	if err != nil {
		return nil, err
	}
	if sched.Status != models.ScheduleActive {
		return nil, domain.ConflictError{Resource: "jadwal", Msg: "jadwal tidak aktif"}
	}

	now := s.now()
	b := &models.Booking{
		ID:              uuid.NewString(),
		Code:            utils.GenerateBookingCode(now),
		UserID:          req.UserID,
		ScheduleID:      req.ScheduleID,
		Contact:         req.Contact,
		Passengers:      req.Passengers,
		PricePerSeat:    sched.BasePrice,
		PassengerCount:  len(req.Passengers),
		Total:           sched.BasePrice * int64(len(req.Passengers)),
		Status:          models.BookingPendingPayment,
		BookedAt:        now,
		PaymentDeadline: now.Add(s.PaymentWindow),
		Notes:           strings.TrimSpace(req.Notes),
	}

	if err := s.Inventory.Claim(ctx, req.ScheduleID, labels, b.ID); err != nil {
		return nil, err
	}

	if err := s.Bookings.Create(ctx, b); err != nil {
		// seats were already held; hand them back before failing
		if relErr := s.Inventory.Release(ctx, req.ScheduleID, labels); relErr != nil {
			utils.LogEvent("", "booking", "rollback_release", fmt.Sprintf("jadwal=%d kursi=%v err=%v", req.ScheduleID, labels, relErr))
		}
		return nil, err
	}

	utils.LogEvent("", "booking", "create", fmt.Sprintf("kode=%s jadwal=%d kursi=%v total=%d", b.Code, b.ScheduleID, labels, b.Total))
	return b, nil
}

// Get looks a booking up by uuid or by booking code. A pending booking
// found past its deadline is expired on the spot, through the same CAS
// guard the sweeper uses.
func (s *BookingService) Get(ctx context.Context, idOrCode string) (*models.Booking, error) {
	b, err := s.lookup(ctx, idOrCode)
	if err != nil {
		return nil, err
	}

	if b.IsExpired(s.now()) {
		if err := s.expire(ctx, b); err != nil {
			return nil, err
		}
	}
	return b, nil
}

// lookup resolves a booking by uuid or by booking code.
func (s *BookingService) lookup(ctx context.Context, idOrCode string) (*models.Booking, error) {
	if _, err := uuid.Parse(idOrCode); err == nil {
		return s.Bookings.GetByID(ctx, idOrCode)
	}
	return s.Bookings.GetByCode(ctx, idOrCode)
}

// Pay settles a pending booking. Seats remain held; payment never
// touches the inventory.
func (s *BookingService) Pay(ctx context.Context, id string, method, reference string, amount int64) (*models.Booking, error) {
	b, err := s.lookup(ctx, id)
	if err != nil {
		return nil, err
	}

	switch b.Status {
	case models.BookingPaid:
		return nil, domain.ConflictError{Resource: "pemesanan", Msg: "sudah dibayar"}
	case models.BookingCancelled, models.BookingRefunded:
		return nil, domain.ConflictError{Resource: "pemesanan", Msg: "sudah dibatalkan"}
	case models.BookingExpired:
		return nil, domain.ExpiredError{}
	}

	now := s.now()
	if b.IsExpired(now) {
		if err := s.expire(ctx, b); err != nil {
			return nil, err
		}
		return nil, domain.ExpiredError{}
	}

	if !models.ValidPaymentMethod(method) {
		return nil, domain.ValidationError{Field: "metode_pembayaran", Msg: "metode tidak dikenal"}
	}
	if amount < b.Total {
		return nil, domain.ValidationError{
			Field: "jumlah_bayar",
			Msg:   fmt.Sprintf("pembayaran kurang, total %s", utils.FormatRupiah(b.Total)),
		}
	}

	payment := models.Payment{
		Method:    method,
		Reference: strings.TrimSpace(reference),
		Amount:    amount,
		PaidAt:    now,
	}
	ok, err := s.Bookings.MarkPaid(ctx, b.ID, payment)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ConflictError{Resource: "pemesanan", Msg: "status berubah, muat ulang pemesanan"}
	}

	b.Status = models.BookingPaid
	b.Payment = &payment
	utils.LogEvent("", "booking", "pay", fmt.Sprintf("kode=%s metode=%s jumlah=%d", b.Code, method, amount))
	return b, nil
}

// Cancel moves a pending booking to DIBATALKAN or a paid one to REFUND,
// then releases its seats. The transition is CAS-guarded on the status
// observed here, so a concurrent pay or expiry makes it fail cleanly.
func (s *BookingService) Cancel(ctx context.Context, id, reason string) (*models.Booking, *RefundInfo, error) {
	b, err := s.lookup(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	switch b.Status {
	case models.BookingCancelled, models.BookingRefunded:
		return nil, nil, domain.ConflictError{Resource: "pemesanan", Msg: "sudah dibatalkan"}
	case models.BookingExpired:
		return nil, nil, domain.ConflictError{Resource: "pemesanan", Msg: "sudah expired"}
	}

	// A deleted schedule only skips the departure guard; any other
	// lookup fault must not let the cancel through unchecked.
	sched, err := s.Schedules.GetByID(ctx, b.ScheduleID)
	if err != nil {
		if !domain.IsNotFound(err) {
			return nil, nil, err
		}
	} else if s.now().After(sched.DepartureTime) {
		return nil, nil, domain.ConflictError{Resource: "jadwal", Msg: "sudah berangkat, pemesanan tidak dapat dibatalkan"}
	}

	wasPaid := b.Status == models.BookingPaid
	target := models.BookingCancelled
	if wasPaid {
		target = models.BookingRefunded
	}

	note := strings.TrimSpace(reason)
	if note == "" {
		note = "tanpa alasan"
	}
	notes := strings.TrimSpace(b.Notes + "\n[CANCELLED] " + note)

	ok, err := s.Bookings.MarkCancelled(ctx, b.ID, b.Status, target, notes)
	if err != nil {
		return nil, nil, err
	}
	if !ok {
		return nil, nil, domain.ConflictError{Resource: "pemesanan", Msg: "status berubah, muat ulang pemesanan"}
	}

	// The status transition is already committed; a failed release here
	// must surface so the caller knows the seats are pending the
	// sweeper's reconciliation. Release is idempotent, retrying is safe.
	if err := s.Inventory.Release(ctx, b.ScheduleID, b.SeatLabels()); err != nil {
		utils.LogEvent("", "booking", "cancel_release", fmt.Sprintf("kode=%s err=%v", b.Code, err))
		return nil, nil, err
	}

	b.Status = target
	b.Notes = notes

	var refund *RefundInfo
	if wasPaid {
		refund = &RefundInfo{
			Eligible:       true,
			Amount:         b.Total,
			ProcessingTime: "3-5 hari kerja",
		}
	}
	utils.LogEvent("", "booking", "cancel", fmt.Sprintf("kode=%s status=%s", b.Code, target))
	return b, refund, nil
}

func (s *BookingService) ListForUser(ctx context.Context, userID int64, status models.BookingStatus, page, limit int) ([]models.Booking, int, error) {
	if status != "" && !status.Valid() {
		return nil, 0, domain.ValidationError{Field: "status", Msg: "status tidak dikenal"}
	}
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}
	return s.Bookings.ListByUser(ctx, userID, status, limit, (page-1)*limit)
}

// expire performs the CAS transition and, only when this caller won it,
// the seat release. Losing the CAS is not an error: someone else
// already settled the booking's fate.
func (s *BookingService) expire(ctx context.Context, b *models.Booking) error {
	ok, err := s.Bookings.MarkExpired(ctx, b.ID)
	if err != nil {
		return err
	}
	if !ok {
		// refresh so the caller sees whatever state won
		fresh, err := s.Bookings.GetByID(ctx, b.ID)
		if err != nil {
			return err
		}
		*b = *fresh
		return nil
	}

	b.Status = models.BookingExpired
	if err := s.Inventory.Release(ctx, b.ScheduleID, b.SeatLabels()); err != nil {
		utils.LogEvent("", "booking", "expire_release", fmt.Sprintf("kode=%s err=%v", b.Code, err))
		return err
	}
	utils.LogEvent("", "booking", "expire", fmt.Sprintf("kode=%s", b.Code))
	return nil
}
