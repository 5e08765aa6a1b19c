package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"tiketku/internal/domain"
	"tiketku/internal/domain/models"
)

type bookingFixture struct {
	svc       *BookingService
	inventory *InventoryService
	invStore  *memInventoryStore
	bookings  *memBookingStore
	schedules *memScheduleStore
	now       time.Time
}

func newBookingFixture(t *testing.T) *bookingFixture {
	t.Helper()

	now := time.Date(2026, 6, 1, 8, 0, 0, 0, time.UTC)
	schedules := newMemScheduleStore()
	sched := &models.Schedule{
		RouteID:       1,
		VehicleID:     1,
		DepartureTime: now.Add(72 * time.Hour),
		BasePrice:     50000,
		Status:        models.ScheduleActive,
	}
	require.NoError(t, schedules.Create(context.Background(), sched))

	invStore := newMemInventoryStore()
	invSvc := NewInventoryService(invStore, nil)
	_, err := invSvc.CreateForSchedule(context.Background(), sched.ID, models.VehicleBus, 40)
	require.NoError(t, err)

	bookings := newMemBookingStore()
	svc := NewBookingService(bookings, schedules, invSvc, 24*time.Hour)
	svc.Now = func() time.Time { return now }

	return &bookingFixture{
		svc:       svc,
		inventory: invSvc,
		invStore:  invStore,
		bookings:  bookings,
		schedules: schedules,
		now:       now,
	}
}

func (f *bookingFixture) createBooking(t *testing.T, seats ...string) *models.Booking {
	t.Helper()
	passengers := make([]models.Passenger, 0, len(seats))
	for _, seat := range seats {
		passengers = append(passengers, models.Passenger{
			FullName:     "Penumpang " + seat,
			IdentityType: models.IdentityKTP,
			SeatLabel:    seat,
		})
	}
	b, err := f.svc.Create(context.Background(), CreateBookingRequest{
		UserID:     7,
		ScheduleID: 1,
		Contact:    models.Contact{Name: "Budi", Phone: "0812", Email: "budi@example.com"},
		Passengers: passengers,
	})
	require.NoError(t, err)
	return b
}

func (f *bookingFixture) available(t *testing.T) int {
	t.Helper()
	inv, err := f.inventory.SeatMap(context.Background(), 1)
	require.NoError(t, err)
	return inv.Available
}

func TestCreateBooking_RoundTrip(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()

	b := f.createBooking(t, "A1", "A2")
	require.True(t, strings.HasPrefix(b.Code, "TRV"))
	require.Equal(t, models.BookingPendingPayment, b.Status)
	require.Equal(t, int64(100000), b.Total)
	require.Equal(t, 2, b.PassengerCount)
	require.Equal(t, f.now.Add(24*time.Hour), b.PaymentDeadline)
	require.Equal(t, models.CheckInPending, b.Passengers[0].CheckIn)
	require.Equal(t, 38, f.available(t))

	ok, err := f.inventory.IsAvailable(ctx, 1, "A1")
	require.NoError(t, err)
	require.False(t, ok)

	_, _, err = f.svc.Cancel(ctx, b.ID, "berubah rencana")
	require.NoError(t, err)
	require.Equal(t, 40, f.available(t))
}

func TestCreateBooking_PassengerCountBounds(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, CreateBookingRequest{ScheduleID: 1})
	require.True(t, domain.IsValidation(err))

	passengers := make([]models.Passenger, 7)
	for i := range passengers {
		passengers[i] = models.Passenger{FullName: "P", SeatLabel: "A1"}
	}
	_, err = f.svc.Create(ctx, CreateBookingRequest{ScheduleID: 1, Passengers: passengers})
	require.True(t, domain.IsValidation(err))

	// rejected requests never touch the inventory
	require.Equal(t, 40, f.available(t))
}

func TestCreateBooking_DuplicateSeatInRequest(t *testing.T) {
	f := newBookingFixture(t)
	_, err := f.svc.Create(context.Background(), CreateBookingRequest{
		ScheduleID: 1,
		Passengers: []models.Passenger{
			{FullName: "Budi", SeatLabel: "a1"},
			{FullName: "Sari", SeatLabel: "A1 "},
		},
	})
	require.True(t, domain.IsValidation(err), "normalized labels must collide, got %v", err)
	require.Equal(t, 40, f.available(t))
}

func TestCreateBooking_SeatAlreadyHeld(t *testing.T) {
	f := newBookingFixture(t)
	f.createBooking(t, "A1")

	_, err := f.svc.Create(context.Background(), CreateBookingRequest{
		ScheduleID: 1,
		Passengers: []models.Passenger{{FullName: "Sari", SeatLabel: "A1"}},
	})
	require.True(t, domain.IsConflict(err))
}

func TestCreateBooking_InactiveSchedule(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()

	sched, err := f.schedules.GetByID(ctx, 1)
	require.NoError(t, err)
	sched.Status = models.ScheduleCancelled
	require.NoError(t, f.schedules.Update(ctx, sched))

	_, err = f.svc.Create(ctx, CreateBookingRequest{
		ScheduleID: 1,
		Passengers: []models.Passenger{{FullName: "Budi", SeatLabel: "A1"}},
	})
	require.True(t, domain.IsConflict(err))
	require.Equal(t, 40, f.available(t))
}

func TestCreateBooking_ReleasesSeatsWhenPersistFails(t *testing.T) {
	f := newBookingFixture(t)
	f.bookings.failCreate = true

	_, err := f.svc.Create(context.Background(), CreateBookingRequest{
		ScheduleID: 1,
		Passengers: []models.Passenger{{FullName: "Budi", SeatLabel: "A1"}},
	})
	require.Error(t, err)
	require.Equal(t, 40, f.available(t))
}

func TestPay_Settles(t *testing.T) {
	f := newBookingFixture(t)
	b := f.createBooking(t, "B1")

	paid, err := f.svc.Pay(context.Background(), b.ID, models.PaymentQRIS, "QR-123", b.Total)
	require.NoError(t, err)
	require.Equal(t, models.BookingPaid, paid.Status)
	require.NotNil(t, paid.Payment)
	require.Equal(t, b.Total, paid.Payment.Amount)

	// seats stay held after payment
	require.Equal(t, 39, f.available(t))
}

func TestPay_AtExactDeadlineStillCounts(t *testing.T) {
	f := newBookingFixture(t)
	b := f.createBooking(t, "B2")

	f.svc.Now = func() time.Time { return b.PaymentDeadline }
	paid, err := f.svc.Pay(context.Background(), b.ID, models.PaymentTransfer, "TRF-1", b.Total)
	require.NoError(t, err)
	require.Equal(t, models.BookingPaid, paid.Status)
}

func TestPay_PastDeadlineExpiresAndReleases(t *testing.T) {
	f := newBookingFixture(t)
	b := f.createBooking(t, "B3")
	require.Equal(t, 39, f.available(t))

	f.svc.Now = func() time.Time { return b.PaymentDeadline.Add(time.Second) }
	_, err := f.svc.Pay(context.Background(), b.ID, models.PaymentTransfer, "TRF-2", b.Total)
	require.True(t, domain.IsExpired(err))

	stored, err := f.bookings.GetByID(context.Background(), b.ID)
	require.NoError(t, err)
	require.Equal(t, models.BookingExpired, stored.Status)
	require.Equal(t, 40, f.available(t))
}

func TestPay_InsufficientAmount(t *testing.T) {
	f := newBookingFixture(t)
	b := f.createBooking(t, "C1", "C2")

	_, err := f.svc.Pay(context.Background(), b.ID, models.PaymentCash, "", b.Total-1)
	require.True(t, domain.IsValidation(err))
}

func TestPay_UnknownMethod(t *testing.T) {
	f := newBookingFixture(t)
	b := f.createBooking(t, "C3")

	_, err := f.svc.Pay(context.Background(), b.ID, "PULSA", "", b.Total)
	require.True(t, domain.IsValidation(err))
}

func TestPay_AlreadyPaid(t *testing.T) {
	f := newBookingFixture(t)
	b := f.createBooking(t, "C4")

	_, err := f.svc.Pay(context.Background(), b.ID, models.PaymentQRIS, "QR-1", b.Total)
	require.NoError(t, err)

	_, err = f.svc.Pay(context.Background(), b.ID, models.PaymentQRIS, "QR-2", b.Total)
	require.True(t, domain.IsConflict(err))
}

func TestCancel_PaidBecomesRefund(t *testing.T) {
	f := newBookingFixture(t)
	b := f.createBooking(t, "D1")

	_, err := f.svc.Pay(context.Background(), b.ID, models.PaymentEwallet, "EW-1", b.Total)
	require.NoError(t, err)

	cancelled, refund, err := f.svc.Cancel(context.Background(), b.ID, "jadwal bentrok")
	require.NoError(t, err)
	require.Equal(t, models.BookingRefunded, cancelled.Status)
	require.Contains(t, cancelled.Notes, "[CANCELLED] jadwal bentrok")
	require.NotNil(t, refund)
	require.True(t, refund.Eligible)
	require.Equal(t, b.Total, refund.Amount)
	require.Equal(t, 40, f.available(t))
}

func TestCancel_PendingNoRefundInfo(t *testing.T) {
	f := newBookingFixture(t)
	b := f.createBooking(t, "D2")

	cancelled, refund, err := f.svc.Cancel(context.Background(), b.ID, "")
	require.NoError(t, err)
	require.Equal(t, models.BookingCancelled, cancelled.Status)
	require.Nil(t, refund)
}

func TestCancel_AfterDeparture(t *testing.T) {
	f := newBookingFixture(t)
	b := f.createBooking(t, "D3")

	f.svc.Now = func() time.Time { return f.now.Add(100 * time.Hour) }
	_, _, err := f.svc.Cancel(context.Background(), b.ID, "terlambat")
	require.True(t, domain.IsConflict(err))
}

func TestCancel_Twice(t *testing.T) {
	f := newBookingFixture(t)
	b := f.createBooking(t, "D4")

	_, _, err := f.svc.Cancel(context.Background(), b.ID, "x")
	require.NoError(t, err)
	_, _, err = f.svc.Cancel(context.Background(), b.ID, "x")
	require.True(t, domain.IsConflict(err))
}

func TestGet_ByCodeAndLazyExpiry(t *testing.T) {
	f := newBookingFixture(t)
	b := f.createBooking(t, "E1")

	got, err := f.svc.Get(context.Background(), b.Code)
	require.NoError(t, err)
	require.Equal(t, b.ID, got.ID)

	f.svc.Now = func() time.Time { return b.PaymentDeadline.Add(time.Minute) }
	got, err = f.svc.Get(context.Background(), b.Code)
	require.NoError(t, err)
	require.Equal(t, models.BookingExpired, got.Status)
	require.Equal(t, 40, f.available(t))
}

func TestGet_LazyExpiryReleaseFaultSurfacesAndHeals(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()
	b := f.createBooking(t, "A1")

	f.svc.Now = func() time.Time { return b.PaymentDeadline.Add(time.Minute) }
	f.invStore.saveErr = errors.New("store unavailable")

	_, err := f.svc.Get(ctx, b.Code)
	require.Error(t, err)

	// the expiry transition is committed, the seat is not freed yet
	stored, err := f.bookings.GetByID(ctx, b.ID)
	require.NoError(t, err)
	require.Equal(t, models.BookingExpired, stored.Status)
	avail, err := f.inventory.IsAvailable(ctx, 1, "A1")
	require.NoError(t, err)
	require.False(t, avail)

	// once the store recovers the sweep reconciles the stranded seat
	f.invStore.saveErr = nil
	sweeper := NewExpiryService(f.bookings, f.inventory, time.Minute)
	sweeper.Now = f.svc.Now
	require.Equal(t, 0, sweeper.Sweep(ctx))

	free, err := f.inventory.IsAvailable(ctx, 1, "A1")
	require.NoError(t, err)
	require.True(t, free)
	require.Equal(t, 40, f.available(t))
}

func TestCancel_ReleaseFaultSurfaces(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()
	b := f.createBooking(t, "B1")

	f.invStore.saveErr = errors.New("store unavailable")
	_, _, err := f.svc.Cancel(ctx, b.ID, "batal")
	require.Error(t, err)
	require.False(t, domain.IsConflict(err))

	stored, err := f.bookings.GetByID(ctx, b.ID)
	require.NoError(t, err)
	require.Equal(t, models.BookingCancelled, stored.Status)
}

func TestCancel_ScheduleLookupFaultBlocks(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()
	b := f.createBooking(t, "B2")

	f.schedules.getErr = errors.New("db down")
	_, _, err := f.svc.Cancel(ctx, b.ID, "batal")
	require.Error(t, err)

	stored, err := f.bookings.GetByID(ctx, b.ID)
	require.NoError(t, err)
	require.Equal(t, models.BookingPendingPayment, stored.Status)
	require.Equal(t, 39, f.available(t))
}

func TestCancel_OrphanedScheduleStillCancels(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()
	b := f.createBooking(t, "B3")

	require.NoError(t, f.schedules.Delete(ctx, 1))
	got, _, err := f.svc.Cancel(ctx, b.ID, "jadwal dihapus")
	require.NoError(t, err)
	require.Equal(t, models.BookingCancelled, got.Status)
}

func TestListForUser_Pagination(t *testing.T) {
	f := newBookingFixture(t)
	f.createBooking(t, "F1")
	f.createBooking(t, "F2")
	f.createBooking(t, "F3")

	page, total, err := f.svc.ListForUser(context.Background(), 7, "", 1, 2)
	require.NoError(t, err)
	require.Equal(t, 3, total)
	require.Len(t, page, 2)

	_, _, err = f.svc.ListForUser(context.Background(), 7, "BUKAN_STATUS", 1, 10)
	require.True(t, domain.IsValidation(err))
}
