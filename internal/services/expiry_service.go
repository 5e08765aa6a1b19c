package services

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"tiketku/internal/domain"
	"tiketku/internal/domain/models"
	"tiketku/internal/utils"
)

// ExpiryService sweeps overdue pending bookings in the background. It
// shares the MarkExpired CAS with the lazy read path, so finding a
// booking that something else already handled is a skip, not a fault.
type ExpiryService struct {
	Bookings  BookingStore
	Inventory *InventoryService
	Interval  time.Duration

	Now func() time.Time

	cron *cron.Cron
}

func NewExpiryService(bookings BookingStore, inventory *InventoryService, interval time.Duration) *ExpiryService {
	if interval <= 0 {
		interval = time.Minute
	}
	return &ExpiryService{
		Bookings:  bookings,
		Inventory: inventory,
		Interval:  interval,
		Now:       time.Now,
	}
}

func (s *ExpiryService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Start schedules the sweep. Sweeps run sequentially; an overrun simply
// delays the next tick.
func (s *ExpiryService) Start() error {
	s.cron = cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	_, err := s.cron.AddFunc(fmt.Sprintf("@every %s", s.Interval), func() {
		s.Sweep(context.Background())
	})
	if err != nil {
		return err
	}
	s.cron.Start()
	utils.LogEvent("", "expiry", "start", fmt.Sprintf("interval=%s", s.Interval))
	return nil
}

func (s *ExpiryService) Stop() {
	if s.cron != nil {
		<-s.cron.Stop().Done()
		utils.LogEvent("", "expiry", "stop", "sweeper berhenti")
	}
}

// Sweep expires every overdue pending booking it can win the CAS for
// and releases the seats of those it won, then reconciles any seat
// still held by a booking that is already terminal. Returns how many
// bookings this sweep actually expired.
func (s *ExpiryService) Sweep(ctx context.Context) int {
	overdue, err := s.Bookings.ListOverdue(ctx, s.now())
	if err != nil {
		utils.LogEvent("", "expiry", "sweep", fmt.Sprintf("gagal ambil pemesanan overdue: %v", err))
		return 0
	}

	expired := 0
	for i := range overdue {
		b := &overdue[i]
		won, err := s.Bookings.MarkExpired(ctx, b.ID)
		if err != nil {
			utils.LogEvent("", "expiry", "sweep", fmt.Sprintf("booking=%s err=%v", b.ID, err))
			continue
		}
		if !won {
			continue
		}
		if err := s.Inventory.Release(ctx, b.ScheduleID, b.SeatLabels()); err != nil {
			utils.LogEvent("", "expiry", "sweep_release", fmt.Sprintf("booking=%s err=%v", b.ID, err))
		}
		expired++
	}

	if expired > 0 {
		utils.LogEvent("", "expiry", "sweep", fmt.Sprintf("expired=%d dari %d kandidat", expired, len(overdue)))
	}

	s.reconcile(ctx)
	return expired
}

// reconcile frees seats whose holding booking already reached a
// terminal state, healing releases that failed after a won expiry or
// cancel transition. Seats whose booking row does not exist yet are
// left alone: claims land before the booking insert, so absence can
// mean a create still in flight.
func (s *ExpiryService) reconcile(ctx context.Context) {
	held, err := s.Inventory.Held(ctx)
	if err != nil {
		utils.LogEvent("", "expiry", "reconcile", fmt.Sprintf("gagal ambil inventaris: %v", err))
		return
	}

	for i := range held {
		inv := &held[i]
		byBooking := map[string][]string{}
		for _, seat := range inv.Seats {
			if seat.Status == models.SeatHeld && seat.BookingID != "" {
				byBooking[seat.BookingID] = append(byBooking[seat.BookingID], seat.Label)
			}
		}

		for bookingID, labels := range byBooking {
			b, err := s.Bookings.GetByID(ctx, bookingID)
			if err != nil {
				if !domain.IsNotFound(err) {
					utils.LogEvent("", "expiry", "reconcile", fmt.Sprintf("booking=%s err=%v", bookingID, err))
				}
				continue
			}
			if !b.Status.Terminal() {
				continue
			}
			if err := s.Inventory.Release(ctx, inv.ScheduleID, labels); err != nil {
				utils.LogEvent("", "expiry", "reconcile_release", fmt.Sprintf("booking=%s err=%v", bookingID, err))
				continue
			}
			utils.LogEvent("", "expiry", "reconcile", fmt.Sprintf("jadwal=%d kursi=%v booking=%s status=%s", inv.ScheduleID, labels, bookingID, b.Status))
		}
	}
}
