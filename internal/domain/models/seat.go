package models

import (
	"fmt"
	"strconv"

	"tiketku/internal/domain"
)

type SeatStatus string

const (
	SeatAvailable   SeatStatus = "TERSEDIA"
	SeatHeld        SeatStatus = "TERISI"
	SeatUnavailable SeatStatus = "TIDAK_TERSEDIA"
)

// Seat is one entry of a schedule's seat map. BookingID is set only
// while the seat is held by an active booking.
type Seat struct {
	Label     string     `json:"nomor_kursi"`
	Status    SeatStatus `json:"status_kursi"`
	BookingID string     `json:"booking_id,omitempty"`
}

var busRows = []string{"A", "B", "C", "D", "E", "F", "G", "H", "I", "J", "K", "L", "M", "N", "O"}

// GenerateSeatMap builds the seat labels for a vehicle class. BUS uses
// 2-2 row seating (A1..A4, B1..B4, ...); every other class gets plain
// sequential numbers. The layout is a pure function of (class, capacity)
// so regenerating an inventory reproduces identical labels.
func GenerateSeatMap(vehicleType string, capacity int) []Seat {
	seats := make([]Seat, 0, capacity)

	if vehicleType == VehicleBus {
		for i := 0; i < len(busRows) && len(seats) < capacity; i++ {
			for j := 1; j <= 4 && len(seats) < capacity; j++ {
				seats = append(seats, Seat{
					Label:  busRows[i] + strconv.Itoa(j),
					Status: SeatAvailable,
				})
			}
		}
		return seats
	}

	for i := 1; i <= capacity; i++ {
		seats = append(seats, Seat{
			Label:  strconv.Itoa(i),
			Status: SeatAvailable,
		})
	}
	return seats
}

// ScheduleInventory is the per-schedule seat document. Available is
// cached for O(1) reads and must always equal the number of TERSEDIA
// seats. Version backs the compare-and-set save in the store.
type ScheduleInventory struct {
	ScheduleID int64  `json:"jadwal_id"`
	Capacity   int    `json:"kapasitas"`
	Available  int    `json:"kursi_tersedia"`
	Seats      []Seat `json:"peta_kursi"`
	Version    int    `json:"-"`
}

func NewScheduleInventory(scheduleID int64, vehicleType string, capacity int) (*ScheduleInventory, error) {
	if capacity <= 0 {
		return nil, domain.ValidationError{Field: "kapasitas", Msg: "harus lebih dari 0"}
	}
	return &ScheduleInventory{
		ScheduleID: scheduleID,
		Capacity:   capacity,
		Available:  capacity,
		Seats:      GenerateSeatMap(vehicleType, capacity),
	}, nil
}

func (inv *ScheduleInventory) seat(label string) *Seat {
	for i := range inv.Seats {
		if inv.Seats[i].Label == label {
			return &inv.Seats[i]
		}
	}
	return nil
}

func (inv *ScheduleInventory) IsAvailable(label string) bool {
	s := inv.seat(label)
	return s != nil && s.Status == SeatAvailable
}

// AvailableLabels lists TERSEDIA seats in declaration order.
func (inv *ScheduleInventory) AvailableLabels() []string {
	labels := make([]string, 0, inv.Available)
	for i := range inv.Seats {
		if inv.Seats[i].Status == SeatAvailable {
			labels = append(labels, inv.Seats[i].Label)
		}
	}
	return labels
}

// Claim marks every requested seat TERISI for the given booking. The
// whole set is checked before anything is mutated: if a single label is
// unknown or not available the inventory is left untouched.
func (inv *ScheduleInventory) Claim(labels []string, bookingID string) error {
	for _, label := range labels {
		s := inv.seat(label)
		if s == nil {
			return domain.NotFoundError{Resource: fmt.Sprintf("kursi %s", label)}
		}
		if s.Status != SeatAvailable {
			return domain.ConflictError{Resource: "kursi", Msg: fmt.Sprintf("kursi %s tidak tersedia", label)}
		}
	}
	for _, label := range labels {
		s := inv.seat(label)
		s.Status = SeatHeld
		s.BookingID = bookingID
	}
	inv.Available -= len(labels)
	return nil
}

// Release returns held seats to TERSEDIA and reports how many actually
// changed. Labels that are unknown or not held are skipped, so a second
// release of the same set is a no-op.
func (inv *ScheduleInventory) Release(labels []string) int {
	released := 0
	for _, label := range labels {
		s := inv.seat(label)
		if s == nil || s.Status != SeatHeld {
			continue
		}
		s.Status = SeatAvailable
		s.BookingID = ""
		released++
	}
	inv.Available += released
	return released
}
