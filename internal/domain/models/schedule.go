package models

import "time"

const (
	VehicleBus     = "BUS"
	VehicleMiniBus = "MINI_BUS"
	VehicleTravel  = "TRAVEL"
	VehicleTrain   = "KERETA"
)

const (
	VehicleActive      = "AKTIF"
	VehicleMaintenance = "MAINTENANCE"
	VehicleInactive    = "NONAKTIF"
)

type Vehicle struct {
	ID          int64  `json:"id"`
	VehicleType string `json:"tipe_kendaraan"`
	Capacity    int    `json:"kapasitas"`
	PlateNumber string `json:"nomor_plat"`
	Status      string `json:"status"`
}

type Route struct {
	ID            int64  `json:"id"`
	Origin        string `json:"lokasi_keberangkatan"`
	Destination   string `json:"lokasi_tujuan"`
	DepartureDate string `json:"tanggal_keberangkatan"`
}

type ScheduleStatus string

const (
	ScheduleActive    ScheduleStatus = "AKTIF"
	ScheduleCancelled ScheduleStatus = "BATAL"
	ScheduleFinished  ScheduleStatus = "SELESAI"
	ScheduleDelayed   ScheduleStatus = "DELAY"
)

func (s ScheduleStatus) Valid() bool {
	switch s {
	case ScheduleActive, ScheduleCancelled, ScheduleFinished, ScheduleDelayed:
		return true
	}
	return false
}

// Schedule is one departure of a route operated by one vehicle.
// Origin/Destination/VehicleType/VehicleCapacity are display fields
// filled from joins on read paths.
type Schedule struct {
	ID             int64          `json:"id"`
	RouteID        int64          `json:"rute_id"`
	VehicleID      int64          `json:"armada_id"`
	DepartureTime  time.Time      `json:"waktu_keberangkatan"`
	TravelEstimate string         `json:"estimasi_waktu_perjalanan"`
	BasePrice      int64          `json:"harga_dasar"`
	Status         ScheduleStatus `json:"status_jadwal"`

	Origin          string `json:"lokasi_keberangkatan,omitempty"`
	Destination     string `json:"lokasi_tujuan,omitempty"`
	VehicleType     string `json:"tipe_kendaraan,omitempty"`
	VehicleCapacity int    `json:"kapasitas,omitempty"`
}

// ScheduleFilter narrows schedule listings; zero values mean "any".
type ScheduleFilter struct {
	Origin      string
	Destination string
	Date        string // YYYY-MM-DD, matched against departure_time
	Status      ScheduleStatus
	Limit       int
	Offset      int
}
