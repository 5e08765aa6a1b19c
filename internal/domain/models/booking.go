package models

import "time"

type BookingStatus string

const (
	BookingPendingPayment BookingStatus = "MENUNGGU_PEMBAYARAN"
	BookingPaid           BookingStatus = "LUNAS"
	BookingCancelled      BookingStatus = "DIBATALKAN"
	BookingExpired        BookingStatus = "EXPIRED"
	BookingRefunded       BookingStatus = "REFUND"
)

func (s BookingStatus) Valid() bool {
	switch s {
	case BookingPendingPayment, BookingPaid, BookingCancelled, BookingExpired, BookingRefunded:
		return true
	}
	return false
}

// Terminal reports whether no further transition is allowed.
func (s BookingStatus) Terminal() bool {
	switch s {
	case BookingCancelled, BookingExpired, BookingRefunded:
		return true
	}
	return false
}

type CheckInStatus string

const (
	CheckInPending CheckInStatus = "BELUM_CHECK_IN"
	CheckInDone    CheckInStatus = "SUDAH_CHECK_IN"
	CheckInBoarded CheckInStatus = "BOARDING"
)

const (
	IdentityKTP      = "KTP"
	IdentitySIM      = "SIM"
	IdentityPassport = "PASPOR"
	IdentityStudent  = "KARTU_PELAJAR"
)

type Passenger struct {
	FullName       string        `json:"nama_lengkap"`
	IdentityType   string        `json:"tipe_identitas"`
	IdentityNumber string        `json:"nomor_identitas"`
	BirthDate      string        `json:"tanggal_lahir"`
	Gender         string        `json:"jenis_kelamin"`
	Phone          string        `json:"nomor_telepon,omitempty"`
	Email          string        `json:"email,omitempty"`
	SeatLabel      string        `json:"nomor_kursi"`
	CheckIn        CheckInStatus `json:"status_check_in"`
}

// Contact is who to reach about the booking; may differ from every passenger.
type Contact struct {
	Name  string `json:"nama"`
	Phone string `json:"nomor_telepon"`
	Email string `json:"email"`
}

const (
	PaymentTransfer   = "TRANSFER_BANK"
	PaymentQRIS       = "QRIS"
	PaymentEwallet    = "EWALLET"
	PaymentCreditCard = "CREDIT_CARD"
	PaymentCash       = "CASH"
)

func ValidPaymentMethod(m string) bool {
	switch m {
	case PaymentTransfer, PaymentQRIS, PaymentEwallet, PaymentCreditCard, PaymentCash:
		return true
	}
	return false
}

// Payment is recorded once, when a pending booking is settled.
type Payment struct {
	Method    string    `json:"metode_pembayaran"`
	Reference string    `json:"referensi_pembayaran"`
	Amount    int64     `json:"jumlah_bayar"`
	PaidAt    time.Time `json:"waktu_pembayaran"`
}

// Booking owns its passenger list and payment record. PricePerSeat is
// snapshotted from the schedule at creation and never recomputed.
type Booking struct {
	ID              string        `json:"id"`
	Code            string        `json:"kode_booking"`
	UserID          int64         `json:"user_pemesan_id"`
	ScheduleID      int64         `json:"jadwal_id"`
	Contact         Contact       `json:"kontak_darurat"`
	Passengers      []Passenger   `json:"daftar_penumpang"`
	PricePerSeat    int64         `json:"harga_per_tiket"`
	PassengerCount  int           `json:"jumlah_penumpang"`
	Total           int64         `json:"total_harga"`
	Status          BookingStatus `json:"status_pemesanan"`
	BookedAt        time.Time     `json:"waktu_pemesanan"`
	PaymentDeadline time.Time     `json:"batas_waktu_pembayaran"`
	Payment         *Payment      `json:"pembayaran,omitempty"`
	Notes           string        `json:"catatan,omitempty"`
}

// SeatLabels lists the seats this booking claims, in passenger order.
func (b *Booking) SeatLabels() []string {
	labels := make([]string, 0, len(b.Passengers))
	for i := range b.Passengers {
		labels = append(labels, b.Passengers[i].SeatLabel)
	}
	return labels
}

// IsExpired uses a strict now > deadline comparison: a payment arriving
// at the exact deadline instant still counts.
func (b *Booking) IsExpired(now time.Time) bool {
	return b.Status == BookingPendingPayment && now.After(b.PaymentDeadline)
}
