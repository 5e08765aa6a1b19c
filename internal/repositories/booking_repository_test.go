package repositories

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"

	"tiketku/internal/domain"
	"tiketku/internal/domain/models"
)

var bookingTestColumns = []string{
	"id", "code", "user_id", "schedule_id",
	"contact_name", "contact_phone", "contact_email",
	"passengers", "price_per_seat", "passenger_count", "total",
	"status", "booked_at", "payment_deadline",
	"payment_method", "payment_reference", "payment_amount", "paid_at",
	"notes",
}

func TestBookingCreate_DuplicateCode(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("INSERT INTO bookings").
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "duplicate"})

	repo := BookingRepository{DB: db}
	b := &models.Booking{ID: "id-1", Code: "TRV00000001AAA", Status: models.BookingPendingPayment}
	err = repo.Create(context.Background(), b)
	if !domain.IsConflict(err) {
		t.Fatalf("duplicate code should map to conflict, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestBookingGetByID_ScanWithPayment(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	passengers, _ := json.Marshal([]models.Passenger{{FullName: "Budi", SeatLabel: "A1"}})
	bookedAt := time.Date(2026, 6, 1, 8, 0, 0, 0, time.UTC)
	paidAt := bookedAt.Add(2 * time.Hour)

	mock.ExpectQuery("SELECT (.+) FROM bookings").
		WithArgs("id-1").
		WillReturnRows(sqlmock.NewRows(bookingTestColumns).AddRow(
			"id-1", "TRV00000001AAA", int64(7), int64(3),
			"Budi", "0812", "budi@example.com",
			passengers, int64(50000), 1, int64(50000),
			string(models.BookingPaid), bookedAt, bookedAt.Add(24*time.Hour),
			"QRIS", "QR-1", int64(50000), paidAt,
			"",
		))

	repo := BookingRepository{DB: db}
	b, err := repo.GetByID(context.Background(), "id-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b.Status != models.BookingPaid {
		t.Fatalf("status not scanned, got %s", b.Status)
	}
	if b.Payment == nil || b.Payment.Method != "QRIS" || b.Payment.Amount != 50000 {
		t.Fatalf("payment not reconstructed: %+v", b.Payment)
	}
	if len(b.Passengers) != 1 || b.Passengers[0].SeatLabel != "A1" {
		t.Fatalf("passengers not decoded: %+v", b.Passengers)
	}
}

func TestBookingGetByID_NullPaymentStaysNil(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	passengers, _ := json.Marshal([]models.Passenger{{FullName: "Budi", SeatLabel: "A1"}})
	bookedAt := time.Date(2026, 6, 1, 8, 0, 0, 0, time.UTC)

	mock.ExpectQuery("SELECT (.+) FROM bookings").
		WithArgs("id-1").
		WillReturnRows(sqlmock.NewRows(bookingTestColumns).AddRow(
			"id-1", "TRV00000001AAA", int64(7), int64(3),
			"Budi", "0812", "",
			passengers, int64(50000), 1, int64(50000),
			string(models.BookingPendingPayment), bookedAt, bookedAt.Add(24*time.Hour),
			nil, nil, nil, nil,
			"",
		))

	repo := BookingRepository{DB: db}
	b, err := repo.GetByID(context.Background(), "id-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b.Payment != nil {
		t.Fatalf("unpaid booking should carry no payment, got %+v", b.Payment)
	}
}

func TestBookingGetByID_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("SELECT (.+) FROM bookings").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(bookingTestColumns))

	repo := BookingRepository{DB: db}
	_, err = repo.GetByID(context.Background(), "missing")
	if !domain.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestMarkPaid_CASVerdict(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	repo := BookingRepository{DB: db}
	payment := models.Payment{Method: "QRIS", Amount: 50000, PaidAt: time.Now()}

	mock.ExpectExec("UPDATE bookings").
		WillReturnResult(sqlmock.NewResult(0, 1))
	ok, err := repo.MarkPaid(context.Background(), "id-1", payment)
	if err != nil || !ok {
		t.Fatalf("one affected row should win the CAS, got ok=%v err=%v", ok, err)
	}

	mock.ExpectExec("UPDATE bookings").
		WillReturnResult(sqlmock.NewResult(0, 0))
	ok, err = repo.MarkPaid(context.Background(), "id-1", payment)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Fatalf("zero affected rows must lose the CAS")
	}
}

func TestMarkExpired_GuardsOnPending(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("UPDATE bookings").
		WithArgs(string(models.BookingExpired), "id-1", string(models.BookingPendingPayment)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := BookingRepository{DB: db}
	ok, err := repo.MarkExpired(context.Background(), "id-1")
	if err != nil || !ok {
		t.Fatalf("expected CAS win, got ok=%v err=%v", ok, err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestListOverdue_LeanRows(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	passengers, _ := json.Marshal([]models.Passenger{{FullName: "Budi", SeatLabel: "A1"}, {FullName: "Sari", SeatLabel: "A2"}})
	now := time.Now()

	mock.ExpectQuery("SELECT id, schedule_id, passengers").
		WithArgs(string(models.BookingPendingPayment), now).
		WillReturnRows(sqlmock.NewRows([]string{"id", "schedule_id", "passengers"}).
			AddRow("id-1", int64(3), passengers))

	repo := BookingRepository{DB: db}
	overdue, err := repo.ListOverdue(context.Background(), now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(overdue) != 1 {
		t.Fatalf("expected 1 overdue booking, got %d", len(overdue))
	}
	labels := overdue[0].SeatLabels()
	if len(labels) != 2 || labels[0] != "A1" || labels[1] != "A2" {
		t.Fatalf("seat labels not recovered, got %v", labels)
	}
}
