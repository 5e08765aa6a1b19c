package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/go-sql-driver/mysql"

	intconfig "tiketku/internal/config"
	"tiketku/internal/domain"
	"tiketku/internal/domain/models"
)

type BookingRepository struct {
	DB *sql.DB
}

func (r BookingRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

const bookingColumns = `id, code, user_id, schedule_id,
	contact_name, contact_phone, contact_email,
	passengers, price_per_seat, passenger_count, total,
	status, booked_at, payment_deadline,
	payment_method, payment_reference, payment_amount, paid_at,
	COALESCE(notes, '')`

func (r BookingRepository) Create(ctx context.Context, b *models.Booking) error {
	passengers, err := json.Marshal(b.Passengers)
	if err != nil {
		return domain.InternalError{Msg: "gagal encode daftar penumpang", Err: err}
	}

	_, err = r.db().ExecContext(ctx, `
		INSERT INTO bookings
			(id, code, user_id, schedule_id,
			 contact_name, contact_phone, contact_email,
			 passengers, price_per_seat, passenger_count, total,
			 status, booked_at, payment_deadline, notes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		b.ID, b.Code, b.UserID, b.ScheduleID,
		b.Contact.Name, b.Contact.Phone, b.Contact.Email,
		passengers, b.PricePerSeat, b.PassengerCount, b.Total,
		b.Status, b.BookedAt, b.PaymentDeadline, b.Notes,
	)
	if err != nil {
		if isDuplicate(err) {
			return domain.ConflictError{Resource: "kode booking", Msg: b.Code + " sudah terpakai"}
		}
		return err
	}
	return nil
}

func (r BookingRepository) GetByID(ctx context.Context, id string) (*models.Booking, error) {
	return r.getByField(ctx, "id", id)
}

func (r BookingRepository) GetByCode(ctx context.Context, code string) (*models.Booking, error) {
	return r.getByField(ctx, "code", code)
}

func (r BookingRepository) getByField(ctx context.Context, field, value string) (*models.Booking, error) {
	row := r.db().QueryRowContext(ctx, `
		SELECT `+bookingColumns+`
		FROM bookings
		WHERE `+field+` = ?
		LIMIT 1
	`, value)

	b, err := scanBooking(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NotFoundError{Resource: "pemesanan"}
		}
		return nil, err
	}
	return b, nil
}

func (r BookingRepository) ListByUser(ctx context.Context, userID int64, status models.BookingStatus, limit, offset int) ([]models.Booking, int, error) {
	args := []any{userID}
	where := "WHERE user_id = ?"
	if status != "" {
		where += " AND status = ?"
		args = append(args, status)
	}

	var total int
	if err := r.db().QueryRowContext(ctx, `SELECT COUNT(*) FROM bookings `+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, limit, offset)
	rows, err := r.db().QueryContext(ctx, `
		SELECT `+bookingColumns+`
		FROM bookings `+where+`
		ORDER BY booked_at DESC
		LIMIT ? OFFSET ?
	`, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []models.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *b)
	}
	return out, total, rows.Err()
}

// MarkPaid settles a pending booking. The status guard in the WHERE
// clause is the compare-and-set: zero rows means the booking left
// MENUNGGU_PEMBAYARAN in the meantime.
func (r BookingRepository) MarkPaid(ctx context.Context, id string, p models.Payment) (bool, error) {
	res, err := r.db().ExecContext(ctx, `
		UPDATE bookings
		SET status = ?, payment_method = ?, payment_reference = ?, payment_amount = ?, paid_at = ?
		WHERE id = ? AND status = ?
	`, models.BookingPaid, p.Method, p.Reference, p.Amount, p.PaidAt, id, models.BookingPendingPayment)
	if err != nil {
		return false, err
	}
	return oneRow(res)
}

// MarkExpired is shared by the lazy read path and the sweeper; whoever
// wins the CAS performs the seat release, the loser treats it as done.
func (r BookingRepository) MarkExpired(ctx context.Context, id string) (bool, error) {
	res, err := r.db().ExecContext(ctx, `
		UPDATE bookings
		SET status = ?
		WHERE id = ? AND status = ?
	`, models.BookingExpired, id, models.BookingPendingPayment)
	if err != nil {
		return false, err
	}
	return oneRow(res)
}

func (r BookingRepository) MarkCancelled(ctx context.Context, id string, from, to models.BookingStatus, notes string) (bool, error) {
	res, err := r.db().ExecContext(ctx, `
		UPDATE bookings
		SET status = ?, notes = ?
		WHERE id = ? AND status = ?
	`, to, notes, id, from)
	if err != nil {
		return false, err
	}
	return oneRow(res)
}

// ListOverdue returns pending bookings whose deadline is strictly in
// the past, lean (enough for the sweeper to expire and release).
func (r BookingRepository) ListOverdue(ctx context.Context, now time.Time) ([]models.Booking, error) {
	rows, err := r.db().QueryContext(ctx, `
		SELECT id, schedule_id, passengers
		FROM bookings
		WHERE status = ? AND payment_deadline < ?
	`, models.BookingPendingPayment, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Booking
	for rows.Next() {
		var b models.Booking
		var passengers []byte
		if err := rows.Scan(&b.ID, &b.ScheduleID, &passengers); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(passengers, &b.Passengers); err != nil {
			return nil, domain.InternalError{Msg: "gagal decode daftar penumpang", Err: err}
		}
		b.Status = models.BookingPendingPayment
		out = append(out, b)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBooking(row rowScanner) (*models.Booking, error) {
	var (
		b          models.Booking
		passengers []byte
		method     sql.NullString
		reference  sql.NullString
		amount     sql.NullInt64
		paidAt     sql.NullTime
	)

	err := row.Scan(
		&b.ID, &b.Code, &b.UserID, &b.ScheduleID,
		&b.Contact.Name, &b.Contact.Phone, &b.Contact.Email,
		&passengers, &b.PricePerSeat, &b.PassengerCount, &b.Total,
		&b.Status, &b.BookedAt, &b.PaymentDeadline,
		&method, &reference, &amount, &paidAt,
		&b.Notes,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(passengers, &b.Passengers); err != nil {
		return nil, domain.InternalError{Msg: "gagal decode daftar penumpang", Err: err}
	}

	if method.Valid && paidAt.Valid {
		b.Payment = &models.Payment{
			Method:    method.String,
			Reference: reference.String,
			Amount:    amount.Int64,
			PaidAt:    paidAt.Time,
		}
	}
	return &b, nil
}

func oneRow(res sql.Result) (bool, error) {
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected == 1, nil
}

func isDuplicate(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == 1062
}
