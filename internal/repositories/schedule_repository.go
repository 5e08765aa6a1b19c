package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	intconfig "tiketku/internal/config"
	"tiketku/internal/domain"
	"tiketku/internal/domain/models"
)

type ScheduleRepository struct {
	DB *sql.DB
}

func (r ScheduleRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

const scheduleColumns = `s.id, s.route_id, s.vehicle_id, s.departure_time,
	s.travel_estimate, s.base_price, s.status,
	r.origin, r.destination, v.vehicle_type, v.capacity`

const scheduleJoins = `
	FROM schedules s
	JOIN routes r ON r.id = s.route_id
	JOIN vehicles v ON v.id = s.vehicle_id`

func (r ScheduleRepository) Create(ctx context.Context, s *models.Schedule) error {
	res, err := r.db().ExecContext(ctx, `
		INSERT INTO schedules (route_id, vehicle_id, departure_time, travel_estimate, base_price, status)
		VALUES (?, ?, ?, ?, ?, ?)
	`, s.RouteID, s.VehicleID, s.DepartureTime, s.TravelEstimate, s.BasePrice, s.Status)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	s.ID = id
	return nil
}

func (r ScheduleRepository) GetByID(ctx context.Context, id int64) (*models.Schedule, error) {
	row := r.db().QueryRowContext(ctx, `
		SELECT `+scheduleColumns+scheduleJoins+`
		WHERE s.id = ?
	`, id)

	var s models.Schedule
	err := row.Scan(
		&s.ID, &s.RouteID, &s.VehicleID, &s.DepartureTime,
		&s.TravelEstimate, &s.BasePrice, &s.Status,
		&s.Origin, &s.Destination, &s.VehicleType, &s.VehicleCapacity,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NotFoundError{Resource: "jadwal"}
		}
		return nil, err
	}
	return &s, nil
}

func (r ScheduleRepository) List(ctx context.Context, f models.ScheduleFilter) ([]models.Schedule, int, error) {
	where := " WHERE 1=1"
	var args []any
	if f.Origin != "" {
		where += " AND r.origin LIKE ?"
		args = append(args, "%"+f.Origin+"%")
	}
	if f.Destination != "" {
		where += " AND r.destination LIKE ?"
		args = append(args, "%"+f.Destination+"%")
	}
	if f.Date != "" {
		where += " AND DATE(s.departure_time) = ?"
		args = append(args, f.Date)
	}
	if f.Status != "" {
		where += " AND s.status = ?"
		args = append(args, f.Status)
	}

	var total int
	if err := r.db().QueryRowContext(ctx, `SELECT COUNT(*)`+scheduleJoins+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit := f.Limit
	if limit <= 0 {
		limit = 10
	}
	args = append(args, limit, f.Offset)

	rows, err := r.db().QueryContext(ctx, `
		SELECT `+scheduleColumns+scheduleJoins+where+`
		ORDER BY s.departure_time ASC
		LIMIT ? OFFSET ?
	`, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []models.Schedule
	for rows.Next() {
		var s models.Schedule
		if err := rows.Scan(
			&s.ID, &s.RouteID, &s.VehicleID, &s.DepartureTime,
			&s.TravelEstimate, &s.BasePrice, &s.Status,
			&s.Origin, &s.Destination, &s.VehicleType, &s.VehicleCapacity,
		); err != nil {
			return nil, 0, err
		}
		out = append(out, s)
	}
	return out, total, rows.Err()
}

func (r ScheduleRepository) Update(ctx context.Context, s *models.Schedule) error {
	res, err := r.db().ExecContext(ctx, `
		UPDATE schedules
		SET route_id = ?, vehicle_id = ?, departure_time = ?, travel_estimate = ?, base_price = ?, status = ?
		WHERE id = ?
	`, s.RouteID, s.VehicleID, s.DepartureTime, s.TravelEstimate, s.BasePrice, s.Status, s.ID)
	if err != nil {
		return err
	}
	// RowsAffected dari MySQL cuma menghitung baris yang berubah,
	// jadi update tanpa perubahan nilai bukan berarti jadwal hilang.
	_, err = res.RowsAffected()
	return err
}

func (r ScheduleRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db().ExecContext(ctx, `DELETE FROM schedules WHERE id = ?`, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.NotFoundError{Resource: "jadwal"}
	}
	return nil
}

// HasVehicleConflict checks for another AKTIF/DELAY schedule of the
// same vehicle at the exact departure timestamp (equality, not range
// overlap).
func (r ScheduleRepository) HasVehicleConflict(ctx context.Context, vehicleID int64, departure time.Time) (bool, error) {
	var id int64
	err := r.db().QueryRowContext(ctx, `
		SELECT id
		FROM schedules
		WHERE vehicle_id = ? AND departure_time = ? AND status IN (?, ?)
		LIMIT 1
	`, vehicleID, departure, models.ScheduleActive, models.ScheduleDelayed).Scan(&id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
