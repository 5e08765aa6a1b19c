package repositories

import (
	"context"
	"database/sql"
	"errors"

	intconfig "tiketku/internal/config"
	"tiketku/internal/domain"
	"tiketku/internal/domain/models"
)

type RouteRepository struct {
	DB *sql.DB
}

func (r RouteRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

func (r RouteRepository) Create(ctx context.Context, rt *models.Route) error {
	res, err := r.db().ExecContext(ctx, `
		INSERT INTO routes (origin, destination, departure_date)
		VALUES (?, ?, ?)
	`, rt.Origin, rt.Destination, rt.DepartureDate)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	rt.ID = id
	return nil
}

func (r RouteRepository) GetByID(ctx context.Context, id int64) (*models.Route, error) {
	var rt models.Route
	err := r.db().QueryRowContext(ctx, `
		SELECT id, origin, destination, departure_date
		FROM routes
		WHERE id = ?
	`, id).Scan(&rt.ID, &rt.Origin, &rt.Destination, &rt.DepartureDate)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NotFoundError{Resource: "rute"}
		}
		return nil, err
	}
	return &rt, nil
}

func (r RouteRepository) List(ctx context.Context) ([]models.Route, error) {
	rows, err := r.db().QueryContext(ctx, `
		SELECT id, origin, destination, departure_date
		FROM routes
		ORDER BY id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Route
	for rows.Next() {
		var rt models.Route
		if err := rows.Scan(&rt.ID, &rt.Origin, &rt.Destination, &rt.DepartureDate); err != nil {
			return nil, err
		}
		out = append(out, rt)
	}
	return out, rows.Err()
}

func (r RouteRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db().ExecContext(ctx, `DELETE FROM routes WHERE id = ?`, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.NotFoundError{Resource: "rute"}
	}
	return nil
}
