package repositories

import (
	"context"
	"database/sql"
	"errors"

	intconfig "tiketku/internal/config"
	"tiketku/internal/domain"
	"tiketku/internal/domain/models"
)

type VehicleRepository struct {
	DB *sql.DB
}

func (r VehicleRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

func (r VehicleRepository) Create(ctx context.Context, v *models.Vehicle) error {
	res, err := r.db().ExecContext(ctx, `
		INSERT INTO vehicles (vehicle_type, capacity, plate_number, status)
		VALUES (?, ?, ?, ?)
	`, v.VehicleType, v.Capacity, v.PlateNumber, v.Status)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	v.ID = id
	return nil
}

func (r VehicleRepository) GetByID(ctx context.Context, id int64) (*models.Vehicle, error) {
	var v models.Vehicle
	err := r.db().QueryRowContext(ctx, `
		SELECT id, vehicle_type, capacity, plate_number, status
		FROM vehicles
		WHERE id = ?
	`, id).Scan(&v.ID, &v.VehicleType, &v.Capacity, &v.PlateNumber, &v.Status)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NotFoundError{Resource: "armada"}
		}
		return nil, err
	}
	return &v, nil
}

func (r VehicleRepository) List(ctx context.Context) ([]models.Vehicle, error) {
	rows, err := r.db().QueryContext(ctx, `
		SELECT id, vehicle_type, capacity, plate_number, status
		FROM vehicles
		ORDER BY id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Vehicle
	for rows.Next() {
		var v models.Vehicle
		if err := rows.Scan(&v.ID, &v.VehicleType, &v.Capacity, &v.PlateNumber, &v.Status); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func (r VehicleRepository) Update(ctx context.Context, v *models.Vehicle) error {
	res, err := r.db().ExecContext(ctx, `
		UPDATE vehicles
		SET vehicle_type = ?, capacity = ?, plate_number = ?, status = ?
		WHERE id = ?
	`, v.VehicleType, v.Capacity, v.PlateNumber, v.Status, v.ID)
	if err != nil {
		return err
	}
	// RowsAffected MySQL hanya menghitung baris yang berubah, update
	// tanpa perubahan nilai tetap dianggap sukses.
	_, err = res.RowsAffected()
	return err
}

func (r VehicleRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db().ExecContext(ctx, `DELETE FROM vehicles WHERE id = ?`, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.NotFoundError{Resource: "armada"}
	}
	return nil
}
