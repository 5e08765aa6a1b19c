package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	intconfig "tiketku/internal/config"
	"tiketku/internal/domain"
	"tiketku/internal/domain/models"
)

// InventoryRepository persists one seat-map document per schedule. The
// version column backs the compare-and-set Save: concurrent writers on
// the same inventory cannot silently overwrite each other even across
// process instances.
type InventoryRepository struct {
	DB *sql.DB
}

func (r InventoryRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

func (r InventoryRepository) Create(ctx context.Context, inv *models.ScheduleInventory) error {
	seats, err := json.Marshal(inv.Seats)
	if err != nil {
		return domain.InternalError{Msg: "gagal encode peta kursi", Err: err}
	}
	_, err = r.db().ExecContext(ctx, `
		INSERT INTO schedule_inventories (schedule_id, capacity, available, seats, version)
		VALUES (?, ?, ?, ?, 1)
	`, inv.ScheduleID, inv.Capacity, inv.Available, seats)
	if err != nil {
		if isDuplicate(err) {
			return domain.ConflictError{Resource: "inventaris kursi", Msg: "sudah ada untuk jadwal ini"}
		}
		return err
	}
	inv.Version = 1
	return nil
}

func (r InventoryRepository) GetBySchedule(ctx context.Context, scheduleID int64) (*models.ScheduleInventory, error) {
	inv := models.ScheduleInventory{ScheduleID: scheduleID}
	var seats []byte

	err := r.db().QueryRowContext(ctx, `
		SELECT capacity, available, seats, version
		FROM schedule_inventories
		WHERE schedule_id = ?
	`, scheduleID).Scan(&inv.Capacity, &inv.Available, &seats, &inv.Version)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NotFoundError{Resource: "inventaris kursi"}
		}
		return nil, err
	}

	if err := json.Unmarshal(seats, &inv.Seats); err != nil {
		return nil, domain.InternalError{Msg: "gagal decode peta kursi", Err: err}
	}
	return &inv, nil
}

// ListHeld returns every inventory with at least one seat still held,
// for the sweeper's reconciliation pass.
func (r InventoryRepository) ListHeld(ctx context.Context) ([]models.ScheduleInventory, error) {
	rows, err := r.db().QueryContext(ctx, `
		SELECT schedule_id, capacity, available, seats, version
		FROM schedule_inventories
		WHERE available < capacity
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.ScheduleInventory
	for rows.Next() {
		var inv models.ScheduleInventory
		var seats []byte
		if err := rows.Scan(&inv.ScheduleID, &inv.Capacity, &inv.Available, &seats, &inv.Version); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(seats, &inv.Seats); err != nil {
			return nil, domain.InternalError{Msg: "gagal decode peta kursi", Err: err}
		}
		out = append(out, inv)
	}
	return out, rows.Err()
}

// Save writes the whole document back, guarded by the version read at
// load time. Zero rows affected means another writer got there first;
// the caller must re-read and retry.
func (r InventoryRepository) Save(ctx context.Context, inv *models.ScheduleInventory) error {
	seats, err := json.Marshal(inv.Seats)
	if err != nil {
		return domain.InternalError{Msg: "gagal encode peta kursi", Err: err}
	}

	res, err := r.db().ExecContext(ctx, `
		UPDATE schedule_inventories
		SET capacity = ?, available = ?, seats = ?, version = version + 1
		WHERE schedule_id = ? AND version = ?
	`, inv.Capacity, inv.Available, seats, inv.ScheduleID, inv.Version)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ConflictError{Resource: "inventaris kursi", Msg: "versi berubah, ulangi operasi"}
	}

	inv.Version++
	return nil
}
