package repositories

import (
	"context"
	"database/sql"
	"errors"

	intconfig "tiketku/internal/config"
	"tiketku/internal/domain"
	"tiketku/internal/domain/models"
)

type UserRepository struct {
	DB *sql.DB
}

func (r UserRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

func (r UserRepository) Create(ctx context.Context, u *models.User) error {
	res, err := r.db().ExecContext(ctx, `
		INSERT INTO users (name, username, email, phone, password_hash, role, status)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, u.Name, u.Username, u.Email, u.Phone, u.PasswordHash, u.Role, u.Status)
	if err != nil {
		if isDuplicate(err) {
			return domain.ConflictError{Resource: "user", Msg: "email atau username sudah terdaftar"}
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	u.ID = id
	return nil
}

func (r UserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	return r.getByField(ctx, "id = ?", id)
}

// GetByLogin accepts either email or username, matching the legacy
// login form.
func (r UserRepository) GetByLogin(ctx context.Context, login string) (*models.User, error) {
	return r.getByField(ctx, "email = ? OR username = ?", login, login)
}

func (r UserRepository) getByField(ctx context.Context, cond string, args ...any) (*models.User, error) {
	var u models.User
	err := r.db().QueryRowContext(ctx, `
		SELECT id, name, username, email, phone, password_hash, role, status
		FROM users
		WHERE `+cond+`
		LIMIT 1
	`, args...).Scan(&u.ID, &u.Name, &u.Username, &u.Email, &u.Phone, &u.PasswordHash, &u.Role, &u.Status)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NotFoundError{Resource: "user"}
		}
		return nil, err
	}
	return &u, nil
}

func (r UserRepository) List(ctx context.Context) ([]models.User, error) {
	rows, err := r.db().QueryContext(ctx, `
		SELECT id, name, username, email, phone, password_hash, role, status
		FROM users
		ORDER BY id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Username, &u.Email, &u.Phone, &u.PasswordHash, &u.Role, &u.Status); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}
