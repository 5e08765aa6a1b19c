package db

import (
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
)

type QueryRower interface {
	QueryRow(query string, args ...any) *sql.Row
}

func HasTable(q QueryRower, table string) bool {
	var name sql.NullString
	err := q.QueryRow(`
		SELECT table_name
		FROM information_schema.tables
		WHERE table_schema = DATABASE()
		  AND table_name = ?
		LIMIT 1
	`, table).Scan(&name)

	if err != nil {
		// kalau bad connection, jangan spam log, cukup false
		if errors.Is(err, driver.ErrBadConn) {
			return false
		}
		return false
	}
	return name.Valid && name.String != ""
}

var schemaDDL = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		username VARCHAR(100) NOT NULL,
		email VARCHAR(255) NOT NULL,
		phone VARCHAR(100) NOT NULL DEFAULT '',
		password_hash VARCHAR(255) NOT NULL,
		role VARCHAR(50) NOT NULL DEFAULT 'user',
		status VARCHAR(50) NOT NULL DEFAULT 'active',
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		UNIQUE KEY uniq_email (email),
		UNIQUE KEY uniq_username (username)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;`,

	`CREATE TABLE IF NOT EXISTS vehicles (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		vehicle_type VARCHAR(50) NOT NULL,
		capacity INT NOT NULL,
		plate_number VARCHAR(50) NOT NULL DEFAULT '',
		status VARCHAR(50) NOT NULL DEFAULT 'AKTIF'
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;`,

	`CREATE TABLE IF NOT EXISTS routes (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		origin VARCHAR(255) NOT NULL,
		destination VARCHAR(255) NOT NULL,
		departure_date VARCHAR(20) NOT NULL DEFAULT ''
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;`,

	`CREATE TABLE IF NOT EXISTS schedules (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		route_id BIGINT NOT NULL,
		vehicle_id BIGINT NOT NULL,
		departure_time DATETIME NOT NULL,
		travel_estimate VARCHAR(20) NOT NULL DEFAULT '',
		base_price BIGINT NOT NULL DEFAULT 0,
		status VARCHAR(50) NOT NULL DEFAULT 'AKTIF',
		KEY idx_departure (departure_time),
		KEY idx_vehicle_departure (vehicle_id, departure_time),
		KEY idx_status (status)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;`,

	`CREATE TABLE IF NOT EXISTS schedule_inventories (
		schedule_id BIGINT PRIMARY KEY,
		capacity INT NOT NULL,
		available INT NOT NULL,
		seats JSON NOT NULL,
		version INT NOT NULL DEFAULT 1
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;`,

	`CREATE TABLE IF NOT EXISTS bookings (
		id CHAR(36) PRIMARY KEY,
		code VARCHAR(50) NOT NULL,
		user_id BIGINT NOT NULL,
		schedule_id BIGINT NOT NULL,
		contact_name VARCHAR(255) NOT NULL DEFAULT '',
		contact_phone VARCHAR(100) NOT NULL DEFAULT '',
		contact_email VARCHAR(255) NOT NULL DEFAULT '',
		passengers JSON NOT NULL,
		price_per_seat BIGINT NOT NULL,
		passenger_count INT NOT NULL,
		total BIGINT NOT NULL,
		status VARCHAR(50) NOT NULL DEFAULT 'MENUNGGU_PEMBAYARAN',
		booked_at DATETIME NOT NULL,
		payment_deadline DATETIME NOT NULL,
		payment_method VARCHAR(50) NULL,
		payment_reference VARCHAR(255) NULL,
		payment_amount BIGINT NULL,
		paid_at DATETIME NULL,
		notes TEXT NULL,
		UNIQUE KEY uniq_code (code),
		KEY idx_user (user_id, booked_at),
		KEY idx_schedule (schedule_id),
		KEY idx_status (status),
		KEY idx_deadline (payment_deadline)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;`,
}

// EnsureSchema creates missing tables on startup. Existing tables are
// left alone.
func EnsureSchema(db *sql.DB) error {
	if db == nil {
		return fmt.Errorf("db tidak tersedia")
	}
	for _, ddl := range schemaDDL {
		if _, err := db.Exec(ddl); err != nil {
			return err
		}
	}
	return nil
}
