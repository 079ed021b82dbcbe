package database

import (
	"context"
	"database/sql"
	"fmt"
)

// schema is applied in order by Migrate.  Every statement is idempotent.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id            BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		name          VARCHAR(120) NOT NULL,
		email         VARCHAR(255) NOT NULL,
		password_hash VARCHAR(100) NOT NULL,
		role          ENUM('client','front_desk','admin') NOT NULL DEFAULT 'client',
		created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		UNIQUE KEY uq_users_email (email)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS rooms (
		id                 BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		number             VARCHAR(20) NOT NULL,
		type               VARCHAR(50) NOT NULL,
		price_cents        BIGINT NOT NULL,
		capacity           INT UNSIGNED NOT NULL,
		status             ENUM('free','occupied','maintenance') NOT NULL DEFAULT 'free',
		image              MEDIUMBLOB NULL,
		image_content_type VARCHAR(50) NOT NULL DEFAULT '',
		created_at         DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at         DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		UNIQUE KEY uq_rooms_number (number),
		CHECK (price_cents >= 0),
		CHECK (capacity >= 1)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS reservations (
		id          BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		room_id     BIGINT UNSIGNED NOT NULL,
		client_id   BIGINT UNSIGNED NOT NULL,
		check_in    DATE NOT NULL,
		check_out   DATE NOT NULL,
		status      ENUM('active','paid','cancelled') NOT NULL DEFAULT 'active',
		total_cents BIGINT NOT NULL,
		created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		KEY idx_reservations_room_dates (room_id, status, check_in, check_out),
		KEY idx_reservations_client (client_id),
		CONSTRAINT fk_reservations_room FOREIGN KEY (room_id) REFERENCES rooms(id),
		CONSTRAINT fk_reservations_client FOREIGN KEY (client_id) REFERENCES users(id),
		CHECK (check_out > check_in)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS payments (
		id             BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		reference      CHAR(36) NOT NULL,
		reservation_id BIGINT UNSIGNED NOT NULL,
		method         ENUM('card','cash','transfer') NOT NULL,
		amount_cents   BIGINT NOT NULL,
		paid_at        DATETIME NOT NULL,
		UNIQUE KEY uq_payments_reference (reference),
		KEY idx_payments_reservation (reservation_id),
		CONSTRAINT fk_payments_reservation FOREIGN KEY (reservation_id) REFERENCES reservations(id),
		CHECK (amount_cents > 0)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS audit_log (
		id         BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		created_at DATETIME NOT NULL,
		actor_id   BIGINT UNSIGNED NOT NULL,
		db_role    VARCHAR(128) NOT NULL,
		action     VARCHAR(40) NOT NULL,
		detail     TEXT NOT NULL,
		KEY idx_audit_created (created_at)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

// Migrate creates any missing tables.
func Migrate(ctx context.Context, db *sql.DB) error {
	for i, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate step %d: %w", i+1, err)
		}
	}
	return nil
}
