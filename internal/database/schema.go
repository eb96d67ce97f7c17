package database

import (
	"context"
	"database/sql"
)

// schema contains the idempotent DDL for every table the application
// uses.  Statements run in order because of foreign keys.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id            BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		username      VARCHAR(50)  NOT NULL,
		email         VARCHAR(255) NOT NULL,
		password_hash VARCHAR(100) NOT NULL,
		first_name    VARCHAR(50)  NOT NULL DEFAULT '',
		last_name     VARCHAR(50)  NOT NULL DEFAULT '',
		phone         VARCHAR(20)  NULL,
		role          VARCHAR(16)  NOT NULL DEFAULT 'CUSTOMER',
		is_active     TINYINT(1)   NOT NULL DEFAULT 1,
		created_at    TIMESTAMP    NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at    TIMESTAMP    NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		UNIQUE KEY uq_users_username (username),
		UNIQUE KEY uq_users_email (email)
	) ENGINE=InnoDB`,

	`CREATE TABLE IF NOT EXISTS refresh_tokens (
		id         BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		user_id    BIGINT UNSIGNED NOT NULL,
		token_hash CHAR(64)  NOT NULL,
		expires_at DATETIME  NOT NULL,
		revoked_at DATETIME  NULL,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		UNIQUE KEY uq_refresh_tokens_hash (token_hash),
		KEY idx_refresh_tokens_user (user_id),
		CONSTRAINT fk_refresh_tokens_user FOREIGN KEY (user_id) REFERENCES users (id)
	) ENGINE=InnoDB`,

	`CREATE TABLE IF NOT EXISTS rooms (
		id            BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		name          VARCHAR(100)  NOT NULL,
		description   VARCHAR(1000) NOT NULL DEFAULT '',
		max_occupancy INT UNSIGNED  NOT NULL,
		room_type     VARCHAR(32)   NOT NULL,
		is_available  TINYINT(1)    NOT NULL DEFAULT 1,
		created_at    TIMESTAMP     NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at    TIMESTAMP     NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		UNIQUE KEY uq_rooms_name (name)
	) ENGINE=InnoDB`,

	`CREATE TABLE IF NOT EXISTS reservations (
		id               BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		user_id          BIGINT UNSIGNED NOT NULL,
		room_id          BIGINT UNSIGNED NOT NULL,
		check_in_date    DATE         NOT NULL,
		check_out_date   DATE         NOT NULL,
		number_of_guests INT UNSIGNED NOT NULL,
		price_cents      INT UNSIGNED NOT NULL DEFAULT 0,
		status           VARCHAR(16)  NOT NULL DEFAULT 'PENDING',
		notes            VARCHAR(500) NULL,
		created_at       TIMESTAMP    NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at       TIMESTAMP    NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		KEY idx_reservations_room_status (room_id, status, check_in_date),
		KEY idx_reservations_user (user_id),
		CONSTRAINT fk_reservations_user FOREIGN KEY (user_id) REFERENCES users (id),
		CONSTRAINT fk_reservations_room FOREIGN KEY (room_id) REFERENCES rooms (id)
	) ENGINE=InnoDB`,
}

// EnsureSchema creates all tables when they do not exist yet.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
