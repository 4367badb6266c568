package database

import (
	"context"
	"database/sql"
	"fmt"
)

// schemaStatements creates the tables the application needs.  Statements
// are ordered parent-first so foreign keys resolve; every one is
// IF NOT EXISTS so EnsureSchema is safe to run on every boot.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS advisors (
		id          BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		name        VARCHAR(255)    NOT NULL,
		timezone    VARCHAR(64)     NOT NULL DEFAULT 'UTC',
		created_at  DATETIME        NOT NULL DEFAULT (UTC_TIMESTAMP()),
		updated_at  DATETIME        NOT NULL DEFAULT (UTC_TIMESTAMP()),
		PRIMARY KEY (id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS time_slots (
		id          BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		advisor_id  BIGINT UNSIGNED NOT NULL,
		start_utc   DATETIME        NOT NULL,
		end_utc     DATETIME        NOT NULL,
		status      ENUM('free','booked','blocked') NOT NULL DEFAULT 'free',
		updated_at  DATETIME        NOT NULL DEFAULT (UTC_TIMESTAMP()),
		PRIMARY KEY (id),
		UNIQUE KEY uq_slots_advisor_start (advisor_id, start_utc),
		KEY idx_slots_status_start (status, start_utc),
		CONSTRAINT fk_slots_advisor FOREIGN KEY (advisor_id) REFERENCES advisors (id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS bookings (
		id            BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		slot_id       BIGINT UNSIGNED NOT NULL,
		advisor_id    BIGINT UNSIGNED NOT NULL,
		client_name   VARCHAR(255)    NOT NULL,
		client_email  VARCHAR(255)    NOT NULL,
		status        ENUM('confirmed','cancelled','completed') NOT NULL DEFAULT 'confirmed',
		created_at    DATETIME        NOT NULL DEFAULT (UTC_TIMESTAMP()),
		updated_at    DATETIME        NOT NULL DEFAULT (UTC_TIMESTAMP()),
		PRIMARY KEY (id),
		KEY idx_bookings_slot_status (slot_id, status),
		KEY idx_bookings_advisor (advisor_id),
		KEY idx_bookings_email (client_email),
		CONSTRAINT fk_bookings_slot FOREIGN KEY (slot_id) REFERENCES time_slots (id),
		CONSTRAINT fk_bookings_advisor FOREIGN KEY (advisor_id) REFERENCES advisors (id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS email_logs (
		id             BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		booking_id     BIGINT UNSIGNED NOT NULL,
		type           ENUM('confirmation','reminder_24h','reminder_1h') NOT NULL,
		status         ENUM('pending','sent','failed') NOT NULL DEFAULT 'pending',
		attempts       INT             NOT NULL DEFAULT 0,
		error_message  TEXT            NULL,
		sent_at        DATETIME        NULL,
		created_at     DATETIME        NOT NULL DEFAULT (UTC_TIMESTAMP()),
		PRIMARY KEY (id),
		KEY idx_email_logs_booking_type (booking_id, type, status),
		CONSTRAINT fk_email_logs_booking FOREIGN KEY (booking_id) REFERENCES bookings (id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS admins (
		id             BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		email          VARCHAR(255)    NOT NULL,
		password_hash  VARCHAR(255)    NOT NULL,
		created_at     DATETIME        NOT NULL DEFAULT (UTC_TIMESTAMP()),
		updated_at     DATETIME        NOT NULL DEFAULT (UTC_TIMESTAMP()),
		PRIMARY KEY (id),
		UNIQUE KEY uq_admins_email (email)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

// EnsureSchema creates any missing tables.  Existing tables are left
// untouched; this is bootstrap, not migration.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schemaStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
