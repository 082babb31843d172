package database

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"
)

// Migrate creates the schema if it does not exist yet.  Statements are
// idempotent so the server can run it on every start with --migrate.
func Migrate(ctx context.Context, db *sql.DB, log *zap.Logger) error {
	migrations := []string{
		createUsersTable,
		createEventsTable,
		createBookingsTable,
	}
	for i, m := range migrations {
		log.Debug("running migration", zap.Int("step", i+1))
		if _, err := db.ExecContext(ctx, m); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}
	log.Info("migrations complete", zap.Int("steps", len(migrations)))
	return nil
}

const createUsersTable = `
CREATE TABLE IF NOT EXISTS users (
    id            BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
    name          VARCHAR(100) NOT NULL,
    email         VARCHAR(255) NOT NULL,
    password_hash VARCHAR(255) NOT NULL,
    role          ENUM('user','admin') NOT NULL DEFAULT 'user',
    created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
    UNIQUE KEY uq_users_email (email)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`

// available_seats is unsigned so the store itself rejects a negative count.
const createEventsTable = `
CREATE TABLE IF NOT EXISTS events (
    id              BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
    title           VARCHAR(255) NOT NULL,
    category        ENUM('Movie','Concert','Play','Sports','Workshop') NOT NULL,
    location        VARCHAR(255) NOT NULL,
    date            DATETIME NOT NULL,
    price           DECIMAL(10,2) NOT NULL,
    available_seats INT UNSIGNED NOT NULL,
    image_url       VARCHAR(1024) NOT NULL,
    description     TEXT NOT NULL,
    artist          VARCHAR(255) NULL,
    created_at      DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at      DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
    CONSTRAINT chk_events_price CHECK (price >= 0),
    KEY idx_events_category (category)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`

// event_id carries no foreign key: deleting an event leaves its bookings.
const createBookingsTable = `
CREATE TABLE IF NOT EXISTS bookings (
    id          BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
    user_id     BIGINT UNSIGNED NOT NULL,
    event_id    BIGINT UNSIGNED NOT NULL,
    seats       INT UNSIGNED NOT NULL,
    total_price DECIMAL(12,2) NOT NULL,
    status      ENUM('Confirmed','Cancelled') NOT NULL DEFAULT 'Confirmed',
    created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
    CONSTRAINT fk_bookings_user FOREIGN KEY (user_id) REFERENCES users(id),
    CONSTRAINT chk_bookings_seats CHECK (seats > 0),
    KEY idx_bookings_user (user_id),
    KEY idx_bookings_event (event_id)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`
