package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS configuration (
		id BIGSERIAL PRIMARY KEY,
		latitude DOUBLE PRECISION NOT NULL CHECK (latitude BETWEEN -90 AND 90),
		longitude DOUBLE PRECISION NOT NULL CHECK (longitude BETWEEN -180 AND 180),
		timezone VARCHAR(50) NOT NULL,
		weather_threshold INT NOT NULL CHECK (weather_threshold BETWEEN 0 AND 100),
		max_bookings_per_event INT NOT NULL CHECK (max_bookings_per_event >= 1),
		default_opening_time VARCHAR(5) NOT NULL,
		default_closing_time VARCHAR(5) NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS users (
		id BIGSERIAL PRIMARY KEY,
		name VARCHAR(50) NOT NULL,
		email VARCHAR(255) NOT NULL UNIQUE,
		role VARCHAR(10) NOT NULL DEFAULT 'User' CHECK (role IN ('User', 'Admin')),
		blocked BOOLEAN NOT NULL DEFAULT FALSE,
		admin_rank VARCHAR(10)
	)`,
	`CREATE TABLE IF NOT EXISTS slots (
		id BIGSERIAL PRIMARY KEY,
		title VARCHAR(30) NOT NULL DEFAULT '',
		description VARCHAR(255) NOT NULL DEFAULT '',
		start_time TIMESTAMPTZ NOT NULL,
		end_time TIMESTAMPTZ NOT NULL,
		max_bookings INT NOT NULL DEFAULT 10 CHECK (max_bookings >= 0),
		available BOOLEAN NOT NULL DEFAULT TRUE,
		weather_rating DOUBLE PRECISION CHECK (weather_rating IS NULL OR weather_rating BETWEEN 0 AND 100),
		weather_warning BOOLEAN NOT NULL DEFAULT FALSE,
		weather_forecast BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		CHECK (start_time < end_time)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_slots_start_time ON slots (start_time)`,
	`CREATE TABLE IF NOT EXISTS bookings (
		id BIGSERIAL PRIMARY KEY,
		user_id BIGINT NOT NULL REFERENCES users (id) ON DELETE CASCADE,
		slot_id BIGINT NOT NULL REFERENCES slots (id) ON DELETE CASCADE,
		reference UUID NOT NULL,
		status VARCHAR(20) NOT NULL DEFAULT 'confirmed' CHECK (status IN ('confirmed', 'pending', 'cancelled')),
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		UNIQUE (user_id, slot_id)
	)`,
}

// InitSchema creates the tables if they do not exist yet.
func InitSchema(ctx context.Context, db *pgxpool.Pool) error {
	for _, stmt := range schema {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}
	return nil
}
