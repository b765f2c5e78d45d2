package repository

import (
	"context"
	"errors"

	"github.com/ecarponi/obsbook/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ConfigurationRepository interface {
	// Get returns the configuration singleton, creating it with defaults
	// on first access.
	Get(ctx context.Context) (*domain.Configuration, error)
	Update(ctx context.Context, cfg *domain.Configuration) error
}

type PGConfigurationRepository struct {
	db *pgxpool.Pool
}

func NewConfigurationRepository(db *pgxpool.Pool) ConfigurationRepository {
	return &PGConfigurationRepository{db: db}
}

const configColumns = `id, latitude, longitude, timezone, weather_threshold, max_bookings_per_event, default_opening_time, default_closing_time`

func (r *PGConfigurationRepository) Get(ctx context.Context) (*domain.Configuration, error) {
	cfg, err := r.scan(r.db.QueryRow(ctx, `SELECT `+configColumns+` FROM configuration ORDER BY id LIMIT 1`))
	if err == nil {
		return cfg, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	defaults := domain.DefaultConfiguration()
	cfg, err = r.scan(r.db.QueryRow(ctx, `INSERT INTO configuration (latitude, longitude, timezone, weather_threshold, max_bookings_per_event, default_opening_time, default_closing_time)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+configColumns,
		defaults.Latitude, defaults.Longitude, defaults.Timezone, defaults.WeatherThreshold,
		defaults.MaxBookingsPerEvent, defaults.DefaultOpeningTime, defaults.DefaultClosingTime))
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

func (r *PGConfigurationRepository) Update(ctx context.Context, cfg *domain.Configuration) error {
	cmd, err := r.db.Exec(ctx, `UPDATE configuration SET latitude=$1, longitude=$2, timezone=$3, weather_threshold=$4, max_bookings_per_event=$5, default_opening_time=$6, default_closing_time=$7 WHERE id=$8`,
		cfg.Latitude, cfg.Longitude, cfg.Timezone, cfg.WeatherThreshold,
		cfg.MaxBookingsPerEvent, cfg.DefaultOpeningTime, cfg.DefaultClosingTime, cfg.ID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PGConfigurationRepository) scan(row pgx.Row) (*domain.Configuration, error) {
	var c domain.Configuration
	err := row.Scan(&c.ID, &c.Latitude, &c.Longitude, &c.Timezone, &c.WeatherThreshold,
		&c.MaxBookingsPerEvent, &c.DefaultOpeningTime, &c.DefaultClosingTime)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

var _ ConfigurationRepository = (*PGConfigurationRepository)(nil)
