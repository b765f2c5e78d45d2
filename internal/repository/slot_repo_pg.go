package repository

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/ecarponi/obsbook/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type SlotRepository interface {
	List(ctx context.Context) ([]domain.Slot, error)
	GetByID(ctx context.Context, id int64) (*domain.Slot, error)
	// FirstStartingBetween finds a slot whose start_time lies in
	// [from, to), excluding excludeID when it is non-zero.
	FirstStartingBetween(ctx context.Context, from, to time.Time, excludeID int64) (*domain.Slot, error)
	// FirstPrevDayOverlap finds a slot starting in [from, to) whose
	// end_time extends past start.
	FirstPrevDayOverlap(ctx context.Context, from, to, start time.Time, excludeID int64) (*domain.Slot, error)
	// FirstNextDayOverlap finds a slot starting in [from, to) whose
	// start_time precedes end.
	FirstNextDayOverlap(ctx context.Context, from, to, end time.Time, excludeID int64) (*domain.Slot, error)
	// FirstOverlapping finds a slot whose [start_time, end_time) interval
	// intersects [start, end).
	FirstOverlapping(ctx context.Context, start, end time.Time, excludeID int64) (*domain.Slot, error)
	Create(ctx context.Context, slot *domain.Slot) error
	Update(ctx context.Context, slot *domain.Slot) error
	// Delete removes a slot, failing with ErrSlotHasBookings if any
	// booking rows still reference it.
	Delete(ctx context.Context, id int64) error
	StartingBetween(ctx context.Context, from, to time.Time) ([]domain.Slot, error)
	UpdateWeather(ctx context.Context, id int64, rating *float64, warning, forecast bool) error
}

type PGSlotRepository struct {
	db *pgxpool.Pool
}

func NewSlotRepository(db *pgxpool.Pool) SlotRepository {
	return &PGSlotRepository{db: db}
}

const slotColumns = `id, title, description, start_time, end_time, max_bookings, available, weather_rating, weather_warning, weather_forecast, created_at, updated_at`

func scanSlot(row pgx.Row) (*domain.Slot, error) {
	var s domain.Slot
	err := row.Scan(&s.ID, &s.Title, &s.Description, &s.StartTime, &s.EndTime, &s.MaxBookings,
		&s.Available, &s.WeatherRating, &s.WeatherWarning, &s.WeatherForecast, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

func (r *PGSlotRepository) List(ctx context.Context) ([]domain.Slot, error) {
	rows, err := r.db.Query(ctx, `SELECT `+slotColumns+` FROM slots ORDER BY start_time`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectSlots(rows)
}

func (r *PGSlotRepository) GetByID(ctx context.Context, id int64) (*domain.Slot, error) {
	return scanSlot(r.db.QueryRow(ctx, `SELECT `+slotColumns+` FROM slots WHERE id=$1`, id))
}

func (r *PGSlotRepository) FirstStartingBetween(ctx context.Context, from, to time.Time, excludeID int64) (*domain.Slot, error) {
	return r.firstWhere(ctx,
		`start_time >= $1 AND start_time < $2`, []any{from, to}, excludeID)
}

func (r *PGSlotRepository) FirstPrevDayOverlap(ctx context.Context, from, to, start time.Time, excludeID int64) (*domain.Slot, error) {
	return r.firstWhere(ctx,
		`start_time >= $1 AND start_time < $2 AND end_time > $3`, []any{from, to, start}, excludeID)
}

func (r *PGSlotRepository) FirstNextDayOverlap(ctx context.Context, from, to, end time.Time, excludeID int64) (*domain.Slot, error) {
	return r.firstWhere(ctx,
		`start_time >= $1 AND start_time < $2 AND start_time < $3`, []any{from, to, end}, excludeID)
}

func (r *PGSlotRepository) FirstOverlapping(ctx context.Context, start, end time.Time, excludeID int64) (*domain.Slot, error) {
	return r.firstWhere(ctx,
		`end_time > $1 AND start_time < $2`, []any{start, end}, excludeID)
}

// firstWhere runs a single-row slot query with an optional identity
// exclusion (used when editing a slot so it does not conflict with itself).
// Returns (nil, nil) when no row matches.
func (r *PGSlotRepository) firstWhere(ctx context.Context, where string, args []any, excludeID int64) (*domain.Slot, error) {
	query := `SELECT ` + slotColumns + ` FROM slots WHERE ` + where
	if excludeID != 0 {
		args = append(args, excludeID)
		query += ` AND id != $` + strconv.Itoa(len(args))
	}
	query += ` LIMIT 1`

	slot, err := scanSlot(r.db.QueryRow(ctx, query, args...))
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	return slot, err
}

func (r *PGSlotRepository) Create(ctx context.Context, slot *domain.Slot) error {
	return r.db.QueryRow(ctx, `INSERT INTO slots (title, description, start_time, end_time, max_bookings, available, weather_rating, weather_warning, weather_forecast)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at`,
		slot.Title, slot.Description, slot.StartTime, slot.EndTime, slot.MaxBookings,
		slot.Available, slot.WeatherRating, slot.WeatherWarning, slot.WeatherForecast).
		Scan(&slot.ID, &slot.CreatedAt, &slot.UpdatedAt)
}

func (r *PGSlotRepository) Update(ctx context.Context, slot *domain.Slot) error {
	cmd, err := r.db.Exec(ctx, `UPDATE slots SET title=$1, description=$2, start_time=$3, end_time=$4, max_bookings=$5, available=$6, weather_rating=$7, weather_warning=$8, weather_forecast=$9, updated_at=now() WHERE id=$10`,
		slot.Title, slot.Description, slot.StartTime, slot.EndTime, slot.MaxBookings,
		slot.Available, slot.WeatherRating, slot.WeatherWarning, slot.WeatherForecast, slot.ID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PGSlotRepository) Delete(ctx context.Context, id int64) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var count int
	if err := tx.QueryRow(ctx, `SELECT COUNT(*) FROM bookings WHERE slot_id=$1`, id).Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return ErrSlotHasBookings
	}

	cmd, err := tx.Exec(ctx, `DELETE FROM slots WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return tx.Commit(ctx)
}

func (r *PGSlotRepository) StartingBetween(ctx context.Context, from, to time.Time) ([]domain.Slot, error) {
	rows, err := r.db.Query(ctx, `SELECT `+slotColumns+` FROM slots WHERE start_time >= $1 AND start_time <= $2 ORDER BY start_time`, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectSlots(rows)
}

func (r *PGSlotRepository) UpdateWeather(ctx context.Context, id int64, rating *float64, warning, forecast bool) error {
	_, err := r.db.Exec(ctx, `UPDATE slots SET weather_rating=$1, weather_warning=$2, weather_forecast=$3, updated_at=now() WHERE id=$4`,
		rating, warning, forecast, id)
	return err
}

func collectSlots(rows pgx.Rows) ([]domain.Slot, error) {
	slots := make([]domain.Slot, 0)
	for rows.Next() {
		var s domain.Slot
		if err := rows.Scan(&s.ID, &s.Title, &s.Description, &s.StartTime, &s.EndTime, &s.MaxBookings,
			&s.Available, &s.WeatherRating, &s.WeatherWarning, &s.WeatherForecast, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		slots = append(slots, s)
	}
	return slots, rows.Err()
}

var _ SlotRepository = (*PGSlotRepository)(nil)
