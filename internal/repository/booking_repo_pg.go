package repository

import (
	"context"
	"errors"

	"github.com/ecarponi/obsbook/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type BookingRepository interface {
	CountConfirmed(ctx context.Context, slotID int64) (int, error)
	ExistsConfirmed(ctx context.Context, userID, slotID int64) (bool, error)
	// CreateConfirmed inserts a confirmed booking and recomputes the
	// slot's availability inside one transaction. Returns ErrSlotFull when
	// capacity is already reached and ErrDuplicateBooking on a (user, slot)
	// uniqueness violation.
	CreateConfirmed(ctx context.Context, booking *domain.Booking) error
	// DeleteConfirmed removes the user's confirmed booking for the slot
	// and recomputes availability inside one transaction. The booking row
	// is locked before deletion. Returns ErrNoActiveBooking when no
	// confirmed booking exists.
	DeleteConfirmed(ctx context.Context, userID, slotID int64) (*domain.Booking, error)
	ListBySlot(ctx context.Context, slotID int64) ([]domain.Booking, error)
}

type PGBookingRepository struct {
	db *pgxpool.Pool
}

func NewBookingRepository(db *pgxpool.Pool) BookingRepository {
	return &PGBookingRepository{db: db}
}

func (r *PGBookingRepository) CountConfirmed(ctx context.Context, slotID int64) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM bookings WHERE slot_id=$1 AND status=$2`,
		slotID, domain.BookingStatusConfirmed).Scan(&count)
	return count, err
}

func (r *PGBookingRepository) ExistsConfirmed(ctx context.Context, userID, slotID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM bookings WHERE user_id=$1 AND slot_id=$2 AND status=$3)`,
		userID, slotID, domain.BookingStatusConfirmed).Scan(&exists)
	return exists, err
}

func (r *PGBookingRepository) CreateConfirmed(ctx context.Context, booking *domain.Booking) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	// Lock the slot row so the capacity recount cannot race a concurrent
	// insert within the database either.
	var maxBookings int
	err = tx.QueryRow(ctx, `SELECT max_bookings FROM slots WHERE id=$1 FOR UPDATE`, booking.SlotID).Scan(&maxBookings)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}

	var confirmed int
	if err := tx.QueryRow(ctx, `SELECT COUNT(*) FROM bookings WHERE slot_id=$1 AND status=$2`,
		booking.SlotID, domain.BookingStatusConfirmed).Scan(&confirmed); err != nil {
		return err
	}
	if confirmed >= maxBookings {
		return ErrSlotFull
	}

	booking.Status = domain.BookingStatusConfirmed
	if booking.Reference == "" {
		booking.Reference = uuid.NewString()
	}
	err = tx.QueryRow(ctx, `INSERT INTO bookings (user_id, slot_id, reference, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at`,
		booking.UserID, booking.SlotID, booking.Reference, booking.Status).
		Scan(&booking.ID, &booking.CreatedAt, &booking.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateBooking
		}
		return err
	}

	if _, err := tx.Exec(ctx, `UPDATE slots SET available = ($1 < max_bookings), updated_at=now() WHERE id=$2`,
		confirmed+1, booking.SlotID); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *PGBookingRepository) DeleteConfirmed(ctx context.Context, userID, slotID int64) (*domain.Booking, error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	var b domain.Booking
	err = tx.QueryRow(ctx, `SELECT id, user_id, slot_id, reference, status, created_at, updated_at
		FROM bookings WHERE user_id=$1 AND slot_id=$2 AND status=$3 FOR UPDATE`,
		userID, slotID, domain.BookingStatusConfirmed).
		Scan(&b.ID, &b.UserID, &b.SlotID, &b.Reference, &b.Status, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNoActiveBooking
		}
		return nil, err
	}

	if _, err := tx.Exec(ctx, `DELETE FROM bookings WHERE id=$1`, b.ID); err != nil {
		return nil, err
	}

	var confirmed int
	if err := tx.QueryRow(ctx, `SELECT COUNT(*) FROM bookings WHERE slot_id=$1 AND status=$2`,
		slotID, domain.BookingStatusConfirmed).Scan(&confirmed); err != nil {
		return nil, err
	}

	if _, err := tx.Exec(ctx, `UPDATE slots SET available = ($1 < max_bookings), updated_at=now() WHERE id=$2`,
		confirmed, slotID); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *PGBookingRepository) ListBySlot(ctx context.Context, slotID int64) ([]domain.Booking, error) {
	rows, err := r.db.Query(ctx, `SELECT id, user_id, slot_id, reference, status, created_at, updated_at FROM bookings WHERE slot_id=$1 ORDER BY created_at`, slotID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bookings := make([]domain.Booking, 0)
	for rows.Next() {
		var b domain.Booking
		if err := rows.Scan(&b.ID, &b.UserID, &b.SlotID, &b.Reference, &b.Status, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}

var _ BookingRepository = (*PGBookingRepository)(nil)
