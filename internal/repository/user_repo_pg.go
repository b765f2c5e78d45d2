package repository

import (
	"context"
	"errors"

	"github.com/ecarponi/obsbook/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type UserRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	UpdateRole(ctx context.Context, id int64, role string, adminRank *string) error
	SetBlocked(ctx context.Context, id int64, blocked bool) error
	Delete(ctx context.Context, id int64) error
}

type PGUserRepository struct {
	db *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) UserRepository {
	return &PGUserRepository{db: db}
}

func (r *PGUserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	var u domain.User
	var adminRank *string
	err := r.db.QueryRow(ctx, `SELECT id, name, email, role, blocked, admin_rank FROM users WHERE id=$1`, id).
		Scan(&u.ID, &u.Name, &u.Email, &u.Role, &u.Blocked, &adminRank)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if adminRank != nil {
		u.AdminRank = *adminRank
	}
	return &u, nil
}

func (r *PGUserRepository) UpdateRole(ctx context.Context, id int64, role string, adminRank *string) error {
	cmd, err := r.db.Exec(ctx, `UPDATE users SET role=$1, admin_rank=$2 WHERE id=$3`, role, adminRank, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PGUserRepository) SetBlocked(ctx context.Context, id int64, blocked bool) error {
	cmd, err := r.db.Exec(ctx, `UPDATE users SET blocked=$1 WHERE id=$2`, blocked, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PGUserRepository) Delete(ctx context.Context, id int64) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM users WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

var _ UserRepository = (*PGUserRepository)(nil)
