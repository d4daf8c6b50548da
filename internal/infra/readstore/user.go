package readstore

import (
	"context"
	"errors"

	"venuebook/internal/infra"
	"venuebook/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type userReadStore struct {
	pool *pgxpool.Pool
}

func NewUserReadStore(pool *pgxpool.Pool) queries.UserReadStore {
	return &userReadStore{pool: pool}
}

func (s *userReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.UserView, error) {
	const query = `SELECT id, username, email, role, created_at FROM users WHERE id = $1`

	var view queries.UserView
	err := s.pool.QueryRow(ctx, query, id).Scan(
		&view.ID, &view.Username, &view.Email, &view.Role, &view.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, queries.ErrUserNotFound
		}
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to find user view", err)
	}
	return &view, nil
}

func (s *userReadStore) FindAuthByUsername(ctx context.Context, username string) (*queries.AuthUserView, error) {
	const query = `SELECT id, username, email, password_hash, role FROM users WHERE username = $1`

	var view queries.AuthUserView
	err := s.pool.QueryRow(ctx, query, username).Scan(
		&view.ID, &view.Username, &view.Email, &view.PasswordHash, &view.Role,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, queries.ErrUserNotFound
		}
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to find auth user", err)
	}
	return &view, nil
}
