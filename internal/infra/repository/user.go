package repository

import (
	"context"
	"errors"
	"time"

	"venuebook/internal/domain/user"
	"venuebook/internal/infra"
	"venuebook/internal/usecase/commands"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type userRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) commands.UserRepository {
	return &userRepository{pool: pool}
}

func (r *userRepository) Create(ctx context.Context, u *user.User) error {
	const query = `
		INSERT INTO users (id, username, email, password_hash, role)
		VALUES ($1, $2, $3, $4, $5)`

	_, err := r.pool.Exec(ctx, query,
		u.ID(), u.Username().Value(), u.Email().Value(), u.PasswordHash(), u.Role().String(),
	)
	if err != nil {
		return infra.WrapRepoErr(infra.ClassifyPgError(err), "failed to insert user", err)
	}
	return nil
}

func (r *userRepository) FindByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	const query = `
		SELECT id, username, email, password_hash, role, created_at, updated_at
		FROM users WHERE id = $1`

	var (
		userID                uuid.UUID
		usernameRaw, emailRaw string
		passwordHash, roleRaw string
		createdAt, updatedAt  time.Time
	)
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&userID, &usernameRaw, &emailRaw, &passwordHash, &roleRaw, &createdAt, &updatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr(infra.KindNotFound, "user not found", err)
		}
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to find user", err)
	}

	username, err := user.NewUsername(usernameRaw)
	if err != nil {
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "stored username is invalid", err)
	}
	email, err := user.NewEmail(emailRaw)
	if err != nil {
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "stored email is invalid", err)
	}
	role, err := user.NewRole(roleRaw)
	if err != nil {
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "stored role is invalid", err)
	}

	return user.ReconstructUser(userID, username, email, passwordHash, role, createdAt, updatedAt), nil
}
