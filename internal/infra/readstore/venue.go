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

const venueViewSelect = `
	SELECT id, name, capacity, description,
		has_air_conditioning, has_microphone, has_projector, image_ref,
		created_at, updated_at
	FROM venues`

type venueReadStore struct {
	pool *pgxpool.Pool
}

func NewVenueReadStore(pool *pgxpool.Pool) queries.VenueReadStore {
	return &venueReadStore{pool: pool}
}

func (s *venueReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.VenueView, error) {
	var view queries.VenueView
	err := s.pool.QueryRow(ctx, venueViewSelect+` WHERE id = $1`, id).Scan(
		&view.ID, &view.Name, &view.Capacity, &view.Description,
		&view.AirConditioning, &view.Microphone, &view.Projector, &view.ImageRef,
		&view.CreatedAt, &view.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, queries.ErrVenueNotFound
		}
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to find venue view", err)
	}
	return &view, nil
}

func (s *venueReadStore) FindAll(ctx context.Context) ([]*queries.VenueView, error) {
	rows, err := s.pool.Query(ctx, venueViewSelect+` ORDER BY name`)
	if err != nil {
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to list venues", err)
	}
	defer rows.Close()

	views := make([]*queries.VenueView, 0)
	for rows.Next() {
		var view queries.VenueView
		err := rows.Scan(
			&view.ID, &view.Name, &view.Capacity, &view.Description,
			&view.AirConditioning, &view.Microphone, &view.Projector, &view.ImageRef,
			&view.CreatedAt, &view.UpdatedAt,
		)
		if err != nil {
			return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to scan venue row", err)
		}
		views = append(views, &view)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to read venue rows", err)
	}
	return views, nil
}
