package repository

import (
	"context"
	"errors"
	"time"

	"venuebook/internal/domain/venue"
	"venuebook/internal/infra"
	"venuebook/internal/usecase/commands"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type venueRepository struct {
	pool *pgxpool.Pool
}

func NewVenueRepository(pool *pgxpool.Pool) commands.VenueRepository {
	return &venueRepository{pool: pool}
}

func (r *venueRepository) Create(ctx context.Context, v *venue.Venue) error {
	const query = `
		INSERT INTO venues (
			id, name, capacity, description,
			has_air_conditioning, has_microphone, has_projector, image_ref
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	f := v.Facilities()
	_, err := r.pool.Exec(ctx, query,
		v.ID(), v.Name(), v.Capacity(), v.Description(),
		f.AirConditioning, f.Microphone, f.Projector, v.ImageRef(),
	)
	if err != nil {
		return infra.WrapRepoErr(infra.ClassifyPgError(err), "failed to insert venue", err)
	}
	return nil
}

func (r *venueRepository) FindByID(ctx context.Context, id uuid.UUID) (*venue.Venue, error) {
	const query = `
		SELECT id, name, capacity, description,
			has_air_conditioning, has_microphone, has_projector, image_ref,
			created_at, updated_at
		FROM venues WHERE id = $1`

	var (
		venueID              uuid.UUID
		name, description    string
		capacity             int
		facilities           venue.Facilities
		imageRef             *string
		createdAt, updatedAt time.Time
	)
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&venueID, &name, &capacity, &description,
		&facilities.AirConditioning, &facilities.Microphone, &facilities.Projector, &imageRef,
		&createdAt, &updatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr(infra.KindNotFound, "venue not found", err)
		}
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to find venue", err)
	}

	return venue.ReconstructVenue(venueID, name, capacity, description, facilities, imageRef, createdAt, updatedAt), nil
}

func (r *venueRepository) Update(ctx context.Context, v *venue.Venue) error {
	const query = `
		UPDATE venues
		SET name = $2, capacity = $3, description = $4,
			has_air_conditioning = $5, has_microphone = $6, has_projector = $7,
			image_ref = $8, updated_at = now()
		WHERE id = $1`

	f := v.Facilities()
	tag, err := r.pool.Exec(ctx, query,
		v.ID(), v.Name(), v.Capacity(), v.Description(),
		f.AirConditioning, f.Microphone, f.Projector, v.ImageRef(),
	)
	if err != nil {
		return infra.WrapRepoErr(infra.ClassifyPgError(err), "failed to update venue", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr(infra.KindNotFound, "venue not found", nil)
	}
	return nil
}

func (r *venueRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM venues WHERE id = $1`, id)
	if err != nil {
		return false, infra.WrapRepoErr(infra.ClassifyPgError(err), "failed to delete venue", err)
	}
	return tag.RowsAffected() > 0, nil
}
