package commands

import (
	"context"

	"venuebook/internal/domain/venue"
	"venuebook/internal/infra"
	"venuebook/internal/pkg/errs"

	"github.com/google/uuid"
)

var (
	ErrDuplicateVenueName = errs.New("venue name already in use")
	ErrVenueInUse         = errs.New("venue has bookings and cannot be deleted")
)

type VenueParams struct {
	Name        string
	Capacity    int
	Description string
	Facilities  venue.Facilities
	ImageRef    *string
}

type VenueCommands interface {
	Create(ctx context.Context, params VenueParams) (uuid.UUID, error)
	Update(ctx context.Context, id uuid.UUID, params VenueParams) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type venueCommandsImpl struct {
	venueRepo VenueRepository
}

func NewVenueCommands(venueRepo VenueRepository) VenueCommands {
	return &venueCommandsImpl{venueRepo: venueRepo}
}

func (c *venueCommandsImpl) Create(ctx context.Context, params VenueParams) (uuid.UUID, error) {
	v, err := venue.NewVenue(params.Name, params.Capacity, params.Description, params.Facilities, params.ImageRef)
	if err != nil {
		return uuid.Nil, errs.Mark(err, ErrDomainValidation)
	}

	if err := c.venueRepo.Create(ctx, v); err != nil {
		if infra.IsKind(err, infra.KindDuplicateKey) {
			return uuid.Nil, errs.Mark(err, ErrDuplicateVenueName)
		}
		return uuid.Nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	return v.ID(), nil
}

func (c *venueCommandsImpl) Update(ctx context.Context, id uuid.UUID, params VenueParams) error {
	v, err := c.venueRepo.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return errs.Mark(err, ErrVenueNotFound)
		}
		return errs.Mark(err, ErrDatabaseOperationFailed)
	}

	if err := v.Update(params.Name, params.Capacity, params.Description, params.Facilities, params.ImageRef); err != nil {
		return errs.Mark(err, ErrDomainValidation)
	}

	if err := c.venueRepo.Update(ctx, v); err != nil {
		if infra.IsKind(err, infra.KindDuplicateKey) {
			return errs.Mark(err, ErrDuplicateVenueName)
		}
		return errs.Mark(err, ErrDatabaseOperationFailed)
	}
	return nil
}

func (c *venueCommandsImpl) Delete(ctx context.Context, id uuid.UUID) error {
	deleted, err := c.venueRepo.Delete(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindForeignKeyViolated) {
			return errs.Mark(err, ErrVenueInUse)
		}
		return errs.Mark(err, ErrDatabaseOperationFailed)
	}
	if !deleted {
		return ErrVenueNotFound
	}
	return nil
}
