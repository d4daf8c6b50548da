package queries

import (
	"context"

	"venuebook/internal/pkg/errs"

	"github.com/google/uuid"
)

var ErrVenueNotFound = errs.New("venue not found")

type VenueQueries interface {
	GetByID(ctx context.Context, id uuid.UUID) (*VenueView, error)
	List(ctx context.Context) ([]*VenueView, error)
}

type VenueReadStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*VenueView, error)
	FindAll(ctx context.Context) ([]*VenueView, error)
}

type venueQueriesImpl struct {
	store VenueReadStore
}

func NewVenueQueries(store VenueReadStore) VenueQueries {
	return &venueQueriesImpl{store: store}
}

func (q *venueQueriesImpl) GetByID(ctx context.Context, id uuid.UUID) (*VenueView, error) {
	return q.store.FindByID(ctx, id)
}

func (q *venueQueriesImpl) List(ctx context.Context) ([]*VenueView, error) {
	return q.store.FindAll(ctx)
}
