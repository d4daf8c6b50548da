package queries

import (
	"context"

	"venuebook/internal/pkg/errs"

	"github.com/google/uuid"
)

var ErrBookingNotFound = errs.New("booking not found")

type BookingQueries interface {
	GetByID(ctx context.Context, id uuid.UUID) (*BookingView, error)
	// ListVisible returns every booking for admins and only the actor's
	// own bookings otherwise.
	ListVisible(ctx context.Context, actorID uuid.UUID, actorIsAdmin bool) ([]*BookingListItem, error)
	// ListConfirmedByVenue feeds the availability display: only confirmed
	// bookings block a venue definitively.
	ListConfirmedByVenue(ctx context.Context, venueID uuid.UUID) ([]*BookingListItem, error)
	ListAll(ctx context.Context) ([]*BookingListItem, error)
}

type BookingReadStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*BookingView, error)
	FindAll(ctx context.Context) ([]*BookingListItem, error)
	FindByRequester(ctx context.Context, requesterID uuid.UUID) ([]*BookingListItem, error)
	FindConfirmedByVenue(ctx context.Context, venueID uuid.UUID) ([]*BookingListItem, error)
}

type bookingQueriesImpl struct {
	store BookingReadStore
}

func NewBookingQueries(store BookingReadStore) BookingQueries {
	return &bookingQueriesImpl{store: store}
}

func (q *bookingQueriesImpl) GetByID(ctx context.Context, id uuid.UUID) (*BookingView, error) {
	return q.store.FindByID(ctx, id)
}

func (q *bookingQueriesImpl) ListVisible(ctx context.Context, actorID uuid.UUID, actorIsAdmin bool) ([]*BookingListItem, error) {
	if actorIsAdmin {
		return q.store.FindAll(ctx)
	}
	return q.store.FindByRequester(ctx, actorID)
}

func (q *bookingQueriesImpl) ListConfirmedByVenue(ctx context.Context, venueID uuid.UUID) ([]*BookingListItem, error) {
	return q.store.FindConfirmedByVenue(ctx, venueID)
}

func (q *bookingQueriesImpl) ListAll(ctx context.Context) ([]*BookingListItem, error) {
	return q.store.FindAll(ctx)
}
