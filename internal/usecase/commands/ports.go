package commands

import (
	"context"
	"time"

	"venuebook/internal/domain/booking"
	"venuebook/internal/domain/user"
	"venuebook/internal/domain/venue"
	"venuebook/internal/infra/db"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// TxBeginner opens transactions for the multi-venue create path. Satisfied
// by *pgxpool.Pool.
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Write-side repository ports implemented by internal/infra/repository.

type BookingRepository interface {
	Create(ctx context.Context, tx db.DBTX, b *booking.Booking) error
	FindByID(ctx context.Context, id uuid.UUID) (*booking.Booking, error)
	// FindByVenue returns every booking on a venue; the conflict check
	// runs it against the same DBTX that creates the new records.
	FindByVenue(ctx context.Context, tx db.DBTX, venueID uuid.UUID) ([]*booking.Booking, error)
	FindByBatch(ctx context.Context, batchID uuid.UUID) ([]*booking.Booking, error)
	Update(ctx context.Context, b *booking.Booking) error
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
}

type VenueRepository interface {
	Create(ctx context.Context, v *venue.Venue) error
	FindByID(ctx context.Context, id uuid.UUID) (*venue.Venue, error)
	Update(ctx context.Context, v *venue.Venue) error
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
}

type UserRepository interface {
	Create(ctx context.Context, u *user.User) error
	FindByID(ctx context.Context, id uuid.UUID) (*user.User, error)
}

// BookingNotice is the notification payload for one booking record:
// requester identity, purpose, time range, action target and document
// reference. The dispatcher renders it however its transport needs.
type BookingNotice struct {
	BookingID         uuid.UUID
	VenueName         string
	RequesterUsername string
	RequesterEmail    string
	Purpose           string
	StartTime         time.Time
	EndTime           time.Time
	Status            string
	DocumentRef       string
	RejectionReason   *string
}

// NotificationDispatcher is the outbound messaging boundary. Calls are
// best-effort: the workflow logs failures and never rolls back a
// persisted transition because a message could not be sent.
type NotificationDispatcher interface {
	// NotifyApprovalRequest sends one bundled request for a batch to the
	// approver of the given level.
	NotifyApprovalRequest(ctx context.Context, records []BookingNotice, level int) error
	NotifyApproved(ctx context.Context, recipientEmail string, record BookingNotice) error
	NotifyRejected(ctx context.Context, recipientEmail string, record BookingNotice, reason string, level int) error
	// NotifyCancelled informs a requester that an administrator removed
	// their booking.
	NotifyCancelled(ctx context.Context, recipientEmail string, record BookingNotice) error
}
