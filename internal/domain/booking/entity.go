package booking

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrAlreadyConfirmed = errors.New("booking is already confirmed")
	ErrAlreadyCancelled = errors.New("booking is already cancelled")
)

// Booking is one venue reservation within a submission. A multi-venue
// submission creates several bookings sharing one batch ID; each advances
// through the approval levels independently.
type Booking struct {
	id              uuid.UUID
	batchID         uuid.UUID
	requesterID     uuid.UUID
	venueID         uuid.UUID
	slot            TimeSlot
	purpose         Purpose
	documentRef     DocumentRef
	status          Status
	rejectionReason *string
	rejectedAt      *time.Time
	createdAt       time.Time
	updatedAt       time.Time
}

// NewBooking starts a booking at pending_level_1.
func NewBooking(batchID, requesterID, venueID uuid.UUID, slot TimeSlot, purpose Purpose, documentRef DocumentRef) *Booking {
	initial, _ := StatusPendingLevel(1)
	return &Booking{
		id:          uuid.New(),
		batchID:     batchID,
		requesterID: requesterID,
		venueID:     venueID,
		slot:        slot,
		purpose:     purpose,
		documentRef: documentRef,
		status:      initial,
	}
}

func ReconstructBooking(
	id, batchID, requesterID, venueID uuid.UUID,
	slot TimeSlot,
	purpose Purpose,
	documentRef DocumentRef,
	status Status,
	rejectionReason *string,
	rejectedAt *time.Time,
	createdAt, updatedAt time.Time,
) *Booking {
	return &Booking{
		id:              id,
		batchID:         batchID,
		requesterID:     requesterID,
		venueID:         venueID,
		slot:            slot,
		purpose:         purpose,
		documentRef:     documentRef,
		status:          status,
		rejectionReason: rejectionReason,
		rejectedAt:      rejectedAt,
		createdAt:       createdAt,
		updatedAt:       updatedAt,
	}
}

func (b *Booking) ID() uuid.UUID            { return b.id }
func (b *Booking) BatchID() uuid.UUID       { return b.batchID }
func (b *Booking) RequesterID() uuid.UUID   { return b.requesterID }
func (b *Booking) VenueID() uuid.UUID       { return b.venueID }
func (b *Booking) Slot() TimeSlot           { return b.slot }
func (b *Booking) Purpose() Purpose         { return b.purpose }
func (b *Booking) DocumentRef() DocumentRef { return b.documentRef }
func (b *Booking) Status() Status           { return b.status }
func (b *Booking) RejectionReason() *string { return b.rejectionReason }
func (b *Booking) RejectedAt() *time.Time   { return b.rejectedAt }
func (b *Booking) CreatedAt() time.Time     { return b.createdAt }
func (b *Booking) UpdatedAt() time.Time     { return b.updatedAt }

// ApprovalOutcome describes what an approval transition did. The caller
// performs the corresponding side effects (batch clearance evaluation or
// requester notification); the transition itself stays pure.
type ApprovalOutcome struct {
	// ClearedLevel is the level the booking just passed.
	ClearedLevel int
	// Confirmed is true when the cleared level was the last one.
	Confirmed bool
}

// Approve advances the booking one level, or confirms it when the current
// level is the last. Terminal bookings fail with ErrAlreadyConfirmed or
// ErrAlreadyCancelled.
func (b *Booking) Approve() (ApprovalOutcome, error) {
	if err := b.ensureNotTerminal(); err != nil {
		return ApprovalOutcome{}, err
	}

	level := b.status.Level()
	if level >= MaxApprovalLevel {
		b.status = StatusConfirmed
		return ApprovalOutcome{ClearedLevel: level, Confirmed: true}, nil
	}

	next, err := StatusPendingLevel(level + 1)
	if err != nil {
		return ApprovalOutcome{}, err
	}
	b.status = next
	return ApprovalOutcome{ClearedLevel: level}, nil
}

// Reject cancels the booking permanently, recording the reason and the
// rejection time. Sibling bookings in the same batch are unaffected.
func (b *Booking) Reject(reason string, now time.Time) error {
	if err := b.ensureNotTerminal(); err != nil {
		return err
	}

	b.status = StatusCancelled
	b.rejectionReason = &reason
	b.rejectedAt = &now
	return nil
}

// CancellableBy allows the requester themselves or any admin.
func (b *Booking) CancellableBy(actorID uuid.UUID, actorIsAdmin bool) bool {
	return actorIsAdmin || b.requesterID == actorID
}

func (b *Booking) ensureNotTerminal() error {
	switch {
	case b.status.IsConfirmed():
		return ErrAlreadyConfirmed
	case b.status.IsCancelled():
		return ErrAlreadyCancelled
	default:
		return nil
	}
}
