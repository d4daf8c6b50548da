package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"venuebook/internal/domain/booking"
	"venuebook/internal/infra"
	"venuebook/internal/pkg/clock"
	"venuebook/internal/pkg/errs"
	"venuebook/internal/pkg/keylock"
	"venuebook/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var (
	ErrNoVenuesSelected        = errs.New("no venues selected")
	ErrBookingNotFound         = errs.New("booking not found")
	ErrVenueNotFound           = errs.New("venue not found")
	ErrVenueConflict           = errs.New("venue conflict")
	ErrDomainValidation        = errs.New("domain validation error")
	ErrEmptyRejectionReason    = errs.New("rejection reason is required")
	ErrForbidden               = errs.New("operation not permitted")
	ErrDatabaseOperationFailed = errs.New("database operation failed")

	// Terminal-state transitions surface the domain sentinels unchanged.
	ErrAlreadyConfirmed = booking.ErrAlreadyConfirmed
	ErrAlreadyCancelled = booking.ErrAlreadyCancelled
)

// ConflictError reports which venue collided and with what, so the
// submitter learns why the whole submission was turned away.
type ConflictError struct {
	VenueName          string
	ConflictingPurpose string
	// Pending is true when the collision is with a not-yet-confirmed
	// booking (the venue is in the waiting list, not hard-booked).
	Pending bool
}

func (e *ConflictError) Error() string {
	if e.Pending {
		return fmt.Sprintf("venue %q is in the waiting list", e.VenueName)
	}
	return fmt.Sprintf("venue %q is already booked for: %s", e.VenueName, e.ConflictingPurpose)
}

type CreateBookingParams struct {
	RequesterID uuid.UUID
	VenueIDs    []uuid.UUID
	StartTime   time.Time
	EndTime     time.Time
	Purpose     string
	DocumentRef string
}

type ApproveResult struct {
	Booking *queries.BookingView
	// ClearedLevel is the approval level this action completed.
	ClearedLevel int
	// Confirmed is true when the booking passed the final level.
	Confirmed bool
	// AwaitingSiblings counts batch siblings still unprocessed at the
	// cleared level; the next approver is contacted only when it is zero.
	AwaitingSiblings int
	// Forwarded counts siblings bundled into the next-level request (zero
	// when no dispatch happened).
	Forwarded int
}

type BookingCommands interface {
	Create(ctx context.Context, params CreateBookingParams) ([]*queries.BookingView, error)
	Approve(ctx context.Context, id uuid.UUID) (*ApproveResult, error)
	Reject(ctx context.Context, id uuid.UUID, reason string) error
	Cancel(ctx context.Context, id uuid.UUID, actorID uuid.UUID, actorIsAdmin bool) error
}

type bookingCommandsImpl struct {
	bookingRepo    BookingRepository
	venueRepo      VenueRepository
	userRepo       UserRepository
	dispatcher     NotificationDispatcher
	bookingQueries queries.BookingQueries
	db             TxBeginner
	clock          clock.Clock
	venueLocks     *keylock.KeyedMutex
	batchLocks     *keylock.KeyedMutex
}

func NewBookingCommands(
	bookingRepo BookingRepository,
	venueRepo VenueRepository,
	userRepo UserRepository,
	dispatcher NotificationDispatcher,
	bookingQueries queries.BookingQueries,
	db TxBeginner,
	clk clock.Clock,
) BookingCommands {
	return &bookingCommandsImpl{
		bookingRepo:    bookingRepo,
		venueRepo:      venueRepo,
		userRepo:       userRepo,
		dispatcher:     dispatcher,
		bookingQueries: bookingQueries,
		db:             db,
		clock:          clk,
		venueLocks:     keylock.New(),
		batchLocks:     keylock.New(),
	}
}

// Create admits a multi-venue submission atomically: every target venue
// must be free, otherwise nothing is created. On success all records start
// at pending_level_1 under one batch ID and the level-1 approver receives
// a single bundled request.
func (c *bookingCommandsImpl) Create(ctx context.Context, params CreateBookingParams) ([]*queries.BookingView, error) {
	venueIDs := dedupeVenueIDs(params.VenueIDs)
	if len(venueIDs) == 0 {
		return nil, ErrNoVenuesSelected
	}

	slot, err := booking.NewTimeSlot(params.StartTime, params.EndTime)
	if err != nil {
		return nil, errs.Mark(err, ErrDomainValidation)
	}
	if err := slot.ValidateNotPast(c.clock.Now()); err != nil {
		return nil, errs.Mark(err, ErrDomainValidation)
	}
	purpose, err := booking.NewPurpose(params.Purpose)
	if err != nil {
		return nil, errs.Mark(err, ErrDomainValidation)
	}
	documentRef, err := booking.NewDocumentRef(params.DocumentRef)
	if err != nil {
		return nil, errs.Mark(err, ErrDomainValidation)
	}

	// Serialize the conflict check-then-create against concurrent
	// submissions for the same venues. Sorted acquisition keeps
	// overlapping submissions deadlock-free.
	lockKeys := venueLockKeys(venueIDs)
	c.venueLocks.LockAll(lockKeys)
	defer c.venueLocks.UnlockAll(lockKeys)

	created, err := c.admitSubmission(ctx, venueIDs, params.RequesterID, slot, purpose, documentRef)
	if err != nil {
		return nil, err
	}

	c.dispatchApprovalRequest(ctx, created, 1)

	views := make([]*queries.BookingView, 0, len(created))
	for _, b := range created {
		view, err := c.bookingQueries.GetByID(ctx, b.ID())
		if err != nil {
			return nil, errs.Mark(err, ErrDatabaseOperationFailed)
		}
		views = append(views, view)
	}
	return views, nil
}

func (c *bookingCommandsImpl) admitSubmission(
	ctx context.Context,
	venueIDs []uuid.UUID,
	requesterID uuid.UUID,
	slot booking.TimeSlot,
	purpose booking.Purpose,
	documentRef booking.DocumentRef,
) ([]*booking.Booking, error) {
	tx, err := c.db.Begin(ctx)
	if err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	defer func() {
		if rollbackErr := tx.Rollback(ctx); rollbackErr != nil && !errors.Is(rollbackErr, pgx.ErrTxClosed) {
			slog.Warn("failed to rollback transaction", "error", rollbackErr)
		}
	}()

	batchID := uuid.New()
	created := make([]*booking.Booking, 0, len(venueIDs))

	for _, venueID := range venueIDs {
		venueEntity, err := c.venueRepo.FindByID(ctx, venueID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return nil, errs.Mark(err, ErrVenueNotFound)
			}
			return nil, errs.Mark(err, ErrDatabaseOperationFailed)
		}

		existing, err := c.bookingRepo.FindByVenue(ctx, tx, venueID)
		if err != nil {
			return nil, errs.Mark(err, ErrDatabaseOperationFailed)
		}
		if hit := booking.FindConflict(existing, slot); hit != nil {
			conflict := &ConflictError{
				VenueName:          venueEntity.Name(),
				ConflictingPurpose: hit.Purpose().String(),
				Pending:            hit.Status().IsPending(),
			}
			return nil, errs.Mark(conflict, ErrVenueConflict)
		}

		b := booking.NewBooking(batchID, requesterID, venueID, slot, purpose, documentRef)
		if err := c.bookingRepo.Create(ctx, tx, b); err != nil {
			return nil, errs.Mark(err, ErrDatabaseOperationFailed)
		}
		created = append(created, b)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	return created, nil
}

// Approve advances one booking a level (or confirms it at the last level)
// and runs the batch-clearance rule: the next approver hears about the
// batch exactly once, after every sibling has been processed at the
// current level.
func (c *bookingCommandsImpl) Approve(ctx context.Context, id uuid.UUID) (*ApproveResult, error) {
	b, unlock, err := c.loadForTransition(ctx, id)
	if err != nil {
		return nil, err
	}
	defer unlock()

	outcome, err := b.Approve()
	if err != nil {
		return nil, err
	}
	if err := c.bookingRepo.Update(ctx, b); err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	result := &ApproveResult{ClearedLevel: outcome.ClearedLevel, Confirmed: outcome.Confirmed}

	if outcome.Confirmed {
		c.notifyRequesterApproved(ctx, b)
	} else {
		partition, err := c.evaluateBatchClearance(ctx, b.BatchID(), outcome.ClearedLevel)
		if err != nil {
			return nil, err
		}
		result.AwaitingSiblings = len(partition.StillPending)
		if partition.ShouldDispatch() {
			result.Forwarded = len(partition.AtNextLevel)
		}
	}

	view, err := c.bookingQueries.GetByID(ctx, id)
	if err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	result.Booking = view
	return result, nil
}

// Reject cancels a single booking permanently. Siblings in the batch are
// untouched, but the clearance rule is re-evaluated so a batch whose last
// open record was rejected still moves forward for the survivors.
func (c *bookingCommandsImpl) Reject(ctx context.Context, id uuid.UUID, reason string) error {
	if reason == "" {
		return ErrEmptyRejectionReason
	}

	b, unlock, err := c.loadForTransition(ctx, id)
	if err != nil {
		return err
	}
	defer unlock()

	rejectedLevel := b.Status().Level()
	if err := b.Reject(reason, c.clock.Now()); err != nil {
		return err
	}
	if err := c.bookingRepo.Update(ctx, b); err != nil {
		return errs.Mark(err, ErrDatabaseOperationFailed)
	}

	c.notifyRequesterRejected(ctx, b, reason, rejectedLevel)

	if _, err := c.evaluateBatchClearance(ctx, b.BatchID(), rejectedLevel); err != nil {
		return err
	}
	return nil
}

// Cancel removes a booking entirely. Only the requester or an admin may
// do it; an admin removing someone else's booking triggers a courtesy
// notification to that user. Removing a record still pending at a level
// re-runs the clearance rule, because it may have been the last one the
// batch was waiting on.
func (c *bookingCommandsImpl) Cancel(ctx context.Context, id uuid.UUID, actorID uuid.UUID, actorIsAdmin bool) error {
	b, unlock, err := c.loadForTransition(ctx, id)
	if err != nil {
		return err
	}
	defer unlock()

	if !b.CancellableBy(actorID, actorIsAdmin) {
		return ErrForbidden
	}

	deleted, err := c.bookingRepo.Delete(ctx, id)
	if err != nil {
		return errs.Mark(err, ErrDatabaseOperationFailed)
	}
	if !deleted {
		return ErrBookingNotFound
	}

	if b.Status().IsPending() {
		if _, err := c.evaluateBatchClearance(ctx, b.BatchID(), b.Status().Level()); err != nil {
			return err
		}
	}

	if actorIsAdmin && b.RequesterID() != actorID {
		requester, err := c.userRepo.FindByID(ctx, b.RequesterID())
		if err != nil {
			slog.Warn("could not resolve requester for cancellation notice", "booking_id", id, "error", err)
			return nil
		}
		notice := c.buildNotice(ctx, b)
		if notifyErr := c.dispatcher.NotifyCancelled(ctx, requester.Email().Value(), notice); notifyErr != nil {
			slog.Warn("cancellation notice failed", "booking_id", id, "error", notifyErr)
		}
	}
	return nil
}

// loadForTransition serializes approve/reject per batch and re-reads the
// booking under the lock so concurrent sibling transitions observe each
// other's writes.
func (c *bookingCommandsImpl) loadForTransition(ctx context.Context, id uuid.UUID) (*booking.Booking, func(), error) {
	b, err := c.bookingRepo.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, nil, errs.Mark(err, ErrBookingNotFound)
		}
		return nil, nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	key := b.BatchID().String()
	c.batchLocks.Lock(key)

	b, err = c.bookingRepo.FindByID(ctx, id)
	if err != nil {
		c.batchLocks.Unlock(key)
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, nil, errs.Mark(err, ErrBookingNotFound)
		}
		return nil, nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	return b, func() { c.batchLocks.Unlock(key) }, nil
}

func (c *bookingCommandsImpl) evaluateBatchClearance(ctx context.Context, batchID uuid.UUID, clearedLevel int) (booking.BatchPartition, error) {
	siblings, err := c.bookingRepo.FindByBatch(ctx, batchID)
	if err != nil {
		return booking.BatchPartition{}, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	partition := booking.PartitionBatch(siblings, clearedLevel)
	if partition.ShouldDispatch() {
		c.dispatchApprovalRequest(ctx, partition.DispatchRecords(), clearedLevel+1)
	}
	return partition, nil
}

func (c *bookingCommandsImpl) dispatchApprovalRequest(ctx context.Context, records []*booking.Booking, level int) {
	notices := make([]BookingNotice, 0, len(records))
	for _, b := range records {
		notices = append(notices, c.buildNotice(ctx, b))
	}
	if err := c.dispatcher.NotifyApprovalRequest(ctx, notices, level); err != nil {
		slog.Warn("approval request dispatch failed", "level", level, "records", len(notices), "error", err)
	}
}

func (c *bookingCommandsImpl) notifyRequesterApproved(ctx context.Context, b *booking.Booking) {
	requester, err := c.userRepo.FindByID(ctx, b.RequesterID())
	if err != nil {
		slog.Warn("could not resolve requester for approval notice", "booking_id", b.ID(), "error", err)
		return
	}
	if err := c.dispatcher.NotifyApproved(ctx, requester.Email().Value(), c.buildNotice(ctx, b)); err != nil {
		slog.Warn("approval notice failed", "booking_id", b.ID(), "error", err)
	}
}

func (c *bookingCommandsImpl) notifyRequesterRejected(ctx context.Context, b *booking.Booking, reason string, level int) {
	requester, err := c.userRepo.FindByID(ctx, b.RequesterID())
	if err != nil {
		slog.Warn("could not resolve requester for rejection notice", "booking_id", b.ID(), "error", err)
		return
	}
	if err := c.dispatcher.NotifyRejected(ctx, requester.Email().Value(), c.buildNotice(ctx, b), reason, level); err != nil {
		slog.Warn("rejection notice failed", "booking_id", b.ID(), "error", err)
	}
}

func (c *bookingCommandsImpl) buildNotice(ctx context.Context, b *booking.Booking) BookingNotice {
	notice := BookingNotice{
		BookingID:       b.ID(),
		Purpose:         b.Purpose().String(),
		StartTime:       b.Slot().Start(),
		EndTime:         b.Slot().End(),
		Status:          b.Status().String(),
		DocumentRef:     b.DocumentRef().String(),
		RejectionReason: b.RejectionReason(),
	}

	if v, err := c.venueRepo.FindByID(ctx, b.VenueID()); err == nil {
		notice.VenueName = v.Name()
	} else {
		slog.Warn("could not resolve venue for notice", "venue_id", b.VenueID(), "error", err)
	}
	if u, err := c.userRepo.FindByID(ctx, b.RequesterID()); err == nil {
		notice.RequesterUsername = u.Username().Value()
		notice.RequesterEmail = u.Email().Value()
	} else {
		slog.Warn("could not resolve requester for notice", "requester_id", b.RequesterID(), "error", err)
	}
	return notice
}

func dedupeVenueIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if id == uuid.Nil {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func venueLockKeys(ids []uuid.UUID) []string {
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = id.String()
	}
	sort.Strings(keys)
	return keys
}
