package readstore

import (
	"context"
	"errors"

	"venuebook/internal/domain/booking"
	"venuebook/internal/infra"
	"venuebook/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const bookingViewSelect = `
	SELECT b.id, b.batch_id, b.venue_id, v.name, b.requester_id, u.username, u.email,
		b.start_time, b.end_time, b.purpose, b.document_ref, b.status,
		b.rejection_reason, b.rejected_at, b.created_at, b.updated_at
	FROM bookings b
	JOIN venues v ON v.id = b.venue_id
	JOIN users u ON u.id = b.requester_id`

const bookingListSelect = `
	SELECT b.id, b.batch_id, b.venue_id, v.name, b.requester_id, u.username,
		b.start_time, b.end_time, b.purpose, b.status, b.created_at
	FROM bookings b
	JOIN venues v ON v.id = b.venue_id
	JOIN users u ON u.id = b.requester_id`

type bookingReadStore struct {
	pool *pgxpool.Pool
}

func NewBookingReadStore(pool *pgxpool.Pool) queries.BookingReadStore {
	return &bookingReadStore{pool: pool}
}

func (s *bookingReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.BookingView, error) {
	row := s.pool.QueryRow(ctx, bookingViewSelect+` WHERE b.id = $1`, id)

	var view queries.BookingView
	err := row.Scan(
		&view.ID, &view.BatchID, &view.VenueID, &view.VenueName,
		&view.RequesterID, &view.RequesterUsername, &view.RequesterEmail,
		&view.StartTime, &view.EndTime, &view.Purpose, &view.DocumentRef, &view.Status,
		&view.RejectionReason, &view.RejectedAt, &view.CreatedAt, &view.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, queries.ErrBookingNotFound
		}
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to find booking view", err)
	}

	view.ApprovalLevel = approvalLevel(view.Status)
	return &view, nil
}

func (s *bookingReadStore) FindAll(ctx context.Context) ([]*queries.BookingListItem, error) {
	rows, err := s.pool.Query(ctx, bookingListSelect+` ORDER BY b.created_at DESC`)
	if err != nil {
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to list bookings", err)
	}
	return collectListItems(rows)
}

func (s *bookingReadStore) FindByRequester(ctx context.Context, requesterID uuid.UUID) ([]*queries.BookingListItem, error) {
	rows, err := s.pool.Query(ctx, bookingListSelect+` WHERE b.requester_id = $1 ORDER BY b.created_at DESC`, requesterID)
	if err != nil {
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to list requester bookings", err)
	}
	return collectListItems(rows)
}

func (s *bookingReadStore) FindConfirmedByVenue(ctx context.Context, venueID uuid.UUID) ([]*queries.BookingListItem, error) {
	rows, err := s.pool.Query(ctx,
		bookingListSelect+` WHERE b.venue_id = $1 AND b.status = $2 ORDER BY b.start_time`,
		venueID, booking.StatusConfirmed.String(),
	)
	if err != nil {
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to list venue bookings", err)
	}
	return collectListItems(rows)
}

func collectListItems(rows pgx.Rows) ([]*queries.BookingListItem, error) {
	defer rows.Close()

	items := make([]*queries.BookingListItem, 0)
	for rows.Next() {
		var item queries.BookingListItem
		err := rows.Scan(
			&item.ID, &item.BatchID, &item.VenueID, &item.VenueName,
			&item.RequesterID, &item.RequesterUsername,
			&item.StartTime, &item.EndTime, &item.Purpose, &item.Status, &item.CreatedAt,
		)
		if err != nil {
			return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to scan booking row", err)
		}
		item.ApprovalLevel = approvalLevel(item.Status)
		items = append(items, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to read booking rows", err)
	}
	return items, nil
}

// approvalLevel extracts the pending level from a stored status, zero for
// terminal states.
func approvalLevel(status string) int {
	parsed, err := booking.ParseStatus(status)
	if err != nil {
		return 0
	}
	return parsed.Level()
}
