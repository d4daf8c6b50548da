package repository

import (
	"context"
	"errors"
	"time"

	"venuebook/internal/domain/booking"
	"venuebook/internal/infra"
	"venuebook/internal/infra/db"
	"venuebook/internal/usecase/commands"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const bookingColumns = `id, batch_id, requester_id, venue_id, start_time, end_time,
	purpose, document_ref, status, rejection_reason, rejected_at, created_at, updated_at`

type bookingRepository struct {
	pool *pgxpool.Pool
}

func NewBookingRepository(pool *pgxpool.Pool) commands.BookingRepository {
	return &bookingRepository{pool: pool}
}

func (r *bookingRepository) Create(ctx context.Context, tx db.DBTX, b *booking.Booking) error {
	const query = `
		INSERT INTO bookings (
			id, batch_id, requester_id, venue_id, start_time, end_time,
			purpose, document_ref, status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := tx.Exec(ctx, query,
		b.ID(), b.BatchID(), b.RequesterID(), b.VenueID(),
		b.Slot().Start(), b.Slot().End(),
		b.Purpose().String(), b.DocumentRef().String(), b.Status().String(),
	)
	if err != nil {
		return infra.WrapRepoErr(infra.ClassifyPgError(err), "failed to insert booking", err)
	}
	return nil
}

func (r *bookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*booking.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`

	b, err := scanBooking(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr(infra.KindNotFound, "booking not found", err)
		}
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to find booking", err)
	}
	return b, nil
}

func (r *bookingRepository) FindByVenue(ctx context.Context, tx db.DBTX, venueID uuid.UUID) ([]*booking.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE venue_id = $1 ORDER BY start_time`

	rows, err := tx.Query(ctx, query, venueID)
	if err != nil {
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to list venue bookings", err)
	}
	return collectBookings(rows)
}

func (r *bookingRepository) FindByBatch(ctx context.Context, batchID uuid.UUID) ([]*booking.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE batch_id = $1 ORDER BY created_at, id`

	rows, err := r.pool.Query(ctx, query, batchID)
	if err != nil {
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to list batch bookings", err)
	}
	return collectBookings(rows)
}

func (r *bookingRepository) Update(ctx context.Context, b *booking.Booking) error {
	const query = `
		UPDATE bookings
		SET status = $2, rejection_reason = $3, rejected_at = $4, updated_at = now()
		WHERE id = $1`

	tag, err := r.pool.Exec(ctx, query, b.ID(), b.Status().String(), b.RejectionReason(), b.RejectedAt())
	if err != nil {
		return infra.WrapRepoErr(infra.KindDBFailure, "failed to update booking", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr(infra.KindNotFound, "booking not found", nil)
	}
	return nil
}

func (r *bookingRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM bookings WHERE id = $1`, id)
	if err != nil {
		return false, infra.WrapRepoErr(infra.KindDBFailure, "failed to delete booking", err)
	}
	return tag.RowsAffected() > 0, nil
}

func collectBookings(rows pgx.Rows) ([]*booking.Booking, error) {
	defer rows.Close()

	var bookings []*booking.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to scan booking row", err)
		}
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to read booking rows", err)
	}
	return bookings, nil
}

// scanBooking rehydrates a row through the domain constructors so invalid
// stored data surfaces as an error instead of a half-built entity.
func scanBooking(row pgx.Row) (*booking.Booking, error) {
	var (
		id, batchID, requesterID, venueID uuid.UUID
		startTime, endTime                time.Time
		purposeRaw, documentRefRaw        string
		statusRaw                         string
		rejectionReason                   *string
		rejectedAt                        *time.Time
		createdAt, updatedAt              time.Time
	)

	err := row.Scan(
		&id, &batchID, &requesterID, &venueID,
		&startTime, &endTime,
		&purposeRaw, &documentRefRaw, &statusRaw,
		&rejectionReason, &rejectedAt,
		&createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	slot, err := booking.NewTimeSlot(startTime, endTime)
	if err != nil {
		return nil, err
	}
	purpose, err := booking.NewPurpose(purposeRaw)
	if err != nil {
		return nil, err
	}
	documentRef, err := booking.NewDocumentRef(documentRefRaw)
	if err != nil {
		return nil, err
	}
	status, err := booking.ParseStatus(statusRaw)
	if err != nil {
		return nil, err
	}

	return booking.ReconstructBooking(
		id, batchID, requesterID, venueID,
		slot, purpose, documentRef, status,
		rejectionReason, rejectedAt,
		createdAt, updatedAt,
	), nil
}
