//go:build unit || e2e

package builder

import (
	"time"

	"venuebook/internal/domain/booking"
	reqdto "venuebook/internal/handler/dto/request"
	"venuebook/internal/usecase/queries"

	"github.com/google/uuid"
)

type BookingBuilder struct {
	ID          uuid.UUID
	BatchID     uuid.UUID
	RequesterID uuid.UUID
	VenueID     uuid.UUID
	StartTime   time.Time
	EndTime     time.Time
	Purpose     string
	DocumentRef string
	Status      *booking.Status
}

func NewBookingBuilder() *BookingBuilder {
	start := time.Date(2030, 6, 1, 9, 0, 0, 0, time.UTC)
	return &BookingBuilder{
		ID:          uuid.New(),
		BatchID:     uuid.New(),
		RequesterID: uuid.New(),
		VenueID:     uuid.New(),
		StartTime:   start,
		EndTime:     start.Add(2 * time.Hour),
		Purpose:     "Department seminar",
		DocumentRef: "documents/seminar-request.pdf",
	}
}

func (b *BookingBuilder) With(mutate func(*BookingBuilder)) *BookingBuilder {
	mutate(b)
	return b
}

// Build methods
func (b *BookingBuilder) BuildDomain() (*booking.Booking, error) {
	slot, err := booking.NewTimeSlot(b.StartTime, b.EndTime)
	if err != nil {
		return nil, err
	}
	purpose, err := booking.NewPurpose(b.Purpose)
	if err != nil {
		return nil, err
	}
	documentRef, err := booking.NewDocumentRef(b.DocumentRef)
	if err != nil {
		return nil, err
	}

	if b.Status == nil {
		entity := booking.NewBooking(b.BatchID, b.RequesterID, b.VenueID, slot, purpose, documentRef)
		return entity, nil
	}

	now := time.Now()
	return booking.ReconstructBooking(
		b.ID, b.BatchID, b.RequesterID, b.VenueID,
		slot, purpose, documentRef, *b.Status,
		nil, nil, now, now,
	), nil
}

func (b *BookingBuilder) BuildView() *queries.BookingView {
	status, _ := booking.StatusPendingLevel(1)
	if b.Status != nil {
		status = *b.Status
	}
	now := time.Now()
	return &queries.BookingView{
		ID:                b.ID,
		BatchID:           b.BatchID,
		VenueID:           b.VenueID,
		VenueName:         "Main Hall",
		RequesterID:       b.RequesterID,
		RequesterUsername: "requester",
		RequesterEmail:    "requester@example.com",
		StartTime:         b.StartTime,
		EndTime:           b.EndTime,
		Purpose:           b.Purpose,
		DocumentRef:       b.DocumentRef,
		Status:            status.String(),
		ApprovalLevel:     status.Level(),
		CreatedAt:         now,
		UpdatedAt:         now,
	}
}

func (b *BookingBuilder) BuildCreateRequestDTO() reqdto.CreateBookingRequest {
	return reqdto.CreateBookingRequest{
		VenueIDs:    []uuid.UUID{b.VenueID},
		StartTime:   b.StartTime,
		EndTime:     b.EndTime,
		Purpose:     b.Purpose,
		DocumentRef: b.DocumentRef,
	}
}

// Fluent builder methods
func (b *BookingBuilder) WithBatchID(batchID uuid.UUID) *BookingBuilder {
	b.BatchID = batchID
	return b
}

func (b *BookingBuilder) WithRequesterID(requesterID uuid.UUID) *BookingBuilder {
	b.RequesterID = requesterID
	return b
}

func (b *BookingBuilder) WithVenueID(venueID uuid.UUID) *BookingBuilder {
	b.VenueID = venueID
	return b
}

func (b *BookingBuilder) WithSlot(slot booking.TimeSlot) *BookingBuilder {
	b.StartTime = slot.Start()
	b.EndTime = slot.End()
	return b
}

func (b *BookingBuilder) WithPurpose(purpose string) *BookingBuilder {
	b.Purpose = purpose
	return b
}

func (b *BookingBuilder) AtStatus(status booking.Status) *BookingBuilder {
	b.Status = &status
	return b
}
