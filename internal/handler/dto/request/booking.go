package request

import (
	"time"

	"venuebook/internal/usecase/commands"

	"github.com/google/uuid"
)

type CreateBookingRequest struct {
	VenueIDs    []uuid.UUID `json:"venue_ids" binding:"required,min=1"`
	StartTime   time.Time   `json:"start_time" binding:"required"`
	EndTime     time.Time   `json:"end_time" binding:"required"`
	Purpose     string      `json:"purpose" binding:"required"`
	DocumentRef string      `json:"document_ref" binding:"required"`
}

func (r CreateBookingRequest) ToParams(requesterID uuid.UUID) commands.CreateBookingParams {
	return commands.CreateBookingParams{
		RequesterID: requesterID,
		VenueIDs:    r.VenueIDs,
		StartTime:   r.StartTime,
		EndTime:     r.EndTime,
		Purpose:     r.Purpose,
		DocumentRef: r.DocumentRef,
	}
}

type RejectBookingRequest struct {
	Reason string `json:"reason" binding:"required"`
}
