package queries

import (
	"time"

	"github.com/google/uuid"
)

// Read models (DTO for read side)

type BookingView struct {
	ID                uuid.UUID  `json:"id"`
	BatchID           uuid.UUID  `json:"batch_id"`
	VenueID           uuid.UUID  `json:"venue_id"`
	VenueName         string     `json:"venue_name"`
	RequesterID       uuid.UUID  `json:"requester_id"`
	RequesterUsername string     `json:"requester_username"`
	RequesterEmail    string     `json:"requester_email"`
	StartTime         time.Time  `json:"start_time"`
	EndTime           time.Time  `json:"end_time"`
	Purpose           string     `json:"purpose"`
	DocumentRef       string     `json:"document_ref"`
	Status            string     `json:"status"`
	ApprovalLevel     int        `json:"approval_level"`
	RejectionReason   *string    `json:"rejection_reason,omitempty"`
	RejectedAt        *time.Time `json:"rejected_at,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

type BookingListItem struct {
	ID                uuid.UUID `json:"id"`
	BatchID           uuid.UUID `json:"batch_id"`
	VenueID           uuid.UUID `json:"venue_id"`
	VenueName         string    `json:"venue_name"`
	RequesterID       uuid.UUID `json:"requester_id"`
	RequesterUsername string    `json:"requester_username"`
	StartTime         time.Time `json:"start_time"`
	EndTime           time.Time `json:"end_time"`
	Purpose           string    `json:"purpose"`
	Status            string    `json:"status"`
	ApprovalLevel     int       `json:"approval_level"`
	CreatedAt         time.Time `json:"created_at"`
}

type VenueView struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	Capacity        int       `json:"capacity"`
	Description     string    `json:"description"`
	AirConditioning bool      `json:"air_conditioning"`
	Microphone      bool      `json:"microphone"`
	Projector       bool      `json:"projector"`
	ImageRef        *string   `json:"image_ref,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type UserView struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// AuthUserView carries the password hash and is consumed by the auth
// commands only; it never crosses the handler boundary.
type AuthUserView struct {
	ID           uuid.UUID
	Username     string
	Email        string
	PasswordHash string
	Role         string
}
