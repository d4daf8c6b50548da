package response

import (
	"time"

	"venuebook/internal/usecase/commands"
	"venuebook/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

type BookingResponse struct {
	ID                uuid.UUID  `json:"id"`
	BatchID           uuid.UUID  `json:"batchId"`
	VenueID           uuid.UUID  `json:"venueId"`
	VenueName         string     `json:"venueName"`
	RequesterID       uuid.UUID  `json:"requesterId"`
	RequesterUsername string     `json:"requesterUsername"`
	StartTime         time.Time  `json:"startTime"`
	EndTime           time.Time  `json:"endTime"`
	Purpose           string     `json:"purpose"`
	DocumentRef       string     `json:"documentRef"`
	Status            string     `json:"status"`
	ApprovalLevel     int        `json:"approvalLevel"`
	RejectionReason   *string    `json:"rejectionReason,omitempty"`
	RejectedAt        *time.Time `json:"rejectedAt,omitempty"`
	CreatedAt         time.Time  `json:"createdAt"`
}

type BookingListResponse struct {
	ID            uuid.UUID `json:"id"`
	BatchID       uuid.UUID `json:"batchId"`
	VenueID       uuid.UUID `json:"venueId"`
	VenueName     string    `json:"venueName"`
	StartTime     time.Time `json:"startTime"`
	EndTime       time.Time `json:"endTime"`
	Purpose       string    `json:"purpose"`
	Status        string    `json:"status"`
	ApprovalLevel int       `json:"approvalLevel"`
	CreatedAt     time.Time `json:"createdAt"`
}

type ApproveBookingResponse struct {
	Booking *BookingResponse `json:"booking"`
	// ClearedLevel is the approval level this action completed.
	ClearedLevel int  `json:"clearedLevel"`
	Confirmed    bool `json:"confirmed"`
	// AwaitingSiblings reports how many records in the same submission
	// still need processing before the next approver is contacted.
	AwaitingSiblings int `json:"awaitingSiblings"`
	Forwarded        int `json:"forwarded"`
}

func FromBookingView(view *queries.BookingView) *BookingResponse {
	var resp BookingResponse
	_ = copier.Copy(&resp, view)
	return &resp
}

func FromBookingViews(views []*queries.BookingView) []*BookingResponse {
	out := make([]*BookingResponse, 0, len(views))
	for _, v := range views {
		out = append(out, FromBookingView(v))
	}
	return out
}

func FromBookingListItem(item *queries.BookingListItem) *BookingListResponse {
	var resp BookingListResponse
	_ = copier.Copy(&resp, item)
	return &resp
}

func FromBookingListItems(items []*queries.BookingListItem) []*BookingListResponse {
	out := make([]*BookingListResponse, 0, len(items))
	for _, item := range items {
		out = append(out, FromBookingListItem(item))
	}
	return out
}

func FromApproveResult(result *commands.ApproveResult) *ApproveBookingResponse {
	return &ApproveBookingResponse{
		Booking:          FromBookingView(result.Booking),
		ClearedLevel:     result.ClearedLevel,
		Confirmed:        result.Confirmed,
		AwaitingSiblings: result.AwaitingSiblings,
		Forwarded:        result.Forwarded,
	}
}
