package response

import (
	"time"

	"venuebook/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

type VenueResponse struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	Capacity        int       `json:"capacity"`
	Description     string    `json:"description"`
	AirConditioning bool      `json:"airConditioning"`
	Microphone      bool      `json:"microphone"`
	Projector       bool      `json:"projector"`
	ImageRef        *string   `json:"imageRef,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
}

func FromVenueView(view *queries.VenueView) *VenueResponse {
	var resp VenueResponse
	_ = copier.Copy(&resp, view)
	return &resp
}

func FromVenueViews(views []*queries.VenueView) []*VenueResponse {
	out := make([]*VenueResponse, 0, len(views))
	for _, v := range views {
		out = append(out, FromVenueView(v))
	}
	return out
}
