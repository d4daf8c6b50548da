package request

import (
	"venuebook/internal/domain/venue"
	"venuebook/internal/usecase/commands"
)

type VenueRequest struct {
	Name            string  `json:"name" binding:"required"`
	Capacity        int     `json:"capacity" binding:"required"`
	Description     string  `json:"description"`
	AirConditioning bool    `json:"air_conditioning"`
	Microphone      bool    `json:"microphone"`
	Projector       bool    `json:"projector"`
	ImageRef        *string `json:"image_ref,omitempty"`
}

func (r VenueRequest) ToParams() commands.VenueParams {
	return commands.VenueParams{
		Name:        r.Name,
		Capacity:    r.Capacity,
		Description: r.Description,
		Facilities: venue.Facilities{
			AirConditioning: r.AirConditioning,
			Microphone:      r.Microphone,
			Projector:       r.Projector,
		},
		ImageRef: r.ImageRef,
	}
}
