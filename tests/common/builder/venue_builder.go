//go:build unit || e2e

package builder

import (
	"time"

	"venuebook/internal/domain/venue"
	reqdto "venuebook/internal/handler/dto/request"
	"venuebook/internal/usecase/queries"

	"github.com/google/uuid"
)

type VenueBuilder struct {
	ID          uuid.UUID
	Name        string
	Capacity    int
	Description string
	Facilities  venue.Facilities
	ImageRef    *string
}

func NewVenueBuilder() *VenueBuilder {
	return &VenueBuilder{
		ID:          uuid.New(),
		Name:        "Main Hall",
		Capacity:    200,
		Description: "Large hall with a stage",
		Facilities: venue.Facilities{
			AirConditioning: true,
			Microphone:      true,
			Projector:       false,
		},
	}
}

func (v *VenueBuilder) With(mutate func(*VenueBuilder)) *VenueBuilder {
	mutate(v)
	return v
}

// Build methods
func (v *VenueBuilder) BuildDomain() *venue.Venue {
	now := time.Now()
	return venue.ReconstructVenue(v.ID, v.Name, v.Capacity, v.Description, v.Facilities, v.ImageRef, now, now)
}

func (v *VenueBuilder) BuildView() *queries.VenueView {
	return &queries.VenueView{
		ID:              v.ID,
		Name:            v.Name,
		Capacity:        v.Capacity,
		Description:     v.Description,
		AirConditioning: v.Facilities.AirConditioning,
		Microphone:      v.Facilities.Microphone,
		Projector:       v.Facilities.Projector,
		ImageRef:        v.ImageRef,
		CreatedAt:       time.Now(),
	}
}

func (v *VenueBuilder) BuildRequestDTO() reqdto.VenueRequest {
	return reqdto.VenueRequest{
		Name:            v.Name,
		Capacity:        v.Capacity,
		Description:     v.Description,
		AirConditioning: v.Facilities.AirConditioning,
		Microphone:      v.Facilities.Microphone,
		Projector:       v.Facilities.Projector,
		ImageRef:        v.ImageRef,
	}
}

// Fluent builder methods
func (v *VenueBuilder) WithID(id uuid.UUID) *VenueBuilder {
	v.ID = id
	return v
}

func (v *VenueBuilder) WithName(name string) *VenueBuilder {
	v.Name = name
	return v
}

func (v *VenueBuilder) WithCapacity(capacity int) *VenueBuilder {
	v.Capacity = capacity
	return v
}
