package venue

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrEmptyName       = errors.New("venue name must not be empty")
	ErrInvalidCapacity = errors.New("venue capacity must be positive")
)

// Facilities are the equipment flags shown to requesters when picking a
// venue. They carry no workflow semantics.
type Facilities struct {
	AirConditioning bool
	Microphone      bool
	Projector       bool
}

type Venue struct {
	id          uuid.UUID
	name        string
	capacity    int
	description string
	facilities  Facilities
	imageRef    *string
	createdAt   time.Time
	updatedAt   time.Time
}

func NewVenue(name string, capacity int, description string, facilities Facilities, imageRef *string) (*Venue, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}
	if capacity <= 0 {
		return nil, ErrInvalidCapacity
	}

	return &Venue{
		id:          uuid.New(),
		name:        name,
		capacity:    capacity,
		description: strings.TrimSpace(description),
		facilities:  facilities,
		imageRef:    imageRef,
	}, nil
}

func ReconstructVenue(
	id uuid.UUID,
	name string,
	capacity int,
	description string,
	facilities Facilities,
	imageRef *string,
	createdAt, updatedAt time.Time,
) *Venue {
	return &Venue{
		id:          id,
		name:        name,
		capacity:    capacity,
		description: description,
		facilities:  facilities,
		imageRef:    imageRef,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}
}

func (v *Venue) ID() uuid.UUID          { return v.id }
func (v *Venue) Name() string           { return v.name }
func (v *Venue) Capacity() int          { return v.capacity }
func (v *Venue) Description() string    { return v.description }
func (v *Venue) Facilities() Facilities { return v.facilities }
func (v *Venue) ImageRef() *string      { return v.imageRef }
func (v *Venue) CreatedAt() time.Time   { return v.createdAt }
func (v *Venue) UpdatedAt() time.Time   { return v.updatedAt }

// Update applies admin edits in place. Venues have no lifecycle coupling
// to bookings beyond referential lookup, so edits never cascade.
func (v *Venue) Update(name string, capacity int, description string, facilities Facilities, imageRef *string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyName
	}
	if capacity <= 0 {
		return ErrInvalidCapacity
	}

	v.name = name
	v.capacity = capacity
	v.description = strings.TrimSpace(description)
	v.facilities = facilities
	v.imageRef = imageRef
	return nil
}
