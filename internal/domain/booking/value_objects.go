package booking

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const MaxPurposeLength = 500

var (
	ErrInvalidTimeSlot = errors.New("start time must be before end time")
	ErrStartInPast     = errors.New("start time must not be in the past")
	ErrEmptyPurpose    = errors.New("purpose must not be empty")
	ErrMissingDocument = errors.New("supporting document is required")
	ErrPurposeTooLong  = errors.New("purpose exceeds maximum length")
)

// TimeSlot is the half-open interval [start, end). Touching slots, where
// one ends exactly when the other starts, do not overlap.
type TimeSlot struct {
	start time.Time
	end   time.Time
}

func NewTimeSlot(start, end time.Time) (TimeSlot, error) {
	if !start.Before(end) {
		return TimeSlot{}, ErrInvalidTimeSlot
	}
	return TimeSlot{start: start, end: end}, nil
}

func (t TimeSlot) Start() time.Time        { return t.start }
func (t TimeSlot) End() time.Time          { return t.end }
func (t TimeSlot) Duration() time.Duration { return t.end.Sub(t.start) }

func (t TimeSlot) Overlaps(other TimeSlot) bool {
	return other.start.Before(t.end) && other.end.After(t.start)
}

// ValidateNotPast rejects slots that start before now. Approvals take
// days, so a request for a past slot can never be satisfied.
func (t TimeSlot) ValidateNotPast(now time.Time) error {
	if t.start.Before(now) {
		return ErrStartInPast
	}
	return nil
}

func (t TimeSlot) String() string {
	return fmt.Sprintf("%s - %s", t.start.Format(time.RFC3339), t.end.Format(time.RFC3339))
}

type Purpose struct {
	value string
}

func NewPurpose(s string) (Purpose, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Purpose{}, ErrEmptyPurpose
	}
	if len(s) > MaxPurposeLength {
		return Purpose{}, ErrPurposeTooLong
	}
	return Purpose{value: s}, nil
}

func (p Purpose) String() string {
	return p.value
}

// DocumentRef points at the uploaded justification document backing a
// request. Every submission must carry one.
type DocumentRef struct {
	value string
}

func NewDocumentRef(s string) (DocumentRef, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return DocumentRef{}, ErrMissingDocument
	}
	return DocumentRef{value: s}, nil
}

func (d DocumentRef) String() string {
	return d.value
}
