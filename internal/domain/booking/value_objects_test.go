//go:build unit

package booking_test

import (
	"strings"
	"testing"
	"time"

	"venuebook/internal/domain/booking"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimeSlot(t *testing.T) {
	base := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	t.Run("start must be before end", func(t *testing.T) {
		cases := []struct {
			name  string
			start time.Time
			end   time.Time
			errIs error
		}{
			{name: "valid slot", start: base, end: base.Add(2 * time.Hour)},
			{name: "start equals end", start: base, end: base, errIs: booking.ErrInvalidTimeSlot},
			{name: "start after end", start: base.Add(time.Hour), end: base, errIs: booking.ErrInvalidTimeSlot},
		}
		for _, c := range cases {
			t.Run(c.name, func(t *testing.T) {
				_, err := booking.NewTimeSlot(c.start, c.end)
				if c.errIs == nil {
					require.NoError(t, err)
				} else {
					require.ErrorIs(t, err, c.errIs)
				}
			})
		}
	})

	t.Run("half-open overlap", func(t *testing.T) {
		slot := func(startHour, endHour int) booking.TimeSlot {
			s, err := booking.NewTimeSlot(
				base.Add(time.Duration(startHour)*time.Hour),
				base.Add(time.Duration(endHour)*time.Hour),
			)
			require.NoError(t, err)
			return s
		}

		cases := []struct {
			name     string
			a, b     booking.TimeSlot
			overlaps bool
		}{
			{name: "identical slots", a: slot(0, 2), b: slot(0, 2), overlaps: true},
			{name: "b starts inside a", a: slot(0, 2), b: slot(1, 3), overlaps: true},
			{name: "b ends inside a", a: slot(1, 3), b: slot(0, 2), overlaps: true},
			{name: "b contains a", a: slot(1, 2), b: slot(0, 3), overlaps: true},
			{name: "a contains b", a: slot(0, 3), b: slot(1, 2), overlaps: true},
			{name: "b touches a's end", a: slot(0, 2), b: slot(2, 4), overlaps: false},
			{name: "b touches a's start", a: slot(2, 4), b: slot(0, 2), overlaps: false},
			{name: "disjoint before", a: slot(3, 4), b: slot(0, 1), overlaps: false},
			{name: "disjoint after", a: slot(0, 1), b: slot(3, 4), overlaps: false},
		}
		for _, c := range cases {
			t.Run(c.name, func(t *testing.T) {
				assert.Equal(t, c.overlaps, c.a.Overlaps(c.b))
				// overlap is symmetric
				assert.Equal(t, c.overlaps, c.b.Overlaps(c.a))
			})
		}
	})

	t.Run("past start rejected", func(t *testing.T) {
		now := base.Add(30 * time.Minute)

		s, err := booking.NewTimeSlot(base, base.Add(2*time.Hour))
		require.NoError(t, err)
		require.ErrorIs(t, s.ValidateNotPast(now), booking.ErrStartInPast)

		future, err := booking.NewTimeSlot(now.Add(time.Hour), now.Add(2*time.Hour))
		require.NoError(t, err)
		require.NoError(t, future.ValidateNotPast(now))
	})
}

func TestPurpose(t *testing.T) {
	cases := []struct {
		name  string
		value string
		errIs error
	}{
		{name: "valid purpose", value: "Department seminar"},
		{name: "surrounding whitespace trimmed", value: "  review meeting  "},
		{name: "empty purpose", value: "", errIs: booking.ErrEmptyPurpose},
		{name: "whitespace only", value: "   ", errIs: booking.ErrEmptyPurpose},
		{name: "over maximum length", value: strings.Repeat("a", booking.MaxPurposeLength+1), errIs: booking.ErrPurposeTooLong},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := booking.NewPurpose(c.value)
			if c.errIs == nil {
				require.NoError(t, err)
			} else {
				require.ErrorIs(t, err, c.errIs)
			}
		})
	}
}

func TestDocumentRef(t *testing.T) {
	_, err := booking.NewDocumentRef("uploads/request-42.pdf")
	require.NoError(t, err)

	_, err = booking.NewDocumentRef("  ")
	require.ErrorIs(t, err, booking.ErrMissingDocument)
}
