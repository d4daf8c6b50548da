//go:build unit

package booking_test

import (
	"testing"
	"time"

	"venuebook/internal/domain/booking"
	"venuebook/tests/common/builder"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBooking(t *testing.T) {
	b, err := builder.NewBookingBuilder().BuildDomain()
	require.NoError(t, err)
	require.NotNil(t, b)

	assert.NotEqual(t, uuid.Nil, b.ID())
	assert.True(t, b.Status().IsPendingAt(1))
	assert.Nil(t, b.RejectionReason())
	assert.Nil(t, b.RejectedAt())
}

func TestBookingApprove(t *testing.T) {
	t.Run("advances one level per approval until confirmed", func(t *testing.T) {
		b, err := builder.NewBookingBuilder().BuildDomain()
		require.NoError(t, err)

		for level := 1; level < booking.MaxApprovalLevel; level++ {
			outcome, err := b.Approve()
			require.NoError(t, err)
			assert.Equal(t, level, outcome.ClearedLevel)
			assert.False(t, outcome.Confirmed)
			assert.True(t, b.Status().IsPendingAt(level+1))
		}

		outcome, err := b.Approve()
		require.NoError(t, err)
		assert.Equal(t, booking.MaxApprovalLevel, outcome.ClearedLevel)
		assert.True(t, outcome.Confirmed)
		assert.True(t, b.Status().IsConfirmed())
	})

	t.Run("confirmed booking cannot be approved again", func(t *testing.T) {
		b, err := builder.NewBookingBuilder().AtStatus(booking.StatusConfirmed).BuildDomain()
		require.NoError(t, err)

		_, err = b.Approve()
		require.ErrorIs(t, err, booking.ErrAlreadyConfirmed)
		assert.True(t, b.Status().IsConfirmed(), "status must not change")
	})

	t.Run("cancelled booking cannot be approved", func(t *testing.T) {
		b, err := builder.NewBookingBuilder().AtStatus(booking.StatusCancelled).BuildDomain()
		require.NoError(t, err)

		_, err = b.Approve()
		require.ErrorIs(t, err, booking.ErrAlreadyCancelled)
	})
}

func TestBookingReject(t *testing.T) {
	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

	t.Run("records reason and timestamp", func(t *testing.T) {
		b, err := builder.NewBookingBuilder().BuildDomain()
		require.NoError(t, err)

		require.NoError(t, b.Reject("venue double-booked", now))
		assert.True(t, b.Status().IsCancelled())
		require.NotNil(t, b.RejectionReason())
		assert.Equal(t, "venue double-booked", *b.RejectionReason())
		require.NotNil(t, b.RejectedAt())
		assert.Equal(t, now, *b.RejectedAt())
	})

	t.Run("rejection is terminal", func(t *testing.T) {
		b, err := builder.NewBookingBuilder().BuildDomain()
		require.NoError(t, err)
		require.NoError(t, b.Reject("first", now))

		_, err = b.Approve()
		require.ErrorIs(t, err, booking.ErrAlreadyCancelled)
		require.ErrorIs(t, b.Reject("second", now), booking.ErrAlreadyCancelled)
		assert.Equal(t, "first", *b.RejectionReason(), "reason must not be overwritten")
	})

	t.Run("confirmed booking cannot be rejected", func(t *testing.T) {
		b, err := builder.NewBookingBuilder().AtStatus(booking.StatusConfirmed).BuildDomain()
		require.NoError(t, err)

		require.ErrorIs(t, b.Reject("too late", now), booking.ErrAlreadyConfirmed)
	})
}

func TestBookingCancellableBy(t *testing.T) {
	requesterID := uuid.New()
	b, err := builder.NewBookingBuilder().WithRequesterID(requesterID).BuildDomain()
	require.NoError(t, err)

	assert.True(t, b.CancellableBy(requesterID, false), "requester may cancel their own booking")
	assert.True(t, b.CancellableBy(uuid.New(), true), "admins may cancel any booking")
	assert.False(t, b.CancellableBy(uuid.New(), false), "strangers may not cancel")
}

func TestParseStatus(t *testing.T) {
	cases := []struct {
		name     string
		input    string
		expected booking.Status
		wantErr  bool
	}{
		{name: "pending level 1", input: "pending_level_1", expected: mustPending(t, 1)},
		{name: "pending level 4", input: "pending_level_4", expected: mustPending(t, 4)},
		{name: "confirmed", input: "confirmed", expected: booking.StatusConfirmed},
		{name: "cancelled", input: "cancelled", expected: booking.StatusCancelled},
		{name: "level zero", input: "pending_level_0", wantErr: true},
		{name: "level out of range", input: "pending_level_5", wantErr: true},
		{name: "garbage", input: "approved", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, err := booking.ParseStatus(c.input)
			if c.wantErr {
				require.ErrorIs(t, err, booking.ErrInvalidStatus)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, c.expected, got)
			assert.Equal(t, c.input, got.String(), "String must round-trip")
		})
	}
}

func mustPending(t *testing.T, level int) booking.Status {
	t.Helper()
	s, err := booking.StatusPendingLevel(level)
	require.NoError(t, err)
	return s
}
