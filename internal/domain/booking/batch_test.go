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

// buildBatch creates n sibling bookings sharing one batch ID, all at
// pending_level_1.
func buildBatch(t *testing.T, n int) []*booking.Booking {
	t.Helper()

	batchID := uuid.New()
	siblings := make([]*booking.Booking, n)
	for i := range siblings {
		b, err := builder.NewBookingBuilder().WithBatchID(batchID).BuildDomain()
		require.NoError(t, err)
		siblings[i] = b
	}
	return siblings
}

func approveTo(t *testing.T, b *booking.Booking, level int) {
	t.Helper()
	for b.Status().Level() < level {
		_, err := b.Approve()
		require.NoError(t, err)
	}
}

func TestPartitionBatch(t *testing.T) {
	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

	t.Run("waits while a sibling is unprocessed", func(t *testing.T) {
		siblings := buildBatch(t, 3)
		approveTo(t, siblings[0], 2)

		p := booking.PartitionBatch(siblings, 1)
		assert.Len(t, p.StillPending, 2)
		assert.Len(t, p.AtNextLevel, 1)
		assert.Empty(t, p.Rejected)
		assert.False(t, p.ShouldDispatch())
	})

	t.Run("dispatches once every sibling cleared the level", func(t *testing.T) {
		siblings := buildBatch(t, 3)
		for _, b := range siblings {
			approveTo(t, b, 2)
		}

		p := booking.PartitionBatch(siblings, 1)
		assert.Empty(t, p.StillPending)
		assert.Len(t, p.AtNextLevel, 3)
		assert.True(t, p.ShouldDispatch())
		assert.Len(t, p.DispatchRecords(), 3)
	})

	t.Run("rejected siblings ride along for context", func(t *testing.T) {
		siblings := buildBatch(t, 2)
		require.NoError(t, siblings[0].Reject("double-booked", now))
		approveTo(t, siblings[1], 2)

		p := booking.PartitionBatch(siblings, 1)
		assert.Empty(t, p.StillPending)
		assert.Len(t, p.AtNextLevel, 1)
		assert.Len(t, p.Rejected, 1)
		assert.True(t, p.ShouldDispatch())

		records := p.DispatchRecords()
		require.Len(t, records, 2)
		assert.Same(t, siblings[1], records[0], "surviving sibling listed first")
		assert.Same(t, siblings[0], records[1])
	})

	t.Run("no dispatch when every sibling was rejected", func(t *testing.T) {
		siblings := buildBatch(t, 2)
		require.NoError(t, siblings[0].Reject("no longer needed", now))
		require.NoError(t, siblings[1].Reject("no longer needed", now))

		p := booking.PartitionBatch(siblings, 1)
		assert.Empty(t, p.StillPending)
		assert.Empty(t, p.AtNextLevel)
		assert.Len(t, p.Rejected, 2)
		assert.False(t, p.ShouldDispatch())
	})

	t.Run("confirmed siblings fall into no bucket", func(t *testing.T) {
		siblings := buildBatch(t, 2)
		approveTo(t, siblings[0], booking.MaxApprovalLevel)
		_, err := siblings[0].Approve() // confirm
		require.NoError(t, err)
		approveTo(t, siblings[1], booking.MaxApprovalLevel)

		p := booking.PartitionBatch(siblings, booking.MaxApprovalLevel-1)
		assert.Empty(t, p.StillPending)
		assert.Len(t, p.AtNextLevel, 1)
		assert.Empty(t, p.Rejected)
	})
}

func TestFindConflict(t *testing.T) {
	base := time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)
	slot := func(startHour, endHour int) booking.TimeSlot {
		s, err := booking.NewTimeSlot(
			base.Add(time.Duration(startHour)*time.Hour),
			base.Add(time.Duration(endHour)*time.Hour),
		)
		require.NoError(t, err)
		return s
	}

	build := func(s booking.TimeSlot, status booking.Status) *booking.Booking {
		b, err := builder.NewBookingBuilder().WithSlot(s).AtStatus(status).BuildDomain()
		require.NoError(t, err)
		return b
	}

	pending1, err := booking.StatusPendingLevel(1)
	require.NoError(t, err)

	t.Run("returns overlapping confirmed booking", func(t *testing.T) {
		existing := []*booking.Booking{build(slot(0, 1), booking.StatusConfirmed)}
		hit := booking.FindConflict(existing, slot(0, 2))
		require.NotNil(t, hit)
		assert.True(t, hit.Status().IsConfirmed())
	})

	t.Run("returns overlapping pending booking", func(t *testing.T) {
		existing := []*booking.Booking{build(slot(1, 3), pending1)}
		hit := booking.FindConflict(existing, slot(2, 4))
		require.NotNil(t, hit)
		assert.True(t, hit.Status().IsPending())
	})

	t.Run("ignores cancelled bookings", func(t *testing.T) {
		existing := []*booking.Booking{build(slot(0, 2), booking.StatusCancelled)}
		assert.Nil(t, booking.FindConflict(existing, slot(0, 2)))
	})

	t.Run("touching slots never conflict", func(t *testing.T) {
		existing := []*booking.Booking{build(slot(0, 2), booking.StatusConfirmed)}
		assert.Nil(t, booking.FindConflict(existing, slot(2, 4)))
	})
}
