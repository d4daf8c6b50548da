package booking

// BatchPartition splits the bookings of one batch by how far they have
// progressed relative to a just-cleared level. It drives the coordination
// rule: the next level's approver hears about a batch exactly once, after
// every sibling has individually cleared the current level.
type BatchPartition struct {
	// StillPending are siblings not yet processed at the cleared level.
	StillPending []*Booking
	// AtNextLevel are siblings that cleared the level and now wait at the
	// next one.
	AtNextLevel []*Booking
	// Rejected are cancelled siblings, bundled into the next dispatch for
	// context only.
	Rejected []*Booking
}

// PartitionBatch classifies siblings after one of them cleared
// clearedLevel. Confirmed siblings (possible only when clearedLevel is the
// last) fall into no bucket.
func PartitionBatch(siblings []*Booking, clearedLevel int) BatchPartition {
	var p BatchPartition
	for _, b := range siblings {
		switch {
		case b.Status().IsPendingAt(clearedLevel):
			p.StillPending = append(p.StillPending, b)
		case b.Status().IsPendingAt(clearedLevel + 1):
			p.AtNextLevel = append(p.AtNextLevel, b)
		case b.Status().IsCancelled():
			p.Rejected = append(p.Rejected, b)
		}
	}
	return p
}

// ShouldDispatch reports whether the next-level approver must be notified
// now: every sibling has been processed at the cleared level and at least
// one survived. When all siblings were rejected there is nothing left to
// approve and no request goes out.
func (p BatchPartition) ShouldDispatch() bool {
	return len(p.StillPending) == 0 && len(p.AtNextLevel) > 0
}

// DispatchRecords returns the bookings to bundle into the approval
// request: the surviving siblings first, then the rejected ones for
// context.
func (p BatchPartition) DispatchRecords() []*Booking {
	records := make([]*Booking, 0, len(p.AtNextLevel)+len(p.Rejected))
	records = append(records, p.AtNextLevel...)
	records = append(records, p.Rejected...)
	return records
}
