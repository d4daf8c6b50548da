package booking

// FindConflict returns the first non-cancelled booking whose slot overlaps
// the candidate, or nil. Cancelled bookings never block a venue. Callers
// distinguish a confirmed conflict (venue already booked) from a pending
// one (venue in the waiting list) via the returned booking's status.
func FindConflict(existing []*Booking, candidate TimeSlot) *Booking {
	for _, b := range existing {
		if b.Status().IsCancelled() {
			continue
		}
		if b.Slot().Overlaps(candidate) {
			return b
		}
	}
	return nil
}
