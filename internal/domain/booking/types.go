package booking

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// MaxApprovalLevel is the last approval stage; approving at this level
// confirms the booking.
const MaxApprovalLevel = 4

var ErrInvalidStatus = errors.New("invalid booking status")

type statusKind int

const (
	kindPending statusKind = iota
	kindConfirmed
	kindCancelled
)

// Status is a tagged enumeration over the booking lifecycle. A pending
// status carries its approval level (1..4) so workflow code never parses
// level numbers out of strings.
type Status struct {
	kind  statusKind
	level int
}

var (
	StatusConfirmed = Status{kind: kindConfirmed}
	StatusCancelled = Status{kind: kindCancelled}
)

func StatusPendingLevel(level int) (Status, error) {
	if level < 1 || level > MaxApprovalLevel {
		return Status{}, ErrInvalidStatus
	}
	return Status{kind: kindPending, level: level}, nil
}

// ParseStatus reads the persisted string form: pending_level_N, confirmed
// or cancelled.
func ParseStatus(s string) (Status, error) {
	switch {
	case s == "confirmed":
		return StatusConfirmed, nil
	case s == "cancelled":
		return StatusCancelled, nil
	case strings.HasPrefix(s, "pending_level_"):
		level, err := strconv.Atoi(strings.TrimPrefix(s, "pending_level_"))
		if err != nil {
			return Status{}, ErrInvalidStatus
		}
		return StatusPendingLevel(level)
	default:
		return Status{}, ErrInvalidStatus
	}
}

func (s Status) String() string {
	switch s.kind {
	case kindConfirmed:
		return "confirmed"
	case kindCancelled:
		return "cancelled"
	default:
		return fmt.Sprintf("pending_level_%d", s.level)
	}
}

func (s Status) IsPending() bool   { return s.kind == kindPending }
func (s Status) IsConfirmed() bool { return s.kind == kindConfirmed }
func (s Status) IsCancelled() bool { return s.kind == kindCancelled }

// IsTerminal reports whether no further approval transition is possible.
func (s Status) IsTerminal() bool {
	return s.kind == kindConfirmed || s.kind == kindCancelled
}

// Level returns the pending approval level, or 0 for terminal statuses.
func (s Status) Level() int {
	if s.kind != kindPending {
		return 0
	}
	return s.level
}

func (s Status) IsPendingAt(level int) bool {
	return s.kind == kindPending && s.level == level
}
