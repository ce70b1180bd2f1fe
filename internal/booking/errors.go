package booking

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrInvalidRange indicates end <= start or an unparseable date input.
	ErrInvalidRange = errors.New("booking end must be after start")

	// ErrPropertyNotFound indicates an unknown property reference.
	ErrPropertyNotFound = errors.New("property not found")

	// ErrForbidden is the uniform denial for calendar feed access. It is
	// returned identically for a wrong key and an unknown property so the
	// feed endpoint leaks nothing about property existence.
	ErrForbidden = errors.New("forbidden")
)

// ConflictError reports a candidate range overlapping an existing
// confirmed booking. It carries enough of the conflicting booking for the
// caller to present the collision without a second lookup.
type ConflictError struct {
	BookingID string
	Start     time.Time
	End       time.Time
	GuestName string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("booking conflict with %s (%s to %s)",
		e.BookingID,
		e.Start.Format("2006-01-02"),
		e.End.Format("2006-01-02"),
	)
}
