package booking

import (
	"context"
	"fmt"
	"time"

	"github.com/propstream/backend/internal/storage/models"
)

// ConflictChecker decides whether a candidate date range can be booked on
// a property. Only confirmed bookings participate; pending and cancelled
// bookings never block a range.
type ConflictChecker struct {
	store Store
}

// NewConflictChecker creates a new conflict checker.
func NewConflictChecker(store Store) *ConflictChecker {
	return &ConflictChecker{store: store}
}

// CheckConflict returns the first confirmed booking overlapping
// [start, end), or nil when the range is free. excludeID omits one booking
// from the check, for updates of an existing booking. The check is a pure
// read; callers must hold the property's write serialization (see
// Service.lockProperty) between a clean check and the insert.
func (c *ConflictChecker) CheckConflict(ctx context.Context, propertyID string, start, end time.Time, excludeID string) (*ConflictError, error) {
	if !ValidRange(start, end) {
		return nil, ErrInvalidRange
	}

	existing, err := c.store.FindConfirmedBookings(ctx, propertyID, excludeID)
	if err != nil {
		return nil, fmt.Errorf("loading confirmed bookings: %w", err)
	}

	for _, b := range existing {
		if Overlaps(start, end, b.Start, b.End) {
			return conflictFrom(&b), nil
		}
	}

	return nil, nil
}

func conflictFrom(b *models.Booking) *ConflictError {
	conflict := &ConflictError{
		BookingID: b.ID,
		Start:     b.Start,
		End:       b.End,
	}
	if b.GuestName != nil {
		conflict.GuestName = *b.GuestName
	}
	return conflict
}
