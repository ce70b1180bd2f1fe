// Package booking implements the reservation timeline for properties:
// the date-range overlap rules, the conflict check applied to manual
// bookings, and the store contract shared with the calendar package.
package booking

import (
	"context"

	"github.com/propstream/backend/internal/storage/models"
)

// Store is the persistence boundary the booking and calendar logic depend
// on. *storage.BookingRepository implements it; tests substitute fakes.
type Store interface {
	// FindConfirmedBookings returns the confirmed bookings for a property,
	// omitting excludeID when non-empty.
	FindConfirmedBookings(ctx context.Context, propertyID, excludeID string) ([]models.Booking, error)

	// FindBookingByExternalKey looks up a booking by its import
	// reconciliation key (property, platform, external id). Nil when absent.
	FindBookingByExternalKey(ctx context.Context, propertyID string, platform models.Platform, externalID string) (*models.Booking, error)

	// CreateBooking persists a new booking, assigning ID and timestamps.
	CreateBooking(ctx context.Context, b *models.Booking) error

	// UpdateBooking overwrites the mutable fields of an existing booking.
	UpdateBooking(ctx context.Context, b *models.Booking) error

	// GetPropertySecret returns a property's iCal export secret, or an
	// empty string when the property does not exist.
	GetPropertySecret(ctx context.Context, propertyID string) (string, error)
}
