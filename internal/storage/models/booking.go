package models

import (
	"fmt"
	"time"
)

// Platform identifies where a booking originated.
type Platform string

const (
	PlatformManual  Platform = "manual"
	PlatformAirbnb  Platform = "airbnb"
	PlatformVrbo    Platform = "vrbo"
	PlatformBooking Platform = "booking"
	PlatformOther   Platform = "other"
)

// ParsePlatform validates a platform string against the closed set.
func ParsePlatform(s string) (Platform, error) {
	switch Platform(s) {
	case PlatformManual, PlatformAirbnb, PlatformVrbo, PlatformBooking, PlatformOther:
		return Platform(s), nil
	default:
		return "", fmt.Errorf("unknown platform: %q", s)
	}
}

// BookingStatus is the lifecycle status of a booking. Only confirmed
// bookings participate in conflict checks and calendar export.
type BookingStatus string

const (
	StatusConfirmed BookingStatus = "confirmed"
	StatusPending   BookingStatus = "pending"
	StatusCancelled BookingStatus = "cancelled"
)

// ParseStatus validates a booking status string against the closed set.
func ParseStatus(s string) (BookingStatus, error) {
	switch BookingStatus(s) {
	case StatusConfirmed, StatusPending, StatusCancelled:
		return BookingStatus(s), nil
	default:
		return "", fmt.Errorf("unknown booking status: %q", s)
	}
}

// Booking occupies a half-open [Start, End) date range on a property.
// ExternalID is set for imported bookings and is unique per
// (property, platform); manual bookings leave it nil.
type Booking struct {
	ID         string        `json:"id"`
	PropertyID string        `json:"property_id"`
	Platform   Platform      `json:"platform"`
	ExternalID *string       `json:"external_id,omitempty"`
	Start      time.Time     `json:"start"`
	End        time.Time     `json:"end"`
	GuestName  *string       `json:"guest_name,omitempty"`
	GuestEmail *string       `json:"guest_email,omitempty"`
	GuestPhone *string       `json:"guest_phone,omitempty"`
	Status     BookingStatus `json:"status"`
	Notes      string        `json:"notes,omitempty"`
	CreatedAt  time.Time     `json:"created_at"`
	UpdatedAt  time.Time     `json:"updated_at"`
}
