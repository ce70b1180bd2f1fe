package calendar

import (
	"context"
	"fmt"
	"sync"

	"github.com/propstream/backend/internal/storage/models"
)

// fakeStore is an in-memory booking.Store for calendar tests.
type fakeStore struct {
	mu       sync.Mutex
	nextID   int
	bookings map[string]*models.Booking
	secrets  map[string]string
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		bookings: make(map[string]*models.Booking),
		secrets:  make(map[string]string),
	}
}

func (f *fakeStore) FindConfirmedBookings(ctx context.Context, propertyID, excludeID string) ([]models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []models.Booking
	for _, b := range f.bookings {
		if b.PropertyID == propertyID && b.Status == models.StatusConfirmed && b.ID != excludeID {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (f *fakeStore) FindBookingByExternalKey(ctx context.Context, propertyID string, platform models.Platform, externalID string) (*models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, b := range f.bookings {
		if b.PropertyID == propertyID && b.Platform == platform &&
			b.ExternalID != nil && *b.ExternalID == externalID {
			copy := *b
			return &copy, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) CreateBooking(ctx context.Context, b *models.Booking) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if b.ID == "" {
		f.nextID++
		b.ID = fmt.Sprintf("bk-%d", f.nextID)
	}
	copy := *b
	f.bookings[b.ID] = &copy
	return nil
}

func (f *fakeStore) UpdateBooking(ctx context.Context, b *models.Booking) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	copy := *b
	f.bookings[b.ID] = &copy
	return nil
}

func (f *fakeStore) GetPropertySecret(ctx context.Context, propertyID string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.secrets[propertyID], nil
}

func (f *fakeStore) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.bookings)
}
