package booking

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/propstream/backend/internal/storage/models"
)

// memStore is an in-memory Store for tests. It mirrors the repository's
// visible behavior: only confirmed bookings come back from
// FindConfirmedBookings, and unknown properties have an empty secret.
type memStore struct {
	mu       sync.Mutex
	bookings map[string]*models.Booking
	secrets  map[string]string
}

func newMemStore() *memStore {
	return &memStore{
		bookings: make(map[string]*models.Booking),
		secrets:  make(map[string]string),
	}
}

func (m *memStore) FindConfirmedBookings(ctx context.Context, propertyID, excludeID string) ([]models.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []models.Booking
	for _, b := range m.bookings {
		if b.PropertyID != propertyID || b.Status != models.StatusConfirmed {
			continue
		}
		if excludeID != "" && b.ID == excludeID {
			continue
		}
		out = append(out, *b)
	}
	return out, nil
}

func (m *memStore) FindBookingByExternalKey(ctx context.Context, propertyID string, platform models.Platform, externalID string) (*models.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, b := range m.bookings {
		if b.PropertyID == propertyID && b.Platform == platform &&
			b.ExternalID != nil && *b.ExternalID == externalID {
			copy := *b
			return &copy, nil
		}
	}
	return nil, nil
}

func (m *memStore) CreateBooking(ctx context.Context, b *models.Booking) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	copy := *b
	m.bookings[b.ID] = &copy
	return nil
}

func (m *memStore) UpdateBooking(ctx context.Context, b *models.Booking) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	copy := *b
	m.bookings[b.ID] = &copy
	return nil
}

func (m *memStore) GetPropertySecret(ctx context.Context, propertyID string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.secrets[propertyID], nil
}
