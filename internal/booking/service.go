package booking

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/propstream/backend/internal/storage/models"
)

// Service creates and mutates manual bookings, enforcing the conflict
// rules. Imported bookings bypass this service on purpose: external
// platforms are authoritative for reservations they created, and the
// calendar importer writes them through the store directly.
type Service struct {
	store   Store
	checker *ConflictChecker

	// One mutex per property serializes check-then-insert so two
	// concurrent requests for overlapping ranges cannot both pass the
	// conflict check. Entries are never removed; the map stays small
	// (one entry per property that has seen a write this process).
	locks   map[string]*sync.Mutex
	locksMu sync.Mutex
}

// NewService creates a new booking service.
func NewService(store Store) *Service {
	return &Service{
		store:   store,
		checker: NewConflictChecker(store),
		locks:   make(map[string]*sync.Mutex),
	}
}

// CreateRequest carries the fields of a manual booking request.
type CreateRequest struct {
	PropertyID string
	Start      time.Time
	End        time.Time
	GuestName  *string
	GuestEmail *string
	GuestPhone *string
	Notes      string
}

// Create validates and persists a manual confirmed booking. It returns
// ErrInvalidRange for a bad date range and a *ConflictError when the range
// collides with an existing confirmed booking.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*models.Booking, error) {
	if !ValidRange(req.Start, req.End) {
		return nil, ErrInvalidRange
	}

	unlock := s.lockProperty(req.PropertyID)
	defer unlock()

	conflict, err := s.checker.CheckConflict(ctx, req.PropertyID, req.Start, req.End, "")
	if err != nil {
		return nil, err
	}
	if conflict != nil {
		return nil, conflict
	}

	b := &models.Booking{
		PropertyID: req.PropertyID,
		Platform:   models.PlatformManual,
		Start:      req.Start,
		End:        req.End,
		GuestName:  req.GuestName,
		GuestEmail: req.GuestEmail,
		GuestPhone: req.GuestPhone,
		Status:     models.StatusConfirmed,
		Notes:      req.Notes,
	}
	if err := s.store.CreateBooking(ctx, b); err != nil {
		return nil, fmt.Errorf("creating booking: %w", err)
	}

	log.Printf("Booking %s created for property %s (%s to %s)",
		b.ID, b.PropertyID, b.Start.Format("2006-01-02"), b.End.Format("2006-01-02"))

	return b, nil
}

// Reschedule moves an existing booking to a new range, re-running the
// conflict check with the booking itself excluded.
func (s *Service) Reschedule(ctx context.Context, b *models.Booking, start, end time.Time) error {
	if !ValidRange(start, end) {
		return ErrInvalidRange
	}

	unlock := s.lockProperty(b.PropertyID)
	defer unlock()

	if b.Status == models.StatusConfirmed {
		conflict, err := s.checker.CheckConflict(ctx, b.PropertyID, start, end, b.ID)
		if err != nil {
			return err
		}
		if conflict != nil {
			return conflict
		}
	}

	b.Start = start
	b.End = end
	return s.store.UpdateBooking(ctx, b)
}

// Cancel marks a booking cancelled, releasing its range.
func (s *Service) Cancel(ctx context.Context, b *models.Booking) error {
	b.Status = models.StatusCancelled
	return s.store.UpdateBooking(ctx, b)
}

// lockProperty acquires the per-property mutex and returns its unlock.
func (s *Service) lockProperty(propertyID string) func() {
	s.locksMu.Lock()
	mu, ok := s.locks[propertyID]
	if !ok {
		mu = &sync.Mutex{}
		s.locks[propertyID] = mu
	}
	s.locksMu.Unlock()

	mu.Lock()
	return mu.Unlock
}
