package calendar

import (
	"context"
	"crypto/subtle"
	"fmt"

	"github.com/propstream/backend/internal/booking"
)

// FeedGuard authorizes access to a property's public export feed.
type FeedGuard struct {
	store booking.Store
}

// NewFeedGuard creates a new feed guard.
func NewFeedGuard(store booking.Store) *FeedGuard {
	return &FeedGuard{store: store}
}

// AuthorizeExport checks the provided key against the property's iCal
// secret. An unknown property and a wrong key produce the identical
// booking.ErrForbidden, so the response never reveals whether the
// property exists. The comparison is constant-time.
func (g *FeedGuard) AuthorizeExport(ctx context.Context, propertyID, providedKey string) error {
	secret, err := g.store.GetPropertySecret(ctx, propertyID)
	if err != nil {
		return fmt.Errorf("loading property secret: %w", err)
	}

	// Empty secret means the property does not exist. Run the comparison
	// anyway so both denial paths cost the same.
	match := subtle.ConstantTimeCompare([]byte(providedKey), []byte(secret))
	if secret == "" || match != 1 {
		return booking.ErrForbidden
	}

	return nil
}
