package calendar

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/propstream/backend/internal/booking"
	"github.com/propstream/backend/internal/storage/models"
)

// Importer reconciles external platform feeds onto internal bookings,
// keyed by (property, platform, external id). Re-importing the same feed
// is idempotent: existing bookings are updated in place, never duplicated.
//
// Imports deliberately skip the conflict checker. Platforms are
// authoritative for reservations they created; a property syncing several
// feeds can surface provider-side overlaps, and recording them verbatim
// beats silently dropping a real reservation.
type Importer struct {
	store      booking.Store
	httpClient *http.Client
}

// NewImporter creates a new feed importer.
func NewImporter(store booking.Store) *Importer {
	return &Importer{
		store: store,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// ImportFromURL fetches a platform's .ics feed and reconciles it.
// Network failures and non-200 responses surface as ErrFetchFailed;
// unparseable documents as ErrMalformedFeed.
func (im *Importer) ImportFromURL(ctx context.Context, propertyID string, platform models.Platform, url string) (*models.ImportResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}

	resp, err := im.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: feed returned status %d", ErrFetchFailed, resp.StatusCode)
	}

	return im.ImportFeed(ctx, propertyID, platform, resp.Body)
}

// ImportFeed decodes an iCalendar document and upserts one booking per
// event. A document-level parse failure aborts with no side effects;
// individual events with unusable dates are skipped and logged, never
// fatal to the batch. Imported counts every processed event, created or
// updated.
func (im *Importer) ImportFeed(ctx context.Context, propertyID string, platform models.Platform, r io.Reader) (*models.ImportResult, error) {
	events, err := Decode(r)
	if err != nil {
		return nil, err
	}

	result := &models.ImportResult{
		PropertyID: propertyID,
		Platform:   platform,
		SyncedAt:   time.Now().UTC(),
	}

	for _, ev := range events {
		if !ev.Valid() {
			log.Printf("Skipping event %q on property %s: missing or inverted dates", ev.UID, propertyID)
			result.Skipped++
			continue
		}

		if err := im.upsertEvent(ctx, propertyID, platform, ev); err != nil {
			return result, fmt.Errorf("importing event %q: %w", ev.UID, err)
		}
		result.Imported++
	}

	return result, nil
}

func (im *Importer) upsertEvent(ctx context.Context, propertyID string, platform models.Platform, ev ExternalEvent) error {
	externalID := ev.UID
	if externalID == "" {
		externalID = syntheticExternalID(ev.Start, ev.End)
	}

	existing, err := im.store.FindBookingByExternalKey(ctx, propertyID, platform, externalID)
	if err != nil {
		return err
	}

	guestName := GuestNameFromSummary(ev.Summary)

	if existing != nil {
		// The platform owns this booking: its feed overwrites our copy.
		existing.Start = ev.Start
		existing.End = ev.End
		existing.GuestName = guestName
		existing.Status = models.StatusConfirmed
		return im.store.UpdateBooking(ctx, existing)
	}

	return im.store.CreateBooking(ctx, &models.Booking{
		PropertyID: propertyID,
		Platform:   platform,
		ExternalID: &externalID,
		Start:      ev.Start,
		End:        ev.End,
		GuestName:  guestName,
		Status:     models.StatusConfirmed,
	})
}

// syntheticExternalID stands in for a missing UID so repeated imports of
// the same unlabeled event stay idempotent. Two events sharing start and
// end collapse onto one booking, which is the desired behavior for
// availability-block feeds that carry no identifiers.
func syntheticExternalID(start, end time.Time) string {
	return start.UTC().Format(time.RFC3339) + "_" + end.UTC().Format(time.RFC3339)
}

// GuestNameFromSummary extracts a guest name from an event summary.
// Platforms commonly title reservations "Reservation for <name>". This is
// a best-effort heuristic; summary formats vary by platform and can change
// without notice.
func GuestNameFromSummary(summary string) *string {
	s := strings.TrimSpace(summary)
	if s == "" {
		return nil
	}

	const prefix = "reservation for "
	if len(s) > len(prefix) && strings.EqualFold(s[:len(prefix)], prefix) {
		s = strings.TrimSpace(s[len(prefix):])
	}
	if s == "" {
		return nil
	}

	return &s
}
