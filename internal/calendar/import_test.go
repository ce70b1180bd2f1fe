package calendar

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/propstream/backend/internal/storage/models"
)

func feedWith(events ...string) string {
	lines := []string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:-//Airbnb Inc//Hosting Calendar 0.8.8//EN",
	}
	lines = append(lines, events...)
	lines = append(lines, "END:VCALENDAR", "")
	return strings.Join(lines, "\r\n")
}

func vevent(uid, start, end, summary string) string {
	lines := []string{
		"BEGIN:VEVENT",
		"DTSTAMP:20240110T120000Z",
	}
	if start != "" {
		lines = append(lines, "DTSTART;VALUE=DATE:"+start)
	}
	if end != "" {
		lines = append(lines, "DTEND;VALUE=DATE:"+end)
	}
	if uid != "" {
		lines = append(lines, "UID:"+uid)
	}
	lines = append(lines, "SUMMARY:"+summary, "END:VEVENT")
	return strings.Join(lines, "\r\n")
}

func TestImportFeed_CreatesBookings(t *testing.T) {
	store := newFakeStore()
	importer := NewImporter(store)

	feed := feedWith(
		vevent("a1@airbnb.com", "20240115", "20240120", "Reservation for Alice"),
		vevent("a2@airbnb.com", "20240201", "20240205", "Airbnb (Not available)"),
	)

	result, err := importer.ImportFeed(context.Background(), "p1", models.PlatformAirbnb, strings.NewReader(feed))
	require.NoError(t, err)
	assert.Equal(t, 2, result.Imported)
	assert.Equal(t, 0, result.Skipped)
	assert.Equal(t, 2, store.count())

	b, err := store.FindBookingByExternalKey(context.Background(), "p1", models.PlatformAirbnb, "a1@airbnb.com")
	require.NoError(t, err)
	require.NotNil(t, b)
	assert.Equal(t, models.StatusConfirmed, b.Status)
	require.NotNil(t, b.GuestName)
	assert.Equal(t, "Alice", *b.GuestName)
}

func TestImportFeed_Idempotent(t *testing.T) {
	store := newFakeStore()
	importer := NewImporter(store)

	feed := feedWith(vevent("a1@airbnb.com", "20240115", "20240120", "Reserved"))

	for i := 0; i < 3; i++ {
		result, err := importer.ImportFeed(context.Background(), "p1", models.PlatformAirbnb, strings.NewReader(feed))
		require.NoError(t, err)
		assert.Equal(t, 1, result.Imported)
	}

	assert.Equal(t, 1, store.count(), "re-importing the same feed must not duplicate")
}

func TestImportFeed_UpdatesChangedDates(t *testing.T) {
	store := newFakeStore()
	importer := NewImporter(store)

	first := feedWith(vevent("a1@airbnb.com", "20240115", "20240120", "Reserved"))
	_, err := importer.ImportFeed(context.Background(), "p1", models.PlatformAirbnb, strings.NewReader(first))
	require.NoError(t, err)

	// Guest extended their stay on the platform.
	second := feedWith(vevent("a1@airbnb.com", "20240115", "20240122", "Reserved"))
	_, err = importer.ImportFeed(context.Background(), "p1", models.PlatformAirbnb, strings.NewReader(second))
	require.NoError(t, err)

	assert.Equal(t, 1, store.count())
	b, err := store.FindBookingByExternalKey(context.Background(), "p1", models.PlatformAirbnb, "a1@airbnb.com")
	require.NoError(t, err)
	require.NotNil(t, b)
	assert.Equal(t, "20240122", b.End.Format("20060102"))
}

func TestImportFeed_MissingUIDStaysIdempotent(t *testing.T) {
	store := newFakeStore()
	importer := NewImporter(store)

	feed := feedWith(vevent("", "20240115", "20240120", "Blocked"))

	for i := 0; i < 2; i++ {
		_, err := importer.ImportFeed(context.Background(), "p1", models.PlatformVrbo, strings.NewReader(feed))
		require.NoError(t, err)
	}

	assert.Equal(t, 1, store.count(), "synthetic id must collapse identical unlabeled events")
}

func TestImportFeed_SkipsUnusableEvents(t *testing.T) {
	store := newFakeStore()
	importer := NewImporter(store)

	events := []string{
		vevent("bad1", "", "20240120", "Missing start"),
		vevent("bad2", "20240120", "20240115", "Inverted range"),
	}
	for i := 0; i < 10; i++ {
		events = append(events, vevent(
			"ok"+string(rune('a'+i)),
			time.Date(2024, 3, 1+2*i, 0, 0, 0, 0, time.UTC).Format("20060102"),
			time.Date(2024, 3, 2+2*i, 0, 0, 0, 0, time.UTC).Format("20060102"),
			"Reserved",
		))
	}

	result, err := importer.ImportFeed(context.Background(), "p1", models.PlatformAirbnb, strings.NewReader(feedWith(events...)))
	require.NoError(t, err)
	assert.Equal(t, 10, result.Imported)
	assert.Equal(t, 2, result.Skipped)
	assert.Equal(t, 10, store.count())
}

func TestImportFeed_MalformedAbortsWithoutWrites(t *testing.T) {
	store := newFakeStore()
	importer := NewImporter(store)

	_, err := importer.ImportFeed(context.Background(), "p1", models.PlatformAirbnb, strings.NewReader("garbage"))
	assert.ErrorIs(t, err, ErrMalformedFeed)
	assert.Equal(t, 0, store.count())
}

func TestImportFromURL(t *testing.T) {
	feed := feedWith(vevent("a1@airbnb.com", "20240115", "20240120", "Reserved"))

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ok.ics":
			w.Header().Set("Content-Type", "text/calendar")
			w.Write([]byte(feed))
		case "/garbage.ics":
			w.Write([]byte("not a calendar"))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	store := newFakeStore()
	importer := NewImporter(store)
	ctx := context.Background()

	result, err := importer.ImportFromURL(ctx, "p1", models.PlatformAirbnb, srv.URL+"/ok.ics")
	require.NoError(t, err)
	assert.Equal(t, 1, result.Imported)

	_, err = importer.ImportFromURL(ctx, "p1", models.PlatformAirbnb, srv.URL+"/missing.ics")
	assert.ErrorIs(t, err, ErrFetchFailed)

	_, err = importer.ImportFromURL(ctx, "p1", models.PlatformAirbnb, srv.URL+"/garbage.ics")
	assert.ErrorIs(t, err, ErrMalformedFeed)
}

func TestGuestNameFromSummary(t *testing.T) {
	tests := []struct {
		summary string
		want    string
	}{
		{"Reservation for Alice Smith", "Alice Smith"},
		{"reservation for Bob", "Bob"},
		{"Airbnb (Not available)", "Airbnb (Not available)"},
		{"   ", ""},
		{"Reservation for ", ""},
	}

	for _, tt := range tests {
		got := GuestNameFromSummary(tt.summary)
		if tt.want == "" {
			assert.Nil(t, got, "summary %q", tt.summary)
			continue
		}
		require.NotNil(t, got, "summary %q", tt.summary)
		assert.Equal(t, tt.want, *got)
	}
}
