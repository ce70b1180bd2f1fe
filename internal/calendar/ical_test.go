package calendar

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/propstream/backend/internal/storage/models"
)

func testBooking(id string, start, end time.Time, guest string) models.Booking {
	b := models.Booking{
		ID:         id,
		PropertyID: "p1",
		Platform:   models.PlatformAirbnb,
		Start:      start,
		End:        end,
		Status:     models.StatusConfirmed,
		UpdatedAt:  time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC),
	}
	if guest != "" {
		b.GuestName = &guest
	}
	return b
}

func TestEncode_Deterministic(t *testing.T) {
	bookings := []models.Booking{
		testBooking("b1", time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC), "Alice"),
		testBooking("b2", time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), time.Date(2024, 2, 5, 0, 0, 0, 0, time.UTC), ""),
	}

	first := Encode("Beach House – Propstream", bookings)
	second := Encode("Beach House – Propstream", bookings)

	assert.Equal(t, first, second, "same bookings must serialize identically")
}

func TestEncode_GuestNameKeptOutOfSummary(t *testing.T) {
	bookings := []models.Booking{
		testBooking("b1", time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC), "Alice Smith"),
	}

	out := Encode("Test", bookings)

	for _, line := range strings.Split(out, "\r\n") {
		if strings.HasPrefix(line, "SUMMARY") {
			assert.NotContains(t, line, "Alice", "summary must not carry guest identity")
			assert.Contains(t, line, "Reserved (airbnb)")
		}
	}
	assert.Contains(t, out, "DESCRIPTION:Guest: Alice Smith")
}

func TestEncode_SkipsNonConfirmed(t *testing.T) {
	cancelled := testBooking("b1", time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC), "")
	cancelled.Status = models.StatusCancelled

	out := Encode("Test", []models.Booking{cancelled})

	assert.NotContains(t, out, "BEGIN:VEVENT")
}

func TestEncodeDecode_RoundTrip(t *testing.T) {
	start := time.Date(2024, 1, 15, 14, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 20, 10, 0, 0, 0, time.UTC)
	bookings := []models.Booking{testBooking("b1", start, end, "Alice")}

	events, err := Decode(strings.NewReader(Encode("Test", bookings)))
	require.NoError(t, err)
	require.Len(t, events, 1)

	ev := events[0]
	assert.Equal(t, "b1@propstream", ev.UID)
	// Compare formatted values; decoded floating times carry no zone.
	assert.Equal(t, start.Format(icalFloatingLayout), ev.Start.Format(icalFloatingLayout))
	assert.Equal(t, end.Format(icalFloatingLayout), ev.End.Format(icalFloatingLayout))
	assert.True(t, ev.Valid())
}

func TestDecode_AllDayDates(t *testing.T) {
	feed := strings.Join([]string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:-//Airbnb Inc//Hosting Calendar 0.8.8//EN",
		"BEGIN:VEVENT",
		"DTSTAMP:20240110T120000Z",
		"DTSTART;VALUE=DATE:20240115",
		"DTEND;VALUE=DATE:20240120",
		"UID:abc123@airbnb.com",
		"SUMMARY:Reserved",
		"END:VEVENT",
		"END:VCALENDAR",
		"",
	}, "\r\n")

	events, err := Decode(strings.NewReader(feed))
	require.NoError(t, err)
	require.Len(t, events, 1)

	ev := events[0]
	assert.Equal(t, "abc123@airbnb.com", ev.UID)
	assert.Equal(t, "20240115", ev.Start.Format("20060102"))
	assert.Equal(t, "20240120", ev.End.Format("20060102"))
	assert.True(t, ev.Valid())
}

func TestDecode_Malformed(t *testing.T) {
	_, err := Decode(strings.NewReader("this is not an icalendar document"))
	assert.ErrorIs(t, err, ErrMalformedFeed)
}

func TestExternalEvent_Valid(t *testing.T) {
	start := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC)

	assert.True(t, ExternalEvent{Start: start, End: end}.Valid())
	assert.False(t, ExternalEvent{Start: start}.Valid(), "missing end")
	assert.False(t, ExternalEvent{End: end}.Valid(), "missing start")
	assert.False(t, ExternalEvent{Start: end, End: start}.Valid(), "inverted range")
	assert.False(t, ExternalEvent{Start: start, End: start}.Valid(), "zero-length range")
}
