// Package calendar translates between the internal booking model and the
// iCalendar wire format: exporting a property's confirmed bookings as an
// .ics feed and importing external platform feeds (Airbnb, VRBO,
// Booking.com) back into bookings.
package calendar

import (
	"errors"
	"fmt"
	"io"
	"time"

	ics "github.com/arran4/golang-ical"

	"github.com/propstream/backend/internal/storage/models"
)

var (
	// ErrMalformedFeed indicates a document that cannot be parsed as
	// iCalendar at all. Individual events missing optional fields do not
	// trigger it.
	ErrMalformedFeed = errors.New("malformed calendar feed")

	// ErrFetchFailed indicates the feed URL could not be retrieved
	// (network error, timeout, non-200). Distinct from ErrMalformedFeed so
	// callers can tell retry-worthy failures from permanent ones.
	ErrFetchFailed = errors.New("fetching calendar feed failed")
)

// ExternalEvent is a normalized VEVENT from an external feed. It exists
// only between decode and reconciliation and is never persisted.
type ExternalEvent struct {
	UID     string
	Summary string
	Start   time.Time
	End     time.Time
}

// Valid reports whether the event carries a usable date range.
func (e ExternalEvent) Valid() bool {
	return !e.Start.IsZero() && !e.End.IsZero() && e.End.After(e.Start)
}

// Date-times are written as floating local values at whole-minute
// granularity. No timezone conversion happens here; timezone discipline
// belongs to the storage layer.
const icalFloatingLayout = "20060102T150405"

// Encode renders confirmed bookings as a single VCALENDAR document.
// Output is deterministic for a given input list: every emitted property
// derives from stored booking fields, so the same bookings always produce
// byte-identical output.
//
// Event summaries are synthetic ("Reserved (airbnb)") so a shared feed
// never exposes guest identity; the guest name only appears in the
// DESCRIPTION field.
func Encode(calendarName string, bookings []models.Booking) string {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//Propstream//Propstream Calendar//EN")
	cal.SetXWRCalName(calendarName)

	for _, b := range bookings {
		if b.Status != models.StatusConfirmed {
			continue
		}

		event := cal.AddEvent(fmt.Sprintf("%s@propstream", b.ID))
		event.SetProperty(ics.ComponentPropertyDtstamp, b.UpdatedAt.UTC().Truncate(time.Minute).Format(icalFloatingLayout)+"Z")
		event.SetProperty(ics.ComponentPropertyDtStart, b.Start.Truncate(time.Minute).Format(icalFloatingLayout))
		event.SetProperty(ics.ComponentPropertyDtEnd, b.End.Truncate(time.Minute).Format(icalFloatingLayout))
		event.SetSummary(fmt.Sprintf("Reserved (%s)", b.Platform))
		event.SetStatus(ics.ObjectStatusConfirmed)

		if b.GuestName != nil && *b.GuestName != "" {
			event.SetDescription(fmt.Sprintf("Guest: %s", *b.GuestName))
		} else {
			event.SetDescription("Reserved")
		}
	}

	return cal.Serialize()
}

// Decode parses an external iCalendar document into normalized events.
// Non-VEVENT components are ignored. Events with missing or unparseable
// dates are returned with zero times; the reconciler decides whether to
// skip them. A document that is not iCalendar at all yields
// ErrMalformedFeed.
func Decode(r io.Reader) ([]ExternalEvent, error) {
	cal, err := ics.ParseCalendar(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedFeed, err)
	}

	var events []ExternalEvent
	for _, ve := range cal.Events() {
		var ev ExternalEvent

		if p := ve.GetProperty(ics.ComponentPropertyUniqueId); p != nil {
			ev.UID = p.Value
		}
		if p := ve.GetProperty(ics.ComponentPropertySummary); p != nil {
			ev.Summary = p.Value
		}

		ev.Start = eventTime(ve.GetStartAt, ve.GetAllDayStartAt)
		ev.End = eventTime(ve.GetEndAt, ve.GetAllDayEndAt)

		events = append(events, ev)
	}

	return events, nil
}

// eventTime tries the date-time accessor first and falls back to the
// all-day form, which platform availability feeds commonly use
// (DTSTART;VALUE=DATE:20240101).
func eventTime(getAt, getAllDayAt func() (time.Time, error)) time.Time {
	if t, err := getAt(); err == nil {
		return t
	}
	if t, err := getAllDayAt(); err == nil {
		return t
	}
	return time.Time{}
}
