package websocket

import (
	"log"

	"github.com/propstream/backend/internal/storage/models"
)

// EventBroadcaster handles broadcasting WebSocket events.
type EventBroadcaster struct {
	hub *Hub
}

// NewEventBroadcaster creates a new event broadcaster.
func NewEventBroadcaster(hub *Hub) *EventBroadcaster {
	return &EventBroadcaster{hub: hub}
}

// BroadcastBookingCreated sends a booking.created event.
func (b *EventBroadcaster) BroadcastBookingCreated(bk models.Booking) {
	b.broadcast(NewMessage(TypeBookingCreated, bookingPayload(bk)))
}

// BroadcastBookingCancelled sends a booking.cancelled event.
func (b *EventBroadcaster) BroadcastBookingCancelled(bk models.Booking) {
	b.broadcast(NewMessage(TypeBookingCancelled, bookingPayload(bk)))
}

func bookingPayload(bk models.Booking) BookingPayload {
	return BookingPayload{
		BookingID:  bk.ID,
		PropertyID: bk.PropertyID,
		Platform:   string(bk.Platform),
		Start:      bk.Start,
		End:        bk.End,
		Status:     string(bk.Status),
	}
}

// BroadcastFeedSyncCompleted sends a calendar.sync_completed event.
func (b *EventBroadcaster) BroadcastFeedSyncCompleted(linkID string, result models.ImportResult) {
	b.broadcast(NewMessage(TypeFeedSyncCompleted, FeedSyncPayload{
		LinkID:     linkID,
		PropertyID: result.PropertyID,
		Platform:   string(result.Platform),
		Status:     "success",
		Imported:   result.Imported,
		Skipped:    result.Skipped,
	}))
}

// BroadcastFeedSyncError sends a calendar.sync_error event.
func (b *EventBroadcaster) BroadcastFeedSyncError(linkID, propertyID string, platform models.Platform, err error) {
	b.broadcast(NewMessage(TypeFeedSyncError, FeedSyncErrorPayload{
		LinkID:     linkID,
		PropertyID: propertyID,
		Platform:   string(platform),
		Message:    err.Error(),
	}))
}

// BroadcastNotification sends a generic notification event.
func (b *EventBroadcaster) BroadcastNotification(level, title, message string) {
	b.broadcast(NewMessage(TypeNotification, NotificationPayload{
		Level:   level,
		Title:   title,
		Message: message,
	}))
}

func (b *EventBroadcaster) broadcast(msg Message) {
	data, err := msg.JSON()
	if err != nil {
		log.Printf("Failed to serialize %s message: %v", msg.Type, err)
		return
	}
	b.hub.Broadcast(data)
}
