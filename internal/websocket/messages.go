package websocket

import (
	"encoding/json"
	"time"
)

// MessageType identifies the type of WebSocket message.
type MessageType string

const (
	// Server -> Client event types
	TypeBookingCreated    MessageType = "booking.created"
	TypeBookingCancelled  MessageType = "booking.cancelled"
	TypeFeedSyncCompleted MessageType = "calendar.sync_completed"
	TypeFeedSyncError     MessageType = "calendar.sync_error"
	TypeNotification      MessageType = "notification"
)

// Message represents a WebSocket message envelope.
type Message struct {
	Type      MessageType `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   any         `json:"payload"`
}

// NewMessage creates a new message with the current timestamp.
func NewMessage(msgType MessageType, payload any) Message {
	return Message{
		Type:      msgType,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	}
}

// JSON serializes the message to JSON bytes.
func (m Message) JSON() ([]byte, error) {
	return json.Marshal(m)
}

// BookingPayload is the payload for booking.* events.
type BookingPayload struct {
	BookingID  string    `json:"booking_id"`
	PropertyID string    `json:"property_id"`
	Platform   string    `json:"platform"`
	Start      time.Time `json:"start"`
	End        time.Time `json:"end"`
	Status     string    `json:"status"`
}

// FeedSyncPayload is the payload for calendar.sync_completed events.
type FeedSyncPayload struct {
	LinkID     string `json:"link_id"`
	PropertyID string `json:"property_id"`
	Platform   string `json:"platform"`
	Status     string `json:"status"`
	Imported   int    `json:"imported"`
	Skipped    int    `json:"skipped"`
}

// FeedSyncErrorPayload is the payload for calendar.sync_error events.
type FeedSyncErrorPayload struct {
	LinkID     string `json:"link_id"`
	PropertyID string `json:"property_id"`
	Platform   string `json:"platform"`
	Message    string `json:"message"`
}

// NotificationPayload is the payload for notification events.
type NotificationPayload struct {
	Level   string `json:"level"` // info, warning, error, success
	Title   string `json:"title"`
	Message string `json:"message"`
}
