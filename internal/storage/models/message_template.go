package models

import "time"

// MessageTemplate is a reusable guest-message template owned by a user.
// Variables lists the placeholder names the body references, e.g.
// "guest_name" or "checkin_date"; substitution happens client-side.
type MessageTemplate struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"owner_id"`
	Name      string    `json:"name"`
	Subject   string    `json:"subject"`
	Body      string    `json:"body"`
	Variables []string  `json:"variables"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
