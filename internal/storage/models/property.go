package models

import "time"

// Property represents a rental property owned by a realtor.
// ICalSecret authorizes the public calendar export feed and is never
// included in JSON responses except through the explicit export-URL endpoint.
type Property struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"owner_id"`
	Name        string    `json:"name"`
	Address     string    `json:"address,omitempty"`
	Description string    `json:"description,omitempty"`
	ICalSecret  string    `json:"-"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
