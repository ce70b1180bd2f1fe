package models

import "time"

// NewsletterSignup is a captured waitlist/newsletter email address.
type NewsletterSignup struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Source    string    `json:"source"`
	CreatedAt time.Time `json:"created_at"`
}
