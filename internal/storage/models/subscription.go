package models

import "time"

// SubscriptionStatus values mirror the billing provider's payment states.
const (
	SubscriptionActive   = "active"
	SubscriptionPastDue  = "past_due"
	SubscriptionInactive = "inactive"
)

// Subscription tracks a user's billing state, updated by provider webhooks.
type Subscription struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Provider    string    `json:"provider"`
	Status      string    `json:"status"`
	ProviderRef *string   `json:"provider_ref,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
