package models

import "time"

// PlatformLink stores a platform's .ics feed URL for a property so it can
// be re-imported on a schedule as well as on demand.
type PlatformLink struct {
	ID         string     `json:"id"`
	PropertyID string     `json:"property_id"`
	Platform   Platform   `json:"platform"`
	ImportURL  string     `json:"import_url"`
	LastSyncAt *time.Time `json:"last_sync_at,omitempty"`
	SyncStatus string     `json:"sync_status"`
	SyncError  *string    `json:"sync_error,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// SyncStatus constants
const (
	SyncStatusPending = "pending"
	SyncStatusSyncing = "syncing"
	SyncStatusSuccess = "success"
	SyncStatusError   = "error"
)

// ImportResult contains the results of a feed import.
type ImportResult struct {
	PropertyID string    `json:"property_id"`
	Platform   Platform  `json:"platform"`
	Imported   int       `json:"imported"`
	Skipped    int       `json:"skipped"`
	SyncedAt   time.Time `json:"synced_at"`
}
