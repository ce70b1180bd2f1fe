package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/propstream/backend/internal/storage/models"
)

// PlatformLinkRepository provides data access for platform feed links.
type PlatformLinkRepository struct {
	BaseRepository
}

// NewPlatformLinkRepository creates a new platform link repository.
func NewPlatformLinkRepository(db *DB) *PlatformLinkRepository {
	return &PlatformLinkRepository{
		BaseRepository: NewBaseRepository(db),
	}
}

// Create inserts a new platform link.
func (r *PlatformLinkRepository) Create(ctx context.Context, l *models.PlatformLink) error {
	l.ID = GenerateID()
	l.CreatedAt = r.Now()
	l.UpdatedAt = l.CreatedAt
	l.SyncStatus = models.SyncStatusPending

	_, err := r.DB().ExecContext(ctx, `
		INSERT INTO platform_links (id, property_id, platform, import_url, sync_status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, l.ID, l.PropertyID, l.Platform, l.ImportURL, l.SyncStatus, l.CreatedAt, l.UpdatedAt)
	if err != nil {
		return fmt.Errorf("inserting platform link: %w", err)
	}

	return nil
}

// GetByID retrieves a platform link by ID. Returns nil when not found.
func (r *PlatformLinkRepository) GetByID(ctx context.Context, id string) (*models.PlatformLink, error) {
	l := &models.PlatformLink{}

	err := r.DB().QueryRowContext(ctx, `
		SELECT id, property_id, platform, import_url, last_sync_at, sync_status, sync_error, created_at, updated_at
		FROM platform_links WHERE id = ?
	`, id).Scan(
		&l.ID, &l.PropertyID, &l.Platform, &l.ImportURL, &l.LastSyncAt,
		&l.SyncStatus, &l.SyncError, &l.CreatedAt, &l.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying platform link: %w", err)
	}

	return l, nil
}

// ListByProperty retrieves all platform links for a property.
func (r *PlatformLinkRepository) ListByProperty(ctx context.Context, propertyID string) ([]models.PlatformLink, error) {
	return r.list(ctx, "WHERE property_id = ?", propertyID)
}

// ListAll retrieves every platform link with an import URL. The sync
// scheduler uses this to build its periodic job set.
func (r *PlatformLinkRepository) ListAll(ctx context.Context) ([]models.PlatformLink, error) {
	return r.list(ctx, "WHERE import_url != ''")
}

func (r *PlatformLinkRepository) list(ctx context.Context, where string, args ...any) ([]models.PlatformLink, error) {
	rows, err := r.DB().QueryContext(ctx, `
		SELECT id, property_id, platform, import_url, last_sync_at, sync_status, sync_error, created_at, updated_at
		FROM platform_links `+where+`
		ORDER BY created_at ASC
	`, args...)
	if err != nil {
		return nil, fmt.Errorf("querying platform links: %w", err)
	}
	defer rows.Close()

	var links []models.PlatformLink
	for rows.Next() {
		var l models.PlatformLink
		if err := rows.Scan(
			&l.ID, &l.PropertyID, &l.Platform, &l.ImportURL, &l.LastSyncAt,
			&l.SyncStatus, &l.SyncError, &l.CreatedAt, &l.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning platform link: %w", err)
		}
		links = append(links, l)
	}

	return links, rows.Err()
}

// UpdateSyncStatus records the outcome of a feed sync attempt.
func (r *PlatformLinkRepository) UpdateSyncStatus(ctx context.Context, id string, status string, syncError *string) error {
	now := time.Now().UTC()
	var lastSyncAt *time.Time
	if status == models.SyncStatusSuccess {
		lastSyncAt = &now
	}

	_, err := r.DB().ExecContext(ctx, `
		UPDATE platform_links SET
			sync_status = ?, sync_error = ?, last_sync_at = COALESCE(?, last_sync_at), updated_at = ?
		WHERE id = ?
	`, status, syncError, lastSyncAt, now, id)
	if err != nil {
		return fmt.Errorf("updating sync status: %w", err)
	}

	return nil
}

// Delete removes a platform link by ID.
func (r *PlatformLinkRepository) Delete(ctx context.Context, id string) error {
	result, err := r.DB().ExecContext(ctx, "DELETE FROM platform_links WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting platform link: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("platform link not found: %s", id)
	}

	return nil
}
