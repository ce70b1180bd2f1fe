package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/propstream/backend/internal/storage/models"
)

// SubscriptionRepository provides data access for billing subscriptions.
type SubscriptionRepository struct {
	BaseRepository
}

// NewSubscriptionRepository creates a new subscription repository.
func NewSubscriptionRepository(db *DB) *SubscriptionRepository {
	return &SubscriptionRepository{
		BaseRepository: NewBaseRepository(db),
	}
}

// Upsert creates or updates the subscription record for a user. Billing
// webhooks are the only writer, so last-write-wins is acceptable here.
func (r *SubscriptionRepository) Upsert(ctx context.Context, userID, provider, status string, providerRef *string) error {
	now := r.Now()

	_, err := r.DB().ExecContext(ctx, `
		INSERT INTO subscriptions (id, user_id, provider, status, provider_ref, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			provider = excluded.provider,
			status = excluded.status,
			provider_ref = excluded.provider_ref,
			updated_at = excluded.updated_at
	`, GenerateID(), userID, provider, status, providerRef, now, now)
	if err != nil {
		return fmt.Errorf("upserting subscription: %w", err)
	}

	return nil
}

// GetByUser retrieves a user's subscription. Returns nil when the user has
// never been billed.
func (r *SubscriptionRepository) GetByUser(ctx context.Context, userID string) (*models.Subscription, error) {
	s := &models.Subscription{}

	err := r.DB().QueryRowContext(ctx, `
		SELECT id, user_id, provider, status, provider_ref, created_at, updated_at
		FROM subscriptions WHERE user_id = ?
	`, userID).Scan(
		&s.ID, &s.UserID, &s.Provider, &s.Status, &s.ProviderRef, &s.CreatedAt, &s.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying subscription: %w", err)
	}

	return s, nil
}
