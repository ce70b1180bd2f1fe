package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/propstream/backend/internal/storage/models"
)

// NewsletterRepository provides data access for newsletter signups.
type NewsletterRepository struct {
	BaseRepository
}

// NewNewsletterRepository creates a new newsletter repository.
func NewNewsletterRepository(db *DB) *NewsletterRepository {
	return &NewsletterRepository{
		BaseRepository: NewBaseRepository(db),
	}
}

// Subscribe records a signup. Repeated signups for the same email are
// idempotent; the second call reports created=false.
func (r *NewsletterRepository) Subscribe(ctx context.Context, email, source string) (created bool, err error) {
	existing, err := r.GetByEmail(ctx, email)
	if err != nil {
		return false, err
	}
	if existing != nil {
		return false, nil
	}

	s := &models.NewsletterSignup{
		ID:        GenerateID(),
		Email:     email,
		Source:    source,
		CreatedAt: r.Now(),
	}

	_, err = r.DB().ExecContext(ctx, `
		INSERT INTO newsletter_signups (id, email, source, created_at)
		VALUES (?, ?, ?, ?)
	`, s.ID, s.Email, s.Source, s.CreatedAt)
	if err != nil {
		return false, fmt.Errorf("inserting signup: %w", err)
	}

	return true, nil
}

// GetByEmail retrieves a signup by email. Returns nil when not found.
func (r *NewsletterRepository) GetByEmail(ctx context.Context, email string) (*models.NewsletterSignup, error) {
	s := &models.NewsletterSignup{}

	err := r.DB().QueryRowContext(ctx, `
		SELECT id, email, source, created_at FROM newsletter_signups WHERE email = ?
	`, email).Scan(&s.ID, &s.Email, &s.Source, &s.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying signup: %w", err)
	}

	return s, nil
}

// Stats returns the total signup count and the count from the last 24 hours.
func (r *NewsletterRepository) Stats(ctx context.Context) (total, last24h int, err error) {
	if err = r.DB().QueryRowContext(ctx,
		"SELECT COUNT(*) FROM newsletter_signups",
	).Scan(&total); err != nil {
		return 0, 0, fmt.Errorf("counting signups: %w", err)
	}

	cutoff := time.Now().UTC().Add(-24 * time.Hour)
	if err = r.DB().QueryRowContext(ctx,
		"SELECT COUNT(*) FROM newsletter_signups WHERE created_at >= ?", cutoff,
	).Scan(&last24h); err != nil {
		return 0, 0, fmt.Errorf("counting recent signups: %w", err)
	}

	return total, last24h, nil
}
