package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/propstream/backend/internal/storage/models"
)

// UserRepository provides data access for user accounts.
type UserRepository struct {
	BaseRepository
}

// NewUserRepository creates a new user repository.
func NewUserRepository(db *DB) *UserRepository {
	return &UserRepository{
		BaseRepository: NewBaseRepository(db),
	}
}

// Create inserts a new user account.
func (r *UserRepository) Create(ctx context.Context, u *models.User) error {
	u.ID = GenerateID()
	u.CreatedAt = r.Now()
	u.UpdatedAt = u.CreatedAt
	if u.Role == "" {
		u.Role = models.RoleClient
	}

	_, err := r.DB().ExecContext(ctx, `
		INSERT INTO users (id, name, email, password_hash, role, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, u.ID, u.Name, u.Email, u.PasswordHash, u.Role, u.CreatedAt, u.UpdatedAt)
	if err != nil {
		return fmt.Errorf("inserting user: %w", err)
	}

	return nil
}

// GetByID retrieves a user by ID. Returns nil when not found.
func (r *UserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	return r.getOne(ctx, "id", id)
}

// GetByEmail retrieves a user by email. Returns nil when not found.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.getOne(ctx, "email", email)
}

func (r *UserRepository) getOne(ctx context.Context, column, value string) (*models.User, error) {
	u := &models.User{}

	err := r.DB().QueryRowContext(ctx, `
		SELECT id, name, email, password_hash, role, created_at, updated_at
		FROM users WHERE `+column+` = ?
	`, value).Scan(
		&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.CreatedAt, &u.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying user: %w", err)
	}

	return u, nil
}
