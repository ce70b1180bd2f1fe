package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/propstream/backend/internal/storage/models"
)

// PropertyRepository provides data access for properties.
type PropertyRepository struct {
	BaseRepository
}

// NewPropertyRepository creates a new property repository.
func NewPropertyRepository(db *DB) *PropertyRepository {
	return &PropertyRepository{
		BaseRepository: NewBaseRepository(db),
	}
}

// Create inserts a new property, generating its ID and iCal export secret.
func (r *PropertyRepository) Create(ctx context.Context, p *models.Property) error {
	p.ID = GenerateID()
	p.ICalSecret = uuid.NewString()
	p.CreatedAt = r.Now()
	p.UpdatedAt = p.CreatedAt

	_, err := r.DB().ExecContext(ctx, `
		INSERT INTO properties (id, owner_id, name, address, description, ical_secret, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, p.ID, p.OwnerID, p.Name, p.Address, p.Description, p.ICalSecret, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("inserting property: %w", err)
	}

	return nil
}

// GetByID retrieves a property by its ID. Returns nil when not found.
func (r *PropertyRepository) GetByID(ctx context.Context, id string) (*models.Property, error) {
	p := &models.Property{}

	err := r.DB().QueryRowContext(ctx, `
		SELECT id, owner_id, name, address, description, ical_secret, created_at, updated_at
		FROM properties WHERE id = ?
	`, id).Scan(
		&p.ID, &p.OwnerID, &p.Name, &p.Address, &p.Description,
		&p.ICalSecret, &p.CreatedAt, &p.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying property: %w", err)
	}

	return p, nil
}

// ListByOwner retrieves all properties for an owner, newest first.
func (r *PropertyRepository) ListByOwner(ctx context.Context, ownerID string) ([]models.Property, error) {
	rows, err := r.DB().QueryContext(ctx, `
		SELECT id, owner_id, name, address, description, ical_secret, created_at, updated_at
		FROM properties
		WHERE owner_id = ?
		ORDER BY created_at DESC
	`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("querying properties: %w", err)
	}
	defer rows.Close()

	var properties []models.Property
	for rows.Next() {
		var p models.Property
		if err := rows.Scan(
			&p.ID, &p.OwnerID, &p.Name, &p.Address, &p.Description,
			&p.ICalSecret, &p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning property: %w", err)
		}
		properties = append(properties, p)
	}

	return properties, rows.Err()
}

// Update updates the descriptive fields of a property.
func (r *PropertyRepository) Update(ctx context.Context, p *models.Property) error {
	p.UpdatedAt = r.Now()

	result, err := r.DB().ExecContext(ctx, `
		UPDATE properties SET name = ?, address = ?, description = ?, updated_at = ?
		WHERE id = ?
	`, p.Name, p.Address, p.Description, p.UpdatedAt, p.ID)
	if err != nil {
		return fmt.Errorf("updating property: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("property not found: %s", p.ID)
	}

	return nil
}

// Delete removes a property and, via foreign keys, its bookings and links.
func (r *PropertyRepository) Delete(ctx context.Context, id string) error {
	result, err := r.DB().ExecContext(ctx, "DELETE FROM properties WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting property: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("property not found: %s", id)
	}

	return nil
}
