package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/propstream/backend/internal/storage/models"
)

// MessageTemplateRepository provides data access for guest-message
// templates. Templates are owner-scoped; every query carries the owner id
// so one user can never read or mutate another's templates.
type MessageTemplateRepository struct {
	BaseRepository
}

// NewMessageTemplateRepository creates a new message template repository.
func NewMessageTemplateRepository(db *DB) *MessageTemplateRepository {
	return &MessageTemplateRepository{
		BaseRepository: NewBaseRepository(db),
	}
}

// Create inserts a new template for an owner.
func (r *MessageTemplateRepository) Create(ctx context.Context, t *models.MessageTemplate) error {
	t.ID = GenerateID()
	t.CreatedAt = r.Now()
	t.UpdatedAt = t.CreatedAt

	vars, err := encodeVariables(t.Variables)
	if err != nil {
		return err
	}

	_, err = r.DB().ExecContext(ctx, `
		INSERT INTO message_templates (id, owner_id, name, subject, body, variables, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, t.ID, t.OwnerID, t.Name, t.Subject, t.Body, vars, t.CreatedAt, t.UpdatedAt)
	if err != nil {
		return fmt.Errorf("inserting message template: %w", err)
	}

	return nil
}

// GetByID retrieves one of an owner's templates. Returns nil when the
// template does not exist or belongs to someone else.
func (r *MessageTemplateRepository) GetByID(ctx context.Context, ownerID, id string) (*models.MessageTemplate, error) {
	t := &models.MessageTemplate{}
	var vars string

	err := r.DB().QueryRowContext(ctx, `
		SELECT id, owner_id, name, subject, body, variables, created_at, updated_at
		FROM message_templates WHERE id = ? AND owner_id = ?
	`, id, ownerID).Scan(
		&t.ID, &t.OwnerID, &t.Name, &t.Subject, &t.Body, &vars,
		&t.CreatedAt, &t.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying message template: %w", err)
	}

	if t.Variables, err = decodeVariables(vars); err != nil {
		return nil, err
	}
	return t, nil
}

// ListByOwner retrieves all of an owner's templates, newest first.
func (r *MessageTemplateRepository) ListByOwner(ctx context.Context, ownerID string) ([]models.MessageTemplate, error) {
	rows, err := r.DB().QueryContext(ctx, `
		SELECT id, owner_id, name, subject, body, variables, created_at, updated_at
		FROM message_templates
		WHERE owner_id = ?
		ORDER BY created_at DESC
	`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("querying message templates: %w", err)
	}
	defer rows.Close()

	var templates []models.MessageTemplate
	for rows.Next() {
		var t models.MessageTemplate
		var vars string
		if err := rows.Scan(
			&t.ID, &t.OwnerID, &t.Name, &t.Subject, &t.Body, &vars,
			&t.CreatedAt, &t.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning message template: %w", err)
		}
		if t.Variables, err = decodeVariables(vars); err != nil {
			return nil, err
		}
		templates = append(templates, t)
	}

	return templates, rows.Err()
}

// Update overwrites a template's content, scoped to its owner.
func (r *MessageTemplateRepository) Update(ctx context.Context, t *models.MessageTemplate) error {
	t.UpdatedAt = r.Now()

	vars, err := encodeVariables(t.Variables)
	if err != nil {
		return err
	}

	result, err := r.DB().ExecContext(ctx, `
		UPDATE message_templates SET name = ?, subject = ?, body = ?, variables = ?, updated_at = ?
		WHERE id = ? AND owner_id = ?
	`, t.Name, t.Subject, t.Body, vars, t.UpdatedAt, t.ID, t.OwnerID)
	if err != nil {
		return fmt.Errorf("updating message template: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("message template not found: %s", t.ID)
	}

	return nil
}

// Delete removes an owner's template by ID.
func (r *MessageTemplateRepository) Delete(ctx context.Context, ownerID, id string) error {
	result, err := r.DB().ExecContext(ctx,
		"DELETE FROM message_templates WHERE id = ? AND owner_id = ?", id, ownerID)
	if err != nil {
		return fmt.Errorf("deleting message template: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("message template not found: %s", id)
	}

	return nil
}

// Variables are stored as a JSON array in a TEXT column.
func encodeVariables(vars []string) (string, error) {
	if vars == nil {
		vars = []string{}
	}
	data, err := json.Marshal(vars)
	if err != nil {
		return "", fmt.Errorf("encoding template variables: %w", err)
	}
	return string(data), nil
}

func decodeVariables(raw string) ([]string, error) {
	var vars []string
	if err := json.Unmarshal([]byte(raw), &vars); err != nil {
		return nil, fmt.Errorf("decoding template variables: %w", err)
	}
	return vars, nil
}
