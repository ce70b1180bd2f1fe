package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/propstream/backend/internal/storage/models"
)

// BookingRepository provides data access for bookings. It implements the
// store contract consumed by the booking and calendar packages.
type BookingRepository struct {
	BaseRepository
}

// NewBookingRepository creates a new booking repository.
func NewBookingRepository(db *DB) *BookingRepository {
	return &BookingRepository{
		BaseRepository: NewBaseRepository(db),
	}
}

const bookingColumns = `
	id, property_id, platform, external_id, start_date, end_date,
	guest_name, guest_email, guest_phone, status, notes, created_at, updated_at`

func scanBooking(row interface{ Scan(...any) error }) (*models.Booking, error) {
	b := &models.Booking{}
	err := row.Scan(
		&b.ID, &b.PropertyID, &b.Platform, &b.ExternalID, &b.Start, &b.End,
		&b.GuestName, &b.GuestEmail, &b.GuestPhone, &b.Status, &b.Notes,
		&b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return b, nil
}

// CreateBooking inserts a new booking, assigning its ID and timestamps.
func (r *BookingRepository) CreateBooking(ctx context.Context, b *models.Booking) error {
	b.ID = GenerateID()
	b.CreatedAt = r.Now()
	b.UpdatedAt = b.CreatedAt
	if b.Status == "" {
		b.Status = models.StatusConfirmed
	}
	if b.Platform == "" {
		b.Platform = models.PlatformManual
	}

	_, err := r.DB().ExecContext(ctx, `
		INSERT INTO bookings (
			id, property_id, platform, external_id, start_date, end_date,
			guest_name, guest_email, guest_phone, status, notes, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		b.ID, b.PropertyID, b.Platform, b.ExternalID, b.Start, b.End,
		b.GuestName, b.GuestEmail, b.GuestPhone, b.Status, b.Notes,
		b.CreatedAt, b.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("inserting booking: %w", err)
	}

	return nil
}

// UpdateBooking overwrites the mutable fields of an existing booking.
func (r *BookingRepository) UpdateBooking(ctx context.Context, b *models.Booking) error {
	b.UpdatedAt = r.Now()

	result, err := r.DB().ExecContext(ctx, `
		UPDATE bookings SET
			start_date = ?, end_date = ?, guest_name = ?, guest_email = ?,
			guest_phone = ?, status = ?, notes = ?, updated_at = ?
		WHERE id = ?
	`,
		b.Start, b.End, b.GuestName, b.GuestEmail, b.GuestPhone,
		b.Status, b.Notes, b.UpdatedAt, b.ID,
	)
	if err != nil {
		return fmt.Errorf("updating booking: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("booking not found: %s", b.ID)
	}

	return nil
}

// FindConfirmedBookings returns all confirmed bookings for a property,
// ordered by start date. excludeID, when non-empty, omits one booking
// (used when re-checking conflicts during an update).
func (r *BookingRepository) FindConfirmedBookings(ctx context.Context, propertyID, excludeID string) ([]models.Booking, error) {
	rows, err := r.DB().QueryContext(ctx, `
		SELECT`+bookingColumns+`
		FROM bookings
		WHERE property_id = ? AND status = ? AND (? = '' OR id != ?)
		ORDER BY start_date ASC
	`, propertyID, models.StatusConfirmed, excludeID, excludeID)
	if err != nil {
		return nil, fmt.Errorf("querying confirmed bookings: %w", err)
	}
	defer rows.Close()

	var bookings []models.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning booking: %w", err)
		}
		bookings = append(bookings, *b)
	}

	return bookings, rows.Err()
}

// FindBookingByExternalKey looks up a booking by its import reconciliation
// key. Returns nil when no booking matches.
func (r *BookingRepository) FindBookingByExternalKey(ctx context.Context, propertyID string, platform models.Platform, externalID string) (*models.Booking, error) {
	b, err := scanBooking(r.DB().QueryRowContext(ctx, `
		SELECT`+bookingColumns+`
		FROM bookings
		WHERE property_id = ? AND platform = ? AND external_id = ?
	`, propertyID, platform, externalID))

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying booking by external key: %w", err)
	}

	return b, nil
}

// GetPropertySecret returns the iCal export secret for a property, or an
// empty string when the property does not exist. Callers must treat the
// empty string as unknown, never as a matchable secret.
func (r *BookingRepository) GetPropertySecret(ctx context.Context, propertyID string) (string, error) {
	var secret string
	err := r.DB().QueryRowContext(ctx,
		"SELECT ical_secret FROM properties WHERE id = ?", propertyID,
	).Scan(&secret)

	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("querying property secret: %w", err)
	}

	return secret, nil
}

// GetByID retrieves a booking by its ID. Returns nil when not found.
func (r *BookingRepository) GetByID(ctx context.Context, id string) (*models.Booking, error) {
	b, err := scanBooking(r.DB().QueryRowContext(ctx, `
		SELECT`+bookingColumns+`
		FROM bookings WHERE id = ?
	`, id))

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying booking: %w", err)
	}

	return b, nil
}

// ListByProperty retrieves all bookings for a property, newest range first.
func (r *BookingRepository) ListByProperty(ctx context.Context, propertyID string) ([]models.Booking, error) {
	rows, err := r.DB().QueryContext(ctx, `
		SELECT`+bookingColumns+`
		FROM bookings
		WHERE property_id = ?
		ORDER BY start_date DESC
	`, propertyID)
	if err != nil {
		return nil, fmt.Errorf("querying bookings: %w", err)
	}
	defer rows.Close()

	var bookings []models.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning booking: %w", err)
		}
		bookings = append(bookings, *b)
	}

	return bookings, rows.Err()
}

// ListByOwner retrieves all bookings across the properties of one owner.
func (r *BookingRepository) ListByOwner(ctx context.Context, ownerID string) ([]models.Booking, error) {
	rows, err := r.DB().QueryContext(ctx, `
		SELECT b.id, b.property_id, b.platform, b.external_id, b.start_date, b.end_date,
		       b.guest_name, b.guest_email, b.guest_phone, b.status, b.notes,
		       b.created_at, b.updated_at
		FROM bookings b
		JOIN properties p ON b.property_id = p.id
		WHERE p.owner_id = ?
		ORDER BY b.start_date DESC
	`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("querying owner bookings: %w", err)
	}
	defer rows.Close()

	var bookings []models.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning booking: %w", err)
		}
		bookings = append(bookings, *b)
	}

	return bookings, rows.Err()
}

// Delete removes a booking by ID.
func (r *BookingRepository) Delete(ctx context.Context, id string) error {
	result, err := r.DB().ExecContext(ctx, "DELETE FROM bookings WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting booking: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("booking not found: %s", id)
	}

	return nil
}
