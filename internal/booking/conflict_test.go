package booking

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/propstream/backend/internal/storage/models"
)

func seedBooking(t *testing.T, store *memStore, id, propertyID string, start, end int, status models.BookingStatus) {
	t.Helper()
	guest := "Alice"
	err := store.CreateBooking(context.Background(), &models.Booking{
		ID:         id,
		PropertyID: propertyID,
		Platform:   models.PlatformManual,
		Start:      day(start),
		End:        day(end),
		GuestName:  &guest,
		Status:     status,
	})
	require.NoError(t, err)
}

func TestCheckConflict_OverlapRejected(t *testing.T) {
	store := newMemStore()
	seedBooking(t, store, "b1", "p1", 1, 7, models.StatusConfirmed)

	checker := NewConflictChecker(store)

	conflict, err := checker.CheckConflict(context.Background(), "p1", day(3), day(10), "")
	require.NoError(t, err)
	require.NotNil(t, conflict)
	assert.Equal(t, "b1", conflict.BookingID)
	assert.Equal(t, day(1), conflict.Start)
	assert.Equal(t, day(7), conflict.End)
	assert.Equal(t, "Alice", conflict.GuestName)
}

func TestCheckConflict_BackToBackAllowed(t *testing.T) {
	store := newMemStore()
	seedBooking(t, store, "b1", "p1", 1, 7, models.StatusConfirmed)

	checker := NewConflictChecker(store)

	conflict, err := checker.CheckConflict(context.Background(), "p1", day(7), day(10), "")
	require.NoError(t, err)
	assert.Nil(t, conflict)
}

func TestCheckConflict_IgnoresCancelledAndPending(t *testing.T) {
	store := newMemStore()
	seedBooking(t, store, "b1", "p1", 1, 7, models.StatusCancelled)
	seedBooking(t, store, "b2", "p1", 5, 12, models.StatusPending)

	checker := NewConflictChecker(store)

	conflict, err := checker.CheckConflict(context.Background(), "p1", day(2), day(9), "")
	require.NoError(t, err)
	assert.Nil(t, conflict)
}

func TestCheckConflict_OtherPropertyDoesNotBlock(t *testing.T) {
	store := newMemStore()
	seedBooking(t, store, "b1", "p2", 1, 7, models.StatusConfirmed)

	checker := NewConflictChecker(store)

	conflict, err := checker.CheckConflict(context.Background(), "p1", day(1), day(7), "")
	require.NoError(t, err)
	assert.Nil(t, conflict)
}

func TestCheckConflict_ExcludeSelfOnReschedule(t *testing.T) {
	store := newMemStore()
	seedBooking(t, store, "b1", "p1", 1, 7, models.StatusConfirmed)

	checker := NewConflictChecker(store)

	// Moving b1 within its own range must not collide with itself.
	conflict, err := checker.CheckConflict(context.Background(), "p1", day(2), day(8), "b1")
	require.NoError(t, err)
	assert.Nil(t, conflict)
}

func TestCheckConflict_InvalidRange(t *testing.T) {
	store := newMemStore()
	checker := NewConflictChecker(store)

	_, err := checker.CheckConflict(context.Background(), "p1", day(7), day(1), "")
	assert.ErrorIs(t, err, ErrInvalidRange)
}
