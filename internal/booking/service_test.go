package booking

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/propstream/backend/internal/storage/models"
)

func TestService_Create(t *testing.T) {
	store := newMemStore()
	svc := NewService(store)

	guest := "Bob"
	b, err := svc.Create(context.Background(), CreateRequest{
		PropertyID: "p1",
		Start:      day(1),
		End:        day(7),
		GuestName:  &guest,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, b.ID)
	assert.Equal(t, models.PlatformManual, b.Platform)
	assert.Equal(t, models.StatusConfirmed, b.Status)
}

func TestService_Create_InvalidRange(t *testing.T) {
	svc := NewService(newMemStore())

	_, err := svc.Create(context.Background(), CreateRequest{
		PropertyID: "p1",
		Start:      day(7),
		End:        day(1),
	})
	assert.ErrorIs(t, err, ErrInvalidRange)
}

func TestService_Create_Conflict(t *testing.T) {
	store := newMemStore()
	seedBooking(t, store, "b1", "p1", 1, 7, models.StatusConfirmed)

	svc := NewService(store)

	_, err := svc.Create(context.Background(), CreateRequest{
		PropertyID: "p1",
		Start:      day(3),
		End:        day(10),
	})

	var conflict *ConflictError
	require.True(t, errors.As(err, &conflict))
	assert.Equal(t, "b1", conflict.BookingID)
}

// Two concurrent requests for overlapping ranges on the same property:
// exactly one must win, regardless of interleaving.
func TestService_Create_ConcurrentOverlap(t *testing.T) {
	store := newMemStore()
	svc := NewService(store)

	const attempts = 20
	var wg sync.WaitGroup
	errs := make(chan error, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Create(context.Background(), CreateRequest{
				PropertyID: "p1",
				Start:      day(1),
				End:        day(7),
			})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	created, conflicts := 0, 0
	for err := range errs {
		if err == nil {
			created++
			continue
		}
		var conflict *ConflictError
		require.True(t, errors.As(err, &conflict), "unexpected error: %v", err)
		conflicts++
	}

	assert.Equal(t, 1, created)
	assert.Equal(t, attempts-1, conflicts)
}

func TestService_Reschedule_ConflictChecked(t *testing.T) {
	store := newMemStore()
	seedBooking(t, store, "b1", "p1", 1, 7, models.StatusConfirmed)
	seedBooking(t, store, "b2", "p1", 10, 14, models.StatusConfirmed)

	svc := NewService(store)

	b := store.bookings["b1"]

	// Sliding into b2's range is a conflict.
	err := svc.Reschedule(context.Background(), b, day(8), day(12))
	var conflict *ConflictError
	require.True(t, errors.As(err, &conflict))
	assert.Equal(t, "b2", conflict.BookingID)

	// Sliding into free space is fine.
	err = svc.Reschedule(context.Background(), b, day(7), day(10))
	require.NoError(t, err)
	assert.Equal(t, day(7), store.bookings["b1"].Start)
}

func TestService_Cancel_ReleasesRange(t *testing.T) {
	store := newMemStore()
	seedBooking(t, store, "b1", "p1", 1, 7, models.StatusConfirmed)

	svc := NewService(store)

	require.NoError(t, svc.Cancel(context.Background(), store.bookings["b1"]))

	// The range is free again.
	_, err := svc.Create(context.Background(), CreateRequest{
		PropertyID: "p1",
		Start:      day(1),
		End:        day(7),
	})
	assert.NoError(t, err)
}
