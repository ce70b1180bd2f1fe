package calendar

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/propstream/backend/internal/booking"
)

func TestFeedGuard_CorrectKey(t *testing.T) {
	store := newFakeStore()
	store.secrets["p1"] = "s3cret-key"

	guard := NewFeedGuard(store)

	err := guard.AuthorizeExport(context.Background(), "p1", "s3cret-key")
	assert.NoError(t, err)
}

func TestFeedGuard_DenialsAreIndistinguishable(t *testing.T) {
	store := newFakeStore()
	store.secrets["p1"] = "s3cret-key"

	guard := NewFeedGuard(store)
	ctx := context.Background()

	wrongKey := guard.AuthorizeExport(ctx, "p1", "wrong-key")
	unknownProperty := guard.AuthorizeExport(ctx, "nope", "s3cret-key")
	emptyKey := guard.AuthorizeExport(ctx, "p1", "")

	// All three denials must be the same error value so responses cannot
	// reveal whether a property exists.
	require.ErrorIs(t, wrongKey, booking.ErrForbidden)
	require.ErrorIs(t, unknownProperty, booking.ErrForbidden)
	require.ErrorIs(t, emptyKey, booking.ErrForbidden)
	assert.Equal(t, wrongKey.Error(), unknownProperty.Error())
}

func TestFeedGuard_PrefixKeyRejected(t *testing.T) {
	store := newFakeStore()
	store.secrets["p1"] = "s3cret-key"

	guard := NewFeedGuard(store)

	err := guard.AuthorizeExport(context.Background(), "p1", "s3cret")
	assert.ErrorIs(t, err, booking.ErrForbidden)
}
