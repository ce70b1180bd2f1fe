package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/propstream/backend/internal/storage/models"
)

func testUser() *models.User {
	return &models.User{
		ID:    "u1",
		Email: "alice@example.com",
		Role:  models.RoleRealtor,
	}
}

func TestTokenManager_IssueVerify(t *testing.T) {
	tm := NewTokenManager("test-secret", time.Hour)

	token, err := tm.Issue(testUser())
	require.NoError(t, err)

	identity, err := tm.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "u1", identity.UserID)
	assert.Equal(t, "alice@example.com", identity.Email)
	assert.Equal(t, models.RoleRealtor, identity.Role)
}

func TestTokenManager_WrongSecretRejected(t *testing.T) {
	token, err := NewTokenManager("secret-a", time.Hour).Issue(testUser())
	require.NoError(t, err)

	_, err = NewTokenManager("secret-b", time.Hour).Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenManager_ExpiredRejected(t *testing.T) {
	// Bypass the constructor's TTL floor to mint an already-expired token.
	tm := &TokenManager{secret: []byte("test-secret"), ttl: -time.Minute}

	token, err := tm.Issue(testUser())
	require.NoError(t, err)

	_, err = tm.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenManager_GarbageRejected(t *testing.T) {
	tm := NewTokenManager("test-secret", time.Hour)

	_, err := tm.Verify("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse battery staple", hash)

	assert.True(t, CheckPassword("correct horse battery staple", hash))
	assert.False(t, CheckPassword("wrong password", hash))
}
