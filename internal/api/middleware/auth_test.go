package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/propstream/backend/internal/auth"
	"github.com/propstream/backend/internal/storage/models"
)

func bearerToken(t *testing.T, tm *auth.TokenManager, role models.Role) string {
	t.Helper()
	token, err := tm.Issue(&models.User{ID: "u1", Email: "u1@example.com", Role: role})
	require.NoError(t, err)
	return "Bearer " + token
}

func okHandler(called *bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		*called = true
		w.WriteHeader(http.StatusOK)
	}
}

func TestAuth_ValidToken(t *testing.T) {
	tm := auth.NewTokenManager("test-secret", time.Hour)

	var gotIdentity *auth.Identity
	handler := Auth(tm)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, ok := IdentityFrom(r.Context())
		require.True(t, ok)
		gotIdentity = identity
	}))

	req := httptest.NewRequest("GET", "/api/properties", nil)
	req.Header.Set("Authorization", bearerToken(t, tm, models.RoleRealtor))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, gotIdentity)
	assert.Equal(t, "u1", gotIdentity.UserID)
	assert.Equal(t, models.RoleRealtor, gotIdentity.Role)
}

func TestAuth_MissingOrBadToken(t *testing.T) {
	tm := auth.NewTokenManager("test-secret", time.Hour)

	handler := Auth(tm)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run without a valid token")
	}))

	for name, header := range map[string]string{
		"no header":    "",
		"wrong scheme": "Basic abc",
		"garbage":      "Bearer not.a.token",
	} {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/api/properties", nil)
			if header != "" {
				req.Header.Set("Authorization", header)
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
}

func TestRequireRealtor_AllowsRealtor(t *testing.T) {
	tm := auth.NewTokenManager("test-secret", time.Hour)

	var called bool
	handler := Auth(tm)(RequireRealtor(okHandler(&called)))

	req := httptest.NewRequest("DELETE", "/api/properties/p1", nil)
	req.Header.Set("Authorization", bearerToken(t, tm, models.RoleRealtor))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, called)
}

func TestRequireRealtor_RejectsClient(t *testing.T) {
	tm := auth.NewTokenManager("test-secret", time.Hour)

	var called bool
	handler := Auth(tm)(RequireRealtor(okHandler(&called)))

	req := httptest.NewRequest("DELETE", "/api/properties/p1", nil)
	req.Header.Set("Authorization", bearerToken(t, tm, models.RoleClient))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.False(t, called)
}

func TestRequireRealtor_Unauthenticated(t *testing.T) {
	var called bool
	handler := RequireRealtor(okHandler(&called))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("DELETE", "/api/properties/p1", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, called)
}
