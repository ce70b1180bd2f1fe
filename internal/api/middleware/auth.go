package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/propstream/backend/internal/auth"
	"github.com/propstream/backend/internal/storage/models"
)

type contextKey string

const identityKey contextKey = "identity"

// Auth returns middleware that requires a valid Bearer token and attaches
// the verified identity to the request context.
func Auth(tokens *auth.TokenManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				WriteError(w, http.StatusUnauthorized, ErrUnauthorized, "Authentication required")
				return
			}

			identity, err := tokens.Verify(token)
			if err != nil {
				WriteError(w, http.StatusUnauthorized, ErrUnauthorized, "Invalid or expired token")
				return
			}

			ctx := context.WithValue(r.Context(), identityKey, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// IdentityFrom returns the authenticated identity from a request context.
// The second return is false for unauthenticated requests.
func IdentityFrom(ctx context.Context) (*auth.Identity, bool) {
	identity, ok := ctx.Value(identityKey).(*auth.Identity)
	return identity, ok
}

// RequireRealtor wraps a handler so only realtor accounts reach it.
// The role set is closed; anything but realtor is rejected.
func RequireRealtor(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, ok := IdentityFrom(r.Context())
		if !ok {
			WriteError(w, http.StatusUnauthorized, ErrUnauthorized, "Authentication required")
			return
		}

		switch identity.Role {
		case models.RoleRealtor:
			next(w, r)
		case models.RoleClient:
			WriteError(w, http.StatusForbidden, ErrForbidden, "Realtor account required")
		default:
			WriteError(w, http.StatusForbidden, ErrForbidden, "Realtor account required")
		}
	}
}
