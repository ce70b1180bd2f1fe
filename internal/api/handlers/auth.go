package handlers

import (
	"encoding/json"
	"net/http"
	"regexp"

	"github.com/propstream/backend/internal/api/middleware"
	"github.com/propstream/backend/internal/auth"
	"github.com/propstream/backend/internal/storage"
	"github.com/propstream/backend/internal/storage/models"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// Register creates a new user account and returns a signed token.
func Register(users *storage.UserRepository, tokens *auth.TokenManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req RegisterRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrBadRequest, "Invalid request body")
			return
		}

		if req.Name == "" || !emailPattern.MatchString(req.Email) || len(req.Password) < 8 {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrValidation,
				"Name, a valid email, and a password of at least 8 characters are required")
			return
		}

		role := models.RoleClient
		if req.Role != "" {
			parsed, err := models.ParseRole(req.Role)
			if err != nil {
				middleware.WriteError(w, http.StatusBadRequest, middleware.ErrValidation, "Role must be client or realtor")
				return
			}
			role = parsed
		}

		ctx := r.Context()
		existing, err := users.GetByEmail(ctx, req.Email)
		if err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to check existing account")
			return
		}
		if existing != nil {
			middleware.WriteError(w, http.StatusConflict, middleware.ErrConflict, "An account with that email already exists")
			return
		}

		hash, err := auth.HashPassword(req.Password)
		if err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to create account")
			return
		}

		user := &models.User{
			Name:         req.Name,
			Email:        req.Email,
			PasswordHash: hash,
			Role:         role,
		}
		if err := users.Create(ctx, user); err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to create account")
			return
		}

		token, err := tokens.Issue(user)
		if err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to issue token")
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(AuthResponse{Token: token, User: user})
	}
}

// Login verifies credentials and returns a signed token.
func Login(users *storage.UserRepository, tokens *auth.TokenManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req LoginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrBadRequest, "Invalid request body")
			return
		}

		user, err := users.GetByEmail(r.Context(), req.Email)
		if err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Login failed")
			return
		}
		// Same response for unknown email and wrong password.
		if user == nil || !auth.CheckPassword(req.Password, user.PasswordHash) {
			middleware.WriteError(w, http.StatusUnauthorized, middleware.ErrUnauthorized, "Invalid email or password")
			return
		}

		token, err := tokens.Issue(user)
		if err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to issue token")
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(AuthResponse{Token: token, User: user})
	}
}

// Me returns the authenticated user's account.
func Me(users *storage.UserRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, ok := middleware.IdentityFrom(r.Context())
		if !ok {
			middleware.WriteError(w, http.StatusUnauthorized, middleware.ErrUnauthorized, "Authentication required")
			return
		}

		user, err := users.GetByID(r.Context(), identity.UserID)
		if err != nil || user == nil {
			middleware.WriteError(w, http.StatusNotFound, middleware.ErrNotFound, "Account not found")
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(user)
	}
}
