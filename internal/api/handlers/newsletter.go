package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/propstream/backend/internal/api/middleware"
	"github.com/propstream/backend/internal/storage"
)

type NewsletterRequest struct {
	Email  string `json:"email"`
	Source string `json:"source"`
}

type NewsletterResponse struct {
	OK      bool `json:"ok"`
	Created bool `json:"created"`
}

// NewsletterSignup records a landing-page newsletter signup. Repeated
// signups for the same address are accepted without creating duplicates.
func NewsletterSignup(newsletter *storage.NewsletterRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req NewsletterRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrBadRequest, "Invalid request body")
			return
		}
		if !emailPattern.MatchString(req.Email) {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrValidation, "A valid email is required")
			return
		}
		if req.Source == "" {
			req.Source = "landing"
		}

		created, err := newsletter.Subscribe(r.Context(), req.Email, req.Source)
		if err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to record signup")
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if created {
			w.WriteHeader(http.StatusCreated)
		}
		json.NewEncoder(w).Encode(NewsletterResponse{OK: true, Created: created})
	}
}

type NewsletterStatsResponse struct {
	Total  int `json:"total"`
	Last24 int `json:"last_24h"`
}

// NewsletterStats returns signup counts for the dashboard.
func NewsletterStats(newsletter *storage.NewsletterRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		total, last24, err := newsletter.Stats(r.Context())
		if err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to query signup stats")
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(NewsletterStatsResponse{Total: total, Last24: last24})
	}
}
