package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/propstream/backend/internal/api/middleware"
	"github.com/propstream/backend/internal/storage"
	"github.com/propstream/backend/internal/storage/models"
)

type MessageTemplateRequest struct {
	Name      string   `json:"name"`
	Subject   string   `json:"subject"`
	Body      string   `json:"body"`
	Variables []string `json:"variables"`
}

// ListMessageTemplates returns the authenticated user's message templates.
func ListMessageTemplates(templates *storage.MessageTemplateRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, _ := middleware.IdentityFrom(r.Context())

		list, err := templates.ListByOwner(r.Context(), identity.UserID)
		if err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to query message templates")
			return
		}
		if list == nil {
			list = []models.MessageTemplate{}
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(list)
	}
}

// CreateMessageTemplate adds a new guest-message template.
func CreateMessageTemplate(templates *storage.MessageTemplateRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, _ := middleware.IdentityFrom(r.Context())

		var req MessageTemplateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrBadRequest, "Invalid request body")
			return
		}
		if req.Name == "" {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrValidation, "Name is required")
			return
		}

		t := &models.MessageTemplate{
			OwnerID:   identity.UserID,
			Name:      req.Name,
			Subject:   req.Subject,
			Body:      req.Body,
			Variables: req.Variables,
		}
		if err := templates.Create(r.Context(), t); err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to create message template")
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(t)
	}
}

// UpdateMessageTemplate updates one of the user's templates.
func UpdateMessageTemplate(templates *storage.MessageTemplateRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, _ := middleware.IdentityFrom(r.Context())
		ctx := r.Context()

		t, err := templates.GetByID(ctx, identity.UserID, mux.Vars(r)["id"])
		if err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to query message template")
			return
		}
		if t == nil {
			middleware.WriteError(w, http.StatusNotFound, middleware.ErrNotFound, "Message template not found")
			return
		}

		var req MessageTemplateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrBadRequest, "Invalid request body")
			return
		}

		if req.Name != "" {
			t.Name = req.Name
		}
		t.Subject = req.Subject
		t.Body = req.Body
		if req.Variables != nil {
			t.Variables = req.Variables
		}

		if err := templates.Update(ctx, t); err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to update message template")
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(t)
	}
}

// DeleteMessageTemplate removes one of the user's templates.
func DeleteMessageTemplate(templates *storage.MessageTemplateRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, _ := middleware.IdentityFrom(r.Context())

		t, err := templates.GetByID(r.Context(), identity.UserID, mux.Vars(r)["id"])
		if err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to query message template")
			return
		}
		if t == nil {
			middleware.WriteError(w, http.StatusNotFound, middleware.ErrNotFound, "Message template not found")
			return
		}

		if err := templates.Delete(r.Context(), identity.UserID, t.ID); err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to delete message template")
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}
