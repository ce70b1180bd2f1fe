package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/propstream/backend/internal/api/middleware"
	"github.com/propstream/backend/internal/storage"
	"github.com/propstream/backend/internal/storage/models"
)

type PropertyRequest struct {
	Name        string `json:"name"`
	Address     string `json:"address"`
	Description string `json:"description"`
}

// ListProperties returns the authenticated owner's properties.
func ListProperties(properties *storage.PropertyRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, _ := middleware.IdentityFrom(r.Context())

		list, err := properties.ListByOwner(r.Context(), identity.UserID)
		if err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to query properties")
			return
		}
		if list == nil {
			list = []models.Property{}
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(list)
	}
}

// CreateProperty adds a new property for the authenticated owner.
func CreateProperty(properties *storage.PropertyRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, _ := middleware.IdentityFrom(r.Context())

		var req PropertyRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrBadRequest, "Invalid request body")
			return
		}
		if req.Name == "" {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrValidation, "Name is required")
			return
		}

		p := &models.Property{
			OwnerID:     identity.UserID,
			Name:        req.Name,
			Address:     req.Address,
			Description: req.Description,
		}
		if err := properties.Create(r.Context(), p); err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to create property")
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(p)
	}
}

// GetProperty returns one of the owner's properties.
func GetProperty(properties *storage.PropertyRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := ownedProperty(w, r, properties)
		if !ok {
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(p)
	}
}

// UpdateProperty updates a property's descriptive fields.
func UpdateProperty(properties *storage.PropertyRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := ownedProperty(w, r, properties)
		if !ok {
			return
		}

		var req PropertyRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrBadRequest, "Invalid request body")
			return
		}

		if req.Name != "" {
			p.Name = req.Name
		}
		p.Address = req.Address
		p.Description = req.Description

		if err := properties.Update(r.Context(), p); err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to update property")
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(p)
	}
}

// DeleteProperty removes a property and its bookings.
func DeleteProperty(properties *storage.PropertyRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := ownedProperty(w, r, properties)
		if !ok {
			return
		}

		if err := properties.Delete(r.Context(), p.ID); err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to delete property")
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

// ExportURL returns the property's secret-keyed public feed URL, for
// pasting into a platform's "import calendar" box.
func ExportURL(properties *storage.PropertyRepository, apiBaseURL string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := ownedProperty(w, r, properties)
		if !ok {
			return
		}

		url := fmt.Sprintf("%s/api/calendar/%s.ics?key=%s", apiBaseURL, p.ID, p.ICalSecret)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"url": url})
	}
}

// ownedProperty loads the property from the route and verifies the
// authenticated user owns it. Writes the error response itself when not.
func ownedProperty(w http.ResponseWriter, r *http.Request, properties *storage.PropertyRepository) (*models.Property, bool) {
	identity, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		middleware.WriteError(w, http.StatusUnauthorized, middleware.ErrUnauthorized, "Authentication required")
		return nil, false
	}

	id := mux.Vars(r)["id"]
	p, err := properties.GetByID(r.Context(), id)
	if err != nil {
		middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to query property")
		return nil, false
	}
	if p == nil || p.OwnerID != identity.UserID {
		middleware.WriteError(w, http.StatusNotFound, middleware.ErrNotFound, "Property not found")
		return nil, false
	}

	return p, true
}
