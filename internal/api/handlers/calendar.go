package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/propstream/backend/internal/api/middleware"
	"github.com/propstream/backend/internal/booking"
	"github.com/propstream/backend/internal/calendar"
	"github.com/propstream/backend/internal/storage"
	"github.com/propstream/backend/internal/storage/models"
)

// ExportCalendar serves the public secret-keyed .ics feed for a property:
// GET /api/calendar/{propertyId}.ics?key=SECRET. Wrong key and unknown
// property both get the same bare 403.
func ExportCalendar(guard *calendar.FeedGuard, store booking.Store, properties *storage.PropertyRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		propertyID := mux.Vars(r)["propertyId"]
		key := r.URL.Query().Get("key")
		ctx := r.Context()

		if err := guard.AuthorizeExport(ctx, propertyID, key); err != nil {
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}

		p, err := properties.GetByID(ctx, propertyID)
		if err != nil || p == nil {
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}

		bookings, err := store.FindConfirmedBookings(ctx, propertyID, "")
		if err != nil {
			http.Error(w, "Internal error", http.StatusInternalServerError)
			return
		}

		doc := calendar.Encode(p.Name+" – Propstream", bookings)

		w.Header().Set("Content-Type", "text/calendar")
		w.Write([]byte(doc))
	}
}

type ImportRequest struct {
	PropertyID string `json:"property_id"`
	URL        string `json:"url"`
	Platform   string `json:"platform"`
}

type ImportResponse struct {
	OK       bool `json:"ok"`
	Imported int  `json:"imported"`
	Skipped  int  `json:"skipped,omitempty"`
}

// ImportCalendar fetches a platform's .ics feed and reconciles it onto
// the property's bookings.
func ImportCalendar(importer *calendar.Importer, properties *storage.PropertyRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, _ := middleware.IdentityFrom(r.Context())
		ctx := r.Context()

		var req ImportRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrBadRequest, "Invalid request body")
			return
		}
		if req.PropertyID == "" || req.URL == "" {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrValidation, "property_id and url are required")
			return
		}

		platform := models.PlatformOther
		if req.Platform != "" {
			parsed, err := models.ParsePlatform(req.Platform)
			if err != nil {
				middleware.WriteError(w, http.StatusBadRequest, middleware.ErrValidation, "Unknown platform")
				return
			}
			platform = parsed
		}

		p, err := properties.GetByID(ctx, req.PropertyID)
		if err != nil || p == nil || p.OwnerID != identity.UserID {
			middleware.WriteError(w, http.StatusNotFound, middleware.ErrNotFound, "Property not found")
			return
		}

		result, err := importer.ImportFromURL(ctx, req.PropertyID, platform, req.URL)
		if err != nil {
			switch {
			case errors.Is(err, calendar.ErrMalformedFeed):
				middleware.WriteError(w, http.StatusUnprocessableEntity, "malformed_feed",
					"The feed at "+req.URL+" is not valid iCalendar")
			case errors.Is(err, calendar.ErrFetchFailed):
				middleware.WriteError(w, http.StatusBadGateway, "fetch_failed",
					"Could not fetch the feed from "+req.URL)
			default:
				middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Import failed")
			}
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(ImportResponse{OK: true, Imported: result.Imported, Skipped: result.Skipped})
	}
}

type PlatformLinkRequest struct {
	Platform  string `json:"platform"`
	ImportURL string `json:"import_url"`
}

// ListPlatformLinks returns a property's stored platform feed links.
func ListPlatformLinks(links *storage.PlatformLinkRepository, properties *storage.PropertyRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := ownedProperty(w, r, properties)
		if !ok {
			return
		}

		list, err := links.ListByProperty(r.Context(), p.ID)
		if err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to query platform links")
			return
		}
		if list == nil {
			list = []models.PlatformLink{}
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(list)
	}
}

// CreatePlatformLink stores a platform feed URL for scheduled syncing.
func CreatePlatformLink(links *storage.PlatformLinkRepository, properties *storage.PropertyRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := ownedProperty(w, r, properties)
		if !ok {
			return
		}

		var req PlatformLinkRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrBadRequest, "Invalid request body")
			return
		}

		platform, err := models.ParsePlatform(req.Platform)
		if err != nil || req.ImportURL == "" {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrValidation, "A known platform and import_url are required")
			return
		}

		link := &models.PlatformLink{
			PropertyID: p.ID,
			Platform:   platform,
			ImportURL:  req.ImportURL,
		}
		if err := links.Create(r.Context(), link); err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to create platform link")
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(link)
	}
}

// SyncPlatformLink triggers an immediate sync of one stored link.
func SyncPlatformLink(syncService *calendar.SyncService, links *storage.PlatformLinkRepository, properties *storage.PropertyRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, _ := middleware.IdentityFrom(r.Context())
		ctx := r.Context()

		linkID := mux.Vars(r)["linkId"]
		link, err := links.GetByID(ctx, linkID)
		if err != nil || link == nil {
			middleware.WriteError(w, http.StatusNotFound, middleware.ErrNotFound, "Platform link not found")
			return
		}

		p, err := properties.GetByID(ctx, link.PropertyID)
		if err != nil || p == nil || p.OwnerID != identity.UserID {
			middleware.WriteError(w, http.StatusNotFound, middleware.ErrNotFound, "Platform link not found")
			return
		}

		result, err := syncService.SyncLink(ctx, linkID)
		if err != nil {
			switch {
			case errors.Is(err, calendar.ErrMalformedFeed):
				middleware.WriteError(w, http.StatusUnprocessableEntity, "malformed_feed", "The platform feed is not valid iCalendar")
			case errors.Is(err, calendar.ErrFetchFailed):
				middleware.WriteError(w, http.StatusBadGateway, "fetch_failed", "Could not fetch the platform feed")
			default:
				middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Sync failed")
			}
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(ImportResponse{OK: true, Imported: result.Imported, Skipped: result.Skipped})
	}
}

// DeletePlatformLink removes a stored platform feed link.
func DeletePlatformLink(links *storage.PlatformLinkRepository, properties *storage.PropertyRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, _ := middleware.IdentityFrom(r.Context())
		ctx := r.Context()

		linkID := mux.Vars(r)["linkId"]
		link, err := links.GetByID(ctx, linkID)
		if err != nil || link == nil {
			middleware.WriteError(w, http.StatusNotFound, middleware.ErrNotFound, "Platform link not found")
			return
		}

		p, err := properties.GetByID(ctx, link.PropertyID)
		if err != nil || p == nil || p.OwnerID != identity.UserID {
			middleware.WriteError(w, http.StatusNotFound, middleware.ErrNotFound, "Platform link not found")
			return
		}

		if err := links.Delete(ctx, linkID); err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to delete platform link")
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}
