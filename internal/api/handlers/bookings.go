package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/propstream/backend/internal/api/middleware"
	"github.com/propstream/backend/internal/booking"
	"github.com/propstream/backend/internal/storage"
	"github.com/propstream/backend/internal/storage/models"
	"github.com/propstream/backend/internal/websocket"
)

type BookingRequest struct {
	PropertyID string  `json:"property_id"`
	Start      string  `json:"start"`
	End        string  `json:"end"`
	GuestName  *string `json:"guest_name,omitempty"`
	GuestEmail *string `json:"guest_email,omitempty"`
	GuestPhone *string `json:"guest_phone,omitempty"`
	Notes      string  `json:"notes,omitempty"`
}

// ConflictResponse is the 409 body identifying the colliding booking.
type ConflictResponse struct {
	Error    string          `json:"error"`
	Message  string          `json:"message"`
	Conflict ConflictSummary `json:"conflicting_booking"`
}

type ConflictSummary struct {
	ID        string    `json:"id"`
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
	GuestName string    `json:"guest_name,omitempty"`
}

// parseDateTime accepts RFC 3339 or a bare date.
func parseDateTime(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}

// ListBookings returns the owner's bookings, optionally filtered by property.
func ListBookings(bookings *storage.BookingRepository, properties *storage.PropertyRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, _ := middleware.IdentityFrom(r.Context())
		ctx := r.Context()

		var (
			list []models.Booking
			err  error
		)
		if propertyID := r.URL.Query().Get("property_id"); propertyID != "" {
			p, perr := properties.GetByID(ctx, propertyID)
			if perr != nil || p == nil || p.OwnerID != identity.UserID {
				middleware.WriteError(w, http.StatusNotFound, middleware.ErrNotFound, "Property not found")
				return
			}
			list, err = bookings.ListByProperty(ctx, propertyID)
		} else {
			list, err = bookings.ListByOwner(ctx, identity.UserID)
		}
		if err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to query bookings")
			return
		}
		if list == nil {
			list = []models.Booking{}
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(list)
	}
}

// CreateBooking creates a manual booking block, rejecting ranges that
// collide with an existing confirmed booking.
func CreateBooking(svc *booking.Service, properties *storage.PropertyRepository, hub *websocket.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, _ := middleware.IdentityFrom(r.Context())
		ctx := r.Context()

		var req BookingRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrBadRequest, "Invalid request body")
			return
		}
		if req.PropertyID == "" || req.Start == "" || req.End == "" {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrValidation, "property_id, start, and end are required")
			return
		}

		start, errS := parseDateTime(req.Start)
		end, errE := parseDateTime(req.End)
		if errS != nil || errE != nil {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrValidation, "Dates must be RFC 3339 or YYYY-MM-DD")
			return
		}

		p, err := properties.GetByID(ctx, req.PropertyID)
		if err != nil || p == nil || p.OwnerID != identity.UserID {
			middleware.WriteError(w, http.StatusNotFound, middleware.ErrNotFound, "Property not found")
			return
		}

		b, err := svc.Create(ctx, booking.CreateRequest{
			PropertyID: req.PropertyID,
			Start:      start,
			End:        end,
			GuestName:  req.GuestName,
			GuestEmail: req.GuestEmail,
			GuestPhone: req.GuestPhone,
			Notes:      req.Notes,
		})
		if err != nil {
			writeBookingError(w, err)
			return
		}

		if hub != nil {
			websocket.NewEventBroadcaster(hub).BroadcastBookingCreated(*b)
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(b)
	}
}

// UpdateBooking reschedules a booking and/or updates its guest fields.
func UpdateBooking(svc *booking.Service, bookings *storage.BookingRepository, properties *storage.PropertyRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		b, ok := ownedBooking(w, r, bookings, properties)
		if !ok {
			return
		}
		ctx := r.Context()

		var req BookingRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrBadRequest, "Invalid request body")
			return
		}

		if req.GuestName != nil {
			b.GuestName = req.GuestName
		}
		if req.GuestEmail != nil {
			b.GuestEmail = req.GuestEmail
		}
		if req.GuestPhone != nil {
			b.GuestPhone = req.GuestPhone
		}
		if req.Notes != "" {
			b.Notes = req.Notes
		}

		start, end := b.Start, b.End
		if req.Start != "" || req.End != "" {
			var errS, errE error
			if req.Start != "" {
				start, errS = parseDateTime(req.Start)
			}
			if req.End != "" {
				end, errE = parseDateTime(req.End)
			}
			if errS != nil || errE != nil {
				middleware.WriteError(w, http.StatusBadRequest, middleware.ErrValidation, "Dates must be RFC 3339 or YYYY-MM-DD")
				return
			}
		}

		if err := svc.Reschedule(ctx, b, start, end); err != nil {
			writeBookingError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(b)
	}
}

// CancelBooking marks a booking cancelled, releasing its date range.
func CancelBooking(svc *booking.Service, bookings *storage.BookingRepository, properties *storage.PropertyRepository, hub *websocket.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		b, ok := ownedBooking(w, r, bookings, properties)
		if !ok {
			return
		}

		if err := svc.Cancel(r.Context(), b); err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to cancel booking")
			return
		}

		if hub != nil {
			websocket.NewEventBroadcaster(hub).BroadcastBookingCancelled(*b)
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(b)
	}
}

// DeleteBooking removes a booking outright.
func DeleteBooking(bookings *storage.BookingRepository, properties *storage.PropertyRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		b, ok := ownedBooking(w, r, bookings, properties)
		if !ok {
			return
		}

		if err := bookings.Delete(r.Context(), b.ID); err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to delete booking")
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

// writeBookingError maps booking service errors onto HTTP responses.
func writeBookingError(w http.ResponseWriter, err error) {
	var conflict *booking.ConflictError
	switch {
	case errors.Is(err, booking.ErrInvalidRange):
		middleware.WriteError(w, http.StatusBadRequest, middleware.ErrValidation, "End date must be after start date")
	case errors.As(err, &conflict):
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)
		json.NewEncoder(w).Encode(ConflictResponse{
			Error:   middleware.ErrConflict,
			Message: "Booking conflict detected",
			Conflict: ConflictSummary{
				ID:        conflict.BookingID,
				Start:     conflict.Start,
				End:       conflict.End,
				GuestName: conflict.GuestName,
			},
		})
	default:
		middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to save booking")
	}
}

// ownedBooking loads the booking from the route and verifies the
// authenticated user owns its property.
func ownedBooking(w http.ResponseWriter, r *http.Request, bookings *storage.BookingRepository, properties *storage.PropertyRepository) (*models.Booking, bool) {
	identity, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		middleware.WriteError(w, http.StatusUnauthorized, middleware.ErrUnauthorized, "Authentication required")
		return nil, false
	}

	id := mux.Vars(r)["id"]
	b, err := bookings.GetByID(r.Context(), id)
	if err != nil {
		middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to query booking")
		return nil, false
	}
	if b == nil {
		middleware.WriteError(w, http.StatusNotFound, middleware.ErrNotFound, "Booking not found")
		return nil, false
	}

	p, err := properties.GetByID(r.Context(), b.PropertyID)
	if err != nil || p == nil || p.OwnerID != identity.UserID {
		middleware.WriteError(w, http.StatusNotFound, middleware.ErrNotFound, "Booking not found")
		return nil, false
	}

	return b, true
}
