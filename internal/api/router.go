// Package api provides HTTP routing and handlers for the REST API.
package api

import (
	"github.com/gorilla/mux"

	"github.com/propstream/backend/internal/api/handlers"
	"github.com/propstream/backend/internal/api/middleware"
	"github.com/propstream/backend/internal/auth"
	"github.com/propstream/backend/internal/billing"
	"github.com/propstream/backend/internal/booking"
	"github.com/propstream/backend/internal/calendar"
	"github.com/propstream/backend/internal/storage"
	"github.com/propstream/backend/internal/websocket"
)

// Deps carries everything the router wires into handlers.
type Deps struct {
	DB         *storage.DB
	Hub        *websocket.Hub
	APIBaseURL string

	Users         *storage.UserRepository
	Templates     *storage.MessageTemplateRepository
	Properties    *storage.PropertyRepository
	Bookings      *storage.BookingRepository
	Links         *storage.PlatformLinkRepository
	Newsletter    *storage.NewsletterRepository
	Subscriptions *storage.SubscriptionRepository

	Tokens      *auth.TokenManager
	BookingSvc  *booking.Service
	Guard       *calendar.FeedGuard
	Importer    *calendar.Importer
	SyncService *calendar.SyncService
	Signer      *billing.Signer
}

// NewRouter creates and configures the HTTP router with all API routes.
func NewRouter(d Deps) *mux.Router {
	r := mux.NewRouter()

	r.Use(middleware.Logging)
	r.Use(middleware.ErrorRecovery)

	api := r.PathPrefix("/api").Subrouter()

	// Public endpoints
	api.HandleFunc("/health", handlers.HealthCheck(d.DB)).Methods("GET")
	api.HandleFunc("/auth/register", handlers.Register(d.Users, d.Tokens)).Methods("POST")
	api.HandleFunc("/auth/login", handlers.Login(d.Users, d.Tokens)).Methods("POST")
	api.HandleFunc("/newsletter", handlers.NewsletterSignup(d.Newsletter)).Methods("POST")
	api.HandleFunc("/billing/payfast/itn", handlers.PayfastITN(d.Signer, d.Subscriptions, d.Users)).Methods("POST")
	api.HandleFunc("/integrations/make", handlers.MakeWebhook()).Methods("POST")

	// Secret-keyed public calendar feed, for pasting into a platform's
	// "import calendar" box. Auth is the key in the query string.
	api.HandleFunc("/calendar/{propertyId}.ics", handlers.ExportCalendar(d.Guard, d.Bookings, d.Properties)).Methods("GET")

	// WebSocket endpoint
	api.HandleFunc("/ws", handlers.WebSocketUpgrade(d.Hub)).Methods("GET")

	// Authenticated endpoints
	authed := api.NewRoute().Subrouter()
	authed.Use(middleware.Auth(d.Tokens))

	authed.HandleFunc("/auth/me", handlers.Me(d.Users)).Methods("GET")
	authed.HandleFunc("/billing/me", handlers.MySubscription(d.Subscriptions)).Methods("GET")
	authed.HandleFunc("/newsletter/stats", handlers.NewsletterStats(d.Newsletter)).Methods("GET")

	// Updating or deleting a property is realtor-only.
	authed.HandleFunc("/properties", handlers.ListProperties(d.Properties)).Methods("GET")
	authed.HandleFunc("/properties", handlers.CreateProperty(d.Properties)).Methods("POST")
	authed.HandleFunc("/properties/{id}", handlers.GetProperty(d.Properties)).Methods("GET")
	authed.HandleFunc("/properties/{id}", middleware.RequireRealtor(handlers.UpdateProperty(d.Properties))).Methods("PUT")
	authed.HandleFunc("/properties/{id}", middleware.RequireRealtor(handlers.DeleteProperty(d.Properties))).Methods("DELETE")
	authed.HandleFunc("/properties/{id}/ics-export", handlers.ExportURL(d.Properties, d.APIBaseURL)).Methods("GET")
	authed.HandleFunc("/properties/{id}/platform-links", handlers.ListPlatformLinks(d.Links, d.Properties)).Methods("GET")
	authed.HandleFunc("/properties/{id}/platform-links", handlers.CreatePlatformLink(d.Links, d.Properties)).Methods("POST")

	authed.HandleFunc("/platform-links/{linkId}/sync", handlers.SyncPlatformLink(d.SyncService, d.Links, d.Properties)).Methods("POST")
	authed.HandleFunc("/platform-links/{linkId}", handlers.DeletePlatformLink(d.Links, d.Properties)).Methods("DELETE")

	authed.HandleFunc("/bookings", handlers.ListBookings(d.Bookings, d.Properties)).Methods("GET")
	authed.HandleFunc("/bookings", handlers.CreateBooking(d.BookingSvc, d.Properties, d.Hub)).Methods("POST")
	authed.HandleFunc("/bookings/{id}", handlers.UpdateBooking(d.BookingSvc, d.Bookings, d.Properties)).Methods("PUT")
	authed.HandleFunc("/bookings/{id}/cancel", handlers.CancelBooking(d.BookingSvc, d.Bookings, d.Properties, d.Hub)).Methods("POST")
	authed.HandleFunc("/bookings/{id}", handlers.DeleteBooking(d.Bookings, d.Properties)).Methods("DELETE")

	authed.HandleFunc("/calendar/import", handlers.ImportCalendar(d.Importer, d.Properties)).Methods("POST")

	authed.HandleFunc("/messages", handlers.ListMessageTemplates(d.Templates)).Methods("GET")
	authed.HandleFunc("/messages", handlers.CreateMessageTemplate(d.Templates)).Methods("POST")
	authed.HandleFunc("/messages/{id}", handlers.UpdateMessageTemplate(d.Templates)).Methods("PATCH")
	authed.HandleFunc("/messages/{id}", handlers.DeleteMessageTemplate(d.Templates)).Methods("DELETE")

	return r
}
