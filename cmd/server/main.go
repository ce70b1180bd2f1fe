// Package main is the entry point for the Propstream API server.
package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/propstream/backend/internal/api"
	"github.com/propstream/backend/internal/auth"
	"github.com/propstream/backend/internal/billing"
	"github.com/propstream/backend/internal/booking"
	"github.com/propstream/backend/internal/calendar"
	"github.com/propstream/backend/internal/config"
	"github.com/propstream/backend/internal/storage"
	"github.com/propstream/backend/internal/websocket"
)

// version is set at build time via -ldflags "-X main.version=x.y.z".
var version = "dev"

func main() {
	healthCheck := flag.Bool("health-check", false, "Run health check and exit")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	// Health check mode for Docker HEALTHCHECK
	if *healthCheck {
		if err := runHealthCheck(cfg.Addr); err != nil {
			log.Fatalf("Health check failed: %v", err)
		}
		os.Exit(0)
	}

	log.Printf("Starting Propstream API server (version: %s)...", version)

	db, err := storage.NewDB(cfg.DataDir + "/propstream.db")
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	if err := storage.RunMigrations(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations complete")

	hub := websocket.NewHub()
	go hub.Run()

	users := storage.NewUserRepository(db)
	templates := storage.NewMessageTemplateRepository(db)
	properties := storage.NewPropertyRepository(db)
	bookings := storage.NewBookingRepository(db)
	links := storage.NewPlatformLinkRepository(db)
	newsletter := storage.NewNewsletterRepository(db)
	subscriptions := storage.NewSubscriptionRepository(db)

	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL)
	bookingSvc := booking.NewService(bookings)
	guard := calendar.NewFeedGuard(bookings)
	importer := calendar.NewImporter(bookings)
	syncService := calendar.NewSyncService(links, importer, hub)
	signer := billing.NewSigner(cfg.PayfastPassphrase)

	scheduler := calendar.NewScheduler(syncService, cfg.SyncMinutes)
	if err := scheduler.Start(); err != nil {
		log.Printf("Warning: failed to start feed sync scheduler: %v", err)
	}

	router := api.NewRouter(api.Deps{
		DB:            db,
		Hub:           hub,
		APIBaseURL:    cfg.APIBaseURL,
		Users:         users,
		Templates:     templates,
		Properties:    properties,
		Bookings:      bookings,
		Links:         links,
		Newsletter:    newsletter,
		Subscriptions: subscriptions,
		Tokens:        tokens,
		BookingSvc:    bookingSvc,
		Guard:         guard,
		Importer:      importer,
		SyncService:   syncService,
		Signer:        signer,
	})

	server := &http.Server{
		Addr:         cfg.Addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server listening on %s", cfg.Addr)
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	scheduler.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server shutdown error: %v", err)
	}

	log.Println("Server stopped")
}

// runHealthCheck performs a health check against the running server.
func runHealthCheck(addr string) error {
	url := "http://localhost" + addr + "/api/health"
	resp, err := http.Get(url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return http.ErrAbortHandler
	}
	return nil
}
