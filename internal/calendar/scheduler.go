package calendar

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// Scheduler periodically re-imports all stored platform feeds so bookings
// made on external platforms show up without a manual sync.
type Scheduler struct {
	cron        *cron.Cron
	syncService *SyncService
	interval    time.Duration
}

// NewScheduler creates a new feed sync scheduler.
func NewScheduler(syncService *SyncService, intervalMin int) *Scheduler {
	if intervalMin <= 0 {
		intervalMin = 15
	}

	return &Scheduler{
		cron:        cron.New(),
		syncService: syncService,
		interval:    time.Duration(intervalMin) * time.Minute,
	}
}

// Start begins periodic syncing.
func (s *Scheduler) Start() error {
	spec := fmt.Sprintf("@every %s", s.interval)
	if _, err := s.cron.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		s.syncService.SyncAll(ctx)
	}); err != nil {
		return fmt.Errorf("scheduling feed sync: %w", err)
	}

	s.cron.Start()
	log.Printf("Feed sync scheduler started (every %s)", s.interval)
	return nil
}

// Stop halts the scheduler, waiting for a running sync to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Println("Feed sync scheduler stopped")
}
