package calendar

import (
	"context"
	"fmt"
	"log"

	"github.com/propstream/backend/internal/storage"
	"github.com/propstream/backend/internal/storage/models"
	"github.com/propstream/backend/internal/websocket"
)

// SyncService runs feed imports for stored platform links, tracking
// per-link sync status and broadcasting results to dashboard clients.
type SyncService struct {
	links       *storage.PlatformLinkRepository
	importer    *Importer
	broadcaster *websocket.EventBroadcaster
}

// NewSyncService creates a new platform link sync service.
func NewSyncService(links *storage.PlatformLinkRepository, importer *Importer, hub *websocket.Hub) *SyncService {
	var broadcaster *websocket.EventBroadcaster
	if hub != nil {
		broadcaster = websocket.NewEventBroadcaster(hub)
	}

	return &SyncService{
		links:       links,
		importer:    importer,
		broadcaster: broadcaster,
	}
}

// SyncLink imports one platform link's feed and records the outcome.
func (s *SyncService) SyncLink(ctx context.Context, linkID string) (*models.ImportResult, error) {
	link, err := s.links.GetByID(ctx, linkID)
	if err != nil {
		return nil, fmt.Errorf("getting platform link: %w", err)
	}
	if link == nil {
		return nil, fmt.Errorf("platform link not found: %s", linkID)
	}

	if err := s.links.UpdateSyncStatus(ctx, link.ID, models.SyncStatusSyncing, nil); err != nil {
		log.Printf("Failed to update sync status: %v", err)
	}

	result, err := s.importer.ImportFromURL(ctx, link.PropertyID, link.Platform, link.ImportURL)
	if err != nil {
		errMsg := err.Error()
		s.links.UpdateSyncStatus(ctx, link.ID, models.SyncStatusError, &errMsg)
		if s.broadcaster != nil {
			s.broadcaster.BroadcastFeedSyncError(link.ID, link.PropertyID, link.Platform, err)
		}
		return nil, err
	}

	if err := s.links.UpdateSyncStatus(ctx, link.ID, models.SyncStatusSuccess, nil); err != nil {
		log.Printf("Failed to update sync status: %v", err)
	}

	if s.broadcaster != nil {
		s.broadcaster.BroadcastFeedSyncCompleted(link.ID, *result)
	}

	return result, nil
}

// SyncAll imports every stored platform link. Per-link failures are
// logged and recorded on the link; the pass continues.
func (s *SyncService) SyncAll(ctx context.Context) {
	links, err := s.links.ListAll(ctx)
	if err != nil {
		log.Printf("Failed to list platform links: %v", err)
		return
	}

	for _, link := range links {
		if _, err := s.SyncLink(ctx, link.ID); err != nil {
			log.Printf("Error syncing link %s (%s): %v", link.ID, link.Platform, err)
		}
	}
}
