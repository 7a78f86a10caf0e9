package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/hangarbay/hangar-server/internal/domain"
	domainerrors "github.com/hangarbay/hangar-server/internal/errors"
	"github.com/hangarbay/hangar-server/internal/ingest"
)

// SyncService serializes catalog sync runs. Two interleaved pipelines would
// race on the edge clear-and-rebuild, so only one run may be in flight.
type SyncService struct {
	pipeline *ingest.Pipeline
	logger   *slog.Logger

	mu sync.Mutex
}

// NewSyncService creates a new sync service.
func NewSyncService(pipeline *ingest.Pipeline, logger *slog.Logger) *SyncService {
	return &SyncService{pipeline: pipeline, logger: logger}
}

// Run executes one full sync. Admin only. A run already in flight surfaces
// as a conflict rather than queueing.
func (s *SyncService) Run(ctx context.Context, caller *domain.User) (*ingest.Report, error) {
	if !caller.IsAdmin() {
		return nil, domainerrors.Forbidden("admin access required")
	}

	if !s.mu.TryLock() {
		return nil, domainerrors.Conflict("a sync is already running")
	}
	defer s.mu.Unlock()

	start := time.Now()
	report, err := s.pipeline.Run(ctx)
	if err != nil {
		return nil, fmt.Errorf("sync run: %w", err)
	}

	s.logger.Info("sync finished",
		"admin_id", caller.ID,
		"duration", time.Since(start).Round(time.Millisecond))
	return report, nil
}
