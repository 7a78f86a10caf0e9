package providers

import (
	"github.com/samber/do/v2"

	"github.com/hangarbay/hangar-server/internal/config"
	"github.com/hangarbay/hangar-server/internal/ingest"
	"github.com/hangarbay/hangar-server/internal/localdata"
	"github.com/hangarbay/hangar-server/internal/logger"
	"github.com/hangarbay/hangar-server/internal/starfeed"
)

// FeedClientHandle wraps the feed client with shutdown capability.
type FeedClientHandle struct {
	*starfeed.Client
}

// Shutdown implements do.Shutdownable.
func (h *FeedClientHandle) Shutdown() error {
	h.Close()
	return nil
}

// ProvideFeedClient provides the rate-limited external feed client.
func ProvideFeedClient(i do.Injector) (*FeedClientHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	client := starfeed.NewWithLimits(cfg.Feed.BaseURL, cfg.Feed.RPS, cfg.Feed.Burst, log.Logger)

	return &FeedClientHandle{Client: client}, nil
}

// ProvideLocalDataset provides the supplementary local dataset, or nil when
// no dataset directory is configured.
func ProvideLocalDataset(i do.Injector) (*localdata.Dataset, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	if !cfg.LocalData.Enabled() {
		return nil, nil
	}

	log.Info("Local dataset enabled", "path", cfg.LocalData.Path)
	return localdata.Open(cfg.LocalData.Path), nil
}

// ProvidePipeline provides the catalog sync pipeline.
func ProvidePipeline(i do.Injector) (*ingest.Pipeline, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	feedHandle := do.MustInvoke[*FeedClientHandle](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	dataset := do.MustInvoke[*localdata.Dataset](i)

	// A typed nil dataset must stay a nil interface so the pipeline skips
	// the augmentation stage.
	var local ingest.LocalSource
	if dataset != nil {
		local = dataset
	}

	return ingest.NewPipeline(feedHandle.Client, local, storeHandle.Store, log.Logger, cfg.App.IsProduction()), nil
}
