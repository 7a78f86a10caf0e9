// Package main provides a one-shot catalog sync against the external feed.
//
// It runs the same ingest pipeline as POST /api/v1/admin/sync, but from the
// command line, which is handy for cron jobs and first-time seeding:
//
//	go run ./cmd/sync --data-path ~/HangarBay/data --feed-url https://swapi.dev/api
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/hangarbay/hangar-server/internal/config"
	"github.com/hangarbay/hangar-server/internal/domain"
	"github.com/hangarbay/hangar-server/internal/ingest"
	"github.com/hangarbay/hangar-server/internal/localdata"
	"github.com/hangarbay/hangar-server/internal/logger"
	"github.com/hangarbay/hangar-server/internal/starfeed"
	"github.com/hangarbay/hangar-server/internal/store/sqlite"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "sync failed: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	log := logger.New(logger.Config{
		Level:       logger.ParseLevel(cfg.Logger.Level),
		Environment: cfg.App.Environment,
	})

	st, err := sqlite.Open(cfg.Data.DatabasePath(), log.Logger)
	if err != nil {
		return err
	}
	defer st.Close()

	feed := starfeed.NewWithLimits(cfg.Feed.BaseURL, cfg.Feed.RPS, cfg.Feed.Burst, log.Logger)
	defer feed.Close()

	var local ingest.LocalSource
	if cfg.LocalData.Enabled() {
		local = localdata.Open(cfg.LocalData.Path)
	}

	pipeline := ingest.NewPipeline(feed, local, st, log.Logger, cfg.App.IsProduction())

	report, err := pipeline.Run(context.Background())
	if err != nil {
		return err
	}

	for _, kind := range domain.SyncOrder {
		counts := report.Counts[kind]
		fmt.Printf("%-10s inserted=%d updated=%d skipped=%d\n",
			kind, counts.Inserted, counts.Updated, counts.Skipped)
	}
	fmt.Printf("edges cleared=%d added=%d, starships retired=%d\n",
		report.EdgesCleared, report.EdgesAdded, report.Retired)

	return nil
}
