// Package di provides dependency injection configuration for the Hangar Bay
// server.
package di

import (
	"github.com/samber/do/v2"

	"github.com/hangarbay/hangar-server/internal/auth"
	"github.com/hangarbay/hangar-server/internal/config"
	"github.com/hangarbay/hangar-server/internal/di/providers"
	"github.com/hangarbay/hangar-server/internal/ingest"
	"github.com/hangarbay/hangar-server/internal/logger"
	"github.com/hangarbay/hangar-server/internal/service"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)
	do.Provide(injector, providers.ProvideAuthKey)

	// Database layer
	do.Provide(injector, providers.ProvideStore)

	// Ingest layer
	do.Provide(injector, providers.ProvideFeedClient)
	do.Provide(injector, providers.ProvideLocalDataset)
	do.Provide(injector, providers.ProvidePipeline)

	// Auth layer
	do.Provide(injector, providers.ProvideTokenService)

	// Business services
	do.Provide(injector, providers.ProvideAuthService)
	do.Provide(injector, providers.ProvideCatalogService)
	do.Provide(injector, providers.ProvideFleetService)
	do.Provide(injector, providers.ProvideStarshipService)
	do.Provide(injector, providers.ProvideSyncService)

	// Server
	do.Provide(injector, providers.ProvideHTTPServer)

	return injector
}

// Bootstrap initializes all services and returns handles for lifecycle
// management. This triggers lazy initialization of the whole graph.
func Bootstrap(injector *do.RootScope) error {
	_ = do.MustInvoke[*config.Config](injector)
	_ = do.MustInvoke[*logger.Logger](injector)
	_ = do.MustInvoke[providers.AuthKey](injector)
	_ = do.MustInvoke[*providers.StoreHandle](injector)
	_ = do.MustInvoke[*providers.FeedClientHandle](injector)
	_ = do.MustInvoke[*ingest.Pipeline](injector)
	_ = do.MustInvoke[*auth.TokenService](injector)

	_ = do.MustInvoke[*service.AuthService](injector)
	_ = do.MustInvoke[*service.CatalogService](injector)
	_ = do.MustInvoke[*service.FleetService](injector)
	_ = do.MustInvoke[*service.StarshipService](injector)
	_ = do.MustInvoke[*service.SyncService](injector)

	_ = do.MustInvoke[*providers.HTTPServerHandle](injector)

	return nil
}
