package providers

import (
	"github.com/samber/do/v2"

	"github.com/hangarbay/hangar-server/internal/auth"
	"github.com/hangarbay/hangar-server/internal/ingest"
	"github.com/hangarbay/hangar-server/internal/logger"
	"github.com/hangarbay/hangar-server/internal/service"
)

// ProvideAuthService provides the authentication service.
func ProvideAuthService(i do.Injector) (*service.AuthService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	tokenService := do.MustInvoke[*auth.TokenService](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewAuthService(storeHandle.Store, tokenService, log.Logger), nil
}

// ProvideCatalogService provides the catalog browse service.
func ProvideCatalogService(i do.Injector) (*service.CatalogService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewCatalogService(storeHandle.Store, log.Logger), nil
}

// ProvideFleetService provides the fleet service.
func ProvideFleetService(i do.Injector) (*service.FleetService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewFleetService(storeHandle.Store, log.Logger), nil
}

// ProvideStarshipService provides the fork and custom starship service.
func ProvideStarshipService(i do.Injector) (*service.StarshipService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	fleetService := do.MustInvoke[*service.FleetService](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewStarshipService(storeHandle.Store, fleetService, log.Logger), nil
}

// ProvideSyncService provides the sync orchestration service.
func ProvideSyncService(i do.Injector) (*service.SyncService, error) {
	pipeline := do.MustInvoke[*ingest.Pipeline](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewSyncService(pipeline, log.Logger), nil
}
