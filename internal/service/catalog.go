package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/hangarbay/hangar-server/internal/domain"
	domainerrors "github.com/hangarbay/hangar-server/internal/errors"
	"github.com/hangarbay/hangar-server/internal/store"
)

// CatalogService serves read access to the ingested catalog and the admin
// activation toggle.
type CatalogService struct {
	store  store.Store
	logger *slog.Logger
}

// NewCatalogService creates a new catalog service.
func NewCatalogService(st store.Store, logger *slog.Logger) *CatalogService {
	return &CatalogService{store: st, logger: logger}
}

func (s *CatalogService) ListPlanets(ctx context.Context) ([]*domain.Planet, error) {
	return s.store.ListPlanets(ctx)
}

func (s *CatalogService) GetPlanet(ctx context.Context, planetID int64) (*domain.Planet, error) {
	planet, err := s.store.GetPlanet(ctx, planetID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, domainerrors.NotFound("planet not found")
	}
	return planet, err
}

func (s *CatalogService) ListSpecies(ctx context.Context) ([]*domain.Species, error) {
	return s.store.ListSpecies(ctx)
}

func (s *CatalogService) GetSpecies(ctx context.Context, speciesID int64) (*domain.Species, error) {
	sp, err := s.store.GetSpecies(ctx, speciesID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, domainerrors.NotFound("species not found")
	}
	return sp, err
}

func (s *CatalogService) ListPeople(ctx context.Context) ([]*domain.Person, error) {
	return s.store.ListPeople(ctx)
}

func (s *CatalogService) GetPerson(ctx context.Context, personID int64) (*domain.Person, error) {
	person, err := s.store.GetPerson(ctx, personID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, domainerrors.NotFound("person not found")
	}
	return person, err
}

func (s *CatalogService) ListFilms(ctx context.Context) ([]*domain.Film, error) {
	return s.store.ListFilms(ctx)
}

func (s *CatalogService) GetFilm(ctx context.Context, filmID int64) (*domain.Film, error) {
	film, err := s.store.GetFilm(ctx, filmID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, domainerrors.NotFound("film not found")
	}
	return film, err
}

func (s *CatalogService) ListVehicles(ctx context.Context) ([]*domain.Vehicle, error) {
	return s.store.ListVehicles(ctx)
}

func (s *CatalogService) GetVehicle(ctx context.Context, vehicleID int64) (*domain.Vehicle, error) {
	vehicle, err := s.store.GetVehicle(ctx, vehicleID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, domainerrors.NotFound("vehicle not found")
	}
	return vehicle, err
}

// ListStarships returns catalog starships. The public listing excludes
// retired ships; admins may ask for everything.
func (s *CatalogService) ListStarships(ctx context.Context, includeRetired bool) ([]*domain.Starship, error) {
	return s.store.ListCatalogStarships(ctx, !includeRetired)
}

// GetStarship returns one active catalog starship.
func (s *CatalogService) GetStarship(ctx context.Context, starshipID int64) (*domain.Starship, error) {
	ship, err := s.store.GetStarship(ctx, starshipID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, domainerrors.NotFound("starship not found")
	}
	if err != nil {
		return nil, fmt.Errorf("get starship: %w", err)
	}
	if !ship.IsCatalog || !ship.IsActive {
		return nil, domainerrors.NotFound("starship not found")
	}
	return ship, nil
}

// SetStarshipActive flips a catalog starship's activation flag. Admin only;
// the sweep in the sync pipeline is the only other writer of this flag for
// catalog rows.
func (s *CatalogService) SetStarshipActive(ctx context.Context, caller *domain.User, starshipID int64, active bool) error {
	if !caller.IsAdmin() {
		return domainerrors.Forbidden("admin access required")
	}

	ship, err := s.store.GetStarship(ctx, starshipID)
	if errors.Is(err, store.ErrNotFound) {
		return domainerrors.NotFound("starship not found")
	}
	if err != nil {
		return fmt.Errorf("get starship: %w", err)
	}
	if !ship.IsCatalog {
		return domainerrors.NotFound("starship not found")
	}

	if err := s.store.SetStarshipActive(ctx, starshipID, active); err != nil {
		return fmt.Errorf("set starship active: %w", err)
	}

	s.logger.Info("catalog starship activation changed",
		"admin_id", caller.ID,
		"starship_id", starshipID,
		"active", active)
	return nil
}
