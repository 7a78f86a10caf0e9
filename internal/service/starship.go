package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/hangarbay/hangar-server/internal/domain"
	domainerrors "github.com/hangarbay/hangar-server/internal/errors"
	"github.com/hangarbay/hangar-server/internal/store"
)

// StarshipService owns the fork lineage rules and the lifecycle of user
// starships (forks and from-scratch customs).
type StarshipService struct {
	store  store.Store
	fleets *FleetService
	logger *slog.Logger
}

// NewStarshipService creates a new starship service.
func NewStarshipService(st store.Store, fleets *FleetService, logger *slog.Logger) *StarshipService {
	return &StarshipService{store: st, fleets: fleets, logger: logger}
}

// ForkRequest carries the fork operation's options.
type ForkRequest struct {
	Name       *string `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	AddToFleet bool    `json:"addToFleet"`
}

// Fork clones an active catalog starship into a row owned by userID. The
// operation is idempotent per (user, catalog ship): when an active fork
// already exists it is returned with created false, though the fleet option
// still applies to it.
func (s *StarshipService) Fork(ctx context.Context, userID string, catalogID int64, req ForkRequest) (ship *domain.Starship, created bool, err error) {
	if err := validate.Struct(req); err != nil {
		return nil, false, formatValidationError(err)
	}

	source, err := s.store.GetStarship(ctx, catalogID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, false, domainerrors.NotFound("catalog starship not found")
	}
	if err != nil {
		return nil, false, fmt.Errorf("get catalog starship: %w", err)
	}
	if !source.IsCatalog || !source.IsActive {
		return nil, false, domainerrors.NotFound("catalog starship not found")
	}

	fork, err := s.store.FindActiveFork(ctx, userID, catalogID)
	switch {
	case err == nil:
		created = false
	case errors.Is(err, store.ErrNotFound):
		name := source.Name
		if req.Name != nil && strings.TrimSpace(*req.Name) != "" {
			name = strings.TrimSpace(*req.Name)
		}
		fork = source.CloneForOwner(userID, name)
		if _, err := s.store.CreateStarship(ctx, fork); err != nil {
			return nil, false, fmt.Errorf("create fork: %w", err)
		}
		created = true
		s.logger.Info("starship forked",
			"user_id", userID,
			"catalog_id", catalogID,
			"fork_id", fork.ID)
	default:
		return nil, false, fmt.Errorf("find existing fork: %w", err)
	}

	// The fleet option applies to the resulting fork whether it was just
	// created or already existed.
	if req.AddToFleet {
		if err := s.fleets.AddItem(ctx, userID, fork.ID, 1, nil); err != nil {
			return nil, false, fmt.Errorf("add fork to fleet: %w", err)
		}
	}

	return fork, created, nil
}

// CreateStarshipRequest carries the fields for a from-scratch custom ship.
type CreateStarshipRequest struct {
	Name                 string   `json:"name" validate:"required,min=1,max=200"`
	Model                string   `json:"model" validate:"required,max=200"`
	Manufacturer         string   `json:"manufacturer" validate:"max=200"`
	CostInCredits        *int64   `json:"costInCredits,omitempty" validate:"omitempty,gte=0"`
	Length               *float64 `json:"length,omitempty" validate:"omitempty,gte=0"`
	MaxAtmospheringSpeed *int64   `json:"maxAtmospheringSpeed,omitempty"`
	Crew                 string   `json:"crew" validate:"max=50"`
	Passengers           string   `json:"passengers" validate:"max=50"`
	CargoCapacity        *int64   `json:"cargoCapacity,omitempty" validate:"omitempty,gte=0"`
	Consumables          string   `json:"consumables" validate:"max=100"`
	HyperdriveRating     *float64 `json:"hyperdriveRating,omitempty" validate:"omitempty,gte=0"`
	MGLT                 *int64   `json:"mglt,omitempty"`
	StarshipClass        string   `json:"starshipClass" validate:"required,max=100"`
}

// CreateCustom inserts a from-scratch custom starship owned by userID.
func (s *StarshipService) CreateCustom(ctx context.Context, userID string, req CreateStarshipRequest) (*domain.Starship, error) {
	if err := validate.Struct(req); err != nil {
		return nil, formatValidationError(err)
	}

	ship := &domain.Starship{
		Name:                 strings.TrimSpace(req.Name),
		Model:                req.Model,
		Manufacturer:         req.Manufacturer,
		CostInCredits:        req.CostInCredits,
		Length:               req.Length,
		MaxAtmospheringSpeed: req.MaxAtmospheringSpeed,
		Crew:                 req.Crew,
		Passengers:           req.Passengers,
		CargoCapacity:        req.CargoCapacity,
		Consumables:          req.Consumables,
		HyperdriveRating:     req.HyperdriveRating,
		MGLT:                 req.MGLT,
		StarshipClass:        req.StarshipClass,
		IsCatalog:            false,
		IsActive:             true,
		OwnerID:              &userID,
	}
	if _, err := s.store.CreateStarship(ctx, ship); err != nil {
		return nil, fmt.Errorf("create custom starship: %w", err)
	}

	s.logger.Info("custom starship created", "user_id", userID, "starship_id", ship.ID)
	return ship, nil
}

// ListOwned returns the caller's active forks and customs.
func (s *StarshipService) ListOwned(ctx context.Context, userID string) ([]*domain.Starship, error) {
	ships, err := s.store.ListStarshipsByOwner(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list owned starships: %w", err)
	}
	return ships, nil
}

// Get returns a starship visible to userID: any catalog row, or an owned
// row. Another user's ship reads as not found rather than forbidden.
func (s *StarshipService) Get(ctx context.Context, userID string, starshipID int64) (*domain.Starship, error) {
	ship, err := s.store.GetStarship(ctx, starshipID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, domainerrors.NotFound("starship not found")
	}
	if err != nil {
		return nil, fmt.Errorf("get starship: %w", err)
	}
	if !ship.IsCatalog && !ship.OwnedBy(userID) {
		return nil, domainerrors.NotFound("starship not found")
	}
	return ship, nil
}

// UpdateStarshipRequest carries a partial update for an owned ship. Absent
// fields stay unchanged.
type UpdateStarshipRequest struct {
	Name                 *string  `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	Model                *string  `json:"model,omitempty" validate:"omitempty,max=200"`
	Manufacturer         *string  `json:"manufacturer,omitempty" validate:"omitempty,max=200"`
	CostInCredits        *int64   `json:"costInCredits,omitempty" validate:"omitempty,gte=0"`
	Length               *float64 `json:"length,omitempty" validate:"omitempty,gte=0"`
	MaxAtmospheringSpeed *int64   `json:"maxAtmospheringSpeed,omitempty"`
	Crew                 *string  `json:"crew,omitempty" validate:"omitempty,max=50"`
	Passengers           *string  `json:"passengers,omitempty" validate:"omitempty,max=50"`
	CargoCapacity        *int64   `json:"cargoCapacity,omitempty" validate:"omitempty,gte=0"`
	Consumables          *string  `json:"consumables,omitempty" validate:"omitempty,max=100"`
	HyperdriveRating     *float64 `json:"hyperdriveRating,omitempty" validate:"omitempty,gte=0"`
	MGLT                 *int64   `json:"mglt,omitempty"`
	StarshipClass        *string  `json:"starshipClass,omitempty" validate:"omitempty,max=100"`
}

// UpdateOwned edits a fork or custom ship. Only the owner may edit; anyone
// else sees not found. Edits never touch the catalog source or other forks.
func (s *StarshipService) UpdateOwned(ctx context.Context, userID string, starshipID int64, req UpdateStarshipRequest) (*domain.Starship, error) {
	if err := validate.Struct(req); err != nil {
		return nil, formatValidationError(err)
	}

	ship, err := s.ownedShip(ctx, userID, starshipID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		trimmed := strings.TrimSpace(*req.Name)
		if trimmed == "" {
			return nil, domainerrors.Validation("name cannot be blank")
		}
		ship.Name = trimmed
	}
	if req.Model != nil {
		ship.Model = *req.Model
	}
	if req.Manufacturer != nil {
		ship.Manufacturer = *req.Manufacturer
	}
	if req.CostInCredits != nil {
		ship.CostInCredits = req.CostInCredits
	}
	if req.Length != nil {
		ship.Length = req.Length
	}
	if req.MaxAtmospheringSpeed != nil {
		ship.MaxAtmospheringSpeed = req.MaxAtmospheringSpeed
	}
	if req.Crew != nil {
		ship.Crew = *req.Crew
	}
	if req.Passengers != nil {
		ship.Passengers = *req.Passengers
	}
	if req.CargoCapacity != nil {
		ship.CargoCapacity = req.CargoCapacity
	}
	if req.Consumables != nil {
		ship.Consumables = *req.Consumables
	}
	if req.HyperdriveRating != nil {
		ship.HyperdriveRating = req.HyperdriveRating
	}
	if req.MGLT != nil {
		ship.MGLT = req.MGLT
	}
	if req.StarshipClass != nil {
		ship.StarshipClass = *req.StarshipClass
	}

	if err := s.store.UpdateStarship(ctx, ship); err != nil {
		return nil, fmt.Errorf("update starship: %w", err)
	}
	return ship, nil
}

// DeleteOwned soft-deletes a fork or custom ship by deactivating it. The row
// stays so fleet history and lineage references remain intact.
func (s *StarshipService) DeleteOwned(ctx context.Context, userID string, starshipID int64) error {
	ship, err := s.ownedShip(ctx, userID, starshipID)
	if err != nil {
		return err
	}

	if err := s.store.SetStarshipActive(ctx, ship.ID, false); err != nil {
		return fmt.Errorf("deactivate starship: %w", err)
	}

	s.logger.Info("starship soft-deleted", "user_id", userID, "starship_id", starshipID)
	return nil
}

// ownedShip loads a non-catalog ship owned by userID. Catalog rows and other
// users' ships both read as not found so ownership is never leaked.
func (s *StarshipService) ownedShip(ctx context.Context, userID string, starshipID int64) (*domain.Starship, error) {
	ship, err := s.store.GetStarship(ctx, starshipID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, domainerrors.NotFound("starship not found")
	}
	if err != nil {
		return nil, fmt.Errorf("get starship: %w", err)
	}
	if !ship.OwnedBy(userID) {
		return nil, domainerrors.NotFound("starship not found")
	}
	return ship, nil
}
