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

// FleetService maintains the one-per-user fleet of quantity-tagged starship
// references.
type FleetService struct {
	store  store.Store
	logger *slog.Logger
}

// NewFleetService creates a new fleet service.
func NewFleetService(st store.Store, logger *slog.Logger) *FleetService {
	return &FleetService{store: st, logger: logger}
}

// FleetItemView is a fleet line joined with its starship.
type FleetItemView struct {
	Item     *domain.FleetItem
	Starship *domain.Starship
}

// FleetView is a user's fleet with its lines. Composition holds the
// per-starship-class quantity totals.
type FleetView struct {
	Fleet       *domain.Fleet
	Items       []FleetItemView
	TotalShips  int64
	Composition map[string]int64
}

// Fleet returns the caller's fleet contents. A user who never added an item
// gets an empty view; the fleet row itself is created lazily on first add.
func (s *FleetService) Fleet(ctx context.Context, userID string) (*FleetView, error) {
	fleet, err := s.store.GetFleetByUser(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return &FleetView{Composition: map[string]int64{}}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get fleet: %w", err)
	}

	items, err := s.store.ListFleetItems(ctx, fleet.ID)
	if err != nil {
		return nil, fmt.Errorf("list fleet items: %w", err)
	}

	view := &FleetView{Fleet: fleet, Composition: map[string]int64{}}
	for _, item := range items {
		ship, err := s.store.GetStarship(ctx, item.StarshipID)
		if err != nil {
			return nil, fmt.Errorf("get fleet starship %d: %w", item.StarshipID, err)
		}
		view.Items = append(view.Items, FleetItemView{Item: item, Starship: ship})
		view.TotalShips += item.Quantity
		view.Composition[ship.StarshipClass] += item.Quantity
	}
	return view, nil
}

// AddItem references a starship from the caller's fleet, creating the fleet
// on first use. Re-adding a ship already in the fleet increments its
// quantity. Quantity below 1 is clamped to 1.
func (s *FleetService) AddItem(ctx context.Context, userID string, starshipID, quantity int64, nickname *string) error {
	ship, err := s.store.GetStarship(ctx, starshipID)
	if errors.Is(err, store.ErrNotFound) {
		return domainerrors.NotFound("starship not found")
	}
	if err != nil {
		return fmt.Errorf("get starship: %w", err)
	}

	if !ship.IsActive {
		if ship.IsCatalog {
			return domainerrors.Validation("Cannot add a retired catalog ship to fleet.")
		}
		return domainerrors.Validation("Cannot add an inactive custom ship to fleet.")
	}
	// Unlike not-found ownership cases, the ship's existence is not secret
	// here; the caller already sees it in the catalog response shape.
	if !ship.IsCatalog && !ship.OwnedBy(userID) {
		return domainerrors.Forbidden("you do not own this starship")
	}

	if quantity < 1 {
		quantity = 1
	}
	nickname = normalizeNickname(nickname)

	fleet, err := s.store.EnsureFleet(ctx, userID)
	if err != nil {
		return fmt.Errorf("ensure fleet: %w", err)
	}

	if err := s.store.AddOrIncrementFleetItem(ctx, &domain.FleetItem{
		FleetID:    fleet.ID,
		StarshipID: starshipID,
		Quantity:   quantity,
		Nickname:   nickname,
	}); err != nil {
		return fmt.Errorf("add fleet item: %w", err)
	}

	s.logger.Debug("fleet item added", "user_id", userID, "starship_id", starshipID, "quantity", quantity)
	return nil
}

// UpdateItem overwrites a line in the caller's own fleet. Absent fields stay
// unchanged; a blank nickname clears the stored one.
func (s *FleetService) UpdateItem(ctx context.Context, userID string, starshipID int64, quantity *int64, nickname *string) error {
	fleet, err := s.store.GetFleetByUser(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return domainerrors.NotFound("fleet item not found")
	}
	if err != nil {
		return fmt.Errorf("get fleet: %w", err)
	}

	item, err := s.store.GetFleetItem(ctx, fleet.ID, starshipID)
	if errors.Is(err, store.ErrNotFound) {
		return domainerrors.NotFound("fleet item not found")
	}
	if err != nil {
		return fmt.Errorf("get fleet item: %w", err)
	}

	if quantity != nil {
		item.Quantity = *quantity
		if item.Quantity < 1 {
			item.Quantity = 1
		}
	}
	if nickname != nil {
		item.Nickname = normalizeNickname(nickname)
	}

	if err := s.store.UpdateFleetItem(ctx, item); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domainerrors.NotFound("fleet item not found")
		}
		return fmt.Errorf("update fleet item: %w", err)
	}
	return nil
}

// RemoveItem drops a line from the caller's own fleet regardless of quantity.
func (s *FleetService) RemoveItem(ctx context.Context, userID string, starshipID int64) error {
	fleet, err := s.store.GetFleetByUser(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return domainerrors.NotFound("fleet item not found")
	}
	if err != nil {
		return fmt.Errorf("get fleet: %w", err)
	}

	if err := s.store.RemoveFleetItem(ctx, fleet.ID, starshipID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domainerrors.NotFound("fleet item not found")
		}
		return fmt.Errorf("remove fleet item: %w", err)
	}
	return nil
}

// normalizeNickname trims and nulls a blank nickname.
func normalizeNickname(nickname *string) *string {
	if nickname == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*nickname)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
