package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/hangarbay/hangar-server/internal/service"
)

func (s *Server) registerFleetRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "get-fleet",
		Method:      http.MethodGet,
		Path:        "/api/v1/fleet",
		Summary:     "Get fleet",
		Description: "The caller's fleet with per-class composition totals. Users who never added an item get an empty fleet.",
		Tags:        []string{"Fleet"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetFleet)

	huma.Register(s.api, huma.Operation{
		OperationID:   "add-fleet-item",
		Method:        http.MethodPost,
		Path:          "/api/v1/fleet/items",
		Summary:       "Add starship to fleet",
		Description:   "Adds a catalog or owned starship. Re-adding the same ship increments the quantity.",
		Tags:          []string{"Fleet"},
		Security:      []map[string][]string{{"bearer": {}}},
		DefaultStatus: http.StatusNoContent,
	}, s.handleAddFleetItem)

	huma.Register(s.api, huma.Operation{
		OperationID:   "update-fleet-item",
		Method:        http.MethodPatch,
		Path:          "/api/v1/fleet/items/{starshipId}",
		Summary:       "Update fleet item",
		Tags:          []string{"Fleet"},
		Security:      []map[string][]string{{"bearer": {}}},
		DefaultStatus: http.StatusNoContent,
	}, s.handleUpdateFleetItem)

	huma.Register(s.api, huma.Operation{
		OperationID:   "remove-fleet-item",
		Method:        http.MethodDelete,
		Path:          "/api/v1/fleet/items/{starshipId}",
		Summary:       "Remove fleet item",
		Tags:          []string{"Fleet"},
		Security:      []map[string][]string{{"bearer": {}}},
		DefaultStatus: http.StatusNoContent,
	}, s.handleRemoveFleetItem)
}

// === DTOs ===

// FleetItemResponse is one fleet line with its resolved starship.
type FleetItemResponse struct {
	Starship StarshipResponse `json:"starship"`
	Quantity int64            `json:"quantity"`
	Nickname *string          `json:"nickname,omitempty"`
	AddedAt  time.Time        `json:"added_at"`
}

// FleetResponse is the caller's fleet with aggregates.
type FleetResponse struct {
	Items       []FleetItemResponse `json:"items"`
	TotalShips  int64               `json:"total_ships" doc:"Sum of quantities across all lines"`
	Composition map[string]int64    `json:"composition" doc:"Quantity totals keyed by starship class"`
}

// FleetOutput wraps the fleet response for Huma.
type FleetOutput struct {
	Body FleetResponse
}

// AddFleetItemRequest adds or increments one fleet line.
type AddFleetItemRequest struct {
	StarshipID int64   `json:"starship_id" doc:"Catalog or owned starship ID"`
	Quantity   int64   `json:"quantity,omitempty" doc:"Quantity to add; values below 1 count as 1"`
	Nickname   *string `json:"nickname,omitempty" doc:"Optional line nickname"`
}

// AddFleetItemInput wraps the add request for Huma.
type AddFleetItemInput struct {
	Body AddFleetItemRequest
}

// UpdateFleetItemRequest partially updates one fleet line. A blank nickname
// clears it; an absent one leaves it unchanged.
type UpdateFleetItemRequest struct {
	Quantity *int64  `json:"quantity,omitempty"`
	Nickname *string `json:"nickname,omitempty"`
}

// UpdateFleetItemInput wraps the update request for Huma.
type UpdateFleetItemInput struct {
	StarshipID int64 `path:"starshipId" doc:"Starship ID of the fleet line"`
	Body       UpdateFleetItemRequest
}

// FleetItemPathInput identifies one fleet line by its starship.
type FleetItemPathInput struct {
	StarshipID int64 `path:"starshipId" doc:"Starship ID of the fleet line"`
}

// === Handlers ===

func (s *Server) handleGetFleet(ctx context.Context, _ *struct{}) (*FleetOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	view, err := s.services.Fleet.Fleet(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &FleetOutput{Body: mapFleetView(view)}, nil
}

func (s *Server) handleAddFleetItem(ctx context.Context, input *AddFleetItemInput) (*EmptyOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	err = s.services.Fleet.AddItem(ctx, userID, input.Body.StarshipID, input.Body.Quantity, input.Body.Nickname)
	if err != nil {
		return nil, err
	}
	return &EmptyOutput{}, nil
}

func (s *Server) handleUpdateFleetItem(ctx context.Context, input *UpdateFleetItemInput) (*EmptyOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	err = s.services.Fleet.UpdateItem(ctx, userID, input.StarshipID, input.Body.Quantity, input.Body.Nickname)
	if err != nil {
		return nil, err
	}
	return &EmptyOutput{}, nil
}

func (s *Server) handleRemoveFleetItem(ctx context.Context, input *FleetItemPathInput) (*EmptyOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.services.Fleet.RemoveItem(ctx, userID, input.StarshipID); err != nil {
		return nil, err
	}
	return &EmptyOutput{}, nil
}

func mapFleetView(view *service.FleetView) FleetResponse {
	resp := FleetResponse{
		Items:       make([]FleetItemResponse, 0, len(view.Items)),
		TotalShips:  view.TotalShips,
		Composition: view.Composition,
	}
	for _, item := range view.Items {
		resp.Items = append(resp.Items, FleetItemResponse{
			Starship: mapStarship(item.Starship),
			Quantity: item.Item.Quantity,
			Nickname: item.Item.Nickname,
			AddedAt:  item.Item.AddedAt,
		})
	}
	return resp
}
