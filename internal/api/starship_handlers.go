package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/hangarbay/hangar-server/internal/service"
)

func (s *Server) registerStarshipRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "fork-starship",
		Method:      http.MethodPost,
		Path:        "/api/v1/starships/{id}/fork",
		Summary:     "Fork a catalog starship",
		Description: "Clones an active catalog starship into a row owned by the caller. Idempotent per (user, catalog ship): an existing active fork is returned with 200 instead of 201.",
		Tags:        []string{"Hangar"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleForkStarship)

	huma.Register(s.api, huma.Operation{
		OperationID:   "create-starship",
		Method:        http.MethodPost,
		Path:          "/api/v1/my/starships",
		Summary:       "Create a custom starship",
		Tags:          []string{"Hangar"},
		Security:      []map[string][]string{{"bearer": {}}},
		DefaultStatus: http.StatusCreated,
	}, s.handleCreateStarship)

	huma.Register(s.api, huma.Operation{
		OperationID: "list-my-starships",
		Method:      http.MethodGet,
		Path:        "/api/v1/my/starships",
		Summary:     "List owned starships",
		Description: "Active forks and customs owned by the caller, name-ordered.",
		Tags:        []string{"Hangar"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListMyStarships)

	huma.Register(s.api, huma.Operation{
		OperationID: "get-my-starship",
		Method:      http.MethodGet,
		Path:        "/api/v1/my/starships/{id}",
		Summary:     "Get an owned starship",
		Tags:        []string{"Hangar"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetMyStarship)

	huma.Register(s.api, huma.Operation{
		OperationID: "update-my-starship",
		Method:      http.MethodPatch,
		Path:        "/api/v1/my/starships/{id}",
		Summary:     "Update an owned starship",
		Tags:        []string{"Hangar"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpdateMyStarship)

	huma.Register(s.api, huma.Operation{
		OperationID:   "delete-my-starship",
		Method:        http.MethodDelete,
		Path:          "/api/v1/my/starships/{id}",
		Summary:       "Delete an owned starship",
		Description:   "Soft-deletes the row. A deleted fork no longer blocks re-forking its catalog origin.",
		Tags:          []string{"Hangar"},
		Security:      []map[string][]string{{"bearer": {}}},
		DefaultStatus: http.StatusNoContent,
	}, s.handleDeleteMyStarship)
}

// === DTOs ===

// ForkRequest is the request body for forking a catalog starship.
type ForkRequest struct {
	Name       *string `json:"name,omitempty" doc:"Override name for the fork"`
	AddToFleet bool    `json:"add_to_fleet,omitempty" doc:"Also add the fork to the caller's fleet"`
}

// ForkInput wraps the fork request for Huma.
type ForkInput struct {
	ID   int64 `path:"id" doc:"Catalog starship ID"`
	Body ForkRequest
}

// ForkOutput wraps the fork response for Huma. Status is 201 for a new fork,
// 200 when an active fork already existed.
type ForkOutput struct {
	Status int
	Body   StarshipResponse
}

// CreateStarshipRequest is the request body for a from-scratch custom ship.
type CreateStarshipRequest struct {
	Name                 string   `json:"name" doc:"Ship name"`
	Model                string   `json:"model" doc:"Model designation"`
	Manufacturer         string   `json:"manufacturer,omitempty"`
	CostInCredits        *int64   `json:"cost_in_credits,omitempty"`
	Length               *float64 `json:"length,omitempty"`
	MaxAtmospheringSpeed *int64   `json:"max_atmosphering_speed,omitempty"`
	Crew                 string   `json:"crew,omitempty"`
	Passengers           string   `json:"passengers,omitempty"`
	CargoCapacity        *int64   `json:"cargo_capacity,omitempty"`
	Consumables          string   `json:"consumables,omitempty"`
	HyperdriveRating     *float64 `json:"hyperdrive_rating,omitempty"`
	MGLT                 *int64   `json:"mglt,omitempty"`
	StarshipClass        string   `json:"starship_class" doc:"Ship class"`
}

// CreateStarshipInput wraps the create request for Huma.
type CreateStarshipInput struct {
	Body CreateStarshipRequest
}

// UpdateStarshipRequest is the partial-update body for an owned ship.
// Absent fields are left unchanged.
type UpdateStarshipRequest struct {
	Name                 *string  `json:"name,omitempty"`
	Model                *string  `json:"model,omitempty"`
	Manufacturer         *string  `json:"manufacturer,omitempty"`
	CostInCredits        *int64   `json:"cost_in_credits,omitempty"`
	Length               *float64 `json:"length,omitempty"`
	MaxAtmospheringSpeed *int64   `json:"max_atmosphering_speed,omitempty"`
	Crew                 *string  `json:"crew,omitempty"`
	Passengers           *string  `json:"passengers,omitempty"`
	CargoCapacity        *int64   `json:"cargo_capacity,omitempty"`
	Consumables          *string  `json:"consumables,omitempty"`
	HyperdriveRating     *float64 `json:"hyperdrive_rating,omitempty"`
	MGLT                 *int64   `json:"mglt,omitempty"`
	StarshipClass        *string  `json:"starship_class,omitempty"`
}

// UpdateStarshipInput wraps the update request for Huma.
type UpdateStarshipInput struct {
	ID   int64 `path:"id" doc:"Starship ID"`
	Body UpdateStarshipRequest
}

// EmptyOutput is a bodyless response.
type EmptyOutput struct{}

// === Handlers ===

func (s *Server) handleForkStarship(ctx context.Context, input *ForkInput) (*ForkOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	ship, created, err := s.services.Starship.Fork(ctx, userID, input.ID, service.ForkRequest{
		Name:       input.Body.Name,
		AddToFleet: input.Body.AddToFleet,
	})
	if err != nil {
		return nil, err
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	return &ForkOutput{Status: status, Body: mapStarship(ship)}, nil
}

func (s *Server) handleCreateStarship(ctx context.Context, input *CreateStarshipInput) (*StarshipOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	ship, err := s.services.Starship.CreateCustom(ctx, userID, service.CreateStarshipRequest{
		Name:                 input.Body.Name,
		Model:                input.Body.Model,
		Manufacturer:         input.Body.Manufacturer,
		CostInCredits:        input.Body.CostInCredits,
		Length:               input.Body.Length,
		MaxAtmospheringSpeed: input.Body.MaxAtmospheringSpeed,
		Crew:                 input.Body.Crew,
		Passengers:           input.Body.Passengers,
		CargoCapacity:        input.Body.CargoCapacity,
		Consumables:          input.Body.Consumables,
		HyperdriveRating:     input.Body.HyperdriveRating,
		MGLT:                 input.Body.MGLT,
		StarshipClass:        input.Body.StarshipClass,
	})
	if err != nil {
		return nil, err
	}

	return &StarshipOutput{Body: mapStarship(ship)}, nil
}

func (s *Server) handleListMyStarships(ctx context.Context, _ *struct{}) (*StarshipListOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	ships, err := s.services.Starship.ListOwned(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := make([]StarshipResponse, 0, len(ships))
	for _, ship := range ships {
		out = append(out, mapStarship(ship))
	}
	return &StarshipListOutput{Body: out}, nil
}

func (s *Server) handleGetMyStarship(ctx context.Context, input *IDPathInput) (*StarshipOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	ship, err := s.services.Starship.Get(ctx, userID, input.ID)
	if err != nil {
		return nil, err
	}
	return &StarshipOutput{Body: mapStarship(ship)}, nil
}

func (s *Server) handleUpdateMyStarship(ctx context.Context, input *UpdateStarshipInput) (*StarshipOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	ship, err := s.services.Starship.UpdateOwned(ctx, userID, input.ID, service.UpdateStarshipRequest{
		Name:                 input.Body.Name,
		Model:                input.Body.Model,
		Manufacturer:         input.Body.Manufacturer,
		CostInCredits:        input.Body.CostInCredits,
		Length:               input.Body.Length,
		MaxAtmospheringSpeed: input.Body.MaxAtmospheringSpeed,
		Crew:                 input.Body.Crew,
		Passengers:           input.Body.Passengers,
		CargoCapacity:        input.Body.CargoCapacity,
		Consumables:          input.Body.Consumables,
		HyperdriveRating:     input.Body.HyperdriveRating,
		MGLT:                 input.Body.MGLT,
		StarshipClass:        input.Body.StarshipClass,
	})
	if err != nil {
		return nil, err
	}

	return &StarshipOutput{Body: mapStarship(ship)}, nil
}

func (s *Server) handleDeleteMyStarship(ctx context.Context, input *IDPathInput) (*EmptyOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.services.Starship.DeleteOwned(ctx, userID, input.ID); err != nil {
		return nil, err
	}
	return &EmptyOutput{}, nil
}
