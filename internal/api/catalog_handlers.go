package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/hangarbay/hangar-server/internal/domain"
)

func (s *Server) registerCatalogRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "list-planets",
		Method:      http.MethodGet,
		Path:        "/api/v1/planets",
		Summary:     "List planets",
		Tags:        []string{"Catalog"},
	}, s.handleListPlanets)

	huma.Register(s.api, huma.Operation{
		OperationID: "get-planet",
		Method:      http.MethodGet,
		Path:        "/api/v1/planets/{id}",
		Summary:     "Get planet",
		Tags:        []string{"Catalog"},
	}, s.handleGetPlanet)

	huma.Register(s.api, huma.Operation{
		OperationID: "list-species",
		Method:      http.MethodGet,
		Path:        "/api/v1/species",
		Summary:     "List species",
		Tags:        []string{"Catalog"},
	}, s.handleListSpecies)

	huma.Register(s.api, huma.Operation{
		OperationID: "get-species",
		Method:      http.MethodGet,
		Path:        "/api/v1/species/{id}",
		Summary:     "Get species",
		Tags:        []string{"Catalog"},
	}, s.handleGetSpecies)

	huma.Register(s.api, huma.Operation{
		OperationID: "list-people",
		Method:      http.MethodGet,
		Path:        "/api/v1/people",
		Summary:     "List people",
		Tags:        []string{"Catalog"},
	}, s.handleListPeople)

	huma.Register(s.api, huma.Operation{
		OperationID: "get-person",
		Method:      http.MethodGet,
		Path:        "/api/v1/people/{id}",
		Summary:     "Get person",
		Tags:        []string{"Catalog"},
	}, s.handleGetPerson)

	huma.Register(s.api, huma.Operation{
		OperationID: "list-films",
		Method:      http.MethodGet,
		Path:        "/api/v1/films",
		Summary:     "List films",
		Tags:        []string{"Catalog"},
	}, s.handleListFilms)

	huma.Register(s.api, huma.Operation{
		OperationID: "get-film",
		Method:      http.MethodGet,
		Path:        "/api/v1/films/{id}",
		Summary:     "Get film",
		Tags:        []string{"Catalog"},
	}, s.handleGetFilm)

	huma.Register(s.api, huma.Operation{
		OperationID: "list-vehicles",
		Method:      http.MethodGet,
		Path:        "/api/v1/vehicles",
		Summary:     "List vehicles",
		Tags:        []string{"Catalog"},
	}, s.handleListVehicles)

	huma.Register(s.api, huma.Operation{
		OperationID: "get-vehicle",
		Method:      http.MethodGet,
		Path:        "/api/v1/vehicles/{id}",
		Summary:     "Get vehicle",
		Tags:        []string{"Catalog"},
	}, s.handleGetVehicle)

	huma.Register(s.api, huma.Operation{
		OperationID: "list-catalog-starships",
		Method:      http.MethodGet,
		Path:        "/api/v1/starships",
		Summary:     "List catalog starships",
		Description: "Active catalog starships, name-ordered. Retired rows appear only with include_retired.",
		Tags:        []string{"Catalog"},
	}, s.handleListCatalogStarships)

	huma.Register(s.api, huma.Operation{
		OperationID: "get-catalog-starship",
		Method:      http.MethodGet,
		Path:        "/api/v1/starships/{id}",
		Summary:     "Get catalog starship",
		Tags:        []string{"Catalog"},
	}, s.handleGetCatalogStarship)
}

// === DTOs ===

// IDPathInput carries a numeric catalog row ID.
type IDPathInput struct {
	ID int64 `path:"id" doc:"Row ID"`
}

// PlanetResponse is the wire form of a catalog planet.
type PlanetResponse struct {
	ID             int64    `json:"id"`
	Name           string   `json:"name"`
	RotationPeriod *int64   `json:"rotation_period,omitempty"`
	OrbitalPeriod  *int64   `json:"orbital_period,omitempty"`
	Diameter       *int64   `json:"diameter,omitempty"`
	Climate        string   `json:"climate,omitempty"`
	Gravity        string   `json:"gravity,omitempty"`
	Terrain        string   `json:"terrain,omitempty"`
	SurfaceWater   *float64 `json:"surface_water,omitempty"`
	Population     *int64   `json:"population,omitempty"`
	Origin         string   `json:"origin"`
}

// PlanetOutput wraps one planet for Huma.
type PlanetOutput struct {
	Body PlanetResponse
}

// PlanetListOutput wraps a planet list for Huma.
type PlanetListOutput struct {
	Body []PlanetResponse
}

// SpeciesResponse is the wire form of a catalog species.
type SpeciesResponse struct {
	ID              int64    `json:"id"`
	Name            string   `json:"name"`
	Classification  string   `json:"classification,omitempty"`
	Designation     string   `json:"designation,omitempty"`
	AverageHeight   *float64 `json:"average_height,omitempty"`
	AverageLifespan *int64   `json:"average_lifespan,omitempty"`
	SkinColors      string   `json:"skin_colors,omitempty"`
	HairColors      string   `json:"hair_colors,omitempty"`
	EyeColors       string   `json:"eye_colors,omitempty"`
	Language        string   `json:"language,omitempty"`
	HomeworldID     *int64   `json:"homeworld_id,omitempty"`
	Origin          string   `json:"origin"`
}

// SpeciesOutput wraps one species for Huma.
type SpeciesOutput struct {
	Body SpeciesResponse
}

// SpeciesListOutput wraps a species list for Huma.
type SpeciesListOutput struct {
	Body []SpeciesResponse
}

// PersonResponse is the wire form of a catalog person.
type PersonResponse struct {
	ID          int64    `json:"id"`
	Name        string   `json:"name"`
	Height      *float64 `json:"height,omitempty"`
	Mass        *float64 `json:"mass,omitempty"`
	HairColor   string   `json:"hair_color,omitempty"`
	SkinColor   string   `json:"skin_color,omitempty"`
	EyeColor    string   `json:"eye_color,omitempty"`
	BirthYear   string   `json:"birth_year,omitempty"`
	Gender      string   `json:"gender,omitempty"`
	HomeworldID *int64   `json:"homeworld_id,omitempty"`
	Origin      string   `json:"origin"`
}

// PersonOutput wraps one person for Huma.
type PersonOutput struct {
	Body PersonResponse
}

// PersonListOutput wraps a person list for Huma.
type PersonListOutput struct {
	Body []PersonResponse
}

// FilmResponse is the wire form of a catalog film.
type FilmResponse struct {
	ID           int64      `json:"id"`
	Title        string     `json:"title"`
	EpisodeID    *int64     `json:"episode_id,omitempty"`
	OpeningCrawl string     `json:"opening_crawl,omitempty"`
	Director     string     `json:"director,omitempty"`
	Producer     string     `json:"producer,omitempty"`
	ReleaseDate  *time.Time `json:"release_date,omitempty"`
	Origin       string     `json:"origin"`
}

// FilmOutput wraps one film for Huma.
type FilmOutput struct {
	Body FilmResponse
}

// FilmListOutput wraps a film list for Huma.
type FilmListOutput struct {
	Body []FilmResponse
}

// VehicleResponse is the wire form of a catalog vehicle.
type VehicleResponse struct {
	ID                   int64    `json:"id"`
	Name                 string   `json:"name"`
	Model                string   `json:"model,omitempty"`
	Manufacturer         string   `json:"manufacturer,omitempty"`
	CostInCredits        *int64   `json:"cost_in_credits,omitempty"`
	Length               *float64 `json:"length,omitempty"`
	MaxAtmospheringSpeed *int64   `json:"max_atmosphering_speed,omitempty"`
	Crew                 string   `json:"crew,omitempty"`
	Passengers           string   `json:"passengers,omitempty"`
	CargoCapacity        *int64   `json:"cargo_capacity,omitempty"`
	Consumables          string   `json:"consumables,omitempty"`
	VehicleClass         string   `json:"vehicle_class,omitempty"`
	Origin               string   `json:"origin"`
}

// VehicleOutput wraps one vehicle for Huma.
type VehicleOutput struct {
	Body VehicleResponse
}

// VehicleListOutput wraps a vehicle list for Huma.
type VehicleListOutput struct {
	Body []VehicleResponse
}

// StarshipResponse is the wire form of a starship in any of its three roles.
type StarshipResponse struct {
	ID                   int64    `json:"id"`
	Name                 string   `json:"name"`
	Model                string   `json:"model,omitempty"`
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
	StarshipClass        string   `json:"starship_class,omitempty"`
	IsCatalog            bool     `json:"is_catalog"`
	IsActive             bool     `json:"is_active"`
	ForkOriginID         *int64   `json:"fork_origin_id,omitempty"`
	Origin               *string  `json:"origin,omitempty"`
}

// StarshipOutput wraps one starship for Huma.
type StarshipOutput struct {
	Body StarshipResponse
}

// StarshipListOutput wraps a starship list for Huma.
type StarshipListOutput struct {
	Body []StarshipResponse
}

// ListCatalogStarshipsInput carries the retired-rows filter.
type ListCatalogStarshipsInput struct {
	IncludeRetired bool `query:"include_retired" doc:"Include retired catalog rows"`
}

// === Handlers ===

func (s *Server) handleListPlanets(ctx context.Context, _ *struct{}) (*PlanetListOutput, error) {
	planets, err := s.services.Catalog.ListPlanets(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]PlanetResponse, 0, len(planets))
	for _, p := range planets {
		out = append(out, mapPlanet(p))
	}
	return &PlanetListOutput{Body: out}, nil
}

func (s *Server) handleGetPlanet(ctx context.Context, input *IDPathInput) (*PlanetOutput, error) {
	planet, err := s.services.Catalog.GetPlanet(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &PlanetOutput{Body: mapPlanet(planet)}, nil
}

func (s *Server) handleListSpecies(ctx context.Context, _ *struct{}) (*SpeciesListOutput, error) {
	species, err := s.services.Catalog.ListSpecies(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]SpeciesResponse, 0, len(species))
	for _, sp := range species {
		out = append(out, mapSpecies(sp))
	}
	return &SpeciesListOutput{Body: out}, nil
}

func (s *Server) handleGetSpecies(ctx context.Context, input *IDPathInput) (*SpeciesOutput, error) {
	species, err := s.services.Catalog.GetSpecies(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &SpeciesOutput{Body: mapSpecies(species)}, nil
}

func (s *Server) handleListPeople(ctx context.Context, _ *struct{}) (*PersonListOutput, error) {
	people, err := s.services.Catalog.ListPeople(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]PersonResponse, 0, len(people))
	for _, p := range people {
		out = append(out, mapPerson(p))
	}
	return &PersonListOutput{Body: out}, nil
}

func (s *Server) handleGetPerson(ctx context.Context, input *IDPathInput) (*PersonOutput, error) {
	person, err := s.services.Catalog.GetPerson(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &PersonOutput{Body: mapPerson(person)}, nil
}

func (s *Server) handleListFilms(ctx context.Context, _ *struct{}) (*FilmListOutput, error) {
	films, err := s.services.Catalog.ListFilms(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]FilmResponse, 0, len(films))
	for _, f := range films {
		out = append(out, mapFilm(f))
	}
	return &FilmListOutput{Body: out}, nil
}

func (s *Server) handleGetFilm(ctx context.Context, input *IDPathInput) (*FilmOutput, error) {
	film, err := s.services.Catalog.GetFilm(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &FilmOutput{Body: mapFilm(film)}, nil
}

func (s *Server) handleListVehicles(ctx context.Context, _ *struct{}) (*VehicleListOutput, error) {
	vehicles, err := s.services.Catalog.ListVehicles(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]VehicleResponse, 0, len(vehicles))
	for _, v := range vehicles {
		out = append(out, mapVehicle(v))
	}
	return &VehicleListOutput{Body: out}, nil
}

func (s *Server) handleGetVehicle(ctx context.Context, input *IDPathInput) (*VehicleOutput, error) {
	vehicle, err := s.services.Catalog.GetVehicle(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &VehicleOutput{Body: mapVehicle(vehicle)}, nil
}

func (s *Server) handleListCatalogStarships(ctx context.Context, input *ListCatalogStarshipsInput) (*StarshipListOutput, error) {
	ships, err := s.services.Catalog.ListStarships(ctx, input.IncludeRetired)
	if err != nil {
		return nil, err
	}

	out := make([]StarshipResponse, 0, len(ships))
	for _, ship := range ships {
		out = append(out, mapStarship(ship))
	}
	return &StarshipListOutput{Body: out}, nil
}

func (s *Server) handleGetCatalogStarship(ctx context.Context, input *IDPathInput) (*StarshipOutput, error) {
	ship, err := s.services.Catalog.GetStarship(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &StarshipOutput{Body: mapStarship(ship)}, nil
}

// === Mapping ===

func mapPlanet(p *domain.Planet) PlanetResponse {
	return PlanetResponse{
		ID:             p.ID,
		Name:           p.Name,
		RotationPeriod: p.RotationPeriod,
		OrbitalPeriod:  p.OrbitalPeriod,
		Diameter:       p.Diameter,
		Climate:        p.Climate,
		Gravity:        p.Gravity,
		Terrain:        p.Terrain,
		SurfaceWater:   p.SurfaceWater,
		Population:     p.Population,
		Origin:         string(p.Origin),
	}
}

func mapSpecies(sp *domain.Species) SpeciesResponse {
	return SpeciesResponse{
		ID:              sp.ID,
		Name:            sp.Name,
		Classification:  sp.Classification,
		Designation:     sp.Designation,
		AverageHeight:   sp.AverageHeight,
		AverageLifespan: sp.AverageLifespan,
		SkinColors:      sp.SkinColors,
		HairColors:      sp.HairColors,
		EyeColors:       sp.EyeColors,
		Language:        sp.Language,
		HomeworldID:     sp.HomeworldID,
		Origin:          string(sp.Origin),
	}
}

func mapPerson(p *domain.Person) PersonResponse {
	return PersonResponse{
		ID:          p.ID,
		Name:        p.Name,
		Height:      p.Height,
		Mass:        p.Mass,
		HairColor:   p.HairColor,
		SkinColor:   p.SkinColor,
		EyeColor:    p.EyeColor,
		BirthYear:   p.BirthYear,
		Gender:      p.Gender,
		HomeworldID: p.HomeworldID,
		Origin:      string(p.Origin),
	}
}

func mapFilm(f *domain.Film) FilmResponse {
	return FilmResponse{
		ID:           f.ID,
		Title:        f.Title,
		EpisodeID:    f.EpisodeID,
		OpeningCrawl: f.OpeningCrawl,
		Director:     f.Director,
		Producer:     f.Producer,
		ReleaseDate:  f.ReleaseDate,
		Origin:       string(f.Origin),
	}
}

func mapVehicle(v *domain.Vehicle) VehicleResponse {
	return VehicleResponse{
		ID:                   v.ID,
		Name:                 v.Name,
		Model:                v.Model,
		Manufacturer:         v.Manufacturer,
		CostInCredits:        v.CostInCredits,
		Length:               v.Length,
		MaxAtmospheringSpeed: v.MaxAtmospheringSpeed,
		Crew:                 v.Crew,
		Passengers:           v.Passengers,
		CargoCapacity:        v.CargoCapacity,
		Consumables:          v.Consumables,
		VehicleClass:         v.VehicleClass,
		Origin:               string(v.Origin),
	}
}

func mapStarship(ship *domain.Starship) StarshipResponse {
	resp := StarshipResponse{
		ID:                   ship.ID,
		Name:                 ship.Name,
		Model:                ship.Model,
		Manufacturer:         ship.Manufacturer,
		CostInCredits:        ship.CostInCredits,
		Length:               ship.Length,
		MaxAtmospheringSpeed: ship.MaxAtmospheringSpeed,
		Crew:                 ship.Crew,
		Passengers:           ship.Passengers,
		CargoCapacity:        ship.CargoCapacity,
		Consumables:          ship.Consumables,
		HyperdriveRating:     ship.HyperdriveRating,
		MGLT:                 ship.MGLT,
		StarshipClass:        ship.StarshipClass,
		IsCatalog:            ship.IsCatalog,
		IsActive:             ship.IsActive,
		ForkOriginID:         ship.ForkOriginID,
	}
	if ship.Origin != nil {
		origin := string(*ship.Origin)
		resp.Origin = &origin
	}
	return resp
}
