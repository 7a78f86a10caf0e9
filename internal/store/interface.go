// Package store defines the persistence interface consumed by services and
// the sync pipeline, plus the sentinel errors implementations return.
package store

import (
	"context"

	"github.com/hangarbay/hangar-server/internal/domain"
)

// Store is the persistence contract. The SQLite implementation lives in
// store/sqlite; tests may substitute fakes for individual slices of it.
type Store interface {
	UserStore
	CatalogStore
	EdgeStore
	StarshipStore
	FleetStore

	Close() error
}

// UserStore persists users and refresh-token sessions.
type UserStore interface {
	CreateUser(ctx context.Context, user *domain.User) error
	GetUser(ctx context.Context, id string) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	CountUsers(ctx context.Context) (int64, error)

	CreateSession(ctx context.Context, session *domain.Session) error
	GetSessionByTokenHash(ctx context.Context, hash string) (*domain.Session, error)
	DeleteSession(ctx context.Context, id string) error
	DeleteSessionsForUser(ctx context.Context, userID string) error
}

// CatalogStore persists ingested catalog entities. Upserts are keyed by
// (origin, origin key): an existing row has every domain field overwritten in
// place, a missing row is inserted. The returned bool reports an insert.
type CatalogStore interface {
	UpsertPlanet(ctx context.Context, p *domain.Planet) (int64, bool, error)
	UpsertSpecies(ctx context.Context, sp *domain.Species) (int64, bool, error)
	UpsertPerson(ctx context.Context, p *domain.Person) (int64, bool, error)
	UpsertFilm(ctx context.Context, f *domain.Film) (int64, bool, error)
	UpsertVehicle(ctx context.Context, v *domain.Vehicle) (int64, bool, error)
	// UpsertCatalogStarship additionally forces IsCatalog=true and
	// IsActive=true on update, reactivating a retired catalog ship that
	// reappears upstream.
	UpsertCatalogStarship(ctx context.Context, s *domain.Starship) (int64, bool, error)

	// CatalogNames returns lowercased display name -> internal key for every
	// row of the kind with the given origin.
	CatalogNames(ctx context.Context, kind domain.Kind, origin domain.Origin) (map[string]int64, error)
	// CatalogKeys returns origin key -> internal key for every row of the
	// kind with the given origin.
	CatalogKeys(ctx context.Context, kind domain.Kind, origin domain.Origin) (map[string]int64, error)

	ListPlanets(ctx context.Context) ([]*domain.Planet, error)
	GetPlanet(ctx context.Context, id int64) (*domain.Planet, error)
	ListSpecies(ctx context.Context) ([]*domain.Species, error)
	GetSpecies(ctx context.Context, id int64) (*domain.Species, error)
	ListPeople(ctx context.Context) ([]*domain.Person, error)
	GetPerson(ctx context.Context, id int64) (*domain.Person, error)
	ListFilms(ctx context.Context) ([]*domain.Film, error)
	GetFilm(ctx context.Context, id int64) (*domain.Film, error)
	ListVehicles(ctx context.Context) ([]*domain.Vehicle, error)
	GetVehicle(ctx context.Context, id int64) (*domain.Vehicle, error)
}

// EdgeStore persists many-to-many association rows. Inserts are idempotent
// (duplicate edges are ignored) so augmentation re-runs stay additive.
type EdgeStore interface {
	// ClearExternalEdges deletes every association row whose declaring-side
	// entity was ingested from the external feed, leaving locally-augmented
	// edges untouched. Returns the number of rows removed.
	ClearExternalEdges(ctx context.Context) (int64, error)

	AddFilmCharacter(ctx context.Context, filmID, personID int64) error
	AddFilmPlanet(ctx context.Context, filmID, planetID int64) error
	AddFilmStarship(ctx context.Context, filmID, starshipID int64) error
	AddFilmVehicle(ctx context.Context, filmID, vehicleID int64) error
	AddFilmSpecies(ctx context.Context, filmID, speciesID int64) error
	AddPlanetResident(ctx context.Context, planetID, personID int64) error
	AddSpeciesMember(ctx context.Context, speciesID, personID int64) error
	AddStarshipPilot(ctx context.Context, starshipID, personID int64) error
	AddVehiclePilot(ctx context.Context, vehicleID, personID int64) error

	CountEdges(ctx context.Context) (int64, error)
}

// StarshipStore persists starships in all three roles (catalog, fork,
// custom).
type StarshipStore interface {
	GetStarship(ctx context.Context, id int64) (*domain.Starship, error)
	ListCatalogStarships(ctx context.Context, activeOnly bool) ([]*domain.Starship, error)
	ListStarshipsByOwner(ctx context.Context, ownerID string) ([]*domain.Starship, error)
	// FindActiveFork returns the active fork of forkOriginID owned by
	// ownerID, or ErrNotFound.
	FindActiveFork(ctx context.Context, ownerID string, forkOriginID int64) (*domain.Starship, error)
	CreateStarship(ctx context.Context, s *domain.Starship) (int64, error)
	UpdateStarship(ctx context.Context, s *domain.Starship) error
	SetStarshipActive(ctx context.Context, id int64, active bool) error
	// RetireMissingStarships deactivates active external catalog starships
	// whose origin key is absent from presentKeys. Returns how many rows
	// were flipped; already-inactive rows are not re-counted.
	RetireMissingStarships(ctx context.Context, presentKeys []string) (int64, error)
}

// FleetStore persists fleets and their items.
type FleetStore interface {
	// EnsureFleet returns the user's fleet, creating it if absent.
	EnsureFleet(ctx context.Context, userID string) (*domain.Fleet, error)
	GetFleetByUser(ctx context.Context, userID string) (*domain.Fleet, error)
	// AddOrIncrementFleetItem inserts a new item at the given quantity or,
	// if (fleetID, starshipID) already exists, atomically increments the
	// existing quantity.
	AddOrIncrementFleetItem(ctx context.Context, item *domain.FleetItem) error
	GetFleetItem(ctx context.Context, fleetID, starshipID int64) (*domain.FleetItem, error)
	UpdateFleetItem(ctx context.Context, item *domain.FleetItem) error
	RemoveFleetItem(ctx context.Context, fleetID, starshipID int64) error
	ListFleetItems(ctx context.Context, fleetID int64) ([]*domain.FleetItem, error)
}
