// Package domain defines the core entities of the Hangar Bay catalog.
package domain

// Origin identifies the source system a catalog row was ingested from.
type Origin string

// Origins for catalog rows. The (origin, origin key) pair uniquely identifies
// one ingested record per entity kind and is what makes sync upserts
// idempotent.
const (
	// OriginExternal marks rows ingested from the external reference feed.
	// Their origin key is the feed's stable record URL.
	OriginExternal Origin = "external"
	// OriginLocal marks rows ingested from the supplementary local dataset.
	// Their origin key is the dataset's identifier or a generated one.
	OriginLocal Origin = "local"
)

// Kind names one catalog entity kind.
type Kind string

// Entity kinds, in sync dependency order.
const (
	KindPlanet   Kind = "planet"
	KindSpecies  Kind = "species"
	KindPerson   Kind = "person"
	KindFilm     Kind = "film"
	KindStarship Kind = "starship"
	KindVehicle  Kind = "vehicle"
)

// SyncOrder is the order kinds must be upserted in: later kinds reference
// identity maps produced by earlier ones (people reference planets, films
// reference people, and so on).
var SyncOrder = []Kind{KindPlanet, KindSpecies, KindPerson, KindFilm, KindStarship, KindVehicle}
