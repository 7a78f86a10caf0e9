// Package localdata loads the supplementary per-kind dataset files used by
// the sync pipeline's augmentation stage. Records are shaped like the feed's
// DTOs but carry an explicit local identifier, and their relationship lists
// may reference either feed identifiers or other local identifiers.
package localdata

import (
	"encoding/json/v2"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hangarbay/hangar-server/internal/starfeed"
)

// Planet is a supplementary planet record.
type Planet struct {
	starfeed.Planet
	LocalID string `json:"local_id"`
}

// Species is a supplementary species record.
type Species struct {
	starfeed.Species
	LocalID string `json:"local_id"`
}

// Person is a supplementary person record.
type Person struct {
	starfeed.Person
	LocalID string `json:"local_id"`
}

// Film is a supplementary film record.
type Film struct {
	starfeed.Film
	LocalID string `json:"local_id"`
}

// Starship is a supplementary starship record.
type Starship struct {
	starfeed.Starship
	LocalID string `json:"local_id"`
}

// Vehicle is a supplementary vehicle record.
type Vehicle struct {
	starfeed.Vehicle
	LocalID string `json:"local_id"`
}

// container is the envelope each dataset file wraps its records in.
type container[T any] struct {
	Records []T `json:"records"`
}

// Dataset reads supplementary records from a directory of per-kind JSON
// files (planets.json, species.json, people.json, films.json,
// starships.json, vehicles.json). A missing file means no records of that
// kind, not an error.
type Dataset struct {
	dir string
}

// Open returns a dataset rooted at dir.
func Open(dir string) *Dataset {
	return &Dataset{dir: dir}
}

// LoadPlanets returns the supplementary planet records.
func (d *Dataset) LoadPlanets() ([]Planet, error) {
	return loadFile[Planet](d.dir, "planets.json")
}

// LoadSpecies returns the supplementary species records.
func (d *Dataset) LoadSpecies() ([]Species, error) {
	return loadFile[Species](d.dir, "species.json")
}

// LoadPeople returns the supplementary person records.
func (d *Dataset) LoadPeople() ([]Person, error) {
	return loadFile[Person](d.dir, "people.json")
}

// LoadFilms returns the supplementary film records.
func (d *Dataset) LoadFilms() ([]Film, error) {
	return loadFile[Film](d.dir, "films.json")
}

// LoadStarships returns the supplementary starship records.
func (d *Dataset) LoadStarships() ([]Starship, error) {
	return loadFile[Starship](d.dir, "starships.json")
}

// LoadVehicles returns the supplementary vehicle records.
func (d *Dataset) LoadVehicles() ([]Vehicle, error) {
	return loadFile[Vehicle](d.dir, "vehicles.json")
}

func loadFile[T any](dir, name string) ([]T, error) {
	path := filepath.Join(dir, name)

	data, err := os.ReadFile(path) //#nosec G304 -- Dataset dir comes from validated config
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read %s: %w", name, err)
	}

	var c container[T]
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("decode %s: %w", name, err)
	}

	return c.Records, nil
}
