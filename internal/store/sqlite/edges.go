package sqlite

import (
	"context"
	"fmt"

	"github.com/hangarbay/hangar-server/internal/domain"
)

// Edge tables keyed by the kind that declares the relationship in the feed.
// Clearing is scoped to external declaring rows so locally augmented edges
// survive a resync untouched.
var edgeTables = []struct {
	table     string
	declaring string
}{
	{"film_characters", "film_id"},
	{"film_planets", "film_id"},
	{"film_starships", "film_id"},
	{"film_vehicles", "film_id"},
	{"film_species", "film_id"},
	{"planet_residents", "planet_id"},
	{"species_members", "species_id"},
	{"starship_pilots", "starship_id"},
	{"vehicle_pilots", "vehicle_id"},
}

var declaringTable = map[string]string{
	"film_id":     "films",
	"planet_id":   "planets",
	"species_id":  "species",
	"starship_id": "starships",
	"vehicle_id":  "vehicles",
}

// ClearExternalEdges deletes every edge whose declaring entity came from the
// external feed and returns the number of rows removed.
func (s *Store) ClearExternalEdges(ctx context.Context) (int64, error) {
	var total int64
	for _, edge := range edgeTables {
		query := fmt.Sprintf(
			`DELETE FROM %s WHERE %s IN (SELECT id FROM %s WHERE origin = ?)`,
			edge.table, edge.declaring, declaringTable[edge.declaring])
		res, err := s.db.ExecContext(ctx, query, domain.OriginExternal)
		if err != nil {
			return total, fmt.Errorf("clear %s: %w", edge.table, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return total, fmt.Errorf("clear %s rows: %w", edge.table, err)
		}
		total += n
	}
	return total, nil
}

func (s *Store) addEdge(ctx context.Context, table, colA, colB string, a, b int64) error {
	query := fmt.Sprintf(`INSERT OR IGNORE INTO %s (%s, %s) VALUES (?, ?)`, table, colA, colB)
	if _, err := s.db.ExecContext(ctx, query, a, b); err != nil {
		return fmt.Errorf("add %s edge: %w", table, err)
	}
	return nil
}

func (s *Store) AddFilmCharacter(ctx context.Context, filmID, personID int64) error {
	return s.addEdge(ctx, "film_characters", "film_id", "person_id", filmID, personID)
}

func (s *Store) AddFilmPlanet(ctx context.Context, filmID, planetID int64) error {
	return s.addEdge(ctx, "film_planets", "film_id", "planet_id", filmID, planetID)
}

func (s *Store) AddFilmStarship(ctx context.Context, filmID, starshipID int64) error {
	return s.addEdge(ctx, "film_starships", "film_id", "starship_id", filmID, starshipID)
}

func (s *Store) AddFilmVehicle(ctx context.Context, filmID, vehicleID int64) error {
	return s.addEdge(ctx, "film_vehicles", "film_id", "vehicle_id", filmID, vehicleID)
}

func (s *Store) AddFilmSpecies(ctx context.Context, filmID, speciesID int64) error {
	return s.addEdge(ctx, "film_species", "film_id", "species_id", filmID, speciesID)
}

func (s *Store) AddPlanetResident(ctx context.Context, planetID, personID int64) error {
	return s.addEdge(ctx, "planet_residents", "planet_id", "person_id", planetID, personID)
}

func (s *Store) AddSpeciesMember(ctx context.Context, speciesID, personID int64) error {
	return s.addEdge(ctx, "species_members", "species_id", "person_id", speciesID, personID)
}

func (s *Store) AddStarshipPilot(ctx context.Context, starshipID, personID int64) error {
	return s.addEdge(ctx, "starship_pilots", "starship_id", "person_id", starshipID, personID)
}

func (s *Store) AddVehiclePilot(ctx context.Context, vehicleID, personID int64) error {
	return s.addEdge(ctx, "vehicle_pilots", "vehicle_id", "person_id", vehicleID, personID)
}

// CountEdges returns the total number of relationship rows across all edge tables.
func (s *Store) CountEdges(ctx context.Context) (int64, error) {
	var total int64
	for _, edge := range edgeTables {
		var n int64
		query := fmt.Sprintf(`SELECT COUNT(*) FROM %s`, edge.table)
		if err := s.db.QueryRowContext(ctx, query).Scan(&n); err != nil {
			return total, fmt.Errorf("count %s: %w", edge.table, err)
		}
		total += n
	}
	return total, nil
}
