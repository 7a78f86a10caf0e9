package sqlite

import (
	"context"
	"fmt"
	"strings"

	"github.com/hangarbay/hangar-server/internal/domain"
)

func kindTable(kind domain.Kind) (table, nameColumn string, err error) {
	switch kind {
	case domain.KindPlanet:
		return "planets", "name", nil
	case domain.KindSpecies:
		return "species", "name", nil
	case domain.KindPerson:
		return "people", "name", nil
	case domain.KindFilm:
		return "films", "title", nil
	case domain.KindStarship:
		return "starships", "name", nil
	case domain.KindVehicle:
		return "vehicles", "name", nil
	default:
		return "", "", fmt.Errorf("unknown catalog kind %q", kind)
	}
}

// CatalogNames returns a lowercased name to id map for one kind and origin.
func (s *Store) CatalogNames(ctx context.Context, kind domain.Kind, origin domain.Origin) (map[string]int64, error) {
	table, nameColumn, err := kindTable(kind)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`SELECT id, %s FROM %s WHERE origin = ?`, nameColumn, table)
	rows, err := s.db.QueryContext(ctx, query, origin)
	if err != nil {
		return nil, fmt.Errorf("catalog names %s: %w", table, err)
	}
	defer rows.Close()

	names := make(map[string]int64)
	for rows.Next() {
		var id int64
		var name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, err
		}
		names[strings.ToLower(name)] = id
	}
	return names, rows.Err()
}

// CatalogKeys returns an origin key to id map for one kind and origin.
func (s *Store) CatalogKeys(ctx context.Context, kind domain.Kind, origin domain.Origin) (map[string]int64, error) {
	table, _, err := kindTable(kind)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`SELECT id, origin_key FROM %s WHERE origin = ?`, table)
	rows, err := s.db.QueryContext(ctx, query, origin)
	if err != nil {
		return nil, fmt.Errorf("catalog keys %s: %w", table, err)
	}
	defer rows.Close()

	keys := make(map[string]int64)
	for rows.Next() {
		var id int64
		var key string
		if err := rows.Scan(&id, &key); err != nil {
			return nil, err
		}
		keys[key] = id
	}
	return keys, rows.Err()
}
