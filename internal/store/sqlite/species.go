package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/hangarbay/hangar-server/internal/domain"
	"github.com/hangarbay/hangar-server/internal/store"
)

const speciesColumns = `id, name, classification, designation, average_height, average_lifespan, skin_colors, hair_colors, eye_colors, language, homeworld_id, origin, origin_key, created_at, updated_at`

func scanSpecies(scanner interface{ Scan(dest ...any) error }) (*domain.Species, error) {
	var sp domain.Species
	var (
		averageHeight   sql.NullFloat64
		averageLifespan sql.NullInt64
		homeworldID     sql.NullInt64
		createdAt       string
		updatedAt       string
	)

	err := scanner.Scan(
		&sp.ID,
		&sp.Name,
		&sp.Classification,
		&sp.Designation,
		&averageHeight,
		&averageLifespan,
		&sp.SkinColors,
		&sp.HairColors,
		&sp.EyeColors,
		&sp.Language,
		&homeworldID,
		&sp.Origin,
		&sp.OriginKey,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	sp.AverageHeight = float64Ptr(averageHeight)
	sp.AverageLifespan = int64Ptr(averageLifespan)
	sp.HomeworldID = int64Ptr(homeworldID)

	if sp.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if sp.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}

	return &sp, nil
}

// UpsertSpecies creates or fully replaces a species keyed by (origin, origin key).
func (s *Store) UpsertSpecies(ctx context.Context, sp *domain.Species) (int64, bool, error) {
	now := time.Now()

	var existingID int64
	err := s.db.QueryRowContext(ctx,
		`SELECT id FROM species WHERE origin = ? AND origin_key = ?`,
		sp.Origin, sp.OriginKey).Scan(&existingID)

	switch {
	case errors.Is(err, sql.ErrNoRows):
		res, err := s.db.ExecContext(ctx, `
			INSERT INTO species (name, classification, designation, average_height, average_lifespan, skin_colors, hair_colors, eye_colors, language, homeworld_id, origin, origin_key, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			sp.Name,
			sp.Classification,
			sp.Designation,
			nullableFloat64(sp.AverageHeight),
			nullableInt64(sp.AverageLifespan),
			sp.SkinColors,
			sp.HairColors,
			sp.EyeColors,
			sp.Language,
			nullableInt64(sp.HomeworldID),
			sp.Origin,
			sp.OriginKey,
			formatTime(now),
			formatTime(now),
		)
		if err != nil {
			return 0, false, fmt.Errorf("insert species: %w", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return 0, false, fmt.Errorf("species insert id: %w", err)
		}
		sp.ID = id
		return id, true, nil

	case err != nil:
		return 0, false, fmt.Errorf("lookup species: %w", err)

	default:
		_, err := s.db.ExecContext(ctx, `
			UPDATE species
			SET name = ?, classification = ?, designation = ?, average_height = ?, average_lifespan = ?, skin_colors = ?, hair_colors = ?, eye_colors = ?, language = ?, homeworld_id = ?, updated_at = ?
			WHERE id = ?`,
			sp.Name,
			sp.Classification,
			sp.Designation,
			nullableFloat64(sp.AverageHeight),
			nullableInt64(sp.AverageLifespan),
			sp.SkinColors,
			sp.HairColors,
			sp.EyeColors,
			sp.Language,
			nullableInt64(sp.HomeworldID),
			formatTime(now),
			existingID,
		)
		if err != nil {
			return 0, false, fmt.Errorf("update species: %w", err)
		}
		sp.ID = existingID
		return existingID, false, nil
	}
}

// ListSpecies returns every species ordered by name.
func (s *Store) ListSpecies(ctx context.Context) ([]*domain.Species, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+speciesColumns+` FROM species ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list species: %w", err)
	}
	defer rows.Close()

	var species []*domain.Species
	for rows.Next() {
		sp, err := scanSpecies(rows)
		if err != nil {
			return nil, err
		}
		species = append(species, sp)
	}
	return species, rows.Err()
}

// GetSpecies returns a species by internal key.
func (s *Store) GetSpecies(ctx context.Context, id int64) (*domain.Species, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+speciesColumns+` FROM species WHERE id = ?`, id)

	sp, err := scanSpecies(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get species: %w", err)
	}
	return sp, nil
}
