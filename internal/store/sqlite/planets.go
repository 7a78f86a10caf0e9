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

const planetColumns = `id, name, rotation_period, orbital_period, diameter, climate, gravity, terrain, surface_water, population, origin, origin_key, created_at, updated_at`

func scanPlanet(scanner interface{ Scan(dest ...any) error }) (*domain.Planet, error) {
	var p domain.Planet
	var (
		rotationPeriod sql.NullInt64
		orbitalPeriod  sql.NullInt64
		diameter       sql.NullInt64
		surfaceWater   sql.NullFloat64
		population     sql.NullInt64
		createdAt      string
		updatedAt      string
	)

	err := scanner.Scan(
		&p.ID,
		&p.Name,
		&rotationPeriod,
		&orbitalPeriod,
		&diameter,
		&p.Climate,
		&p.Gravity,
		&p.Terrain,
		&surfaceWater,
		&population,
		&p.Origin,
		&p.OriginKey,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	p.RotationPeriod = int64Ptr(rotationPeriod)
	p.OrbitalPeriod = int64Ptr(orbitalPeriod)
	p.Diameter = int64Ptr(diameter)
	p.SurfaceWater = float64Ptr(surfaceWater)
	p.Population = int64Ptr(population)

	if p.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if p.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}

	return &p, nil
}

// UpsertPlanet creates or fully replaces a planet keyed by (origin, origin key).
func (s *Store) UpsertPlanet(ctx context.Context, p *domain.Planet) (int64, bool, error) {
	now := time.Now()

	var existingID int64
	err := s.db.QueryRowContext(ctx,
		`SELECT id FROM planets WHERE origin = ? AND origin_key = ?`,
		p.Origin, p.OriginKey).Scan(&existingID)

	switch {
	case errors.Is(err, sql.ErrNoRows):
		res, err := s.db.ExecContext(ctx, `
			INSERT INTO planets (name, rotation_period, orbital_period, diameter, climate, gravity, terrain, surface_water, population, origin, origin_key, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			p.Name,
			nullableInt64(p.RotationPeriod),
			nullableInt64(p.OrbitalPeriod),
			nullableInt64(p.Diameter),
			p.Climate,
			p.Gravity,
			p.Terrain,
			nullableFloat64(p.SurfaceWater),
			nullableInt64(p.Population),
			p.Origin,
			p.OriginKey,
			formatTime(now),
			formatTime(now),
		)
		if err != nil {
			return 0, false, fmt.Errorf("insert planet: %w", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return 0, false, fmt.Errorf("planet insert id: %w", err)
		}
		p.ID = id
		return id, true, nil

	case err != nil:
		return 0, false, fmt.Errorf("lookup planet: %w", err)

	default:
		_, err := s.db.ExecContext(ctx, `
			UPDATE planets
			SET name = ?, rotation_period = ?, orbital_period = ?, diameter = ?, climate = ?, gravity = ?, terrain = ?, surface_water = ?, population = ?, updated_at = ?
			WHERE id = ?`,
			p.Name,
			nullableInt64(p.RotationPeriod),
			nullableInt64(p.OrbitalPeriod),
			nullableInt64(p.Diameter),
			p.Climate,
			p.Gravity,
			p.Terrain,
			nullableFloat64(p.SurfaceWater),
			nullableInt64(p.Population),
			formatTime(now),
			existingID,
		)
		if err != nil {
			return 0, false, fmt.Errorf("update planet: %w", err)
		}
		p.ID = existingID
		return existingID, false, nil
	}
}

// ListPlanets returns every planet ordered by name.
func (s *Store) ListPlanets(ctx context.Context) ([]*domain.Planet, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+planetColumns+` FROM planets ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list planets: %w", err)
	}
	defer rows.Close()

	var planets []*domain.Planet
	for rows.Next() {
		p, err := scanPlanet(rows)
		if err != nil {
			return nil, err
		}
		planets = append(planets, p)
	}
	return planets, rows.Err()
}

// GetPlanet returns a planet by internal key.
func (s *Store) GetPlanet(ctx context.Context, id int64) (*domain.Planet, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+planetColumns+` FROM planets WHERE id = ?`, id)

	p, err := scanPlanet(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get planet: %w", err)
	}
	return p, nil
}
