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

const personColumns = `id, name, height, mass, hair_color, skin_color, eye_color, birth_year, gender, homeworld_id, origin, origin_key, created_at, updated_at`

func scanPerson(scanner interface{ Scan(dest ...any) error }) (*domain.Person, error) {
	var p domain.Person
	var (
		height      sql.NullFloat64
		mass        sql.NullFloat64
		homeworldID sql.NullInt64
		createdAt   string
		updatedAt   string
	)

	err := scanner.Scan(
		&p.ID,
		&p.Name,
		&height,
		&mass,
		&p.HairColor,
		&p.SkinColor,
		&p.EyeColor,
		&p.BirthYear,
		&p.Gender,
		&homeworldID,
		&p.Origin,
		&p.OriginKey,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	p.Height = float64Ptr(height)
	p.Mass = float64Ptr(mass)
	p.HomeworldID = int64Ptr(homeworldID)

	if p.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if p.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}

	return &p, nil
}

// UpsertPerson creates or fully replaces a person keyed by (origin, origin key).
func (s *Store) UpsertPerson(ctx context.Context, p *domain.Person) (int64, bool, error) {
	now := time.Now()

	var existingID int64
	err := s.db.QueryRowContext(ctx,
		`SELECT id FROM people WHERE origin = ? AND origin_key = ?`,
		p.Origin, p.OriginKey).Scan(&existingID)

	switch {
	case errors.Is(err, sql.ErrNoRows):
		res, err := s.db.ExecContext(ctx, `
			INSERT INTO people (name, height, mass, hair_color, skin_color, eye_color, birth_year, gender, homeworld_id, origin, origin_key, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			p.Name,
			nullableFloat64(p.Height),
			nullableFloat64(p.Mass),
			p.HairColor,
			p.SkinColor,
			p.EyeColor,
			p.BirthYear,
			p.Gender,
			nullableInt64(p.HomeworldID),
			p.Origin,
			p.OriginKey,
			formatTime(now),
			formatTime(now),
		)
		if err != nil {
			return 0, false, fmt.Errorf("insert person: %w", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return 0, false, fmt.Errorf("person insert id: %w", err)
		}
		p.ID = id
		return id, true, nil

	case err != nil:
		return 0, false, fmt.Errorf("lookup person: %w", err)

	default:
		_, err := s.db.ExecContext(ctx, `
			UPDATE people
			SET name = ?, height = ?, mass = ?, hair_color = ?, skin_color = ?, eye_color = ?, birth_year = ?, gender = ?, homeworld_id = ?, updated_at = ?
			WHERE id = ?`,
			p.Name,
			nullableFloat64(p.Height),
			nullableFloat64(p.Mass),
			p.HairColor,
			p.SkinColor,
			p.EyeColor,
			p.BirthYear,
			p.Gender,
			nullableInt64(p.HomeworldID),
			formatTime(now),
			existingID,
		)
		if err != nil {
			return 0, false, fmt.Errorf("update person: %w", err)
		}
		p.ID = existingID
		return existingID, false, nil
	}
}

// ListPeople returns every person ordered by name.
func (s *Store) ListPeople(ctx context.Context) ([]*domain.Person, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+personColumns+` FROM people ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list people: %w", err)
	}
	defer rows.Close()

	var people []*domain.Person
	for rows.Next() {
		p, err := scanPerson(rows)
		if err != nil {
			return nil, err
		}
		people = append(people, p)
	}
	return people, rows.Err()
}

// GetPerson returns a person by internal key.
func (s *Store) GetPerson(ctx context.Context, id int64) (*domain.Person, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+personColumns+` FROM people WHERE id = ?`, id)

	p, err := scanPerson(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get person: %w", err)
	}
	return p, nil
}
