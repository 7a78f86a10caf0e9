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

const vehicleColumns = `id, name, model, manufacturer, cost_in_credits, length, max_atmosphering_speed, crew, passengers, cargo_capacity, consumables, vehicle_class, origin, origin_key, created_at, updated_at`

func scanVehicle(scanner interface{ Scan(dest ...any) error }) (*domain.Vehicle, error) {
	var v domain.Vehicle
	var (
		cost      sql.NullInt64
		length    sql.NullFloat64
		maxSpeed  sql.NullInt64
		cargo     sql.NullInt64
		createdAt string
		updatedAt string
	)

	err := scanner.Scan(
		&v.ID,
		&v.Name,
		&v.Model,
		&v.Manufacturer,
		&cost,
		&length,
		&maxSpeed,
		&v.Crew,
		&v.Passengers,
		&cargo,
		&v.Consumables,
		&v.VehicleClass,
		&v.Origin,
		&v.OriginKey,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	v.CostInCredits = int64Ptr(cost)
	v.Length = float64Ptr(length)
	v.MaxAtmospheringSpeed = int64Ptr(maxSpeed)
	v.CargoCapacity = int64Ptr(cargo)

	if v.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if v.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}

	return &v, nil
}

// UpsertVehicle creates or fully replaces a vehicle keyed by (origin, origin key).
func (s *Store) UpsertVehicle(ctx context.Context, v *domain.Vehicle) (int64, bool, error) {
	now := time.Now()

	var existingID int64
	err := s.db.QueryRowContext(ctx,
		`SELECT id FROM vehicles WHERE origin = ? AND origin_key = ?`,
		v.Origin, v.OriginKey).Scan(&existingID)

	switch {
	case errors.Is(err, sql.ErrNoRows):
		res, err := s.db.ExecContext(ctx, `
			INSERT INTO vehicles (name, model, manufacturer, cost_in_credits, length, max_atmosphering_speed, crew, passengers, cargo_capacity, consumables, vehicle_class, origin, origin_key, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			v.Name,
			v.Model,
			v.Manufacturer,
			nullableInt64(v.CostInCredits),
			nullableFloat64(v.Length),
			nullableInt64(v.MaxAtmospheringSpeed),
			v.Crew,
			v.Passengers,
			nullableInt64(v.CargoCapacity),
			v.Consumables,
			v.VehicleClass,
			v.Origin,
			v.OriginKey,
			formatTime(now),
			formatTime(now),
		)
		if err != nil {
			return 0, false, fmt.Errorf("insert vehicle: %w", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return 0, false, fmt.Errorf("vehicle insert id: %w", err)
		}
		v.ID = id
		return id, true, nil

	case err != nil:
		return 0, false, fmt.Errorf("lookup vehicle: %w", err)

	default:
		_, err := s.db.ExecContext(ctx, `
			UPDATE vehicles
			SET name = ?, model = ?, manufacturer = ?, cost_in_credits = ?, length = ?, max_atmosphering_speed = ?, crew = ?, passengers = ?, cargo_capacity = ?, consumables = ?, vehicle_class = ?, updated_at = ?
			WHERE id = ?`,
			v.Name,
			v.Model,
			v.Manufacturer,
			nullableInt64(v.CostInCredits),
			nullableFloat64(v.Length),
			nullableInt64(v.MaxAtmospheringSpeed),
			v.Crew,
			v.Passengers,
			nullableInt64(v.CargoCapacity),
			v.Consumables,
			v.VehicleClass,
			formatTime(now),
			existingID,
		)
		if err != nil {
			return 0, false, fmt.Errorf("update vehicle: %w", err)
		}
		v.ID = existingID
		return existingID, false, nil
	}
}

// ListVehicles returns every vehicle ordered by name.
func (s *Store) ListVehicles(ctx context.Context) ([]*domain.Vehicle, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+vehicleColumns+` FROM vehicles ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list vehicles: %w", err)
	}
	defer rows.Close()

	var vehicles []*domain.Vehicle
	for rows.Next() {
		v, err := scanVehicle(rows)
		if err != nil {
			return nil, err
		}
		vehicles = append(vehicles, v)
	}
	return vehicles, rows.Err()
}

// GetVehicle returns a vehicle by internal key.
func (s *Store) GetVehicle(ctx context.Context, id int64) (*domain.Vehicle, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+vehicleColumns+` FROM vehicles WHERE id = ?`, id)

	v, err := scanVehicle(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get vehicle: %w", err)
	}
	return v, nil
}
