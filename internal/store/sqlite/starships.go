package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/hangarbay/hangar-server/internal/domain"
	"github.com/hangarbay/hangar-server/internal/store"
)

const starshipColumns = `id, name, model, manufacturer, cost_in_credits, length, max_atmosphering_speed, crew, passengers, cargo_capacity, consumables, hyperdrive_rating, mglt, starship_class, is_catalog, is_active, owner_id, fork_origin_id, origin, origin_key, created_at, updated_at`

func scanStarship(scanner interface{ Scan(dest ...any) error }) (*domain.Starship, error) {
	var ship domain.Starship
	var (
		cost         sql.NullInt64
		length       sql.NullFloat64
		maxSpeed     sql.NullInt64
		cargo        sql.NullInt64
		hyperdrive   sql.NullFloat64
		mglt         sql.NullInt64
		ownerID      sql.NullString
		forkOriginID sql.NullInt64
		origin       sql.NullString
		originKey    sql.NullString
		createdAt    string
		updatedAt    string
	)

	err := scanner.Scan(
		&ship.ID,
		&ship.Name,
		&ship.Model,
		&ship.Manufacturer,
		&cost,
		&length,
		&maxSpeed,
		&ship.Crew,
		&ship.Passengers,
		&cargo,
		&ship.Consumables,
		&hyperdrive,
		&mglt,
		&ship.StarshipClass,
		&ship.IsCatalog,
		&ship.IsActive,
		&ownerID,
		&forkOriginID,
		&origin,
		&originKey,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	ship.CostInCredits = int64Ptr(cost)
	ship.Length = float64Ptr(length)
	ship.MaxAtmospheringSpeed = int64Ptr(maxSpeed)
	ship.CargoCapacity = int64Ptr(cargo)
	ship.HyperdriveRating = float64Ptr(hyperdrive)
	ship.MGLT = int64Ptr(mglt)
	ship.OwnerID = stringPtr(ownerID)
	ship.ForkOriginID = int64Ptr(forkOriginID)
	if origin.Valid {
		o := domain.Origin(origin.String)
		ship.Origin = &o
	}
	ship.OriginKey = stringPtr(originKey)

	if ship.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if ship.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}

	return &ship, nil
}

// UpsertCatalogStarship creates or fully replaces a catalog starship keyed by
// (origin, origin key). An update forces is_catalog=1 and is_active=1 so a
// previously retired ship that reappears upstream is reactivated.
func (s *Store) UpsertCatalogStarship(ctx context.Context, ship *domain.Starship) (int64, bool, error) {
	if ship.Origin == nil || ship.OriginKey == nil {
		return 0, false, fmt.Errorf("catalog starship requires origin and origin key")
	}

	now := time.Now()

	var existingID int64
	err := s.db.QueryRowContext(ctx,
		`SELECT id FROM starships WHERE origin = ? AND origin_key = ?`,
		*ship.Origin, *ship.OriginKey).Scan(&existingID)

	switch {
	case errors.Is(err, sql.ErrNoRows):
		res, err := s.db.ExecContext(ctx, `
			INSERT INTO starships (name, model, manufacturer, cost_in_credits, length, max_atmosphering_speed, crew, passengers, cargo_capacity, consumables, hyperdrive_rating, mglt, starship_class, is_catalog, is_active, origin, origin_key, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 1, 1, ?, ?, ?, ?)`,
			ship.Name,
			ship.Model,
			ship.Manufacturer,
			nullableInt64(ship.CostInCredits),
			nullableFloat64(ship.Length),
			nullableInt64(ship.MaxAtmospheringSpeed),
			ship.Crew,
			ship.Passengers,
			nullableInt64(ship.CargoCapacity),
			ship.Consumables,
			nullableFloat64(ship.HyperdriveRating),
			nullableInt64(ship.MGLT),
			ship.StarshipClass,
			*ship.Origin,
			*ship.OriginKey,
			formatTime(now),
			formatTime(now),
		)
		if err != nil {
			return 0, false, fmt.Errorf("insert starship: %w", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return 0, false, fmt.Errorf("starship insert id: %w", err)
		}
		ship.ID = id
		ship.IsCatalog = true
		ship.IsActive = true
		return id, true, nil

	case err != nil:
		return 0, false, fmt.Errorf("lookup starship: %w", err)

	default:
		_, err := s.db.ExecContext(ctx, `
			UPDATE starships
			SET name = ?, model = ?, manufacturer = ?, cost_in_credits = ?, length = ?, max_atmosphering_speed = ?, crew = ?, passengers = ?, cargo_capacity = ?, consumables = ?, hyperdrive_rating = ?, mglt = ?, starship_class = ?, is_catalog = 1, is_active = 1, updated_at = ?
			WHERE id = ?`,
			ship.Name,
			ship.Model,
			ship.Manufacturer,
			nullableInt64(ship.CostInCredits),
			nullableFloat64(ship.Length),
			nullableInt64(ship.MaxAtmospheringSpeed),
			ship.Crew,
			ship.Passengers,
			nullableInt64(ship.CargoCapacity),
			ship.Consumables,
			nullableFloat64(ship.HyperdriveRating),
			nullableInt64(ship.MGLT),
			ship.StarshipClass,
			formatTime(now),
			existingID,
		)
		if err != nil {
			return 0, false, fmt.Errorf("update starship: %w", err)
		}
		ship.ID = existingID
		ship.IsCatalog = true
		ship.IsActive = true
		return existingID, false, nil
	}
}

// CreateStarship inserts a fork or from-scratch custom starship owned by a user.
func (s *Store) CreateStarship(ctx context.Context, ship *domain.Starship) (int64, error) {
	now := time.Now()
	var origin sql.NullString
	if ship.Origin != nil {
		origin = sql.NullString{String: string(*ship.Origin), Valid: true}
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO starships (name, model, manufacturer, cost_in_credits, length, max_atmosphering_speed, crew, passengers, cargo_capacity, consumables, hyperdrive_rating, mglt, starship_class, is_catalog, is_active, owner_id, fork_origin_id, origin, origin_key, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		ship.Name,
		ship.Model,
		ship.Manufacturer,
		nullableInt64(ship.CostInCredits),
		nullableFloat64(ship.Length),
		nullableInt64(ship.MaxAtmospheringSpeed),
		ship.Crew,
		ship.Passengers,
		nullableInt64(ship.CargoCapacity),
		ship.Consumables,
		nullableFloat64(ship.HyperdriveRating),
		nullableInt64(ship.MGLT),
		ship.StarshipClass,
		ship.IsCatalog,
		ship.IsActive,
		nullableString(ship.OwnerID),
		nullableInt64(ship.ForkOriginID),
		origin,
		nullableString(ship.OriginKey),
		formatTime(now),
		formatTime(now),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, store.ErrAlreadyExists
		}
		return 0, fmt.Errorf("insert starship: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("starship insert id: %w", err)
	}
	ship.ID = id
	ship.CreatedAt = now
	ship.UpdatedAt = now
	return id, nil
}

// UpdateStarship rewrites a starship's domain fields. Role fields
// (is_catalog, owner_id, fork_origin_id, origin) are immutable after create.
func (s *Store) UpdateStarship(ctx context.Context, ship *domain.Starship) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE starships
		SET name = ?, model = ?, manufacturer = ?, cost_in_credits = ?, length = ?, max_atmosphering_speed = ?, crew = ?, passengers = ?, cargo_capacity = ?, consumables = ?, hyperdrive_rating = ?, mglt = ?, starship_class = ?, is_active = ?, updated_at = ?
		WHERE id = ?`,
		ship.Name,
		ship.Model,
		ship.Manufacturer,
		nullableInt64(ship.CostInCredits),
		nullableFloat64(ship.Length),
		nullableInt64(ship.MaxAtmospheringSpeed),
		ship.Crew,
		ship.Passengers,
		nullableInt64(ship.CargoCapacity),
		ship.Consumables,
		nullableFloat64(ship.HyperdriveRating),
		nullableInt64(ship.MGLT),
		ship.StarshipClass,
		ship.IsActive,
		formatTime(time.Now()),
		ship.ID,
	)
	if err != nil {
		return fmt.Errorf("update starship: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return store.ErrNotFound
	}
	return nil
}

// GetStarship returns a starship by internal key.
func (s *Store) GetStarship(ctx context.Context, id int64) (*domain.Starship, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+starshipColumns+` FROM starships WHERE id = ?`, id)

	ship, err := scanStarship(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get starship: %w", err)
	}
	return ship, nil
}

// ListCatalogStarships returns catalog starships ordered by name.
func (s *Store) ListCatalogStarships(ctx context.Context, activeOnly bool) ([]*domain.Starship, error) {
	query := `SELECT ` + starshipColumns + ` FROM starships WHERE is_catalog = 1`
	if activeOnly {
		query += ` AND is_active = 1`
	}
	query += ` ORDER BY name`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list catalog starships: %w", err)
	}
	defer rows.Close()

	return collectStarships(rows)
}

// ListStarshipsByOwner returns a user's active forks and customs ordered by name.
func (s *Store) ListStarshipsByOwner(ctx context.Context, ownerID string) ([]*domain.Starship, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+starshipColumns+` FROM starships WHERE owner_id = ? AND is_active = 1 ORDER BY name`,
		ownerID)
	if err != nil {
		return nil, fmt.Errorf("list starships by owner: %w", err)
	}
	defer rows.Close()

	return collectStarships(rows)
}

// FindActiveFork returns the active fork of forkOriginID owned by ownerID.
func (s *Store) FindActiveFork(ctx context.Context, ownerID string, forkOriginID int64) (*domain.Starship, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+starshipColumns+` FROM starships
		 WHERE owner_id = ? AND fork_origin_id = ? AND is_active = 1`,
		ownerID, forkOriginID)

	ship, err := scanStarship(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find active fork: %w", err)
	}
	return ship, nil
}

// SetStarshipActive flips a starship's active flag. Idempotent.
func (s *Store) SetStarshipActive(ctx context.Context, id int64, active bool) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE starships SET is_active = ?, updated_at = ? WHERE id = ?`,
		active, formatTime(time.Now()), id)
	if err != nil {
		return fmt.Errorf("set starship active: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return store.ErrNotFound
	}
	return nil
}

// RetireMissingStarships deactivates active external catalog starships whose
// origin key is not in presentKeys. Already-inactive rows stay untouched so
// the returned count only reflects newly retired ships.
func (s *Store) RetireMissingStarships(ctx context.Context, presentKeys []string) (int64, error) {
	query := `UPDATE starships SET is_active = 0, updated_at = ?
		WHERE is_catalog = 1 AND origin = ? AND is_active = 1`
	args := []any{formatTime(time.Now()), domain.OriginExternal}

	if len(presentKeys) > 0 {
		placeholders := strings.Repeat("?,", len(presentKeys))
		query += ` AND origin_key NOT IN (` + placeholders[:len(placeholders)-1] + `)`
		for _, key := range presentKeys {
			args = append(args, key)
		}
	}

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("retire missing starships: %w", err)
	}
	return res.RowsAffected()
}

func collectStarships(rows *sql.Rows) ([]*domain.Starship, error) {
	var ships []*domain.Starship
	for rows.Next() {
		ship, err := scanStarship(rows)
		if err != nil {
			return nil, err
		}
		ships = append(ships, ship)
	}
	return ships, rows.Err()
}
