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

// EnsureFleet returns the user's fleet, creating it on first use.
func (s *Store) EnsureFleet(ctx context.Context, userID string) (*domain.Fleet, error) {
	fleet, err := s.GetFleetByUser(ctx, userID)
	if err == nil {
		return fleet, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	now := time.Now()
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO fleets (user_id, created_at, updated_at) VALUES (?, ?, ?)`,
		userID, formatTime(now), formatTime(now))
	if err != nil {
		// A concurrent request may have created it between the lookup and
		// the insert. UNIQUE(user_id) makes the loser re-read the winner's row.
		if isUniqueViolation(err) {
			return s.GetFleetByUser(ctx, userID)
		}
		return nil, fmt.Errorf("create fleet: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("fleet insert id: %w", err)
	}
	return &domain.Fleet{ID: id, UserID: userID, CreatedAt: now, UpdatedAt: now}, nil
}

// GetFleetByUser returns the fleet owned by userID.
func (s *Store) GetFleetByUser(ctx context.Context, userID string) (*domain.Fleet, error) {
	var fleet domain.Fleet
	var createdAt, updatedAt string

	err := s.db.QueryRowContext(ctx,
		`SELECT id, user_id, created_at, updated_at FROM fleets WHERE user_id = ?`,
		userID).Scan(&fleet.ID, &fleet.UserID, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get fleet: %w", err)
	}

	if fleet.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if fleet.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &fleet, nil
}

// AddOrIncrementFleetItem inserts a fleet line or, when the ship is already in
// the fleet, atomically bumps its quantity by the given amount. An incoming
// nickname overwrites only when set.
func (s *Store) AddOrIncrementFleetItem(ctx context.Context, item *domain.FleetItem) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO fleet_items (fleet_id, starship_id, quantity, nickname, added_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(fleet_id, starship_id) DO UPDATE SET
			quantity = quantity + excluded.quantity,
			nickname = COALESCE(excluded.nickname, nickname)`,
		item.FleetID,
		item.StarshipID,
		item.Quantity,
		nullableString(item.Nickname),
		formatTime(time.Now()),
	)
	if err != nil {
		return fmt.Errorf("add fleet item: %w", err)
	}
	return nil
}

// GetFleetItem returns one fleet line.
func (s *Store) GetFleetItem(ctx context.Context, fleetID, starshipID int64) (*domain.FleetItem, error) {
	var item domain.FleetItem
	var nickname sql.NullString
	var addedAt string

	err := s.db.QueryRowContext(ctx,
		`SELECT fleet_id, starship_id, quantity, nickname, added_at
		 FROM fleet_items WHERE fleet_id = ? AND starship_id = ?`,
		fleetID, starshipID).Scan(&item.FleetID, &item.StarshipID, &item.Quantity, &nickname, &addedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get fleet item: %w", err)
	}

	item.Nickname = stringPtr(nickname)
	if item.AddedAt, err = parseTime(addedAt); err != nil {
		return nil, err
	}
	return &item, nil
}

// UpdateFleetItem overwrites a line's quantity and nickname.
func (s *Store) UpdateFleetItem(ctx context.Context, item *domain.FleetItem) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE fleet_items SET quantity = ?, nickname = ? WHERE fleet_id = ? AND starship_id = ?`,
		item.Quantity, nullableString(item.Nickname), item.FleetID, item.StarshipID)
	if err != nil {
		return fmt.Errorf("update fleet item: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return store.ErrNotFound
	}
	return nil
}

// RemoveFleetItem deletes a line regardless of its quantity.
func (s *Store) RemoveFleetItem(ctx context.Context, fleetID, starshipID int64) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM fleet_items WHERE fleet_id = ? AND starship_id = ?`,
		fleetID, starshipID)
	if err != nil {
		return fmt.Errorf("remove fleet item: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return store.ErrNotFound
	}
	return nil
}

// ListFleetItems returns a fleet's lines ordered by when they were first added.
func (s *Store) ListFleetItems(ctx context.Context, fleetID int64) ([]*domain.FleetItem, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT fleet_id, starship_id, quantity, nickname, added_at
		 FROM fleet_items WHERE fleet_id = ? ORDER BY added_at, starship_id`,
		fleetID)
	if err != nil {
		return nil, fmt.Errorf("list fleet items: %w", err)
	}
	defer rows.Close()

	var items []*domain.FleetItem
	for rows.Next() {
		var item domain.FleetItem
		var nickname sql.NullString
		var addedAt string
		if err := rows.Scan(&item.FleetID, &item.StarshipID, &item.Quantity, &nickname, &addedAt); err != nil {
			return nil, err
		}
		item.Nickname = stringPtr(nickname)
		if item.AddedAt, err = parseTime(addedAt); err != nil {
			return nil, err
		}
		items = append(items, &item)
	}
	return items, rows.Err()
}
