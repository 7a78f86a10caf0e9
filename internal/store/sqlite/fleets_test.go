package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hangarbay/hangar-server/internal/domain"
	"github.com/hangarbay/hangar-server/internal/store"
)

func TestEnsureFleet_Idempotent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	user := createTestUser(t, s, "usr-fleet")

	_, err := s.GetFleetByUser(ctx, user.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)

	fleet, err := s.EnsureFleet(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.ID, fleet.UserID)

	again, err := s.EnsureFleet(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, fleet.ID, again.ID)
}

func TestAddOrIncrementFleetItem(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	user := createTestUser(t, s, "usr-add")
	fleet, err := s.EnsureFleet(ctx, user.ID)
	require.NoError(t, err)
	shipID := upsertCatalogShip(t, s, "X-wing", "https://swapi.dev/api/starships/12/")

	require.NoError(t, s.AddOrIncrementFleetItem(ctx, &domain.FleetItem{
		FleetID: fleet.ID, StarshipID: shipID, Quantity: 2,
	}))
	require.NoError(t, s.AddOrIncrementFleetItem(ctx, &domain.FleetItem{
		FleetID: fleet.ID, StarshipID: shipID, Quantity: 3,
	}))

	item, err := s.GetFleetItem(ctx, fleet.ID, shipID)
	require.NoError(t, err)
	assert.Equal(t, int64(5), item.Quantity)
	assert.Nil(t, item.Nickname)
}

func TestAddOrIncrementFleetItem_NicknameKeptUnlessReplaced(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	user := createTestUser(t, s, "usr-nick")
	fleet, err := s.EnsureFleet(ctx, user.ID)
	require.NoError(t, err)
	shipID := upsertCatalogShip(t, s, "Falcon", "https://swapi.dev/api/starships/10/")

	nick := "Old Reliable"
	require.NoError(t, s.AddOrIncrementFleetItem(ctx, &domain.FleetItem{
		FleetID: fleet.ID, StarshipID: shipID, Quantity: 1, Nickname: &nick,
	}))

	// A re-add without a nickname leaves the stored one in place.
	require.NoError(t, s.AddOrIncrementFleetItem(ctx, &domain.FleetItem{
		FleetID: fleet.ID, StarshipID: shipID, Quantity: 1,
	}))

	item, err := s.GetFleetItem(ctx, fleet.ID, shipID)
	require.NoError(t, err)
	require.NotNil(t, item.Nickname)
	assert.Equal(t, "Old Reliable", *item.Nickname)
}

func TestUpdateAndRemoveFleetItem(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	user := createTestUser(t, s, "usr-upd")
	fleet, err := s.EnsureFleet(ctx, user.ID)
	require.NoError(t, err)
	shipID := upsertCatalogShip(t, s, "Y-wing", "https://swapi.dev/api/starships/11/")

	require.NoError(t, s.AddOrIncrementFleetItem(ctx, &domain.FleetItem{
		FleetID: fleet.ID, StarshipID: shipID, Quantity: 1,
	}))

	nick := "Gold Leader"
	require.NoError(t, s.UpdateFleetItem(ctx, &domain.FleetItem{
		FleetID: fleet.ID, StarshipID: shipID, Quantity: 4, Nickname: &nick,
	}))

	item, err := s.GetFleetItem(ctx, fleet.ID, shipID)
	require.NoError(t, err)
	assert.Equal(t, int64(4), item.Quantity)
	require.NotNil(t, item.Nickname)
	assert.Equal(t, "Gold Leader", *item.Nickname)

	require.NoError(t, s.RemoveFleetItem(ctx, fleet.ID, shipID))
	_, err = s.GetFleetItem(ctx, fleet.ID, shipID)
	assert.ErrorIs(t, err, store.ErrNotFound)

	assert.ErrorIs(t, s.RemoveFleetItem(ctx, fleet.ID, shipID), store.ErrNotFound)
	assert.ErrorIs(t, s.UpdateFleetItem(ctx, &domain.FleetItem{
		FleetID: fleet.ID, StarshipID: shipID, Quantity: 1,
	}), store.ErrNotFound)
}

func TestListFleetItems_IsolatedPerFleet(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	userA := createTestUser(t, s, "usr-a")
	userB := createTestUser(t, s, "usr-b")
	fleetA, err := s.EnsureFleet(ctx, userA.ID)
	require.NoError(t, err)
	fleetB, err := s.EnsureFleet(ctx, userB.ID)
	require.NoError(t, err)

	shipID := upsertCatalogShip(t, s, "Shared", "https://swapi.dev/api/starships/3/")
	require.NoError(t, s.AddOrIncrementFleetItem(ctx, &domain.FleetItem{
		FleetID: fleetA.ID, StarshipID: shipID, Quantity: 2,
	}))

	itemsA, err := s.ListFleetItems(ctx, fleetA.ID)
	require.NoError(t, err)
	require.Len(t, itemsA, 1)
	assert.Equal(t, int64(2), itemsA[0].Quantity)

	itemsB, err := s.ListFleetItems(ctx, fleetB.ID)
	require.NoError(t, err)
	assert.Empty(t, itemsB)
}
