package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/hangarbay/hangar-server/internal/errors"
)

func TestAddItem_Aggregates(t *testing.T) {
	st := newTestStore(t)
	svc := NewFleetService(st, discardLogger())
	ctx := context.Background()

	user := createTestUser(t, st, "usr-a")
	shipID := createCatalogShip(t, st, "X-wing", "https://x/starships/12")

	require.NoError(t, svc.AddItem(ctx, user.ID, shipID, 2, nil))
	require.NoError(t, svc.AddItem(ctx, user.ID, shipID, 3, nil))

	view, err := svc.Fleet(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, view.Items, 1)
	assert.Equal(t, int64(5), view.Items[0].Item.Quantity)
	assert.Equal(t, int64(5), view.TotalShips)
	assert.Equal(t, int64(5), view.Composition["Starfighter"])
}

func TestAddItem_ClampsQuantity(t *testing.T) {
	st := newTestStore(t)
	svc := NewFleetService(st, discardLogger())
	ctx := context.Background()

	user := createTestUser(t, st, "usr-a")
	shipID := createCatalogShip(t, st, "X-wing", "https://x/starships/12")

	require.NoError(t, svc.AddItem(ctx, user.ID, shipID, -4, nil))

	view, err := svc.Fleet(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, view.Items, 1)
	assert.Equal(t, int64(1), view.Items[0].Item.Quantity)
}

func TestAddItem_Rules(t *testing.T) {
	st := newTestStore(t)
	fleets := NewFleetService(st, discardLogger())
	ships := NewStarshipService(st, fleets, discardLogger())
	ctx := context.Background()

	userA := createTestUser(t, st, "usr-a")
	userB := createTestUser(t, st, "usr-b")

	err := fleets.AddItem(ctx, userA.ID, 9999, 1, nil)
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)

	// Retired catalog ship.
	retiredID := createCatalogShip(t, st, "Death Star", "https://x/starships/9")
	require.NoError(t, st.SetStarshipActive(ctx, retiredID, false))
	err = fleets.AddItem(ctx, userA.ID, retiredID, 1, nil)
	require.ErrorIs(t, err, domainerrors.ErrValidation)
	assert.Contains(t, err.Error(), "retired catalog ship")

	// Soft-deleted custom ship, distinct message.
	custom, err := ships.CreateCustom(ctx, userA.ID, CreateStarshipRequest{
		Name: "Junker", Model: "Scrap", StarshipClass: "Freighter",
	})
	require.NoError(t, err)
	require.NoError(t, ships.DeleteOwned(ctx, userA.ID, custom.ID))
	err = fleets.AddItem(ctx, userA.ID, custom.ID, 1, nil)
	require.ErrorIs(t, err, domainerrors.ErrValidation)
	assert.Contains(t, err.Error(), "inactive custom ship")

	// Another user's active custom ship is Forbidden, not NotFound.
	active, err := ships.CreateCustom(ctx, userA.ID, CreateStarshipRequest{
		Name: "Mine", Model: "Custom", StarshipClass: "Freighter",
	})
	require.NoError(t, err)
	err = fleets.AddItem(ctx, userB.ID, active.ID, 1, nil)
	assert.ErrorIs(t, err, domainerrors.ErrForbidden)
}

func TestUpdateItem(t *testing.T) {
	st := newTestStore(t)
	svc := NewFleetService(st, discardLogger())
	ctx := context.Background()

	user := createTestUser(t, st, "usr-a")
	shipID := createCatalogShip(t, st, "X-wing", "https://x/starships/12")
	require.NoError(t, svc.AddItem(ctx, user.ID, shipID, 2, nil))

	qty := int64(-3)
	nick := "  Red Squadron  "
	require.NoError(t, svc.UpdateItem(ctx, user.ID, shipID, &qty, &nick))

	view, err := svc.Fleet(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, view.Items, 1)
	assert.Equal(t, int64(1), view.Items[0].Item.Quantity)
	require.NotNil(t, view.Items[0].Item.Nickname)
	assert.Equal(t, "Red Squadron", *view.Items[0].Item.Nickname)

	// A blank nickname clears the stored one; absent quantity is unchanged.
	blank := "   "
	require.NoError(t, svc.UpdateItem(ctx, user.ID, shipID, nil, &blank))
	view, err = svc.Fleet(ctx, user.ID)
	require.NoError(t, err)
	assert.Nil(t, view.Items[0].Item.Nickname)
	assert.Equal(t, int64(1), view.Items[0].Item.Quantity)
}

func TestUpdateRemove_OtherUsersFleet(t *testing.T) {
	st := newTestStore(t)
	svc := NewFleetService(st, discardLogger())
	ctx := context.Background()

	userA := createTestUser(t, st, "usr-a")
	userB := createTestUser(t, st, "usr-b")
	shipID := createCatalogShip(t, st, "X-wing", "https://x/starships/12")
	require.NoError(t, svc.AddItem(ctx, userA.ID, shipID, 2, nil))

	// B has no fleet at all, and A's items are invisible to B.
	qty := int64(5)
	assert.ErrorIs(t, svc.UpdateItem(ctx, userB.ID, shipID, &qty, nil), domainerrors.ErrNotFound)
	assert.ErrorIs(t, svc.RemoveItem(ctx, userB.ID, shipID), domainerrors.ErrNotFound)

	// A's fleet is untouched by B's attempts.
	view, err := svc.Fleet(ctx, userA.ID)
	require.NoError(t, err)
	require.Len(t, view.Items, 1)
	assert.Equal(t, int64(2), view.Items[0].Item.Quantity)
}

func TestRemoveItem(t *testing.T) {
	st := newTestStore(t)
	svc := NewFleetService(st, discardLogger())
	ctx := context.Background()

	user := createTestUser(t, st, "usr-a")
	shipID := createCatalogShip(t, st, "X-wing", "https://x/starships/12")
	require.NoError(t, svc.AddItem(ctx, user.ID, shipID, 3, nil))

	require.NoError(t, svc.RemoveItem(ctx, user.ID, shipID))
	assert.ErrorIs(t, svc.RemoveItem(ctx, user.ID, shipID), domainerrors.ErrNotFound)

	view, err := svc.Fleet(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, view.Items)
}

func TestFleet_EmptyWithoutAdds(t *testing.T) {
	st := newTestStore(t)
	svc := NewFleetService(st, discardLogger())
	ctx := context.Background()

	user := createTestUser(t, st, "usr-a")

	view, err := svc.Fleet(ctx, user.ID)
	require.NoError(t, err)
	assert.Nil(t, view.Fleet)
	assert.Empty(t, view.Items)
	assert.Zero(t, view.TotalShips)
}
