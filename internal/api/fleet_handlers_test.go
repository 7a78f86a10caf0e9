package api

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFleet_AddAndAggregate(t *testing.T) {
	ts := setupTestServer(t)
	token := ts.registerUser(t, "pilot@example.com")
	shipID := ts.seedCatalogShip(t, "X-wing", "https://x/starships/12")

	resp := ts.api.Post("/api/v1/fleet/items", bearer(token), map[string]any{
		"starship_id": shipID,
		"quantity":    2,
	})
	require.Equal(t, http.StatusNoContent, resp.Code, resp.Body.String())

	// Re-adding increments the quantity.
	resp = ts.api.Post("/api/v1/fleet/items", bearer(token), map[string]any{
		"starship_id": shipID,
		"quantity":    3,
		"nickname":    "Red Five",
	})
	require.Equal(t, http.StatusNoContent, resp.Code)

	resp = ts.api.Get("/api/v1/fleet", bearer(token))
	require.Equal(t, http.StatusOK, resp.Code)

	fleet := decodeEnvelope[FleetResponse](t, resp).Data
	require.Len(t, fleet.Items, 1)
	assert.Equal(t, int64(5), fleet.Items[0].Quantity)
	require.NotNil(t, fleet.Items[0].Nickname)
	assert.Equal(t, "Red Five", *fleet.Items[0].Nickname)
	assert.Equal(t, int64(5), fleet.TotalShips)
	assert.Equal(t, int64(5), fleet.Composition["Starfighter"])
}

func TestFleet_EmptyForNewUser(t *testing.T) {
	ts := setupTestServer(t)
	token := ts.registerUser(t, "pilot@example.com")

	resp := ts.api.Get("/api/v1/fleet", bearer(token))
	require.Equal(t, http.StatusOK, resp.Code)

	fleet := decodeEnvelope[FleetResponse](t, resp).Data
	assert.Empty(t, fleet.Items)
	assert.Zero(t, fleet.TotalShips)
}

func TestFleet_UpdateItem(t *testing.T) {
	ts := setupTestServer(t)
	token := ts.registerUser(t, "pilot@example.com")
	shipID := ts.seedCatalogShip(t, "X-wing", "https://x/starships/12")

	resp := ts.api.Post("/api/v1/fleet/items", bearer(token), map[string]any{
		"starship_id": shipID,
	})
	require.Equal(t, http.StatusNoContent, resp.Code)

	resp = ts.api.Patch(fmt.Sprintf("/api/v1/fleet/items/%d", shipID),
		bearer(token), map[string]any{"quantity": 7, "nickname": "Gold Leader"})
	require.Equal(t, http.StatusNoContent, resp.Code, resp.Body.String())

	resp = ts.api.Get("/api/v1/fleet", bearer(token))
	fleet := decodeEnvelope[FleetResponse](t, resp).Data
	require.Len(t, fleet.Items, 1)
	assert.Equal(t, int64(7), fleet.Items[0].Quantity)
	require.NotNil(t, fleet.Items[0].Nickname)
	assert.Equal(t, "Gold Leader", *fleet.Items[0].Nickname)
}

func TestFleet_UpdateMissingItem(t *testing.T) {
	ts := setupTestServer(t)
	token := ts.registerUser(t, "pilot@example.com")

	resp := ts.api.Patch("/api/v1/fleet/items/9999", bearer(token),
		map[string]any{"quantity": 2})
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestFleet_RemoveItem(t *testing.T) {
	ts := setupTestServer(t)
	token := ts.registerUser(t, "pilot@example.com")
	shipID := ts.seedCatalogShip(t, "X-wing", "https://x/starships/12")

	resp := ts.api.Post("/api/v1/fleet/items", bearer(token), map[string]any{
		"starship_id": shipID,
	})
	require.Equal(t, http.StatusNoContent, resp.Code)

	resp = ts.api.Delete(fmt.Sprintf("/api/v1/fleet/items/%d", shipID), bearer(token))
	require.Equal(t, http.StatusNoContent, resp.Code)

	resp = ts.api.Get("/api/v1/fleet", bearer(token))
	assert.Empty(t, decodeEnvelope[FleetResponse](t, resp).Data.Items)
}

func TestFleet_IsolatedPerUser(t *testing.T) {
	ts := setupTestServer(t)
	first := ts.registerUser(t, "first@example.com")
	second := ts.registerUser(t, "second@example.com")
	shipID := ts.seedCatalogShip(t, "X-wing", "https://x/starships/12")

	resp := ts.api.Post("/api/v1/fleet/items", bearer(first), map[string]any{
		"starship_id": shipID,
	})
	require.Equal(t, http.StatusNoContent, resp.Code)

	resp = ts.api.Get("/api/v1/fleet", bearer(second))
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Empty(t, decodeEnvelope[FleetResponse](t, resp).Data.Items)
}

func TestFleet_Unauthenticated(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/api/v1/fleet")
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}
