package api

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForkStarship_CreatedThenIdempotent(t *testing.T) {
	ts := setupTestServer(t)
	token := ts.registerUser(t, "pilot@example.com")
	catalogID := ts.seedCatalogShip(t, "X-wing", "https://x/starships/12")

	resp := ts.api.Post(fmt.Sprintf("/api/v1/starships/%d/fork", catalogID),
		bearer(token), map[string]any{})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())

	envelope := decodeEnvelope[StarshipResponse](t, resp)
	forkID := envelope.Data.ID
	assert.NotEqual(t, catalogID, forkID)
	assert.False(t, envelope.Data.IsCatalog)
	require.NotNil(t, envelope.Data.ForkOriginID)
	assert.Equal(t, catalogID, *envelope.Data.ForkOriginID)

	// Second fork of the same catalog ship returns the existing row.
	resp = ts.api.Post(fmt.Sprintf("/api/v1/starships/%d/fork", catalogID),
		bearer(token), map[string]any{})
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, forkID, decodeEnvelope[StarshipResponse](t, resp).Data.ID)
}

func TestForkStarship_Unauthenticated(t *testing.T) {
	ts := setupTestServer(t)
	catalogID := ts.seedCatalogShip(t, "X-wing", "https://x/starships/12")

	resp := ts.api.Post(fmt.Sprintf("/api/v1/starships/%d/fork", catalogID),
		map[string]any{})
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestForkStarship_UnknownCatalogShip(t *testing.T) {
	ts := setupTestServer(t)
	token := ts.registerUser(t, "pilot@example.com")

	resp := ts.api.Post("/api/v1/starships/9999/fork", bearer(token), map[string]any{})
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestMyStarships_CRUD(t *testing.T) {
	ts := setupTestServer(t)
	token := ts.registerUser(t, "pilot@example.com")

	resp := ts.api.Post("/api/v1/my/starships", bearer(token), map[string]any{
		"name":           "The Ghost",
		"model":          "VCX-100",
		"starship_class": "Freighter",
	})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	shipID := decodeEnvelope[StarshipResponse](t, resp).Data.ID

	resp = ts.api.Get("/api/v1/my/starships", bearer(token))
	require.Equal(t, http.StatusOK, resp.Code)
	ships := decodeEnvelope[[]StarshipResponse](t, resp).Data
	require.Len(t, ships, 1)
	assert.Equal(t, "The Ghost", ships[0].Name)

	resp = ts.api.Patch(fmt.Sprintf("/api/v1/my/starships/%d", shipID),
		bearer(token), map[string]any{"name": "Ghost II"})
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "Ghost II", decodeEnvelope[StarshipResponse](t, resp).Data.Name)

	resp = ts.api.Delete(fmt.Sprintf("/api/v1/my/starships/%d", shipID), bearer(token))
	require.Equal(t, http.StatusNoContent, resp.Code)

	resp = ts.api.Get("/api/v1/my/starships", bearer(token))
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Empty(t, decodeEnvelope[[]StarshipResponse](t, resp).Data)
}

func TestMyStarships_OwnershipBoundary(t *testing.T) {
	ts := setupTestServer(t)
	owner := ts.registerUser(t, "owner@example.com")
	other := ts.registerUser(t, "other@example.com")

	resp := ts.api.Post("/api/v1/my/starships", bearer(owner), map[string]any{
		"name":           "Outrider",
		"model":          "YT-2400",
		"starship_class": "Freighter",
	})
	require.Equal(t, http.StatusCreated, resp.Code)
	shipID := decodeEnvelope[StarshipResponse](t, resp).Data.ID

	// Another user's ship reads as missing, not forbidden.
	resp = ts.api.Get(fmt.Sprintf("/api/v1/my/starships/%d", shipID), bearer(other))
	assert.Equal(t, http.StatusNotFound, resp.Code)

	resp = ts.api.Patch(fmt.Sprintf("/api/v1/my/starships/%d", shipID),
		bearer(other), map[string]any{"name": "Stolen"})
	assert.Equal(t, http.StatusNotFound, resp.Code)

	resp = ts.api.Delete(fmt.Sprintf("/api/v1/my/starships/%d", shipID), bearer(other))
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestCreateStarship_Validation(t *testing.T) {
	ts := setupTestServer(t)
	token := ts.registerUser(t, "pilot@example.com")

	// Missing required body fields are rejected by schema validation.
	resp := ts.api.Post("/api/v1/my/starships", bearer(token), map[string]any{
		"name": "No class or model",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)

	// Blank values pass the schema but fail domain validation.
	resp = ts.api.Post("/api/v1/my/starships", bearer(token), map[string]any{
		"name":           "",
		"model":          "VCX-100",
		"starship_class": "Freighter",
	})
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestListCatalogStarships_RetiredFilter(t *testing.T) {
	ts := setupTestServer(t)
	token := ts.registerUser(t, "admin@example.com")
	activeID := ts.seedCatalogShip(t, "X-wing", "https://x/starships/12")
	retiredID := ts.seedCatalogShip(t, "Y-wing", "https://x/starships/11")

	resp := ts.api.Patch(fmt.Sprintf("/api/v1/admin/starships/%d/active", retiredID),
		bearer(token), map[string]any{"active": false})
	require.Equal(t, http.StatusNoContent, resp.Code, resp.Body.String())

	resp = ts.api.Get("/api/v1/starships")
	require.Equal(t, http.StatusOK, resp.Code)
	ships := decodeEnvelope[[]StarshipResponse](t, resp).Data
	require.Len(t, ships, 1)
	assert.Equal(t, activeID, ships[0].ID)

	resp = ts.api.Get("/api/v1/starships?include_retired=true")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Len(t, decodeEnvelope[[]StarshipResponse](t, resp).Data, 2)

	// Retired catalog rows are hidden from the public detail endpoint.
	resp = ts.api.Get(fmt.Sprintf("/api/v1/starships/%d", retiredID))
	assert.Equal(t, http.StatusNotFound, resp.Code)
}
