package api

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hangarbay/hangar-server/internal/starfeed"
)

func TestTriggerSync_AdminOnly(t *testing.T) {
	ts := setupTestServer(t)
	admin := ts.registerUser(t, "admin@example.com")
	plain := ts.registerUser(t, "plain@example.com")

	ts.feed.starships = []starfeed.Starship{{
		Name:          "Death Star",
		Model:         "DS-1 Orbital Battle Station",
		StarshipClass: "Deep Space Mobile Battlestation",
		URL:           "https://x/starships/9",
	}}

	resp := ts.api.Post("/api/v1/admin/sync", bearer(plain))
	assert.Equal(t, http.StatusForbidden, resp.Code)

	resp = ts.api.Post("/api/v1/admin/sync", bearer(admin))
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	report := decodeEnvelope[SyncReportResponse](t, resp).Data
	assert.Equal(t, int64(1), report.Counts["starship"].Inserted)

	// Second run updates in place.
	resp = ts.api.Post("/api/v1/admin/sync", bearer(admin))
	require.Equal(t, http.StatusOK, resp.Code)
	report = decodeEnvelope[SyncReportResponse](t, resp).Data
	assert.Zero(t, report.Counts["starship"].Inserted)
	assert.Equal(t, int64(1), report.Counts["starship"].Updated)
}

func TestTriggerSync_Unauthenticated(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Post("/api/v1/admin/sync")
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestSetStarshipActive_AdminOnly(t *testing.T) {
	ts := setupTestServer(t)
	admin := ts.registerUser(t, "admin@example.com")
	plain := ts.registerUser(t, "plain@example.com")
	shipID := ts.seedCatalogShip(t, "X-wing", "https://x/starships/12")

	resp := ts.api.Patch(fmt.Sprintf("/api/v1/admin/starships/%d/active", shipID),
		bearer(plain), map[string]any{"active": false})
	assert.Equal(t, http.StatusForbidden, resp.Code)

	resp = ts.api.Patch(fmt.Sprintf("/api/v1/admin/starships/%d/active", shipID),
		bearer(admin), map[string]any{"active": false})
	require.Equal(t, http.StatusNoContent, resp.Code, resp.Body.String())

	// Retired rows vanish from the public listing until reactivated.
	resp = ts.api.Get("/api/v1/starships")
	assert.Empty(t, decodeEnvelope[[]StarshipResponse](t, resp).Data)

	resp = ts.api.Patch(fmt.Sprintf("/api/v1/admin/starships/%d/active", shipID),
		bearer(admin), map[string]any{"active": true})
	require.Equal(t, http.StatusNoContent, resp.Code)

	resp = ts.api.Get("/api/v1/starships")
	assert.Len(t, decodeEnvelope[[]StarshipResponse](t, resp).Data, 1)
}

func TestSetStarshipActive_NonCatalogShip(t *testing.T) {
	ts := setupTestServer(t)
	admin := ts.registerUser(t, "admin@example.com")

	resp := ts.api.Post("/api/v1/my/starships", bearer(admin), map[string]any{
		"name":           "The Ghost",
		"model":          "VCX-100",
		"starship_class": "Freighter",
	})
	require.Equal(t, http.StatusCreated, resp.Code)
	shipID := decodeEnvelope[StarshipResponse](t, resp).Data.ID

	resp = ts.api.Patch(fmt.Sprintf("/api/v1/admin/starships/%d/active", shipID),
		bearer(admin), map[string]any{"active": false})
	assert.Equal(t, http.StatusNotFound, resp.Code)
}
