package api

import (
	"context"
	"encoding/json/v2"
	"log/slog"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/require"

	"github.com/hangarbay/hangar-server/internal/auth"
	"github.com/hangarbay/hangar-server/internal/domain"
	"github.com/hangarbay/hangar-server/internal/ingest"
	"github.com/hangarbay/hangar-server/internal/service"
	"github.com/hangarbay/hangar-server/internal/starfeed"
	"github.com/hangarbay/hangar-server/internal/store/sqlite"
)

// testEnvelope mirrors the response envelope for assertions.
type testEnvelope[T any] struct {
	Version int    `json:"v"`
	Success bool   `json:"success"`
	Data    T      `json:"data"`
	Error   string `json:"error"`
}

// staticFeed is an in-memory ingest.FeedSource for sync endpoint tests.
type staticFeed struct {
	starships []starfeed.Starship
}

func (f *staticFeed) FetchPlanets(context.Context) ([]starfeed.Planet, error)   { return nil, nil }
func (f *staticFeed) FetchSpecies(context.Context) ([]starfeed.Species, error)  { return nil, nil }
func (f *staticFeed) FetchPeople(context.Context) ([]starfeed.Person, error)    { return nil, nil }
func (f *staticFeed) FetchFilms(context.Context) ([]starfeed.Film, error)       { return nil, nil }
func (f *staticFeed) FetchVehicles(context.Context) ([]starfeed.Vehicle, error) { return nil, nil }
func (f *staticFeed) FetchStarships(context.Context) ([]starfeed.Starship, error) {
	return f.starships, nil
}

type testServer struct {
	server *Server
	api    humatest.TestAPI
	store  *sqlite.Store
	feed   *staticFeed
}

func setupTestServer(t *testing.T) *testServer {
	t.Helper()

	st, err := sqlite.Open(filepath.Join(t.TempDir(), "test.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	logger := slog.New(slog.DiscardHandler)

	key, err := auth.LoadOrGenerateKey(t.TempDir())
	require.NoError(t, err)
	tokens, err := auth.NewTokenService(key, 15*time.Minute, 30*24*time.Hour)
	require.NoError(t, err)

	feed := &staticFeed{}
	pipeline := ingest.NewPipeline(feed, nil, st, logger, false)

	fleetService := service.NewFleetService(st, logger)
	services := &Services{
		Auth:     service.NewAuthService(st, tokens, logger),
		Catalog:  service.NewCatalogService(st, logger),
		Starship: service.NewStarshipService(st, fleetService, logger),
		Fleet:    fleetService,
		Sync:     service.NewSyncService(pipeline, logger),
	}

	server := NewServer(st, services, logger)

	return &testServer{
		server: server,
		api:    humatest.Wrap(t, server.api),
		store:  st,
		feed:   feed,
	}
}

// registerUser creates an account through the API and returns its access
// token. The first account on a fresh server is the admin.
func (ts *testServer) registerUser(t *testing.T, email string) string {
	t.Helper()

	resp := ts.api.Post("/api/v1/auth/register", map[string]any{
		"email":        email,
		"password":     "CorrectHorseBattery1",
		"display_name": "Pilot",
	})
	require.Equal(t, 200, resp.Code, resp.Body.String())

	var envelope testEnvelope[AuthResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	require.NotEmpty(t, envelope.Data.AccessToken)
	return envelope.Data.AccessToken
}

func bearer(token string) string {
	return "Authorization: Bearer " + token
}

func decodeEnvelope[T any](t *testing.T, resp *httptest.ResponseRecorder) testEnvelope[T] {
	t.Helper()

	var envelope testEnvelope[T]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	return envelope
}

// seedCatalogShip inserts one external catalog starship directly.
func (ts *testServer) seedCatalogShip(t *testing.T, name, key string) int64 {
	t.Helper()

	origin := domain.OriginExternal
	ship := &domain.Starship{
		Name:          name,
		Model:         name + " model",
		Manufacturer:  "Kuat Drive Yards",
		Crew:          "1",
		StarshipClass: "Starfighter",
		Origin:        &origin,
		OriginKey:     &key,
	}
	id, _, err := ts.store.UpsertCatalogStarship(context.Background(), ship)
	require.NoError(t, err)
	return id
}

func TestHealth(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/health")
	require.Equal(t, 200, resp.Code)

	envelope := decodeEnvelope[HealthResponse](t, resp)
	require.True(t, envelope.Success)
	require.Equal(t, EnvelopeVersion, envelope.Version)
	require.Equal(t, "healthy", envelope.Data.Status)
}
