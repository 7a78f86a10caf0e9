package starfeed

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c := NewWithLimits(srv.URL, 1000, 1000, slog.New(slog.DiscardHandler))
	t.Cleanup(c.Close)
	return c
}

func TestFetchStarships_SinglePage(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/starships/", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{
			"count": 2,
			"next": null,
			"results": [
				{"name": "Death Star", "model": "DS-1 Orbital Battle Station", "crew": "342,953", "url": "https://x/starships/9/"},
				{"name": "Millennium Falcon", "model": "YT-1300", "crew": "4", "url": "https://x/starships/10/"}
			]
		}`)
	}))

	ships, err := c.FetchStarships(context.Background())
	require.NoError(t, err)
	require.Len(t, ships, 2)
	assert.Equal(t, "Death Star", ships[0].Name)
	assert.Equal(t, "https://x/starships/9/", ships[0].URL)
	assert.Equal(t, "342,953", ships[0].Crew)
}

func TestFetchPlanets_FollowsPagination(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Query().Get("page") == "2" {
			fmt.Fprint(w, `{"count": 3, "next": null, "results": [{"name": "Hoth", "url": "https://x/planets/3/"}]}`)
			return
		}
		fmt.Fprint(w, `{"count": 3, "next": "https://x/planets/?page=2", "results": [
			{"name": "Tatooine", "url": "https://x/planets/1/"},
			{"name": "Alderaan", "url": "https://x/planets/2/"}
		]}`)
	}))

	planets, err := c.FetchPlanets(context.Background())
	require.NoError(t, err)
	require.Len(t, planets, 3)
	assert.Equal(t, "Hoth", planets[2].Name)
}

func TestFetch_ServerError(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))

	_, err := c.FetchFilms(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrServer)
}

func TestFetch_NotFound(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	_, err := c.FetchVehicles(context.Background())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFetch_ContextCancellation(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"count": 0, "next": null, "results": []}`)
	}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.FetchPeople(ctx)
	require.Error(t, err)
}
