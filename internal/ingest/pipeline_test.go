package ingest

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hangarbay/hangar-server/internal/domain"
	domainerrors "github.com/hangarbay/hangar-server/internal/errors"
	"github.com/hangarbay/hangar-server/internal/localdata"
	"github.com/hangarbay/hangar-server/internal/starfeed"
	"github.com/hangarbay/hangar-server/internal/store/sqlite"
)

type stubFeed struct {
	planets   []starfeed.Planet
	species   []starfeed.Species
	people    []starfeed.Person
	films     []starfeed.Film
	starships []starfeed.Starship
	vehicles  []starfeed.Vehicle
}

func (f *stubFeed) FetchPlanets(context.Context) ([]starfeed.Planet, error)     { return f.planets, nil }
func (f *stubFeed) FetchSpecies(context.Context) ([]starfeed.Species, error)    { return f.species, nil }
func (f *stubFeed) FetchPeople(context.Context) ([]starfeed.Person, error)      { return f.people, nil }
func (f *stubFeed) FetchFilms(context.Context) ([]starfeed.Film, error)         { return f.films, nil }
func (f *stubFeed) FetchStarships(context.Context) ([]starfeed.Starship, error) { return f.starships, nil }
func (f *stubFeed) FetchVehicles(context.Context) ([]starfeed.Vehicle, error)   { return f.vehicles, nil }

type stubLocal struct {
	planets   []localdata.Planet
	species   []localdata.Species
	people    []localdata.Person
	films     []localdata.Film
	starships []localdata.Starship
	vehicles  []localdata.Vehicle
}

func (l *stubLocal) LoadPlanets() ([]localdata.Planet, error)     { return l.planets, nil }
func (l *stubLocal) LoadSpecies() ([]localdata.Species, error)    { return l.species, nil }
func (l *stubLocal) LoadPeople() ([]localdata.Person, error)      { return l.people, nil }
func (l *stubLocal) LoadFilms() ([]localdata.Film, error)         { return l.films, nil }
func (l *stubLocal) LoadStarships() ([]localdata.Starship, error) { return l.starships, nil }
func (l *stubLocal) LoadVehicles() ([]localdata.Vehicle, error)   { return l.vehicles, nil }

func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()

	s, err := sqlite.Open(filepath.Join(t.TempDir(), "test.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleFeed() *stubFeed {
	return &stubFeed{
		planets: []starfeed.Planet{{
			Name:       "Tatooine",
			Diameter:   "10,465",
			Climate:    "arid",
			Population: "200000",
			Residents:  []string{"https://x/people/1"},
			URL:        "https://x/planets/1",
		}},
		people: []starfeed.Person{{
			Name:      "Luke Skywalker",
			Height:    "172",
			Mass:      "77",
			Homeworld: strp("https://x/planets/1"),
			URL:       "https://x/people/1",
		}},
		films: []starfeed.Film{{
			Title:       "A New Hope",
			EpisodeID:   4,
			ReleaseDate: "1977-05-25",
			Characters:  []string{"https://x/people/1"},
			Planets:     []string{"https://x/planets/1"},
			Starships:   []string{"https://x/starships/9"},
			URL:         "https://x/films/1",
		}},
		starships: []starfeed.Starship{{
			Name:          "Death Star",
			Model:         "DS-1 Orbital Battle Station",
			Manufacturer:  "Imperial Department of Military Research",
			CostInCredits: "1000000000000",
			Length:        "120,000",
			Crew:          "342,953",
			StarshipClass: "Deep Space Mobile Battlestation",
			Pilots:        []string{"https://x/people/1"},
			URL:           "https://x/starships/9",
		}},
	}
}

func strp(s string) *string { return &s }

func TestRun_InsertsAndRebuilds(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	p := NewPipeline(sampleFeed(), nil, st, nil, false)
	report, err := p.Run(ctx)
	require.NoError(t, err)

	assert.Equal(t, int64(1), report.Counts[domain.KindPlanet].Inserted)
	assert.Equal(t, int64(1), report.Counts[domain.KindPerson].Inserted)
	assert.Equal(t, int64(1), report.Counts[domain.KindFilm].Inserted)
	assert.Equal(t, int64(1), report.Counts[domain.KindStarship].Inserted)
	assert.Zero(t, report.Counts[domain.KindPlanet].Updated)
	assert.Zero(t, report.Retired)

	// Film->char, film->planet, film->ship, planet->resident, ship->pilot.
	assert.Equal(t, int64(5), report.EdgesAdded)

	edges, err := st.CountEdges(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(5), edges)

	// Homeworld resolved through the identity maps built earlier in the run.
	people, err := st.ListPeople(ctx)
	require.NoError(t, err)
	require.Len(t, people, 1)
	require.NotNil(t, people[0].HomeworldID)

	planets, err := st.ListPlanets(ctx)
	require.NoError(t, err)
	require.Len(t, planets, 1)
	assert.Equal(t, planets[0].ID, *people[0].HomeworldID)
	require.NotNil(t, planets[0].Diameter)
	assert.Equal(t, int64(10465), *planets[0].Diameter)
}

func TestRun_Idempotent(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	p := NewPipeline(sampleFeed(), nil, st, nil, false)
	_, err := p.Run(ctx)
	require.NoError(t, err)

	report, err := p.Run(ctx)
	require.NoError(t, err)

	for _, kind := range domain.SyncOrder {
		assert.Zero(t, report.Counts[kind].Inserted, "kind %s", kind)
	}
	assert.Equal(t, int64(1), report.Counts[domain.KindPlanet].Updated)
	assert.Equal(t, int64(1), report.Counts[domain.KindStarship].Updated)

	// Edges are cleared and rebuilt, not accumulated.
	edges, err := st.CountEdges(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(5), edges)

	ships, err := st.ListCatalogStarships(ctx, false)
	require.NoError(t, err)
	assert.Len(t, ships, 1)
}

func TestRun_RetirementReversibility(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	feed := sampleFeed()
	_, err := NewPipeline(feed, nil, st, nil, false).Run(ctx)
	require.NoError(t, err)

	// The ship disappears from the feed.
	gone := feed.starships
	feed.starships = nil
	report, err := NewPipeline(feed, nil, st, nil, false).Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), report.Retired)

	active, err := st.ListCatalogStarships(ctx, true)
	require.NoError(t, err)
	assert.Empty(t, active)

	// It reappears and the same origin key reactivates the same row.
	feed.starships = gone
	report, err = NewPipeline(feed, nil, st, nil, false).Run(ctx)
	require.NoError(t, err)
	assert.Zero(t, report.Retired)
	assert.Equal(t, int64(1), report.Counts[domain.KindStarship].Updated)

	active, err = st.ListCatalogStarships(ctx, true)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "Death Star", active[0].Name)
}

func TestRun_Augmentation_InsertsAndLinks(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	local := &stubLocal{
		starships: []localdata.Starship{{
			Starship: starfeed.Starship{
				Name:          "Ghost",
				Model:         "VCX-100 light freighter",
				Manufacturer:  "Corellian Engineering Corporation",
				StarshipClass: "Light freighter",
				// Local records may reference external entities by name.
				Pilots: []string{"Luke Skywalker"},
			},
			LocalID: "local-ghost",
		}},
	}

	p := NewPipeline(sampleFeed(), local, st, nil, true)
	report, err := p.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), report.Counts[domain.KindStarship].Inserted)
	assert.Equal(t, int64(6), report.EdgesAdded)

	ships, err := st.ListCatalogStarships(ctx, true)
	require.NoError(t, err)
	assert.Len(t, ships, 2)

	// A second run skips the local record but keeps its additive edge.
	report, err = p.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), report.Counts[domain.KindStarship].Skipped)
	assert.Zero(t, report.Counts[domain.KindStarship].Inserted)

	edges, err := st.CountEdges(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(6), edges)
}

func TestRun_Augmentation_NeverShadows(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	local := &stubLocal{
		starships: []localdata.Starship{{
			Starship: starfeed.Starship{Name: "death star", Model: "knockoff"},
			LocalID:  "local-fake-ds",
		}},
	}

	// Production-like environment: no preflight, augmentation skips instead.
	report, err := NewPipeline(sampleFeed(), local, st, nil, true).Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), report.Counts[domain.KindStarship].Skipped)
	assert.Equal(t, int64(1), report.Counts[domain.KindStarship].Inserted)

	ships, err := st.ListCatalogStarships(ctx, false)
	require.NoError(t, err)
	require.Len(t, ships, 1)
	assert.Equal(t, "DS-1 Orbital Battle Station", ships[0].Model)
}

func TestRun_Augmentation_RetiredRowStillBlocksShadow(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	feed := sampleFeed()
	_, err := NewPipeline(feed, nil, st, nil, false).Run(ctx)
	require.NoError(t, err)

	// The ship drops from the feed; its retired row keeps the name.
	feed.starships = nil
	local := &stubLocal{
		starships: []localdata.Starship{{
			Starship: starfeed.Starship{Name: "Death Star", Model: "knockoff"},
			LocalID:  "local-fake-ds",
		}},
	}

	report, err := NewPipeline(feed, local, st, nil, true).Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), report.Counts[domain.KindStarship].Skipped)
	assert.Zero(t, report.Counts[domain.KindStarship].Inserted)

	// Outside production the preflight catches the same collision.
	_, err = NewPipeline(feed, local, st, nil, false).Run(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrConflict)

	// The ship reappearing upstream reactivates the single original row.
	feed.starships = sampleFeed().starships
	_, err = NewPipeline(feed, nil, st, nil, false).Run(ctx)
	require.NoError(t, err)

	ships, err := st.ListCatalogStarships(ctx, true)
	require.NoError(t, err)
	require.Len(t, ships, 1)
	assert.Equal(t, "DS-1 Orbital Battle Station", ships[0].Model)
}

func TestRun_PreflightAbortsOutsideProduction(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	local := &stubLocal{
		starships: []localdata.Starship{{
			Starship: starfeed.Starship{Name: "Death Star"},
			LocalID:  "local-dupe",
		}},
	}

	_, err := NewPipeline(sampleFeed(), local, st, nil, false).Run(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrConflict)

	// Catalog upserts committed before the abort remain; no local row landed.
	ships, err := st.ListCatalogStarships(ctx, false)
	require.NoError(t, err)
	assert.Len(t, ships, 1)
}

func TestRun_IdentityUniqueness(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	p := NewPipeline(sampleFeed(), nil, st, nil, false)
	for range 3 {
		_, err := p.Run(ctx)
		require.NoError(t, err)
	}

	keys, err := st.CatalogKeys(ctx, domain.KindStarship, domain.OriginExternal)
	require.NoError(t, err)
	assert.Len(t, keys, 1)
}
