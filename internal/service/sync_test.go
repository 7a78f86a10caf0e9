package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hangarbay/hangar-server/internal/domain"
	domainerrors "github.com/hangarbay/hangar-server/internal/errors"
	"github.com/hangarbay/hangar-server/internal/ingest"
	"github.com/hangarbay/hangar-server/internal/starfeed"
)

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

func TestSyncRun_AdminOnly(t *testing.T) {
	st := newTestStore(t)
	pipeline := ingest.NewPipeline(&staticFeed{}, nil, st, discardLogger(), false)
	svc := NewSyncService(pipeline, discardLogger())
	ctx := context.Background()

	user := &domain.User{ID: "usr-plain"}
	_, err := svc.Run(ctx, user)
	assert.ErrorIs(t, err, domainerrors.ErrForbidden)
}

func TestSyncRun_ReportsCounts(t *testing.T) {
	st := newTestStore(t)
	feed := &staticFeed{starships: []starfeed.Starship{{
		Name:          "Death Star",
		Model:         "DS-1",
		StarshipClass: "Battlestation",
		URL:           "https://x/starships/9",
	}}}
	svc := NewSyncService(ingest.NewPipeline(feed, nil, st, discardLogger(), false), discardLogger())
	ctx := context.Background()

	admin := &domain.User{ID: "usr-admin", Admin: true}
	report, err := svc.Run(ctx, admin)
	require.NoError(t, err)
	assert.Equal(t, int64(1), report.Counts[domain.KindStarship].Inserted)

	report, err = svc.Run(ctx, admin)
	require.NoError(t, err)
	assert.Equal(t, int64(1), report.Counts[domain.KindStarship].Updated)
	assert.Zero(t, report.Counts[domain.KindStarship].Inserted)
}

func TestSetStarshipActive_AdminToggle(t *testing.T) {
	st := newTestStore(t)
	catalog := NewCatalogService(st, discardLogger())
	ctx := context.Background()

	shipID := createCatalogShip(t, st, "Death Star", "https://x/starships/9")
	admin := &domain.User{ID: "usr-admin", Admin: true}
	plain := &domain.User{ID: "usr-plain"}

	assert.ErrorIs(t,
		catalog.SetStarshipActive(ctx, plain, shipID, false),
		domainerrors.ErrForbidden)

	require.NoError(t, catalog.SetStarshipActive(ctx, admin, shipID, false))

	// Retired ships drop out of the public listing and detail view.
	ships, err := catalog.ListStarships(ctx, false)
	require.NoError(t, err)
	assert.Empty(t, ships)
	_, err = catalog.GetStarship(ctx, shipID)
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)

	// Admins still see it and can flip it back.
	all, err := catalog.ListStarships(ctx, true)
	require.NoError(t, err)
	assert.Len(t, all, 1)
	require.NoError(t, catalog.SetStarshipActive(ctx, admin, shipID, true))
	_, err = catalog.GetStarship(ctx, shipID)
	assert.NoError(t, err)
}
