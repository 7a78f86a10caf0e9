// Package ingest implements the catalog synchronization pipeline: upsert of
// externally-fetched records, relationship rebuild, local dataset
// augmentation and the starship retirement sweep.
package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	domainerrors "github.com/hangarbay/hangar-server/internal/errors"

	"github.com/hangarbay/hangar-server/internal/domain"
	"github.com/hangarbay/hangar-server/internal/id"
	"github.com/hangarbay/hangar-server/internal/localdata"
	"github.com/hangarbay/hangar-server/internal/starfeed"
	"github.com/hangarbay/hangar-server/internal/store"
)

// FeedSource fetches fully-materialized record lists from the external
// reference feed. Pagination is the source's concern.
type FeedSource interface {
	FetchPlanets(ctx context.Context) ([]starfeed.Planet, error)
	FetchSpecies(ctx context.Context) ([]starfeed.Species, error)
	FetchPeople(ctx context.Context) ([]starfeed.Person, error)
	FetchFilms(ctx context.Context) ([]starfeed.Film, error)
	FetchStarships(ctx context.Context) ([]starfeed.Starship, error)
	FetchVehicles(ctx context.Context) ([]starfeed.Vehicle, error)
}

// LocalSource loads supplementary per-kind records for the augmentation stage.
type LocalSource interface {
	LoadPlanets() ([]localdata.Planet, error)
	LoadSpecies() ([]localdata.Species, error)
	LoadPeople() ([]localdata.Person, error)
	LoadFilms() ([]localdata.Film, error)
	LoadStarships() ([]localdata.Starship, error)
	LoadVehicles() ([]localdata.Vehicle, error)
}

// Pipeline runs one full catalog sync. It is not safe for concurrent use;
// callers serialize runs (see service.SyncService).
type Pipeline struct {
	feed       FeedSource
	local      LocalSource
	store      store.Store
	logger     *slog.Logger
	production bool
}

// NewPipeline wires a pipeline. A nil local source disables the augmentation
// stage and the duplicate preflight check entirely.
func NewPipeline(feed FeedSource, local LocalSource, st store.Store, logger *slog.Logger, production bool) *Pipeline {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Pipeline{
		feed:       feed,
		local:      local,
		store:      st,
		logger:     logger,
		production: production,
	}
}

type feedBatch struct {
	planets   []starfeed.Planet
	species   []starfeed.Species
	people    []starfeed.Person
	films     []starfeed.Film
	starships []starfeed.Starship
	vehicles  []starfeed.Vehicle
}

type localBatch struct {
	planets   []localdata.Planet
	species   []localdata.Species
	people    []localdata.Person
	films     []localdata.Film
	starships []localdata.Starship
	vehicles  []localdata.Vehicle
}

// Run executes one sync: upsert per kind in dependency order, relationship
// rebuild, optional local augmentation, retirement sweep. A stage failure
// aborts the remaining stages; per-record writes already committed stay
// committed, so an interrupted run is safe to re-run.
func (p *Pipeline) Run(ctx context.Context) (*Report, error) {
	report := NewReport()
	res := NewResolver()

	batch, err := p.fetchFeed(ctx)
	if err != nil {
		return nil, err
	}

	if err := p.upsertAll(ctx, batch, res, report); err != nil {
		return nil, err
	}

	if err := p.rebuildEdges(ctx, batch, res, report); err != nil {
		return nil, err
	}

	if p.local != nil {
		local, err := p.loadLocal()
		if err != nil {
			return nil, err
		}
		// External rows the current feed no longer carries (a retired
		// ship keeps its row) join the lookup before the shadowing
		// check; local rows from earlier runs join after it, so a
		// re-run skips its own prior insertions instead of aborting.
		if err := p.bindStored(ctx, res, domain.OriginExternal); err != nil {
			return nil, err
		}
		if !p.production {
			if err := p.preflight(local, res); err != nil {
				return nil, err
			}
		}
		if err := p.bindStored(ctx, res, domain.OriginLocal); err != nil {
			return nil, err
		}
		if err := p.augment(ctx, local, res, report); err != nil {
			return nil, err
		}
	}

	presentKeys := make([]string, 0, len(batch.starships))
	for _, rec := range batch.starships {
		presentKeys = append(presentKeys, rec.URL)
	}
	retired, err := p.store.RetireMissingStarships(ctx, presentKeys)
	if err != nil {
		return nil, fmt.Errorf("retirement sweep: %w", err)
	}
	report.Retired = retired

	p.logger.Info("sync complete",
		"edges_cleared", report.EdgesCleared,
		"edges_added", report.EdgesAdded,
		"retired", report.Retired)
	return report, nil
}

func (p *Pipeline) fetchFeed(ctx context.Context) (*feedBatch, error) {
	var batch feedBatch
	var err error

	if batch.planets, err = p.feed.FetchPlanets(ctx); err != nil {
		return nil, fmt.Errorf("fetch planets: %w", err)
	}
	if batch.species, err = p.feed.FetchSpecies(ctx); err != nil {
		return nil, fmt.Errorf("fetch species: %w", err)
	}
	if batch.people, err = p.feed.FetchPeople(ctx); err != nil {
		return nil, fmt.Errorf("fetch people: %w", err)
	}
	if batch.films, err = p.feed.FetchFilms(ctx); err != nil {
		return nil, fmt.Errorf("fetch films: %w", err)
	}
	if batch.starships, err = p.feed.FetchStarships(ctx); err != nil {
		return nil, fmt.Errorf("fetch starships: %w", err)
	}
	if batch.vehicles, err = p.feed.FetchVehicles(ctx); err != nil {
		return nil, fmt.Errorf("fetch vehicles: %w", err)
	}
	return &batch, nil
}

func (p *Pipeline) loadLocal() (*localBatch, error) {
	var batch localBatch
	var err error

	if batch.planets, err = p.local.LoadPlanets(); err != nil {
		return nil, fmt.Errorf("load local planets: %w", err)
	}
	if batch.species, err = p.local.LoadSpecies(); err != nil {
		return nil, fmt.Errorf("load local species: %w", err)
	}
	if batch.people, err = p.local.LoadPeople(); err != nil {
		return nil, fmt.Errorf("load local people: %w", err)
	}
	if batch.films, err = p.local.LoadFilms(); err != nil {
		return nil, fmt.Errorf("load local films: %w", err)
	}
	if batch.starships, err = p.local.LoadStarships(); err != nil {
		return nil, fmt.Errorf("load local starships: %w", err)
	}
	if batch.vehicles, err = p.local.LoadVehicles(); err != nil {
		return nil, fmt.Errorf("load local vehicles: %w", err)
	}
	return &batch, nil
}

// upsertAll writes every fetched record in dependency order. Later kinds
// resolve references against identity maps the earlier kinds just produced.
func (p *Pipeline) upsertAll(ctx context.Context, batch *feedBatch, res *Resolver, report *Report) error {
	for _, rec := range batch.planets {
		planet := planetFromFeed(rec)
		planet.Origin = domain.OriginExternal
		planet.OriginKey = rec.URL
		rowID, inserted, err := p.store.UpsertPlanet(ctx, planet)
		if err != nil {
			return fmt.Errorf("upsert planet %q: %w", rec.Name, err)
		}
		res.Bind(domain.KindPlanet, rec.URL, rec.Name, rowID)
		report.add(domain.KindPlanet, inserted)
	}

	for _, rec := range batch.species {
		sp := speciesFromFeed(rec, res)
		sp.Origin = domain.OriginExternal
		sp.OriginKey = rec.URL
		rowID, inserted, err := p.store.UpsertSpecies(ctx, sp)
		if err != nil {
			return fmt.Errorf("upsert species %q: %w", rec.Name, err)
		}
		res.Bind(domain.KindSpecies, rec.URL, rec.Name, rowID)
		report.add(domain.KindSpecies, inserted)
	}

	for _, rec := range batch.people {
		person := personFromFeed(rec, res)
		person.Origin = domain.OriginExternal
		person.OriginKey = rec.URL
		rowID, inserted, err := p.store.UpsertPerson(ctx, person)
		if err != nil {
			return fmt.Errorf("upsert person %q: %w", rec.Name, err)
		}
		res.Bind(domain.KindPerson, rec.URL, rec.Name, rowID)
		report.add(domain.KindPerson, inserted)
	}

	for _, rec := range batch.films {
		film := filmFromFeed(rec)
		film.Origin = domain.OriginExternal
		film.OriginKey = rec.URL
		rowID, inserted, err := p.store.UpsertFilm(ctx, film)
		if err != nil {
			return fmt.Errorf("upsert film %q: %w", rec.Title, err)
		}
		res.Bind(domain.KindFilm, rec.URL, rec.Title, rowID)
		report.add(domain.KindFilm, inserted)
	}

	for _, rec := range batch.starships {
		ship := starshipFromFeed(rec)
		origin := domain.OriginExternal
		key := rec.URL
		ship.Origin = &origin
		ship.OriginKey = &key
		rowID, inserted, err := p.store.UpsertCatalogStarship(ctx, ship)
		if err != nil {
			return fmt.Errorf("upsert starship %q: %w", rec.Name, err)
		}
		res.Bind(domain.KindStarship, rec.URL, rec.Name, rowID)
		report.add(domain.KindStarship, inserted)
	}

	for _, rec := range batch.vehicles {
		vehicle := vehicleFromFeed(rec)
		vehicle.Origin = domain.OriginExternal
		vehicle.OriginKey = rec.URL
		rowID, inserted, err := p.store.UpsertVehicle(ctx, vehicle)
		if err != nil {
			return fmt.Errorf("upsert vehicle %q: %w", rec.Name, err)
		}
		res.Bind(domain.KindVehicle, rec.URL, rec.Name, rowID)
		report.add(domain.KindVehicle, inserted)
	}

	return nil
}

// rebuildEdges clears every externally-declared association row and
// regenerates the full edge set from the fetched batch. References that do
// not resolve are skipped; relationships are derived, not authoritative.
func (p *Pipeline) rebuildEdges(ctx context.Context, batch *feedBatch, res *Resolver, report *Report) error {
	cleared, err := p.store.ClearExternalEdges(ctx)
	if err != nil {
		return fmt.Errorf("clear edges: %w", err)
	}
	report.EdgesCleared = cleared

	for _, rec := range batch.films {
		filmID, ok := res.Resolve(domain.KindFilm, rec.URL)
		if !ok {
			continue
		}
		if err := p.addEdges(ctx, report, res, domain.KindPerson, rec.Characters, filmID, p.store.AddFilmCharacter); err != nil {
			return err
		}
		if err := p.addEdges(ctx, report, res, domain.KindPlanet, rec.Planets, filmID, p.store.AddFilmPlanet); err != nil {
			return err
		}
		if err := p.addEdges(ctx, report, res, domain.KindStarship, rec.Starships, filmID, p.store.AddFilmStarship); err != nil {
			return err
		}
		if err := p.addEdges(ctx, report, res, domain.KindVehicle, rec.Vehicles, filmID, p.store.AddFilmVehicle); err != nil {
			return err
		}
		if err := p.addEdges(ctx, report, res, domain.KindSpecies, rec.Species, filmID, p.store.AddFilmSpecies); err != nil {
			return err
		}
	}

	for _, rec := range batch.planets {
		planetID, ok := res.Resolve(domain.KindPlanet, rec.URL)
		if !ok {
			continue
		}
		if err := p.addEdges(ctx, report, res, domain.KindPerson, rec.Residents, planetID, p.store.AddPlanetResident); err != nil {
			return err
		}
	}

	for _, rec := range batch.species {
		speciesID, ok := res.Resolve(domain.KindSpecies, rec.URL)
		if !ok {
			continue
		}
		if err := p.addEdges(ctx, report, res, domain.KindPerson, rec.People, speciesID, p.store.AddSpeciesMember); err != nil {
			return err
		}
	}

	for _, rec := range batch.starships {
		shipID, ok := res.Resolve(domain.KindStarship, rec.URL)
		if !ok {
			continue
		}
		if err := p.addEdges(ctx, report, res, domain.KindPerson, rec.Pilots, shipID, p.store.AddStarshipPilot); err != nil {
			return err
		}
	}

	for _, rec := range batch.vehicles {
		vehicleID, ok := res.Resolve(domain.KindVehicle, rec.URL)
		if !ok {
			continue
		}
		if err := p.addEdges(ctx, report, res, domain.KindPerson, rec.Pilots, vehicleID, p.store.AddVehiclePilot); err != nil {
			return err
		}
	}

	return nil
}

// addEdges resolves each reference and inserts the edge with declaringID on
// the declaring side. Unresolvable references are dropped silently.
func (p *Pipeline) addEdges(ctx context.Context, report *Report, res *Resolver, kind domain.Kind, refs []string, declaringID int64, add func(context.Context, int64, int64) error) error {
	for _, ref := range refs {
		targetID, ok := res.Resolve(kind, ref)
		if !ok {
			p.logger.Debug("unresolved reference skipped", "kind", kind, "ref", ref)
			continue
		}
		if err := add(ctx, declaringID, targetID); err != nil {
			return fmt.Errorf("add %s edge: %w", kind, err)
		}
		report.EdgesAdded++
	}
	return nil
}

// preflight aborts the run when any supplementary record's name collides with
// an externally-sourced row of the same kind. Development-time guard only;
// production relies on augmentation's skip-on-existing behavior instead.
func (p *Pipeline) preflight(local *localBatch, res *Resolver) error {
	var conflicts []string

	check := func(kind domain.Kind, name string) {
		if _, ok := res.ResolveName(kind, name); ok {
			conflicts = append(conflicts, fmt.Sprintf("%s: %s", kind, name))
		}
	}

	for _, rec := range local.planets {
		check(domain.KindPlanet, rec.Name)
	}
	for _, rec := range local.species {
		check(domain.KindSpecies, rec.Name)
	}
	for _, rec := range local.people {
		check(domain.KindPerson, rec.Name)
	}
	for _, rec := range local.films {
		check(domain.KindFilm, rec.Title)
	}
	for _, rec := range local.starships {
		check(domain.KindStarship, rec.Name)
	}
	for _, rec := range local.vehicles {
		check(domain.KindVehicle, rec.Name)
	}

	if len(conflicts) == 0 {
		return nil
	}
	sort.Strings(conflicts)
	return domainerrors.Conflict("local dataset shadows external catalog records").
		WithDetails(conflicts)
}

// bindStored merges every already-ingested catalog row of one origin into
// the resolver. The preflight and the augmentation stage check against this
// combined lookup, so a local record can never shadow a stored row
// regardless of run order.
func (p *Pipeline) bindStored(ctx context.Context, res *Resolver, origin domain.Origin) error {
	for _, kind := range domain.SyncOrder {
		keys, err := p.store.CatalogKeys(ctx, kind, origin)
		if err != nil {
			return fmt.Errorf("load %s keys for %s: %w", origin, kind, err)
		}
		res.BindKeys(kind, keys)

		names, err := p.store.CatalogNames(ctx, kind, origin)
		if err != nil {
			return fmt.Errorf("load %s names for %s: %w", origin, kind, err)
		}
		res.BindNames(kind, names)
	}
	return nil
}

// augment inserts supplementary records that do not already exist by local
// identifier or display name, then attaches their relationship edges. It
// never touches an externally-sourced row.
func (p *Pipeline) augment(ctx context.Context, local *localBatch, res *Resolver, report *Report) error {
	inserted, err := p.insertLocal(ctx, local, res, report)
	if err != nil {
		return err
	}
	return p.attachLocalEdges(ctx, inserted, res, report)
}

func (p *Pipeline) skipExisting(kind domain.Kind, localID, name string, res *Resolver, report *Report) bool {
	_, byKey := res.Resolve(kind, localID)
	_, byName := res.ResolveName(kind, name)
	if byKey || byName {
		p.logger.Warn("local record already exists, skipping", "kind", kind, "name", name)
		report.skip(kind)
		return true
	}
	return false
}

func (p *Pipeline) localOriginKey(localID string) (string, error) {
	if localID != "" {
		return localID, nil
	}
	return id.Generate("local")
}

// insertLocal writes net-new local rows in dependency order and returns the
// batch filtered down to what was actually inserted.
func (p *Pipeline) insertLocal(ctx context.Context, local *localBatch, res *Resolver, report *Report) (*localBatch, error) {
	inserted := &localBatch{}

	for _, rec := range local.planets {
		if p.skipExisting(domain.KindPlanet, rec.LocalID, rec.Name, res, report) {
			continue
		}
		planet := planetFromFeed(rec.Planet)
		planet.Origin = domain.OriginLocal
		key, err := p.localOriginKey(rec.LocalID)
		if err != nil {
			return nil, err
		}
		planet.OriginKey = key
		rowID, _, err := p.store.UpsertPlanet(ctx, planet)
		if err != nil {
			return nil, fmt.Errorf("insert local planet %q: %w", rec.Name, err)
		}
		res.Bind(domain.KindPlanet, key, rec.Name, rowID)
		if rec.LocalID != "" && rec.LocalID != key {
			res.Bind(domain.KindPlanet, rec.LocalID, rec.Name, rowID)
		}
		report.add(domain.KindPlanet, true)
		inserted.planets = append(inserted.planets, rec)
	}

	for _, rec := range local.species {
		if p.skipExisting(domain.KindSpecies, rec.LocalID, rec.Name, res, report) {
			continue
		}
		sp := speciesFromFeed(rec.Species, res)
		sp.Origin = domain.OriginLocal
		key, err := p.localOriginKey(rec.LocalID)
		if err != nil {
			return nil, err
		}
		sp.OriginKey = key
		rowID, _, err := p.store.UpsertSpecies(ctx, sp)
		if err != nil {
			return nil, fmt.Errorf("insert local species %q: %w", rec.Name, err)
		}
		res.Bind(domain.KindSpecies, key, rec.Name, rowID)
		report.add(domain.KindSpecies, true)
		inserted.species = append(inserted.species, rec)
	}

	for _, rec := range local.people {
		if p.skipExisting(domain.KindPerson, rec.LocalID, rec.Name, res, report) {
			continue
		}
		person := personFromFeed(rec.Person, res)
		person.Origin = domain.OriginLocal
		key, err := p.localOriginKey(rec.LocalID)
		if err != nil {
			return nil, err
		}
		person.OriginKey = key
		rowID, _, err := p.store.UpsertPerson(ctx, person)
		if err != nil {
			return nil, fmt.Errorf("insert local person %q: %w", rec.Name, err)
		}
		res.Bind(domain.KindPerson, key, rec.Name, rowID)
		report.add(domain.KindPerson, true)
		inserted.people = append(inserted.people, rec)
	}

	for _, rec := range local.films {
		if p.skipExisting(domain.KindFilm, rec.LocalID, rec.Title, res, report) {
			continue
		}
		film := filmFromFeed(rec.Film)
		film.Origin = domain.OriginLocal
		key, err := p.localOriginKey(rec.LocalID)
		if err != nil {
			return nil, err
		}
		film.OriginKey = key
		rowID, _, err := p.store.UpsertFilm(ctx, film)
		if err != nil {
			return nil, fmt.Errorf("insert local film %q: %w", rec.Title, err)
		}
		res.Bind(domain.KindFilm, key, rec.Title, rowID)
		report.add(domain.KindFilm, true)
		inserted.films = append(inserted.films, rec)
	}

	for _, rec := range local.starships {
		if p.skipExisting(domain.KindStarship, rec.LocalID, rec.Name, res, report) {
			continue
		}
		ship := starshipFromFeed(rec.Starship)
		origin := domain.OriginLocal
		key, err := p.localOriginKey(rec.LocalID)
		if err != nil {
			return nil, err
		}
		ship.Origin = &origin
		ship.OriginKey = &key
		rowID, _, err := p.store.UpsertCatalogStarship(ctx, ship)
		if err != nil {
			return nil, fmt.Errorf("insert local starship %q: %w", rec.Name, err)
		}
		res.Bind(domain.KindStarship, key, rec.Name, rowID)
		report.add(domain.KindStarship, true)
		inserted.starships = append(inserted.starships, rec)
	}

	for _, rec := range local.vehicles {
		if p.skipExisting(domain.KindVehicle, rec.LocalID, rec.Name, res, report) {
			continue
		}
		vehicle := vehicleFromFeed(rec.Vehicle)
		vehicle.Origin = domain.OriginLocal
		key, err := p.localOriginKey(rec.LocalID)
		if err != nil {
			return nil, err
		}
		vehicle.OriginKey = key
		rowID, _, err := p.store.UpsertVehicle(ctx, vehicle)
		if err != nil {
			return nil, fmt.Errorf("insert local vehicle %q: %w", rec.Name, err)
		}
		res.Bind(domain.KindVehicle, key, rec.Name, rowID)
		report.add(domain.KindVehicle, true)
		inserted.vehicles = append(inserted.vehicles, rec)
	}

	return inserted, nil
}

// attachLocalEdges adds edges for freshly inserted local records. The
// combined lookup spans external rows and every local row, so records may
// cross-reference both worlds by key or by name.
func (p *Pipeline) attachLocalEdges(ctx context.Context, inserted *localBatch, res *Resolver, report *Report) error {
	for _, rec := range inserted.films {
		filmID, ok := res.Resolve(domain.KindFilm, rec.LocalID)
		if !ok {
			filmID, ok = res.ResolveName(domain.KindFilm, rec.Title)
		}
		if !ok {
			continue
		}
		if err := p.addEdges(ctx, report, res, domain.KindPerson, rec.Characters, filmID, p.store.AddFilmCharacter); err != nil {
			return err
		}
		if err := p.addEdges(ctx, report, res, domain.KindPlanet, rec.Planets, filmID, p.store.AddFilmPlanet); err != nil {
			return err
		}
		if err := p.addEdges(ctx, report, res, domain.KindStarship, rec.Starships, filmID, p.store.AddFilmStarship); err != nil {
			return err
		}
		if err := p.addEdges(ctx, report, res, domain.KindVehicle, rec.Vehicles, filmID, p.store.AddFilmVehicle); err != nil {
			return err
		}
		if err := p.addEdges(ctx, report, res, domain.KindSpecies, rec.Species, filmID, p.store.AddFilmSpecies); err != nil {
			return err
		}
	}

	for _, rec := range inserted.planets {
		planetID, ok := res.ResolveName(domain.KindPlanet, rec.Name)
		if !ok {
			continue
		}
		if err := p.addEdges(ctx, report, res, domain.KindPerson, rec.Residents, planetID, p.store.AddPlanetResident); err != nil {
			return err
		}
	}

	for _, rec := range inserted.species {
		speciesID, ok := res.ResolveName(domain.KindSpecies, rec.Name)
		if !ok {
			continue
		}
		if err := p.addEdges(ctx, report, res, domain.KindPerson, rec.People, speciesID, p.store.AddSpeciesMember); err != nil {
			return err
		}
	}

	for _, rec := range inserted.starships {
		shipID, ok := res.ResolveName(domain.KindStarship, rec.Name)
		if !ok {
			continue
		}
		if err := p.addEdges(ctx, report, res, domain.KindPerson, rec.Pilots, shipID, p.store.AddStarshipPilot); err != nil {
			return err
		}
	}

	for _, rec := range inserted.vehicles {
		vehicleID, ok := res.ResolveName(domain.KindVehicle, rec.Name)
		if !ok {
			continue
		}
		if err := p.addEdges(ctx, report, res, domain.KindPerson, rec.Pilots, vehicleID, p.store.AddVehiclePilot); err != nil {
			return err
		}
	}

	return nil
}
