package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hangarbay/hangar-server/internal/domain"
	"github.com/hangarbay/hangar-server/internal/store"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := Open(filepath.Join(t.TempDir(), "test.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func createTestUser(t *testing.T, s *Store, id string) *domain.User {
	t.Helper()

	now := time.Now()
	user := &domain.User{
		ID:           id,
		Email:        id + "@example.com",
		PasswordHash: "$argon2id$v=19$m=65536,t=3,p=4$c2FsdA$aGFzaA",
		DisplayName:  "Test " + id,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	require.NoError(t, s.CreateUser(context.Background(), user))
	return user
}

func TestOpen_CreatesSchema(t *testing.T) {
	s := newTestStore(t)

	tables := []string{
		"users", "sessions",
		"planets", "species", "people", "films", "starships", "vehicles",
		"film_characters", "film_planets", "film_starships", "film_vehicles", "film_species",
		"planet_residents", "species_members", "starship_pilots", "vehicle_pilots",
		"fleets", "fleet_items",
	}
	for _, table := range tables {
		var name string
		err := s.db.QueryRow(
			`SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, table).Scan(&name)
		assert.NoError(t, err, "table %s should exist", table)
	}
}

func TestOpen_ForeignKeysEnforced(t *testing.T) {
	s := newTestStore(t)

	_, err := s.db.Exec(
		`INSERT INTO fleets (user_id, created_at, updated_at) VALUES ('usr-missing', '2026-01-01T00:00:00Z', '2026-01-01T00:00:00Z')`)
	assert.Error(t, err)
}

func TestUsers_CreateAndGet(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	user := createTestUser(t, s, "usr-alpha")

	got, err := s.GetUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.Email, got.Email)
	assert.False(t, got.Admin)

	byEmail, err := s.GetUserByEmail(ctx, user.Email)
	require.NoError(t, err)
	assert.Equal(t, user.ID, byEmail.ID)

	count, err := s.CountUsers(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestUsers_DuplicateEmail(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	createTestUser(t, s, "usr-one")

	now := time.Now()
	err := s.CreateUser(ctx, &domain.User{
		ID:           "usr-two",
		Email:        "usr-one@example.com",
		PasswordHash: "hash",
		DisplayName:  "Dup",
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	assert.ErrorIs(t, err, store.ErrAlreadyExists)
}

func TestSessions_Lifecycle(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	user := createTestUser(t, s, "usr-sess")
	now := time.Now()
	session := &domain.Session{
		ID:               "ses-one",
		UserID:           user.ID,
		RefreshTokenHash: "tokenhash",
		ExpiresAt:        now.Add(time.Hour),
		CreatedAt:        now,
		LastUsedAt:       now,
	}
	require.NoError(t, s.CreateSession(ctx, session))

	got, err := s.GetSessionByTokenHash(ctx, "tokenhash")
	require.NoError(t, err)
	assert.Equal(t, session.ID, got.ID)
	assert.Equal(t, user.ID, got.UserID)

	require.NoError(t, s.DeleteSession(ctx, session.ID))
	_, err = s.GetSessionByTokenHash(ctx, "tokenhash")
	assert.ErrorIs(t, err, store.ErrNotFound)

	assert.ErrorIs(t, s.DeleteSession(ctx, session.ID), store.ErrNotFound)
}

func TestUpsertPlanet_InsertThenUpdate(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	key := "https://swapi.dev/api/planets/1/"
	planet := &domain.Planet{
		Name:      "Tatooine",
		Climate:   "arid",
		Terrain:   "desert",
		Origin:    domain.OriginExternal,
		OriginKey: key,
	}

	id, inserted, err := s.UpsertPlanet(ctx, planet)
	require.NoError(t, err)
	assert.True(t, inserted)
	assert.NotZero(t, id)

	planet.Climate = "arid, hot"
	id2, inserted2, err := s.UpsertPlanet(ctx, planet)
	require.NoError(t, err)
	assert.False(t, inserted2)
	assert.Equal(t, id, id2)

	got, err := s.GetPlanet(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "arid, hot", got.Climate)
}

func TestCatalogMaps(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, _, err := s.UpsertPlanet(ctx, &domain.Planet{
		Name: "Naboo", Origin: domain.OriginExternal, OriginKey: "https://swapi.dev/api/planets/8/",
	})
	require.NoError(t, err)
	id, _, err := s.UpsertPlanet(ctx, &domain.Planet{
		Name: "Lah'mu", Origin: domain.OriginLocal, OriginKey: "local-lahmu",
	})
	require.NoError(t, err)

	names, err := s.CatalogNames(ctx, domain.KindPlanet, domain.OriginLocal)
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{"lah'mu": id}, names)

	keys, err := s.CatalogKeys(ctx, domain.KindPlanet, domain.OriginExternal)
	require.NoError(t, err)
	assert.Len(t, keys, 1)
	assert.Contains(t, keys, "https://swapi.dev/api/planets/8/")

	_, err = s.CatalogNames(ctx, domain.Kind("droid"), domain.OriginExternal)
	assert.Error(t, err)
}
