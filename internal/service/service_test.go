package service

import (
	"context"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/hangarbay/hangar-server/internal/auth"
	"github.com/hangarbay/hangar-server/internal/domain"
	"github.com/hangarbay/hangar-server/internal/store/sqlite"
)

func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()

	s, err := sqlite.Open(filepath.Join(t.TempDir(), "test.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func newTestTokenService(t *testing.T) *auth.TokenService {
	t.Helper()

	key, err := auth.LoadOrGenerateKey(t.TempDir())
	require.NoError(t, err)
	svc, err := auth.NewTokenService(key, 15*time.Minute, 30*24*time.Hour)
	require.NoError(t, err)
	return svc
}

func createTestUser(t *testing.T, s *sqlite.Store, userID string) *domain.User {
	t.Helper()

	now := time.Now()
	user := &domain.User{
		ID:           userID,
		Email:        userID + "@example.com",
		PasswordHash: "hash",
		DisplayName:  "Test " + userID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	require.NoError(t, s.CreateUser(context.Background(), user))
	return user
}

func createCatalogShip(t *testing.T, s *sqlite.Store, name, key string) int64 {
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
	id, _, err := s.UpsertCatalogStarship(context.Background(), ship)
	require.NoError(t, err)
	return id
}
