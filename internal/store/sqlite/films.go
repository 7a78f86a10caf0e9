package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/hangarbay/hangar-server/internal/domain"
	"github.com/hangarbay/hangar-server/internal/store"
)

const filmColumns = `id, title, episode_id, opening_crawl, director, producer, release_date, origin, origin_key, created_at, updated_at`

func scanFilm(scanner interface{ Scan(dest ...any) error }) (*domain.Film, error) {
	var f domain.Film
	var (
		episodeID   sql.NullInt64
		releaseDate sql.NullString
		createdAt   string
		updatedAt   string
	)

	err := scanner.Scan(
		&f.ID,
		&f.Title,
		&episodeID,
		&f.OpeningCrawl,
		&f.Director,
		&f.Producer,
		&releaseDate,
		&f.Origin,
		&f.OriginKey,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	f.EpisodeID = int64Ptr(episodeID)
	if f.ReleaseDate, err = timePtr(releaseDate); err != nil {
		return nil, err
	}

	if f.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if f.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}

	return &f, nil
}

// UpsertFilm creates or fully replaces a film keyed by (origin, origin key).
func (s *Store) UpsertFilm(ctx context.Context, f *domain.Film) (int64, bool, error) {
	now := time.Now()

	var existingID int64
	err := s.db.QueryRowContext(ctx,
		`SELECT id FROM films WHERE origin = ? AND origin_key = ?`,
		f.Origin, f.OriginKey).Scan(&existingID)

	switch {
	case errors.Is(err, sql.ErrNoRows):
		res, err := s.db.ExecContext(ctx, `
			INSERT INTO films (title, episode_id, opening_crawl, director, producer, release_date, origin, origin_key, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			f.Title,
			nullableInt64(f.EpisodeID),
			f.OpeningCrawl,
			f.Director,
			f.Producer,
			nullTimeString(f.ReleaseDate),
			f.Origin,
			f.OriginKey,
			formatTime(now),
			formatTime(now),
		)
		if err != nil {
			return 0, false, fmt.Errorf("insert film: %w", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return 0, false, fmt.Errorf("film insert id: %w", err)
		}
		f.ID = id
		return id, true, nil

	case err != nil:
		return 0, false, fmt.Errorf("lookup film: %w", err)

	default:
		_, err := s.db.ExecContext(ctx, `
			UPDATE films
			SET title = ?, episode_id = ?, opening_crawl = ?, director = ?, producer = ?, release_date = ?, updated_at = ?
			WHERE id = ?`,
			f.Title,
			nullableInt64(f.EpisodeID),
			f.OpeningCrawl,
			f.Director,
			f.Producer,
			nullTimeString(f.ReleaseDate),
			formatTime(now),
			existingID,
		)
		if err != nil {
			return 0, false, fmt.Errorf("update film: %w", err)
		}
		f.ID = existingID
		return existingID, false, nil
	}
}

// ListFilms returns every film ordered by episode then title.
func (s *Store) ListFilms(ctx context.Context) ([]*domain.Film, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+filmColumns+` FROM films ORDER BY episode_id, title`)
	if err != nil {
		return nil, fmt.Errorf("list films: %w", err)
	}
	defer rows.Close()

	var films []*domain.Film
	for rows.Next() {
		f, err := scanFilm(rows)
		if err != nil {
			return nil, err
		}
		films = append(films, f)
	}
	return films, rows.Err()
}

// GetFilm returns a film by internal key.
func (s *Store) GetFilm(ctx context.Context, id int64) (*domain.Film, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+filmColumns+` FROM films WHERE id = ?`, id)

	f, err := scanFilm(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get film: %w", err)
	}
	return f, nil
}
