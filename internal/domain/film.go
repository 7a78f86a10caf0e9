package domain

import "time"

// Film is a catalog film row. Films declare the bulk of the catalog's
// many-to-many relationships (characters, planets, starships, vehicles,
// species).
type Film struct {
	ID           int64
	Title        string
	EpisodeID    *int64
	OpeningCrawl string
	Director     string
	Producer     string
	ReleaseDate  *time.Time

	Origin    Origin
	OriginKey string

	CreatedAt time.Time
	UpdatedAt time.Time
}
