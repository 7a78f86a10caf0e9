package domain

import "time"

// Species is a catalog species row.
type Species struct {
	ID              int64
	Name            string
	Classification  string
	Designation     string
	AverageHeight   *float64
	AverageLifespan *int64
	SkinColors      string
	HairColors      string
	EyeColors       string
	Language        string

	// HomeworldID references the planet this species originates from, when
	// the feed record resolved to an ingested planet.
	HomeworldID *int64

	Origin    Origin
	OriginKey string

	CreatedAt time.Time
	UpdatedAt time.Time
}
