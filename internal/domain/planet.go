package domain

import "time"

// Planet is a catalog planet row.
// Numeric fields are pointers because the upstream feed reports many of them
// as "unknown"; absent means the feed did not provide a usable value.
type Planet struct {
	ID             int64
	Name           string
	RotationPeriod *int64
	OrbitalPeriod  *int64
	Diameter       *int64
	Climate        string
	Gravity        string
	Terrain        string
	SurfaceWater   *float64
	Population     *int64

	Origin    Origin
	OriginKey string

	CreatedAt time.Time
	UpdatedAt time.Time
}
