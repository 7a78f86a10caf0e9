package domain

import "time"

// Person is a catalog person row.
type Person struct {
	ID        int64
	Name      string
	Height    *float64
	Mass      *float64
	HairColor string
	SkinColor string
	EyeColor  string
	BirthYear string
	Gender    string

	HomeworldID *int64

	Origin    Origin
	OriginKey string

	CreatedAt time.Time
	UpdatedAt time.Time
}
