package domain

import "time"

// Fleet is a user's personal collection of quantity-tagged starship
// references. Exactly one fleet exists per user, created lazily on the first
// item add.
type Fleet struct {
	ID        int64
	UserID    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// FleetItem references one starship (catalog or owned) from a fleet with a
// quantity and an optional nickname. The (FleetID, StarshipID) pair is unique;
// adding the same starship again increments the quantity.
type FleetItem struct {
	FleetID    int64
	StarshipID int64
	Quantity   int64
	Nickname   *string
	AddedAt    time.Time
}
