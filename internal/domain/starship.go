package domain

import "time"

// Starship is a single table serving three roles:
//
//   - Catalog row: IsCatalog=true, Origin/OriginKey set, OwnerID=nil,
//     ForkOriginID=nil. Created and updated only by sync runs.
//   - Fork row: IsCatalog=false, OwnerID set, ForkOriginID pointing at the
//     catalog row it was cloned from, Origin=nil.
//   - From-scratch custom row: IsCatalog=false, OwnerID set, ForkOriginID=nil.
//
// IsActive is false for retired catalog rows and soft-deleted owned rows.
// Catalog rows are never deleted, only deactivated.
type Starship struct {
	ID                   int64
	Name                 string
	Model                string
	Manufacturer         string
	CostInCredits        *int64
	Length               *float64
	MaxAtmospheringSpeed *int64
	Crew                 string
	Passengers           string
	CargoCapacity        *int64
	Consumables          string
	HyperdriveRating     *float64
	MGLT                 *int64
	StarshipClass        string

	IsCatalog bool
	IsActive  bool

	// OwnerID is set for forks and customs, nil for catalog rows.
	OwnerID *string
	// ForkOriginID points at the catalog starship a fork was cloned from.
	// Always references a row with IsCatalog=true.
	ForkOriginID *int64

	// Origin/OriginKey are set only for catalog rows.
	Origin    *Origin
	OriginKey *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsFork reports whether the starship is a user fork of a catalog row.
func (s *Starship) IsFork() bool {
	return !s.IsCatalog && s.ForkOriginID != nil
}

// OwnedBy reports whether the starship is a non-catalog row owned by userID.
func (s *Starship) OwnedBy(userID string) bool {
	return !s.IsCatalog && s.OwnerID != nil && *s.OwnerID == userID
}

// CloneForOwner copies every domain field into a new inactive-ID fork row
// owned by userID. Copy-on-fork: the returned row shares no mutable state
// with the receiver.
func (s *Starship) CloneForOwner(userID string, name string) *Starship {
	fork := &Starship{
		Name:                 name,
		Model:                s.Model,
		Manufacturer:         s.Manufacturer,
		CostInCredits:        cloneInt64(s.CostInCredits),
		Length:               cloneFloat64(s.Length),
		MaxAtmospheringSpeed: cloneInt64(s.MaxAtmospheringSpeed),
		Crew:                 s.Crew,
		Passengers:           s.Passengers,
		CargoCapacity:        cloneInt64(s.CargoCapacity),
		Consumables:          s.Consumables,
		HyperdriveRating:     cloneFloat64(s.HyperdriveRating),
		MGLT:                 cloneInt64(s.MGLT),
		StarshipClass:        s.StarshipClass,
		IsCatalog:            false,
		IsActive:             true,
		OwnerID:              &userID,
	}
	forkOrigin := s.ID
	fork.ForkOriginID = &forkOrigin
	return fork
}

func cloneInt64(v *int64) *int64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func cloneFloat64(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
