package domain

import "time"

// Vehicle is a catalog vehicle row. Unlike starships, vehicles exist only as
// catalog entities and carry no ownership or lineage state.
type Vehicle struct {
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
	VehicleClass         string

	Origin    Origin
	OriginKey string

	CreatedAt time.Time
	UpdatedAt time.Time
}
