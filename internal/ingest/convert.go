package ingest

import (
	"github.com/hangarbay/hangar-server/internal/domain"
	"github.com/hangarbay/hangar-server/internal/starfeed"
)

func planetFromFeed(rec starfeed.Planet) *domain.Planet {
	return &domain.Planet{
		Name:           rec.Name,
		RotationPeriod: parseInt(rec.RotationPeriod),
		OrbitalPeriod:  parseInt(rec.OrbitalPeriod),
		Diameter:       parseInt(rec.Diameter),
		Climate:        rec.Climate,
		Gravity:        rec.Gravity,
		Terrain:        rec.Terrain,
		SurfaceWater:   parseFloat(rec.SurfaceWater),
		Population:     parseInt(rec.Population),
	}
}

func speciesFromFeed(rec starfeed.Species, res *Resolver) *domain.Species {
	return &domain.Species{
		Name:            rec.Name,
		Classification:  rec.Classification,
		Designation:     rec.Designation,
		AverageHeight:   parseFloat(rec.AverageHeight),
		AverageLifespan: parseInt(rec.AverageLifespan),
		SkinColors:      rec.SkinColors,
		HairColors:      rec.HairColors,
		EyeColors:       rec.EyeColors,
		Language:        rec.Language,
		HomeworldID:     res.resolvePtr(domain.KindPlanet, rec.Homeworld),
	}
}

func personFromFeed(rec starfeed.Person, res *Resolver) *domain.Person {
	return &domain.Person{
		Name:        rec.Name,
		Height:      parseFloat(rec.Height),
		Mass:        parseFloat(rec.Mass),
		HairColor:   rec.HairColor,
		SkinColor:   rec.SkinColor,
		EyeColor:    rec.EyeColor,
		BirthYear:   rec.BirthYear,
		Gender:      rec.Gender,
		HomeworldID: res.resolvePtr(domain.KindPlanet, rec.Homeworld),
	}
}

func filmFromFeed(rec starfeed.Film) *domain.Film {
	episode := rec.EpisodeID
	return &domain.Film{
		Title:        rec.Title,
		EpisodeID:    &episode,
		OpeningCrawl: rec.OpeningCrawl,
		Director:     rec.Director,
		Producer:     rec.Producer,
		ReleaseDate:  parseDate(rec.ReleaseDate),
	}
}

func starshipFromFeed(rec starfeed.Starship) *domain.Starship {
	return &domain.Starship{
		Name:                 rec.Name,
		Model:                rec.Model,
		Manufacturer:         rec.Manufacturer,
		CostInCredits:        parseInt(rec.CostInCredits),
		Length:               parseFloat(rec.Length),
		MaxAtmospheringSpeed: parseInt(rec.MaxAtmospheringSpeed),
		Crew:                 rec.Crew,
		Passengers:           rec.Passengers,
		CargoCapacity:        parseInt(rec.CargoCapacity),
		Consumables:          rec.Consumables,
		HyperdriveRating:     parseFloat(rec.HyperdriveRating),
		MGLT:                 parseInt(rec.MGLT),
		StarshipClass:        rec.StarshipClass,
	}
}

func vehicleFromFeed(rec starfeed.Vehicle) *domain.Vehicle {
	return &domain.Vehicle{
		Name:                 rec.Name,
		Model:                rec.Model,
		Manufacturer:         rec.Manufacturer,
		CostInCredits:        parseInt(rec.CostInCredits),
		Length:               parseFloat(rec.Length),
		MaxAtmospheringSpeed: parseInt(rec.MaxAtmospheringSpeed),
		Crew:                 rec.Crew,
		Passengers:           rec.Passengers,
		CargoCapacity:        parseInt(rec.CargoCapacity),
		Consumables:          rec.Consumables,
		VehicleClass:         rec.VehicleClass,
	}
}
