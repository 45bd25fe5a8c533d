package engine

import (
	"customs-web/internal/models"
	"customs-web/internal/rates"
)

// resolveAlcohol returns the rate entry for an alcohol category, which
// carries the tariff classification alongside the rates. An unknown
// category is an input error; a known category absent from the snapshot is
// a configuration error.
func (c *Calculator) resolveAlcohol(cat models.AlcoholCategory) (rates.AlcoholCategoryRate, error) {
	if !cat.Valid() {
		return rates.AlcoholCategoryRate{}, invalidInput("category", "unknown alcohol category %q", string(cat))
	}
	entry, ok := c.snap.AlcoholCategoryRate(cat)
	if !ok {
		return rates.AlcoholCategoryRate{}, configurationError("no rate entry for alcohol category %q", string(cat))
	}
	return entry, nil
}

// resolveVehicle returns the duty entry for a vehicle's category and
// displacement band.
func (c *Calculator) resolveVehicle(item models.VehicleItem) (rates.BandRate, error) {
	if !item.Category.Valid() {
		return rates.BandRate{}, invalidInput("category", "unknown vehicle category %q", string(item.Category))
	}
	band := rates.BandCodeFor(item.Category, item.EngineCc)
	entry, ok := c.snap.VehicleBandRate(item.Category, band)
	if !ok {
		return rates.BandRate{}, configurationError("no duty entry for vehicle category %q band %q", string(item.Category), band)
	}
	return entry, nil
}
