package engine

import (
	"time"

	"customs-web/internal/models"
)

const minModelYear = 1900

func validateAlcohol(item models.AlcoholItem) error {
	if item.ProductName == "" {
		return invalidInput("product_name", "product name is required")
	}
	if !item.Category.Valid() {
		return invalidInput("category", "unknown alcohol category %q", string(item.Category))
	}
	if item.VolumeMl <= 0 {
		return invalidInput("volume_ml", "unit volume must be greater than zero milliliters")
	}
	if item.ABVPercent < 0 || item.ABVPercent > 100 {
		return invalidInput("abv_percent", "alcohol by volume must be between 0 and 100")
	}
	if item.Quantity < 1 {
		return invalidInput("quantity", "quantity must be at least 1")
	}
	if item.CIFValue.IsNegative() {
		return invalidInput("cif_value", "CIF value must not be negative")
	}
	return nil
}

func validateVehicle(item models.VehicleItem, now time.Time) error {
	if item.Make == "" {
		return invalidInput("make", "vehicle make is required")
	}
	if item.Model == "" {
		return invalidInput("model", "vehicle model is required")
	}
	if len(item.VIN) > 17 {
		return invalidInput("vin", "VIN must not exceed 17 characters")
	}
	maxYear := now.Year() + 1
	if item.ModelYear < minModelYear || item.ModelYear > maxYear {
		return invalidInput("model_year", "model year must be between %d and %d", minModelYear, maxYear)
	}
	if !item.Category.Valid() {
		return invalidInput("category", "unknown vehicle category %q", string(item.Category))
	}
	if item.Category != models.VehicleElectric && item.EngineCc <= 0 {
		return invalidInput("engine_cc", "engine displacement is required for %s vehicles", string(item.Category))
	}
	if item.CIFValue.IsNegative() {
		return invalidInput("cif_value", "CIF value must not be negative")
	}
	if item.IsUsed && item.Mileage <= 0 {
		return invalidInput("mileage", "mileage is required for used vehicles")
	}
	if item.TireCount < 0 {
		return invalidInput("tire_count", "tire count must not be negative")
	}
	if !item.ConcessionType.Valid() {
		return invalidInput("concession_type", "unknown concession type %q", string(item.ConcessionType))
	}
	return nil
}
