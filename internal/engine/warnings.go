package engine

import (
	"fmt"

	"customs-web/internal/models"
	"customs-web/internal/rates"
)

// The flagger is the last stage of every calculation. It reads the
// finished breakdown and the input, and only writes warnings and
// compliance flags; amounts are final before it runs.

func (c *Calculator) flagAlcohol(item models.AlcoholItem, entry rates.AlcoholCategoryRate, result *models.CalculationResult) {
	cfg := c.snap.Alcohol

	if entry.RequiresPermit {
		result.RequiresPermit = true
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("A liquor permit is required to import %s products.", string(item.Category)))
	}
	if cfg.HighABVWarningPercent > 0 && item.ABVPercent > cfg.HighABVWarningPercent {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("High alcohol strength: %.1f%% ABV exceeds the %.0f%% advisory threshold.", item.ABVPercent, cfg.HighABVWarningPercent))
	}
	if cfg.RestrictedABVPercent > 0 && item.ABVPercent > cfg.RestrictedABVPercent {
		result.IsRestricted = true
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("Restricted item: beverages above %.0f%% ABV need prior authorization from the Comptroller of Customs.", cfg.RestrictedABVPercent))
	}
	if cfg.VolumeWarningLiters > 0 {
		if liters, _ := item.TotalVolumeLiters().Float64(); liters > cfg.VolumeWarningLiters {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("Total volume %.2f liters exceeds the %.0f liter commercial declaration threshold.", liters, cfg.VolumeWarningLiters))
		}
	}
}

func (c *Calculator) flagVehicle(item models.VehicleItem, ageYears int, result *models.CalculationResult) {
	cfg := c.snap.Vehicle

	// Vehicle import permits are always advisory, never blocking.
	result.RequiresPermit = true
	result.Warnings = append(result.Warnings,
		"A motor vehicle import permit is required before the vehicle can be cleared.")

	if ageYears > cfg.ApprovalAgeYears && !item.HasMinisterialApproval {
		result.RequiresApproval = true
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("Vehicle is over %d years old and has no ministerial approval on file; approval is required before import.", cfg.ApprovalAgeYears))
	}
	if cfg.RestrictedAgeYears > 0 && ageYears > cfg.RestrictedAgeYears && !item.IsAntique {
		result.IsRestricted = true
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("Restricted import: vehicles over %d years old are not normally admissible unless declared antique.", cfg.RestrictedAgeYears))
	}
	if item.IsAntique {
		result.Warnings = append(result.Warnings,
			"Antique/vintage vehicle: special handling applies and the reduced environmental levy has been used.")
	}
}
