package engine

import (
	"fmt"

	"customs-web/internal/models"
	"customs-web/internal/rates"
)

// CalculateVehicle produces the complete landed-cost breakdown for one
// vehicle: tiered import duty adjusted for any concession, the ad-valorem
// charges the snapshot defines, the environmental levy, the used-tire
// levy, the clamped processing fee, then VAT on the landed-cost subtotal.
func (c *Calculator) CalculateVehicle(item models.VehicleItem) (*models.CalculationResult, error) {
	now := c.now()
	if err := validateVehicle(item, now); err != nil {
		return nil, err
	}
	entry, err := c.resolveVehicle(item)
	if err != nil {
		return nil, err
	}

	rate := entry.StandardRatePercent
	if rates.TierForValue(item.CIFValue, c.snap.Vehicle.ValueTierThreshold) == rates.ValueTierUpper {
		rate = entry.UpperRatePercent
	}
	baseDuty := percentOf(item.CIFValue, rate)
	concession, err := c.applyConcession(item, baseDuty, fmt.Sprintf("%s of CIF", percentString(rate)))
	if err != nil {
		return nil, err
	}

	lines := []models.ChargeLine{{
		Code:           chargeImportDuty,
		Label:          "Import Duty",
		RateDescriptor: concession.descriptor,
		Amount:         concession.duty,
	}}
	lines = append(lines, extraChargeLines(c.snap.Vehicle.ExtraCharges, item.CIFValue)...)

	cif := money(item.CIFValue)
	ageYears := item.AgeYears(now)
	preLevy := sumLines(cif, lines)
	lines = append(lines, environmentalLevyLine(c.snap.Vehicle.EnvironmentalLevy, ageYears, item.IsAntique, preLevy))

	if item.IsUsed && item.TireCount > 0 && c.snap.Vehicle.EnvironmentalLevy.TireLevyPerTire.IsPositive() {
		lines = append(lines, tireLevyLine(c.snap.Vehicle.EnvironmentalLevy.TireLevyPerTire, item.TireCount))
	}
	lines = append(lines, processingFeeLine(c.snap.Vehicle.ProcessingFee, item.CIFValue))

	subtotal := sumLines(cif, lines)
	vat := percentOf(subtotal, c.snap.VATRatePercent)

	result := &models.CalculationResult{
		Calculator:         models.CalculatorVehicle,
		Vehicle:            &item,
		HSCode:             entry.HSCode,
		HSDescription:      entry.HSDescription,
		CIFValue:           cif,
		Lines:              lines,
		LandedCostSubtotal: subtotal,
		VATAmount:          vat,
		TotalLandedCost:    subtotal.Add(vat),
		ConcessionSavings:  concession.savings,
		SnapshotVersion:    c.snap.Version,
	}
	c.flagVehicle(item, ageYears, result)
	return result, nil
}
