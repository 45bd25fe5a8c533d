package engine

import (
	"fmt"

	"github.com/shopspring/decimal"

	"customs-web/internal/models"
)

// CalculateAlcohol produces the complete landed-cost breakdown for one
// alcohol item: import duty on CIF, excise on the category's basis, the
// unlicensed importer fee when no liquor license is held, then VAT on the
// landed-cost subtotal. Either a full result or an error is returned,
// never a partial result.
func (c *Calculator) CalculateAlcohol(item models.AlcoholItem) (*models.CalculationResult, error) {
	if err := validateAlcohol(item); err != nil {
		return nil, err
	}
	entry, err := c.resolveAlcohol(item.Category)
	if err != nil {
		return nil, err
	}

	lines := []models.ChargeLine{{
		Code:           chargeImportDuty,
		Label:          "Import Duty",
		RateDescriptor: fmt.Sprintf("%s of CIF", percentString(entry.DutyRatePercent)),
		Amount:         percentOf(item.CIFValue, entry.DutyRatePercent),
	}}

	excise, err := exciseLine(item, entry)
	if err != nil {
		return nil, err
	}
	lines = append(lines, excise)

	if !item.HasLiquorLicense && c.snap.Alcohol.UnlicensedImporterFee.IsPositive() {
		lines = append(lines, importerFeeLine(c.snap.Alcohol.UnlicensedImporterFee))
	}

	cif := money(item.CIFValue)
	subtotal := sumLines(cif, lines)
	vat := percentOf(subtotal, c.snap.VATRatePercent)

	result := &models.CalculationResult{
		Calculator:         models.CalculatorAlcohol,
		Alcohol:            &item,
		HSCode:             entry.HSCode,
		HSDescription:      entry.HSDescription,
		CIFValue:           cif,
		Lines:              lines,
		LandedCostSubtotal: subtotal,
		VATAmount:          vat,
		TotalLandedCost:    subtotal.Add(vat),
		ConcessionSavings:  decimal.Zero,
		SnapshotVersion:    c.snap.Version,
	}
	c.flagAlcohol(item, entry, result)
	return result, nil
}
