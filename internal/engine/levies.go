package engine

import (
	"fmt"

	"github.com/shopspring/decimal"

	"customs-web/internal/models"
	"customs-web/internal/rates"
)

// Charge line builders. Every amount is rounded to cents here, so the
// landed-cost subtotal is an exact sum of already-rounded lines.

const (
	chargeImportDuty        = "import_duty"
	chargeExcise            = "excise_tax"
	chargeImporterFee       = "importer_fee"
	chargeEnvironmentalLevy = "environmental_levy"
	chargeTireLevy          = "tire_levy"
	chargeProcessingFee     = "processing_fee"
)

// exciseLine computes alcohol excise on the basis the category's rate entry
// names: liters of pure alcohol for distilled categories, bulk liters for
// fermented ones.
func exciseLine(item models.AlcoholItem, entry rates.AlcoholCategoryRate) (models.ChargeLine, error) {
	var amount decimal.Decimal
	var descriptor string
	switch entry.ExciseBasis {
	case rates.ExcisePerLPA:
		lpa := item.TotalLPA()
		amount = money(lpa.Mul(entry.ExciseRate))
		descriptor = fmt.Sprintf("%s per LPA x %s LPA", moneyString(entry.ExciseRate), lpa.Round(2).StringFixed(2))
	case rates.ExcisePerLiter:
		liters := item.TotalVolumeLiters()
		amount = money(liters.Mul(entry.ExciseRate))
		descriptor = fmt.Sprintf("%s per liter x %s liters", moneyString(entry.ExciseRate), liters.Round(2).StringFixed(2))
	default:
		return models.ChargeLine{}, configurationError("unknown excise basis %q for alcohol category %q", string(entry.ExciseBasis), string(item.Category))
	}
	return models.ChargeLine{
		Code:           chargeExcise,
		Label:          "Excise Tax",
		RateDescriptor: descriptor,
		Amount:         amount,
	}, nil
}

func importerFeeLine(fee decimal.Decimal) models.ChargeLine {
	return models.ChargeLine{
		Code:           chargeImporterFee,
		Label:          "Unlicensed Importer Fee",
		RateDescriptor: "flat",
		Amount:         money(fee),
	}
}

// environmentalLevyLine applies the levy rules in precedence order: the
// antique flat fee wins over the aged-vehicle percentage, which applies
// strictly after AgedAfterYears; everything else pays the standard flat
// fee. preLevySubtotal is CIF plus duty and ad-valorem charges, before any
// levy or fee.
func environmentalLevyLine(levy rates.EnvironmentalLevyRates, ageYears int, antique bool, preLevySubtotal decimal.Decimal) models.ChargeLine {
	line := models.ChargeLine{
		Code:  chargeEnvironmentalLevy,
		Label: "Environmental Levy",
	}
	switch {
	case antique:
		line.RateDescriptor = "flat (antique)"
		line.Amount = money(levy.AntiqueFee)
	case ageYears > levy.AgedAfterYears:
		line.RateDescriptor = fmt.Sprintf("%s of pre-levy subtotal (over %d years old)", percentString(levy.AgedRatePercent), levy.AgedAfterYears)
		line.Amount = percentOf(preLevySubtotal, levy.AgedRatePercent)
	default:
		line.RateDescriptor = "flat"
		line.Amount = money(levy.StandardFee)
	}
	return line
}

func tireLevyLine(perTire decimal.Decimal, tireCount int) models.ChargeLine {
	return models.ChargeLine{
		Code:           chargeTireLevy,
		Label:          "Used Tire Levy",
		RateDescriptor: fmt.Sprintf("%s x %d tires", moneyString(perTire), tireCount),
		Amount:         money(perTire.Mul(decimal.NewFromInt(int64(tireCount)))),
	}
}

// processingFeeLine is a percentage of CIF clamped to the configured
// bounds. The clamp is applied to the computed amount, not the inputs.
func processingFeeLine(fee rates.ProcessingFeeRates, cif decimal.Decimal) models.ChargeLine {
	amount := percentOf(cif, fee.RatePercent)
	if amount.LessThan(fee.MinFee) {
		amount = money(fee.MinFee)
	}
	if amount.GreaterThan(fee.MaxFee) {
		amount = money(fee.MaxFee)
	}
	return models.ChargeLine{
		Code:  chargeProcessingFee,
		Label: "Processing Fee",
		RateDescriptor: fmt.Sprintf("%s of CIF (min %s, max %s)",
			percentString(fee.RatePercent), moneyString(fee.MinFee), moneyString(fee.MaxFee)),
		Amount: amount,
	}
}

// extraChargeLines materializes whatever ad-valorem charges the snapshot
// defines (stamp duty in versions that carry it), in snapshot order. The
// calculator never assumes a fixed charge list.
func extraChargeLines(charges []rates.ExtraCharge, cif decimal.Decimal) []models.ChargeLine {
	lines := make([]models.ChargeLine, 0, len(charges))
	for _, ch := range charges {
		lines = append(lines, models.ChargeLine{
			Code:           ch.Code,
			Label:          ch.Label,
			RateDescriptor: fmt.Sprintf("%s of CIF", percentString(ch.RatePercent)),
			Amount:         percentOf(cif, ch.RatePercent),
		})
	}
	return lines
}

// sumLines is the landed-cost subtotal: CIF plus every charge line.
func sumLines(cif decimal.Decimal, lines []models.ChargeLine) decimal.Decimal {
	subtotal := cif
	for _, line := range lines {
		subtotal = subtotal.Add(line.Amount)
	}
	return subtotal
}
