package engine

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"customs-web/internal/models"
	"customs-web/internal/rates"
)

func testVehicle() models.VehicleItem {
	return models.VehicleItem{
		Make:      "Toyota",
		Model:     "Corolla",
		ModelYear: 2023,
		Category:  models.VehicleGasoline,
		EngineCc:  1800,
		CIFValue:  decimal.NewFromInt(20000),
	}
}

func TestVehicleValueTierBoundary(t *testing.T) {
	calc := testCalculator(t, nil)

	// 1800cc gasoline: 50% at or below $50,000, 60% strictly above.
	tests := []struct {
		name string
		cif  string
		duty string
		rate string
	}{
		{"just below threshold", "49999.99", "25000.00", "50% of CIF"},
		{"exactly at threshold", "50000.00", "25000.00", "50% of CIF"},
		{"just above threshold", "50000.01", "30000.01", "60% of CIF"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			item := testVehicle()
			item.CIFValue = decimal.RequireFromString(tc.cif)
			res, err := calc.CalculateVehicle(item)
			require.NoError(t, err)
			assert.Equal(t, tc.duty, lineAmount(t, res, chargeImportDuty).StringFixed(2))
			assert.Equal(t, tc.rate, res.Lines[0].RateDescriptor)
			assertBreakdownIdentity(t, res)
		})
	}
}

func TestVehicleDisplacementBandBoundary(t *testing.T) {
	calc := testCalculator(t, nil)

	// Exactly 1500cc stays in the lower band.
	tests := []struct {
		name string
		cc   int
		duty string
	}{
		{"below cutoff", 1499, "9000.00"},
		{"exactly at cutoff", 1500, "9000.00"},
		{"above cutoff", 1501, "10000.00"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			item := testVehicle()
			item.EngineCc = tc.cc
			res, err := calc.CalculateVehicle(item)
			require.NoError(t, err)
			assert.Equal(t, tc.duty, lineAmount(t, res, chargeImportDuty).StringFixed(2))
		})
	}
}

func TestVehicleAgeBoundaryLevy(t *testing.T) {
	calc := testCalculator(t, nil)

	// Clock fixed to 2025: a 2015 model is exactly 10 years old and pays
	// the flat levy; 2014 is over 10 and pays 20% of the pre-levy subtotal.
	item := testVehicle()
	item.EngineCc = 1400
	item.ModelYear = 2015
	res, err := calc.CalculateVehicle(item)
	require.NoError(t, err)
	assert.Equal(t, "200.00", lineAmount(t, res, chargeEnvironmentalLevy).StringFixed(2))
	assert.False(t, res.RequiresApproval)

	item.ModelYear = 2014
	res, err = calc.CalculateVehicle(item)
	require.NoError(t, err)
	// 20% of (20,000 CIF + 9,000 duty).
	assert.Equal(t, "5800.00", lineAmount(t, res, chargeEnvironmentalLevy).StringFixed(2))
	assert.True(t, res.RequiresApproval)
	assert.True(t, hasWarning(res, "ministerial approval"))
	assertBreakdownIdentity(t, res)

	item.HasMinisterialApproval = true
	res, err = calc.CalculateVehicle(item)
	require.NoError(t, err)
	assert.Equal(t, "5800.00", lineAmount(t, res, chargeEnvironmentalLevy).StringFixed(2))
	assert.False(t, res.RequiresApproval)
	assert.False(t, hasWarning(res, "ministerial approval"))
}

func TestVehicleAntiquePrecedence(t *testing.T) {
	calc := testCalculator(t, nil)

	item := testVehicle()
	item.ModelYear = 1990
	item.EngineCc = 1600
	item.CIFValue = decimal.NewFromInt(15000)
	item.IsAntique = true
	item.HasMinisterialApproval = true

	res, err := calc.CalculateVehicle(item)
	require.NoError(t, err)

	// The antique flat fee wins over the aged-vehicle 20% rule.
	assert.Equal(t, "100.00", lineAmount(t, res, chargeEnvironmentalLevy).StringFixed(2))
	assert.False(t, res.IsRestricted)
	assert.True(t, hasWarning(res, "Antique"))
	assertBreakdownIdentity(t, res)
}

func TestVehicleOldNonAntiqueRestricted(t *testing.T) {
	calc := testCalculator(t, nil)

	item := testVehicle()
	item.ModelYear = 1995
	item.IsUsed = true
	item.Mileage = 180000
	item.HasMinisterialApproval = true

	res, err := calc.CalculateVehicle(item)
	require.NoError(t, err)
	assert.True(t, res.IsRestricted)
	assert.True(t, hasWarning(res, "Restricted import"))
}

func TestVehicleUsedTireLevy(t *testing.T) {
	calc := testCalculator(t, nil)

	item := testVehicle()
	item.ModelYear = 2018
	item.EngineCc = 1600
	item.IsUsed = true
	item.Mileage = 45000
	item.TireCount = 4

	res, err := calc.CalculateVehicle(item)
	require.NoError(t, err)
	assert.Equal(t, "20.00", lineAmount(t, res, chargeTireLevy).StringFixed(2))
	assertBreakdownIdentity(t, res)

	item.IsUsed = false
	item.Mileage = 0
	res, err = calc.CalculateVehicle(item)
	require.NoError(t, err)
	assert.False(t, hasLine(res, chargeTireLevy))
}

func TestVehicleProcessingFeeClamp(t *testing.T) {
	calc := testCalculator(t, nil)

	tests := []struct {
		name string
		cif  int64
		fee  string
	}{
		{"clamped to minimum", 500, "10.00"},
		{"within bounds", 20000, "200.00"},
		{"clamped to maximum", 100000, "750.00"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			item := testVehicle()
			item.CIFValue = decimal.NewFromInt(tc.cif)
			res, err := calc.CalculateVehicle(item)
			require.NoError(t, err)
			assert.Equal(t, tc.fee, lineAmount(t, res, chargeProcessingFee).StringFixed(2))
			assertBreakdownIdentity(t, res)
		})
	}
}

func TestVehicleConcessions(t *testing.T) {
	calc := testCalculator(t, nil)

	base := testVehicle()
	base.CIFValue = decimal.NewFromInt(40000) // 50% band rate: $20,000 base duty

	t.Run("not eligible ignores supplied type", func(t *testing.T) {
		item := base
		item.ConcessionType = models.ConcessionFlatRate
		res, err := calc.CalculateVehicle(item)
		require.NoError(t, err)
		assert.Equal(t, "20000.00", lineAmount(t, res, chargeImportDuty).StringFixed(2))
		assert.Equal(t, "0.00", res.ConcessionSavings.StringFixed(2))
	})

	t.Run("eligible without type is ambiguous", func(t *testing.T) {
		item := base
		item.QualifiesForConcession = true
		_, err := calc.CalculateVehicle(item)
		var invalid *InvalidInputError
		require.ErrorAs(t, err, &invalid)
		assert.Equal(t, "concession_type", invalid.Field)
	})

	tests := []struct {
		name    string
		ctype   models.ConcessionType
		duty    string
		savings string
	}{
		{"20 percent off", models.ConcessionReducedRate20, "16000.00", "4000.00"},
		{"15 percent off", models.ConcessionReducedRate15, "17000.00", "3000.00"},
		{"flat replacement rate", models.ConcessionFlatRate, "4000.00", "16000.00"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			item := base
			item.QualifiesForConcession = true
			item.ConcessionType = tc.ctype
			res, err := calc.CalculateVehicle(item)
			require.NoError(t, err)
			duty := lineAmount(t, res, chargeImportDuty)
			assert.Equal(t, tc.duty, duty.StringFixed(2))
			assert.Equal(t, tc.savings, res.ConcessionSavings.StringFixed(2))
			assert.True(t, duty.LessThanOrEqual(decimal.NewFromInt(20000)))
			assertBreakdownIdentity(t, res)
		})
	}

	t.Run("concession never increases duty", func(t *testing.T) {
		punitive := testCalculator(t, func(doc *rates.Document) {
			for i := range doc.Vehicle.Concessions {
				if doc.Vehicle.Concessions[i].Code == "flat_rate" {
					doc.Vehicle.Concessions[i].Percent = 60
				}
			}
		})
		item := base
		item.QualifiesForConcession = true
		item.ConcessionType = models.ConcessionFlatRate
		res, err := punitive.CalculateVehicle(item)
		require.NoError(t, err)
		assert.Equal(t, "20000.00", lineAmount(t, res, chargeImportDuty).StringFixed(2))
		assert.Equal(t, "0.00", res.ConcessionSavings.StringFixed(2))
	})
}

func TestVehicleConfiguredStampDuty(t *testing.T) {
	calc := testCalculator(t, func(doc *rates.Document) {
		doc.Vehicle.ExtraCharges = []rates.ExtraChargeDocument{
			{Code: "stamp_duty", Label: "Stamp Duty", RatePercent: 2},
		}
	})

	item := models.VehicleItem{
		Make:      "Nissan",
		Model:     "Leaf",
		ModelYear: 2024,
		Category:  models.VehicleElectric,
		CIFValue:  decimal.NewFromInt(30000),
	}
	res, err := calc.CalculateVehicle(item)
	require.NoError(t, err)

	assert.Equal(t, "3000.00", lineAmount(t, res, chargeImportDuty).StringFixed(2))
	assert.Equal(t, "600.00", lineAmount(t, res, "stamp_duty").StringFixed(2))
	assert.Equal(t, "200.00", lineAmount(t, res, chargeEnvironmentalLevy).StringFixed(2))
	assert.Equal(t, "300.00", lineAmount(t, res, chargeProcessingFee).StringFixed(2))
	assert.Equal(t, "34100.00", res.LandedCostSubtotal.StringFixed(2))
	assert.Equal(t, "3410.00", res.VATAmount.StringFixed(2))
	assert.Equal(t, "37510.00", res.TotalLandedCost.StringFixed(2))
	assertBreakdownIdentity(t, res)

	// The default snapshot defines no extra charges.
	plain := testCalculator(t, nil)
	res, err = plain.CalculateVehicle(item)
	require.NoError(t, err)
	assert.False(t, hasLine(res, "stamp_duty"))
}

func TestVehicleElectricUpperTier(t *testing.T) {
	calc := testCalculator(t, nil)

	item := models.VehicleItem{
		Make:      "Tesla",
		Model:     "Model S",
		ModelYear: 2025,
		Category:  models.VehicleElectric,
		CIFValue:  decimal.NewFromInt(80000),
	}
	res, err := calc.CalculateVehicle(item)
	require.NoError(t, err)
	assert.Equal(t, "20000.00", lineAmount(t, res, chargeImportDuty).StringFixed(2))
	assert.Equal(t, "25% of CIF", res.Lines[0].RateDescriptor)
}

func TestVehicleValidation(t *testing.T) {
	calc := testCalculator(t, nil)

	tests := []struct {
		name   string
		mutate func(*models.VehicleItem)
		field  string
	}{
		{"missing make", func(i *models.VehicleItem) { i.Make = "" }, "make"},
		{"missing model", func(i *models.VehicleItem) { i.Model = "" }, "model"},
		{"vin too long", func(i *models.VehicleItem) { i.VIN = "123456789012345678" }, "vin"},
		{"model year too old", func(i *models.VehicleItem) { i.ModelYear = 1899 }, "model_year"},
		{"model year in the future", func(i *models.VehicleItem) { i.ModelYear = 2027 }, "model_year"},
		{"unknown category", func(i *models.VehicleItem) { i.Category = "steam" }, "category"},
		{"missing engine size", func(i *models.VehicleItem) { i.EngineCc = 0 }, "engine_cc"},
		{"negative cif", func(i *models.VehicleItem) { i.CIFValue = decimal.NewFromInt(-1) }, "cif_value"},
		{"used without mileage", func(i *models.VehicleItem) { i.IsUsed = true }, "mileage"},
		{"negative tire count", func(i *models.VehicleItem) { i.TireCount = -1 }, "tire_count"},
		{"unknown concession type", func(i *models.VehicleItem) { i.ConcessionType = "duty_free" }, "concession_type"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			item := testVehicle()
			tc.mutate(&item)
			_, err := calc.CalculateVehicle(item)
			var invalid *InvalidInputError
			require.ErrorAs(t, err, &invalid)
			assert.Equal(t, tc.field, invalid.Field)
		})
	}

	t.Run("electric does not need engine size", func(t *testing.T) {
		item := testVehicle()
		item.Category = models.VehicleElectric
		item.EngineCc = 0
		_, err := calc.CalculateVehicle(item)
		require.NoError(t, err)
	})
}

func TestVehicleMissingDutyTableEntry(t *testing.T) {
	calc := testCalculator(t, func(doc *rates.Document) {
		delete(doc.Vehicle.DutyTable, "diesel")
	})

	item := testVehicle()
	item.Category = models.VehicleDiesel
	_, err := calc.CalculateVehicle(item)
	var confErr *ConfigurationError
	require.ErrorAs(t, err, &confErr)
}
