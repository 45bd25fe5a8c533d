package engine

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"customs-web/internal/models"
	"customs-web/internal/rates"
)

var testClock = func() time.Time {
	return time.Date(2025, time.August, 15, 12, 0, 0, 0, time.UTC)
}

func testCalculator(t *testing.T, mutate func(*rates.Document)) *Calculator {
	t.Helper()
	doc := rates.DefaultDocument()
	if mutate != nil {
		mutate(&doc)
	}
	snap, err := rates.FromDocument(doc)
	require.NoError(t, err)
	calc, err := NewCalculator(snap, Options{Clock: testClock})
	require.NoError(t, err)
	return calc
}

func assertBreakdownIdentity(t *testing.T, res *models.CalculationResult) {
	t.Helper()
	sum := res.CIFValue
	for _, line := range res.Lines {
		sum = sum.Add(line.Amount)
	}
	assert.True(t, res.LandedCostSubtotal.Equal(sum),
		"subtotal %s != CIF + lines %s", res.LandedCostSubtotal, sum)
	assert.True(t, res.TotalLandedCost.Equal(res.LandedCostSubtotal.Add(res.VATAmount)),
		"total %s != subtotal %s + VAT %s", res.TotalLandedCost, res.LandedCostSubtotal, res.VATAmount)
}

func lineAmount(t *testing.T, res *models.CalculationResult, code string) decimal.Decimal {
	t.Helper()
	for _, line := range res.Lines {
		if line.Code == code {
			return line.Amount
		}
	}
	t.Fatalf("charge line %q not found in %+v", code, res.Lines)
	return decimal.Zero
}

func hasLine(res *models.CalculationResult, code string) bool {
	for _, line := range res.Lines {
		if line.Code == code {
			return true
		}
	}
	return false
}

func TestCalculateAlcoholSpiritsBreakdown(t *testing.T) {
	calc := testCalculator(t, nil)

	item := models.AlcoholItem{
		ProductName: "Ricardo Gold Rum",
		Category:    models.AlcoholSpirits,
		VolumeMl:    750,
		ABVPercent:  40,
		Quantity:    12,
		CIFValue:    decimal.NewFromInt(540),
	}
	require.Equal(t, "3.6", item.TotalLPA().String())

	res, err := calc.CalculateAlcohol(item)
	require.NoError(t, err)

	assert.Equal(t, "2208.90.00", res.HSCode)
	assert.Equal(t, "243.00", lineAmount(t, res, chargeImportDuty).StringFixed(2))
	assert.Equal(t, "72.00", lineAmount(t, res, chargeExcise).StringFixed(2))
	assert.Equal(t, "50.00", lineAmount(t, res, chargeImporterFee).StringFixed(2))
	assert.Equal(t, "905.00", res.LandedCostSubtotal.StringFixed(2))
	assert.Equal(t, "90.50", res.VATAmount.StringFixed(2))
	assert.Equal(t, "995.50", res.TotalLandedCost.StringFixed(2))
	assertBreakdownIdentity(t, res)

	assert.True(t, res.RequiresPermit)
	assert.False(t, res.IsRestricted)
	assert.NotEmpty(t, res.Warnings)
}

func TestCalculateAlcoholLicensedImporterSkipsFee(t *testing.T) {
	calc := testCalculator(t, nil)

	res, err := calc.CalculateAlcohol(models.AlcoholItem{
		ProductName:      "Ricardo Gold Rum",
		Category:         models.AlcoholSpirits,
		VolumeMl:         750,
		ABVPercent:       40,
		Quantity:         12,
		CIFValue:         decimal.NewFromInt(540),
		HasLiquorLicense: true,
	})
	require.NoError(t, err)

	assert.False(t, hasLine(res, chargeImporterFee))
	assert.Equal(t, "855.00", res.LandedCostSubtotal.StringFixed(2))
	assert.Equal(t, "85.50", res.VATAmount.StringFixed(2))
	assert.Equal(t, "940.50", res.TotalLandedCost.StringFixed(2))
	assertBreakdownIdentity(t, res)
}

func TestCalculateAlcoholPerLiterExcise(t *testing.T) {
	calc := testCalculator(t, nil)

	// 24 x 330ml beer = 7.92 liters at $1.20 per liter.
	res, err := calc.CalculateAlcohol(models.AlcoholItem{
		ProductName: "Sands Lager",
		Category:    models.AlcoholBeer,
		VolumeMl:    330,
		ABVPercent:  4.5,
		Quantity:    24,
		CIFValue:    decimal.NewFromInt(60),
	})
	require.NoError(t, err)

	assert.Equal(t, "9.50", lineAmount(t, res, chargeExcise).StringFixed(2))
	assert.Equal(t, "21.00", lineAmount(t, res, chargeImportDuty).StringFixed(2))
	assert.False(t, res.RequiresPermit)
	assertBreakdownIdentity(t, res)
}

func TestCalculateAlcoholValidation(t *testing.T) {
	calc := testCalculator(t, nil)

	base := models.AlcoholItem{
		ProductName: "Test",
		Category:    models.AlcoholWine,
		VolumeMl:    750,
		ABVPercent:  13,
		Quantity:    6,
		CIFValue:    decimal.NewFromInt(120),
	}

	tests := []struct {
		name   string
		mutate func(*models.AlcoholItem)
		field  string
	}{
		{"missing product name", func(i *models.AlcoholItem) { i.ProductName = "" }, "product_name"},
		{"unknown category", func(i *models.AlcoholItem) { i.Category = "brandy" }, "category"},
		{"zero volume", func(i *models.AlcoholItem) { i.VolumeMl = 0 }, "volume_ml"},
		{"negative volume", func(i *models.AlcoholItem) { i.VolumeMl = -10 }, "volume_ml"},
		{"abv above 100", func(i *models.AlcoholItem) { i.ABVPercent = 120 }, "abv_percent"},
		{"negative abv", func(i *models.AlcoholItem) { i.ABVPercent = -1 }, "abv_percent"},
		{"zero quantity", func(i *models.AlcoholItem) { i.Quantity = 0 }, "quantity"},
		{"negative cif", func(i *models.AlcoholItem) { i.CIFValue = decimal.NewFromInt(-5) }, "cif_value"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			item := base
			tc.mutate(&item)
			_, err := calc.CalculateAlcohol(item)
			var invalid *InvalidInputError
			require.ErrorAs(t, err, &invalid)
			assert.Equal(t, tc.field, invalid.Field)
		})
	}
}

func TestCalculateAlcoholHighABVAndRestricted(t *testing.T) {
	calc := testCalculator(t, nil)

	res, err := calc.CalculateAlcohol(models.AlcoholItem{
		ProductName: "Overproof Rum",
		Category:    models.AlcoholSpirits,
		VolumeMl:    750,
		ABVPercent:  85,
		Quantity:    6,
		CIFValue:    decimal.NewFromInt(300),
	})
	require.NoError(t, err)

	assert.True(t, res.IsRestricted)
	assert.True(t, hasWarning(res, "High alcohol strength"), "expected a high-ABV warning in %v", res.Warnings)
	assert.True(t, hasWarning(res, "Restricted item"), "expected a restricted warning in %v", res.Warnings)
}

func hasWarning(res *models.CalculationResult, fragment string) bool {
	for _, w := range res.Warnings {
		if strings.Contains(w, fragment) {
			return true
		}
	}
	return false
}

func TestCalculateAlcoholMissingSnapshotEntry(t *testing.T) {
	calc := testCalculator(t, func(doc *rates.Document) {
		delete(doc.Alcohol.Categories, "liqueur")
	})

	_, err := calc.CalculateAlcohol(models.AlcoholItem{
		ProductName: "Nassau Royale",
		Category:    models.AlcoholLiqueur,
		VolumeMl:    700,
		ABVPercent:  33,
		Quantity:    6,
		CIFValue:    decimal.NewFromInt(200),
	})
	var confErr *ConfigurationError
	require.ErrorAs(t, err, &confErr)
}

func TestCalculateAlcoholDeterministic(t *testing.T) {
	calc := testCalculator(t, nil)
	item := models.AlcoholItem{
		ProductName: "Chardonnay",
		Category:    models.AlcoholWine,
		VolumeMl:    750,
		ABVPercent:  13.5,
		Quantity:    60,
		CIFValue:    decimal.RequireFromString("1234.56"),
	}

	first, err := calc.CalculateAlcohol(item)
	require.NoError(t, err)
	second, err := calc.CalculateAlcohol(item)
	require.NoError(t, err)

	firstJSON, err := json.Marshal(first)
	require.NoError(t, err)
	secondJSON, err := json.Marshal(second)
	require.NoError(t, err)
	assert.Equal(t, firstJSON, secondJSON)
}

