package engine

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"customs-web/internal/models"
)

// Raw batch rows arrive as string fields keyed by column name. Keys are
// normalized (lowercase, underscores) so "CIF Value" and "cif_value" are
// the same column. Required columns that are missing or blank fail the row;
// optional columns fall back to the documented default.

func normalizeKey(key string) string {
	key = strings.ToLower(strings.TrimSpace(key))
	key = strings.ReplaceAll(key, " ", "_")
	key = strings.ReplaceAll(key, "-", "_")
	return key
}

type recordFields map[string]string

func newRecordFields(rec models.RawRecord) recordFields {
	fields := make(recordFields, len(rec.Fields))
	for k, v := range rec.Fields {
		fields[normalizeKey(k)] = strings.TrimSpace(v)
	}
	return fields
}

func (f recordFields) value(key string) string {
	return f[key]
}

func (f recordFields) requiredString(key string) (string, error) {
	v := f[key]
	if v == "" {
		return "", invalidInput(key, "required column is missing or empty")
	}
	return v, nil
}

func (f recordFields) requiredInt(key string) (int, error) {
	v, err := f.requiredString(key)
	if err != nil {
		return 0, err
	}
	return parseIntField(key, v)
}

func (f recordFields) optionalInt(key string) (int, error) {
	v := f[key]
	if v == "" {
		return 0, nil
	}
	return parseIntField(key, v)
}

func (f recordFields) requiredFloat(key string) (float64, error) {
	v, err := f.requiredString(key)
	if err != nil {
		return 0, err
	}
	return parseFloatField(key, v)
}

func (f recordFields) requiredDecimal(key string) (decimal.Decimal, error) {
	v, err := f.requiredString(key)
	if err != nil {
		return decimal.Zero, err
	}
	return parseDecimalField(key, v)
}

func (f recordFields) optionalBool(key string) (bool, error) {
	v := f[key]
	if v == "" {
		return false, nil
	}
	return parseBoolField(key, v)
}

func parseIntField(key, value string) (int, error) {
	n, err := strconv.Atoi(cleanNumber(value))
	if err != nil {
		return 0, invalidInput(key, "%q is not a whole number", value)
	}
	return n, nil
}

func parseFloatField(key, value string) (float64, error) {
	n, err := strconv.ParseFloat(cleanNumber(value), 64)
	if err != nil {
		return 0, invalidInput(key, "%q is not a number", value)
	}
	return n, nil
}

func parseDecimalField(key, value string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(cleanNumber(value))
	if err != nil {
		return decimal.Zero, invalidInput(key, "%q is not an amount", value)
	}
	return d, nil
}

func parseBoolField(key, value string) (bool, error) {
	switch strings.ToLower(value) {
	case "yes", "y", "true", "1":
		return true, nil
	case "no", "n", "false", "0":
		return false, nil
	}
	return false, invalidInput(key, "%q is not a yes/no value", value)
}

func cleanNumber(value string) string {
	value = strings.ReplaceAll(value, ",", "")
	value = strings.ReplaceAll(value, "$", "")
	return strings.TrimSpace(value)
}

// parseAlcoholRecord maps one raw row to an AlcoholItem.
// Required: product_name, category, volume_ml, abv_percent, quantity,
// cif_value. Optional: origin_country, brand, has_liquor_license (no).
func parseAlcoholRecord(rec models.RawRecord) (models.AlcoholItem, error) {
	fields := newRecordFields(rec)
	var item models.AlcoholItem
	var err error

	if item.ProductName, err = fields.requiredString("product_name"); err != nil {
		return item, err
	}
	category, err := fields.requiredString("category")
	if err != nil {
		return item, err
	}
	item.Category = models.AlcoholCategory(strings.ToLower(category))
	if item.VolumeMl, err = fields.requiredFloat("volume_ml"); err != nil {
		return item, err
	}
	if item.ABVPercent, err = fields.requiredFloat("abv_percent"); err != nil {
		return item, err
	}
	if item.Quantity, err = fields.requiredInt("quantity"); err != nil {
		return item, err
	}
	if item.CIFValue, err = fields.requiredDecimal("cif_value"); err != nil {
		return item, err
	}
	item.OriginCountry = fields.value("origin_country")
	item.Brand = fields.value("brand")
	if item.HasLiquorLicense, err = fields.optionalBool("has_liquor_license"); err != nil {
		return item, err
	}
	return item, nil
}

// parseVehicleRecord maps one raw row to a VehicleItem.
// Required: make, model, model_year, category, cif_value, and engine_cc for
// non-electric categories. Optional: vin, origin_country, condition (new),
// mileage, qualifies_for_concession (no), concession_type, antique (no),
// tire_count (0), ministerial_approval (no).
func parseVehicleRecord(rec models.RawRecord) (models.VehicleItem, error) {
	fields := newRecordFields(rec)
	var item models.VehicleItem
	var err error

	item.VIN = fields.value("vin")
	if item.Make, err = fields.requiredString("make"); err != nil {
		return item, err
	}
	if item.Model, err = fields.requiredString("model"); err != nil {
		return item, err
	}
	if item.ModelYear, err = fields.requiredInt("model_year"); err != nil {
		return item, err
	}
	category, err := fields.requiredString("category")
	if err != nil {
		return item, err
	}
	item.Category = models.VehicleCategory(strings.ToLower(category))
	if item.Category != models.VehicleElectric {
		if item.EngineCc, err = fields.requiredInt("engine_cc"); err != nil {
			return item, err
		}
	} else if item.EngineCc, err = fields.optionalInt("engine_cc"); err != nil {
		return item, err
	}
	if item.CIFValue, err = fields.requiredDecimal("cif_value"); err != nil {
		return item, err
	}
	item.OriginCountry = fields.value("origin_country")

	switch condition := strings.ToLower(fields.value("condition")); condition {
	case "", "new":
		item.IsUsed = false
	case "used":
		item.IsUsed = true
	default:
		return item, invalidInput("condition", "%q is not new or used", condition)
	}
	if item.Mileage, err = fields.optionalInt("mileage"); err != nil {
		return item, err
	}
	if item.QualifiesForConcession, err = fields.optionalBool("qualifies_for_concession"); err != nil {
		return item, err
	}
	concession := strings.ToLower(fields.value("concession_type"))
	if concession == "none" {
		concession = ""
	}
	item.ConcessionType = models.ConcessionType(concession)
	if item.IsAntique, err = fields.optionalBool("antique"); err != nil {
		return item, err
	}
	if item.TireCount, err = fields.optionalInt("tire_count"); err != nil {
		return item, err
	}
	if item.HasMinisterialApproval, err = fields.optionalBool("ministerial_approval"); err != nil {
		return item, err
	}
	return item, nil
}
