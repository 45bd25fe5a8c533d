package rates

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"customs-web/internal/models"
)

// ExciseBasis selects the quantity an excise rate multiplies.
type ExciseBasis string

const (
	ExcisePerLPA   ExciseBasis = "per_lpa"
	ExcisePerLiter ExciseBasis = "per_liter"
)

const (
	KindPercentOff = "percent_off"
	KindFlatRate   = "flat_rate"
)

// AlcoholCategoryRate holds everything rate-dependent about one alcohol
// category: its tariff classification, duty rate, excise basis and rate,
// and whether imports in the category need a liquor permit.
type AlcoholCategoryRate struct {
	HSCode          string          `json:"hs_code"`
	HSDescription   string          `json:"hs_description"`
	DutyRatePercent decimal.Decimal `json:"duty_rate_percent"`
	ExciseBasis     ExciseBasis     `json:"excise_basis"`
	ExciseRate      decimal.Decimal `json:"excise_rate"`
	RequiresPermit  bool            `json:"requires_permit"`
}

type AlcoholRates struct {
	Categories            map[models.AlcoholCategory]AlcoholCategoryRate `json:"categories"`
	UnlicensedImporterFee decimal.Decimal                                `json:"unlicensed_importer_fee"`
	HighABVWarningPercent float64                                        `json:"high_abv_warning_percent"`
	RestrictedABVPercent  float64                                        `json:"restricted_abv_percent"`
	VolumeWarningLiters   float64                                        `json:"volume_warning_liters"`
}

// BandRate is the duty entry for one vehicle category and displacement
// band. StandardRatePercent applies at or below the value threshold,
// UpperRatePercent strictly above it.
type BandRate struct {
	Band                string          `json:"band"`
	HSCode              string          `json:"hs_code"`
	HSDescription       string          `json:"hs_description"`
	StandardRatePercent decimal.Decimal `json:"standard_rate_percent"`
	UpperRatePercent    decimal.Decimal `json:"upper_rate_percent"`
}

// ConcessionRule defines one concession code. Percent is the reduction off
// the base duty for percent_off rules, or the replacement duty rate for
// flat_rate rules.
type ConcessionRule struct {
	Code    models.ConcessionType `json:"code"`
	Kind    string                `json:"kind"`
	Percent decimal.Decimal       `json:"percent"`
	Label   string                `json:"label"`
}

type EnvironmentalLevyRates struct {
	StandardFee     decimal.Decimal `json:"standard_fee"`
	AntiqueFee      decimal.Decimal `json:"antique_fee"`
	AgedRatePercent decimal.Decimal `json:"aged_rate_percent"`
	AgedAfterYears  int             `json:"aged_after_years"`
	TireLevyPerTire decimal.Decimal `json:"tire_levy_per_tire"`
}

type ProcessingFeeRates struct {
	RatePercent decimal.Decimal `json:"rate_percent"`
	MinFee      decimal.Decimal `json:"min_fee"`
	MaxFee      decimal.Decimal `json:"max_fee"`
}

// ExtraCharge is a configuration-supplied ad-valorem charge on CIF, such as
// stamp duty in snapshot versions that carry it. The calculator iterates
// whatever charges a snapshot defines, in order.
type ExtraCharge struct {
	Code        string          `json:"code"`
	Label       string          `json:"label"`
	RatePercent decimal.Decimal `json:"rate_percent"`
}

type VehicleRates struct {
	ValueTierThreshold decimal.Decimal                          `json:"value_tier_threshold"`
	DutyTable          map[models.VehicleCategory][]BandRate    `json:"duty_table"`
	Concessions        []ConcessionRule                         `json:"concessions"`
	EnvironmentalLevy  EnvironmentalLevyRates                   `json:"environmental_levy"`
	ProcessingFee      ProcessingFeeRates                       `json:"processing_fee"`
	ExtraCharges       []ExtraCharge                            `json:"extra_charges,omitempty"`
	ApprovalAgeYears   int                                      `json:"approval_age_years"`
	RestrictedAgeYears int                                      `json:"restricted_age_years"`
}

// Snapshot is one immutable version of every rate the calculators consume.
// Calculations never mutate it and a batch keeps the snapshot it started
// with even if a newer version is imported mid-run.
type Snapshot struct {
	Version        string          `json:"version"`
	LastUpdated    time.Time       `json:"last_updated"`
	VATRatePercent decimal.Decimal `json:"vat_rate_percent"`
	Alcohol        AlcoholRates    `json:"alcohol"`
	Vehicle        VehicleRates    `json:"vehicle"`
}

// AlcoholCategoryRate looks up the rate entry for an alcohol category.
func (s *Snapshot) AlcoholCategoryRate(cat models.AlcoholCategory) (AlcoholCategoryRate, bool) {
	r, ok := s.Alcohol.Categories[cat]
	return r, ok
}

// VehicleBandRate looks up the duty entry for a category and band code.
func (s *Snapshot) VehicleBandRate(cat models.VehicleCategory, band string) (BandRate, bool) {
	for _, r := range s.Vehicle.DutyTable[cat] {
		if r.Band == band {
			return r, true
		}
	}
	return BandRate{}, false
}

// ConcessionRule looks up a concession definition by code.
func (s *Snapshot) ConcessionRule(code models.ConcessionType) (ConcessionRule, bool) {
	for _, c := range s.Vehicle.Concessions {
		if c.Code == code {
			return c, true
		}
	}
	return ConcessionRule{}, false
}

// Validate checks structural sanity: rates present and non-negative,
// clamps ordered, thresholds positive. Completeness of category coverage is
// not checked here; a calculation that hits a missing entry reports a
// configuration error instead.
func (s *Snapshot) Validate() error {
	if s.Version == "" {
		return fmt.Errorf("snapshot version is required")
	}
	if s.VATRatePercent.IsNegative() || s.VATRatePercent.GreaterThan(decimal.NewFromInt(100)) {
		return fmt.Errorf("vat_rate_percent must be between 0 and 100")
	}
	for cat, r := range s.Alcohol.Categories {
		if r.DutyRatePercent.IsNegative() {
			return fmt.Errorf("alcohol category %q: duty_rate_percent must not be negative", cat)
		}
		if r.ExciseRate.IsNegative() {
			return fmt.Errorf("alcohol category %q: excise_rate must not be negative", cat)
		}
		if r.ExciseBasis != ExcisePerLPA && r.ExciseBasis != ExcisePerLiter {
			return fmt.Errorf("alcohol category %q: unknown excise_basis %q", cat, r.ExciseBasis)
		}
		if r.HSCode == "" {
			return fmt.Errorf("alcohol category %q: hs_code is required", cat)
		}
	}
	if s.Alcohol.UnlicensedImporterFee.IsNegative() {
		return fmt.Errorf("alcohol unlicensed_importer_fee must not be negative")
	}
	if !s.Vehicle.ValueTierThreshold.IsPositive() {
		return fmt.Errorf("vehicle value_tier_threshold must be positive")
	}
	for cat, bands := range s.Vehicle.DutyTable {
		for _, b := range bands {
			if b.StandardRatePercent.IsNegative() || b.UpperRatePercent.IsNegative() {
				return fmt.Errorf("vehicle category %q band %q: duty rates must not be negative", cat, b.Band)
			}
			if b.HSCode == "" {
				return fmt.Errorf("vehicle category %q band %q: hs_code is required", cat, b.Band)
			}
		}
	}
	for _, c := range s.Vehicle.Concessions {
		if c.Kind != KindPercentOff && c.Kind != KindFlatRate {
			return fmt.Errorf("concession %q: unknown kind %q", c.Code, c.Kind)
		}
		if c.Percent.IsNegative() || c.Percent.GreaterThan(decimal.NewFromInt(100)) {
			return fmt.Errorf("concession %q: percent must be between 0 and 100", c.Code)
		}
	}
	lev := s.Vehicle.EnvironmentalLevy
	if lev.StandardFee.IsNegative() || lev.AntiqueFee.IsNegative() || lev.TireLevyPerTire.IsNegative() {
		return fmt.Errorf("environmental levy fees must not be negative")
	}
	if lev.AgedRatePercent.IsNegative() {
		return fmt.Errorf("environmental levy aged_rate_percent must not be negative")
	}
	if lev.AgedAfterYears <= 0 {
		return fmt.Errorf("environmental levy aged_after_years must be positive")
	}
	fee := s.Vehicle.ProcessingFee
	if fee.RatePercent.IsNegative() || fee.MinFee.IsNegative() {
		return fmt.Errorf("processing fee rate and minimum must not be negative")
	}
	if fee.MaxFee.LessThan(fee.MinFee) {
		return fmt.Errorf("processing fee max_fee must not be below min_fee")
	}
	for _, ch := range s.Vehicle.ExtraCharges {
		if ch.RatePercent.IsNegative() {
			return fmt.Errorf("extra charge %q: rate_percent must not be negative", ch.Code)
		}
		if ch.Code == "" {
			return fmt.Errorf("extra charges require a code")
		}
	}
	return nil
}
