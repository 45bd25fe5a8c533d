package rates

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"customs-web/internal/models"
)

// Document is the on-disk and over-the-wire form of a rate snapshot: plain
// numbers, one schema for JSON files, YAML files, the import endpoint, and
// the stored payload column. FromDocument converts it to the decimal form
// the calculators use.
type Document struct {
	Version        string          `json:"version" yaml:"version"`
	LastUpdated    time.Time       `json:"last_updated" yaml:"last_updated"`
	VATRatePercent float64         `json:"vat_rate_percent" yaml:"vat_rate_percent"`
	Alcohol        AlcoholDocument `json:"alcohol" yaml:"alcohol"`
	Vehicle        VehicleDocument `json:"vehicle" yaml:"vehicle"`
}

type AlcoholDocument struct {
	Categories            map[string]AlcoholCategoryDocument `json:"categories" yaml:"categories"`
	UnlicensedImporterFee float64                            `json:"unlicensed_importer_fee" yaml:"unlicensed_importer_fee"`
	HighABVWarningPercent float64                            `json:"high_abv_warning_percent" yaml:"high_abv_warning_percent"`
	RestrictedABVPercent  float64                            `json:"restricted_abv_percent" yaml:"restricted_abv_percent"`
	VolumeWarningLiters   float64                            `json:"volume_warning_liters" yaml:"volume_warning_liters"`
}

type AlcoholCategoryDocument struct {
	HSCode          string  `json:"hs_code" yaml:"hs_code"`
	HSDescription   string  `json:"hs_description" yaml:"hs_description"`
	DutyRatePercent float64 `json:"duty_rate_percent" yaml:"duty_rate_percent"`
	ExciseBasis     string  `json:"excise_basis" yaml:"excise_basis"`
	ExciseRate      float64 `json:"excise_rate" yaml:"excise_rate"`
	RequiresPermit  bool    `json:"requires_permit" yaml:"requires_permit"`
}

type VehicleDocument struct {
	ValueTierThreshold float64                       `json:"value_tier_threshold" yaml:"value_tier_threshold"`
	DutyTable          map[string][]BandRateDocument `json:"duty_table" yaml:"duty_table"`
	Concessions        []ConcessionDocument          `json:"concessions" yaml:"concessions"`
	EnvironmentalLevy  EnvironmentalLevyDocument     `json:"environmental_levy" yaml:"environmental_levy"`
	ProcessingFee      ProcessingFeeDocument         `json:"processing_fee" yaml:"processing_fee"`
	ExtraCharges       []ExtraChargeDocument         `json:"extra_charges,omitempty" yaml:"extra_charges,omitempty"`
	ApprovalAgeYears   int                           `json:"approval_age_years" yaml:"approval_age_years"`
	RestrictedAgeYears int                           `json:"restricted_age_years" yaml:"restricted_age_years"`
}

type BandRateDocument struct {
	Band                string  `json:"band" yaml:"band"`
	HSCode              string  `json:"hs_code" yaml:"hs_code"`
	HSDescription       string  `json:"hs_description" yaml:"hs_description"`
	StandardRatePercent float64 `json:"standard_rate_percent" yaml:"standard_rate_percent"`
	UpperRatePercent    float64 `json:"upper_rate_percent" yaml:"upper_rate_percent"`
}

type ConcessionDocument struct {
	Code    string  `json:"code" yaml:"code"`
	Kind    string  `json:"kind" yaml:"kind"`
	Percent float64 `json:"percent" yaml:"percent"`
	Label   string  `json:"label" yaml:"label"`
}

type EnvironmentalLevyDocument struct {
	StandardFee     float64 `json:"standard_fee" yaml:"standard_fee"`
	AntiqueFee      float64 `json:"antique_fee" yaml:"antique_fee"`
	AgedRatePercent float64 `json:"aged_rate_percent" yaml:"aged_rate_percent"`
	AgedAfterYears  int     `json:"aged_after_years" yaml:"aged_after_years"`
	TireLevyPerTire float64 `json:"tire_levy_per_tire" yaml:"tire_levy_per_tire"`
}

type ProcessingFeeDocument struct {
	RatePercent float64 `json:"rate_percent" yaml:"rate_percent"`
	MinFee      float64 `json:"min_fee" yaml:"min_fee"`
	MaxFee      float64 `json:"max_fee" yaml:"max_fee"`
}

type ExtraChargeDocument struct {
	Code        string  `json:"code" yaml:"code"`
	Label       string  `json:"label" yaml:"label"`
	RatePercent float64 `json:"rate_percent" yaml:"rate_percent"`
}

// FromDocument builds a validated Snapshot from its wire form.
func FromDocument(doc Document) (*Snapshot, error) {
	snap := &Snapshot{
		Version:        doc.Version,
		LastUpdated:    doc.LastUpdated,
		VATRatePercent: decimal.NewFromFloat(doc.VATRatePercent),
		Alcohol: AlcoholRates{
			Categories:            make(map[models.AlcoholCategory]AlcoholCategoryRate, len(doc.Alcohol.Categories)),
			UnlicensedImporterFee: decimal.NewFromFloat(doc.Alcohol.UnlicensedImporterFee),
			HighABVWarningPercent: doc.Alcohol.HighABVWarningPercent,
			RestrictedABVPercent:  doc.Alcohol.RestrictedABVPercent,
			VolumeWarningLiters:   doc.Alcohol.VolumeWarningLiters,
		},
		Vehicle: VehicleRates{
			ValueTierThreshold: decimal.NewFromFloat(doc.Vehicle.ValueTierThreshold),
			DutyTable:          make(map[models.VehicleCategory][]BandRate, len(doc.Vehicle.DutyTable)),
			EnvironmentalLevy: EnvironmentalLevyRates{
				StandardFee:     decimal.NewFromFloat(doc.Vehicle.EnvironmentalLevy.StandardFee),
				AntiqueFee:      decimal.NewFromFloat(doc.Vehicle.EnvironmentalLevy.AntiqueFee),
				AgedRatePercent: decimal.NewFromFloat(doc.Vehicle.EnvironmentalLevy.AgedRatePercent),
				AgedAfterYears:  doc.Vehicle.EnvironmentalLevy.AgedAfterYears,
				TireLevyPerTire: decimal.NewFromFloat(doc.Vehicle.EnvironmentalLevy.TireLevyPerTire),
			},
			ProcessingFee: ProcessingFeeRates{
				RatePercent: decimal.NewFromFloat(doc.Vehicle.ProcessingFee.RatePercent),
				MinFee:      decimal.NewFromFloat(doc.Vehicle.ProcessingFee.MinFee),
				MaxFee:      decimal.NewFromFloat(doc.Vehicle.ProcessingFee.MaxFee),
			},
			ApprovalAgeYears:   doc.Vehicle.ApprovalAgeYears,
			RestrictedAgeYears: doc.Vehicle.RestrictedAgeYears,
		},
	}
	for cat, c := range doc.Alcohol.Categories {
		snap.Alcohol.Categories[models.AlcoholCategory(cat)] = AlcoholCategoryRate{
			HSCode:          c.HSCode,
			HSDescription:   c.HSDescription,
			DutyRatePercent: decimal.NewFromFloat(c.DutyRatePercent),
			ExciseBasis:     ExciseBasis(c.ExciseBasis),
			ExciseRate:      decimal.NewFromFloat(c.ExciseRate),
			RequiresPermit:  c.RequiresPermit,
		}
	}
	for cat, bands := range doc.Vehicle.DutyTable {
		converted := make([]BandRate, 0, len(bands))
		for _, b := range bands {
			converted = append(converted, BandRate{
				Band:                b.Band,
				HSCode:              b.HSCode,
				HSDescription:       b.HSDescription,
				StandardRatePercent: decimal.NewFromFloat(b.StandardRatePercent),
				UpperRatePercent:    decimal.NewFromFloat(b.UpperRatePercent),
			})
		}
		snap.Vehicle.DutyTable[models.VehicleCategory(cat)] = converted
	}
	for _, c := range doc.Vehicle.Concessions {
		snap.Vehicle.Concessions = append(snap.Vehicle.Concessions, ConcessionRule{
			Code:    models.ConcessionType(c.Code),
			Kind:    c.Kind,
			Percent: decimal.NewFromFloat(c.Percent),
			Label:   c.Label,
		})
	}
	for _, ch := range doc.Vehicle.ExtraCharges {
		snap.Vehicle.ExtraCharges = append(snap.Vehicle.ExtraCharges, ExtraCharge{
			Code:        ch.Code,
			Label:       ch.Label,
			RatePercent: decimal.NewFromFloat(ch.RatePercent),
		})
	}
	if err := snap.Validate(); err != nil {
		return nil, fmt.Errorf("invalid rate snapshot %q: %w", doc.Version, err)
	}
	return snap, nil
}
