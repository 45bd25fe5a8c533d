package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type VehicleCategory string

const (
	VehicleElectric   VehicleCategory = "electric"
	VehicleHybrid     VehicleCategory = "hybrid"
	VehicleGasoline   VehicleCategory = "gasoline"
	VehicleDiesel     VehicleCategory = "diesel"
	VehicleCommercial VehicleCategory = "commercial"
)

type ConcessionType string

const (
	ConcessionNone          ConcessionType = ""
	ConcessionReducedRate20 ConcessionType = "reduced_rate_20"
	ConcessionReducedRate15 ConcessionType = "reduced_rate_15"
	ConcessionFlatRate      ConcessionType = "flat_rate"
)

func (c VehicleCategory) Valid() bool {
	switch c {
	case VehicleElectric, VehicleHybrid, VehicleGasoline, VehicleDiesel, VehicleCommercial:
		return true
	}
	return false
}

func (c ConcessionType) Valid() bool {
	switch c {
	case ConcessionNone, ConcessionReducedRate20, ConcessionReducedRate15, ConcessionFlatRate:
		return true
	}
	return false
}

// VehicleItem is one vehicle import declaration.
type VehicleItem struct {
	VIN                    string          `json:"vin,omitempty"`
	Make                   string          `json:"make"`
	Model                  string          `json:"model"`
	ModelYear              int             `json:"model_year"`
	Category               VehicleCategory `json:"category"`
	EngineCc               int             `json:"engine_cc,omitempty"`
	CIFValue               decimal.Decimal `json:"cif_value"`
	OriginCountry          string          `json:"origin_country,omitempty"`
	IsUsed                 bool            `json:"is_used"`
	Mileage                int             `json:"mileage,omitempty"`
	QualifiesForConcession bool            `json:"qualifies_for_concession"`
	ConcessionType         ConcessionType  `json:"concession_type,omitempty"`
	IsAntique              bool            `json:"is_antique"`
	TireCount              int             `json:"tire_count,omitempty"`
	HasMinisterialApproval bool            `json:"has_ministerial_approval"`
}

// AgeYears is the vehicle age used by the levy and approval rules:
// calendar year of now minus the model year.
func (v VehicleItem) AgeYears(now time.Time) int {
	return now.Year() - v.ModelYear
}
