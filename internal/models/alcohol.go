package models

import "github.com/shopspring/decimal"

type AlcoholCategory string

const (
	AlcoholWine    AlcoholCategory = "wine"
	AlcoholBeer    AlcoholCategory = "beer"
	AlcoholSpirits AlcoholCategory = "spirits"
	AlcoholLiqueur AlcoholCategory = "liqueur"
	AlcoholOther   AlcoholCategory = "other"
)

func (c AlcoholCategory) Valid() bool {
	switch c {
	case AlcoholWine, AlcoholBeer, AlcoholSpirits, AlcoholLiqueur, AlcoholOther:
		return true
	}
	return false
}

// AlcoholItem is one line of an alcohol import declaration.
type AlcoholItem struct {
	ProductName      string          `json:"product_name"`
	Category         AlcoholCategory `json:"category"`
	VolumeMl         float64         `json:"volume_ml"`
	ABVPercent       float64         `json:"abv_percent"`
	Quantity         int             `json:"quantity"`
	CIFValue         decimal.Decimal `json:"cif_value"`
	OriginCountry    string          `json:"origin_country,omitempty"`
	Brand            string          `json:"brand,omitempty"`
	HasLiquorLicense bool            `json:"has_liquor_license"`
}

// TotalVolumeLiters is unit volume times quantity, in liters.
func (a AlcoholItem) TotalVolumeLiters() decimal.Decimal {
	return decimal.NewFromFloat(a.VolumeMl).
		Mul(decimal.NewFromInt(int64(a.Quantity))).
		Div(decimal.NewFromInt(1000))
}

// TotalLPA is the total liters of pure alcohol: volume x quantity x ABV/100.
func (a AlcoholItem) TotalLPA() decimal.Decimal {
	return a.TotalVolumeLiters().
		Mul(decimal.NewFromFloat(a.ABVPercent)).
		Div(decimal.NewFromInt(100))
}
