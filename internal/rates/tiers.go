package rates

import (
	"github.com/shopspring/decimal"

	"customs-web/internal/models"
)

// Band and tier boundaries live in this file and nowhere else. The policy:
// a value exactly at an upper limit belongs to the band or tier that ends
// there, and the next one starts strictly above it. Exactly 1500cc is the
// under-1500 band; exactly the value threshold is the standard tier.

const (
	// BandNone marks categories where displacement does not apply (electric).
	BandNone = "na"
	// BandFixed marks categories rated by a single band regardless of
	// displacement (commercial).
	BandFixed = "fixed"

	BandUnder1500  = "under_1500"
	Band1500To2000 = "1500_to_2000"
	BandOver2000   = "over_2000"
)

// DisplacementBand is one engine-size bracket. MaxCc is the inclusive upper
// limit; zero means unbounded.
type DisplacementBand struct {
	Code  string
	Label string
	MaxCc int
}

// CombustionBands is ordered smallest to largest and is the single source of
// displacement cutoffs.
var CombustionBands = []DisplacementBand{
	{Code: BandUnder1500, Label: "1,500cc and under", MaxCc: 1500},
	{Code: Band1500To2000, Label: "over 1,500cc up to 2,000cc", MaxCc: 2000},
	{Code: BandOver2000, Label: "over 2,000cc", MaxCc: 0},
}

// BandCodeFor resolves the displacement band code for a vehicle category.
// Electric vehicles are not banded and commercial vehicles use one fixed
// band; all other categories are banded by engine size.
func BandCodeFor(category models.VehicleCategory, engineCc int) string {
	switch category {
	case models.VehicleElectric:
		return BandNone
	case models.VehicleCommercial:
		return BandFixed
	}
	for _, b := range CombustionBands {
		if b.MaxCc > 0 && engineCc <= b.MaxCc {
			return b.Code
		}
	}
	return CombustionBands[len(CombustionBands)-1].Code
}

type ValueTier string

const (
	ValueTierStandard ValueTier = "standard"
	ValueTierUpper    ValueTier = "upper"
)

// TierForValue places a CIF value in a tier. A value exactly at the
// threshold is the standard tier; the upper tier starts strictly above it.
func TierForValue(cif, threshold decimal.Decimal) ValueTier {
	if cif.GreaterThan(threshold) {
		return ValueTierUpper
	}
	return ValueTierStandard
}
