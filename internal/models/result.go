package models

import "github.com/shopspring/decimal"

const (
	CalculatorAlcohol = "alcohol"
	CalculatorVehicle = "vehicle"
)

// ChargeLine is one itemized charge in a duty breakdown. Amount is always
// rounded to cents; RateDescriptor is the human-readable rate that produced it.
type ChargeLine struct {
	Code           string          `json:"code"`
	Label          string          `json:"label"`
	RateDescriptor string          `json:"rate"`
	Amount         decimal.Decimal `json:"amount"`
}

// CalculationResult is the complete landed-cost breakdown for a single item.
// TotalLandedCost always equals CIFValue + sum of Lines + VATAmount exactly.
type CalculationResult struct {
	Calculator         string          `json:"calculator"`
	Alcohol            *AlcoholItem    `json:"alcohol,omitempty"`
	Vehicle            *VehicleItem    `json:"vehicle,omitempty"`
	HSCode             string          `json:"hs_code"`
	HSDescription      string          `json:"hs_description"`
	CIFValue           decimal.Decimal `json:"cif_value"`
	Lines              []ChargeLine    `json:"lines"`
	LandedCostSubtotal decimal.Decimal `json:"landed_cost_subtotal"`
	VATAmount          decimal.Decimal `json:"vat_amount"`
	TotalLandedCost    decimal.Decimal `json:"total_landed_cost"`
	ConcessionSavings  decimal.Decimal `json:"concession_savings"`
	Warnings           []string        `json:"warnings"`
	RequiresPermit     bool            `json:"requires_permit"`
	IsRestricted       bool            `json:"is_restricted"`
	RequiresApproval   bool            `json:"requires_approval"`
	SnapshotVersion    string          `json:"snapshot_version"`
}

// ImportDuty returns the import-duty line amount, zero if absent.
func (r *CalculationResult) ImportDuty() decimal.Decimal {
	for _, line := range r.Lines {
		if line.Code == "import_duty" {
			return line.Amount
		}
	}
	return decimal.Zero
}

// RawRecord is one unparsed batch row keyed by normalized column name.
// Row is the 1-indexed position in the source file.
type RawRecord struct {
	Row    int               `json:"row"`
	Fields map[string]string `json:"fields"`
}

// BatchRow is the outcome for one batch row: either Result or Error is set.
type BatchRow struct {
	Row    int                `json:"row"`
	Result *CalculationResult `json:"result,omitempty"`
	Error  string             `json:"error,omitempty"`
}

// BatchResult aggregates a batch run. Rows preserves input order; the
// aggregate totals cover successful rows only.
type BatchResult struct {
	BatchID         string          `json:"batch_id"`
	Calculator      string          `json:"calculator"`
	SnapshotVersion string          `json:"snapshot_version"`
	Rows            []BatchRow      `json:"rows"`
	SucceededCount  int             `json:"succeeded_count"`
	FailedCount     int             `json:"failed_count"`
	TotalCIF        decimal.Decimal `json:"total_cif"`
	TotalDuty       decimal.Decimal `json:"total_duty"`
	TotalLandedCost decimal.Decimal `json:"total_landed_cost"`
}
