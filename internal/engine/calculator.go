package engine

import (
	"time"

	"github.com/shopspring/decimal"

	"customs-web/internal/rates"
)

// Options configure a Calculator.
type Options struct {
	// Clock supplies the reference time for vehicle age rules. Defaults to
	// time.Now.
	Clock func() time.Time
	// Workers is the batch row parallelism. Defaults to 1 (sequential).
	Workers int
}

// Calculator computes duty and landed-cost breakdowns against one immutable
// rate snapshot. It holds no mutable state between calls; a batch started
// on this calculator keeps its snapshot even if the caller builds a newer
// calculator mid-run.
type Calculator struct {
	snap    *rates.Snapshot
	now     func() time.Time
	workers int
}

func NewCalculator(snap *rates.Snapshot, opts Options) (*Calculator, error) {
	if snap == nil {
		return nil, configurationError("rate snapshot is required")
	}
	if err := snap.Validate(); err != nil {
		return nil, configurationError("%v", err)
	}
	now := opts.Clock
	if now == nil {
		now = time.Now
	}
	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}
	return &Calculator{snap: snap, now: now, workers: workers}, nil
}

// SnapshotVersion reports the pinned rate snapshot version.
func (c *Calculator) SnapshotVersion() string {
	return c.snap.Version
}

var hundred = decimal.NewFromInt(100)

// percentOf is ratePercent% of base, rounded to cents.
func percentOf(base, ratePercent decimal.Decimal) decimal.Decimal {
	return base.Mul(ratePercent).Div(hundred).Round(2)
}

func money(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

func moneyString(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}

func percentString(d decimal.Decimal) string {
	return d.String() + "%"
}
