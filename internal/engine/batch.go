package engine

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"customs-web/internal/models"
)

// ProcessAlcoholBatch runs the alcohol calculator over raw rows with
// per-row isolation: a malformed row becomes an error entry and the rest
// of the batch continues.
func (c *Calculator) ProcessAlcoholBatch(ctx context.Context, records []models.RawRecord) (*models.BatchResult, error) {
	return c.runBatch(ctx, models.CalculatorAlcohol, records, func(rec models.RawRecord) (*models.CalculationResult, error) {
		item, err := parseAlcoholRecord(rec)
		if err != nil {
			return nil, err
		}
		return c.CalculateAlcohol(item)
	})
}

// ProcessVehicleBatch is the vehicle counterpart of ProcessAlcoholBatch.
func (c *Calculator) ProcessVehicleBatch(ctx context.Context, records []models.RawRecord) (*models.BatchResult, error) {
	return c.runBatch(ctx, models.CalculatorVehicle, records, func(rec models.RawRecord) (*models.CalculationResult, error) {
		item, err := parseVehicleRecord(rec)
		if err != nil {
			return nil, err
		}
		return c.CalculateVehicle(item)
	})
}

// runBatch processes every record with the configured parallelism, then
// reassembles results in input order and aggregates totals over the
// successful rows. Configuration errors abort the whole batch; any other
// row error is recorded against its 1-indexed source row. Cancellation
// abandons the batch and returns the context error.
func (c *Calculator) runBatch(ctx context.Context, kind string, records []models.RawRecord, calc func(models.RawRecord) (*models.CalculationResult, error)) (*models.BatchResult, error) {
	result := &models.BatchResult{
		BatchID:         uuid.New().String(),
		Calculator:      kind,
		SnapshotVersion: c.snap.Version,
		Rows:            make([]models.BatchRow, len(records)),
		TotalCIF:        decimal.Zero,
		TotalDuty:       decimal.Zero,
		TotalLandedCost: decimal.Zero,
	}

	processRow := func(i int) error {
		rec := records[i]
		rowNum := rec.Row
		if rowNum <= 0 {
			rowNum = i + 1
		}
		res, err := calc(rec)
		if err != nil {
			var confErr *ConfigurationError
			if errors.As(err, &confErr) {
				return err
			}
			rowErr := &RowProcessingError{Row: rowNum, Err: err}
			result.Rows[i] = models.BatchRow{Row: rowNum, Error: rowErr.Err.Error()}
			return nil
		}
		result.Rows[i] = models.BatchRow{Row: rowNum, Result: res}
		return nil
	}

	if c.workers == 1 || len(records) < 2 {
		for i := range records {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			if err := processRow(i); err != nil {
				return nil, err
			}
		}
	} else if err := c.runParallel(ctx, len(records), processRow); err != nil {
		return nil, err
	}

	for _, row := range result.Rows {
		if row.Result == nil {
			result.FailedCount++
			continue
		}
		result.SucceededCount++
		result.TotalCIF = result.TotalCIF.Add(row.Result.CIFValue)
		result.TotalDuty = result.TotalDuty.Add(row.Result.ImportDuty())
		result.TotalLandedCost = result.TotalLandedCost.Add(row.Result.TotalLandedCost)
	}
	return result, nil
}

// runParallel fans row indices out to the worker pool. Each worker writes
// only its own slice slot, so no locking is needed; the first fatal error
// cancels the remaining work.
func (c *Calculator) runParallel(ctx context.Context, n int, processRow func(int) error) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	indexes := make(chan int)
	var wg sync.WaitGroup
	var once sync.Once
	var fatal error

	for w := 0; w < c.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range indexes {
				if ctx.Err() != nil {
					return
				}
				if err := processRow(i); err != nil {
					once.Do(func() {
						fatal = err
						cancel()
					})
					return
				}
			}
		}()
	}

feed:
	for i := 0; i < n; i++ {
		select {
		case <-ctx.Done():
			break feed
		case indexes <- i:
		}
	}
	close(indexes)
	wg.Wait()

	if fatal != nil {
		return fatal
	}
	return ctx.Err()
}
