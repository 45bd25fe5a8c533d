package engine

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"customs-web/internal/models"
	"customs-web/internal/rates"
)

func wineRecord(row int, cif string) models.RawRecord {
	return models.RawRecord{
		Row: row,
		Fields: map[string]string{
			"product_name": fmt.Sprintf("Case wine %d", row),
			"category":     "wine",
			"volume_ml":    "750",
			"abv_percent":  "13",
			"quantity":     "10",
			"cif_value":    cif,
		},
	}
}

func TestBatchIsolatesFailedRows(t *testing.T) {
	calc := testCalculator(t, nil)

	records := []models.RawRecord{
		wineRecord(2, "100"),
		wineRecord(3, "100"),
		wineRecord(4, "100"),
		wineRecord(5, "100"),
		wineRecord(6, "100"),
	}
	records[2].Fields["quantity"] = "a dozen"

	result, err := calc.ProcessAlcoholBatch(context.Background(), records)
	require.NoError(t, err)

	require.Len(t, result.Rows, 5)
	assert.Equal(t, 4, result.SucceededCount)
	assert.Equal(t, 1, result.FailedCount)
	assert.NotEmpty(t, result.BatchID)

	for i, row := range result.Rows {
		assert.Equal(t, records[i].Row, row.Row)
	}
	failed := result.Rows[2]
	assert.Equal(t, 4, failed.Row)
	assert.Nil(t, failed.Result)
	assert.Contains(t, failed.Error, "quantity")

	// Aggregates cover the four successful rows only: each is CIF $100,
	// duty $35, total $228.25.
	assert.Equal(t, "400.00", result.TotalCIF.StringFixed(2))
	assert.Equal(t, "140.00", result.TotalDuty.StringFixed(2))
	assert.Equal(t, "913.00", result.TotalLandedCost.StringFixed(2))
}

func TestBatchParallelMatchesSequential(t *testing.T) {
	snap, err := rates.FromDocument(rates.DefaultDocument())
	require.NoError(t, err)

	sequential, err := NewCalculator(snap, Options{Clock: testClock, Workers: 1})
	require.NoError(t, err)
	parallel, err := NewCalculator(snap, Options{Clock: testClock, Workers: 4})
	require.NoError(t, err)

	var records []models.RawRecord
	for i := 0; i < 40; i++ {
		rec := wineRecord(i+2, fmt.Sprintf("%d.50", 90+i))
		if i%7 == 3 {
			rec.Fields["abv_percent"] = "not a number"
		}
		records = append(records, rec)
	}

	seqResult, err := sequential.ProcessAlcoholBatch(context.Background(), records)
	require.NoError(t, err)
	parResult, err := parallel.ProcessAlcoholBatch(context.Background(), records)
	require.NoError(t, err)

	assert.Equal(t, seqResult.Rows, parResult.Rows)
	assert.Equal(t, seqResult.SucceededCount, parResult.SucceededCount)
	assert.Equal(t, seqResult.FailedCount, parResult.FailedCount)
	assert.True(t, seqResult.TotalLandedCost.Equal(parResult.TotalLandedCost))
}

func TestBatchConfigurationErrorFailsFast(t *testing.T) {
	calc := testCalculator(t, func(doc *rates.Document) {
		delete(doc.Alcohol.Categories, "wine")
	})

	records := []models.RawRecord{wineRecord(2, "100"), wineRecord(3, "100")}
	_, err := calc.ProcessAlcoholBatch(context.Background(), records)
	var confErr *ConfigurationError
	require.ErrorAs(t, err, &confErr)
}

func TestBatchCancellation(t *testing.T) {
	calc := testCalculator(t, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := calc.ProcessAlcoholBatch(ctx, []models.RawRecord{wineRecord(2, "100")})
	require.ErrorIs(t, err, context.Canceled)
}

func TestBatchDefaultsRowNumbers(t *testing.T) {
	calc := testCalculator(t, nil)

	records := []models.RawRecord{
		{Fields: wineRecord(0, "100").Fields},
		{Fields: wineRecord(0, "200").Fields},
	}
	result, err := calc.ProcessAlcoholBatch(context.Background(), records)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Rows[0].Row)
	assert.Equal(t, 2, result.Rows[1].Row)
}

func TestVehicleBatch(t *testing.T) {
	calc := testCalculator(t, nil)

	records := []models.RawRecord{
		{
			Row: 2,
			Fields: map[string]string{
				"Make": "Toyota", "Model": "Vitz", "Model Year": "2019",
				"Category": "gasoline", "Engine CC": "1300", "CIF Value": "$8,500.00",
				"Condition": "used", "Mileage": "62000", "Tire Count": "4",
			},
		},
		{
			Row: 3,
			Fields: map[string]string{
				"Make": "Honda", "Model": "Fit", "Model Year": "2020",
				"Category": "gasoline", "CIF Value": "9200",
			},
		},
	}

	result, err := calc.ProcessVehicleBatch(context.Background(), records)
	require.NoError(t, err)

	require.Len(t, result.Rows, 2)
	first := result.Rows[0]
	require.NotNil(t, first.Result)
	assert.True(t, first.Result.Vehicle.IsUsed)
	assert.Equal(t, "3825.00", first.Result.ImportDuty().StringFixed(2))

	// Second row has no engine size for a combustion category.
	second := result.Rows[1]
	assert.Nil(t, second.Result)
	assert.Contains(t, second.Error, "engine_cc")
}
