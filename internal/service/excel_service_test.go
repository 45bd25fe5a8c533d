package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"customs-web/internal/engine"
	"customs-web/internal/models"
	"customs-web/internal/rates"
)

func TestParseBatchFileCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "batch.csv")
	content := "Product Name,Category,Volume Ml,ABV Percent,Quantity,CIF Value\n" +
		"Premium Dark Rum,spirits,750,40,12,540.00\n" +
		",,,,,\n" +
		"Chardonnay,wine,750,13,24,380.00\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	records, err := NewExcelService().ParseBatchFile(path)
	require.NoError(t, err)

	require.Len(t, records, 2)
	assert.Equal(t, 2, records[0].Row)
	assert.Equal(t, "Premium Dark Rum", records[0].Fields["Product Name"])
	assert.Equal(t, "540.00", records[0].Fields["CIF Value"])

	// The blank line keeps its place in the numbering even though it is
	// skipped, so errors still point at real file lines.
	assert.Equal(t, 4, records[1].Row)
	assert.Equal(t, "wine", records[1].Fields["Category"])
}

func TestParseBatchFileWorkbook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "batch.xlsx")

	f := excelize.NewFile()
	rows := [][]interface{}{
		{"Make", "Model", "Model Year", "Category", "CIF Value"},
		{"Toyota", "Corolla", 2023, "gasoline", 20000},
		{"Nissan", "Leaf"}, // ragged row, trailing cells missing
	}
	for i, row := range rows {
		for j, value := range row {
			cell, err := excelize.CoordinatesToCellName(j+1, i+1)
			require.NoError(t, err)
			require.NoError(t, f.SetCellValue("Sheet1", cell, value))
		}
	}
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	records, err := NewExcelService().ParseBatchFile(path)
	require.NoError(t, err)

	require.Len(t, records, 2)
	assert.Equal(t, "Toyota", records[0].Fields["Make"])
	assert.Equal(t, "2023", records[0].Fields["Model Year"])
	assert.Equal(t, "Leaf", records[1].Fields["Model"])
	assert.Equal(t, "", records[1].Fields["Category"])
}

func TestParseBatchFileRejectsUnsupportedType(t *testing.T) {
	path := filepath.Join(t.TempDir(), "batch.txt")
	require.NoError(t, os.WriteFile(path, []byte("not a spreadsheet"), 0644))

	_, err := NewExcelService().ParseBatchFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported file type")
}

func TestParseBatchFileEmptyData(t *testing.T) {
	dir := t.TempDir()

	headerOnly := filepath.Join(dir, "header_only.csv")
	require.NoError(t, os.WriteFile(headerOnly, []byte("Make,Model\n"), 0644))
	_, err := NewExcelService().ParseBatchFile(headerOnly)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least header row and one data row")

	blankRows := filepath.Join(dir, "blank_rows.csv")
	require.NoError(t, os.WriteFile(blankRows, []byte("Make,Model\n,\n,\n"), 0644))
	_, err = NewExcelService().ParseBatchFile(blankRows)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no data rows")
}

func TestExportBatchResults(t *testing.T) {
	session := &models.BatchSession{
		BatchCode:       "BATCH-ab12cd34",
		Calculator:      models.CalculatorAlcohol,
		SnapshotVersion: "2025.1",
		TotalRows:       2,
		ProcessedRows:   2,
		FailedRows:      1,
		TotalCIF:        decimal.RequireFromString("540.00"),
		TotalLandedCost: decimal.RequireFromString("995.50"),
	}
	rows := []models.BatchRowRecord{
		{
			RowNum:          2,
			Succeeded:       true,
			HSCode:          "2208.90.00",
			Description:     "Spirits and other spirituous beverages",
			CIFValue:        decimal.RequireFromString("540.00"),
			TotalLandedCost: decimal.RequireFromString("995.50"),
		},
		{
			RowNum:       3,
			ErrorMessage: "quantity: must be a whole number greater than zero",
		},
	}

	path := filepath.Join(t.TempDir(), "results.xlsx")
	require.NoError(t, NewExcelService().ExportBatchResults(session, rows, path))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	sheet := f.GetSheetList()[0]
	assert.Equal(t, "Calculation Results", sheet)

	cell := func(ref string) string {
		value, err := f.GetCellValue(sheet, ref)
		require.NoError(t, err)
		return value
	}

	assert.Equal(t, "Row", cell("A1"))
	assert.Equal(t, "Total Landed Cost", cell("F1"))

	assert.Equal(t, "2", cell("A2"))
	assert.Equal(t, "OK", cell("B2"))
	assert.Equal(t, "2208.90.00", cell("C2"))
	assert.Equal(t, "995.50", cell("F2"))

	// Failed rows carry the error and no money figures
	assert.Equal(t, "Failed", cell("B3"))
	assert.Equal(t, "", cell("F3"))
	assert.Contains(t, cell("G3"), "quantity")

	// Summary block below the table
	assert.Equal(t, "Batch Summary", cell("A6"))
	assert.Equal(t, "BATCH-ab12cd34", cell("B7"))
	assert.Equal(t, "1", cell("B11"))      // succeeded
	assert.Equal(t, "995.50", cell("B14")) // total landed cost
}

func TestExportSessionsList(t *testing.T) {
	sessions := []models.BatchSession{
		{
			ID:              1,
			BatchCode:       "BATCH-ab12cd34",
			Calculator:      models.CalculatorAlcohol,
			Filename:        "shipment.xlsx",
			TotalRows:       10,
			ProcessedRows:   10,
			FailedRows:      0,
			Status:          models.BatchStatusCompleted,
			SnapshotVersion: "2025.1",
			TotalCIF:        decimal.RequireFromString("1234.50"),
			TotalLandedCost: decimal.RequireFromString("2763.10"),
		},
		{
			ID:         2,
			BatchCode:  "BATCH-ef56gh78",
			Calculator: models.CalculatorVehicle,
			Filename:   "vehicles.csv",
			Status:     models.BatchStatusFailed,
		},
	}

	path := filepath.Join(t.TempDir(), "sessions.xlsx")
	require.NoError(t, NewExcelService().ExportSessionsList(sessions, path))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	sheet := f.GetSheetList()[0]
	assert.Equal(t, "Batch Sessions", sheet)

	cell := func(ref string) string {
		value, err := f.GetCellValue(sheet, ref)
		require.NoError(t, err)
		return value
	}

	assert.Equal(t, "Batch Code", cell("B1"))
	assert.Equal(t, "BATCH-ab12cd34", cell("B2"))
	assert.Equal(t, "completed", cell("H2"))
	assert.Equal(t, "1234.50", cell("J2"))
	assert.Equal(t, "failed", cell("H3"))

	// Summary block: session count, then per-status counts in lifecycle order
	assert.Equal(t, "Ledger Summary", cell("A6"))
	assert.Equal(t, "Sessions:", cell("A7"))
	assert.Equal(t, "2", cell("B7"))
	assert.Equal(t, "completed:", cell("A8"))
	assert.Equal(t, "1", cell("B8"))
	assert.Equal(t, "failed:", cell("A9"))
	assert.Equal(t, "1", cell("B9"))
}

// The templates must round-trip: headers written by the generator have to be
// recognized by the calculation engine, and the sample rows have to compute.
func TestAlcoholTemplateRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "alcohol_template.xlsx")
	require.NoError(t, NewExcelService().GenerateAlcoholTemplate(path))

	records, err := NewExcelService().ParseBatchFile(path)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(records), 5)
	assert.Equal(t, 2, records[0].Row)

	calc := newTestCalculator(t)
	result, err := calc.ProcessAlcoholBatch(context.Background(), records)
	require.NoError(t, err)

	// Five sample rows compute; the instruction lines below them fail per row
	assert.Equal(t, 5, result.SucceededCount)

	first := result.Rows[0].Result
	require.NotNil(t, first)
	assert.Equal(t, "2208.90.00", first.HSCode)
	assert.Equal(t, "995.50", first.TotalLandedCost.StringFixed(2))
}

func TestVehicleTemplateRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vehicle_template.xlsx")
	require.NoError(t, NewExcelService().GenerateVehicleTemplate(path))

	records, err := NewExcelService().ParseBatchFile(path)
	require.NoError(t, err)

	calc := newTestCalculator(t)
	result, err := calc.ProcessVehicleBatch(context.Background(), records)
	require.NoError(t, err)

	assert.Equal(t, 5, result.SucceededCount)

	first := result.Rows[0].Result
	require.NotNil(t, first)
	require.NotNil(t, first.Vehicle)
	assert.Equal(t, "Toyota", first.Vehicle.Make)
	assert.False(t, first.Vehicle.IsUsed)
}

func newTestCalculator(t *testing.T) *engine.Calculator {
	t.Helper()
	snap, err := rates.Default()
	require.NoError(t, err)
	calc, err := engine.NewCalculator(snap, engine.Options{})
	require.NoError(t, err)
	return calc
}
