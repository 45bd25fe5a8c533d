package service

import (
	"customs-web/internal/models"
	"customs-web/internal/rates"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

type ExcelService struct{}

func NewExcelService() *ExcelService {
	return &ExcelService{}
}

// ParseBatchFile reads an uploaded batch file into raw records. Row numbers
// are the source line numbers (header is line 1, data starts at line 2), so
// errors reported later point at the line the user sees in their file.
func (s *ExcelService) ParseBatchFile(filePath string) ([]models.RawRecord, error) {
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".xlsx", ".xls":
		return s.parseWorkbook(filePath)
	case ".csv":
		return s.parseCSV(filePath)
	default:
		return nil, fmt.Errorf("unsupported file type: %s", filepath.Ext(filePath))
	}
}

func (s *ExcelService) parseWorkbook(filePath string) ([]models.RawRecord, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	// Get first sheet
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("no sheets found in Excel file")
	}

	sheetName := sheets[0]
	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}

	return buildRecords(rows)
}

func (s *ExcelService) parseCSV(filePath string) ([]models.RawRecord, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1 // rows may have trailing blanks trimmed off

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV file: %w", err)
	}

	return buildRecords(rows)
}

// buildRecords maps data rows onto the header row. Blank rows are skipped,
// blank header cells are ignored. Column name normalization happens in the
// calculation engine, so headers are passed through as written.
func buildRecords(rows [][]string) ([]models.RawRecord, error) {
	if len(rows) < 2 {
		return nil, fmt.Errorf("file must contain at least header row and one data row")
	}

	header := rows[0]
	hasHeader := false
	for _, cell := range header {
		if strings.TrimSpace(cell) != "" {
			hasHeader = true
			break
		}
	}
	if !hasHeader {
		return nil, fmt.Errorf("header row is empty")
	}

	var records []models.RawRecord
	for i := 1; i < len(rows); i++ {
		row := rows[i]

		empty := true
		for _, cell := range row {
			if strings.TrimSpace(cell) != "" {
				empty = false
				break
			}
		}
		if empty {
			continue
		}

		fields := make(map[string]string, len(header))
		for col, name := range header {
			if strings.TrimSpace(name) == "" {
				continue
			}
			fields[name] = getCellValue(row, col)
		}

		records = append(records, models.RawRecord{Row: i + 1, Fields: fields})
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("file contains no data rows")
	}

	return records, nil
}

// ExportBatchResults writes the per-row outcomes of a batch to Excel, with a
// summary section below the table.
func (s *ExcelService) ExportBatchResults(session *models.BatchSession, rows []models.BatchRowRecord, outputPath string) error {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Calculation Results"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return err
	}

	// Set headers
	headers := []string{
		"Row", "Status", "HS Code", "Description", "CIF Value", "Total Landed Cost", "Error",
	}

	for i, header := range headers {
		cell := fmt.Sprintf("%s1", getColumnName(i))
		f.SetCellValue(sheetName, cell, header)
	}

	// Set header style
	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})
	f.SetCellStyle(sheetName, "A1", fmt.Sprintf("%s1", getColumnName(len(headers)-1)), headerStyle)

	failedStyle, _ := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#FFFFCC"}, Pattern: 1},
	})

	// Write data
	for rowIdx, record := range rows {
		row := rowIdx + 2

		status := "OK"
		cifValue := record.CIFValue.StringFixed(2)
		totalValue := record.TotalLandedCost.StringFixed(2)
		if !record.Succeeded {
			status = "Failed"
			cifValue = ""
			totalValue = ""
		}

		values := []interface{}{
			record.RowNum,
			status,
			record.HSCode,
			record.Description,
			cifValue,
			totalValue,
			record.ErrorMessage,
		}

		for colIdx, value := range values {
			cell := fmt.Sprintf("%s%d", getColumnName(colIdx), row)
			f.SetCellValue(sheetName, cell, value)
		}

		if !record.Succeeded {
			f.SetCellStyle(sheetName, fmt.Sprintf("A%d", row), fmt.Sprintf("%s%d", getColumnName(len(headers)-1), row), failedStyle)
		}
	}

	// Set column widths
	columnWidths := []float64{8, 10, 15, 35, 15, 18, 50}
	for i, width := range columnWidths {
		colName := getColumnName(i)
		f.SetColWidth(sheetName, colName, colName, width)
	}

	// Add summary section
	summaryStartRow := len(rows) + 4
	f.SetCellValue(sheetName, fmt.Sprintf("A%d", summaryStartRow), "Batch Summary")
	f.SetCellValue(sheetName, fmt.Sprintf("A%d", summaryStartRow+1), "Batch Code:")
	f.SetCellValue(sheetName, fmt.Sprintf("B%d", summaryStartRow+1), session.BatchCode)
	f.SetCellValue(sheetName, fmt.Sprintf("A%d", summaryStartRow+2), "Calculator:")
	f.SetCellValue(sheetName, fmt.Sprintf("B%d", summaryStartRow+2), session.Calculator)
	f.SetCellValue(sheetName, fmt.Sprintf("A%d", summaryStartRow+3), "Rate Version:")
	f.SetCellValue(sheetName, fmt.Sprintf("B%d", summaryStartRow+3), session.SnapshotVersion)
	f.SetCellValue(sheetName, fmt.Sprintf("A%d", summaryStartRow+4), "Total Rows:")
	f.SetCellValue(sheetName, fmt.Sprintf("B%d", summaryStartRow+4), session.TotalRows)
	f.SetCellValue(sheetName, fmt.Sprintf("A%d", summaryStartRow+5), "Succeeded:")
	f.SetCellValue(sheetName, fmt.Sprintf("B%d", summaryStartRow+5), session.ProcessedRows-session.FailedRows)
	f.SetCellValue(sheetName, fmt.Sprintf("A%d", summaryStartRow+6), "Failed:")
	f.SetCellValue(sheetName, fmt.Sprintf("B%d", summaryStartRow+6), session.FailedRows)
	f.SetCellValue(sheetName, fmt.Sprintf("A%d", summaryStartRow+7), "Total CIF:")
	f.SetCellValue(sheetName, fmt.Sprintf("B%d", summaryStartRow+7), session.TotalCIF.StringFixed(2))
	f.SetCellValue(sheetName, fmt.Sprintf("A%d", summaryStartRow+8), "Total Landed Cost:")
	f.SetCellValue(sheetName, fmt.Sprintf("B%d", summaryStartRow+8), session.TotalLandedCost.StringFixed(2))

	// Style summary section
	summaryStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	})
	f.SetCellStyle(sheetName, fmt.Sprintf("A%d", summaryStartRow), fmt.Sprintf("A%d", summaryStartRow), summaryStyle)

	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	return f.SaveAs(outputPath)
}

// GenerateAlcoholTemplate creates a template Excel file for alcohol batch upload
func (s *ExcelService) GenerateAlcoholTemplate(outputPath string) error {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Alcohol Items"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return err
	}

	// Set headers
	headers := []string{
		"Product Name", "Category", "Volume Ml", "ABV Percent", "Quantity",
		"CIF Value", "Origin Country", "Brand", "Has Liquor License",
	}

	for i, header := range headers {
		cell := fmt.Sprintf("%s1", getColumnName(i))
		f.SetCellValue(sheetName, cell, header)
	}

	// Set header style
	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})
	f.SetCellStyle(sheetName, "A1", fmt.Sprintf("%s1", getColumnName(len(headers)-1)), headerStyle)

	// Add sample data
	sampleData := [][]interface{}{
		{"Premium Dark Rum", "spirits", 750, 40, 12, 540.00, "Barbados", "Mount Gay", "No"},
		{"Chardonnay Reserve", "wine", 750, 13, 24, 380.00, "France", "Louis Jadot", "Yes"},
		{"Lager 24-Pack", "beer", 330, 5, 48, 290.00, "Mexico", "Corona", "Yes"},
		{"Coconut Liqueur", "liqueur", 700, 21, 6, 150.00, "Jamaica", "Koko Kanu", "No"},
		{"Sparkling Cider", "other", 750, 6, 12, 96.00, "United Kingdom", "Old Mout", "No"},
	}

	for rowIdx, rowData := range sampleData {
		row := rowIdx + 2
		for colIdx, value := range rowData {
			cell := fmt.Sprintf("%s%d", getColumnName(colIdx), row)
			f.SetCellValue(sheetName, cell, value)
		}
	}

	// Set column widths
	f.SetColWidth(sheetName, "A", "A", 30)
	f.SetColWidth(sheetName, "B", "F", 12)
	f.SetColWidth(sheetName, "G", "H", 18)
	f.SetColWidth(sheetName, "I", "I", 18)

	// Add instructions
	instructionsStartRow := len(sampleData) + 4
	instructions := []string{
		"Instructions:",
		"1. Product Name: Commercial name of the product (required)",
		"2. Category: One of wine, beer, spirits, liqueur, other (required)",
		"3. Volume Ml: Volume of a single unit in milliliters (required)",
		"4. ABV Percent: Alcohol by volume, e.g. 40 for 40% (required)",
		"5. Quantity: Number of units in the shipment (required)",
		"6. CIF Value: Cost + Insurance + Freight in BSD for the whole line (required)",
		"7. Origin Country: Country of origin (optional)",
		"8. Brand: Brand name (optional)",
		"9. Has Liquor License: Yes/No, whether the importer holds a liquor license (optional, defaults to No)",
		"",
		"Note: Do not modify the header row. Fill data starting from row 2.",
	}

	for i, instruction := range instructions {
		cell := fmt.Sprintf("A%d", instructionsStartRow+i)
		f.SetCellValue(sheetName, cell, instruction)
	}

	// Style instructions
	instructionStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 10},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#F0F8FF"}, Pattern: 1},
	})
	f.SetCellStyle(sheetName, fmt.Sprintf("A%d", instructionsStartRow), fmt.Sprintf("A%d", instructionsStartRow), instructionStyle)

	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	return f.SaveAs(outputPath)
}

// GenerateVehicleTemplate creates a template Excel file for vehicle batch upload
func (s *ExcelService) GenerateVehicleTemplate(outputPath string) error {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Vehicle Items"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return err
	}

	// Set headers
	headers := []string{
		"VIN", "Make", "Model", "Model Year", "Category", "Engine Cc",
		"CIF Value", "Origin Country", "Condition", "Mileage",
		"Qualifies For Concession", "Concession Type", "Antique", "Tire Count",
		"Ministerial Approval",
	}

	for i, header := range headers {
		cell := fmt.Sprintf("%s1", getColumnName(i))
		f.SetCellValue(sheetName, cell, header)
	}

	// Set header style
	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})
	f.SetCellStyle(sheetName, "A1", fmt.Sprintf("%s1", getColumnName(len(headers)-1)), headerStyle)

	// Add sample data
	sampleData := [][]interface{}{
		{"JTDBU4EE9A9123456", "Toyota", "Corolla", 2023, "gasoline", 1800, 20000.00, "Japan", "new", "", "No", "none", "No", "", "No"},
		{"1N4AZ1CP8KC304785", "Nissan", "Leaf", 2022, "electric", "", 30000.00, "Japan", "new", "", "No", "none", "No", "", "No"},
		{"JTMRJREV5HD092331", "Toyota", "RAV4 Hybrid", 2021, "hybrid", 2500, 28500.00, "Japan", "used", 42000, "Yes", "reduced_rate_20", "No", 4, "No"},
		{"WDB9634031L832077", "Mercedes-Benz", "Actros", 2019, "commercial", 12800, 65000.00, "Germany", "used", 180000, "No", "none", "No", 6, "No"},
		{"1FABP45E9LF100345", "Ford", "Mustang", 1990, "gasoline", 5000, 18000.00, "United States", "used", 98000, "No", "none", "Yes", 4, "No"},
	}

	for rowIdx, rowData := range sampleData {
		row := rowIdx + 2
		for colIdx, value := range rowData {
			cell := fmt.Sprintf("%s%d", getColumnName(colIdx), row)
			f.SetCellValue(sheetName, cell, value)
		}
	}

	// Set column widths
	f.SetColWidth(sheetName, "A", "A", 22)
	f.SetColWidth(sheetName, "B", "C", 18)
	f.SetColWidth(sheetName, "D", "G", 12)
	f.SetColWidth(sheetName, "H", "H", 18)
	f.SetColWidth(sheetName, "I", "J", 12)
	f.SetColWidth(sheetName, "K", "L", 22)
	f.SetColWidth(sheetName, "M", "O", 18)

	// Add instructions
	bandLabels := make([]string, 0, len(rates.CombustionBands))
	for _, band := range rates.CombustionBands {
		bandLabels = append(bandLabels, band.Label)
	}

	instructionsStartRow := len(sampleData) + 4
	instructions := []string{
		"Instructions:",
		"1. VIN: Vehicle identification number, up to 17 characters (optional)",
		"2. Make / Model: Manufacturer and model name (required)",
		"3. Model Year: Four-digit model year (required)",
		"4. Category: One of electric, hybrid, gasoline, diesel, commercial (required)",
		fmt.Sprintf("5. Engine Cc: Engine displacement in cc, required except for electric. Duty bands: %s", strings.Join(bandLabels, "; ")),
		"6. CIF Value: Cost + Insurance + Freight in BSD (required)",
		"7. Condition: new or used (optional, defaults to new)",
		"8. Mileage: Odometer reading, required when Condition is used",
		"9. Qualifies For Concession: Yes/No; Concession Type: none, reduced_rate_20, reduced_rate_15 or flat_rate",
		"10. Antique: Yes/No, vehicle registered as antique/vintage",
		"11. Tire Count: Number of tires, used for the tire levy on used vehicles",
		"12. Ministerial Approval: Yes/No, approval already granted for vehicles older than 10 years",
		"",
		"Note: Do not modify the header row. Fill data starting from row 2.",
	}

	for i, instruction := range instructions {
		cell := fmt.Sprintf("A%d", instructionsStartRow+i)
		f.SetCellValue(sheetName, cell, instruction)
	}

	// Style instructions
	instructionStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 10},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#F0F8FF"}, Pattern: 1},
	})
	f.SetCellStyle(sheetName, fmt.Sprintf("A%d", instructionsStartRow), fmt.Sprintf("A%d", instructionsStartRow), instructionStyle)

	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	return f.SaveAs(outputPath)
}

// Helper functions
func getCellValue(row []string, index int) string {
	if index < len(row) {
		return row[index]
	}
	return ""
}

func getColumnName(index int) string {
	result := ""
	for index >= 0 {
		result = string(rune('A'+(index%26))) + result
		index = index/26 - 1
	}
	return result
}
