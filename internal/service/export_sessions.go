package service

import (
	"customs-web/internal/models"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// Fill colors for the Status column, keyed by session status.
var sessionStatusColors = map[string]string{
	models.BatchStatusCompleted:  "#D4EDDA",
	models.BatchStatusFailed:     "#F8D7DA",
	models.BatchStatusProcessing: "#FFF3CD",
}

// ExportSessionsList writes the batch session ledger to a workbook. One row
// per session with the pinned rate version and running totals, so a broker
// can reconcile a month of uploads without opening each batch.
func (s *ExcelService) ExportSessionsList(sessions []models.BatchSession, outputPath string) error {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Batch Sessions"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return err
	}

	headers := []string{
		"ID", "Batch Code", "Calculator", "Filename", "Total Rows",
		"Processed", "Failed", "Status", "Rate Version", "Total CIF",
		"Total Landed Cost", "Created At",
	}
	for i, header := range headers {
		f.SetCellValue(sheetName, fmt.Sprintf("%s1", getColumnName(i)), header)
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})
	f.SetCellStyle(sheetName, "A1", fmt.Sprintf("%s1", getColumnName(len(headers)-1)), headerStyle)

	statusStyles := make(map[string]int, len(sessionStatusColors))
	for status, color := range sessionStatusColors {
		style, serr := f.NewStyle(&excelize.Style{
			Fill: excelize.Fill{Type: "pattern", Color: []string{color}, Pattern: 1},
		})
		if serr == nil {
			statusStyles[status] = style
		}
	}

	for i, session := range sessions {
		row := i + 2
		values := []interface{}{
			session.ID,
			session.BatchCode,
			session.Calculator,
			session.Filename,
			session.TotalRows,
			session.ProcessedRows,
			session.FailedRows,
			session.Status,
			session.SnapshotVersion,
			session.TotalCIF.StringFixed(2),
			session.TotalLandedCost.StringFixed(2),
			session.CreatedAt.Format("2006-01-02 15:04:05"),
		}
		for colIdx, value := range values {
			f.SetCellValue(sheetName, fmt.Sprintf("%s%d", getColumnName(colIdx), row), value)
		}

		if style, ok := statusStyles[session.Status]; ok {
			statusCell := fmt.Sprintf("H%d", row)
			f.SetCellStyle(sheetName, statusCell, statusCell, style)
		}
	}

	columnWidths := []float64{8, 20, 12, 25, 10, 10, 8, 12, 14, 14, 16, 20}
	for i, width := range columnWidths {
		col := getColumnName(i)
		f.SetColWidth(sheetName, col, col, width)
	}

	// Counts under the table, in lifecycle order so the export is stable
	byStatus := make(map[string]int)
	for _, session := range sessions {
		byStatus[session.Status]++
	}

	summaryRow := len(sessions) + 4
	f.SetCellValue(sheetName, fmt.Sprintf("A%d", summaryRow), "Ledger Summary")
	f.SetCellValue(sheetName, fmt.Sprintf("A%d", summaryRow+1), "Sessions:")
	f.SetCellValue(sheetName, fmt.Sprintf("B%d", summaryRow+1), len(sessions))

	line := 2
	for _, status := range []string{
		models.BatchStatusUploaded,
		models.BatchStatusProcessing,
		models.BatchStatusCompleted,
		models.BatchStatusFailed,
		models.BatchStatusCanceled,
	} {
		if count, ok := byStatus[status]; ok {
			f.SetCellValue(sheetName, fmt.Sprintf("A%d", summaryRow+line), status+":")
			f.SetCellValue(sheetName, fmt.Sprintf("B%d", summaryRow+line), count)
			line++
		}
	}

	summaryStyle, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	f.SetCellStyle(sheetName, fmt.Sprintf("A%d", summaryRow), fmt.Sprintf("A%d", summaryRow), summaryStyle)

	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	return f.SaveAs(outputPath)
}
