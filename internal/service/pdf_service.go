package service

import (
	"customs-web/internal/models"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"
)

type PDFService struct{}

func NewPDFService() *PDFService {
	return &PDFService{}
}

// GenerateBatchReport renders a printable landed-cost report for a batch:
// header with batch metadata, one line per row with its warnings underneath,
// and duty/VAT/total sums at the bottom.
func (s *PDFService) GenerateBatchReport(session *models.BatchSession, rows []models.BatchRowRecord, outputPath string) error {
	cfg := config.NewBuilder().
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
		}).
		Build()

	m := maroto.New(cfg)

	m.AddRow(12,
		text.NewCol(12, "Landed Cost Report", props.Text{
			Size:  18,
			Style: fontstyle.Bold,
			Align: align.Left,
		}),
	)

	m.AddRow(22,
		col.New(6).Add(
			text.New("Batch: "+session.BatchCode, props.Text{Top: 0}),
			text.New("Calculator: "+session.Calculator, props.Text{Top: 4}),
			text.New("Source file: "+session.Filename, props.Text{Top: 8}),
			text.New("Rate version: "+session.SnapshotVersion, props.Text{Top: 12}),
		),
		col.New(6).Add(
			text.New(fmt.Sprintf("Rows: %d (%d failed)", session.TotalRows, session.FailedRows), props.Text{Top: 0}),
			text.New("Total CIF: $"+session.TotalCIF.StringFixed(2), props.Text{Top: 4}),
			text.New("Total landed cost: $"+session.TotalLandedCost.StringFixed(2), props.Text{Top: 8}),
			text.New("Generated: "+time.Now().Format("2006-01-02 15:04"), props.Text{Top: 12}),
		),
	)

	// Table header
	m.AddRow(8,
		text.NewCol(1, "Row", props.Text{Style: fontstyle.Bold, Size: 9}),
		text.NewCol(2, "HS Code", props.Text{Style: fontstyle.Bold, Size: 9}),
		text.NewCol(3, "Description", props.Text{Style: fontstyle.Bold, Size: 9}),
		text.NewCol(2, "CIF", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
		text.NewCol(2, "Import Duty", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
		text.NewCol(2, "Total", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
	)

	totalDuty := decimal.Zero
	totalVAT := decimal.Zero

	for _, record := range rows {
		if !record.Succeeded {
			m.AddRow(7,
				text.NewCol(1, fmt.Sprintf("%d", record.RowNum), props.Text{Size: 9}),
				text.NewCol(11, "Failed: "+record.ErrorMessage, props.Text{Size: 9, Style: fontstyle.Italic}),
			)
			continue
		}

		duty := ""
		var warnings []string
		if len(record.Payload) > 0 {
			var result models.CalculationResult
			if err := json.Unmarshal(record.Payload, &result); err == nil {
				d := result.ImportDuty()
				duty = d.StringFixed(2)
				totalDuty = totalDuty.Add(d)
				totalVAT = totalVAT.Add(result.VATAmount)
				warnings = result.Warnings
			}
		}

		m.AddRow(7,
			text.NewCol(1, fmt.Sprintf("%d", record.RowNum), props.Text{Size: 9}),
			text.NewCol(2, record.HSCode, props.Text{Size: 9}),
			text.NewCol(3, record.Description, props.Text{Size: 9}),
			text.NewCol(2, record.CIFValue.StringFixed(2), props.Text{Size: 9, Align: align.Right}),
			text.NewCol(2, duty, props.Text{Size: 9, Align: align.Right}),
			text.NewCol(2, record.TotalLandedCost.StringFixed(2), props.Text{Size: 9, Align: align.Right}),
		)

		for _, warning := range warnings {
			m.AddRow(5,
				col.New(1),
				text.NewCol(11, warning, props.Text{Size: 8, Style: fontstyle.Italic}),
			)
		}
	}

	// Footer totals over successful rows
	m.AddRow(10,
		col.New(6),
		text.NewCol(3, "Total CIF", props.Text{Size: 9}),
		text.NewCol(3, "$"+session.TotalCIF.StringFixed(2), props.Text{Size: 9, Align: align.Right}),
	)
	m.AddRow(8,
		col.New(6),
		text.NewCol(3, "Total import duty", props.Text{Size: 9}),
		text.NewCol(3, "$"+totalDuty.StringFixed(2), props.Text{Size: 9, Align: align.Right}),
	)
	m.AddRow(8,
		col.New(6),
		text.NewCol(3, "Total VAT", props.Text{Size: 9}),
		text.NewCol(3, "$"+totalVAT.StringFixed(2), props.Text{Size: 9, Align: align.Right}),
	)
	m.AddRow(8,
		col.New(6),
		text.NewCol(3, "Total landed cost", props.Text{Style: fontstyle.Bold, Size: 9}),
		text.NewCol(3, "$"+session.TotalLandedCost.StringFixed(2), props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
	)

	doc, err := m.Generate()
	if err != nil {
		return err
	}

	return os.WriteFile(outputPath, doc.GetBytes(), 0644)
}
