package cli

import (
	"fmt"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/Flyrell/checkin/internal/calendar"
	"github.com/Flyrell/checkin/internal/ledger"
	"github.com/Flyrell/checkin/internal/report"
)

var (
	pdfHeaderColor = props.Color{Red: 50, Green: 50, Blue: 50}
	pdfMutedColor  = props.Color{Red: 120, Green: 120, Blue: 120}
	pdfLineColor   = props.Color{Red: 200, Green: 200, Blue: 200}
	pdfBonusColor  = props.Color{Red: 200, Green: 60, Blue: 120}
)

// renderExportPDF writes the check-in history as a PDF to outputPath.
func renderExportPDF(data report.ExportData, outputPath string) error {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(15).
		WithTopMargin(15).
		WithRightMargin(15).
		Build()

	m := maroto.New(cfg)

	m.AddRow(14,
		text.NewCol(12, data.Title, props.Text{
			Style: fontstyle.Bold,
			Size:  16,
			Color: &pdfHeaderColor,
		}),
	)
	for _, p := range ledger.Parties {
		m.AddRow(7,
			text.NewCol(9, data.Names[p], props.Text{Size: 11, Color: &pdfMutedColor}),
			text.NewCol(3, fmt.Sprintf("%d points", data.Totals[p]), props.Text{
				Size:  11,
				Align: align.Right,
				Color: &pdfMutedColor,
			}),
		)
	}
	m.AddRow(4, line.NewCol(12, props.Line{Color: &pdfLineColor}))
	m.AddRow(4)

	if len(data.Months) == 0 {
		m.AddRow(8, text.NewCol(12, "No check-ins recorded yet.", props.Text{Size: 10, Color: &pdfMutedColor}))
	}

	for _, month := range data.Months {
		m.AddRow(8,
			text.NewCol(12, fmt.Sprintf("%s %d", month.Month, month.Year), props.Text{
				Style: fontstyle.Bold,
				Size:  10,
				Color: &pdfHeaderColor,
			}),
		)

		for _, e := range month.Events {
			label := fmt.Sprintf("  #%d  %s  %s", e.Index, calendar.Format(e.Date), e.Name)
			textProps := props.Text{Size: 9}
			if e.IsBirthday {
				label += "  (birthday)"
				textProps.Color = &pdfBonusColor
			}
			m.AddRow(6,
				text.NewCol(9, label, textProps),
				text.NewCol(3, formatPoints(e.Points), props.Text{
					Size:  9,
					Align: align.Right,
				}),
			)
		}

		for _, p := range ledger.Parties {
			if _, ok := month.Totals[p]; !ok {
				continue
			}
			m.AddRow(5,
				text.NewCol(9, "    subtotal "+data.Names[p], props.Text{Size: 8, Color: &pdfMutedColor}),
				text.NewCol(3, fmt.Sprintf("%d", month.Totals[p]), props.Text{
					Size:  8,
					Align: align.Right,
					Color: &pdfMutedColor,
				}),
			)
		}

		m.AddRow(4)
	}

	m.AddRow(4, line.NewCol(12, props.Line{Color: &pdfLineColor}))
	for _, p := range ledger.Parties {
		m.AddRow(9,
			text.NewCol(9, "Total "+data.Names[p], props.Text{
				Style: fontstyle.Bold,
				Size:  12,
				Color: &pdfHeaderColor,
			}),
			text.NewCol(3, fmt.Sprintf("%d", data.Totals[p]), props.Text{
				Style: fontstyle.Bold,
				Size:  12,
				Align: align.Right,
				Color: &pdfHeaderColor,
			}),
		)
	}

	doc, err := m.Generate()
	if err != nil {
		return fmt.Errorf("generating PDF: %w", err)
	}

	return doc.Save(outputPath)
}
