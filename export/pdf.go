package export

import (
	"fmt"
	"os"
	"time"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/orientation"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"lightmto/pipeline"
)

// RenderReport writes a PDF summary of the MTO table: one line per item
// code with total, allowance, and grand total. The per-WBS breakdown lives
// in the workbook; the PDF is the shareable summary.
func RenderReport(t *pipeline.MtoTable, path string) error {
	cfg := config.NewBuilder().
		WithOrientation(orientation.Horizontal).
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).
		WithTopMargin(10).
		WithRightMargin(10).
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
			Size:    7,
			Color:   &props.Color{Red: 120, Green: 120, Blue: 120},
		}).
		Build()

	m := maroto.New(cfg)

	addReportHeader(m, t)
	addReportTableHeader(m)
	for _, r := range t.Rows {
		addReportRow(m, r)
	}
	addReportSummary(m, t)

	doc, err := m.Generate()
	if err != nil {
		return fmt.Errorf("generate MTO report: %w", err)
	}
	if err := os.WriteFile(path, doc.GetBytes(), 0o644); err != nil {
		return fmt.Errorf("save MTO report: %w", err)
	}
	return nil
}

func addReportHeader(m core.Maroto, t *pipeline.MtoTable) {
	m.AddRows(
		row.New(12).Add(
			col.New(12).Add(
				text.New("MATERIAL TAKE-OFF - ELECTRICAL LIGHTING", props.Text{
					Size:  16,
					Style: fontstyle.Bold,
					Align: align.Center,
				}),
			),
		),
	)
	m.AddRows(
		row.New(8).Add(
			col.New(6).Add(
				text.New(fmt.Sprintf("Design allowance: %s%%", pipeline.FormatQuantity(t.AllowancePct)), props.Text{
					Size:  9,
					Align: align.Left,
					Color: &props.Color{Red: 80, Green: 80, Blue: 80},
				}),
			),
			col.New(6).Add(
				text.New(fmt.Sprintf("Generated: %s", time.Now().Format("02 Jan 2006")), props.Text{
					Size:  9,
					Align: align.Right,
					Color: &props.Color{Red: 80, Green: 80, Blue: 80},
				}),
			),
		),
	)
	m.AddRows(row.New(4))
}

func addReportTableHeader(m core.Maroto) {
	headerText := props.Text{Size: 9, Style: fontstyle.Bold, Align: align.Left}
	rightHeader := props.Text{Size: 9, Style: fontstyle.Bold, Align: align.Right}

	m.AddRows(
		row.New(8).Add(
			col.New(2).Add(text.New("TPENG ITEM CODE", headerText)),
			col.New(4).Add(text.New("BILL OF MATERIAL", headerText)),
			col.New(1).Add(text.New("UNIT", headerText)),
			col.New(1).Add(text.New("TOTAL", rightHeader)),
			col.New(2).Add(text.New("DESIGN ALLOWANCE", rightHeader)),
			col.New(2).Add(text.New("GRAND TOTAL", rightHeader)),
		),
	)
}

func addReportRow(m core.Maroto, r pipeline.MtoRow) {
	cell := props.Text{Size: 8, Align: align.Left}
	rightCell := props.Text{Size: 8, Align: align.Right}

	m.AddRows(
		row.New(6).Add(
			col.New(2).Add(text.New(r.ItemCode, cell)),
			col.New(4).Add(text.New(r.Description, cell)),
			col.New(1).Add(text.New(r.Unit, cell)),
			col.New(1).Add(text.New(pipeline.FormatQuantity(r.Total), rightCell)),
			col.New(2).Add(text.New(pipeline.FormatQuantity(r.Allowance), rightCell)),
			col.New(2).Add(text.New(pipeline.FormatQuantity(r.GrandTotal), rightCell)),
		),
	)
}

func addReportSummary(m core.Maroto, t *pipeline.MtoTable) {
	m.AddRows(row.New(4))
	m.AddRows(
		row.New(7).Add(
			col.New(12).Add(
				text.New(fmt.Sprintf("%d materials across %d WBS codes", len(t.Rows), len(t.WbsCodes)), props.Text{
					Size:  9,
					Style: fontstyle.Bold,
					Align: align.Right,
				}),
			),
		),
	)
}
