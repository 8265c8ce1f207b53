// Package export renders the finished MTO table for presentation, as a
// styled workbook and as a PDF summary.
package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"lightmto/pipeline"
)

// RenderWorkbook writes the MTO table to a styled xlsx file: filled bold
// header, thin borders everywhere, right-aligned numeric columns, frozen
// header row.
func RenderWorkbook(t *pipeline.MtoTable, path string) error {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "MTO"
	defaultSheet := f.GetSheetName(0)
	if err := f.SetSheetName(defaultSheet, sheet); err != nil {
		return fmt.Errorf("set sheet name: %w", err)
	}

	headers := t.Headers()

	// ── Styles ──────────────────────────────────────────────────────────

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 12},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#DDEBF7"},
			Pattern: 1,
		},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
			WrapText:   true,
		},
		Border: thinBorders(),
	})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}

	textStyle, err := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Vertical: "center", WrapText: true},
		Border:    thinBorders(),
	})
	if err != nil {
		return fmt.Errorf("create text style: %w", err)
	}

	numberStyle, err := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Horizontal: "right"},
		Border:    thinBorders(),
	})
	if err != nil {
		return fmt.Errorf("create number style: %w", err)
	}

	// ── Header row ──────────────────────────────────────────────────────

	for c, h := range headers {
		cell, err := excelize.CoordinatesToCellName(c+1, 1)
		if err != nil {
			return fmt.Errorf("header cell ref: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return fmt.Errorf("write header %q: %w", h, err)
		}
		if err := f.SetCellStyle(sheet, cell, cell, headerStyle); err != nil {
			return fmt.Errorf("style header %q: %w", h, err)
		}
	}

	// ── Data rows ───────────────────────────────────────────────────────

	for r, row := range t.Rows {
		values := make([]any, 0, len(headers))
		values = append(values, row.ItemCode, row.Description, row.Unit)
		for _, q := range row.ByWbs {
			values = append(values, numericCell(q))
		}
		values = append(values, numericCell(row.Total), numericCell(row.Allowance), numericCell(row.GrandTotal))

		for c, v := range values {
			cell, err := excelize.CoordinatesToCellName(c+1, r+2)
			if err != nil {
				return fmt.Errorf("data cell ref: %w", err)
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return fmt.Errorf("write row %d: %w", r+1, err)
			}
			style := textStyle
			if c >= 3 {
				style = numberStyle
			}
			if err := f.SetCellStyle(sheet, cell, cell, style); err != nil {
				return fmt.Errorf("style row %d: %w", r+1, err)
			}
		}
	}

	// ── Column widths ───────────────────────────────────────────────────

	for c, h := range headers {
		width := float64(len(h)) + 2
		for _, row := range t.Rows {
			if w := cellWidth(row, c); w > width {
				width = w
			}
		}
		// Description gets room to breathe; everything else is clamped.
		if c == 1 {
			width = maxf(width, 40)
		} else {
			width = minf(maxf(width, 10), 30)
		}
		col, err := excelize.ColumnNumberToName(c + 1)
		if err != nil {
			return fmt.Errorf("column name: %w", err)
		}
		if err := f.SetColWidth(sheet, col, col, width); err != nil {
			return fmt.Errorf("set width of %s: %w", col, err)
		}
	}

	// Keep the header visible while scrolling.
	if err := f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("freeze header row: %w", err)
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}

// numericCell stores integral quantities as integers so the sheet shows
// "12", not "12.0".
func numericCell(v float64) any {
	if v == float64(int64(v)) {
		return int64(v)
	}
	return v
}

func cellWidth(row pipeline.MtoRow, col int) float64 {
	var s string
	switch col {
	case 0:
		s = row.ItemCode
	case 1:
		s = row.Description
	case 2:
		s = row.Unit
	default:
		return 0 // numeric, header width dominates
	}
	return float64(len(s)) + 2
}

func thinBorders() []excelize.Border {
	sides := []string{"left", "right", "top", "bottom"}
	borders := make([]excelize.Border, 0, len(sides))
	for _, s := range sides {
		borders = append(borders, excelize.Border{Type: s, Color: "#000000", Style: 1})
	}
	return borders
}

func maxf(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

func minf(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
