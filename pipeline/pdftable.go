package pipeline

import (
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"
)

// TableLayout is the geometric configuration used to rebuild a page grid
// from positioned text fragments. The defaults describe the fixed frame of
// the lighting install-detail sheets; they are configuration, not logic.
type TableLayout struct {
	// MinX/MaxX bound the table horizontally (points). Fragments outside
	// are page furniture (title block, revision triangle) and are dropped.
	MinX float64
	MaxX float64
	// MinY/MaxY bound the table band vertically.
	MinY float64
	MaxY float64
	// SnapTolerance groups fragments into one visual line when their Y
	// differs by less than this.
	SnapTolerance float64
	// RowMergeGap merges adjacent visual lines into one logical row (a
	// multi-line cell) when the extra gap between baselines is at most
	// this beyond the text height.
	RowMergeGap float64
	// ColumnGap is the minimum horizontal whitespace that separates two
	// columns. Smaller gaps are word spacing within a cell.
	ColumnGap float64
	// ColumnTolerance snap-clusters run start positions into column bins.
	ColumnTolerance float64
	// WordGapFactor inserts a space inside a cell when the gap between
	// consecutive fragments exceeds this fraction of the font size.
	WordGapFactor float64
}

// DefaultTableLayout returns the layout of the bill-of-material sheets.
func DefaultTableLayout() TableLayout {
	return TableLayout{
		MinX:            0,
		MaxX:            1185,
		MinY:            20,
		MaxY:            500,
		SnapTolerance:   2,
		RowMergeGap:     6,
		ColumnGap:       10,
		ColumnTolerance: 4,
		WordGapFactor:   0.3,
	}
}

// run is a horizontal stretch of text belonging to a single cell on a
// single visual line.
type run struct {
	x    float64
	end  float64
	text string
}

// textLine is one visual line: cell runs sharing a Y position.
type textLine struct {
	y    float64
	size float64
	runs []run
}

// ExtractPageGrid rebuilds the cell grid of one PDF page. Rows are logical
// table rows (multi-line cells joined with "\n"), columns are derived from
// the clustered start positions of the cell runs. Returns nil when the page
// has no text inside the table band.
func ExtractPageGrid(page pdf.Page, layout TableLayout) [][]string {
	if page.V.IsNull() {
		return nil
	}
	return BuildGrid(page.Content().Text, layout)
}

// BuildGrid is the pure core of ExtractPageGrid, separated so the geometry
// can be tested on synthetic fragments without a PDF file.
func BuildGrid(texts []pdf.Text, layout TableLayout) [][]string {
	var kept []pdf.Text
	for _, t := range texts {
		if strings.TrimSpace(t.S) == "" {
			continue
		}
		if t.X < layout.MinX || t.X > layout.MaxX {
			continue
		}
		if t.Y < layout.MinY || t.Y > layout.MaxY {
			continue
		}
		kept = append(kept, t)
	}
	if len(kept) == 0 {
		return nil
	}

	lines := groupLines(kept, layout)
	cuts := columnCuts(lines, layout.ColumnTolerance)
	rows := mergeRows(lines, layout.RowMergeGap)

	grid := make([][]string, 0, len(rows))
	for _, row := range rows {
		grid = append(grid, renderRow(row, cuts, layout.ColumnTolerance))
	}
	return grid
}

// groupLines buckets fragments into visual lines by Y, orders them top to
// bottom, and merges each line's fragments into cell runs. Fragments arrive
// char-sized, so word boundaries are recovered from horizontal gaps; gaps
// wider than ColumnGap start a new run (a new cell).
func groupLines(texts []pdf.Text, layout TableLayout) []textLine {
	type bucket struct {
		y     float64
		frags []pdf.Text
	}
	var buckets []bucket
	for _, t := range texts {
		placed := false
		for i := range buckets {
			if absf(buckets[i].y-t.Y) <= layout.SnapTolerance {
				buckets[i].frags = append(buckets[i].frags, t)
				placed = true
				break
			}
		}
		if !placed {
			buckets = append(buckets, bucket{y: t.Y, frags: []pdf.Text{t}})
		}
	}
	sort.Slice(buckets, func(i, j int) bool { return buckets[i].y > buckets[j].y })

	lines := make([]textLine, 0, len(buckets))
	for _, b := range buckets {
		sort.Slice(b.frags, func(i, j int) bool { return b.frags[i].X < b.frags[j].X })
		line := textLine{y: b.y}
		var sb strings.Builder
		var cur run
		for i, f := range b.frags {
			if f.FontSize > line.size {
				line.size = f.FontSize
			}
			if i == 0 {
				cur = run{x: f.X, end: f.X + f.W}
				sb.WriteString(f.S)
				continue
			}
			gap := f.X - cur.end
			if gap > layout.ColumnGap {
				cur.text = strings.TrimSpace(sb.String())
				if cur.text != "" {
					line.runs = append(line.runs, cur)
				}
				sb.Reset()
				cur = run{x: f.X}
			} else if gap > layout.WordGapFactor*fontSizeOr(f, 10) {
				sb.WriteByte(' ')
			}
			sb.WriteString(f.S)
			cur.end = f.X + f.W
		}
		cur.text = strings.TrimSpace(sb.String())
		if cur.text != "" {
			line.runs = append(line.runs, cur)
		}
		if len(line.runs) > 0 {
			lines = append(lines, line)
		}
	}
	return lines
}

func fontSizeOr(f pdf.Text, fallback float64) float64 {
	if f.FontSize > 0 {
		return f.FontSize
	}
	return fallback
}

// mergeRows joins consecutive visual lines into logical rows. Lines of the
// same cell sit roughly one text height apart; distinct table rows are
// separated by at least the ruled gap.
func mergeRows(lines []textLine, gap float64) [][]textLine {
	var rows [][]textLine
	for _, line := range lines {
		if len(rows) > 0 {
			prev := rows[len(rows)-1]
			last := prev[len(prev)-1]
			advance := last.size
			if advance == 0 {
				advance = 10
			}
			if last.y-line.y <= advance+gap {
				rows[len(rows)-1] = append(prev, line)
				continue
			}
		}
		rows = append(rows, []textLine{line})
	}
	return rows
}

// columnCuts snap-clusters run start positions across all lines into the
// ascending set of column start coordinates.
func columnCuts(lines []textLine, tol float64) []float64 {
	var xs []float64
	for _, line := range lines {
		for _, r := range line.runs {
			xs = append(xs, r.x)
		}
	}
	sort.Float64s(xs)

	var cuts []float64
	for _, x := range xs {
		if len(cuts) == 0 || x-cuts[len(cuts)-1] > tol {
			cuts = append(cuts, x)
		}
	}
	return cuts
}

// renderRow assembles the cell strings of one logical row: each run maps to
// the rightmost column cut at or left of its start, and a cell's lines are
// joined with a newline.
func renderRow(row []textLine, cuts []float64, tol float64) []string {
	cells := make([][]string, len(cuts))
	for _, line := range row {
		for _, r := range line.runs {
			c := columnIndex(cuts, r.x, tol)
			cells[c] = append(cells[c], r.text)
		}
	}

	out := make([]string, len(cuts))
	for c, parts := range cells {
		out[c] = strings.Join(parts, "\n")
	}
	return out
}

func columnIndex(cuts []float64, x, tol float64) int {
	idx := 0
	for i, cut := range cuts {
		if x+tol >= cut {
			idx = i
		}
	}
	return idx
}

func absf(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
