package pipeline

import (
	"regexp"
	"strings"
)

// Canonical column names of the bill-of-material tables.
const (
	ColItem        = "ITEM"
	ColUnit        = "UNIT"
	ColItemCode    = "TPENG ITEM CODE"
	ColDescription = "BILL OF MATERIAL"
	ColAssembly    = "ASSEMBLY"
	ColQuantity    = "QUANTITY"

	// headerPlaceholder stands in for an empty header cell until the
	// column is dropped.
	headerPlaceholder = "Unnamed"

	// qtyMarker identifies the per-assembly quantity columns.
	qtyMarker = "QTY"
)

var billOfMaterialRe = regexp.MustCompile(`BILL OF MATERIAL.*`)

// PageTable is one accepted bill-of-material table from one PDF page: a
// wide table with the fixed identifying columns plus one QTY column per
// assembly.
type PageTable struct {
	Page       int
	Headers    []string
	Rows       [][]string
	GroupName  string
	Assemblies []string
}

// BuildPageTable validates and cleans one raw page grid. It returns nil
// when the page holds no bill-of-material table; that is a routine skip,
// not an error, since most sheet pages carry only drawings.
func BuildPageTable(pageNum int, grid [][]string) *PageTable {
	rows := dropEmptyRows(grid)
	if len(rows) == 0 {
		return nil
	}

	rawHeaders := rows[0]
	if allEmpty(rawHeaders) {
		return nil
	}

	groupName, assemblies := DeriveGroupName(rawHeaders)

	headers := CleanHeaders(rawHeaders)
	if !hasRequiredColumns(headers) {
		return nil
	}

	t := &PageTable{
		Page:       pageNum,
		Headers:    headers,
		GroupName:  groupName,
		Assemblies: assemblies,
	}
	for _, row := range dropEmptyRows(rows[1:]) {
		t.Rows = append(t.Rows, alignRow(row, len(headers)))
	}
	t.dropUnusableColumns()
	return t
}

// CleanHeaders normalizes raw header cells: embedded newlines become
// spaces, empty cells become the placeholder, any "BILL OF MATERIAL ..."
// variant is truncated to the bare name, and every "ITEM COD" variant
// (OCR and layout artifacts included) becomes the canonical item-code
// header.
func CleanHeaders(raw []string) []string {
	out := make([]string, len(raw))
	for i, h := range raw {
		h = strings.TrimSpace(strings.ReplaceAll(h, "\n", " "))
		switch {
		case h == "":
			h = headerPlaceholder
		case strings.Contains(h, ColDescription):
			h = billOfMaterialRe.ReplaceAllString(h, ColDescription)
		case strings.Contains(h, "ITEM COD"):
			h = ColItemCode
		}
		out[i] = h
	}
	return out
}

// hasRequiredColumns accepts a header set only when the three fixed columns
// are all present and at least one QTY column and one description column
// exist (substring match, since those headers carry assembly qualifiers).
func hasRequiredColumns(headers []string) bool {
	fixed := map[string]bool{ColItem: false, ColUnit: false, ColItemCode: false}
	hasQty, hasDescription := false, false
	for _, h := range headers {
		if _, ok := fixed[h]; ok {
			fixed[h] = true
		}
		if strings.Contains(h, qtyMarker) {
			hasQty = true
		}
		if strings.Contains(h, ColDescription) {
			hasDescription = true
		}
	}
	for _, present := range fixed {
		if !present {
			return false
		}
	}
	return hasQty && hasDescription
}

// dropUnusableColumns removes placeholder-named columns and columns whose
// every cell is empty.
func (t *PageTable) dropUnusableColumns() {
	keep := make([]int, 0, len(t.Headers))
	for c, h := range t.Headers {
		if h == headerPlaceholder {
			continue
		}
		empty := true
		for _, row := range t.Rows {
			if strings.TrimSpace(row[c]) != "" {
				empty = false
				break
			}
		}
		if empty && len(t.Rows) > 0 {
			continue
		}
		keep = append(keep, c)
	}
	if len(keep) == len(t.Headers) {
		return
	}

	headers := make([]string, len(keep))
	for i, c := range keep {
		headers[i] = t.Headers[c]
	}
	rows := make([][]string, len(t.Rows))
	for r, row := range t.Rows {
		next := make([]string, len(keep))
		for i, c := range keep {
			next[i] = row[c]
		}
		rows[r] = next
	}
	t.Headers = headers
	t.Rows = rows
}

// Col returns the index of the named column, or -1.
func (t *PageTable) Col(name string) int {
	for i, h := range t.Headers {
		if h == name {
			return i
		}
	}
	return -1
}

func dropEmptyRows(rows [][]string) [][]string {
	var out [][]string
	for _, row := range rows {
		if !allEmpty(row) {
			out = append(out, row)
		}
	}
	return out
}

func allEmpty(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func alignRow(row []string, width int) []string {
	if len(row) == width {
		return row
	}
	out := make([]string, width)
	copy(out, row)
	return out
}
