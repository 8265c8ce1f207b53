package pipeline

import (
	"math"
	"sort"
	"strconv"

	"lightmto/workspace"
)

// Summary column names of the final MTO table.
const (
	ColTotal      = "TOTAL"
	ColAllowance  = "DESIGN ALLOWANCE"
	ColGrandTotal = "GRAND TOTAL"
)

// MtoRow is one line of the final take-off: a material and its quantity per
// WBS bucket, with totals. Quantities align positionally with the parent
// table's WbsCodes.
type MtoRow struct {
	ItemCode    string
	Description string
	Unit        string
	ByWbs       []float64
	Total       float64
	Allowance   float64
	GrandTotal  float64
}

// MtoTable is the finished material take-off: one row per item code, one
// quantity column per WBS code present in the data.
type MtoTable struct {
	WbsCodes     []string
	AllowancePct float64
	Rows         []MtoRow
}

// BuildMtoTable pivots summed materials into the final presentation table.
// WBS columns are sorted ascending; missing (item, WBS) pairs are zero. The
// design allowance is rounded to two decimals before entering the grand
// total, so the rounding is visible in the output rather than absorbed.
func BuildMtoTable(summed []SummedMaterial, allowancePct float64) *MtoTable {
	wbsSet := make(map[string]bool)
	type cell struct{ code, wbs string }
	quantities := make(map[cell]float64)
	info := make(map[string]SummedMaterial)
	var codes []string

	for _, m := range summed {
		wbsSet[m.WbsCode] = true
		quantities[cell{m.ItemCode, m.WbsCode}] += m.Quantity
		if _, seen := info[m.ItemCode]; !seen {
			info[m.ItemCode] = m
			codes = append(codes, m.ItemCode)
		}
	}

	t := &MtoTable{AllowancePct: allowancePct}
	for wbs := range wbsSet {
		t.WbsCodes = append(t.WbsCodes, wbs)
	}
	sort.Strings(t.WbsCodes)
	sort.Strings(codes)

	for _, code := range codes {
		row := MtoRow{
			ItemCode:    code,
			Description: info[code].Description,
			Unit:        info[code].Unit,
			ByWbs:       make([]float64, len(t.WbsCodes)),
		}
		for i, wbs := range t.WbsCodes {
			q := quantities[cell{code, wbs}]
			row.ByWbs[i] = q
			row.Total += q
		}
		row.Allowance = Round2(row.Total * allowancePct / 100)
		row.GrandTotal = row.Total + row.Allowance
		t.Rows = append(t.Rows, row)
	}
	return t
}

// Headers returns the full column list in presentation order.
func (t *MtoTable) Headers() []string {
	headers := []string{ColItemCode, ColDescription, ColUnit}
	headers = append(headers, t.WbsCodes...)
	return append(headers, ColTotal, ColAllowance, ColGrandTotal)
}

// Round2 rounds half away from zero to two decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// LoadSummedMaterials reads summed_materials.csv back into records for the
// formatting stage.
func LoadSummedMaterials(ws *workspace.Workspace) ([]SummedMaterial, error) {
	t, err := workspace.ReadTable(ws.SummedMaterialsCSV())
	if err != nil {
		return nil, err
	}
	fileCol := t.Col("filename")
	codeCol := t.Col(ColItemCode)
	qtyCol := t.Col(ColQuantity)
	descCol := t.Col(ColDescription)
	unitCol := t.Col(ColUnit)
	wbsCol := t.Col("wbs_code")

	var out []SummedMaterial
	for _, row := range t.Rows {
		qty, _ := strconv.ParseFloat(cellAt(row, qtyCol), 64)
		out = append(out, SummedMaterial{
			Filename:    cellAt(row, fileCol),
			ItemCode:    cellAt(row, codeCol),
			Quantity:    qty,
			Description: cellAt(row, descCol),
			Unit:        cellAt(row, unitCol),
			WbsCode:     cellAt(row, wbsCol),
		})
	}
	return out, nil
}
