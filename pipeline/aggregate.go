package pipeline

import (
	"math"
	"os"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"lightmto/workspace"
)

// LightingLayer is the CAD layer whose blocks represent lighting
// assemblies. Blocks on any other layer are not material-relevant.
const LightingLayer = "E-LIGHTING"

// SummedMaterial is one aggregated row: the total quantity of one material
// within one drawing, enriched with catalog and WBS data.
type SummedMaterial struct {
	Filename    string
	ItemCode    string
	Quantity    float64
	Description string
	Unit        string
	WbsCode     string
}

// FilterBlocks reduces blocks_output.csv to the lighting-layer occurrences
// and writes assemblies_by_file.csv with the block column renamed to
// ASSEMBLY.
func FilterBlocks(ws *workspace.Workspace, log *zap.Logger) Result {
	t, err := workspace.ReadTable(ws.BlocksOutputCSV())
	if err != nil {
		if os.IsNotExist(err) {
			return failf(InputMissing, err,
				"%s not found; run block extraction first", ws.BlocksOutputCSV())
		}
		return failf(Internal, err, "read blocks_output")
	}

	fileCol, layerCol, blockCol := t.Col("filename"), t.Col("layer"), t.Col("block")
	if fileCol == -1 || layerCol == -1 || blockCol == -1 {
		return failf(ShapeRejected, nil,
			"blocks_output has headers %v, expected filename/layer/block", t.Headers)
	}

	out := &workspace.Table{Headers: []string{"filename", "layer", ColAssembly}}
	for _, row := range t.Rows {
		if row[layerCol] == LightingLayer {
			out.Rows = append(out.Rows, []string{row[fileCol], row[layerCol], row[blockCol]})
		}
	}
	log.Info("filtered lighting blocks",
		zap.Int("total", len(t.Rows)), zap.Int("kept", len(out.Rows)))

	if err := workspace.WriteTable(ws.AssembliesByFileCSV(), out); err != nil {
		return failf(Internal, err, "write assemblies_by_file")
	}
	return okf("filtered %d lighting assemblies to %s", len(out.Rows), ws.AssembliesByFileCSV())
}

// GroupMaterials joins the per-file assembly occurrences against the
// material reference, multiplies declared quantities by per-drawing
// instance counts, sums per (drawing, item code), and writes
// summed_materials.csv enriched with catalog descriptions and WBS codes.
func GroupMaterials(ws *workspace.Workspace, log *zap.Logger) Result {
	occ, err := workspace.ReadTable(ws.AssembliesByFileCSV())
	if err != nil {
		if os.IsNotExist(err) {
			return failf(InputMissing, err,
				"%s not found; run the block filter first", ws.AssembliesByFileCSV())
		}
		return failf(Internal, err, "read assemblies_by_file")
	}
	materials, err := readMaterials(ws)
	if err != nil {
		if os.IsNotExist(err) {
			return failf(InputMissing, err,
				"%s not found; run the PDF extract first", ws.MaterialByAssemblyCSV())
		}
		return failf(Internal, err, "read material_by_assembly")
	}
	catalog, err := readCatalog(ws)
	if err != nil && !os.IsNotExist(err) {
		return failf(Internal, err, "read material_catalog")
	}
	wbs := readWbsCodes(ws)

	fileCol, asmCol := occ.Col("filename"), occ.Col(ColAssembly)
	if fileCol == -1 || asmCol == -1 {
		return failf(ShapeRejected, nil,
			"assemblies_by_file has headers %v, expected filename/ASSEMBLY", occ.Headers)
	}
	var pairs [][2]string
	for _, row := range occ.Rows {
		pairs = append(pairs, [2]string{row[fileCol], row[asmCol]})
	}

	summed := AggregateMaterials(pairs, materials, catalog, wbs)
	log.Info("aggregated materials",
		zap.Int("occurrences", len(pairs)), zap.Int("rows", len(summed)))

	out := &workspace.Table{Headers: []string{
		"filename", ColItemCode, ColQuantity, ColDescription, ColUnit, "wbs_code",
	}}
	for _, m := range summed {
		out.Rows = append(out.Rows, []string{
			m.Filename, m.ItemCode, FormatQuantity(m.Quantity),
			m.Description, m.Unit, m.WbsCode,
		})
	}
	if err := workspace.WriteTable(ws.SummedMaterialsCSV(), out); err != nil {
		return failf(Internal, err, "write summed_materials")
	}
	return okf("summed %d material rows to %s", len(summed), ws.SummedMaterialsCSV())
}

// AggregateMaterials is the pure join/aggregation core. occurrences are
// (drawing filename, assembly) pairs, one per placed block. An occurrence
// whose assembly has no material rows contributes nothing; a material row
// without an item code produces no output row; a material row whose
// quantity does not parse contributes zero but still surfaces its
// (drawing, item code) group.
func AggregateMaterials(
	occurrences [][2]string,
	materials []AssemblyMaterialRecord,
	catalog []CatalogEntry,
	wbsCodes map[string]string,
) []SummedMaterial {
	// Per-drawing instance count of each assembly.
	type key struct{ file, assembly string }
	counts := make(map[key]int)
	for _, o := range occurrences {
		counts[key{o[0], o[1]}]++
	}

	byAssembly := make(map[string][]AssemblyMaterialRecord)
	for _, m := range materials {
		byAssembly[m.Assembly] = append(byAssembly[m.Assembly], m)
	}

	// Quantity per assembly × instance count, summed per (file, code).
	type group struct{ file, code string }
	sums := make(map[group]float64)
	for k, n := range counts {
		for _, m := range byAssembly[k.assembly] {
			if m.ItemCode == "" {
				continue // parse gap, never keyed into the output
			}
			g := group{k.file, m.ItemCode}
			qty, ok := parseQuantity(m.Quantity)
			if !ok {
				sums[g] += 0 // unparsable quantity: group exists, adds nothing
				continue
			}
			sums[g] += qty * float64(n)
		}
	}

	descByCode := make(map[string]CatalogEntry, len(catalog))
	for _, e := range catalog {
		if _, seen := descByCode[e.ItemCode]; !seen {
			descByCode[e.ItemCode] = e
		}
	}

	out := make([]SummedMaterial, 0, len(sums))
	for g, qty := range sums {
		entry := descByCode[g.code]
		out = append(out, SummedMaterial{
			Filename:    g.file,
			ItemCode:    g.code,
			Quantity:    qty,
			Description: entry.Description,
			Unit:        entry.Unit,
			WbsCode:     wbsCodes[g.file],
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Filename != out[j].Filename {
			return out[i].Filename < out[j].Filename
		}
		return out[i].ItemCode < out[j].ItemCode
	})
	return out
}

// parseQuantity interprets a declared quantity cell. Thousands separators
// are tolerated; anything else non-numeric is a parse gap, not an error.
func parseQuantity(s string) (float64, bool) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// FormatQuantity renders a quantity without a fractional component when it
// is mathematically integral, and with full precision otherwise.
func FormatQuantity(v float64) string {
	if v == math.Trunc(v) && !math.IsInf(v, 0) {
		return strconv.FormatFloat(v, 'f', 0, 64)
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func readMaterials(ws *workspace.Workspace) ([]AssemblyMaterialRecord, error) {
	t, err := workspace.ReadTable(ws.MaterialByAssemblyCSV())
	if err != nil {
		return nil, err
	}
	asmCol, codeCol, qtyCol, unitCol := t.Col(ColAssembly), t.Col(ColItemCode), t.Col(ColQuantity), t.Col(ColUnit)
	var out []AssemblyMaterialRecord
	for _, row := range t.Rows {
		out = append(out, AssemblyMaterialRecord{
			Assembly: cellAt(row, asmCol),
			ItemCode: cellAt(row, codeCol),
			Quantity: cellAt(row, qtyCol),
			Unit:     cellAt(row, unitCol),
		})
	}
	return out, nil
}

func readCatalog(ws *workspace.Workspace) ([]CatalogEntry, error) {
	t, err := workspace.ReadTable(ws.MaterialCatalogCSV())
	if err != nil {
		return nil, err
	}
	codeCol, descCol, unitCol := t.Col(ColItemCode), t.Col(ColDescription), t.Col(ColUnit)
	var out []CatalogEntry
	for _, row := range t.Rows {
		out = append(out, CatalogEntry{
			ItemCode:    cellAt(row, codeCol),
			Description: cellAt(row, descCol),
			Unit:        cellAt(row, unitCol),
		})
	}
	return out, nil
}

// readWbsCodes loads the drawing→code map. A missing or unreadable mapping
// is not an error: drawings simply aggregate under an empty WBS code.
func readWbsCodes(ws *workspace.Workspace) map[string]string {
	t, err := workspace.ReadTable(ws.WbsMappingCSV())
	if err != nil {
		return map[string]string{}
	}
	fileCol, codeCol := t.Col("filename"), t.Col("wbs_code")
	if fileCol == -1 || codeCol == -1 {
		return map[string]string{}
	}
	m := make(map[string]string, len(t.Rows))
	for _, row := range t.Rows {
		m[row[fileCol]] = row[codeCol]
	}
	return m
}
