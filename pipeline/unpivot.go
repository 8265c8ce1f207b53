package pipeline

import (
	"sort"
	"strings"

	"lightmto/workspace"
)

// quantityPlaceholder marks "this material is not part of this assembly" in
// the wide table. Distinct from an empty cell, which is a parse gap.
const quantityPlaceholder = "-"

// AssemblyMaterialRecord is one long-form row: a material's declared
// quantity within one assembly.
type AssemblyMaterialRecord struct {
	Assembly string
	ItemCode string
	Quantity string
	Unit     string
}

// CatalogEntry describes one material independent of any assembly.
type CatalogEntry struct {
	ItemCode    string
	Description string
	Unit        string
}

// Accumulator collects the unpivoted relations across every page of a
// document. It is append-only: a later page never removes or mutates rows
// contributed by an earlier one.
type Accumulator struct {
	Materials []AssemblyMaterialRecord
	Catalog   []CatalogEntry

	assemblies   []string
	seenAssembly map[string]bool
}

// NewAccumulator returns an empty accumulator.
func NewAccumulator() *Accumulator {
	return &Accumulator{seenAssembly: make(map[string]bool)}
}

// AddPage unpivots one wide page table into the accumulator: one long-form
// row per (data row, QTY column) pair, skipping placeholder quantities.
func (a *Accumulator) AddPage(t *PageTable) {
	unitCol := t.Col(ColUnit)
	codeCol := t.Col(ColItemCode)
	descCol := t.Col(ColDescription)

	for c, h := range t.Headers {
		if !strings.Contains(h, qtyMarker) {
			continue
		}
		assembly := strings.TrimSpace(strings.ReplaceAll(h, qtyMarker, ""))
		for _, row := range t.Rows {
			qty := row[c]
			if qty == quantityPlaceholder {
				continue
			}
			a.Materials = append(a.Materials, AssemblyMaterialRecord{
				Assembly: assembly,
				ItemCode: cellAt(row, codeCol),
				Quantity: qty,
				Unit:     cellAt(row, unitCol),
			})
			a.Catalog = append(a.Catalog, CatalogEntry{
				ItemCode:    cellAt(row, codeCol),
				Description: cellAt(row, descCol),
				Unit:        cellAt(row, unitCol),
			})
		}
		if !a.seenAssembly[assembly] {
			a.seenAssembly[assembly] = true
			a.assemblies = append(a.assemblies, assembly)
		}
	}
}

// Assemblies returns the distinct assembly names in first-appearance order.
func (a *Accumulator) Assemblies() []string {
	return a.assemblies
}

// SortedCatalog returns the catalog deduplicated by (item code,
// description) and sorted by item code ascending. Ties on code keep their
// relative order, so "first match by code" downstream is deterministic.
func (a *Accumulator) SortedCatalog() []CatalogEntry {
	seen := make(map[CatalogEntry]bool, len(a.Catalog))
	unique := make([]CatalogEntry, 0, len(a.Catalog))
	for _, e := range a.Catalog {
		key := CatalogEntry{ItemCode: e.ItemCode, Description: e.Description}
		if seen[key] {
			continue
		}
		seen[key] = true
		unique = append(unique, e)
	}
	sort.SliceStable(unique, func(i, j int) bool {
		return unique[i].ItemCode < unique[j].ItemCode
	})
	return unique
}

// MaterialsTable renders material_by_assembly as a tabular artifact.
func (a *Accumulator) MaterialsTable() *workspace.Table {
	t := &workspace.Table{Headers: []string{ColAssembly, ColItemCode, ColQuantity, ColUnit}}
	for _, m := range a.Materials {
		t.Rows = append(t.Rows, []string{m.Assembly, m.ItemCode, m.Quantity, m.Unit})
	}
	return t
}

// CatalogTable renders the deduplicated, sorted material catalog.
func (a *Accumulator) CatalogTable() *workspace.Table {
	t := &workspace.Table{Headers: []string{ColItemCode, ColDescription, ColUnit}}
	for _, e := range a.SortedCatalog() {
		t.Rows = append(t.Rows, []string{e.ItemCode, e.Description, e.Unit})
	}
	return t
}

// AssembliesTable renders the distinct assembly names.
func (a *Accumulator) AssembliesTable() *workspace.Table {
	t := &workspace.Table{Headers: []string{ColAssembly}}
	for _, name := range a.assemblies {
		t.Rows = append(t.Rows, []string{name})
	}
	return t
}

func cellAt(row []string, col int) string {
	if col < 0 || col >= len(row) {
		return ""
	}
	return row[col]
}
