package pipeline

import (
	"os"

	"github.com/ledongthuc/pdf"
	"go.uber.org/zap"

	"lightmto/workspace"
)

// ExtractCatalog parses the bill-of-material PDF and writes the three
// catalog artifacts (material_by_assembly, material_catalog, assemblies)
// into the workspace csv directory. Pages without a valid table are skipped
// and logged; only a document yielding no rows at all is a failure.
func ExtractCatalog(ws *workspace.Workspace, pdfPath string, layout TableLayout, log *zap.Logger) Result {
	if _, err := os.Stat(pdfPath); err != nil {
		return failf(InputMissing, err, "bill-of-material PDF not found at %s", pdfPath)
	}

	f, reader, err := pdf.Open(pdfPath)
	if err != nil {
		return failf(Internal, err, "open %s", pdfPath)
	}
	defer f.Close()

	if err := ws.CleanCsvDir(); err != nil {
		return failf(Internal, err, "reset csv directory")
	}

	acc := NewAccumulator()
	pages := 0
	for pageNum := 1; pageNum <= reader.NumPage(); pageNum++ {
		grid := ExtractPageGrid(reader.Page(pageNum), layout)
		if grid == nil {
			log.Debug("no text in table band", zap.Int("page", pageNum))
			continue
		}

		table := BuildPageTable(pageNum, grid)
		if table == nil {
			log.Info("page has no bill-of-material table", zap.Int("page", pageNum))
			continue
		}

		SplitItemCodeColumn(table)
		acc.AddPage(table)
		pages++
		log.Info("accepted page table",
			zap.Int("page", pageNum),
			zap.String("group", table.GroupName),
			zap.Strings("assemblies", table.Assemblies))
	}

	if len(acc.Materials) == 0 {
		return failf(ShapeRejected, nil,
			"no bill-of-material tables found in %s", pdfPath)
	}

	if err := workspace.WriteTable(ws.MaterialByAssemblyCSV(), acc.MaterialsTable()); err != nil {
		return failf(Internal, err, "write material_by_assembly")
	}
	if err := workspace.WriteTable(ws.MaterialCatalogCSV(), acc.CatalogTable()); err != nil {
		return failf(Internal, err, "write material_catalog")
	}
	if err := workspace.WriteTable(ws.AssembliesCSV(), acc.AssembliesTable()); err != nil {
		return failf(Internal, err, "write assemblies")
	}

	return okf("extracted %d material rows from %d page tables", len(acc.Materials), pages)
}
