// Package workspace resolves the on-disk layout of an MTO working directory
// and provides tabular artifact I/O shared by every pipeline stage.
package workspace

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Workspace holds the resolved paths of one MTO working directory.
// All pipeline artifacts live under these fixed locations.
type Workspace struct {
	BaseDir   string
	PdfDir    string
	DwgDir    string
	CadDir    string
	CsvDir    string
	ConfigDir string
	OutputDir string
}

// New resolves a workspace rooted at baseDir. No directories are created;
// call EnsureDirs before writing.
func New(baseDir string) *Workspace {
	return &Workspace{
		BaseDir:   baseDir,
		PdfDir:    filepath.Join(baseDir, "pdf"),
		DwgDir:    filepath.Join(baseDir, "dwg"),
		CadDir:    filepath.Join(baseDir, "cad"),
		CsvDir:    filepath.Join(baseDir, "csv"),
		ConfigDir: filepath.Join(baseDir, "config"),
		OutputDir: filepath.Join(baseDir, "output"),
	}
}

// EnsureDirs creates the writable directories (csv, config, output) if missing.
func (w *Workspace) EnsureDirs() error {
	for _, dir := range []string{w.CsvDir, w.ConfigDir, w.OutputDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	return nil
}

// CleanCsvDir removes the csv directory and recreates it empty. Used before a
// fresh catalog extraction so stale artifacts never mix with new ones.
func (w *Workspace) CleanCsvDir() error {
	if err := os.RemoveAll(w.CsvDir); err != nil {
		return fmt.Errorf("remove %s: %w", w.CsvDir, err)
	}
	if err := os.MkdirAll(w.CsvDir, 0o755); err != nil {
		return fmt.Errorf("recreate %s: %w", w.CsvDir, err)
	}
	return nil
}

// Artifact paths.

func (w *Workspace) MaterialByAssemblyCSV() string {
	return filepath.Join(w.CsvDir, "material_by_assembly.csv")
}

func (w *Workspace) MaterialCatalogCSV() string {
	return filepath.Join(w.CsvDir, "material_catalog.csv")
}

func (w *Workspace) AssembliesCSV() string {
	return filepath.Join(w.CsvDir, "assemblies.csv")
}

func (w *Workspace) BlocksOutputCSV() string {
	return filepath.Join(w.CsvDir, "blocks_output.csv")
}

func (w *Workspace) AssembliesByFileCSV() string {
	return filepath.Join(w.CsvDir, "assemblies_by_file.csv")
}

func (w *Workspace) SummedMaterialsCSV() string {
	return filepath.Join(w.CsvDir, "summed_materials.csv")
}

// WbsMappingCSV lives under config, not csv: the csv directory is wiped on
// every fresh extraction and the mapping is user-maintained state.
func (w *Workspace) WbsMappingCSV() string {
	return filepath.Join(w.ConfigDir, "wbs_mapping.csv")
}

func (w *Workspace) AllowanceConfig() string {
	return filepath.Join(w.ConfigDir, "design_allowance.json")
}

func (w *Workspace) MtoWorkbook() string {
	return filepath.Join(w.OutputDir, "MTO_Output.xlsx")
}

func (w *Workspace) MtoReport() string {
	return filepath.Join(w.OutputDir, "MTO_Output.pdf")
}

// ListDrawings returns the names (not paths) of the .dwg files in the drawing
// directory, sorted. A missing directory yields an empty list, not an error,
// so callers can surface "nothing to do" instead of a path failure.
func (w *Workspace) ListDrawings() ([]string, error) {
	entries, err := os.ReadDir(w.DwgDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read drawing dir %s: %w", w.DwgDir, err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(e.Name()), ".dwg") {
			names = append(names, e.Name())
		}
	}
	return names, nil
}
