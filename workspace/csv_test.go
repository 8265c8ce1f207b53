package workspace

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestWriteReadTableRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "table.csv")
	in := &Table{
		Headers: []string{"ASSEMBLY", "QUANTITY"},
		Rows: [][]string{
			{"A01", "2"},
			{"A02", "0.5"},
			{"with, comma", "has \"quotes\""},
		},
	}

	if err := WriteTable(path, in); err != nil {
		t.Fatalf("WriteTable() error = %v", err)
	}
	out, err := ReadTable(path)
	if err != nil {
		t.Fatalf("ReadTable() error = %v", err)
	}
	if !reflect.DeepEqual(out, in) {
		t.Errorf("round trip mismatch: got %v, want %v", out, in)
	}
}

func TestReadTable_PadsShortRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "short.csv")
	if err := os.WriteFile(path, []byte("a,b,c\n1\n2,3\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := ReadTable(path)
	if err != nil {
		t.Fatalf("ReadTable() error = %v", err)
	}
	for _, row := range out.Rows {
		if len(row) != 3 {
			t.Errorf("row %v not padded to header width", row)
		}
	}
}

func TestReadTable_EmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.csv")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := ReadTable(path); err == nil {
		t.Error("expected error for empty file")
	}
}

func TestWriteTable_LeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.csv")
	if err := WriteTable(path, &Table{Headers: []string{"x"}}); err != nil {
		t.Fatal(err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Name() != "out.csv" {
		t.Errorf("unexpected directory content: %v", entries)
	}
}

func TestTable_Col(t *testing.T) {
	tab := &Table{Headers: []string{"filename", "wbs_code"}}
	if tab.Col("wbs_code") != 1 {
		t.Error("Col lookup failed")
	}
	if tab.Col("absent") != -1 {
		t.Error("Col should return -1 for unknown header")
	}
}

func TestWorkspacePathsAndDirs(t *testing.T) {
	base := t.TempDir()
	ws := New(base)

	if err := ws.EnsureDirs(); err != nil {
		t.Fatalf("EnsureDirs() error = %v", err)
	}
	for _, dir := range []string{ws.CsvDir, ws.ConfigDir, ws.OutputDir} {
		if fi, err := os.Stat(dir); err != nil || !fi.IsDir() {
			t.Errorf("%s not created", dir)
		}
	}
	if !strings.HasPrefix(ws.SummedMaterialsCSV(), ws.CsvDir) {
		t.Error("summed_materials path not under csv dir")
	}
}

func TestListDrawings(t *testing.T) {
	ws := New(t.TempDir())
	if err := os.MkdirAll(ws.DwgDir, 0o755); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"b.dwg", "a.DWG", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(ws.DwgDir, name), nil, 0o644); err != nil {
			t.Fatal(err)
		}
	}

	got, err := ws.ListDrawings()
	if err != nil {
		t.Fatalf("ListDrawings() error = %v", err)
	}
	if !reflect.DeepEqual(got, []string{"a.DWG", "b.dwg"}) {
		t.Errorf("drawings = %v", got)
	}
}

func TestListDrawings_MissingDirIsEmpty(t *testing.T) {
	ws := New(t.TempDir())
	got, err := ws.ListDrawings()
	if err != nil {
		t.Fatalf("ListDrawings() error = %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected no drawings, got %v", got)
	}
}

func TestCleanCsvDir(t *testing.T) {
	ws := New(t.TempDir())
	if err := ws.EnsureDirs(); err != nil {
		t.Fatal(err)
	}
	stale := filepath.Join(ws.CsvDir, "stale.csv")
	if err := os.WriteFile(stale, []byte("old"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := ws.CleanCsvDir(); err != nil {
		t.Fatalf("CleanCsvDir() error = %v", err)
	}
	if _, err := os.Stat(stale); !os.IsNotExist(err) {
		t.Error("stale artifact survived the clean")
	}
}
