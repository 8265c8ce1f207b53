package config

import (
	"path/filepath"
	"testing"

	"lightmto/workspace"
)

func wbsPath(t *testing.T) string {
	return filepath.Join(t.TempDir(), "wbs_mapping.csv")
}

func TestLoadWbs_NewDrawingsGetEmptyRows(t *testing.T) {
	path := wbsPath(t)

	store, err := LoadWbs(path, []string{"A.dwg", "B.dwg", "C.dwg"})
	if err != nil {
		t.Fatalf("LoadWbs() error = %v", err)
	}

	if len(store.Entries) != 3 {
		t.Fatalf("expected exactly 3 entries, got %d", len(store.Entries))
	}
	for _, e := range store.Entries {
		if e.Code != "" || e.Description != "" {
			t.Errorf("new entry %q should have empty code/description, got %q/%q",
				e.Filename, e.Code, e.Description)
		}
	}
}

func TestLoadWbs_MergeKeepsExistingAndAppendsNew(t *testing.T) {
	path := wbsPath(t)

	store, err := LoadWbs(path, []string{"A.dwg"})
	if err != nil {
		t.Fatal(err)
	}
	if err := store.Set("A.dwg", "WBS-1", "North wing"); err != nil {
		t.Fatal(err)
	}
	if err := store.Save(); err != nil {
		t.Fatal(err)
	}

	// Reopen with one new drawing; A.dwg keeps its assignment even though
	// the drawing list no longer mentions it.
	store, err = LoadWbs(path, []string{"B.dwg"})
	if err != nil {
		t.Fatal(err)
	}
	if len(store.Entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(store.Entries))
	}
	if store.Entries[0].Filename != "A.dwg" || store.Entries[0].Code != "WBS-1" {
		t.Errorf("existing entry lost: %+v", store.Entries[0])
	}
	if store.Entries[1].Filename != "B.dwg" || store.Entries[1].Code != "" {
		t.Errorf("new entry wrong: %+v", store.Entries[1])
	}
}

func TestWbsStore_SetUnknownDrawing(t *testing.T) {
	store, err := LoadWbs(wbsPath(t), []string{"A.dwg"})
	if err != nil {
		t.Fatal(err)
	}
	if err := store.Set("MISSING.dwg", "WBS-1", ""); err == nil {
		t.Error("expected error for unknown drawing")
	}
}

func TestWbsStore_ApplyToUnassigned(t *testing.T) {
	store, err := LoadWbs(wbsPath(t), []string{"A.dwg", "B.dwg", "C.dwg"})
	if err != nil {
		t.Fatal(err)
	}
	if err := store.Set("B.dwg", "WBS-9", "Existing"); err != nil {
		t.Fatal(err)
	}

	if err := store.ApplyToUnassigned("WBS-1", "Bulk"); err != nil {
		t.Fatalf("ApplyToUnassigned() error = %v", err)
	}

	if store.Entries[0].Code != "WBS-1" || store.Entries[2].Code != "WBS-1" {
		t.Error("unassigned entries not filled")
	}
	if store.Entries[1].Code != "WBS-9" {
		t.Errorf("assigned entry overwritten: %+v", store.Entries[1])
	}
}

func TestWbsStore_ApplyToUnassignedRejectsEmptyCode(t *testing.T) {
	store, err := LoadWbs(wbsPath(t), []string{"A.dwg"})
	if err != nil {
		t.Fatal(err)
	}
	if err := store.ApplyToUnassigned("", "desc"); err == nil {
		t.Error("expected error for empty code")
	}
}

func TestWbsStore_SaveRoundTrip(t *testing.T) {
	path := wbsPath(t)
	store, err := LoadWbs(path, []string{"A.dwg"})
	if err != nil {
		t.Fatal(err)
	}
	if err := store.Set("A.dwg", "WBS-3", "Dock"); err != nil {
		t.Fatal(err)
	}
	if err := store.Save(); err != nil {
		t.Fatal(err)
	}

	table, err := workspace.ReadTable(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(table.Rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(table.Rows))
	}
	want := []string{"A.dwg", "WBS-3", "Dock"}
	for i, v := range want {
		if table.Rows[0][i] != v {
			t.Errorf("column %d = %q, want %q", i, table.Rows[0][i], v)
		}
	}
}
