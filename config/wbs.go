// Package config holds the two user-maintained inputs of the pipeline: the
// drawing→WBS mapping and the design growth allowance percentage.
package config

import (
	"fmt"
	"os"

	"lightmto/workspace"
)

// WbsEntry assigns one drawing file to a work-breakdown-structure bucket.
// Code and Description stay empty until the user fills them in.
type WbsEntry struct {
	Filename    string
	Code        string
	Description string
}

// WbsStore is the persisted drawing→WBS mapping. Drawings are only ever
// appended: a drawing that disappears from the directory keeps its row, so
// user-entered codes survive directory reshuffles.
type WbsStore struct {
	path    string
	Entries []WbsEntry
}

var wbsHeaders = []string{"filename", "wbs_code", "wbs_description"}

// LoadWbs reads the mapping file (creating an empty one if absent) and
// merges in any drawing from the given list that has no row yet. New rows
// get empty code and description.
func LoadWbs(path string, drawings []string) (*WbsStore, error) {
	s := &WbsStore{path: path}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := workspace.WriteTable(path, &workspace.Table{Headers: wbsHeaders}); err != nil {
			return nil, fmt.Errorf("initialize wbs mapping: %w", err)
		}
	}

	t, err := workspace.ReadTable(path)
	if err != nil {
		return nil, fmt.Errorf("load wbs mapping: %w", err)
	}
	fileCol, codeCol, descCol := t.Col("filename"), t.Col("wbs_code"), t.Col("wbs_description")
	if fileCol == -1 {
		return nil, fmt.Errorf("wbs mapping %s: missing filename column", path)
	}

	known := make(map[string]bool)
	for _, row := range t.Rows {
		e := WbsEntry{Filename: row[fileCol]}
		if codeCol != -1 {
			e.Code = row[codeCol]
		}
		if descCol != -1 {
			e.Description = row[descCol]
		}
		s.Entries = append(s.Entries, e)
		known[e.Filename] = true
	}

	for _, d := range drawings {
		if !known[d] {
			s.Entries = append(s.Entries, WbsEntry{Filename: d})
			known[d] = true
		}
	}
	return s, nil
}

// Save persists the mapping back to its CSV file.
func (s *WbsStore) Save() error {
	t := &workspace.Table{Headers: wbsHeaders}
	for _, e := range s.Entries {
		t.Rows = append(t.Rows, []string{e.Filename, e.Code, e.Description})
	}
	if err := workspace.WriteTable(s.path, t); err != nil {
		return fmt.Errorf("save wbs mapping: %w", err)
	}
	return nil
}

// Set updates the code and description of one drawing.
func (s *WbsStore) Set(filename, code, description string) error {
	for i := range s.Entries {
		if s.Entries[i].Filename == filename {
			s.Entries[i].Code = code
			s.Entries[i].Description = description
			return nil
		}
	}
	return fmt.Errorf("drawing %q not present in wbs mapping", filename)
}

// ApplyToUnassigned fills every entry with an empty code using the given
// code and description. The code must not be empty.
func (s *WbsStore) ApplyToUnassigned(code, description string) error {
	if code == "" {
		return fmt.Errorf("wbs code cannot be empty")
	}
	for i := range s.Entries {
		if s.Entries[i].Code == "" {
			s.Entries[i].Code = code
			s.Entries[i].Description = description
		}
	}
	return nil
}
