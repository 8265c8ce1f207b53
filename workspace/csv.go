package workspace

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
)

// Table is one tabular artifact: a header row plus data rows, every row
// aligned to the header. Stages exchange data exclusively through these.
type Table struct {
	Headers []string
	Rows    [][]string
}

// Col returns the index of the named header, or -1.
func (t *Table) Col(name string) int {
	for i, h := range t.Headers {
		if h == name {
			return i
		}
	}
	return -1
}

// ReadTable loads a CSV artifact. Rows shorter than the header are padded
// with empty cells so positional access stays safe.
func ReadTable(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%s: empty file, expected a header row", path)
	}

	t := &Table{Headers: records[0]}
	for _, rec := range records[1:] {
		for len(rec) < len(t.Headers) {
			rec = append(rec, "")
		}
		t.Rows = append(t.Rows, rec)
	}
	return t, nil
}

// WriteTable writes a CSV artifact atomically: the table is written to a
// temporary file in the same directory and renamed into place, so a failed
// stage never leaves a partial artifact behind.
func WriteTable(path string, t *Table) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp")
	if err != nil {
		return fmt.Errorf("create temp for %s: %w", path, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	w := csv.NewWriter(tmp)
	if err := w.Write(t.Headers); err != nil {
		tmp.Close()
		return fmt.Errorf("write header of %s: %w", path, err)
	}
	if err := w.WriteAll(t.Rows); err != nil {
		tmp.Close()
		return fmt.Errorf("write rows of %s: %w", path, err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		tmp.Close()
		return fmt.Errorf("flush %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp for %s: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}
