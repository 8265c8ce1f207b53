package pipeline

import (
	"reflect"
	"testing"
)

func TestCleanHeaders(t *testing.T) {
	tests := []struct {
		name   string
		input  []string
		expect []string
	}{
		{
			"bill of material truncated",
			[]string{"BILL OF MATERIAL (SEE NOTE 3)"},
			[]string{"BILL OF MATERIAL"},
		},
		{
			"item code variants canonicalized",
			[]string{"TPENG ITEM CODE", "ITEM CODE", "ITEM COD."},
			[]string{"TPENG ITEM CODE", "TPENG ITEM CODE", "TPENG ITEM CODE"},
		},
		{
			"newlines become spaces",
			[]string{"A01\nQTY", "UNIT"},
			[]string{"A01 QTY", "UNIT"},
		},
		{
			"empty header gets placeholder",
			[]string{"", "  ", "ITEM"},
			[]string{"Unnamed", "Unnamed", "ITEM"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CleanHeaders(tt.input)
			if !reflect.DeepEqual(got, tt.expect) {
				t.Errorf("CleanHeaders(%v) = %v, want %v", tt.input, got, tt.expect)
			}
		})
	}
}

func TestBuildPageTable_Accepted(t *testing.T) {
	grid := [][]string{
		{"ITEM", "UNIT", "ITEM CODE", "A01\nQTY", "A02\nQTY", "BILL OF MATERIAL (NOTE 1)"},
		{"1", "EA", "12ABCD345678", "2", "-", "LED FIXTURE"},
		{"", "", "", "", "", ""},
		{"2", "M", "12WXYZ987654", "-", "3", "CONDUIT"},
	}

	table := BuildPageTable(4, grid)
	if table == nil {
		t.Fatal("expected page table, got rejection")
	}
	if table.Page != 4 {
		t.Errorf("page = %d, want 4", table.Page)
	}
	if len(table.Rows) != 2 {
		t.Fatalf("expected 2 data rows, got %d", len(table.Rows))
	}
	if table.GroupName != "A0" {
		t.Errorf("group name = %q, want %q", table.GroupName, "A0")
	}
	if got := table.Col("BILL OF MATERIAL"); got == -1 {
		t.Error("description header not truncated to BILL OF MATERIAL")
	}
	if got := table.Col("TPENG ITEM CODE"); got == -1 {
		t.Error("ITEM CODE not canonicalized to TPENG ITEM CODE")
	}
}

func TestBuildPageTable_Rejections(t *testing.T) {
	tests := []struct {
		name string
		grid [][]string
	}{
		{"empty grid", nil},
		{"only empty rows", [][]string{{"", ""}, {" ", ""}}},
		{"empty header row then data", [][]string{{"", ""}, {"1", "EA"}}},
		{
			"missing item code column",
			[][]string{
				{"ITEM", "UNIT"},
				{"1", "EA"},
			},
		},
		{
			"fixed columns but no QTY column",
			[][]string{
				{"ITEM", "UNIT", "TPENG ITEM CODE", "BILL OF MATERIAL"},
				{"1", "EA", "12ABCD345678", "LED FIXTURE"},
			},
		},
		{
			"fixed columns but no description column",
			[][]string{
				{"ITEM", "UNIT", "TPENG ITEM CODE", "A01\nQTY"},
				{"1", "EA", "12ABCD345678", "2"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if table := BuildPageTable(1, tt.grid); table != nil {
				t.Errorf("expected rejection, got table with headers %v", table.Headers)
			}
		})
	}
}

func TestBuildPageTable_DropsEmptyAndPlaceholderColumns(t *testing.T) {
	grid := [][]string{
		{"ITEM", "UNIT", "TPENG ITEM CODE", "", "A01\nQTY", "BILL OF MATERIAL", "NOTES"},
		{"1", "EA", "12ABCD345678", "x", "2", "LED FIXTURE", ""},
		{"2", "M", "12WXYZ987654", "y", "3", "CONDUIT", ""},
	}

	table := BuildPageTable(1, grid)
	if table == nil {
		t.Fatal("expected page table, got rejection")
	}
	if table.Col("Unnamed") != -1 {
		t.Error("placeholder column survived")
	}
	if table.Col("NOTES") != -1 {
		t.Error("fully empty column survived")
	}
	for _, row := range table.Rows {
		if len(row) != len(table.Headers) {
			t.Errorf("row width %d does not match headers %d", len(row), len(table.Headers))
		}
	}
}
