package pipeline

import (
	"reflect"
	"testing"
)

func sampleSummed() []SummedMaterial {
	return []SummedMaterial{
		{Filename: "D1.dwg", ItemCode: "11AAAA000000", Quantity: 4, Description: "LED FIXTURE", Unit: "EA", WbsCode: "WBS-2"},
		{Filename: "D2.dwg", ItemCode: "11AAAA000000", Quantity: 6, Description: "LED FIXTURE", Unit: "EA", WbsCode: "WBS-1"},
		{Filename: "D2.dwg", ItemCode: "22BBBB000000", Quantity: 1.5, Description: "CABLE", Unit: "M", WbsCode: "WBS-1"},
	}
}

func TestBuildMtoTable_PivotAndColumnOrder(t *testing.T) {
	table := BuildMtoTable(sampleSummed(), 10)

	wantHeaders := []string{
		"TPENG ITEM CODE", "BILL OF MATERIAL", "UNIT",
		"WBS-1", "WBS-2",
		"TOTAL", "DESIGN ALLOWANCE", "GRAND TOTAL",
	}
	if !reflect.DeepEqual(table.Headers(), wantHeaders) {
		t.Errorf("headers = %v, want %v", table.Headers(), wantHeaders)
	}

	if len(table.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(table.Rows))
	}

	fixture := table.Rows[0]
	if fixture.ItemCode != "11AAAA000000" {
		t.Fatalf("rows not sorted by item code: %v", fixture)
	}
	if !reflect.DeepEqual(fixture.ByWbs, []float64{6, 4}) {
		t.Errorf("fixture per-WBS quantities = %v, want [6 4]", fixture.ByWbs)
	}
	if fixture.Total != 10 {
		t.Errorf("fixture total = %v, want 10", fixture.Total)
	}

	// Zero fill: the cable never occurs in WBS-2.
	cable := table.Rows[1]
	if !reflect.DeepEqual(cable.ByWbs, []float64{1.5, 0}) {
		t.Errorf("cable per-WBS quantities = %v, want [1.5 0]", cable.ByWbs)
	}
}

func TestBuildMtoTable_AllowanceArithmetic(t *testing.T) {
	for _, pct := range []float64{0, 10, 33.33, 100} {
		table := BuildMtoTable(sampleSummed(), pct)
		for _, row := range table.Rows {
			wantAllowance := Round2(row.Total * pct / 100)
			if row.Allowance != wantAllowance {
				t.Errorf("pct=%v code=%s allowance = %v, want %v",
					pct, row.ItemCode, row.Allowance, wantAllowance)
			}
			if row.GrandTotal != row.Total+row.Allowance {
				t.Errorf("pct=%v code=%s grand total = %v, want %v",
					pct, row.ItemCode, row.GrandTotal, row.Total+row.Allowance)
			}
		}
	}
}

func TestBuildMtoTable_EmptyWbsColumnOrderedFirst(t *testing.T) {
	summed := []SummedMaterial{
		{Filename: "D1.dwg", ItemCode: "11AAAA000000", Quantity: 1, WbsCode: ""},
		{Filename: "D2.dwg", ItemCode: "11AAAA000000", Quantity: 2, WbsCode: "WBS-1"},
	}
	table := BuildMtoTable(summed, 0)
	if !reflect.DeepEqual(table.WbsCodes, []string{"", "WBS-1"}) {
		t.Errorf("wbs codes = %q", table.WbsCodes)
	}
	if !reflect.DeepEqual(table.Rows[0].ByWbs, []float64{1, 2}) {
		t.Errorf("per-WBS quantities = %v", table.Rows[0].ByWbs)
	}
}

func TestRound2(t *testing.T) {
	tests := []struct {
		in     float64
		expect float64
	}{
		{1.005, 1.0}, // binary 1.005 sits just below the half, rounds down
		{2.675, 2.67},
		{3.333, 3.33},
		{1.25, 1.25},
		{10, 10},
	}
	for _, tt := range tests {
		if got := Round2(tt.in); got != tt.expect {
			t.Errorf("Round2(%v) = %v, want %v", tt.in, got, tt.expect)
		}
	}
}
