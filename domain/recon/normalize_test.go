package recon

import (
	"errors"
	"testing"

	"orgrecon/domain/core"
	"orgrecon/domain/table"
)

func sheet(name string, grid [][]string) table.Sheet {
	return table.Sheet{Name: name, Grid: grid}
}

func TestNormalize_HeaderDetectionAndTrim(t *testing.T) {
	// Banner rows, a decorative border column, and trailing noise around a
	// 4-column table starting at row 2, column 1.
	raw := sheet("Export", [][]string{
		{"", "Quarterly Export", "", ""},
		{"", "", "", ""},
		{"", "Code", "PAG", "Member Supervisor", "Loaning Department ID"},
		{"", "C1", "A1", "Alice Smith", "25902"},
		{"", "C2", "A1", "Bob Jones", "25902"},
		{"", "", "", "", ""},
	})

	clean, err := Normalize([]table.Sheet{raw})
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}

	wantColumns := []string{"Code", "PAG", "Member Supervisor", "Loaning Department ID"}
	if len(clean.Columns) != len(wantColumns) {
		t.Fatalf("expected %d columns, got %v", len(wantColumns), clean.Columns)
	}
	for i, c := range wantColumns {
		if clean.Columns[i] != c {
			t.Errorf("column %d: expected %q, got %q", i, c, clean.Columns[i])
		}
	}
	if clean.Len() != 2 {
		t.Errorf("expected 2 data rows (blank row dropped), got %d", clean.Len())
	}
	if got := clean.Rows[0].Get("Member Supervisor"); got != "Alice Smith" {
		t.Errorf("expected Alice Smith, got %q", got)
	}
}

func TestNormalize_SelectsLargestSheet(t *testing.T) {
	small := [][]string{{"A", "B", "C", "D"}}
	for i := 0; i < 4; i++ {
		small = append(small, []string{"s", "s", "s", "s"})
	}
	big := [][]string{{"W", "X", "Y", "Z"}}
	for i := 0; i < 49; i++ {
		big = append(big, []string{"b", "b", "b", "b"})
	}

	// Declaration order must not matter.
	for _, sheets := range [][]table.Sheet{
		{sheet("small", small), sheet("big", big)},
		{sheet("big", big), sheet("small", small)},
	} {
		clean, err := Normalize(sheets)
		if err != nil {
			t.Fatalf("Normalize failed: %v", err)
		}
		if clean.Columns[0] != "W" {
			t.Errorf("expected the 50-row sheet selected, got header %v", clean.Columns)
		}
		if clean.Len() != 49 {
			t.Errorf("expected 49 data rows, got %d", clean.Len())
		}
	}
}

func TestNormalize_TieKeepsFirstSheet(t *testing.T) {
	grid := [][]string{
		{"A", "B", "C", "D"},
		{"1", "2", "3", "4"},
	}
	grid2 := [][]string{
		{"E", "F", "G", "H"},
		{"5", "6", "7", "8"},
	}

	clean, err := Normalize([]table.Sheet{sheet("first", grid), sheet("second", grid2)})
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	if clean.Columns[0] != "A" {
		t.Errorf("tie should keep first-encountered sheet, got header %v", clean.Columns)
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	raw := sheet("x", [][]string{
		{"", "title", ""},
		{"Code", "PAG", "Member Supervisor", "Dept"},
		{"C1", "A1", "Alice", "25902"},
		{"C2", "A2", "Bob", "25902"},
	})

	once, err := Normalize([]table.Sheet{raw})
	if err != nil {
		t.Fatalf("first Normalize failed: %v", err)
	}

	// Re-feed the clean table as a single-sheet raw grid.
	regrid := [][]string{append([]string(nil), once.Columns...)}
	for _, r := range once.Rows {
		cells := make([]string, len(once.Columns))
		for i, c := range once.Columns {
			cells[i] = r[c]
		}
		regrid = append(regrid, cells)
	}

	twice, err := Normalize([]table.Sheet{sheet("x", regrid)})
	if err != nil {
		t.Fatalf("second Normalize failed: %v", err)
	}

	if len(twice.Columns) != len(once.Columns) || twice.Len() != once.Len() {
		t.Fatalf("normalization not idempotent: %v/%d vs %v/%d",
			once.Columns, once.Len(), twice.Columns, twice.Len())
	}
	for i, r := range twice.Rows {
		for _, c := range twice.Columns {
			if r[c] != once.Rows[i][c] {
				t.Errorf("row %d column %q changed on re-normalization: %q vs %q",
					i, c, once.Rows[i][c], r[c])
			}
		}
	}
}

func TestNormalize_DropsBlankColumns(t *testing.T) {
	raw := sheet("x", [][]string{
		{"Code", "Empty", "PAG", "Owner", "Dept"},
		{"C1", "", "A1", "Alice", "25902"},
		{"C2", "", "A2", "Bob", "25902"},
	})

	clean, err := Normalize([]table.Sheet{raw})
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	if clean.HasColumn("Empty") {
		t.Errorf("fully blank column should be dropped, got %v", clean.Columns)
	}
	if len(clean.Columns) != 4 {
		t.Errorf("expected 4 surviving columns, got %v", clean.Columns)
	}
}

func TestNormalize_Errors(t *testing.T) {
	tests := []struct {
		name   string
		sheets []table.Sheet
		want   error
	}{
		{
			name:   "no sheets",
			sheets: nil,
			want:   core.ErrEmptyInput,
		},
		{
			name:   "selected sheet empty",
			sheets: []table.Sheet{sheet("empty", nil)},
			want:   core.ErrEmptyInput,
		},
		{
			name: "no header row",
			sheets: []table.Sheet{sheet("sparse", [][]string{
				{"a", "b"},
				{"", "c", "d"},
			})},
			want: core.ErrNoHeaderFound,
		},
		{
			name: "duplicate header names",
			sheets: []table.Sheet{sheet("dup", [][]string{
				{"Code", "PAG", "Code", "Owner"},
				{"C1", "A1", "C9", "Alice"},
			})},
			want: core.ErrAmbiguousHeader,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Normalize(tt.sheets)
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}
