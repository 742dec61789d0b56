package recon

import (
	"fmt"
	"strings"

	"orgrecon/domain/core"
	"orgrecon/domain/table"
)

// headerThreshold is the number of filled cells a row must exceed to be
// taken as the header. Decorative banners and titles stay under it.
const headerThreshold = 3

// Normalize locates the data-bearing sheet of a raw workbook and strips the
// noise around its table: leading banner rows, decorative border columns,
// fully blank rows and columns. The result is a rectangular table whose
// first row became the header.
//
// The same function serves the primary extract and the downstream accrual
// extract, so both get identical noise-stripping semantics.
func Normalize(sheets []table.Sheet) (table.Table, error) {
	if len(sheets) == 0 {
		return table.Table{}, fmt.Errorf("%w: workbook has no sheets", core.ErrEmptyInput)
	}

	// The sheet with the most rows carries the data. First one wins ties.
	best := sheets[0]
	for _, s := range sheets[1:] {
		if len(s.Grid) > len(best.Grid) {
			best = s
		}
	}
	if len(best.Grid) == 0 {
		return table.Table{}, fmt.Errorf("%w: sheet %q is empty", core.ErrEmptyInput, best.Name)
	}

	// Header row: first row with more than headerThreshold filled cells.
	headerIdx := -1
	firstCol := 0
	for i, row := range best.Grid {
		filled := nonBlankIndices(row)
		if len(filled) > headerThreshold {
			headerIdx = i
			firstCol = filled[0]
			break
		}
	}
	if headerIdx < 0 {
		return table.Table{}, core.NewNoHeaderError(best.Name)
	}

	// Re-base the grid: drop rows above the header and columns left of its
	// first filled cell, then square it off to a uniform width.
	width := 0
	for _, row := range best.Grid[headerIdx:] {
		if w := len(row) - firstCol; w > width {
			width = w
		}
	}

	header := rebase(best.Grid[headerIdx], firstCol, width)
	var data [][]string
	for _, row := range best.Grid[headerIdx+1:] {
		cells := rebase(row, firstCol, width)
		if allBlank(cells) {
			continue
		}
		data = append(data, cells)
	}

	// A column with no data left is noise regardless of its header cell.
	keep := make([]bool, width)
	if len(data) == 0 {
		for i := range keep {
			keep[i] = true
		}
	} else {
		for _, cells := range data {
			for i, c := range cells {
				if !table.IsBlank(c) {
					keep[i] = true
				}
			}
		}
	}

	var columns []string
	seen := make(map[string]bool, width)
	for i := 0; i < width; i++ {
		if !keep[i] {
			continue
		}
		name := strings.TrimSpace(header[i])
		if seen[name] {
			return table.Table{}, core.NewAmbiguousHeaderError(name)
		}
		seen[name] = true
		columns = append(columns, name)
	}

	out := table.Table{Columns: columns}
	for _, cells := range data {
		r := make(table.Row, len(columns))
		col := 0
		for i := 0; i < width; i++ {
			if !keep[i] {
				continue
			}
			r[columns[col]] = strings.TrimSpace(cells[i])
			col++
		}
		out.Rows = append(out.Rows, r)
	}
	return out, nil
}

func nonBlankIndices(row []string) []int {
	var idxs []int
	for i, c := range row {
		if !table.IsBlank(c) {
			idxs = append(idxs, i)
		}
	}
	return idxs
}

func allBlank(cells []string) bool {
	for _, c := range cells {
		if !table.IsBlank(c) {
			return false
		}
	}
	return true
}

func rebase(row []string, firstCol, width int) []string {
	out := make([]string, width)
	for i := 0; i < width; i++ {
		if j := firstCol + i; j < len(row) {
			out[i] = row[j]
		}
	}
	return out
}
