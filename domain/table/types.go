package table

import "strings"

// Sheet is one worksheet of a raw workbook: a rectangular grid of cell text
// with no header assumed. Sheets keep workbook order so ties between equally
// sized sheets resolve to the first one encountered.
type Sheet struct {
	Name string
	Grid [][]string
}

// Row maps a column name to its cell text. A blank cell is stored as "".
type Row map[string]string

// Table is a rectangular dataset with a single header. Stages never mutate a
// Table in place; every transformation returns a new one.
type Table struct {
	Columns []string
	Rows    []Row
}

// IsBlank reports whether a cell is null or whitespace-only.
func IsBlank(cell string) bool {
	return strings.TrimSpace(cell) == ""
}

// New creates an empty table with the given column order.
func New(columns ...string) Table {
	return Table{Columns: append([]string(nil), columns...)}
}

// HasColumn reports whether name is one of the table's columns.
func (t Table) HasColumn(name string) bool {
	for _, c := range t.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// Len returns the number of data rows.
func (t Table) Len() int {
	return len(t.Rows)
}

// Clone returns a deep copy of the table.
func (t Table) Clone() Table {
	out := Table{
		Columns: append([]string(nil), t.Columns...),
		Rows:    make([]Row, len(t.Rows)),
	}
	for i, r := range t.Rows {
		out.Rows[i] = r.Clone()
	}
	return out
}

// Clone returns a copy of the row.
func (r Row) Clone() Row {
	out := make(Row, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Get returns the trimmed cell value for a column, "" when absent.
func (r Row) Get(column string) string {
	return strings.TrimSpace(r[column])
}
