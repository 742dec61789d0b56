package table

import (
	"sort"
	"strings"
)

// Filter returns a new table holding only the rows keep reports true for.
func (t Table) Filter(keep func(Row) bool) Table {
	out := Table{Columns: append([]string(nil), t.Columns...)}
	for _, r := range t.Rows {
		if keep(r) {
			out.Rows = append(out.Rows, r.Clone())
		}
	}
	return out
}

// Select returns a new table restricted to the named columns, in that order.
// Unknown columns come through blank; callers validate presence beforehand.
func (t Table) Select(columns ...string) Table {
	out := Table{Columns: append([]string(nil), columns...)}
	for _, r := range t.Rows {
		nr := make(Row, len(columns))
		for _, c := range columns {
			nr[c] = r[c]
		}
		out.Rows = append(out.Rows, nr)
	}
	return out
}

// Distinct returns a new table with duplicate rows removed, comparing only
// the named key columns. The first occurrence of each key is kept.
func (t Table) Distinct(keys ...string) Table {
	out := Table{Columns: append([]string(nil), t.Columns...)}
	seen := make(map[string]bool, len(t.Rows))
	for _, r := range t.Rows {
		k := r.key(keys)
		if seen[k] {
			continue
		}
		seen[k] = true
		out.Rows = append(out.Rows, r.Clone())
	}
	return out
}

// SortBy stably sorts a copy of the table by the named columns ascending.
func (t Table) SortBy(columns ...string) Table {
	out := t.Clone()
	sort.SliceStable(out.Rows, func(i, j int) bool {
		for _, c := range columns {
			a, b := out.Rows[i].Get(c), out.Rows[j].Get(c)
			if a != b {
				return a < b
			}
		}
		return false
	})
	return out
}

// Rename returns a new table with the column oldName renamed to newName in
// both the header and every row.
func (t Table) Rename(oldName, newName string) Table {
	out := Table{Columns: make([]string, len(t.Columns))}
	for i, c := range t.Columns {
		if c == oldName {
			out.Columns[i] = newName
		} else {
			out.Columns[i] = c
		}
	}
	for _, r := range t.Rows {
		nr := make(Row, len(r))
		for k, v := range r {
			if k == oldName {
				nr[newName] = v
			} else {
				nr[k] = v
			}
		}
		out.Rows = append(out.Rows, nr)
	}
	return out
}

// WithColumn returns a new table with an extra column appended to the header
// (unless already present) and each row's value produced by fn.
func (t Table) WithColumn(name string, fn func(Row) string) Table {
	out := Table{Columns: append([]string(nil), t.Columns...)}
	if !t.HasColumn(name) {
		out.Columns = append(out.Columns, name)
	}
	for _, r := range t.Rows {
		nr := r.Clone()
		nr[name] = fn(r)
		out.Rows = append(out.Rows, nr)
	}
	return out
}

func (r Row) key(columns []string) string {
	parts := make([]string, len(columns))
	for i, c := range columns {
		parts[i] = r.Get(c)
	}
	return strings.Join(parts, "\x1f")
}
