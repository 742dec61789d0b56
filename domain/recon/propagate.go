package recon

import (
	"strings"

	"orgrecon/domain/core"
	"orgrecon/domain/table"
)

// Propagate re-applies a finalized owner/director mapping to a transaction
// extract of a different shape. The extract is expected to have passed
// through Normalize already. Transaction rows are narrowed by the configured
// equality predicates, keyed by (member id, project code), and joined to the
// mapped table; rows with no match keep a null owner and director.
//
// The member id on the mapping side derives from the free-text "name and id"
// field: its last whitespace-delimited token.
func Propagate(accrual table.Table, mapped table.Table, cfg Config) (table.Table, error) {
	cols := cfg.Columns
	acc := cfg.Accrual

	for _, p := range acc.Predicates {
		if !accrual.HasColumn(p.Column) {
			return table.Table{}, core.NewMissingColumnError(p.Column)
		}
	}
	if !accrual.HasColumn(acc.EmployeeID) {
		return table.Table{}, core.NewMissingColumnError(acc.EmployeeID)
	}
	if !accrual.HasColumn(acc.Project) {
		return table.Table{}, core.NewMissingColumnError(acc.Project)
	}

	filtered := accrual.Filter(func(r table.Row) bool {
		for _, p := range acc.Predicates {
			if r.Get(p.Column) != p.Equals {
				return false
			}
		}
		return true
	})
	filtered = filtered.WithColumn(acc.MemberID, func(r table.Row) string {
		return r.Get(acc.EmployeeID)
	})

	// Mapping side: member id from the name-and-id field, project from the
	// group code, deduplicated keep-first on the join key.
	type joinKey struct {
		memberID string
		project  string
	}
	lookup := make(map[joinKey]RosterEntry, mapped.Len())
	for _, r := range mapped.Rows {
		k := joinKey{
			memberID: MemberID(r.Get(cols.MemberName)),
			project:  r.Get(cols.Group),
		}
		if k.memberID == "" {
			continue
		}
		if _, dup := lookup[k]; dup {
			continue
		}
		lookup[k] = RosterEntry{
			Owner:    r.Get(cols.Owner),
			Category: r.Get(cols.Category),
			Director: r.Get(cols.Director),
		}
	}

	out := filtered.WithColumn(cols.Owner, func(r table.Row) string {
		return lookup[joinKey{memberID: r.Get(acc.MemberID), project: r.Get(acc.Project)}].Owner
	})
	out = out.WithColumn(cols.Director, func(r table.Row) string {
		return lookup[joinKey{memberID: r.Get(acc.MemberID), project: r.Get(acc.Project)}].Director
	})
	return out, nil
}

// MemberID derives the join identifier from a free-text "name and id" field
// by taking its last whitespace-delimited token.
func MemberID(nameAndID string) string {
	fields := strings.Fields(nameAndID)
	if len(fields) == 0 {
		return ""
	}
	return fields[len(fields)-1]
}
