package recon

import (
	"strings"

	"orgrecon/domain/core"
	"orgrecon/domain/table"
)

// MasterEntry is one authoritative (category → owner, director) fact.
type MasterEntry struct {
	Category string
	Owner    string
	Director string
}

// MasterMapping is the externally supplied source of truth for the ownership
// hierarchy. Entry order is the order supplied; deduplication is keep-first.
// The mapping is immutable per invocation and never cached across runs.
type MasterMapping struct {
	Entries []MasterEntry
}

// NewMasterMapping extracts authoritative facts from a clean master table.
// Header matching is case-insensitive; values are trimmed and the category
// key upper-cased, mirroring Canonicalize.
func NewMasterMapping(t table.Table, cols Columns) (MasterMapping, error) {
	categoryCol, ok := findColumnFold(t, cols.Category)
	if !ok {
		return MasterMapping{}, core.NewMissingColumnError(cols.Category)
	}
	ownerCol, ok := findColumnFold(t, cols.Owner)
	if !ok {
		return MasterMapping{}, core.NewMissingColumnError(cols.Owner)
	}
	directorCol, ok := findColumnFold(t, cols.Director)
	if !ok {
		return MasterMapping{}, core.NewMissingColumnError(cols.Director)
	}

	var m MasterMapping
	for _, r := range t.Rows {
		m.Entries = append(m.Entries, MasterEntry{
			Category: strings.ToUpper(r.Get(categoryCol)),
			Owner:    r.Get(ownerCol),
			Director: r.Get(directorCol),
		})
	}
	return m, nil
}

// OwnerFor returns the authoritative owner for a category, deduplicated
// keep-first by category.
func (m MasterMapping) OwnerFor(category string) (string, bool) {
	category = strings.ToUpper(strings.TrimSpace(category))
	for _, e := range m.Entries {
		if e.Category == category {
			if e.Owner == "" {
				return "", false
			}
			return e.Owner, true
		}
	}
	return "", false
}

// DirectorFor returns the authoritative director for a (category, owner)
// pair, first matching entry wins.
func (m MasterMapping) DirectorFor(category, owner string) (string, bool) {
	category = strings.ToUpper(strings.TrimSpace(category))
	owner = strings.TrimSpace(owner)
	for _, e := range m.Entries {
		if e.Category == category && e.Owner == owner {
			if e.Director == "" {
				return "", false
			}
			return e.Director, true
		}
	}
	return "", false
}

// ResolveByMaster is the last-resort fallback for owners the majority vote
// could not settle. Remaining sentinel rows are joined to the mapping on the
// category key alone (coarser than the vote's key, by design). Rows the
// mapping cannot answer get a null owner, never the sentinel, so the output
// records that every source was tried. Already-resolved owners are never
// overwritten. Returns the rewritten table plus resolved/unresolved counts.
func ResolveByMaster(t table.Table, m MasterMapping, cols Columns) (table.Table, int, int) {
	out := t.Clone()
	resolved, unresolved := 0, 0
	for i, r := range out.Rows {
		if !ParseOwner(r[cols.Owner]).Pending() {
			continue
		}
		if owner, ok := m.OwnerFor(r.Get(cols.Category)); ok {
			out.Rows[i][cols.Owner] = ResolvedOwner(owner).Cell()
			resolved++
		} else {
			out.Rows[i][cols.Owner] = NoOwner().Cell()
			unresolved++
		}
	}
	return out, resolved, unresolved
}

func findColumnFold(t table.Table, name string) (string, bool) {
	for _, c := range t.Columns {
		if strings.EqualFold(c, name) {
			return c, true
		}
	}
	return "", false
}
