package recon

import (
	"sort"
	"strings"

	"orgrecon/domain/core"
	"orgrecon/domain/table"
)

// RosterEntry is one (owner, category, director) fact of the hierarchy
// snapshot. A blank owner records a row the cascade could not resolve;
// a blank director is work a human still has to do.
type RosterEntry struct {
	Owner    string
	Category string
	Director string
}

// Roster is the deduplicated hierarchy snapshot derived from a resolved
// table. Entries sort with null directors first so open items surface for
// manual review.
type Roster struct {
	Entries []RosterEntry
}

// DeriveDirectors builds the owner→director roster for a resolved table and
// joins it back onto every row. Director values merge by priority:
//
//  1. the human-edited roster from a prior run, exact (category, owner) match
//  2. the master mapping for that same key
//  3. null
//
// An override match wins even when its director is blank: a reviewer who
// cleared a value meant it. Re-running this stage on its own edited output
// changes nothing beyond re-sorting.
func DeriveDirectors(t table.Table, m MasterMapping, overrides *Roster, cols Columns) (Roster, table.Table) {
	distinct := t.Distinct(cols.Owner, cols.Category)

	var roster Roster
	for _, r := range distinct.Rows {
		owner := r.Get(cols.Owner)
		category := r.Get(cols.Category)

		director := ""
		if overrides != nil {
			if d, found := overrides.directorFor(category, owner); found {
				director = d
			} else if d, ok := m.DirectorFor(category, owner); ok {
				director = d
			}
		} else if d, ok := m.DirectorFor(category, owner); ok {
			director = d
		}

		roster.Entries = append(roster.Entries, RosterEntry{
			Owner:    owner,
			Category: category,
			Director: director,
		})
	}
	roster.sortUnresolvedFirst()

	lookup := make(map[rosterKey]string, len(roster.Entries))
	for _, e := range roster.Entries {
		lookup[rosterKey{category: e.Category, owner: e.Owner}] = e.Director
	}
	mapped := t.WithColumn(cols.Director, func(r table.Row) string {
		return lookup[rosterKey{category: r.Get(cols.Category), owner: r.Get(cols.Owner)}]
	})
	sort.SliceStable(mapped.Rows, func(i, j int) bool {
		return mapped.Rows[i].Get(cols.Director) == "" && mapped.Rows[j].Get(cols.Director) != ""
	})
	return roster, mapped
}

type rosterKey struct {
	category string
	owner    string
}

// directorFor reports the director recorded for an exact (category, owner)
// key and whether the key is present at all. Presence and blankness are
// distinct: a present-but-blank entry must not fall through to the master.
func (ro Roster) directorFor(category, owner string) (string, bool) {
	category = strings.ToUpper(strings.TrimSpace(category))
	owner = strings.TrimSpace(owner)
	for _, e := range ro.Entries {
		if strings.ToUpper(e.Category) == category && e.Owner == owner {
			return e.Director, true
		}
	}
	return "", false
}

// sortUnresolvedFirst stably moves entries with a blank director to the top.
func (ro *Roster) sortUnresolvedFirst() {
	sort.SliceStable(ro.Entries, func(i, j int) bool {
		return ro.Entries[i].Director == "" && ro.Entries[j].Director != ""
	})
}

// Table renders the roster as a flat table with stable column order.
func (ro Roster) Table(cols Columns) table.Table {
	out := table.New(cols.Owner, cols.Category, cols.Director)
	for _, e := range ro.Entries {
		out.Rows = append(out.Rows, table.Row{
			cols.Owner:    e.Owner,
			cols.Category: e.Category,
			cols.Director: e.Director,
		})
	}
	return out
}

// RosterFromTable reads a (possibly hand-edited) roster back from a flat
// table, matching headers case-insensitively. Duplicate (category, owner)
// keys keep the first occurrence.
func RosterFromTable(t table.Table, cols Columns) (Roster, error) {
	ownerCol, ok := findColumnFold(t, cols.Owner)
	if !ok {
		return Roster{}, core.NewMissingColumnError(cols.Owner)
	}
	categoryCol, ok := findColumnFold(t, cols.Category)
	if !ok {
		return Roster{}, core.NewMissingColumnError(cols.Category)
	}
	directorCol, ok := findColumnFold(t, cols.Director)
	if !ok {
		return Roster{}, core.NewMissingColumnError(cols.Director)
	}

	var ro Roster
	seen := make(map[rosterKey]bool, len(t.Rows))
	for _, r := range t.Rows {
		k := rosterKey{
			category: strings.ToUpper(r.Get(categoryCol)),
			owner:    r.Get(ownerCol),
		}
		if seen[k] {
			continue
		}
		seen[k] = true
		ro.Entries = append(ro.Entries, RosterEntry{
			Owner:    k.owner,
			Category: k.category,
			Director: r.Get(directorCol),
		})
	}
	return ro, nil
}

// DirectorChoices lists the distinct non-blank directors in a roster,
// sorted ascending, for populating review dropdowns.
func DirectorChoices(ro Roster) []string {
	seen := make(map[string]bool, len(ro.Entries))
	var out []string
	for _, e := range ro.Entries {
		if e.Director == "" || seen[e.Director] {
			continue
		}
		seen[e.Director] = true
		out = append(out, e.Director)
	}
	sort.Strings(out)
	return out
}
