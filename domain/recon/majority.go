package recon

import (
	"sort"

	"orgrecon/domain/table"
)

// groupKey pairs the coarse and fine grouping codes a peer group is keyed on.
type groupKey struct {
	category string
	group    string
}

// MajorityOutcome summarizes one majority-vote pass for the run report.
type MajorityOutcome struct {
	Replaced  int       // sentinel rows rewritten with a peer majority
	Pending   int       // sentinel rows left for the master lookup
	PeerSizes []float64 // resolved-peer count per (category, group)
}

// ResolveByMajority rewrites sentinel owners with the owner most often seen
// among resolved peer rows sharing the same (category, group). Ties between
// equally counted owners break to the one sorting first ascending, so
// repeated runs over edited data stay deterministic. Rows that already carry
// a resolved owner are never touched; groups below cfg.MinPeerGroup resolved
// peers are not trusted and their sentinel rows stay pending.
func ResolveByMajority(t table.Table, cfg Config) (table.Table, MajorityOutcome) {
	cols := cfg.Columns
	counts := make(map[groupKey]map[string]int)
	for _, r := range t.Rows {
		owner := ParseOwner(r[cols.Owner])
		if !owner.Resolved() {
			continue
		}
		k := groupKey{category: r.Get(cols.Category), group: r.Get(cols.Group)}
		if counts[k] == nil {
			counts[k] = make(map[string]int)
		}
		counts[k][owner.Name()]++
	}

	minPeers := cfg.MinPeerGroup
	if minPeers < 1 {
		minPeers = 1
	}

	winners := make(map[groupKey]string, len(counts))
	var outcome MajorityOutcome
	for k, byOwner := range counts {
		peers := 0
		for _, n := range byOwner {
			peers += n
		}
		outcome.PeerSizes = append(outcome.PeerSizes, float64(peers))
		if peers < minPeers {
			continue
		}
		winners[k] = electOwner(byOwner)
	}
	sort.Float64s(outcome.PeerSizes)

	out := t.Clone()
	for i, r := range out.Rows {
		if !ParseOwner(r[cols.Owner]).Pending() {
			continue
		}
		k := groupKey{category: r.Get(cols.Category), group: r.Get(cols.Group)}
		if winner, ok := winners[k]; ok {
			out.Rows[i][cols.Owner] = ResolvedOwner(winner).Cell()
			outcome.Replaced++
		} else {
			outcome.Pending++
		}
	}
	return out, outcome
}

// electOwner picks the owner with the highest count, ties broken by the
// owner value sorting first ascending.
func electOwner(byOwner map[string]int) string {
	names := make([]string, 0, len(byOwner))
	for name := range byOwner {
		names = append(names, name)
	}
	sort.Strings(names)

	best := names[0]
	for _, name := range names[1:] {
		if byOwner[name] > byOwner[best] {
			best = name
		}
	}
	return best
}
