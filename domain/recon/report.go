package recon

import (
	"fmt"
	"strings"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat"
)

// Report summarizes one resolution run for audit: how many rows each cascade
// stage settled, what stayed open, and how big the peer groups backing the
// majority votes were.
type Report struct {
	TotalRows        int
	SentinelRows     int
	MajorityResolved int
	MasterResolved   int
	Unresolved       int

	DistinctOwners    int
	DistinctDirectors int

	PeerGroups      int
	PeerGroupMean   float64
	PeerGroupMedian float64
	// PeerGroupQuartiles holds the 25th/50th/75th percentile group sizes.
	PeerGroupQuartiles [3]float64
}

// BuildReport assembles the run report from stage outcomes. PeerSizes must
// be sorted ascending, which MajorityOutcome guarantees.
func BuildReport(total, sentinel int, majority MajorityOutcome, masterResolved, unresolved int, roster Roster) Report {
	r := Report{
		TotalRows:        total,
		SentinelRows:     sentinel,
		MajorityResolved: majority.Replaced,
		MasterResolved:   masterResolved,
		Unresolved:       unresolved,
		PeerGroups:       len(majority.PeerSizes),
	}

	owners := make(map[string]bool)
	for _, e := range roster.Entries {
		if e.Owner != "" {
			owners[e.Owner] = true
		}
	}
	r.DistinctOwners = len(owners)
	r.DistinctDirectors = len(DirectorChoices(roster))

	if len(majority.PeerSizes) > 0 {
		if mean, err := stats.Mean(majority.PeerSizes); err == nil {
			r.PeerGroupMean = mean
		}
		if median, err := stats.Median(majority.PeerSizes); err == nil {
			r.PeerGroupMedian = median
		}
		for i, q := range []float64{0.25, 0.5, 0.75} {
			r.PeerGroupQuartiles[i] = stat.Quantile(q, stat.Empirical, majority.PeerSizes, nil)
		}
	}
	return r
}

// Markdown renders the report for humans. The HTTP layer serves it rendered
// to HTML; the CLI prints it as-is.
func (r Report) Markdown() string {
	var b strings.Builder
	b.WriteString("# Resolution report\n\n")
	fmt.Fprintf(&b, "- rows processed: %d\n", r.TotalRows)
	fmt.Fprintf(&b, "- rows with placeholder owner: %d\n", r.SentinelRows)
	fmt.Fprintf(&b, "- resolved by peer majority: %d\n", r.MajorityResolved)
	fmt.Fprintf(&b, "- resolved by master lookup: %d\n", r.MasterResolved)
	fmt.Fprintf(&b, "- unresolved (left for review): %d\n", r.Unresolved)
	fmt.Fprintf(&b, "- distinct owners: %d, distinct directors: %d\n\n", r.DistinctOwners, r.DistinctDirectors)
	if r.PeerGroups > 0 {
		b.WriteString("## Peer groups\n\n")
		fmt.Fprintf(&b, "- groups with resolved peers: %d\n", r.PeerGroups)
		fmt.Fprintf(&b, "- size mean %.1f, median %.1f\n", r.PeerGroupMean, r.PeerGroupMedian)
		fmt.Fprintf(&b, "- size quartiles: %.0f / %.0f / %.0f\n",
			r.PeerGroupQuartiles[0], r.PeerGroupQuartiles[1], r.PeerGroupQuartiles[2])
	}
	return b.String()
}
