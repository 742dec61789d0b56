package recon

// Columns names the canonical columns the resolution cascade is keyed on.
// Downstream joins hard-depend on these names, so a missing one is a hard
// stop, never a silent skip.
type Columns struct {
	Department string // department identifier column in the primary extract
	Category   string // business classification code (coarse grouping key)
	Group      string // sub-unit code (fine grouping key)
	Owner      string // supervisor identity
	Director   string // derived hierarchy level
	MemberName string // free-text "name and id" field the member id derives from
}

// RenameRuleKind selects how a rename rule matches a header.
type RenameRuleKind uint8

const (
	// MatchExact renames a header equal to Pattern. An exact rule matching
	// more than one column is a configuration error (ErrAmbiguousRule).
	MatchExact RenameRuleKind = iota
	// MatchSubstring rewrites Pattern inside every header containing it.
	MatchSubstring
)

// RenameRule is one ordered header-canonicalization step.
type RenameRule struct {
	Kind        RenameRuleKind
	Pattern     string
	Replacement string
}

// Predicate is an exact-match equality filter on one column.
type Predicate struct {
	Column string
	Equals string
}

// AccrualConfig shapes the downstream propagation dataset (stage 6).
type AccrualConfig struct {
	Predicates []Predicate // all must hold for a transaction row to survive
	EmployeeID string      // accrual column holding the employee identifier
	Project    string      // accrual column holding the project/group code
	MemberID   string      // name of the derived join column
}

// Config carries everything the cascade needs beyond its input tables.
type Config struct {
	Columns    Columns
	Department string // target department identifier
	Renames    []RenameRule
	// MinPeerGroup is the smallest number of resolved peers a
	// (category, group) needs before its majority vote is trusted.
	// 1 preserves the historical behavior of accepting a "majority" of one.
	MinPeerGroup int
	Accrual      AccrualConfig
}

// DefaultConfig returns the production column names and filters for the
// loaning-department extracts this pipeline was built around.
func DefaultConfig() Config {
	return Config{
		Columns: Columns{
			Department: "Loaning Department ID",
			Category:   "PAG",
			Group:      "Code",
			Owner:      "Member Supervisor",
			Director:   "DIRECTOR",
			MemberName: "Member Name & ID",
		},
		Department: "25902",
		Renames: []RenameRule{
			{Kind: MatchExact, Pattern: "PAG - PCB Code mapping", Replacement: "PAG"},
			{Kind: MatchExact, Pattern: "PAG as per mapping file", Replacement: "PAG"},
			{Kind: MatchSubstring, Pattern: "PCB Code", Replacement: "Code"},
		},
		MinPeerGroup: 1,
		Accrual: AccrualConfig{
			Predicates: []Predicate{
				{Column: "Trx Fin Dept", Equals: "25902"},
				{Column: "Trx OU", Equals: "1062"},
				{Column: "Exclusion", Equals: "N"},
				{Column: "Account 425%", Equals: "425000"},
				{Column: "Accruals type", Equals: "Sharing"},
			},
			EmployeeID: "Empl ID",
			Project:    "Project",
			MemberID:   "MEMBER ID",
		},
	}
}
