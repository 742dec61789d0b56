package recon

import (
	"errors"
	"testing"

	"orgrecon/domain/core"
	"orgrecon/domain/table"
)

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.Department = "25902"
	return cfg
}

func lnbTable(rows ...table.Row) table.Table {
	t := table.New("Loaning Department ID", "PAG - PCB Code mapping", "PCB Code", "Member Supervisor", "Member Name & ID")
	t.Rows = append(t.Rows, rows...)
	return t
}

func TestCanonicalize_RenamesAndFilters(t *testing.T) {
	in := lnbTable(
		table.Row{"Loaning Department ID": "25902", "PAG - PCB Code mapping": " a1 ", "PCB Code": "C1", "Member Supervisor": " Alice Smith ", "Member Name & ID": "Alice Smith 111"},
		table.Row{"Loaning Department ID": "30000", "PAG - PCB Code mapping": "a2", "PCB Code": "C2", "Member Supervisor": "Bob", "Member Name & ID": "Bob 222"},
	)

	out, err := Canonicalize(in, testConfig())
	if err != nil {
		t.Fatalf("Canonicalize failed: %v", err)
	}

	if !out.HasColumn("PAG") || !out.HasColumn("Code") {
		t.Fatalf("expected canonical PAG and Code columns, got %v", out.Columns)
	}
	if out.HasColumn("PCB Code") || out.HasColumn("PAG - PCB Code mapping") {
		t.Errorf("variant column names survived: %v", out.Columns)
	}
	if out.Len() != 1 {
		t.Fatalf("expected only department 25902 rows, got %d", out.Len())
	}
	if got := out.Rows[0].Get("PAG"); got != "A1" {
		t.Errorf("category should be trimmed and upper-cased, got %q", got)
	}
	if got := out.Rows[0].Get("Member Supervisor"); got != "Alice Smith" {
		t.Errorf("owner should be trimmed, got %q", got)
	}
}

func TestCanonicalize_SubstringRenameInsideLongerName(t *testing.T) {
	in := table.New("Loaning Department ID", "PAG", "PCB Code", "Local PCB Code value", "Member Supervisor")
	in.Rows = append(in.Rows, table.Row{
		"Loaning Department ID": "25902", "PAG": "A1", "PCB Code": "C1", "Local PCB Code value": "x", "Member Supervisor": "Alice",
	})

	out, err := Canonicalize(in, testConfig())
	if err != nil {
		t.Fatalf("Canonicalize failed: %v", err)
	}
	if !out.HasColumn("Local Code value") {
		t.Errorf("substring rule should rewrite inside longer names, got %v", out.Columns)
	}
}

func TestCanonicalize_MissingColumnIsHardStop(t *testing.T) {
	in := table.New("Loaning Department ID", "PAG", "Member Supervisor") // no Code
	in.Rows = append(in.Rows, table.Row{"Loaning Department ID": "25902", "PAG": "A1", "Member Supervisor": "Alice"})

	_, err := Canonicalize(in, testConfig())
	if !errors.Is(err, core.ErrMissingColumn) {
		t.Fatalf("expected ErrMissingColumn, got %v", err)
	}
}

// The default exact rules must each match at most one column of the
// canonical extract header; a rule fanning out over several columns would
// rename blindly.
func TestDefaultRenames_ExactRulesMatchAtMostOneColumn(t *testing.T) {
	header := []string{
		"Loaning Department ID", "PAG - PCB Code mapping", "PCB Code",
		"Member Supervisor", "Member Name & ID",
	}

	for _, rule := range DefaultConfig().Renames {
		if rule.Kind != MatchExact {
			continue
		}
		matches := 0
		for _, c := range header {
			if c == rule.Pattern {
				matches++
			}
		}
		if matches > 1 {
			t.Errorf("exact rule %q matches %d columns", rule.Pattern, matches)
		}
	}
}

func TestApplyRenames_RejectsAmbiguousExactRule(t *testing.T) {
	in := table.Table{Columns: []string{"X", "X"}}
	_, err := applyRenames(in, []RenameRule{{Kind: MatchExact, Pattern: "X", Replacement: "Y"}})
	if !errors.Is(err, core.ErrAmbiguousRule) {
		t.Fatalf("expected ErrAmbiguousRule, got %v", err)
	}
}
