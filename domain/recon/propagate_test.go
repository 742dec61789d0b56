package recon

import (
	"errors"
	"testing"

	"orgrecon/domain/core"
	"orgrecon/domain/table"
)

func accrualTable(rows ...table.Row) table.Table {
	t := table.New("Trx Fin Dept", "Trx OU", "Exclusion", "Account 425%", "Accruals type", "Empl ID", "Project")
	t.Rows = append(t.Rows, rows...)
	return t
}

func accrualRow(dept, ou, excl, account, kind, empl, project string) table.Row {
	return table.Row{
		"Trx Fin Dept": dept, "Trx OU": ou, "Exclusion": excl,
		"Account 425%": account, "Accruals type": kind,
		"Empl ID": empl, "Project": project,
	}
}

func mappedTable() table.Table {
	t := table.New("Code", "PAG", "Member Supervisor", "Member Name & ID", "DIRECTOR")
	t.Rows = append(t.Rows,
		table.Row{"Code": "C1", "PAG": "A1", "Member Supervisor": "Alice", "Member Name & ID": "Alice Smith 111", "DIRECTOR": "Dana"},
		table.Row{"Code": "C2", "PAG": "A2", "Member Supervisor": "Bob", "Member Name & ID": "Bob Jones 222", "DIRECTOR": "Erin"},
		// Duplicate join key with a different director: first must win.
		table.Row{"Code": "C1", "PAG": "A3", "Member Supervisor": "Zed", "Member Name & ID": "Other Alias 111", "DIRECTOR": "Late"},
	)
	return t
}

func TestPropagate_JoinsOwnerAndDirector(t *testing.T) {
	accrual := accrualTable(
		accrualRow("25902", "1062", "N", "425000", "Sharing", "111", "C1"),
		accrualRow("25902", "1062", "N", "425000", "Sharing", "999", "C9"), // no match
		accrualRow("30000", "1062", "N", "425000", "Sharing", "111", "C1"), // filtered out
	)

	out, err := Propagate(accrual, mappedTable(), testConfig())
	if err != nil {
		t.Fatalf("Propagate failed: %v", err)
	}

	if out.Len() != 2 {
		t.Fatalf("expected 2 surviving rows, got %d", out.Len())
	}
	if got := out.Rows[0].Get("Member Supervisor"); got != "Alice" {
		t.Errorf("expected Alice joined, got %q", got)
	}
	if got := out.Rows[0].Get("DIRECTOR"); got != "Dana" {
		t.Errorf("duplicate join key must keep first match, got %q", got)
	}
	if got := out.Rows[0].Get("MEMBER ID"); got != "111" {
		t.Errorf("expected member id column populated, got %q", got)
	}

	// Unmatched rows keep null owner/director.
	if got := out.Rows[1].Get("Member Supervisor"); got != "" {
		t.Errorf("unmatched row must keep null owner, got %q", got)
	}
	if got := out.Rows[1].Get("DIRECTOR"); got != "" {
		t.Errorf("unmatched row must keep null director, got %q", got)
	}
}

func TestPropagate_MissingFilterColumn(t *testing.T) {
	accrual := table.New("Trx Fin Dept", "Empl ID", "Project") // most filters absent
	_, err := Propagate(accrual, mappedTable(), testConfig())
	if !errors.Is(err, core.ErrMissingColumn) {
		t.Fatalf("expected ErrMissingColumn, got %v", err)
	}
}

func TestMemberID(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Alice Smith 111", "111"},
		{"  Bob   Jones   222  ", "222"},
		{"333", "333"},
		{"", ""},
		{"   ", ""},
	}
	for _, tt := range tests {
		if got := MemberID(tt.in); got != tt.want {
			t.Errorf("MemberID(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
