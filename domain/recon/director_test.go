package recon

import (
	"reflect"
	"testing"

	"orgrecon/domain/table"
)

func resolvedTable() table.Table {
	t := table.New("Code", "PAG", "Member Supervisor", "Member Name & ID")
	t.Rows = append(t.Rows,
		table.Row{"Code": "C1", "PAG": "A1", "Member Supervisor": "Alice", "Member Name & ID": "Alice Smith 111"},
		table.Row{"Code": "C2", "PAG": "A1", "Member Supervisor": "Alice", "Member Name & ID": "Alice Smith 111"},
		table.Row{"Code": "C3", "PAG": "A2", "Member Supervisor": "Bob", "Member Name & ID": "Bob Jones 222"},
		table.Row{"Code": "C4", "PAG": "A9", "Member Supervisor": "", "Member Name & ID": ""},
	)
	return t
}

func TestDeriveDirectors_MasterFallbackAndNullFirstSort(t *testing.T) {
	m, _ := NewMasterMapping(masterTable(
		masterRow("A1", "Alice", "Dana"),
		masterRow("A2", "Bob", "Erin"),
	), testConfig().Columns)

	roster, mapped := DeriveDirectors(resolvedTable(), m, nil, testConfig().Columns)

	if len(roster.Entries) != 3 {
		t.Fatalf("expected 3 distinct (owner, category) entries, got %d", len(roster.Entries))
	}
	// The unresolved row has no director and must sort to the top.
	if roster.Entries[0].Owner != "" || roster.Entries[0].Director != "" {
		t.Errorf("unresolved entry must sort first, got %+v", roster.Entries[0])
	}

	byKey := map[string]string{}
	for _, e := range roster.Entries {
		byKey[e.Category+"/"+e.Owner] = e.Director
	}
	if byKey["A1/Alice"] != "Dana" || byKey["A2/Bob"] != "Erin" {
		t.Errorf("master directors not applied: %v", byKey)
	}

	if !mapped.HasColumn("DIRECTOR") {
		t.Fatalf("mapped table must carry the director column")
	}
	if mapped.Rows[0].Get("Code") != "C4" {
		t.Errorf("null-director row must sort to the top of the mapped table, got %+v", mapped.Rows[0])
	}
	for _, r := range mapped.Rows {
		if r.Get("Member Supervisor") == "Alice" && r.Get("DIRECTOR") != "Dana" {
			t.Errorf("mapped row for Alice should carry Dana, got %q", r.Get("DIRECTOR"))
		}
	}
}

func TestDeriveDirectors_OverridesBeatMaster(t *testing.T) {
	m, _ := NewMasterMapping(masterTable(masterRow("A1", "Alice", "Dana")), testConfig().Columns)
	overrides := &Roster{Entries: []RosterEntry{
		{Owner: "Alice", Category: "A1", Director: "Grace"},
	}}

	roster, _ := DeriveDirectors(resolvedTable(), m, overrides, testConfig().Columns)
	for _, e := range roster.Entries {
		if e.Owner == "Alice" && e.Category == "A1" && e.Director != "Grace" {
			t.Errorf("manual override must win over the master, got %q", e.Director)
		}
	}
}

// A reviewer who cleared a director meant it: a present-but-blank override
// must not fall through to the master value.
func TestDeriveDirectors_BlankOverrideWins(t *testing.T) {
	m, _ := NewMasterMapping(masterTable(masterRow("A1", "Alice", "Dana")), testConfig().Columns)
	overrides := &Roster{Entries: []RosterEntry{
		{Owner: "Alice", Category: "A1", Director: ""},
	}}

	roster, _ := DeriveDirectors(resolvedTable(), m, overrides, testConfig().Columns)
	for _, e := range roster.Entries {
		if e.Owner == "Alice" && e.Category == "A1" && e.Director != "" {
			t.Errorf("blank override must stay blank, got %q", e.Director)
		}
	}
}

// Feeding the derived roster back as its own overrides must change nothing
// beyond re-sorting.
func TestDeriveDirectors_Idempotent(t *testing.T) {
	m, _ := NewMasterMapping(masterTable(
		masterRow("A1", "Alice", "Dana"),
		masterRow("A2", "Bob", "Erin"),
	), testConfig().Columns)

	first, firstMapped := DeriveDirectors(resolvedTable(), m, nil, testConfig().Columns)
	second, secondMapped := DeriveDirectors(resolvedTable(), m, &first, testConfig().Columns)

	if !reflect.DeepEqual(first.Entries, second.Entries) {
		t.Errorf("director derivation not idempotent:\nfirst:  %+v\nsecond: %+v", first.Entries, second.Entries)
	}
	if !reflect.DeepEqual(firstMapped, secondMapped) {
		t.Errorf("mapped table changed on re-derivation")
	}
}

func TestRosterRoundTripThroughTable(t *testing.T) {
	ro := Roster{Entries: []RosterEntry{
		{Owner: "Alice", Category: "A1", Director: "Dana"},
		{Owner: "Bob", Category: "A2", Director: ""},
	}}

	back, err := RosterFromTable(ro.Table(testConfig().Columns), testConfig().Columns)
	if err != nil {
		t.Fatalf("RosterFromTable failed: %v", err)
	}
	if !reflect.DeepEqual(ro.Entries, back.Entries) {
		t.Errorf("roster changed through table round trip: %+v vs %+v", ro.Entries, back.Entries)
	}
}

func TestDirectorChoices(t *testing.T) {
	ro := Roster{Entries: []RosterEntry{
		{Owner: "x", Category: "A", Director: "Erin"},
		{Owner: "y", Category: "B", Director: "Dana"},
		{Owner: "z", Category: "C", Director: ""},
		{Owner: "w", Category: "D", Director: "Dana"},
	}}

	got := DirectorChoices(ro)
	want := []string{"Dana", "Erin"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}
