package recon

import "strings"

// Sentinel is the placeholder the upstream extract writes into the owner
// column when no supervisor has been assigned yet.
const Sentinel = "Unspecified Unspecified"

type ownerState uint8

const (
	// ownerNone: the cascade ran out of sources, or the cell was blank.
	// Distinct from pending so "tried and failed" never reads as "not yet tried".
	ownerNone ownerState = iota
	// ownerPending: the sentinel was seen and resolution has not finished.
	ownerPending
	ownerResolved
)

// Owner is the tagged form of an owner cell. The sentinel string is confined
// to ParseOwner and Cell; no stage compares raw cell text.
type Owner struct {
	name  string
	state ownerState
}

// ParseOwner classifies a raw owner cell.
func ParseOwner(cell string) Owner {
	v := strings.TrimSpace(cell)
	switch {
	case v == "":
		return Owner{state: ownerNone}
	case v == Sentinel:
		return Owner{state: ownerPending}
	default:
		return Owner{name: v, state: ownerResolved}
	}
}

// ResolvedOwner builds an owner carrying a known supervisor name.
func ResolvedOwner(name string) Owner {
	name = strings.TrimSpace(name)
	if name == "" {
		return Owner{state: ownerNone}
	}
	return Owner{name: name, state: ownerResolved}
}

// PendingOwner marks an owner awaiting resolution.
func PendingOwner() Owner {
	return Owner{state: ownerPending}
}

// NoOwner marks an owner the cascade could not resolve.
func NoOwner() Owner {
	return Owner{state: ownerNone}
}

// Resolved reports whether a supervisor name is known.
func (o Owner) Resolved() bool { return o.state == ownerResolved }

// Pending reports whether the sentinel was seen and resolution is unfinished.
func (o Owner) Pending() bool { return o.state == ownerPending }

// None reports whether the cascade exhausted its sources for this owner.
func (o Owner) None() bool { return o.state == ownerNone }

// Name returns the supervisor name, "" unless resolved.
func (o Owner) Name() string {
	if o.state != ownerResolved {
		return ""
	}
	return o.name
}

// Cell encodes the owner back to its spreadsheet form: the name when
// resolved, the sentinel when pending, blank when exhausted.
func (o Owner) Cell() string {
	switch o.state {
	case ownerResolved:
		return o.name
	case ownerPending:
		return Sentinel
	default:
		return ""
	}
}
