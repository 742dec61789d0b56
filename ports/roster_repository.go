package ports

import (
	"context"

	"orgrecon/domain/core"
	"orgrecon/domain/recon"
)

// RunRecord is the audit entry persisted for one pipeline invocation.
type RunRecord struct {
	ID         core.RunID
	SourceFile string
	RowCount   int
	Unresolved int
	CreatedAt  core.Timestamp
}

// RosterRepository archives roster snapshots per run. Persistence is
// optional: the pipeline runs unchanged without a repository wired.
type RosterRepository interface {
	SaveRun(ctx context.Context, run RunRecord, roster recon.Roster) error
	LatestRoster(ctx context.Context) (*recon.Roster, error)
	ListRuns(ctx context.Context, limit int) ([]RunRecord, error)
}
