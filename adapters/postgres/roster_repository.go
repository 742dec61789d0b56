package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"orgrecon/domain/core"
	"orgrecon/domain/recon"
	"orgrecon/ports"

	"github.com/jmoiron/sqlx"
)

// rosterRepository implements the RosterRepository interface
type rosterRepository struct {
	db *sqlx.DB
}

// NewRosterRepository creates a new roster repository
func NewRosterRepository(db *sqlx.DB) ports.RosterRepository {
	return &rosterRepository{db: db}
}

// EnsureSchema creates the archive tables when they do not exist yet.
func EnsureSchema(ctx context.Context, db *sqlx.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS resolution_runs (
		id          TEXT PRIMARY KEY,
		source_file TEXT NOT NULL,
		row_count   INTEGER NOT NULL,
		unresolved  INTEGER NOT NULL,
		created_at  TIMESTAMPTZ NOT NULL
	);
	CREATE TABLE IF NOT EXISTS roster_entries (
		run_id   TEXT NOT NULL REFERENCES resolution_runs(id) ON DELETE CASCADE,
		position INTEGER NOT NULL,
		owner    TEXT NOT NULL,
		category TEXT NOT NULL,
		director TEXT NOT NULL,
		PRIMARY KEY (run_id, position)
	);`
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to ensure roster schema: %w", err)
	}
	return nil
}

// SaveRun persists a run record and its roster snapshot atomically.
func (r *rosterRepository) SaveRun(ctx context.Context, run ports.RunRecord, roster recon.Roster) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO resolution_runs (id, source_file, row_count, unresolved, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		run.ID.String(), run.SourceFile, run.RowCount, run.Unresolved, run.CreatedAt.Time(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	for i, e := range roster.Entries {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO roster_entries (run_id, position, owner, category, director)
			 VALUES ($1, $2, $3, $4, $5)`,
			run.ID.String(), i, e.Owner, e.Category, e.Director,
		)
		if err != nil {
			return fmt.Errorf("failed to insert roster entry %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit roster snapshot: %w", err)
	}
	return nil
}

// LatestRoster returns the roster snapshot of the most recent run, or nil
// when no run has been archived yet.
func (r *rosterRepository) LatestRoster(ctx context.Context) (*recon.Roster, error) {
	var runID string
	err := r.db.QueryRowContext(ctx,
		`SELECT id FROM resolution_runs ORDER BY created_at DESC LIMIT 1`,
	).Scan(&runID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find latest run: %w", err)
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT owner, category, director FROM roster_entries
		 WHERE run_id = $1 ORDER BY position`, runID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query roster entries: %w", err)
	}
	defer rows.Close()

	var roster recon.Roster
	for rows.Next() {
		var e recon.RosterEntry
		if err := rows.Scan(&e.Owner, &e.Category, &e.Director); err != nil {
			return nil, fmt.Errorf("failed to scan roster entry: %w", err)
		}
		roster.Entries = append(roster.Entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read roster entries: %w", err)
	}
	return &roster, nil
}

// ListRuns returns the most recent run records, newest first.
func (r *rosterRepository) ListRuns(ctx context.Context, limit int) ([]ports.RunRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, source_file, row_count, unresolved, created_at
		 FROM resolution_runs ORDER BY created_at DESC LIMIT $1`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []ports.RunRecord
	for rows.Next() {
		var (
			id        string
			rec       ports.RunRecord
			createdAt time.Time
		)
		if err := rows.Scan(&id, &rec.SourceFile, &rec.RowCount, &rec.Unresolved, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		rec.ID = core.RunID(id)
		rec.CreatedAt = core.NewTimestamp(createdAt)
		runs = append(runs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read runs: %w", err)
	}
	return runs, nil
}
