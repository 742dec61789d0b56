package app

import (
	"context"

	"orgrecon/domain/core"
	"orgrecon/domain/recon"
	"orgrecon/domain/table"
	"orgrecon/internal"
	"orgrecon/ports"

	"golang.org/x/sync/errgroup"
)

// PipelineService runs the resolution cascade in its fixed stage order:
// normalize → canonicalize → majority vote → master lookup → director merge,
// optionally followed by downstream propagation. Every stage is a pure
// function of its inputs; the service contributes ordering, stage
// attribution on errors, logging, and the optional run archive.
type PipelineService struct {
	cfg     recon.Config
	log     *internal.Logger
	archive ports.RosterRepository // nil disables archiving
}

// NewPipelineService creates a pipeline service. archive may be nil.
func NewPipelineService(cfg recon.Config, archive ports.RosterRepository) *PipelineService {
	return &PipelineService{
		cfg:     cfg,
		log:     internal.DefaultLogger,
		archive: archive,
	}
}

// Config exposes the resolution configuration the service was built with.
func (s *PipelineService) Config() recon.Config {
	return s.cfg
}

// RunInput carries everything one invocation needs. The master mapping and
// edited roster are read-only; the service never mutates them.
type RunInput struct {
	SourceFile   string
	Primary      []table.Sheet
	Master       table.Table
	Accrual      []table.Sheet // optional, enables propagation
	EditedRoster *recon.Roster // optional, highest-priority director source
}

// RunResult is the output of a full pipeline invocation.
type RunResult struct {
	RunID      core.RunID
	Clean      table.Table  // stage 1 output, exposed for display/edit
	Resolved   table.Table  // owner cascade complete (stages 2-4)
	Roster     recon.Roster // stage 5 hierarchy snapshot, unresolved first
	Mapped     table.Table  // stage 5 fully joined owner/director mapping
	Report     recon.Report // audit summary
	Propagated *table.Table // stage 6 output, nil when no accrual input
	// PropagateWarning records a non-fatal stage 6 failure (a missing
	// filter column); resolution output above is unaffected.
	PropagateWarning string
}

// Run executes the whole pipeline. The primary and accrual extracts are
// normalized concurrently; everything after runs strictly in stage order.
func (s *PipelineService) Run(ctx context.Context, in RunInput) (*RunResult, error) {
	runID := core.NewRunID()
	s.log.Info("[pipeline] run %s starting (%s)", runID, in.SourceFile)

	var clean, accrual table.Table
	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		clean, err = recon.Normalize(in.Primary)
		return core.NewStageError(core.StageNormalize, err)
	})
	if len(in.Accrual) > 0 {
		g.Go(func() error {
			var err error
			accrual, err = recon.Normalize(in.Accrual)
			return core.NewStageError(core.StageNormalize, err)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	res, err := s.resolve(clean, in.Master, in.EditedRoster)
	if err != nil {
		return nil, err
	}
	res.RunID = runID

	if len(in.Accrual) > 0 {
		propagated, err := recon.Propagate(accrual, res.Mapped, s.cfg)
		if err != nil {
			// A malformed accrual extract must not sink the resolution
			// output the reviewer is waiting on.
			res.PropagateWarning = core.NewStageError(core.StagePropagate, err).Error()
			s.log.Warn("[pipeline] run %s: %s", runID, res.PropagateWarning)
		} else {
			res.Propagated = &propagated
		}
	}

	if s.archive != nil {
		rec := ports.RunRecord{
			ID:         runID,
			SourceFile: in.SourceFile,
			RowCount:   res.Resolved.Len(),
			Unresolved: res.Report.Unresolved,
			CreatedAt:  core.Now(),
		}
		if err := s.archive.SaveRun(ctx, rec, res.Roster); err != nil {
			// Archiving is an audit convenience, not a pipeline stage.
			s.log.Warn("[pipeline] run %s: archive failed: %v", runID, err)
		}
	}

	s.log.Info("[pipeline] run %s done: %d rows, %d majority, %d master, %d unresolved",
		runID, res.Report.TotalRows, res.Report.MajorityResolved,
		res.Report.MasterResolved, res.Report.Unresolved)
	return res, nil
}

// Clean runs stage 1 alone, for upload-preview surfaces.
func (s *PipelineService) Clean(sheets []table.Sheet) (table.Table, error) {
	clean, err := recon.Normalize(sheets)
	if err != nil {
		return table.Table{}, core.NewStageError(core.StageNormalize, err)
	}
	return clean, nil
}

// resolve runs stages 2-5 on a clean table.
func (s *PipelineService) resolve(clean, masterTable table.Table, overrides *recon.Roster) (*RunResult, error) {
	canonical, err := recon.Canonicalize(clean, s.cfg)
	if err != nil {
		return nil, core.NewStageError(core.StageCanonicalize, err)
	}

	sentinel := 0
	for _, r := range canonical.Rows {
		if recon.ParseOwner(r[s.cfg.Columns.Owner]).Pending() {
			sentinel++
		}
	}

	master, err := recon.NewMasterMapping(masterTable, s.cfg.Columns)
	if err != nil {
		return nil, core.NewStageError(core.StageMasterLookup, err)
	}

	voted, outcome := recon.ResolveByMajority(canonical, s.cfg)
	resolved, byMaster, unresolved := recon.ResolveByMaster(voted, master, s.cfg.Columns)
	roster, mapped := recon.DeriveDirectors(resolved, master, overrides, s.cfg.Columns)

	return &RunResult{
		Clean:    clean,
		Resolved: resolved,
		Roster:   roster,
		Mapped:   mapped,
		Report:   recon.BuildReport(canonical.Len(), sentinel, outcome, byMaster, unresolved, roster),
	}, nil
}

// Rederive re-runs the director merge with a human-edited roster on an
// already resolved table. Safe to invoke any number of times; the result
// differs from its input only by re-sorting.
func (s *PipelineService) Rederive(resolved table.Table, masterTable table.Table, edited recon.Roster) (recon.Roster, table.Table, error) {
	master, err := recon.NewMasterMapping(masterTable, s.cfg.Columns)
	if err != nil {
		return recon.Roster{}, table.Table{}, core.NewStageError(core.StageDirectors, err)
	}
	roster, mapped := recon.DeriveDirectors(resolved, master, &edited, s.cfg.Columns)
	return roster, mapped, nil
}

// Propagate runs stage 6 alone against a finalized mapped table. The accrual
// workbook goes through the same normalizer as the primary extract.
func (s *PipelineService) Propagate(sheets []table.Sheet, mapped table.Table) (table.Table, error) {
	accrual, err := recon.Normalize(sheets)
	if err != nil {
		return table.Table{}, core.NewStageError(core.StageNormalize, err)
	}
	out, err := recon.Propagate(accrual, mapped, s.cfg)
	if err != nil {
		return table.Table{}, core.NewStageError(core.StagePropagate, err)
	}
	return out, nil
}
