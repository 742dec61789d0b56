package ui

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sync"

	"orgrecon/adapters/excel"
	"orgrecon/app"
	"orgrecon/domain/core"
	"orgrecon/domain/recon"
	"orgrecon/domain/table"
	apperrors "orgrecon/internal/errors"
	"orgrecon/ports"

	"github.com/gin-gonic/gin"
	"github.com/gomarkdown/markdown"
)

// Server is the thin I/O collaborator over the pipeline. It owns uploads,
// downloads and session state, and calls the stages strictly in their fixed
// order; no resolution logic lives here.
type Server struct {
	router   *gin.Engine
	pipeline *app.PipelineService
	reader   ports.SheetSource
	tables   ports.TableSource
	writer   ports.ArtifactWriter
	workDir  string

	// Last run's state, for roster re-derivation and downloads. Concurrent
	// re-submissions of an edited roster serialize here.
	mu       sync.RWMutex
	lastRun  *app.RunResult
	master   table.Table
	hasState bool
}

// NewServer creates the HTTP collaborator.
func NewServer(pipeline *app.PipelineService, ginMode string) *Server {
	gin.SetMode(ginMode)

	reader := excel.NewDataReader()
	s := &Server{
		router:   gin.Default(),
		pipeline: pipeline,
		reader:   reader,
		tables:   reader,
		writer:   excel.NewArtifactWriter(),
		workDir:  os.TempDir(),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	api := s.router.Group("/api")
	api.POST("/process", s.handleProcess)
	api.GET("/roster", s.handleGetRoster)
	api.POST("/roster", s.handlePostRoster)
	api.POST("/accrual", s.handleAccrual)
	api.GET("/report", s.handleReport)
	api.GET("/artifacts/:name", s.handleArtifact)
	s.router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}

// Run starts the server on the given port.
func (s *Server) Run(port string) error {
	return s.router.Run(":" + port)
}

type rosterEntryJSON struct {
	Owner    string `json:"owner"`
	Category string `json:"category"`
	Director string `json:"director"`
}

func rosterJSON(ro recon.Roster) []rosterEntryJSON {
	out := make([]rosterEntryJSON, len(ro.Entries))
	for i, e := range ro.Entries {
		out[i] = rosterEntryJSON{Owner: e.Owner, Category: e.Category, Director: e.Director}
	}
	return out
}

// handleProcess ingests the primary and master uploads (optionally an
// accrual extract and a prior edited roster) and runs the full pipeline.
func (s *Server) handleProcess(c *gin.Context) {
	primary, ok := s.uploadSheets(c, "lnb", true)
	if !ok {
		return
	}
	master, ok := s.uploadTable(c, "master", true)
	if !ok {
		return
	}
	accrual, ok := s.uploadSheets(c, "accrual", false)
	if !ok {
		return
	}

	in := app.RunInput{
		SourceFile: c.Request.FormValue("source"),
		Primary:    primary,
		Master:     master,
		Accrual:    accrual,
	}
	if editedTable, ok := s.uploadTableOptional(c, "roster"); ok && editedTable != nil {
		edited, err := recon.RosterFromTable(*editedTable, s.pipeline.Config().Columns)
		if err != nil {
			s.renderError(c, http.StatusBadRequest, err)
			return
		}
		in.EditedRoster = &edited
	}

	res, err := s.pipeline.Run(c.Request.Context(), in)
	if err != nil {
		s.renderError(c, http.StatusUnprocessableEntity, err)
		return
	}

	s.mu.Lock()
	s.lastRun = res
	s.master = master
	s.hasState = true
	s.mu.Unlock()

	resp := gin.H{
		"run_id":           res.RunID.String(),
		"roster":           rosterJSON(res.Roster),
		"director_choices": recon.DirectorChoices(res.Roster),
		"report":           res.Report,
	}
	if res.PropagateWarning != "" {
		resp["propagate_warning"] = res.PropagateWarning
	}
	c.JSON(http.StatusOK, resp)
}

// handleGetRoster returns the current editable roster.
func (s *Server) handleGetRoster(c *gin.Context) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.hasState {
		c.JSON(http.StatusNotFound, gin.H{"error": "no run processed yet"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"roster": rosterJSON(s.lastRun.Roster)})
}

// handlePostRoster accepts a human-edited roster and re-derives the director
// merge. Idempotent: re-posting the returned roster is a no-op.
func (s *Server) handlePostRoster(c *gin.Context) {
	var body struct {
		Entries []rosterEntryJSON `json:"entries"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		s.renderError(c, http.StatusBadRequest, apperrors.InvalidInput("malformed roster body"))
		return
	}

	edited := recon.Roster{}
	for _, e := range body.Entries {
		edited.Entries = append(edited.Entries, recon.RosterEntry{
			Owner: e.Owner, Category: e.Category, Director: e.Director,
		})
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.hasState {
		c.JSON(http.StatusConflict, gin.H{"error": "process a run before editing its roster"})
		return
	}

	roster, mapped, err := s.pipeline.Rederive(s.lastRun.Resolved, s.master, edited)
	if err != nil {
		s.renderError(c, http.StatusUnprocessableEntity, err)
		return
	}
	s.lastRun.Roster = roster
	s.lastRun.Mapped = mapped

	c.JSON(http.StatusOK, gin.H{
		"roster":           rosterJSON(roster),
		"director_choices": recon.DirectorChoices(roster),
	})
}

// handleAccrual propagates the finalized mapping onto an uploaded accrual
// extract. Valid only after a roster exists.
func (s *Server) handleAccrual(c *gin.Context) {
	sheets, ok := s.uploadSheets(c, "accrual", true)
	if !ok {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.hasState {
		c.JSON(http.StatusConflict, gin.H{"error": "process a run before propagating accruals"})
		return
	}

	propagated, err := s.pipeline.Propagate(sheets, s.lastRun.Mapped)
	if err != nil {
		s.renderError(c, http.StatusUnprocessableEntity, err)
		return
	}
	s.lastRun.Propagated = &propagated
	c.JSON(http.StatusOK, gin.H{"rows": propagated.Len()})
}

// handleReport renders the run report markdown as HTML.
func (s *Server) handleReport(c *gin.Context) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.hasState {
		c.JSON(http.StatusNotFound, gin.H{"error": "no run processed yet"})
		return
	}
	html := markdown.ToHTML([]byte(s.lastRun.Report.Markdown()), nil, nil)
	c.Data(http.StatusOK, "text/html; charset=utf-8", html)
}

// handleArtifact writes one of the derived artifacts to the work dir and
// serves it: roster.xlsx, mapping.xlsx or accrual.xlsx.
func (s *Server) handleArtifact(c *gin.Context) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.hasState {
		c.JSON(http.StatusNotFound, gin.H{"error": "no run processed yet"})
		return
	}

	cols := s.pipeline.Config().Columns
	var t table.Table
	switch c.Param("name") {
	case "roster.xlsx":
		t = s.lastRun.Roster.Table(cols)
	case "mapping.xlsx":
		t = s.lastRun.Mapped
	case "accrual.xlsx":
		if s.lastRun.Propagated == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "no accrual extract propagated yet"})
			return
		}
		t = *s.lastRun.Propagated
	default:
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown artifact"})
		return
	}

	path := filepath.Join(s.workDir, fmt.Sprintf("orgrecon_%s_%s", s.lastRun.RunID, c.Param("name")))
	if err := s.writer.WriteTable(path, t); err != nil {
		s.renderError(c, http.StatusInternalServerError, err)
		return
	}
	c.FileAttachment(path, c.Param("name"))
}

// uploadSheets saves and parses a multi-sheet upload. Returns ok=false after
// writing the error response.
func (s *Server) uploadSheets(c *gin.Context, field string, required bool) ([]table.Sheet, bool) {
	file, err := c.FormFile(field)
	if err != nil {
		if !required {
			return nil, true
		}
		s.renderError(c, http.StatusBadRequest, apperrors.InvalidInput(fmt.Sprintf("missing %q upload", field)))
		return nil, false
	}
	path := filepath.Join(s.workDir, filepath.Base(file.Filename))
	if err := c.SaveUploadedFile(file, path); err != nil {
		s.renderError(c, http.StatusInternalServerError, err)
		return nil, false
	}
	defer os.Remove(path)

	sheets, err := s.reader.ReadSheets(path)
	if err != nil {
		s.renderError(c, http.StatusBadRequest, err)
		return nil, false
	}
	return sheets, true
}

func (s *Server) uploadTable(c *gin.Context, field string, required bool) (table.Table, bool) {
	t, ok := s.uploadTableOptional(c, field)
	if !ok {
		return table.Table{}, false
	}
	if t == nil {
		if required {
			s.renderError(c, http.StatusBadRequest, apperrors.InvalidInput(fmt.Sprintf("missing %q upload", field)))
			return table.Table{}, false
		}
		return table.Table{}, true
	}
	return *t, true
}

func (s *Server) uploadTableOptional(c *gin.Context, field string) (*table.Table, bool) {
	file, err := c.FormFile(field)
	if err != nil {
		return nil, true // absent
	}
	path := filepath.Join(s.workDir, filepath.Base(file.Filename))
	if err := c.SaveUploadedFile(file, path); err != nil {
		s.renderError(c, http.StatusInternalServerError, err)
		return nil, false
	}
	defer os.Remove(path)

	t, err := s.tables.ReadTable(path)
	if err != nil {
		s.renderError(c, http.StatusBadRequest, err)
		return nil, false
	}
	return &t, true
}

func (s *Server) renderError(c *gin.Context, status int, err error) {
	resp := gin.H{
		"error": err.Error(),
		"code":  apperrors.GetCode(err),
	}
	if stage := core.FailedStage(err); stage != "" {
		resp["stage"] = string(stage)
	}
	c.JSON(status, resp)
}
