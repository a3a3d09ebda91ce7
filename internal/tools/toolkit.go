// Package tools is the operation surface handed to the agent: street lookup,
// heat pump and district heating analysis, comparison, KPI analysis and the
// results inventory. Every operation returns a Result and never panics.
package tools

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"energy-tools/internal/addresses"
	"energy-tools/internal/collaborator"
	"energy-tools/internal/config"
	"energy-tools/internal/kpi"
	"energy-tools/internal/logger"
	"energy-tools/internal/models"
	"energy-tools/internal/report"
	"energy-tools/internal/results"
	"energy-tools/internal/scenarios"
	"energy-tools/internal/services"
	"energy-tools/internal/storage"

	"go.uber.org/zap"
)

// Output sub-directories below the output root.
const (
	HPDir      = "hp_analysis"
	DHDir      = "dh_analysis"
	CompareDir = "comparison"

	// KPITableName is the multi-scenario KPI table read for the comparison
	// recommendation, relative to the output root.
	KPITableName = "scenario_kpis.csv"
)

// errSimulation marks a failed collaborator step.
var errSimulation = errors.New("simulation failed")

func simErr(step string, err error) error {
	if errors.Is(err, collaborator.ErrUnavailable) {
		return err
	}
	return fmt.Errorf("%w: %s: %w", errSimulation, step, err)
}

// Deps are the collaborators of a Toolkit. Only Config is required.
type Deps struct {
	Config    *config.Config
	Simulator collaborator.Simulator
	Catalogue *scenarios.Catalogue
	Index     *addresses.Cache
	Storage   storage.Storage
	Runs      services.RunRecorder
	Logger    *logger.Logger
	Clock     func() time.Time
}

type Toolkit struct {
	cfg       *config.Config
	sim       collaborator.Simulator
	catalogue *scenarios.Catalogue
	index     *addresses.Cache
	store     storage.Storage
	runs      services.RunRecorder
	log       *logger.Logger
	now       func() time.Time
}

// New builds a Toolkit, filling unset dependencies with local defaults.
func New(d Deps) (*Toolkit, error) {
	if d.Config == nil {
		return nil, errors.New("tools: config is required")
	}
	t := &Toolkit{
		cfg:       d.Config,
		sim:       d.Simulator,
		catalogue: d.Catalogue,
		index:     d.Index,
		store:     d.Storage,
		runs:      d.Runs,
		log:       d.Logger,
		now:       d.Clock,
	}
	if t.sim == nil {
		t.sim = collaborator.Unavailable{Reason: "no collaborator configured"}
	}
	if t.catalogue == nil {
		t.catalogue = scenarios.Builtin()
	}
	if t.index == nil {
		t.index = addresses.NewCache()
	}
	if t.store == nil {
		local, err := storage.NewLocalStorage(t.cfg.OutputDir)
		if err != nil {
			return nil, err
		}
		t.store = local
	}
	if t.runs == nil {
		t.runs = services.NopRecorder{}
	}
	if t.log == nil {
		t.log = logger.Nop()
	}
	if t.now == nil {
		t.now = time.Now
	}
	return t, nil
}

// Catalogue exposes the scenario catalogue.
func (t *Toolkit) Catalogue() *scenarios.Catalogue { return t.catalogue }

func (t *Toolkit) loadIndex() (*addresses.Index, error) {
	idx, err := t.index.Get(t.cfg.BuildingsFile)
	if err != nil {
		return nil, err
	}
	if n := idx.Malformed(); n > 0 {
		t.log.Debug("features with undecodable addresses", zap.Int("count", n), zap.String("source", idx.Source()))
	}
	return idx, nil
}

// ListStreets returns every street name of the buildings file, sorted.
func (t *Toolkit) ListStreets(ctx context.Context) Result {
	start := time.Now()
	idx, err := t.loadIndex()
	if err != nil {
		return t.observe("list_streets", start, Errf(err, "reading street names"))
	}
	streets := idx.Streets()
	return t.observe("list_streets", start, List(streets), zap.Int("streets", len(streets)))
}

// BuildingIDsForStreet returns the identifiers of the buildings on street.
func (t *Toolkit) BuildingIDsForStreet(ctx context.Context, street string) Result {
	start := time.Now()
	street = strings.TrimSpace(street)
	if street == "" {
		return t.observe("building_ids", start, Errf(errInvalidStreet, "looking up buildings"))
	}
	idx, err := t.loadIndex()
	if err != nil {
		return t.observe("building_ids", start, Errf(err, "looking up buildings"), zap.String("street", street))
	}
	ids := idx.BuildingIDs(street)
	if len(ids) == 0 {
		return t.observe("building_ids", start, Empty(street), zap.String("street", street))
	}
	return t.observe("building_ids", start, List(ids), zap.String("street", street), zap.Int("buildings", len(ids)))
}

// AnalyzeKPIReport summarises a CSV or JSON KPI report.
func (t *Toolkit) AnalyzeKPIReport(ctx context.Context, path string) Result {
	start := time.Now()
	path = strings.TrimSpace(path)
	if path == "" {
		return t.observe("analyze_kpi", start, Err(InvalidInput, "kpi report path is required"))
	}
	abs, err := t.resolveReport(path)
	if err != nil {
		return t.observe("analyze_kpi", start, Errf(err, "analyzing KPI report"), zap.String("path", path))
	}
	rep, err := kpi.Load(abs)
	if err != nil {
		return t.observe("analyze_kpi", start, Errf(err, "analyzing KPI report"), zap.String("path", path))
	}
	text, err := report.RenderKPIAnalysis(rep)
	if err != nil {
		return t.observe("analyze_kpi", start, Err(RenderFailure, err.Error()), zap.String("path", path))
	}
	return t.observe("analyze_kpi", start, Ok(text), zap.String("path", path), zap.Int("entries", len(rep.Entries)))
}

// ListResults inventories the configured result directories.
func (t *Toolkit) ListResults(ctx context.Context) Result {
	start := time.Now()
	files, err := results.List(t.cfg.ResultDirs)
	if err != nil {
		return t.observe("list_results", start, Err(RenderFailure, "listing results: "+err.Error()))
	}
	return t.observe("list_results", start, Ok(results.Format(files)), zap.Int("files", len(files)))
}

// availability returns a failed Result when the collaborator cannot be used.
func (t *Toolkit) availability() (Result, bool) {
	if collaborator.Available(t.sim) {
		return Result{}, true
	}
	reason := "collaborator not configured"
	if u, ok := t.sim.(collaborator.Unavailable); ok && u.Reason != "" {
		reason = u.Reason
	}
	return Err(CollaboratorUnavailable, reason), false
}

// streetSlug is the street as used in output file names.
func streetSlug(street string) string {
	r := strings.NewReplacer(" ", "_", "/", "_", "\\", "_")
	return r.Replace(strings.TrimSpace(street))
}

// localPath is where key lands under the output root.
func (t *Toolkit) localPath(key string) string {
	return filepath.Join(t.cfg.OutputDir, filepath.FromSlash(key))
}

// put writes an artifact produced by this process.
func (t *Toolkit) put(ctx context.Context, key string, data []byte) (string, error) {
	full, err := t.store.Put(ctx, key, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("writing %s: %w", key, err)
	}
	return full, nil
}

// syncFile publishes a file the collaborator wrote. Files outside the output
// root are left alone.
func (t *Toolkit) syncFile(ctx context.Context, path string) error {
	if path == "" {
		return nil
	}
	rel, ok := relativeTo(t.cfg.OutputDir, path)
	if !ok {
		t.log.Debug("collaborator output outside output root", zap.String("path", path))
		return nil
	}
	if err := t.store.Sync(ctx, filepath.ToSlash(rel)); err != nil {
		return fmt.Errorf("publishing %s: %w", path, err)
	}
	return nil
}

// relativeTo returns path relative to root, or false when path escapes it.
func relativeTo(root, path string) (string, bool) {
	rel, err := filepath.Rel(root, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}
	return rel, true
}

// realPath is the absolute, symlink-free form of p. For a missing file only
// its directory is resolved.
func realPath(p string) (string, error) {
	abs, err := filepath.Abs(filepath.Clean(p))
	if err != nil {
		return "", err
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		return resolved, nil
	}
	if dir, err := filepath.EvalSymlinks(filepath.Dir(abs)); err == nil {
		return filepath.Join(dir, filepath.Base(abs)), nil
	}
	return abs, nil
}

// resolveReport confines a report path to the output root and the result
// directories.
func (t *Toolkit) resolveReport(path string) (string, error) {
	abs, err := realPath(path)
	if err != nil {
		return "", fmt.Errorf("%w: %s", errOutsideResults, path)
	}
	roots := append([]string{t.cfg.OutputDir}, t.cfg.ResultDirs...)
	for _, root := range roots {
		if root == "" {
			continue
		}
		r, err := realPath(root)
		if err != nil {
			continue
		}
		if _, ok := relativeTo(r, abs); ok {
			return abs, nil
		}
	}
	return "", fmt.Errorf("%w: %s", errOutsideResults, path)
}

// record stores the run; failures are logged only.
func (t *Toolkit) record(ctx context.Context, run *models.AnalysisRun, r Result) {
	run.Outcome = string(r.Status)
	if r.Status == StatusOK {
		run.Summary = r.Report
	} else {
		run.Summary = r.Text()
	}
	if err := t.runs.Record(ctx, run); err != nil {
		t.log.Warn("failed to record run", zap.Error(err), zap.String("street", run.Street), zap.String("kind", run.Kind))
	}
}

func (t *Toolkit) scenarioOptions() []report.ScenarioOption {
	opts := make([]report.ScenarioOption, len(t.catalogue.Scenarios))
	for i, s := range t.catalogue.Scenarios {
		opts[i] = report.ScenarioOption{Name: s.Name, Label: s.Label}
	}
	return opts
}
