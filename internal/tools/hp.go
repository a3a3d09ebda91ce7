package tools

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"energy-tools/internal/addresses"
	"energy-tools/internal/aggregate"
	"energy-tools/internal/charts"
	"energy-tools/internal/collaborator"
	"energy-tools/internal/models"
	"energy-tools/internal/report"
	"energy-tools/internal/services"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const hpDashboardName = "hp_feasibility_dashboard.html"

// hpRun is a finished heat pump analysis, kept for the comparison.
type hpRun struct {
	input     report.HPInput
	summary   string
	artifacts []string
	buildings int
}

// RunHPAnalysis runs the heat pump feasibility analysis for street under a
// load scenario. An empty scenario selects the catalogue default.
func (t *Toolkit) RunHPAnalysis(ctx context.Context, street, scenario string) Result {
	start := time.Now()
	run, res := t.runHP(ctx, street, scenario)
	if res.OK() {
		res = Ok(run.summary, run.artifacts...)
	}
	t.record(ctx, &models.AnalysisRun{
		Street:        strings.TrimSpace(street),
		Kind:          services.RunKindHP,
		Scenario:      run.input.Scenario,
		BuildingCount: run.buildings,
	}, res)
	return t.observe("hp_analysis", start, res,
		zap.String("street", street),
		zap.String("scenario", run.input.Scenario),
		zap.Int("buildings", run.buildings),
	)
}

func (t *Toolkit) runHP(ctx context.Context, street, scenario string) (hpRun, Result) {
	var run hpRun
	street = strings.TrimSpace(street)
	if street == "" {
		return run, Errf(errInvalidStreet, "heat pump analysis")
	}
	sc, err := t.catalogue.Resolve(scenario)
	if err != nil {
		return run, Errf(err, "heat pump analysis")
	}
	run.input.Scenario = sc.Name

	if res, ok := t.availability(); !ok {
		return run, res
	}

	idx, err := t.loadIndex()
	if err != nil {
		return run, Errf(err, "heat pump analysis")
	}
	records := idx.BuildingsOnStreet(street)
	if len(records) == 0 {
		return run, Empty(street)
	}
	run.buildings = len(records)

	runID := uuid.New()
	generatedAt := t.now()
	outDir := t.localPath(HPDir)

	fc, err := featureCollection(records)
	if err != nil {
		return run, Errf(err, "heat pump analysis")
	}

	infra, err := t.sim.LoadPowerInfrastructure(ctx)
	if err != nil {
		return run, Errf(simErr("loading power infrastructure", err), "heat pump analysis")
	}
	analysis := collaborator.Analysis{Buildings: fc, Infra: infra}

	proximity, err := t.sim.ComputeProximity(ctx, analysis)
	if err != nil {
		return run, Errf(simErr("proximity", err), "heat pump analysis")
	}

	lines, err := t.sim.ComputeServiceLinesStreetFollowing(ctx, collaborator.ServiceLineRequest{
		Analysis:    analysis,
		StreetsFile: t.cfg.StreetsFile,
		OutputDir:   outDir,
	})
	if err != nil {
		return run, Errf(simErr("service lines", err), "heat pump analysis")
	}

	power, err := t.sim.ComputePowerFeasibility(ctx, collaborator.PowerRequest{
		Analysis:         analysis,
		Scenario:         sc.Name,
		LoadProfilesFile: t.cfg.LoadProfilesFile,
		NetworkFile:      t.cfg.NetworkJSONFile,
	})
	if err != nil {
		return run, Errf(simErr("power feasibility", err), "heat pump analysis")
	}

	rs := aggregate.Merge(records, power, proximity, aggregate.Options{AllowPositional: t.cfg.AllowPositionalKeys})
	summary := aggregate.Summarize(rs)
	if summary.PositionalKeys > 0 {
		t.log.Warn("buildings matched by position", zap.String("street", street), zap.Int("count", summary.PositionalKeys))
	}

	mapPath, err := t.sim.Visualize(ctx, collaborator.VisualizeRequest{
		Analysis:           analysis,
		OutputDir:          outDir,
		StreetsFile:        t.cfg.StreetsFile,
		ShowBuildingToLine: true,
		DrawServiceLines:   true,
		Metadata: map[string]string{
			"analysis_type": "heat_pump_feasibility",
			"street_name":   street,
			"scenario":      sc.Name,
			"run_id":        runID.String(),
			"run_time":      generatedAt.UTC().Format(time.RFC3339),
		},
	})
	if err != nil {
		return run, Errf(simErr("map", err), "heat pump analysis")
	}

	var table bytes.Buffer
	if err := aggregate.WriteProximityCSV(&table, rs, aggregate.Provenance{RunID: runID.String(), At: generatedAt}); err != nil {
		return run, Errf(err, "writing proximity table")
	}
	tablePath, err := t.put(ctx, path.Join(HPDir, aggregate.ProximityTableName), table.Bytes())
	if err != nil {
		return run, Errf(err, "heat pump analysis")
	}
	run.artifacts = append(run.artifacts, tablePath)

	histograms, skipped := charts.DistanceHistograms(rs)
	if len(skipped) > 0 {
		t.log.Info("charts skipped, no known values", zap.Strings("charts", skipped))
	}
	var embedded []report.Chart
	for _, h := range histograms {
		var png bytes.Buffer
		if err := h.WritePNG(&png); err != nil {
			return run, Errf(err, "drawing charts")
		}
		p, err := t.put(ctx, path.Join(HPDir, h.File), png.Bytes())
		if err != nil {
			return run, Errf(err, "heat pump analysis")
		}
		run.artifacts = append(run.artifacts, p)
		embedded = append(embedded, report.Chart{Title: h.Title, Path: h.File})
	}

	run.input = report.HPInput{
		Street:        street,
		Scenario:      sc.Name,
		Summary:       summary,
		Scenarios:     t.scenarioOptions(),
		MapPath:       mapPath,
		TablePath:     tablePath,
		DashboardPath: t.localPath(path.Join(HPDir, hpDashboardName)),
		Charts:        embedded,
		GeneratedAt:   generatedAt,
	}
	dashboard, text, err := report.RenderHP(run.input)
	if err != nil {
		return run, Err(RenderFailure, err.Error())
	}
	dashPath, err := t.put(ctx, path.Join(HPDir, hpDashboardName), []byte(dashboard))
	if err != nil {
		return run, Errf(err, "heat pump analysis")
	}
	run.artifacts = append(run.artifacts, dashPath)

	for _, p := range []string{mapPath, lines.Path} {
		if err := t.syncFile(ctx, p); err != nil {
			return run, Errf(err, "heat pump analysis")
		}
		if p != "" {
			run.artifacts = append(run.artifacts, p)
		}
	}

	run.summary = text
	return run, Ok(text)
}

// featureCollection re-serialises the street selection for the collaborator.
func featureCollection(records []models.BuildingRecord) ([]byte, error) {
	fc, err := addresses.FeatureCollection(records)
	if err != nil {
		return nil, fmt.Errorf("encoding street selection: %w", err)
	}
	return fc, nil
}
