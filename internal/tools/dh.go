package tools

import (
	"context"
	"path"
	"strings"
	"time"

	"energy-tools/internal/collaborator"
	"energy-tools/internal/models"
	"energy-tools/internal/report"
	"energy-tools/internal/services"

	"go.uber.org/zap"
)

type dhRun struct {
	input     report.DHInput
	summary   string
	artifacts []string
}

// RunDHAnalysis designs and simulates a dual-pipe district heating network
// for street.
func (t *Toolkit) RunDHAnalysis(ctx context.Context, street string) Result {
	start := time.Now()
	run, res := t.runDH(ctx, street)
	if res.OK() {
		res = Ok(run.summary, run.artifacts...)
	}
	t.record(ctx, &models.AnalysisRun{
		Street:        strings.TrimSpace(street),
		Kind:          services.RunKindDH,
		Scenario:      run.input.Scenario,
		BuildingCount: run.input.Buildings,
	}, res)
	return t.observe("dh_analysis", start, res,
		zap.String("street", street),
		zap.Int("buildings", run.input.Buildings),
		zap.Bool("stats_found", run.input.StatsFound),
	)
}

func (t *Toolkit) runDH(ctx context.Context, street string) (dhRun, Result) {
	var run dhRun
	street = strings.TrimSpace(street)
	if street == "" {
		return run, Errf(errInvalidStreet, "district heating analysis")
	}
	if res, ok := t.availability(); !ok {
		return run, res
	}

	idx, err := t.loadIndex()
	if err != nil {
		return run, Errf(err, "district heating analysis")
	}
	records := idx.BuildingsOnStreet(street)
	if len(records) == 0 {
		return run, Empty(street)
	}

	slug := streetSlug(street)
	scenario := collaborator.NetworkScenario(slug)
	outDir := t.localPath(DHDir)
	generatedAt := t.now()
	run.input.Scenario = scenario
	run.input.Buildings = len(records)

	fc, err := featureCollection(records)
	if err != nil {
		return run, Errf(err, "district heating analysis")
	}
	buildingsFile, err := t.put(ctx, path.Join(DHDir, "buildings_"+slug+".geojson"), fc)
	if err != nil {
		return run, Errf(err, "district heating analysis")
	}
	run.artifacts = append(run.artifacts, buildingsFile)

	network := t.sim.DualPipeNetwork(collaborator.NetworkRequest{
		Scenario:         scenario,
		ResultsDir:       outDir,
		BuildingsFile:    buildingsFile,
		StreetsFile:      t.cfg.StreetsFile,
		LoadProfilesFile: t.cfg.LoadProfilesFile,
	})
	if err := network.LoadData(ctx); err != nil {
		return run, Errf(simErr("loading network data", err), "district heating analysis")
	}
	if err := network.CreateCompleteDualPipeNetwork(ctx); err != nil {
		return run, Errf(simErr("dual-pipe network", err), "district heating analysis")
	}
	// The network files are already written when only the map fails.
	mapPath, err := network.CreateDualPipeInteractiveMap(ctx)
	if err != nil {
		t.log.Warn("dual-pipe map not created", zap.String("street", street), zap.Error(err))
		mapPath = ""
	}

	stats, statsFound, err := collaborator.ReadNetworkStats(outDir, scenario)
	if err != nil {
		return run, Errf(simErr("network statistics", err), "district heating analysis")
	}
	hydraulics, hydFound, err := collaborator.ReadSimulationResults(outDir, scenario)
	if err != nil {
		return run, Errf(simErr("simulation results", err), "district heating analysis")
	}

	dashKey := path.Join(DHDir, "dh_dashboard_"+slug+".html")
	run.input = report.DHInput{
		Street:          street,
		Scenario:        scenario,
		Buildings:       len(records),
		Stats:           stats,
		Hydraulics:      hydraulics,
		StatsFound:      statsFound,
		HydraulicsFound: hydFound,
		MapPath:         mapPath,
		DashboardPath:   t.localPath(dashKey),
		GeneratedAt:     generatedAt,
	}
	if statsFound {
		run.input.StatsPath = collaborator.NetworkStatsPath(outDir, scenario)
	}
	if hydFound {
		run.input.SimulationPath = collaborator.SimulationResultsPath(outDir, scenario)
	}

	dashboard, text, err := report.RenderDH(run.input)
	if err != nil {
		return run, Err(RenderFailure, err.Error())
	}
	dashPath, err := t.put(ctx, dashKey, []byte(dashboard))
	if err != nil {
		return run, Errf(err, "district heating analysis")
	}
	run.artifacts = append(run.artifacts, dashPath)

	for _, p := range []string{mapPath, run.input.StatsPath, run.input.SimulationPath} {
		if err := t.syncFile(ctx, p); err != nil {
			return run, Errf(err, "district heating analysis")
		}
		if p != "" {
			run.artifacts = append(run.artifacts, p)
		}
	}

	run.summary = text
	return run, Ok(text)
}
