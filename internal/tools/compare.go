package tools

import (
	"context"
	"errors"
	"path"
	"strings"
	"time"

	"energy-tools/internal/kpi"
	"energy-tools/internal/models"
	"energy-tools/internal/report"
	"energy-tools/internal/services"

	"go.uber.org/zap"
)

// CompareScenarios runs both analyses for street and renders them side by
// side. A failure of either side fails the comparison.
func (t *Toolkit) CompareScenarios(ctx context.Context, street, hpScenario string) Result {
	start := time.Now()
	res, scenario, buildings := t.compare(ctx, street, hpScenario)
	t.record(ctx, &models.AnalysisRun{
		Street:        strings.TrimSpace(street),
		Kind:          services.RunKindCompare,
		Scenario:      scenario,
		BuildingCount: buildings,
	}, res)
	return t.observe("compare", start, res,
		zap.String("street", street),
		zap.String("scenario", scenario),
		zap.Int("buildings", buildings),
	)
}

func (t *Toolkit) compare(ctx context.Context, street, hpScenario string) (Result, string, int) {
	hp, res := t.runHP(ctx, street, hpScenario)
	if !res.OK() {
		return prefixed(res, "heat pump side"), hp.input.Scenario, hp.buildings
	}
	dh, res := t.runDH(ctx, street)
	if !res.OK() {
		return prefixed(res, "district heating side"), hp.input.Scenario, hp.buildings
	}

	street = strings.TrimSpace(street)
	dashKey := path.Join(CompareDir, "comparison_dashboard_"+streetSlug(street)+".html")
	in := report.ComparisonInput{
		Street:        street,
		HPScenario:    hp.input.Scenario,
		HP:            hp.input,
		DH:            dh.input,
		DashboardPath: t.localPath(dashKey),
		GeneratedAt:   t.now(),
	}
	in.Recommendation, in.KPIScenarios = t.recommendation()

	dashboard, text, err := report.RenderComparison(in)
	if err != nil {
		return Err(RenderFailure, err.Error()), hp.input.Scenario, hp.buildings
	}
	dashPath, err := t.put(ctx, dashKey, []byte(dashboard))
	if err != nil {
		return Errf(err, "scenario comparison"), hp.input.Scenario, hp.buildings
	}

	artifacts := append(append(hp.artifacts, dh.artifacts...), dashPath)
	return Ok(text, artifacts...), hp.input.Scenario, hp.buildings
}

// recommendation reads the scenario KPI table if one has been produced.
func (t *Toolkit) recommendation() (*kpi.Recommendation, []string) {
	rep, err := kpi.Load(t.localPath(KPITableName))
	if err != nil {
		if !errors.Is(err, kpi.ErrNotFound) {
			t.log.Warn("scenario KPI table unreadable", zap.Error(err))
		}
		return nil, nil
	}
	rec, ok := kpi.Recommend(rep.Scenarios)
	if !ok {
		return nil, kpi.Names(rep.Scenarios)
	}
	return &rec, kpi.Names(rep.Scenarios)
}

// prefixed names the failing side in an error detail. Empty and ok results
// pass through.
func prefixed(r Result, side string) Result {
	if r.Status != StatusError {
		return r
	}
	if r.Detail == "" {
		r.Detail = side
	} else {
		r.Detail = side + ": " + r.Detail
	}
	return r
}
