package report

import (
	"time"

	"energy-tools/internal/kpi"
)

// ComparisonInput pairs an HP and a DH analysis of the same street.
// Recommendation is nil when no KPI table with both technologies exists.
type ComparisonInput struct {
	Street         string
	HPScenario     string
	HP             HPInput
	DH             DHInput
	Recommendation *kpi.Recommendation
	KPIScenarios   []string
	DashboardPath  string
	GeneratedAt    time.Time
}

type comparisonView struct {
	ComparisonInput
	HPText     string
	DHText     string
	HPCoverage string
	DHDensity  string
}

// RenderComparison renders the side-by-side dashboard and the combined
// summary. The HP and DH summaries are embedded verbatim.
func RenderComparison(in ComparisonInput) (dashboard, summary string, err error) {
	hp := hpView{
		HPInput:   in.HP,
		Coverage:  ratio(in.HP.Summary.CloseToTransformer, in.HP.Summary.KnownTransformer),
		Readiness: hpReadiness(in.HP.Summary),
	}
	dh := dhView{DHInput: in.DH, Density: networkDensity(in.DH), Readiness: dhReadiness(in.DH)}

	v := comparisonView{
		ComparisonInput: in,
		HPCoverage:      Percent(hp.Coverage),
		DHDensity:       withUnit(dh.Density, 3, " km"),
	}
	if v.HPText, err = execText("hp_summary.txt.tmpl", hp); err != nil {
		return "", "", err
	}
	if v.DHText, err = execText("dh_summary.txt.tmpl", dh); err != nil {
		return "", "", err
	}
	if dashboard, err = execHTML("comparison_dashboard.html.tmpl", v); err != nil {
		return "", "", err
	}
	if summary, err = execText("comparison_summary.txt.tmpl", v); err != nil {
		return "", "", err
	}
	return dashboard, summary, nil
}

type kpiView struct {
	*kpi.Report
	Recommendation *kpi.Recommendation
	Names          []string
}

// RenderKPIAnalysis renders the key metrics of a KPI report and, for a
// multi-scenario table, the technology recommendation.
func RenderKPIAnalysis(rep *kpi.Report) (string, error) {
	v := kpiView{Report: rep, Names: kpi.Names(rep.Scenarios)}
	if rec, ok := kpi.Recommend(rep.Scenarios); ok {
		v.Recommendation = &rec
	}
	return execText("kpi_analysis.txt.tmpl", v)
}
