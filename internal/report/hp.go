package report

import (
	"time"

	"energy-tools/internal/aggregate"
	"energy-tools/internal/models"
)

// Thresholds for the heat pump readiness assessment.
const (
	MaxLoadingPct = 100.0
	MinVoltagePU  = 0.90
)

// HPInput is everything the heat pump dashboard and summary show.
type HPInput struct {
	Street        string
	Scenario      string
	Summary       aggregate.Summary
	Scenarios     []ScenarioOption
	MapPath       string
	TablePath     string
	DashboardPath string
	Charts        []Chart
	GeneratedAt   time.Time
}

type hpView struct {
	HPInput
	Coverage  models.Metric
	Readiness []Readiness
}

// RenderHP renders the heat pump feasibility dashboard and summary.
func RenderHP(in HPInput) (dashboard, summary string, err error) {
	v := hpView{
		HPInput:   in,
		Coverage:  ratio(in.Summary.CloseToTransformer, in.Summary.KnownTransformer),
		Readiness: hpReadiness(in.Summary),
	}
	if dashboard, err = execHTML("hp_dashboard.html.tmpl", v); err != nil {
		return "", "", err
	}
	if summary, err = execText("hp_summary.txt.tmpl", v); err != nil {
		return "", "", err
	}
	return dashboard, summary, nil
}

func hpReadiness(s aggregate.Summary) []Readiness {
	capacity := Readiness{Label: "Electrical Capacity", Detail: "no transformer loading available"}
	if v, ok := s.MaxLoading.Get(); ok {
		if v <= MaxLoadingPct {
			capacity.Status, capacity.Detail = StatusOK, "Network can support heat pump loads"
		} else {
			capacity.Status, capacity.Detail = StatusWarning, "Transformer overloaded at peak"
		}
	}

	proximity := Readiness{Label: "Infrastructure Proximity", Detail: "no transformer distances available"}
	if s.KnownTransformer > 0 {
		if s.CloseToTransformer == s.KnownTransformer {
			proximity.Status, proximity.Detail = StatusOK, "Buildings within connection range"
		} else {
			proximity.Status, proximity.Detail = StatusWarning, "Some buildings are far from a transformer"
		}
	}

	quality := Readiness{Label: "Power Quality", Detail: "no voltage results available"}
	if v, ok := s.MinVoltage.Get(); ok {
		if v >= MinVoltagePU {
			quality.Status, quality.Detail = StatusOK, "Voltage levels within acceptable range"
		} else {
			quality.Status, quality.Detail = StatusWarning, "Voltage drops below the acceptable band"
		}
	}

	keys := Readiness{Label: "Result Matching", Status: StatusOK, Detail: "All buildings matched by identifier"}
	switch {
	case s.PositionalKeys > 0:
		keys.Status, keys.Detail = StatusWarning, "Some buildings matched by position only"
	case s.Unmatched > 0:
		keys.Status, keys.Detail = StatusWarning, "Some buildings have no simulation output"
	}

	return []Readiness{capacity, proximity, quality, keys}
}
