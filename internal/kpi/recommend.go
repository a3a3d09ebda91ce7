package kpi

import (
	"strings"

	"energy-tools/internal/models"
)

// SavingThresholdPct is the LCoH advantage heat pumps need before they are
// recommended over district heating.
const SavingThresholdPct = 20.0

const (
	HeatPumps       = "Heat Pumps"
	DistrictHeating = "District Heating"
)

// Recommendation compares the first DH and first HP scenario of a table.
type Recommendation struct {
	DH Scenario `json:"dh"`
	HP Scenario `json:"hp"`
	// CostSavingPct is (DH - HP) / DH * 100 on LCoH.
	CostSavingPct models.Metric `json:"cost_saving_pct"`
	// EmissionDiff is DH - HP in tCO2 per year.
	EmissionDiff models.Metric `json:"emission_diff_t_per_a"`
	Preferred    string        `json:"preferred"`
	Basis        string        `json:"basis"`
}

// Recommend picks the first scenario whose name contains "dh" and the first
// containing "hp" (case-insensitive). ok is false when either is missing.
func Recommend(scenarios []Scenario) (Recommendation, bool) {
	var (
		rec            Recommendation
		haveDH, haveHP bool
	)
	for _, s := range scenarios {
		name := strings.ToLower(s.Name)
		if !haveDH && strings.Contains(name, "dh") {
			rec.DH, haveDH = s, true
		}
		if !haveHP && strings.Contains(name, "hp") {
			rec.HP, haveHP = s, true
		}
	}
	if !haveDH || !haveHP {
		return Recommendation{}, false
	}

	dhCost, ok1 := rec.DH.LCOH.Get()
	hpCost, ok2 := rec.HP.LCOH.Get()
	if ok1 && ok2 && dhCost != 0 {
		rec.CostSavingPct = models.Known((dhCost - hpCost) / dhCost * 100)
	}
	dhCO2, ok1 := rec.DH.CO2.Get()
	hpCO2, ok2 := rec.HP.CO2.Get()
	if ok1 && ok2 {
		rec.EmissionDiff = models.Known(dhCO2 - hpCO2)
	}

	if saving, ok := rec.CostSavingPct.Get(); ok && saving > SavingThresholdPct {
		rec.Preferred, rec.Basis = HeatPumps, "cost"
	} else {
		rec.Preferred, rec.Basis = DistrictHeating, "emissions"
	}
	return rec, true
}

// Names lists scenario names in table order.
func Names(scenarios []Scenario) []string {
	out := make([]string, len(scenarios))
	for i, s := range scenarios {
		out[i] = s.Name
	}
	return out
}
