package report

import (
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"energy-tools/internal/aggregate"
	"energy-tools/internal/kpi"
	"energy-tools/internal/models"
)

var generatedAt = time.Date(2026, 5, 4, 9, 30, 0, 0, time.UTC)

func hpInput() HPInput {
	return HPInput{
		Street:   "Bahnhofstraße",
		Scenario: "winter_werktag_abendspitze",
		Summary: aggregate.Summary{
			Buildings:             3,
			MaxLoading:            models.Known(95),
			MinVoltage:            models.Known(0.9612),
			MeanDistToLine:        models.Known(20.26),
			MeanDistToTransformer: models.Known(130.4),
			KnownLoading:          2,
			KnownVoltage:          2,
			KnownTransformer:      2,
			CloseToTransformer:    2,
			Unmatched:             1,
		},
		Scenarios: []ScenarioOption{
			{Name: "winter_werktag_abendspitze", Label: "Winter Weekday Evening Peak"},
			{Name: "summer_sonntag_abendphase", Label: "Summer Sunday Evening"},
		},
		MapPath:       "hp_map.html",
		TablePath:     "building_proximity_table.csv",
		DashboardPath: "hp_dashboard_Bahnhofstraße.html",
		Charts:        []Chart{{Title: "Distance to Transformer Distribution", Path: "dist_to_transformer_hist.png"}},
		GeneratedAt:   generatedAt,
	}
}

func TestRenderHPFixedPrecision(t *testing.T) {
	dashboard, summary, err := RenderHP(hpInput())
	require.NoError(t, err)

	assert.Contains(t, summary, "• Max Transformer Loading: 95.00% (2/3 buildings with results)")
	assert.Contains(t, summary, "• Min Voltage: 0.961 pu")
	assert.Contains(t, summary, "• Avg Distance to Power Line: 20 m")
	assert.Contains(t, summary, "• Avg Distance to Substation: n/a")
	assert.Contains(t, summary, "• Network Coverage: 100.00% of buildings close to transformers")
	assert.Contains(t, summary, "1 building(s) have no simulation output")
	assert.NotContains(t, summary, "KEY WARNING")
	assert.Contains(t, summary, "Generated: 2026-05-04 09:30:00 UTC")

	assert.Contains(t, dashboard, `<div class="metric-value">95.00%</div>`)
	assert.Contains(t, dashboard, `<div class="metric-value">0.961</div>`)
	assert.Contains(t, dashboard, `<div class="metric-value">20</div>`)
	assert.Contains(t, dashboard, `<div class="metric-value">n/a</div>`)
	assert.Contains(t, dashboard, `<option value="winter_werktag_abendspitze" selected>`)
	assert.Contains(t, dashboard, `src="dist_to_transformer_hist.png"`)
}

var (
	percentRe = regexp.MustCompile(`\b(\d+(?:\.\d+)?)%`)
	metersRe  = regexp.MustCompile(`\b(\d+(?:\.\d+)?) m\b`)
)

func TestRenderHPUniformPrecision(t *testing.T) {
	dashboard, summary, err := RenderHP(hpInput())
	require.NoError(t, err)

	percents := percentRe.FindAllStringSubmatch(summary, -1)
	require.NotEmpty(t, percents)
	for _, m := range percents {
		assert.Regexp(t, `^\d+\.\d{2}$`, m[1], "percentages carry two decimals")
	}
	meters := metersRe.FindAllStringSubmatch(summary, -1)
	require.NotEmpty(t, meters)
	for _, m := range meters {
		assert.Regexp(t, `^\d+$`, m[1], "distances are whole meters")
	}
	assert.Contains(t, dashboard, `<div class="metric-value">100.00%</div>`)
}

func TestRenderHPDeterministic(t *testing.T) {
	d1, s1, err := RenderHP(hpInput())
	require.NoError(t, err)
	d2, s2, err := RenderHP(hpInput())
	require.NoError(t, err)
	assert.Equal(t, d1, d2)
	assert.Equal(t, s1, s2)

	later := hpInput()
	later.GeneratedAt = generatedAt.Add(time.Hour)
	_, s3, err := RenderHP(later)
	require.NoError(t, err)
	assert.Equal(t,
		strings.Replace(s1, "09:30:00", "10:30:00", 1), s3,
		"only the timestamp line differs")
}

func TestRenderHPAllUnknown(t *testing.T) {
	in := hpInput()
	in.Summary = aggregate.Summary{Buildings: 2, Unmatched: 2}
	_, summary, err := RenderHP(in)
	require.NoError(t, err)

	assert.Contains(t, summary, "• Max Transformer Loading: n/a")
	assert.Contains(t, summary, "• Min Voltage: n/a")
	assert.Contains(t, summary, "• Network Coverage: n/a")
	assert.Contains(t, summary, "• Electrical Capacity: ❔")
	assert.NotContains(t, summary, "0.00%")
}

func TestRenderHPPositionalWarning(t *testing.T) {
	in := hpInput()
	in.Summary.PositionalKeys = 2
	dashboard, summary, err := RenderHP(in)
	require.NoError(t, err)
	assert.Contains(t, summary, "KEY WARNING: 2 building(s) were matched to simulation output by position only")
	assert.Contains(t, dashboard, "matched to simulation output by position only")
	assert.Contains(t, summary, "• Result Matching: ⚠️")
}

func TestRenderHPEscapesStreet(t *testing.T) {
	in := hpInput()
	in.Street = "<script>x</script>"
	dashboard, _, err := RenderHP(in)
	require.NoError(t, err)
	assert.NotContains(t, dashboard, "<script>x</script>")
}

func TestRenderDH(t *testing.T) {
	ok := true
	in := DHInput{
		Street:    "Parkweg",
		Scenario:  "dh_analysis_Parkweg",
		Buildings: 4,
		Stats: models.DualNetworkStats{
			TotalSupplyLengthKm: models.Known(0.456),
			TotalReturnLengthKm: models.Known(0.456),
			TotalMainLengthKm:   models.Known(0.912),
			TotalServiceLengthM: models.Known(212.7),
			ServiceConnections:  models.Known(8),
		},
		Hydraulics: models.HydraulicResults{
			PressureDropBar:  models.Known(0.0000254),
			TotalFlowKgPerS:  models.Known(1.44),
			HydraulicSuccess: &ok,
		},
		StatsFound:      true,
		HydraulicsFound: true,
		GeneratedAt:     generatedAt,
	}
	dashboard, summary, err := RenderDH(in)
	require.NoError(t, err)

	assert.Contains(t, summary, "• Supply Pipes: 0.46 km")
	assert.Contains(t, summary, "• Service Pipes: 213 m")
	assert.Contains(t, summary, "• Service Connections: 8 (supply + return)")
	assert.Contains(t, summary, "• Total Heat Demand: n/a")
	assert.Contains(t, summary, "• Network Density: 0.228 km per building")
	assert.Contains(t, summary, "• Pressure Drop: 0.000025 bar")
	assert.Contains(t, summary, "• Temperature Drop: n/a")
	assert.Contains(t, summary, "• Hydraulic Simulation: ✅")
	assert.Contains(t, summary, "• Street-Based Routing: ❔")
	assert.NotContains(t, summary, "file not found")
	assert.Contains(t, dashboard, `<div class="metric-value">0.000025</div>`)
}

func TestRenderDHWithoutFiles(t *testing.T) {
	_, summary, err := RenderDH(DHInput{Street: "Parkweg", Buildings: 3, GeneratedAt: generatedAt})
	require.NoError(t, err)
	assert.Contains(t, summary, "• Supply Pipes: n/a")
	assert.Contains(t, summary, "Network statistics file not found")
	assert.Contains(t, summary, "Simulation results file not found")
	assert.NotContains(t, summary, "0.92")
}

func TestRenderComparison(t *testing.T) {
	rec, ok := kpi.Recommend([]kpi.Scenario{
		{Name: "Bahnhofstraße_DH", LCOH: models.Known(120), CO2: models.Known(40)},
		{Name: "Bahnhofstraße_HP", LCOH: models.Known(90), CO2: models.Known(55)},
	})
	require.True(t, ok)

	in := ComparisonInput{
		Street:         "Bahnhofstraße",
		HPScenario:     "winter_werktag_abendspitze",
		HP:             hpInput(),
		DH:             DHInput{Street: "Bahnhofstraße", Buildings: 3, GeneratedAt: generatedAt},
		Recommendation: &rec,
		GeneratedAt:    generatedAt,
	}
	dashboard, summary, err := RenderComparison(in)
	require.NoError(t, err)

	assert.Contains(t, summary, "=== COMPREHENSIVE HEAT PUMP FEASIBILITY ANALYSIS ===")
	assert.Contains(t, summary, "=== COMPREHENSIVE DISTRICT HEATING NETWORK ANALYSIS ===")
	assert.Contains(t, summary, "(25.00% saving with Heat Pumps)")
	assert.Contains(t, summary, "• Recommendation: Heat Pumps based on cost priority")
	assert.Contains(t, dashboard, "Recommendation: Heat Pumps based on cost priority")

	in.Recommendation = nil
	in.KPIScenarios = []string{"only_DH"}
	_, summary, err = RenderComparison(in)
	require.NoError(t, err)
	assert.Contains(t, summary, "• KPI comparison not available.")
	assert.Contains(t, summary, "• Available scenarios: only_DH")
}

func TestRenderKPIAnalysis(t *testing.T) {
	rep := &kpi.Report{
		Path:    "results_test/scenario_kpis.csv",
		Entries: []kpi.Entry{{Name: "lcoh_eur_per_mwh", Value: "120"}},
		Scenarios: []kpi.Scenario{
			{Name: "x_DH", LCOH: models.Known(120), CO2: models.Known(40)},
			{Name: "x_HP", LCOH: models.Known(110), CO2: models.Known(55)},
		},
	}
	out, err := RenderKPIAnalysis(rep)
	require.NoError(t, err)
	assert.Contains(t, out, "File: results_test/scenario_kpis.csv")
	assert.Contains(t, out, "• lcoh_eur_per_mwh: 120")
	assert.Contains(t, out, "• x_HP: LCoH 110.00 €/MWh, CO₂ 55.00 t/year")
	assert.Contains(t, out, "• Recommendation: District Heating based on emissions priority")

	out, err = RenderKPIAnalysis(&kpi.Report{Path: "k.json"})
	require.NoError(t, err)
	assert.Contains(t, out, "• No numeric metrics found")
	assert.NotContains(t, out, "RECOMMENDATION")
}

func TestFixed(t *testing.T) {
	assert.Equal(t, "n/a", Fixed(models.Unknown(), 2))
	assert.Equal(t, "0.00", Fixed(models.Known(0), 2))
	assert.Equal(t, "1235", Fixed(models.Known(1234.6), 0))
	assert.Equal(t, "n/a", Percent(models.Unknown()))
	assert.Equal(t, "1.020 pu", PU(models.Known(1.02)))
}
