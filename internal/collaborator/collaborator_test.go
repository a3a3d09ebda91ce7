package collaborator

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// script writes a shell script that drains stdin and runs body.
func script(t *testing.T, body string) Options {
	t.Helper()
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	path := filepath.Join(t.TempDir(), "bridge.sh")
	require.NoError(t, os.WriteFile(path, []byte("cat >/dev/null\n"+body+"\n"), 0o755))
	return Options{Command: "sh", Script: path, Timeout: 5 * time.Second}
}

func TestSanitizeNonFinite(t *testing.T) {
	cases := map[string]string{
		`{"a": NaN, "b": -Infinity, "c": Infinity}`: `{"a": null, "b": null, "c": null}`,
		`{"s": "NaN and Infinity", "n": 1.5}`:       `{"s": "NaN and Infinity", "n": 1.5}`,
		`{"s": "quote \" NaN", "v": NaN}`:           `{"s": "quote \" NaN", "v": null}`,
		`[NaN,NaN]`:                                 `[null,null]`,
	}
	for in, want := range cases {
		assert.Equal(t, want, string(sanitizeNonFinite([]byte(in))), in)
	}
}

func TestUnavailable(t *testing.T) {
	var sim Simulator = Unavailable{Reason: "module import failed"}
	assert.False(t, Available(sim))

	_, err := sim.ComputeProximity(context.Background(), Analysis{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Contains(t, err.Error(), "module import failed")

	_, err = sim.DualPipeNetwork(NetworkRequest{}).CreateDualPipeInteractiveMap(context.Background())
	assert.ErrorIs(t, err, ErrUnavailable)

	assert.ErrorIs(t, Unavailable{}.DualPipeNetwork(NetworkRequest{}).LoadData(context.Background()), ErrUnavailable)
	assert.False(t, Available(nil))
	assert.True(t, Available(NewBridge(Options{Command: "sh"})))
}

func TestBridgeDecodesMetrics(t *testing.T) {
	opts := script(t, `echo '{"ok": true, "result": {"buildings": {"DEBBAL001": {"dist_to_line": 12.5, "dist_to_substation": NaN}, "DEBBAL002": {}}}}'`)
	b := NewBridge(opts)

	prox, err := b.ComputeProximity(context.Background(), Analysis{})
	require.NoError(t, err)
	require.Len(t, prox, 2)

	v, ok := prox["DEBBAL001"].DistToLine.Get()
	require.True(t, ok)
	assert.Equal(t, 12.5, v)
	assert.False(t, prox["DEBBAL001"].DistToSubstation.IsKnown())
	assert.False(t, prox["DEBBAL002"].DistToTransformer.IsKnown())
}

func TestBridgeReportsCollaboratorError(t *testing.T) {
	b := NewBridge(script(t, `echo '{"ok": false, "error": "no buildings in selection"}'`))

	_, err := b.Visualize(context.Background(), VisualizeRequest{})
	var ce *CallError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, opVisualize, ce.Op)
	assert.Equal(t, "no buildings in selection", ce.Message)
}

func TestBridgeProcessFailure(t *testing.T) {
	b := NewBridge(script(t, `echo "Traceback: ImportError pandapower" >&2; exit 3`))

	err := b.Ping(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ImportError pandapower")
}

func TestBridgeTimeout(t *testing.T) {
	opts := script(t, `exec sleep 10`)
	opts.Timeout = 200 * time.Millisecond

	err := NewBridge(opts).Ping(context.Background())
	assert.ErrorIs(t, err, ErrTimeout)
}

func TestBridgeDualPipeNetwork(t *testing.T) {
	b := NewBridge(script(t, `echo '{"ok": true, "result": {"path": "results_test/dh_analysis/map.html"}}'`))
	net := b.DualPipeNetwork(NetworkRequest{Scenario: NetworkScenario("Parkweg")})

	require.NoError(t, net.LoadData(context.Background()))
	require.NoError(t, net.CreateCompleteDualPipeNetwork(context.Background()))
	path, err := net.CreateDualPipeInteractiveMap(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "results_test/dh_analysis/map.html", path)
}

func TestBridgeRequestEnvelope(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	dir := t.TempDir()
	captured := filepath.Join(dir, "request.json")
	path := filepath.Join(dir, "bridge.sh")
	body := "cat >" + captured + "\necho '{\"ok\": true, \"result\": {\"buildings\": {\"B1\": {\"max_loading\": 80}}}}'\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o755))
	b := NewBridge(Options{Command: "sh", Script: path, Timeout: 5 * time.Second})

	power, err := b.ComputePowerFeasibility(context.Background(), PowerRequest{
		Analysis: Analysis{Buildings: json.RawMessage(`{"type": "FeatureCollection", "features": []}`)},
		Scenario: "winter_werktag_abendspitze",
	})
	require.NoError(t, err)
	loading, ok := power["B1"].MaxLoading.Get()
	require.True(t, ok)
	assert.Equal(t, 80.0, loading)

	raw, err := os.ReadFile(captured)
	require.NoError(t, err)
	var req struct {
		Op   string                     `json:"op"`
		Args map[string]json.RawMessage `json:"args"`
	}
	require.NoError(t, json.Unmarshal(raw, &req))
	assert.Equal(t, "compute_power_feasibility", req.Op)
	assert.JSONEq(t, `"winter_werktag_abendspitze"`, string(req.Args["scenario"]))
	assert.JSONEq(t, `{"type": "FeatureCollection", "features": []}`, string(req.Args["buildings"]))
}

func TestProberCachesFirstResult(t *testing.T) {
	var p Prober
	first := p.Probe(context.Background(), Options{Command: "energy-tools-no-such-interpreter"})
	assert.False(t, Available(first))

	second := p.Probe(context.Background(), script(t, `echo '{"ok": true}'`))
	assert.Equal(t, first, second)
}

func TestProbeSucceeds(t *testing.T) {
	var p Prober
	sim := p.Probe(context.Background(), script(t, `echo '{"ok": true}'`))
	assert.True(t, Available(sim))
}

func TestProbeMissingScript(t *testing.T) {
	var p Prober
	sim := p.Probe(context.Background(), Options{Command: "sh", Script: filepath.Join(t.TempDir(), "missing.py")})
	u, ok := sim.(Unavailable)
	require.True(t, ok)
	assert.Contains(t, u.Reason, "not found")
}

func TestReadOutputs(t *testing.T) {
	dir := t.TempDir()
	scenario := NetworkScenario(" Alte Straße ")
	assert.Equal(t, "dh_analysis_Alte_Straße", scenario)

	_, found, err := ReadNetworkStats(dir, scenario)
	require.NoError(t, err)
	assert.False(t, found)

	stats := `{"total_supply_length_km": 0.46, "total_main_length_km": 0.92, "total_heat_demand_mwh": NaN, "all_connections_follow_streets": true}`
	require.NoError(t, os.WriteFile(NetworkStatsPath(dir, scenario), []byte(stats), 0o644))
	got, found, err := ReadNetworkStats(dir, scenario)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, 0.92, got.TotalMainLengthKm.Or(-1))
	assert.False(t, got.TotalHeatDemandMWh.IsKnown())
	assert.False(t, got.TotalReturnLengthKm.IsKnown())
	require.NotNil(t, got.AllConnectionsFollowStreets)
	assert.True(t, *got.AllConnectionsFollowStreets)

	require.NoError(t, os.WriteFile(SimulationResultsPath(dir, scenario), []byte(`{"pressure_drop_bar": 2.5e-05, "hydraulic_success": false}`), 0o644))
	sim, found, err := ReadSimulationResults(dir, scenario)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, 2.5e-05, sim.PressureDropBar.Or(-1))
	require.NotNil(t, sim.HydraulicSuccess)
	assert.False(t, *sim.HydraulicSuccess)

	require.NoError(t, os.WriteFile(SimulationResultsPath(dir, "broken"), []byte(`{`), 0o644))
	_, found, err = ReadSimulationResults(dir, "broken")
	assert.True(t, found)
	assert.Error(t, err)
}
