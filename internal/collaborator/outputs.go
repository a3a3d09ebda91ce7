package collaborator

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"energy-tools/internal/models"
)

// NetworkScenario is the scenario name the DH collaborator uses for a street.
func NetworkScenario(street string) string {
	return "dh_analysis_" + strings.ReplaceAll(strings.TrimSpace(street), " ", "_")
}

// NetworkStatsPath is where the collaborator writes the network statistics.
func NetworkStatsPath(dir, scenario string) string {
	return filepath.Join(dir, "dual_network_stats_"+scenario+".json")
}

// SimulationResultsPath is where the collaborator writes the hydraulic
// results.
func SimulationResultsPath(dir, scenario string) string {
	return filepath.Join(dir, "pandapipes_simulation_results_"+scenario+".json")
}

// ReadNetworkStats reads the network statistics. found is false when the
// file does not exist; the returned stats are then all unknown.
func ReadNetworkStats(dir, scenario string) (stats models.DualNetworkStats, found bool, err error) {
	found, err = readOutput(NetworkStatsPath(dir, scenario), &stats)
	return stats, found, err
}

// ReadSimulationResults reads the hydraulic simulation results.
func ReadSimulationResults(dir, scenario string) (res models.HydraulicResults, found bool, err error) {
	found, err = readOutput(SimulationResultsPath(dir, scenario), &res)
	return res, found, err
}

func readOutput(path string, v any) (bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("read %s: %w", path, err)
	}
	if err := json.Unmarshal(sanitizeNonFinite(data), v); err != nil {
		return true, fmt.Errorf("decode %s: %w", path, err)
	}
	return true, nil
}
