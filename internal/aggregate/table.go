package aggregate

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"energy-tools/internal/models"
)

// ProximityTableName is the file name the HP analysis writes the table to.
const ProximityTableName = "building_proximity_table.csv"

var proximityHeader = []string{
	"id",
	"dist_to_line",
	"dist_to_substation",
	"dist_to_transformer",
	"flag_far_substation",
	"flag_far_transformer",
	"max_trafo_loading",
	"min_voltage_pu",
}

// Provenance is written as a comment line above the table.
type Provenance struct {
	RunID string
	At    time.Time
}

// WriteProximityCSV writes the per-building table. Unknown values are empty
// cells.
func WriteProximityCSV(w io.Writer, rs models.ResultSet, p Provenance) error {
	if _, err := fmt.Fprintf(w, "# Generated by %s at %s\n", p.RunID, p.At.UTC().Format(time.RFC3339)); err != nil {
		return fmt.Errorf("write provenance: %w", err)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(proximityHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, row := range rs.Rows {
		m := row.Metrics
		farSub, subKnown := m.FarFromSubstation()
		farTrafo, trafoKnown := m.FarFromTransformer()
		record := []string{
			m.BuildingID,
			cell(m.DistToLine),
			cell(m.DistToSubstation),
			cell(m.DistToTransformer),
			flag(farSub, subKnown),
			flag(farTrafo, trafoKnown),
			cell(m.MaxTrafoLoading),
			cell(m.MinVoltagePU),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write row %s: %w", m.BuildingID, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush table: %w", err)
	}
	return nil
}

func cell(m models.Metric) string {
	v, ok := m.Get()
	if !ok {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func flag(v, known bool) string {
	if !known {
		return ""
	}
	if v {
		return "True"
	}
	return "False"
}
