package models

// FarThresholdM is the distance above which a building is flagged as far from
// a substation or transformer.
const FarThresholdM = 500.0

// KeySource records how a building was matched to collaborator output.
type KeySource string

const (
	KeyDomain     KeySource = "gebaeude"
	KeyGeneric    KeySource = "id"
	KeyPositional KeySource = "index"
	KeyNone       KeySource = "none"
)

// PowerMetrics is the per-building output of the power-flow collaborator.
type PowerMetrics struct {
	MaxLoading Metric `json:"max_loading"`
	MinVoltage Metric `json:"min_voltage"`
}

// Proximity is the per-building output of the proximity collaborator.
type Proximity struct {
	DistToLine        Metric `json:"dist_to_line"`
	DistToSubstation  Metric `json:"dist_to_substation"`
	DistToTransformer Metric `json:"dist_to_transformer"`
}

// MetricsRow holds the merged metrics for one building.
type MetricsRow struct {
	BuildingID        string    `json:"building_id"`
	Key               KeySource `json:"key"`
	MaxTrafoLoading   Metric    `json:"max_trafo_loading"`
	MinVoltagePU      Metric    `json:"min_voltage_pu"`
	DistToLine        Metric    `json:"dist_to_line"`
	DistToSubstation  Metric    `json:"dist_to_substation"`
	DistToTransformer Metric    `json:"dist_to_transformer"`
}

// FarFromSubstation reports the far flag and whether it is known.
func (r MetricsRow) FarFromSubstation() (far, known bool) {
	d, ok := r.DistToSubstation.Get()
	return ok && d > FarThresholdM, ok
}

// FarFromTransformer reports the far flag and whether it is known.
func (r MetricsRow) FarFromTransformer() (far, known bool) {
	d, ok := r.DistToTransformer.Get()
	return ok && d > FarThresholdM, ok
}

type ResultRow struct {
	Building BuildingRecord
	Metrics  MetricsRow
}

// ResultSet is ordered by discovery in the source collection.
type ResultSet struct {
	Rows []ResultRow
}

func (rs ResultSet) Len() int { return len(rs.Rows) }

// Column extracts one metric across all rows.
func (rs ResultSet) Column(pick func(MetricsRow) Metric) []Metric {
	out := make([]Metric, len(rs.Rows))
	for i, r := range rs.Rows {
		out[i] = pick(r.Metrics)
	}
	return out
}
