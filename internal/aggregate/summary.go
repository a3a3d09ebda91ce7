package aggregate

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"energy-tools/internal/models"
)

// Summary holds street-level statistics over a ResultSet. Every statistic is
// computed over known values only; a column with no known values yields an
// unknown statistic.
type Summary struct {
	Buildings int `json:"buildings"`

	MaxLoading models.Metric `json:"max_trafo_loading"`
	MinVoltage models.Metric `json:"min_voltage_pu"`

	MeanDistToLine        models.Metric `json:"avg_dist_to_line"`
	MeanDistToSubstation  models.Metric `json:"avg_dist_to_substation"`
	MeanDistToTransformer models.Metric `json:"avg_dist_to_transformer"`

	KnownLoading     int `json:"known_loading"`
	KnownVoltage     int `json:"known_voltage"`
	KnownTransformer int `json:"known_dist_to_transformer"`

	CloseToTransformer int `json:"close_to_transformer"`
	FarFromSubstation  int `json:"far_from_substation"`
	PositionalKeys     int `json:"positional_keys"`
	Unmatched          int `json:"unmatched"`
}

// Summarize reduces the result set.
func Summarize(rs models.ResultSet) Summary {
	s := Summary{Buildings: rs.Len()}

	loading := knownValues(rs.Column(func(r models.MetricsRow) models.Metric { return r.MaxTrafoLoading }))
	voltage := knownValues(rs.Column(func(r models.MetricsRow) models.Metric { return r.MinVoltagePU }))
	toLine := knownValues(rs.Column(func(r models.MetricsRow) models.Metric { return r.DistToLine }))
	toSub := knownValues(rs.Column(func(r models.MetricsRow) models.Metric { return r.DistToSubstation }))
	toTrafo := knownValues(rs.Column(func(r models.MetricsRow) models.Metric { return r.DistToTransformer }))

	s.KnownLoading = len(loading)
	s.KnownVoltage = len(voltage)
	s.KnownTransformer = len(toTrafo)

	if len(loading) > 0 {
		s.MaxLoading = models.Known(floats.Max(loading))
	}
	if len(voltage) > 0 {
		s.MinVoltage = models.Known(floats.Min(voltage))
	}
	s.MeanDistToLine = mean(toLine)
	s.MeanDistToSubstation = mean(toSub)
	s.MeanDistToTransformer = mean(toTrafo)

	for _, row := range rs.Rows {
		m := row.Metrics
		if far, known := m.FarFromTransformer(); known && !far {
			s.CloseToTransformer++
		}
		if far, known := m.FarFromSubstation(); known && far {
			s.FarFromSubstation++
		}
		switch m.Key {
		case models.KeyPositional:
			s.PositionalKeys++
		case models.KeyNone:
			s.Unmatched++
		}
	}
	return s
}

// KnownValues returns the known values of a column in order.
func KnownValues(col []models.Metric) []float64 { return knownValues(col) }

func knownValues(col []models.Metric) []float64 {
	out := make([]float64, 0, len(col))
	for _, m := range col {
		if v, ok := m.Get(); ok {
			out = append(out, v)
		}
	}
	return out
}

func mean(xs []float64) models.Metric {
	if len(xs) == 0 {
		return models.Unknown()
	}
	return models.Known(stat.Mean(xs, nil))
}
