package models

import (
	"bytes"
	"encoding/json"
	"math"
)

// Metric is a numeric value that may be explicitly unknown. The zero value is
// unknown, so a missing measurement can never be read as 0.
type Metric struct {
	value float64
	known bool
}

// Known wraps a measured value. Non-finite inputs are treated as unknown.
func Known(v float64) Metric {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Metric{}
	}
	return Metric{value: v, known: true}
}

// Unknown is the explicit "not available" marker.
func Unknown() Metric { return Metric{} }

func (m Metric) Get() (float64, bool) { return m.value, m.known }

func (m Metric) IsKnown() bool { return m.known }

// Or returns the value, or fallback when unknown. Only for display helpers
// that have their own sentinel; never use it for statistics.
func (m Metric) Or(fallback float64) float64 {
	if !m.known {
		return fallback
	}
	return m.value
}

func (m Metric) MarshalJSON() ([]byte, error) {
	if !m.known {
		return []byte("null"), nil
	}
	return json.Marshal(m.value)
}

func (m *Metric) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*m = Metric{}
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*m = Known(v)
	return nil
}
