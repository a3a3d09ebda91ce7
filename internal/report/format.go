package report

import (
	"strconv"
	"time"

	"energy-tools/internal/models"
)

// NA is rendered in place of an unknown value.
const NA = "n/a"

const timestampLayout = "2006-01-02 15:04:05 MST"

// Fixed formats a known value with prec decimals and "n/a" otherwise.
func Fixed(m models.Metric, prec int) string {
	v, ok := m.Get()
	if !ok {
		return NA
	}
	return strconv.FormatFloat(v, 'f', prec, 64)
}

func withUnit(m models.Metric, prec int, unit string) string {
	s := Fixed(m, prec)
	if s == NA {
		return s
	}
	return s + unit
}

// Percent renders a percentage with two decimals.
func Percent(m models.Metric) string {
	return withUnit(m, 2, "%")
}

func PU(m models.Metric) string {
	return withUnit(m, 3, " pu")
}

// Meters renders a distance in whole meters.
func Meters(m models.Metric) string {
	return withUnit(m, 0, " m")
}

func Km(m models.Metric) string {
	return withUnit(m, 2, " km")
}

func Bar(m models.Metric) string {
	return withUnit(m, 6, " bar")
}

func oneDec(m models.Metric) string {
	return Fixed(m, 1)
}

func integer(m models.Metric) string {
	return Fixed(m, 0)
}

func stamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

func ratio(num, den int) models.Metric {
	if den == 0 {
		return models.Unknown()
	}
	return models.Known(float64(num) / float64(den) * 100)
}

// Status is the assessment of one readiness criterion.
type Status int

const (
	StatusUnknown Status = iota
	StatusOK
	StatusWarning
)

func (s Status) Mark() string {
	switch s {
	case StatusOK:
		return "✅"
	case StatusWarning:
		return "⚠️"
	default:
		return "❔"
	}
}

// Class is the dashboard CSS class for the status.
func (s Status) Class() string {
	switch s {
	case StatusOK:
		return "status-success"
	case StatusWarning:
		return "status-warning"
	default:
		return "status-unknown"
	}
}

func flagStatus(b *bool) Status {
	switch {
	case b == nil:
		return StatusUnknown
	case *b:
		return StatusOK
	default:
		return StatusWarning
	}
}
