package tools

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
)

var (
	toolCalls = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "energy_tools_calls_total",
		Help: "Tool invocations by tool and outcome.",
	}, []string{"tool", "status", "kind"})

	toolDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "energy_tools_call_duration_seconds",
		Help:    "Wall time of tool invocations, collaborator calls included.",
		Buckets: prometheus.ExponentialBuckets(0.01, 2, 16),
	}, []string{"tool"})
)

// observe counts and logs a finished tool call.
func (t *Toolkit) observe(tool string, start time.Time, r Result, fields ...zap.Field) Result {
	elapsed := time.Since(start)
	toolCalls.WithLabelValues(tool, string(r.Status), string(r.Kind)).Inc()
	toolDuration.WithLabelValues(tool).Observe(elapsed.Seconds())

	fields = append(fields,
		zap.String("tool", tool),
		zap.String("status", string(r.Status)),
		zap.Duration("elapsed", elapsed),
	)
	if r.Status == StatusError {
		t.log.Warn("tool call failed", append(fields, zap.String("kind", string(r.Kind)), zap.String("detail", r.Detail))...)
		return r
	}
	t.log.Info("tool call finished", fields...)
	return r
}
