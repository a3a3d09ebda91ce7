package charts

import (
	"bytes"
	"testing"

	"energy-tools/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func row(line, trafo models.Metric) models.ResultRow {
	return models.ResultRow{Metrics: models.MetricsRow{DistToLine: line, DistToTransformer: trafo}}
}

func TestDistanceHistogramsKnownValuesOnly(t *testing.T) {
	rs := models.ResultSet{Rows: []models.ResultRow{
		row(models.Known(10), models.Known(120)),
		row(models.Unknown(), models.Known(640)),
		row(models.Known(30), models.Unknown()),
	}}

	charts, skipped := DistanceHistograms(rs)
	assert.Empty(t, skipped)
	require.Len(t, charts, 2)
	assert.Equal(t, "dist_to_transformer_hist.png", charts[0].File)
	assert.Equal(t, []float64{120, 640}, charts[0].Values)
	assert.Equal(t, []float64{10, 30}, charts[1].Values)
}

func TestDistanceHistogramsSkipsUnknownColumn(t *testing.T) {
	rs := models.ResultSet{Rows: []models.ResultRow{row(models.Known(5), models.Unknown())}}

	charts, skipped := DistanceHistograms(rs)
	require.Len(t, charts, 1)
	assert.Equal(t, "dist_to_line_hist.png", charts[0].File)
	assert.Equal(t, []string{"dist_to_transformer_hist.png"}, skipped)
}

func TestWritePNG(t *testing.T) {
	var buf bytes.Buffer
	h := Histogram{File: "x.png", Title: "t", XLabel: "m", Values: []float64{1, 2, 2, 3, 50}}
	require.NoError(t, h.WritePNG(&buf))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("\x89PNG")))

	buf.Reset()
	require.NoError(t, Histogram{File: "same.png", Values: []float64{7, 7, 7}}.WritePNG(&buf))
	assert.NotZero(t, buf.Len())

	assert.ErrorIs(t, Histogram{File: "empty.png"}.WritePNG(&buf), ErrNoData)
}
