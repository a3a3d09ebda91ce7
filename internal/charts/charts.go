// Package charts draws the distance histograms shown on the heat pump
// dashboard.
package charts

import (
	"errors"
	"fmt"
	"image/color"
	"io"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"energy-tools/internal/aggregate"
	"energy-tools/internal/models"
)

// Bins is the histogram bin count.
const Bins = 10

const (
	width  = 10 * vg.Inch
	height = 6 * vg.Inch
)

// ErrNoData is returned for a column without any known value.
var ErrNoData = errors.New("no known values to plot")

// Histogram is one chart to draw.
type Histogram struct {
	File   string // file name under the analysis output dir
	Title  string
	XLabel string
	Values []float64
	Fill   color.Color
}

// DistanceHistograms builds the transformer and line distance charts from the
// known values of rs. Columns with nothing known are left out.
func DistanceHistograms(rs models.ResultSet) (charts []Histogram, skipped []string) {
	all := []Histogram{
		{
			File:   "dist_to_transformer_hist.png",
			Title:  "Distance to Transformer Distribution",
			XLabel: "Distance (m)",
			Values: aggregate.KnownValues(rs.Column(func(r models.MetricsRow) models.Metric { return r.DistToTransformer })),
			Fill:   color.RGBA{R: 135, G: 206, B: 235, A: 255},
		},
		{
			File:   "dist_to_line_hist.png",
			Title:  "Distance to Power Line Distribution",
			XLabel: "Distance (m)",
			Values: aggregate.KnownValues(rs.Column(func(r models.MetricsRow) models.Metric { return r.DistToLine })),
			Fill:   color.RGBA{R: 144, G: 238, B: 144, A: 255},
		},
	}
	for _, h := range all {
		if len(h.Values) == 0 {
			skipped = append(skipped, h.File)
			continue
		}
		charts = append(charts, h)
	}
	return charts, skipped
}

// WritePNG renders the histogram as PNG.
func (h Histogram) WritePNG(w io.Writer) error {
	if len(h.Values) == 0 {
		return fmt.Errorf("%s: %w", h.File, ErrNoData)
	}

	p := plot.New()
	p.Title.Text = h.Title
	p.X.Label.Text = h.XLabel
	p.Y.Label.Text = "Number of Buildings"

	hist, err := plotter.NewHist(plotter.Values(h.Values), Bins)
	if err != nil {
		return fmt.Errorf("building histogram %s: %w", h.File, err)
	}
	if h.Fill != nil {
		hist.FillColor = h.Fill
	}
	p.Add(hist)

	wt, err := p.WriterTo(width, height, "png")
	if err != nil {
		return fmt.Errorf("rendering %s: %w", h.File, err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("writing %s: %w", h.File, err)
	}
	return nil
}
