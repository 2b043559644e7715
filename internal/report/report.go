// Package report renders scene results as image and HTML artefacts.
package report

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"math"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/nfnt/resize"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/banshee-data/watertemp/internal/thermal"
	"github.com/banshee-data/watertemp/internal/units"
)

// WriteHistogramPNG plots a histogram of temps (degrees Celsius) as PNG,
// with the values and axis converted to unit.
func WriteHistogramPNG(w io.Writer, title string, temps []float64, bins int, unit string) error {
	values := histogramValues(temps, unit)
	if len(values) == 0 {
		return thermal.ErrNoWaterPixels
	}
	if bins < 1 {
		bins = 1
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Temperature (" + units.Symbol(unit) + ")"
	p.Y.Label.Text = "Water pixels"

	h, err := plotter.NewHist(values, bins)
	if err != nil {
		return fmt.Errorf("failed to build histogram: %w", err)
	}
	h.LineStyle.Width = vg.Points(0.5)
	p.Add(h)

	wt, err := p.WriterTo(8*vg.Inch, 4*vg.Inch, "png")
	if err != nil {
		return fmt.Errorf("failed to render histogram: %w", err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write histogram: %w", err)
	}
	return nil
}

// histogramValues converts the finite entries of temps to unit.
func histogramValues(temps []float64, unit string) plotter.Values {
	values := make(plotter.Values, 0, len(temps))
	for _, c := range temps {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			continue
		}
		values = append(values, units.ConvertTemperature(c, unit))
	}
	return values
}

// WriteHistogramHTML renders hist (Celsius dividers) as an interactive bar
// chart page labelled in unit.
func WriteHistogramHTML(w io.Writer, title string, hist thermal.Histogram, unit string) error {
	if len(hist.Counts) == 0 || len(hist.Dividers) != len(hist.Counts)+1 {
		return fmt.Errorf("histogram has %d counts and %d dividers", len(hist.Counts), len(hist.Dividers))
	}

	x := make([]string, len(hist.Counts))
	y := make([]opts.BarData, len(hist.Counts))
	var total float64
	for i, c := range hist.Counts {
		mid := (hist.Dividers[i] + hist.Dividers[i+1]) / 2
		x[i] = fmt.Sprintf("%.1f", units.ConvertTemperature(mid, unit))
		y[i] = opts.BarData{Value: c}
		total += c
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: title, Width: "100%", Height: "600px"}),
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: fmt.Sprintf("water pixels=%.0f bins=%d", total, len(hist.Counts))}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: units.Symbol(unit), NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Name: "pixels"}),
	)
	bar.SetXAxis(x).AddSeries("water", y)

	if err := bar.Render(w); err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}
	return nil
}

// WriteWaterMaskPNG writes mask as PNG, shrunk to fit within maxDim pixels
// on its longer side. Nearest-neighbour sampling keeps the mask binary.
func WriteWaterMaskPNG(w io.Writer, mask image.Image, maxDim int) error {
	img := mask
	b := mask.Bounds()
	if maxDim > 0 && (b.Dx() > maxDim || b.Dy() > maxDim) {
		img = resize.Thumbnail(uint(maxDim), uint(maxDim), mask, resize.NearestNeighbor)
	}
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("failed to encode water mask: %w", err)
	}
	return nil
}
