package thermal

import (
	"image"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Stats summarises the water temperatures of a scene. InvalidPixels counts
// water pixels whose temperature fails ValidKelvin; the temperature fields
// are computed over the remaining ones.
type Stats struct {
	WaterPixels   int
	InvalidPixels int
	TotalPixels   int
	WaterFraction float64
	MeanCelsius   float64
	StdDevCelsius float64
	MinCelsius    float64
	MaxCelsius    float64
}

// Histogram holds bin edges (len(Counts)+1) and per-bin counts.
type Histogram struct {
	Dividers []float64
	Counts   []float64
}

// WaterTemperatures returns the Celsius temperature of every water pixel with
// a valid temperature, in row-major order.
func (e *Engine) WaterTemperatures() ([]float64, error) {
	ix, err := e.classify()
	if err != nil {
		return nil, err
	}
	temps := make([]float64, 0, ix.WaterCount())
	for i, dn := range e.thermal.Samples {
		if !ix.WaterAt(i) {
			continue
		}
		if k := KelvinAt(e.cal, dn); ValidKelvin(k) {
			temps = append(temps, Celsius(k))
		}
	}
	return temps, nil
}

// Summary computes Stats over the water mask. MeanCelsius equals
// AverageTemperature; the spread is the population standard deviation.
func (e *Engine) Summary() (Stats, error) {
	temps, err := e.WaterTemperatures()
	if err != nil {
		return Stats{}, err
	}
	return e.SummaryOf(temps)
}

// SummaryOf is Summary over temps as returned by WaterTemperatures, for
// callers that already hold them.
func (e *Engine) SummaryOf(temps []float64) (Stats, error) {
	ix, err := e.classify()
	if err != nil {
		return Stats{}, err
	}
	st := Stats{
		WaterPixels:   ix.WaterCount(),
		InvalidPixels: ix.WaterCount() - len(temps),
		TotalPixels:   e.thermal.Len(),
	}
	if st.TotalPixels > 0 {
		st.WaterFraction = float64(st.WaterPixels) / float64(st.TotalPixels)
	}
	if st.WaterPixels == 0 {
		return st, ErrNoWaterPixels
	}
	if len(temps) == 0 {
		return st, ErrNoValidTemperatures
	}

	if st.MeanCelsius, err = e.AverageTemperature(); err != nil {
		return Stats{}, err
	}
	st.StdDevCelsius = math.Sqrt(stat.PopVariance(temps, nil))
	st.MinCelsius = floats.Min(temps)
	st.MaxCelsius = floats.Max(temps)
	return st, nil
}

// Histogram bins the water temperatures into bins equal-width bins spanning
// their range.
func (e *Engine) Histogram(bins int) (Histogram, error) {
	ix, err := e.classify()
	if err != nil {
		return Histogram{}, err
	}
	if ix.WaterCount() == 0 {
		return Histogram{}, ErrNoWaterPixels
	}
	temps, err := e.WaterTemperatures()
	if err != nil {
		return Histogram{}, err
	}
	if len(temps) == 0 {
		return Histogram{}, ErrNoValidTemperatures
	}
	return NewHistogram(temps, bins), nil
}

// NewHistogram bins values (in any order) into equal-width bins. NaN and
// infinite values are skipped; with nothing left the Histogram is empty. The
// upper edge is nudged up so the maximum falls inside the last bin.
func NewHistogram(values []float64, bins int) Histogram {
	if bins < 1 {
		bins = 1
	}
	sorted := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			sorted = append(sorted, v)
		}
	}
	if len(sorted) == 0 {
		return Histogram{}
	}
	sort.Float64s(sorted)

	lo, hi := sorted[0], sorted[len(sorted)-1]
	if lo == hi {
		lo, hi = lo-0.5, hi+0.5
	}
	dividers := floats.Span(make([]float64, bins+1), lo, hi)
	dividers[bins] = math.Nextafter(hi, math.Inf(1))

	return Histogram{
		Dividers: dividers,
		Counts:   stat.Histogram(nil, dividers, sorted, nil),
	}
}

// WaterMask renders the classification as an 8-bit image, 255 for water.
func (e *Engine) WaterMask() (*image.Gray, error) {
	ix, err := e.classify()
	if err != nil {
		return nil, err
	}
	img := image.NewGray(image.Rect(0, 0, ix.Width, ix.Height))
	for y := 0; y < ix.Height; y++ {
		row := img.Pix[y*img.Stride : y*img.Stride+ix.Width]
		for x := range row {
			if ix.WaterAt(y*ix.Width + x) {
				row[x] = 255
			}
		}
	}
	return img, nil
}
