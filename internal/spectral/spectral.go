// Package spectral computes the normalized difference of the red and
// near-infrared bands and classifies pixels as water.
//
// Water absorbs strongly in the near infrared, so over open water
// NIR < red and the index is negative. Vegetation and bare ground sit at or
// above zero.
package spectral

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/banshee-data/watertemp/internal/monitoring"
	"github.com/banshee-data/watertemp/internal/raster"
)

// NonWaterSentinel is the index assigned where red+nir == 0 (fill pixels).
const NonWaterSentinel = 1.0

// ChunkSize is the number of pixels processed per work unit.
const ChunkSize = 1 << 16

// NormalizedDifference returns (nir-red)/(nir+red), or NonWaterSentinel when
// both are zero. Arithmetic is in float64 so the difference never wraps.
func NormalizedDifference(red, nir uint16) float64 {
	r, n := float64(red), float64(nir)
	sum := r + n
	if sum == 0 {
		return NonWaterSentinel
	}
	return (n - r) / sum
}

// IsWater reports whether an index value classifies as water. Zero is not water.
func IsWater(v float64) bool { return v < 0 }

// Index is the per-pixel normalized difference grid, row-major.
type Index struct {
	Width  int
	Height int
	Values []float64
}

// At returns the index at column x, row y.
func (ix *Index) At(x, y int) float64 { return ix.Values[y*ix.Width+x] }

// WaterAt reports whether pixel i (row-major) is water.
func (ix *Index) WaterAt(i int) bool { return IsWater(ix.Values[i]) }

// WaterCount returns the number of water pixels.
func (ix *Index) WaterCount() int {
	n := 0
	for _, v := range ix.Values {
		if IsWater(v) {
			n++
		}
	}
	return n
}

// Compute builds the index grid for red and nir using up to workers
// goroutines (0 means GOMAXPROCS). The bands must have the same shape.
func Compute(ctx context.Context, red, nir *raster.Band, workers int) (*Index, error) {
	if !red.SameSize(nir) {
		return nil, fmt.Errorf("red band %s and NIR band %s differ in size", red, nir)
	}

	ix := &Index{Width: red.Width, Height: red.Height, Values: make([]float64, red.Len())}
	spans := Spans(red.Len(), ChunkSize)
	workers = Workers(workers)
	monitoring.Logf("classifying %d pixels in %d chunks on %d workers", red.Len(), len(spans), workers)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for _, s := range spans {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			for i := s.Start; i < s.End; i++ {
				ix.Values[i] = NormalizedDifference(red.Samples[i], nir.Samples[i])
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return ix, nil
}

// Span is a half-open range [Start, End) of row-major pixel offsets.
type Span struct {
	Start, End int
}

// Spans splits n pixels into consecutive spans of at most size pixels. The
// split depends only on n and size.
func Spans(n, size int) []Span {
	if size <= 0 {
		size = ChunkSize
	}
	spans := make([]Span, 0, (n+size-1)/size)
	for start := 0; start < n; start += size {
		spans = append(spans, Span{Start: start, End: min(start+size, n)})
	}
	return spans
}

// Workers resolves a configured worker count, where 0 or less means GOMAXPROCS.
func Workers(n int) int {
	if n <= 0 {
		return runtime.GOMAXPROCS(0)
	}
	return n
}
