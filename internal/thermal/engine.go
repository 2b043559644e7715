package thermal

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/banshee-data/watertemp/internal/monitoring"
	"github.com/banshee-data/watertemp/internal/mtl"
	"github.com/banshee-data/watertemp/internal/raster"
	"github.com/banshee-data/watertemp/internal/spectral"
)

// IndexState tracks whether the spectral index has been computed.
type IndexState int

const (
	IndexUninitialized IndexState = iota
	IndexClassified
)

func (s IndexState) String() string {
	switch s {
	case IndexUninitialized:
		return "uninitialized"
	case IndexClassified:
		return "classified"
	default:
		return fmt.Sprintf("IndexState(%d)", int(s))
	}
}

// PixelTemperature is the temperature of one pixel. Water is advisory: the
// temperature is computed for every pixel.
type PixelTemperature struct {
	X, Y    int
	Index   float64
	Kelvin  float64
	Celsius float64
	Water   bool
}

// NotWater reports whether the pixel was classified as land or fill.
func (p PixelTemperature) NotWater() bool { return !p.Water }

// Engine answers temperature queries for one scene.
type Engine struct {
	red, nir, thermal *raster.Band
	cal               mtl.Calibration
	workers           int

	once  sync.Once
	mu    sync.RWMutex
	state IndexState
	index *spectral.Index
	err   error
}

// NewEngine returns an Engine over three equally sized bands. workers bounds
// the goroutines used for classification and aggregation; 0 means
// GOMAXPROCS.
func NewEngine(red, nir, thermal *raster.Band, cal mtl.Calibration, workers int) (*Engine, error) {
	if red == nil || nir == nil || thermal == nil {
		return nil, fmt.Errorf("engine needs red, NIR and thermal bands")
	}
	if !red.SameSize(nir) || !red.SameSize(thermal) {
		return nil, fmt.Errorf("band sizes differ: red %dx%d, NIR %dx%d, thermal %dx%d",
			red.Width, red.Height, nir.Width, nir.Height, thermal.Width, thermal.Height)
	}
	return &Engine{red: red, nir: nir, thermal: thermal, cal: cal, workers: spectral.Workers(workers)}, nil
}

// Calibration returns the constants the Engine was built with.
func (e *Engine) Calibration() mtl.Calibration { return e.cal }

// Width and Height return the scene size in pixels.
func (e *Engine) Width() int  { return e.thermal.Width }
func (e *Engine) Height() int { return e.thermal.Height }

// State reports whether classification has run.
func (e *Engine) State() IndexState {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.state
}

// classify computes the spectral index exactly once.
func (e *Engine) classify() (*spectral.Index, error) {
	e.once.Do(func() {
		done := monitoring.Timed("spectral classification")
		ix, err := spectral.Compute(context.Background(), e.red, e.nir, e.workers)
		done()

		e.mu.Lock()
		defer e.mu.Unlock()
		e.index, e.err = ix, err
		if err == nil {
			e.state = IndexClassified
			monitoring.Logf("classified %d of %d pixels as water", ix.WaterCount(), len(ix.Values))
		}
	})
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.index, e.err
}

// TemperatureAt returns the temperature of the pixel at column x, row y,
// both 0-based.
func (e *Engine) TemperatureAt(x, y int) (PixelTemperature, error) {
	if !e.thermal.Contains(x, y) {
		return PixelTemperature{}, &CoordinateOutOfRangeError{X: x, Y: y, Width: e.Width(), Height: e.Height()}
	}
	ix, err := e.classify()
	if err != nil {
		return PixelTemperature{}, err
	}

	v := ix.At(x, y)
	k := KelvinAt(e.cal, e.thermal.At(x, y))
	return PixelTemperature{
		X:       x,
		Y:       y,
		Index:   v,
		Kelvin:  k,
		Celsius: Celsius(k),
		Water:   spectral.IsWater(v),
	}, nil
}

// AverageTemperature returns the mean brightness temperature of the water
// pixels in degrees Celsius. The mean is taken in kelvin over fixed chunks
// whose partial sums are combined in order, so the result does not depend on
// the worker count. Water pixels failing ValidKelvin are left out of the mean.
func (e *Engine) AverageTemperature() (float64, error) {
	ix, err := e.classify()
	if err != nil {
		return 0, err
	}

	spans := spectral.Spans(len(ix.Values), spectral.ChunkSize)
	sums := make([]float64, len(spans))
	counts := make([]int, len(spans))

	var g errgroup.Group
	g.SetLimit(e.workers)
	for c, s := range spans {
		g.Go(func() error {
			var sum float64
			var n int
			for i := s.Start; i < s.End; i++ {
				if !ix.WaterAt(i) {
					continue
				}
				if k := KelvinAt(e.cal, e.thermal.Samples[i]); ValidKelvin(k) {
					sum += k
					n++
				}
			}
			sums[c], counts[c] = sum, n
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}

	var total float64
	var n int
	for c := range spans {
		total += sums[c]
		n += counts[c]
	}
	if n == 0 {
		if ix.WaterCount() > 0 {
			return 0, ErrNoValidTemperatures
		}
		return 0, ErrNoWaterPixels
	}
	if dropped := ix.WaterCount() - n; dropped > 0 {
		monitoring.Logf("left %d water pixels with invalid temperature out of the mean", dropped)
	}
	return Celsius(total / float64(n)), nil
}
