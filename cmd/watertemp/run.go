package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/banshee-data/watertemp/internal/config"
	"github.com/banshee-data/watertemp/internal/db"
	"github.com/banshee-data/watertemp/internal/monitoring"
	"github.com/banshee-data/watertemp/internal/raster"
	"github.com/banshee-data/watertemp/internal/report"
	"github.com/banshee-data/watertemp/internal/scene"
	"github.com/banshee-data/watertemp/internal/thermal"
	"github.com/banshee-data/watertemp/internal/units"
)

type runOptions struct {
	Config *config.ProcessingConfig

	MetadataPath string
	RedPath      string
	NIRPath      string
	ThermalPath  string

	// X and Y select the selected pixel; negative values prompt instead.
	X, Y   int
	Prompt bool

	HistPNG  string
	HistHTML string
	MaskPNG  string
	DBPath   string
}

func run(ctx context.Context, opts runOptions, stdin io.Reader, stdout io.Writer) error {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.EmptyProcessingConfig()
	}

	src, closeSrc, err := newSource(ctx, cfg, opts)
	if err != nil {
		return err
	}
	defer closeSrc()

	reader, err := raster.NewReader(cfg.GetRasterBackend(), src)
	if err != nil {
		return err
	}
	if dir := cfg.GetCacheDir(); dir != "" {
		reader = raster.NewCachedReader(reader, dir)
	}

	s, err := scene.Load(ctx, scene.Options{
		Paths: scene.Paths{
			Metadata: opts.MetadataPath,
			Red:      opts.RedPath,
			NIR:      opts.NIRPath,
			Thermal:  opts.ThermalPath,
		},
		Bands: scene.BandNumbers{
			Red:     cfg.GetRedBand(),
			NIR:     cfg.GetNIRBand(),
			Thermal: cfg.GetThermalBand(),
		},
		Source:  src,
		Reader:  reader,
		Workers: cfg.GetWorkers(),
	})
	if err != nil {
		return err
	}

	cal := s.Engine.Calibration()
	fmt.Fprintf(stdout, "Scene %s (%dx%d)\n", orDash(s.Metadata.ProductID()), s.Engine.Width(), s.Engine.Height())
	fmt.Fprintln(stdout, "Calibration constants:")
	fmt.Fprintf(stdout, "  RADIANCE_MULT = %g\n", cal.RadianceMult)
	fmt.Fprintf(stdout, "  RADIANCE_ADD  = %g\n", cal.RadianceAdd)
	fmt.Fprintf(stdout, "  K1            = %g\n", cal.K1)
	fmt.Fprintf(stdout, "  K2            = %g\n", cal.K2)

	unit := cfg.GetUnits()
	temps, err := s.Engine.WaterTemperatures()
	if err != nil {
		return err
	}
	var mean *float64
	stats, err := s.Engine.SummaryOf(temps)
	switch {
	case errors.Is(err, thermal.ErrNoWaterPixels):
		fmt.Fprintln(stdout, "Average water temperature: no pixels classified as water")
	case errors.Is(err, thermal.ErrNoValidTemperatures):
		fmt.Fprintf(stdout, "Average water temperature: none of %d water pixels has a valid temperature\n", stats.WaterPixels)
	case err != nil:
		return err
	default:
		mean = &stats.MeanCelsius
		fmt.Fprintf(stdout, "Average water temperature: %s over %d water pixels (%.1f%% of scene)\n",
			units.Format(stats.MeanCelsius, unit), stats.WaterPixels, 100*stats.WaterFraction)
		fmt.Fprintf(stdout, "  min %s, max %s, std dev %.2f %s\n",
			units.Format(stats.MinCelsius, unit), units.Format(stats.MaxCelsius, unit),
			units.ConvertDifference(stats.StdDevCelsius, unit), units.Symbol(unit))
		if stats.InvalidPixels > 0 {
			fmt.Fprintf(stdout, "  %d water pixels with invalid temperature skipped\n", stats.InvalidPixels)
		}
	}

	if err := writeReports(s, cfg, opts, temps); err != nil {
		return err
	}

	var history *db.DB
	if path := firstNonEmpty(opts.DBPath, cfg.GetDBPath()); path != "" {
		if history, err = db.Open(path); err != nil {
			return fmt.Errorf("failed to open run history: %w", err)
		}
		defer history.Close()
		err = history.RecordRun(&db.SceneRun{
			RunID:        s.ID.String(),
			ProductID:    s.Metadata.ProductID(),
			MetadataPath: s.Paths.Metadata,
			Width:        s.Engine.Width(),
			Height:       s.Engine.Height(),
			Calibration:  cal,
			WaterPixels:  stats.WaterPixels,
			MeanCelsius:  mean,
		})
		if err != nil {
			return err
		}
	}

	x, y := opts.X, opts.Y
	if x < 0 || y < 0 {
		if !opts.Prompt {
			return nil
		}
		x, y, err = promptCoordinates(stdin, stdout, s.Engine.Width(), s.Engine.Height())
		if err != nil {
			return err
		}
	}

	px, err := s.Engine.TemperatureAt(x, y)
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "Pixel temperature %d:%d = %s\n", px.X, px.Y, units.Format(px.Celsius, unit))
	if !thermal.ValidKelvin(px.Kelvin) {
		fmt.Fprintln(stdout, "The selected pixel has no valid temperature (non-positive radiance).")
	}
	if px.NotWater() {
		fmt.Fprintln(stdout, "The selected pixel does not belong to a water body!")
	}

	if history != nil {
		return history.RecordLookup(&db.PixelLookup{
			RunID:   s.ID.String(),
			X:       px.X,
			Y:       px.Y,
			Celsius: px.Celsius,
			IsWater: px.Water,
		})
	}
	return nil
}

// newSource returns the local source, extended with GCS when any input is a
// gs:// URL.
func newSource(ctx context.Context, cfg *config.ProcessingConfig, opts runOptions) (raster.Source, func(), error) {
	local := raster.NewFileSource()
	remote := false
	for _, p := range []string{opts.MetadataPath, opts.RedPath, opts.NIRPath, opts.ThermalPath} {
		if strings.HasPrefix(p, "gs://") {
			remote = true
		}
	}
	if !remote {
		return local, func() {}, nil
	}

	gcs, err := raster.NewGCSSource(ctx, cfg.GetGCSReadTimeout())
	if err != nil {
		return nil, nil, err
	}
	closeFn := func() {
		if err := gcs.Close(); err != nil {
			monitoring.Logf("failed to close storage client: %v", err)
		}
	}
	return &raster.MultiSource{Local: local, Schemes: map[string]raster.Source{"gs": gcs}}, closeFn, nil
}

// writeReports renders the requested artefacts. temps are the valid water
// temperatures from WaterTemperatures; histograms are skipped when empty.
func writeReports(s *scene.Scene, cfg *config.ProcessingConfig, opts runOptions, temps []float64) error {
	title := "Water temperature " + orDash(s.Metadata.ProductID())
	unit := cfg.GetUnits()

	if len(temps) > 0 && opts.HistPNG != "" {
		if err := writeFile(opts.HistPNG, func(w io.Writer) error {
			return report.WriteHistogramPNG(w, title, temps, cfg.GetHistogramBins(), unit)
		}); err != nil {
			return err
		}
	}
	if len(temps) > 0 && opts.HistHTML != "" {
		hist := thermal.NewHistogram(temps, cfg.GetHistogramBins())
		if err := writeFile(opts.HistHTML, func(w io.Writer) error {
			return report.WriteHistogramHTML(w, title, hist, unit)
		}); err != nil {
			return err
		}
	}
	if opts.MaskPNG != "" {
		mask, err := s.Engine.WaterMask()
		if err != nil {
			return err
		}
		if err := writeFile(opts.MaskPNG, func(w io.Writer) error {
			return report.WriteWaterMaskPNG(w, mask, cfg.GetQuicklookMaxDim())
		}); err != nil {
			return err
		}
	}
	return nil
}

func writeFile(path string, render func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	bw := bufio.NewWriter(f)
	if err := render(bw); err != nil {
		f.Close()
		return err
	}
	if err := bw.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return f.Close()
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
