// Command watertemp estimates water-surface temperature for a Landsat scene
// from its MTL metadata and the red, near-infrared and thermal bands.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/banshee-data/watertemp/internal/config"
	"github.com/banshee-data/watertemp/internal/monitoring"
	"github.com/banshee-data/watertemp/internal/units"
	"github.com/banshee-data/watertemp/internal/version"
)

var (
	mtlPath     = flag.String("mtl", "", "Path or gs:// URL of the scene MTL metadata file (required)")
	redPath     = flag.String("red", "", "Red band path (default: from MTL FILE_NAME_BAND_N)")
	nirPath     = flag.String("nir", "", "Near-infrared band path (default: from MTL)")
	thermalPath = flag.String("thermal", "", "Thermal band path (default: from MTL)")
	configPath  = flag.String("config", "", "Processing config JSON file")
	envFile     = flag.String("env", "", "Optional .env file with WATERTEMP_* overrides")
	pixelX      = flag.Int("x", -1, "Pixel column to look up (0-based)")
	pixelY      = flag.Int("y", -1, "Pixel row to look up (0-based)")
	noPrompt    = flag.Bool("no-prompt", false, "Do not prompt for a pixel to look up")
	histPNG     = flag.String("hist-png", "", "Write a water temperature histogram PNG")
	histHTML    = flag.String("hist-html", "", "Write an interactive water temperature histogram HTML page")
	maskPNG     = flag.String("mask-png", "", "Write a water mask quicklook PNG")
	dbPath      = flag.String("db", "", "SQLite run history database (overrides config db_path)")
	unitFlag    = flag.String("units", "", "Display units: c, f or k (overrides config units)")
	verbose     = flag.Bool("v", false, "Log pipeline diagnostics")
	showVersion = flag.Bool("version", false, "Print version and exit")
)

func main() {
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String())
		return
	}
	if *mtlPath == "" || flag.NArg() > 0 {
		flag.Usage()
		os.Exit(2)
	}
	if !*verbose {
		monitoring.SetLogger(nil)
	}

	if *envFile != "" {
		if err := config.LoadDotEnv(*envFile); err != nil {
			log.Fatalf("%v", err)
		}
	}
	cfg := config.EmptyProcessingConfig()
	if *configPath != "" {
		var err error
		if cfg, err = config.LoadProcessingConfig(*configPath); err != nil {
			log.Fatalf("failed to load config: %v", err)
		}
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		log.Fatalf("invalid environment: %v", err)
	}
	if *unitFlag != "" {
		if !units.IsValid(*unitFlag) {
			log.Fatalf("invalid -units %q: must be one of %s", *unitFlag, units.GetValidUnitsString())
		}
		cfg.Units = unitFlag
	}

	opts := runOptions{
		Config:       cfg,
		MetadataPath: *mtlPath,
		RedPath:      *redPath,
		NIRPath:      *nirPath,
		ThermalPath:  *thermalPath,
		X:            *pixelX,
		Y:            *pixelY,
		Prompt:       !*noPrompt,
		HistPNG:      *histPNG,
		HistHTML:     *histHTML,
		MaskPNG:      *maskPNG,
		DBPath:       *dbPath,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, opts, os.Stdin, os.Stdout); err != nil {
		log.Fatalf("%v", err)
	}
}
