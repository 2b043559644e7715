package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/banshee-data/watertemp/internal/units"
)

// Defaults applied by the Get* accessors when a field is unset.
const (
	DefaultRedBand         = 4
	DefaultNIRBand         = 5
	DefaultThermalBand     = 10
	DefaultRasterBackend   = "tiff"
	DefaultHistogramBins   = 40
	DefaultQuicklookMaxDim = 1024
	DefaultGCSReadTimeout  = 2 * time.Minute
	DefaultUnits           = units.Celsius
)

// Environment variables consulted by ApplyEnv.
const (
	EnvWorkers       = "WATERTEMP_WORKERS"
	EnvCacheDir      = "WATERTEMP_CACHE_DIR"
	EnvDBPath        = "WATERTEMP_DB_PATH"
	EnvRasterBackend = "WATERTEMP_RASTER_BACKEND"
	EnvUnits         = "WATERTEMP_UNITS"
)

// ProcessingConfig holds the scene processing options. Every field is
// optional; the Get* methods supply defaults for anything left nil.
type ProcessingConfig struct {
	// Band numbers within the product
	RedBand     *int `json:"red_band,omitempty"`
	NIRBand     *int `json:"nir_band,omitempty"`
	ThermalBand *int `json:"thermal_band,omitempty"`

	// Execution
	Workers       *int    `json:"workers,omitempty"` // 0 uses GOMAXPROCS
	RasterBackend *string `json:"raster_backend,omitempty"`
	CacheDir      *string `json:"cache_dir,omitempty"`
	DBPath        *string `json:"db_path,omitempty"`

	// Reports
	Units           *string `json:"units,omitempty"` // c, f or k
	HistogramBins   *int    `json:"histogram_bins,omitempty"`
	QuicklookMaxDim *int    `json:"quicklook_max_dim,omitempty"`

	GCSReadTimeout *string `json:"gcs_read_timeout,omitempty"` // duration string like "2m"
}

func ptrInt(v int) *int          { return &v }
func ptrString(v string) *string { return &v }

// EmptyProcessingConfig returns a ProcessingConfig with all fields nil.
func EmptyProcessingConfig() *ProcessingConfig {
	return &ProcessingConfig{}
}

// LoadProcessingConfig loads a ProcessingConfig from a JSON file. The file
// must have a .json extension and be under 1MB. Omitted fields keep their
// defaults.
func LoadProcessingConfig(path string) (*ProcessingConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyProcessingConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// LoadDotEnv loads KEY=VALUE pairs from path into the process environment.
// Variables already set are not overridden.
func LoadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load env file %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overrides fields from WATERTEMP_* variables found by lookup
// (normally os.LookupEnv), then revalidates.
func (c *ProcessingConfig) ApplyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvWorkers); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvWorkers, v, err)
		}
		c.Workers = ptrInt(n)
	}
	if v, ok := lookup(EnvCacheDir); ok {
		c.CacheDir = ptrString(v)
	}
	if v, ok := lookup(EnvDBPath); ok {
		c.DBPath = ptrString(v)
	}
	if v, ok := lookup(EnvRasterBackend); ok && v != "" {
		c.RasterBackend = ptrString(v)
	}
	if v, ok := lookup(EnvUnits); ok && v != "" {
		c.Units = ptrString(v)
	}
	return c.Validate()
}

// Validate checks that the configured values are usable.
func (c *ProcessingConfig) Validate() error {
	for _, b := range []struct {
		name string
		v    *int
	}{
		{"red_band", c.RedBand},
		{"nir_band", c.NIRBand},
		{"thermal_band", c.ThermalBand},
	} {
		if b.v != nil && *b.v <= 0 {
			return fmt.Errorf("%s must be positive, got %d", b.name, *b.v)
		}
	}

	if c.Workers != nil && *c.Workers < 0 {
		return fmt.Errorf("workers must be non-negative, got %d", *c.Workers)
	}

	if c.RasterBackend != nil {
		switch *c.RasterBackend {
		case "", "tiff", "gdal":
		default:
			return fmt.Errorf("raster_backend must be \"tiff\" or \"gdal\", got %q", *c.RasterBackend)
		}
	}

	if c.Units != nil && !units.IsValid(*c.Units) {
		return fmt.Errorf("units must be one of %s, got %q", units.GetValidUnitsString(), *c.Units)
	}

	if c.HistogramBins != nil && *c.HistogramBins < 1 {
		return fmt.Errorf("histogram_bins must be at least 1, got %d", *c.HistogramBins)
	}
	if c.QuicklookMaxDim != nil && *c.QuicklookMaxDim < 1 {
		return fmt.Errorf("quicklook_max_dim must be at least 1, got %d", *c.QuicklookMaxDim)
	}

	if c.GCSReadTimeout != nil && *c.GCSReadTimeout != "" {
		if _, err := time.ParseDuration(*c.GCSReadTimeout); err != nil {
			return fmt.Errorf("invalid gcs_read_timeout '%s': %w", *c.GCSReadTimeout, err)
		}
	}
	return nil
}

func intOr(p *int, def int) int {
	if p == nil {
		return def
	}
	return *p
}

func (c *ProcessingConfig) GetRedBand() int     { return intOr(c.RedBand, DefaultRedBand) }
func (c *ProcessingConfig) GetNIRBand() int     { return intOr(c.NIRBand, DefaultNIRBand) }
func (c *ProcessingConfig) GetThermalBand() int { return intOr(c.ThermalBand, DefaultThermalBand) }
func (c *ProcessingConfig) GetWorkers() int     { return intOr(c.Workers, 0) }

// GetRasterBackend returns the raster backend name or "tiff".
func (c *ProcessingConfig) GetRasterBackend() string {
	if c.RasterBackend == nil || *c.RasterBackend == "" {
		return DefaultRasterBackend
	}
	return *c.RasterBackend
}

// GetCacheDir returns the band cache directory; empty disables caching.
func (c *ProcessingConfig) GetCacheDir() string {
	if c.CacheDir == nil {
		return ""
	}
	return *c.CacheDir
}

// GetDBPath returns the run history database path; empty disables it.
func (c *ProcessingConfig) GetDBPath() string {
	if c.DBPath == nil {
		return ""
	}
	return *c.DBPath
}

// GetUnits returns the display temperature unit, Celsius by default.
func (c *ProcessingConfig) GetUnits() string {
	if c.Units == nil || *c.Units == "" {
		return DefaultUnits
	}
	return *c.Units
}

func (c *ProcessingConfig) GetHistogramBins() int {
	return intOr(c.HistogramBins, DefaultHistogramBins)
}

func (c *ProcessingConfig) GetQuicklookMaxDim() int {
	return intOr(c.QuicklookMaxDim, DefaultQuicklookMaxDim)
}

// GetGCSReadTimeout parses GCSReadTimeout, falling back to two minutes.
func (c *ProcessingConfig) GetGCSReadTimeout() time.Duration {
	if c.GCSReadTimeout == nil || *c.GCSReadTimeout == "" {
		return DefaultGCSReadTimeout
	}
	d, err := time.ParseDuration(*c.GCSReadTimeout)
	if err != nil {
		return DefaultGCSReadTimeout // default on parse error
	}
	return d
}
