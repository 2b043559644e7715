// Package scene assembles a thermal.Engine from an MTL file and the red,
// near-infrared and thermal bands it describes.
package scene

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/banshee-data/watertemp/internal/monitoring"
	"github.com/banshee-data/watertemp/internal/mtl"
	"github.com/banshee-data/watertemp/internal/raster"
	"github.com/banshee-data/watertemp/internal/thermal"
)

// BandNumbers selects which product bands play each role.
type BandNumbers struct {
	Red     int
	NIR     int
	Thermal int
}

// Landsat8 is the band layout of Landsat 8 and 9 OLI/TIRS products.
var Landsat8 = BandNumbers{Red: 4, NIR: 5, Thermal: 10}

// Paths locates the files of one scene. Band paths left empty are filled
// from the metadata by ResolvePaths.
type Paths struct {
	Metadata string
	Red      string
	NIR      string
	Thermal  string
}

// Options configures Load.
type Options struct {
	Paths   Paths
	Bands   BandNumbers
	Source  raster.Source // used for the metadata file
	Reader  raster.Reader // used for the bands
	Workers int
}

// Scene is a loaded set of bands with its calibration and engine.
type Scene struct {
	ID       uuid.UUID
	Paths    Paths
	Metadata *mtl.Metadata
	Red      *raster.Band
	NIR      *raster.Band
	Thermal  *raster.Band
	Engine   *thermal.Engine
}

// DimensionMismatchError reports a band whose size differs from the red band.
type DimensionMismatchError struct {
	Band          string
	Path          string
	Width, Height int
	WantWidth     int
	WantHeight    int
}

func (e *DimensionMismatchError) Error() string {
	return fmt.Sprintf("%s band %s is %dx%d, want %dx%d to match the red band",
		e.Band, e.Path, e.Width, e.Height, e.WantWidth, e.WantHeight)
}

// Load parses the metadata, then reads the red, NIR and thermal bands in that
// order. Any failure aborts the load.
func Load(ctx context.Context, opts Options) (*Scene, error) {
	if opts.Bands == (BandNumbers{}) {
		opts.Bands = Landsat8
	}
	if opts.Source == nil {
		opts.Source = raster.NewFileSource()
	}
	if opts.Reader == nil {
		opts.Reader = &raster.TIFFReader{Source: opts.Source}
	}

	md, err := LoadMetadata(ctx, opts.Source, opts.Paths.Metadata, opts.Bands.Thermal)
	if err != nil {
		return nil, err
	}
	paths, err := ResolvePaths(opts.Paths, md, opts.Bands)
	if err != nil {
		return nil, err
	}

	s := &Scene{ID: uuid.New(), Paths: paths, Metadata: md}
	monitoring.Logf("scene %s: loading %s", s.ID, md.ProductID())

	loads := []struct {
		name string
		path string
		dst  **raster.Band
	}{
		{"red", paths.Red, &s.Red},
		{"NIR", paths.NIR, &s.NIR},
		{"thermal", paths.Thermal, &s.Thermal},
	}
	for _, l := range loads {
		done := monitoring.Timed("load " + l.name + " band")
		band, err := opts.Reader.ReadBand(ctx, l.path)
		done()
		if err != nil {
			return nil, fmt.Errorf("failed to load %s band: %w", l.name, err)
		}
		if s.Red != nil && !band.SameSize(s.Red) {
			return nil, &DimensionMismatchError{
				Band: l.name, Path: l.path,
				Width: band.Width, Height: band.Height,
				WantWidth: s.Red.Width, WantHeight: s.Red.Height,
			}
		}
		*l.dst = band
	}

	s.Engine, err = thermal.NewEngine(s.Red, s.NIR, s.Thermal, md.Calibration, opts.Workers)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// LoadMetadata opens path on src and parses it for thermalBand.
func LoadMetadata(ctx context.Context, src raster.Source, path string, thermalBand int) (*mtl.Metadata, error) {
	if path == "" {
		return nil, fmt.Errorf("no metadata file given")
	}
	rc, err := src.Open(ctx, path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	md, err := mtl.Parse(rc, thermalBand)
	if err != nil {
		return nil, fmt.Errorf("failed to parse metadata %s: %w", path, err)
	}
	return md, nil
}

// ResolvePaths fills empty band paths from FILE_NAME_BAND_N entries, taken
// relative to the directory of the metadata file. URL-style paths such as
// gs://bucket/dir/MTL.txt resolve against their last slash.
func ResolvePaths(p Paths, md *mtl.Metadata, bands BandNumbers) (Paths, error) {
	resolve := func(current string, band int) (string, error) {
		if current != "" {
			return current, nil
		}
		name, ok := md.BandFileName(band)
		if !ok {
			return "", fmt.Errorf("no path given for band %d and metadata has no %s", band, mtl.FileNameKey(band))
		}
		return siblingPath(p.Metadata, name), nil
	}

	var err error
	if p.Red, err = resolve(p.Red, bands.Red); err != nil {
		return Paths{}, err
	}
	if p.NIR, err = resolve(p.NIR, bands.NIR); err != nil {
		return Paths{}, err
	}
	if p.Thermal, err = resolve(p.Thermal, bands.Thermal); err != nil {
		return Paths{}, err
	}
	return p, nil
}

func siblingPath(metadataPath, name string) string {
	if strings.Contains(metadataPath, "://") {
		i := strings.LastIndex(metadataPath, "/")
		return metadataPath[:i+1] + name
	}
	return filepath.Join(filepath.Dir(metadataPath), name)
}
