//go:build gdal
// +build gdal

package raster

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/airbusgeo/godal"

	"github.com/banshee-data/watertemp/internal/monitoring"
)

var (
	registerGDAL sync.Once
	errNoBands   = errors.New("dataset has no raster bands")
)

// GDALReader reads band 1 of any GDAL-supported raster. gs:// paths are
// mapped onto GDAL's /vsigs/ virtual filesystem.
// This type is only available when building with the 'gdal' build tag.
type GDALReader struct{}

// NewGDALReader registers the GDAL drivers once and returns a reader.
func NewGDALReader() (Reader, error) {
	registerGDAL.Do(godal.RegisterAll)
	return &GDALReader{}, nil
}

// ReadBand opens path with GDAL and reads its first band as uint16.
func (GDALReader) ReadBand(ctx context.Context, path string) (*Band, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ds, err := godal.Open(gdalPath(path))
	if err != nil {
		return nil, &OpenError{Path: path, Err: err}
	}
	defer ds.Close()

	bands := ds.Bands()
	if len(bands) == 0 {
		return nil, &ReadError{Path: path, Err: errNoBands}
	}
	st := bands[0].Structure()
	samples := make([]uint16, st.SizeX*st.SizeY)
	if err := bands[0].Read(0, 0, samples, st.SizeX, st.SizeY); err != nil {
		return nil, &ReadError{Path: path, Err: err}
	}

	band, err := NewBand(path, st.SizeX, st.SizeY, samples)
	if err != nil {
		return nil, &ReadError{Path: path, Err: err}
	}
	monitoring.Logf("gdal read %s", band)
	return band, nil
}

func gdalPath(path string) string {
	if rest, ok := strings.CutPrefix(path, "gs://"); ok {
		return "/vsigs/" + rest
	}
	return path
}
