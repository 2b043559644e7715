package raster

import (
	"context"
	"fmt"
)

// Backend names accepted by NewReader.
const (
	BackendTIFF = "tiff"
	BackendGDAL = "gdal"
)

// Reader loads the first band of a raster file.
type Reader interface {
	ReadBand(ctx context.Context, path string) (*Band, error)
}

// NewReader returns the Reader for backend. The TIFF backend reads through
// src; GDAL resolves paths itself.
func NewReader(backend string, src Source) (Reader, error) {
	switch backend {
	case "", BackendTIFF:
		return &TIFFReader{Source: src}, nil
	case BackendGDAL:
		return NewGDALReader()
	default:
		return nil, fmt.Errorf("unknown raster backend %q", backend)
	}
}
