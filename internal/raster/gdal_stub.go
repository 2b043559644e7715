//go:build !gdal
// +build !gdal

package raster

import "fmt"

// NewGDALReader is a stub implementation when GDAL support is disabled.
// Build with -tags=gdal to enable the GDAL backend.
func NewGDALReader() (Reader, error) {
	return nil, fmt.Errorf("GDAL support not enabled: rebuild with -tags=gdal to use the gdal raster backend")
}
