// Package raster loads single-band scene rasters into dense sample grids.
//
// Responsibilities: resolving a band path to bytes (Source), decoding the
// first band of the file into a Band (Reader), and caching decoded bands on
// local disk (CachedReader).
//
// Backends: TIFFReader is pure Go and always available. GDALReader needs
// cgo and a GDAL install; build with -tags=gdal to enable it.
package raster
