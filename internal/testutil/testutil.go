// Package testutil provides shared test fixtures: small GeoTIFF-like bands
// and MTL metadata text.
package testutil

import (
	"bytes"
	"image"
	"os"
	"testing"

	"golang.org/x/image/tiff"
)

// Landsat8MTL is a minimal metadata file for a scene whose bands are named
// B4.TIF, B5.TIF and B10.TIF next to it.
const Landsat8MTL = `GROUP = LANDSAT_METADATA_FILE
  GROUP = PRODUCT_CONTENTS
    LANDSAT_PRODUCT_ID = "LC08_FIXTURE"
    FILE_NAME_BAND_4 = "B4.TIF"
    FILE_NAME_BAND_5 = "B5.TIF"
    FILE_NAME_BAND_10 = "B10.TIF"
  END_GROUP = PRODUCT_CONTENTS
  GROUP = LEVEL1_RADIOMETRIC_RESCALING
    RADIANCE_MULT_BAND_10 = 3.3420E-04
    RADIANCE_ADD_BAND_10 = 0.10000
  END_GROUP = LEVEL1_RADIOMETRIC_RESCALING
  GROUP = LEVEL1_THERMAL_CONSTANTS
    K1_CONSTANT_BAND_10 = 774.8853
    K2_CONSTANT_BAND_10 = 1321.0789
  END_GROUP = LEVEL1_THERMAL_CONSTANTS
END_GROUP = LANDSAT_METADATA_FILE
END
`

// EncodeGray16TIFF returns a 16-bit grayscale TIFF holding samples in
// row-major order.
func EncodeGray16TIFF(t *testing.T, width, height int, samples ...uint16) []byte {
	t.Helper()
	if len(samples) != width*height {
		t.Fatalf("fixture has %d samples, want %d", len(samples), width*height)
	}
	img := image.NewGray16(image.Rect(0, 0, width, height))
	for i, v := range samples {
		img.Pix[2*i] = uint8(v >> 8)
		img.Pix[2*i+1] = uint8(v)
	}
	var buf bytes.Buffer
	if err := tiff.Encode(&buf, img, &tiff.Options{Compression: tiff.Deflate}); err != nil {
		t.Fatalf("encode tiff: %v", err)
	}
	return buf.Bytes()
}

// FileWriter is the subset of a filesystem fixtures are written through.
type FileWriter interface {
	WriteFile(name string, data []byte, perm os.FileMode) error
}

// WriteGray16TIFF encodes samples and writes them to path on fsys.
func WriteGray16TIFF(t *testing.T, fsys FileWriter, path string, width, height int, samples ...uint16) {
	t.Helper()
	if err := fsys.WriteFile(path, EncodeGray16TIFF(t, width, height, samples...), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// AssertNoError fails the test if err is not nil.
func AssertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// AssertError fails the test if err is nil.
func AssertError(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("expected error, got nil")
	}
}
