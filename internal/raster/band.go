package raster

import "fmt"

// Band is an immutable row-major grid of unsigned 16-bit digital numbers.
type Band struct {
	Path    string
	Width   int
	Height  int
	Samples []uint16
}

// NewBand wraps samples in a Band after checking they fill width*height.
func NewBand(path string, width, height int, samples []uint16) (*Band, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid band dimensions %dx%d", width, height)
	}
	if len(samples) != width*height {
		return nil, fmt.Errorf("band %s has %d samples, want %d (%dx%d)", path, len(samples), width*height, width, height)
	}
	return &Band{Path: path, Width: width, Height: height, Samples: samples}, nil
}

// Len returns the number of pixels in the band.
func (b *Band) Len() int { return b.Width * b.Height }

// At returns the sample at column x, row y. Coordinates are 0-based and
// unchecked; callers validate with Contains first.
func (b *Band) At(x, y int) uint16 { return b.Samples[y*b.Width+x] }

// Contains reports whether (x, y) lies inside the band.
func (b *Band) Contains(x, y int) bool {
	return x >= 0 && x < b.Width && y >= 0 && y < b.Height
}

// SameSize reports whether other has identical width and height.
func (b *Band) SameSize(other *Band) bool {
	return b.Width == other.Width && b.Height == other.Height
}

func (b *Band) String() string {
	return fmt.Sprintf("%s (%dx%d)", b.Path, b.Width, b.Height)
}
