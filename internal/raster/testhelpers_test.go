package raster

import (
	"context"
	"testing"

	"github.com/banshee-data/watertemp/internal/fsutil"
	"github.com/banshee-data/watertemp/internal/testutil"
)

func writeGray16TIFF(t *testing.T, mfs *fsutil.MemoryFileSystem, path string, width, height int, samples []uint16) {
	t.Helper()
	testutil.WriteGray16TIFF(t, mfs, path, width, height, samples...)
}

// countingReader serves a fixed band and counts how often it was asked.
type countingReader struct {
	band  *Band
	err   error
	calls int
}

func (r *countingReader) ReadBand(ctx context.Context, path string) (*Band, error) {
	r.calls++
	if r.err != nil {
		return nil, r.err
	}
	return r.band, nil
}
