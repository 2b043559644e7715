package raster

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/watertemp/internal/fsutil"
)

func TestCachedReader_MissThenHit(t *testing.T) {
	band, err := NewBand("/scene/B10.TIF", 3, 2, []uint16{10, 20, 30, 40000, 50000, 65535})
	require.NoError(t, err)
	inner := &countingReader{band: band}
	mfs := fsutil.NewMemoryFileSystem()
	c := &CachedReader{Reader: inner, FS: mfs, Dir: "/cache"}

	first, err := c.ReadBand(context.Background(), "/scene/B10.TIF")
	require.NoError(t, err)
	assert.Same(t, band, first)
	assert.Equal(t, 1, inner.calls)
	_, err = mfs.ReadFile(c.entryPath("/scene/B10.TIF"))
	assert.NoError(t, err, "entry should be written on miss")

	second, err := c.ReadBand(context.Background(), "/scene/B10.TIF")
	require.NoError(t, err)
	assert.Equal(t, 1, inner.calls, "second read should be served from cache")
	assert.Equal(t, band.Samples, second.Samples)
	assert.Equal(t, band.Width, second.Width)
	assert.Equal(t, band.Height, second.Height)
	assert.Equal(t, "/scene/B10.TIF", second.Path)
}

func TestCachedReader_DistinctPathsDistinctEntries(t *testing.T) {
	c := &CachedReader{Dir: "/cache"}
	assert.NotEqual(t, c.entryPath("/scene/B4.TIF"), c.entryPath("/scene/B5.TIF"))
}

func TestCachedReader_RelativePathsKeyedByDirectory(t *testing.T) {
	c := &CachedReader{Dir: "/cache"}
	a, b := t.TempDir(), t.TempDir()

	t.Chdir(a)
	fromA := c.entryPath("B4.TIF")
	assert.Equal(t, c.entryPath(filepath.Join(a, "B4.TIF")), fromA)
	remote := c.entryPath("gs://bucket/scene/B4.TIF")

	t.Chdir(b)
	assert.NotEqual(t, fromA, c.entryPath("B4.TIF"))
	assert.Equal(t, remote, c.entryPath("gs://bucket/scene/B4.TIF"))
}

func TestCachedReader_CorruptEntryIsReplaced(t *testing.T) {
	band, _ := NewBand("/b.TIF", 1, 1, []uint16{42})
	inner := &countingReader{band: band}
	mfs := fsutil.NewMemoryFileSystem()
	c := &CachedReader{Reader: inner, FS: mfs, Dir: "/cache"}
	require.NoError(t, mfs.WriteFile(c.entryPath("/b.TIF"), []byte("WTB1garbage"), 0o644))

	got, err := c.ReadBand(context.Background(), "/b.TIF")
	require.NoError(t, err)
	assert.Equal(t, []uint16{42}, got.Samples)
	assert.Equal(t, 1, inner.calls)

	again, err := c.ReadBand(context.Background(), "/b.TIF")
	require.NoError(t, err)
	assert.Equal(t, []uint16{42}, again.Samples)
	assert.Equal(t, 1, inner.calls, "rewritten entry should now be valid")
}

func TestCachedReader_PropagatesReadErrors(t *testing.T) {
	wantErr := &OpenError{Path: "/missing.TIF", Err: errors.New("no such file")}
	c := &CachedReader{Reader: &countingReader{err: wantErr}, FS: fsutil.NewMemoryFileSystem(), Dir: "/cache"}

	_, err := c.ReadBand(context.Background(), "/missing.TIF")
	assert.ErrorIs(t, err, wantErr)
}

func TestDecodeCacheEntry_SizeMismatch(t *testing.T) {
	band, _ := NewBand("/b.TIF", 2, 2, []uint16{1, 2, 3, 4})
	data := encodeCacheEntry(band)
	data[4] = 9 // claim width 9

	_, err := decodeCacheEntry("/b.TIF", data)
	assert.Error(t, err)
}
