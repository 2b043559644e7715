package raster

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/golang/snappy"

	"github.com/banshee-data/watertemp/internal/fsutil"
	"github.com/banshee-data/watertemp/internal/monitoring"
)

const (
	cacheMagic     = "WTB1"
	cacheHeaderLen = len(cacheMagic) + 8
	cacheExt       = ".snp"
)

// CachedReader keeps decoded bands on local disk as snappy-compressed
// sample dumps, so repeated runs over a scene skip decoding and downloads.
// Entries are keyed by absolute path or URL; scene products are treated as
// immutable.
type CachedReader struct {
	Reader Reader
	FS     fsutil.FileSystem
	Dir    string
}

// NewCachedReader wraps r with a cache rooted at dir on the OS filesystem.
func NewCachedReader(r Reader, dir string) *CachedReader {
	return &CachedReader{Reader: r, FS: fsutil.OSFileSystem{}, Dir: dir}
}

// ReadBand serves path from the cache, falling back to the wrapped Reader.
// Cache write failures are logged and do not fail the read.
func (c *CachedReader) ReadBand(ctx context.Context, path string) (*Band, error) {
	entry := c.entryPath(path)

	band, err := c.load(entry, path)
	if err == nil {
		monitoring.Logf("band cache hit for %s", path)
		return band, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		monitoring.Logf("ignoring band cache entry %s: %v", entry, err)
	}

	band, err = c.Reader.ReadBand(ctx, path)
	if err != nil {
		return nil, err
	}
	if err := c.store(entry, band); err != nil {
		monitoring.Logf("failed to write band cache entry %s: %v", entry, err)
	}
	return band, nil
}

// entryPath keys local paths by their absolute form so the same relative
// name in two directories maps to two entries. URLs are keyed as given.
func (c *CachedReader) entryPath(path string) string {
	key := path
	if !strings.Contains(path, "://") {
		if abs, err := filepath.Abs(path); err == nil {
			key = abs
		}
	}
	sum := sha256.Sum256([]byte(key))
	return filepath.Join(c.Dir, hex.EncodeToString(sum[:16])+cacheExt)
}

func (c *CachedReader) load(entry, path string) (*Band, error) {
	data, err := c.FS.ReadFile(entry)
	if err != nil {
		return nil, err
	}
	return decodeCacheEntry(path, data)
}

func (c *CachedReader) store(entry string, band *Band) error {
	if err := c.FS.MkdirAll(c.Dir, 0o755); err != nil {
		return err
	}
	return c.FS.WriteFile(entry, encodeCacheEntry(band), 0o644)
}

func encodeCacheEntry(band *Band) []byte {
	raw := make([]byte, 2*len(band.Samples))
	for i, v := range band.Samples {
		binary.LittleEndian.PutUint16(raw[2*i:], v)
	}

	out := make([]byte, cacheHeaderLen, cacheHeaderLen+snappy.MaxEncodedLen(len(raw)))
	copy(out, cacheMagic)
	binary.LittleEndian.PutUint32(out[4:], uint32(band.Width))
	binary.LittleEndian.PutUint32(out[8:], uint32(band.Height))
	return append(out, snappy.Encode(nil, raw)...)
}

func decodeCacheEntry(path string, data []byte) (*Band, error) {
	if len(data) < cacheHeaderLen || string(data[:len(cacheMagic)]) != cacheMagic {
		return nil, errors.New("not a band cache entry")
	}
	width := int(binary.LittleEndian.Uint32(data[4:]))
	height := int(binary.LittleEndian.Uint32(data[8:]))

	raw, err := snappy.Decode(nil, data[cacheHeaderLen:])
	if err != nil {
		return nil, fmt.Errorf("error decompressing cache entry: %w", err)
	}
	if len(raw) != 2*width*height {
		return nil, fmt.Errorf("cache entry holds %d bytes, want %d", len(raw), 2*width*height)
	}

	samples := make([]uint16, width*height)
	for i := range samples {
		samples[i] = binary.LittleEndian.Uint16(raw[2*i:])
	}
	return NewBand(path, width, height, samples)
}
