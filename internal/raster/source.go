package raster

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/banshee-data/watertemp/internal/fsutil"
)

// Source resolves a scene path to a byte stream. Paths may be local file
// paths or URLs with a scheme understood by the Source.
type Source interface {
	Open(ctx context.Context, path string) (io.ReadCloser, error)
}

// FileSource reads local files through a fsutil.FileSystem.
type FileSource struct {
	FS fsutil.FileSystem
}

// NewFileSource returns a FileSource backed by the OS filesystem.
func NewFileSource() *FileSource {
	return &FileSource{FS: fsutil.OSFileSystem{}}
}

// Open opens path for reading.
func (s *FileSource) Open(ctx context.Context, path string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := s.FS.Open(path)
	if err != nil {
		return nil, &OpenError{Path: path, Err: err}
	}
	return f, nil
}

// MultiSource dispatches on the path scheme ("gs", ...). Paths without a
// scheme go to Local.
type MultiSource struct {
	Local   Source
	Schemes map[string]Source
}

// Open routes path to the Source registered for its scheme.
func (m *MultiSource) Open(ctx context.Context, path string) (io.ReadCloser, error) {
	scheme, _, ok := strings.Cut(path, "://")
	if !ok {
		if m.Local == nil {
			return nil, &OpenError{Path: path, Err: fmt.Errorf("no local source configured")}
		}
		return m.Local.Open(ctx, path)
	}
	src, found := m.Schemes[scheme]
	if !found {
		return nil, &OpenError{Path: path, Err: fmt.Errorf("unsupported scheme %q", scheme)}
	}
	return src.Open(ctx, path)
}

// ReadAll opens path on src and returns its full contents.
func ReadAll(ctx context.Context, src Source, path string) ([]byte, error) {
	rc, err := src.Open(ctx, path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, &OpenError{Path: path, Err: err}
	}
	return data, nil
}
