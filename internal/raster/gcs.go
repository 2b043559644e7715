package raster

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"cloud.google.com/go/storage"
)

// GCSSource reads objects addressed as gs://bucket/object, such as the
// public Landsat archive.
type GCSSource struct {
	Client *storage.Client
	// Timeout bounds a single object read; zero means no extra deadline.
	Timeout time.Duration
}

// NewGCSSource creates a storage client using application default
// credentials.
func NewGCSSource(ctx context.Context, timeout time.Duration) (*GCSSource, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("error creating storage client: %w", err)
	}
	return &GCSSource{Client: client, Timeout: timeout}, nil
}

// Close releases the storage client.
func (s *GCSSource) Close() error {
	return s.Client.Close()
}

// Open returns a reader for the object named by path.
func (s *GCSSource) Open(ctx context.Context, path string) (io.ReadCloser, error) {
	bucket, object, err := SplitGCSPath(path)
	if err != nil {
		return nil, &OpenError{Path: path, Err: err}
	}

	cancel := func() {}
	if s.Timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, s.Timeout)
	}
	r, err := s.Client.Bucket(bucket).Object(object).NewReader(ctx)
	if err != nil {
		cancel()
		return nil, &OpenError{Path: path, Err: err}
	}
	return &cancelReader{ReadCloser: r, cancel: cancel}, nil
}

// SplitGCSPath splits gs://bucket/object into its bucket and object names.
func SplitGCSPath(path string) (bucket, object string, err error) {
	rest, ok := strings.CutPrefix(path, "gs://")
	if !ok {
		return "", "", fmt.Errorf("not a gs:// path: %q", path)
	}
	bucket, object, ok = strings.Cut(rest, "/")
	if !ok || bucket == "" || object == "" {
		return "", "", fmt.Errorf("gs path %q must name a bucket and an object", path)
	}
	return bucket, object, nil
}

type cancelReader struct {
	io.ReadCloser
	cancel context.CancelFunc
}

func (r *cancelReader) Close() error {
	defer r.cancel()
	return r.ReadCloser.Close()
}
