package raster

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSource struct {
	name   string
	opened []string
}

func (s *stubSource) Open(ctx context.Context, path string) (io.ReadCloser, error) {
	s.opened = append(s.opened, path)
	return io.NopCloser(strings.NewReader(s.name)), nil
}

func TestMultiSource_RoutesByScheme(t *testing.T) {
	local := &stubSource{name: "local"}
	gcs := &stubSource{name: "gcs"}
	m := &MultiSource{Local: local, Schemes: map[string]Source{"gs": gcs}}

	data, err := ReadAll(context.Background(), m, "scenes/LC09_B4.TIF")
	require.NoError(t, err)
	assert.Equal(t, "local", string(data))

	data, err = ReadAll(context.Background(), m, "gs://gcp-public-data-landsat/LC08/B4.TIF")
	require.NoError(t, err)
	assert.Equal(t, "gcs", string(data))

	assert.Equal(t, []string{"scenes/LC09_B4.TIF"}, local.opened)
	assert.Equal(t, []string{"gs://gcp-public-data-landsat/LC08/B4.TIF"}, gcs.opened)
}

func TestMultiSource_UnknownScheme(t *testing.T) {
	m := &MultiSource{Local: &stubSource{}}
	_, err := m.Open(context.Background(), "s3://bucket/key")

	var openErr *OpenError
	require.ErrorAs(t, err, &openErr)
	assert.Contains(t, err.Error(), `unsupported scheme "s3"`)
}

func TestSplitGCSPath(t *testing.T) {
	tests := []struct {
		path       string
		wantBucket string
		wantObject string
		wantErr    bool
	}{
		{"gs://bucket/a/b/c.TIF", "bucket", "a/b/c.TIF", false},
		{"gs://bucket/x", "bucket", "x", false},
		{"gs://bucket", "", "", true},
		{"gs://bucket/", "", "", true},
		{"gs:///object", "", "", true},
		{"/local/file.TIF", "", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			bucket, object, err := SplitGCSPath(tt.path)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantBucket, bucket)
			assert.Equal(t, tt.wantObject, object)
		})
	}
}
