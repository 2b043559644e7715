package scene

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/watertemp/internal/fsutil"
	"github.com/banshee-data/watertemp/internal/mtl"
	"github.com/banshee-data/watertemp/internal/raster"
	"github.com/banshee-data/watertemp/internal/testutil"
	"github.com/banshee-data/watertemp/internal/thermal"
)

const testMTL = `GROUP = LANDSAT_METADATA_FILE
  LANDSAT_PRODUCT_ID = "LC09_TEST"
  FILE_NAME_BAND_4 = "LC09_TEST_B4.TIF"
  FILE_NAME_BAND_5 = "LC09_TEST_B5.TIF"
  FILE_NAME_BAND_10 = "LC09_TEST_B10.TIF"
  RADIANCE_MULT_BAND_10 = 3.8000E-04
  RADIANCE_ADD_BAND_10 = 0.10000
  K1_CONSTANT_BAND_10 = 799.0284
  K2_CONSTANT_BAND_10 = 1329.2405
END_GROUP = LANDSAT_METADATA_FILE
END
`

func fixture(t *testing.T) *fsutil.MemoryFileSystem {
	mfs := fsutil.NewMemoryFileSystem()
	require.NoError(t, mfs.WriteFile("/data/LC09_TEST_MTL.txt", []byte(testMTL), 0o644))
	testutil.WriteGray16TIFF(t, mfs, "/data/LC09_TEST_B4.TIF", 2, 2, 300, 100, 100, 100)
	testutil.WriteGray16TIFF(t, mfs, "/data/LC09_TEST_B5.TIF", 2, 2, 100, 300, 100, 200)
	testutil.WriteGray16TIFF(t, mfs, "/data/LC09_TEST_B10.TIF", 2, 2, 24000, 30000, 30000, 30000)
	return mfs
}

func TestLoad(t *testing.T) {
	mfs := fixture(t)

	s, err := Load(context.Background(), Options{
		Paths:  Paths{Metadata: "/data/LC09_TEST_MTL.txt"},
		Source: &raster.FileSource{FS: mfs},
	})
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, s.ID)
	assert.Equal(t, "/data/LC09_TEST_B10.TIF", s.Paths.Thermal)
	assert.Equal(t, "LC09_TEST", s.Metadata.ProductID())
	assert.Equal(t, 2, s.Red.Width)
	assert.Equal(t, thermal.IndexUninitialized, s.Engine.State())

	avg, err := s.Engine.AverageTemperature()
	require.NoError(t, err)
	want := thermal.Celsius(thermal.KelvinAt(s.Metadata.Calibration, 24000))
	assert.Equal(t, want, avg)
}

func TestLoad_DimensionMismatch(t *testing.T) {
	mfs := fixture(t)
	testutil.WriteGray16TIFF(t, mfs, "/data/LC09_TEST_B10.TIF", 4, 1, 1, 2, 3, 4)

	_, err := Load(context.Background(), Options{
		Paths:  Paths{Metadata: "/data/LC09_TEST_MTL.txt"},
		Source: &raster.FileSource{FS: mfs},
	})

	var dimErr *DimensionMismatchError
	require.ErrorAs(t, err, &dimErr)
	assert.Equal(t, "thermal", dimErr.Band)
	assert.Equal(t, 4, dimErr.Width)
	assert.Equal(t, 2, dimErr.WantWidth)
}

func TestLoad_MissingBand(t *testing.T) {
	mfs := fixture(t)

	_, err := Load(context.Background(), Options{
		Paths:  Paths{Metadata: "/data/LC09_TEST_MTL.txt", NIR: "/data/absent_B5.TIF"},
		Source: &raster.FileSource{FS: mfs},
	})

	var openErr *raster.OpenError
	require.ErrorAs(t, err, &openErr)
	assert.Equal(t, "/data/absent_B5.TIF", openErr.Path)
	assert.Contains(t, err.Error(), "NIR band")
}

func TestLoad_MissingMetadata(t *testing.T) {
	_, err := Load(context.Background(), Options{
		Paths:  Paths{Metadata: "/nowhere/MTL.txt"},
		Source: &raster.FileSource{FS: fsutil.NewMemoryFileSystem()},
	})
	var openErr *raster.OpenError
	assert.ErrorAs(t, err, &openErr)
}

func TestLoad_IncompleteMetadata(t *testing.T) {
	mfs := fixture(t)
	broken := strings.Replace(testMTL, "K1_CONSTANT_BAND_10", "K1_CONSTANT_BAND_11", 1)
	require.NoError(t, mfs.WriteFile("/data/LC09_TEST_MTL.txt", []byte(broken), 0o644))

	_, err := Load(context.Background(), Options{
		Paths:  Paths{Metadata: "/data/LC09_TEST_MTL.txt"},
		Source: &raster.FileSource{FS: mfs},
	})

	var incomplete *mtl.MetadataIncompleteError
	require.ErrorAs(t, err, &incomplete)
	assert.Equal(t, []string{"K1_CONSTANT_BAND_10"}, incomplete.Missing)
}

func TestResolvePaths(t *testing.T) {
	md, err := mtl.Parse(strings.NewReader(testMTL), 10)
	require.NoError(t, err)

	t.Run("local", func(t *testing.T) {
		p, err := ResolvePaths(Paths{Metadata: "/data/LC09_TEST_MTL.txt", Red: "/elsewhere/red.TIF"}, md, Landsat8)
		require.NoError(t, err)
		assert.Equal(t, Paths{
			Metadata: "/data/LC09_TEST_MTL.txt",
			Red:      "/elsewhere/red.TIF",
			NIR:      "/data/LC09_TEST_B5.TIF",
			Thermal:  "/data/LC09_TEST_B10.TIF",
		}, p)
	})

	t.Run("gcs", func(t *testing.T) {
		p, err := ResolvePaths(Paths{Metadata: "gs://bucket/LC09/LC09_TEST_MTL.txt"}, md, Landsat8)
		require.NoError(t, err)
		assert.Equal(t, "gs://bucket/LC09/LC09_TEST_B4.TIF", p.Red)
	})

	t.Run("unknown band", func(t *testing.T) {
		_, err := ResolvePaths(Paths{Metadata: "/data/MTL.txt"}, md, BandNumbers{Red: 2, NIR: 5, Thermal: 10})
		assert.ErrorContains(t, err, "FILE_NAME_BAND_2")
	})
}
