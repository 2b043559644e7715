package mtl

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleMTL = `GROUP = LANDSAT_METADATA_FILE
  GROUP = PRODUCT_CONTENTS
    LANDSAT_PRODUCT_ID = "LC08_L1TP_044034_20210508_20210518_02_T1"
    FILE_NAME_BAND_1 = "LC08_L1TP_044034_20210508_20210518_02_T1_B1.TIF"
    FILE_NAME_BAND_4 = "LC08_L1TP_044034_20210508_20210518_02_T1_B4.TIF"
    FILE_NAME_BAND_5 = "LC08_L1TP_044034_20210508_20210518_02_T1_B5.TIF"
    FILE_NAME_BAND_10 = "LC08_L1TP_044034_20210508_20210518_02_T1_B10.TIF"
  END_GROUP = PRODUCT_CONTENTS
  GROUP = IMAGE_ATTRIBUTES
    SPACECRAFT_ID = "LANDSAT_8"
    DATE_ACQUIRED = 2021-05-08
  END_GROUP = IMAGE_ATTRIBUTES
  GROUP = LEVEL1_RADIOMETRIC_RESCALING
    RADIANCE_MULT_BAND_1 = 1.2345E-02
    RADIANCE_MULT_BAND_10 = 3.3420E-04
    RADIANCE_ADD_BAND_1 = -61.72
    RADIANCE_ADD_BAND_10 = 0.10000
  END_GROUP = LEVEL1_RADIOMETRIC_RESCALING
  GROUP = LEVEL1_THERMAL_CONSTANTS
    K1_CONSTANT_BAND_10 = 774.8853
    K2_CONSTANT_BAND_10 = 1321.0789
  END_GROUP = LEVEL1_THERMAL_CONSTANTS
END_GROUP = LANDSAT_METADATA_FILE
END
`

var sampleCalibration = Calibration{
	RadianceMult: 3.342e-4,
	RadianceAdd:  0.1,
	K1:           774.8853,
	K2:           1321.0789,
}

func TestParse(t *testing.T) {
	md, err := Parse(strings.NewReader(sampleMTL), DefaultThermalBand)
	require.NoError(t, err)

	if diff := cmp.Diff(sampleCalibration, md.Calibration); diff != "" {
		t.Errorf("calibration mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, "LC08_L1TP_044034_20210508_20210518_02_T1", md.ProductID())
	assert.Equal(t, "LANDSAT_8", md.SpacecraftID())
	assert.Equal(t, "2021-05-08", md.DateAcquired())

	name, ok := md.BandFileName(10)
	assert.True(t, ok)
	assert.Equal(t, "LC08_L1TP_044034_20210508_20210518_02_T1_B10.TIF", name)

	_, ok = md.BandFileName(11)
	assert.False(t, ok)
}

func TestParse_Idempotent(t *testing.T) {
	a, err := ParseCalibration(strings.NewReader(sampleMTL), DefaultThermalBand)
	require.NoError(t, err)
	b, err := ParseCalibration(strings.NewReader(sampleMTL), DefaultThermalBand)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestParse_OrderIndependent(t *testing.T) {
	reversed := `K2_CONSTANT_BAND_10 = 1321.0789
K1_CONSTANT_BAND_10 = 774.8853
RADIANCE_ADD_BAND_10 = 0.10000
RADIANCE_MULT_BAND_10 = 3.3420E-04
`
	cal, err := ParseCalibration(strings.NewReader(reversed), DefaultThermalBand)
	require.NoError(t, err)
	if diff := cmp.Diff(sampleCalibration, cal); diff != "" {
		t.Errorf("calibration mismatch (-want +got):\n%s", diff)
	}
}

func TestParse_BandPrefixDoesNotMatch(t *testing.T) {
	// Band 1 keys are prefixes of band 10 keys and must not fill band 10 slots.
	cal, err := ParseCalibration(strings.NewReader(sampleMTL), 1)
	var incomplete *MetadataIncompleteError
	require.ErrorAs(t, err, &incomplete)
	assert.Equal(t, []string{"K1_CONSTANT_BAND_1", "K2_CONSTANT_BAND_1"}, incomplete.Missing)
	assert.Equal(t, Calibration{}, cal)
}

func TestParse_FirstOccurrenceWins(t *testing.T) {
	text := `RADIANCE_MULT_BAND_10 = 2
RADIANCE_ADD_BAND_10 = 3
K1_CONSTANT_BAND_10 = 4
K2_CONSTANT_BAND_10 = 5
RADIANCE_MULT_BAND_10 = 99
`
	cal, err := ParseCalibration(strings.NewReader(text), DefaultThermalBand)
	require.NoError(t, err)
	assert.Equal(t, Calibration{RadianceMult: 2, RadianceAdd: 3, K1: 4, K2: 5}, cal)
}

func TestParse_MissingKey(t *testing.T) {
	text := strings.Replace(sampleMTL, "K2_CONSTANT_BAND_10", "K2_CONSTANT_BAND_11", 1)

	_, err := Parse(strings.NewReader(text), DefaultThermalBand)

	var incomplete *MetadataIncompleteError
	require.ErrorAs(t, err, &incomplete)
	assert.Equal(t, []string{"K2_CONSTANT_BAND_10"}, incomplete.Missing)
	assert.Contains(t, err.Error(), "K2_CONSTANT_BAND_10")
}

func TestParse_EmptyInput(t *testing.T) {
	_, err := Parse(strings.NewReader(""), DefaultThermalBand)

	var incomplete *MetadataIncompleteError
	require.ErrorAs(t, err, &incomplete)
	assert.Len(t, incomplete.Missing, 4)
}

func TestParse_BadValue(t *testing.T) {
	text := strings.Replace(sampleMTL, "774.8853", "seven-seventy-four", 1)

	_, err := Parse(strings.NewReader(text), DefaultThermalBand)

	var valueErr *ValueError
	require.ErrorAs(t, err, &valueErr)
	assert.Equal(t, "K1_CONSTANT_BAND_10", valueErr.Key)
	assert.Equal(t, 20, valueErr.Line)
}

func TestParse_ReaderError(t *testing.T) {
	boom := errors.New("boom")
	_, err := Parse(&failingReader{err: boom}, DefaultThermalBand)
	assert.ErrorIs(t, err, boom)
}

func TestParse_InvalidBand(t *testing.T) {
	_, err := Parse(strings.NewReader(sampleMTL), 0)
	assert.Error(t, err)
}

func TestSplitLine(t *testing.T) {
	tests := []struct {
		line      string
		key, val  string
		wantMatch bool
	}{
		{`    SPACECRAFT_ID = "LANDSAT_8"`, "SPACECRAFT_ID", "LANDSAT_8", true},
		{`K1_CONSTANT_BAND_10=774.8853`, "K1_CONSTANT_BAND_10", "774.8853", true},
		{`X = ""`, "X", "", true},
		{`END`, "", "", false},
		{`  = orphan`, "", "", false},
		{``, "", "", false},
	}
	for _, tt := range tests {
		key, val, ok := splitLine(tt.line)
		assert.Equal(t, tt.wantMatch, ok, "line %q", tt.line)
		assert.Equal(t, tt.key, key, "line %q", tt.line)
		assert.Equal(t, tt.val, val, "line %q", tt.line)
	}
}

type failingReader struct{ err error }

func (r *failingReader) Read([]byte) (int, error) { return 0, r.err }
