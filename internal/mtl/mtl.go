package mtl

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// DefaultThermalBand is the Landsat 8/9 TIRS band used for surface temperature.
const DefaultThermalBand = 10

const maxLineLen = 64 * 1024

// Calibration holds the constants that convert thermal digital numbers to
// brightness temperature.
type Calibration struct {
	RadianceMult float64
	RadianceAdd  float64
	K1           float64
	K2           float64
}

// Metadata is a parsed MTL file.
type Metadata struct {
	ThermalBand int
	Calibration Calibration

	values map[string]string
}

// Keys for the calibration constants of band n.
func RadianceMultKey(n int) string { return fmt.Sprintf("RADIANCE_MULT_BAND_%d", n) }
func RadianceAddKey(n int) string  { return fmt.Sprintf("RADIANCE_ADD_BAND_%d", n) }
func K1Key(n int) string           { return fmt.Sprintf("K1_CONSTANT_BAND_%d", n) }
func K2Key(n int) string           { return fmt.Sprintf("K2_CONSTANT_BAND_%d", n) }

// FileNameKey is the key naming the product file of band n.
func FileNameKey(n int) string { return fmt.Sprintf("FILE_NAME_BAND_%d", n) }

// Parse reads MTL text from r and extracts the calibration of thermalBand.
// Keys are matched by exact name, so line order does not matter. When a key
// repeats, the first occurrence wins.
func Parse(r io.Reader, thermalBand int) (*Metadata, error) {
	if thermalBand <= 0 {
		return nil, fmt.Errorf("invalid thermal band %d", thermalBand)
	}

	md := &Metadata{ThermalBand: thermalBand, values: make(map[string]string)}
	lines := make(map[string]int)

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 4096), maxLineLen)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		key, value, ok := splitLine(sc.Text())
		if !ok {
			continue
		}
		if _, seen := md.values[key]; seen {
			continue
		}
		md.values[key] = value
		lines[key] = lineNo
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("error reading metadata: %w", err)
	}

	slots := []struct {
		key string
		dst *float64
	}{
		{RadianceMultKey(thermalBand), &md.Calibration.RadianceMult},
		{RadianceAddKey(thermalBand), &md.Calibration.RadianceAdd},
		{K1Key(thermalBand), &md.Calibration.K1},
		{K2Key(thermalBand), &md.Calibration.K2},
	}
	var missing []string
	for _, s := range slots {
		raw, ok := md.values[s.key]
		if !ok {
			missing = append(missing, s.key)
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, &ValueError{Key: s.key, Value: raw, Line: lines[s.key], Err: err}
		}
		*s.dst = v
	}
	if len(missing) > 0 {
		return nil, &MetadataIncompleteError{Missing: missing}
	}
	return md, nil
}

// ParseCalibration is Parse for callers that only need the constants.
func ParseCalibration(r io.Reader, thermalBand int) (Calibration, error) {
	md, err := Parse(r, thermalBand)
	if err != nil {
		return Calibration{}, err
	}
	return md.Calibration, nil
}

// splitLine returns the trimmed key and unquoted value of a KEY = VALUE line.
func splitLine(line string) (key, value string, ok bool) {
	key, value, ok = strings.Cut(line, "=")
	if !ok {
		return "", "", false
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return "", "", false
	}
	value = strings.TrimSpace(value)
	if len(value) >= 2 && value[0] == '"' && value[len(value)-1] == '"' {
		value = value[1 : len(value)-1]
	}
	return key, value, true
}

// Get returns the raw value of key.
func (m *Metadata) Get(key string) (string, bool) {
	v, ok := m.values[key]
	return v, ok
}

// Len returns the number of distinct keys read.
func (m *Metadata) Len() int { return len(m.values) }

func (m *Metadata) ProductID() string {
	if v, ok := m.values["LANDSAT_PRODUCT_ID"]; ok {
		return v
	}
	return m.values["LANDSAT_SCENE_ID"]
}

func (m *Metadata) SpacecraftID() string { return m.values["SPACECRAFT_ID"] }
func (m *Metadata) DateAcquired() string { return m.values["DATE_ACQUIRED"] }

// BandFileName returns FILE_NAME_BAND_n, if present.
func (m *Metadata) BandFileName(n int) (string, bool) {
	v, ok := m.values[FileNameKey(n)]
	return v, ok && v != ""
}
