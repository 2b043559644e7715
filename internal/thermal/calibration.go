package thermal

import (
	"math"

	"github.com/banshee-data/watertemp/internal/mtl"
)

// KelvinOffset converts between kelvin and degrees Celsius.
const KelvinOffset = 273.15

// Radiance returns the top-of-atmosphere spectral radiance for dn.
func Radiance(cal mtl.Calibration, dn uint16) float64 {
	return cal.RadianceMult*float64(dn) + cal.RadianceAdd
}

// BrightnessKelvin inverts the Planck calibration. Non-positive radiance
// yields 0 or NaN, as the logarithm dictates; see ValidKelvin.
func BrightnessKelvin(cal mtl.Calibration, radiance float64) float64 {
	return cal.K2 / math.Log(cal.K1/radiance+1)
}

// Celsius converts kelvin to degrees Celsius.
func Celsius(kelvin float64) float64 { return kelvin - KelvinOffset }

// KelvinAt is BrightnessKelvin(cal, Radiance(cal, dn)).
func KelvinAt(cal mtl.Calibration, dn uint16) float64 {
	return BrightnessKelvin(cal, Radiance(cal, dn))
}

// ValidKelvin reports whether k is a usable brightness temperature: finite
// and above absolute zero. Pixels with non-positive radiance fail this.
func ValidKelvin(k float64) bool {
	return k > 0 && !math.IsInf(k, 1)
}
