// Package thermal converts thermal-band digital numbers to brightness
// temperature and aggregates it over the pixels classified as water.
//
// The conversion inverts the sensor calibration:
//
//	radiance = RadianceMult*dn + RadianceAdd
//	kelvin   = K2 / ln(K1/radiance + 1)
//	celsius  = kelvin - 273.15
//
// Classification is lazy: the spectral index is computed on the first
// temperature request and reused for the lifetime of the Engine.
package thermal
