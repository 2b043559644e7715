// Package units provides shared constants and validation for temperature
// display units.
package units

import "fmt"

// Unit constants
const (
	Celsius    = "c"
	Fahrenheit = "f"
	Kelvin     = "k"
)

// ValidUnits contains all valid unit values
var ValidUnits = []string{Celsius, Fahrenheit, Kelvin}

// IsValid checks if the given unit is in the list of valid units
func IsValid(unit string) bool {
	for _, validUnit := range ValidUnits {
		if unit == validUnit {
			return true
		}
	}
	return false
}

// GetValidUnitsString returns a comma-separated string of valid units for error messages
func GetValidUnitsString() string {
	return "c, f, k"
}

// ConvertTemperature converts degrees Celsius to the target units.
// Temperatures are computed and stored in degrees Celsius.
func ConvertTemperature(celsius float64, targetUnits string) float64 {
	switch targetUnits {
	case Fahrenheit:
		return celsius*9/5 + 32
	case Kelvin:
		return celsius + 273.15
	default:
		return celsius
	}
}

// ConvertDifference converts a temperature spread (such as a standard
// deviation) in Celsius degrees to the target units. Offsets do not apply.
func ConvertDifference(celsius float64, targetUnits string) float64 {
	if targetUnits == Fahrenheit {
		return celsius * 9 / 5
	}
	return celsius
}

// Symbol returns the display suffix for unit.
func Symbol(unit string) string {
	switch unit {
	case Fahrenheit:
		return "°F"
	case Kelvin:
		return "K"
	default:
		return "°C"
	}
}

// Format renders a Celsius temperature in unit with two decimals.
func Format(celsius float64, unit string) string {
	return fmt.Sprintf("%.2f %s", ConvertTemperature(celsius, unit), Symbol(unit))
}
