package units

import (
	"math"
	"testing"
)

func TestIsValid(t *testing.T) {
	tests := []struct {
		unit     string
		expected bool
	}{
		{"c", true},
		{"f", true},
		{"k", true},
		{"C", false},
		{"celsius", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := IsValid(tt.unit); got != tt.expected {
			t.Errorf("IsValid(%q) = %v, want %v", tt.unit, got, tt.expected)
		}
	}
}

func TestConvertTemperature(t *testing.T) {
	tests := []struct {
		name    string
		celsius float64
		unit    string
		want    float64
	}{
		{"celsius passthrough", 17.5, Celsius, 17.5},
		{"freezing in fahrenheit", 0, Fahrenheit, 32},
		{"boiling in fahrenheit", 100, Fahrenheit, 212},
		{"freezing in kelvin", 0, Kelvin, 273.15},
		{"unknown unit defaults to celsius", 12, "rankine", 12},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ConvertTemperature(tt.celsius, tt.unit)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("ConvertTemperature(%v, %q) = %v, want %v", tt.celsius, tt.unit, got, tt.want)
			}
		})
	}
}

func TestConvertDifference(t *testing.T) {
	if got := ConvertDifference(10, Fahrenheit); got != 18 {
		t.Errorf("ConvertDifference(10, f) = %v, want 18", got)
	}
	if got := ConvertDifference(10, Kelvin); got != 10 {
		t.Errorf("ConvertDifference(10, k) = %v, want 10", got)
	}
}

func TestFormat(t *testing.T) {
	if got := Format(20, Fahrenheit); got != "68.00 °F" {
		t.Errorf("Format(20, f) = %q", got)
	}
	if got := Format(-1.5, Celsius); got != "-1.50 °C" {
		t.Errorf("Format(-1.5, c) = %q", got)
	}
	if got := Format(0, Kelvin); got != "273.15 K" {
		t.Errorf("Format(0, k) = %q", got)
	}
}
