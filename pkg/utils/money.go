package utils

import "math"

// Round2 rounds a monetary value to 2 decimal places, half away from zero.
// Applied only when finalizing an output field; intermediate arithmetic stays
// at full precision so rounding error never compounds.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// MoneyEquals compares two monetary amounts within one cent, tolerating
// float noise from form-encoded gateway fields.
func MoneyEquals(a, b float64) bool {
	return math.Abs(a-b) < 0.01
}
