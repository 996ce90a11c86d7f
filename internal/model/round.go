package model

import "math"

// roundTo rounds v half away from zero to the given number of decimals.
func roundTo(v float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.Round(v*p) / p
}

// Round1 rounds v to one decimal place.
func Round1(v float64) float64 { return roundTo(v, 1) }

// Round2 rounds v to two decimal places.
func Round2(v float64) float64 { return roundTo(v, 2) }
