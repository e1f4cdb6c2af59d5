package model

import "math"

// Fixed-precision rounding (half away from zero) used when surfacing
// derived metrics. Intermediate math stays at full float64 precision.

func roundTo(x float64, places int) float64 {
	pow := math.Pow(10, float64(places))
	return math.Round(x*pow) / pow
}

func Round1(x float64) float64 { return roundTo(x, 1) }
func Round2(x float64) float64 { return roundTo(x, 2) }
func Round4(x float64) float64 { return roundTo(x, 4) }
func Round6(x float64) float64 { return roundTo(x, 6) }
