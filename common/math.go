package common

import "math"

// Logical screen size. Every microgame is authored against these.
const (
	BaseWidth  = 800
	BaseHeight = 600
)

func Lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Wave oscillates between lo and hi with the given period in seconds.
func Wave(lo, hi, t, period float64) float64 {
	if period <= 0 {
		return lo
	}
	s := (math.Sin(2*math.Pi*t/period) + 1) / 2
	return Lerp(lo, hi, s)
}
