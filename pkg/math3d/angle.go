package math3d

import "math"

// Radians converts degrees to radians.
func Radians(deg float64) float64 {
	return deg * math.Pi / 180
}

// WrapDegrees maps any angle into [0, 360).
func WrapDegrees(deg float64) float64 {
	w := math.Mod(deg, 360)
	if w < 0 {
		w += 360
	}
	// math.Mod of a tiny negative value can round up to exactly 360.
	if w >= 360 {
		w = 0
	}
	return w
}
