// Package math provides the small set of interpolation and geometry helpers
// the viewer needs on top of mgl32.
package math

import "github.com/chewxy/math32"

// Lerp linearly interpolates between a and b by t.
// t is not clamped.
func Lerp(a, b, t float32) float32 {
	return a + (b-a)*t
}

// Clamp restricts v to the range [lo, hi].
func Clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// EaseOutCubic returns 1 - (1-t)^3.
// Callers clamp t to [0, 1] first.
func EaseOutCubic(t float32) float32 {
	return 1 - math32.Pow(1-t, 3)
}

// Progress returns the clamped fraction of the way from start to end that
// value has travelled. A zero-length span is treated as complete.
func Progress(value, start, end float32) float32 {
	if end <= start {
		return 1
	}
	return Clamp((value-start)/(end-start), 0, 1)
}
