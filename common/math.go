package common

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

const epsilon = 1e-9

// World axes. Forward is +Z, matching the look rotations below.
var (
	Up      = mgl64.Vec3{0, 1, 0}
	Right   = mgl64.Vec3{1, 0, 0}
	Forward = mgl64.Vec3{0, 0, 1}
)

func Lerp(a, b, t float32) float32 {
	return a + t*(b-a)
}

func Clamp01(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func ClampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// AngleBetween returns the unsigned angle between a and b in degrees.
// Zero-length inputs yield 0.
func AngleBetween(a, b mgl64.Vec3) float64 {
	la, lb := a.Len(), b.Len()
	if la < epsilon || lb < epsilon {
		return 0
	}
	d := mgl64.Clamp(a.Dot(b)/(la*lb), -1, 1)
	return mgl64.RadToDeg(math.Acos(d))
}

// Flatten drops the vertical component of v.
func Flatten(v mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{v.X(), 0, v.Z()}
}

// Normalize returns v scaled to unit length, or false when v has no length.
func Normalize(v mgl64.Vec3) (mgl64.Vec3, bool) {
	l := v.Len()
	if l < epsilon {
		return mgl64.Vec3{}, false
	}
	return v.Mul(1 / l), true
}

// HorizontalDistance measures the distance between a and b on the XZ plane.
func HorizontalDistance(a, b mgl64.Vec3) float64 {
	return Flatten(b.Sub(a)).Len()
}
