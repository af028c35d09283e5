package common

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// YawRotation is a rotation of deg degrees about the up axis.
func YawRotation(deg float64) mgl64.Quat {
	return mgl64.QuatRotate(mgl64.DegToRad(deg), Up)
}

// Yaw reports the heading of q in degrees, measured from +Z toward +X.
func Yaw(q mgl64.Quat) float64 {
	f := ForwardOf(q)
	return mgl64.RadToDeg(math.Atan2(f.X(), f.Z()))
}

// ForwardOf rotates the world forward axis by q.
func ForwardOf(q mgl64.Quat) mgl64.Vec3 {
	return q.Rotate(Forward)
}

// LookRotationFlat returns the yaw-only rotation whose forward axis points
// along dir projected onto the horizontal plane.
func LookRotationFlat(dir mgl64.Vec3) (mgl64.Quat, bool) {
	flat := Flatten(dir)
	if flat.Len() < epsilon {
		return mgl64.QuatIdent(), false
	}
	return mgl64.QuatRotate(math.Atan2(flat.X(), flat.Z()), Up), true
}

// LookRotation returns a rotation whose forward axis points along dir.
func LookRotation(dir mgl64.Vec3) mgl64.Quat {
	n, ok := Normalize(dir)
	if !ok {
		return mgl64.QuatIdent()
	}
	if n.ApproxEqual(Forward.Mul(-1)) {
		return mgl64.QuatRotate(math.Pi, Up)
	}
	return mgl64.QuatBetweenVectors(Forward, n)
}

// Slerp interpolates along the shortest arc from a to b. t is clamped to
// [0, 1] so the result never passes b.
func Slerp(a, b mgl64.Quat, t float64) mgl64.Quat {
	t = Clamp01(t)
	if t == 0 {
		return a.Normalize()
	}
	if a.Dot(b) < 0 {
		b = b.Scale(-1)
	}
	if t == 1 {
		return b.Normalize()
	}
	return mgl64.QuatSlerp(a, b, t)
}
