package common

import "github.com/go-gl/mathgl/mgl64"

// BodyID identifies a physical body a ray can hit.
type BodyID uint64

// AllLayers matches every collision category.
const AllLayers uint32 = ^uint32(0)

// RaycastHit describes the first body intersected by a ray.
type RaycastHit struct {
	Body     BodyID
	Point    mgl64.Vec3
	Distance float64
}

// Raycaster answers first-hit ray queries. direction need not be normalized.
type Raycaster interface {
	Raycast(origin, direction mgl64.Vec3, maxDistance float64, mask uint32) (RaycastHit, bool)
}

// RaycasterFunc adapts a function to Raycaster.
type RaycasterFunc func(origin, direction mgl64.Vec3, maxDistance float64, mask uint32) (RaycastHit, bool)

func (f RaycasterFunc) Raycast(origin, direction mgl64.Vec3, maxDistance float64, mask uint32) (RaycastHit, bool) {
	return f(origin, direction, maxDistance, mask)
}
