package ecs

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/sentinel/common"
)

// Collision categories. Ray masks are built from these bits.
const (
	CategoryObstacle uint32 = 1 << iota
	CategoryAgent
	CategoryTarget
)

const minRayHorizontal = 1e-9

// PhysicsWorld owns the Chipmunk space. The simulation is 3D but every body is
// an infinitely tall prism, so shapes live on the XZ plane with cp's Y axis
// standing in for world Z.
type PhysicsWorld struct {
	space *cp.Space

	bodies     map[Entity]*physicsBody
	shapeOwner map[*cp.Shape]Entity
}

type physicsBody struct {
	body  *cp.Body
	shape *cp.Shape
}

func NewPhysicsWorld() *PhysicsWorld {
	return &PhysicsWorld{
		space:      cp.NewSpace(),
		bodies:     make(map[Entity]*physicsBody),
		shapeOwner: make(map[*cp.Shape]Entity),
	}
}

func (pw *PhysicsWorld) Space() *cp.Space {
	return pw.space
}

func toPlane(v mgl64.Vec3) cp.Vector {
	return cp.Vector{X: v.X(), Y: v.Z()}
}

func shapeFilter(e Entity, category uint32) cp.ShapeFilter {
	return cp.NewShapeFilter(uint(e), uint(category), cp.ALL_CATEGORIES)
}

// AddStaticBox registers an axis-aligned obstacle centred on center.
func (pw *PhysicsWorld) AddStaticBox(e Entity, center mgl64.Vec3, halfX, halfZ float64) error {
	if halfX <= 0 || halfZ <= 0 {
		return fmt.Errorf("physics: static box %s has extent %.2fx%.2f", e, halfX, halfZ)
	}
	if _, ok := pw.bodies[e]; ok {
		return fmt.Errorf("physics: entity %s already has a body", e)
	}
	c := toPlane(center)
	body := cp.NewStaticBody()
	body.SetPosition(c)
	shape := cp.NewBox(body, halfX*2, halfZ*2, 0)
	shape.SetFilter(shapeFilter(e, CategoryObstacle))

	pw.space.AddBody(body)
	pw.space.AddShape(shape)
	pw.bodies[e] = &physicsBody{body: body, shape: shape}
	pw.shapeOwner[shape] = e
	return nil
}

// AddCircle registers a kinematic disc for an agent, target or projectile.
func (pw *PhysicsWorld) AddCircle(e Entity, pos mgl64.Vec3, radius float64, category uint32) error {
	if radius <= 0 {
		return fmt.Errorf("physics: circle %s has radius %.2f", e, radius)
	}
	if _, ok := pw.bodies[e]; ok {
		return fmt.Errorf("physics: entity %s already has a body", e)
	}
	body := cp.NewKinematicBody()
	body.SetPosition(toPlane(pos))
	shape := cp.NewCircle(body, radius, cp.Vector{})
	shape.SetFilter(shapeFilter(e, category))

	pw.space.AddBody(body)
	pw.space.AddShape(shape)
	pw.bodies[e] = &physicsBody{body: body, shape: shape}
	pw.shapeOwner[shape] = e
	return nil
}

func (pw *PhysicsWorld) HasBody(e Entity) bool {
	_, ok := pw.bodies[e]
	return ok
}

// SyncBody moves e's body to pos and refreshes the spatial index.
func (pw *PhysicsWorld) SyncBody(e Entity, pos mgl64.Vec3) {
	b, ok := pw.bodies[e]
	if !ok {
		return
	}
	b.body.SetPosition(toPlane(pos))
	// Re-adding the shape recomputes its bounding box in the spatial index.
	pw.space.RemoveShape(b.shape)
	pw.space.AddShape(b.shape)
}

func (pw *PhysicsWorld) RemoveBody(e Entity) {
	b, ok := pw.bodies[e]
	if !ok {
		return
	}
	pw.space.RemoveShape(b.shape)
	pw.space.RemoveBody(b.body)
	delete(pw.shapeOwner, b.shape)
	delete(pw.bodies, e)
}

// Raycast reports the first body along the ray, ignoring none.
func (pw *PhysicsWorld) Raycast(origin, direction mgl64.Vec3, maxDistance float64, mask uint32) (common.RaycastHit, bool) {
	return pw.raycast(cp.NO_GROUP, origin, direction, maxDistance, mask)
}

// CasterFor returns a raycaster that never reports e's own body.
func (pw *PhysicsWorld) CasterFor(e Entity) common.Raycaster {
	return common.RaycasterFunc(func(origin, direction mgl64.Vec3, maxDistance float64, mask uint32) (common.RaycastHit, bool) {
		return pw.raycast(uint(e), origin, direction, maxDistance, mask)
	})
}

func (pw *PhysicsWorld) raycast(group uint, origin, direction mgl64.Vec3, maxDistance float64, mask uint32) (common.RaycastHit, bool) {
	dir, ok := common.Normalize(direction)
	if !ok || maxDistance <= 0 {
		return common.RaycastHit{}, false
	}
	// A vertical ray never crosses a prism wall.
	flat := common.Flatten(dir)
	if flat.Len() < minRayHorizontal {
		return common.RaycastHit{}, false
	}

	start := toPlane(origin)
	end := toPlane(origin.Add(dir.Mul(maxDistance)))
	filter := cp.NewShapeFilter(group, cp.ALL_CATEGORIES, uint(mask))
	info := pw.space.SegmentQueryFirst(start, end, 0, filter)
	if info.Shape == nil {
		return common.RaycastHit{}, false
	}
	e, ok := pw.shapeOwner[info.Shape]
	if !ok {
		return common.RaycastHit{}, false
	}

	dist := info.Alpha * maxDistance
	return common.RaycastHit{
		Body:     common.BodyID(e),
		Point:    origin.Add(dir.Mul(dist)),
		Distance: dist,
	}, true
}

// EntityOf maps a raycast hit back to its entity.
func EntityOf(id common.BodyID) Entity {
	return Entity(id)
}
