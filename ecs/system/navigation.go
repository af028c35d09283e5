package system

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/sentinel/common"
	"github.com/milk9111/sentinel/ecs"
	"github.com/milk9111/sentinel/ecs/component"
)

// NavigationSystem walks agents in a straight line toward their destination
// and turns them toward the direction of travel. Movement stops short of
// obstacles rather than routing around them.
type NavigationSystem struct{}

func NewNavigationSystem() *NavigationSystem {
	return &NavigationSystem{}
}

func (s *NavigationSystem) Update(w *ecs.World, dt float64) {
	pw := w.PhysicsWorld()

	ecs.ForEach2(w, component.NavAgentComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, nav *component.NavAgent, tr *component.Transform) {
		if !nav.HasDestination || dt <= 0 {
			return
		}
		toDest := common.Flatten(nav.Destination.Sub(tr.Position))
		remaining := toDest.Len()
		if remaining <= nav.StoppingDistance {
			return
		}
		dir, ok := common.Normalize(toDest)
		if !ok {
			return
		}

		step := math.Min(nav.Speed*dt, remaining-nav.StoppingDistance)
		if pw != nil {
			radius := 0.0
			if body, ok := ecs.Get(w, e, component.BodyComponent.Kind()); ok {
				radius = body.Radius
			}
			if hit, ok := pw.CasterFor(e).Raycast(tr.Position, dir, step+radius, ecs.CategoryObstacle); ok {
				step = math.Max(0, hit.Distance-radius)
			}
		}
		tr.Position = tr.Position.Add(dir.Mul(step))

		if look, ok := common.LookRotationFlat(dir); ok {
			tr.Rotation = turnToward(tr.Rotation, look, nav.AngularSpeed*dt)
		}
	})
}

// turnToward rotates from current toward goal by at most maxDegrees.
// A non-positive limit snaps.
func turnToward(current, goal mgl64.Quat, maxDegrees float64) mgl64.Quat {
	if maxDegrees <= 0 {
		return goal
	}
	angle := math.Abs(common.Yaw(goal) - common.Yaw(current))
	if angle > 180 {
		angle = 360 - angle
	}
	if angle <= maxDegrees {
		return goal
	}
	return common.Slerp(current, goal, maxDegrees/angle)
}
