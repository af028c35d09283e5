package system

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/sentinel/ai"
	"github.com/milk9111/sentinel/common"
	"github.com/milk9111/sentinel/ecs"
	"github.com/milk9111/sentinel/ecs/component"
	"github.com/milk9111/sentinel/logger"
	"github.com/sirupsen/logrus"
)

// AIControllerSystem runs every agent's controller against the tracked
// target: perception, decision, locomotion orders, facing and the trigger.
type AIControllerSystem struct{}

func NewAIControllerSystem() *AIControllerSystem {
	return &AIControllerSystem{}
}

func (s *AIControllerSystem) Update(w *ecs.World, dt float64) {
	target := findTarget(w)

	ecs.ForEach2(w, component.BrainComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, brain *component.Brain, tr *component.Transform) {
		if !ecs.Has(w, e, component.AgentTagComponent.Kind()) {
			return
		}

		host := ai.Host{}
		if pw := w.PhysicsWorld(); pw != nil {
			host.Raycaster = pw.CasterFor(e)
		}
		if nav, ok := ecs.Get(w, e, component.NavAgentComponent.Kind()); ok {
			host.Navigator = nav
		}
		if mount, ok := ecs.Get(w, e, component.WeaponMountComponent.Kind()); ok && mount.Weapon != nil {
			host.Trigger = &mountTrigger{w: w, e: e, tr: tr, mount: mount}
		}

		agent := ai.Agent{
			ID:       common.BodyID(e),
			Position: tr.Position.Add(common.Up.Mul(brain.EyeHeight)),
			Rotation: tr.Rotation,
		}
		var tgt *ai.Target
		if target != nil {
			// Sense at eye level so the ray is horizontal.
			t := *target
			t.Position = mgl64.Vec3{t.Position.X(), agent.Position.Y(), t.Position.Z()}
			tgt = &t
		}

		res := brain.Controller.Tick(host, agent, tgt, dt)
		tr.Rotation = res.Rotation
		brain.Flags = res.State.Flags()

		if res.Changed() {
			logger.Log.WithFields(logrus.Fields{
				"entity":   e.String(),
				"prefab":   brain.Prefab,
				"from":     res.Previous.String(),
				"to":       res.State.String(),
				"distance": res.Distance,
				"visible":  res.Visible,
			}).Info("behavior changed")
			w.Events().Push(ecs.Event{
				Type: ecs.EventBehaviorChanged,
				Data: ecs.BehaviorChanged{Entity: e, From: res.Previous.String(), To: res.State.String(), Distance: res.Distance},
			})
		}
	})
}

// findTarget returns the first live tracked entity, or nil.
func findTarget(w *ecs.World) *ai.Target {
	e, _, ok := ecs.First(w, component.TargetTagComponent.Kind())
	if !ok {
		return nil
	}
	tr, ok := ecs.Get(w, e, component.TransformComponent.Kind())
	if !ok {
		return nil
	}
	return &ai.Target{ID: common.BodyID(e), Position: tr.Position}
}

// mountTrigger fires an agent's weapon along the facing the controller just
// chose. The controller pulls every tick while shooting, so pulls inside the
// cooldown never reach the weapon.
type mountTrigger struct {
	w     *ecs.World
	e     ecs.Entity
	tr    *component.Transform
	mount *component.WeaponMount
}

func (t *mountTrigger) PullTrigger(facing mgl64.Quat) bool {
	t.tr.Rotation = facing
	if t.mount.Weapon.CoolingDown() {
		return false
	}
	return Fire(t.w, t.e, t.mount).Fired
}
