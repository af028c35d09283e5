package system

import (
	"github.com/milk9111/sentinel/ecs"
	"github.com/milk9111/sentinel/ecs/component"
	"github.com/milk9111/sentinel/logger"
	"github.com/sirupsen/logrus"
)

// ProjectileSystem moves projectiles and sweeps the segment they cover each
// tick. A projectile stops at the first body it crosses, never its owner,
// and deals its damage to anything with Health.
type ProjectileSystem struct{}

func NewProjectileSystem() *ProjectileSystem {
	return &ProjectileSystem{}
}

func (s *ProjectileSystem) Update(w *ecs.World, dt float64) {
	pw := w.PhysicsWorld()

	ecs.ForEach2(w, component.ProjectileComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, p *component.Projectile, tr *component.Transform) {
		delta := p.Velocity.Mul(dt)
		travel := delta.Len()
		if travel == 0 {
			return
		}

		if pw != nil {
			owner := ecs.EntityOf(p.Owner)
			if hit, ok := pw.CasterFor(owner).Raycast(tr.Position, delta, travel, p.Mask); ok {
				victim := ecs.EntityOf(hit.Body)
				w.Events().Push(ecs.Event{
					Type: ecs.EventProjectileHit,
					Data: ecs.ProjectileHit{Projectile: e, Owner: owner, Hit: victim},
				})
				damage(w, victim, p.Damage)
				ecs.DestroyEntity(w, e)
				return
			}
		}
		tr.Position = tr.Position.Add(delta)
	})
}

func damage(w *ecs.World, e ecs.Entity, amount int) {
	if amount <= 0 {
		return
	}
	h, ok := ecs.Get(w, e, component.HealthComponent.Kind())
	if !ok {
		return
	}
	h.Current -= amount
	if h.Current > 0 {
		return
	}
	logger.Log.WithFields(logrus.Fields{"entity": e.String()}).Info("destroyed")
	ecs.DestroyEntity(w, e)
}
