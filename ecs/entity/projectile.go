package entity

import (
	"math/rand/v2"

	"github.com/milk9111/sentinel/ecs"
	"github.com/milk9111/sentinel/ecs/component"
	"github.com/milk9111/sentinel/logger"
	"github.com/milk9111/sentinel/weapon"
)

// ProjectileSpawner turns fired rounds into projectile entities.
type ProjectileSpawner struct {
	World  *ecs.World
	Mask   uint32
	Damage int
}

func (s *ProjectileSpawner) SpawnProjectile(p weapon.Projectile) {
	w := s.World
	e := ecs.CreateEntity(w)
	if err := ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{Position: p.Origin, Rotation: p.Rotation}); err != nil {
		logger.Log.WithError(err).Warn("spawn projectile")
		return
	}
	_ = ecs.Add(w, e, component.ProjectileComponent.Kind(), &component.Projectile{
		Velocity: p.Velocity,
		Owner:    p.Owner,
		Mask:     s.Mask,
		Damage:   s.Damage,
	})
	_ = ecs.Add(w, e, component.TTLComponent.Kind(), &component.TTL{Seconds: p.Lifetime})
}

// randFor seeds spread per entity so runs replay identically.
func randFor(e ecs.Entity) *rand.Rand {
	return rand.New(rand.NewPCG(Seed, uint64(e)))
}

// Seed is mixed into every weapon's spread source.
var Seed uint64 = 1
