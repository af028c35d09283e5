package sim

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/sentinel/common"
	"github.com/milk9111/sentinel/ecs"
	"github.com/milk9111/sentinel/ecs/component"
	"github.com/milk9111/sentinel/weapon"
)

// Snapshot is a read-only view of one tick, shaped for telemetry clients and
// the viewer.
type Snapshot struct {
	Level       string       `json:"level" yaml:"level"`
	Tick        int64        `json:"tick" yaml:"tick"`
	Time        float64      `json:"time" yaml:"time"`
	Agents      []Agent      `json:"agents" yaml:"agents"`
	Target      *Actor       `json:"target,omitempty" yaml:"target,omitempty"`
	Obstacles   []Obstacle   `json:"obstacles" yaml:"obstacles"`
	Projectiles []mgl64.Vec3 `json:"projectiles" yaml:"projectiles"`
}

type Actor struct {
	Entity   string        `json:"entity" yaml:"entity"`
	Position mgl64.Vec3    `json:"position" yaml:"position"`
	Yaw      float64       `json:"yaw" yaml:"yaw"`
	Health   int           `json:"health" yaml:"health"`
	Weapon   *weapon.State `json:"weapon,omitempty" yaml:"weapon,omitempty"`
}

type Agent struct {
	Actor     `yaml:",inline"`
	Prefab    string      `json:"prefab" yaml:"prefab"`
	State     string      `json:"state" yaml:"state"`
	Visible   bool        `json:"visible" yaml:"visible"`
	LastKnown *mgl64.Vec3 `json:"last_known,omitempty" yaml:"last_known,omitempty"`
	// FOV and DetectionRange let clients draw the view cone.
	FOV            float64 `json:"fov" yaml:"fov"`
	DetectionRange float64 `json:"detection_range" yaml:"detection_range"`
	ShootingRange  float64 `json:"shooting_range" yaml:"shooting_range"`
}

type Obstacle struct {
	Center mgl64.Vec3 `json:"center" yaml:"center"`
	HalfX  float64    `json:"half_x" yaml:"half_x"`
	HalfZ  float64    `json:"half_z" yaml:"half_z"`
}

func (s *Sim) Snapshot() Snapshot {
	w := s.World
	snap := Snapshot{
		Level:       s.Level.Name,
		Tick:        w.Tick(),
		Time:        w.Time(),
		Agents:      []Agent{},
		Obstacles:   []Obstacle{},
		Projectiles: []mgl64.Vec3{},
	}

	ecs.ForEach2(w, component.BrainComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, b *component.Brain, tr *component.Transform) {
		a := Agent{
			Actor:          actor(w, e, tr),
			Prefab:         b.Prefab,
			State:          b.Controller.State.String(),
			Visible:        b.Controller.Visible,
			FOV:            b.Controller.Perception.FieldOfView,
			DetectionRange: b.Controller.Perception.DetectionRange,
			ShootingRange:  b.Controller.Perception.ShootingRange,
		}
		if b.Controller.Memory.HasLastKnown {
			lk := b.Controller.Memory.LastKnown
			a.LastKnown = &lk
		}
		snap.Agents = append(snap.Agents, a)
	})

	if e, _, ok := ecs.First(w, component.TargetTagComponent.Kind()); ok {
		if tr, ok := ecs.Get(w, e, component.TransformComponent.Kind()); ok {
			t := actor(w, e, tr)
			snap.Target = &t
		}
	}

	ecs.ForEach2(w, component.ObstacleTagComponent.Kind(), component.BodyComponent.Kind(), func(e ecs.Entity, _ *component.ObstacleTag, b *component.Body) {
		tr, ok := ecs.Get(w, e, component.TransformComponent.Kind())
		if !ok {
			return
		}
		snap.Obstacles = append(snap.Obstacles, Obstacle{Center: tr.Position, HalfX: b.HalfX, HalfZ: b.HalfZ})
	})

	ecs.ForEach2(w, component.ProjectileComponent.Kind(), component.TransformComponent.Kind(), func(_ ecs.Entity, _ *component.Projectile, tr *component.Transform) {
		snap.Projectiles = append(snap.Projectiles, tr.Position)
	})
	return snap
}

func actor(w *ecs.World, e ecs.Entity, tr *component.Transform) Actor {
	a := Actor{Entity: e.String(), Position: tr.Position, Yaw: common.Yaw(tr.Rotation)}
	if h, ok := ecs.Get(w, e, component.HealthComponent.Kind()); ok {
		a.Health = h.Current
	}
	if m, ok := ecs.Get(w, e, component.WeaponMountComponent.Kind()); ok && m.Weapon != nil {
		st := m.Weapon.Snapshot()
		a.Weapon = &st
	}
	return a
}
