package entity

import (
	"fmt"
	"sort"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/sentinel/ai"
	"github.com/milk9111/sentinel/common"
	"github.com/milk9111/sentinel/ecs"
	"github.com/milk9111/sentinel/ecs/component"
	"github.com/milk9111/sentinel/prefabs"
	"github.com/milk9111/sentinel/weapon"
)

type buildContext struct {
	PrefabPath string
}

type componentBuildFn func(w *ecs.World, e ecs.Entity, raw any, ctx *buildContext) error

var componentRegistry = map[string]componentBuildFn{
	"agent_tag":    addAgentTag,
	"target_tag":   addTargetTag,
	"player_tag":   addPlayerTag,
	"transform":    addTransform,
	"body":         addBody,
	"brain":        addBrain,
	"nav_agent":    addNavAgent,
	"weapon_mount": addWeaponMount,
	"health":       addHealth,
	"script":       addScript,
}

// Weapon mounts read the transform and need the body category to exist, so
// order matters.
var componentBuildOrder = []string{
	"agent_tag",
	"target_tag",
	"player_tag",
	"transform",
	"body",
	"brain",
	"nav_agent",
	"weapon_mount",
	"health",
	"script",
}

func BuildEntity(w *ecs.World, prefabPath string) (ecs.Entity, error) {
	if w == nil {
		return 0, fmt.Errorf("build entity: world is nil")
	}

	spec, err := prefabs.LoadEntityBuildSpec(prefabPath)
	if err != nil {
		return 0, fmt.Errorf("build entity: load %q: %w", prefabPath, err)
	}

	e := ecs.CreateEntity(w)
	ctx := &buildContext{PrefabPath: prefabPath}

	remaining := make(map[string]any, len(spec.Components))
	for k, v := range spec.Components {
		remaining[k] = v
	}

	for _, name := range componentBuildOrder {
		raw, ok := remaining[name]
		if !ok {
			continue
		}
		if err := componentRegistry[name](w, e, raw, ctx); err != nil {
			ecs.DestroyEntity(w, e)
			return 0, fmt.Errorf("build entity: %q: add %q: %w", prefabPath, name, err)
		}
		delete(remaining, name)
	}

	if len(remaining) > 0 {
		names := make([]string, 0, len(remaining))
		for name := range remaining {
			names = append(names, name)
		}
		sort.Strings(names)
		ecs.DestroyEntity(w, e)
		return 0, fmt.Errorf("build entity: %q: no builder for component %q", prefabPath, names[0])
	}

	return e, nil
}

// SetEntityTransform places e at pos facing yaw degrees from +Z.
func SetEntityTransform(w *ecs.World, e ecs.Entity, pos mgl64.Vec3, yaw float64) error {
	t, ok := ecs.Get(w, e, component.TransformComponent.Kind())
	if !ok || t == nil {
		t = &component.Transform{}
	}
	t.Position = pos
	t.Rotation = common.YawRotation(yaw)
	return ecs.Add(w, e, component.TransformComponent.Kind(), t)
}

func addAgentTag(w *ecs.World, e ecs.Entity, _ any, _ *buildContext) error {
	return ecs.Add(w, e, component.AgentTagComponent.Kind(), &component.AgentTag{})
}

func addTargetTag(w *ecs.World, e ecs.Entity, _ any, _ *buildContext) error {
	return ecs.Add(w, e, component.TargetTagComponent.Kind(), &component.TargetTag{})
}

func addPlayerTag(w *ecs.World, e ecs.Entity, _ any, _ *buildContext) error {
	return ecs.Add(w, e, component.PlayerTagComponent.Kind(), &component.PlayerTag{})
}

type transformSpec = prefabs.TransformComponentSpec

func addTransform(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[transformSpec](raw)
	if err != nil {
		return fmt.Errorf("decode transform spec: %w", err)
	}
	return SetEntityTransform(w, e, mgl64.Vec3(spec.Position), spec.Yaw)
}

type bodySpec = prefabs.BodyComponentSpec

func addBody(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[bodySpec](raw)
	if err != nil {
		return fmt.Errorf("decode body spec: %w", err)
	}
	if spec.Radius <= 0 {
		return fmt.Errorf("body radius must be positive, got %.2f", spec.Radius)
	}
	category, err := CategoryByName(spec.Category)
	if err != nil {
		return err
	}
	return ecs.Add(w, e, component.BodyComponent.Kind(), &component.Body{
		Radius:   spec.Radius,
		Category: category,
	})
}

type brainSpec = prefabs.BrainComponentSpec

func addBrain(w *ecs.World, e ecs.Entity, raw any, ctx *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[brainSpec](raw)
	if err != nil {
		return fmt.Errorf("decode brain spec: %w", err)
	}
	perception, orientation, err := BrainConfig(spec)
	if err != nil {
		return err
	}
	return ecs.Add(w, e, component.BrainComponent.Kind(), &component.Brain{
		Controller: *ai.NewController(perception, orientation),
		Prefab:     ctx.PrefabPath,
		EyeHeight:  spec.EyeHeight,
	})
}

// BrainConfig resolves a brain spec into controller tuning. Zero values fall
// back to the controller defaults.
func BrainConfig(spec brainSpec) (ai.PerceptionConfig, ai.OrientConfig, error) {
	if err := spec.Validate(); err != nil {
		return ai.PerceptionConfig{}, ai.OrientConfig{}, err
	}

	p := ai.DefaultPerceptionConfig()
	if spec.Perception.DetectionRange > 0 {
		p.DetectionRange = spec.Perception.DetectionRange
	}
	if spec.Perception.FieldOfView > 0 {
		p.FieldOfView = spec.Perception.FieldOfView
	}
	if spec.Perception.ShootingRange > 0 {
		p.ShootingRange = spec.Perception.ShootingRange
	}
	p.AimRange = spec.Perception.AimRange
	if len(spec.Perception.Obstruction) > 0 {
		mask, err := MaskFromNames(spec.Perception.Obstruction)
		if err != nil {
			return ai.PerceptionConfig{}, ai.OrientConfig{}, err
		}
		p.ObstructionMask = mask
	}

	o := ai.DefaultOrientConfig()
	if spec.Orientation.RotationSpeed > 0 {
		o.RotationSpeed = spec.Orientation.RotationSpeed
	}
	o.OffsetDegrees = spec.Orientation.OffsetDegrees
	o.Snap = spec.Orientation.Snap
	return p, o, nil
}

type navAgentSpec = prefabs.NavAgentComponentSpec

func addNavAgent(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[navAgentSpec](raw)
	if err != nil {
		return fmt.Errorf("decode nav_agent spec: %w", err)
	}
	if spec.Speed < 0 || spec.AngularSpeed < 0 || spec.StoppingDistance < 0 {
		return fmt.Errorf("nav_agent values must not be negative")
	}
	// Agents searching a last known position must get close enough to arrive.
	if spec.StoppingDistance >= ai.ArrivalEpsilon {
		return fmt.Errorf("nav_agent stopping_distance %.2f must be below %.2f", spec.StoppingDistance, ai.ArrivalEpsilon)
	}
	return ecs.Add(w, e, component.NavAgentComponent.Kind(), &component.NavAgent{
		Speed:            spec.Speed,
		AngularSpeed:     spec.AngularSpeed,
		StoppingDistance: spec.StoppingDistance,
	})
}

type weaponMountSpec = prefabs.WeaponMountComponentSpec

func addWeaponMount(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[weaponMountSpec](raw)
	if err != nil {
		return fmt.Errorf("decode weapon_mount spec: %w", err)
	}
	if spec.Weapon == "" {
		return fmt.Errorf("weapon_mount needs a weapon prefab")
	}
	tr, ok := ecs.Get(w, e, component.TransformComponent.Kind())
	if !ok {
		return fmt.Errorf("weapon_mount requires transform on the same entity")
	}

	wp, damage, err := newWeapon(e, spec.Weapon)
	if err != nil {
		return err
	}

	mount := &component.WeaponMount{
		Weapon:       wp,
		Prefab:       spec.Weapon,
		MuzzleOffset: mgl64.Vec3(spec.MuzzleOffset),
		EyeHeight:    spec.EyeHeight,
		AutoReload:   spec.AutoReload,
		Spread:       spec.Spread,
	}
	AttachWeapon(w, e, tr, mount, damage)
	return ecs.Add(w, e, component.WeaponMountComponent.Kind(), mount)
}

// AttachWeapon wires a mount's weapon to its owner's transform, the physics
// world and a projectile spawner. It is called again after hot reloads swap
// the weapon.
func AttachWeapon(w *ecs.World, e ecs.Entity, tr *component.Transform, mount *component.WeaponMount, damage int) {
	var rc common.Raycaster
	if pw := w.PhysicsWorld(); pw != nil {
		rc = pw.CasterFor(e)
	}
	mount.Weapon.Attach(component.MountOn(tr, mount), rc, common.BodyID(e))
	mount.Weapon.SetSpawner(&ProjectileSpawner{World: w, Mask: mount.Weapon.Config().Mask, Damage: damage})
}

func newWeapon(e ecs.Entity, prefab string) (*weapon.Weapon, int, error) {
	ws, err := prefabs.LoadWeaponSpec(prefab)
	if err != nil {
		return nil, 0, err
	}
	mask := common.AllLayers
	if len(ws.Mask) > 0 {
		if mask, err = MaskFromNames(ws.Mask); err != nil {
			return nil, 0, err
		}
	}
	wp, err := weapon.New(ws.Config(mask), weapon.WithRand(randFor(e)))
	if err != nil {
		return nil, 0, err
	}
	return wp, ws.ProjectileDamage, nil
}

// RebuildWeapon replaces the mount's weapon with a fresh one built from its
// prefab. Ammunition carries over, clamped to the new magazine.
func RebuildWeapon(w *ecs.World, e ecs.Entity, mount *component.WeaponMount) error {
	tr, ok := ecs.Get(w, e, component.TransformComponent.Kind())
	if !ok {
		return fmt.Errorf("rebuild weapon %s: no transform", e)
	}
	wp, damage, err := newWeapon(e, mount.Prefab)
	if err != nil {
		return fmt.Errorf("rebuild weapon %s: %w", e, err)
	}
	if mount.Weapon != nil {
		state := mount.Weapon.Snapshot()
		state.Magazine = min(state.Magazine, wp.Capacity())
		if err := wp.Restore(state); err != nil {
			return fmt.Errorf("rebuild weapon %s: %w", e, err)
		}
	}
	mount.Weapon = wp
	AttachWeapon(w, e, tr, mount, damage)
	return nil
}

type healthSpec = prefabs.HealthComponentSpec

func addHealth(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[healthSpec](raw)
	if err != nil {
		return fmt.Errorf("decode health spec: %w", err)
	}
	if spec.Max <= 0 {
		return fmt.Errorf("health max must be positive, got %d", spec.Max)
	}
	return ecs.Add(w, e, component.HealthComponent.Kind(), &component.Health{Max: spec.Max, Current: spec.Max})
}

type scriptSpec = prefabs.ScriptComponentSpec

func addScript(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[scriptSpec](raw)
	if err != nil {
		return fmt.Errorf("decode script spec: %w", err)
	}
	return AttachScript(w, e, spec.Path, spec.Speed)
}

// AttachScript loads a tengo scenario and puts it on e. It replaces any
// script already there.
func AttachScript(w *ecs.World, e ecs.Entity, path string, speed float64) error {
	if path == "" {
		return fmt.Errorf("script needs a path")
	}
	src, err := prefabs.LoadScript(path)
	if err != nil {
		return fmt.Errorf("load script %q: %w", path, err)
	}
	if speed <= 0 {
		speed = DefaultScriptSpeed
	}
	return ecs.Add(w, e, component.ScriptComponent.Kind(), &component.Script{Path: path, Source: src, Speed: speed})
}

// DefaultScriptSpeed is the walking speed of scripted entities, in units per
// second.
const DefaultScriptSpeed = 3.0
