package entity

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/sentinel/ecs"
	"github.com/milk9111/sentinel/ecs/component"
	"github.com/milk9111/sentinel/levels"
	"github.com/milk9111/sentinel/prefabs"
	"github.com/milk9111/sentinel/weapon"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newWorld() *ecs.World {
	w := ecs.NewWorld()
	w.SetPhysicsWorld(ecs.NewPhysicsWorld())
	return w
}

func TestBuildEnemy(t *testing.T) {
	w := newWorld()
	e, err := BuildEntity(w, "enemy.yaml")
	require.NoError(t, err)

	assert.True(t, ecs.Has(w, e, component.AgentTagComponent.Kind()))
	assert.False(t, ecs.Has(w, e, component.TargetTagComponent.Kind()))

	brain, ok := ecs.Get(w, e, component.BrainComponent.Kind())
	require.True(t, ok)
	assert.Equal(t, "enemy.yaml", brain.Prefab)
	assert.Equal(t, 20.0, brain.Controller.Perception.DetectionRange)
	assert.Equal(t, 60.0, brain.Controller.Perception.FieldOfView)
	assert.Equal(t, 10.0, brain.Controller.Perception.ShootingRange)
	assert.Equal(t, ecs.CategoryObstacle|ecs.CategoryTarget, brain.Controller.Perception.ObstructionMask)
	assert.Equal(t, 5.0, brain.Controller.Orientation.RotationSpeed)

	body, ok := ecs.Get(w, e, component.BodyComponent.Kind())
	require.True(t, ok)
	assert.Equal(t, ecs.CategoryAgent, body.Category)
	assert.False(t, body.Registered)

	nav, ok := ecs.Get(w, e, component.NavAgentComponent.Kind())
	require.True(t, ok)
	assert.Equal(t, 3.5, nav.Speed)

	mount, ok := ecs.Get(w, e, component.WeaponMountComponent.Kind())
	require.True(t, ok)
	require.NotNil(t, mount.Weapon)
	assert.Equal(t, 30, mount.Weapon.CurrentAmmunition())
	assert.Equal(t, 90, mount.Weapon.TotalReserve())
	assert.True(t, mount.Weapon.IsAutomatic())
	assert.True(t, mount.Weapon.CanFire())

	h, ok := ecs.Get(w, e, component.HealthComponent.Kind())
	require.True(t, ok)
	assert.Equal(t, h.Max, h.Current)
}

func TestBuildPlayer(t *testing.T) {
	w := newWorld()
	e, err := BuildEntity(w, "player.yaml")
	require.NoError(t, err)

	assert.True(t, ecs.Has(w, e, component.TargetTagComponent.Kind()))
	assert.True(t, ecs.Has(w, e, component.PlayerTagComponent.Kind()))
	assert.False(t, ecs.Has(w, e, component.BrainComponent.Kind()))

	mount, ok := ecs.Get(w, e, component.WeaponMountComponent.Kind())
	require.True(t, ok)
	assert.Equal(t, 12, mount.Weapon.Capacity())
	assert.False(t, mount.AutoReload)
}

func TestSpawnedProjectileCarriesDamage(t *testing.T) {
	w := newWorld()
	e, err := BuildEntity(w, "player.yaml")
	require.NoError(t, err)
	mount, _ := ecs.Get(w, e, component.WeaponMountComponent.Kind())

	res := mount.Weapon.Fire(0)
	require.True(t, res.Fired)
	assert.Equal(t, weapon.CueFire, res.Cue)

	pe, p, ok := ecs.First(w, component.ProjectileComponent.Kind())
	require.True(t, ok)
	assert.Equal(t, 2, p.Damage)
	assert.Equal(t, ecs.CategoryObstacle|ecs.CategoryAgent|ecs.CategoryTarget, p.Mask)
	assert.Equal(t, e, ecs.EntityOf(p.Owner))

	ttl, ok := ecs.Get(w, pe, component.TTLComponent.Kind())
	require.True(t, ok)
	assert.Equal(t, 3.0, ttl.Seconds)
}

func TestBuildEntityErrors(t *testing.T) {
	dir := t.TempDir()
	old := prefabs.Dir
	prefabs.Dir = dir
	t.Cleanup(func() { prefabs.Dir = old })

	write := func(name, body string) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
	}
	write("unknown.yaml", "name: unknown\ncomponents:\n  transform: {}\n  jetpack: {}\n")
	write("orphan_mount.yaml", "name: orphan\ncomponents:\n  weapon_mount:\n    weapon: rifle.yaml\n")
	write("bad_body.yaml", "name: bad\ncomponents:\n  transform: {}\n  body:\n    radius: 1\n    category: ghost\n")
	write("bad_brain.yaml", "name: bad\ncomponents:\n  brain:\n    perception:\n      field_of_view: 400\n")
	write("far_stop.yaml", "name: far\ncomponents:\n  transform: {}\n  nav_agent:\n    speed: 3\n    stopping_distance: 1.5\n")

	cases := []string{"unknown.yaml", "orphan_mount.yaml", "bad_body.yaml", "bad_brain.yaml", "far_stop.yaml", "missing.yaml"}
	for _, name := range cases {
		t.Run(name, func(t *testing.T) {
			w := newWorld()
			_, err := BuildEntity(w, name)
			assert.Error(t, err)
			assert.Empty(t, ecs.Entities(w), "failed builds must not leave entities behind")
		})
	}

	_, err := BuildEntity(nil, "enemy.yaml")
	assert.Error(t, err)
}

func TestMaskFromNames(t *testing.T) {
	mask, err := MaskFromNames([]string{"obstacle", " Target "})
	require.NoError(t, err)
	assert.Equal(t, ecs.CategoryObstacle|ecs.CategoryTarget, mask)

	_, err = MaskFromNames([]string{"wall"})
	assert.Error(t, err)
}

func TestLoadLevelToWorld(t *testing.T) {
	lvl, err := levels.LoadLevelFromFS("courtyard.json")
	require.NoError(t, err)

	w := newWorld()
	ents, err := LoadLevelToWorld(w, lvl)
	require.NoError(t, err)

	assert.Len(t, ents.Obstacles, len(lvl.Obstacles))
	assert.Len(t, ents.Enemies, len(lvl.Enemies))
	require.True(t, ents.Target.Valid())

	tr, ok := ecs.Get(w, ents.Target, component.TransformComponent.Kind())
	require.True(t, ok)
	assert.Equal(t, mgl64.Vec3(lvl.Target.Position), tr.Position)

	sc, ok := ecs.Get(w, ents.Target, component.ScriptComponent.Kind())
	require.True(t, ok)
	assert.NotEmpty(t, sc.Source)
	assert.Equal(t, DefaultScriptSpeed, sc.Speed)

	body, ok := ecs.Get(w, ents.Obstacles[0], component.BodyComponent.Kind())
	require.True(t, ok)
	assert.True(t, body.Static)
	assert.Equal(t, lvl.Obstacles[0].Half[0], body.HalfX)
}
