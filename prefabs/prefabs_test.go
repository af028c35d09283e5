package prefabs

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/milk9111/sentinel/weapon"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func useDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	old := Dir
	Dir = dir
	t.Cleanup(func() { Dir = old })
	return dir
}

func TestEmbeddedPrefabsDecode(t *testing.T) {
	useDir(t)
	for _, name := range []string{"enemy.yaml", "enemy_sniper.yaml", "player.yaml"} {
		t.Run(name, func(t *testing.T) {
			spec, err := LoadEntityBuildSpec(name)
			require.NoError(t, err)
			assert.NotEmpty(t, spec.Name)

			tr, err := DecodeComponentSpec[TransformComponentSpec](spec.Components["transform"])
			require.NoError(t, err)
			assert.Equal(t, [3]float64{}, tr.Position)

			mount, err := DecodeComponentSpec[WeaponMountComponentSpec](spec.Components["weapon_mount"])
			require.NoError(t, err)
			_, err = LoadWeaponSpec(mount.Weapon)
			require.NoError(t, err)
		})
	}
}

func TestBrainSpecValidate(t *testing.T) {
	spec, err := LoadEntityBuildSpec("enemy.yaml")
	require.NoError(t, err)
	brain, err := DecodeComponentSpec[BrainComponentSpec](spec.Components["brain"])
	require.NoError(t, err)
	require.NoError(t, brain.Validate())
	assert.Equal(t, []string{"obstacle", "target"}, brain.Perception.Obstruction)

	bad := brain
	bad.Perception.AimRange = 5
	assert.True(t, errors.Is(bad.Validate(), ErrInvalidSpec))

	bad = brain
	bad.Perception.FieldOfView = 361
	assert.True(t, errors.Is(bad.Validate(), ErrInvalidSpec))

	bad = brain
	bad.Orientation.RotationSpeed = -1
	assert.True(t, errors.Is(bad.Validate(), ErrInvalidSpec))
}

func TestWeaponSpecConfig(t *testing.T) {
	spec, err := LoadWeaponSpec("rifle.yaml")
	require.NoError(t, err)

	cfg := spec.Config(7)
	assert.Equal(t, 30, cfg.MagazineCapacity)
	assert.Equal(t, 90, cfg.Reserve)
	assert.True(t, cfg.Automatic)
	assert.Equal(t, uint32(7), cfg.Mask)
	assert.InDelta(t, 0.1, cfg.Cooldown(), 1e-12)

	clip, ok := spec.Clip(string(weapon.CueReloadEmpty))
	require.True(t, ok)
	assert.Equal(t, "sounds/rifle_reload_empty.ogg", clip)
	_, ok = spec.Clip("Melee")
	assert.False(t, ok)

	pistol, err := LoadWeaponSpec("pistol.yaml")
	require.NoError(t, err)
	assert.Equal(t, weapon.DefaultConfig().FallbackDistance, pistol.Config(0).FallbackDistance)
}

func TestWeaponSpecRejectsBadValues(t *testing.T) {
	dir := useDir(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.yaml"), []byte("name: broken\nmagazine_capacity: 0\nrounds_per_minute: 100\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "nameless.yaml"), []byte("magazine_capacity: 5\nrounds_per_minute: 100\n"), 0o644))

	for _, name := range []string{"broken.yaml", "nameless.yaml"} {
		_, err := LoadWeaponSpec(name)
		assert.True(t, errors.Is(err, ErrInvalidSpec), "%s: %v", name, err)
	}
}

func TestDiskOverridesEmbedded(t *testing.T) {
	dir := useDir(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "enemy.yaml"), []byte("name: edited\ncomponents:\n  agent_tag: {}\n"), 0o644))

	spec, err := LoadEntityBuildSpec("prefabs/enemy.yaml")
	require.NoError(t, err)
	assert.Equal(t, "edited", spec.Name)

	_, ok := ModTime("enemy.yaml")
	assert.True(t, ok)
	_, ok = ModTime("player.yaml")
	assert.False(t, ok)
}

func TestEmptyPrefabRejected(t *testing.T) {
	dir := useDir(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "empty.yaml"), []byte("name: empty\n"), 0o644))
	_, err := LoadEntityBuildSpec("empty.yaml")
	assert.True(t, errors.Is(err, ErrInvalidSpec))
}

func TestLoadScript(t *testing.T) {
	useDir(t)
	for _, name := range []string{"strafe.tengo", "scripts/approach.tengo", "prefabs/scripts/strafe.tengo"} {
		src, err := LoadScript(name)
		require.NoError(t, err, name)
		assert.NotEmpty(t, src)
	}
}

func TestName(t *testing.T) {
	assert.Equal(t, "enemy.yaml", Name(filepath.Join("prefabs", "enemy.yaml")))
	assert.Equal(t, "scripts/strafe.tengo", Name(filepath.Join("prefabs", "scripts", "strafe.tengo")))
}

func TestWatcherReportsEdits(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWatcher(dir)
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))
	target := filepath.Join(dir, "enemy.yaml")
	require.NoError(t, os.WriteFile(target, []byte("name: enemy\n"), 0o644))

	select {
	case got := <-w.Events:
		assert.Equal(t, target, got)
	case <-time.After(2 * time.Second):
		t.Fatal("no watch event")
	}
}
