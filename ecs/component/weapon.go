package component

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/sentinel/common"
	"github.com/milk9111/sentinel/weapon"
)

// WeaponMount attaches a weapon to an entity. MuzzleOffset is in the
// entity's local frame.
type WeaponMount struct {
	Weapon       *weapon.Weapon
	Prefab       string
	MuzzleOffset mgl64.Vec3
	EyeHeight    float64
	AutoReload   bool
	Spread       float64

	// Requests raised by input, scripts or the AI, consumed by the weapon
	// system on the same tick.
	FireRequested   bool
	ReloadRequested bool

	LastCue weapon.Cue
	Shots   int
}

var WeaponMountComponent = NewComponent[WeaponMount]()

type transformMount struct {
	tr *Transform
	m  *WeaponMount
}

// MountOn exposes a transform as the weapon's camera and muzzle. The camera
// sits EyeHeight above the transform and looks along its forward axis.
func MountOn(tr *Transform, m *WeaponMount) weapon.Mount {
	return transformMount{tr: tr, m: m}
}

func (t transformMount) Camera() (mgl64.Vec3, mgl64.Vec3) {
	origin := t.tr.Position.Add(common.Up.Mul(t.m.EyeHeight))
	return origin, common.ForwardOf(t.tr.Rotation)
}

func (t transformMount) Muzzle() mgl64.Vec3 {
	return t.tr.Position.Add(t.tr.Rotation.Rotate(t.m.MuzzleOffset))
}
