package component

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/sentinel/common"
)

type Projectile struct {
	Velocity mgl64.Vec3
	Owner    common.BodyID
	Mask     uint32
	Damage   int
}

var ProjectileComponent = NewComponent[Projectile]()
