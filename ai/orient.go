package ai

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/sentinel/common"
)

// Orient turns current toward a horizontal look at target from pos. The step
// is rotationSpeed*dt of the remaining arc, or the whole arc when Snap is set.
func Orient(current mgl64.Quat, pos, target mgl64.Vec3, cfg OrientConfig, dt float64) mgl64.Quat {
	look, ok := common.LookRotationFlat(target.Sub(pos))
	if !ok {
		return current
	}
	if cfg.OffsetDegrees != 0 {
		look = look.Mul(common.YawRotation(cfg.OffsetDegrees))
	}
	if cfg.Snap {
		return look
	}
	return common.Slerp(current, look, cfg.RotationSpeed*dt)
}
