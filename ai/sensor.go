package ai

import "github.com/milk9111/sentinel/common"

// Sense reports whether target is inside the agent's view cone and the first
// body hit by a ray toward it, within detection range, is the target itself.
func Sense(agent Agent, target *Target, cfg PerceptionConfig, rc common.Raycaster) bool {
	if target == nil || rc == nil {
		return false
	}
	if cfg.FieldOfView <= 0 || cfg.DetectionRange <= 0 {
		return false
	}

	dir, ok := common.Normalize(target.Position.Sub(agent.Position))
	if !ok {
		return false
	}
	if common.AngleBetween(agent.Forward(), dir) >= cfg.FieldOfView/2 {
		return false
	}

	hit, ok := rc.Raycast(agent.Position, dir, cfg.DetectionRange, cfg.ObstructionMask)
	return ok && hit.Body == target.ID
}
