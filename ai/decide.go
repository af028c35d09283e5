package ai

// Decide picks the behavior for this tick. Bands are checked closest first,
// so a visible target in shooting range always wins.
func Decide(distance float64, visible bool, mem Memory, cfg PerceptionConfig) BehaviorState {
	switch {
	case visible && distance <= cfg.ShootingRange:
		return Shooting
	case visible && (cfg.AimRange <= 0 || distance <= cfg.AimRange):
		return Aiming
	case !visible && mem.WasSpotted && distance <= cfg.DetectionRange:
		return SeekingLastKnown
	default:
		return Idle
	}
}
