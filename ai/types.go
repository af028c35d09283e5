// Package ai holds the enemy perception and combat decision logic. It has no
// dependency on the ECS or physics packages: raycasts, locomotion, and the
// weapon are reached through the interfaces in this package.
package ai

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/sentinel/common"
)

// ArrivalEpsilon is how close an agent must get to the last known position
// before it gives up the search.
const ArrivalEpsilon = 1.0

// BehaviorState is the single source of truth for what an agent is doing.
type BehaviorState int

const (
	Idle BehaviorState = iota
	Aiming
	Shooting
	SeekingLastKnown
)

func (s BehaviorState) String() string {
	switch s {
	case Idle:
		return "idle"
	case Aiming:
		return "aiming"
	case Shooting:
		return "shooting"
	case SeekingLastKnown:
		return "seeking"
	default:
		return "unknown"
	}
}

// HaltsMovement reports whether locomotion is stopped while in s.
func (s BehaviorState) HaltsMovement() bool {
	return s != SeekingLastKnown
}

// FacesTarget reports whether the orientation controller runs while in s.
func (s BehaviorState) FacesTarget() bool {
	return s == Aiming || s == Shooting
}

// AnimationFlags is the animator parameter set derived from a state.
type AnimationFlags struct {
	Aiming   bool
	Shooting bool
	Walking  bool
}

// Flags projects s onto animator parameters. Shooting keeps the aim pose.
func (s BehaviorState) Flags() AnimationFlags {
	switch s {
	case Aiming:
		return AnimationFlags{Aiming: true}
	case Shooting:
		return AnimationFlags{Aiming: true, Shooting: true}
	case SeekingLastKnown:
		return AnimationFlags{Walking: true}
	default:
		return AnimationFlags{}
	}
}

// Agent is the per-tick view of the enemy's transform.
type Agent struct {
	ID       common.BodyID
	Position mgl64.Vec3
	Rotation mgl64.Quat
}

func (a Agent) Forward() mgl64.Vec3 {
	return common.ForwardOf(a.Rotation)
}

// Target is the tracked entity. A nil *Target means there is nothing to track.
type Target struct {
	ID       common.BodyID
	Position mgl64.Vec3
}

// PerceptionConfig is the immutable sensing and engagement tuning of an agent.
type PerceptionConfig struct {
	DetectionRange float64
	// FieldOfView is the full cone angle in degrees.
	FieldOfView   float64
	ShootingRange float64
	// AimRange of 0 means any visible target outside shooting range is aimed at.
	AimRange        float64
	ObstructionMask uint32
}

func DefaultPerceptionConfig() PerceptionConfig {
	return PerceptionConfig{
		DetectionRange:  20,
		FieldOfView:     60,
		ShootingRange:   10,
		ObstructionMask: common.AllLayers,
	}
}

// OrientConfig controls how the agent turns toward its target.
type OrientConfig struct {
	RotationSpeed float64
	// OffsetDegrees is a fixed yaw added on top of the look rotation.
	OffsetDegrees float64
	Snap          bool
}

func DefaultOrientConfig() OrientConfig {
	return OrientConfig{RotationSpeed: 5}
}

// Navigator is the host path-follow service.
type Navigator interface {
	SetDestination(pos mgl64.Vec3)
	StopMovement()
}

// Trigger discharges the agent's weapon. facing is the rotation the agent
// holds this tick. It reports whether a shot actually left the barrel.
type Trigger interface {
	PullTrigger(facing mgl64.Quat) bool
}
