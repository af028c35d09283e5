package ai

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/sentinel/common"
)

// Host bundles the capabilities the controller calls into. Any of them may be
// nil: a missing raycaster means nothing is ever seen, a missing navigator or
// trigger simply skips that side effect.
type Host struct {
	Raycaster common.Raycaster
	Navigator Navigator
	Trigger   Trigger
}

// Controller is the per-agent decision loop. It owns the agent's memory and
// current state and is advanced once per tick.
type Controller struct {
	Perception  PerceptionConfig
	Orientation OrientConfig

	Memory  Memory
	State   BehaviorState
	Visible bool
}

func NewController(perception PerceptionConfig, orientation OrientConfig) *Controller {
	return &Controller{
		Perception:  perception,
		Orientation: orientation,
		State:       Idle,
	}
}

// TickResult reports what happened during one Tick.
type TickResult struct {
	Previous BehaviorState
	State    BehaviorState
	Visible  bool
	Distance float64
	Rotation mgl64.Quat
	Fired    bool
}

// Changed reports whether the state transitioned this tick.
func (r TickResult) Changed() bool {
	return r.Previous != r.State
}

// Tick senses, decides, applies locomotion side effects, turns toward the
// target when engaging, and pulls the trigger while shooting.
func (c *Controller) Tick(h Host, agent Agent, target *Target, dt float64) TickResult {
	res := TickResult{Previous: c.State, Rotation: agent.Rotation}
	if dt < 0 {
		dt = 0
	}

	c.Visible = Sense(agent, target, c.Perception, h.Raycaster)
	if c.Visible {
		c.Memory.Refresh(target.Position)
	} else {
		c.Memory.Settle()
		if c.Memory.WasSpotted && c.Memory.Arrived(agent.Position) {
			c.Memory.Forget()
		}
	}

	dist := c.distance(agent, target)
	c.State = Decide(dist, c.Visible, c.Memory, c.Perception)
	c.applyLocomotion(h.Navigator)

	if c.State.FacesTarget() && target != nil {
		res.Rotation = Orient(agent.Rotation, agent.Position, target.Position, c.Orientation, dt)
	}
	if c.State == Shooting && h.Trigger != nil {
		res.Fired = h.Trigger.PullTrigger(res.Rotation)
	}

	res.State = c.State
	res.Visible = c.Visible
	res.Distance = dist
	return res
}

// distance is measured to the target, or to where it was last seen when the
// target no longer exists.
func (c *Controller) distance(agent Agent, target *Target) float64 {
	if target != nil {
		return agent.Position.Sub(target.Position).Len()
	}
	if c.Memory.HasLastKnown {
		return agent.Position.Sub(c.Memory.LastKnown).Len()
	}
	return math.Inf(1)
}

func (c *Controller) applyLocomotion(nav Navigator) {
	if nav == nil {
		return
	}
	if c.State == SeekingLastKnown {
		nav.SetDestination(c.Memory.LastKnown)
		return
	}
	nav.StopMovement()
}
