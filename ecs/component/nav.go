package component

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/sentinel/ai"
)

// NavAgent is the path-follow state the navigation system integrates.
type NavAgent struct {
	Speed            float64
	AngularSpeed     float64 // degrees per second
	StoppingDistance float64

	Destination    mgl64.Vec3
	HasDestination bool
}

var NavAgentComponent = NewComponent[NavAgent]()

var _ ai.Navigator = (*NavAgent)(nil)

func (n *NavAgent) SetDestination(pos mgl64.Vec3) {
	n.Destination = pos
	n.HasDestination = true
}

func (n *NavAgent) StopMovement() {
	n.HasDestination = false
}
