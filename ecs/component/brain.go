package component

import "github.com/milk9111/sentinel/ai"

// Brain carries an agent's decision state. Prefab names the spec it was built
// from so hot reloads can find it.
type Brain struct {
	Controller ai.Controller
	Prefab     string
	// EyeHeight lifts the sensing origin above the transform.
	EyeHeight float64
	Flags     ai.AnimationFlags
}

var BrainComponent = NewComponent[Brain]()
