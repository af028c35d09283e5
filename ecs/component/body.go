package component

// Body describes the collision shape registered with the physics world.
// Radius is used for circles; HalfX and HalfZ for static boxes.
type Body struct {
	Radius   float64
	HalfX    float64
	HalfZ    float64
	Static   bool
	Category uint32

	// Registered is set once the physics world knows about the body.
	Registered bool
}

var BodyComponent = NewComponent[Body]()
