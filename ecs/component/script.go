package component

// Script drives an entity from a tengo scenario. Source is the compiled-in
// text; Path is only used for logging and reloads.
type Script struct {
	Path   string
	Source []byte
	Speed  float64

	Failed bool
}

var ScriptComponent = NewComponent[Script]()
