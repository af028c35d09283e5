package component

type Health struct {
	Max     int
	Current int
}

var HealthComponent = NewComponent[Health]()
