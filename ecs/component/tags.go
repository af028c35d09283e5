package component

// AgentTag marks enemies driven by a Brain.
type AgentTag struct{}

var AgentTagComponent = NewComponent[AgentTag]()

// TargetTag marks the entity agents track. At most one is expected.
type TargetTag struct{}

var TargetTagComponent = NewComponent[TargetTag]()

type ObstacleTag struct{}

var ObstacleTagComponent = NewComponent[ObstacleTag]()

// PlayerTag marks the entity whose weapon the HUD shows.
type PlayerTag struct{}

var PlayerTagComponent = NewComponent[PlayerTag]()
