package ecs

// Event is a typed payload systems publish for later systems in the same
// tick. Data holds one of the event structs below.
type Event struct {
	Type string
	Data any
}

const (
	EventBehaviorChanged = "behavior_changed"
	EventWeaponCue       = "weapon_cue"
	EventProjectileHit   = "projectile_hit"
)

// BehaviorChanged is published when an agent's state transitions.
type BehaviorChanged struct {
	Entity   Entity
	From, To string
	Distance float64
}

// WeaponCue asks the host to play an animation or sound clip.
type WeaponCue struct {
	Entity Entity
	Cue    string
}

type ProjectileHit struct {
	Projectile Entity
	Owner      Entity
	Hit        Entity
}

// EventQueue is a FIFO drained once per tick.
type EventQueue struct {
	items []Event
}

func (q *EventQueue) Push(evt Event) {
	q.items = append(q.items, evt)
}

// Drain returns all queued events and clears the queue.
func (q *EventQueue) Drain() []Event {
	if len(q.items) == 0 {
		return nil
	}
	out := q.items
	q.items = nil
	return out
}

func (q *EventQueue) Len() int { return len(q.items) }

func (q *EventQueue) flush() {
	q.items = nil
}
