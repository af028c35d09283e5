package ecs

import (
	"errors"
	"fmt"

	"github.com/milk9111/sentinel/ecs/component"
)

var ErrNegativeDelta = errors.New("ecs: negative dt")

// World owns entities, their components, the per-tick event queue and an
// optional physics space.
type World struct {
	entities entityStore
	stores   map[component.ComponentID]*SparseSet
	events   EventQueue

	physicsWorld *PhysicsWorld

	tick int64
	time float64
}

func NewWorld() *World {
	return &World{stores: make(map[component.ComponentID]*SparseSet)}
}

func (w *World) CreateEntity() Entity {
	return w.entities.create()
}

// DestroyEntity removes e and all its components. It reports false for
// handles that are already dead.
func (w *World) DestroyEntity(e Entity) bool {
	if !w.entities.isAlive(e) {
		return false
	}
	for _, s := range w.stores {
		s.remove(e.id())
	}
	if w.physicsWorld != nil {
		w.physicsWorld.RemoveBody(e)
	}
	return w.entities.destroy(e)
}

func (w *World) IsAlive(e Entity) bool {
	return w.entities.isAlive(e)
}

func (w *World) Entities() []Entity {
	return w.entities.all()
}

func (w *World) store(id component.ComponentID, create bool) *SparseSet {
	s := w.stores[id]
	if s == nil && create {
		s = newSparseSet()
		w.stores[id] = s
	}
	return s
}

func (w *World) addComponent(e Entity, id component.ComponentID, v any) error {
	if id == 0 {
		return component.ErrInvalidComponentKind
	}
	if !w.entities.isAlive(e) {
		return fmt.Errorf("add component %d to %s: %w", id, e, component.ErrEntityNotAlive)
	}
	w.store(id, true).set(e.id(), v)
	return nil
}

func (w *World) getComponent(e Entity, id component.ComponentID) (any, bool) {
	if !w.entities.isAlive(e) {
		return nil, false
	}
	return w.store(id, false).get(e.id())
}

func (w *World) removeComponent(e Entity, id component.ComponentID) bool {
	if !w.entities.isAlive(e) {
		return false
	}
	return w.store(id, false).remove(e.id())
}

// query returns live entities holding every listed component, iterating the
// smallest store.
func (w *World) query(ids ...component.ComponentID) []Entity {
	if len(ids) == 0 {
		return nil
	}
	var smallest *SparseSet
	for _, id := range ids {
		s := w.store(id, false)
		if s.Len() == 0 {
			return nil
		}
		if smallest == nil || s.Len() < smallest.Len() {
			smallest = s
		}
	}

	var out []Entity
	for _, slot := range smallest.ids() {
		e, ok := w.entities.current(slot)
		if !ok {
			continue
		}
		all := true
		for _, id := range ids {
			if !w.stores[id].has(slot) {
				all = false
				break
			}
		}
		if all {
			out = append(out, e)
		}
	}
	return out
}

func (w *World) Events() *EventQueue {
	return &w.events
}

func (w *World) SetPhysicsWorld(pw *PhysicsWorld) {
	w.physicsWorld = pw
}

func (w *World) PhysicsWorld() *PhysicsWorld {
	return w.physicsWorld
}

// Tick is the number of completed scheduler updates.
func (w *World) Tick() int64 { return w.tick }

// Time is the simulated time in seconds.
func (w *World) Time() float64 { return w.time }

func (w *World) advance(dt float64) {
	w.tick++
	w.time += dt
}
