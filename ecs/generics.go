package ecs

import "github.com/milk9111/sentinel/ecs/component"

func CreateEntity(w *World) Entity { return w.CreateEntity() }

func DestroyEntity(w *World, e Entity) bool { return w.DestroyEntity(e) }

func IsAlive(w *World, e Entity) bool { return w.IsAlive(e) }

func Entities(w *World) []Entity { return w.Entities() }

// Add attaches value to e, replacing any existing component of that kind.
func Add[T any](w *World, e Entity, kind component.ComponentKind[T], value *T) error {
	if value == nil {
		return component.ErrNilComponent
	}
	return w.addComponent(e, kind.ID(), value)
}

func Get[T any](w *World, e Entity, kind component.ComponentKind[T]) (*T, bool) {
	v, ok := w.getComponent(e, kind.ID())
	if !ok {
		return nil, false
	}
	t, ok := v.(*T)
	return t, ok
}

func Has[T any](w *World, e Entity, kind component.ComponentKind[T]) bool {
	_, ok := w.getComponent(e, kind.ID())
	return ok
}

func Remove[T any](w *World, e Entity, kind component.ComponentKind[T]) bool {
	return w.removeComponent(e, kind.ID())
}

// First returns the first live entity holding kind.
func First[T any](w *World, kind component.ComponentKind[T]) (Entity, *T, bool) {
	for _, e := range w.query(kind.ID()) {
		if v, ok := Get(w, e, kind); ok {
			return e, v, true
		}
	}
	return 0, nil, false
}

// ForEach visits every live entity holding kind. The callback may add or
// remove components and destroy entities.
func ForEach[T any](w *World, kind component.ComponentKind[T], fn func(Entity, *T)) {
	for _, e := range w.query(kind.ID()) {
		if a, ok := Get(w, e, kind); ok {
			fn(e, a)
		}
	}
}

func ForEach2[A, B any](w *World, ka component.ComponentKind[A], kb component.ComponentKind[B], fn func(Entity, *A, *B)) {
	for _, e := range w.query(ka.ID(), kb.ID()) {
		a, okA := Get(w, e, ka)
		b, okB := Get(w, e, kb)
		if okA && okB {
			fn(e, a, b)
		}
	}
}

func ForEach3[A, B, C any](w *World, ka component.ComponentKind[A], kb component.ComponentKind[B], kc component.ComponentKind[C], fn func(Entity, *A, *B, *C)) {
	for _, e := range w.query(ka.ID(), kb.ID(), kc.ID()) {
		a, okA := Get(w, e, ka)
		b, okB := Get(w, e, kb)
		c, okC := Get(w, e, kc)
		if okA && okB && okC {
			fn(e, a, b, c)
		}
	}
}
