package ecs

import "fmt"

// System advances one concern of the world by dt seconds.
type System interface {
	Update(w *World, dt float64)
}

// SystemFunc adapts a function to System.
type SystemFunc func(w *World, dt float64)

func (f SystemFunc) Update(w *World, dt float64) { f(w, dt) }

type Scheduler struct {
	systems []System
}

func NewScheduler(systems ...System) *Scheduler {
	s := &Scheduler{}
	for _, sys := range systems {
		s.Add(sys)
	}
	return s
}

func (s *Scheduler) Add(system System) {
	if system == nil {
		return
	}
	s.systems = append(s.systems, system)
}

// Update runs every system in order, then discards events nobody drained.
func (s *Scheduler) Update(w *World, dt float64) error {
	if dt < 0 {
		return fmt.Errorf("scheduler update %.4f: %w", dt, ErrNegativeDelta)
	}
	for _, system := range s.systems {
		system.Update(w, dt)
	}
	w.events.flush()
	w.advance(dt)
	return nil
}

func (s *Scheduler) Systems() []System {
	return append([]System(nil), s.systems...)
}
