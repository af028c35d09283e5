// Package sim assembles a level, the ECS world and the system schedule into a
// steppable simulation shared by the headless runner and the viewer.
package sim

import (
	"errors"
	"fmt"
	"strings"

	"github.com/milk9111/sentinel/ecs"
	"github.com/milk9111/sentinel/ecs/component"
	"github.com/milk9111/sentinel/ecs/entity"
	"github.com/milk9111/sentinel/ecs/system"
	"github.com/milk9111/sentinel/levels"
	"github.com/milk9111/sentinel/logger"
	"github.com/milk9111/sentinel/prefabs"
	"github.com/sirupsen/logrus"
)

type Sim struct {
	World    *ecs.World
	Level    *levels.Level
	Entities entity.LevelEntities

	sched *ecs.Scheduler
	cues  *system.CueSystem
	sinks []func(ecs.Event)
}

type Option func(*Sim)

// WithEventSink receives every event drained at the end of a tick.
func WithEventSink(fn func(ecs.Event)) Option {
	return func(s *Sim) { s.sinks = append(s.sinks, fn) }
}

func New(lvl *levels.Level, opts ...Option) (*Sim, error) {
	if lvl == nil {
		return nil, fmt.Errorf("sim: level is nil")
	}
	s := &Sim{World: ecs.NewWorld(), Level: lvl}
	for _, opt := range opts {
		opt(s)
	}
	s.World.SetPhysicsWorld(ecs.NewPhysicsWorld())

	ents, err := entity.LoadLevelToWorld(s.World, lvl)
	if err != nil {
		return nil, fmt.Errorf("sim: load level %q: %w", lvl.Name, err)
	}
	s.Entities = ents

	s.cues = system.NewCueSystem(s.dispatch)
	s.sched = ecs.NewScheduler(
		system.NewScriptSystem(),
		system.NewPhysicsSyncSystem(),
		system.NewWeaponSystem(),
		system.NewAIControllerSystem(),
		system.NewNavigationSystem(),
		system.NewProjectileSystem(),
		system.NewTTLSystem(),
		s.cues,
	)

	logger.Log.WithFields(logrus.Fields{
		"level":     lvl.Name,
		"enemies":   len(ents.Enemies),
		"obstacles": len(ents.Obstacles),
	}).Info("level loaded")
	return s, nil
}

// Step advances the simulation by dt seconds.
func (s *Sim) Step(dt float64) error {
	if err := s.sched.Update(s.World, dt); err != nil {
		return fmt.Errorf("sim: step: %w", err)
	}
	return nil
}

func (s *Sim) dispatch(ev ecs.Event) {
	for _, sink := range s.sinks {
		sink(ev)
	}
}

// CueCount reports how often a weapon cue has played since the start.
func (s *Sim) CueCount(cue string) int {
	return s.cues.Count(cue)
}

// Player returns the entity whose weapon the HUD and input drive.
func (s *Sim) Player() (ecs.Entity, *component.WeaponMount, bool) {
	e, _, ok := ecs.First(s.World, component.PlayerTagComponent.Kind())
	if !ok {
		return 0, nil, false
	}
	mount, ok := ecs.Get(s.World, e, component.WeaponMountComponent.Kind())
	return e, mount, ok
}

// ReloadPrefab reapplies an edited prefab, weapon or script to the live
// entities built from it. Agents keep their memory and state; weapons keep
// their ammunition.
func (s *Sim) ReloadPrefab(name string) error {
	if strings.HasSuffix(name, ".tengo") {
		return s.reloadScript(name)
	}

	spec, err := prefabs.LoadEntityBuildSpec(name)
	switch {
	case err == nil:
		return s.reloadEntity(name, spec)
	case errors.Is(err, prefabs.ErrInvalidSpec):
		return s.reloadWeapon(name)
	default:
		return fmt.Errorf("sim: reload %s: %w", name, err)
	}
}

func (s *Sim) reloadEntity(name string, spec prefabs.EntityBuildSpec) error {
	raw, ok := spec.Components["brain"]
	if !ok {
		return nil
	}
	brainSpec, err := prefabs.DecodeComponentSpec[prefabs.BrainComponentSpec](raw)
	if err != nil {
		return fmt.Errorf("sim: reload %s: %w", name, err)
	}
	perception, orientation, err := entity.BrainConfig(brainSpec)
	if err != nil {
		return fmt.Errorf("sim: reload %s: %w", name, err)
	}

	n := 0
	ecs.ForEach(s.World, component.BrainComponent.Kind(), func(e ecs.Entity, b *component.Brain) {
		if b.Prefab != name {
			return
		}
		b.Controller.Perception = perception
		b.Controller.Orientation = orientation
		b.EyeHeight = brainSpec.EyeHeight
		n++
	})
	logger.Log.WithFields(logrus.Fields{"prefab": name, "agents": n}).Info("prefab reloaded")
	return nil
}

func (s *Sim) reloadWeapon(name string) error {
	if _, err := prefabs.LoadWeaponSpec(name); err != nil {
		return fmt.Errorf("sim: reload %s: %w", name, err)
	}
	var errs []error
	n := 0
	ecs.ForEach(s.World, component.WeaponMountComponent.Kind(), func(e ecs.Entity, m *component.WeaponMount) {
		if m.Prefab != name {
			return
		}
		if err := entity.RebuildWeapon(s.World, e, m); err != nil {
			errs = append(errs, err)
			return
		}
		n++
	})
	logger.Log.WithFields(logrus.Fields{"weapon": name, "mounts": n}).Info("weapon reloaded")
	return errors.Join(errs...)
}

func (s *Sim) reloadScript(name string) error {
	src, err := prefabs.LoadScript(name)
	if err != nil {
		return fmt.Errorf("sim: reload %s: %w", name, err)
	}
	base := scriptBase(name)
	ecs.ForEach(s.World, component.ScriptComponent.Kind(), func(e ecs.Entity, sc *component.Script) {
		if scriptBase(sc.Path) != base {
			return
		}
		sc.Source = src
		sc.Failed = false
	})
	logger.Log.WithField("script", name).Info("script reloaded")
	return nil
}

func scriptBase(path string) string {
	path = strings.ReplaceAll(path, "\\", "/")
	if i := strings.LastIndex(path, "/"); i >= 0 {
		return path[i+1:]
	}
	return path
}
