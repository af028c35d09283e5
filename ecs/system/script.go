package system

import (
	"fmt"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/sentinel/common"
	"github.com/milk9111/sentinel/ecs"
	"github.com/milk9111/sentinel/ecs/component"
	"github.com/milk9111/sentinel/logger"
	"github.com/sirupsen/logrus"
)

// Script inputs are set before every run. Outputs are reset to 0 before the
// run and read back after it, so a script that does not assign one leaves it
// off. Compilation drops globals a script never mentions, so every access is
// guarded with IsDefined.
var (
	scriptInputs  = []string{"time", "dt", "tick", "target_x", "target_z", "ammo", "reserve"}
	scriptOutputs = []string{"move_x", "move_z", "fire", "reload"}
)

// ScriptSystem drives entities from tengo scenarios. Each run sees the
// entity's position and ammunition and answers with a movement direction
// and optional fire and reload requests.
type ScriptSystem struct {
	runtimes map[ecs.Entity]*scriptRuntime
}

type scriptRuntime struct {
	source   string
	compiled *tengo.Compiled
}

// ScriptOutput is what one run of a scenario asked for.
type ScriptOutput struct {
	Move   mgl64.Vec3
	Fire   bool
	Reload bool
}

func NewScriptSystem() *ScriptSystem {
	return &ScriptSystem{runtimes: map[ecs.Entity]*scriptRuntime{}}
}

func (s *ScriptSystem) Update(w *ecs.World, dt float64) {
	for e := range s.runtimes {
		if !w.IsAlive(e) {
			delete(s.runtimes, e)
		}
	}

	ecs.ForEach2(w, component.ScriptComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, sc *component.Script, tr *component.Transform) {
		if sc.Failed {
			return
		}
		mount, _ := ecs.Get(w, e, component.WeaponMountComponent.Kind())

		out, err := s.run(e, sc, tr, mount, w, dt)
		if err != nil {
			sc.Failed = true
			logger.Log.WithFields(logrus.Fields{"entity": e.String(), "script": sc.Path}).WithError(err).Error("script disabled")
			return
		}

		if step := out.Move.Mul(sc.Speed * dt); step.Len() > 0 {
			tr.Position = tr.Position.Add(step)
			if look, ok := common.LookRotationFlat(step); ok {
				tr.Rotation = look
			}
		}
		if mount != nil {
			mount.FireRequested = mount.FireRequested || out.Fire
			mount.ReloadRequested = mount.ReloadRequested || out.Reload
		}
	})
}

func (s *ScriptSystem) run(e ecs.Entity, sc *component.Script, tr *component.Transform, mount *component.WeaponMount, w *ecs.World, dt float64) (ScriptOutput, error) {
	rt, err := s.runtime(e, sc)
	if err != nil {
		return ScriptOutput{}, err
	}

	ammo, reserve := 0, 0
	if mount != nil && mount.Weapon != nil {
		ammo = mount.Weapon.CurrentAmmunition()
		reserve = mount.Weapon.TotalReserve()
	}
	inputs := map[string]any{
		"time":     w.Time(),
		"dt":       dt,
		"tick":     w.Tick(),
		"target_x": tr.Position.X(),
		"target_z": tr.Position.Z(),
		"ammo":     ammo,
		"reserve":  reserve,
	}
	for _, name := range scriptInputs {
		if !rt.compiled.IsDefined(name) {
			continue
		}
		if err := rt.compiled.Set(name, inputs[name]); err != nil {
			return ScriptOutput{}, fmt.Errorf("script %s: set %s: %w", sc.Path, name, err)
		}
	}
	for _, name := range scriptOutputs {
		if !rt.compiled.IsDefined(name) {
			continue
		}
		if err := rt.compiled.Set(name, 0); err != nil {
			return ScriptOutput{}, fmt.Errorf("script %s: reset %s: %w", sc.Path, name, err)
		}
	}
	if err := rt.compiled.Run(); err != nil {
		return ScriptOutput{}, fmt.Errorf("script %s: run: %w", sc.Path, err)
	}

	move := mgl64.Vec3{rt.outputFloat("move_x"), 0, rt.outputFloat("move_z")}
	if move.Len() > 1 {
		move = move.Normalize()
	}
	return ScriptOutput{
		Move:   move,
		Fire:   rt.outputBool("fire"),
		Reload: rt.outputBool("reload"),
	}, nil
}

func (rt *scriptRuntime) outputFloat(name string) float64 {
	if !rt.compiled.IsDefined(name) {
		return 0
	}
	return rt.compiled.Get(name).Float()
}

func (rt *scriptRuntime) outputBool(name string) bool {
	if !rt.compiled.IsDefined(name) {
		return false
	}
	return rt.compiled.Get(name).Bool()
}

// runtime compiles sc once per entity and again whenever its source changes.
func (s *ScriptSystem) runtime(e ecs.Entity, sc *component.Script) (*scriptRuntime, error) {
	if rt, ok := s.runtimes[e]; ok && rt.source == string(sc.Source) {
		return rt, nil
	}
	compiled, err := CompileScenario(sc.Source)
	if err != nil {
		return nil, fmt.Errorf("script %s: %w", sc.Path, err)
	}
	rt := &scriptRuntime{source: string(sc.Source), compiled: compiled}
	s.runtimes[e] = rt
	return rt, nil
}

// CompileScenario compiles a scenario with the input and output globals
// predeclared, so scripts only assign the outputs they care about.
func CompileScenario(src []byte) (*tengo.Compiled, error) {
	script := tengo.NewScript(src)
	for _, name := range scriptInputs {
		if err := script.Add(name, 0); err != nil {
			return nil, err
		}
	}
	for _, name := range scriptOutputs {
		if err := script.Add(name, 0); err != nil {
			return nil, err
		}
	}
	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))
	return script.Compile()
}
