package system

import (
	"github.com/milk9111/sentinel/ecs"
	"github.com/milk9111/sentinel/ecs/component"
	"github.com/milk9111/sentinel/weapon"
)

// WeaponSystem advances weapon clocks and serves fire and reload requests
// raised earlier in the tick. Magazines on mounts with AutoReload are
// refilled as soon as they run dry.
type WeaponSystem struct{}

func NewWeaponSystem() *WeaponSystem {
	return &WeaponSystem{}
}

func (s *WeaponSystem) Update(w *ecs.World, dt float64) {
	ecs.ForEach(w, component.WeaponMountComponent.Kind(), func(e ecs.Entity, m *component.WeaponMount) {
		if m.Weapon == nil {
			return
		}
		m.Weapon.Tick(dt)

		if m.ReloadRequested {
			m.ReloadRequested = false
			reload(w, e, m)
		}
		if m.FireRequested {
			m.FireRequested = false
			Fire(w, e, m)
		}
		if m.AutoReload && !m.Weapon.HasAmmunition() && m.Weapon.TotalReserve() > 0 {
			reload(w, e, m)
		}
	})
}

// Fire discharges m's weapon once and publishes the resulting cue.
func Fire(w *ecs.World, e ecs.Entity, m *component.WeaponMount) weapon.FireResult {
	res := m.Weapon.Fire(m.Spread)
	if res.Fired {
		m.Shots++
	}
	publishCue(w, e, m, res.Cue)
	return res
}

func reload(w *ecs.World, e ecs.Entity, m *component.WeaponMount) weapon.ReloadResult {
	res := m.Weapon.Reload()
	publishCue(w, e, m, res.Cue)
	return res
}

func publishCue(w *ecs.World, e ecs.Entity, m *component.WeaponMount, cue weapon.Cue) {
	if cue == weapon.CueNone {
		return
	}
	m.LastCue = cue
	w.Events().Push(ecs.Event{
		Type: ecs.EventWeaponCue,
		Data: ecs.WeaponCue{Entity: e, Cue: string(cue)},
	})
}
