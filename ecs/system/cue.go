package system

import (
	"github.com/milk9111/sentinel/ecs"
	"github.com/milk9111/sentinel/logger"
	"github.com/sirupsen/logrus"
)

// CueSystem drains the tick's events and hands them to Sink, which is where
// a host would start animations and sounds. It runs last.
type CueSystem struct {
	Sink func(ecs.Event)

	counts map[string]int
}

func NewCueSystem(sink func(ecs.Event)) *CueSystem {
	return &CueSystem{Sink: sink, counts: map[string]int{}}
}

func (s *CueSystem) Update(w *ecs.World, _ float64) {
	for _, ev := range w.Events().Drain() {
		if cue, ok := ev.Data.(ecs.WeaponCue); ok {
			s.counts[cue.Cue]++
			logger.Log.WithFields(logrus.Fields{"entity": cue.Entity.String(), "cue": cue.Cue}).Debug("weapon cue")
		}
		if s.Sink != nil {
			s.Sink(ev)
		}
	}
}

// Count reports how many times a weapon cue has been played.
func (s *CueSystem) Count(cue string) int {
	return s.counts[cue]
}
