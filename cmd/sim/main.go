package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/milk9111/sentinel/ecs"
	"github.com/milk9111/sentinel/ecs/entity"
	"github.com/milk9111/sentinel/levels"
	"github.com/milk9111/sentinel/logger"
	"github.com/milk9111/sentinel/prefabs"
	"github.com/milk9111/sentinel/sim"
	"github.com/milk9111/sentinel/telemetry"
	"github.com/milk9111/sentinel/weapon"
	"github.com/sirupsen/logrus"
)

func main() {
	levelName := flag.String("level", "courtyard.json", "level file (disk path or embedded name)")
	ticks := flag.Int("ticks", 600, "ticks to run; 0 runs until interrupted")
	dt := flag.Float64("dt", 1.0/60, "seconds per tick")
	seed := flag.Uint64("seed", 1, "spread seed")
	serve := flag.String("serve", "", "serve websocket telemetry on this address, e.g. :8080")
	watch := flag.Bool("watch", false, "hot reload prefabs and scripts from disk")
	every := flag.Int("every", 6, "broadcast a snapshot every N ticks")
	flag.Parse()

	logger.Init()
	entity.Seed = *seed

	if err := run(*levelName, *ticks, *dt, *serve, *watch, *every); err != nil {
		logger.Log.WithError(err).Fatal("sim failed")
	}
}

func run(levelName string, ticks int, dt float64, serve string, watch bool, every int) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	lvl, err := levels.LoadLevel(levelName)
	if err != nil {
		return err
	}
	s, err := sim.New(lvl, sim.WithEventSink(logEvent))
	if err != nil {
		return err
	}

	var hub *telemetry.Hub
	if serve != "" {
		hub = telemetry.NewHub()
		defer hub.Close()
		mux := http.NewServeMux()
		mux.Handle("/ws", hub)
		srv := &http.Server{Addr: serve, Handler: mux}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Log.WithError(err).Error("telemetry server stopped")
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
		logger.Log.WithField("addr", serve).Info("telemetry listening on /ws")
	}

	var changes <-chan string
	if watch {
		w, err := prefabs.NewWatcher(prefabs.Dir, filepath.Join(prefabs.Dir, "scripts"))
		if err != nil {
			return err
		}
		defer w.Close()
		changes = w.Events
		logger.Log.WithField("dir", prefabs.Dir).Info("watching prefabs")
	}

	// Pace to wall time whenever something outside the process is watching.
	var pace <-chan time.Time
	if hub != nil || watch {
		ticker := time.NewTicker(time.Duration(dt * float64(time.Second)))
		defer ticker.Stop()
		pace = ticker.C
	}

	for i := 0; ticks <= 0 || i < ticks; i++ {
		select {
		case <-ctx.Done():
			logger.Log.Info("interrupted")
			return summarize(s)
		default:
		}
		drainChanges(s, changes)

		if err := s.Step(dt); err != nil {
			return err
		}
		if hub != nil && every > 0 && i%every == 0 {
			if err := hub.Broadcast(s.Snapshot()); err != nil {
				logger.Log.WithError(err).Warn("broadcast snapshot")
			}
		}
		if pace != nil {
			select {
			case <-pace:
			case <-ctx.Done():
			}
		}
	}
	return summarize(s)
}

func drainChanges(s *sim.Sim, changes <-chan string) {
	for {
		select {
		case path, ok := <-changes:
			if !ok {
				return
			}
			name := prefabs.Name(path)
			if err := s.ReloadPrefab(name); err != nil {
				logger.Log.WithError(err).WithField("prefab", name).Warn("hot reload failed")
			}
		default:
			return
		}
	}
}

func logEvent(ev ecs.Event) {
	if hit, ok := ev.Data.(ecs.ProjectileHit); ok {
		logger.Log.WithFields(logrus.Fields{"owner": hit.Owner.String(), "hit": hit.Hit.String()}).Debug("projectile hit")
	}
}

func summarize(s *sim.Sim) error {
	snap := s.Snapshot()
	fields := logrus.Fields{
		"tick":        snap.Tick,
		"time":        snap.Time,
		"agents":      len(snap.Agents),
		"projectiles": len(snap.Projectiles),
		"shots":       s.CueCount(string(weapon.CueFire)),
		"dry_fires":   s.CueCount(string(weapon.CueFireEmpty)),
		"reloads":     s.CueCount(string(weapon.CueReload)) + s.CueCount(string(weapon.CueReloadEmpty)),
	}
	if snap.Target != nil {
		fields["target_health"] = snap.Target.Health
	}
	logger.Log.WithFields(fields).Info("simulation finished")
	for _, a := range snap.Agents {
		logger.Log.WithFields(logrus.Fields{
			"entity": a.Entity,
			"prefab": a.Prefab,
			"state":  a.State,
			"health": a.Health,
		}).Info("agent")
	}
	return nil
}
