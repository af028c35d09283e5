package main

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/milk9111/sentinel/ecs"
	"github.com/milk9111/sentinel/ecs/component"
	"github.com/milk9111/sentinel/hud"
	"github.com/milk9111/sentinel/levels"
	"github.com/milk9111/sentinel/logger"
	"github.com/milk9111/sentinel/sim"
	"golang.design/x/clipboard"
	"gopkg.in/yaml.v3"
)

const (
	baseWidth  = 1280
	baseHeight = 720

	tickDelta  = 1.0 / 60
	moveSpeed  = 4.0
	statusTime = 120
)

type Game struct {
	sim    *sim.Sim
	binder *hud.Binder
	snap   sim.Snapshot
	scale  float64

	paused      bool
	clipboardOK bool
	status      string
	statusTicks int
}

func NewGame(levelName string, scale float64, clipboardOK bool) (*Game, error) {
	lvl, err := levels.LoadLevel(levelName)
	if err != nil {
		return nil, err
	}
	s, err := sim.New(lvl)
	if err != nil {
		return nil, err
	}
	return &Game{
		sim:         s,
		binder:      hud.NewBinder(),
		snap:        s.Snapshot(),
		scale:       scale,
		clipboardOK: clipboardOK,
	}, nil
}

func (g *Game) Update() error {
	if g.statusTicks > 0 {
		g.statusTicks--
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyP) {
		g.paused = !g.paused
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyC) {
		g.copySnapshot()
	}

	e, mount, ok := g.sim.Player()
	if ok {
		g.handlePlayer(e, mount)
	}

	if !g.paused {
		if err := g.sim.Step(tickDelta); err != nil {
			return err
		}
	}

	if ok && mount.Weapon != nil && ecs.IsAlive(g.sim.World, e) {
		g.binder.Tick(mount.Weapon)
	}
	g.snap = g.sim.Snapshot()
	return nil
}

// handlePlayer maps keys onto the player's weapon requests and moves it
// directly. Held keys take precedence over the target's script.
func (g *Game) handlePlayer(e ecs.Entity, mount *component.WeaponMount) {
	if mount.Weapon != nil {
		fire := inpututil.IsKeyJustPressed(ebiten.KeySpace)
		if mount.Weapon.IsAutomatic() && !mount.Weapon.CoolingDown() {
			fire = fire || ebiten.IsKeyPressed(ebiten.KeySpace)
		}
		mount.FireRequested = mount.FireRequested || fire
		if inpututil.IsKeyJustPressed(ebiten.KeyR) {
			mount.ReloadRequested = true
		}
	}

	var move mgl64.Vec3
	if ebiten.IsKeyPressed(ebiten.KeyW) {
		move[2]++
	}
	if ebiten.IsKeyPressed(ebiten.KeyS) {
		move[2]--
	}
	if ebiten.IsKeyPressed(ebiten.KeyD) {
		move[0]++
	}
	if ebiten.IsKeyPressed(ebiten.KeyA) {
		move[0]--
	}
	if move.Len() == 0 {
		return
	}
	tr, ok := ecs.Get(g.sim.World, e, component.TransformComponent.Kind())
	if !ok {
		return
	}
	tr.Position = tr.Position.Add(move.Normalize().Mul(moveSpeed * tickDelta))
}

func (g *Game) copySnapshot() {
	if !g.clipboardOK {
		g.setStatus("clipboard unavailable")
		return
	}
	out, err := yaml.Marshal(g.snap)
	if err != nil {
		logger.Log.WithError(err).Warn("marshal snapshot")
		g.setStatus("snapshot failed")
		return
	}
	clipboard.Write(clipboard.FmtText, out)
	g.setStatus("snapshot copied")
}

func (g *Game) setStatus(msg string) {
	g.status = msg
	g.statusTicks = statusTime
}

func (g *Game) Draw(screen *ebiten.Image) {
	drawWorld(screen, g.snap, g.scale)
	drawHUD(screen, g.snap, g.binder.Labels(), g.paused)
	if g.statusTicks > 0 {
		drawStatus(screen, g.status)
	}
}

func (g *Game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	return baseWidth, baseHeight
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	panic("shouldn't use Layout")
}
