package main

import (
	"fmt"
	"image/color"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/milk9111/sentinel/hud"
	"github.com/milk9111/sentinel/sim"
	"golang.org/x/image/colornames"
)

var stateColors = map[string]color.Color{
	"idle":     colornames.Lightsteelblue,
	"aiming":   colornames.Gold,
	"shooting": colornames.Orangered,
	"seeking":  colornames.Mediumpurple,
}

// toScreen maps the XZ plane to the screen with +Z pointing up.
func toScreen(p mgl64.Vec3, scale float64) (float32, float32) {
	return float32(baseWidth/2 + p.X()*scale), float32(baseHeight/2 - p.Z()*scale)
}

func heading(yaw float64) mgl64.Vec3 {
	r := mgl64.DegToRad(yaw)
	return mgl64.Vec3{math.Sin(r), 0, math.Cos(r)}
}

func drawWorld(screen *ebiten.Image, snap sim.Snapshot, scale float64) {
	screen.Fill(colornames.Darkslategray)

	for _, o := range snap.Obstacles {
		x, y := toScreen(o.Center.Add(mgl64.Vec3{-o.HalfX, 0, o.HalfZ}), scale)
		w, h := float32(o.HalfX*2*scale), float32(o.HalfZ*2*scale)
		vector.FillRect(screen, x, y, w, h, colornames.Dimgray, false)
		vector.StrokeRect(screen, x, y, w, h, 1, colornames.Gray, false)
	}

	for _, a := range snap.Agents {
		drawAgent(screen, a, scale)
	}

	if t := snap.Target; t != nil {
		x, y := toScreen(t.Position, scale)
		vector.FillCircle(screen, x, y, float32(0.5*scale), colornames.Limegreen, true)
		hx, hy := toScreen(t.Position.Add(heading(t.Yaw)), scale)
		vector.StrokeLine(screen, x, y, hx, hy, 2, colornames.White, true)
	}

	for _, p := range snap.Projectiles {
		x, y := toScreen(p, scale)
		vector.FillCircle(screen, x, y, 2, colornames.Yellow, true)
	}
}

func drawAgent(screen *ebiten.Image, a sim.Agent, scale float64) {
	c, ok := stateColors[a.State]
	if !ok {
		c = colornames.White
	}
	x, y := toScreen(a.Position, scale)

	// View cone edges out to detection range, plus the shooting band.
	for _, side := range []float64{-1, 1} {
		edge := a.Position.Add(heading(a.Yaw + side*a.FOV/2).Mul(a.DetectionRange))
		ex, ey := toScreen(edge, scale)
		vector.StrokeLine(screen, x, y, ex, ey, 1, color.NRGBA{R: 255, G: 255, B: 255, A: 60}, true)
	}
	vector.StrokeCircle(screen, x, y, float32(a.ShootingRange*scale), 1, color.NRGBA{R: 255, G: 80, B: 40, A: 40}, true)

	vector.FillCircle(screen, x, y, float32(0.5*scale), c, true)
	hx, hy := toScreen(a.Position.Add(heading(a.Yaw)), scale)
	vector.StrokeLine(screen, x, y, hx, hy, 2, colornames.Black, true)

	if a.LastKnown != nil {
		lx, ly := toScreen(*a.LastKnown, scale)
		vector.StrokeLine(screen, lx-4, ly-4, lx+4, ly+4, 1, c, true)
		vector.StrokeLine(screen, lx-4, ly+4, lx+4, ly-4, 1, c, true)
	}
	ebitenutil.DebugPrintAt(screen, a.State, int(x)+8, int(y)-20)
}

func drawHUD(screen *ebiten.Image, snap sim.Snapshot, labels hud.Labels, paused bool) {
	ebitenutil.DebugPrint(screen, fmt.Sprintf("%s  tick %d  t=%.1fs  FPS %.0f", snap.Level, snap.Tick, snap.Time, ebiten.ActualFPS()))
	if paused {
		ebitenutil.DebugPrintAt(screen, "PAUSED", baseWidth/2-20, 4)
	}

	// Swatch in the binder colour next to the counters.
	vector.FillRect(screen, baseWidth-150, baseHeight-44, 12, 12, labels.CurrentColor, false)
	ebitenutil.DebugPrintAt(screen, labels.Current+" / "+labels.Reserve, baseWidth-130, baseHeight-46)
	if snap.Target != nil {
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("health %d", snap.Target.Health), baseWidth-130, baseHeight-30)
	}
	ebitenutil.DebugPrintAt(screen, "WASD move  SPACE fire  R reload  P pause  C copy snapshot", 8, baseHeight-20)
}

func drawStatus(screen *ebiten.Image, msg string) {
	ebitenutil.DebugPrintAt(screen, msg, 8, baseHeight-36)
}
