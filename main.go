package main

import (
	"flag"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/sentinel/ecs/entity"
	"github.com/milk9111/sentinel/logger"
	"golang.design/x/clipboard"
)

func main() {
	levelName := flag.String("level", "courtyard.json", "level file (disk path or embedded name)")
	seed := flag.Uint64("seed", 1, "spread seed")
	scale := flag.Float64("scale", 16, "pixels per world unit")
	flag.Parse()

	logger.Init()
	entity.Seed = *seed

	clipboardOK := true
	if err := clipboard.Init(); err != nil {
		logger.Log.WithError(err).Warn("clipboard unavailable; snapshot copy disabled")
		clipboardOK = false
	}

	game, err := NewGame(*levelName, *scale, clipboardOK)
	if err != nil {
		logger.Log.WithError(err).Fatal("load level")
	}

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(baseWidth, baseHeight)
	ebiten.SetWindowTitle("sentinel")

	if err := ebiten.RunGame(game); err != nil {
		logger.Log.WithError(err).Fatal("viewer stopped")
	}
}
