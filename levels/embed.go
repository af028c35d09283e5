package levels

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
)

//go:embed *.json
var LevelsFS embed.FS

var ErrInvalidLevel = errors.New("levels: invalid level")

// Level is an arena: static obstacles, the sentinels guarding it and the
// target they track. Positions are [x, y, z] in world units.
type Level struct {
	Name      string     `json:"name"`
	Obstacles []Obstacle `json:"obstacles"`
	Enemies   []Spawn    `json:"enemies"`
	Target    *Spawn     `json:"target,omitempty"`
}

// Obstacle is an axis-aligned box on the ground plane.
type Obstacle struct {
	Center [3]float64 `json:"center"`
	Half   [2]float64 `json:"half"`
}

// Spawn places a prefab. Script, when set, drives the spawned entity.
type Spawn struct {
	Prefab   string     `json:"prefab"`
	Position [3]float64 `json:"position"`
	Yaw      float64    `json:"yaw,omitempty"`
	Script   string     `json:"script,omitempty"`
}

func LoadLevelFromFS(name string) (*Level, error) {
	data, err := fs.ReadFile(LevelsFS, name)
	if err != nil {
		return nil, fmt.Errorf("read level: %w", err)
	}
	return parse(data)
}

// LoadLevel reads name from disk when it exists there, else from the
// embedded levels.
func LoadLevel(name string) (*Level, error) {
	data, err := os.ReadFile(name)
	if err != nil {
		return LoadLevelFromFS(name)
	}
	return parse(data)
}

func parse(data []byte) (*Level, error) {
	var lvl Level
	if err := json.Unmarshal(data, &lvl); err != nil {
		return nil, fmt.Errorf("unmarshal level: %w", err)
	}
	if err := lvl.Validate(); err != nil {
		return nil, err
	}
	return &lvl, nil
}

func (l *Level) Validate() error {
	for i, o := range l.Obstacles {
		if o.Half[0] <= 0 || o.Half[1] <= 0 {
			return fmt.Errorf("%w: obstacle %d has extent %.2fx%.2f", ErrInvalidLevel, i, o.Half[0], o.Half[1])
		}
	}
	for i, s := range l.Enemies {
		if s.Prefab == "" {
			return fmt.Errorf("%w: enemy %d has no prefab", ErrInvalidLevel, i)
		}
	}
	if l.Target != nil && l.Target.Prefab == "" {
		return fmt.Errorf("%w: target has no prefab", ErrInvalidLevel)
	}
	return nil
}
