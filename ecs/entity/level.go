package entity

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/sentinel/ecs"
	"github.com/milk9111/sentinel/ecs/component"
	"github.com/milk9111/sentinel/levels"
)

// LevelEntities lists what LoadLevelToWorld created. Target is zero when the
// level has none.
type LevelEntities struct {
	Obstacles []ecs.Entity
	Enemies   []ecs.Entity
	Target    ecs.Entity
}

// LoadLevelToWorld creates obstacles, enemies and the target described by
// lvl. On error the entities created so far are left in place.
func LoadLevelToWorld(w *ecs.World, lvl *levels.Level) (LevelEntities, error) {
	var out LevelEntities

	for i, o := range lvl.Obstacles {
		e := ecs.CreateEntity(w)
		if err := ecs.Add(w, e, component.ObstacleTagComponent.Kind(), &component.ObstacleTag{}); err != nil {
			return out, err
		}
		if err := SetEntityTransform(w, e, mgl64.Vec3(o.Center), 0); err != nil {
			return out, err
		}
		if err := ecs.Add(w, e, component.BodyComponent.Kind(), &component.Body{
			HalfX:    o.Half[0],
			HalfZ:    o.Half[1],
			Static:   true,
			Category: ecs.CategoryObstacle,
		}); err != nil {
			return out, fmt.Errorf("obstacle %d: %w", i, err)
		}
		out.Obstacles = append(out.Obstacles, e)
	}

	for i, s := range lvl.Enemies {
		e, err := spawn(w, s)
		if err != nil {
			return out, fmt.Errorf("enemy %d: %w", i, err)
		}
		out.Enemies = append(out.Enemies, e)
	}

	if lvl.Target != nil {
		e, err := spawn(w, *lvl.Target)
		if err != nil {
			return out, fmt.Errorf("target: %w", err)
		}
		out.Target = e
	}
	return out, nil
}

func spawn(w *ecs.World, s levels.Spawn) (ecs.Entity, error) {
	e, err := BuildEntity(w, s.Prefab)
	if err != nil {
		return 0, err
	}
	if err := SetEntityTransform(w, e, mgl64.Vec3(s.Position), s.Yaw); err != nil {
		return 0, err
	}
	if s.Script != "" {
		if err := AttachScript(w, e, s.Script, 0); err != nil {
			return 0, err
		}
	}
	return e, nil
}
