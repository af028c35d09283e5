package entity

import (
	"fmt"
	"strings"

	"github.com/milk9111/sentinel/ecs"
)

var categoryNames = map[string]uint32{
	"obstacle": ecs.CategoryObstacle,
	"agent":    ecs.CategoryAgent,
	"target":   ecs.CategoryTarget,
}

// CategoryByName maps a prefab category name to its collision bit.
func CategoryByName(name string) (uint32, error) {
	c, ok := categoryNames[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return 0, fmt.Errorf("unknown collision category %q", name)
	}
	return c, nil
}

// MaskFromNames ORs the named categories together.
func MaskFromNames(names []string) (uint32, error) {
	var mask uint32
	for _, n := range names {
		c, err := CategoryByName(n)
		if err != nil {
			return 0, err
		}
		mask |= c
	}
	return mask, nil
}
