package prefabs

import "fmt"

// Component specs decoded from a prefab's components map. Positions are
// [x, y, z]; yaw is in degrees from +Z toward +X.

type TransformComponentSpec struct {
	Position [3]float64 `yaml:"position"`
	Yaw      float64    `yaml:"yaw"`
}

type BodyComponentSpec struct {
	Radius   float64 `yaml:"radius"`
	Category string  `yaml:"category"`
}

type PerceptionComponentSpec struct {
	DetectionRange float64  `yaml:"detection_range"`
	FieldOfView    float64  `yaml:"field_of_view"`
	ShootingRange  float64  `yaml:"shooting_range"`
	AimRange       float64  `yaml:"aim_range"`
	Obstruction    []string `yaml:"obstruction"`
}

type OrientationComponentSpec struct {
	RotationSpeed float64 `yaml:"rotation_speed"`
	OffsetDegrees float64 `yaml:"offset_degrees"`
	Snap          bool    `yaml:"snap"`
}

type BrainComponentSpec struct {
	EyeHeight   float64                  `yaml:"eye_height"`
	Perception  PerceptionComponentSpec  `yaml:"perception"`
	Orientation OrientationComponentSpec `yaml:"orientation"`
}

func (s BrainComponentSpec) Validate() error {
	p := s.Perception
	switch {
	case p.DetectionRange < 0 || p.FieldOfView < 0 || p.ShootingRange < 0 || p.AimRange < 0:
		return fmt.Errorf("%w: negative perception range", ErrInvalidSpec)
	case p.FieldOfView > 360:
		return fmt.Errorf("%w: field of view %.1f exceeds 360", ErrInvalidSpec, p.FieldOfView)
	case p.AimRange > 0 && p.AimRange < p.ShootingRange:
		return fmt.Errorf("%w: aim range %.1f inside shooting range %.1f", ErrInvalidSpec, p.AimRange, p.ShootingRange)
	case s.Orientation.RotationSpeed < 0:
		return fmt.Errorf("%w: negative rotation speed", ErrInvalidSpec)
	}
	return nil
}

type NavAgentComponentSpec struct {
	Speed            float64 `yaml:"speed"`
	AngularSpeed     float64 `yaml:"angular_speed"`
	StoppingDistance float64 `yaml:"stopping_distance"`
}

type WeaponMountComponentSpec struct {
	Weapon       string     `yaml:"weapon"`
	EyeHeight    float64    `yaml:"eye_height"`
	MuzzleOffset [3]float64 `yaml:"muzzle_offset"`
	AutoReload   bool       `yaml:"auto_reload"`
	Spread       float64    `yaml:"spread"`
}

type HealthComponentSpec struct {
	Max int `yaml:"max"`
}

type ScriptComponentSpec struct {
	Path  string  `yaml:"path"`
	Speed float64 `yaml:"speed"`
}
