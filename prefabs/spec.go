package prefabs

import (
	"errors"
	"fmt"

	"github.com/milk9111/sentinel/weapon"
	"gopkg.in/yaml.v3"
)

var ErrInvalidSpec = errors.New("prefabs: invalid spec")

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

// EntityBuildSpec is a prefab: a name plus raw component specs keyed by the
// component's registry name.
type EntityBuildSpec struct {
	Name       string         `yaml:"name"`
	Components map[string]any `yaml:"components"`
}

func LoadEntityBuildSpec(filename string) (EntityBuildSpec, error) {
	spec, err := LoadSpec[EntityBuildSpec](filename)
	if err != nil {
		return spec, err
	}
	if len(spec.Components) == 0 {
		return spec, fmt.Errorf("%w: %s defines no components", ErrInvalidSpec, filename)
	}
	return spec, nil
}

// DecodeComponentSpec re-decodes one raw component into its typed spec.
func DecodeComponentSpec[T any](raw any) (T, error) {
	var zero T
	if raw == nil {
		return zero, nil
	}
	b, err := yaml.Marshal(raw)
	if err != nil {
		return zero, err
	}
	var out T
	if err := yaml.Unmarshal(b, &out); err != nil {
		return zero, err
	}
	return out, nil
}

type AudioSpec struct {
	Name   string  `yaml:"name"`
	File   string  `yaml:"file"`
	Volume float64 `yaml:"volume"`
}

// WeaponSpec is a weapon prefab. Mask lists collision category names.
type WeaponSpec struct {
	Name               string      `yaml:"name"`
	MagazineCapacity   int         `yaml:"magazine_capacity"`
	Reserve            int         `yaml:"reserve"`
	RoundsPerMinute    int         `yaml:"rounds_per_minute"`
	Automatic          bool        `yaml:"automatic"`
	ProjectileImpulse  float64     `yaml:"projectile_impulse"`
	ProjectileLifetime float64     `yaml:"projectile_lifetime"`
	ProjectileDamage   int         `yaml:"projectile_damage"`
	MaximumDistance    float64     `yaml:"maximum_distance"`
	FallbackDistance   float64     `yaml:"fallback_distance"`
	SpreadDegrees      float64     `yaml:"spread_degrees"`
	Mask               []string    `yaml:"mask"`
	Audio              []AudioSpec `yaml:"audio"`
}

func LoadWeaponSpec(filename string) (WeaponSpec, error) {
	spec, err := LoadSpec[WeaponSpec](filename)
	if err != nil {
		return spec, err
	}
	if err := spec.Validate(); err != nil {
		return spec, fmt.Errorf("prefabs: %s: %w", filename, err)
	}
	return spec, nil
}

func (s WeaponSpec) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("%w: weapon has no name", ErrInvalidSpec)
	}
	if err := s.Config(0).Validate(); err != nil {
		return fmt.Errorf("%w: weapon %s: %w", ErrInvalidSpec, s.Name, err)
	}
	for _, a := range s.Audio {
		if a.Name == "" || a.File == "" {
			return fmt.Errorf("%w: weapon %s: audio entry needs name and file", ErrInvalidSpec, s.Name)
		}
	}
	return nil
}

// Config converts the spec to a weapon config. Zero distances fall back to
// the weapon defaults; mask is resolved by the caller.
func (s WeaponSpec) Config(mask uint32) weapon.Config {
	cfg := weapon.DefaultConfig()
	cfg.MagazineCapacity = s.MagazineCapacity
	cfg.Reserve = s.Reserve
	cfg.RoundsPerMinute = s.RoundsPerMinute
	cfg.Automatic = s.Automatic
	cfg.SpreadDegrees = s.SpreadDegrees
	cfg.Mask = mask
	if s.ProjectileImpulse > 0 {
		cfg.ProjectileImpulse = s.ProjectileImpulse
	}
	if s.ProjectileLifetime > 0 {
		cfg.ProjectileLifetime = s.ProjectileLifetime
	}
	if s.MaximumDistance > 0 {
		cfg.MaximumDistance = s.MaximumDistance
	}
	if s.FallbackDistance > 0 {
		cfg.FallbackDistance = s.FallbackDistance
	}
	return cfg
}

// Clip returns the audio file mapped to a cue name.
func (s WeaponSpec) Clip(cue string) (string, bool) {
	for _, a := range s.Audio {
		if a.Name == cue {
			return a.File, true
		}
	}
	return "", false
}
