// Package weapon implements magazine and reserve accounting, fire-rate gating
// and projectile launch for a single firearm.
package weapon

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/sentinel/common"
)

var (
	ErrInvalidConfig = errors.New("weapon: invalid config")
	ErrInvalidState  = errors.New("weapon: invalid state")
)

type Config struct {
	MagazineCapacity int
	Reserve          int
	RoundsPerMinute  int
	Automatic        bool

	ProjectileImpulse  float64
	ProjectileLifetime float64
	// MaximumDistance bounds the camera raycast that picks the aim point.
	MaximumDistance float64
	Mask            uint32
	// FallbackDistance places the aim point along the camera forward axis
	// when the camera ray hits nothing.
	FallbackDistance float64
	SpreadDegrees    float64
}

func DefaultConfig() Config {
	return Config{
		MagazineCapacity:   30,
		Reserve:            20,
		RoundsPerMinute:    200,
		ProjectileImpulse:  400,
		ProjectileLifetime: 5,
		MaximumDistance:    500,
		Mask:               common.AllLayers,
		FallbackDistance:   1000,
	}
}

func (c Config) Validate() error {
	switch {
	case c.MagazineCapacity <= 0:
		return fmt.Errorf("%w: magazine capacity %d", ErrInvalidConfig, c.MagazineCapacity)
	case c.Reserve < 0:
		return fmt.Errorf("%w: reserve %d", ErrInvalidConfig, c.Reserve)
	case c.RoundsPerMinute <= 0:
		return fmt.Errorf("%w: rounds per minute %d", ErrInvalidConfig, c.RoundsPerMinute)
	case c.ProjectileImpulse < 0 || c.MaximumDistance < 0 || c.FallbackDistance < 0:
		return fmt.Errorf("%w: negative distance or impulse", ErrInvalidConfig)
	case c.SpreadDegrees < 0 || c.SpreadDegrees >= 90:
		return fmt.Errorf("%w: spread %.2f", ErrInvalidConfig, c.SpreadDegrees)
	}
	return nil
}

// Cooldown is the minimum time between two shots in seconds.
func (c Config) Cooldown() float64 {
	if c.RoundsPerMinute <= 0 {
		return 0
	}
	return 60 / float64(c.RoundsPerMinute)
}

// Mount is whatever holds the weapon: it provides the aiming camera and the
// muzzle socket in world space.
type Mount interface {
	Camera() (origin, forward mgl64.Vec3)
	Muzzle() mgl64.Vec3
}

// Projectile is the spawn request handed to a Spawner.
type Projectile struct {
	Origin   mgl64.Vec3
	Rotation mgl64.Quat
	Velocity mgl64.Vec3
	Lifetime float64
	Owner    common.BodyID
}

type Spawner interface {
	SpawnProjectile(p Projectile)
}

type SpawnerFunc func(p Projectile)

func (f SpawnerFunc) SpawnProjectile(p Projectile) { f(p) }

type FireResult struct {
	Fired      bool
	Cue        Cue
	Projectile Projectile
}

type ReloadResult struct {
	Amount int
	Cue    Cue
}

// State is the mutable part of a weapon, used for HUD reads and hot reloads.
type State struct {
	Magazine int     `json:"magazine" yaml:"magazine"`
	Reserve  int     `json:"reserve" yaml:"reserve"`
	Capacity int     `json:"capacity" yaml:"capacity"`
	Cooldown float64 `json:"cooldown" yaml:"cooldown"`
}

type Weapon struct {
	cfg Config

	magazine int
	reserve  int
	clock    float64
	nextFire float64

	mount   Mount
	rc      common.Raycaster
	spawner Spawner
	rng     *rand.Rand
	owner   common.BodyID
}

type Option func(*Weapon)

func WithMount(m Mount) Option { return func(w *Weapon) { w.mount = m } }

func WithRaycaster(rc common.Raycaster) Option { return func(w *Weapon) { w.rc = rc } }

func WithSpawner(s Spawner) Option { return func(w *Weapon) { w.spawner = s } }

// WithRand sets the source used for spread. Weapons without spread never draw.
func WithRand(r *rand.Rand) Option { return func(w *Weapon) { w.rng = r } }

func WithOwner(id common.BodyID) Option { return func(w *Weapon) { w.owner = id } }

// New builds a weapon with a full magazine and the configured reserve.
func New(cfg Config, opts ...Option) (*Weapon, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	w := &Weapon{
		cfg:      cfg,
		magazine: cfg.MagazineCapacity,
		reserve:  cfg.Reserve,
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.rng == nil {
		w.rng = rand.New(rand.NewPCG(1, 2))
	}
	return w, nil
}

func (w *Weapon) Config() Config { return w.cfg }

// Attach replaces the mount and raycaster after construction. Entity builders
// create the weapon before its owner has a body.
func (w *Weapon) Attach(m Mount, rc common.Raycaster, owner common.BodyID) {
	w.mount = m
	w.rc = rc
	w.owner = owner
}

func (w *Weapon) SetSpawner(s Spawner) { w.spawner = s }

// Tick advances the weapon clock. Negative dt is ignored.
func (w *Weapon) Tick(dt float64) {
	if dt > 0 {
		w.clock += dt
	}
}

func (w *Weapon) CurrentAmmunition() int { return w.magazine }

func (w *Weapon) TotalReserve() int { return w.reserve }

func (w *Weapon) Capacity() int { return w.cfg.MagazineCapacity }

func (w *Weapon) IsFull() bool { return w.magazine == w.cfg.MagazineCapacity }

func (w *Weapon) HasAmmunition() bool { return w.magazine > 0 }

func (w *Weapon) IsAutomatic() bool { return w.cfg.Automatic }

func (w *Weapon) CoolingDown() bool { return w.clock < w.nextFire }

// CanFire reports whether Fire would launch a projectile right now.
func (w *Weapon) CanFire() bool {
	return w.mount != nil && w.HasAmmunition() && !w.CoolingDown()
}

// Fire launches one projectile. A pull with nothing to fire always returns
// CueFireEmpty and spends nothing; a mounted dry click still arms the
// cooldown. A shot inside the cooldown window is dropped silently.
func (w *Weapon) Fire(spreadMultiplier float64) FireResult {
	if w.mount == nil || !w.HasAmmunition() {
		if w.mount != nil && !w.CoolingDown() {
			w.nextFire = w.clock + w.cfg.Cooldown()
		}
		return FireResult{Cue: CueFireEmpty}
	}
	if w.CoolingDown() {
		return FireResult{}
	}

	w.magazine = common.ClampInt(w.magazine-1, 0, w.cfg.MagazineCapacity)
	w.nextFire = w.clock + w.cfg.Cooldown()

	muzzle := w.mount.Muzzle()
	dir := w.aimDirection(muzzle)
	rot := common.LookRotation(dir)
	if spread := w.cfg.SpreadDegrees * spreadMultiplier; spread > 0 {
		rot = rot.Mul(w.spreadRotation(spread))
		dir = common.ForwardOf(rot)
	}

	p := Projectile{
		Origin:   muzzle,
		Rotation: rot,
		Velocity: dir.Mul(w.cfg.ProjectileImpulse),
		Lifetime: w.cfg.ProjectileLifetime,
		Owner:    w.owner,
	}
	if w.spawner != nil {
		w.spawner.SpawnProjectile(p)
	}
	return FireResult{Fired: true, Cue: CueFire, Projectile: p}
}

// aimDirection points from the muzzle at whatever the camera is looking at.
func (w *Weapon) aimDirection(muzzle mgl64.Vec3) mgl64.Vec3 {
	origin, forward := w.mount.Camera()
	fwd, ok := common.Normalize(forward)
	if !ok {
		fwd = common.Forward
	}

	aim := origin.Add(fwd.Mul(w.cfg.FallbackDistance))
	if w.rc != nil && w.cfg.MaximumDistance > 0 {
		if hit, ok := w.rc.Raycast(origin, fwd, w.cfg.MaximumDistance, w.cfg.Mask); ok {
			aim = hit.Point
		}
	}

	dir, ok := common.Normalize(aim.Sub(muzzle))
	if !ok {
		return fwd
	}
	return dir
}

// spreadRotation picks a uniform direction inside a cone of the given half
// angle around the forward axis.
func (w *Weapon) spreadRotation(halfAngleDeg float64) mgl64.Quat {
	maxCos := math.Cos(mgl64.DegToRad(halfAngleDeg))
	cosTheta := 1 - w.rng.Float64()*(1-maxCos)
	theta := math.Acos(cosTheta)
	phi := w.rng.Float64() * 2 * math.Pi
	axis := mgl64.Vec3{math.Cos(phi), math.Sin(phi), 0}
	return mgl64.QuatRotate(theta, axis)
}

// Reload moves rounds from the reserve into the magazine. It does nothing
// when the magazine is full or the reserve is empty.
func (w *Weapon) Reload() ReloadResult {
	if w.reserve <= 0 || w.IsFull() {
		return ReloadResult{}
	}
	wasEmpty := !w.HasAmmunition()
	amount := min(w.cfg.MagazineCapacity-w.magazine, w.reserve)
	w.reserve -= amount
	w.magazine += amount

	cue := CueReload
	if wasEmpty {
		cue = CueReloadEmpty
	}
	return ReloadResult{Amount: amount, Cue: cue}
}

// FillReserve adds rounds to the reserve, as an ammunition pickup would.
func (w *Weapon) FillReserve(amount int) {
	if amount > 0 {
		w.reserve += amount
	}
}

func (w *Weapon) Snapshot() State {
	return State{
		Magazine: w.magazine,
		Reserve:  w.reserve,
		Capacity: w.cfg.MagazineCapacity,
		Cooldown: math.Max(0, w.nextFire-w.clock),
	}
}

// Restore applies a previously captured state. Capacity is taken from the
// current config, so a state from a larger magazine is rejected.
func (w *Weapon) Restore(s State) error {
	if s.Magazine < 0 || s.Magazine > w.cfg.MagazineCapacity || s.Reserve < 0 || s.Cooldown < 0 {
		return fmt.Errorf("%w: magazine %d reserve %d", ErrInvalidState, s.Magazine, s.Reserve)
	}
	w.magazine = s.Magazine
	w.reserve = s.Reserve
	w.nextFire = w.clock + s.Cooldown
	return nil
}
