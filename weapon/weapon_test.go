package weapon

import (
	"errors"
	"math/rand/v2"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/sentinel/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedMount struct {
	origin, forward, muzzle mgl64.Vec3
}

func (m fixedMount) Camera() (mgl64.Vec3, mgl64.Vec3) { return m.origin, m.forward }
func (m fixedMount) Muzzle() mgl64.Vec3 { return m.muzzle }

func defaultMount() fixedMount {
	return fixedMount{
		origin:  mgl64.Vec3{0, 1.6, 0},
		forward: common.Forward,
		muzzle:  mgl64.Vec3{0.3, 1.4, 0.5},
	}
}

func newTestWeapon(t *testing.T, mutate func(*Config), opts ...Option) *Weapon {
	t.Helper()
	cfg := DefaultConfig()
	if mutate != nil {
		mutate(&cfg)
	}
	w, err := New(cfg, append([]Option{WithMount(defaultMount())}, opts...)...)
	require.NoError(t, err)
	return w
}

func TestNewValidates(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero_capacity", func(c *Config) { c.MagazineCapacity = 0 }},
		{"negative_reserve", func(c *Config) { c.Reserve = -1 }},
		{"zero_rate", func(c *Config) { c.RoundsPerMinute = 0 }},
		{"negative_impulse", func(c *Config) { c.ProjectileImpulse = -1 }},
		{"spread_too_wide", func(c *Config) { c.SpreadDegrees = 90 }},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			cfg := DefaultConfig()
			c.mutate(&cfg)
			_, err := New(cfg)
			assert.True(t, errors.Is(err, ErrInvalidConfig), "got %v", err)
		})
	}
}

func TestNewStartsFull(t *testing.T) {
	w := newTestWeapon(t, nil)
	assert.Equal(t, 30, w.CurrentAmmunition())
	assert.Equal(t, 20, w.TotalReserve())
	assert.True(t, w.IsFull())
	assert.True(t, w.CanFire())
}

func TestFireTwiceInsideCooldown(t *testing.T) {
	var spawned []Projectile
	w := newTestWeapon(t, nil, WithSpawner(SpawnerFunc(func(p Projectile) { spawned = append(spawned, p) })))

	first := w.Fire(1)
	require.True(t, first.Fired)
	assert.Equal(t, CueFire, first.Cue)
	assert.Equal(t, 29, w.CurrentAmmunition())

	w.Tick(w.Config().Cooldown() / 2)
	second := w.Fire(1)
	assert.False(t, second.Fired)
	assert.Equal(t, CueNone, second.Cue)
	assert.Equal(t, 29, w.CurrentAmmunition())
	assert.Len(t, spawned, 1)

	w.Tick(w.Config().Cooldown() / 2)
	assert.True(t, w.Fire(1).Fired)
	assert.Len(t, spawned, 2)
}

func TestFireEmpty(t *testing.T) {
	w := newTestWeapon(t, func(c *Config) { c.MagazineCapacity = 1 })
	require.True(t, w.Fire(1).Fired)
	w.Tick(1)

	res := w.Fire(1)
	assert.False(t, res.Fired)
	assert.Equal(t, CueFireEmpty, res.Cue)
	assert.Equal(t, 0, w.CurrentAmmunition())
	assert.Equal(t, 20, w.TotalReserve())
}

func TestDryPullRightAfterLastRound(t *testing.T) {
	w := newTestWeapon(t, func(c *Config) { c.MagazineCapacity = 1 })
	require.True(t, w.Fire(1).Fired)
	require.True(t, w.CoolingDown())

	res := w.Fire(1)
	assert.False(t, res.Fired)
	assert.Equal(t, CueFireEmpty, res.Cue)
	assert.Equal(t, 0, w.CurrentAmmunition())
	assert.Equal(t, 20, w.TotalReserve())
}

func TestDryClickArmsCooldown(t *testing.T) {
	w := newTestWeapon(t, func(c *Config) { c.MagazineCapacity = 1 })
	require.NoError(t, w.Restore(State{Magazine: 0, Reserve: 5}))
	require.False(t, w.CoolingDown())

	assert.Equal(t, CueFireEmpty, w.Fire(1).Cue)
	assert.True(t, w.CoolingDown())
	assert.Equal(t, 5, w.TotalReserve())
}

func TestFireWithoutMount(t *testing.T) {
	w, err := New(DefaultConfig())
	require.NoError(t, err)
	res := w.Fire(1)
	assert.False(t, res.Fired)
	assert.Equal(t, CueFireEmpty, res.Cue)
	assert.Equal(t, 30, w.CurrentAmmunition())
}

func TestFireAimsAtCameraHit(t *testing.T) {
	hitPoint := mgl64.Vec3{0, 1.6, 50}
	var gotMax float64
	rc := common.RaycasterFunc(func(origin, dir mgl64.Vec3, maxDist float64, _ uint32) (common.RaycastHit, bool) {
		gotMax = maxDist
		return common.RaycastHit{Body: 9, Point: hitPoint, Distance: 50}, true
	})
	w := newTestWeapon(t, nil, WithRaycaster(rc), WithOwner(4))

	res := w.Fire(1)
	require.True(t, res.Fired)
	assert.Equal(t, 500.0, gotMax)

	m := defaultMount()
	want := hitPoint.Sub(m.muzzle).Normalize().Mul(400)
	assert.True(t, res.Projectile.Velocity.ApproxEqualThreshold(want, 1e-6), "velocity %v want %v", res.Projectile.Velocity, want)
	assert.Equal(t, m.muzzle, res.Projectile.Origin)
	assert.Equal(t, common.BodyID(4), res.Projectile.Owner)
}

func TestFireFallsBackToFarPoint(t *testing.T) {
	miss := common.RaycasterFunc(func(mgl64.Vec3, mgl64.Vec3, float64, uint32) (common.RaycastHit, bool) {
		return common.RaycastHit{}, false
	})
	w := newTestWeapon(t, nil, WithRaycaster(miss))
	res := w.Fire(1)
	require.True(t, res.Fired)

	m := defaultMount()
	far := m.origin.Add(common.Forward.Mul(1000))
	want := far.Sub(m.muzzle).Normalize()
	assert.True(t, res.Projectile.Velocity.Normalize().ApproxEqualThreshold(want, 1e-9))
	assert.InDelta(t, 400, res.Projectile.Velocity.Len(), 1e-9)
}

func TestSpreadStaysInsideCone(t *testing.T) {
	w := newTestWeapon(t, func(c *Config) {
		c.SpreadDegrees = 4
		c.MagazineCapacity = 200
	}, WithRand(rand.New(rand.NewPCG(7, 7))))

	m := defaultMount()
	straight := m.origin.Add(common.Forward.Mul(1000)).Sub(m.muzzle).Normalize()
	for i := 0; i < 100; i++ {
		res := w.Fire(1)
		require.True(t, res.Fired)
		got := res.Projectile.Velocity.Normalize()
		assert.LessOrEqual(t, common.AngleBetween(straight, got), 4.0+1e-6)
		w.Tick(1)
	}
}

func TestReload(t *testing.T) {
	cases := []struct {
		name              string
		magazine, reserve int
		wantMag, wantRes  int
		wantAmount        int
		wantCue           Cue
	}{
		{"partial_reserve", 5, 12, 17, 0, 12, CueReload},
		{"plenty_reserve", 5, 100, 30, 75, 25, CueReload},
		{"from_empty", 0, 40, 30, 10, 30, CueReloadEmpty},
		{"full_magazine", 30, 10, 30, 10, 0, CueNone},
		{"empty_reserve", 3, 0, 3, 0, 0, CueNone},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			w := newTestWeapon(t, nil)
			require.NoError(t, w.Restore(State{Magazine: c.magazine, Reserve: c.reserve}))

			before := w.CurrentAmmunition() + w.TotalReserve()
			res := w.Reload()
			assert.Equal(t, c.wantAmount, res.Amount)
			assert.Equal(t, c.wantCue, res.Cue)
			assert.Equal(t, c.wantMag, w.CurrentAmmunition())
			assert.Equal(t, c.wantRes, w.TotalReserve())
			assert.Equal(t, before, w.CurrentAmmunition()+w.TotalReserve())
		})
	}
}

func TestAmmunitionInvariantsOverRandomSequences(t *testing.T) {
	rng := rand.New(rand.NewPCG(42, 1))
	for run := 0; run < 50; run++ {
		w := newTestWeapon(t, func(c *Config) {
			c.MagazineCapacity = 1 + rng.IntN(40)
			c.Reserve = rng.IntN(100)
			c.RoundsPerMinute = 60 + rng.IntN(900)
		})
		for step := 0; step < 300; step++ {
			sum := w.CurrentAmmunition() + w.TotalReserve()
			reserve := w.TotalReserve()
			switch rng.IntN(3) {
			case 0:
				mag := w.CurrentAmmunition()
				res := w.Fire(1)
				if res.Fired {
					require.Equal(t, sum-1, w.CurrentAmmunition()+w.TotalReserve())
					require.Equal(t, mag-1, w.CurrentAmmunition())
				} else {
					require.Equal(t, sum, w.CurrentAmmunition()+w.TotalReserve())
				}
				require.Equal(t, reserve, w.TotalReserve())
			case 1:
				w.Reload()
				require.Equal(t, sum, w.CurrentAmmunition()+w.TotalReserve())
				require.LessOrEqual(t, w.TotalReserve(), reserve)
			default:
				w.Tick(rng.Float64() * 0.2)
			}
			require.GreaterOrEqual(t, w.CurrentAmmunition(), 0)
			require.LessOrEqual(t, w.CurrentAmmunition(), w.Capacity())
			require.GreaterOrEqual(t, w.TotalReserve(), 0)
		}
	}
}

func TestTickIgnoresNegative(t *testing.T) {
	w := newTestWeapon(t, nil)
	require.True(t, w.Fire(1).Fired)
	cd := w.Snapshot().Cooldown
	w.Tick(-5)
	assert.Equal(t, cd, w.Snapshot().Cooldown)
	assert.False(t, w.CanFire())
}

func TestRestoreRejectsBadState(t *testing.T) {
	w := newTestWeapon(t, nil)
	err := w.Restore(State{Magazine: 31})
	assert.ErrorIs(t, err, ErrInvalidState)
	assert.Equal(t, 30, w.CurrentAmmunition())
}

func TestFillReserve(t *testing.T) {
	w := newTestWeapon(t, nil)
	w.FillReserve(15)
	w.FillReserve(-3)
	assert.Equal(t, 35, w.TotalReserve())
}
