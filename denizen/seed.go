package denizen

import (
	"math"
	"time"

	"github.com/pthm-cable/tank/vec"
)

// Seed sinks through the water and grows into its species when its time runs out.
type Seed struct {
	Base
	WaterFriction float64 // fraction of velocity lost per second
	Gravity       float64
	Species       Factory
	TTL           float64 `inspect:"label,fmt:%.2fs"`
}

// NewSeed creates and registers a seed.
func NewSeed(o Options) *Seed {
	t := o.Tuning
	if t == nil {
		t = &defaultTuning
	}
	if o.Width == 0 {
		o.Width = t.SeedSize
	}
	if o.Height == 0 {
		o.Height = t.SeedSize
	}
	s := &Seed{Base: newBase(o, KindSeed)}
	s.WaterFriction = t.WaterFriction
	s.Gravity = t.Gravity
	s.Species = o.Species
	s.TTL = o.TTL
	if s.TTL == 0 {
		s.TTL = randInt(s.rng(), t.SeedTTLMin, t.SeedTTLMax)
	}
	s.attach(s)
	return s
}

// UpdateOneTick applies water friction and gravity, moves the seed and counts
// down its lifetime.
func (s *Seed) UpdateOneTick() {
	dt := s.dt()
	s.Velocity = s.Velocity.Scale(1 - s.WaterFriction*dt)
	s.Velocity.Y -= s.Gravity * dt
	s.Position = s.Position.Add(s.Velocity.Scale(dt))

	s.TTL -= dt
	if s.TTL < 0 {
		s.Spawn()
		s.Kill(0)
	}
}

// Spawn grows the seed's species at its current position. It returns nil when
// the seed carries no species.
func (s *Seed) Spawn() Denizen {
	if s.Species == nil {
		return nil
	}
	return s.Species(Options{
		World:    s.world,
		Position: s.Position,
		Tuning:   s.tuning,
	})
}

// OnClick plants the seed early.
func (s *Seed) OnClick() {
	s.Spawn()
	s.Kill(0)
}

// Starter is a stationary anchor that launches seeds when clicked.
type Starter struct {
	Base
}

// NewStarter creates and registers a starter. The anchor sits one box height
// above the requested position.
func NewStarter(o Options) *Starter {
	s := &Starter{Base: newBase(o, KindStarter)}
	s.Position.Y += s.Height
	s.attach(s)
	return s
}

// Update does nothing: starters have no physics and are never culled.
func (s *Starter) Update(time.Time) {}

// OnClick launches a seed of a random species from the tank catalog.
func (s *Starter) OnClick() {
	vx := randInt(s.rng(), -s.tuning.LaunchSpeed, s.tuning.LaunchSpeed)
	NewSeed(Options{
		World:    s.world,
		Position: s.Position,
		Velocity: LaunchVelocity(vx, s.tuning.LaunchApex),
		Species:  s.world.RandomSpecies(),
		Tuning:   s.tuning,
	})
}

// LaunchVelocity returns the launch velocity for a horizontal speed vx. Faster
// horizontal launches get less lift so seeds reach a similar apex.
func LaunchVelocity(vx, apex float64) vec.Vec2 {
	return vec.New(vx, apex-math.Abs(vx))
}
