package denizen

import (
	"math"
	"math/rand"
	"time"

	"github.com/pthm-cable/tank/vec"
)

// cullMargin is how many box sizes a denizen may stray past the bounds
// before it is despawned.
const cullMargin = 5

// stepper converts wall time into whole fixed-size ticks.
type stepper struct {
	size time.Duration
	last time.Time
}

// advance returns the number of whole ticks elapsed since the checkpoint and
// moves the checkpoint forward by exactly that many ticks. The fractional
// remainder carries over to the next call.
func (s *stepper) advance(now time.Time) int {
	elapsed := now.Sub(s.last)
	if elapsed < s.size {
		return 0
	}
	n := elapsed / s.size
	s.last = s.last.Add(n * s.size)
	return int(n)
}

func (s *stepper) seconds() float64 {
	return s.size.Seconds()
}

// Base is the state and lifecycle shared by every variant.
type Base struct {
	ID       ID
	Kind     Kind
	Position vec.Vec2
	Velocity vec.Vec2
	Width    float64
	Height   float64
	ImageURI string `inspect:"skip"`
	Tasty    bool

	world   World
	tuning  *Tuning
	step    stepper
	self    Denizen
	dead    bool
	leaving bool
}

func newBase(o Options, kind Kind) Base {
	t := o.Tuning
	if t == nil {
		t = &defaultTuning
	}
	born := o.Born
	if born.IsZero() {
		born = o.World.Now()
	}
	b := Base{
		Kind:     kind,
		Position: o.Position,
		Velocity: o.Velocity,
		Width:    o.Width,
		Height:   o.Height,
		ImageURI: t.Images[kind],
		world:    o.World,
		tuning:   t,
		step:     stepper{size: TickSize, last: born},
	}
	if b.Width == 0 {
		b.Width = t.Width
	}
	if b.Height == 0 {
		b.Height = t.Height
	}
	return b
}

// attach registers the fully built variant with its world.
func (b *Base) attach(self Denizen) {
	b.self = self
	b.ID = b.world.RegisterDenizen(self)
}

// Core returns the shared state.
func (b *Base) Core() *Base { return b }

// World returns the host the denizen lives in.
func (b *Base) World() World { return b.world }

// Alive reports whether the denizen has not been killed immediately.
// A denizen with a pending delayed removal is still alive.
func (b *Base) Alive() bool { return !b.dead }

// Checkpoint returns the time up to which physics has been integrated.
func (b *Base) Checkpoint() time.Time { return b.step.last }

// Update runs every tick elapsed since the last call.
func (b *Base) Update(now time.Time) {
	if b.dead {
		return
	}
	if b.OutOfBounds(b.world.Bounds()) {
		b.Kill(0)
		return
	}
	n := b.step.advance(now)
	for i := 0; i < n && !b.dead; i++ {
		b.self.UpdateOneTick()
	}
}

// UpdateOneTick is the hook variants override.
func (b *Base) UpdateOneTick() {
	panic(ErrNotImplemented)
}

// OnClick is the hook variants override.
func (b *Base) OnClick() {
	panic(ErrNotImplemented)
}

// Kill asks the world to remove the denizen. A zero delay removes it at once;
// a positive delay keeps it present for that long.
func (b *Base) Kill(delay time.Duration) {
	if b.dead {
		return
	}
	if delay > 0 {
		if b.leaving {
			return
		}
		b.leaving = true
	} else {
		b.dead = true
	}
	b.world.RemoveDenizen(b.ID, delay)
}

// OutOfBounds reports whether the center lies more than five box sizes
// outside the bounds on any side.
func (b *Base) OutOfBounds(bounds Bounds) bool {
	return b.Position.X+cullMargin*b.Width < bounds.MinX ||
		b.Position.X-cullMargin*b.Width > bounds.MaxX ||
		b.Position.Y+cullMargin*b.Height < bounds.MinY ||
		b.Position.Y-cullMargin*b.Height > bounds.MaxY
}

// Contains reports whether p falls inside the denizen's box.
func (b *Base) Contains(p vec.Vec2) bool {
	return math.Abs(p.X-b.Position.X) <= b.Width/2 && math.Abs(p.Y-b.Position.Y) <= b.Height/2
}

// CSS is the box size handed to presenters.
type CSS struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// RenderRules is the per-frame presentation snapshot of one denizen.
// X and Y are the box corner obtained by centering the box on the position.
type RenderRules struct {
	ID       ID      `json:"id"`
	Kind     Kind    `json:"kind"`
	ImageURI string  `json:"imageUri"`
	CSS      CSS     `json:"css"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
}

// RenderRules returns the presentation snapshot.
func (b *Base) RenderRules() RenderRules {
	return RenderRules{
		ID:       b.ID,
		Kind:     b.Kind,
		ImageURI: b.ImageURI,
		CSS:      CSS{Width: b.Width, Height: b.Height},
		X:        b.Position.X - math.Floor(b.Width/2),
		Y:        b.Position.Y - math.Floor(b.Height/2),
	}
}

func (b *Base) dt() float64 { return b.step.seconds() }

func (b *Base) rng() *rand.Rand { return b.world.Rand() }
