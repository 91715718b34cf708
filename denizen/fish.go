package denizen

import (
	"math"
	"math/rand"

	"github.com/pthm-cable/tank/vec"
)

// Fish swims at a random velocity that changes every few seconds.
type Fish struct {
	Base
	MaxSwimSpeed         float64
	SwimVelocity         vec.Vec2
	TimeUntilSpeedChange float64 `inspect:"label,fmt:%.2fs"`
}

// NewFish creates and registers a plain fish. Plain fish have no click behavior.
func NewFish(o Options) *Fish {
	f := &Fish{}
	f.initFish(o, KindFish)
	f.attach(f)
	return f
}

func (f *Fish) initFish(o Options, kind Kind) {
	f.Base = newBase(o, kind)
	f.Tasty = true
	f.MaxSwimSpeed = f.tuning.MaxSwimSpeed
	f.MakeNewVelocity(0)
}

// UpdateOneTick advances the fish by one tick.
func (f *Fish) UpdateOneTick() {
	f.swim(1)
}

// swim moves the fish along its swim velocity scaled by boost and runs the
// speed-change countdown.
func (f *Fish) swim(boost float64) {
	dt := f.dt()
	f.Position.AddMut(f.SwimVelocity.Scale(dt * boost))
	f.TimeUntilSpeedChange -= dt
	if f.TimeUntilSpeedChange < 0 {
		f.MakeNewVelocity(0)
	}
}

// MakeNewVelocity draws a new swim velocity of magnitude at least minMag and
// restarts the countdown.
func (f *Fish) MakeNewVelocity(minMag float64) {
	r := f.rng()
	f.SwimVelocity = GenerateSwimVelocity(r, f.MaxSwimSpeed, minMag)
	f.TimeUntilSpeedChange = randInt(r, 0, f.tuning.SpeedChangeMax)
}

// GenerateSwimVelocity samples x from [-maxSpeed, maxSpeed) and y from
// [-maxSpeed/2, maxSpeed/2), redrawing until the magnitude reaches minMag.
// A minMag above maxSpeed is ignored.
func GenerateSwimVelocity(r *rand.Rand, maxSpeed, minMag float64) vec.Vec2 {
	if minMag > maxSpeed {
		minMag = 0
	}
	for {
		v := vec.New(randInt(r, -maxSpeed, maxSpeed), randInt(r, -maxSpeed/2, maxSpeed/2))
		if minMag <= 0 || v.Magnitude() >= minMag {
			return v
		}
	}
}

// SwitchFish changes course when clicked.
type SwitchFish struct {
	Fish
}

// NewSwitchFish creates and registers a switch fish.
func NewSwitchFish(o Options) *SwitchFish {
	f := &SwitchFish{}
	f.initFish(o, KindSwitchFish)
	f.attach(f)
	return f
}

// OnClick forces a new velocity with a guaranteed minimum speed.
func (f *SwitchFish) OnClick() {
	f.MakeNewVelocity(f.tuning.SwitchMinSpeed)
}

// GoFish surges forward when clicked.
type GoFish struct {
	Fish
	SurgeSecondsLeft float64 `inspect:"bar,max:MaxSurge"`
	MaxSurge         float64
	SurgeMultiplier  float64
}

// NewGoFish creates and registers a go fish.
func NewGoFish(o Options) *GoFish {
	g := &GoFish{}
	g.initGoFish(o, KindGoFish)
	g.attach(g)
	return g
}

func (g *GoFish) initGoFish(o Options, kind Kind) {
	g.initFish(o, kind)
	g.MaxSurge = g.tuning.MaxSurge
	g.SurgeMultiplier = g.tuning.SurgeMultiplier
}

// UpdateOneTick swims with the surge boost applied, then decays the surge.
func (g *GoFish) UpdateOneTick() {
	g.Fish.swim(1 + g.SurgeSecondsLeft*g.SurgeMultiplier)
	g.SurgeSecondsLeft = math.Max(0, g.SurgeSecondsLeft-g.dt())
}

// OnClick starts a full surge.
func (g *GoFish) OnClick() {
	g.SurgeSecondsLeft = g.MaxSurge
}

// BiteFish is a go fish that eats tasty neighbours.
type BiteFish struct {
	GoFish
	Eaten int
}

// NewBiteFish creates and registers a bite fish.
func NewBiteFish(o Options) *BiteFish {
	b := &BiteFish{}
	b.initGoFish(o, KindBiteFish)
	b.Eaten = b.tuning.BiteStartEaten
	b.Tasty = false
	b.attach(b)
	return b
}

// BiteRadius is how far from its center the fish can reach prey.
func (b *BiteFish) BiteRadius() float64 {
	return b.Height * b.tuning.BiteRadiusFactor
}

// UpdateOneTick swims like a go fish and then eats every tasty denizen within
// bite range, leaving an effect behind for each bite.
func (b *BiteFish) UpdateOneTick() {
	b.GoFish.UpdateOneTick()

	nearby := b.world.ProximateDenizens(b.Position, b.BiteRadius())
	for _, d := range nearby {
		prey := d.Core()
		if !prey.Tasty || !prey.Alive() {
			continue
		}
		b.Eaten++
		prey.Kill(0)
		NewEffect(Options{
			World:    b.world,
			Position: b.Position,
			Tuning:   b.tuning,
			ImageURI: b.ImageURI,
			Linger:   b.tuning.BiteEffectLinger,
			Leave:    b.tuning.BiteEffectLeave,
		})
	}
}
