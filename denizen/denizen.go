// Package denizen implements the tank inhabitants: the shared fixed-step
// scheduler and lifecycle, and the closed set of behavior variants.
package denizen

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/pthm-cable/tank/vec"
)

// TickSize is the fixed amount of simulated time covered by one physics step.
const TickSize = 10 * time.Millisecond

// ErrNotImplemented is raised (as a panic value) when a variant is asked for a
// behavior it does not supply.
var ErrNotImplemented = errors.New("not implemented")

// ID identifies a registered denizen. Zero means unregistered.
type ID uint64

// Kind tags the behavior variant of a denizen.
type Kind uint8

const (
	KindFish Kind = iota
	KindSwitchFish
	KindGoFish
	KindBiteFish
	KindSeed
	KindStarter
	KindEffect
)

var kindNames = []string{"fish", "switch_fish", "go_fish", "bite_fish", "seed", "starter", "effect"}

// String returns the snake_case name of the kind.
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// MarshalText encodes the kind as its name.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText decodes a kind name.
func (k *Kind) UnmarshalText(b []byte) error {
	parsed, err := ParseKind(string(b))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// Kinds returns every kind in declaration order.
func Kinds() []Kind {
	kinds := make([]Kind, len(kindNames))
	for i := range kinds {
		kinds[i] = Kind(i)
	}
	return kinds
}

// ParseKind returns the kind with the given name.
func ParseKind(name string) (Kind, error) {
	for i, n := range kindNames {
		if n == name {
			return Kind(i), nil
		}
	}
	return 0, fmt.Errorf("unknown denizen kind %q", name)
}

// Bounds is the tank rectangle.
type Bounds struct {
	MinX, MaxX, MinY, MaxY float64
}

// Factory builds a denizen of one species. Seeds hold one to know what to grow into.
type Factory func(Options) Denizen

// World is the host a denizen lives in. Denizens only reach the tank through it.
type World interface {
	RegisterDenizen(d Denizen) ID
	RemoveDenizen(id ID, delay time.Duration)
	Bounds() Bounds
	ProximateDenizens(pos vec.Vec2, radius float64) []Denizen
	RandomSpecies() Factory

	// Now and Rand give construction checkpoints and sampling a host-owned
	// source, so headless runs can be driven by a manual clock and a seed.
	Now() time.Time
	Rand() *rand.Rand
}

// Behavior is the per-variant capability set dispatched by the scheduler.
type Behavior interface {
	UpdateOneTick()
	OnClick()
}

// Denizen is any tank inhabitant.
type Denizen interface {
	Behavior
	Core() *Base
	Update(now time.Time)
	RenderRules() RenderRules
}

// Options configures construction. World is required.
type Options struct {
	World    World
	Position vec.Vec2
	Velocity vec.Vec2
	Width    float64
	Height   float64

	// Born seeds the tick checkpoint. Zero means World.Now().
	Born time.Time

	// Tuning supplies behavior constants. Nil means DefaultTuning.
	Tuning *Tuning

	// Seed
	Species Factory
	TTL     float64 // seconds, 0 picks a random lifetime

	// Effect
	ImageURI string
	Linger   float64 // seconds
	Leave    time.Duration
}

// Tuning holds the behavior constants shared by all variants.
type Tuning struct {
	Width  float64
	Height float64

	MaxSwimSpeed     float64 // fish velocity component bound
	SpeedChangeMax   float64 // seconds, exclusive upper bound of the swim countdown
	SwitchMinSpeed   float64 // minimum magnitude forced by a SwitchFish click
	MaxSurge         float64 // seconds of surge granted by a GoFish click
	SurgeMultiplier  float64
	BiteRadiusFactor float64 // bite radius as a multiple of height
	BiteStartEaten   int
	BiteEffectLinger float64 // seconds
	BiteEffectLeave  time.Duration
	WaterFriction    float64 // fraction of seed velocity lost per second
	Gravity          float64 // seed vertical acceleration, units/s^2
	SeedSize         float64
	SeedTTLMin       float64 // seconds, inclusive
	SeedTTLMax       float64 // seconds, exclusive
	LaunchSpeed      float64 // starter horizontal launch bound
	LaunchApex       float64 // vy = LaunchApex - |vx|

	Images map[Kind]string
}

// DefaultTuning returns the stock constants.
func DefaultTuning() Tuning {
	return Tuning{
		Width:            60,
		Height:           60,
		MaxSwimSpeed:     100,
		SpeedChangeMax:   5,
		SwitchMinSpeed:   50,
		MaxSurge:         1.0,
		SurgeMultiplier:  3.0,
		BiteRadiusFactor: 1.5,
		BiteStartEaten:   2,
		BiteEffectLinger: 0,
		WaterFriction:    0.3,
		Gravity:          50,
		SeedSize:         30,
		SeedTTLMin:       3,
		SeedTTLMax:       6,
		LaunchSpeed:      300,
		LaunchApex:       400,
		Images: map[Kind]string{
			KindFish:       "/images/fish01.png",
			KindSwitchFish: "/images/fish01.png",
			KindGoFish:     "/images/fish01.png",
			KindBiteFish:   "/images/fish02.gif",
			KindSeed:       "/images/seed.png",
			KindStarter:    "/images/volcano.jpg",
		},
	}
}

var defaultTuning = DefaultTuning()

// randInt samples an integer-valued float uniformly from [lo, hi).
func randInt(r *rand.Rand, lo, hi float64) float64 {
	if hi <= lo {
		return lo
	}
	return lo + float64(int64(r.Float64()*(hi-lo)))
}
