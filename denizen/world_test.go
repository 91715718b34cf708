package denizen

import (
	"math/rand"
	"time"

	"github.com/pthm-cable/tank/vec"
)

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// fakeWorld is a minimal linear-scan host for exercising denizens in isolation.
type fakeWorld struct {
	now     time.Time
	rng     *rand.Rand
	bounds  Bounds
	live    []Denizen
	nextID  ID
	removed []ID
	delayed map[ID]time.Duration
	species Factory
}

func newFakeWorld() *fakeWorld {
	return &fakeWorld{
		now:     epoch,
		rng:     rand.New(rand.NewSource(1)),
		bounds:  Bounds{MinX: 0, MaxX: 1000, MinY: 0, MaxY: 600},
		delayed: make(map[ID]time.Duration),
	}
}

func (w *fakeWorld) RegisterDenizen(d Denizen) ID {
	w.nextID++
	w.live = append(w.live, d)
	return w.nextID
}

func (w *fakeWorld) RemoveDenizen(id ID, delay time.Duration) {
	if delay > 0 {
		w.delayed[id] = delay
		return
	}
	for i, d := range w.live {
		if d.Core().ID == id {
			w.live = append(w.live[:i], w.live[i+1:]...)
			w.removed = append(w.removed, id)
			return
		}
	}
}

func (w *fakeWorld) Bounds() Bounds { return w.bounds }

func (w *fakeWorld) ProximateDenizens(pos vec.Vec2, radius float64) []Denizen {
	var out []Denizen
	for _, d := range w.live {
		if d.Core().Position.Dist(pos) <= radius {
			out = append(out, d)
		}
	}
	return out
}

func (w *fakeWorld) RandomSpecies() Factory { return w.species }

func (w *fakeWorld) Now() time.Time { return w.now }

func (w *fakeWorld) Rand() *rand.Rand { return w.rng }

func (w *fakeWorld) count(kind Kind) int {
	n := 0
	for _, d := range w.live {
		if d.Core().Kind == kind {
			n++
		}
	}
	return n
}

func (w *fakeWorld) isLive(id ID) bool {
	for _, d := range w.live {
		if d.Core().ID == id {
			return true
		}
	}
	return false
}
