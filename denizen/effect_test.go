package denizen

import (
	"testing"
	"time"

	"github.com/pthm-cable/tank/vec"
)

func TestEffectLingersThenLeaves(t *testing.T) {
	w := newFakeWorld()
	e := NewEffect(Options{World: w, Position: vec.New(10, 10), ImageURI: "/images/pop.png", Linger: 0.025})

	if e.ImageURI != "/images/pop.png" {
		t.Errorf("image = %q", e.ImageURI)
	}

	e.Update(epoch.Add(20 * time.Millisecond))
	if !w.isLive(e.ID) {
		t.Fatal("effect left before its linger ran out")
	}

	e.Update(epoch.Add(30 * time.Millisecond))
	if w.isLive(e.ID) {
		t.Error("effect still present after linger")
	}
}

func TestEffectDelayedLeave(t *testing.T) {
	w := newFakeWorld()
	e := NewEffect(Options{World: w, Linger: 0.005, Leave: 50 * time.Millisecond})

	e.Update(epoch.Add(30 * time.Millisecond))

	if got := w.delayed[e.ID]; got != 50*time.Millisecond {
		t.Errorf("delay = %v, want 50ms", got)
	}
	if !w.isLive(e.ID) || !e.Alive() {
		t.Error("delayed removal should keep the effect present")
	}
}
