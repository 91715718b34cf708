package denizen

import (
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/pthm-cable/tank/vec"
)

func TestGenerateSwimVelocity(t *testing.T) {
	r := rand.New(rand.NewSource(7))

	tests := []struct {
		name     string
		max, min float64
		wantMin  float64
	}{
		{"no minimum", 100, 0, 0},
		{"minimum 50", 100, 50, 50},
		{"minimum equals max", 100, 100, 100},
		{"minimum above max ignored", 10, 500, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for i := 0; i < 500; i++ {
				v := GenerateSwimVelocity(r, tt.max, tt.min)
				if v.Magnitude() < tt.wantMin {
					t.Fatalf("sample %d: |%v| = %v < %v", i, v, v.Magnitude(), tt.wantMin)
				}
				if v.X < -tt.max || v.X >= tt.max {
					t.Fatalf("sample %d: x = %v outside [-%v, %v)", i, v.X, tt.max, tt.max)
				}
				if v.Y < -tt.max/2 || v.Y >= tt.max/2 {
					t.Fatalf("sample %d: y = %v outside [-%v, %v)", i, v.Y, tt.max/2, tt.max/2)
				}
				if v.X != math.Trunc(v.X) || v.Y != math.Trunc(v.Y) {
					t.Fatalf("sample %d: %v is not integer valued", i, v)
				}
			}
		})
	}
}

func TestFishSwims(t *testing.T) {
	w := newFakeWorld()
	f := NewFish(Options{World: w, Position: vec.New(100, 100)})
	f.SwimVelocity = vec.New(10, -20)
	f.TimeUntilSpeedChange = 5

	f.Update(epoch.Add(100 * time.Millisecond))

	if math.Abs(f.Position.X-101) > 1e-9 || math.Abs(f.Position.Y-98) > 1e-9 {
		t.Errorf("position = %v, want (101, 98)", f.Position)
	}
	if math.Abs(f.TimeUntilSpeedChange-4.9) > 1e-9 {
		t.Errorf("countdown = %v, want 4.9", f.TimeUntilSpeedChange)
	}
	if !f.Tasty {
		t.Error("fish should be tasty")
	}
}

func TestFishPicksNewVelocityWhenCountdownExpires(t *testing.T) {
	w := newFakeWorld()
	f := NewFish(Options{World: w, Position: vec.New(100, 100)})
	f.SwimVelocity = vec.New(1, 1)
	f.TimeUntilSpeedChange = 0.005

	f.UpdateOneTick()

	if f.TimeUntilSpeedChange < 0 || f.TimeUntilSpeedChange >= 5 {
		t.Errorf("new countdown = %v, want within [0, 5)", f.TimeUntilSpeedChange)
	}
	if f.TimeUntilSpeedChange != math.Trunc(f.TimeUntilSpeedChange) {
		t.Errorf("new countdown = %v, want whole seconds", f.TimeUntilSpeedChange)
	}
}

func TestSwitchFishClick(t *testing.T) {
	w := newFakeWorld()
	f := NewSwitchFish(Options{World: w})

	for i := 0; i < 200; i++ {
		f.OnClick()
		if m := f.SwimVelocity.Magnitude(); m < 50 {
			t.Fatalf("click %d: speed %v < 50", i, m)
		}
	}
}

func TestGoFishSurge(t *testing.T) {
	w := newFakeWorld()
	g := NewGoFish(Options{World: w, Position: vec.New(100, 100)})
	g.SwimVelocity = vec.New(10, 0)
	g.TimeUntilSpeedChange = 5

	g.OnClick()
	if g.SurgeSecondsLeft != g.MaxSurge {
		t.Fatalf("surge = %v, want %v", g.SurgeSecondsLeft, g.MaxSurge)
	}

	g.UpdateOneTick()
	// 10 * 0.01 * (1 + 1*3)
	if math.Abs(g.Position.X-100.4) > 1e-9 {
		t.Errorf("surging x = %v, want 100.4", g.Position.X)
	}
	if math.Abs(g.SurgeSecondsLeft-0.99) > 1e-9 {
		t.Errorf("surge left = %v, want 0.99", g.SurgeSecondsLeft)
	}

	g.SurgeSecondsLeft = 0.004
	g.UpdateOneTick()
	if g.SurgeSecondsLeft != 0 {
		t.Errorf("surge should floor at 0, got %v", g.SurgeSecondsLeft)
	}
}

func newStillBiteFish(w *fakeWorld, pos vec.Vec2) *BiteFish {
	b := NewBiteFish(Options{World: w, Position: pos})
	b.SwimVelocity = vec.Vec2{}
	b.TimeUntilSpeedChange = 10
	return b
}

func TestBiteFishEatsWithinRange(t *testing.T) {
	w := newFakeWorld()
	b := newStillBiteFish(w, vec.New(500, 300))
	radius := 1.5 * b.Height

	near := NewFish(Options{World: w, Position: vec.New(500+radius-1, 300)})
	far := NewFish(Options{World: w, Position: vec.New(500, 300+radius+1)})
	rival := newStillBiteFish(w, vec.New(510, 300))

	if b.Eaten != 2 || b.Tasty {
		t.Fatalf("fresh bite fish eaten=%d tasty=%v", b.Eaten, b.Tasty)
	}

	b.UpdateOneTick()

	if b.Eaten != 3 {
		t.Errorf("eaten = %d, want 3", b.Eaten)
	}
	if w.isLive(near.ID) || near.Alive() {
		t.Error("fish within range survived")
	}
	if !w.isLive(far.ID) {
		t.Error("fish out of range was eaten")
	}
	if !w.isLive(rival.ID) {
		t.Error("untasty bite fish was eaten")
	}
	if n := w.count(KindEffect); n != 1 {
		t.Errorf("effects = %d, want 1", n)
	}
}

func TestBiteFishEatsEverySnapshotMember(t *testing.T) {
	w := newFakeWorld()
	b := newStillBiteFish(w, vec.New(500, 300))
	a := NewGoFish(Options{World: w, Position: vec.New(520, 300)})
	c := NewSwitchFish(Options{World: w, Position: vec.New(480, 310)})

	b.UpdateOneTick()

	if b.Eaten != 4 {
		t.Errorf("eaten = %d, want 4", b.Eaten)
	}
	if w.isLive(a.ID) || w.isLive(c.ID) {
		t.Error("snapshot members survived")
	}
	if n := w.count(KindEffect); n != 2 {
		t.Errorf("effects = %d, want 2", n)
	}

	// Nothing left to eat
	b.UpdateOneTick()
	if b.Eaten != 4 {
		t.Errorf("eaten after empty tick = %d, want 4", b.Eaten)
	}
}
