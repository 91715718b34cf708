package telemetry

import (
	"math"
	"testing"
	"time"

	"github.com/pthm-cable/tank/denizen"
)

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func TestCollectorWindow(t *testing.T) {
	c := NewCollector(10*time.Second, epoch)

	at := epoch.Add(time.Second)
	c.Record(NewSpawnEvent(at, 1, denizen.KindSeed))
	c.Record(NewSpawnEvent(at, 2, denizen.KindGoFish))
	c.Record(NewSpawnEvent(at, 3, denizen.KindBiteFish))
	c.Record(NewClickEvent(at, 9, denizen.KindStarter))
	c.Record(NewBiteEvent(at, 2, denizen.KindGoFish))
	c.Record(NewDeathEvent(at, 2, denizen.KindGoFish, CauseEaten))
	c.Record(NewDeathEvent(at, 1, denizen.KindSeed, CauseExpired))
	c.RecordAge(2 * time.Second)
	c.RecordAge(4 * time.Second)

	if c.ShouldFlush(epoch.Add(9 * time.Second)) {
		t.Error("flush requested before the window ran out")
	}
	end := epoch.Add(10 * time.Second)
	if !c.ShouldFlush(end) {
		t.Fatal("flush not requested at window end")
	}

	pop := Population{denizen.KindBiteFish: 1, denizen.KindStarter: 3}
	s := c.Flush(end, pop, []float64{10, 20, 30})

	if s.SimTimeSec != 10 || s.WindowStart != 0 {
		t.Errorf("window = [%v, %v]", s.WindowStart, s.SimTimeSec)
	}
	if s.Births != 3 || s.FishBirths != 2 || s.SeedLaunches != 1 {
		t.Errorf("births = %d/%d/%d, want 3/2/1", s.Births, s.FishBirths, s.SeedLaunches)
	}
	if s.Deaths != 2 || s.Eaten != 1 || s.Expired != 1 || s.Culled != 0 {
		t.Errorf("deaths = %+v", s)
	}
	if s.Bites != 1 || s.Clicks != 1 {
		t.Errorf("bites/clicks = %d/%d", s.Bites, s.Clicks)
	}
	if s.BiteFish != 1 || s.Starters != 3 || s.FishTotal() != 1 {
		t.Errorf("population = %+v", s)
	}
	if math.Abs(s.AgeAtDeathMean-3) > 1e-9 {
		t.Errorf("age mean = %v, want 3", s.AgeAtDeathMean)
	}
	if math.Abs(s.FishSpeedMean-20) > 1e-9 || math.Abs(s.FishSpeedStd-10) > 1e-9 {
		t.Errorf("speed = %v±%v, want 20±10", s.FishSpeedMean, s.FishSpeedStd)
	}

	// Counters reset for the next window
	next := c.Flush(epoch.Add(20*time.Second), nil, nil)
	if next.Births != 0 || next.Deaths != 0 || next.Bites != 0 || next.AgeAtDeathMean != 0 {
		t.Errorf("second window not reset: %+v", next)
	}
	if next.WindowStart != 10 {
		t.Errorf("second window start = %v, want 10", next.WindowStart)
	}
}

func TestCauseNames(t *testing.T) {
	tests := []struct {
		c    Cause
		want string
	}{
		{CauseKilled, "killed"},
		{CauseCulled, "culled"},
		{CauseEaten, "eaten"},
		{CauseExpired, "expired"},
		{CausePlanted, "planted"},
		{Cause(200), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.c.String(); got != tt.want {
			t.Errorf("Cause(%d) = %q, want %q", tt.c, got, tt.want)
		}
	}
	if EventBite.String() != "bite" {
		t.Errorf("EventBite = %q", EventBite.String())
	}
}
