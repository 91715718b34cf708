package telemetry

import (
	"time"

	"github.com/pthm-cable/tank/denizen"
)

// Collector accumulates events within time windows and produces WindowStats.
type Collector struct {
	window      time.Duration
	start       time.Time // simulation start
	windowStart time.Time

	births map[denizen.Kind]int
	deaths map[Cause]int
	bites  int
	clicks int
	ages   []float64 // seconds, for denizens that died this window
}

// NewCollector creates a collector whose first window opens at start.
func NewCollector(window time.Duration, start time.Time) *Collector {
	if window <= 0 {
		window = 10 * time.Second
	}
	return &Collector{
		window:      window,
		start:       start,
		windowStart: start,
		births:      make(map[denizen.Kind]int),
		deaths:      make(map[Cause]int),
	}
}

// Record folds one event into the current window.
func (c *Collector) Record(e Event) {
	switch e.Type {
	case EventSpawn:
		c.births[e.Kind]++
	case EventDeath:
		c.deaths[e.Cause]++
	case EventBite:
		c.bites++
	case EventClick:
		c.clicks++
	}
}

// RecordAge adds the age at death of a removed denizen.
func (c *Collector) RecordAge(age time.Duration) {
	c.ages = append(c.ages, age.Seconds())
}

// ShouldFlush returns true once the current window has run its length.
func (c *Collector) ShouldFlush(now time.Time) bool {
	return now.Sub(c.windowStart) >= c.window
}

// Population is the live count per kind sampled at window end.
type Population map[denizen.Kind]int

// Flush produces a WindowStats and resets counters for the next window.
// fishSpeeds holds the current swim speed of every live fish.
func (c *Collector) Flush(now time.Time, pop Population, fishSpeeds []float64) WindowStats {
	births := 0
	for _, n := range c.births {
		births += n
	}
	deaths := 0
	for _, n := range c.deaths {
		deaths += n
	}

	ageMean, _, _, ageP50, ageP90 := ComputeSummary(c.ages)
	speedMean, speedStd, _, _, _ := ComputeSummary(fishSpeeds)

	stats := WindowStats{
		WindowStart: c.windowStart.Sub(c.start).Seconds(),
		SimTimeSec:  now.Sub(c.start).Seconds(),

		Fish:       pop[denizen.KindFish],
		SwitchFish: pop[denizen.KindSwitchFish],
		GoFish:     pop[denizen.KindGoFish],
		BiteFish:   pop[denizen.KindBiteFish],
		Seeds:      pop[denizen.KindSeed],
		Starters:   pop[denizen.KindStarter],
		Effects:    pop[denizen.KindEffect],

		Births:       births,
		FishBirths:   c.births[denizen.KindFish] + c.births[denizen.KindSwitchFish] + c.births[denizen.KindGoFish] + c.births[denizen.KindBiteFish],
		SeedLaunches: c.births[denizen.KindSeed],
		Deaths:       deaths,
		Culled:       c.deaths[CauseCulled],
		Eaten:        c.deaths[CauseEaten],
		Expired:      c.deaths[CauseExpired],
		Planted:      c.deaths[CausePlanted],
		Bites:        c.bites,
		Clicks:       c.clicks,

		AgeAtDeathMean: ageMean,
		AgeAtDeathP50:  ageP50,
		AgeAtDeathP90:  ageP90,
		FishSpeedMean:  speedMean,
		FishSpeedStd:   speedStd,
	}

	c.windowStart = now
	c.births = make(map[denizen.Kind]int)
	c.deaths = make(map[Cause]int)
	c.bites = 0
	c.clicks = 0
	c.ages = c.ages[:0]

	return stats
}

// Window returns the window length.
func (c *Collector) Window() time.Duration {
	return c.window
}
