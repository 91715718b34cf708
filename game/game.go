package game

import (
	"log/slog"
	"math/rand"
	"time"

	"github.com/pthm-cable/tank/config"
	"github.com/pthm-cable/tank/denizen"
	"github.com/pthm-cable/tank/tank"
	"github.com/pthm-cable/tank/telemetry"
)

// Speed limits for the frame multiplier.
const (
	MinSpeed = 1
	MaxSpeed = 10
)

// Epoch is the simulated time at which every game starts. A fixed start keeps
// seeded runs reproducible.
var Epoch = time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)

// Options configures a new game.
type Options struct {
	Seed           int64
	LogStats       bool
	OutputDir      string
	StepsPerUpdate int                         // frames per UpdateHeadless call, default 1
	Config         *config.Config              // nil = config.Cfg()
	StatsCallback  func(telemetry.WindowStats) // called on every window flush
}

// Game owns the clock, the tank and the telemetry pipeline. It has no
// presentation dependencies; presenters drive it through Update and Click.
type Game struct {
	cfg     *config.Config
	tuning  denizen.Tuning
	clock   *tank.ManualClock
	tank    *tank.Tank
	rngSeed int64

	// State
	frame          uint64
	paused         bool
	speed          int
	stepsPerUpdate int

	// Auto-clicker
	autoclick     bool
	nextAutoclick time.Time

	// Telemetry
	logStats      bool
	collector     *telemetry.Collector
	lifetime      *telemetry.LifetimeTracker
	perf          *telemetry.PerfCollector
	bookmarks     *telemetry.BookmarkDetector
	output        *telemetry.OutputManager
	statsCallback func(telemetry.WindowStats)
	deaths        []telemetry.DeathRecord // pending rows for deaths.csv
}

// NewGameWithOptions creates a game and spawns the initial population.
func NewGameWithOptions(opts Options) *Game {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Cfg()
	}
	if opts.StepsPerUpdate < 1 {
		opts.StepsPerUpdate = 1
	}

	clock := tank.NewManualClock(Epoch)
	g := &Game{
		cfg:            cfg,
		tuning:         cfg.Derived.Tuning,
		clock:          clock,
		rngSeed:        opts.Seed,
		speed:          MinSpeed,
		stepsPerUpdate: opts.StepsPerUpdate,
		autoclick:      cfg.Autoclick.Enabled,
		nextAutoclick:  Epoch.Add(autoclickInterval(cfg)),
		logStats:       opts.LogStats,
		collector:      telemetry.NewCollector(cfg.Derived.StatsWindow, Epoch),
		lifetime:       telemetry.NewLifetimeTracker(),
		perf:           telemetry.NewPerfCollector(120),
		bookmarks:      telemetry.NewBookmarkDetector(10),
		statsCallback:  opts.StatsCallback,
	}

	if opts.OutputDir != "" {
		om, err := telemetry.NewOutputManager(opts.OutputDir)
		if err != nil {
			slog.Error("failed to create output manager", "error", err)
		} else {
			g.output = om
			if err := om.WriteConfig(cfg); err != nil {
				slog.Error("failed to write config snapshot", "error", err)
			}
		}
	}

	g.tank = tank.New(tank.Options{
		Bounds:   cfg.Derived.Bounds,
		CellSize: cfg.Tank.GridCellSize,
		Clock:    clock,
		Rand:     rand.New(rand.NewSource(opts.Seed)),
	})
	g.tank.SetObserver(tankObserver{g})
	g.registerSpecies()
	g.spawnInitialPopulation()

	return g
}

// Update advances the game by one presentation frame of length dt. The speed
// multiplier runs that many frames back to back. Paused games do not move.
func (g *Game) Update(dt time.Duration) {
	if g.paused {
		return
	}
	for i := 0; i < g.speed; i++ {
		g.step(dt)
	}
}

// UpdateHeadless runs StepsPerUpdate frames of the configured frame length,
// ignoring pause and speed.
func (g *Game) UpdateHeadless() {
	for i := 0; i < g.stepsPerUpdate; i++ {
		g.step(g.cfg.Derived.FrameDT)
	}
}

// step runs a single frame.
func (g *Game) step(dt time.Duration) {
	g.perf.StartStep()

	g.clock.Advance(dt)
	now := g.clock.Now()

	// 1. Auto-clicker
	g.perf.StartPhase(telemetry.PhaseAutoclick)
	g.runAutoclick(now)

	// 2. Tank sweep
	g.perf.StartPhase(telemetry.PhaseSweep)
	g.tank.Update()

	// 3. Telemetry
	g.perf.StartPhase(telemetry.PhaseTelemetry)
	g.flushTelemetry(now)

	g.perf.EndStep()
	g.frame++
}

// Click delivers a pointer click in tank coordinates. Denizens without click
// behavior are reported at debug level.
func (g *Game) Click(x, y float64) bool {
	hit, err := g.tank.Click(x, y)
	if err != nil {
		slog.Debug("click ignored", "x", x, "y", y, "error", err)
	}
	return hit
}

// RecordFrame marks the end of a presented frame for FPS tracking.
func (g *Game) RecordFrame() {
	g.perf.RecordFrame()
}

// Tank returns the hosted tank.
func (g *Game) Tank() *tank.Tank { return g.tank }

// Config returns the game's configuration.
func (g *Game) Config() *config.Config { return g.cfg }

// Frame returns the number of frames run.
func (g *Game) Frame() uint64 { return g.frame }

// SimTime returns the simulated time elapsed since the start.
func (g *Game) SimTime() time.Duration { return g.clock.Now().Sub(Epoch) }

// Seed returns the RNG seed.
func (g *Game) Seed() int64 { return g.rngSeed }

// Paused reports whether Update is suspended.
func (g *Game) Paused() bool { return g.paused }

// SetPaused suspends or resumes Update.
func (g *Game) SetPaused(p bool) { g.paused = p }

// TogglePause flips the paused state.
func (g *Game) TogglePause() { g.paused = !g.paused }

// Speed returns the frame multiplier.
func (g *Game) Speed() int { return g.speed }

// SetSpeed sets the frame multiplier, clamped to [MinSpeed, MaxSpeed].
func (g *Game) SetSpeed(n int) {
	g.speed = min(max(n, MinSpeed), MaxSpeed)
}

// Autoclick reports whether the auto-clicker is running.
func (g *Game) Autoclick() bool { return g.autoclick }

// SetAutoclick starts or stops the auto-clicker. Starting it schedules the
// next click one interval from now.
func (g *Game) SetAutoclick(on bool) {
	if on && !g.autoclick {
		g.nextAutoclick = g.clock.Now().Add(autoclickInterval(g.cfg))
	}
	g.autoclick = on
}

// Now returns the current simulated time.
func (g *Game) Now() time.Time { return g.clock.Now() }

// DenizenAt returns the id of the topmost live denizen at (x, y).
func (g *Game) DenizenAt(x, y float64) (denizen.ID, bool) {
	d, ok := g.tank.At(x, y)
	if !ok {
		return 0, false
	}
	return d.Core().ID, true
}

// Inspect returns a live denizen together with a copy of its lifetime stats.
func (g *Game) Inspect(id denizen.ID) (denizen.Denizen, telemetry.LifetimeStats, bool) {
	d, ok := g.tank.Get(id)
	if !ok {
		return nil, telemetry.LifetimeStats{}, false
	}
	var stats telemetry.LifetimeStats
	if s := g.lifetime.Get(id); s != nil {
		stats = *s
	}
	if b, ok := d.(*denizen.BiteFish); ok {
		stats.Bites = b.Eaten - g.tuning.BiteStartEaten
	}
	return d, stats, true
}

// Population returns the live count per kind.
func (g *Game) Population() telemetry.Population {
	pop := make(telemetry.Population)
	g.tank.Each(func(d denizen.Denizen) {
		pop[d.Core().Kind]++
	})
	return pop
}

// PerfStats returns the rolling step timings.
func (g *Game) PerfStats() telemetry.PerfStats {
	return g.perf.Stats()
}

// Unload flushes pending output and closes files.
func (g *Game) Unload() {
	if g.output == nil {
		return
	}
	g.writeDeaths()
	if err := g.output.Close(); err != nil {
		slog.Error("failed to close output", "error", err)
	}
	g.output = nil
}
