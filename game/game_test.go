package game

import (
	"math"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/gocarina/gocsv"

	"github.com/pthm-cable/tank/config"
	"github.com/pthm-cable/tank/denizen"
	"github.com/pthm-cable/tank/telemetry"
	"github.com/pthm-cable/tank/vec"
)

func testConfig(t *testing.T, mutate func(*config.Config)) *config.Config {
	t.Helper()
	cfg := config.Default()
	if mutate != nil {
		mutate(cfg)
	}
	if err := cfg.Finalize(); err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	return cfg
}

func emptyTank(c *config.Config) {
	c.Population.Starters = 0
	c.Population.Initial = nil
}

func runFrames(g *Game, n int) {
	for i := 0; i < n; i++ {
		g.UpdateHeadless()
	}
}

func TestInitialPopulation(t *testing.T) {
	g := NewGameWithOptions(Options{Seed: 7, Config: testConfig(t, nil)})

	pop := g.Population()
	want := telemetry.Population{
		denizen.KindStarter:    3,
		denizen.KindSwitchFish: 2,
		denizen.KindGoFish:     2,
		denizen.KindBiteFish:   1,
	}
	if !reflect.DeepEqual(pop, want) {
		t.Fatalf("population = %v, want %v", pop, want)
	}

	var xs []float64
	b := g.Tank().Bounds()
	g.Tank().Each(func(d denizen.Denizen) {
		c := d.Core()
		switch c.Kind {
		case denizen.KindStarter:
			xs = append(xs, c.Position.X)
			if c.Position.Y != 60 {
				t.Errorf("starter %d at y=%v, want 60", c.ID, c.Position.Y)
			}
		default:
			if c.Position.X < b.MinX || c.Position.X > b.MaxX || c.Position.Y < b.MinY || c.Position.Y > b.MaxY {
				t.Errorf("%s %d placed outside the bounds at %v", c.Kind, c.ID, c.Position)
			}
		}
	})
	wantXs := []float64{1280.0 / 6, 1280.0 / 2, 1280.0 * 5 / 6}
	for i, x := range xs {
		if math.Abs(x-wantXs[i]) > 1e-9 {
			t.Errorf("starter %d at x=%v, want %v", i, x, wantXs[i])
		}
	}

	if got := g.Tank().SpeciesNames(); !reflect.DeepEqual(got, []string{"fish", "switch_fish", "go_fish", "bite_fish"}) {
		t.Errorf("species = %v", got)
	}
}

func TestUpdatePauseAndSpeed(t *testing.T) {
	g := NewGameWithOptions(Options{Seed: 1, Config: testConfig(t, emptyTank)})
	dt := 16 * time.Millisecond

	g.SetPaused(true)
	g.Update(dt)
	if g.SimTime() != 0 || g.Frame() != 0 {
		t.Fatalf("paused game moved: sim %v, frame %d", g.SimTime(), g.Frame())
	}

	g.TogglePause()
	g.SetSpeed(3)
	g.Update(dt)
	if g.SimTime() != 3*dt || g.Frame() != 3 {
		t.Errorf("speed 3: sim %v, frame %d", g.SimTime(), g.Frame())
	}

	tests := []struct {
		in, want int
	}{
		{0, MinSpeed},
		{-4, MinSpeed},
		{5, 5},
		{99, MaxSpeed},
	}
	for _, tt := range tests {
		g.SetSpeed(tt.in)
		if g.Speed() != tt.want {
			t.Errorf("SetSpeed(%d) -> %d, want %d", tt.in, g.Speed(), tt.want)
		}
	}
}

func TestUpdateHeadless(t *testing.T) {
	cfg := testConfig(t, emptyTank)
	g := NewGameWithOptions(Options{Seed: 1, StepsPerUpdate: 4, Config: cfg})

	g.UpdateHeadless()
	if g.Frame() != 4 {
		t.Errorf("Frame() = %d, want 4", g.Frame())
	}
	if want := 4 * cfg.Derived.FrameDT; g.SimTime() != want {
		t.Errorf("SimTime() = %v, want %v", g.SimTime(), want)
	}

	// Pause only gates the interactive loop
	g.SetPaused(true)
	g.UpdateHeadless()
	if g.Frame() != 8 {
		t.Errorf("paused headless Frame() = %d, want 8", g.Frame())
	}
}

func TestDeathCause(t *testing.T) {
	g := NewGameWithOptions(Options{Seed: 1, Config: testConfig(t, emptyTank)})
	o := func(x, y float64) denizen.Options {
		return denizen.Options{World: g.Tank(), Position: vec.New(x, y), Tuning: &g.tuning}
	}

	expiredSeed := denizen.NewSeed(o(100, 100))
	expiredSeed.TTL = -0.01

	tests := []struct {
		name string
		d    denizen.Denizen
		want telemetry.Cause
	}{
		{"fish in bounds", denizen.NewFish(o(100, 100)), telemetry.CauseEaten},
		{"go fish in bounds", denizen.NewGoFish(o(500, 300)), telemetry.CauseEaten},
		{"fish far outside", denizen.NewFish(o(-1000, 100)), telemetry.CauseCulled},
		{"seed grown", expiredSeed, telemetry.CauseExpired},
		{"seed clicked", denizen.NewSeed(o(100, 100)), telemetry.CausePlanted},
		{"seed far above", denizen.NewSeed(o(100, 5000)), telemetry.CauseCulled},
		{"effect", denizen.NewEffect(o(100, 100)), telemetry.CauseExpired},
		{"starter", denizen.NewStarter(o(100, 0)), telemetry.CauseKilled},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := g.deathCause(tt.d); got != tt.want {
				t.Errorf("deathCause = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBiteTelemetry(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(t, func(c *config.Config) {
		emptyTank(c)
		c.Telemetry.StatsWindow = 1
	})

	var windows []telemetry.WindowStats
	g := NewGameWithOptions(Options{
		Seed:      3,
		OutputDir: dir,
		Config:    cfg,
		StatsCallback: func(s telemetry.WindowStats) {
			windows = append(windows, s)
		},
	})
	o := denizen.Options{World: g.Tank(), Position: vec.New(300, 300), Tuning: &g.tuning}
	biter := denizen.NewBiteFish(o)
	denizen.NewFish(o)

	// 60 frames fall just short of one second
	runFrames(g, 60)
	if len(windows) != 0 {
		t.Fatalf("flushed %d windows before the window closed", len(windows))
	}
	runFrames(g, 1)
	if len(windows) != 1 {
		t.Fatalf("got %d windows, want 1", len(windows))
	}

	w := windows[0]
	if w.Eaten != 1 || w.Bites != 1 {
		t.Errorf("eaten %d, bites %d, want 1 and 1", w.Eaten, w.Bites)
	}
	if w.Births != 3 || w.FishBirths != 2 {
		t.Errorf("births %d, fish births %d, want 3 and 2", w.Births, w.FishBirths)
	}
	if w.Expired != 1 || w.Deaths != 2 {
		t.Errorf("expired %d, deaths %d, want 1 and 2", w.Expired, w.Deaths)
	}
	if w.BiteFish != 1 || w.FishTotal() != 1 || w.Effects != 0 {
		t.Errorf("population at window end: %+v", w)
	}
	if biter.Eaten != 3 {
		t.Errorf("biter ate %d, want 3", biter.Eaten)
	}

	g.Unload()

	data, err := os.ReadFile(filepath.Join(dir, "deaths.csv"))
	if err != nil {
		t.Fatalf("reading deaths.csv: %v", err)
	}
	var rows []telemetry.DeathRecord
	if err := gocsv.UnmarshalBytes(data, &rows); err != nil {
		t.Fatalf("parsing deaths.csv: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("got %d death rows, want 2", len(rows))
	}
	if rows[0].Kind != "fish" || rows[0].Cause != "eaten" {
		t.Errorf("first death = %+v", rows[0])
	}
	if rows[1].Kind != "effect" || rows[1].Cause != "expired" {
		t.Errorf("second death = %+v", rows[1])
	}

	for _, name := range []string{"telemetry.csv", "perf.csv", "config.yaml"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("missing %s: %v", name, err)
		}
	}
	header, err := os.ReadFile(filepath.Join(dir, "telemetry.csv"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(header), "sim_time,fish,") {
		t.Errorf("telemetry.csv header: %q", strings.SplitN(string(header), "\n", 2)[0])
	}
}

func TestExtinctionSnapshot(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(t, func(c *config.Config) {
		emptyTank(c)
		c.Telemetry.StatsWindow = 1
	})
	g := NewGameWithOptions(Options{Seed: 5, OutputDir: dir, Config: cfg})
	fish := denizen.NewFish(denizen.Options{World: g.Tank(), Position: vec.New(600, 400), Tuning: &g.tuning})

	runFrames(g, 61)
	fish.Kill(0)
	runFrames(g, 61)
	g.Unload()

	matches, err := filepath.Glob(filepath.Join(dir, "snapshots", "snapshot_*_fish_extinct.json"))
	if err != nil || len(matches) != 1 {
		t.Fatalf("snapshots = %v, %v, want one extinction snapshot", matches, err)
	}
	snap, err := telemetry.LoadSnapshot(matches[0])
	if err != nil {
		t.Fatalf("LoadSnapshot: %v", err)
	}
	if snap.RNGSeed != 5 || len(snap.Denizens) != 0 || snap.TankWidth != 1280 {
		t.Errorf("snapshot = %+v", snap)
	}
	if snap.Bookmark == nil || snap.Bookmark.Type != telemetry.BookmarkFishExtinct {
		t.Errorf("bookmark = %+v", snap.Bookmark)
	}
}

func TestAutoclickLaunchesSeed(t *testing.T) {
	cfg := testConfig(t, func(c *config.Config) {
		emptyTank(c)
		c.Population.Starters = 1
		c.Autoclick.Enabled = true
		c.Autoclick.Interval = 0.5
		c.Autoclick.Targets = []string{"starter"}
	})
	g := NewGameWithOptions(Options{Seed: 11, Config: cfg})

	// The first click is due at 0.5s; the second lands after frame 60
	runFrames(g, 60)

	if n := g.Tank().Count(denizen.KindSeed); n != 1 {
		t.Fatalf("seeds = %d, want 1", n)
	}
	ls := g.lifetime.Get(1)
	if ls == nil || ls.Kind != denizen.KindStarter || ls.Clicks != 1 {
		t.Errorf("starter lifetime = %+v", ls)
	}
}

func TestSetAutoclickSchedulesFromNow(t *testing.T) {
	cfg := testConfig(t, func(c *config.Config) {
		emptyTank(c)
		c.Population.Starters = 1
		c.Autoclick.Interval = 0.5
		c.Autoclick.Targets = []string{"starter"}
	})
	g := NewGameWithOptions(Options{Seed: 11, Config: cfg})

	runFrames(g, 120)
	if g.Tank().Count(denizen.KindSeed) != 0 {
		t.Fatal("disabled auto-clicker launched a seed")
	}

	g.SetAutoclick(true)
	if !g.Autoclick() {
		t.Fatal("auto-clicker not running")
	}
	runFrames(g, 29)
	if g.Tank().Count(denizen.KindSeed) != 0 {
		t.Fatal("auto-clicker fired before its interval")
	}
	runFrames(g, 2)
	if g.Tank().Count(denizen.KindSeed) != 1 {
		t.Fatal("auto-clicker did not fire after its interval")
	}
}

func TestClick(t *testing.T) {
	g := NewGameWithOptions(Options{Seed: 1, Config: testConfig(t, emptyTank)})
	o := denizen.Options{World: g.Tank(), Position: vec.New(200, 200), Tuning: &g.tuning}
	denizen.NewFish(o)

	// Plain fish have no click behavior; the click still hits
	if !g.Click(210, 190) {
		t.Error("click on a fish missed")
	}
	if g.Click(900, 600) {
		t.Error("click on empty water hit")
	}
}

func TestInspect(t *testing.T) {
	g := NewGameWithOptions(Options{Seed: 1, Config: testConfig(t, emptyTank)})
	o := denizen.Options{World: g.Tank(), Position: vec.New(300, 300), Tuning: &g.tuning}
	biter := denizen.NewBiteFish(o)

	id, ok := g.DenizenAt(310, 290)
	if !ok || id != biter.ID {
		t.Fatalf("DenizenAt = %d, %v, want %d", id, ok, biter.ID)
	}
	if _, ok := g.DenizenAt(900, 600); ok {
		t.Error("DenizenAt found a denizen in empty water")
	}

	biter.Eaten += 2
	d, stats, ok := g.Inspect(id)
	if !ok || d != denizen.Denizen(biter) {
		t.Fatalf("Inspect(%d) = %v, %v", id, d, ok)
	}
	if stats.Kind != denizen.KindBiteFish || !stats.Born.Equal(Epoch) || stats.Bites != 2 {
		t.Errorf("stats = %+v", stats)
	}

	biter.Kill(0)
	runFrames(g, 1)
	if _, _, ok := g.Inspect(id); ok {
		t.Error("Inspect found a removed denizen")
	}
}

func TestSeededRunsRepeat(t *testing.T) {
	run := func() []denizen.RenderRules {
		cfg := testConfig(t, func(c *config.Config) {
			c.Autoclick.Enabled = true
			c.Autoclick.Interval = 0.25
		})
		g := NewGameWithOptions(Options{Seed: 42, Config: cfg})
		runFrames(g, 600)
		return g.Tank().Snapshot()
	}

	a, b := run(), run()
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("seeded runs diverged: %d vs %d denizens", len(a), len(b))
	}
}
