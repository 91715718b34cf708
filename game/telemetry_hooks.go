package game

import (
	"log/slog"
	"path/filepath"
	"time"

	"github.com/pthm-cable/tank/denizen"
	"github.com/pthm-cable/tank/telemetry"
)

// tankObserver feeds registry changes into the telemetry pipeline.
type tankObserver struct {
	g *Game
}

func (o tankObserver) Registered(id denizen.ID, d denizen.Denizen, now time.Time) {
	kind := d.Core().Kind
	o.g.lifetime.Register(id, kind, now)
	o.g.collector.Record(telemetry.NewSpawnEvent(now, id, kind))
	slog.Debug("denizen_spawned", "id", id, "kind", kind.String())
}

func (o tankObserver) Removed(id denizen.ID, d denizen.Denizen, now time.Time) {
	g := o.g
	kind := d.Core().Kind
	cause := g.deathCause(d)

	if b, ok := d.(*denizen.BiteFish); ok {
		g.lifetime.SetBites(id, b.Eaten-g.tuning.BiteStartEaten)
	}
	if cause == telemetry.CauseEaten {
		g.collector.Record(telemetry.NewBiteEvent(now, id, kind))
	}
	g.collector.Record(telemetry.NewDeathEvent(now, id, kind, cause))

	if ls := g.lifetime.Remove(id, now, cause); ls != nil {
		g.collector.RecordAge(ls.Age())
		if g.output != nil {
			g.deaths = append(g.deaths, ls.ToRecord(Epoch))
		}
	}
	slog.Debug("denizen_removed", "id", id, "kind", kind.String(), "cause", cause.String())
}

func (o tankObserver) Clicked(id denizen.ID, d denizen.Denizen, now time.Time) {
	o.g.lifetime.RecordClick(id)
	o.g.collector.Record(telemetry.NewClickEvent(now, id, d.Core().Kind))
}

// deathCause infers why a denizen left the tank. Only bite fish kill other
// denizens, so a fish removed inside the bounds was eaten.
func (g *Game) deathCause(d denizen.Denizen) telemetry.Cause {
	c := d.Core()
	if c.OutOfBounds(g.tank.Bounds()) {
		return telemetry.CauseCulled
	}
	switch c.Kind {
	case denizen.KindFish, denizen.KindSwitchFish, denizen.KindGoFish, denizen.KindBiteFish:
		return telemetry.CauseEaten
	case denizen.KindSeed:
		if s, ok := d.(*denizen.Seed); ok && s.TTL < 0 {
			return telemetry.CauseExpired
		}
		return telemetry.CausePlanted
	case denizen.KindEffect:
		return telemetry.CauseExpired
	default:
		return telemetry.CauseKilled
	}
}

// flushTelemetry checks if the stats window should be flushed and handles bookmarks.
func (g *Game) flushTelemetry(now time.Time) {
	if !g.collector.ShouldFlush(now) {
		return
	}

	pop, speeds := g.samplePopulation()
	stats := g.collector.Flush(now, pop, speeds)
	perfStats := g.perf.Stats()

	if g.statsCallback != nil {
		g.statsCallback(stats)
	}

	if g.logStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	if g.output != nil {
		if err := g.output.WriteTelemetry(stats); err != nil {
			slog.Error("failed to write telemetry", "error", err)
		}
		g.writeDeaths()
		if err := g.output.WritePerf(perfStats, stats.SimTimeSec, g.tank.Len()); err != nil {
			slog.Error("failed to write perf", "error", err)
		}
	}

	for _, bm := range g.bookmarks.Check(stats) {
		if g.logStats {
			bm.LogBookmark()
		}
		if g.output != nil {
			if err := g.output.WriteBookmark(bm); err != nil {
				slog.Error("failed to write bookmark", "error", err)
			}
			g.saveSnapshot(bm)
		}
	}
}

// saveSnapshot writes the tank's render state next to the other output files.
func (g *Game) saveSnapshot(bm telemetry.Bookmark) {
	b := g.tank.Bounds()
	snap := &telemetry.Snapshot{
		Version:    telemetry.SnapshotVersion,
		RNGSeed:    g.rngSeed,
		TankWidth:  b.MaxX - b.MinX,
		TankHeight: b.MaxY - b.MinY,
		Frame:      g.frame,
		SimTimeSec: g.SimTime().Seconds(),
		Denizens:   g.tank.Snapshot(),
		Bookmark:   &bm,
	}
	path, err := telemetry.SaveSnapshot(snap, filepath.Join(g.output.Dir(), "snapshots"))
	if err != nil {
		slog.Error("failed to save snapshot", "error", err)
		return
	}
	slog.Debug("snapshot_saved", "path", path, "bookmark", string(bm.Type))
}

// writeDeaths appends the pending death records to deaths.csv.
func (g *Game) writeDeaths() {
	if len(g.deaths) == 0 {
		return
	}
	if err := g.output.WriteDeaths(g.deaths); err != nil {
		slog.Error("failed to write deaths", "error", err)
	}
	g.deaths = g.deaths[:0]
}

// samplePopulation counts live denizens per kind and collects fish swim speeds.
func (g *Game) samplePopulation() (telemetry.Population, []float64) {
	pop := make(telemetry.Population)
	var speeds []float64
	g.tank.Each(func(d denizen.Denizen) {
		pop[d.Core().Kind]++
		if v, ok := swimSpeed(d); ok {
			speeds = append(speeds, v)
		}
	})
	return pop, speeds
}

func swimSpeed(d denizen.Denizen) (float64, bool) {
	switch f := d.(type) {
	case *denizen.Fish:
		return f.SwimVelocity.Magnitude(), true
	case *denizen.SwitchFish:
		return f.SwimVelocity.Magnitude(), true
	case *denizen.GoFish:
		return f.SwimVelocity.Magnitude(), true
	case *denizen.BiteFish:
		return f.SwimVelocity.Magnitude(), true
	}
	return 0, false
}
