package game

import (
	"log/slog"

	"github.com/pthm-cable/tank/denizen"
)

// LogSummary logs the run totals and the live population.
func (g *Game) LogSummary(msg string) {
	pop := g.Population()
	attrs := []any{
		"frame", g.frame,
		"sim_time", g.SimTime().Seconds(),
		"seed", g.rngSeed,
		"denizens", g.tank.Len(),
	}
	for _, kind := range denizen.Kinds() {
		attrs = append(attrs, kind.String(), pop[kind])
	}
	slog.Info(msg, attrs...)
}
