package game

import (
	"log/slog"
	"slices"
	"time"

	"github.com/pthm-cable/tank/config"
	"github.com/pthm-cable/tank/denizen"
)

const defaultAutoclickInterval = 1500 * time.Millisecond

func autoclickInterval(cfg *config.Config) time.Duration {
	if cfg.Derived.AutoclickInterval > 0 {
		return cfg.Derived.AutoclickInterval
	}
	return defaultAutoclickInterval
}

// runAutoclick clicks one random denizen of a target kind whenever the
// interval has elapsed. It keeps the tank stocked in unattended runs.
func (g *Game) runAutoclick(now time.Time) {
	if !g.autoclick || now.Before(g.nextAutoclick) {
		return
	}
	g.nextAutoclick = now.Add(autoclickInterval(g.cfg))

	targets := g.cfg.Derived.AutoclickKinds
	var candidates []denizen.ID
	g.tank.Each(func(d denizen.Denizen) {
		c := d.Core()
		if slices.Contains(targets, c.Kind) {
			candidates = append(candidates, c.ID)
		}
	})
	if len(candidates) == 0 {
		return
	}

	id := candidates[g.tank.Rand().Intn(len(candidates))]
	if err := g.tank.ClickDenizen(id); err != nil {
		slog.Debug("autoclick", "id", id, "error", err)
		return
	}
	slog.Debug("autoclick", "id", id)
}
