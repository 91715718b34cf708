package game

import (
	"log/slog"

	"github.com/pthm-cable/tank/denizen"
	"github.com/pthm-cable/tank/vec"
)

// registerSpecies fills the tank catalog seeds draw from.
func (g *Game) registerSpecies() {
	for _, kind := range g.cfg.Derived.SpeciesKinds {
		f, err := denizen.FactoryFor(kind)
		if err != nil {
			// Config validation only admits species kinds
			panic(err)
		}
		g.tank.AddSpecies(kind.String(), f)
	}
}

// spawnInitialPopulation places the starters evenly along the bottom edge and
// the initial fish at random positions inside the bounds.
func (g *Game) spawnInitialPopulation() {
	b := g.tank.Bounds()
	width := b.MaxX - b.MinX
	height := b.MaxY - b.MinY

	n := g.cfg.Population.Starters
	for i := 0; i < n; i++ {
		x := b.MinX + (float64(i)+0.5)*width/float64(n)
		denizen.NewStarter(denizen.Options{
			World:    g.tank,
			Position: vec.New(x, b.MinY),
			Tuning:   &g.tuning,
		})
	}

	// Walk kinds in declaration order so seeded runs place fish identically
	rng := g.tank.Rand()
	for _, kind := range denizen.Kinds() {
		count := g.cfg.Derived.InitialKinds[kind]
		if count == 0 {
			continue
		}
		f, err := denizen.FactoryFor(kind)
		if err != nil {
			panic(err)
		}
		for i := 0; i < count; i++ {
			f(denizen.Options{
				World:    g.tank,
				Position: vec.New(b.MinX+rng.Float64()*width, b.MinY+rng.Float64()*height),
				Tuning:   &g.tuning,
			})
		}
	}

	slog.Debug("initial population spawned",
		"starters", n,
		"denizens", g.tank.Len(),
		"seed", g.rngSeed,
	)
}
