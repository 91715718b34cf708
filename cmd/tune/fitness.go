package main

import (
	"log/slog"
	"sync"
	"time"

	"github.com/pthm-cable/tank/config"
	"github.com/pthm-cable/tank/game"
	"github.com/pthm-cable/tank/telemetry"
)

// Windows skipped before averaging, while the starting population settles.
const warmupWindows = 1

// Fitness returned when a parameter vector cannot produce a valid config.
const invalidFitness = 1e9

// FitnessEvaluator runs headless simulations and computes fitness.
type FitnessEvaluator struct {
	params     *ParamVector
	duration   time.Duration
	seeds      []int64
	baseConfig *config.Config
	target     float64

	mu           sync.Mutex
	lastMeanFish float64 // mean fish from most recent Evaluate call
}

// NewFitnessEvaluator creates a new evaluator. Each run lasts duration of
// simulated time and aims for target live fish.
func NewFitnessEvaluator(params *ParamVector, duration time.Duration, seeds []int64, baseCfg *config.Config, target float64) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:     params,
		duration:   duration,
		seeds:      seeds,
		baseConfig: baseCfg,
		target:     target,
	}
}

// LastMeanFish returns the mean fish count from the most recent evaluation.
func (fe *FitnessEvaluator) LastMeanFish() float64 {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastMeanFish
}

// Evaluate computes fitness for a raw parameter vector (lower = better): the
// squared distance between the mean live fish count and the target,
// averaged over seeds.
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	cfg, err := fe.configFor(x)
	if err != nil {
		slog.Warn("invalid parameters", "error", err)
		return invalidFitness
	}

	// Run all seeds in parallel, each with its own game
	means := make([]float64, len(fe.seeds))
	var wg sync.WaitGroup
	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			means[idx] = meanFish(fe.runSimulation(cfg, s))
		}(i, seed)
	}
	wg.Wait()

	var fitness, mean float64
	for _, m := range means {
		d := m - fe.target
		fitness += d * d
		mean += m
	}
	n := float64(len(fe.seeds))

	fe.mu.Lock()
	fe.lastMeanFish = mean / n
	fe.mu.Unlock()

	return fitness / n
}

// configFor returns a fresh copy of the base config with x applied.
func (fe *FitnessEvaluator) configFor(x []float64) (*config.Config, error) {
	cfg, err := fe.baseConfig.Clone()
	if err != nil {
		return nil, err
	}
	if err := fe.params.ApplyToConfig(cfg, x); err != nil {
		return nil, err
	}
	return cfg, nil
}

// runSimulation executes a single headless run and returns its windows.
// Games only read their config, so seeds may share cfg.
func (fe *FitnessEvaluator) runSimulation(cfg *config.Config, seed int64) []telemetry.WindowStats {
	var windows []telemetry.WindowStats
	g := game.NewGameWithOptions(game.Options{
		Seed:           seed,
		StepsPerUpdate: 60,
		Config:         cfg,
		StatsCallback: func(stats telemetry.WindowStats) {
			windows = append(windows, stats)
		},
	})
	defer g.Unload()

	for g.SimTime() < fe.duration {
		g.UpdateHeadless()
	}
	return windows
}

// meanFish averages the live fish count over the windows past warmup.
func meanFish(windows []telemetry.WindowStats) float64 {
	if len(windows) > warmupWindows {
		windows = windows[warmupWindows:]
	}
	if len(windows) == 0 {
		return 0
	}
	var sum float64
	for _, w := range windows {
		sum += float64(w.Fish + w.SwitchFish + w.GoFish + w.BiteFish)
	}
	return sum / float64(len(windows))
}
