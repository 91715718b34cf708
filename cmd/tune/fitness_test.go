package main

import (
	"math"
	"testing"
	"time"

	"github.com/pthm-cable/tank/config"
	"github.com/pthm-cable/tank/telemetry"
)

func TestMeanFish(t *testing.T) {
	tests := []struct {
		name    string
		windows []telemetry.WindowStats
		want    float64
	}{
		{"none", nil, 0},
		{"warmup only", []telemetry.WindowStats{{Fish: 4}}, 4},
		{
			"skips warmup",
			[]telemetry.WindowStats{
				{Fish: 100},
				{Fish: 1, SwitchFish: 2, GoFish: 3, BiteFish: 4, Seeds: 50},
				{GoFish: 2},
			},
			6,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := meanFish(tt.windows); got != tt.want {
				t.Errorf("meanFish() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEvaluate(t *testing.T) {
	base := config.Default()
	base.Telemetry.StatsWindow = 2
	if err := base.Finalize(); err != nil {
		t.Fatalf("Finalize: %v", err)
	}

	pv := NewParamVector()
	fe := NewFitnessEvaluator(pv, 10*time.Second, []int64{1, 2}, base, 5)

	fitness := fe.Evaluate(pv.DefaultVector())
	if math.IsNaN(fitness) || fitness < 0 {
		t.Fatalf("fitness = %v", fitness)
	}
	mean := fe.LastMeanFish()
	if mean <= 0 {
		t.Errorf("mean fish = %v, want live fish", mean)
	}

	// Same seeds and parameters give the same score
	if again := fe.Evaluate(pv.DefaultVector()); again != fitness {
		t.Errorf("repeat fitness = %v, want %v", again, fitness)
	}

	// The base config is never modified
	if base.Autoclick.Enabled {
		t.Error("base config autoclick enabled")
	}
}
