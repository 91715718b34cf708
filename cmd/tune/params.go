package main

import (
	"github.com/pthm-cable/tank/config"
)

// ParamSpec defines a single tunable parameter.
type ParamSpec struct {
	Name    string  // Human-readable name
	Path    string  // Config path for logging
	Min     float64 // Lower bound
	Max     float64 // Upper bound
	Default float64 // Default value
}

// ParamVector holds the set of all tunable parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the standard set of tunable parameters.
func NewParamVector() *ParamVector {
	return &ParamVector{
		Specs: []ParamSpec{
			{Name: "fish_max_swim_speed", Path: "fish.max_swim_speed", Min: 40, Max: 200, Default: 100},
			{Name: "bite_radius_factor", Path: "bite_fish.radius_factor", Min: 0.8, Max: 3.0, Default: 1.5},
			{Name: "seed_ttl_min", Path: "seed.ttl_min", Min: 1.0, Max: 6.0, Default: 3.0},
			// ttl_max is ttl_min plus this span, so the range never inverts
			{Name: "seed_ttl_span", Path: "seed.ttl_max", Min: 0.5, Max: 6.0, Default: 3.0},
			{Name: "autoclick_interval", Path: "autoclick.interval", Min: 0.5, Max: 5.0, Default: 1.5},
			{Name: "surge_multiplier", Path: "go_fish.surge_multiplier", Min: 1.5, Max: 6.0, Default: 3.0},
		},
	}
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// DefaultVector returns the default parameter values as a slice.
func (pv *ParamVector) DefaultVector() []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v[i] = spec.Default
	}
	return v
}

// Normalize converts raw parameter values to [0,1] range.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	normalized := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		normalized[i] = (raw[i] - spec.Min) / (spec.Max - spec.Min)
	}
	return normalized
}

// Denormalize converts [0,1] values back to raw parameter values.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	raw := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		raw[i] = spec.Min + normalized[i]*(spec.Max-spec.Min)
	}
	return raw
}

// Clamp ensures all values are within bounds.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	clamped := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		clamped[i] = min(max(v[i], spec.Min), spec.Max)
	}
	return clamped
}

// ApplyToConfig writes parameter values into cfg and recomputes its derived
// values. The auto-clicker is always on: without it nothing is ever planted.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) error {
	clamped := pv.Clamp(values)

	// Order must match Specs order
	cfg.Fish.MaxSwimSpeed = clamped[0]
	cfg.BiteFish.RadiusFactor = clamped[1]
	cfg.Seed.TTLMin = clamped[2]
	cfg.Seed.TTLMax = clamped[2] + clamped[3]
	cfg.Autoclick.Interval = clamped[4]
	cfg.GoFish.SurgeMultiplier = clamped[5]
	cfg.Autoclick.Enabled = true

	return cfg.Finalize()
}

// ExtractFromConfig extracts current parameter values from a Config struct.
func (pv *ParamVector) ExtractFromConfig(cfg *config.Config) []float64 {
	return []float64{
		cfg.Fish.MaxSwimSpeed,
		cfg.BiteFish.RadiusFactor,
		cfg.Seed.TTLMin,
		cfg.Seed.TTLMax - cfg.Seed.TTLMin,
		cfg.Autoclick.Interval,
		cfg.GoFish.SurgeMultiplier,
	}
}

// evalRecord is one row of tune_log.csv.
type evalRecord struct {
	Eval              int     `csv:"eval"`
	Fitness           float64 `csv:"fitness"`
	MeanFish          float64 `csv:"mean_fish"`
	FishMaxSwimSpeed  float64 `csv:"fish_max_swim_speed"`
	BiteRadiusFactor  float64 `csv:"bite_radius_factor"`
	SeedTTLMin        float64 `csv:"seed_ttl_min"`
	SeedTTLSpan       float64 `csv:"seed_ttl_span"`
	AutoclickInterval float64 `csv:"autoclick_interval"`
	SurgeMultiplier   float64 `csv:"surge_multiplier"`
}

// Record builds a log row from clamped parameter values.
func (pv *ParamVector) Record(eval int, fitness, meanFish float64, values []float64) evalRecord {
	return evalRecord{
		Eval:              eval,
		Fitness:           fitness,
		MeanFish:          meanFish,
		FishMaxSwimSpeed:  values[0],
		BiteRadiusFactor:  values[1],
		SeedTTLMin:        values[2],
		SeedTTLSpan:       values[3],
		AutoclickInterval: values[4],
		SurgeMultiplier:   values[5],
	}
}
