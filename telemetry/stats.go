package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for a time window.
type WindowStats struct {
	WindowStart float64 `csv:"-"`
	SimTimeSec  float64 `csv:"sim_time"`

	// Population at window end
	Fish       int `csv:"fish"`
	SwitchFish int `csv:"switch_fish"`
	GoFish     int `csv:"go_fish"`
	BiteFish   int `csv:"bite_fish"`
	Seeds      int `csv:"seeds"`
	Starters   int `csv:"starters"`
	Effects    int `csv:"effects"`

	// Events during window
	Births       int `csv:"births"`
	FishBirths   int `csv:"fish_births"`
	SeedLaunches int `csv:"seed_launches"`
	Deaths       int `csv:"deaths"`
	Culled       int `csv:"culled"`
	Eaten        int `csv:"eaten"`
	Expired      int `csv:"expired"`
	Planted      int `csv:"planted"`
	Bites        int `csv:"bites"`
	Clicks       int `csv:"clicks"`

	// Distributions
	AgeAtDeathMean float64 `csv:"age_at_death_mean"`
	AgeAtDeathP50  float64 `csv:"age_at_death_p50"`
	AgeAtDeathP90  float64 `csv:"age_at_death_p90"`
	FishSpeedMean  float64 `csv:"fish_speed_mean"`
	FishSpeedStd   float64 `csv:"fish_speed_std"`
}

// FishTotal returns the number of live fish of every kind.
func (s WindowStats) FishTotal() int {
	return s.Fish + s.SwitchFish + s.GoFish + s.BiteFish
}

// Percentile calculates the p-th percentile of a sorted slice.
// p should be in [0, 1]. Returns 0 if slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	// Linear interpolation
	idx := p * float64(n-1)
	lo := int(idx)
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}

	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// ComputeSummary calculates mean, sample standard deviation and
// percentiles. It returns zeros for an empty slice; std is zero for a single
// value.
func ComputeSummary(values []float64) (mean, std, p10, p50, p90 float64) {
	if len(values) == 0 {
		return 0, 0, 0, 0, 0
	}

	if len(values) == 1 {
		mean = values[0]
	} else {
		mean, std = stat.MeanStdDev(values, nil)
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	p10 = Percentile(sorted, 0.10)
	p50 = Percentile(sorted, 0.50)
	p90 = Percentile(sorted, 0.90)

	return mean, std, p10, p50, p90
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Float64("sim_time", s.SimTimeSec),
		slog.Int("fish", s.FishTotal()),
		slog.Int("bite_fish", s.BiteFish),
		slog.Int("seeds", s.Seeds),
		slog.Int("births", s.Births),
		slog.Int("deaths", s.Deaths),
		slog.Int("bites", s.Bites),
		slog.Int("clicks", s.Clicks),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats_window",
		"sim_time", s.SimTimeSec,
		"fish", s.Fish,
		"switch_fish", s.SwitchFish,
		"go_fish", s.GoFish,
		"bite_fish", s.BiteFish,
		"seeds", s.Seeds,
		"starters", s.Starters,
		"effects", s.Effects,
		"births", s.Births,
		"deaths", s.Deaths,
		"culled", s.Culled,
		"eaten", s.Eaten,
		"expired", s.Expired,
		"planted", s.Planted,
		"bites", s.Bites,
		"clicks", s.Clicks,
		"age_at_death_mean", s.AgeAtDeathMean,
		"age_at_death_p90", s.AgeAtDeathP90,
		"fish_speed_mean", s.FishSpeedMean,
	)
}
