// Package config provides configuration loading and access for the tank.
package config

import (
	_ "embed"
	"fmt"
	"os"
	"path"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/tank/denizen"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all tank configuration parameters.
type Config struct {
	Screen     ScreenConfig     `yaml:"screen"`
	Tank       TankConfig       `yaml:"tank"`
	Fish       FishConfig       `yaml:"fish"`
	GoFish     GoFishConfig     `yaml:"go_fish"`
	BiteFish   BiteFishConfig   `yaml:"bite_fish"`
	Seed       SeedConfig       `yaml:"seed"`
	Starter    StarterConfig    `yaml:"starter"`
	Effect     EffectConfig     `yaml:"effect"`
	Images     ImagesConfig     `yaml:"images"`
	Species    []string         `yaml:"species"` // catalog seeds draw from, by kind name
	Population PopulationConfig `yaml:"population"`
	Autoclick  AutoclickConfig  `yaml:"autoclick"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int    `yaml:"width"`
	Height    int    `yaml:"height"`
	TargetFPS int    `yaml:"target_fps"`
	Title     string `yaml:"title"`
}

// TankConfig holds the tank rectangle and spatial index settings.
type TankConfig struct {
	Width        float64 `yaml:"width"`  // 0 = screen width
	Height       float64 `yaml:"height"` // 0 = screen height
	GridCellSize float64 `yaml:"grid_cell_size"`
}

// FishConfig holds the swim parameters shared by every fish.
type FishConfig struct {
	Width          float64 `yaml:"width"`
	Height         float64 `yaml:"height"`
	MaxSwimSpeed   float64 `yaml:"max_swim_speed"`
	SpeedChangeMax float64 `yaml:"speed_change_max"` // seconds
	SwitchMinSpeed float64 `yaml:"switch_min_speed"`
}

// GoFishConfig holds surge parameters.
type GoFishConfig struct {
	MaxSurge        float64 `yaml:"max_surge"` // seconds
	SurgeMultiplier float64 `yaml:"surge_multiplier"`
}

// BiteFishConfig holds feeding parameters.
type BiteFishConfig struct {
	RadiusFactor float64 `yaml:"radius_factor"` // bite radius = height * this
	StartEaten   int     `yaml:"start_eaten"`
}

// SeedConfig holds seed physics.
type SeedConfig struct {
	Size          float64 `yaml:"size"`
	WaterFriction float64 `yaml:"water_friction"` // fraction of velocity lost per second
	Gravity       float64 `yaml:"gravity"`
	TTLMin        float64 `yaml:"ttl_min"` // seconds, inclusive
	TTLMax        float64 `yaml:"ttl_max"` // seconds, exclusive
}

// StarterConfig holds seed launch parameters.
type StarterConfig struct {
	LaunchSpeed float64 `yaml:"launch_speed"`
	LaunchApex  float64 `yaml:"launch_apex"`
}

// EffectConfig holds bite effect timing.
type EffectConfig struct {
	Linger float64 `yaml:"linger"` // seconds
	Leave  float64 `yaml:"leave"`  // seconds of removal delay
}

// ImagesConfig maps kinds to image URIs. Dir is prepended to relative names.
type ImagesConfig struct {
	Dir        string `yaml:"dir"`
	Fish       string `yaml:"fish"`
	SwitchFish string `yaml:"switch_fish"`
	GoFish     string `yaml:"go_fish"`
	BiteFish   string `yaml:"bite_fish"`
	Seed       string `yaml:"seed"`
	Starter    string `yaml:"starter"`
}

// PopulationConfig holds the starting population.
type PopulationConfig struct {
	Starters int            `yaml:"starters"` // spread evenly along the bottom
	Initial  map[string]int `yaml:"initial"`  // kind name -> count placed at random
}

// AutoclickConfig drives the built-in clicker used by headless runs.
type AutoclickConfig struct {
	Enabled  bool     `yaml:"enabled"`
	Interval float64  `yaml:"interval"` // seconds of simulated time between clicks
	Targets  []string `yaml:"targets"`  // kinds eligible for clicks
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow float64 `yaml:"stats_window"` // seconds of simulated time
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	Bounds            denizen.Bounds
	Tuning            denizen.Tuning
	SpeciesKinds      []denizen.Kind
	InitialKinds      map[denizen.Kind]int
	AutoclickKinds    []denizen.Kind
	AutoclickInterval time.Duration
	StatsWindow       time.Duration
	FrameDT           time.Duration // 1 / target_fps
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Default returns the embedded defaults.
func Default() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults: %v", err))
	}
	return cfg
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Only overwrites fields present in the file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Finalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Finalize validates the config and recomputes derived values. Call it
// after changing fields programmatically.
func (c *Config) Finalize() error {
	if err := c.validate(); err != nil {
		return err
	}
	return c.computeDerived()
}

func (c *Config) validate() error {
	if c.Seed.TTLMax < c.Seed.TTLMin {
		return fmt.Errorf("seed.ttl_max %v is below seed.ttl_min %v", c.Seed.TTLMax, c.Seed.TTLMin)
	}
	if c.Autoclick.Enabled && c.Autoclick.Interval <= 0 {
		return fmt.Errorf("autoclick.interval must be positive, got %v", c.Autoclick.Interval)
	}
	if c.Telemetry.StatsWindow <= 0 {
		return fmt.Errorf("telemetry.stats_window must be positive, got %v", c.Telemetry.StatsWindow)
	}
	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() error {
	// Tank defaults to screen size
	w, h := c.Tank.Width, c.Tank.Height
	if w == 0 {
		w = float64(c.Screen.Width)
	}
	if h == 0 {
		h = float64(c.Screen.Height)
	}
	c.Derived.Bounds = denizen.Bounds{MinX: 0, MaxX: w, MinY: 0, MaxY: h}

	c.Derived.SpeciesKinds = c.Derived.SpeciesKinds[:0]
	for _, name := range c.Species {
		k, err := parseSpecies(name)
		if err != nil {
			return fmt.Errorf("species: %w", err)
		}
		c.Derived.SpeciesKinds = append(c.Derived.SpeciesKinds, k)
	}

	c.Derived.InitialKinds = make(map[denizen.Kind]int, len(c.Population.Initial))
	for name, n := range c.Population.Initial {
		k, err := parseSpecies(name)
		if err != nil {
			return fmt.Errorf("population.initial: %w", err)
		}
		c.Derived.InitialKinds[k] = n
	}

	c.Derived.AutoclickKinds = c.Derived.AutoclickKinds[:0]
	for _, name := range c.Autoclick.Targets {
		k, err := denizen.ParseKind(name)
		if err != nil {
			return fmt.Errorf("autoclick.targets: %w", err)
		}
		c.Derived.AutoclickKinds = append(c.Derived.AutoclickKinds, k)
	}

	c.Derived.AutoclickInterval = seconds(c.Autoclick.Interval)
	c.Derived.StatsWindow = seconds(c.Telemetry.StatsWindow)
	c.Derived.FrameDT = time.Second / 60
	if c.Screen.TargetFPS > 0 {
		c.Derived.FrameDT = time.Second / time.Duration(c.Screen.TargetFPS)
	}

	c.Derived.Tuning = c.tuning()
	return nil
}

// parseSpecies accepts kinds that a seed can grow into.
func parseSpecies(name string) (denizen.Kind, error) {
	k, err := denizen.ParseKind(name)
	if err != nil {
		return 0, err
	}
	if _, err := denizen.FactoryFor(k); err != nil {
		return 0, err
	}
	return k, nil
}

func (c *Config) tuning() denizen.Tuning {
	t := denizen.DefaultTuning()
	t.Width = c.Fish.Width
	t.Height = c.Fish.Height
	t.MaxSwimSpeed = c.Fish.MaxSwimSpeed
	t.SpeedChangeMax = c.Fish.SpeedChangeMax
	t.SwitchMinSpeed = c.Fish.SwitchMinSpeed
	t.MaxSurge = c.GoFish.MaxSurge
	t.SurgeMultiplier = c.GoFish.SurgeMultiplier
	t.BiteRadiusFactor = c.BiteFish.RadiusFactor
	t.BiteStartEaten = c.BiteFish.StartEaten
	t.BiteEffectLinger = c.Effect.Linger
	t.BiteEffectLeave = seconds(c.Effect.Leave)
	t.WaterFriction = c.Seed.WaterFriction
	t.Gravity = c.Seed.Gravity
	t.SeedSize = c.Seed.Size
	t.SeedTTLMin = c.Seed.TTLMin
	t.SeedTTLMax = c.Seed.TTLMax
	t.LaunchSpeed = c.Starter.LaunchSpeed
	t.LaunchApex = c.Starter.LaunchApex

	img := c.Images
	t.Images = map[denizen.Kind]string{
		denizen.KindFish:       img.uri(img.Fish),
		denizen.KindSwitchFish: img.uri(img.SwitchFish),
		denizen.KindGoFish:     img.uri(img.GoFish),
		denizen.KindBiteFish:   img.uri(img.BiteFish),
		denizen.KindSeed:       img.uri(img.Seed),
		denizen.KindStarter:    img.uri(img.Starter),
	}
	return t
}

func (i ImagesConfig) uri(name string) string {
	if name == "" || path.IsAbs(name) || i.Dir == "" {
		return name
	}
	return path.Join(i.Dir, name)
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// Clone returns an independent copy of c with derived values recomputed.
func (c *Config) Clone() (*Config, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("marshaling config: %w", err)
	}
	out := &Config{}
	if err := yaml.Unmarshal(data, out); err != nil {
		return nil, fmt.Errorf("parsing config copy: %w", err)
	}
	if err := out.Finalize(); err != nil {
		return nil, err
	}
	return out, nil
}
