// Package config provides configuration loading for the simulation.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Smallest world the fixed obstacle course fits in.
const (
	MinWorldWidth  = 600
	MinWorldHeight = 700
)

// Config is the full run configuration of a dots simulation.
type Config struct {
	Screen     ScreenConfig     `yaml:"screen"`
	World      WorldConfig      `yaml:"world"`
	Dot        DotConfig        `yaml:"dot"`
	Population PopulationConfig `yaml:"population"`
	Brain      BrainConfig      `yaml:"brain"`
	Mutation   MutationConfig   `yaml:"mutation"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`
	Stream     StreamConfig     `yaml:"stream"`

	// Filled by computeDerived, never read from YAML
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig sizes the window.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// WorldConfig holds the simulation area and its fixed points.
type WorldConfig struct {
	Width       int     `yaml:"width"`        // 0 = screen width
	Height      int     `yaml:"height"`       // 0 = screen height
	TargetY     float64 `yaml:"target_y"`     // target y coordinate
	SpawnOffset float64 `yaml:"spawn_offset"` // spawn distance above the bottom edge
}

// DotConfig holds per-dot physics.
type DotConfig struct {
	Radius             float64 `yaml:"radius"`
	MaxSpeed           float64 `yaml:"max_speed"`
	TargetRadiusFactor float64 `yaml:"target_radius_factor"`
}

// PopulationConfig holds population sizing.
type PopulationConfig struct {
	Size    int `yaml:"size"`
	Workers int `yaml:"workers"` // 0 = GOMAXPROCS
}

// BrainConfig holds genome parameters.
type BrainConfig struct {
	Steps int `yaml:"steps"`
}

// MutationConfig holds the per-gene mutation probability.
type MutationConfig struct {
	Rate float64 `yaml:"rate"`
}

// TelemetryConfig sizes the perf and stagnation windows.
type TelemetryConfig struct {
	PerfWindow       int `yaml:"perf_window"`
	StagnationWindow int `yaml:"stagnation_window"`
}

// StreamConfig holds websocket streaming parameters.
type StreamConfig struct {
	FrameInterval int `yaml:"frame_interval"`
}

// DerivedConfig holds the resolved world size.
type DerivedConfig struct {
	WorldW   int // Effective world width
	WorldH   int // Effective world height
	WorldW32 float32
	WorldH32 float32
}

// Default returns the embedded default configuration.
func Default() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults are invalid: %v", err))
	}
	return cfg
}

// Load overlays the YAML file at path onto the embedded defaults.
// An empty path yields the defaults alone.
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
		// Keys absent from the file keep their default values
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	cfg.computeDerived()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return cfg, nil
}

// computeDerived resolves the world size.
func (c *Config) computeDerived() {
	// A zero world dimension follows the screen
	worldW := c.World.Width
	if worldW == 0 {
		worldW = c.Screen.Width
	}
	worldH := c.World.Height
	if worldH == 0 {
		worldH = c.Screen.Height
	}
	c.Derived.WorldW = worldW
	c.Derived.WorldH = worldH
	c.Derived.WorldW32 = float32(worldW)
	c.Derived.WorldH32 = float32(worldH)
}

// Validate checks that the configuration describes a runnable simulation.
func (c *Config) Validate() error {
	var errs []error
	if c.Derived.WorldW < MinWorldWidth || c.Derived.WorldH < MinWorldHeight {
		errs = append(errs, fmt.Errorf("world %dx%d is smaller than the %dx%d course",
			c.Derived.WorldW, c.Derived.WorldH, MinWorldWidth, MinWorldHeight))
	}
	if c.Dot.Radius <= 0 {
		errs = append(errs, fmt.Errorf("dot.radius must be positive, got %v", c.Dot.Radius))
	}
	if c.Dot.MaxSpeed <= 0 {
		errs = append(errs, fmt.Errorf("dot.max_speed must be positive, got %v", c.Dot.MaxSpeed))
	}
	if c.Dot.TargetRadiusFactor <= 0 {
		errs = append(errs, fmt.Errorf("dot.target_radius_factor must be positive, got %v", c.Dot.TargetRadiusFactor))
	}
	if r, h := c.Dot.Radius, float64(c.Derived.WorldH); r > 0 {
		if c.World.TargetY < r || c.World.TargetY > h-r {
			errs = append(errs, fmt.Errorf("world.target_y must be in [%v, %v], got %v", r, h-r, c.World.TargetY))
		}
		if c.World.SpawnOffset < r || c.World.SpawnOffset > h-r {
			errs = append(errs, fmt.Errorf("world.spawn_offset must be in [%v, %v], got %v", r, h-r, c.World.SpawnOffset))
		}
	}
	if c.Population.Size < 1 {
		errs = append(errs, fmt.Errorf("population.size must be at least 1, got %d", c.Population.Size))
	}
	if c.Population.Workers < 0 {
		errs = append(errs, fmt.Errorf("population.workers must not be negative, got %d", c.Population.Workers))
	}
	if c.Brain.Steps < 1 {
		errs = append(errs, fmt.Errorf("brain.steps must be at least 1, got %d", c.Brain.Steps))
	}
	if c.Mutation.Rate < 0 || c.Mutation.Rate > 1 {
		errs = append(errs, fmt.Errorf("mutation.rate must be in [0, 1], got %v", c.Mutation.Rate))
	}
	if c.Stream.FrameInterval < 1 {
		errs = append(errs, fmt.Errorf("stream.frame_interval must be at least 1, got %d", c.Stream.FrameInterval))
	}
	return errors.Join(errs...)
}

// WriteYAML saves the effective configuration, e.g. as a run snapshot.
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
