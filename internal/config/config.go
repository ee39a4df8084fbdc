// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/talgya/amoebasim/internal/sim"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	Grid        GridConfig        `yaml:"grid"`
	Population  PopulationConfig  `yaml:"population"`
	Calendar    CalendarConfig    `yaml:"calendar"`
	Lifecycle   LifecycleConfig   `yaml:"lifecycle"`
	Environment EnvironmentConfig `yaml:"environment"`
	Server      ServerConfig      `yaml:"server"`
	Database    DatabaseConfig    `yaml:"database"`
	Output      OutputConfig      `yaml:"output"`
}

// GridConfig holds grid dimensions.
type GridConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// PopulationConfig holds initial seeding parameters.
type PopulationConfig struct {
	SeedCount int `yaml:"seed_count"`
}

// CalendarConfig holds the month cadence.
type CalendarConfig struct {
	StepsPerMonth int `yaml:"steps_per_month"` // month rolls forward every N steps
}

// LifecycleConfig holds the transition calibration.
type LifecycleConfig struct {
	DivideChance    float64 `yaml:"divide_chance"`    // per-step division probability when favorable
	StressTolerance int     `yaml:"stress_tolerance"` // harsh steps endured before encysting
	ExcystDuration  int     `yaml:"excyst_duration"`  // steps spent excysting
	DividedRecovery int     `yaml:"divided_recovery"` // steps a parent rests after dividing
}

// EnvironmentConfig holds signal drift amplitudes.
type EnvironmentConfig struct {
	TempDrift  float64 `yaml:"temp_drift"`
	WaterDrift float64 `yaml:"water_drift"`
}

// ServerConfig holds HTTP settings.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// DatabaseConfig holds the SQLite path.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// OutputConfig holds report output settings.
type OutputConfig struct {
	Dir string `yaml:"dir"`
}

// Default returns the embedded default configuration.
func Default() (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(defaultsYAML, &cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}
	return &cfg, nil
}

// Load returns the defaults with the given YAML file (if non-empty) merged
// over them.
func Load(path string) (*Config, error) {
	cfg, err := Default()
	if err != nil {
		return nil, err
	}
	if path == "" {
		return cfg, cfg.Validate()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

// Validate rejects configurations the model cannot run with.
func (c *Config) Validate() error {
	if c.Grid.Width < 1 || c.Grid.Height < 1 {
		return fmt.Errorf("grid dimensions must be positive, got %dx%d", c.Grid.Width, c.Grid.Height)
	}
	if c.Population.SeedCount < 1 {
		return fmt.Errorf("seed_count must be at least 1, got %d", c.Population.SeedCount)
	}
	if c.Population.SeedCount > c.Grid.Width*c.Grid.Height {
		return fmt.Errorf("seed_count %d exceeds grid capacity %d",
			c.Population.SeedCount, c.Grid.Width*c.Grid.Height)
	}
	if c.Calendar.StepsPerMonth < 1 {
		return fmt.Errorf("steps_per_month must be at least 1, got %d", c.Calendar.StepsPerMonth)
	}
	if c.Lifecycle.DivideChance < 0 || c.Lifecycle.DivideChance > 1 {
		return fmt.Errorf("divide_chance must be in [0,1], got %g", c.Lifecycle.DivideChance)
	}
	return nil
}

// Params converts the configuration into the model calibration.
func (c *Config) Params() sim.Params {
	return sim.Params{
		Width:           c.Grid.Width,
		Height:          c.Grid.Height,
		SeedCount:       c.Population.SeedCount,
		StepsPerMonth:   c.Calendar.StepsPerMonth,
		DivideChance:    c.Lifecycle.DivideChance,
		StressTolerance: c.Lifecycle.StressTolerance,
		ExcystDuration:  c.Lifecycle.ExcystDuration,
		DividedRecovery: c.Lifecycle.DividedRecovery,
		TempDrift:       c.Environment.TempDrift,
		WaterDrift:      c.Environment.WaterDrift,
	}
}
