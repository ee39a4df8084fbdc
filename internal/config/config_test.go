package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg, err := Default()
	if err != nil {
		t.Fatal(err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("embedded defaults fail validation: %v", err)
	}
	if cfg.Grid.Width != 10 || cfg.Grid.Height != 10 {
		t.Errorf("default grid %dx%d, want 10x10", cfg.Grid.Width, cfg.Grid.Height)
	}
	if cfg.Population.SeedCount != 1 {
		t.Errorf("default seed_count = %d, want 1", cfg.Population.SeedCount)
	}
	if cfg.Lifecycle.DivideChance != 0.6 {
		t.Errorf("default divide_chance = %g, want 0.6", cfg.Lifecycle.DivideChance)
	}
	if cfg.Server.Addr == "" || cfg.Database.Path == "" || cfg.Output.Dir == "" {
		t.Error("defaults missing server/database/output settings")
	}
}

func TestLoadMergesOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "grid:\n  width: 20\n  height: 15\nlifecycle:\n  divide_chance: 0.9\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Grid.Width != 20 || cfg.Grid.Height != 15 {
		t.Errorf("grid %dx%d, want 20x15", cfg.Grid.Width, cfg.Grid.Height)
	}
	if cfg.Lifecycle.DivideChance != 0.9 {
		t.Errorf("divide_chance = %g, want 0.9", cfg.Lifecycle.DivideChance)
	}
	// Untouched keys keep their defaults.
	if cfg.Population.SeedCount != 1 {
		t.Errorf("seed_count = %d, want default 1", cfg.Population.SeedCount)
	}
	if cfg.Calendar.StepsPerMonth != 1 {
		t.Errorf("steps_per_month = %d, want default 1", cfg.Calendar.StepsPerMonth)
	}
}

func TestLoadEmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	def, err := Default()
	if err != nil {
		t.Fatal(err)
	}
	if *cfg != *def {
		t.Errorf("Load(\"\") = %+v, want defaults %+v", cfg, def)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("expected error for missing config file")
	}
}

func TestValidate(t *testing.T) {
	mutations := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero width", func(c *Config) { c.Grid.Width = 0 }},
		{"negative height", func(c *Config) { c.Grid.Height = -1 }},
		{"zero seed count", func(c *Config) { c.Population.SeedCount = 0 }},
		{"seed count over capacity", func(c *Config) { c.Population.SeedCount = 101 }},
		{"zero steps per month", func(c *Config) { c.Calendar.StepsPerMonth = 0 }},
		{"divide chance over 1", func(c *Config) { c.Lifecycle.DivideChance = 1.5 }},
		{"negative divide chance", func(c *Config) { c.Lifecycle.DivideChance = -0.1 }},
	}
	for _, tc := range mutations {
		t.Run(tc.name, func(t *testing.T) {
			cfg, err := Default()
			if err != nil {
				t.Fatal(err)
			}
			tc.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestParams(t *testing.T) {
	cfg, err := Default()
	if err != nil {
		t.Fatal(err)
	}
	p := cfg.Params()
	if p.Width != cfg.Grid.Width || p.Height != cfg.Grid.Height {
		t.Errorf("params grid %dx%d, want %dx%d", p.Width, p.Height, cfg.Grid.Width, cfg.Grid.Height)
	}
	if p.DivideChance != cfg.Lifecycle.DivideChance {
		t.Errorf("params divide_chance = %g, want %g", p.DivideChance, cfg.Lifecycle.DivideChance)
	}
	if p.StepsPerMonth != cfg.Calendar.StepsPerMonth {
		t.Errorf("params steps_per_month = %d, want %d", p.StepsPerMonth, cfg.Calendar.StepsPerMonth)
	}
}
