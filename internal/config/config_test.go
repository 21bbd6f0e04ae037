package config

import (
	"errors"
	"math"
	"path/filepath"
	"testing"

	"github.com/san-kum/verletsim/internal/dynamo"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Particles != 2000 {
		t.Errorf("expected 2000 particles, got %d", cfg.Particles)
	}
	if math.Abs(cfg.Dt()-1.0/60) > 1e-15 {
		t.Errorf("dt = %v", cfg.Dt())
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sim.yaml")
	cfg := DefaultConfig()
	cfg.Particles = 123
	cfg.Epsilon = 1e-6
	cfg.Viewport.Width = 1024

	if err := Save(path, cfg); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if got.Particles != 123 || got.Epsilon != 1e-6 || got.Viewport.Width != 1024 {
		t.Errorf("round trip lost values: %+v", got)
	}
}

func TestLoadPartialKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	if err := writeFile(path, "particles: 50\ngravity: -9.8\n"); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Particles != 50 || cfg.Gravity != -9.8 {
		t.Errorf("overrides not applied: %+v", cfg)
	}
	if cfg.FPS != dynamo.DefaultFPS || cfg.Viewport.Height != dynamo.DefaultHeight {
		t.Errorf("defaults lost: %+v", cfg)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}

	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := writeFile(path, "particles: [1, 2\n"); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected parse error")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"negative particles", func(c *Config) { c.Particles = -5 }},
		{"zero radius", func(c *Config) { c.Radius = 0 }},
		{"zero scale", func(c *Config) { c.Scale = 0 }},
		{"negative epsilon", func(c *Config) { c.Epsilon = -1 }},
		{"zero fps", func(c *Config) { c.FPS = 0 }},
		{"negative ticks", func(c *Config) { c.Ticks = -1 }},
		{"zero viewport", func(c *Config) { c.Viewport.Height = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); !errors.Is(err, dynamo.ErrParameterBounds) {
				t.Errorf("expected ErrParameterBounds, got %v", err)
			}
		})
	}
}

func TestRunConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Seed = 9
	rc := cfg.RunConfig()
	if rc.Ticks != cfg.Ticks || rc.Seed != 9 || !rc.ValidateState || rc.Dt != cfg.Dt() {
		t.Errorf("RunConfig = %+v", rc)
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("reference")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if cfg.Particles != 2000 {
		t.Errorf("expected 2000 particles, got %d", cfg.Particles)
	}

	cfg.Particles = 1
	if Presets["reference"].Particles != 2000 {
		t.Error("GetPreset returned shared preset")
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	if cfg := GetPreset("nonexistent"); cfg != nil {
		t.Error("expected nil for nonexistent preset")
	}
}

func TestPresetsValid(t *testing.T) {
	names := ListPresets()
	if len(names) != len(Presets) {
		t.Fatalf("ListPresets returned %d of %d", len(names), len(Presets))
	}
	for _, name := range names {
		if err := GetPreset(name).Validate(); err != nil {
			t.Errorf("preset %s invalid: %v", name, err)
		}
	}
}

func TestEpsilonGuardByDefault(t *testing.T) {
	if got := DefaultConfig().Epsilon; got != dynamo.DefaultEpsilon {
		t.Errorf("default epsilon = %v, want %v", got, dynamo.DefaultEpsilon)
	}
	for _, name := range ListPresets() {
		eps := GetPreset(name).Epsilon
		if name == "faithful" {
			if eps != 0 {
				t.Errorf("faithful preset epsilon = %v, want 0", eps)
			}
			continue
		}
		if eps <= 0 {
			t.Errorf("preset %s leaves coincident pairs unguarded", name)
		}
	}
}
