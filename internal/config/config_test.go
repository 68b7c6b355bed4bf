package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/paulmach/orb"
)

func TestDefaultConfigValid(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("default scenario failed validation: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"degenerate bounds", func(c *Config) { c.Bounds.XMax = c.Bounds.XMin }},
		{"empty goal", func(c *Config) { c.Goal = nil }},
		{"obstacle without corners", func(c *Config) { c.Obstacles["empty"] = nil }},
		{"zero budget", func(c *Config) { c.Budget = 0 }},
		{"negative step dt", func(c *Config) { c.StepDt = -0.05 }},
		{"zero controller dt", func(c *Config) { c.Controller.Dt = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error, got nil")
			}
		})
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scenario.yaml")

	cfg := DefaultConfig()
	cfg.Seed = 42
	cfg.Budget = 2500
	cfg.Controller.Kp = 0.8
	cfg.Controller.ResetBetweenSegments = true

	if err := Save(path, cfg); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if loaded.Seed != 42 || loaded.Budget != 2500 {
		t.Errorf("planner settings did not round-trip: seed %d, budget %d", loaded.Seed, loaded.Budget)
	}
	if loaded.Controller.Kp != 0.8 || !loaded.Controller.ResetBetweenSegments {
		t.Errorf("controller settings did not round-trip: %+v", loaded.Controller)
	}
	if len(loaded.Obstacles) != len(cfg.Obstacles) {
		t.Errorf("expected %d obstacles, got %d", len(cfg.Obstacles), len(loaded.Obstacles))
	}
}

func TestLoadLayersOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	data := "budget: 300\ncontroller:\n  kp: 1.2\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Budget != 300 {
		t.Errorf("budget %d, want 300", cfg.Budget)
	}
	if cfg.Controller.Kp != 1.2 {
		t.Errorf("kp %f, want 1.2", cfg.Controller.Kp)
	}
	// Untouched fields keep the defaults.
	if cfg.StepDt != DefaultStepDt {
		t.Errorf("step dt %f, want default %f", cfg.StepDt, DefaultStepDt)
	}
	if len(cfg.Goal) == 0 {
		t.Error("goal region lost while layering")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestWorkspaceConversion(t *testing.T) {
	cfg := DefaultConfig()
	ws := cfg.Workspace()
	want := orb.Bound{Min: orb.Point{-0.5, -0.4}, Max: orb.Point{1.5, 0.4}}
	if !ws.Min.Equal(want.Min) || !ws.Max.Equal(want.Max) {
		t.Errorf("workspace %+v, want %+v", ws, want)
	}
	if !cfg.StartPoint().Equal(orb.Point{0, 0}) {
		t.Errorf("unexpected start %v", cfg.StartPoint())
	}
	if len(cfg.GoalRegion()) != 4 {
		t.Errorf("expected 4 goal corners, got %d", len(cfg.GoalRegion()))
	}
}

func TestObstacleListSorted(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Obstacles = map[string][]PointConfig{
		"zeta":  {{X: 0, Y: 0}},
		"alpha": {{X: 1, Y: 1}},
		"mid":   {{X: 2, Y: 2}},
	}

	list := cfg.ObstacleList()
	want := []string{"alpha", "mid", "zeta"}
	if len(list) != len(want) {
		t.Fatalf("expected %d obstacles, got %d", len(want), len(list))
	}
	for i, name := range want {
		if list[i].Name != name {
			t.Errorf("obstacle %d: got %q, want %q", i, list[i].Name, name)
		}
	}
}

func TestPresets(t *testing.T) {
	names := ListPresets()
	if len(names) == 0 {
		t.Fatal("expected at least one preset")
	}
	for _, name := range names {
		cfg := GetPreset(name)
		if cfg == nil {
			t.Fatalf("listed preset %q not retrievable", name)
		}
		if err := cfg.Validate(); err != nil {
			t.Errorf("preset %q is invalid: %v", name, err)
		}
	}
	if GetPreset("no-such-preset") != nil {
		t.Error("unknown preset should return nil")
	}
}

func TestPresetsReturnFreshCopies(t *testing.T) {
	first := GetPreset("wall")
	first.Budget = 1
	if second := GetPreset("wall"); second.Budget == 1 {
		t.Error("presets must not share state between calls")
	}
}
