package config

import (
	"fmt"
	"os"
	"sort"

	"github.com/paulmach/orb"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/kinoplan/internal/geom"
)

const (
	DefaultBudget         = 1000
	DefaultStepDt         = 0.05
	DefaultControlDt      = 0.01
	DefaultMargin         = geom.DefaultMargin
	DefaultSegmentSamples = geom.DefaultSegmentSamples
	DefaultSmoothAttempts = 50
	DefaultKp             = 0.45
	DefaultKi             = 0.0
	DefaultKd             = 0.5
)

// Config is a full planning-and-following scenario.
type Config struct {
	Bounds     BoundsConfig             `yaml:"bounds"`
	Start      PointConfig              `yaml:"start"`
	Goal       []PointConfig            `yaml:"goal"`
	Obstacles  map[string][]PointConfig `yaml:"obstacles"`
	Margin     float64                  `yaml:"margin"`
	Budget     int                      `yaml:"budget"`
	StepDt     float64                  `yaml:"step_dt"`
	Seed       int64                    `yaml:"seed"`
	Index      string                   `yaml:"index"`
	Smoothing  SmoothingConfig          `yaml:"smoothing"`
	Controller ControllerConfig         `yaml:"controller"`
}

type BoundsConfig struct {
	XMin float64 `yaml:"x_min"`
	XMax float64 `yaml:"x_max"`
	YMin float64 `yaml:"y_min"`
	YMax float64 `yaml:"y_max"`
}

type PointConfig struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

type SmoothingConfig struct {
	Attempts int `yaml:"attempts"`
	Samples  int `yaml:"samples"`
}

type ControllerConfig struct {
	Kp                   float64 `yaml:"kp"`
	Ki                   float64 `yaml:"ki"`
	Kd                   float64 `yaml:"kd"`
	Dt                   float64 `yaml:"dt"`
	Arrival              float64 `yaml:"arrival"`
	Cruise               float64 `yaml:"cruise"`
	Floor                float64 `yaml:"floor"`
	Slowdown             float64 `yaml:"slowdown"`
	ResetBetweenSegments bool    `yaml:"reset_between_segments"`
}

// DefaultConfig returns the reference scenario: one wall between the start
// and a goal box at the right edge of the workspace.
func DefaultConfig() *Config {
	return &Config{
		Bounds: BoundsConfig{XMin: -0.5, XMax: 1.5, YMin: -0.4, YMax: 0.4},
		Start:  PointConfig{X: 0, Y: 0},
		Goal: []PointConfig{
			{X: 0.9, Y: -0.3}, {X: 0.9, Y: 0.3},
			{X: 1.1, Y: 0.3}, {X: 1.1, Y: -0.3},
		},
		Obstacles: map[string][]PointConfig{
			"wall_3": {
				{X: 0.5, Y: -0.15}, {X: 0.5, Y: 0.15},
				{X: 0.6, Y: 0.15}, {X: 0.6, Y: -0.15},
			},
		},
		Margin: DefaultMargin,
		Budget: DefaultBudget,
		StepDt: DefaultStepDt,
		Index:  "linear",
		Smoothing: SmoothingConfig{
			Attempts: DefaultSmoothAttempts,
			Samples:  DefaultSegmentSamples,
		},
		Controller: ControllerConfig{
			Kp:       DefaultKp,
			Ki:       DefaultKi,
			Kd:       DefaultKd,
			Dt:       DefaultControlDt,
			Arrival:  0.05,
			Cruise:   10.0,
			Floor:    1.0,
			Slowdown: 1.0,
		},
	}
}

// Load reads a YAML scenario over the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the scenario as YAML.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate fails fast on scenarios no run could recover from.
func (c *Config) Validate() error {
	if c.Bounds.XMin >= c.Bounds.XMax || c.Bounds.YMin >= c.Bounds.YMax {
		return fmt.Errorf("config: degenerate workspace bounds %+v", c.Bounds)
	}
	if len(c.Goal) == 0 {
		return fmt.Errorf("config: goal region has no corner points")
	}
	for name, corners := range c.Obstacles {
		if len(corners) == 0 {
			return fmt.Errorf("config: obstacle %q has no corner points", name)
		}
	}
	if c.Budget <= 0 {
		return fmt.Errorf("config: budget must be positive, got %d", c.Budget)
	}
	if c.StepDt <= 0 {
		return fmt.Errorf("config: step_dt must be positive, got %f", c.StepDt)
	}
	if c.Controller.Dt <= 0 {
		return fmt.Errorf("config: controller dt must be positive, got %f", c.Controller.Dt)
	}
	return nil
}

// Workspace returns the scenario bounds as a geometry bound.
func (c *Config) Workspace() orb.Bound {
	return orb.Bound{
		Min: orb.Point{c.Bounds.XMin, c.Bounds.YMin},
		Max: orb.Point{c.Bounds.XMax, c.Bounds.YMax},
	}
}

// StartPoint returns the start position.
func (c *Config) StartPoint() orb.Point {
	return orb.Point{c.Start.X, c.Start.Y}
}

// GoalRegion returns the goal corner set.
func (c *Config) GoalRegion() orb.MultiPoint {
	return toMultiPoint(c.Goal)
}

// ObstacleList returns obstacles sorted by name, so output listing them is
// stable across runs.
func (c *Config) ObstacleList() []geom.Obstacle {
	names := make([]string, 0, len(c.Obstacles))
	for name := range c.Obstacles {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]geom.Obstacle, 0, len(names))
	for _, name := range names {
		out = append(out, geom.Obstacle{Name: name, Corners: toMultiPoint(c.Obstacles[name])})
	}
	return out
}

func toMultiPoint(pts []PointConfig) orb.MultiPoint {
	mp := make(orb.MultiPoint, len(pts))
	for i, p := range pts {
		mp[i] = orb.Point{p.X, p.Y}
	}
	return mp
}
