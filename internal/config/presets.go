package config

// Presets are named scenarios. "wall" is the reference problem the defaults
// mirror; the others stress different parts of the pipeline.
var Presets = map[string]func() *Config{
	"wall": DefaultConfig,
	"corridor": func() *Config {
		cfg := DefaultConfig()
		cfg.Obstacles = map[string][]PointConfig{}
		cfg.Budget = 200
		return cfg
	},
	"slalom": func() *Config {
		cfg := DefaultConfig()
		cfg.Obstacles = map[string][]PointConfig{
			"wall_low": {
				{X: 0.2, Y: -0.4}, {X: 0.2, Y: 0.05},
				{X: 0.3, Y: 0.05}, {X: 0.3, Y: -0.4},
			},
			"wall_high": {
				{X: 0.6, Y: -0.05}, {X: 0.6, Y: 0.4},
				{X: 0.7, Y: 0.4}, {X: 0.7, Y: -0.05},
			},
		}
		cfg.Margin = 0.05
		cfg.Budget = 5000
		cfg.Index = "rtree"
		return cfg
	},
}

// GetPreset returns a fresh copy of a named preset, or nil when unknown.
func GetPreset(name string) *Config {
	build, ok := Presets[name]
	if !ok {
		return nil
	}
	return build()
}

// ListPresets returns all preset names.
func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	return names
}
