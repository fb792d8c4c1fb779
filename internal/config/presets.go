package config

import (
	"fmt"
	"sort"
)

func dirichlet(v float64) EdgeConfig { return EdgeConfig{Mode: "dirichlet", Value: v} }
func neumann(v float64) EdgeConfig   { return EdgeConfig{Mode: "neumann", Value: v} }

var Presets = map[string]*Config{
	"hotspot": {
		Name: "hotspot", Rows: 21, Cols: 21, Steps: 2000, SnapshotEvery: 200,
		Boundary: BoundaryConfig{Left: dirichlet(0), Right: dirichlet(0), Top: dirichlet(0), Bottom: dirichlet(0)},
		Regions:  []RegionConfig{{Rows: [2]int{9, 11}, Cols: [2]int{9, 11}, Value: 100}},
	},
	"hot-wall": {
		Name: "hot-wall", Rows: 16, Cols: 24, Steps: 5000, SnapshotEvery: 500,
		Boundary: BoundaryConfig{Left: dirichlet(100), Right: dirichlet(0), Top: neumann(0), Bottom: neumann(0)},
	},
	"insulated": {
		Name: "insulated", Rows: 12, Cols: 12, Steps: 3000, SnapshotEvery: 300,
		Boundary: BoundaryConfig{Left: neumann(0), Right: neumann(0), Top: neumann(0), Bottom: neumann(0)},
		Regions: []RegionConfig{
			{Rows: [2]int{0, 5}, Cols: [2]int{0, 11}, Value: 80},
			{Rows: [2]int{6, 11}, Cols: [2]int{0, 11}, Value: 20},
		},
	},
	"rod": {
		Name: "rod", Rows: 1, Cols: 40, Steps: 4000, SnapshotEvery: 400,
		Boundary: BoundaryConfig{Left: dirichlet(50), Right: dirichlet(-50), Top: dirichlet(0), Bottom: dirichlet(0)},
	},
	"flux": {
		Name: "flux", Rows: 10, Cols: 30, Steps: 3000, SnapshotEvery: 300,
		Boundary: BoundaryConfig{Left: neumann(0.5), Right: neumann(0.5), Top: neumann(0), Bottom: neumann(0)},
		Regions:  []RegionConfig{{Rows: [2]int{0, 9}, Cols: [2]int{0, 29}, Value: 10}},
	},
}

// GetPreset returns a copy of the named preset.
func GetPreset(name string) (*Config, error) {
	cfg, ok := Presets[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s (available: %v)", ErrUnknownPreset, name, ListPresets())
	}
	return cfg.Clone(), nil
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
