package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/san-kum/heatgrid/internal/diffusion"
	"gopkg.in/yaml.v3"
)

const (
	DefaultRows          = diffusion.DefaultRows
	DefaultCols          = diffusion.DefaultCols
	DefaultSteps         = 1000
	DefaultSnapshotEvery = 100
)

var (
	ErrInvalidConfig = errors.New("config: invalid configuration")
	ErrUnknownPreset = errors.New("config: unknown preset")
)

type Config struct {
	Name          string         `yaml:"name,omitempty"`
	Rows          int            `yaml:"rows"`
	Cols          int            `yaml:"cols"`
	Steps         int            `yaml:"steps"`
	SnapshotEvery int            `yaml:"snapshot_every"`
	Workers       int            `yaml:"workers"`
	CheckField    bool           `yaml:"check_field"`
	Boundary      BoundaryConfig `yaml:"boundary"`
	Regions       []RegionConfig `yaml:"regions,omitempty"`
}

type BoundaryConfig struct {
	Left   EdgeConfig `yaml:"left"`
	Right  EdgeConfig `yaml:"right"`
	Top    EdgeConfig `yaml:"top"`
	Bottom EdgeConfig `yaml:"bottom"`
}

// EdgeConfig sets one edge. Values, when present, must have one entry per
// row (left/right) or column (top/bottom); otherwise Value is used for the
// whole edge.
type EdgeConfig struct {
	Mode   string    `yaml:"mode"`
	Value  float64   `yaml:"value,omitempty"`
	Values []float64 `yaml:"values,omitempty"`
}

// RegionConfig paints an inclusive [start, end] block of rows and columns.
type RegionConfig struct {
	Rows  [2]int  `yaml:"rows,flow"`
	Cols  [2]int  `yaml:"cols,flow"`
	Value float64 `yaml:"value"`
}

// Region is a validated RegionConfig.
type Region struct {
	Rows, Cols diffusion.Range
	Value      float64
}

func DefaultConfig() *Config {
	return &Config{
		Name:          "custom",
		Rows:          DefaultRows,
		Cols:          DefaultCols,
		Steps:         DefaultSteps,
		SnapshotEvery: DefaultSnapshotEvery,
		Boundary: BoundaryConfig{
			Left:   EdgeConfig{Mode: "dirichlet"},
			Right:  EdgeConfig{Mode: "dirichlet"},
			Top:    EdgeConfig{Mode: "dirichlet"},
			Bottom: EdgeConfig{Mode: "dirichlet"},
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse overlays YAML onto the defaults and validates the result.
func Parse(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	if c.Steps < 0 {
		return fmt.Errorf("%w: steps must be non-negative, got %d", ErrInvalidConfig, c.Steps)
	}
	if c.SnapshotEvery < 0 {
		return fmt.Errorf("%w: snapshot_every must be non-negative, got %d", ErrInvalidConfig, c.SnapshotEvery)
	}
	if _, err := c.GridConfig(); err != nil {
		return err
	}
	if _, err := c.RegionList(); err != nil {
		return err
	}
	return nil
}

func (c *Config) edges() [4]EdgeConfig {
	b := c.Boundary
	return [4]EdgeConfig{b.Left, b.Right, b.Top, b.Bottom}
}

// GridConfig converts the YAML view into a diffusion.Config.
func (c *Config) GridConfig() (diffusion.Config, error) {
	rows, cols := c.Rows, c.Cols
	if rows < 0 || cols < 0 {
		return diffusion.Config{}, fmt.Errorf("%w: grid size %dx%d", ErrInvalidConfig, rows, cols)
	}
	if rows == 0 {
		rows = DefaultRows
	}
	if cols == 0 {
		cols = DefaultCols
	}

	gc := diffusion.Config{Rows: rows, Cols: cols, Workers: c.Workers}
	edges := c.edges()
	var values [4][]float64
	for _, e := range diffusion.Edges {
		ec := edges[e]
		mode, err := diffusion.ParseMode(ec.Mode)
		if err != nil {
			return diffusion.Config{}, fmt.Errorf("%w: %s edge: %v", ErrInvalidConfig, e, err)
		}
		gc.Modes[e] = mode

		n := cols
		if e == diffusion.Left || e == diffusion.Right {
			n = rows
		}
		switch {
		case len(ec.Values) > 0:
			if len(ec.Values) != n {
				return diffusion.Config{}, fmt.Errorf("%w: %s edge has %d values, want %d", ErrInvalidConfig, e, len(ec.Values), n)
			}
			values[e] = append([]float64(nil), ec.Values...)
		case ec.Value != 0:
			values[e] = make([]float64, n)
			for i := range values[e] {
				values[e][i] = ec.Value
			}
		}
	}
	gc.Left, gc.Right, gc.Top, gc.Bottom = values[0], values[1], values[2], values[3]
	return gc, nil
}

// RegionList checks region ranges against the grid size.
func (c *Config) RegionList() ([]Region, error) {
	gc, err := c.GridConfig()
	if err != nil {
		return nil, err
	}
	regions := make([]Region, 0, len(c.Regions))
	for i, r := range c.Regions {
		if !within(r.Rows, gc.Rows) || !within(r.Cols, gc.Cols) {
			return nil, fmt.Errorf("%w: region %d rows %v cols %v outside %dx%d grid", ErrInvalidConfig, i, r.Rows, r.Cols, gc.Rows, gc.Cols)
		}
		regions = append(regions, Region{
			Rows:  diffusion.Range{Start: r.Rows[0], End: r.Rows[1]},
			Cols:  diffusion.Range{Start: r.Cols[0], End: r.Cols[1]},
			Value: r.Value,
		})
	}
	return regions, nil
}

func within(r [2]int, n int) bool {
	return r[0] >= 0 && r[0] < n && r[1] >= 0 && r[1] < n
}

// Build constructs the grid and paints every region.
func (c *Config) Build() (*diffusion.Grid, error) {
	gc, err := c.GridConfig()
	if err != nil {
		return nil, err
	}
	regions, err := c.RegionList()
	if err != nil {
		return nil, err
	}
	g, err := diffusion.New(gc)
	if err != nil {
		return nil, err
	}
	for _, r := range regions {
		if err := g.SetRegion(r.Rows, r.Cols, r.Value); err != nil {
			return nil, err
		}
	}
	return g, nil
}

// Clone returns a deep copy so presets are never mutated by callers.
func (c *Config) Clone() *Config {
	out := *c
	out.Regions = append([]RegionConfig(nil), c.Regions...)
	out.Boundary.Left.Values = append([]float64(nil), c.Boundary.Left.Values...)
	out.Boundary.Right.Values = append([]float64(nil), c.Boundary.Right.Values...)
	out.Boundary.Top.Values = append([]float64(nil), c.Boundary.Top.Values...)
	out.Boundary.Bottom.Values = append([]float64(nil), c.Boundary.Bottom.Values...)
	return &out
}
