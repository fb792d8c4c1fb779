package diffusion

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

const (
	DefaultRows = 10
	DefaultCols = 10

	// Rate is Δt·D for unit grid spacing.
	Rate = 0.0001
)

// Config describes a grid at construction time. Zero values select the
// defaults: a 10x10 grid, Dirichlet edges and all-zero boundary values.
type Config struct {
	Rows int
	Cols int

	// Modes holds the condition for each edge, indexed by Edge.
	Modes [4]Mode

	// Left and Right hold one value per row, Top and Bottom one per column.
	Left   []float64
	Right  []float64
	Top    []float64
	Bottom []float64

	// Workers > 1 splits each iteration's rows across goroutines.
	Workers int
}

// Range is an inclusive index range.
type Range struct {
	Start, End int
}

// Grid owns a rows x cols scalar field and its boundary configuration.
type Grid struct {
	rows, cols int
	modes      [4]Mode
	bc         [4][]float64
	field      *mat.Dense
	workers    int
}

func New(cfg Config) (*Grid, error) {
	rows, cols := cfg.Rows, cfg.Cols
	if rows < 0 || cols < 0 {
		return nil, fmt.Errorf("%w: grid size %dx%d", ErrConfiguration, rows, cols)
	}
	if rows == 0 {
		rows = DefaultRows
	}
	if cols == 0 {
		cols = DefaultCols
	}
	if cfg.Workers < 0 {
		return nil, fmt.Errorf("%w: workers must be non-negative, got %d", ErrConfiguration, cfg.Workers)
	}

	g := &Grid{
		rows:    rows,
		cols:    cols,
		modes:   cfg.Modes,
		field:   mat.NewDense(rows, cols, nil),
		workers: cfg.Workers,
	}
	for _, e := range Edges {
		if !g.modes[e].Valid() {
			return nil, fmt.Errorf("%w: %s edge has unknown mode %d", ErrConfiguration, e, int(g.modes[e]))
		}
	}

	values := [4][]float64{cfg.Left, cfg.Right, cfg.Top, cfg.Bottom}
	for _, e := range Edges {
		want := g.edgeLen(e)
		v := values[e]
		if len(v) == 0 {
			g.bc[e] = make([]float64, want)
			continue
		}
		if len(v) != want {
			return nil, fmt.Errorf("%w: %s boundary has %d values, want %d", ErrConfiguration, e, len(v), want)
		}
		g.bc[e] = append([]float64(nil), v...)
	}

	return g, nil
}

func (g *Grid) edgeLen(e Edge) int {
	if e == Left || e == Right {
		return g.rows
	}
	return g.cols
}

func (g *Grid) Rows() int { return g.rows }
func (g *Grid) Cols() int { return g.cols }

// Dims, At and T make the grid usable wherever gonum expects a mat.Matrix.
func (g *Grid) Dims() (int, int)    { return g.rows, g.cols }
func (g *Grid) At(i, j int) float64 { return g.field.At(i, j) }
func (g *Grid) T() mat.Matrix       { return mat.Transpose{Matrix: g} }
func (g *Grid) Mode(e Edge) Mode    { return g.modes[e] }
func (g *Grid) Workers() int        { return g.workers }
func (g *Grid) SetWorkers(n int)    { g.workers = max(n, 0) }
func (g *Grid) Field() *mat.Dense   { return mat.DenseCopyOf(g.field) }

func (g *Grid) BoundaryValues(e Edge) []float64 {
	return append([]float64(nil), g.bc[e]...)
}

// SetRegion overwrites every cell in rows x cols with value. Both ranges are
// checked before anything is written; an empty range paints nothing.
func (g *Grid) SetRegion(rows, cols Range, value float64) error {
	if err := checkRange("row", rows, g.rows); err != nil {
		return err
	}
	if err := checkRange("column", cols, g.cols); err != nil {
		return err
	}
	for i := rows.Start; i <= rows.End; i++ {
		for j := cols.Start; j <= cols.End; j++ {
			g.field.Set(i, j, value)
		}
	}
	return nil
}

func checkRange(axis string, r Range, n int) error {
	if r.Start < 0 || r.Start >= n || r.End < 0 || r.End >= n {
		return fmt.Errorf("%w: %s range [%d, %d] outside [0, %d]", ErrIndexOutOfRange, axis, r.Start, r.End, n-1)
	}
	return nil
}

// Step advances the field by n explicit iterations. n <= 0 is a no-op.
func (g *Grid) Step(n int) {
	if n <= 0 {
		return
	}
	delta := mat.NewDense(g.rows, g.cols, nil)
	for s := 0; s < n; s++ {
		if s > 0 {
			delta.Zero()
		}
		g.iterate(delta)
	}
}

func (g *Grid) iterate(delta *mat.Dense) {
	src := g.field.RawMatrix()
	dst := delta.RawMatrix()

	parallelFor(g.rows, g.workers, func(start, end int) {
		g.laplacianRows(src, dst, start, end)
	})
	parallelFor(g.rows, g.workers, func(start, end int) {
		commitRows(src, dst, start, end)
	})
}
