package diffusion

import "gonum.org/v1/gonum/blas/blas64"

// position classifies an index along one axis of the grid.
type position int

const (
	interior position = iota
	lowEdge
	highEdge
	degenerate
)

func classify(k, n int) position {
	switch {
	case n == 1:
		return degenerate
	case k == 0:
		return lowEdge
	case k == n-1:
		return highEdge
	}
	return interior
}

// line is a strided view of one row or column of the field.
type line struct {
	data   []float64
	base   int
	stride int
}

func (l line) at(k int) float64 { return l.data[l.base+k*l.stride] }

// axis carries the boundary modes on the low (left/top) and high
// (right/bottom) side of one direction.
type axis struct {
	n         int
	low, high Mode
}

// neighbors returns the stencil values before and after index k along l.
// lowBC and highBC are the boundary values for this row or column.
func (a axis) neighbors(l line, k int, lowBC, highBC float64) (float64, float64) {
	switch classify(k, a.n) {
	case degenerate:
		return lowBC, highBC
	case lowEdge:
		next := l.at(k + 1)
		if a.low == Dirichlet {
			return lowBC, next
		}
		return next - 2*lowBC, next
	case highEdge:
		prev := l.at(k - 1)
		if a.high == Dirichlet {
			return prev, highBC
		}
		return prev, prev + 2*highBC
	}
	return l.at(k - 1), l.at(k + 1)
}

// laplacianRows writes the stencil sum for rows [start, end) into dst,
// reading only src.
func (g *Grid) laplacianRows(src, dst blas64.General, start, end int) {
	x := axis{n: g.cols, low: g.modes[Left], high: g.modes[Right]}
	y := axis{n: g.rows, low: g.modes[Top], high: g.modes[Bottom]}

	for i := start; i < end; i++ {
		row := line{data: src.Data, base: i * src.Stride, stride: 1}
		for j := 0; j < g.cols; j++ {
			col := line{data: src.Data, base: j, stride: src.Stride}
			c := row.at(j)

			left, right := x.neighbors(row, j, g.bc[Left][i], g.bc[Right][i])
			top, bottom := y.neighbors(col, i, g.bc[Top][j], g.bc[Bottom][j])

			xChange := right + left - 2*c
			yChange := bottom + top - 2*c
			dst.Data[i*dst.Stride+j] = xChange + yChange
		}
	}
}

func commitRows(field, delta blas64.General, start, end int) {
	for i := start; i < end; i++ {
		f := field.Data[i*field.Stride : i*field.Stride+field.Cols]
		d := delta.Data[i*delta.Stride : i*delta.Stride+delta.Cols]
		for j := range f {
			f[j] += Rate * d[j]
		}
	}
}
