package viz

import (
	"github.com/guptarohit/asciigraph"
	"gonum.org/v1/gonum/mat"
)

// Profile plots values as an ASCII line graph. It returns "" for an empty
// series.
func Profile(values []float64, caption string, height, width int) string {
	if len(values) == 0 {
		return ""
	}
	opts := []asciigraph.Option{asciigraph.Height(height), asciigraph.Caption(caption)}
	if width > 0 {
		opts = append(opts, asciigraph.Width(width))
	}
	return asciigraph.Plot(values, opts...)
}

// Row copies row i of m.
func Row(m mat.Matrix, i int) []float64 {
	_, c := m.Dims()
	out := make([]float64, c)
	for j := range out {
		out[j] = m.At(i, j)
	}
	return out
}

// Col copies column j of m.
func Col(m mat.Matrix, j int) []float64 {
	r, _ := m.Dims()
	out := make([]float64, r)
	for i := range out {
		out[i] = m.At(i, j)
	}
	return out
}
