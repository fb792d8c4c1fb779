package diffusion_test

import (
	"testing"

	"github.com/san-kum/heatgrid/internal/diffusion"
)

func benchGrid(b *testing.B, size, workers int) *diffusion.Grid {
	b.Helper()
	g, err := diffusion.New(diffusion.Config{
		Rows:    size,
		Cols:    size,
		Modes:   [4]diffusion.Mode{diffusion.Dirichlet, diffusion.Neumann, diffusion.Dirichlet, diffusion.Neumann},
		Workers: workers,
	})
	if err != nil {
		b.Fatal(err)
	}
	mid := size / 2
	if err := g.SetRegion(diffusion.Range{Start: mid - 2, End: mid + 2}, diffusion.Range{Start: mid - 2, End: mid + 2}, 100); err != nil {
		b.Fatal(err)
	}
	return g
}

func BenchmarkStepSmall(b *testing.B) {
	g := benchGrid(b, 10, 1)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		g.Step(1)
	}
}

func BenchmarkStepSerial(b *testing.B) {
	g := benchGrid(b, 256, 1)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		g.Step(1)
	}
}

func BenchmarkStepParallel(b *testing.B) {
	g := benchGrid(b, 256, 8)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		g.Step(1)
	}
}

func BenchmarkDump(b *testing.B) {
	g := benchGrid(b, 64, 1)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		for row := range g.Dump() {
			_ = row
		}
	}
}
