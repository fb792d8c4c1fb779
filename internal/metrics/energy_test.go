package metrics

import (
	"math"
	"testing"

	"github.com/san-kum/heatgrid/internal/diffusion"
	"gonum.org/v1/gonum/mat"
)

func TestGradientEnergy(t *testing.T) {
	tests := []struct {
		name  string
		field *mat.Dense
		want  float64
	}{
		{"uniform", mat.NewDense(3, 3, []float64{2, 2, 2, 2, 2, 2, 2, 2, 2}), 0},
		{"single pair", mat.NewDense(1, 2, []float64{0, 1}), 0.5},
		{"step column", mat.NewDense(2, 2, []float64{0, 2, 0, 2}), 4},
		{"single cell", mat.NewDense(1, 1, []float64{5}), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GradientEnergy(tt.field); math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("expected %f, got %f", tt.want, got)
			}
		})
	}
}

func TestEnergyReset(t *testing.T) {
	m := NewEnergy()

	m.Observe(0, mat.NewDense(1, 2, []float64{1, 3}))
	if m.Value() != 2 {
		t.Errorf("expected energy 2, got %f", m.Value())
	}

	m.Reset()
	if m.Value() != 0 {
		t.Error("expected zero energy after reset")
	}
}

func TestEnergyDecayInsulated(t *testing.T) {
	g, err := diffusion.New(diffusion.Config{
		Rows:  6,
		Cols:  6,
		Modes: [4]diffusion.Mode{diffusion.Neumann, diffusion.Neumann, diffusion.Neumann, diffusion.Neumann},
	})
	if err != nil {
		t.Fatal(err)
	}
	if err := g.SetRegion(diffusion.Range{Start: 2, End: 3}, diffusion.Range{Start: 2, End: 3}, 50); err != nil {
		t.Fatal(err)
	}

	m := NewEnergyDecay()
	m.Observe(0, g)
	if m.Value() != 0 {
		t.Errorf("expected no decay before stepping, got %f", m.Value())
	}

	prev := GradientEnergy(g)
	for step := 1; step <= 5; step++ {
		g.Step(100)
		m.Observe(step*100, g)
		cur := GradientEnergy(g)
		if cur > prev {
			t.Fatalf("energy increased at step %d: %f > %f", step*100, cur, prev)
		}
		prev = cur
	}
	if m.Value() <= 0 || m.Value() >= 1 {
		t.Errorf("expected decay in (0, 1), got %f", m.Value())
	}
}

func TestEnergyDecaySmoothField(t *testing.T) {
	m := NewEnergyDecay()
	m.Observe(0, mat.NewDense(2, 2, nil))
	m.Observe(1, mat.NewDense(2, 2, nil))
	if m.Value() != 0 {
		t.Errorf("expected 0 for smooth field, got %f", m.Value())
	}
}
