package metrics

import (
	"gonum.org/v1/gonum/mat"
)

// GradientEnergy is half the sum of squared differences between
// horizontally and vertically adjacent cells. Diffusion with insulated or
// constant edges never increases it.
func GradientEnergy(field mat.Matrix) float64 {
	r, c := field.Dims()
	var e float64
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			v := field.At(i, j)
			if j+1 < c {
				d := field.At(i, j+1) - v
				e += d * d
			}
			if i+1 < r {
				d := field.At(i+1, j) - v
				e += d * d
			}
		}
	}
	return 0.5 * e
}

type Energy struct {
	name    string
	current float64
}

func NewEnergy() *Energy { return &Energy{name: "energy"} }

func (e *Energy) Name() string { return e.name }

func (e *Energy) Observe(_ int, field mat.Matrix) {
	e.current = GradientEnergy(field)
}

func (e *Energy) Value() float64 { return e.current }

func (e *Energy) Reset() { e.current = 0 }

// EnergyDecay is the fraction of the initial gradient energy dissipated so
// far. It stays 0 for a field that starts smooth.
type EnergyDecay struct {
	name          string
	initialEnergy float64
	currentEnergy float64
	samples       int
}

func NewEnergyDecay() *EnergyDecay {
	return &EnergyDecay{name: "energy_decay"}
}

func (e *EnergyDecay) Name() string { return e.name }

func (e *EnergyDecay) Observe(_ int, field mat.Matrix) {
	energy := GradientEnergy(field)
	if e.samples == 0 {
		e.initialEnergy = energy
	}
	e.currentEnergy = energy
	e.samples++
}

func (e *EnergyDecay) Value() float64 {
	if e.initialEnergy == 0 {
		return 0
	}
	return 1 - e.currentEnergy/e.initialEnergy
}

func (e *EnergyDecay) Reset() {
	e.initialEnergy = 0
	e.currentEnergy = 0
	e.samples = 0
}
