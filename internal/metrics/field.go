package metrics

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

type TotalMass struct {
	name  string
	total float64
}

func NewTotalMass() *TotalMass { return &TotalMass{name: "total_mass"} }

func (m *TotalMass) Name() string                    { return m.name }
func (m *TotalMass) Observe(_ int, field mat.Matrix) { m.total = mat.Sum(field) }
func (m *TotalMass) Value() float64                  { return m.total }
func (m *TotalMass) Reset()                          { m.total = 0 }

// Peak tracks the largest cell value seen across observations.
type Peak struct {
	name    string
	peak    float64
	samples int
}

func NewPeak() *Peak { return &Peak{name: "peak"} }

func (p *Peak) Name() string { return p.name }

func (p *Peak) Observe(_ int, field mat.Matrix) {
	v := mat.Max(field)
	if p.samples == 0 || v > p.peak {
		p.peak = v
	}
	p.samples++
}

func (p *Peak) Value() float64 { return p.peak }

func (p *Peak) Reset() {
	p.peak = 0
	p.samples = 0
}

// Trough tracks the smallest cell value seen across observations.
type Trough struct {
	name    string
	trough  float64
	samples int
}

func NewTrough() *Trough { return &Trough{name: "trough"} }

func (t *Trough) Name() string { return t.name }

func (t *Trough) Observe(_ int, field mat.Matrix) {
	v := mat.Min(field)
	if t.samples == 0 || v < t.trough {
		t.trough = v
	}
	t.samples++
}

func (t *Trough) Value() float64 { return t.trough }

func (t *Trough) Reset() {
	t.trough = 0
	t.samples = 0
}

// MassDrift reports the largest relative change of the field total from the
// first observation. With zero initial mass it reports the absolute change.
type MassDrift struct {
	name     string
	initial  float64
	maxDrift float64
	samples  int
}

func NewMassDrift() *MassDrift { return &MassDrift{name: "mass_drift"} }

func (d *MassDrift) Name() string { return d.name }

func (d *MassDrift) Observe(_ int, field mat.Matrix) {
	total := mat.Sum(field)
	if d.samples == 0 {
		d.initial = total
	}
	d.samples++

	drift := math.Abs(total - d.initial)
	if d.initial != 0 {
		drift /= math.Abs(d.initial)
	}
	d.maxDrift = math.Max(d.maxDrift, drift)
}

func (d *MassDrift) Value() float64 { return d.maxDrift }

func (d *MassDrift) Reset() {
	d.initial = 0
	d.maxDrift = 0
	d.samples = 0
}

// Stability is the fraction of observations in which every cell is finite
// and within threshold of zero.
type Stability struct {
	name       string
	threshold  float64
	violations int
	samples    int
}

func NewStability(threshold float64) *Stability {
	return &Stability{
		name:      "stability",
		threshold: threshold,
	}
}

func (s *Stability) Name() string {
	return s.name
}

func (s *Stability) Observe(_ int, field mat.Matrix) {
	s.samples++
	if !Bounded(field, s.threshold) {
		s.violations++
	}
}

func (s *Stability) Value() float64 {
	if s.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(s.violations)/float64(s.samples)
}

func (s *Stability) Reset() {
	s.violations = 0
	s.samples = 0
}

// Bounded reports whether every value of field is finite and has magnitude
// at most limit. A non-positive limit only checks finiteness.
func Bounded(field mat.Matrix, limit float64) bool {
	r, c := field.Dims()
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			v := field.At(i, j)
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return false
			}
			if limit > 0 && math.Abs(v) > limit {
				return false
			}
		}
	}
	return true
}
