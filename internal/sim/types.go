package sim

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
)

var ErrInvalidConfig = errors.New("sim: invalid run configuration")

// Field is a steppable scalar field, such as *diffusion.Grid.
type Field interface {
	mat.Matrix
	Step(n int)
}

type Metric interface {
	Name() string
	Observe(step int, field mat.Matrix)
	Value() float64
	Reset()
}

type Observer interface {
	OnStep(step int, field mat.Matrix)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(step int, field mat.Matrix)

func (f ObserverFunc) OnStep(step int, field mat.Matrix) { f(step, field) }

type Config struct {
	Steps int
	// SnapshotEvery copies the field every n steps; 0 keeps only the initial
	// and final fields.
	SnapshotEvery int
	// CheckField stops the run at the first non-finite value.
	CheckField bool
}

type Snapshot struct {
	Step  int
	Field *mat.Dense
}

// Trace holds one sample per observed step, starting with step 0.
type Trace struct {
	Steps []int
	Mass  []float64
	Peak  []float64
}

type Result struct {
	Snapshots  []Snapshot
	Trace      Trace
	Metrics    map[string]float64
	StepsTaken int
	Errors     []error
}

// Final returns the last snapshot's field, or nil if there is none.
func (r *Result) Final() *mat.Dense {
	if len(r.Snapshots) == 0 {
		return nil
	}
	return r.Snapshots[len(r.Snapshots)-1].Field
}

type SimError struct {
	Step    int
	Message string
}

func (e SimError) Error() string {
	return fmt.Sprintf("step %d: %s", e.Step, e.Message)
}
