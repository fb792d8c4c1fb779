package sim

import (
	"context"
	"fmt"

	"github.com/san-kum/heatgrid/internal/metrics"
	"gonum.org/v1/gonum/mat"
)

type Runner struct {
	field     Field
	metrics   []Metric
	observers []Observer
}

func New(field Field) *Runner {
	return &Runner{
		field:     field,
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
	}
}

func (r *Runner) AddMetric(m Metric)     { r.metrics = append(r.metrics, m) }
func (r *Runner) AddObserver(o Observer) { r.observers = append(r.observers, o) }

// Run steps the field cfg.Steps times, one iteration at a time. A cancelled
// context stops the run between iterations and returns the partial result
// together with ctx.Err().
func (r *Runner) Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	result := &Result{
		Snapshots: make([]Snapshot, 0, 2),
		Metrics:   make(map[string]float64),
		Errors:    make([]error, 0),
	}

	for _, m := range r.metrics {
		m.Reset()
	}

	r.observe(0, result)
	result.Snapshots = append(result.Snapshots, r.snapshot(0))

	for step := 1; step <= cfg.Steps; step++ {
		select {
		case <-ctx.Done():
			r.finish(result)
			return result, ctx.Err()
		default:
		}

		r.field.Step(1)
		result.StepsTaken = step
		r.observe(step, result)

		if cfg.CheckField && !metrics.Bounded(r.field, 0) {
			result.Errors = append(result.Errors, SimError{Step: step, Message: "non-finite value in field"})
			break
		}

		if cfg.SnapshotEvery > 0 && step%cfg.SnapshotEvery == 0 {
			result.Snapshots = append(result.Snapshots, r.snapshot(step))
		}
	}

	r.finish(result)
	return result, nil
}

func validateConfig(cfg Config) error {
	if cfg.Steps < 0 {
		return fmt.Errorf("%w: steps must be non-negative, got %d", ErrInvalidConfig, cfg.Steps)
	}
	if cfg.SnapshotEvery < 0 {
		return fmt.Errorf("%w: snapshot interval must be non-negative, got %d", ErrInvalidConfig, cfg.SnapshotEvery)
	}
	return nil
}

func (r *Runner) observe(step int, result *Result) {
	for _, m := range r.metrics {
		m.Observe(step, r.field)
	}
	for _, o := range r.observers {
		o.OnStep(step, r.field)
	}
	result.Trace.Steps = append(result.Trace.Steps, step)
	result.Trace.Mass = append(result.Trace.Mass, mat.Sum(r.field))
	result.Trace.Peak = append(result.Trace.Peak, mat.Max(r.field))
}

func (r *Runner) snapshot(step int) Snapshot {
	return Snapshot{Step: step, Field: mat.DenseCopyOf(r.field)}
}

// finish records the final field unless the last snapshot already holds it.
func (r *Runner) finish(result *Result) {
	if last := result.Snapshots[len(result.Snapshots)-1]; last.Step != result.StepsTaken {
		result.Snapshots = append(result.Snapshots, r.snapshot(result.StepsTaken))
	}
	for _, m := range r.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
}
