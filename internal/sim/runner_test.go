package sim

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/san-kum/heatgrid/internal/diffusion"
	"github.com/san-kum/heatgrid/internal/metrics"
	"gonum.org/v1/gonum/mat"
)

func hotGrid(t *testing.T) *diffusion.Grid {
	t.Helper()
	g, err := diffusion.New(diffusion.Config{Rows: 5, Cols: 5})
	if err != nil {
		t.Fatalf("new grid: %v", err)
	}
	if err := g.SetRegion(diffusion.Range{Start: 2, End: 2}, diffusion.Range{Start: 2, End: 2}, 8); err != nil {
		t.Fatalf("set region: %v", err)
	}
	return g
}

// blowup is a field that turns non-finite after a fixed number of steps.
type blowup struct {
	*mat.Dense
	steps, after int
}

func (b *blowup) Step(n int) {
	b.steps += n
	if b.steps >= b.after {
		b.Set(0, 0, math.Inf(1))
	}
}

func TestRunnerRun(t *testing.T) {
	g := hotGrid(t)
	r := New(g)
	r.AddMetric(metrics.NewTotalMass())
	r.AddMetric(metrics.NewPeak())

	calls := 0
	r.AddObserver(ObserverFunc(func(step int, field mat.Matrix) { calls++ }))

	result, err := r.Run(context.Background(), Config{Steps: 10, SnapshotEvery: 4})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if result.StepsTaken != 10 {
		t.Errorf("expected 10 steps, got %d", result.StepsTaken)
	}
	if calls != 11 {
		t.Errorf("expected 11 observer calls, got %d", calls)
	}
	if len(result.Trace.Mass) != 11 || len(result.Trace.Steps) != 11 {
		t.Errorf("expected 11 trace samples, got %d", len(result.Trace.Mass))
	}

	wantSteps := []int{0, 4, 8, 10}
	if len(result.Snapshots) != len(wantSteps) {
		t.Fatalf("expected %d snapshots, got %d", len(wantSteps), len(result.Snapshots))
	}
	for i, s := range result.Snapshots {
		if s.Step != wantSteps[i] {
			t.Errorf("snapshot %d: expected step %d, got %d", i, wantSteps[i], s.Step)
		}
	}

	if result.Snapshots[0].Field.At(2, 2) != 8 {
		t.Errorf("initial snapshot changed: %f", result.Snapshots[0].Field.At(2, 2))
	}
	if !mat.Equal(result.Final(), g) {
		t.Error("final snapshot does not match grid")
	}

	if result.Metrics["peak"] != 8 {
		t.Errorf("expected peak 8, got %f", result.Metrics["peak"])
	}
	if math.Abs(result.Metrics["total_mass"]-mat.Sum(g)) > 1e-12 {
		t.Errorf("expected total mass %f, got %f", mat.Sum(g), result.Metrics["total_mass"])
	}
}

func TestRunnerZeroSteps(t *testing.T) {
	result, err := New(hotGrid(t)).Run(context.Background(), Config{})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if len(result.Snapshots) != 1 || result.StepsTaken != 0 {
		t.Errorf("expected single initial snapshot, got %d snapshots after %d steps", len(result.Snapshots), result.StepsTaken)
	}
}

func TestRunnerInvalidConfig(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"negative steps", Config{Steps: -1}},
		{"negative snapshot", Config{Steps: 1, SnapshotEvery: -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(hotGrid(t)).Run(context.Background(), tt.cfg)
			if !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestRunnerCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	r := New(hotGrid(t))
	r.AddObserver(ObserverFunc(func(step int, _ mat.Matrix) {
		if step == 3 {
			cancel()
		}
	}))

	result, err := r.Run(ctx, Config{Steps: 100, SnapshotEvery: 50})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if result.StepsTaken != 3 {
		t.Errorf("expected 3 steps before cancel, got %d", result.StepsTaken)
	}
	if last := result.Snapshots[len(result.Snapshots)-1]; last.Step != 3 {
		t.Errorf("expected final snapshot at step 3, got %d", last.Step)
	}
}

func TestRunnerCheckField(t *testing.T) {
	f := &blowup{Dense: mat.NewDense(2, 2, nil), after: 4}

	result, err := New(f).Run(context.Background(), Config{Steps: 10, CheckField: true})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if result.StepsTaken != 4 {
		t.Errorf("expected run to stop at step 4, got %d", result.StepsTaken)
	}
	if len(result.Errors) != 1 {
		t.Fatalf("expected 1 error, got %d", len(result.Errors))
	}
	var simErr SimError
	if !errors.As(result.Errors[0], &simErr) || simErr.Step != 4 {
		t.Errorf("expected SimError at step 4, got %v", result.Errors[0])
	}
}

func TestRunBatch(t *testing.T) {
	jobs := []Job{
		{Name: "ok", Runner: New(hotGrid(t)), Config: Config{Steps: 5}},
		{Name: "bad", Runner: New(hotGrid(t)), Config: Config{Steps: -1}},
		{Name: "longer", Runner: New(hotGrid(t)), Config: Config{Steps: 20}},
	}

	results := RunBatch(context.Background(), jobs)

	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	for i, res := range results {
		if res.Name != jobs[i].Name {
			t.Errorf("result %d: expected %s, got %s", i, jobs[i].Name, res.Name)
		}
	}
	if results[0].Err != nil || results[0].Result.StepsTaken != 5 {
		t.Errorf("ok job: %+v", results[0])
	}
	if !errors.Is(results[1].Err, ErrInvalidConfig) {
		t.Errorf("bad job: expected ErrInvalidConfig, got %v", results[1].Err)
	}
	if results[2].Err != nil || results[2].Result.StepsTaken != 20 {
		t.Errorf("longer job: %+v", results[2])
	}
}
