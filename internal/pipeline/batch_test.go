package pipeline

import (
	"context"
	"sync"
	"testing"

	"github.com/nanomedlab/nanomed/internal/model"
)

// newTestBatch builds a slice of distinct valid formulations.
func newTestBatch(t *testing.T, n int) []*model.Nanoparticle {
	t.Helper()

	particles := make([]*model.Nanoparticle, 0, n)
	for i := 0; i < n; i++ {
		np, err := model.NewNanoparticle("batch-formulation", "liposome", float64(50+i*10), "doxorubicin", "lipid")
		if err != nil {
			t.Fatalf("NewNanoparticle: %v", err)
		}
		particles = append(particles, np)
	}
	return particles
}

// estimationFactory builds a pipeline with the pure estimation steps.
func estimationFactory() *Pipeline {
	p := New(WithLogger(quietLogger()), WithContinueOnError(true))
	p.AddSteps(NewSafetyStep(), NewBiodistributionStep(0), NewSummarizeStep())
	return p
}

// TestProcessBatch tests concurrent batch simulation.
func TestProcessBatch(t *testing.T) {
	t.Parallel()

	t.Run("results preserve input order", func(t *testing.T) {
		t.Parallel()

		particles := newTestBatch(t, 5)
		bp := NewBatchProcessor(estimationFactory,
			WithBatchLogger(quietLogger()), WithConcurrency(2))

		reports, err := bp.ProcessBatch(context.Background(), particles, model.TissueTumor, 5.0)
		if err != nil {
			t.Fatalf("ProcessBatch: %v", err)
		}
		if len(reports) != len(particles) {
			t.Fatalf("got %d reports, want %d", len(reports), len(particles))
		}
		for i, report := range reports {
			if report == nil {
				t.Fatalf("report %d is nil", i)
			}
			if report.Nanoparticle.ID != particles[i].ID {
				t.Errorf("report %d is for %s, want %s", i, report.Nanoparticle.ID, particles[i].ID)
			}
			if report.SimpleReport == nil {
				t.Errorf("report %d missing summary", i)
			}
		}
	})

	t.Run("empty batch completes without error", func(t *testing.T) {
		t.Parallel()

		bp := NewBatchProcessor(estimationFactory, WithBatchLogger(quietLogger()))
		reports, err := bp.ProcessBatch(context.Background(), nil, model.TissueTumor, 5.0)
		if err != nil {
			t.Fatalf("ProcessBatch: %v", err)
		}
		if len(reports) != 0 {
			t.Errorf("got %d reports for an empty batch", len(reports))
		}
	})

	t.Run("cancelled context aborts the batch", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		bp := NewBatchProcessor(estimationFactory, WithBatchLogger(quietLogger()))
		_, err := bp.ProcessBatch(ctx, newTestBatch(t, 3), model.TissueTumor, 5.0)
		if err == nil {
			t.Error("expected error for a cancelled batch")
		}
	})
}

// TestProcessBatchWithCallback tests the streaming variant.
func TestProcessBatchWithCallback(t *testing.T) {
	t.Parallel()

	particles := newTestBatch(t, 4)
	bp := NewBatchProcessor(estimationFactory,
		WithBatchLogger(quietLogger()), WithConcurrency(2))

	var mu sync.Mutex
	seen := make(map[int]string)

	err := bp.ProcessBatchWithCallback(context.Background(), particles, model.TissueLiver, 5.0,
		func(report *model.SimulationReport, index int) {
			mu.Lock()
			defer mu.Unlock()
			seen[index] = report.Nanoparticle.ID
		})
	if err != nil {
		t.Fatalf("ProcessBatchWithCallback: %v", err)
	}

	if len(seen) != len(particles) {
		t.Fatalf("callback ran %d times, want %d", len(seen), len(particles))
	}
	for i, np := range particles {
		if seen[i] != np.ID {
			t.Errorf("index %d saw %s, want %s", i, seen[i], np.ID)
		}
	}
}
