package pipeline

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/nanomedlab/nanomed/internal/model"
	"golang.org/x/sync/errgroup"
)

// BatchProcessor handles concurrent simulation of multiple formulations.
// It uses errgroup to manage goroutines and respect concurrency limits.
//
// Design decision: We use a separate BatchProcessor rather than adding batch
// functionality to Pipeline because:
// 1. It keeps the Pipeline focused on single-simulation execution
// 2. It allows different batch strategies (e.g., rate limiting, retries)
// 3. It provides cleaner separation of concerns
type BatchProcessor struct {
	// pipelineFactory creates a new pipeline for each simulation.
	// We use a factory to ensure each run gets a fresh pipeline instance.
	pipelineFactory func() *Pipeline

	// concurrency is the maximum number of concurrent simulations.
	concurrency int

	// logger is used for batch-level logging.
	logger *slog.Logger

	// results stores completed reports.
	// Access is synchronized via mutex.
	results []*model.SimulationReport
	mu      sync.Mutex
}

// BatchOption configures a BatchProcessor.
type BatchOption func(*BatchProcessor)

// WithBatchLogger sets a custom logger for batch processing.
func WithBatchLogger(logger *slog.Logger) BatchOption {
	return func(b *BatchProcessor) {
		b.logger = logger
	}
}

// WithConcurrency sets the maximum number of concurrent simulations.
// Default is 10 if not specified.
func WithConcurrency(n int) BatchOption {
	return func(b *BatchProcessor) {
		if n > 0 {
			b.concurrency = n
		}
	}
}

// NewBatchProcessor creates a new BatchProcessor.
//
// The pipelineFactory function is called for each simulation to create a
// fresh pipeline instance. This ensures that pipeline state doesn't leak
// between runs and allows for per-run customization if needed.
func NewBatchProcessor(pipelineFactory func() *Pipeline, opts ...BatchOption) *BatchProcessor {
	bp := &BatchProcessor{
		pipelineFactory: pipelineFactory,
		concurrency:     10,
		results:         make([]*model.SimulationReport, 0),
	}

	for _, opt := range opts {
		opt(bp)
	}

	if bp.logger == nil {
		bp.logger = slog.Default()
	}

	return bp
}

// ProcessBatch simulates multiple formulations concurrently against the
// same target tissue and dose. It respects the configured concurrency
// limit and context cancellation.
//
// Design decision: We use errgroup.SetLimit rather than a worker pool
// because it's simpler and errgroup handles the concurrency correctly.
// Each formulation gets its own goroutine, but only 'concurrency'
// goroutines run simultaneously.
//
// Returns all reports collected, even for formulations that failed.
// The error return indicates if the batch was cancelled.
func (bp *BatchProcessor) ProcessBatch(ctx context.Context, particles []*model.Nanoparticle, target model.Tissue, doseMg float64) ([]*model.SimulationReport, error) {
	bp.logger.Info("starting batch simulation",
		"total_formulations", len(particles),
		"target_tissue", string(target),
		"concurrency", bp.concurrency,
	)

	startTime := time.Now()

	// Pre-allocate results slice to maintain order
	bp.results = make([]*model.SimulationReport, len(particles))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(bp.concurrency)

	for i, np := range particles {
		g.Go(func() error {
			// Check for cancellation before starting
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			bp.logger.Info("simulating formulation",
				"nanoparticle_id", np.ID,
				"index", i+1,
				"total", len(particles),
			)

			// Create report for this formulation
			report := model.NewSimulationReport(np, target, doseMg)

			// Create and execute pipeline
			pipeline := bp.pipelineFactory()
			err := pipeline.Execute(ctx, report)

			// Store result regardless of error
			// The report contains error information if the run failed
			bp.mu.Lock()
			bp.results[i] = report
			bp.mu.Unlock()

			if err != nil {
				bp.logger.Warn("simulation failed",
					"nanoparticle_id", np.ID,
					"error", err,
				)
				// Don't return error to errgroup - we want to continue the
				// other formulations. The error is recorded in the report.
				return nil
			}

			bp.logger.Info("simulation completed",
				"nanoparticle_id", np.ID,
			)

			return nil
		})
	}

	// Wait for all simulations to complete
	err := g.Wait()

	elapsed := time.Since(startTime)
	bp.logger.Info("batch simulation complete",
		"total_formulations", len(particles),
		"elapsed", elapsed,
	)

	return bp.results, err
}

// ProcessBatchWithCallback simulates multiple formulations and calls a
// callback for each completed run. This is useful for streaming results.
//
// The callback receives the report and the index of the formulation in the
// original slice. The callback is called from the goroutine that completed
// the run, so it should be thread-safe if it accesses shared state.
func (bp *BatchProcessor) ProcessBatchWithCallback(
	ctx context.Context,
	particles []*model.Nanoparticle,
	target model.Tissue,
	doseMg float64,
	callback func(report *model.SimulationReport, index int),
) error {
	bp.logger.Info("starting batch simulation with callback",
		"total_formulations", len(particles),
		"target_tissue", string(target),
		"concurrency", bp.concurrency,
	)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(bp.concurrency)

	for i, np := range particles {
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			report := model.NewSimulationReport(np, target, doseMg)
			pipeline := bp.pipelineFactory()
			_ = pipeline.Execute(ctx, report) //nolint:errcheck // Error is stored in report

			// Call the callback with the result
			callback(report, i)

			return nil
		})
	}

	return g.Wait()
}
