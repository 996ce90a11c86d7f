package pipeline

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/nao1215/seoscan/internal/model"
)

// DefaultConcurrency is the number of targets processed at once.
const DefaultConcurrency = 5

// BatchProcessor runs many targets through fresh pipelines concurrently.
type BatchProcessor struct {
	pipelineFactory func() *Pipeline
	concurrency     int
	logger          *slog.Logger
}

// BatchOption configures a BatchProcessor.
type BatchOption func(*BatchProcessor)

// WithBatchLogger sets the logger.
func WithBatchLogger(logger *slog.Logger) BatchOption {
	return func(b *BatchProcessor) {
		b.logger = logger
	}
}

// WithConcurrency sets the worker count. Non-positive values are ignored.
func WithConcurrency(n int) BatchOption {
	return func(b *BatchProcessor) {
		if n > 0 {
			b.concurrency = n
		}
	}
}

// NewBatchProcessor creates a BatchProcessor. pipelineFactory is called once
// per target.
func NewBatchProcessor(pipelineFactory func() *Pipeline, opts ...BatchOption) *BatchProcessor {
	bp := &BatchProcessor{
		pipelineFactory: pipelineFactory,
		concurrency:     DefaultConcurrency,
	}
	for _, opt := range opts {
		opt(bp)
	}
	if bp.logger == nil {
		bp.logger = slog.Default()
	}
	return bp
}

// BatchResult holds the processed targets in input order.
type BatchResult struct {
	Targets []*Target
}

// Reports returns the reports of the successful targets in input order.
func (r *BatchResult) Reports() []*model.Report {
	reports := make([]*model.Report, 0, len(r.Targets))
	for _, t := range r.Targets {
		if t != nil && t.Err == nil && t.Report != nil {
			reports = append(reports, t.Report)
		}
	}
	return reports
}

// Failures returns the failed targets in input order.
func (r *BatchResult) Failures() []model.FailedTarget {
	failures := make([]model.FailedTarget, 0)
	for _, t := range r.Targets {
		if t != nil && (t.Err != nil || t.Report == nil) {
			failures = append(failures, t.Failure())
		}
	}
	return failures
}

// Summary aggregates the batch.
func (r *BatchResult) Summary() *model.SummaryReport {
	return model.NewSummaryReport(r.Reports(), r.Failures())
}

// ProcessBatch fetches and analyzes addresses concurrently.
func (bp *BatchProcessor) ProcessBatch(ctx context.Context, addresses []string) (*BatchResult, error) {
	targets := make([]*Target, len(addresses))
	for i, address := range addresses {
		targets[i] = NewTarget(address)
	}
	return bp.ProcessTargets(ctx, targets)
}

// ProcessTargets runs every target through its own pipeline. A failing
// target does not stop the others; its error stays on the target. The
// returned error is non-nil only when ctx was cancelled.
func (bp *BatchProcessor) ProcessTargets(ctx context.Context, targets []*Target) (*BatchResult, error) {
	return &BatchResult{Targets: targets}, bp.run(ctx, targets, nil)
}

// ProcessTargetsWithCallback is ProcessTargets with a callback invoked from
// the worker goroutine as each target completes.
func (bp *BatchProcessor) ProcessTargetsWithCallback(ctx context.Context, targets []*Target, callback func(target *Target, index int)) error {
	return bp.run(ctx, targets, callback)
}

func (bp *BatchProcessor) run(ctx context.Context, targets []*Target, callback func(*Target, int)) error {
	bp.logger.Info("starting batch", "total", len(targets), "concurrency", bp.concurrency)
	start := time.Now()

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(bp.concurrency)

	for i, target := range targets {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				target.Err = err
				return err
			}

			bp.logger.Debug("processing target", "url", target.Address, "index", i+1, "total", len(targets))
			if err := bp.pipelineFactory().Execute(ctx, target); err != nil {
				bp.logger.Warn("target failed", "url", target.Address, "error", err)
			}
			if callback != nil {
				callback(target, i)
			}
			// Per-target failures stay on the target so the others keep running.
			return nil
		})
	}

	err := g.Wait()
	bp.logger.Info("batch complete", "total", len(targets), "elapsed", time.Since(start))
	return err
}
