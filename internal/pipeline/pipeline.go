package pipeline

import (
	"context"
	"log/slog"
)

// Step is one stage of the pipeline.
type Step interface {
	// Do runs the step against target. An error stops the pipeline unless
	// it was built with WithContinueOnError.
	Do(ctx context.Context, target *Target) error

	// Name returns the step's name for logging.
	Name() string
}

// Pipeline runs its steps in order.
type Pipeline struct {
	steps           []Step
	logger          *slog.Logger
	continueOnError bool
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// WithContinueOnError keeps running later steps after one fails.
func WithContinueOnError(continueOnError bool) Option {
	return func(p *Pipeline) {
		p.continueOnError = continueOnError
	}
}

// New creates an empty Pipeline.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{steps: make([]Step, 0)}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = slog.Default()
	}
	return p
}

// AddStep appends a step.
func (p *Pipeline) AddStep(step Step) {
	p.steps = append(p.steps, step)
}

// AddSteps appends several steps.
func (p *Pipeline) AddSteps(steps ...Step) {
	p.steps = append(p.steps, steps...)
}

// Execute runs the steps against target. The first step error is stored in
// target.Err; it is returned unless the pipeline continues on error.
// Cancellation is checked before every step and always stops the run.
func (p *Pipeline) Execute(ctx context.Context, target *Target) error {
	for _, step := range p.steps {
		if err := ctx.Err(); err != nil {
			p.logger.Warn("pipeline cancelled", "step", step.Name(), "reason", err)
			target.Err = err
			return err
		}

		p.logger.Debug("executing step", "step", step.Name(), "url", target.Address)

		if err := step.Do(ctx, target); err != nil {
			p.logger.Warn("step failed", "step", step.Name(), "url", target.Address, "error", err)
			if target.Err == nil {
				target.Err = err
			}
			if !p.continueOnError {
				return err
			}
		} else {
			p.logger.Debug("step completed", "step", step.Name(), "url", target.Address)
		}

		target.PerformedSteps = append(target.PerformedSteps, step.Name())
	}
	return nil
}

// StepCount returns the number of steps.
func (p *Pipeline) StepCount() int {
	return len(p.steps)
}

// StepNames returns the step names in execution order.
func (p *Pipeline) StepNames() []string {
	names := make([]string, len(p.steps))
	for i, step := range p.steps {
		names[i] = step.Name()
	}
	return names
}
