package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/nao1215/seoscan/internal/analyzer"
	"github.com/nao1215/seoscan/internal/document"
	"github.com/nao1215/seoscan/internal/fetch"
	"github.com/nao1215/seoscan/internal/model"
)

// Step names.
const (
	StepRobots  = "robots"
	StepFetch   = "fetch"
	StepAnalyze   = "analyze"
	StepCanonical = "canonical"
	StepStore     = "store"
)

// RobotsStep records whether robots.txt allows the target. When enforcing,
// a disallowed target stops the pipeline with ErrBlockedByRobots.
type RobotsStep struct {
	checker *fetch.RobotsChecker
	enforce bool
}

var _ Step = (*RobotsStep)(nil)

// NewRobotsStep creates a RobotsStep.
func NewRobotsStep(checker *fetch.RobotsChecker, enforce bool) *RobotsStep {
	return &RobotsStep{checker: checker, enforce: enforce}
}

// Name returns the step name.
func (s *RobotsStep) Name() string { return StepRobots }

// Do checks robots.txt. Targets with given markup are skipped.
func (s *RobotsStep) Do(ctx context.Context, target *Target) error {
	if target.Markup != "" {
		return nil
	}
	if target.Address == "" {
		return ErrNoAddress
	}

	allowed, err := s.checker.Allowed(ctx, target.Address)
	if err != nil {
		return fmt.Errorf("robots check for %s: %w", target.Address, err)
	}
	target.RobotsAllowed = &allowed
	if target.Fetch != nil {
		target.Fetch.RobotsAllowed = &allowed
	}
	if !allowed && s.enforce {
		return fmt.Errorf("%w: %s", ErrBlockedByRobots, target.Address)
	}
	return nil
}

// FetchStep retrieves the target's markup.
type FetchStep struct {
	client *fetch.Client
}

var _ Step = (*FetchStep)(nil)

// NewFetchStep creates a FetchStep.
func NewFetchStep(client *fetch.Client) *FetchStep {
	return &FetchStep{client: client}
}

// Name returns the step name.
func (s *FetchStep) Name() string { return StepFetch }

// Do fetches the page unless markup was given. Retrieval failures are
// terminal for the target.
func (s *FetchStep) Do(ctx context.Context, target *Target) error {
	if target.Markup != "" {
		return nil
	}
	if target.Address == "" {
		return ErrNoAddress
	}

	resp, err := s.client.Fetch(ctx, target.Address)
	if err != nil {
		return err
	}
	target.Markup = string(resp.Body)
	target.Fetch = resp.Info()
	target.Fetch.RobotsAllowed = target.RobotsAllowed
	return nil
}

// AnalyzeStep parses the markup and runs the analyzer.
type AnalyzeStep struct {
	analyzer *analyzer.Analyzer
	logger   *slog.Logger
	now      func() time.Time
}

var _ Step = (*AnalyzeStep)(nil)

// AnalyzeStepOption configures an AnalyzeStep.
type AnalyzeStepOption func(*AnalyzeStep)

// WithAnalyzeLogger sets the logger passed to the document parser.
func WithAnalyzeLogger(logger *slog.Logger) AnalyzeStepOption {
	return func(s *AnalyzeStep) {
		s.logger = logger
	}
}

// NewAnalyzeStep creates an AnalyzeStep.
func NewAnalyzeStep(a *analyzer.Analyzer, opts ...AnalyzeStepOption) *AnalyzeStep {
	s := &AnalyzeStep{
		analyzer: a,
		logger:   slog.Default(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns the step name.
func (s *AnalyzeStep) Name() string { return StepAnalyze }

// Do analyzes the markup and stores the report on the target.
func (s *AnalyzeStep) Do(ctx context.Context, target *Target) error {
	if target.Markup == "" {
		return ErrNoMarkup
	}

	doc, err := document.New(target.Markup, target.Source(), document.WithLogger(s.logger))
	if err != nil {
		return fmt.Errorf("failed to parse document: %w", err)
	}

	report, err := s.analyzer.Analyze(ctx, doc, target.Fetch)
	if err != nil {
		return fmt.Errorf("failed to analyze %s: %w", target.Address, err)
	}

	analyzedAt := s.now().UTC()
	report.ID = target.ID
	report.AnalyzedAt = &analyzedAt
	target.Report = report
	return nil
}

// StatusProber answers the HTTP status of an address. *fetch.Client
// implements it.
type StatusProber interface {
	HeadStatus(ctx context.Context, address string) (int, error)
}

// CanonicalStep probes the canonical URL of an analyzed page with HEAD and
// records whether it is reachable.
type CanonicalStep struct {
	prober StatusProber
}

var (
	_ Step         = (*CanonicalStep)(nil)
	_ StatusProber = (*fetch.Client)(nil)
)

// NewCanonicalStep creates a CanonicalStep.
func NewCanonicalStep(prober StatusProber) *CanonicalStep {
	return &CanonicalStep{prober: prober}
}

// Name returns the step name.
func (s *CanonicalStep) Name() string { return StepCanonical }

// Do probes the canonical URL and adds a finding to the report, then
// recomputes the score. Reports without a canonical URL, or whose canonical
// URL is the page itself, are left unchanged. An unreachable canonical URL
// is a finding, not a step failure.
func (s *CanonicalStep) Do(ctx context.Context, target *Target) error {
	report := target.Report
	if report == nil {
		return nil
	}
	canonical := report.BasicSEO.CanonicalURL
	if canonical == "" || canonical == report.URL {
		return nil
	}
	if target.Fetch != nil && canonical == target.Fetch.FinalURL {
		return nil
	}

	const recommendation = "Point the canonical tag at a live, indexable URL."
	var (
		severity        model.Severity
		message, detail string
		rec             string
	)
	status, err := s.prober.HeadStatus(ctx, canonical)
	switch {
	case ctx.Err() != nil:
		return ctx.Err()
	case err != nil:
		severity, message, rec = model.SeverityWarning, "Canonical URL Unreachable", recommendation
		detail = fmt.Sprintf("The canonical URL '%s' could not be reached: %v", canonical, err)
	case status >= http.StatusBadRequest:
		severity, message, rec = model.SeverityWarning, "Canonical URL Returns Error Status", recommendation
		detail = fmt.Sprintf("The canonical URL '%s' answered HEAD with status %d.", canonical, status)
	default:
		severity, message = model.SeverityGood, "Canonical URL Reachable"
		detail = fmt.Sprintf("The canonical URL '%s' answered HEAD with status %d.", canonical, status)
	}

	f, err := model.NewFinding(severity, message, analyzer.ElementCanonical, detail, rec)
	if err != nil {
		return err
	}
	report.AddFinding(f)
	report.Health = analyzer.ComputeHealth(report.Findings)
	report.Recommendations = analyzer.CollectRecommendations(report.Findings)
	return nil
}

// ReportStore persists reports. *database.ReportDB implements it.
type ReportStore interface {
	SaveReport(ctx context.Context, report *model.Report) error
}

// StoreStep saves the report.
type StoreStep struct {
	store ReportStore
}

var _ Step = (*StoreStep)(nil)

// NewStoreStep creates a StoreStep.
func NewStoreStep(store ReportStore) *StoreStep {
	return &StoreStep{store: store}
}

// Name returns the step name.
func (s *StoreStep) Name() string { return StepStore }

// Do saves the report. A target without a report is skipped.
func (s *StoreStep) Do(ctx context.Context, target *Target) error {
	if target.Report == nil {
		return nil
	}
	if err := s.store.SaveReport(ctx, target.Report); err != nil {
		return fmt.Errorf("failed to store report: %w", err)
	}
	return nil
}

// DefaultPipelineConfig holds the optional parts of the default pipeline.
type DefaultPipelineConfig struct {
	robots        *fetch.RobotsChecker
	enforceRobots bool
	canonical     StatusProber
	store         ReportStore
	logger        *slog.Logger
}

// DefaultPipelineOption configures the default pipeline.
type DefaultPipelineOption func(*DefaultPipelineConfig)

// WithPipelineRobots adds a RobotsStep before fetching.
func WithPipelineRobots(checker *fetch.RobotsChecker, enforce bool) DefaultPipelineOption {
	return func(c *DefaultPipelineConfig) {
		c.robots = checker
		c.enforceRobots = enforce
	}
}

// WithPipelineCanonicalCheck adds a CanonicalStep after analysis.
func WithPipelineCanonicalCheck(prober StatusProber) DefaultPipelineOption {
	return func(c *DefaultPipelineConfig) {
		c.canonical = prober
	}
}

// WithPipelineStore adds a StoreStep after analysis.
func WithPipelineStore(store ReportStore) DefaultPipelineOption {
	return func(c *DefaultPipelineConfig) {
		c.store = store
	}
}

// WithPipelineLogger sets the logger of the analyze step.
func WithPipelineLogger(logger *slog.Logger) DefaultPipelineOption {
	return func(c *DefaultPipelineConfig) {
		c.logger = logger
	}
}

// DefaultPipeline builds robots (optional), fetch, analyze, canonical
// (optional) and store (optional) in that order.
func DefaultPipeline(client *fetch.Client, a *analyzer.Analyzer, pipelineOpts []Option, configOpts ...DefaultPipelineOption) *Pipeline {
	cfg := &DefaultPipelineConfig{logger: slog.Default()}
	for _, opt := range configOpts {
		opt(cfg)
	}

	p := New(pipelineOpts...)
	if cfg.robots != nil {
		p.AddStep(NewRobotsStep(cfg.robots, cfg.enforceRobots))
	}
	p.AddSteps(
		NewFetchStep(client),
		NewAnalyzeStep(a, WithAnalyzeLogger(cfg.logger)),
	)
	if cfg.canonical != nil {
		p.AddStep(NewCanonicalStep(cfg.canonical))
	}
	if cfg.store != nil {
		p.AddStep(NewStoreStep(cfg.store))
	}
	return p
}
