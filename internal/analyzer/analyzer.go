package analyzer

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/nao1215/seoscan/internal/document"
	"github.com/nao1215/seoscan/internal/model"
)

// Analyzer category constants.
const (
	// CategoryOnPage is used by checks of head-level tags and markup hygiene.
	CategoryOnPage = "on-page"
	// CategoryContent is used by checks of the visible content.
	CategoryContent = "content"
	// CategoryStructure is used by checks of links, headings and structured data.
	CategoryStructure = "structure"
	// CategoryTechnical is used by checks of transport and resource concerns.
	CategoryTechnical = "technical"
)

// Analyzer coordinates the SEO checks and assembles their results into a report.
type Analyzer struct {
	// analyzers is the list of registered checks, run in registration order.
	analyzers []CheckAnalyzer

	// options configures analyzer behavior.
	options Options
}

// Options configures the analyzer behavior.
type Options struct {
	// Thresholds holds the limits every check uses.
	Thresholds Thresholds

	// TargetKeywords are keywords whose share of the content is reported.
	TargetKeywords []string

	// InspectImages enables EXIF inspection of same-site images.
	// It downloads images and needs an HTTP client via SetHTTPClient.
	InspectImages bool

	// Logger receives check failures. Defaults to slog.Default().
	Logger *slog.Logger
}

// DefaultOptions returns the default analyzer options.
func DefaultOptions() Options {
	return Options{
		Thresholds: DefaultThresholds(),
	}
}

// WithThresholds replaces the thresholds.
func WithThresholds(t Thresholds) func(*Options) {
	return func(o *Options) {
		o.Thresholds = t
	}
}

// WithTargetKeywords sets the keywords whose density is tracked.
func WithTargetKeywords(keywords ...string) func(*Options) {
	return func(o *Options) {
		o.TargetKeywords = append([]string(nil), keywords...)
	}
}

// WithImageInspection enables or disables EXIF inspection of images.
func WithImageInspection(enabled bool) func(*Options) {
	return func(o *Options) {
		o.InspectImages = enabled
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) func(*Options) {
	return func(o *Options) {
		o.Logger = logger
	}
}

// CheckAnalyzer defines the interface for individual checks.
type CheckAnalyzer interface {
	// Name returns the check's name for logging.
	Name() string

	// Category returns the check's category.
	Category() string

	// Analyze runs the check, fills the check's section of data.Report and
	// returns the findings in the order they were produced.
	Analyze(ctx context.Context, data *AnalysisData) ([]model.Finding, error)
}

// AnalysisData contains everything a check may read.
type AnalysisData struct {
	// Document is the parsed document with its caches.
	Document *document.Context

	// Fetch describes the HTTP response the markup came from. Nil when the
	// markup was given directly.
	Fetch *model.FetchInfo

	// Report is the report under construction. Each check writes only its
	// own section.
	Report *model.Report
}

// NewAnalyzer creates an Analyzer with all built-in checks registered.
func NewAnalyzer(opts ...func(*Options)) *Analyzer {
	options := DefaultOptions()
	for _, opt := range opts {
		opt(&options)
	}
	if options.Logger == nil {
		options.Logger = slog.Default()
	}

	a := &Analyzer{
		options:   options,
		analyzers: make([]CheckAnalyzer, 0),
	}

	t := options.Thresholds
	a.Register(NewBasicAnalyzer(t))
	a.Register(NewHeadingAnalyzer(t))
	a.Register(NewContentAnalyzer(t, options.TargetKeywords...))
	a.Register(NewImageAnalyzer(t))
	a.Register(NewLinkAnalyzer(t))
	a.Register(NewSocialAnalyzer())
	a.Register(NewStructuredDataAnalyzer())
	a.Register(NewTechnicalAnalyzer(t))
	if options.InspectImages {
		a.Register(NewImageMetadataAnalyzer())
	}

	return a
}

// HTTPClientSetter is implemented by checks that need an HTTP client.
type HTTPClientSetter interface {
	SetHTTPClient(client *http.Client)
}

// SetHTTPClient injects an HTTP client into checks that require one.
func (a *Analyzer) SetHTTPClient(client *http.Client) {
	for _, analyzer := range a.analyzers {
		if setter, ok := analyzer.(HTTPClientSetter); ok {
			setter.SetHTTPClient(client)
		}
	}
}

// Register appends a check. Checks run in registration order.
func (a *Analyzer) Register(analyzer CheckAnalyzer) {
	a.analyzers = append(a.analyzers, analyzer)
}

// Names returns the registered check names in run order.
func (a *Analyzer) Names() []string {
	names := make([]string, 0, len(a.analyzers))
	for _, c := range a.analyzers {
		names = append(names, c.Name())
	}
	return names
}

// Analyze runs every registered check against doc and returns the report.
//
// The document's caches are reset first, so analyzing the same context twice
// gives identical findings and scores. fetch may be nil. A failing check is
// logged and skipped; only context cancellation aborts the run.
func (a *Analyzer) Analyze(ctx context.Context, doc *document.Context, fetch *model.FetchInfo) (*model.Report, error) {
	if doc == nil {
		return nil, ErrNilDocument
	}
	doc.Reset()

	report := model.NewReport(doc.SourceString())
	if fetch != nil {
		f := *fetch
		report.Fetch = &f
	}
	data := &AnalysisData{
		Document: doc,
		Fetch:    report.Fetch,
		Report:   report,
	}

	for _, analyzer := range a.analyzers {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		findings, err := analyzer.Analyze(ctx, data)
		if err != nil {
			a.options.Logger.Warn("check failed",
				"check", analyzer.Name(),
				"category", analyzer.Category(),
				"url", report.URL,
				"error", err,
			)
		}
		for _, f := range findings {
			report.AddFinding(f)
		}
	}

	report.Health = ComputeHealth(report.Findings)
	report.Recommendations = CollectRecommendations(report.Findings)

	return report, nil
}
