package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/nao1215/seoscan/internal/model"
)

const ruleWidth = 70

// SimpleWriter outputs plain text reports for the terminal.
type SimpleWriter struct {
	baseWriter

	// showEmpty prints severity sections that have no findings.
	showEmpty bool

	// verbose prints GOOD and INFO findings and finding recommendations.
	verbose bool
}

var _ Writer = (*SimpleWriter)(nil)

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithShowEmpty configures the writer to show empty sections.
func WithShowEmpty(show bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.showEmpty = show
	}
}

// WithVerbose enables verbose output.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{baseWriter: newBaseWriter(output)}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write outputs the report.
func (w *SimpleWriter) Write(report *model.Report) (int, error) {
	var sb strings.Builder
	w.writeReport(&sb, report)
	return io.WriteString(w.output, sb.String())
}

// WriteSummary outputs the batch summary.
func (w *SimpleWriter) WriteSummary(summary *model.SummaryReport) (int, error) {
	var sb strings.Builder
	w.writeSummary(&sb, summary)
	return io.WriteString(w.output, sb.String())
}

// WriteBatch outputs every report followed by the summary.
func (w *SimpleWriter) WriteBatch(reports []*model.Report, summary *model.SummaryReport) (int, error) {
	var sb strings.Builder
	for _, r := range reports {
		w.writeReport(&sb, r)
	}
	if summary != nil {
		w.writeSummary(&sb, summary)
	}
	return io.WriteString(w.output, sb.String())
}

func (w *SimpleWriter) writeReport(sb *strings.Builder, report *model.Report) {
	banner(sb, "SEOSCAN REPORT")

	fmt.Fprintf(sb, "URL:       %s\n", orDash(report.URL))
	if report.AnalyzedAt != nil {
		fmt.Fprintf(sb, "Analyzed:  %s\n", report.AnalyzedAt.Format("2006-01-02 15:04:05 MST"))
	}
	if f := report.Fetch; f != nil {
		fmt.Fprintf(sb, "Status:    %d (%.0f ms, %d bytes)\n", f.StatusCode, f.LoadTimeMillis, f.PageSizeBytes)
	}
	fmt.Fprintf(sb, "Score:     %d/100\n\n", report.Health.Score)

	section(sb, "SEVERITY SUMMARY")
	for _, sev := range severityOrder {
		fmt.Fprintf(sb, "  %-9s %d\n", sev.String()+":", report.CountBySeverity(sev))
	}
	sb.WriteString("\n")

	w.writeMetrics(sb, report)
	w.writeFindings(sb, report)

	if len(report.Recommendations) > 0 {
		section(sb, "RECOMMENDATIONS")
		for i, rec := range report.Recommendations {
			fmt.Fprintf(sb, "  %d. %s\n", i+1, rec)
		}
		sb.WriteString("\n")
	}

	footer(sb)
}

func (w *SimpleWriter) writeMetrics(sb *strings.Builder, report *model.Report) {
	section(sb, "KEY METRICS")

	if report.BasicSEO.Title != "" {
		fmt.Fprintf(sb, "  Title:            %q (%d chars)\n", report.BasicSEO.Title, report.BasicSEO.TitleLength)
	} else {
		sb.WriteString("  Title:            (missing)\n")
	}
	fmt.Fprintf(sb, "  Meta description: %d chars\n", report.BasicSEO.MetaDescriptionLength)
	fmt.Fprintf(sb, "  H1 tags:          %d\n", report.Headings.H1Count)
	fmt.Fprintf(sb, "  Words:            %d\n", report.Content.WordCount)
	if report.Content.FleschReadingEase != nil {
		fmt.Fprintf(sb, "  Readability:      %.2f\n", *report.Content.FleschReadingEase)
	} else {
		sb.WriteString("  Readability:      not assessed\n")
	}
	fmt.Fprintf(sb, "  Images:           %d (%d missing alt)\n", report.Images.Total, report.Images.MissingAlt)
	fmt.Fprintf(sb, "  Links:            %d internal, %d external\n", report.Links.Internal, report.Links.External)
	if len(report.StructuredData.DetectedTypes) > 0 {
		fmt.Fprintf(sb, "  Schema types:     %s\n", strings.Join(report.StructuredData.DetectedTypes, ", "))
	}
	if w.verbose && len(report.Content.KeywordDensity) > 0 {
		terms := make([]string, 0, len(report.Content.KeywordDensity))
		for _, kd := range report.Content.KeywordDensity {
			terms = append(terms, fmt.Sprintf("%s (%.2f%%)", kd.Term, kd.Density))
		}
		fmt.Fprintf(sb, "  Top terms:        %s\n", strings.Join(terms, ", "))
	}
	sb.WriteString("\n")
}

func (w *SimpleWriter) writeFindings(sb *strings.Builder, report *model.Report) {
	if len(report.Findings) == 0 && !w.showEmpty {
		return
	}
	section(sb, "FINDINGS")

	for _, sev := range severityOrder {
		if !w.verbose && !sev.IsActionable() {
			continue
		}
		findings := findingsBySeverity(report, sev)
		if len(findings) == 0 && !w.showEmpty {
			continue
		}

		fmt.Fprintf(sb, "[%s] %s\n", severityIndicator(sev), sev.String())
		if len(findings) == 0 {
			sb.WriteString("  No findings\n\n")
			continue
		}
		for _, f := range findings {
			fmt.Fprintf(sb, "  * %s (%s)\n", f.Message, f.ElementType)
			if f.Details != "" {
				fmt.Fprintf(sb, "    %s\n", f.Details)
			}
			if w.verbose && f.Recommendation != "" {
				fmt.Fprintf(sb, "    Fix: %s\n", f.Recommendation)
			}
		}
		sb.WriteString("\n")
	}
}

func (w *SimpleWriter) writeSummary(sb *strings.Builder, s *model.SummaryReport) {
	banner(sb, "SEOSCAN BATCH SUMMARY")

	fmt.Fprintf(sb, "Pages:              %d submitted, %d analyzed\n", s.TotalPages, s.AnalyzedPages)
	fmt.Fprintf(sb, "Average score:      %.2f\n", s.AverageScore)
	if s.AverageLoadTimeMillis != nil {
		fmt.Fprintf(sb, "Average load time:  %.2f ms\n", *s.AverageLoadTimeMillis)
	}
	if s.AverageWordCount != nil {
		fmt.Fprintf(sb, "Average word count: %.2f\n", *s.AverageWordCount)
	}
	if s.AverageReadability != nil {
		fmt.Fprintf(sb, "Average readability: %.2f\n", *s.AverageReadability)
	}
	sb.WriteString("\n")

	section(sb, "PAGE ISSUES")
	fmt.Fprintf(sb, "  Missing title:            %d\n", s.PagesMissingTitle)
	fmt.Fprintf(sb, "  Missing meta description: %d\n", s.PagesMissingDescription)
	fmt.Fprintf(sb, "  Multiple H1:              %d\n", s.PagesMultipleH1)
	fmt.Fprintf(sb, "  With structured data:     %d\n", s.PagesWithStructuredData)
	sb.WriteString("\n")

	if len(s.CommonIssues) > 0 {
		section(sb, "COMMON TECHNICAL ISSUES")
		for _, ic := range s.CommonIssues {
			fmt.Fprintf(sb, "  %-30s %d\n", ic.Issue, ic.Pages)
		}
		sb.WriteString("\n")
	}

	if len(s.StatusCodes) > 0 {
		section(sb, "STATUS CODES")
		for _, sc := range s.StatusCodes {
			fmt.Fprintf(sb, "  %d: %d\n", sc.StatusCode, sc.Pages)
		}
		sb.WriteString("\n")
	}

	if len(s.Failures) > 0 {
		section(sb, "FAILED")
		for _, f := range s.Failures {
			fmt.Fprintf(sb, "  [x] %s: %s\n", f.Address, f.Error)
		}
		sb.WriteString("\n")
	}

	footer(sb)
}

// severityIndicator returns a short marker for the severity level.
func severityIndicator(severity model.Severity) string {
	switch severity {
	case model.SeverityCritical:
		return "!!!"
	case model.SeverityError:
		return "!!"
	case model.SeverityWarning:
		return "!"
	case model.SeverityGood:
		return "+"
	case model.SeverityInfo:
		return "i"
	default:
		return "?"
	}
}

func banner(sb *strings.Builder, title string) {
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", ruleWidth))
	sb.WriteString("\n")
	pad := max((ruleWidth-len(title))/2, 0)
	sb.WriteString(strings.Repeat(" ", pad) + title + "\n")
	sb.WriteString(strings.Repeat("=", ruleWidth))
	sb.WriteString("\n\n")
}

func section(sb *strings.Builder, title string) {
	sb.WriteString(strings.Repeat("-", ruleWidth))
	sb.WriteString("\n")
	sb.WriteString(title + "\n")
	sb.WriteString(strings.Repeat("-", ruleWidth))
	sb.WriteString("\n\n")
}

func footer(sb *strings.Builder) {
	sb.WriteString(strings.Repeat("=", ruleWidth))
	sb.WriteString("\n")
	sb.WriteString("Report generated by seoscan " + model.AnalyzerVersion + "\n")
	sb.WriteString("https://github.com/nao1215/seoscan\n")
	sb.WriteString(strings.Repeat("=", ruleWidth))
	sb.WriteString("\n")
}
