package report

import (
	"io"

	"github.com/nao1215/seoscan/internal/model"
)

// Writer renders analysis results to its configured destination.
type Writer interface {
	// Write renders one page report.
	Write(report *model.Report) (int, error)

	// WriteSummary renders a batch summary.
	WriteSummary(summary *model.SummaryReport) (int, error)

	// WriteBatch renders the reports of a batch followed by its summary.
	WriteBatch(reports []*model.Report, summary *model.SummaryReport) (int, error)
}

// MultiWriter writes to several Writers, e.g. the terminal and a file.
type MultiWriter struct {
	writers []Writer
}

var _ Writer = (*MultiWriter)(nil)

// NewMultiWriter creates a Writer that writes to all provided Writers.
func NewMultiWriter(writers ...Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// Write renders the report with every writer, stopping on the first error.
func (m *MultiWriter) Write(report *model.Report) (int, error) {
	return m.each(func(w Writer) (int, error) { return w.Write(report) })
}

// WriteSummary renders the summary with every writer.
func (m *MultiWriter) WriteSummary(summary *model.SummaryReport) (int, error) {
	return m.each(func(w Writer) (int, error) { return w.WriteSummary(summary) })
}

// WriteBatch renders the batch with every writer.
func (m *MultiWriter) WriteBatch(reports []*model.Report, summary *model.SummaryReport) (int, error) {
	return m.each(func(w Writer) (int, error) { return w.WriteBatch(reports, summary) })
}

func (m *MultiWriter) each(fn func(Writer) (int, error)) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := fn(w)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// baseWriter provides common functionality for report writers.
type baseWriter struct {
	output io.Writer
}

func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}

// severityOrder lists severities from most to least severe.
var severityOrder = []model.Severity{
	model.SeverityCritical,
	model.SeverityError,
	model.SeverityWarning,
	model.SeverityGood,
	model.SeverityInfo,
}

// findingsBySeverity returns the findings of one severity in report order.
func findingsBySeverity(report *model.Report, severity model.Severity) []model.Finding {
	out := make([]model.Finding, 0)
	for _, f := range report.Findings {
		if f.Severity == severity {
			out = append(out, f)
		}
	}
	return out
}

// truncateString shortens s to maxLen runes with an ellipsis.
func truncateString(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-3]) + "..."
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
