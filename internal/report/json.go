package report

import (
	"encoding/json"
	"io"

	"github.com/nao1215/seoscan/internal/model"
)

// JSONWriter outputs results as JSON. A single report is written as the
// Report object itself.
type JSONWriter struct {
	baseWriter

	indent       bool
	indentPrefix string
	indentString string
}

var _ Writer = (*JSONWriter)(nil)

// JSONWriterOption configures a JSONWriter.
type JSONWriterOption func(*JSONWriter)

// WithIndent enables indented output with the given prefix and indent.
func WithIndent(prefix, indent string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = true
		w.indentPrefix = prefix
		w.indentString = indent
	}
}

// WithPrettyPrint is WithIndent("", "  ").
func WithPrettyPrint() JSONWriterOption {
	return WithIndent("", "  ")
}

// NewJSONWriter creates a JSONWriter that outputs compact JSON by default.
func NewJSONWriter(output io.Writer, opts ...JSONWriterOption) *JSONWriter {
	w := &JSONWriter{baseWriter: newBaseWriter(output)}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write outputs the report.
func (w *JSONWriter) Write(report *model.Report) (int, error) {
	return w.writeJSON(report)
}

// WriteSummary outputs the summary.
func (w *JSONWriter) WriteSummary(summary *model.SummaryReport) (int, error) {
	return w.writeJSON(summary)
}

// BatchReport is the JSON document of a batch run.
type BatchReport struct {
	AnalyzerVersion string               `json:"analyzer_version"`
	Reports         []*model.Report      `json:"reports"`
	Summary         *model.SummaryReport `json:"summary"`
}

// WriteBatch outputs one BatchReport document.
func (w *JSONWriter) WriteBatch(reports []*model.Report, summary *model.SummaryReport) (int, error) {
	if reports == nil {
		reports = make([]*model.Report, 0)
	}
	return w.writeJSON(BatchReport{
		AnalyzerVersion: model.AnalyzerVersion,
		Reports:         reports,
		Summary:         summary,
	})
}

func (w *JSONWriter) writeJSON(v any) (int, error) {
	var (
		data []byte
		err  error
	)
	if w.indent {
		data, err = json.MarshalIndent(v, w.indentPrefix, w.indentString)
	} else {
		data, err = json.Marshal(v)
	}
	if err != nil {
		return 0, err
	}
	data = append(data, '\n')
	return w.output.Write(data)
}
