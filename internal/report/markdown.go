package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"
	"github.com/nao1215/seoscan/internal/model"
)

// MarkdownWriter outputs reports as GitHub-flavored Markdown.
type MarkdownWriter struct {
	baseWriter
}

var _ Writer = (*MarkdownWriter)(nil)

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{baseWriter: newBaseWriter(output)}
}

// Write outputs the report.
func (w *MarkdownWriter) Write(report *model.Report) (int, error) {
	md := markdown.NewMarkdown(w.output)
	w.writeReport(md, report)
	w.writeFooter(md)
	return len(md.String()), md.Build()
}

// WriteSummary outputs the batch summary.
func (w *MarkdownWriter) WriteSummary(summary *model.SummaryReport) (int, error) {
	md := markdown.NewMarkdown(w.output)
	w.writeSummary(md, summary)
	w.writeFooter(md)
	return len(md.String()), md.Build()
}

// WriteBatch outputs the summary first, then one section per report.
func (w *MarkdownWriter) WriteBatch(reports []*model.Report, summary *model.SummaryReport) (int, error) {
	md := markdown.NewMarkdown(w.output)
	if summary != nil {
		w.writeSummary(md, summary)
	}
	for _, r := range reports {
		md.HorizontalRule()
		md.PlainText("")
		w.writeReport(md, r)
	}
	w.writeFooter(md)
	return len(md.String()), md.Build()
}

func (w *MarkdownWriter) writeReport(md *markdown.Markdown, report *model.Report) {
	md.H1("SEO Report")
	md.PlainText("")

	rows := [][]string{
		{"URL", "`" + orDash(report.URL) + "`"},
	}
	if report.AnalyzedAt != nil {
		rows = append(rows, []string{"Analyzed", report.AnalyzedAt.Format("2006-01-02 15:04:05 MST")})
	}
	if f := report.Fetch; f != nil {
		rows = append(rows,
			[]string{"Status Code", strconv.Itoa(f.StatusCode)},
			[]string{"Load Time", fmt.Sprintf("%.0f ms", f.LoadTimeMillis)},
			[]string{"Page Size", fmt.Sprintf("%d bytes", f.PageSizeBytes)},
		)
	}
	rows = append(rows,
		[]string{"Health Score", fmt.Sprintf("**%d/100**", report.Health.Score)},
		[]string{"Analyzer Version", report.AnalyzerVersion},
	)
	md.Table(markdown.TableSet{Header: []string{"Property", "Value"}, Rows: rows})
	md.PlainText("")

	w.writeSeverities(md, report)
	w.writeMetrics(md, report)
	w.writeFindings(md, report)

	if len(report.Recommendations) > 0 {
		md.H2("Recommendations")
		md.PlainText("")
		md.BulletList(report.Recommendations...)
		md.PlainText("")
	}
}

func (w *MarkdownWriter) writeSeverities(md *markdown.Markdown, report *model.Report) {
	md.H2("Severity Summary")
	md.PlainText("")

	labels := map[model.Severity]string{
		model.SeverityCritical: "🔴 Critical",
		model.SeverityError:    "🟠 Error",
		model.SeverityWarning:  "🟡 Warning",
		model.SeverityGood:     "🟢 Good",
		model.SeverityInfo:     "⚪ Info",
	}
	rows := make([][]string, 0, len(severityOrder)+1)
	for _, sev := range severityOrder {
		rows = append(rows, []string{labels[sev], strconv.Itoa(report.CountBySeverity(sev))})
	}
	rows = append(rows, []string{"**Total**", "**" + strconv.Itoa(len(report.Findings)) + "**"})
	md.Table(markdown.TableSet{Header: []string{"Severity", "Count"}, Rows: rows})
	md.PlainText("")

	if len(report.Findings) > 0 {
		chart := piechart.NewPieChart(
			io.Discard,
			piechart.WithTitle("Finding Severity Distribution"),
			piechart.WithShowData(true),
		)
		for _, sev := range severityOrder {
			if n := report.CountBySeverity(sev); n > 0 {
				chart.LabelAndIntValue(sev.String(), uint64(n))
			}
		}
		md.PlainText("")
		md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
		md.PlainText("")
	}

	switch h := report.Health; {
	case h.CriticalCount > 0:
		md.Cautionf("%d critical issue(s) can keep this page out of search results.", h.CriticalCount)
	case h.ErrorCount > 0:
		md.Warningf("%d error(s) should be fixed.", h.ErrorCount)
	case h.WarningCount > 0:
		md.Importantf("%d warning(s) found.", h.WarningCount)
	default:
		md.Tip("No actionable issues detected.")
	}
	md.PlainText("")
}

func (w *MarkdownWriter) writeMetrics(md *markdown.Markdown, report *model.Report) {
	md.H2("Key Metrics")
	md.PlainText("")

	readability := "not assessed"
	if report.Content.FleschReadingEase != nil {
		readability = strconv.FormatFloat(*report.Content.FleschReadingEase, 'f', 2, 64)
	}
	md.Table(markdown.TableSet{
		Header: []string{"Metric", "Value"},
		Rows: [][]string{
			{"Title", orDash(escapePipes(report.BasicSEO.Title))},
			{"Title Length", strconv.Itoa(report.BasicSEO.TitleLength)},
			{"Meta Description Length", strconv.Itoa(report.BasicSEO.MetaDescriptionLength)},
			{"Canonical", orDash(report.BasicSEO.CanonicalURL)},
			{"H1 Count", strconv.Itoa(report.Headings.H1Count)},
			{"Word Count", strconv.Itoa(report.Content.WordCount)},
			{"Text/HTML Ratio", fmt.Sprintf("%.2f%%", report.Content.TextToHTMLRatio)},
			{"Readability", readability},
			{"Images (missing alt)", fmt.Sprintf("%d (%d)", report.Images.Total, report.Images.MissingAlt)},
			{"Internal / External Links", fmt.Sprintf("%d / %d", report.Links.Internal, report.Links.External)},
			{"Schema Types", orDash(strings.Join(report.StructuredData.DetectedTypes, ", "))},
		},
	})
	md.PlainText("")

	if len(report.Content.KeywordDensity) > 0 {
		rows := make([][]string, len(report.Content.KeywordDensity))
		for i, kd := range report.Content.KeywordDensity {
			rows[i] = []string{kd.Term, fmt.Sprintf("%.2f%%", kd.Density)}
		}
		md.H3("Top Terms")
		md.PlainText("")
		md.Table(markdown.TableSet{Header: []string{"Term", "Density"}, Rows: rows})
		md.PlainText("")
	}
}

func (w *MarkdownWriter) writeFindings(md *markdown.Markdown, report *model.Report) {
	md.H2("Findings")
	md.PlainText("")

	if len(report.Findings) == 0 {
		md.PlainText("No findings.")
		md.PlainText("")
		return
	}

	for _, sev := range severityOrder {
		findings := findingsBySeverity(report, sev)
		if len(findings) == 0 {
			continue
		}
		md.H3(sev.String())
		md.PlainText("")

		rows := make([][]string, len(findings))
		for i, f := range findings {
			rows[i] = []string{
				escapePipes(f.Message),
				f.ElementType,
				escapePipes(truncateString(orDash(f.Details), 80)),
			}
		}
		md.Table(markdown.TableSet{Header: []string{"Issue", "Element", "Details"}, Rows: rows})
		md.PlainText("")

		for _, f := range findings {
			if f.Recommendation != "" {
				md.Details(f.Message, f.Recommendation)
			}
		}
		md.PlainText("")
	}
}

func (w *MarkdownWriter) writeSummary(md *markdown.Markdown, s *model.SummaryReport) {
	md.H1("SEO Batch Summary")
	md.PlainText("")

	rows := [][]string{
		{"Pages Submitted", strconv.Itoa(s.TotalPages)},
		{"Pages Analyzed", strconv.Itoa(s.AnalyzedPages)},
		{"Average Score", fmt.Sprintf("%.2f", s.AverageScore)},
	}
	if s.AverageLoadTimeMillis != nil {
		rows = append(rows, []string{"Average Load Time", fmt.Sprintf("%.2f ms", *s.AverageLoadTimeMillis)})
	}
	if s.AverageWordCount != nil {
		rows = append(rows, []string{"Average Word Count", fmt.Sprintf("%.2f", *s.AverageWordCount)})
	}
	if s.AverageReadability != nil {
		rows = append(rows, []string{"Average Readability", fmt.Sprintf("%.2f", *s.AverageReadability)})
	}
	rows = append(rows,
		[]string{"Pages Missing Title", strconv.Itoa(s.PagesMissingTitle)},
		[]string{"Pages Missing Meta Description", strconv.Itoa(s.PagesMissingDescription)},
		[]string{"Pages With Multiple H1", strconv.Itoa(s.PagesMultipleH1)},
		[]string{"Pages With Structured Data", strconv.Itoa(s.PagesWithStructuredData)},
	)
	md.Table(markdown.TableSet{Header: []string{"Metric", "Value"}, Rows: rows})
	md.PlainText("")

	if len(s.CommonIssues) > 0 {
		md.H2("Common Technical Issues")
		md.PlainText("")
		issueRows := make([][]string, len(s.CommonIssues))
		for i, ic := range s.CommonIssues {
			issueRows[i] = []string{ic.Issue, strconv.Itoa(ic.Pages)}
		}
		md.Table(markdown.TableSet{Header: []string{"Issue", "Pages"}, Rows: issueRows})
		md.PlainText("")
	}

	if len(s.StatusCodes) > 0 {
		md.H2("Status Codes")
		md.PlainText("")
		chart := piechart.NewPieChart(
			io.Discard,
			piechart.WithTitle("Status Code Distribution"),
			piechart.WithShowData(true),
		)
		for _, sc := range s.StatusCodes {
			chart.LabelAndIntValue(strconv.Itoa(sc.StatusCode), uint64(sc.Pages))
		}
		md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
		md.PlainText("")
	}

	if len(s.Failures) > 0 {
		md.H2("Failed Pages")
		md.PlainText("")
		items := make([]string, len(s.Failures))
		for i, f := range s.Failures {
			items[i] = fmt.Sprintf("`%s`: %s", f.Address, f.Error)
		}
		md.BulletList(items...)
		md.PlainText("")
	}
}

func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Report generated by [seoscan](https://github.com/nao1215/seoscan) %s*", model.AnalyzerVersion)
}

func escapePipes(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
