package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/nao1215/seoscan/internal/config"
	"github.com/nao1215/seoscan/internal/database"
	"github.com/nao1215/seoscan/internal/model"
	"github.com/nao1215/seoscan/internal/report"
)

// Constants for score direction.
const (
	directionImproved  = "improved"
	directionWorsened  = "worsened"
	directionUnchanged = "unchanged"
)

// defaultHistoryLimit is the number of reports listed by default.
const defaultHistoryLimit = 20

// NewHistoryCmd creates the history command.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history [url]",
		Short: "List, show and compare stored reports",
		Long: `History reads reports stored by 'seoscan analyze --save'.

Without flags it lists the stored reports of a page, newest first. Without
a URL it lists reports of every page.

Examples:
  # List stored reports of a page
  seoscan history https://example.com/

  # Show one stored report in full
  seoscan history --show 3f1c0a52-6d0e-4d8e-9a57-2b8f6f0f4b11

  # Compare the latest two reports of a page
  seoscan history --compare https://example.com/

  # Compare the latest report with a specific one
  seoscan history --compare --with-id 3f1c0a52-6d0e-4d8e-9a57-2b8f6f0f4b11 https://example.com/`,
		Args: cobra.MaximumNArgs(1),
		RunE: runHistoryCmd,
	}

	cmd.Flags().IntP("limit", "n", defaultHistoryLimit,
		"Maximum number of reports to list (0 lists all)")
	cmd.Flags().String("show", "",
		"Show the stored report with this ID")
	cmd.Flags().BoolP("compare", "C", false,
		"Compare the latest report of the URL with the previous one")
	cmd.Flags().String("with-id", "",
		"Compare with the stored report with this ID instead of the previous one")

	cmd.Flags().BoolP("json", "j", false,
		"Output in JSON format")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output in Markdown format")
	cmd.Flags().String("db-dir", config.XDGDataDir(),
		"Directory of the history database")

	return cmd
}

// historyOptions holds the parsed flags of the history command.
type historyOptions struct {
	address  string
	limit    int
	showID   string
	compare  bool
	withID   string
	json     bool
	markdown bool
	dbDir    string
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, args []string) error {
	opts, err := parseHistoryFlags(cmd, args)
	if err != nil {
		return err
	}

	db, err := database.Open(opts.dbDir, database.Options{EnableWAL: true})
	if errors.Is(err, database.ErrDatabaseNotFound) {
		return fmt.Errorf("%w (run 'seoscan analyze --save <url>' first)", err)
	}
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	return runHistory(cmd.Context(), db, opts, cmd.OutOrStdout())
}

func parseHistoryFlags(cmd *cobra.Command, args []string) (*historyOptions, error) {
	flags := cmd.Flags()
	opts := &historyOptions{}
	if len(args) > 0 {
		opts.address = args[0]
	}

	var err error
	if opts.limit, err = flags.GetInt("limit"); err != nil {
		return nil, err
	}
	if opts.showID, err = flags.GetString("show"); err != nil {
		return nil, err
	}
	if opts.compare, err = flags.GetBool("compare"); err != nil {
		return nil, err
	}
	if opts.withID, err = flags.GetString("with-id"); err != nil {
		return nil, err
	}
	if opts.json, err = flags.GetBool("json"); err != nil {
		return nil, err
	}
	if opts.markdown, err = flags.GetBool("markdown"); err != nil {
		return nil, err
	}
	if opts.dbDir, err = flags.GetString("db-dir"); err != nil {
		return nil, err
	}

	if opts.json && opts.markdown {
		return nil, config.ErrConflictingReportFormats
	}
	if opts.compare && opts.address == "" {
		return nil, errors.New("a URL is required for --compare")
	}
	if opts.withID != "" && !opts.compare {
		return nil, errors.New("--with-id requires --compare")
	}
	return opts, nil
}

// historyStore is the part of the database the history command reads.
type historyStore interface {
	GetReport(ctx context.Context, id string) (*model.Report, error)
	ListReports(ctx context.Context, url string, limit int) ([]database.ReportMetadata, error)
}

func runHistory(ctx context.Context, db historyStore, opts *historyOptions, out io.Writer) error {
	switch {
	case opts.showID != "":
		return showReport(ctx, db, opts, out)
	case opts.compare:
		return runComparison(ctx, db, opts, out)
	default:
		return listHistory(ctx, db, opts, out)
	}
}

// showReport prints one stored report with the regular report writers.
func showReport(ctx context.Context, db historyStore, opts *historyOptions, out io.Writer) error {
	r, err := db.GetReport(ctx, opts.showID)
	if err != nil {
		return fmt.Errorf("failed to get report %s: %w", opts.showID, err)
	}

	var w report.Writer
	switch {
	case opts.json:
		w = report.NewJSONWriter(out, report.WithPrettyPrint())
	case opts.markdown:
		w = report.NewMarkdownWriter(out)
	default:
		w = report.NewSimpleWriter(out)
	}
	_, err = w.Write(r)
	return err
}

// listHistory prints report metadata, newest first.
func listHistory(ctx context.Context, db historyStore, opts *historyOptions, out io.Writer) error {
	reports, err := db.ListReports(ctx, opts.address, opts.limit)
	if err != nil {
		return fmt.Errorf("failed to list reports: %w", err)
	}

	if opts.json {
		return writeJSON(out, reports)
	}

	if len(reports) == 0 {
		if opts.address != "" {
			fmt.Fprintf(out, "No stored reports for %s\n", opts.address)
		} else {
			fmt.Fprintln(out, "No stored reports.")
		}
		fmt.Fprintln(out, "\nUse 'seoscan analyze --save <url>' to store reports.")
		return nil
	}

	if opts.markdown {
		fmt.Fprintf(out, "# Report History\n\n")
		fmt.Fprintln(out, "| ID | URL | Analyzed | Score | Issues |")
		fmt.Fprintln(out, "|----|-----|----------|-------|--------|")
		for _, meta := range reports {
			fmt.Fprintf(out, "| `%s` | %s | %s | %d | %s |\n",
				meta.ID, meta.URL, meta.AnalyzedAt.Format("2006-01-02 15:04"), meta.Score, formatIssueSummary(meta))
		}
		return nil
	}

	fmt.Fprintf(out, "Stored reports (%d):\n\n", len(reports))
	fmt.Fprintf(out, "  %-36s  %-19s  %-5s  %-14s  %s\n", "ID", "Analyzed", "Score", "Issues", "URL")
	fmt.Fprintln(out, "  "+strings.Repeat("-", 96))
	for _, meta := range reports {
		fmt.Fprintf(out, "  %-36s  %-19s  %-5d  %-14s  %s\n",
			meta.ID,
			meta.AnalyzedAt.Local().Format("2006-01-02 15:04:05"),
			meta.Score,
			formatIssueSummary(meta),
			meta.URL,
		)
	}
	fmt.Fprintln(out, "\nUse 'seoscan history --show <id>' to see a report.")
	return nil
}

// formatIssueSummary formats the issue counts of a stored report.
func formatIssueSummary(meta database.ReportMetadata) string {
	var parts []string
	if meta.CriticalCount > 0 {
		parts = append(parts, fmt.Sprintf("C:%d", meta.CriticalCount))
	}
	if meta.ErrorCount > 0 {
		parts = append(parts, fmt.Sprintf("E:%d", meta.ErrorCount))
	}
	if meta.WarningCount > 0 {
		parts = append(parts, fmt.Sprintf("W:%d", meta.WarningCount))
	}
	if len(parts) == 0 {
		return "No issues"
	}
	return strings.Join(parts, " ")
}

// ComparisonResult holds the result of comparing two reports of one page.
type ComparisonResult struct {
	URL string `json:"url"`

	Previous ReportSnapshot `json:"previous"`
	Current  ReportSnapshot `json:"current"`

	// NewFindings are issues present only in the current report.
	NewFindings []model.Finding `json:"new_findings,omitempty"`

	// ResolvedFindings are issues present only in the previous report.
	ResolvedFindings []model.Finding `json:"resolved_findings,omitempty"`

	UnchangedCount int `json:"unchanged_count"`

	// ScoreDelta is the current score minus the previous score.
	ScoreDelta int `json:"score_delta"`

	// Direction is "improved", "worsened" or "unchanged".
	Direction string `json:"direction"`
}

// ReportSnapshot is the comparison view of one report.
type ReportSnapshot struct {
	ID            string     `json:"id"`
	AnalyzedAt    *time.Time `json:"analyzed_at,omitempty"`
	Score         int        `json:"score"`
	CriticalCount int        `json:"critical_count"`
	ErrorCount    int        `json:"error_count"`
	WarningCount  int        `json:"warning_count"`
}

func snapshotOf(r *model.Report) ReportSnapshot {
	return ReportSnapshot{
		ID:            r.ID,
		AnalyzedAt:    r.AnalyzedAt,
		Score:         r.Health.Score,
		CriticalCount: r.Health.CriticalCount,
		ErrorCount:    r.Health.ErrorCount,
		WarningCount:  r.Health.WarningCount,
	}
}

// runComparison compares the latest report of the page with the previous
// one, or with the report named by --with-id.
func runComparison(ctx context.Context, db historyStore, opts *historyOptions, out io.Writer) error {
	metas, err := db.ListReports(ctx, opts.address, 2)
	if err != nil {
		return fmt.Errorf("failed to list reports: %w", err)
	}
	if len(metas) == 0 {
		return fmt.Errorf("no stored reports for %s", opts.address)
	}

	current, err := db.GetReport(ctx, metas[0].ID)
	if err != nil {
		return fmt.Errorf("failed to get report %s: %w", metas[0].ID, err)
	}

	previousID := opts.withID
	if previousID == "" {
		if len(metas) < 2 {
			return fmt.Errorf("at least 2 stored reports are required for comparison (found %d)", len(metas))
		}
		previousID = metas[1].ID
	}
	if previousID == current.ID {
		return fmt.Errorf("report %s is the latest report; pick an older one", previousID)
	}

	previous, err := db.GetReport(ctx, previousID)
	if err != nil {
		return fmt.Errorf("failed to get report %s: %w", previousID, err)
	}
	if previous.URL != current.URL {
		return fmt.Errorf("report %s belongs to %s, not %s", previousID, previous.URL, current.URL)
	}

	result := compareReports(previous, current)
	switch {
	case opts.json:
		return writeJSON(out, result)
	case opts.markdown:
		outputComparisonMarkdown(out, result)
	default:
		outputComparisonText(out, result)
	}
	return nil
}

// compareReports diffs the actionable findings of two reports. Findings
// keep the order of the report they come from.
func compareReports(previous, current *model.Report) *ComparisonResult {
	result := &ComparisonResult{
		URL:        current.URL,
		Previous:   snapshotOf(previous),
		Current:    snapshotOf(current),
		ScoreDelta: current.Health.Score - previous.Health.Score,
	}

	previousKeys := make(map[string]bool)
	for _, f := range previous.Findings {
		if f.Severity.IsActionable() {
			previousKeys[findingKey(f)] = true
		}
	}
	currentKeys := make(map[string]bool)
	for _, f := range current.Findings {
		if !f.Severity.IsActionable() {
			continue
		}
		key := findingKey(f)
		if currentKeys[key] {
			continue
		}
		currentKeys[key] = true
		if previousKeys[key] {
			result.UnchangedCount++
		} else {
			result.NewFindings = append(result.NewFindings, f)
		}
	}
	seen := make(map[string]bool)
	for _, f := range previous.Findings {
		key := findingKey(f)
		if !f.Severity.IsActionable() || currentKeys[key] || seen[key] {
			continue
		}
		seen[key] = true
		result.ResolvedFindings = append(result.ResolvedFindings, f)
	}

	switch {
	case result.ScoreDelta > 0:
		result.Direction = directionImproved
	case result.ScoreDelta < 0:
		result.Direction = directionWorsened
	default:
		result.Direction = directionUnchanged
	}
	return result
}

// findingKey identifies a finding across reports.
func findingKey(f model.Finding) string {
	return f.Severity.String() + "|" + f.Message + "|" + f.ElementType + "|" + f.Details
}

func outputComparisonText(out io.Writer, result *ComparisonResult) {
	fmt.Fprintf(out, "Report Comparison: %s\n", result.URL)
	fmt.Fprintln(out, strings.Repeat("=", 60))

	fmt.Fprintf(out, "\nStatus: %s\n", formatDirection(result.Direction))
	fmt.Fprintf(out, "\nPrevious report: %s (%s)\n", result.Previous.ID, formatTime(result.Previous.AnalyzedAt))
	fmt.Fprintf(out, "Current report:  %s (%s)\n", result.Current.ID, formatTime(result.Current.AnalyzedAt))

	fmt.Fprintln(out, "\nSummary:")
	fmt.Fprintf(out, "  %-10s  %-10s  %-10s  %-10s\n", "Metric", "Previous", "Current", "Change")
	fmt.Fprintln(out, "  "+strings.Repeat("-", 45))
	for _, row := range comparisonRows(result) {
		fmt.Fprintf(out, "  %-10s  %-10d  %-10d  %-10s\n", row.label, row.previous, row.current, formatDelta(row.current-row.previous))
	}

	if len(result.NewFindings) > 0 {
		fmt.Fprintf(out, "\nNew Findings (%d):\n", len(result.NewFindings))
		for _, f := range result.NewFindings {
			fmt.Fprintf(out, "  [+] [%s] %s: %s\n", f.Severity, f.ElementType, f.Message)
		}
	}
	if len(result.ResolvedFindings) > 0 {
		fmt.Fprintf(out, "\nResolved Findings (%d):\n", len(result.ResolvedFindings))
		for _, f := range result.ResolvedFindings {
			fmt.Fprintf(out, "  [-] [%s] %s: %s\n", f.Severity, f.ElementType, f.Message)
		}
	}
	if result.UnchangedCount > 0 {
		fmt.Fprintf(out, "\nUnchanged: %d findings\n", result.UnchangedCount)
	}
}

func outputComparisonMarkdown(out io.Writer, result *ComparisonResult) {
	fmt.Fprintf(out, "# Report Comparison: %s\n\n", result.URL)
	fmt.Fprintf(out, "**Status:** %s\n\n", formatDirection(result.Direction))

	fmt.Fprintln(out, "| Metric | Previous | Current | Change |")
	fmt.Fprintln(out, "|--------|----------|---------|--------|")
	fmt.Fprintf(out, "| Date | %s | %s | - |\n", formatTime(result.Previous.AnalyzedAt), formatTime(result.Current.AnalyzedAt))
	for _, row := range comparisonRows(result) {
		fmt.Fprintf(out, "| %s | %d | %d | %s |\n", row.label, row.previous, row.current, formatDelta(row.current-row.previous))
	}

	if len(result.NewFindings) > 0 {
		fmt.Fprintf(out, "\n## New Findings (%d)\n\n", len(result.NewFindings))
		for _, f := range result.NewFindings {
			fmt.Fprintf(out, "- **[%s]** %s: %s\n", f.Severity, f.ElementType, f.Message)
		}
	}
	if len(result.ResolvedFindings) > 0 {
		fmt.Fprintf(out, "\n## Resolved Findings (%d)\n\n", len(result.ResolvedFindings))
		for _, f := range result.ResolvedFindings {
			fmt.Fprintf(out, "- ~~**[%s]** %s: %s~~\n", f.Severity, f.ElementType, f.Message)
		}
	}
	if result.UnchangedCount > 0 {
		fmt.Fprintf(out, "\n---\n\n*%d findings unchanged*\n", result.UnchangedCount)
	}
}

type comparisonRow struct {
	label             string
	previous, current int
}

func comparisonRows(result *ComparisonResult) []comparisonRow {
	return []comparisonRow{
		{"Score", result.Previous.Score, result.Current.Score},
		{"Critical", result.Previous.CriticalCount, result.Current.CriticalCount},
		{"Error", result.Previous.ErrorCount, result.Current.ErrorCount},
		{"Warning", result.Previous.WarningCount, result.Current.WarningCount},
	}
}

// formatDirection formats the score direction for display.
func formatDirection(direction string) string {
	switch direction {
	case directionImproved:
		return "IMPROVED (score increased)"
	case directionWorsened:
		return "WORSENED (score decreased)"
	default:
		return "UNCHANGED"
	}
}

// formatDelta formats a numeric delta with sign for display.
func formatDelta(delta int) string {
	if delta > 0 {
		return "+" + strconv.Itoa(delta)
	}
	return strconv.Itoa(delta)
}

func formatTime(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04")
}

func writeJSON(out io.Writer, v any) error {
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
