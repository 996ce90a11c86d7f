package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/nao1215/seoscan/internal/database"
	"github.com/nao1215/seoscan/internal/model"
)

func testFinding(severity model.Severity, message, element string) model.Finding {
	return model.Finding{Severity: severity, Message: message, ElementType: element}
}

func storedReport(url string, score int, at time.Time, findings ...model.Finding) *model.Report {
	r := model.NewReport(url)
	r.AnalyzedAt = &at
	r.Findings = findings
	r.Health.Score = score
	for _, f := range findings {
		switch f.Severity {
		case model.SeverityCritical:
			r.Health.CriticalCount++
		case model.SeverityError:
			r.Health.ErrorCount++
		case model.SeverityWarning:
			r.Health.WarningCount++
		}
	}
	return r
}

// newHistoryDB stores two reports of https://example.com/ and one of
// https://other.example/, oldest first, and returns their IDs in that order.
func newHistoryDB(t *testing.T) (*database.ReportDB, []string) {
	t.Helper()

	db, err := database.Open(t.TempDir(), database.DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = db.Close() })

	base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	reports := []*model.Report{
		storedReport("https://example.com/", 70, base,
			testFinding(model.SeverityError, "Missing H1 Tag", "H1 Tag"),
			testFinding(model.SeverityWarning, "Missing Meta Description", "Meta Description"),
		),
		storedReport("https://other.example/", 100, base.Add(time.Minute)),
		storedReport("https://example.com/", 85, base.Add(time.Hour),
			testFinding(model.SeverityWarning, "Missing Meta Description", "Meta Description"),
			testFinding(model.SeverityWarning, "Title Too Long", "Title"),
			testFinding(model.SeverityGood, "Title Present", "Title"),
		),
	}

	ids := make([]string, 0, len(reports))
	for _, r := range reports {
		if err := db.SaveReport(context.Background(), r); err != nil {
			t.Fatal(err)
		}
		ids = append(ids, r.ID)
	}
	return db, ids
}

func TestNewHistoryCmd(t *testing.T) {
	t.Parallel()

	cmd := NewHistoryCmd()
	for _, name := range []string{"limit", "show", "compare", "with-id", "json", "markdown", "db-dir"} {
		if cmd.Flags().Lookup(name) == nil {
			t.Errorf("expected %s flag", name)
		}
	}
	if err := cmd.Args(cmd, []string{"a", "b"}); err == nil {
		t.Error("expected at most one argument")
	}
}

func TestParseHistoryFlags(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		flags   []string
		args    []string
		wantErr bool
	}{
		{name: "list all", flags: nil, args: nil},
		{name: "compare with url", flags: []string{"--compare"}, args: []string{"https://example.com/"}},
		{name: "compare without url", flags: []string{"--compare"}, wantErr: true},
		{name: "with-id without compare", flags: []string{"--with-id", "x"}, args: []string{"https://example.com/"}, wantErr: true},
		{name: "conflicting formats", flags: []string{"--json", "--markdown"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cmd := NewHistoryCmd()
			if err := cmd.ParseFlags(tt.flags); err != nil {
				t.Fatal(err)
			}
			_, err := parseHistoryFlags(cmd, tt.args)
			if (err != nil) != tt.wantErr {
				t.Errorf("err = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestListHistory(t *testing.T) {
	t.Parallel()

	db, ids := newHistoryDB(t)

	t.Run("text for one url", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if err := runHistory(context.Background(), db, &historyOptions{address: "https://example.com/", limit: 20}, &buf); err != nil {
			t.Fatal(err)
		}
		out := buf.String()
		if !strings.Contains(out, "Stored reports (2)") {
			t.Errorf("unexpected output:\n%s", out)
		}
		if strings.Index(out, ids[2]) > strings.Index(out, ids[0]) {
			t.Error("newest report should be listed first")
		}
		if !strings.Contains(out, "E:1 W:1") {
			t.Errorf("issue summary missing:\n%s", out)
		}
	})

	t.Run("json for every url", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if err := runHistory(context.Background(), db, &historyOptions{json: true}, &buf); err != nil {
			t.Fatal(err)
		}
		var metas []database.ReportMetadata
		if err := json.Unmarshal(buf.Bytes(), &metas); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if len(metas) != 3 {
			t.Errorf("reports = %d, want 3", len(metas))
		}
	})

	t.Run("no reports", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if err := runHistory(context.Background(), db, &historyOptions{address: "https://none.example/"}, &buf); err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(buf.String(), "No stored reports for https://none.example/") {
			t.Errorf("unexpected output:\n%s", buf.String())
		}
	})

	t.Run("markdown table", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if err := runHistory(context.Background(), db, &historyOptions{markdown: true}, &buf); err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(buf.String(), "| ID | URL | Analyzed | Score | Issues |") {
			t.Errorf("unexpected output:\n%s", buf.String())
		}
	})
}

func TestShowReport(t *testing.T) {
	t.Parallel()

	db, ids := newHistoryDB(t)

	var buf bytes.Buffer
	if err := runHistory(context.Background(), db, &historyOptions{showID: ids[0], json: true}, &buf); err != nil {
		t.Fatal(err)
	}
	var r model.Report
	if err := json.Unmarshal(buf.Bytes(), &r); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if r.ID != ids[0] || r.Health.Score != 70 {
		t.Errorf("report = %s/%d", r.ID, r.Health.Score)
	}

	err := runHistory(context.Background(), db, &historyOptions{showID: "missing"}, &buf)
	if !errors.Is(err, database.ErrReportNotFound) {
		t.Errorf("err = %v, want ErrReportNotFound", err)
	}
}

func TestCompareReports(t *testing.T) {
	t.Parallel()

	at := time.Now()
	previous := storedReport("https://example.com/", 70, at,
		testFinding(model.SeverityError, "Missing H1 Tag", "H1 Tag"),
		testFinding(model.SeverityWarning, "Missing Meta Description", "Meta Description"),
		testFinding(model.SeverityInfo, "Keyword Density", "Content"),
	)
	current := storedReport("https://example.com/", 85, at,
		testFinding(model.SeverityWarning, "Missing Meta Description", "Meta Description"),
		testFinding(model.SeverityWarning, "Title Too Long", "Title"),
		testFinding(model.SeverityWarning, "Title Too Long", "Title"),
	)

	result := compareReports(previous, current)

	if result.Direction != directionImproved || result.ScoreDelta != 15 {
		t.Errorf("direction = %s, delta = %d", result.Direction, result.ScoreDelta)
	}
	if len(result.NewFindings) != 1 || result.NewFindings[0].Message != "Title Too Long" {
		t.Errorf("new findings = %+v", result.NewFindings)
	}
	if len(result.ResolvedFindings) != 1 || result.ResolvedFindings[0].Message != "Missing H1 Tag" {
		t.Errorf("resolved findings = %+v", result.ResolvedFindings)
	}
	if result.UnchangedCount != 1 {
		t.Errorf("unchanged = %d, want 1", result.UnchangedCount)
	}

	if got := compareReports(current, previous).Direction; got != directionWorsened {
		t.Errorf("reversed direction = %s", got)
	}
	if got := compareReports(current, current).Direction; got != directionUnchanged {
		t.Errorf("same report direction = %s", got)
	}
}

func TestRunComparison(t *testing.T) {
	t.Parallel()

	db, ids := newHistoryDB(t)

	t.Run("latest two reports", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		opts := &historyOptions{address: "https://example.com/", compare: true}
		if err := runHistory(context.Background(), db, opts, &buf); err != nil {
			t.Fatal(err)
		}
		out := buf.String()
		for _, want := range []string{"IMPROVED", "New Findings (1)", "Resolved Findings (1)", "Unchanged: 1 findings", "+15"} {
			if !strings.Contains(out, want) {
				t.Errorf("output missing %q:\n%s", want, out)
			}
		}
	})

	t.Run("json output with explicit id", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		opts := &historyOptions{address: "https://example.com/", compare: true, withID: ids[0], json: true}
		if err := runHistory(context.Background(), db, opts, &buf); err != nil {
			t.Fatal(err)
		}
		var result ComparisonResult
		if err := json.Unmarshal(buf.Bytes(), &result); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if result.Previous.ID != ids[0] || result.Current.ID != ids[2] {
			t.Errorf("compared %s with %s", result.Previous.ID, result.Current.ID)
		}
	})

	t.Run("markdown output", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		opts := &historyOptions{address: "https://example.com/", compare: true, markdown: true}
		if err := runHistory(context.Background(), db, opts, &buf); err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(buf.String(), "# Report Comparison: https://example.com/") {
			t.Errorf("unexpected output:\n%s", buf.String())
		}
	})

	tests := []struct {
		name string
		opts historyOptions
	}{
		{name: "unknown url", opts: historyOptions{address: "https://none.example/", compare: true}},
		{name: "single report", opts: historyOptions{address: "https://other.example/", compare: true}},
		{name: "id of another url", opts: historyOptions{address: "https://example.com/", compare: true, withID: ids[1]}},
		{name: "id of latest report", opts: historyOptions{address: "https://example.com/", compare: true, withID: ids[2]}},
		{name: "unknown id", opts: historyOptions{address: "https://example.com/", compare: true, withID: "missing"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			if err := runHistory(context.Background(), db, &tt.opts, &buf); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestRunHistoryCmdWithoutDatabase(t *testing.T) {
	t.Parallel()

	cmd := NewHistoryCmd()
	cmd.SetArgs([]string{"--db-dir", t.TempDir()})
	cmd.SetOut(&bytes.Buffer{})
	if err := cmd.Execute(); !errors.Is(err, database.ErrDatabaseNotFound) {
		t.Errorf("err = %v, want ErrDatabaseNotFound", err)
	}
}

func TestFormatDelta(t *testing.T) {
	t.Parallel()

	tests := []struct {
		delta int
		want  string
	}{
		{delta: 5, want: "+5"},
		{delta: -3, want: "-3"},
		{delta: 0, want: "0"},
	}
	for _, tt := range tests {
		if got := formatDelta(tt.delta); got != tt.want {
			t.Errorf("formatDelta(%d) = %q, want %q", tt.delta, got, tt.want)
		}
	}
}
