package analyzer

import (
	"context"
	"fmt"
	"reflect"
	"strings"
	"testing"

	"github.com/nao1215/seoscan/internal/model"
)

// TestAnchorTextDistribution tests bucket assignment and rounding.
func TestAnchorTextDistribution(t *testing.T) {
	t.Parallel()

	links := []model.Link{
		{Text: "Click Here"},
		{Text: "Example homepage"},
		{Text: "pricing plans"},
		{Text: "a much longer descriptive anchor about our tools"},
		{Text: "more"},
		{Text: model.NoAnchorText},
	}

	got := AnchorTextDistribution(links, "example")
	want := map[string]float64{
		AnchorGeneric:     40,
		AnchorBranded:     20,
		AnchorShortPhrase: 20,
		AnchorLongPhrase:  20,
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("AnchorTextDistribution = %v, want %v", got, want)
	}

	t.Run("no brand", func(t *testing.T) {
		t.Parallel()

		got := AnchorTextDistribution([]model.Link{{Text: "Example homepage"}, {Text: "here"}, {Text: "docs"}}, "")
		want := map[string]float64{AnchorShortPhrase: 66.7, AnchorGeneric: 33.3}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("got %v, want %v", got, want)
		}
	})

	t.Run("no anchors", func(t *testing.T) {
		t.Parallel()

		if got := AnchorTextDistribution(nil, "example"); len(got) != 0 {
			t.Errorf("expected empty distribution, got %v", got)
		}
	})
}

// TestLinkAnalyzer tests link counting and findings.
func TestLinkAnalyzer(t *testing.T) {
	t.Parallel()

	run := func(t *testing.T, body, source string) (*model.Report, []model.Finding) {
		t.Helper()
		doc := newDocument(t, "<html><body>"+body+"</body></html>", source)
		report := model.NewReport(source)
		findings, err := NewLinkAnalyzer(DefaultThresholds()).Analyze(context.Background(), &AnalysisData{Document: doc, Report: report})
		if err != nil {
			t.Fatalf("Analyze: %v", err)
		}
		return report, findings
	}

	t.Run("counts rel attributes", func(t *testing.T) {
		t.Parallel()

		report, findings := run(t, `
<a href="/a" rel="nofollow">A</a>
<a href="https://www.example.com/b">B</a>
<a href="https://other.org/" rel="NOFOLLOW sponsored">O</a>
<a href="https://third.org/" rel="ugc">T</a>`, "https://example.com/")

		stats := report.Links
		if stats.Internal != 2 || stats.External != 2 || stats.Total != 4 {
			t.Errorf("counts = %+v", stats)
		}
		if stats.NofollowInternal != 1 || stats.NofollowExternal != 1 || stats.Sponsored != 1 || stats.UGC != 1 {
			t.Errorf("rel counts = %+v", stats)
		}
		if !hasFinding(findings, model.SeverityInfo, "1 Internal Nofollow Links", ElementLinks) {
			t.Error("expected internal nofollow finding")
		}
	})

	t.Run("no internal links", func(t *testing.T) {
		t.Parallel()

		_, findings := run(t, `<a href="https://other.org/">O</a>`, "https://example.com/")
		if !hasFinding(findings, model.SeverityWarning, "No Internal Links Found", ElementLinks) {
			t.Error("expected No Internal Links Found")
		}
	})

	t.Run("high external ratio", func(t *testing.T) {
		t.Parallel()

		var sb strings.Builder
		for i := 0; i < 25; i++ {
			fmt.Fprintf(&sb, `<a href="https://site%d.org/">Site %d</a>`, i, i)
		}
		sb.WriteString(`<a href="/home">Home</a>`)

		_, findings := run(t, sb.String(), "https://example.com/")
		if !hasFinding(findings, model.SeverityInfo, "High Ratio of External Links", ElementLinks) {
			t.Error("expected High Ratio of External Links")
		}
	})
}
