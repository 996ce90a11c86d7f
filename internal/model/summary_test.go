package model

import (
	"math"
	"testing"
)

func TestNewSummaryReport(t *testing.T) {
	t.Parallel()

	readable := 60.0
	good := NewReport("https://example.com/a")
	good.BasicSEO.Title = "A"
	good.BasicSEO.MetaDescription = "desc"
	good.Health.Score = 90
	good.Content.WordCount = 400
	good.Content.FleschReadingEase = &readable
	good.Fetch = &FetchInfo{StatusCode: 200, LoadTimeMillis: 100}
	good.StructuredData.DetectedTypes = []string{"Article"}

	bad := NewReport("https://example.com/b")
	bad.Headings.H1Count = 2
	bad.Health.Score = 70
	bad.Content.WordCount = 200
	bad.Fetch = &FetchInfo{StatusCode: 200, LoadTimeMillis: 300}
	bad.Technical.Issues = []string{IssueMissingTitle, IssueMissingTitle, IssueMultipleH1}

	failures := []FailedTarget{
		{Address: "https://example.com/missing", StatusCode: 404, Error: "not found"},
		{Address: "https://example.com/forbidden", StatusCode: 403, Error: "forbidden"},
		{Address: "https://down.example.com/", Error: "no response"},
	}

	s := NewSummaryReport([]*Report{good, bad}, failures)

	t.Run("counts pages", func(t *testing.T) {
		t.Parallel()
		if s.TotalPages != 5 || s.AnalyzedPages != 2 {
			t.Errorf("got total %d analyzed %d", s.TotalPages, s.AnalyzedPages)
		}
		if s.PagesMissingTitle != 1 || s.PagesMissingDescription != 1 {
			t.Errorf("missing counts: title %d description %d", s.PagesMissingTitle, s.PagesMissingDescription)
		}
		if s.PagesMultipleH1 != 1 || s.PagesWithStructuredData != 1 {
			t.Errorf("h1 %d structured %d", s.PagesMultipleH1, s.PagesWithStructuredData)
		}
	})

	t.Run("averages", func(t *testing.T) {
		t.Parallel()
		if s.AverageScore != 80 {
			t.Errorf("got average score %v", s.AverageScore)
		}
		if s.AverageLoadTimeMillis == nil || math.Abs(*s.AverageLoadTimeMillis-200) > 1e-9 {
			t.Errorf("got average load time %v", s.AverageLoadTimeMillis)
		}
		if s.AverageReadability == nil || *s.AverageReadability != 60 {
			t.Errorf("got average readability %v", s.AverageReadability)
		}
	})

	t.Run("404 only appears in status distribution", func(t *testing.T) {
		t.Parallel()
		want := map[int]int{200: 2, 403: 1, 404: 1}
		if len(s.StatusCodes) != len(want) {
			t.Fatalf("got %v", s.StatusCodes)
		}
		for _, sc := range s.StatusCodes {
			if want[sc.StatusCode] != sc.Pages {
				t.Errorf("status %d: got %d pages", sc.StatusCode, sc.Pages)
			}
		}
		clientErrors := 0
		for _, ic := range s.CommonIssues {
			if ic.Issue == IssueClientErrorStatus {
				clientErrors = ic.Pages
			}
		}
		if clientErrors != 1 {
			t.Errorf("got %d client error pages, expected 1 (403 only)", clientErrors)
		}
	})

	t.Run("issues counted once per page", func(t *testing.T) {
		t.Parallel()
		for _, ic := range s.CommonIssues {
			if ic.Issue == IssueMissingTitle && ic.Pages != 1 {
				t.Errorf("got %d pages for missing title", ic.Pages)
			}
		}
	})
}

func TestNewSummaryReportEmpty(t *testing.T) {
	t.Parallel()

	s := NewSummaryReport(nil, nil)
	if s.TotalPages != 0 || s.AverageScore != 0 {
		t.Errorf("unexpected summary: %+v", s)
	}
	if s.AverageLoadTimeMillis != nil || s.AverageWordCount != nil {
		t.Error("averages must be nil without data")
	}
}
