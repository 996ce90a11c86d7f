package model

import (
	"net/http"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// SummaryReport aggregates the reports of a batch run.
type SummaryReport struct {
	// TotalPages is the number of addresses submitted, analyzed or not.
	TotalPages int `json:"total_pages"`

	// AnalyzedPages is the number of addresses that produced a report.
	AnalyzedPages int `json:"analyzed_pages"`

	AverageScore          float64  `json:"average_score"`
	AverageLoadTimeMillis *float64 `json:"average_loading_time_ms,omitempty"`
	AverageWordCount      *float64 `json:"average_word_count,omitempty"`
	AverageReadability    *float64 `json:"average_readability_score,omitempty"`

	PagesMissingTitle       int `json:"pages_missing_title"`
	PagesMissingDescription int `json:"pages_missing_meta_description"`
	PagesMultipleH1         int `json:"pages_multiple_h1"`
	PagesWithStructuredData int `json:"pages_with_structured_data"`

	// CommonIssues counts pages per technical issue, most frequent first.
	CommonIssues []IssueCount `json:"common_technical_issues"`

	// StatusCodes counts pages per HTTP status code, ascending by code.
	StatusCodes []StatusCount `json:"status_code_distribution"`

	// Failures lists addresses that could not be analyzed.
	Failures []FailedTarget `json:"failures,omitempty"`
}

// IssueCount is the number of pages sharing a technical issue.
type IssueCount struct {
	Issue string `json:"issue"`
	Pages int    `json:"pages"`
}

// StatusCount is the number of pages that returned a status code.
type StatusCount struct {
	StatusCode int `json:"status_code"`
	Pages      int `json:"pages"`
}

// FailedTarget records an address whose analysis failed.
type FailedTarget struct {
	Address string `json:"address"`

	// StatusCode is set when the failure was an HTTP error status.
	StatusCode int `json:"status_code,omitempty"`

	Error string `json:"error"`
}

// NewSummaryReport aggregates reports and failures into a summary.
//
// Status codes of failed fetches are part of the distribution. A 4xx status
// also counts as the "Client Error Status" technical issue, except 404, which
// only appears in the distribution.
func NewSummaryReport(reports []*Report, failures []FailedTarget) *SummaryReport {
	s := &SummaryReport{
		TotalPages:    len(reports) + len(failures),
		AnalyzedPages: len(reports),
		CommonIssues:  make([]IssueCount, 0),
		StatusCodes:   make([]StatusCount, 0),
		Failures:      failures,
	}

	issues := make(map[string]int)
	statuses := make(map[int]int)
	var scores, loadTimes, wordCounts, readability []float64

	for _, r := range reports {
		scores = append(scores, float64(r.Health.Score))
		wordCounts = append(wordCounts, float64(r.Content.WordCount))
		if r.Content.FleschReadingEase != nil {
			readability = append(readability, *r.Content.FleschReadingEase)
		}
		if r.Fetch != nil {
			loadTimes = append(loadTimes, r.Fetch.LoadTimeMillis)
			statuses[r.Fetch.StatusCode]++
		}

		if r.BasicSEO.Title == "" {
			s.PagesMissingTitle++
		}
		if r.BasicSEO.MetaDescription == "" {
			s.PagesMissingDescription++
		}
		if r.Headings.H1Count > 1 {
			s.PagesMultipleH1++
		}
		if len(r.StructuredData.DetectedTypes) > 0 || len(r.StructuredData.JSONLD) > 0 {
			s.PagesWithStructuredData++
		}

		seen := make(map[string]bool)
		for _, issue := range r.Technical.Issues {
			if !seen[issue] {
				seen[issue] = true
				issues[issue]++
			}
		}
	}

	for _, f := range failures {
		if f.StatusCode == 0 {
			continue
		}
		statuses[f.StatusCode]++
		if isFlaggedClientError(f.StatusCode) {
			issues[IssueClientErrorStatus]++
		}
	}

	if len(scores) > 0 {
		s.AverageScore = roundTo(stat.Mean(scores, nil), 2)
		s.AverageWordCount = meanOf(wordCounts)
	}
	s.AverageLoadTimeMillis = meanOf(loadTimes)
	s.AverageReadability = meanOf(readability)

	for issue, pages := range issues {
		s.CommonIssues = append(s.CommonIssues, IssueCount{Issue: issue, Pages: pages})
	}
	sort.Slice(s.CommonIssues, func(i, j int) bool {
		if s.CommonIssues[i].Pages != s.CommonIssues[j].Pages {
			return s.CommonIssues[i].Pages > s.CommonIssues[j].Pages
		}
		return s.CommonIssues[i].Issue < s.CommonIssues[j].Issue
	})

	for code, pages := range statuses {
		s.StatusCodes = append(s.StatusCodes, StatusCount{StatusCode: code, Pages: pages})
	}
	sort.Slice(s.StatusCodes, func(i, j int) bool {
		return s.StatusCodes[i].StatusCode < s.StatusCodes[j].StatusCode
	})

	return s
}

// isFlaggedClientError reports whether a status counts as a client error
// technical issue. 404 is deliberately left out.
func isFlaggedClientError(code int) bool {
	return code >= http.StatusBadRequest && code < http.StatusInternalServerError && code != http.StatusNotFound
}

func meanOf(values []float64) *float64 {
	if len(values) == 0 {
		return nil
	}
	m := roundTo(stat.Mean(values, nil), 2)
	return &m
}
