package analyzer

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/nao1215/seoscan/internal/model"
)

// HeadingAnalyzer checks the H1 count, the heading hierarchy and the length
// of H1-H3 texts.
type HeadingAnalyzer struct {
	thresholds Thresholds
}

// NewHeadingAnalyzer creates a new HeadingAnalyzer.
func NewHeadingAnalyzer(t Thresholds) *HeadingAnalyzer {
	return &HeadingAnalyzer{thresholds: t}
}

// Name returns the analyzer name.
func (a *HeadingAnalyzer) Name() string {
	return "headings"
}

// Category returns the analyzer category.
func (a *HeadingAnalyzer) Category() string {
	return CategoryStructure
}

// Analyze checks the heading structure and fills the headings section.
func (a *HeadingAnalyzer) Analyze(_ context.Context, data *AnalysisData) ([]model.Finding, error) {
	levels := data.Document.Headings()
	findings := make([]model.Finding, 0)

	stats := model.HeadingStats{
		Levels:  levels,
		H1Texts: make([]string, 0),
	}
	for _, l := range levels {
		stats.TotalHeadings += len(l.Texts)
		if l.Level == 1 {
			stats.H1Texts = l.Texts
		}
	}
	stats.H1Count = len(stats.H1Texts)
	data.Report.Headings = stats

	if len(levels) == 0 {
		findings = append(findings, finding(model.SeverityWarning, "No Headings Found", ElementHeadings,
			"The page does not contain any heading tags (H1-H6).",
			"Use heading tags (H1-H6) to structure your content logically for users and search engines."))
	}

	switch {
	case stats.H1Count == 0:
		findings = append(findings, finding(model.SeverityError, "Missing H1 Tag", ElementH1,
			"The page is missing an H1 tag, which is critical for defining the main topic.",
			"Add a single, descriptive H1 tag that accurately reflects the page's primary content."))
	case stats.H1Count > a.thresholds.MaxH1:
		findings = append(findings, finding(model.SeverityWarning, fmt.Sprintf("Multiple H1 Tags (%d)", stats.H1Count), ElementH1,
			fmt.Sprintf("The page has %d H1 tags. A single main H1 is generally preferred for clarity.", stats.H1Count),
			"Ensure a clear primary H1 for the page. If using multiple H1s, verify they sit in distinct sectioning elements."))
	default:
		findings = append(findings, finding(model.SeverityGood, "Single H1 Tag Present", ElementH1,
			"Page has a single H1 tag, which is the recommended practice for the main page heading.", ""))
	}

	if len(levels) > 0 {
		findings = append(findings, hierarchyFindings(levels)...)
	}

	for _, l := range levels {
		if l.Level > 3 {
			continue
		}
		tag := fmt.Sprintf("H%d", l.Level)
		for _, text := range l.Texts {
			length := utf8.RuneCountInString(text)
			words := len(strings.Fields(text))
			if length > a.thresholds.MaxHeadingLength {
				findings = append(findings, finding(model.SeverityWarning, tag+" Too Long", tag+" Content",
					fmt.Sprintf("The %s text '%s...' is %d characters long.", tag, truncate(text, 30), length),
					fmt.Sprintf("Consider keeping important headings like %s concise (ideally less than %d characters).", tag, a.thresholds.MaxHeadingLength)))
			}
			if words > a.thresholds.MaxHeadingWords {
				findings = append(findings, finding(model.SeverityWarning, tag+" Too Wordy", tag+" Content",
					fmt.Sprintf("The %s text '%s...' contains %d words.", tag, truncate(text, 30), words),
					fmt.Sprintf("Try to make important headings like %s more focused (ideally less than %d words).", tag, a.thresholds.MaxHeadingWords)))
			}
		}
	}

	return findings, nil
}

// hierarchyFindings checks that the present levels start at H1 and skip no
// level. Levels are already in ascending order.
func hierarchyFindings(levels []model.HeadingLevel) []model.Finding {
	findings := make([]model.Finding, 0)
	logical := true

	if levels[0].Level != 1 {
		findings = append(findings, finding(model.SeverityWarning, "Heading Structure Starts Incorrectly", ElementHierarchy,
			fmt.Sprintf("The heading structure begins with H%d instead of H1 (or H1 is missing entirely).", levels[0].Level),
			"The primary page heading should be an H1. Ensure your heading structure starts with H1 and follows hierarchically."))
		logical = false
	}

	for i := 0; i+1 < len(levels); i++ {
		cur, next := levels[i].Level, levels[i+1].Level
		if next-cur > 1 {
			findings = append(findings, finding(model.SeverityWarning, "Skipped Heading Level", ElementHierarchy,
				fmt.Sprintf("Heading level H%d appears to be missing between H%d and H%d.", cur+1, cur, next),
				"Maintain a logical heading hierarchy without skipping levels (e.g., use H2 after H1, H3 after H2)."))
			logical = false
		}
	}

	if logical {
		findings = append(findings, finding(model.SeverityGood, "Logical Heading Hierarchy", ElementHierarchy,
			"The heading structure appears logical and hierarchical without any skipped levels.", ""))
	}
	return findings
}

// Ensure HeadingAnalyzer implements CheckAnalyzer.
var _ CheckAnalyzer = (*HeadingAnalyzer)(nil)
