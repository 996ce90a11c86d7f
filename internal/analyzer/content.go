package analyzer

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/nao1215/seoscan/internal/model"
)

// ContentAnalyzer checks the main content: length, text-to-markup ratio,
// readability, keyword density and configured target keywords.
type ContentAnalyzer struct {
	thresholds     Thresholds
	targetKeywords []string
}

// NewContentAnalyzer creates a new ContentAnalyzer.
func NewContentAnalyzer(t Thresholds, targetKeywords ...string) *ContentAnalyzer {
	keywords := make([]string, 0, len(targetKeywords))
	for _, k := range targetKeywords {
		if k = strings.TrimSpace(k); k != "" {
			keywords = append(keywords, k)
		}
	}
	return &ContentAnalyzer{thresholds: t, targetKeywords: keywords}
}

// Name returns the analyzer name.
func (a *ContentAnalyzer) Name() string {
	return "content"
}

// Category returns the analyzer category.
func (a *ContentAnalyzer) Category() string {
	return CategoryContent
}

// Analyze checks the main content and fills the content section.
func (a *ContentAnalyzer) Analyze(_ context.Context, data *AnalysisData) ([]model.Finding, error) {
	doc := data.Document
	t := a.thresholds
	findings := make([]model.Finding, 0)

	text := doc.MainContentText()
	length := utf8.RuneCountInString(text)

	switch {
	case length == 0 && strings.TrimSpace(doc.Markup()) != "":
		findings = append(findings, finding(model.SeverityWarning, "No Main Content Text Extracted", ElementContent,
			"Could not extract significant textual content from main content selectors or body.",
			"Ensure main page content is within standard HTML elements (e.g., <main>, <article>, <p>) and not solely image-based or client-side rendered."))
	case length < t.MinContentLength:
		findings = append(findings, finding(model.SeverityWarning, "Thin Content (Low Word Count)", ElementContent,
			fmt.Sprintf("Main content length is approximately %d characters (minimum recommended: %d).", length, t.MinContentLength),
			"Expand your content to provide more valuable, comprehensive and relevant information."))
	default:
		findings = append(findings, finding(model.SeverityGood, "Sufficient Content Length", ElementContent,
			fmt.Sprintf("Main content length (%d chars) meets or exceeds the minimum recommendation.", length), ""))
	}

	ratio := textToHTMLRatio(text, doc.Markup())
	if ratio < t.MinTextHTMLRatio {
		findings = append(findings, finding(model.SeverityWarning, "Low Text-to-HTML Ratio", ElementContent,
			fmt.Sprintf("Text-to-HTML ratio is %v%%. This may indicate excessive code relative to textual content.", ratio),
			"Review page structure for unnecessary code, inline styles or scripts, or large comment blocks."))
	} else {
		findings = append(findings, finding(model.SeverityGood, "Acceptable Text-to-HTML Ratio", ElementContent,
			fmt.Sprintf("Text-to-HTML ratio (%v%%) is within an acceptable range.", ratio), ""))
	}

	var readability *float64
	switch {
	case length > t.ReadabilityMinChars:
		score := FleschReadingEase(text)
		readability = &score
		switch {
		case score < 30:
			findings = append(findings, finding(model.SeverityError, "Very Low Readability Score", ElementReadability,
				fmt.Sprintf("Flesch Reading Ease score is %v, indicating content is very difficult to read.", score),
				"Significantly simplify sentence structure, vocabulary, and use shorter paragraphs."))
		case score < 60:
			findings = append(findings, finding(model.SeverityWarning, "Low to Moderate Readability Score", ElementReadability,
				fmt.Sprintf("Flesch Reading Ease score is %v. Content may be challenging for some readers.", score),
				"Consider simplifying complex language and sentence structures."))
		default:
			findings = append(findings, finding(model.SeverityGood, "Good Readability Score", ElementReadability,
				fmt.Sprintf("Flesch Reading Ease score is %v, indicating content is relatively easy to read.", score), ""))
		}
	case length > 0:
		findings = append(findings, finding(model.SeverityInfo, "Readability Not Assessed (Short Content)", ElementReadability,
			"Content too short for a reliable readability score.", ""))
	}

	metrics := model.ContentMetrics{
		ContentLength:     length,
		WordCount:         len(Words(text)),
		TextToHTMLRatio:   ratio,
		KeywordDensity:    KeywordDensity(text, t.KeywordMinWordLength, t.KeywordMinDensity, t.KeywordTopN),
		FleschReadingEase: readability,
		ParagraphCount:    doc.ParagraphCount(),
		HasVideos:         doc.HasVideos(),
		HasTables:         doc.HasTables(),
	}

	if len(a.targetKeywords) > 0 {
		metrics.TargetKeywordDensity = make(map[string]float64, len(a.targetKeywords))
		for _, keyword := range a.targetKeywords {
			share := TargetKeywordShare(text, keyword)
			metrics.TargetKeywordDensity[keyword] = share
			findings = append(findings, a.targetKeywordFinding(keyword, share))
		}
	}

	data.Report.Content = metrics
	return findings, nil
}

func (a *ContentAnalyzer) targetKeywordFinding(keyword string, share float64) model.Finding {
	t := a.thresholds
	switch {
	case share < t.TargetKeywordMin:
		return finding(model.SeverityWarning, "Target Keyword Underused", ElementKeywords,
			fmt.Sprintf("'%s' makes up %v%% of the content (recommended %v-%v%%).", keyword, share, t.TargetKeywordMin, t.TargetKeywordMax),
			"Use your target keywords naturally in the main content, headings and title.")
	case share > t.TargetKeywordMax:
		return finding(model.SeverityWarning, "Possible Keyword Stuffing", ElementKeywords,
			fmt.Sprintf("'%s' makes up %v%% of the content (recommended %v-%v%%).", keyword, share, t.TargetKeywordMin, t.TargetKeywordMax),
			"Reduce repetition of target keywords and use synonyms or related phrases instead.")
	default:
		return finding(model.SeverityGood, "Target Keyword Density Optimal", ElementKeywords,
			fmt.Sprintf("'%s' makes up %v%% of the content.", keyword, share), "")
	}
}

// textToHTMLRatio returns the text length as a percentage of the markup
// length, rounded to two decimals.
func textToHTMLRatio(text, markup string) float64 {
	total := utf8.RuneCountInString(markup)
	if total == 0 {
		return 0
	}
	return model.Round2(float64(utf8.RuneCountInString(text)) / float64(total) * 100)
}

// Ensure ContentAnalyzer implements CheckAnalyzer.
var _ CheckAnalyzer = (*ContentAnalyzer)(nil)
