package analyzer

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/nao1215/seoscan/internal/model"
)

// BasicAnalyzer checks the fundamental head-level tags: title, meta
// description, robots directives, canonical URL, viewport, charset,
// document language and favicon.
type BasicAnalyzer struct {
	thresholds Thresholds
}

// NewBasicAnalyzer creates a new BasicAnalyzer.
func NewBasicAnalyzer(t Thresholds) *BasicAnalyzer {
	return &BasicAnalyzer{thresholds: t}
}

// Name returns the analyzer name.
func (a *BasicAnalyzer) Name() string {
	return "basic"
}

// Category returns the analyzer category.
func (a *BasicAnalyzer) Category() string {
	return CategoryOnPage
}

// Analyze checks the head-level tags and fills the basic section.
func (a *BasicAnalyzer) Analyze(_ context.Context, data *AnalysisData) ([]model.Finding, error) {
	doc := data.Document
	t := a.thresholds
	findings := make([]model.Finding, 0)

	title := doc.Title()
	description := doc.MetaDescription()
	robots := doc.MetaRobots()
	canonical := doc.CanonicalURL()
	viewport := doc.Viewport()
	charset := doc.Charset()
	lang := doc.HTMLLang()
	favicon := doc.FaviconURL()

	titleLen := utf8.RuneCountInString(title)
	switch {
	case title == "":
		findings = append(findings, finding(model.SeverityCritical, "Missing Title Tag", ElementTitle,
			"The <title> tag is crucial; it's missing.",
			fmt.Sprintf("Add a unique, descriptive title (%d-%d chars).", t.TitleMin, t.TitleMax)))
	case titleLen < t.TitleMin:
		findings = append(findings, finding(model.SeverityWarning, "Title Too Short", ElementTitle,
			fmt.Sprintf("Length %d (optimal %d-%d).", titleLen, t.TitleMin, t.TitleMax), "Expand title."))
	case titleLen > t.TitleMax:
		findings = append(findings, finding(model.SeverityWarning, "Title Too Long", ElementTitle,
			fmt.Sprintf("Length %d (optimal %d-%d).", titleLen, t.TitleMin, t.TitleMax), "Shorten title."))
	default:
		findings = append(findings, finding(model.SeverityGood, "Optimal Title Length", ElementTitle,
			fmt.Sprintf("Length %d is optimal.", titleLen), ""))
	}

	descLen := utf8.RuneCountInString(description)
	switch {
	case description == "":
		findings = append(findings, finding(model.SeverityWarning, "Missing Meta Description", ElementMetaDescription,
			"Meta description missing.",
			fmt.Sprintf("Add description (%d-%d chars).", t.DescriptionMin, t.DescriptionMax)))
	case descLen < t.DescriptionMin:
		findings = append(findings, finding(model.SeverityWarning, "Meta Description Too Short", ElementMetaDescription,
			fmt.Sprintf("Length %d (optimal %d-%d).", descLen, t.DescriptionMin, t.DescriptionMax), "Expand description."))
	case descLen > t.DescriptionMax:
		findings = append(findings, finding(model.SeverityWarning, "Meta Description Too Long", ElementMetaDescription,
			fmt.Sprintf("Length %d (optimal %d-%d).", descLen, t.DescriptionMin, t.DescriptionMax), "Shorten description."))
	default:
		findings = append(findings, finding(model.SeverityGood, "Optimal Meta Description Length", ElementMetaDescription,
			fmt.Sprintf("Length %d is optimal.", descLen), ""))
	}

	if len(robots) == 0 {
		findings = append(findings, finding(model.SeverityInfo, "Meta Robots Not Specified", ElementMetaRobots,
			"Defaults to 'index, follow'.", "Add if specific directives needed."))
	}
	if slices.Contains(robots, "noindex") {
		findings = append(findings, finding(model.SeverityCritical, "Page is NoIndexed", ElementMetaRobots,
			"'noindex' present, prevents indexing.", "Remove 'noindex' if page should be indexed."))
	}
	if slices.Contains(robots, "nofollow") {
		findings = append(findings, finding(model.SeverityWarning, "Page is NoFollow", ElementMetaRobots,
			"'nofollow' present, links won't be followed.", "Remove 'nofollow' if links should pass equity."))
	}

	switch {
	case canonical == "":
		findings = append(findings, finding(model.SeverityWarning, "Missing Canonical URL", ElementCanonical,
			"No canonical URL specified. Risk of duplicate content.",
			"Add <link rel='canonical'> pointing to the preferred version."))
	case doc.HasSource():
		page := strings.TrimSpace(doc.RawSource())
		if strings.TrimRight(page, "/") != strings.TrimRight(canonical, "/") {
			findings = append(findings, finding(model.SeverityWarning, "Canonical URL Mismatch", ElementCanonical,
				fmt.Sprintf("Page URL ('%s') differs from canonical ('%s').", page, canonical),
				"Ensure canonical points to the correct preferred version if this is not intentional."))
		} else {
			findings = append(findings, finding(model.SeverityGood, "Canonical URL Matches Page URL", ElementCanonical,
				"Canonical URL correctly points to the current page.", ""))
		}
	default:
		findings = append(findings, finding(model.SeverityInfo, "Canonical URL Present (No Page URL for Comparison)", ElementCanonical,
			fmt.Sprintf("Canonical URL found: %s.", canonical), ""))
	}

	switch {
	case viewport == "":
		findings = append(findings, finding(model.SeverityError, "Missing Viewport Meta Tag", ElementViewport,
			"Viewport meta tag is missing, crucial for mobile responsiveness.",
			`Add '<meta name="viewport" content="width=device-width, initial-scale=1.0">'.`))
	case !strings.Contains(viewport, "width=device-width") || !strings.Contains(viewport, "initial-scale=1"):
		findings = append(findings, finding(model.SeverityWarning, "Suboptimal Viewport Configuration", ElementViewport,
			fmt.Sprintf("Content: '%s'. Might not be optimal.", viewport),
			"Ensure 'width=device-width' and 'initial-scale=1.0'."))
	default:
		findings = append(findings, finding(model.SeverityGood, "Viewport Configured for Mobile", ElementViewport,
			"Viewport appears correctly configured.", ""))
	}

	switch {
	case charset == "":
		findings = append(findings, finding(model.SeverityError, "Charset Not Declared", ElementCharset,
			"Character encoding missing. Can cause display issues.",
			`Declare <meta charset="UTF-8"> (recommended).`))
	case charset != "utf-8":
		findings = append(findings, finding(model.SeverityWarning, "Non-UTF-8 Charset Used", ElementCharset,
			fmt.Sprintf("Charset is '%s'. UTF-8 recommended for compatibility.", charset),
			"Consider switching to UTF-8."))
	default:
		findings = append(findings, finding(model.SeverityGood, "UTF-8 Charset Declared", ElementCharset,
			"Page uses UTF-8 character encoding.", ""))
	}

	if lang == "" {
		findings = append(findings, finding(model.SeverityWarning, "HTML Language Not Declared", ElementHTMLLang,
			"Language not declared in <html> tag. Important for accessibility and SEO.",
			`Add 'lang' attribute to <html> tag (e.g., <html lang="en">).`))
	} else {
		findings = append(findings, finding(model.SeverityGood, "HTML Language Declared", ElementHTMLLang,
			fmt.Sprintf("HTML language declared as '%s'.", lang), ""))
	}

	if favicon == "" {
		findings = append(findings, finding(model.SeverityInfo, "Favicon Not Detected or Specified", ElementFavicon,
			"No specific favicon link tag found, and default /favicon.ico might not be intended or exist.",
			"Add a specific favicon link tag for consistent branding."))
	} else {
		findings = append(findings, finding(model.SeverityGood, "Favicon Link/Default Resolved", ElementFavicon,
			fmt.Sprintf("A favicon URL was resolved: %s", favicon), ""))
	}

	if robots == nil {
		robots = make([]string, 0)
	}
	data.Report.BasicSEO = model.BasicSEO{
		Title:                 title,
		TitleLength:           titleLen,
		MetaDescription:       description,
		MetaDescriptionLength: descLen,
		MetaRobots:            robots,
		CanonicalURL:          canonical,
		Viewport:              viewport,
		Charset:               charset,
		HTMLLang:              lang,
		FaviconURL:            favicon,
	}

	return findings, nil
}

// Ensure BasicAnalyzer implements CheckAnalyzer.
var _ CheckAnalyzer = (*BasicAnalyzer)(nil)
