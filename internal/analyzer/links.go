package analyzer

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/nao1215/seoscan/internal/model"
)

// Anchor text buckets.
const (
	AnchorGeneric     = "generic"
	AnchorBranded     = "branded"
	AnchorShortPhrase = "keyword_like_or_short_phrase"
	AnchorLongPhrase  = "descriptive_long_phrase"
)

// genericAnchors are anchor texts that say nothing about the target.
var genericAnchors = map[string]bool{
	"click here":       true,
	"read more":        true,
	"learn more":       true,
	"here":             true,
	"more":             true,
	"link":             true,
	"this link":        true,
	"website":          true,
	"this":             true,
	"continue reading": true,
	"details":          true,
}

// LinkAnalyzer checks internal linking, nofollow usage, the external link
// share and the anchor text distribution.
type LinkAnalyzer struct {
	thresholds Thresholds
}

// NewLinkAnalyzer creates a new LinkAnalyzer.
func NewLinkAnalyzer(t Thresholds) *LinkAnalyzer {
	return &LinkAnalyzer{thresholds: t}
}

// Name returns the analyzer name.
func (a *LinkAnalyzer) Name() string {
	return "links"
}

// Category returns the analyzer category.
func (a *LinkAnalyzer) Category() string {
	return CategoryStructure
}

// Analyze checks the document's links and fills the links section.
func (a *LinkAnalyzer) Analyze(_ context.Context, data *AnalysisData) ([]model.Finding, error) {
	doc := data.Document
	set := doc.Links()
	findings := make([]model.Finding, 0)

	stats := model.LinkStats{
		Internal: len(set.Internal),
		External: len(set.External),
	}
	stats.Total = stats.Internal + stats.External
	for _, l := range set.Internal {
		if l.Nofollow {
			stats.NofollowInternal++
		}
	}
	for _, l := range set.External {
		if l.Nofollow {
			stats.NofollowExternal++
		}
	}
	for _, l := range set.All() {
		if l.Sponsored {
			stats.Sponsored++
		}
		if l.UGC {
			stats.UGC++
		}
	}
	stats.AnchorTextDistribution = AnchorTextDistribution(set.All(), doc.Resolver().PrimaryLabel())

	if stats.Internal == 0 && doc.HasSource() {
		findings = append(findings, finding(model.SeverityWarning, "No Internal Links Found", ElementLinks,
			"The page does not appear to have any internal links to other pages on the same site.",
			"Add relevant internal links to improve site navigation, distribute link equity, and help search engines discover other content."))
	}

	if stats.NofollowInternal > 0 {
		findings = append(findings, finding(model.SeverityInfo, fmt.Sprintf("%d Internal Nofollow Links", stats.NofollowInternal), ElementLinks,
			fmt.Sprintf("%d internal links have the 'nofollow' attribute. This typically prevents link equity from flowing through these links.", stats.NofollowInternal),
			"Review internal nofollow links. Internal links should generally not be 'nofollow'."))
	}

	if stats.Total > 0 && stats.External > a.thresholds.ExternalLinkMinCount &&
		float64(stats.External)/float64(stats.Total) > a.thresholds.ExternalLinkRatio {
		findings = append(findings, finding(model.SeverityInfo, "High Ratio of External Links", ElementLinks,
			fmt.Sprintf("The page has %d external links out of %d total links. This is a significant proportion.", stats.External, stats.Total),
			"Ensure all external links are high-quality and relevant. Consider 'nofollow' or 'sponsored' where appropriate."))
	}

	data.Report.Links = stats
	return findings, nil
}

// AnchorTextDistribution buckets the real anchor texts of links and returns
// each bucket's share in percent, rounded to one decimal. Links without
// anchor text are not counted. brand is the site's primary host label; an
// empty brand disables the branded bucket.
func AnchorTextDistribution(links []model.Link, brand string) map[string]float64 {
	counts := make(map[string]int)
	total := 0
	for _, l := range links {
		if !l.HasAnchorText() || strings.TrimSpace(l.Text) == "" {
			continue
		}
		total++
		text := strings.TrimSpace(foldCase(l.Text))
		switch {
		case genericAnchors[text]:
			counts[AnchorGeneric]++
		case brand != "" && strings.Contains(text, brand):
			counts[AnchorBranded]++
		case len(strings.Fields(text)) <= 3 && utf8.RuneCountInString(text) <= 30:
			counts[AnchorShortPhrase]++
		default:
			counts[AnchorLongPhrase]++
		}
	}

	out := make(map[string]float64, len(counts))
	if total == 0 {
		return out
	}
	for bucket, n := range counts {
		out[bucket] = model.Round1(float64(n) / float64(total) * 100)
	}
	return out
}

// Ensure LinkAnalyzer implements CheckAnalyzer.
var _ CheckAnalyzer = (*LinkAnalyzer)(nil)
