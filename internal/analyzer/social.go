package analyzer

import (
	"context"
	"fmt"
	"strings"

	"github.com/nao1215/seoscan/internal/model"
)

// requiredOpenGraph are the Open Graph tags every shareable page needs.
var requiredOpenGraph = []string{"og:title", "og:type", "og:image", "og:url"}

// SocialAnalyzer validates Open Graph and Twitter Card tags.
type SocialAnalyzer struct{}

// NewSocialAnalyzer creates a new SocialAnalyzer.
func NewSocialAnalyzer() *SocialAnalyzer {
	return &SocialAnalyzer{}
}

// Name returns the analyzer name.
func (a *SocialAnalyzer) Name() string {
	return "social"
}

// Category returns the analyzer category.
func (a *SocialAnalyzer) Category() string {
	return CategoryOnPage
}

// Analyze validates the social tags and fills the social section.
func (a *SocialAnalyzer) Analyze(_ context.Context, data *AnalysisData) ([]model.Finding, error) {
	og := data.Document.OpenGraph()
	twitter := data.Document.TwitterCard()
	findings := make([]model.Finding, 0, 2)

	missing := make([]string, 0, len(requiredOpenGraph))
	for _, tag := range requiredOpenGraph {
		if og[tag] == "" {
			missing = append(missing, tag)
		}
	}
	switch {
	case len(missing) > 0:
		findings = append(findings, finding(model.SeverityWarning, "Missing Essential Open Graph Tags", ElementOpenGraph,
			fmt.Sprintf("Missing or empty essential OG tags: %s. These are important for how content appears when shared on social platforms like Facebook.", strings.Join(missing, ", ")),
			"Implement all essential Open Graph tags (og:title, og:type, og:image, og:url) with appropriate content for optimal social sharing."))
	case og["og:description"] == "":
		findings = append(findings, finding(model.SeverityInfo, "Missing Recommended Open Graph Description", ElementOpenGraph,
			"The og:description tag is missing or empty. It's highly recommended for a more complete social snippet.",
			"Add an og:description tag to control the summary text when your page is shared on social media platforms."))
	default:
		findings = append(findings, finding(model.SeverityGood, "Essential Open Graph Tags Present", ElementOpenGraph,
			"Essential Open Graph tags (title, type, image, url) are present and have content.", ""))
	}

	card := twitter["twitter:card"]
	switch {
	case len(twitter) == 0:
		findings = append(findings, finding(model.SeverityInfo, "No Twitter Card Tags Found", ElementTwitterCard,
			"No Twitter Card meta tags were found on the page.",
			"Consider adding Twitter Card tags for optimized display and engagement when your content is shared on Twitter."))
	case card == "":
		findings = append(findings, finding(model.SeverityWarning, "Missing Twitter Card Type", ElementTwitterCard,
			"The 'twitter:card' tag, specifying the card type (e.g., 'summary', 'summary_large_image'), is missing or empty.",
			"Specify a Twitter Card type using the 'twitter:card' meta tag for optimal display on Twitter."))
	case twitter["twitter:title"] == "" || twitter["twitter:image"] == "":
		findings = append(findings, finding(model.SeverityWarning, "Potentially Incomplete Twitter Card Tags", ElementTwitterCard,
			"Twitter Card type is specified, but other important tags like twitter:title or twitter:image might be missing or empty.",
			"Ensure your Twitter Card includes twitter:title, twitter:description (recommended), and twitter:image for optimal display and engagement on Twitter."))
	default:
		findings = append(findings, finding(model.SeverityGood, "Twitter Card Tags Appear Configured", ElementTwitterCard,
			fmt.Sprintf("Twitter Card type '%s' is specified and essential tags (title, image) seem present.", card), ""))
	}

	data.Report.Social = model.SocialTags{OpenGraph: og, TwitterCard: twitter}
	return findings, nil
}

// Ensure SocialAnalyzer implements CheckAnalyzer.
var _ CheckAnalyzer = (*SocialAnalyzer)(nil)
