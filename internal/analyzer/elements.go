package analyzer

import "github.com/nao1215/seoscan/internal/model"

// Element types attached to findings.
const (
	ElementTitle            = "Title"
	ElementMetaDescription  = "Meta Description"
	ElementMetaRobots       = "Meta Robots"
	ElementCanonical        = "Canonical URL"
	ElementViewport         = "Viewport"
	ElementCharset          = "Charset"
	ElementHTMLLang         = "HTML Language"
	ElementFavicon          = "Favicon"
	ElementHeadings         = "Headings Structure"
	ElementH1               = "H1 Tag"
	ElementHierarchy        = "Headings Hierarchy"
	ElementContent          = "Content Quality"
	ElementReadability      = "Content Readability"
	ElementKeywords         = "Keyword Usage"
	ElementImageSEO         = "Image SEO"
	ElementImageAlt         = "Image Alt Text"
	ElementLinks            = "Link Structure"
	ElementOpenGraph        = "Open Graph"
	ElementTwitterCard      = "Twitter Card"
	ElementStructured       = "Structured Data"
	ElementStructuredJSONLD = "Structured Data (JSON-LD)"
	ElementStructuredMicro  = "Structured Data (Microdata)"
	ElementStructuredRDFa   = "Structured Data (RDFa)"
	ElementJSONLD           = "JSON-LD"
	ElementMixedContent     = "Mixed Content"
	ElementPageSize         = "Page Size"
	ElementLoadTime         = "Load Time"
	ElementSecurityHeaders  = "Security Headers"
	ElementRobotsTxt        = "Robots.txt"
	ElementHTTPStatus       = "HTTP Status"
	ElementImageMetadata    = "Image Metadata"
)

// finding builds a finding through model.NewFinding. Checks only pass
// severity constants, so an invalid severity is a programming error and
// panics.
func finding(severity model.Severity, message, element, details, recommendation string) model.Finding {
	f, err := model.NewFinding(severity, message, element, details, recommendation)
	if err != nil {
		panic(err)
	}
	return f
}

// truncate returns at most n runes of s.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
