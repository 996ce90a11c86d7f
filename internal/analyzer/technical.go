package analyzer

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/nao1215/seoscan/internal/document"
	"github.com/nao1215/seoscan/internal/model"
)

// maxMixedContentListed caps how many insecure references a finding lists.
const maxMixedContentListed = 5

// securityHeaders are the response headers a hardened page is expected to send.
var securityHeaders = []string{
	"Strict-Transport-Security",
	"Content-Security-Policy",
	"X-Content-Type-Options",
	"X-Frame-Options",
	"Referrer-Policy",
	"Permissions-Policy",
}

var (
	// styleURL matches url(...) references inside inline style attributes.
	styleURL = regexp.MustCompile(`(?i)url\(\s*['"]?(http://[^'")\s]+)`)

	// hstsMaxAge extracts the max-age directive of Strict-Transport-Security.
	hstsMaxAge = regexp.MustCompile(`(?i)max-age\s*=\s*"?(\d+)`)
)

// mediaSelector selects elements whose src attribute loads a subresource.
const mediaSelector = "img[src], script[src], iframe[src], source[src], video[src], audio[src], embed[src]"

// TechnicalAnalyzer checks transport-level concerns: mixed content, page
// size, load time, security headers, robots.txt and the HTTP status. It also
// compiles the named technical issue list used by batch summaries.
type TechnicalAnalyzer struct {
	thresholds Thresholds
}

// NewTechnicalAnalyzer creates a new TechnicalAnalyzer.
func NewTechnicalAnalyzer(t Thresholds) *TechnicalAnalyzer {
	return &TechnicalAnalyzer{thresholds: t}
}

// Name returns the analyzer name.
func (a *TechnicalAnalyzer) Name() string {
	return "technical"
}

// Category returns the analyzer category.
func (a *TechnicalAnalyzer) Category() string {
	return CategoryTechnical
}

// Analyze runs the technical checks and fills the technical section.
func (a *TechnicalAnalyzer) Analyze(_ context.Context, data *AnalysisData) ([]model.Finding, error) {
	doc := data.Document
	findings := make([]model.Finding, 0)
	stats := model.TechnicalStats{Issues: make([]string, 0)}

	if src := doc.Source(); src != nil && src.Scheme == "https" {
		stats.MixedContent = MixedContent(doc)
	}
	if len(stats.MixedContent) > 0 {
		listed := stats.MixedContent[:min(len(stats.MixedContent), maxMixedContentListed)]
		findings = append(findings, finding(model.SeverityWarning, "Mixed Content", ElementMixedContent,
			fmt.Sprintf("%d resource(s) are loaded over insecure HTTP on an HTTPS page: %s", len(stats.MixedContent), strings.Join(listed, ", ")),
			"Load every resource over HTTPS. Browsers block or warn about insecure subresources on secure pages."))
	}

	if fetch := data.Fetch; fetch != nil {
		findings = append(findings, a.fetchFindings(fetch, &stats)...)
	}

	stats.Issues = a.issues(doc, data.Fetch, stats)
	data.Report.Technical = stats
	return findings, nil
}

func (a *TechnicalAnalyzer) fetchFindings(fetch *model.FetchInfo, stats *model.TechnicalStats) []model.Finding {
	findings := make([]model.Finding, 0)
	t := a.thresholds

	if fetch.PageSizeBytes > t.MaxPageSizeBytes {
		findings = append(findings, finding(model.SeverityWarning, "Page Size Too Large", ElementPageSize,
			fmt.Sprintf("The HTML document is %d KB (recommended: under %d KB).", fetch.PageSizeBytes/1024, t.MaxPageSizeBytes/1024),
			"Reduce the size of the HTML document by removing inline resources, unused markup and excessive inline scripts."))
	}

	switch {
	case fetch.LoadTimeMillis > t.SlowLoadMillis:
		findings = append(findings, finding(model.SeverityWarning, "Slow Page Load Time", ElementLoadTime,
			fmt.Sprintf("The page took %.0f ms to load (recommended: under %.0f ms).", fetch.LoadTimeMillis, t.SlowLoadMillis),
			"Improve server response time and reduce the document size to speed up loading."))
	case fetch.LoadTimeMillis > t.ModerateLoadMillis:
		findings = append(findings, finding(model.SeverityInfo, "Moderate Page Load Time", ElementLoadTime,
			fmt.Sprintf("The page took %.0f ms to load. Faster pages rank and convert better.", fetch.LoadTimeMillis),
			"Consider caching and compression to bring the load time under one second."))
	}

	stats.SecurityHeaders = make(map[string]string)
	missing := make([]string, 0)
	for _, name := range securityHeaders {
		if v, ok := headerValue(fetch.Headers, name); ok {
			stats.SecurityHeaders[name] = v
		} else {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		findings = append(findings, finding(model.SeverityInfo, "Missing Security Headers", ElementSecurityHeaders,
			fmt.Sprintf("The response does not send: %s.", strings.Join(missing, ", ")),
			"Send the standard security headers to protect visitors and signal a well-maintained site."))
	}
	if hsts, ok := stats.SecurityHeaders["Strict-Transport-Security"]; ok {
		if age, ok := parseMaxAge(hsts); !ok || age < t.HSTSMinMaxAge {
			findings = append(findings, finding(model.SeverityWarning, "Weak HSTS Policy", ElementSecurityHeaders,
				fmt.Sprintf("Strict-Transport-Security is '%s'; max-age should be at least %d seconds.", hsts, t.HSTSMinMaxAge),
				fmt.Sprintf("Set Strict-Transport-Security with max-age=%d or higher.", t.HSTSMinMaxAge)))
		}
	}

	if fetch.RobotsAllowed != nil && !*fetch.RobotsAllowed {
		findings = append(findings, finding(model.SeverityWarning, "Blocked by robots.txt", ElementRobotsTxt,
			"The site's robots.txt disallows crawling this page, so search engines will not read its content.",
			"Remove the Disallow rule covering this page if it should appear in search results."))
	}

	if isClientError(fetch.StatusCode) {
		findings = append(findings, finding(model.SeverityError, "Client Error Status", ElementHTTPStatus,
			fmt.Sprintf("The page responded with HTTP %d.", fetch.StatusCode),
			"Make sure the page returns 200 OK, or redirect it to a working address."))
	}

	return findings
}

// issues derives the named technical issues from the document and fetch
// information. It never reads other checks' findings.
func (a *TechnicalAnalyzer) issues(doc *document.Context, fetch *model.FetchInfo, stats model.TechnicalStats) []string {
	issues := make([]string, 0)

	if doc.Find("h1").Length() > a.thresholds.MaxH1 {
		issues = append(issues, model.IssueMultipleH1)
	}
	if doc.Title() == "" {
		issues = append(issues, model.IssueMissingTitle)
	}
	if doc.MetaDescription() == "" {
		issues = append(issues, model.IssueMissingDescription)
	}
	if doc.CanonicalURL() == "" {
		issues = append(issues, model.IssueNoCanonical)
	}
	if slices.ContainsFunc(doc.Images(), func(img document.Image) bool { return !img.HasAlt }) {
		issues = append(issues, model.IssueMissingAltText)
	}
	if len(stats.MixedContent) > 0 {
		issues = append(issues, model.IssueMixedContent)
	}
	robots := doc.MetaRobots()
	if slices.Contains(robots, "noindex") {
		issues = append(issues, model.IssueRobotsNoindex)
	}
	if slices.Contains(robots, "nofollow") {
		issues = append(issues, model.IssueRobotsNofollow)
	}

	if fetch != nil {
		if fetch.PageSizeBytes > a.thresholds.MaxPageSizeBytes {
			issues = append(issues, model.IssuePageSizeTooLarge)
		}
		if isClientError(fetch.StatusCode) {
			issues = append(issues, model.IssueClientErrorStatus)
		}
		if fetch.RobotsAllowed != nil && !*fetch.RobotsAllowed {
			issues = append(issues, model.IssueBlockedByRobotsTxt)
		}
	}
	return issues
}

// MixedContent returns the plain-http subresource references in doc, in
// document order and without duplicates. Addresses are resolved against the
// document, so protocol-relative references inherit the page scheme.
func MixedContent(doc *document.Context) []string {
	seen := make(map[string]bool)
	out := make([]string, 0)
	add := func(ref string) {
		if strings.HasPrefix(strings.ToLower(ref), "http://") && !seen[ref] {
			seen[ref] = true
			out = append(out, ref)
		}
	}

	resolve := func(raw string) {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			return
		}
		if abs, ok := doc.Resolver().Resolve(raw); ok {
			add(abs)
		}
	}

	for _, n := range doc.Find(mediaSelector).Nodes {
		resolve(document.AttrValue(n, "src"))
	}
	for _, n := range doc.Find("link[href]").Nodes {
		rel := strings.Fields(strings.ToLower(document.AttrValue(n, "rel")))
		if slices.Contains(rel, "stylesheet") {
			resolve(document.AttrValue(n, "href"))
		}
	}
	for _, n := range doc.Find("[style]").Nodes {
		for _, m := range styleURL.FindAllStringSubmatch(document.AttrValue(n, "style"), -1) {
			add(m[1])
		}
	}
	return out
}

// isClientError reports whether a status is a 4xx other than 404. A 404 is
// only reflected in the batch status distribution.
func isClientError(code int) bool {
	return code >= http.StatusBadRequest && code < http.StatusInternalServerError && code != http.StatusNotFound
}

func headerValue(headers map[string]string, name string) (string, bool) {
	if v, ok := headers[name]; ok {
		return v, true
	}
	for k, v := range headers {
		if strings.EqualFold(k, name) {
			return v, true
		}
	}
	return "", false
}

func parseMaxAge(hsts string) (int, bool) {
	m := hstsMaxAge.FindStringSubmatch(hsts)
	if m == nil {
		return 0, false
	}
	age, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return age, true
}

// Ensure TechnicalAnalyzer implements CheckAnalyzer.
var _ CheckAnalyzer = (*TechnicalAnalyzer)(nil)
