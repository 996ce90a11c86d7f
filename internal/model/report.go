package model

import "time"

// AnalyzerVersion is reported in every Report so stored results can be
// traced back to the rule set that produced them.
const AnalyzerVersion = "1.0.0"

// Report is the complete result of analyzing one document.
//
// Every count in the report is a function of the input markup and source
// address only. ID, AnalyzedAt and Fetch are attached by the pipeline and are
// not part of that contract.
type Report struct {
	// ID uniquely identifies a stored report. Empty until the pipeline assigns one.
	ID string `json:"id,omitempty"`

	// AnalyzerVersion is the version of the rule set.
	AnalyzerVersion string `json:"analyzer_version"`

	// URL is the source address, or empty when the markup had no usable address.
	URL string `json:"url,omitempty"`

	// AnalyzedAt is when the pipeline ran the analysis.
	AnalyzedAt *time.Time `json:"analyzed_at,omitempty"`

	// Fetch describes the HTTP response the markup came from, if any.
	Fetch *FetchInfo `json:"fetch,omitempty"`

	BasicSEO       BasicSEO       `json:"basic_seo"`
	Headings       HeadingStats   `json:"headings"`
	Content        ContentMetrics `json:"content_quality"`
	Images         ImageStats     `json:"images"`
	Links          LinkStats      `json:"links"`
	Social         SocialTags     `json:"social_media_tags"`
	StructuredData StructuredData `json:"structured_data"`
	Technical      TechnicalStats `json:"technical"`
	Health         HealthScore    `json:"seo_health"`

	// Findings holds every finding in the order the checks produced them.
	Findings []Finding `json:"issues"`

	// Recommendations is the sorted set of actionable recommendations.
	Recommendations []string `json:"recommendations"`
}

// NewReport creates an empty report for the given source address.
func NewReport(url string) *Report {
	return &Report{
		AnalyzerVersion: AnalyzerVersion,
		URL:             url,
		Findings:        make([]Finding, 0),
		Recommendations: make([]string, 0),
	}
}

// AddFinding appends a finding. Findings are never deduplicated: two images
// missing alt text are two findings and both count against the score.
func (r *Report) AddFinding(finding Finding) {
	r.Findings = append(r.Findings, finding)
}

// CountBySeverity returns how many findings have the given severity.
func (r *Report) CountBySeverity(severity Severity) int {
	count := 0
	for _, f := range r.Findings {
		if f.Severity == severity {
			count++
		}
	}
	return count
}

// FindingsByElement returns the findings recorded for an element type.
func (r *Report) FindingsByElement(elementType string) []Finding {
	result := make([]Finding, 0)
	for _, f := range r.Findings {
		if f.ElementType == elementType {
			result = append(result, f)
		}
	}
	return result
}

// FetchInfo describes how the document was retrieved.
type FetchInfo struct {
	// StatusCode is the final HTTP status code.
	StatusCode int `json:"status_code"`

	// FinalURL is the address after redirects.
	FinalURL string `json:"final_url,omitempty"`

	// PageSizeBytes is the size of the response body.
	PageSizeBytes int `json:"page_size_bytes"`

	// LoadTimeMillis is the time from request to fully read body.
	LoadTimeMillis float64 `json:"loading_time_ms"`

	// Headers holds the response headers relevant to the audit.
	Headers map[string]string `json:"headers,omitempty"`

	// RobotsAllowed is the robots.txt verdict for the page, nil when not checked.
	RobotsAllowed *bool `json:"robots_allowed,omitempty"`
}

// BasicSEO holds the fundamental head-level tags.
type BasicSEO struct {
	Title                 string   `json:"title,omitempty"`
	TitleLength           int      `json:"title_length"`
	MetaDescription       string   `json:"meta_description,omitempty"`
	MetaDescriptionLength int      `json:"meta_description_length"`
	MetaRobots            []string `json:"meta_robots"`
	CanonicalURL          string   `json:"canonical_url,omitempty"`
	Viewport              string   `json:"viewport,omitempty"`
	Charset               string   `json:"charset,omitempty"`
	HTMLLang              string   `json:"html_lang,omitempty"`
	FaviconURL            string   `json:"favicon_url,omitempty"`
}

// HeadingLevel is one heading level with its non-empty texts in document order.
type HeadingLevel struct {
	Level int      `json:"level"`
	Texts []string `json:"texts"`
}

// HeadingStats summarizes the heading structure.
type HeadingStats struct {
	// Levels lists the present heading levels in ascending order.
	Levels        []HeadingLevel `json:"all_headings"`
	H1Texts       []string       `json:"h1_tags_content"`
	H1Count       int            `json:"h1_count"`
	TotalHeadings int            `json:"total_headings_count"`
}

// KeywordDensity is one term and its density percentage.
type KeywordDensity struct {
	Term    string  `json:"term"`
	Density float64 `json:"density_percent"`
}

// ContentMetrics holds the content quality measurements.
type ContentMetrics struct {
	ContentLength   int     `json:"content_length_chars"`
	WordCount       int     `json:"word_count"`
	TextToHTMLRatio float64 `json:"text_to_html_ratio_percent"`

	// KeywordDensity is ordered by density descending, then term ascending.
	KeywordDensity []KeywordDensity `json:"keyword_density_top_terms"`

	// TargetKeywordDensity maps configured target keywords to their share of all words.
	TargetKeywordDensity map[string]float64 `json:"target_keyword_density,omitempty"`

	// FleschReadingEase is nil when the content was too short to assess.
	FleschReadingEase *float64 `json:"flesch_reading_ease_score"`

	ParagraphCount int  `json:"paragraph_count"`
	HasVideos      bool `json:"has_videos_embedded"`
	HasTables      bool `json:"has_tables_present"`
}

// ImageStats summarizes image alt text coverage.
type ImageStats struct {
	Total            int `json:"total_images_found"`
	WithAlt          int `json:"images_with_alt_attribute"`
	MissingAlt       int `json:"images_missing_alt_attribute"`
	EmptyAlt         int `json:"images_with_empty_alt_text"`
	LongAlt          int `json:"images_with_long_alt_text"`
	DecorativeMarked int `json:"decorative_images_correctly_marked"`
}

// LinkStats summarizes the page's anchors.
type LinkStats struct {
	Total            int `json:"total_links_found"`
	Internal         int `json:"internal_links_count"`
	External         int `json:"external_links_count"`
	NofollowInternal int `json:"nofollow_internal_links_count"`
	NofollowExternal int `json:"nofollow_external_links_count"`
	Sponsored        int `json:"sponsored_links_count"`
	UGC              int `json:"ugc_links_count"`

	// AnchorTextDistribution maps an anchor bucket to its percentage share.
	AnchorTextDistribution map[string]float64 `json:"anchor_text_distribution_percent"`
}

// SocialTags holds the Open Graph and Twitter Card tags.
type SocialTags struct {
	OpenGraph   map[string]string `json:"open_graph_tags"`
	TwitterCard map[string]string `json:"twitter_card_tags"`
}

// StructuredData holds the structured data found in the document.
type StructuredData struct {
	JSONLD []map[string]any `json:"json_ld_data_blocks"`

	// ValidJSONLD counts JSON-LD objects that carry both @context and @type.
	ValidJSONLD int `json:"valid_json_ld_count"`

	Microdata     []StructuredItem `json:"microdata_items"`
	RDFa          []StructuredItem `json:"rdfa_items"`
	DetectedTypes []string         `json:"detected_schema_org_types"`
}

// TechnicalStats holds technical checks that do not fit a single element.
type TechnicalStats struct {
	// Issues lists named technical problems, used by batch summaries.
	Issues []string `json:"technical_issues"`

	// MixedContent lists plain-http resources referenced from an https page.
	MixedContent []string `json:"mixed_content,omitempty"`

	// SecurityHeaders holds the security headers present in the response.
	SecurityHeaders map[string]string `json:"security_headers,omitempty"`
}

// HealthScore is the aggregate score derived from the findings.
type HealthScore struct {
	Score         int `json:"score"`
	TotalIssues   int `json:"total_issues_found"`
	CriticalCount int `json:"critical_issues_count"`
	ErrorCount    int `json:"error_issues_count"`
	WarningCount  int `json:"warning_issues_count"`
}
