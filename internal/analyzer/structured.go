package analyzer

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"regexp"
	"sort"
	"strings"

	"golang.org/x/net/html"

	"github.com/nao1215/seoscan/internal/document"
	"github.com/nao1215/seoscan/internal/model"
)

// Placeholders recorded for a property that is itself a nested item.
const (
	nestedMicrodata = "[Nested Microdata Object]"
	nestedRDFa      = "[Nested RDFa Object]"
)

// htmlComment matches comments that sometimes end up inside JSON-LD scripts.
var htmlComment = regexp.MustCompile(`(?s)<!--.*?-->`)

// microdataSourceTags take their value from src, falling back to data.
var microdataSourceTags = map[string]bool{
	"img":    true,
	"audio":  true,
	"video":  true,
	"iframe": true,
	"embed":  true,
	"object": true,
	"data":   true,
	"source": true,
	"track":  true,
}

// StructuredDataAnalyzer extracts JSON-LD, Microdata and RDFa and reports
// the schema types they declare.
type StructuredDataAnalyzer struct{}

// NewStructuredDataAnalyzer creates a new StructuredDataAnalyzer.
func NewStructuredDataAnalyzer() *StructuredDataAnalyzer {
	return &StructuredDataAnalyzer{}
}

// Name returns the analyzer name.
func (a *StructuredDataAnalyzer) Name() string {
	return "structured_data"
}

// Category returns the analyzer category.
func (a *StructuredDataAnalyzer) Category() string {
	return CategoryStructure
}

// Analyze extracts structured data and fills the structured data section.
func (a *StructuredDataAnalyzer) Analyze(_ context.Context, data *AnalysisData) ([]model.Finding, error) {
	doc := data.Document
	findings := make([]model.Finding, 0)

	objects, jsonFindings := parseJSONLD(doc.JSONLDScripts())
	findings = append(findings, jsonFindings...)

	valid := 0
	for _, obj := range objects {
		_, hasContext := obj["@context"]
		_, hasType := obj["@type"]
		if hasContext && hasType {
			valid++
			continue
		}
		findings = append(findings, finding(model.SeverityWarning, "Incomplete JSON-LD Object", ElementJSONLD,
			"A JSON-LD object is missing '@context' or '@type', so search engines cannot interpret it.",
			"Give every top-level JSON-LD object both an '@context' (usually https://schema.org) and an '@type'."))
	}

	microdata := ExtractMicrodata(doc)
	rdfa := ExtractRDFa(doc)

	switch {
	case len(objects) == 0 && len(microdata) == 0 && len(rdfa) == 0:
		findings = append(findings, finding(model.SeverityInfo, "No Common Structured Data Detected", ElementStructured,
			"No common structured data formats (JSON-LD, Microdata, RDFa) were found on the page.",
			"Consider adding structured data (Schema.org markup, typically via JSON-LD) to help search engines understand your content better and potentially enable rich results in SERPs."))
	default:
		if len(objects) > 0 {
			findings = append(findings, finding(model.SeverityGood, "JSON-LD Data Found", ElementStructuredJSONLD,
				fmt.Sprintf("%d JSON-LD script block(s) or top-level objects detected.", len(objects)),
				"Review the detected JSON-LD data for correctness, completeness, and opportunities for richer data representation according to Schema.org guidelines."))
		}
		if len(microdata) > 0 {
			findings = append(findings, finding(model.SeverityInfo, "Microdata Found", ElementStructuredMicro,
				fmt.Sprintf("%d Microdata item(s) detected within the HTML.", len(microdata)),
				"Microdata is present. While still supported, JSON-LD is now more commonly recommended by Google for new implementations of Schema.org markup."))
		}
		if len(rdfa) > 0 {
			findings = append(findings, finding(model.SeverityInfo, "RDFa Data Found", ElementStructuredRDFa,
				fmt.Sprintf("%d RDFa item(s) (elements with 'typeof') detected.", len(rdfa)),
				"RDFa is present. Similar to Microdata, JSON-LD is often the preferred method for implementing Schema.org due to ease of management."))
		}
	}

	data.Report.StructuredData = model.StructuredData{
		JSONLD:        objects,
		ValidJSONLD:   valid,
		Microdata:     microdata,
		RDFa:          rdfa,
		DetectedTypes: DetectedTypes(objects, microdata, rdfa),
	}
	return findings, nil
}

// parseJSONLD decodes every JSON-LD script. Malformed or empty scripts
// produce findings and are skipped; they never stop the pass.
func parseJSONLD(scripts []string) ([]map[string]any, []model.Finding) {
	objects := make([]map[string]any, 0)
	findings := make([]model.Finding, 0)

	for _, raw := range scripts {
		if strings.TrimSpace(raw) == "" {
			findings = append(findings, finding(model.SeverityInfo, "Empty JSON-LD Script Tag", ElementJSONLD,
				"An empty <script type='application/ld+json'> tag was found.",
				"Remove empty JSON-LD script tags or populate them with valid structured data."))
			continue
		}

		var parsed any
		if err := json.Unmarshal([]byte(htmlComment.ReplaceAllString(raw, "")), &parsed); err != nil {
			findings = append(findings, finding(model.SeverityError, "JSON-LD Parsing Error", ElementJSONLD,
				fmt.Sprintf("Failed to parse JSON-LD. Error: %v. Check content near: %s...", err, truncate(raw, 70)),
				"Validate your JSON-LD markup (e.g., using Google's Rich Results Test or Schema Markup Validator)."))
			continue
		}

		switch v := parsed.(type) {
		case map[string]any:
			objects = append(objects, v)
		case []any:
			for _, item := range v {
				if obj, ok := item.(map[string]any); ok {
					objects = append(objects, obj)
				}
			}
		default:
			findings = append(findings, finding(model.SeverityWarning, "Invalid JSON-LD Top-Level Structure", ElementJSONLD,
				"Parsed JSON-LD content is not a valid JSON object or an array of JSON objects.",
				"Ensure your top-level JSON-LD is a JSON object or an array of JSON objects."))
		}
	}
	return objects, findings
}

// ExtractMicrodata returns every itemscope element that owns at least one
// property. A property belongs to the nearest itemscope ancestor only, so
// properties of nested items never leak into their parent.
func ExtractMicrodata(doc *document.Context) []model.StructuredItem {
	items := make([]model.StructuredItem, 0)
	for _, item := range doc.Find("[itemscope]").Nodes {
		props := model.NewProperties()
		for _, prop := range scopedProperties(item, "itemprop", "itemscope") {
			value, ok := microdataValue(prop)
			if !ok {
				continue
			}
			for _, name := range strings.Fields(document.AttrValue(prop, "itemprop")) {
				props.Add(name, value)
			}
		}
		if props.Len() == 0 {
			continue
		}

		itemType := strings.TrimSpace(document.AttrValue(item, "itemtype"))
		if itemType == "" {
			itemType = model.NoTypeDeclared
		}
		items = append(items, model.StructuredItem{Type: itemType, Properties: props})
	}
	return items
}

func microdataValue(prop *html.Node) (string, bool) {
	tag := document.TagName(prop)
	switch {
	case document.HasAttr(prop, "itemscope"):
		return nestedMicrodata, true
	case tag == "meta":
		return document.Attr(prop, "content")
	case microdataSourceTags[tag]:
		if src := document.AttrValue(prop, "src"); src != "" {
			return src, true
		}
		return document.Attr(prop, "data")
	case tag == "a" || tag == "link" || tag == "area":
		return document.Attr(prop, "href")
	case tag == "time":
		return document.Attr(prop, "datetime")
	default:
		return document.Text(prop), true
	}
}

// ExtractRDFa returns every typeof element that owns a property or names a
// resource, scoped the same way as Microdata.
func ExtractRDFa(doc *document.Context) []model.StructuredItem {
	items := make([]model.StructuredItem, 0)
	for _, item := range doc.Find("[typeof]").Nodes {
		props := model.NewProperties()
		for _, prop := range scopedProperties(item, "property", "typeof") {
			value := rdfaValue(prop)
			for _, name := range strings.Fields(document.AttrValue(prop, "property")) {
				props.Add(name, value)
			}
		}

		uri := ""
		for _, attr := range []string{"resource", "about", "src", "href"} {
			if v, ok := document.Attr(item, attr); ok {
				uri = strings.TrimSpace(v)
				break
			}
		}
		if props.Len() == 0 && uri == "" {
			continue
		}

		itemType := strings.TrimSpace(document.AttrValue(item, "typeof"))
		if itemType == "" {
			itemType = model.NoTypeDeclared
		}
		items = append(items, model.StructuredItem{Type: itemType, Properties: props, ResourceURI: uri})
	}
	return items
}

func rdfaValue(prop *html.Node) string {
	if document.HasAttr(prop, "typeof") {
		return nestedRDFa
	}
	for _, attr := range []string{"content", "href", "src"} {
		if v := document.AttrValue(prop, attr); v != "" {
			return v
		}
	}
	if document.TagName(prop) == "time" {
		if v := document.AttrValue(prop, "datetime"); v != "" {
			return v
		}
	}
	return document.Text(prop)
}

// scopedProperties returns the descendants of item carrying propAttr whose
// nearest ancestor carrying scopeAttr is item itself.
func scopedProperties(item *html.Node, propAttr, scopeAttr string) []*html.Node {
	var out []*html.Node
	for _, prop := range document.DescendantsWithAttr(item, propAttr) {
		if document.NearestAncestorWithAttr(prop, scopeAttr) == item {
			out = append(out, prop)
		}
	}
	return out
}

// DetectedTypes pools the schema types declared by all three formats.
// JSON-LD types are kept verbatim; Microdata and RDFa URL types are reduced
// to their last path segment and compact RDFa types to the part after the
// colon. The result is trimmed, deduplicated and sorted.
func DetectedTypes(objects []map[string]any, microdata, rdfa []model.StructuredItem) []string {
	var types []string
	for _, obj := range objects {
		switch t := obj["@type"].(type) {
		case string:
			types = append(types, t)
		case []any:
			for _, v := range t {
				if s, ok := v.(string); ok {
					types = append(types, s)
				}
			}
		}
	}

	for _, item := range microdata {
		if item.Type == model.NoTypeDeclared {
			continue
		}
		if seg, ok := lastPathSegment(item.Type); ok {
			types = append(types, seg)
		}
	}

	for _, item := range rdfa {
		if item.Type == model.NoTypeDeclared {
			continue
		}
		if strings.Contains(item.Type, ":") && !strings.HasPrefix(item.Type, "http") {
			types = append(types, item.Type[strings.LastIndex(item.Type, ":")+1:])
			continue
		}
		if seg, ok := lastPathSegment(item.Type); ok {
			types = append(types, seg)
		}
	}

	seen := make(map[string]bool, len(types))
	out := make([]string, 0, len(types))
	for _, t := range types {
		t = strings.TrimSpace(t)
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

func lastPathSegment(raw string) (string, bool) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", false
	}
	path := u.Path
	if path == "" {
		path = u.Opaque
	}
	if path == "" {
		return "", false
	}
	return path[strings.LastIndex(path, "/")+1:], true
}

// Ensure StructuredDataAnalyzer implements CheckAnalyzer.
var _ CheckAnalyzer = (*StructuredDataAnalyzer)(nil)
