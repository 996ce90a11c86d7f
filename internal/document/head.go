package document

import (
	"net/url"
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

// faviconRels lists the rel values that declare a favicon, in order of preference.
var faviconRels = []string{"icon", "shortcut icon", "apple-touch-icon", "apple-touch-icon-precomposed"}

// httpEquivCharset extracts the charset from a Content-Type http-equiv value.
var httpEquivCharset = regexp.MustCompile(`(?i)charset=([^;]+)`)

// headTags holds the head-level values read in one pass.
type headTags struct {
	title           string
	metaDescription string
	metaRobots      []string
	canonicalURL    string
	viewport        string
	charset         string
	htmlLang        string
	faviconURL      string
	openGraph       map[string]string
	twitterCard     map[string]string
}

func (c *Context) headValues() headTags {
	return c.head.get(c.readHead)
}

// Title returns the whitespace-normalized text of the first <title>, or "".
func (c *Context) Title() string { return c.headValues().title }

// MetaDescription returns the trimmed content of the description meta tag, or "".
func (c *Context) MetaDescription() string { return c.headValues().metaDescription }

// MetaRobots returns the lower-cased robots directives in declaration order.
func (c *Context) MetaRobots() []string {
	return append([]string(nil), c.headValues().metaRobots...)
}

// CanonicalURL returns the resolved canonical address, or "".
func (c *Context) CanonicalURL() string { return c.headValues().canonicalURL }

// Viewport returns the trimmed viewport meta content, or "".
func (c *Context) Viewport() string { return c.headValues().viewport }

// Charset returns the declared charset in lower case, or "".
func (c *Context) Charset() string { return c.headValues().charset }

// HTMLLang returns the lang attribute of <html>, or "".
func (c *Context) HTMLLang() string { return c.headValues().htmlLang }

// FaviconURL returns the resolved favicon address. When no icon link is
// declared it falls back to /favicon.ico on the source; without a source it
// is "".
func (c *Context) FaviconURL() string { return c.headValues().faviconURL }

// OpenGraph returns the og:* meta tags with non-empty content.
func (c *Context) OpenGraph() map[string]string {
	return copyMap(c.headValues().openGraph)
}

// TwitterCard returns the twitter:* meta tags with non-empty content. Tags
// declared with name= win over the same key declared with property=.
func (c *Context) TwitterCard() map[string]string {
	return copyMap(c.headValues().twitterCard)
}

func (c *Context) readHead() headTags {
	h := headTags{
		title:    Text(c.FindFirst("title")),
		htmlLang: strings.TrimSpace(AttrValue(c.FindFirst("html"), "lang")),
	}

	metas := c.Find("meta").Nodes
	if n := firstWithAttrFold(metas, "name", "description"); n != nil {
		h.metaDescription = strings.TrimSpace(AttrValue(n, "content"))
	}
	if n := firstWithAttrFold(metas, "name", "viewport"); n != nil {
		h.viewport = strings.TrimSpace(AttrValue(n, "content"))
	}
	if n := firstWithAttrFold(metas, "name", "robots"); n != nil {
		for _, d := range strings.Split(AttrValue(n, "content"), ",") {
			if d = strings.ToLower(strings.TrimSpace(d)); d != "" {
				h.metaRobots = append(h.metaRobots, d)
			}
		}
	}
	h.charset = readCharset(metas)

	links := c.Find("link").Nodes
	if n := firstWithAttrFold(links, "rel", "canonical"); n != nil {
		if href := strings.TrimSpace(AttrValue(n, "href")); href != "" {
			if abs, ok := c.resolver.Resolve(href); ok {
				h.canonicalURL = abs
			}
		}
	}
	h.faviconURL = c.readFavicon(links)

	h.openGraph = metaByPrefix(metas, "property", "og:")
	h.twitterCard = metaByPrefix(metas, "property", "twitter:")
	for k, v := range metaByPrefix(metas, "name", "twitter:") {
		h.twitterCard[k] = v
	}

	return h
}

func (c *Context) readFavicon(links []*html.Node) string {
	for _, rel := range faviconRels {
		n := firstWithAttrFold(links, "rel", rel)
		if n == nil {
			continue
		}
		href := strings.TrimSpace(AttrValue(n, "href"))
		if href == "" {
			break
		}
		if abs, ok := c.resolver.Resolve(href); ok {
			return abs
		}
		break
	}
	if c.source != nil {
		return c.source.ResolveReference(&url.URL{Path: "/favicon.ico"}).String()
	}
	return ""
}

func readCharset(metas []*html.Node) string {
	for _, n := range metas {
		if v, ok := Attr(n, "charset"); ok {
			if v = strings.ToLower(strings.TrimSpace(v)); v != "" {
				return v
			}
			break
		}
	}
	if n := firstWithAttrFold(metas, "http-equiv", "content-type"); n != nil {
		if m := httpEquivCharset.FindStringSubmatch(AttrValue(n, "content")); m != nil {
			return strings.ToLower(strings.TrimSpace(m[1]))
		}
	}
	return ""
}

// firstWithAttrFold returns the first node whose attribute equals value,
// ignoring case and surrounding or repeated whitespace.
func firstWithAttrFold(nodes []*html.Node, attr, value string) *html.Node {
	for _, n := range nodes {
		if v, ok := Attr(n, attr); ok && strings.EqualFold(NormalizeSpace(v), value) {
			return n
		}
	}
	return nil
}

// metaByPrefix collects meta tags whose attribute starts with prefix
// (case-insensitive) and whose content is non-empty. Later tags overwrite
// earlier ones with the same key.
func metaByPrefix(metas []*html.Node, attr, prefix string) map[string]string {
	out := make(map[string]string)
	for _, n := range metas {
		key, ok := Attr(n, attr)
		if !ok || !strings.HasPrefix(strings.ToLower(key), prefix) {
			continue
		}
		if content := strings.TrimSpace(AttrValue(n, "content")); content != "" {
			out[key] = content
		}
	}
	return out
}

func copyMap(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
