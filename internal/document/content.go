package document

import (
	"strings"

	"golang.org/x/net/html/atom"

	"github.com/nao1215/seoscan/internal/model"
)

// mainContentSelectors are tried in order; the first match is the main content.
var mainContentSelectors = []string{
	"main",
	"article",
	`[role="main"]`,
	".entry-content",
	".post-content",
	".main-content",
	".page-content",
	".content",
	"#content",
	"#main",
	"#primary",
}

// boilerplateTags are excluded from the body fallback.
var boilerplateTags = []atom.Atom{
	atom.Nav,
	atom.Footer,
	atom.Header,
	atom.Aside,
	atom.Form,
}

// Headings returns the present heading levels in ascending order, each with
// its non-empty, whitespace-normalized texts in document order.
func (c *Context) Headings() []model.HeadingLevel {
	levels := c.headings.get(c.readHeadings)
	out := make([]model.HeadingLevel, len(levels))
	for i, l := range levels {
		out[i] = model.HeadingLevel{Level: l.Level, Texts: append([]string(nil), l.Texts...)}
	}
	return out
}

func (c *Context) readHeadings() []model.HeadingLevel {
	levels := make([]model.HeadingLevel, 0, 6)
	for level, tag := range []string{"h1", "h2", "h3", "h4", "h5", "h6"} {
		var texts []string
		for _, n := range c.Find(tag).Nodes {
			if t := Text(n); t != "" {
				texts = append(texts, t)
			}
		}
		if len(texts) > 0 {
			levels = append(levels, model.HeadingLevel{Level: level + 1, Texts: texts})
		}
	}
	return levels
}

// MainContentText returns the whitespace-normalized text of the main content
// area. When no main content selector matches, the body text without
// navigation, header, footer, aside and form elements is used.
func (c *Context) MainContentText() string {
	return c.mainContent.get(func() string {
		for _, sel := range mainContentSelectors {
			if n := c.FindFirst(sel); n != nil {
				return Text(n)
			}
		}
		return Text(c.Body(), boilerplateTags...)
	})
}

// ParagraphCount returns the number of <p> elements.
func (c *Context) ParagraphCount() int {
	return c.Find("p").Length()
}

// HasVideos reports whether the document embeds a <video> or a YouTube or
// Vimeo iframe.
func (c *Context) HasVideos() bool {
	if c.Find("video").Length() > 0 {
		return true
	}
	for _, n := range c.Find("iframe[src]").Nodes {
		src := strings.ToLower(AttrValue(n, "src"))
		if strings.Contains(src, "youtube.com") || strings.Contains(src, "vimeo.com") {
			return true
		}
	}
	return false
}

// HasTables reports whether the document contains a <table>.
func (c *Context) HasTables() bool {
	return c.Find("table").Length() > 0
}

// JSONLDScripts returns the raw content of every
// <script type="application/ld+json"> element in document order.
func (c *Context) JSONLDScripts() []string {
	return append([]string(nil), c.jsonLD.get(func() []string {
		var out []string
		for _, n := range c.Find("script").Nodes {
			if strings.EqualFold(strings.TrimSpace(AttrValue(n, "type")), "application/ld+json") {
				out = append(out, RawText(n))
			}
		}
		return out
	})...)
}
