package document

import (
	"strings"

	"github.com/nao1215/seoscan/internal/model"
)

// LinkSet holds a document's links split by internal and external target.
type LinkSet struct {
	Internal []model.Link
	External []model.Link
}

// All returns internal links followed by external links.
func (s LinkSet) All() []model.Link {
	out := make([]model.Link, 0, len(s.Internal)+len(s.External))
	out = append(out, s.Internal...)
	return append(out, s.External...)
}

// Links returns the document's anchors with an href, resolved and classified.
//
// Empty hrefs, javascript:, mailto: and tel: links and fragment-only links
// (other than a bare "#") are skipped, as are links that cannot be resolved.
func (c *Context) Links() LinkSet {
	set := c.links.get(c.readLinks)
	return LinkSet{
		Internal: append([]model.Link(nil), set.Internal...),
		External: append([]model.Link(nil), set.External...),
	}
}

func (c *Context) readLinks() LinkSet {
	set := LinkSet{
		Internal: make([]model.Link, 0),
		External: make([]model.Link, 0),
	}
	for _, n := range c.Find("a[href]").Nodes {
		href := strings.TrimSpace(AttrValue(n, "href"))
		if skipHref(href) {
			continue
		}
		abs, ok := c.resolver.Resolve(href)
		if !ok {
			continue
		}

		link := model.Link{
			URL:   abs,
			Text:  Text(n),
			Title: strings.TrimSpace(AttrValue(n, "title")),
		}
		if link.Text == "" {
			link.Text = model.NoAnchorText
		}
		for _, rel := range strings.Fields(strings.ToLower(AttrValue(n, "rel"))) {
			switch rel {
			case "nofollow":
				link.Nofollow = true
			case "sponsored":
				link.Sponsored = true
			case "ugc":
				link.UGC = true
			}
		}

		if c.resolver.IsInternal(abs) {
			set.Internal = append(set.Internal, link)
		} else {
			set.External = append(set.External, link)
		}
	}
	return set
}

func skipHref(href string) bool {
	lower := strings.ToLower(href)
	switch {
	case href == "":
		return true
	case strings.HasPrefix(lower, "javascript:"),
		strings.HasPrefix(lower, "mailto:"),
		strings.HasPrefix(lower, "tel:"):
		return true
	case strings.HasPrefix(href, "#") && len(href) > 1:
		return true
	}
	return false
}
