package document

import (
	"strings"

	"golang.org/x/net/html"
)

// Image is one <img> element.
type Image struct {
	// Node is the underlying element.
	Node *html.Node

	// Src is the first non-empty of src, data-src and data-lazy-src.
	Src string

	// Alt is the alt attribute value. Only meaningful when HasAlt is true.
	Alt string

	// HasAlt reports whether the alt attribute is present, even when empty.
	HasAlt bool

	// Decorative reports role="presentation" or aria-hidden="true".
	Decorative bool
}

// Images returns every <img> element in document order.
func (c *Context) Images() []Image {
	return append([]Image(nil), c.images.get(c.readImages)...)
}

func (c *Context) readImages() []Image {
	nodes := c.Find("img").Nodes
	out := make([]Image, 0, len(nodes))
	for _, n := range nodes {
		img := Image{Node: n}
		for _, attr := range []string{"src", "data-src", "data-lazy-src"} {
			if v := strings.TrimSpace(AttrValue(n, attr)); v != "" {
				img.Src = v
				break
			}
		}
		img.Alt, img.HasAlt = Attr(n, "alt")
		img.Decorative = AttrValue(n, "role") == "presentation" || AttrValue(n, "aria-hidden") == "true"
		out = append(out, img)
	}
	return out
}
