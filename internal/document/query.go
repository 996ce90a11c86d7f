package document

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// nonContentTags never contribute to extracted text.
var nonContentTags = map[atom.Atom]bool{
	atom.Script:   true,
	atom.Style:    true,
	atom.Noscript: true,
	atom.Template: true,
}

// Attr returns the value of the named attribute and whether it is present.
// Attribute names are matched case-insensitively; the parser already
// lower-cases them for HTML elements.
func Attr(n *html.Node, name string) (string, bool) {
	if n == nil {
		return "", false
	}
	for _, a := range n.Attr {
		if a.Namespace == "" && strings.EqualFold(a.Key, name) {
			return a.Val, true
		}
	}
	return "", false
}

// AttrValue returns the named attribute or the empty string.
func AttrValue(n *html.Node, name string) string {
	v, _ := Attr(n, name)
	return v
}

// HasAttr reports whether the named attribute is present, even when empty.
func HasAttr(n *html.Node, name string) bool {
	_, ok := Attr(n, name)
	return ok
}

// TagName returns the lower-case element name, or "" for non-elements.
func TagName(n *html.Node) string {
	if n == nil || n.Type != html.ElementNode {
		return ""
	}
	return strings.ToLower(n.Data)
}

// NearestAncestorWithAttr walks up from n's parent and returns the first
// element carrying the attribute. It never returns n itself.
func NearestAncestorWithAttr(n *html.Node, name string) *html.Node {
	for p := n.Parent; p != nil; p = p.Parent {
		if p.Type == html.ElementNode && HasAttr(p, name) {
			return p
		}
	}
	return nil
}

// DescendantsWithAttr returns the element descendants of n carrying the
// attribute, in document order. n itself is not included.
func DescendantsWithAttr(n *html.Node, name string) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(cur *html.Node) {
		for c := cur.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.ElementNode && HasAttr(c, name) {
				out = append(out, c)
			}
			walk(c)
		}
	}
	walk(n)
	return out
}

// NormalizeSpace collapses runs of whitespace to single spaces and trims the ends.
func NormalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Text returns the whitespace-normalized text of n. Script, style, noscript
// and template content is skipped, as is any element whose tag is in skip.
func Text(n *html.Node, skip ...atom.Atom) string {
	if n == nil {
		return ""
	}
	skipped := make(map[atom.Atom]bool, len(skip))
	for _, a := range skip {
		skipped[a] = true
	}

	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(cur *html.Node) {
		switch cur.Type {
		case html.TextNode:
			sb.WriteString(cur.Data)
			sb.WriteByte(' ')
			return
		case html.ElementNode:
			if nonContentTags[cur.DataAtom] || skipped[cur.DataAtom] {
				return
			}
		case html.CommentNode:
			return
		}
		for c := cur.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return NormalizeSpace(sb.String())
}

// RawText returns the concatenated text children of n without normalization.
// It is meant for script elements, whose content is a single raw text node.
func RawText(n *html.Node) string {
	if n == nil {
		return ""
	}
	var sb strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode {
			sb.WriteString(c.Data)
		}
	}
	return sb.String()
}
