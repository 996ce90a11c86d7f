package document

import (
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/nao1215/seoscan/internal/model"
	"github.com/nao1215/seoscan/internal/resolver"
)

// Context is one parsed document plus its source address and lazily built
// extraction caches. Two Contexts never share state.
type Context struct {
	// markup is the raw document as given to New.
	markup string

	// source is the validated source address. Nil when none was given or
	// the given one was not an absolute http(s) URL.
	source *url.URL

	// rawSource is the source address exactly as given to New.
	rawSource string

	// root is the parsed node tree.
	root *html.Node

	// doc wraps root for selector queries.
	doc *goquery.Document

	// resolver resolves references against <base href> and the source.
	resolver *resolver.Resolver

	// logger receives warnings about unusable input.
	logger *slog.Logger

	head        lazy[headTags]
	headings    lazy[[]model.HeadingLevel]
	mainContent lazy[string]
	links       lazy[LinkSet]
	images      lazy[[]Image]
	jsonLD      lazy[[]string]
}

// Option configures a Context.
type Option func(*Context)

// WithLogger sets the logger used for input warnings.
// If not set, slog.Default() is used.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Context) {
		c.logger = logger
	}
}

// New parses markup into a Context.
//
// Empty or whitespace-only markup is rejected with ErrEmptyMarkup. A source
// address that is not an absolute http(s) URL is logged and dropped; checks
// that depend on the address then degrade instead of failing.
func New(markup, source string, opts ...Option) (*Context, error) {
	if strings.TrimSpace(markup) == "" {
		return nil, ErrEmptyMarkup
	}

	c := &Context{
		markup:    markup,
		rawSource: source,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}

	if strings.TrimSpace(source) != "" {
		u, err := resolver.ParseSource(source)
		if err != nil {
			c.logger.Warn("ignoring invalid source address",
				"url", source,
				"error", err,
			)
		} else {
			c.source = u
		}
	}

	root, err := html.Parse(strings.NewReader(markup))
	if err != nil {
		return nil, fmt.Errorf("failed to parse markup: %w", err)
	}
	c.root = root
	c.doc = goquery.NewDocumentFromNode(root)

	baseHref := ""
	if base := c.doc.Find("base[href]").First(); base.Length() > 0 {
		baseHref, _ = base.Attr("href")
	}
	c.resolver = resolver.New(c.source, baseHref)

	return c, nil
}

// Reset drops every cached extraction.
func (c *Context) Reset() {
	c.head.reset()
	c.headings.reset()
	c.mainContent.reset()
	c.links.reset()
	c.images.reset()
	c.jsonLD.reset()
}

// Markup returns the raw markup.
func (c *Context) Markup() string {
	return c.markup
}

// Source returns the validated source address, or nil.
func (c *Context) Source() *url.URL {
	return c.resolver.Source()
}

// SourceString returns the validated source address as a string, or "".
func (c *Context) SourceString() string {
	if c.source == nil {
		return ""
	}
	return c.source.String()
}

// RawSource returns the source address as given, valid or not.
func (c *Context) RawSource() string {
	return c.rawSource
}

// HasSource reports whether a valid source address is known.
func (c *Context) HasSource() bool {
	return c.source != nil
}

// Resolver returns the document's URL resolver.
func (c *Context) Resolver() *resolver.Resolver {
	return c.resolver
}

// Document returns the goquery document for selector queries.
func (c *Context) Document() *goquery.Document {
	return c.doc
}

// Root returns the parsed node tree.
func (c *Context) Root() *html.Node {
	return c.root
}

// Logger returns the context's logger.
func (c *Context) Logger() *slog.Logger {
	return c.logger
}

// Find returns the elements matching the CSS selector.
func (c *Context) Find(selector string) *goquery.Selection {
	return c.doc.Find(selector)
}

// FindFirst returns the first element matching the CSS selector, or nil.
func (c *Context) FindFirst(selector string) *html.Node {
	sel := c.doc.Find(selector).First()
	if sel.Length() == 0 {
		return nil
	}
	return sel.Get(0)
}

// Body returns the <body> element, or nil.
func (c *Context) Body() *html.Node {
	return c.FindFirst("body")
}
