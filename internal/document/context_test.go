package document

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"testing"
)

const samplePage = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <title>  Sample   Page Title  </title>
  <meta name="Description" content="  A short description.  ">
  <meta name="robots" content="NoIndex, , nofollow">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <link rel="canonical" href="/canonical/">
  <link rel="icon" href="/static/fav.png">
  <meta property="og:title" content="OG Title">
  <meta property="OG:type" content="website">
  <meta property="og:image" content="">
  <meta property="twitter:card" content="summary">
  <meta name="twitter:card" content="summary_large_image">
  <meta property="twitter:title" content="Tw Title">
  <script type="application/ld+json">{"@context":"https://schema.org","@type":"Article"}</script>
</head>
<body>
  <nav><a href="/home">Home</a></nav>
  <h1>Main <b>Heading</b></h1>
  <h3>Sub</h3>
  <h2>   </h2>
  <p>First paragraph.</p>
  <p>Second paragraph.</p>
  <a href="https://other.org/x" rel="NoFollow sponsored">Other</a>
  <a href="#section">Skip me</a>
  <a href="#"></a>
  <a href="mailto:me@example.com">Mail</a>
  <a href="javascript:void(0)">JS</a>
  <img src="/a.png" alt="A">
  <img data-src="/b.png">
  <img src="/c.png" alt="" role="presentation">
  <table><tr><td>x</td></tr></table>
  <iframe src="https://www.youtube.com/embed/abc"></iframe>
  <footer>Footer text</footer>
  <script>var hidden = "script text";</script>
</body>
</html>`

func newSample(t *testing.T) *Context {
	t.Helper()
	c, err := New(samplePage, "https://www.example.com/page")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c
}

func TestNewRejectsEmptyMarkup(t *testing.T) {
	t.Parallel()

	for _, markup := range []string{"", "   \n\t "} {
		if _, err := New(markup, ""); !errors.Is(err, ErrEmptyMarkup) {
			t.Errorf("New(%q): expected ErrEmptyMarkup, got %v", markup, err)
		}
	}
}

func TestNewDropsInvalidSource(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	c, err := New("<p>hi</p>", "not a url", WithLogger(logger))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.HasSource() {
		t.Error("invalid source must be dropped")
	}
	if c.RawSource() != "not a url" {
		t.Errorf("raw source lost: %q", c.RawSource())
	}
	if !strings.Contains(buf.String(), "ignoring invalid source address") {
		t.Errorf("expected warning, got %q", buf.String())
	}
}

func TestHeadTags(t *testing.T) {
	t.Parallel()

	c := newSample(t)

	testCases := []struct {
		name string
		got  string
		want string
	}{
		{"title", c.Title(), "Sample Page Title"},
		{"description", c.MetaDescription(), "A short description."},
		{"viewport", c.Viewport(), "width=device-width, initial-scale=1"},
		{"charset", c.Charset(), "utf-8"},
		{"lang", c.HTMLLang(), "en"},
		{"canonical", c.CanonicalURL(), "https://www.example.com/canonical/"},
		{"favicon", c.FaviconURL(), "https://www.example.com/static/fav.png"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if tc.got != tc.want {
				t.Errorf("got %q, expected %q", tc.got, tc.want)
			}
		})
	}

	t.Run("robots", func(t *testing.T) {
		t.Parallel()
		robots := c.MetaRobots()
		if len(robots) != 2 || robots[0] != "noindex" || robots[1] != "nofollow" {
			t.Errorf("got %v", robots)
		}
	})

	t.Run("open graph", func(t *testing.T) {
		t.Parallel()
		og := c.OpenGraph()
		if og["og:title"] != "OG Title" || og["OG:type"] != "website" {
			t.Errorf("got %v", og)
		}
		if _, ok := og["og:image"]; ok {
			t.Error("empty content must be skipped")
		}
	})

	t.Run("twitter name wins", func(t *testing.T) {
		t.Parallel()
		tw := c.TwitterCard()
		if tw["twitter:card"] != "summary_large_image" {
			t.Errorf("got card %q", tw["twitter:card"])
		}
		if tw["twitter:title"] != "Tw Title" {
			t.Errorf("got title %q", tw["twitter:title"])
		}
	})
}

func TestCharsetFromHTTPEquiv(t *testing.T) {
	t.Parallel()

	c, err := New(`<meta http-equiv="Content-Type" content="text/html; charset=ISO-8859-1">`, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := c.Charset(); got != "iso-8859-1" {
		t.Errorf("got %q", got)
	}
}

func TestFaviconFallback(t *testing.T) {
	t.Parallel()

	c, err := New("<title>x</title>", "https://example.com/a/b")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := c.FaviconURL(); got != "https://example.com/favicon.ico" {
		t.Errorf("got %q", got)
	}

	noSource, err := New("<title>x</title>", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := noSource.FaviconURL(); got != "" {
		t.Errorf("got %q, expected empty", got)
	}
}

func TestHeadings(t *testing.T) {
	t.Parallel()

	levels := newSample(t).Headings()
	if len(levels) != 2 {
		t.Fatalf("got %d levels, expected 2 (empty h2 dropped): %+v", len(levels), levels)
	}
	if levels[0].Level != 1 || levels[0].Texts[0] != "Main Heading" {
		t.Errorf("unexpected h1: %+v", levels[0])
	}
	if levels[1].Level != 3 {
		t.Errorf("unexpected second level: %+v", levels[1])
	}
}

func TestMainContentText(t *testing.T) {
	t.Parallel()

	t.Run("body fallback skips boilerplate and scripts", func(t *testing.T) {
		t.Parallel()
		text := newSample(t).MainContentText()
		for _, banned := range []string{"Home", "Footer text", "script text"} {
			if strings.Contains(text, banned) {
				t.Errorf("main content contains %q: %q", banned, text)
			}
		}
		if !strings.Contains(text, "First paragraph.") {
			t.Errorf("missing paragraph text: %q", text)
		}
	})

	t.Run("main element wins", func(t *testing.T) {
		t.Parallel()
		c, err := New(`<body><div class="content">Div</div><main>  Main   text </main></body>`, "")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := c.MainContentText(); got != "Main text" {
			t.Errorf("got %q", got)
		}
	})
}

func TestLinks(t *testing.T) {
	t.Parallel()

	set := newSample(t).Links()

	if len(set.Internal) != 2 {
		t.Fatalf("got %d internal links, expected 2: %+v", len(set.Internal), set.Internal)
	}
	if set.Internal[1].URL != "https://www.example.com/page" || set.Internal[1].Text != "[No Anchor Text]" {
		t.Errorf("bare # link: %+v", set.Internal[1])
	}
	if len(set.External) != 1 {
		t.Fatalf("got %d external links, expected 1", len(set.External))
	}
	ext := set.External[0]
	if !ext.Nofollow || !ext.Sponsored || ext.UGC {
		t.Errorf("rel parsing: %+v", ext)
	}
	if len(set.All()) != 3 {
		t.Errorf("All() returned %d links", len(set.All()))
	}
}

func TestImagesAndMisc(t *testing.T) {
	t.Parallel()

	c := newSample(t)
	images := c.Images()
	if len(images) != 3 {
		t.Fatalf("got %d images", len(images))
	}
	if images[1].HasAlt || images[1].Src != "/b.png" {
		t.Errorf("lazy image: %+v", images[1])
	}
	if !images[2].HasAlt || images[2].Alt != "" || !images[2].Decorative {
		t.Errorf("decorative image: %+v", images[2])
	}

	if c.ParagraphCount() != 2 {
		t.Errorf("got %d paragraphs", c.ParagraphCount())
	}
	if !c.HasVideos() || !c.HasTables() {
		t.Error("expected video and table to be detected")
	}
	if scripts := c.JSONLDScripts(); len(scripts) != 1 || !strings.Contains(scripts[0], "Article") {
		t.Errorf("got %v", scripts)
	}
}

func TestBaseHrefDrivesResolution(t *testing.T) {
	t.Parallel()

	c, err := New(`<head><base href="https://b.com/dir/"></head><body><a href="p.html">P</a></body>`, "https://a.com/")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	set := c.Links()
	if len(set.External) != 1 || set.External[0].URL != "https://b.com/dir/p.html" {
		t.Errorf("got %+v", set)
	}
}

func TestResetAndConcurrentReads(t *testing.T) {
	t.Parallel()

	c := newSample(t)

	var wg sync.WaitGroup
	results := make([]string, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = c.MainContentText()
			_ = c.Links()
		}(i)
	}
	wg.Wait()
	for _, r := range results {
		if r != results[0] {
			t.Fatal("concurrent readers saw different values")
		}
	}

	if !c.mainContent.loaded() || !c.links.loaded() {
		t.Fatal("expected caches to be populated")
	}
	c.Reset()
	if c.mainContent.loaded() || c.links.loaded() || c.head.loaded() {
		t.Error("Reset must clear caches")
	}
	if c.MainContentText() != results[0] {
		t.Error("recomputed value differs")
	}
}
