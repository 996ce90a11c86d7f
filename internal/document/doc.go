// Package document wraps one parsed HTML document together with its source
// address and exposes the queries the analysis checks need.
//
// A Context is built once per document with New. Expensive extractions
// (headings, main content, links, images, JSON-LD scripts, head tags) are
// computed on first use and cached. The caches are safe for concurrent
// readers: the first caller computes the value under a lock and every other
// caller sees that same value. Reset drops the caches so the next analysis
// pass starts from the markup again.
//
// Selectors go through goquery; attribute reads, ancestor searches and text
// extraction walk the golang.org/x/net/html node tree directly.
package document
