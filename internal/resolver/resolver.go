package resolver

import (
	"fmt"
	"net/url"
	"strings"
)

// Resolver resolves references relative to a document's effective base.
// A Resolver is immutable and safe for concurrent use.
type Resolver struct {
	// source is the address the document was loaded from. Nil when unknown.
	source *url.URL

	// base is the effective base for relative references. Nil when none
	// could be determined.
	base *url.URL
}

// ParseSource parses raw as a source address. Only absolute http and https
// URLs with a host are accepted.
func ParseSource(raw string) (*url.URL, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, fmt.Errorf("%w: empty address", ErrInvalidSource)
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSource, err)
	}
	if !isWebScheme(u.Scheme) || u.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidSource, raw)
	}
	return u, nil
}

// New creates a Resolver for a document loaded from source whose first
// <base> element carries baseHref. Either may be empty/nil.
//
// The effective base is chosen in this order: an absolute <base href>; a
// relative <base href> joined with the source; the source itself. An empty or
// whitespace <base href> falls back to the source. A relative <base href>
// without a source leaves the resolver without a base.
func New(source *url.URL, baseHref string) *Resolver {
	r := &Resolver{source: source}

	href := strings.TrimSpace(baseHref)
	if href == "" {
		r.base = source
		return r
	}

	parsed, err := url.Parse(href)
	switch {
	case err == nil && parsed.Scheme != "" && parsed.Host != "":
		r.base = parsed
	case source != nil:
		if err != nil {
			r.base = source
		} else {
			r.base = source.ResolveReference(parsed)
		}
	}
	return r
}

// Source returns the source address, or nil when unknown.
func (r *Resolver) Source() *url.URL {
	if r.source == nil {
		return nil
	}
	u := *r.source
	return &u
}

// HasSource reports whether the resolver knows the document's address.
func (r *Resolver) HasSource() bool {
	return r.source != nil
}

// Resolve returns the absolute form of reference.
//
// References that already carry an http or https scheme and a host, and
// references with any other scheme (mailto, tel, data and so on), are
// returned unchanged. When no base is known, a root-relative reference is
// returned as-is and anything else is unresolvable.
func (r *Resolver) Resolve(reference string) (string, bool) {
	ref := strings.TrimSpace(reference)
	if ref == "" {
		return "", false
	}

	parsed, err := url.Parse(ref)
	if err == nil && parsed.Scheme != "" {
		if !isWebScheme(parsed.Scheme) || parsed.Host != "" {
			return ref, true
		}
	}

	if r.base == nil {
		if strings.HasPrefix(ref, "/") {
			return ref, true
		}
		return "", false
	}
	if err != nil {
		return "", false
	}
	return r.base.ResolveReference(parsed).String(), true
}

// IsInternal reports whether candidate points at the same site as the source.
//
// Hosts are compared after lower-casing and stripping one leading "www.".
// A candidate without a host is internal. Without a source, only host-less
// candidates without a scheme are internal.
func (r *Resolver) IsInternal(candidate string) bool {
	c := strings.TrimSpace(candidate)
	parsed, err := url.Parse(c)

	if r.source == nil {
		if c == "" {
			return true
		}
		return err == nil && parsed.Scheme == ""
	}
	if c == "" || err != nil {
		return c == ""
	}
	if parsed.Host == "" {
		return true
	}
	return normalizeHost(parsed.Host) == normalizeHost(r.source.Host)
}

// PrimaryLabel returns the first DNS label of the source host without a
// leading "www.", lower-cased. Empty when the source is unknown.
func (r *Resolver) PrimaryLabel() string {
	if r.source == nil {
		return ""
	}
	host := normalizeHost(r.source.Hostname())
	label, _, _ := strings.Cut(host, ".")
	return label
}

func normalizeHost(host string) string {
	return strings.TrimPrefix(strings.ToLower(host), "www.")
}

func isWebScheme(scheme string) bool {
	s := strings.ToLower(scheme)
	return s == "http" || s == "https"
}
