package fetch

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

// TestRobotsChecker tests robots.txt verdicts and caching.
func TestRobotsChecker(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/robots.txt" {
			http.NotFound(w, r)
			return
		}
		hits.Add(1)
		_, _ = fmt.Fprint(w, "User-agent: *\nDisallow: /private/\n\nUser-agent: seoscan\nDisallow: /no-seoscan\n")
	}))
	t.Cleanup(srv.Close)

	checker := NewRobotsChecker(srv.Client(), DefaultUserAgent, nil)

	tests := []struct {
		path string
		want bool
	}{
		{"/", true},
		{"/public/page", true},
		{"/no-seoscan", false},
		{"/private/page", true},
	}
	for _, tt := range tests {
		got, err := checker.Allowed(context.Background(), srv.URL+tt.path)
		if err != nil {
			t.Fatalf("Allowed(%s): %v", tt.path, err)
		}
		if got != tt.want {
			t.Errorf("Allowed(%s) = %v, want %v", tt.path, got, tt.want)
		}
	}
	if hits.Load() != 1 {
		t.Errorf("robots.txt fetched %d times, want 1", hits.Load())
	}

	t.Run("missing robots.txt allows everything", func(t *testing.T) {
		t.Parallel()

		empty := httptest.NewServer(http.NotFoundHandler())
		t.Cleanup(empty.Close)

		allowed, err := NewRobotsChecker(empty.Client(), "seoscan", nil).Allowed(context.Background(), empty.URL+"/anything")
		if err != nil || !allowed {
			t.Errorf("Allowed = %v, %v", allowed, err)
		}
	})

	t.Run("invalid address", func(t *testing.T) {
		t.Parallel()

		if _, err := checker.Allowed(context.Background(), "::nope"); !errors.Is(err, ErrInvalidAddress) {
			t.Errorf("err = %v, want ErrInvalidAddress", err)
		}
	})
}

// TestNormalizeUserAgent tests product token extraction.
func TestNormalizeUserAgent(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"seoscan/1.0", "seoscan"},
		{DefaultUserAgent, "seoscan"},
		{"Googlebot", "Googlebot"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := NormalizeUserAgent(tt.in); got != tt.want {
			t.Errorf("NormalizeUserAgent(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
