package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/nao1215/seoscan/internal/config"
	"github.com/nao1215/seoscan/internal/database"
	"github.com/nao1215/seoscan/internal/model"
	"github.com/nao1215/seoscan/internal/report"
)

const testPage = `<!DOCTYPE html>
<html lang="en">
<head>
<title>Widgets for every workshop and garage</title>
<meta name="description" content="Browse our range of sturdy widgets built for workshops, garages and hobby benches, with free delivery.">
</head>
<body>
<h1>Widgets</h1>
<p>Our widgets are sturdy and simple.</p>
<a href="/about">About us</a>
</body>
</html>`

// testSite serves testPage on "/" and "/about", "/private" behind a
// robots.txt disallow, and 404 elsewhere. It records request headers.
type testSite struct {
	*httptest.Server
	mu      sync.Mutex
	cookies []string
}

func newTestSite(t *testing.T) *testSite {
	t.Helper()

	site := &testSite{}
	site.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		site.mu.Lock()
		site.cookies = append(site.cookies, r.Header.Get("Cookie"))
		site.mu.Unlock()

		switch r.URL.Path {
		case "/robots.txt":
			_, _ = fmt.Fprint(w, "User-agent: *\nDisallow: /private\n")
		case "/", "/about", "/private":
			w.Header().Set("Content-Type", "text/html")
			_, _ = fmt.Fprint(w, testPage)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(site.Close)
	return site
}

func (s *testSite) sawCookie(cookie string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.cookies {
		if c == cookie {
			return true
		}
	}
	return false
}

// emptyConfig writes an empty configuration file so tests never pick up a
// file from the working or home directory.
func emptyConfig(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), ".seoscan.yaml")
	if err := os.WriteFile(path, []byte("sites: {}\n"), 0600); err != nil {
		t.Fatal(err)
	}
	return path
}

func runAnalyzeArgs(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := NewAnalyzeCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), err
}

func TestNewAnalyzeCmd(t *testing.T) {
	t.Parallel()

	cmd := NewAnalyzeCmd()

	tests := []struct {
		name      string
		shorthand string
		defValue  string
	}{
		{name: "file", shorthand: "F", defValue: ""},
		{name: "source", shorthand: "s", defValue: ""},
		{name: "timeout", shorthand: "t", defValue: config.DefaultTimeout.String()},
		{name: "retries", shorthand: "r", defValue: "3"},
		{name: "batch", shorthand: "b", defValue: "5"},
		{name: "keyword", shorthand: "k", defValue: "[]"},
		{name: "config", shorthand: "c", defValue: ""},
		{name: "json", shorthand: "j", defValue: "false"},
		{name: "markdown", shorthand: "m", defValue: "false"},
		{name: "output", shorthand: "o", defValue: ""},
		{name: "respect-robots", defValue: "false"},
		{name: "inspect-images", defValue: "false"},
		{name: "check-canonical", defValue: "false"},
		{name: "save", defValue: "false"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			flag := cmd.Flags().Lookup(tt.name)
			if flag == nil {
				t.Fatalf("expected %s flag", tt.name)
			}
			if flag.Shorthand != tt.shorthand {
				t.Errorf("shorthand = %q, want %q", flag.Shorthand, tt.shorthand)
			}
			if flag.DefValue != tt.defValue {
				t.Errorf("default = %q, want %q", flag.DefValue, tt.defValue)
			}
		})
	}
}

func TestBuildConfig(t *testing.T) {
	t.Parallel()

	t.Run("reads flags", func(t *testing.T) {
		t.Parallel()

		cmd := NewAnalyzeCmd()
		if err := cmd.ParseFlags([]string{
			"--timeout", "3s", "--retries", "2", "--batch", "4", "--json",
			"-k", "widgets", "-k", "garage", "--save", "--db-dir", "/tmp/db",
			"--check-canonical", "--config", emptyConfig(t),
		}); err != nil {
			t.Fatal(err)
		}

		cfg, err := buildConfig(cmd, []string{"https://example.com/"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.Timeout.String() != "3s" || cfg.Retries != 2 || cfg.BatchSize != 4 {
			t.Errorf("fetch settings = %v/%d/%d", cfg.Timeout, cfg.Retries, cfg.BatchSize)
		}
		if !cfg.JSONReport || !cfg.SaveToDB || cfg.DBDir != "/tmp/db" {
			t.Errorf("report settings = %+v", cfg)
		}
		if !cfg.CheckCanonical {
			t.Error("expected CheckCanonical to be set")
		}
		if got := strings.Join(cfg.Keywords, ","); got != "widgets,garage" {
			t.Errorf("keywords = %q", got)
		}
		if len(cfg.Targets) != 1 || cfg.File == nil {
			t.Errorf("targets = %v, file = %v", cfg.Targets, cfg.File)
		}
	})

	t.Run("missing explicit config file", func(t *testing.T) {
		t.Parallel()

		cmd := NewAnalyzeCmd()
		if err := cmd.ParseFlags([]string{"--config", filepath.Join(t.TempDir(), "missing.yaml")}); err != nil {
			t.Fatal(err)
		}
		if _, err := buildConfig(cmd, nil); !errors.Is(err, config.ErrConfigNotFound) {
			t.Errorf("err = %v, want ErrConfigNotFound", err)
		}
	})

	t.Run("invalid config file", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "bad.yaml")
		if err := os.WriteFile(path, []byte("sites: [unclosed"), 0600); err != nil {
			t.Fatal(err)
		}
		cmd := NewAnalyzeCmd()
		if err := cmd.ParseFlags([]string{"--config", path}); err != nil {
			t.Fatal(err)
		}
		if _, err := buildConfig(cmd, nil); !errors.Is(err, config.ErrInvalidConfigFile) {
			t.Errorf("err = %v, want ErrInvalidConfigFile", err)
		}
	})
}

func TestRunAnalyzeCmd(t *testing.T) {
	t.Parallel()

	site := newTestSite(t)

	t.Run("single page text report", func(t *testing.T) {
		t.Parallel()

		out, err := runAnalyzeArgs(t, "--config", emptyConfig(t), site.URL+"/")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for _, want := range []string{"SEOSCAN REPORT", site.URL, "Score:"} {
			if !strings.Contains(out, want) {
				t.Errorf("output missing %q:\n%s", want, out)
			}
		}
	})

	t.Run("single page json report", func(t *testing.T) {
		t.Parallel()

		out, err := runAnalyzeArgs(t, "--config", emptyConfig(t), "--json", site.URL+"/")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		var r model.Report
		if err := json.Unmarshal([]byte(out), &r); err != nil {
			t.Fatalf("invalid JSON: %v\n%s", err, out)
		}
		if r.BasicSEO.Title != "Widgets for every workshop and garage" {
			t.Errorf("title = %q", r.BasicSEO.Title)
		}
		if r.Fetch == nil || r.Fetch.StatusCode != http.StatusOK {
			t.Errorf("fetch info = %+v", r.Fetch)
		}
	})

	t.Run("local file resolved against source", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "index.html")
		if err := os.WriteFile(path, []byte(testPage), 0600); err != nil {
			t.Fatal(err)
		}
		out, err := runAnalyzeArgs(t, "--config", emptyConfig(t), "--json",
			"--file", path, "--source", "https://example.com/")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		var r model.Report
		if err := json.Unmarshal([]byte(out), &r); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if r.URL != "https://example.com/" {
			t.Errorf("url = %q", r.URL)
		}
		if r.Fetch != nil {
			t.Errorf("local file should have no fetch info, got %+v", r.Fetch)
		}
	})

	t.Run("batch writes summary", func(t *testing.T) {
		t.Parallel()

		out, err := runAnalyzeArgs(t, "--config", emptyConfig(t), "--json", "--rate-limit", "0",
			site.URL+"/", site.URL+"/about", site.URL+"/missing")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		var batch report.BatchReport
		if err := json.Unmarshal([]byte(out), &batch); err != nil {
			t.Fatalf("invalid JSON: %v\n%s", err, out)
		}
		if len(batch.Reports) != 2 {
			t.Errorf("reports = %d, want 2", len(batch.Reports))
		}
		if batch.Summary == nil || len(batch.Summary.Failures) != 1 {
			t.Errorf("summary = %+v, want one failed page", batch.Summary)
		}
	})

	t.Run("check canonical reports broken canonical url", func(t *testing.T) {
		t.Parallel()

		markup := strings.Replace(testPage, "</head>",
			`<link rel="canonical" href="`+site.URL+`/missing"></head>`, 1)
		path := filepath.Join(t.TempDir(), "index.html")
		if err := os.WriteFile(path, []byte(markup), 0600); err != nil {
			t.Fatal(err)
		}

		hasCanonicalError := func(args ...string) bool {
			t.Helper()
			out, err := runAnalyzeArgs(t, args...)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			var r model.Report
			if err := json.Unmarshal([]byte(out), &r); err != nil {
				t.Fatalf("invalid JSON: %v\n%s", err, out)
			}
			for _, f := range r.Findings {
				if f.Severity == model.SeverityWarning && f.Message == "Canonical URL Returns Error Status" {
					return true
				}
			}
			return false
		}

		base := []string{"--config", emptyConfig(t), "--json", "--file", path, "--source", site.URL + "/"}
		if !hasCanonicalError(append(base, "--check-canonical")...) {
			t.Error("expected a canonical error finding with --check-canonical")
		}
		if hasCanonicalError(base...) {
			t.Error("canonical URL probed without --check-canonical")
		}
	})

	t.Run("upstream error", func(t *testing.T) {
		t.Parallel()

		_, err := runAnalyzeArgs(t, "--config", emptyConfig(t), site.URL+"/missing")
		if err == nil || !strings.Contains(err.Error(), "404") {
			t.Errorf("err = %v, want 404 failure", err)
		}
	})

	t.Run("respect robots skips disallowed page", func(t *testing.T) {
		t.Parallel()

		_, err := runAnalyzeArgs(t, "--config", emptyConfig(t), "--respect-robots", site.URL+"/private")
		if err == nil || !strings.Contains(err.Error(), "robots") {
			t.Errorf("err = %v, want robots failure", err)
		}
	})

	t.Run("conflicting formats", func(t *testing.T) {
		t.Parallel()

		_, err := runAnalyzeArgs(t, "--config", emptyConfig(t), "--json", "--markdown", site.URL+"/")
		if !errors.Is(err, config.ErrConflictingReportFormats) {
			t.Errorf("err = %v, want ErrConflictingReportFormats", err)
		}
	})

	t.Run("no targets", func(t *testing.T) {
		t.Parallel()

		_, err := runAnalyzeArgs(t, "--config", emptyConfig(t))
		if !errors.Is(err, config.ErrNoTarget) {
			t.Errorf("err = %v, want ErrNoTarget", err)
		}
	})

	t.Run("writes markdown to file", func(t *testing.T) {
		t.Parallel()

		outputPath := filepath.Join(t.TempDir(), "reports", "home.md")
		out, err := runAnalyzeArgs(t, "--config", emptyConfig(t), "--markdown", "-o", outputPath, site.URL+"/")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if out != "" {
			t.Errorf("stdout should be empty, got %q", out)
		}
		content, err := os.ReadFile(outputPath)
		if err != nil {
			t.Fatalf("report file: %v", err)
		}
		if !strings.Contains(string(content), "# SEO Report") {
			t.Errorf("markdown report missing heading:\n%s", content)
		}
	})
}

func TestRunAnalyzeSiteSettings(t *testing.T) {
	t.Parallel()

	site := newTestSite(t)
	host := strings.TrimPrefix(site.URL, "http://")

	path := filepath.Join(t.TempDir(), ".seoscan.yaml")
	content := fmt.Sprintf("sites:\n  %q:\n    cookie: \"session=abc123\"\n", strings.Split(host, ":")[0])
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	if _, err := runAnalyzeArgs(t, "--config", path, site.URL+"/"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !site.sawCookie("session=abc123") {
		t.Error("site cookie was not sent")
	}
}

func TestRunAnalyzeSavesHistory(t *testing.T) {
	t.Parallel()

	site := newTestSite(t)
	dbDir := t.TempDir()
	cfgPath := emptyConfig(t)

	for range 2 {
		if _, err := runAnalyzeArgs(t, "--config", cfgPath, "--save", "--db-dir", dbDir, site.URL+"/"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	db, err := database.Open(dbDir, database.DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	metas, err := db.ListReports(context.Background(), site.URL+"/", 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(metas) != 2 {
		t.Errorf("stored reports = %d, want 2", len(metas))
	}
}

func TestNewReportWriter(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		cfg  config.Config
		want string
	}{
		{name: "json", cfg: config.Config{JSONReport: true}, want: "*report.JSONWriter"},
		{name: "markdown", cfg: config.Config{MarkdownReport: true}, want: "*report.MarkdownWriter"},
		{name: "text", cfg: config.Config{}, want: "*report.SimpleWriter"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			w, closeFn, err := newReportWriter(&tt.cfg, io.Discard)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			defer closeFn()
			if got := fmt.Sprintf("%T", w); got != tt.want {
				t.Errorf("writer = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestNewAnalyzerRejectsInvalidThresholds(t *testing.T) {
	t.Parallel()

	negative := -1
	cfg := config.NewConfig()
	cfg.File = &config.File{Thresholds: config.ThresholdOverrides{TitleMin: &negative}}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	if _, err := newAnalyzer(cfg, newFetchClient(cfg, logger), logger); !errors.Is(err, config.ErrInvalidThreshold) {
		t.Errorf("err = %v, want ErrInvalidThreshold", err)
	}
}
