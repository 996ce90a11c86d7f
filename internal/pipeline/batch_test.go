package pipeline

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/nao1215/seoscan/internal/analyzer"
	"github.com/nao1215/seoscan/internal/model"
)

func TestBatchProcessorNew(t *testing.T) {
	t.Parallel()

	t.Run("defaults", func(t *testing.T) {
		t.Parallel()

		bp := NewBatchProcessor(func() *Pipeline { return New() })
		if bp.concurrency != DefaultConcurrency {
			t.Errorf("expected concurrency %d, got %d", DefaultConcurrency, bp.concurrency)
		}
		if bp.logger == nil {
			t.Error("expected default logger")
		}
	})

	t.Run("ignores non-positive concurrency", func(t *testing.T) {
		t.Parallel()

		bp := NewBatchProcessor(func() *Pipeline { return New() }, WithConcurrency(0))
		if bp.concurrency != DefaultConcurrency {
			t.Errorf("expected concurrency %d, got %d", DefaultConcurrency, bp.concurrency)
		}
	})
}

func TestBatchProcessorConcurrencyLimit(t *testing.T) {
	t.Parallel()

	var current, peak int32
	factory := func() *Pipeline {
		p := New()
		p.AddStep(&mockStep{name: "slow", doFunc: func(context.Context, *Target) error {
			n := atomic.AddInt32(&current, 1)
			for {
				old := atomic.LoadInt32(&peak)
				if n <= old || atomic.CompareAndSwapInt32(&peak, old, n) {
					break
				}
			}
			time.Sleep(20 * time.Millisecond)
			atomic.AddInt32(&current, -1)
			return nil
		}})
		return p
	}

	bp := NewBatchProcessor(factory, WithConcurrency(2))
	addresses := []string{"https://a.example", "https://b.example", "https://c.example", "https://d.example", "https://e.example"}
	result, err := bp.ProcessBatch(context.Background(), addresses)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Targets) != len(addresses) {
		t.Fatalf("expected %d targets, got %d", len(addresses), len(result.Targets))
	}
	if p := atomic.LoadInt32(&peak); p > 2 {
		t.Errorf("expected at most 2 concurrent targets, got %d", p)
	}
}

func TestBatchProcessorResults(t *testing.T) {
	t.Parallel()

	srv := newTestSite(t)
	client := newTestClient(srv)
	a := analyzer.NewAnalyzer()
	factory := func() *Pipeline { return DefaultPipeline(client, a, nil) }

	addresses := []string{srv.URL + "/", srv.URL + "/missing", srv.URL + "/private"}
	result, err := NewBatchProcessor(factory, WithConcurrency(3)).ProcessBatch(context.Background(), addresses)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	t.Run("targets keep input order", func(t *testing.T) {
		t.Parallel()

		for i, address := range addresses {
			if result.Targets[i].Address != address {
				t.Errorf("target %d: expected %s, got %s", i, address, result.Targets[i].Address)
			}
		}
	})

	t.Run("reports exclude failures", func(t *testing.T) {
		t.Parallel()

		reports := result.Reports()
		if len(reports) != 2 {
			t.Fatalf("expected 2 reports, got %d", len(reports))
		}
		if reports[0].URL != srv.URL+"/" {
			t.Errorf("expected first report for %s, got %s", srv.URL+"/", reports[0].URL)
		}
	})

	t.Run("failures carry the status code", func(t *testing.T) {
		t.Parallel()

		failures := result.Failures()
		if len(failures) != 1 {
			t.Fatalf("expected 1 failure, got %d", len(failures))
		}
		if failures[0].StatusCode != http.StatusNotFound {
			t.Errorf("expected 404, got %d", failures[0].StatusCode)
		}
	})

	t.Run("summary counts every address", func(t *testing.T) {
		t.Parallel()

		summary := result.Summary()
		if summary.TotalPages != 3 || summary.AnalyzedPages != 2 {
			t.Errorf("unexpected summary totals %d/%d", summary.TotalPages, summary.AnalyzedPages)
		}
		for _, ic := range summary.CommonIssues {
			if ic.Issue == model.IssueClientErrorStatus {
				t.Error("404 must not count as a client error issue")
			}
		}
	})
}

func TestBatchProcessorCancellation(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	bp := NewBatchProcessor(func() *Pipeline {
		p := New()
		p.AddStep(&mockStep{name: "noop"})
		return p
	})
	result, err := bp.ProcessBatch(ctx, []string{"https://a.example", "https://b.example"})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	for _, target := range result.Targets {
		if !errors.Is(target.Err, context.Canceled) {
			t.Errorf("expected target error context.Canceled, got %v", target.Err)
		}
	}
	if len(result.Failures()) != 2 {
		t.Errorf("expected 2 failures, got %d", len(result.Failures()))
	}
}

func TestProcessTargetsWithCallback(t *testing.T) {
	t.Parallel()

	var (
		mu   sync.Mutex
		seen = make(map[int]string)
	)
	bp := NewBatchProcessor(func() *Pipeline {
		p := New()
		p.AddStep(&mockStep{name: "noop"})
		return p
	})
	targets := []*Target{NewTarget("https://a.example"), NewTarget("https://b.example")}
	err := bp.ProcessTargetsWithCallback(context.Background(), targets, func(target *Target, index int) {
		mu.Lock()
		defer mu.Unlock()
		seen[index] = target.Address
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if seen[0] != "https://a.example" || seen[1] != "https://b.example" {
		t.Errorf("unexpected callbacks %v", seen)
	}
}
