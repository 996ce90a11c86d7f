package fetch

import (
	"context"
	"testing"
	"time"
)

// TestLimiter tests per-host limiting.
func TestLimiter(t *testing.T) {
	t.Parallel()

	t.Run("limits each host separately", func(t *testing.T) {
		t.Parallel()

		l := NewLimiter(0.001, 1)
		if !l.Allow("https://a.example/x") {
			t.Error("first request to a denied")
		}
		if l.Allow("https://a.example/y") {
			t.Error("second request to a allowed")
		}
		if !l.Allow("https://b.example/") {
			t.Error("first request to b denied")
		}
	})

	t.Run("non-positive rate is unlimited", func(t *testing.T) {
		t.Parallel()

		l := NewLimiter(0, 0)
		for i := 0; i < 10; i++ {
			if !l.Allow("https://a.example/") {
				t.Fatalf("request %d denied", i)
			}
		}
	})

	t.Run("wait honors context", func(t *testing.T) {
		t.Parallel()

		l := NewLimiter(0.001, 1)
		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()

		if err := l.Wait(ctx, "https://a.example/"); err != nil {
			t.Fatalf("first Wait: %v", err)
		}
		if err := l.Wait(ctx, "https://a.example/"); err == nil {
			t.Error("second Wait succeeded, want context error")
		}
	})
}
