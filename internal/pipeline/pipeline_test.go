package pipeline

import (
	"context"
	"errors"
	"testing"
)

// mockStep is a test helper that implements the Step interface.
type mockStep struct {
	name      string
	doFunc    func(ctx context.Context, target *Target) error
	callCount int
}

func (m *mockStep) Do(ctx context.Context, target *Target) error {
	m.callCount++
	if m.doFunc != nil {
		return m.doFunc(ctx, target)
	}
	return nil
}

func (m *mockStep) Name() string {
	return m.name
}

func TestPipelineNew(t *testing.T) {
	t.Parallel()

	t.Run("creates pipeline with default settings", func(t *testing.T) {
		t.Parallel()

		p := New()
		if p.StepCount() != 0 {
			t.Errorf("expected 0 steps, got %d", p.StepCount())
		}
		if p.continueOnError {
			t.Error("expected continueOnError to be false")
		}
		if p.logger == nil {
			t.Error("expected default logger")
		}
	})

	t.Run("applies WithContinueOnError option", func(t *testing.T) {
		t.Parallel()

		if p := New(WithContinueOnError(true)); !p.continueOnError {
			t.Error("expected continueOnError to be true")
		}
	})
}

func TestPipelineSteps(t *testing.T) {
	t.Parallel()

	p := New()
	p.AddStep(&mockStep{name: "a"})
	p.AddSteps(&mockStep{name: "b"}, &mockStep{name: "c"})

	if p.StepCount() != 3 {
		t.Fatalf("expected 3 steps, got %d", p.StepCount())
	}
	names := p.StepNames()
	for i, want := range []string{"a", "b", "c"} {
		if names[i] != want {
			t.Errorf("step %d: expected %s, got %s", i, want, names[i])
		}
	}
}

func TestPipelineExecute(t *testing.T) {
	t.Parallel()

	errStep := errors.New("step failed")

	t.Run("runs steps in order and records them", func(t *testing.T) {
		t.Parallel()

		var order []string
		record := func(name string) *mockStep {
			return &mockStep{name: name, doFunc: func(context.Context, *Target) error {
				order = append(order, name)
				return nil
			}}
		}
		p := New()
		p.AddSteps(record("first"), record("second"))

		target := NewTarget("https://example.com")
		if err := p.Execute(context.Background(), target); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(order) != 2 || order[0] != "first" || order[1] != "second" {
			t.Errorf("unexpected order %v", order)
		}
		if len(target.PerformedSteps) != 2 {
			t.Errorf("expected 2 performed steps, got %v", target.PerformedSteps)
		}
	})

	t.Run("stops on first error", func(t *testing.T) {
		t.Parallel()

		failing := &mockStep{name: "failing", doFunc: func(context.Context, *Target) error { return errStep }}
		after := &mockStep{name: "after"}
		p := New()
		p.AddSteps(failing, after)

		target := NewTarget("https://example.com")
		err := p.Execute(context.Background(), target)
		if !errors.Is(err, errStep) {
			t.Errorf("expected errStep, got %v", err)
		}
		if !errors.Is(target.Err, errStep) {
			t.Errorf("expected target error to be recorded, got %v", target.Err)
		}
		if after.callCount != 0 {
			t.Error("expected later step to be skipped")
		}
	})

	t.Run("continues on error when configured", func(t *testing.T) {
		t.Parallel()

		failing := &mockStep{name: "failing", doFunc: func(context.Context, *Target) error { return errStep }}
		after := &mockStep{name: "after"}
		p := New(WithContinueOnError(true))
		p.AddSteps(failing, after)

		target := NewTarget("https://example.com")
		if err := p.Execute(context.Background(), target); err != nil {
			t.Errorf("expected nil, got %v", err)
		}
		if after.callCount != 1 {
			t.Error("expected later step to run")
		}
		if !errors.Is(target.Err, errStep) {
			t.Errorf("expected first error to be kept, got %v", target.Err)
		}
	})

	t.Run("respects cancellation", func(t *testing.T) {
		t.Parallel()

		step := &mockStep{name: "never"}
		p := New()
		p.AddStep(step)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		target := NewTarget("https://example.com")
		if err := p.Execute(ctx, target); !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
		if step.callCount != 0 {
			t.Error("expected step not to run")
		}
	})
}

func TestTarget(t *testing.T) {
	t.Parallel()

	t.Run("targets get distinct IDs", func(t *testing.T) {
		t.Parallel()

		a, b := NewTarget("https://a.example"), NewTarget("https://a.example")
		if a.ID == "" || a.ID == b.ID {
			t.Errorf("expected distinct IDs, got %q and %q", a.ID, b.ID)
		}
	})

	t.Run("markup target keeps source as address", func(t *testing.T) {
		t.Parallel()

		target := NewMarkupTarget("<html></html>", "https://example.com/page")
		if target.Address != "https://example.com/page" || target.Markup == "" {
			t.Errorf("unexpected target %+v", target)
		}
		if target.Source() != "https://example.com/page" {
			t.Errorf("unexpected source %s", target.Source())
		}
	})
}
