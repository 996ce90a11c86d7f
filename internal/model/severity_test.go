package model

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestSeverityString(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		severity Severity
		expected string
	}{
		{SeverityInfo, "INFO"},
		{SeverityGood, "GOOD"},
		{SeverityWarning, "WARNING"},
		{SeverityError, "ERROR"},
		{SeverityCritical, "CRITICAL"},
		{Severity(999), "UNKNOWN"},
	}

	for _, tc := range testCases {
		t.Run(tc.expected, func(t *testing.T) {
			t.Parallel()
			if tc.severity.String() != tc.expected {
				t.Errorf("got %q, expected %q", tc.severity.String(), tc.expected)
			}
		})
	}
}

func TestSeverityOrdering(t *testing.T) {
	t.Parallel()

	ordered := []Severity{SeverityInfo, SeverityGood, SeverityWarning, SeverityError, SeverityCritical}
	for i := 1; i < len(ordered); i++ {
		if ordered[i-1] >= ordered[i] {
			t.Errorf("%s should be lower than %s", ordered[i-1], ordered[i])
		}
	}
}

func TestSeverityPenalty(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		severity Severity
		expected int
	}{
		{SeverityInfo, 0},
		{SeverityGood, 0},
		{SeverityWarning, 2},
		{SeverityError, 5},
		{SeverityCritical, 10},
	}

	for _, tc := range testCases {
		t.Run(tc.severity.String(), func(t *testing.T) {
			t.Parallel()
			if got := tc.severity.Penalty(); got != tc.expected {
				t.Errorf("got %d, expected %d", got, tc.expected)
			}
		})
	}
}

func TestSeverityIsActionable(t *testing.T) {
	t.Parallel()

	if SeverityInfo.IsActionable() || SeverityGood.IsActionable() {
		t.Error("INFO and GOOD must not be actionable")
	}
	if !SeverityWarning.IsActionable() || !SeverityError.IsActionable() || !SeverityCritical.IsActionable() {
		t.Error("WARNING and above must be actionable")
	}
	if Severity(42).IsActionable() {
		t.Error("unknown severity must not be actionable")
	}
}

func TestParseSeverity(t *testing.T) {
	t.Parallel()

	t.Run("accepts names case-insensitively", func(t *testing.T) {
		t.Parallel()
		got, err := ParseSeverity(" warning ")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != SeverityWarning {
			t.Errorf("got %s, expected WARNING", got)
		}
	})

	t.Run("rejects unknown names", func(t *testing.T) {
		t.Parallel()
		_, err := ParseSeverity("HIGH")
		if !errors.Is(err, ErrUnknownSeverity) {
			t.Errorf("expected ErrUnknownSeverity, got %v", err)
		}
	})
}

func TestSeverityJSON(t *testing.T) {
	t.Parallel()

	t.Run("encodes as name", func(t *testing.T) {
		t.Parallel()
		data, err := json.Marshal(SeverityCritical)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if string(data) != `"CRITICAL"` {
			t.Errorf("got %s", data)
		}
	})

	t.Run("rejects unknown value on encode", func(t *testing.T) {
		t.Parallel()
		if _, err := json.Marshal(Severity(7)); err == nil {
			t.Error("expected error for unknown severity")
		}
	})

	t.Run("rejects unknown name on decode", func(t *testing.T) {
		t.Parallel()
		var s Severity
		err := json.Unmarshal([]byte(`"SEVERE"`), &s)
		if !errors.Is(err, ErrUnknownSeverity) {
			t.Errorf("expected ErrUnknownSeverity, got %v", err)
		}
	})

	t.Run("decodes known name", func(t *testing.T) {
		t.Parallel()
		var s Severity
		if err := json.Unmarshal([]byte(`"GOOD"`), &s); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if s != SeverityGood {
			t.Errorf("got %s, expected GOOD", s)
		}
	})
}

func TestNewFinding(t *testing.T) {
	t.Parallel()

	t.Run("valid severity", func(t *testing.T) {
		t.Parallel()
		f, err := NewFinding(SeverityError, "Missing H1 Tag", "H1 Tag", "", "Add an H1.")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if f.Severity != SeverityError || f.ElementType != "H1 Tag" {
			t.Errorf("unexpected finding: %+v", f)
		}
	})

	t.Run("invalid severity", func(t *testing.T) {
		t.Parallel()
		_, err := NewFinding(Severity(-1), "x", "y", "", "")
		if !errors.Is(err, ErrUnknownSeverity) {
			t.Errorf("expected ErrUnknownSeverity, got %v", err)
		}
	})
}
