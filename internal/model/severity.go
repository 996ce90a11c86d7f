package model

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Severity represents how strongly a finding affects the page's SEO health.
// The values form a closed, totally ordered set:
// INFO < GOOD < WARNING < ERROR < CRITICAL.
type Severity int

const (
	// SeverityInfo is a neutral observation with no score effect.
	// Examples: no Twitter Card tags, readability not assessed.
	SeverityInfo Severity = iota

	// SeverityGood marks a check that passed.
	// Examples: optimal title length, logical heading hierarchy.
	SeverityGood

	// SeverityWarning marks a problem worth fixing.
	// Examples: multiple H1 tags, missing meta description.
	SeverityWarning

	// SeverityError marks a problem that clearly hurts the page.
	// Examples: missing H1, image without alt attribute, malformed JSON-LD.
	SeverityError

	// SeverityCritical marks a problem that can remove the page from search results.
	// Examples: missing title, noindex directive.
	SeverityCritical
)

// severityNames maps each valid severity to its canonical name.
var severityNames = map[Severity]string{
	SeverityInfo:     "INFO",
	SeverityGood:     "GOOD",
	SeverityWarning:  "WARNING",
	SeverityError:    "ERROR",
	SeverityCritical: "CRITICAL",
}

// String returns a human-readable representation of the severity level.
func (s Severity) String() string {
	if name, ok := severityNames[s]; ok {
		return name
	}
	return "UNKNOWN"
}

// IsValid reports whether s is one of the defined severity levels.
func (s Severity) IsValid() bool {
	_, ok := severityNames[s]
	return ok
}

// Penalty returns the number of points a finding of this severity removes
// from the health score.
func (s Severity) Penalty() int {
	switch s {
	case SeverityCritical:
		return 10
	case SeverityError:
		return 5
	case SeverityWarning:
		return 2
	default:
		return 0
	}
}

// IsActionable reports whether findings of this severity contribute
// recommendations (WARNING and above).
func (s Severity) IsActionable() bool {
	return s >= SeverityWarning && s.IsValid()
}

// ParseSeverity converts a severity name (case-insensitive) into a Severity.
// Unknown names are rejected with ErrUnknownSeverity.
func ParseSeverity(name string) (Severity, error) {
	upper := strings.ToUpper(strings.TrimSpace(name))
	for s, n := range severityNames {
		if n == upper {
			return s, nil
		}
	}
	return SeverityInfo, fmt.Errorf("%w: %q", ErrUnknownSeverity, name)
}

// MarshalJSON encodes the severity as its name.
func (s Severity) MarshalJSON() ([]byte, error) {
	if !s.IsValid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownSeverity, int(s))
	}
	return json.Marshal(s.String())
}

// UnmarshalJSON decodes a severity name, rejecting unknown values.
func (s *Severity) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return fmt.Errorf("%w: %s", ErrUnknownSeverity, string(data))
	}
	parsed, err := ParseSeverity(name)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
