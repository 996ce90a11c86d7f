package model

import "fmt"

// Finding is a single severity-tagged observation produced by an analysis pass.
type Finding struct {
	// Severity is the impact level of the finding.
	Severity Severity `json:"level"`

	// Message is a short title such as "Missing H1 Tag".
	Message string `json:"message"`

	// ElementType names the page element the finding is about,
	// e.g. "Title", "H1 Tag", "Image Alt Text".
	ElementType string `json:"element_type"`

	// Details carries context such as measured lengths or offending values.
	Details string `json:"details,omitempty"`

	// Recommendation is the suggested fix. Only findings at WARNING or
	// above contribute it to the report's recommendation list.
	Recommendation string `json:"recommendation,omitempty"`
}

// NewFinding creates a Finding, rejecting severities outside the defined set.
func NewFinding(severity Severity, message, elementType, details, recommendation string) (Finding, error) {
	if !severity.IsValid() {
		return Finding{}, fmt.Errorf("%w: %d", ErrUnknownSeverity, int(severity))
	}
	return Finding{
		Severity:       severity,
		Message:        message,
		ElementType:    elementType,
		Details:        details,
		Recommendation: recommendation,
	}, nil
}
