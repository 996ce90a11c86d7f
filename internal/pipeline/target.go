package pipeline

import (
	"errors"

	"github.com/google/uuid"

	"github.com/nao1215/seoscan/internal/fetch"
	"github.com/nao1215/seoscan/internal/model"
)

// Target is one page moving through the pipeline. Steps fill it in order.
type Target struct {
	// ID identifies the target and becomes the report ID.
	ID string

	// Address is the page address. It may be empty for markup-only targets.
	Address string

	// Markup is the document. FetchStep fills it unless it was given.
	Markup string

	// Fetch describes the HTTP response, nil for given markup.
	Fetch *model.FetchInfo

	// RobotsAllowed is the robots.txt verdict, nil when not checked.
	RobotsAllowed *bool

	// Report is the analysis result.
	Report *model.Report

	// PerformedSteps lists the steps that ran, in order.
	PerformedSteps []string

	// Err is the error that stopped the pipeline, if any.
	Err error
}

// NewTarget creates a target that will be fetched from address.
func NewTarget(address string) *Target {
	return &Target{
		ID:             uuid.NewString(),
		Address:        address,
		PerformedSteps: make([]string, 0),
	}
}

// NewMarkupTarget creates a target for markup that is already available.
// source is used to resolve relative addresses and may be empty.
func NewMarkupTarget(markup, source string) *Target {
	t := NewTarget(source)
	t.Markup = markup
	return t
}

// Source returns the address the markup was served from: the final URL
// after redirects when known, otherwise the target address.
func (t *Target) Source() string {
	if t.Fetch != nil && t.Fetch.FinalURL != "" {
		return t.Fetch.FinalURL
	}
	return t.Address
}

// Failure describes a failed target for batch summaries.
func (t *Target) Failure() model.FailedTarget {
	f := model.FailedTarget{Address: t.Address}
	if t.Err != nil {
		f.Error = t.Err.Error()
	}
	var statusErr *fetch.StatusError
	if errors.As(t.Err, &statusErr) {
		f.StatusCode = statusErr.StatusCode
	}
	return f
}
