package pipeline

import "errors"

var (
	// ErrNoMarkup is returned by AnalyzeStep when no markup was fetched or given.
	ErrNoMarkup = errors.New("no markup to analyze")

	// ErrNoAddress is returned by steps that need an address when the target has none.
	ErrNoAddress = errors.New("target has no address")

	// ErrBlockedByRobots is returned by an enforcing RobotsStep when
	// robots.txt disallows the page.
	ErrBlockedByRobots = errors.New("blocked by robots.txt")
)
