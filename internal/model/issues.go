package model

// Technical issue names recorded in TechnicalStats.Issues and counted by
// SummaryReport.
const (
	IssueMissingTitle       = "Missing Title"
	IssueMissingDescription = "Missing Meta Description"
	IssueMultipleH1         = "Multiple H1 Tags"
	IssueNoCanonical        = "No Canonical URL"
	IssueMissingAltText     = "Missing Alt Text on Image"
	IssueMixedContent       = "Mixed Content (HTTP resources on HTTPS page)"
	IssueRobotsNoindex      = "Robots Tag contains 'noindex' directive."
	IssueRobotsNofollow     = "Robots Tag contains 'nofollow' directive."
	IssuePageSizeTooLarge   = "Page Size Too Large"
	IssueClientErrorStatus  = "Client Error Status (4xx)"
	IssueBlockedByRobotsTxt = "Blocked by robots.txt"
)
