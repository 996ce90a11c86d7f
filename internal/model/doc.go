// Package model defines the data structures shared by the analyzer, the
// pipeline and the report writers.
//
// The central type is Report, the result of analyzing one HTML document.
// A Report carries the measured statistics of every check together with the
// ordered list of Findings those checks produced. Each Finding has a
// Severity from the closed set INFO, GOOD, WARNING, ERROR and CRITICAL.
//
// SummaryReport aggregates many Reports from a batch run.
//
// The models are serializable to JSON for report output and database storage.
package model
