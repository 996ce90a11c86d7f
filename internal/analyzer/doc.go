// Package analyzer runs the on-page SEO checks against a document.Context and
// assembles the results into a model.Report.
//
// Each check implements CheckAnalyzer, reads from the shared document context
// and returns its findings; it also fills its own section of the report. The
// Analyzer coordinator runs the registered checks in a fixed order:
//
//	basic tags -> headings -> content -> images -> links -> social ->
//	structured data -> technical [-> image metadata]
//
// and then derives the health score and the recommendation list from the
// accumulated findings. Checks never read each other's findings.
//
// The image metadata check is opt-in because it downloads images; every other
// check is a pure function of the markup, the source address and the optional
// fetch information.
package analyzer
