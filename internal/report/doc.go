// Package report renders analysis results.
//
// Three writers implement the Writer interface:
//   - SimpleWriter: plain text for the terminal
//   - JSONWriter: the Report structure as JSON for tooling
//   - MarkdownWriter: a shareable document with tables and a mermaid chart
//
// Each writer renders single reports, batch summaries, and whole batches.
package report
