// Package pipeline runs one page through retrieval, robots.txt checking,
// analysis and storage as a sequence of steps, and runs many pages through
// fresh pipelines concurrently with BatchProcessor.
package pipeline
