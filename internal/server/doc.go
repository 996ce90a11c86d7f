// Package server exposes analysis over HTTP with gin.
//
// Routes:
//
//	POST /api/v1/analyze       analyze {"url"} or {"html", "url"}
//	GET  /api/v1/reports       list stored reports (?url=&limit=)
//	GET  /api/v1/reports/:id   fetch one stored report
//	GET  /healthz              liveness
//
// API routes are rate limited per client IP. Every request is logged
// through slog and panics are turned into 500 responses.
package server
