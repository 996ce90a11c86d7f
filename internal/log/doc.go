// Package log builds the slog loggers used across seoscan.
//
// Every logger returned here wraps its output handler in a SecureHandler,
// which masks values that must not leak into logs: per-site cookies and
// auth headers from .seoscan.yaml, API keys, and credentials carried in
// URL query strings or userinfo.
//
//	logger := log.NewSecureLogger(os.Stderr, verbose)
//	logger.Debug("fetching", "url", "https://example.com/?token=abc")
//	// url=https://example.com/?token=***REDACTED***
package log
