// Package fetch retrieves pages for analysis.
//
// # Components
//
//   - Client: GET with retries and exponential backoff, plus a HEAD status probe
//   - Cache: TTL cache of successful responses
//   - Limiter: per-host request rate limiting
//   - RobotsChecker: per-host robots.txt verdicts
//
// # Failure modes
//
// A non-2xx response is final and returned as a *StatusError; it is never
// retried. Connection failures and timeouts are retried, sleeping
// backoff*2^attempt between attempts, and reported as a *NoResponseError
// once every attempt has failed. Use errors.Is with ErrHTTPStatus or
// ErrNoResponse to tell them apart.
//
// # Usage
//
//	client := fetch.New(fetch.WithRetries(3), fetch.WithCache(fetch.NewCache(time.Hour)))
//	resp, err := client.Fetch(ctx, "https://example.com/")
package fetch
