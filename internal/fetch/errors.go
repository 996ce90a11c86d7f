package fetch

import (
	"errors"
	"fmt"
)

var (
	// ErrHTTPStatus is matched by errors.Is for every *StatusError.
	ErrHTTPStatus = errors.New("unexpected HTTP status")

	// ErrNoResponse is matched by errors.Is for every *NoResponseError.
	ErrNoResponse = errors.New("no response received")

	// ErrInvalidAddress is returned when an address is not an absolute http(s) URL.
	ErrInvalidAddress = errors.New("address must be an absolute http or https URL")
)

// StatusError reports a response with a non-2xx status code.
type StatusError struct {
	URL        string
	StatusCode int
}

// Error implements error.
func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: %s: %d", e.URL, ErrHTTPStatus, e.StatusCode)
}

// Is reports whether target is ErrHTTPStatus.
func (e *StatusError) Is(target error) bool {
	return target == ErrHTTPStatus
}

// NoResponseError reports that no attempt produced a response.
type NoResponseError struct {
	URL      string
	Attempts int
	Err      error
}

// Error implements error.
func (e *NoResponseError) Error() string {
	return fmt.Sprintf("%s: %s after %d attempt(s): %v", e.URL, ErrNoResponse, e.Attempts, e.Err)
}

// Unwrap returns the error of the last attempt.
func (e *NoResponseError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrNoResponse.
func (e *NoResponseError) Is(target error) bool {
	return target == ErrNoResponse
}
