package analyzer

import "errors"

// ErrNoHTTPClient is returned by ImageMetadataAnalyzer when no HTTP client
// has been injected with SetHTTPClient.
var ErrNoHTTPClient = errors.New("no HTTP client configured for image inspection")

// ErrNilDocument is returned by Analyze when no document context is given.
var ErrNilDocument = errors.New("document context is nil")
