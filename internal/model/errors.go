package model

import "errors"

// ErrUnknownSeverity is returned when a severity name or value is not one of
// INFO, GOOD, WARNING, ERROR or CRITICAL.
var ErrUnknownSeverity = errors.New("unknown severity")
