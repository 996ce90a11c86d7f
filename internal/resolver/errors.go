package resolver

import "errors"

// ErrInvalidSource is returned by ParseSource when the address is not an
// absolute http or https URL with a host.
var ErrInvalidSource = errors.New("invalid source address")
