package document

import "errors"

// ErrEmptyMarkup is returned by New when the markup is empty or only whitespace.
var ErrEmptyMarkup = errors.New("markup is empty")
