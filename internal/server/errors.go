package server

import "errors"

var (
	// ErrNoPipeline is returned by New when no pipeline factory is given.
	ErrNoPipeline = errors.New("server needs a pipeline factory")

	// ErrNoStore is returned by New when no report store is given.
	ErrNoStore = errors.New("server needs a report store")
)
