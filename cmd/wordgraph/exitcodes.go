package main

import (
	"errors"

	"github.com/matsen/wordgraph/internal/config"
	"github.com/matsen/wordgraph/internal/graph"
	"github.com/matsen/wordgraph/internal/word"
)

const (
	ExitSuccess     = 0 // Success
	ExitError       = 1 // General error (invalid arguments, runtime failure)
	ExitConfigError = 2 // Configuration error (unreadable or invalid config)
	ExitDataError   = 3 // Data error (malformed records, validation failure)
)

// exitCodeFor maps pipeline errors onto exit codes.
func exitCodeFor(err error) int {
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, config.ErrInvalid):
		return ExitConfigError
	case errors.Is(err, word.ErrEmptyWord),
		errors.Is(err, word.ErrNegativeTime),
		errors.Is(err, word.ErrNegativeFrequency),
		errors.Is(err, word.ErrNotFinite),
		errors.Is(err, word.ErrDuplicateWord),
		errors.Is(err, graph.ErrMatrixSize):
		return ExitDataError
	default:
		return ExitError
	}
}
