package core

import (
	"errors"
	"fmt"
)

// ErrEmptyInput is returned by the index builder when no usable pages were
// provided. An index is never built from nothing.
var ErrEmptyInput = errors.New("no usable pages to index")

// ExtractError marks one file as unreadable. It is scoped to that file and
// never fails the batch it belongs to.
type ExtractError struct {
	File   string
	Reason error
}

func (e *ExtractError) Error() string {
	return fmt.Sprintf("extracting %s: %v", e.File, e.Reason)
}

func (e *ExtractError) Unwrap() error { return e.Reason }

// BuildError marks a failed index construction. Cause is either
// ErrEmptyInput or the underlying embedding-provider error.
type BuildError struct {
	Cause error
}

func (e *BuildError) Error() string {
	return fmt.Sprintf("building retrieval index: %v", e.Cause)
}

func (e *BuildError) Unwrap() error { return e.Cause }
