package pipeline

import "errors"

var (
	// ErrOutputDirNotSet indicates no output directory is configured; no run
	// can produce an artifact without one.
	ErrOutputDirNotSet = errors.New("no output directory is set")

	// ErrInvalidPath indicates the submitted path does not point at a
	// readable file.
	ErrInvalidPath = errors.New("input path is not a valid file")

	// ErrWithdrawn wraps the failure the operator chose not to retry.
	ErrWithdrawn = errors.New("run withdrawn by operator")
)
