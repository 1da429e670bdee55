package errors

import (
	"errors"
	"fmt"
)

// Common sentinel errors
var (
	ErrCorpusUnreadable = errors.New("corpus unreadable")
	ErrInvalidDataset   = errors.New("dataset failed validation")
	ErrOutputUnwritable = errors.New("output unwritable")
	ErrInvalidArtifact  = errors.New("invalid artifact")
	ErrInvalidConfig    = errors.New("invalid config")
)

// Process exit codes, one per fatal condition.
const (
	ExitOK               = 0
	ExitFailure          = 1
	ExitCorpusUnreadable = 2
	ExitInvalidDataset   = 3
	ExitOutputUnwritable = 4
	ExitInvalidArtifact  = 5
	ExitInvalidConfig    = 6
)

// BuildError is a fatal error carrying the exit code the process should
// terminate with.
type BuildError struct {
	Code    int
	Message string
	Err     error
}

func (e *BuildError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *BuildError) Unwrap() error {
	return e.Err
}

// NewBuildError creates a new BuildError.
func NewBuildError(code int, message string, err error) *BuildError {
	return &BuildError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// MapError maps an error to a BuildError with the matching exit code.
func MapError(err error) *BuildError {
	if err == nil {
		return nil
	}

	var buildErr *BuildError
	if errors.As(err, &buildErr) {
		return buildErr
	}

	switch {
	case errors.Is(err, ErrCorpusUnreadable):
		return NewBuildError(ExitCorpusUnreadable, "cannot read corpus", err)
	case errors.Is(err, ErrInvalidDataset):
		return NewBuildError(ExitInvalidDataset, "dataset is invalid, nothing written", err)
	case errors.Is(err, ErrOutputUnwritable):
		return NewBuildError(ExitOutputUnwritable, "dataset is valid but could not be written", err)
	case errors.Is(err, ErrInvalidArtifact):
		return NewBuildError(ExitInvalidArtifact, "artifact rejected", err)
	case errors.Is(err, ErrInvalidConfig):
		return NewBuildError(ExitInvalidConfig, "bad configuration", err)
	}

	return NewBuildError(ExitFailure, "build failed", err)
}
