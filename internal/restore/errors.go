package restore

import (
	"errors"
	"fmt"
)

var (
	ErrMissingOutputPath = errors.New("restore: missing restore graph output path")
	ErrMissingTargets    = errors.New("restore: missing restore targets path")
	ErrInvalidProperty   = errors.New("restore: invalid property name")
	ErrDuplicateProperty = errors.New("restore: duplicate property name")
	ErrCancelled         = errors.New("restore: invocation cancelled")
)

// ExitError reports a non-zero MSBuild exit code.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("restore: msbuild exited with code %d", e.Code)
}
