package cli

import (
	"errors"
	"fmt"
)

const (
	// ExitFailure is returned for failed or unrecognized commands
	ExitFailure = 1
	// ExitUsage is returned for malformed command arguments
	ExitUsage = 2
)

// ErrUsage marks errors caused by malformed command arguments
var ErrUsage = errors.New("usage error")

// ExitError signals a non-zero exit code without calling os.Exit in handlers.
// Err is nil when the failure was already reported on the output.
type ExitError struct {
	Code int
	Err  error
}

// Error returns the error message for ExitError
func (e *ExitError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("exit status %d", e.Code)
}

// Unwrap returns the underlying error, if any
func (e *ExitError) Unwrap() error {
	return e.Err
}

func usageErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrUsage, fmt.Sprintf(format, args...))
}
