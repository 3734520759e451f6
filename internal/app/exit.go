package app

import (
	"errors"

	"fo-go/internal/fo"
)

// Process exit codes shared by the command-line tools.
const (
	ExitOK      = 0
	ExitFailure = 1
	ExitUsage   = 2
)

// UsageError marks a flag or argument error reported by the command parser.
type UsageError struct {
	Err error
}

func (e *UsageError) Error() string { return e.Err.Error() }
func (e *UsageError) Unwrap() error { return e.Err }

// ExitCode maps the error returned by a command to the process exit code.
// started is false when the command failed before its run function began,
// which only happens for flag and argument errors.
func ExitCode(err error, started bool) int {
	if err == nil {
		return ExitOK
	}
	var ue *UsageError
	if !started || errors.As(err, &ue) || fo.IsValidationError(err) {
		return ExitUsage
	}
	return ExitFailure
}
