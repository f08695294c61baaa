package cli

import (
	"errors"
	"fmt"
)

// Process exit codes.
const (
	ExitSuccess      = 0 // menu exit, end of input or interrupt
	ExitFailure      = 1 // the session failed while running
	ExitCommandError = 2 // bad flags, config or data path; the shell never started
)

// ExitError carries the process exit code for a failed run.
type ExitError struct {
	Code    int
	Message string
	Err     error
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// configError reports a problem found before the shell starts.
func configError(message string, err error) *ExitError {
	return &ExitError{Code: ExitCommandError, Message: message, Err: err}
}

// sessionError reports a failure of a running shell session.
func sessionError(err error) *ExitError {
	return &ExitError{Code: ExitFailure, Message: "session error", Err: err}
}

// GetExitCode maps an Execute error to a process exit code.
// nil is ExitSuccess; errors that are not an ExitError are ExitFailure.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}
