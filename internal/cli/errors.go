package cli

import (
	"errors"
	"fmt"
)

// ExitError represents a command failure with a specific exit code.
//
// Commands return NewExitError(code) instead of calling os.Exit, so tests
// can assert on exit codes. [run] extracts the code with [IsExitError] and
// [Execute] performs the actual exit.
type ExitError struct {
	// Code is the exit code to return to the shell: 1 for errors, 2 when
	// the login session was left without logging in.
	Code int
}

// Error returns "exit status N", matching os/exec.
func (e *ExitError) Error() string {
	return fmt.Sprintf("exit status %d", e.Code)
}

// NewExitError creates an [ExitError] with the given exit code.
//
//	if err != nil {
//	    app.Printer.Error("Failed to read users: %v", err)
//	    return NewExitError(ExitCodeError)
//	}
func NewExitError(code int) *ExitError {
	return &ExitError{Code: code}
}

// IsExitError reports whether err is or wraps an [ExitError] and returns
// its code.
func IsExitError(err error) (int, bool) {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code, true
	}
	return 0, false
}
