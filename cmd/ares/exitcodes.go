package main

import "fmt"

// Exit codes for the ares CLI.
const (
	ExitOK             = 0 // All reports built.
	ExitInvalidArgs    = 1 // Invalid arguments, configuration or catalogs.
	ExitPartialFailure = 2 // Some reports failed, the others were written.
	ExitTotalFailure   = 3 // No output produced.
)

// exitCodeError carries a non-zero exit code through cobra's error handling.
type exitCodeError struct {
	code int
	msg  string
}

func (e *exitCodeError) Error() string { return e.msg }

// ExitCode returns the exit code for this error.
func (e *exitCodeError) ExitCode() int { return e.code }

// exitError creates an exitCodeError. If msg is empty, the error message is
// set to a generic description of the exit code.
func exitError(code int, format string, args ...any) *exitCodeError {
	msg := fmt.Sprintf(format, args...)
	if msg == "" {
		switch code {
		case ExitPartialFailure:
			msg = "ares: some reports failed"
		case ExitTotalFailure:
			msg = "ares: all reports failed"
		default:
			msg = "ares: error"
		}
	}
	return &exitCodeError{code: code, msg: msg}
}
