package view

import (
	"fmt"
	"io"

	"github.com/pkg/errors"
)

// Process exit codes
const (
	ExitOK          = 0
	ExitFailure     = 1
	ExitUsage       = 2
	ExitWaitTimeout = 3
	ExitIO          = 4
)

const usageLine = "Usage: gefview view <regs|bt|backtrace>"

// ExitError carries the exit code for an error returned from a command
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit status %d", e.Code)
	}
	return e.Err.Error()
}

// Unwrap returns the wrapped error
func (e *ExitError) Unwrap() error {
	return e.Err
}

// ExitCode maps an error returned by a command to a process exit code
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// UsageError prints the usage line to w and returns an ExitUsage error
func UsageError(w io.Writer, reason string) error {
	fmt.Fprintln(w, usageLine)
	return &ExitError{Code: ExitUsage, Err: errors.New(reason)}
}
