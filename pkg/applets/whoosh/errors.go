package whoosh

import (
	"errors"
	"fmt"
)

// Causes behind the generic error message. Users never see these; they are
// recorded in the debug log.
var (
	ErrUsage       = errors.New("bad arguments")
	ErrRedirect    = errors.New("bad redirection")
	ErrLineTooLong = errors.New("line too long")
	ErrNotFound    = errors.New("command not found")
	ErrExec        = errors.New("cannot execute")
	ErrDirectory   = errors.New("cannot change directory")

	// ErrExit is returned by the exit builtin to end the read loop normally.
	ErrExit = errors.New("exit")
)

// FatalError terminates the shell with a failure status.
type FatalError struct {
	Err error
}

func (e *FatalError) Error() string {
	return "fatal: " + e.Err.Error()
}

func (e *FatalError) Unwrap() error {
	return e.Err
}

func fatal(err error) error {
	return &FatalError{Err: err}
}

func fatalf(format string, args ...any) error {
	return &FatalError{Err: fmt.Errorf(format, args...)}
}

// IsFatal reports whether err should terminate the shell.
func IsFatal(err error) bool {
	var fe *FatalError
	return errors.As(err, &fe)
}
