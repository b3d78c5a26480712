package store

import (
	"errors"
	"fmt"
)

// CommandError is surfaced to the wire as a "-" error reply. It never
// represents an internal bug, only a well-defined domain-level rejection
// of the command as given (wrong type, bad arity, unknown key shape...).
type CommandError struct {
	Message string
}

func (e *CommandError) Error() string { return e.Message }

func cmdErrorf(format string, args ...any) *CommandError {
	return &CommandError{Message: fmt.Sprintf(format, args...)}
}

// ErrClientQuit and ErrShutdown are internal signals, never written to
// the wire directly. The dispatcher recognizes them with errors.Is and
// hands control back to the connection loop / server root.
var (
	ErrClientQuit = errors.New("client quit")
	ErrShutdown   = errors.New("server shutdown")
)

var errIncompatible = errors.New("incompatible data types")
