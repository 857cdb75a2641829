package volfix

import (
	"errors"
	"fmt"
)

var (
	// ErrDeviceNotFound is returned when no active render device matches the requested prefix
	ErrDeviceNotFound = errors.New("no device with that name found")

	// ErrSessionNotFound is returned when no session on the device satisfies the matcher
	ErrSessionNotFound = errors.New("audio session not found")
)

const (
	ExitOK       = 0
	ExitFailure  = 1 // bad input, nothing found, unknown command
	ExitPlatform = 2 // the audio subsystem failed underneath us
)

// InputError is a problem with what the user asked for, detected before any
// audio subsystem call is made
type InputError struct {
	msg string
}

// NewInputError creates an InputError with the given message
func NewInputError(format string, args ...interface{}) *InputError {
	return &InputError{msg: fmt.Sprintf(format, args...)}
}

func (e *InputError) Error() string {
	return e.msg
}

// PlatformError wraps an unexpected failure of an audio subsystem call. The
// pipeline never continues past one
type PlatformError struct {
	Op  string
	Err error
}

func newPlatformError(op string, err error) *PlatformError {
	return &PlatformError{Op: op, Err: err}
}

func (e *PlatformError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PlatformError) Unwrap() error {
	return e.Err
}

// ExitCode maps the outcome of a command to a process exit status
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}

	var platformErr *PlatformError
	if errors.As(err, &platformErr) {
		return ExitPlatform
	}

	return ExitFailure
}
