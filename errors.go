package uvloop

import (
	"errors"
	"fmt"
)

// Programmer errors: misuse of the API that a caller should treat as a bug,
// not a transient condition. None of these are ever raised via panic — the
// loop returns them like any other error, leaving the decision to abort or
// continue with the caller.
var (
	// ErrAlreadyInitialized is returned by PollInit when the file
	// descriptor is already registered with the loop by a Poll handle.
	// TimerInit, IdleInit and AsyncInit do not detect repeated
	// initialization.
	ErrAlreadyInitialized = errors.New("uvloop: handle already initialized")

	// ErrClosed is returned by Start (Poll, Timer, Idle) and Async.Send on a
	// handle that is already CLOSING or CLOSED. Close on such a handle is a
	// silent no-op, and Stop checks only RUNNING.
	ErrClosed = errors.New("uvloop: handle is closing or closed")

	// ErrNotRunning is returned by Stop when the handle isn't RUNNING.
	ErrNotRunning = errors.New("uvloop: handle is not running")

	// ErrInvalidFD is returned by PollInit for a negative file descriptor.
	ErrInvalidFD = errors.New("uvloop: invalid file descriptor")

	// ErrRegistryFull is returned by NewLoop once the process-wide loop
	// table (fixed capacity, see registry.go) is exhausted.
	ErrRegistryFull = errors.New("uvloop: loop registry is full")

	// ErrLoopClosed names the state of a loop that has gone through
	// DeleteLoop. No function in this package returns it: handle
	// operations do not check whether their loop has been deleted.
	ErrLoopClosed = errors.New("uvloop: loop is closed")
)

// wrapOSError wraps a syscall failure with the operation that produced it,
// preserving errors.Is/As against the underlying errno.
func wrapOSError(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("uvloop: %s: %w", op, err)
}
