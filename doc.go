// Package uvloop provides a single-threaded, epoll-backed event loop
// multiplexing four handle kinds — [Poll], [Timer], [Async], and [Idle] —
// over one operating-system readiness primitive.
//
// # Architecture
//
// A [Loop] owns one epoll descriptor and one wakeup eventfd. [Loop.Run]
// drives fixed-order dispatch phases each iteration: close, wait (blocks
// in epoll_wait), poll, async, idle, timer. Handles carry a small integer
// identifying their owning loop rather than a pointer to it, so they stay
// trivially copyable; look them up via the process-wide registry
// ([DefaultLoop], [NewLoop], [DeleteLoop]).
//
// # Platform Support
//
// I/O polling is Linux-only, implemented with epoll ([Loop.PollInit]) and
// eventfd (for [Async.Send] wakeups). There is no macOS/kqueue or
// Windows/IOCP backend — the loop only manipulates raw file descriptors
// the caller hands in.
//
// # Thread Safety
//
// [Async.Send] is the only operation safe to call from a goroutine other
// than the one running [Loop.Run]. Every other operation — Init, Start,
// Stop, Close on any handle kind — must happen on the loop's own thread,
// including from inside a callback.
//
// # Execution Model
//
// Per iteration, in order:
//
//  1. Close phase: finalize handles queued by a prior Close call.
//  2. Wait phase: refresh the loop's timepoint, compute an epoll_wait
//     timeout (0 if any idle handle is active, otherwise time to the
//     next timer deadline, otherwise indefinite), and block.
//  3. Poll phase: dispatch ready file descriptors; drain the wakeup fd.
//  4. Async phase: fire callbacks for handles with a pending Send.
//  5. Idle phase: fire every active idle handle's callback.
//  6. Timer phase: fire and, if repeating, re-enqueue expired timers.
//
// # Usage
//
//	loop, err := uvloop.NewLoop()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer uvloop.DeleteLoop(loop)
//
//	var t uvloop.Timer
//	if err := loop.TimerInit(&t); err != nil {
//	    log.Fatal(err)
//	}
//	t.Start(func(t *uvloop.Timer) {
//	    fmt.Println("fired")
//	    t.Close(nil)
//	}, 10*time.Millisecond, 0)
//
//	if err := loop.Run(uvloop.RunDefault); err != nil {
//	    log.Fatal(err)
//	}
//
// # Error Handling
//
// Programmer errors (registering an fd twice with PollInit, starting or
// sending on a closed handle, stopping a handle that is not running) are
// returned as sentinel errors from errors.go, never asserted or panicked.
// Fileno reports a non-Poll handle with a negative EINVAL value. OS errors from epoll/fcntl/eventfd syscalls are wrapped
// with %w. Callback errors are the caller's own responsibility — the loop
// does not recover panics from user callbacks.
package uvloop
