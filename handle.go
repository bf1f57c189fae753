package uvloop

// HandleKind tags the four concrete handle types the loop dispatches.
type HandleKind uint8

const (
	KindPoll HandleKind = iota
	KindTimer
	KindAsync
	KindIdle
)

func (k HandleKind) String() string {
	switch k {
	case KindPoll:
		return "poll"
	case KindTimer:
		return "timer"
	case KindAsync:
		return "async"
	case KindIdle:
		return "idle"
	default:
		return "unknown"
	}
}

// flagBits is the handle flag set named by the spec: RUNNING, CLOSING,
// CLOSED. It is a plain (non-atomic) field — every handle mutation except
// Async.Send happens on the loop's owner thread (see package doc, Thread
// Safety), so there is nothing for a memory-synchronizing type to protect.
type flagBits uint32

const (
	flagRunning flagBits = 1 << iota
	flagClosing
	flagClosed
)

// Handle is the common interface satisfied by Poll, Timer, Async, and Idle.
// A handle belongs to exactly one Loop for its lifetime; loopIndex is
// immutable after Init, and is carried by value (never a pointer) so
// handles stay trivially copyable and never form an ownership cycle with
// their Loop.
type Handle interface {
	Kind() HandleKind
	IsClosing() bool
}

// handle is the field set embedded by every concrete handle type.
type handle struct {
	kind      HandleKind
	flags     flagBits
	loopIndex int
}

func (h *handle) Kind() HandleKind { return h.kind }

// IsClosing reports whether the handle has begun or finished closing. Per
// the spec this is true for both CLOSING and CLOSED, not just CLOSING.
func (h *handle) IsClosing() bool {
	return h.flags&(flagClosing|flagClosed) != 0
}

func (h *handle) isRunning() bool {
	return h.flags&flagRunning != 0
}

func (h *handle) loop() *Loop {
	return loopAt(h.loopIndex)
}

// closeEntry is one row of a Loop's pending-close queue: a handle awaiting
// its close callback, plus the kind-specific cleanup that finally unlinks
// it from whatever dispatch structure it was lazily still a member of.
type closeEntry struct {
	h        Handle
	cb       CloseCallback
	finalize func()
}

// CloseCallback is invoked exactly once per handle, from the close phase,
// after CLOSING flips to CLOSED and num_events has been decremented.
type CloseCallback func(Handle)
