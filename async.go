package uvloop

import (
	"encoding/binary"
)

// AsyncCallback is invoked on the loop thread once per coalesced batch of
// Send calls.
type AsyncCallback func(a *Async)

// Async is the sole thread-safe handle: Send may be called from any
// goroutine to request that cb run on the loop thread. Concurrent Send
// calls arriving before the loop drains them collapse into a single
// callback invocation — the coalescing contract from spec §4.5.
type Async struct {
	handle
	cb      AsyncCallback
	pending bool
}

// AsyncInit adds a to the loop's async set and increments num_events.
// Unlike Poll/Timer/Idle there is no separate Start: an async handle is
// live for callback-dispatch purposes as soon as it is initialized.
func (l *Loop) AsyncInit(a *Async, cb AsyncCallback) error {
	a.handle = handle{kind: KindAsync, loopIndex: l.index, flags: flagRunning}
	a.cb = cb
	l.asyncSet[a] = struct{}{}
	l.numEvents++
	return nil
}

// Send may be called from any thread. It acquires the loop's async mutex,
// writes to the wakeup eventfd (breaking epoll_wait), sets pending, and
// releases the mutex.
func (a *Async) Send() error {
	if a.IsClosing() {
		return ErrClosed
	}
	l := a.loop()
	l.asyncMu.Lock()
	defer l.asyncMu.Unlock()
	a.pending = true
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], 1)
	if _, err := writeFD(l.wakeFD, buf[:]); err != nil && !isWouldBlock(err) {
		// A write failure here only means the wakeup can't be delivered
		// this time; the pending bit is already set, so a subsequent
		// iteration that wakes for any other reason still picks it up.
		l.logWarn("uvloop: async wakeup write failed", map[string]any{"error": err.Error()})
	}
	return nil
}

// Close removes a from the async set immediately (spec §3: "async is
// removed from the set immediately") and queues the close callback.
func (a *Async) Close(cb CloseCallback) {
	if a.IsClosing() {
		return
	}
	l := a.loop()
	a.flags |= flagClosing
	delete(l.asyncSet, a)
	l.pendingClose = append(l.pendingClose, closeEntry{h: a, cb: cb, finalize: func() {}})
}
