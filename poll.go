package uvloop

import (
	"golang.org/x/sys/unix"
)

// PollEvent is the epoll interest/readiness mask used by Poll handles.
type PollEvent uint32

const (
	EventReadable      PollEvent = unix.EPOLLIN
	EventWritable      PollEvent = unix.EPOLLOUT
	EventError         PollEvent = unix.EPOLLERR
	EventHangup        PollEvent = unix.EPOLLHUP
	EventEdgeTriggered PollEvent = unix.EPOLLET
)

// PollCallback receives the handle, a status that is negative iff events
// contains EventError, and the raw epoll event mask.
type PollCallback func(p *Poll, status int, events PollEvent)

// Poll wraps one file descriptor, translating readiness into a callback.
// The loop does not own the fd: it is never closed by the loop, only
// marked invalid internally once Close is called, so the user may safely
// close(2) it after their close callback runs.
type Poll struct {
	handle
	fd     int
	events PollEvent
	cb     PollCallback
}

// PollInit sets fd to non-blocking, registers it in the loop's epoll
// interest set with an initially empty mask, and increments num_events.
// The handle is left uninitialised on failure.
func (l *Loop) PollInit(p *Poll, fd int) error {
	if fd < 0 {
		return ErrInvalidFD
	}
	if _, exists := l.polls[fd]; exists {
		return ErrAlreadyInitialized
	}
	if err := setNonblock(fd); err != nil {
		return wrapOSError("fcntl", err)
	}
	if err := l.poller.add(fd, 0); err != nil {
		return wrapOSError("epoll_ctl(ADD)", err)
	}
	p.handle = handle{kind: KindPoll, loopIndex: l.index}
	p.fd = fd
	l.polls[fd] = p
	l.numEvents++
	return nil
}

// Start sets RUNNING, updates the epoll interest mask, and records cb.
func (p *Poll) Start(events PollEvent, cb PollCallback) error {
	if p.IsClosing() {
		return ErrClosed
	}
	l := p.loop()
	if err := l.poller.modify(p.fd, uint32(events)); err != nil {
		return wrapOSError("epoll_ctl(MOD)", err)
	}
	p.events = events
	p.cb = cb
	p.flags |= flagRunning
	return nil
}

// Stop clears RUNNING and removes the fd's interest mask (but not its
// epoll registration — that persists until the close phase).
func (p *Poll) Stop() error {
	if !p.isRunning() {
		return ErrNotRunning
	}
	l := p.loop()
	p.flags &^= flagRunning
	p.cb = nil
	return wrapOSError("epoll_ctl(MOD)", l.poller.modify(p.fd, 0))
}

// Close marks the handle CLOSING, invalidates the stored fd (so fileno
// returns the EBADF-equivalent sentinel immediately), and queues
// retirement for the next close phase. The real epoll registration is
// removed only when the close phase finalizes the close.
func (p *Poll) Close(cb CloseCallback) {
	if p.IsClosing() {
		return
	}
	l := p.loop()
	p.flags |= flagClosing
	fd := p.fd
	p.fd = -1
	l.pendingClose = append(l.pendingClose, closeEntry{
		h:  p,
		cb: cb,
		finalize: func() {
			delete(l.polls, fd)
			_ = l.poller.del(fd)
		},
	})
}

// Fileno returns the wrapped file descriptor for a Poll handle, an
// EBADF-equivalent sentinel if it is closing, or an EINVAL-equivalent
// sentinel for any other Handle kind.
func Fileno(h Handle) int {
	p, ok := h.(*Poll)
	if !ok {
		return -int(unix.EINVAL)
	}
	if p.IsClosing() {
		return -int(unix.EBADF)
	}
	return p.fd
}
