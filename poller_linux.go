//go:build linux

package uvloop

import (
	"golang.org/x/sys/unix"
)

// wakeSentinelFD is the fake fd stored in an epoll event's user-data field
// to mark the loop's wakeup registration. Real poll fds are always >= 0,
// so -1 can never collide with one; this is the "in-band sentinel"
// encoding the spec's Design Notes call out as an acceptable choice.
const wakeSentinelFD = -1

// epoller is a thin wrapper around one epoll instance. It is not
// thread-safe by design: per spec §5, all registration happens on the
// loop's owner thread.
type epoller struct {
	epfd     int
	eventBuf []unix.EpollEvent
}

func newEpoller(bufSize int) (*epoller, error) {
	epfd, err := unix.EpollCreate1(unix.EPOLL_CLOEXEC)
	if err != nil {
		return nil, err
	}
	return &epoller{epfd: epfd, eventBuf: make([]unix.EpollEvent, bufSize)}, nil
}

func (p *epoller) add(fd int, events uint32) error {
	return unix.EpollCtl(p.epfd, unix.EPOLL_CTL_ADD, fd, &unix.EpollEvent{Events: events, Fd: int32(fd)})
}

func (p *epoller) modify(fd int, events uint32) error {
	return unix.EpollCtl(p.epfd, unix.EPOLL_CTL_MOD, fd, &unix.EpollEvent{Events: events, Fd: int32(fd)})
}

func (p *epoller) del(fd int) error {
	return unix.EpollCtl(p.epfd, unix.EPOLL_CTL_DEL, fd, nil)
}

func (p *epoller) addSentinel(fd int, events uint32) error {
	return unix.EpollCtl(p.epfd, unix.EPOLL_CTL_ADD, fd, &unix.EpollEvent{Events: events, Fd: wakeSentinelFD})
}

// wait blocks for up to timeoutMs (-1 = forever, 0 = return immediately)
// and returns the ready slice of the internal event buffer. EINTR is
// treated as "no events", matching spec §7's transient-syscall-failure
// policy.
func (p *epoller) wait(timeoutMs int) ([]unix.EpollEvent, error) {
	n, err := unix.EpollWait(p.epfd, p.eventBuf, timeoutMs)
	if err != nil {
		if err == unix.EINTR {
			return nil, nil
		}
		return nil, err
	}
	return p.eventBuf[:n], nil
}

func (p *epoller) close() error {
	return unix.Close(p.epfd)
}
