//go:build linux

package uvloop

import (
	"golang.org/x/sys/unix"
)

// closeFD closes a file descriptor.
func closeFD(fd int) error {
	return unix.Close(fd)
}

// readFD reads from a file descriptor.
func readFD(fd int, buf []byte) (int, error) {
	return unix.Read(fd, buf)
}

// writeFD writes to a file descriptor.
func writeFD(fd int, buf []byte) (int, error) {
	return unix.Write(fd, buf)
}

// setNonblock puts fd into non-blocking mode via fcntl(F_GETFL/F_SETFL),
// per spec §6.
func setNonblock(fd int) error {
	return unix.SetNonblock(fd, true)
}

// isWouldBlock reports whether err is EAGAIN/EWOULDBLOCK, expected on a
// non-blocking fd with no room/data available.
func isWouldBlock(err error) bool {
	return err == unix.EAGAIN
}
