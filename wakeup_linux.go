//go:build linux

package uvloop

import (
	"golang.org/x/sys/unix"
)

// createWakeFd creates the loop's wakeup eventfd: semaphore-style (each
// read decrements the counter by exactly one, rather than draining it to
// zero) and non-blocking, per spec §6's OS-interfaces requirement.
func createWakeFd() (int, error) {
	return unix.Eventfd(0, unix.EFD_NONBLOCK|unix.EFD_SEMAPHORE|unix.EFD_CLOEXEC)
}
