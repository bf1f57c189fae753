package uvloop

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

func TestWrapOSErrorNilPassesThrough(t *testing.T) {
	require.NoError(t, wrapOSError("epoll_wait", nil))
}

func TestWrapOSErrorPreservesErrorsIs(t *testing.T) {
	wrapped := wrapOSError("epoll_ctl(ADD)", unix.EBADF)
	require.Error(t, wrapped)
	require.True(t, errors.Is(wrapped, unix.EBADF))
	require.Contains(t, wrapped.Error(), "epoll_ctl(ADD)")
}

func TestSentinelErrorsAreDistinct(t *testing.T) {
	sentinels := []error{
		ErrAlreadyInitialized,
		ErrClosed,
		ErrNotRunning,
		ErrInvalidFD,
		ErrRegistryFull,
		ErrLoopClosed,
	}
	for i, a := range sentinels {
		for j, b := range sentinels {
			if i == j {
				continue
			}
			require.False(t, errors.Is(a, b), "%v should not equal %v", a, b)
		}
	}
}
