package uvloop

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

func newTestLoop(t *testing.T) *Loop {
	t.Helper()
	l, err := NewLoop()
	require.NoError(t, err)
	t.Cleanup(func() { DeleteLoop(l) })
	return l
}

func mustPipe(t *testing.T) (r, w int) {
	t.Helper()
	var fds [2]int
	require.NoError(t, unix.Pipe2(fds[:], unix.O_CLOEXEC))
	return fds[0], fds[1]
}

func TestPollInitRejectsNegativeFD(t *testing.T) {
	l := newTestLoop(t)
	var p Poll
	require.ErrorIs(t, l.PollInit(&p, -1), ErrInvalidFD)
}

func TestPollReadinessFiresOnce(t *testing.T) {
	l := newTestLoop(t)

	r, w := mustPipe(t)
	defer unix.Close(w)

	var p Poll
	require.NoError(t, l.PollInit(&p, r))

	fired := 0
	require.NoError(t, p.Start(EventReadable, func(pp *Poll, status int, events PollEvent) {
		fired++
		var buf [1]byte
		unix.Read(r, buf[:])
		pp.Close(func(Handle) {})
	}))

	_, err := unix.Write(w, []byte("x"))
	require.NoError(t, err)

	require.NoError(t, l.Run(RunDefault))
	require.Equal(t, 1, fired)
	require.Equal(t, 0, l.NumEvents())
}

func TestPollCloseInvalidatesFileno(t *testing.T) {
	l := newTestLoop(t)

	r, w := mustPipe(t)
	defer unix.Close(r)
	defer unix.Close(w)

	var p Poll
	require.NoError(t, l.PollInit(&p, r))
	require.Equal(t, r, Fileno(&p))

	p.Close(nil)
	require.Equal(t, -int(unix.EBADF), Fileno(&p))

	require.NoError(t, l.Run(RunDefault))
}

func TestFilenoOnNonPollHandle(t *testing.T) {
	l := newTestLoop(t)
	var timer Timer
	require.NoError(t, l.TimerInit(&timer))
	require.Equal(t, -int(unix.EINVAL), Fileno(&timer))
}

func TestPollTwoEndsCloseInCallback(t *testing.T) {
	// End-to-end scenario 4: poll readiness + close-in-callback on a pipe.
	l := newTestLoop(t)

	r, w := mustPipe(t)
	defer unix.Close(r)
	defer unix.Close(w)

	var reader, writer Poll
	require.NoError(t, l.PollInit(&reader, r))
	require.NoError(t, l.PollInit(&writer, w))

	readerFired := 0
	closedCount := 0
	closeCb := func(Handle) { closedCount++ }

	require.NoError(t, reader.Start(EventReadable, func(pp *Poll, status int, events PollEvent) {
		readerFired++
		var buf [1]byte
		unix.Read(r, buf[:])
		reader.Close(closeCb)
		writer.Close(closeCb)
	}))
	require.NoError(t, writer.Start(EventWritable, func(pp *Poll, status int, events PollEvent) {}))

	_, err := unix.Write(w, []byte("x"))
	require.NoError(t, err)

	require.NoError(t, l.Run(RunDefault))

	require.Equal(t, 1, readerFired)
	require.Equal(t, 2, closedCount)
	require.Equal(t, 0, l.NumEvents())
}

func TestPollStopTwiceReturnsNotRunning(t *testing.T) {
	l := newTestLoop(t)
	r, w := mustPipe(t)
	defer unix.Close(r)
	defer unix.Close(w)

	var p Poll
	require.NoError(t, l.PollInit(&p, r))
	require.NoError(t, p.Start(EventReadable, func(*Poll, int, PollEvent) {}))
	require.NoError(t, p.Stop())
	require.ErrorIs(t, p.Stop(), ErrNotRunning)

	// bound the test's runtime: give the loop something to reach zero.
	var timer Timer
	require.NoError(t, l.TimerInit(&timer))
	require.NoError(t, timer.Start(func(t *Timer) {
		p.Close(nil)
		t.Close(nil)
	}, time.Millisecond, 0))

	require.NoError(t, l.Run(RunDefault))
	require.Equal(t, 0, l.NumEvents())
}
