package uvloop

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestIdleFiresEveryIterationUntilStopped(t *testing.T) {
	l := newTestLoop(t)

	var idle Idle
	require.NoError(t, l.IdleInit(&idle))

	fired := 0
	require.NoError(t, idle.Start(func(ii *Idle) {
		fired++
		if fired >= 5 {
			ii.Stop()
			ii.Close(nil)
		}
	}))

	require.NoError(t, l.Run(RunDefault))
	require.Equal(t, 5, fired)
	require.Equal(t, 0, l.NumEvents())
}

func TestIdleStarvesTimerUntilTimerDeadline(t *testing.T) {
	// End-to-end scenario 5: an idle handle forces zero-timeout polling
	// but must not prevent a timer from eventually firing once its
	// deadline passes — the wait-phase timeout computation is 0 whenever
	// any idle handle is active, but the timer phase still runs every
	// iteration and fires once its deadline has actually elapsed.
	l := newTestLoop(t)

	var idle Idle
	require.NoError(t, l.IdleInit(&idle))
	idleTicks := 0
	require.NoError(t, idle.Start(func(ii *Idle) { idleTicks++ }))

	var timer Timer
	require.NoError(t, l.TimerInit(&timer))
	timerFired := false
	require.NoError(t, timer.Start(func(tt *Timer) {
		timerFired = true
		tt.Close(nil)
		idle.Stop()
		idle.Close(nil)
	}, 50*time.Millisecond, 0))

	require.NoError(t, l.Run(RunDefault))
	require.True(t, timerFired)
	require.Greater(t, idleTicks, 0)
	require.Equal(t, 0, l.NumEvents())
}

func TestIdleStopThenRestart(t *testing.T) {
	l := newTestLoop(t)

	var idle Idle
	require.NoError(t, l.IdleInit(&idle))

	fired := 0
	cb := func(ii *Idle) {
		fired++
		if fired == 1 {
			ii.Stop()
		} else {
			ii.Stop()
			ii.Close(nil)
		}
	}
	require.NoError(t, idle.Start(cb))

	var timer Timer
	require.NoError(t, l.TimerInit(&timer))
	require.NoError(t, timer.Start(func(tt *Timer) {
		if fired == 1 && !idle.isRunning() {
			idle.Start(cb)
		}
		tt.Close(nil)
	}, time.Millisecond, time.Millisecond))

	require.NoError(t, l.Run(RunDefault))
	require.GreaterOrEqual(t, fired, 2)
	require.Equal(t, 0, l.NumEvents())
}

func TestIdleCloseSkipsFutureFiring(t *testing.T) {
	l := newTestLoop(t)

	var idle Idle
	require.NoError(t, l.IdleInit(&idle))

	fired := 0
	require.NoError(t, idle.Start(func(ii *Idle) {
		fired++
		ii.Close(nil)
	}))

	require.NoError(t, l.Run(RunDefault))
	require.Equal(t, 1, fired)
	require.Equal(t, 0, l.NumEvents())
}
