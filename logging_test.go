package uvloop

import (
	"testing"

	"github.com/joeycumines/logiface"
	"github.com/stretchr/testify/require"
)

// testEvent is a minimal logiface.Event implementation, recording the last
// message and level written to it, for assertions in tests only.
type testEvent struct {
	logiface.UnimplementedEvent
	level logiface.Level
	msg   string
}

func (e *testEvent) Level() logiface.Level { return e.level }

func (e *testEvent) AddField(key string, val any) {}

func (e *testEvent) AddMessage(msg string) bool {
	e.msg = msg
	return true
}

func newTestLogger(sink *[]string) Logger {
	return logiface.New[logiface.Event](
		logiface.WithEventFactory[logiface.Event](logiface.NewEventFactoryFunc[logiface.Event](func(level logiface.Level) logiface.Event {
			return &testEvent{level: level}
		})),
		logiface.WithWriter[logiface.Event](logiface.NewWriterFunc[logiface.Event](func(event logiface.Event) error {
			if te, ok := event.(*testEvent); ok {
				*sink = append(*sink, te.msg)
			}
			return nil
		})),
	)
}

func TestLogWarnNilLoggerIsNoOp(t *testing.T) {
	l := newTestLoop(t)
	l.logWarn("should not panic", map[string]any{"k": "v"})
}

func TestLogDebugNilLoggerIsNoOp(t *testing.T) {
	l := newTestLoop(t)
	l.logDebug("should not panic", map[string]any{"k": "v"})
}

func TestLogWarnWritesThroughConfiguredLogger(t *testing.T) {
	var sink []string
	logger := newTestLogger(&sink)

	l, err := NewLoop(WithLogger(logger))
	require.NoError(t, err)
	defer DeleteLoop(l)

	l.logWarn("iteration cap reached", map[string]any{"cap": 1000000})
	require.Equal(t, []string{"iteration cap reached"}, sink)
}
