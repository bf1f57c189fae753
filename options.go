package uvloop

// config holds the handful of implementation-chosen constants the spec's
// Design Notes call out as reasonable to make configurable (iteration cap,
// event buffer size) plus the ambient logger.
type config struct {
	iterationCap int
	eventBufSize int
	logger       Logger
}

const (
	defaultIterationCap = 1000000 // spec §4.7: safety net, not a fairness mechanism
	defaultEventBufSize = 64      // spec §4.7 step 2: "fixed-size event buffer (64 entries)"
)

func defaultConfig() config {
	return config{
		iterationCap: defaultIterationCap,
		eventBufSize: defaultEventBufSize,
	}
}

// Option configures a Loop at construction time.
type Option func(*config)

// WithIterationCap overrides the safety-net iteration cap (default
// 1,000,000). Mainly useful for tests that want to observe the cap being
// hit without running for a very long time.
func WithIterationCap(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.iterationCap = n
		}
	}
}

// WithEventBufferSize overrides the epoll_wait event buffer size (default
// 64, per spec §4.7 step 2).
func WithEventBufferSize(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.eventBufSize = n
		}
	}
}

// WithLogger attaches a structured logger used for the loop's non-fatal
// diagnostics (transient epoll_wait failures, failed wakeup writes and
// drains, the iteration cap being reached). Callbacks skipped because
// their handle is closing are not logged. A nil logger (the default) is a
// safe no-op.
func WithLogger(l Logger) Option {
	return func(c *config) {
		c.logger = l
	}
}

func resolveOptions(opts []Option) config {
	c := defaultConfig()
	for _, o := range opts {
		if o != nil {
			o(&c)
		}
	}
	return c
}
