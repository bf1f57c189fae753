package uvloop

import (
	"container/heap"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"golang.org/x/sys/unix"
)

// RunMode is accepted for interface compatibility (spec §4.7): the loop
// always runs until num_events reaches zero or the iteration cap is hit,
// regardless of mode.
type RunMode int

const RunDefault RunMode = 0

// Loop is the reactor instance: it owns one epoll fd and one wakeup fd,
// and drives the per-iteration phases (close, wait, poll, async, idle,
// timer) in fixed order. All of its methods
// except Async.Send are loop-thread-only (spec §5) — nothing here
// synchronizes against concurrent Poll/Timer/Idle mutation, by design.
type Loop struct {
	index int
	cfg   config

	poller *epoller
	wakeFD int

	numEvents int

	polls    map[int]*Poll
	timers   timerHeap
	timerSeq uint64
	asyncSet map[*Async]struct{}
	idleSet  map[*Idle]struct{}

	pendingClose []closeEntry

	// asyncMu guards the pending bits of asyncSet's members and the
	// wakeup fd, per spec §3 ("a mutex guarding the async set's pending
	// bits and the wakeup descriptor").
	asyncMu sync.Mutex

	timepoint time.Time
}

var ignoreSIGPIPEOnce sync.Once

func newLoop(index int, opts []Option) (*Loop, error) {
	// Ignored exactly once, process-wide, not per-Run: see SPEC_FULL.md
	// §C.2 for why this differs from the original's per-uv_run call.
	ignoreSIGPIPEOnce.Do(func() {
		signal.Ignore(syscall.SIGPIPE)
	})

	cfg := resolveOptions(opts)

	poller, err := newEpoller(cfg.eventBufSize)
	if err != nil {
		return nil, wrapOSError("epoll_create1", err)
	}

	wakeFD, err := createWakeFd()
	if err != nil {
		_ = poller.close()
		return nil, wrapOSError("eventfd", err)
	}

	if err := poller.addSentinel(wakeFD, unix.EPOLLIN|unix.EPOLLET); err != nil {
		_ = closeFD(wakeFD)
		_ = poller.close()
		return nil, wrapOSError("epoll_ctl(ADD wakeup)", err)
	}

	return &Loop{
		index:     index,
		cfg:       cfg,
		poller:    poller,
		wakeFD:    wakeFD,
		polls:     make(map[int]*Poll),
		asyncSet:  make(map[*Async]struct{}),
		idleSet:   make(map[*Idle]struct{}),
		timepoint: time.Now(),
	}, nil
}

func (l *Loop) closeOSResources() error {
	_ = l.poller.del(l.wakeFD)
	err1 := closeFD(l.wakeFD)
	err2 := l.poller.close()
	if err1 != nil {
		return wrapOSError("close(wakefd)", err1)
	}
	if err2 != nil {
		return wrapOSError("close(epoll)", err2)
	}
	return nil
}

// Index returns the loop's registry index.
func (l *Loop) Index() int { return l.index }

// NumEvents returns the count of handles for which Init has run and whose
// close callback has not yet fired.
func (l *Loop) NumEvents() int { return l.numEvents }

func (l *Loop) nextTimerSeq() uint64 {
	l.timerSeq++
	return l.timerSeq
}

// Run drives the loop until num_events reaches zero or the iteration cap
// is hit. mode is accepted for interface compatibility only.
//
// num_events is re-checked at the top of every iteration (spec §4.7), and
// this implementation additionally re-checks it right after the close
// phase, before the wait phase would otherwise block: without that
// second check, a batch of closes that drains num_events to zero would
// still commit to one more epoll_wait with nothing left to ever wake it
// (delay -1, no fds, no timers, no idles), hanging forever instead of
// exiting — contradicting the exits-promptly outcome the testable
// end-to-end scenarios require. This is a deliberate refinement beyond
// the literal per-iteration phase order, not a behavior change to the
// phases that do run.
func (l *Loop) Run(mode RunMode) error {
	for iter := 0; l.numEvents > 0; iter++ {
		if iter >= l.cfg.iterationCap {
			l.logWarn("uvloop: iteration cap reached", map[string]any{"cap": l.cfg.iterationCap})
			return nil
		}

		l.closePhase()
		if l.numEvents == 0 {
			return nil
		}

		events, err := l.waitPhase()
		if err != nil {
			l.logWarn("uvloop: epoll_wait failed", map[string]any{"error": err.Error()})
			continue
		}

		l.pollPhase(events)
		l.asyncPhase()
		l.idlePhase()
		l.timerPhase()
	}
	return nil
}

// closePhase is dispatch phase 1: snapshot pending_close, clear it, and
// for each entry flip CLOSING->CLOSED, decrement num_events, finalize the
// kind-specific unlink, and invoke the close callback. Each kind's
// finalize is an independent closure (poll.go/timer.go/async.go/idle.go),
// deliberately not a shared fall-through switch — see spec §9's Design
// Notes on the original's close-phase fall-through.
func (l *Loop) closePhase() {
	if len(l.pendingClose) == 0 {
		return
	}
	batch := l.pendingClose
	l.pendingClose = nil
	for _, entry := range batch {
		l.finalizeCloseEntry(entry)
	}
}

func (l *Loop) finalizeCloseEntry(entry closeEntry) {
	switch h := entry.h.(type) {
	case *Poll:
		h.flags = (h.flags &^ flagClosing) | flagClosed
	case *Timer:
		h.flags = (h.flags &^ flagClosing) | flagClosed
	case *Async:
		h.flags = (h.flags &^ flagClosing) | flagClosed
	case *Idle:
		h.flags = (h.flags &^ flagClosing) | flagClosed
	}
	entry.finalize()
	l.numEvents--
	if entry.cb != nil {
		entry.cb(entry.h)
	}
}

// waitPhase is dispatch phase 2: refresh timepoint, compute the wait
// timeout, and call epoll_wait.
func (l *Loop) waitPhase() ([]unix.EpollEvent, error) {
	l.timepoint = time.Now()
	timeout := l.computeTimeout()
	return l.poller.wait(timeout)
}

func (l *Loop) computeTimeout() int {
	if len(l.idleSet) > 0 {
		return 0
	}
	if len(l.timers.items) > 0 {
		d := l.timers.items[0].deadline.Sub(l.timepoint)
		if d < 0 {
			d = 0
		}
		return int(d.Milliseconds())
	}
	return -1
}

// pollPhase is dispatch phase 3: for each ready epoll event, either drain
// the wakeup fd (if it's the sentinel) or invoke the poll's callback.
func (l *Loop) pollPhase(events []unix.EpollEvent) {
	for _, ev := range events {
		if int(ev.Fd) == wakeSentinelFD {
			l.drainWakeFD()
			continue
		}
		p, ok := l.polls[int(ev.Fd)]
		if !ok || p.IsClosing() || p.cb == nil {
			continue
		}
		status := 0
		if ev.Events&unix.EPOLLERR != 0 {
			status = -1
		}
		p.cb(p, status, PollEvent(ev.Events))
	}
}

func (l *Loop) drainWakeFD() {
	l.asyncMu.Lock()
	defer l.asyncMu.Unlock()
	var buf [8]byte
	if _, err := readFD(l.wakeFD, buf[:]); err != nil && !isWouldBlock(err) {
		l.logWarn("uvloop: wakeup drain failed", map[string]any{"error": err.Error()})
	}
}

// asyncPhase is dispatch phase 4: snapshot+clear pending bits under the
// mutex, then fire callbacks without the mutex held.
func (l *Loop) asyncPhase() {
	if len(l.asyncSet) == 0 {
		return
	}
	var ready []*Async
	l.asyncMu.Lock()
	for a := range l.asyncSet {
		if a.pending {
			a.pending = false
			ready = append(ready, a)
		}
	}
	l.asyncMu.Unlock()
	for _, a := range ready {
		if a.IsClosing() || a.cb == nil {
			continue
		}
		a.cb(a)
	}
}

// idlePhase is dispatch phase 5: snapshot the idle set, fire each
// non-closing callback.
func (l *Loop) idlePhase() {
	if len(l.idleSet) == 0 {
		return
	}
	snapshot := make([]*Idle, 0, len(l.idleSet))
	for i := range l.idleSet {
		snapshot = append(snapshot, i)
	}
	for _, i := range snapshot {
		if i.IsClosing() || i.cb == nil {
			continue
		}
		i.cb(i)
	}
}

// timerPhase is dispatch phase 6: refresh timepoint, extract all timers
// whose deadline has passed into a snapshot, fire callbacks, and
// re-enqueue repeaters using this refreshed timepoint as the delta base.
func (l *Loop) timerPhase() {
	if len(l.timers.items) == 0 {
		return
	}
	l.timepoint = time.Now()
	base := l.timepoint

	var fired []*Timer
	for l.timers.peekReady(base) {
		fired = append(fired, heap.Pop(&l.timers).(*Timer))
	}

	for _, t := range fired {
		if t.IsClosing() {
			// Discarded per spec §3/SPEC_FULL.md §D: a Close()d timer
			// that was never Stop()ped is dropped here when its
			// deadline passes, not fired and not re-enqueued.
			continue
		}
		cb := t.cb
		wasRunning := t.isRunning()
		if cb != nil {
			cb(t)
		}
		// t.heapIndex >= 0 means the callback itself already called
		// Start (directly or via Stop+Start), reinserting t into the
		// heap — the auto re-enqueue below must not run in that case,
		// or t would end up in the heap twice.
		if t.heapIndex == -1 && t.repeat > 0 && wasRunning && t.isRunning() && !t.IsClosing() {
			t.deadline = base.Add(t.repeat)
			t.seq = l.nextTimerSeq()
			heap.Push(&l.timers, t)
		} else if t.heapIndex == -1 {
			t.flags &^= flagRunning
		}
	}
}
