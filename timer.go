package uvloop

import (
	"container/heap"
	"time"
)

// TimerCallback is invoked with the firing Timer.
type TimerCallback func(t *Timer)

// Timer carries a deadline and an optional repeat interval. Spec §9's
// Design Notes explicitly permit replacing the original's descending
// sorted-vector timer queue with any structure that preserves deadline
// order and snapshot-before-fire semantics; this implementation uses a
// container/heap min-heap ordered ascending by deadline, with a monotonic
// sequence number as a tie-break (insertion order, per spec §3's
// invariant "ties resolve to insertion order").
type Timer struct {
	handle
	cb        TimerCallback
	deadline  time.Time
	repeat    time.Duration
	seq       uint64
	heapIndex int
}

// TimerInit tags the handle, associates it with the loop, and increments
// num_events. It does not arm the timer — Start does that.
func (l *Loop) TimerInit(t *Timer) error {
	t.handle = handle{kind: KindTimer, loopIndex: l.index}
	l.numEvents++
	return nil
}

// Start sets RUNNING, records cb and repeat, computes the deadline from
// the loop's current timepoint, and inserts the timer into the loop's
// queue. Calling Start on an already-running timer reschedules it (removes
// the stale heap entry first) rather than leaving a duplicate entry
// behind.
func (t *Timer) Start(cb TimerCallback, timeout, repeat time.Duration) error {
	if t.IsClosing() {
		return ErrClosed
	}
	l := t.loop()
	if t.isRunning() {
		l.timers.remove(t)
	}
	t.cb = cb
	t.repeat = repeat
	t.deadline = l.timepoint.Add(timeout)
	t.seq = l.nextTimerSeq()
	t.flags |= flagRunning
	heap.Push(&l.timers, t)
	return nil
}

// Stop clears RUNNING and removes the timer from the queue. A logarithmic-
// time removal by heap index (not a linear scan) since container/heap tracks
// index positions for us via Swap.
func (t *Timer) Stop() error {
	if !t.isRunning() {
		return ErrNotRunning
	}
	l := t.loop()
	l.timers.remove(t)
	t.flags &^= flagRunning
	return nil
}

// Close marks CLOSING and queues retirement. Per spec §3, a timer that is
// closed without a preceding Stop remains in the queue until the timer
// phase reaches it (where it is discarded, not fired) or the close phase
// finalizes and purges it directly, whichever comes first.
func (t *Timer) Close(cb CloseCallback) {
	if t.IsClosing() {
		return
	}
	l := t.loop()
	t.flags |= flagClosing
	l.pendingClose = append(l.pendingClose, closeEntry{
		h:  t,
		cb: cb,
		finalize: func() {
			if t.isRunning() {
				l.timers.remove(t)
			}
		},
	})
}

// timerHeap implements container/heap.Interface, ordered ascending by
// deadline with seq as a tie-break.
type timerHeap struct {
	items []*Timer
}

func (h timerHeap) Len() int { return len(h.items) }

func (h timerHeap) Less(i, j int) bool {
	a, b := h.items[i], h.items[j]
	if a.deadline.Equal(b.deadline) {
		return a.seq < b.seq
	}
	return a.deadline.Before(b.deadline)
}

func (h timerHeap) Swap(i, j int) {
	h.items[i], h.items[j] = h.items[j], h.items[i]
	h.items[i].heapIndex = i
	h.items[j].heapIndex = j
}

func (h *timerHeap) Push(x any) {
	t := x.(*Timer)
	t.heapIndex = len(h.items)
	h.items = append(h.items, t)
}

func (h *timerHeap) Pop() any {
	old := h.items
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	t.heapIndex = -1
	h.items = old[:n-1]
	return t
}

// remove drops t from the heap if it is currently present.
func (h *timerHeap) remove(t *Timer) {
	if t.heapIndex < 0 || t.heapIndex >= len(h.items) || h.items[t.heapIndex] != t {
		return
	}
	heap.Remove(h, t.heapIndex)
}

// peekReady reports whether the earliest-deadline timer is due at or
// before now.
func (h *timerHeap) peekReady(now time.Time) bool {
	return len(h.items) > 0 && !h.items[0].deadline.After(now)
}
