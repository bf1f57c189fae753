package uvloop

// IdleCallback is invoked once per iteration while the Idle handle is
// RUNNING.
type IdleCallback func(i *Idle)

// Idle runs every iteration while active, forcing the loop to poll with a
// zero timeout instead of blocking (spec §4.6).
type Idle struct {
	handle
	cb IdleCallback
}

// IdleInit tags the handle and increments num_events.
func (l *Loop) IdleInit(i *Idle) error {
	i.handle = handle{kind: KindIdle, loopIndex: l.index}
	l.numEvents++
	return nil
}

// Start inserts i into the loop's idle set.
func (i *Idle) Start(cb IdleCallback) error {
	if i.IsClosing() {
		return ErrClosed
	}
	l := i.loop()
	i.cb = cb
	i.flags |= flagRunning
	l.idleSet[i] = struct{}{}
	return nil
}

// Stop removes i from the idle set.
func (i *Idle) Stop() error {
	if !i.isRunning() {
		return ErrNotRunning
	}
	l := i.loop()
	delete(l.idleSet, i)
	i.flags &^= flagRunning
	i.cb = nil
	return nil
}

// Close marks CLOSING; per spec §3 the handle stays in the idle set until
// the close phase fires, but the idle phase's IsClosing() filter (spec §5:
// "phases that iterate over snapshots must skip closing handles") keeps it
// from firing again in the meantime.
func (i *Idle) Close(cb CloseCallback) {
	if i.IsClosing() {
		return
	}
	l := i.loop()
	i.flags |= flagClosing
	l.pendingClose = append(l.pendingClose, closeEntry{
		h:  i,
		cb: cb,
		finalize: func() {
			delete(l.idleSet, i)
		},
	})
}
