package uvloop

import "sync"

// maxLoops is the registry's fixed capacity (spec §4.1: "a fixed small
// bound (≥128)"). Exceeding it is a fatal programmer error, surfaced as
// ErrRegistryFull rather than a panic, in keeping with this package's
// error-handling design (errors.go).
const maxLoops = 128

var registry struct {
	mu    sync.Mutex
	loops [maxLoops]*Loop
}

// loopAt returns the loop registered at index, or nil if the slot is empty
// or out of range. Handles carry loopIndex, never a *Loop, so every
// dispatch-time lookup goes through here (handle.loop()).
func loopAt(index int) *Loop {
	if index < 0 || index >= maxLoops {
		return nil
	}
	registry.mu.Lock()
	l := registry.loops[index]
	registry.mu.Unlock()
	return l
}

// DefaultLoop returns the loop at index 0, creating it lazily on first
// call. Subsequent calls return the same loop regardless of opts.
func DefaultLoop(opts ...Option) (*Loop, error) {
	registry.mu.Lock()
	if l := registry.loops[0]; l != nil {
		registry.mu.Unlock()
		return l, nil
	}
	registry.mu.Unlock()
	return newLoopAt(0, opts)
}

// NewLoop creates a loop at the lowest free registry index. An index freed
// by DeleteLoop is handed out again by a later NewLoop, so an index is not
// unique over the life of the process, only among live loops.
func NewLoop(opts ...Option) (*Loop, error) {
	registry.mu.Lock()
	index := -1
	for i, l := range registry.loops {
		if l == nil {
			index = i
			break
		}
	}
	registry.mu.Unlock()
	if index == -1 {
		return nil, ErrRegistryFull
	}
	return newLoopAt(index, opts)
}

func newLoopAt(index int, opts []Option) (*Loop, error) {
	l, err := newLoop(index, opts)
	if err != nil {
		return nil, err
	}
	registry.mu.Lock()
	registry.loops[index] = l
	registry.mu.Unlock()
	return l, nil
}

// DeleteLoop deregisters the wakeup descriptor, closes the epoll
// descriptor, and removes L from the registry. Its index becomes free and
// may be assigned to a loop created afterwards.
func DeleteLoop(l *Loop) error {
	if l == nil {
		return nil
	}
	registry.mu.Lock()
	registry.loops[l.index] = nil
	registry.mu.Unlock()
	return l.closeOSResources()
}
