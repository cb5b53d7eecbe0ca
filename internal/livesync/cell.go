package livesync

import (
	"sync/atomic"
)

// Cell holds the latest applied snapshot for one collection. Reads never
// block; writers swap the whole snapshot atomically.
type Cell[T any] struct {
	current atomic.Pointer[Snapshot[T]]
}

// Load returns the last applied snapshot, or nil before the first one lands.
func (c *Cell[T]) Load() *Snapshot[T] {
	return c.current.Load()
}

// Apply installs the snapshot unless a newer one is already in place.
// Out-of-order feed deliveries are dropped, never merged.
func (c *Cell[T]) Apply(snapshot *Snapshot[T]) bool {
	if snapshot == nil {
		return false
	}
	for {
		existing := c.current.Load()
		if existing != nil && !snapshot.EmittedAt.After(existing.EmittedAt) {
			return false
		}
		if c.current.CompareAndSwap(existing, snapshot) {
			return true
		}
	}
}

// Reset clears the cell back to its pre-subscription state.
func (c *Cell[T]) Reset() {
	c.current.Store(nil)
}
