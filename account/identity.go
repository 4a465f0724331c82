package account

import "sync"

// =============================================================================
// IDENTITY ALLOCATOR - Monotonic id source
// =============================================================================

// Allocator hands out unique, strictly increasing int64 ids. A monotonic
// counter rather than a clock: two calls in the same instant must still
// return distinct values.
type Allocator struct {
	mu   sync.Mutex
	last int64
}

// NewAllocator returns an allocator whose first Allocate call yields 1.
func NewAllocator() *Allocator {
	return &Allocator{}
}

// Allocate returns the next id, strictly greater than any previously
// allocated or advanced-to id.
func (a *Allocator) Allocate() int64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.last++
	return a.last
}

// Advance raises the allocation floor so that future ids are greater than
// id. Called after seeding or restoring state that already contains ids.
// Advancing backwards is a no-op.
func (a *Allocator) Advance(id int64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if id > a.last {
		a.last = id
	}
}
