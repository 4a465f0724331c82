/*
container.go - Account state container

PURPOSE:
  The Container aggregates User, Beneficiary directory, and Transaction
  ledger behind a single consistent snapshot. It is the only mutation
  surface: UI intents enter here, invariants are applied, and a fresh
  snapshot replaces the old one.

CRITICAL INVARIANTS:
  1. BALANCE: balance == seeded balance - sum(amount of all ledger entries)
  2. ATOMICITY: No reader ever observes a half-applied mutation; every
     operation swaps in a complete new state
  3. SINGLE WRITER: Mutations are synchronous; the mutex serializes the
     cooperative single-threaded mutation path

REPLACE-ON-WRITE:
  Each mutation clones the current state, applies the change to the clone,
  and swaps it in. Snapshot() hands out deep copies, so callers can read a
  snapshot while a mutation is in flight and never see tearing.

SEE ALSO:
  - directory.go: Beneficiary operations
  - ledger.go: Transaction operations and balance coupling
  - seed.go: One-time initialization
*/
package account

import (
	"sync"
	"time"
)

// Container owns the account state. Construct with NewContainer or Restore
// and pass the handle to every consumer; there is no ambient singleton.
type Container struct {
	mu    sync.RWMutex
	ids   *Allocator
	state State
	now   func() time.Time
}

// NewContainer creates a container holding the given user with an empty
// directory and ledger.
func NewContainer(user User) *Container {
	return &Container{
		ids: NewAllocator(),
		now: time.Now,
		state: State{
			User:          user,
			Beneficiaries: make(map[int64]Beneficiary),
			Transactions:  []Transaction{},
		},
	}
}

// Restore creates a container from a previously persisted snapshot. The
// identity allocator resumes above the highest id in the snapshot.
func Restore(state State) *Container {
	c := &Container{
		ids:   NewAllocator(),
		now:   time.Now,
		state: state.Clone(),
	}
	if c.state.Beneficiaries == nil {
		c.state.Beneficiaries = make(map[int64]Beneficiary)
	}
	if c.state.Transactions == nil {
		c.state.Transactions = []Transaction{}
	}
	c.ids.Advance(state.maxID())
	return c
}

// SetClock overrides the time source. Tests use this to pin timestamps.
func (c *Container) SetClock(now func() time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = now
}

// Snapshot returns a deep copy of the current state. The copy is immutable
// from the container's point of view: later mutations do not show through,
// and mutating the copy does not corrupt the container.
func (c *Container) Snapshot() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state.Clone()
}

// User returns the current user record, including the running balance.
func (c *Container) User() User {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state.User
}
