/*
Package store persists account snapshots.

PURPOSE:
  Defines the boundary between the account engine and durable storage. The
  engine's contract is simple: after every mutation a complete snapshot is
  written back, and a restart restores the exact last-observed state. The
  snapshot travels as an opaque JSON blob; serialize-then-deserialize must
  reproduce an identical State.

THE INITIALIZED FLAG:
  Seeding runs once per installation. The gate for that lives here, next to
  the snapshot, because both must survive restarts together.

IMPLEMENTATIONS:
  - Memory (this package): for tests and throwaway runs
  - store/sqlite: durable key-value blob storage
*/
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/pocketfin/account-engine/account"
)

// Store persists the account snapshot and the one-time seeding gate.
type Store interface {
	// SaveState writes a complete snapshot, replacing any previous one.
	SaveState(ctx context.Context, state account.State) error

	// LoadState returns the last saved snapshot, or (nil, nil) when none
	// has been saved yet.
	LoadState(ctx context.Context) (*account.State, error)

	// Initialized reports whether the one-time seeding has run.
	Initialized(ctx context.Context) (bool, error)

	// SetInitialized marks seeding as done. Idempotent.
	SetInitialized(ctx context.Context) error
}

// EncodeState renders a snapshot as the storage blob.
func EncodeState(state account.State) ([]byte, error) {
	blob, err := json.Marshal(state)
	if err != nil {
		return nil, fmt.Errorf("encode account state: %w", err)
	}
	return blob, nil
}

// DecodeState restores a snapshot from the storage blob.
func DecodeState(blob []byte) (*account.State, error) {
	var state account.State
	if err := json.Unmarshal(blob, &state); err != nil {
		return nil, fmt.Errorf("decode account state: %w", err)
	}
	return &state, nil
}

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

// Memory keeps the encoded blob in memory. It goes through the same
// encode/decode path as durable stores, so round-trip behavior is identical.
type Memory struct {
	mu          sync.RWMutex
	blob        []byte
	initialized bool
}

func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) SaveState(_ context.Context, state account.State) error {
	blob, err := EncodeState(state)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.blob = blob
	return nil
}

func (m *Memory) LoadState(_ context.Context) (*account.State, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.blob == nil {
		return nil, nil
	}
	return DecodeState(m.blob)
}

func (m *Memory) Initialized(_ context.Context) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.initialized, nil
}

func (m *Memory) SetInitialized(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.initialized = true
	return nil
}
