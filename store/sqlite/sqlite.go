/*
Package sqlite provides a SQLite-backed implementation of store.Store.

PURPOSE:
  Durable key-value blob storage for the account snapshot. The snapshot is
  one opaque JSON value under a fixed key; the seeding gate is a second key.
  SQLite here is a transport, not a schema: the engine never queries inside
  the blob.

KEY TABLE:
  app_state(key TEXT PRIMARY KEY, value BLOB, updated_at TEXT)

  Keys:
    account_state   The serialized snapshot
    is_initialized  The one-time seeding gate

WAL MODE:
  Opened with WAL (Write-Ahead Logging): readers don't block the single
  writer, and crash recovery is cleaner.

USAGE:
  st, err := sqlite.New("./data/account.db")
  if err != nil { ... }
  defer st.Close()
  err = st.SaveState(ctx, container.Snapshot())

SEE ALSO:
  - store/store.go: Interface definition and in-memory implementation
*/
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pocketfin/account-engine/account"
	"github.com/pocketfin/account-engine/store"
)

const (
	stateKey       = "account_state"
	initializedKey = "is_initialized"
)

// Store implements store.Store on a single key-value table.
type Store struct {
	db *sql.DB
}

// New opens (or creates) the database at dbPath. Use ":memory:" for an
// in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate database: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS app_state (
		key        TEXT PRIMARY KEY,
		value      BLOB NOT NULL,
		updated_at TEXT NOT NULL
	);`
	_, err := s.db.Exec(schema)
	return err
}

func (s *Store) put(ctx context.Context, key string, value []byte) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO app_state (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, time.Now().UTC().Format(time.RFC3339))
	return err
}

func (s *Store) get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := s.db.QueryRowContext(ctx, `SELECT value FROM app_state WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return value, nil
}

// SaveState writes the snapshot blob, replacing any previous one.
func (s *Store) SaveState(ctx context.Context, state account.State) error {
	blob, err := store.EncodeState(state)
	if err != nil {
		return err
	}
	if err := s.put(ctx, stateKey, blob); err != nil {
		return fmt.Errorf("save account state: %w", err)
	}
	return nil
}

// LoadState returns the last saved snapshot, or (nil, nil) when the key has
// never been written.
func (s *Store) LoadState(ctx context.Context) (*account.State, error) {
	blob, err := s.get(ctx, stateKey)
	if err != nil {
		return nil, fmt.Errorf("load account state: %w", err)
	}
	if blob == nil {
		return nil, nil
	}
	return store.DecodeState(blob)
}

// Initialized reports whether the seeding gate has been set.
func (s *Store) Initialized(ctx context.Context) (bool, error) {
	value, err := s.get(ctx, initializedKey)
	if err != nil {
		return false, fmt.Errorf("read initialized flag: %w", err)
	}
	return value != nil, nil
}

// SetInitialized marks seeding as done. Idempotent.
func (s *Store) SetInitialized(ctx context.Context) error {
	if err := s.put(ctx, initializedKey, []byte(`{"is_initialized":true}`)); err != nil {
		return fmt.Errorf("set initialized flag: %w", err)
	}
	return nil
}
