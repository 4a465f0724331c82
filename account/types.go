/*
Package account provides the account ledger state engine.

PURPOSE:
  This package contains the single-user account model: the user's balance,
  the beneficiary directory, and the transaction ledger, together with the
  mutation rules that keep them consistent and the derived-view queries
  built on top of them.

KEY CONCEPTS IN THIS FILE (types.go):
  - User: The single account holder, carries the running balance
  - Beneficiary: A named payee with an IBAN
  - Transaction: A monetary transfer from the user to a beneficiary
  - State: The aggregate snapshot (user + directory + ledger)

DESIGN PRINCIPLES:
  1. Precision: Uses decimal.Decimal for money to avoid floating-point errors
  2. Sentinels: Unpersisted records carry id -1 until the allocator assigns one
  3. Snapshots: State is a complete, serializable value; every mutation
     produces a fresh one

SEE ALSO:
  - container.go: The state container and its operation surface
  - ledger.go: Transaction mutations and balance coupling
  - directory.go: Beneficiary mutations
  - queries.go: Derived views (weekly partition, aggregation, ranking)
*/
package account

import (
	"time"

	"github.com/shopspring/decimal"
)

// SentinelID marks a record that has not been persisted yet. Form layers
// build candidates with this id; the allocator always overrides it.
const SentinelID int64 = -1

// =============================================================================
// USER - The single account holder
// =============================================================================

// User carries the running balance. Exactly one User exists per State.
// Balance is mutated only through ledger operations or seeding, never
// directly by callers.
type User struct {
	ID        int64           `json:"id"`
	FirstName string          `json:"first_name"`
	LastName  string          `json:"last_name"`
	Balance   decimal.Decimal `json:"balance"`
}

// =============================================================================
// BENEFICIARY - A named payee
// =============================================================================

// Beneficiary is a payee record owned by the directory, keyed by id.
// The directory guarantees id uniqueness only; the (first, last, iban)
// uniqueness rule is a caller-side check (see DuplicateExists).
type Beneficiary struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	IBAN      string `json:"iban"`
}

// DefaultBeneficiary returns the sentinel-valued placeholder used before
// persistence.
func DefaultBeneficiary() Beneficiary {
	return Beneficiary{ID: SentinelID}
}

// FullName returns the display name for the beneficiary.
func (b Beneficiary) FullName() string {
	return b.FirstName + " " + b.LastName
}

// =============================================================================
// TRANSACTION - A transfer against the user's balance
// =============================================================================

// Transaction records a single transfer. BeneficiaryID is a soft reference:
// the beneficiary may have been deleted since, and consumers must fall back
// to an "unknown beneficiary" rendering rather than fail.
type Transaction struct {
	ID            int64           `json:"id"`
	Amount        decimal.Decimal `json:"amount"`
	BeneficiaryID int64           `json:"beneficiary_id"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// DefaultTransaction returns the sentinel-valued placeholder used before
// persistence.
func DefaultTransaction() Transaction {
	return Transaction{ID: SentinelID, Amount: decimal.Zero}
}

// =============================================================================
// STATE - The aggregate snapshot
// =============================================================================

// State is the aggregate root and the unit of persistence. It is a plain
// serializable value: round-tripping through JSON reproduces an identical
// snapshot. Transactions keep insertion order; Beneficiaries are keyed by id.
type State struct {
	User          User                  `json:"user"`
	Beneficiaries map[int64]Beneficiary `json:"beneficiaries"`
	Transactions  []Transaction         `json:"transactions"`
}

// Clone returns a deep copy of the state. Mutating the copy never affects
// the original.
func (s State) Clone() State {
	out := State{
		User:          s.User,
		Beneficiaries: make(map[int64]Beneficiary, len(s.Beneficiaries)),
		Transactions:  make([]Transaction, len(s.Transactions)),
	}
	for id, b := range s.Beneficiaries {
		out.Beneficiaries[id] = b
	}
	copy(out.Transactions, s.Transactions)
	return out
}

// maxID returns the highest allocated id in the directory and the ledger.
// Used to advance the identity allocator after a seed or restore. The user
// id is not part of the allocation space.
func (s State) maxID() int64 {
	var max int64
	for id := range s.Beneficiaries {
		if id > max {
			max = id
		}
	}
	for _, tx := range s.Transactions {
		if tx.ID > max {
			max = tx.ID
		}
	}
	return max
}
