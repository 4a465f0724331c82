/*
seed.go - One-time account initialization

PURPOSE:
  Populates the container at first run, either with blank defaults or with
  externally generated sample records. The one-time gate (an "initialized"
  flag) lives with the storage collaborator, not here: Seed itself uses
  overwrite semantics so an accidental second invocation replaces state
  cleanly instead of corrupting it.

BALANCE DURING SEEDING:
  Seeded transactions bypass the per-item balance adjustment. The seeded
  balance already accounts for them holistically, exactly as supplied.
*/
package account

import "github.com/shopspring/decimal"

// SeedData is the payload for a seeding run. Beneficiaries and
// Transactions come from an external generator (or are empty for a blank
// start); Balance is taken as-is.
type SeedData struct {
	Balance       decimal.Decimal
	Beneficiaries map[int64]Beneficiary
	Transactions  []Transaction
}

// BlankSeed is an empty account with the given starting balance.
func BlankSeed(balance int64) SeedData {
	return SeedData{
		Balance:       decimal.NewFromInt(balance),
		Beneficiaries: map[int64]Beneficiary{},
		Transactions:  []Transaction{},
	}
}

// Seed wholesale-replaces the directory, the ledger, and the balance.
// The user's identity fields are preserved. The identity allocator is
// advanced past every seeded id so later creates cannot collide.
func (c *Container) Seed(data SeedData) {
	c.mu.Lock()
	defer c.mu.Unlock()

	next := State{
		User:          c.state.User,
		Beneficiaries: make(map[int64]Beneficiary, len(data.Beneficiaries)),
		Transactions:  make([]Transaction, len(data.Transactions)),
	}
	next.User.Balance = data.Balance
	for id, b := range data.Beneficiaries {
		next.Beneficiaries[id] = b
	}
	copy(next.Transactions, data.Transactions)

	c.state = next
	c.ids.Advance(next.maxID())
}
