/*
ledger.go - Transaction ledger operations with balance coupling

PURPOSE:
  Create/update/delete for transaction records. Every ledger mutation
  co-adjusts the user balance so that at all times

    balance == seeded balance - sum(amount of all ledger entries)

  The append and the balance adjustment land in the same state swap, so
  readers observe them together or not at all.

UPDATE SEMANTICS:
  Updating first reverses the old amount's effect, then applies the new
  one: net balance change = old amount - new amount. The record stays at
  its original position in the sequence; it is never moved to the end.

NUMERIC SEMANTICS:
  Amounts are whole currency units (validated upstream to be >= 1).
  Balance may legitimately go negative; overdraft policy belongs to
  callers, not this engine.
*/
package account

// CreateTransaction appends a transaction to the ledger and debits the
// user balance by its amount. The candidate's id is replaced with a fresh
// one and both timestamps are set to now. Returns the stored record.
//
// BeneficiaryID is not checked against the directory: an unknown id is
// stored as-is and rendered as "unknown beneficiary" downstream.
func (c *Container) CreateTransaction(candidate Transaction) Transaction {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	candidate.ID = c.ids.Allocate()
	candidate.CreatedAt = now
	candidate.UpdatedAt = now

	next := c.state.Clone()
	next.Transactions = append(next.Transactions, candidate)
	next.User.Balance = next.User.Balance.Sub(candidate.Amount)
	c.state = next
	return candidate
}

// UpdateTransaction patches the transaction with patch.ID: the old amount
// is credited back, the patchable fields (amount, beneficiary id) are
// applied, and the new amount is debited. UpdatedAt is set to now;
// CreatedAt and the position in the sequence are preserved. Returns
// ErrTransactionNotFound and leaves state untouched when the id is absent.
func (c *Container) UpdateTransaction(patch Transaction) (Transaction, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	idx := findTransaction(c.state.Transactions, patch.ID)
	if idx < 0 {
		return Transaction{}, ErrTransactionNotFound
	}

	next := c.state.Clone()
	existing := next.Transactions[idx]

	// Reverse the prior effect, then apply the merged record.
	next.User.Balance = next.User.Balance.Add(existing.Amount)
	existing.Amount = patch.Amount
	existing.BeneficiaryID = patch.BeneficiaryID
	existing.UpdatedAt = c.now()
	next.User.Balance = next.User.Balance.Sub(existing.Amount)

	next.Transactions[idx] = existing
	c.state = next
	return existing, nil
}

// DeleteTransaction removes the transaction with the given id and credits
// its amount back to the balance. Absent ids are a silent no-op, keeping
// deletion idempotent under retry. The order of the remaining transactions
// is preserved.
func (c *Container) DeleteTransaction(id int64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	idx := findTransaction(c.state.Transactions, id)
	if idx < 0 {
		return
	}

	next := c.state.Clone()
	next.User.Balance = next.User.Balance.Add(next.Transactions[idx].Amount)
	next.Transactions = append(next.Transactions[:idx], next.Transactions[idx+1:]...)
	c.state = next
}

// Transactions returns a snapshot of the ledger in insertion order.
func (c *Container) Transactions() []Transaction {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Transaction, len(c.state.Transactions))
	copy(out, c.state.Transactions)
	return out
}

// findTransaction is a linear scan by id. The ledger is small and bounded;
// an id->index map would have to preserve in-place replacement semantics
// for no measurable gain at this scale.
func findTransaction(txs []Transaction, id int64) int {
	for i, tx := range txs {
		if tx.ID == id {
			return i
		}
	}
	return -1
}
