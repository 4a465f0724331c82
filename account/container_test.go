package account_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pocketfin/account-engine/account"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func newTestContainer(t *testing.T, balance int64) *account.Container {
	t.Helper()
	c := account.NewContainer(account.User{
		ID:        1,
		FirstName: "Nguyen",
		LastName:  "Nam",
	})
	c.Seed(account.BlankSeed(balance))
	return c
}

func beneficiary(first, last, iban string) account.Beneficiary {
	b := account.DefaultBeneficiary()
	b.FirstName = first
	b.LastName = last
	b.IBAN = iban
	return b
}

func transaction(amount int64, beneficiaryID int64) account.Transaction {
	tx := account.DefaultTransaction()
	tx.Amount = decimal.NewFromInt(amount)
	tx.BeneficiaryID = beneficiaryID
	return tx
}

func balanceOf(c *account.Container) int64 {
	return c.User().Balance.IntPart()
}

// =============================================================================
// FULL LIFECYCLE
// =============================================================================

func TestContainer_CreateUpdateDeleteTransaction_BalanceFollows(t *testing.T) {
	// GIVEN: A freshly seeded account with balance 1000
	c := newTestContainer(t, 1000)

	// WHEN: Creating the first beneficiary
	b := c.CreateBeneficiary(beneficiary("John", "Doe", "GB33BUKB20201555555555"))

	// THEN: It gets the first allocated id and the directory grows by one
	assert.Equal(t, int64(1), b.ID)
	assert.Len(t, c.Beneficiaries(), 1)

	// WHEN: Creating a transaction of 200 against it
	tx := c.CreateTransaction(transaction(200, b.ID))

	// THEN: Balance drops to 800 and the ledger holds one entry
	assert.Equal(t, int64(800), balanceOf(c))
	assert.Len(t, c.Transactions(), 1)
	assert.False(t, tx.CreatedAt.IsZero())
	assert.Equal(t, tx.CreatedAt, tx.UpdatedAt)

	// WHEN: Updating the transaction down to 50
	patch := transaction(50, b.ID)
	patch.ID = tx.ID
	_, err := c.UpdateTransaction(patch)
	require.NoError(t, err)

	// THEN: The old amount is reversed and the new one applied
	assert.Equal(t, int64(950), balanceOf(c))

	// WHEN: Deleting the transaction
	c.DeleteTransaction(tx.ID)

	// THEN: Balance returns to the seeded value and the ledger is empty
	assert.Equal(t, int64(1000), balanceOf(c))
	assert.Empty(t, c.Transactions())
}

// =============================================================================
// BALANCE INVARIANT
// =============================================================================

func TestContainer_BalanceEqualsSeedMinusLedgerSum(t *testing.T) {
	// GIVEN: A seeded account and a mixed sequence of mutations
	c := newTestContainer(t, 10_000)
	b := c.CreateBeneficiary(beneficiary("Jane", "Smith", "DE89370400440532013000"))

	tx1 := c.CreateTransaction(transaction(300, b.ID))
	tx2 := c.CreateTransaction(transaction(150, b.ID))
	c.CreateTransaction(transaction(75, b.ID))

	c.DeleteTransaction(tx1.ID)

	patch := transaction(500, b.ID)
	patch.ID = tx2.ID
	_, err := c.UpdateTransaction(patch)
	require.NoError(t, err)

	c.CreateTransaction(transaction(25, b.ID))

	// THEN: balance == seeded balance - sum of surviving amounts
	sum := decimal.Zero
	for _, tx := range c.Transactions() {
		sum = sum.Add(tx.Amount)
	}
	expected := decimal.NewFromInt(10_000).Sub(sum)
	assert.True(t, c.User().Balance.Equal(expected),
		"balance %s != seeded - ledger sum %s", c.User().Balance, expected)
	assert.Equal(t, int64(9400), balanceOf(c)) // 10000 - (500 + 75 + 25)
}

func TestContainer_UpdateNonAmountField_BalanceUnchanged(t *testing.T) {
	// GIVEN: A transaction against beneficiary A
	c := newTestContainer(t, 1000)
	a := c.CreateBeneficiary(beneficiary("John", "Doe", "GB33BUKB20201555555555"))
	b := c.CreateBeneficiary(beneficiary("Jane", "Smith", "DE89370400440532013000"))
	tx := c.CreateTransaction(transaction(200, a.ID))

	// WHEN: Re-pointing it at beneficiary B with the same amount
	patch := transaction(200, b.ID)
	patch.ID = tx.ID
	updated, err := c.UpdateTransaction(patch)
	require.NoError(t, err)

	// THEN: Balance is untouched, only the reference moved
	assert.Equal(t, int64(800), balanceOf(c))
	assert.Equal(t, b.ID, updated.BeneficiaryID)
}

// =============================================================================
// UPDATE SEMANTICS
// =============================================================================

func TestContainer_UpdateTransaction_KeepsPositionAndCreatedAt(t *testing.T) {
	// GIVEN: Three ledger entries
	c := newTestContainer(t, 5000)
	b := c.CreateBeneficiary(beneficiary("John", "Doe", "GB33BUKB20201555555555"))
	tx1 := c.CreateTransaction(transaction(100, b.ID))
	tx2 := c.CreateTransaction(transaction(200, b.ID))
	tx3 := c.CreateTransaction(transaction(300, b.ID))

	// WHEN: Updating the middle one
	patch := transaction(999, b.ID)
	patch.ID = tx2.ID
	updated, err := c.UpdateTransaction(patch)
	require.NoError(t, err)

	// THEN: It stays in the middle, CreatedAt is preserved, UpdatedAt moves
	txs := c.Transactions()
	require.Len(t, txs, 3)
	assert.Equal(t, []int64{tx1.ID, tx2.ID, tx3.ID}, []int64{txs[0].ID, txs[1].ID, txs[2].ID})
	assert.True(t, txs[1].Amount.Equal(decimal.NewFromInt(999)))
	assert.Equal(t, tx2.CreatedAt, updated.CreatedAt)
	assert.False(t, updated.UpdatedAt.Before(tx2.UpdatedAt))
}

func TestContainer_UpdateTransaction_NotFound(t *testing.T) {
	// GIVEN: An empty ledger
	c := newTestContainer(t, 1000)

	// WHEN: Updating a nonexistent id
	patch := transaction(50, 1)
	patch.ID = 42
	_, err := c.UpdateTransaction(patch)

	// THEN: A NotFound error, and the balance is untouched
	assert.ErrorIs(t, err, account.ErrTransactionNotFound)
	assert.Equal(t, int64(1000), balanceOf(c))
}

// =============================================================================
// DELETE SEMANTICS
// =============================================================================

func TestContainer_DeleteTransaction_Idempotent(t *testing.T) {
	// GIVEN: One transaction of 200
	c := newTestContainer(t, 1000)
	b := c.CreateBeneficiary(beneficiary("John", "Doe", "GB33BUKB20201555555555"))
	tx := c.CreateTransaction(transaction(200, b.ID))
	require.Equal(t, int64(800), balanceOf(c))

	// WHEN: Deleting it twice
	c.DeleteTransaction(tx.ID)
	c.DeleteTransaction(tx.ID)

	// THEN: The second call is a no-op; the amount is credited back once
	assert.Equal(t, int64(1000), balanceOf(c))
	assert.Empty(t, c.Transactions())
}

func TestContainer_DeleteTransaction_PreservesOrder(t *testing.T) {
	c := newTestContainer(t, 5000)
	b := c.CreateBeneficiary(beneficiary("John", "Doe", "GB33BUKB20201555555555"))
	tx1 := c.CreateTransaction(transaction(100, b.ID))
	tx2 := c.CreateTransaction(transaction(200, b.ID))
	tx3 := c.CreateTransaction(transaction(300, b.ID))

	c.DeleteTransaction(tx2.ID)

	txs := c.Transactions()
	require.Len(t, txs, 2)
	assert.Equal(t, tx1.ID, txs[0].ID)
	assert.Equal(t, tx3.ID, txs[1].ID)
}

// =============================================================================
// SNAPSHOT SEMANTICS
// =============================================================================

func TestContainer_Snapshot_IsIsolated(t *testing.T) {
	// GIVEN: A snapshot taken before further mutations
	c := newTestContainer(t, 1000)
	b := c.CreateBeneficiary(beneficiary("John", "Doe", "GB33BUKB20201555555555"))
	c.CreateTransaction(transaction(100, b.ID))
	snap := c.Snapshot()

	// WHEN: The container mutates and the snapshot copy is scribbled on
	c.CreateTransaction(transaction(200, b.ID))
	snap.Beneficiaries[99] = account.Beneficiary{ID: 99}
	snap.Transactions[0].Amount = decimal.NewFromInt(12345)

	// THEN: Neither side sees the other's changes
	assert.Len(t, snap.Transactions, 1)
	assert.Len(t, c.Transactions(), 2)
	assert.Len(t, c.Beneficiaries(), 1)
	assert.True(t, c.Transactions()[0].Amount.Equal(decimal.NewFromInt(100)))
}

func TestState_JSONRoundTrip_Identical(t *testing.T) {
	// GIVEN: A populated state
	c := newTestContainer(t, 1000)
	c.SetClock(func() time.Time { return time.Date(2024, time.January, 10, 12, 0, 0, 0, time.UTC) })
	b := c.CreateBeneficiary(beneficiary("John", "Doe", "GB33BUKB20201555555555"))
	c.CreateTransaction(transaction(200, b.ID))
	original := c.Snapshot()

	// WHEN: Serializing and deserializing
	blob, err := json.Marshal(original)
	require.NoError(t, err)
	var restored account.State
	require.NoError(t, json.Unmarshal(blob, &restored))

	// THEN: The snapshot is reproduced exactly
	assert.Equal(t, original.User.ID, restored.User.ID)
	assert.True(t, original.User.Balance.Equal(restored.User.Balance))
	assert.Equal(t, original.Beneficiaries, restored.Beneficiaries)
	require.Len(t, restored.Transactions, 1)
	assert.True(t, original.Transactions[0].Amount.Equal(restored.Transactions[0].Amount))
	assert.True(t, original.Transactions[0].CreatedAt.Equal(restored.Transactions[0].CreatedAt))
}

// =============================================================================
// RESTORE + SEED
// =============================================================================

func TestRestore_AllocatorResumesAboveExistingIDs(t *testing.T) {
	// GIVEN: A snapshot containing ids up to 7
	state := account.State{
		User: account.User{ID: 1, Balance: decimal.NewFromInt(500)},
		Beneficiaries: map[int64]account.Beneficiary{
			3: {ID: 3, FirstName: "Jane", LastName: "Smith", IBAN: "DE89370400440532013000"},
		},
		Transactions: []account.Transaction{
			{ID: 7, Amount: decimal.NewFromInt(100), BeneficiaryID: 3},
		},
	}

	// WHEN: Restoring and creating a new record
	c := account.Restore(state)
	b := c.CreateBeneficiary(beneficiary("John", "Doe", "GB33BUKB20201555555555"))

	// THEN: The new id is above everything in the snapshot
	assert.Greater(t, b.ID, int64(7))
}

func TestSeed_OverwritesCleanlyWhenInvokedTwice(t *testing.T) {
	// GIVEN: An account that was already seeded and mutated
	c := newTestContainer(t, 1000)
	b := c.CreateBeneficiary(beneficiary("John", "Doe", "GB33BUKB20201555555555"))
	c.CreateTransaction(transaction(200, b.ID))

	// WHEN: Seeding again
	c.Seed(account.BlankSeed(10_000))

	// THEN: The state is fully replaced, not merged
	assert.Equal(t, int64(10_000), balanceOf(c))
	assert.Empty(t, c.Beneficiaries())
	assert.Empty(t, c.Transactions())

	// AND: The user identity survives seeding
	assert.Equal(t, "Nguyen", c.User().FirstName)
}

func TestSeed_SampleDataSkipsPerItemBalanceAdjustment(t *testing.T) {
	// GIVEN: Seed data with transactions whose sum is nonzero
	c := account.NewContainer(account.User{ID: 1, FirstName: "Nguyen", LastName: "Nam"})
	data := account.SeedData{
		Balance: decimal.NewFromInt(1_000_000),
		Beneficiaries: map[int64]account.Beneficiary{
			1: {ID: 1, FirstName: "John", LastName: "Doe", IBAN: "GB33BUKB20201555555555"},
		},
		Transactions: []account.Transaction{
			{ID: 2, Amount: decimal.NewFromInt(400), BeneficiaryID: 1},
			{ID: 3, Amount: decimal.NewFromInt(600), BeneficiaryID: 1},
		},
	}

	// WHEN: Seeding
	c.Seed(data)

	// THEN: The balance is exactly the seeded value; the seeded ledger does
	// not debit it
	assert.Equal(t, int64(1_000_000), balanceOf(c))
	assert.Len(t, c.Transactions(), 2)

	// AND: New ids continue above the seeded ones
	nb := c.CreateBeneficiary(beneficiary("Jane", "Smith", "DE89370400440532013000"))
	assert.Greater(t, nb.ID, int64(3))
}
