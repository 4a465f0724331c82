package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pocketfin/account-engine/account"
	"github.com/pocketfin/account-engine/store"
)

func sampleState() account.State {
	at := time.Date(2024, time.January, 10, 12, 0, 0, 0, time.UTC)
	return account.State{
		User: account.User{
			ID:        1,
			FirstName: "Nguyen",
			LastName:  "Nam",
			Balance:   decimal.NewFromInt(9800),
		},
		Beneficiaries: map[int64]account.Beneficiary{
			1: {ID: 1, FirstName: "John", LastName: "Doe", IBAN: "GB33BUKB20201555555555"},
		},
		Transactions: []account.Transaction{
			{ID: 2, Amount: decimal.NewFromInt(200), BeneficiaryID: 1, CreatedAt: at, UpdatedAt: at},
		},
	}
}

func TestEncodeDecode_RoundTrip(t *testing.T) {
	state := sampleState()

	blob, err := store.EncodeState(state)
	require.NoError(t, err)

	restored, err := store.DecodeState(blob)
	require.NoError(t, err)
	assert.Equal(t, state, *restored)
}

func TestDecodeState_RejectsGarbage(t *testing.T) {
	_, err := store.DecodeState([]byte("not json"))
	assert.Error(t, err)
}

func TestMemory_LoadBeforeSaveReturnsNil(t *testing.T) {
	m := store.NewMemory()

	state, err := m.LoadState(context.Background())
	require.NoError(t, err)
	assert.Nil(t, state)
}

func TestMemory_SaveLoadRoundTrip(t *testing.T) {
	m := store.NewMemory()
	ctx := context.Background()
	state := sampleState()

	require.NoError(t, m.SaveState(ctx, state))

	restored, err := m.LoadState(ctx)
	require.NoError(t, err)
	require.NotNil(t, restored)
	assert.Equal(t, state, *restored)
}

func TestMemory_SaveReplacesPrevious(t *testing.T) {
	m := store.NewMemory()
	ctx := context.Background()

	first := sampleState()
	require.NoError(t, m.SaveState(ctx, first))

	second := first.Clone()
	second.User.Balance = decimal.NewFromInt(500)
	second.Transactions = []account.Transaction{}
	require.NoError(t, m.SaveState(ctx, second))

	restored, err := m.LoadState(ctx)
	require.NoError(t, err)
	assert.True(t, restored.User.Balance.Equal(decimal.NewFromInt(500)))
	assert.Empty(t, restored.Transactions)
}

func TestMemory_InitializedFlag(t *testing.T) {
	m := store.NewMemory()
	ctx := context.Background()

	done, err := m.Initialized(ctx)
	require.NoError(t, err)
	assert.False(t, done)

	require.NoError(t, m.SetInitialized(ctx))
	require.NoError(t, m.SetInitialized(ctx)) // idempotent

	done, err = m.Initialized(ctx)
	require.NoError(t, err)
	assert.True(t, done)
}
