package domain

import (
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransactionType_Inverse(t *testing.T) {
	tests := []struct {
		kind    TransactionType
		inverse TransactionType
	}{
		{TransactionTypeDeposit, TransactionTypeWithdrawal},
		{TransactionTypeWithdrawal, TransactionTypeDeposit},
		{TransactionTypeSentTransfer, TransactionTypeReceivedTransfer},
		{TransactionTypeReceivedTransfer, TransactionTypeSentTransfer},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			inv, ok := tt.kind.Inverse()
			require.True(t, ok)
			assert.Equal(t, tt.inverse, inv)

			// The mapping is symmetric.
			back, ok := inv.Inverse()
			require.True(t, ok)
			assert.Equal(t, tt.kind, back)
		})
	}
}

func TestTransactionType_Inverse_Unknown(t *testing.T) {
	_, ok := TransactionType("ADJUSTMENT").Inverse()
	assert.False(t, ok)
}

func TestTransactionType_IsCredit(t *testing.T) {
	assert.True(t, TransactionTypeDeposit.IsCredit())
	assert.True(t, TransactionTypeReceivedTransfer.IsCredit())
	assert.False(t, TransactionTypeWithdrawal.IsCredit())
	assert.False(t, TransactionTypeSentTransfer.IsCredit())
}

func TestAccount_CanDebit(t *testing.T) {
	acct := &Account{Balance: decimal.NewFromInt(100)}

	assert.True(t, acct.CanDebit(decimal.NewFromInt(100)))
	assert.True(t, acct.CanDebit(decimal.NewFromInt(99)))
	assert.False(t, acct.CanDebit(decimal.NewFromInt(101)))
}

func TestAccount_Clone_Independent(t *testing.T) {
	acct := &Account{
		Number:  snowflake.ID(42),
		Balance: decimal.NewFromInt(10),
		Active:  true,
	}

	cp := acct.Clone()
	cp.Balance = decimal.NewFromInt(999)
	cp.Active = false

	assert.True(t, acct.Active)
	assert.True(t, acct.Balance.Equal(decimal.NewFromInt(10)))
}

func TestTransaction_Clone_Independent(t *testing.T) {
	dest := snowflake.ID(7)
	txn := &Transaction{
		ID:          1,
		Account:     snowflake.ID(3),
		Destination: &dest,
		Type:        TransactionTypeSentTransfer,
		Amount:      decimal.NewFromInt(25),
	}

	cp := txn.Clone()
	*cp.Destination = snowflake.ID(99)

	assert.Equal(t, snowflake.ID(7), *txn.Destination, "clone must not share the destination pointer")
}
