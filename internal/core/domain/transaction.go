package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// TransactionType represents the kind of money movement.
type TransactionType string

const (
	TransactionTypeDeposit          TransactionType = "DEPOSIT"
	TransactionTypeWithdrawal       TransactionType = "WITHDRAWAL"
	TransactionTypeSentTransfer     TransactionType = "SENT_TRANSFER"
	TransactionTypeReceivedTransfer TransactionType = "RECEIVED_TRANSFER"
)

// inverseTypes is the fixed mapping used by cancellation. A kind without an
// entry cannot be cancelled.
var inverseTypes = map[TransactionType]TransactionType{
	TransactionTypeDeposit:          TransactionTypeWithdrawal,
	TransactionTypeWithdrawal:       TransactionTypeDeposit,
	TransactionTypeSentTransfer:     TransactionTypeReceivedTransfer,
	TransactionTypeReceivedTransfer: TransactionTypeSentTransfer,
}

// Inverse returns the transaction type that undoes the balance effect of t.
func (t TransactionType) Inverse() (TransactionType, bool) {
	inv, ok := inverseTypes[t]
	return inv, ok
}

// IsCredit reports whether the type increases the balance of the account it
// is booked against.
func (t TransactionType) IsCredit() bool {
	return t == TransactionTypeDeposit || t == TransactionTypeReceivedTransfer
}

// Transaction represents an immutable ledger entry for one money movement.
// Amount is always the magnitude moved; its balance effect follows Type.
// Transfer-family entries carry the counterparty account in Destination.
type Transaction struct {
	ID          int64           `json:"id"`
	Account     snowflake.ID    `json:"account"`
	Destination *snowflake.ID   `json:"destination,omitempty"`
	Type        TransactionType `json:"type"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

// Clone returns a copy of the transaction.
func (t *Transaction) Clone() *Transaction {
	cp := *t
	if t.Destination != nil {
		dst := *t.Destination
		cp.Destination = &dst
	}
	return &cp
}
