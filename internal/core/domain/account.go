package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AccountType represents the product category of an account.
type AccountType string

const (
	AccountTypeSavings   AccountType = "SAVINGS"
	AccountTypeChecking  AccountType = "CHECKING"
	AccountTypeFixedTerm AccountType = "FIXED_TERM"
)

// Account represents a customer account and its current balance.
// Number is assigned once at creation and never changes; InitialBalance
// records the opening deposit and is never mutated afterwards.
type Account struct {
	Number         snowflake.ID    `json:"number"`
	HolderID       uuid.UUID       `json:"holder_id"`
	Type           AccountType     `json:"type"`
	InitialBalance decimal.Decimal `json:"initial_balance"`
	Balance        decimal.Decimal `json:"balance"`
	Active         bool            `json:"active"`
	CreatedAt      time.Time       `json:"created_at"`
}

// CanDebit reports whether the account covers a debit of the given amount.
func (a *Account) CanDebit(amount decimal.Decimal) bool {
	return a.Balance.GreaterThanOrEqual(amount)
}

// Clone returns a copy of the account so callers can hand out snapshots
// without exposing the stored record to mutation.
func (a *Account) Clone() *Account {
	cp := *a
	return &cp
}

// AccountPatch holds the optional fields of a partial account update.
// Nil fields are left untouched.
type AccountPatch struct {
	HolderID *uuid.UUID
	Type     *AccountType
	Active   *bool
}
