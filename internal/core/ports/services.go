package ports

//go:generate mockgen -destination=mocks/mocks.go -package=mocks banking-core/internal/core/ports AccountLedger,TransactionRepository

import (
	"context"
	"io"
	"time"

	"banking-core/internal/core/domain"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AccountLedger defines domain-level operations over the account store.
// UpdateBalance replaces the balance unconditionally — sign checks belong
// to the coordinator, since administrative corrections may legitimately
// bypass business validation. Ledger calls do not take the account lock
// set: an administrative mutation racing a coordinator operation can make
// that operation fail mid-flight (a deleted account aborts the credit leg
// of a transfer after the debit landed, without compensation). Callers
// needing isolation from in-flight movements must drain or avoid
// coordinator traffic for the affected accounts first.
type AccountLedger interface {
	Create(ctx context.Context, req CreateAccountRequest) (*domain.Account, error)
	GetByNumber(ctx context.Context, number snowflake.ID) (*domain.Account, error)
	GetAll(ctx context.Context) ([]*domain.Account, error)
	SearchByHolder(ctx context.Context, holder uuid.UUID) ([]*domain.Account, error)
	SearchByType(ctx context.Context, t domain.AccountType) ([]*domain.Account, error)
	SearchActive(ctx context.Context) ([]*domain.Account, error)
	UpdateBalance(ctx context.Context, number snowflake.ID, balance decimal.Decimal, actor string) (*domain.Account, error)
	UpdateStatus(ctx context.Context, number snowflake.ID, active bool, actor string) (*domain.Account, error)
	UpdateHolder(ctx context.Context, number snowflake.ID, holder uuid.UUID, actor string) (*domain.Account, error)
	Update(ctx context.Context, number snowflake.ID, patch domain.AccountPatch, actor string) (*domain.Account, error)
	Delete(ctx context.Context, number snowflake.ID, actor string) (*domain.Account, error)
	Restore(ctx context.Context, number snowflake.ID, actor string) (*domain.Account, error)
}

// CreateAccountRequest holds validated input for opening an account.
// OpeningDeposit is mandatory and becomes the account's first transaction.
type CreateAccountRequest struct {
	HolderID       uuid.UUID
	Type           domain.AccountType
	OpeningDeposit decimal.Decimal
	Actor          string
}

// TransactionCoordinator orchestrates money movement under per-account
// mutual exclusion. Operations fail fast with a lock-unavailable error when
// another operation is in flight for one of the involved accounts.
type TransactionCoordinator interface {
	Deposit(ctx context.Context, req ChargeRequest) (*domain.Transaction, error)
	Withdraw(ctx context.Context, req ChargeRequest) (*domain.Transaction, error)
	Transfer(ctx context.Context, req TransferRequest) (*domain.Transaction, error)
	Cancel(ctx context.Context, req CancelRequest) (*domain.Transaction, error)
}

// ChargeRequest holds validated input for a single-account movement.
type ChargeRequest struct {
	Account     snowflake.ID
	Amount      decimal.Decimal
	Description string
	Actor       string
}

// TransferRequest holds validated input for a two-account movement.
type TransferRequest struct {
	Source      snowflake.ID
	Destination snowflake.ID
	Amount      decimal.Decimal
	Description string
	Actor       string
}

// CancelRequest identifies the transaction whose balance effect should be
// undone by booking its inverse.
type CancelRequest struct {
	TransactionID int64
	Actor         string
}

// StatementService renders account statements.
type StatementService interface {
	Statement(ctx context.Context, w io.Writer, req StatementRequest) error
}

// StatementRequest selects the account and optional period of a statement.
type StatementRequest struct {
	Account snowflake.ID
	From    *time.Time
	To      *time.Time
}

// ReportingService aggregates per-account transaction statistics.
type ReportingService interface {
	AccountStats(ctx context.Context, number snowflake.ID, period string) (*AccountStats, error)
}

// AccountStats holds aggregated movement counts and totals for one account.
type AccountStats struct {
	TotalTransactions int64
	Deposits          int64
	Withdrawals       int64
	SentTransfers     int64
	ReceivedTransfers int64
	TotalIn           decimal.Decimal
	TotalOut          decimal.Decimal
}
