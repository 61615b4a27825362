package ports

import (
	"context"
	"errors"
	"time"

	"banking-core/internal/core/domain"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
)

// ErrDuplicateID is returned by Create when the supplied entity id is
// already in use, live or deleted.
var ErrDuplicateID = errors.New("id already in use")

// AccountRepository defines store operations for accounts. Mutating calls
// name the audit operation and the acting user; every successful mutation
// appends exactly one audit record. Lookups return (nil, nil) when the
// account does not exist.
type AccountRepository interface {
	// Create assigns a fresh account number when acct.Number is zero and
	// stores the account. A number already in use is a validation error.
	Create(ctx context.Context, acct *domain.Account, op domain.AuditOperation, actor string, meta domain.AuditMeta) (*domain.Account, error)
	// Update replaces the stored account with the same number.
	Update(ctx context.Context, acct *domain.Account, op domain.AuditOperation, actor string, meta domain.AuditMeta) (*domain.Account, error)
	GetByNumber(ctx context.Context, number snowflake.ID) (*domain.Account, error)
	Find(ctx context.Context, pred func(*domain.Account) bool) (*domain.Account, error)
	FindAll(ctx context.Context, pred func(*domain.Account) bool) ([]*domain.Account, error)
	List(ctx context.Context) ([]*domain.Account, error)
	// Delete moves the account out of the live set; the record is retained
	// and can be brought back with Restore.
	Delete(ctx context.Context, number snowflake.ID, actor string, meta domain.AuditMeta) (*domain.Account, error)
	Restore(ctx context.Context, number snowflake.ID, actor string, meta domain.AuditMeta) (*domain.Account, error)
	Count(ctx context.Context) int
}

// TransactionRepository defines store operations for ledger transactions.
// Transaction ids are assigned from a strictly increasing sequence and are
// never reused. Stored transactions are immutable; voiding moves a record
// out of the live set without altering it.
type TransactionRepository interface {
	Create(ctx context.Context, txn *domain.Transaction, actor string, meta domain.AuditMeta) (*domain.Transaction, error)
	GetByID(ctx context.Context, id int64) (*domain.Transaction, error)
	SearchByAccount(ctx context.Context, number snowflake.ID) ([]*domain.Transaction, error)
	SearchByType(ctx context.Context, t domain.TransactionType) ([]*domain.Transaction, error)
	SearchByDateRange(ctx context.Context, from, to time.Time) ([]*domain.Transaction, error)
	List(ctx context.Context) ([]*domain.Transaction, error)
	// Void soft-deletes a transaction record. Restoring it re-admits the
	// record only; neither call has any balance effect.
	Void(ctx context.Context, id int64, actor string, meta domain.AuditMeta) (*domain.Transaction, error)
	Restore(ctx context.Context, id int64, actor string, meta domain.AuditMeta) (*domain.Transaction, error)
	Count(ctx context.Context) int
}

// AuditTrail is the append-only system of record for entity mutations.
// Record never fails; queries scan the log and return matches oldest first.
type AuditTrail interface {
	Record(ctx context.Context, rec *domain.AuditRecord)
	FindByID(ctx context.Context, id uuid.UUID) *domain.AuditRecord
	FindByActor(ctx context.Context, actor string) []*domain.AuditRecord
	FindByOperation(ctx context.Context, op domain.AuditOperation) []*domain.AuditRecord
	FindByDateRange(ctx context.Context, from, to time.Time) []*domain.AuditRecord
	History(ctx context.Context, entityType domain.EntityType, entityID string) []*domain.AuditRecord
	Len(ctx context.Context) int
}
