package memory

import (
	"context"
	"strconv"
	"sync/atomic"
	"time"

	"banking-core/internal/core/domain"
	"banking-core/internal/core/ports"

	"github.com/bwmarrin/snowflake"
	"github.com/rs/zerolog"
)

// TransactionRepo is the in-memory ports.TransactionRepository. Ids come
// from an atomic counter, so they are monotonic and never reused.
type TransactionRepo struct {
	store  *store[int64, *domain.Transaction]
	lastID atomic.Int64
}

var _ ports.TransactionRepository = (*TransactionRepo)(nil)

// NewTransactionRepo creates a transaction store with a fresh id sequence.
func NewTransactionRepo(trail ports.AuditTrail, log zerolog.Logger) *TransactionRepo {
	r := &TransactionRepo{}
	s := newStore[int64, *domain.Transaction](domain.EntityTypeTransaction, trail, log)
	s.nextID = func() int64 { return r.lastID.Add(1) }
	s.idOf = func(t *domain.Transaction) int64 { return t.ID }
	s.setID = func(t *domain.Transaction, id int64) { t.ID = id }
	s.keyStr = func(id int64) string { return strconv.FormatInt(id, 10) }
	s.clone = func(t *domain.Transaction) *domain.Transaction { return t.Clone() }
	r.store = s
	return r
}

func (r *TransactionRepo) Create(ctx context.Context, txn *domain.Transaction, actor string, meta domain.AuditMeta) (*domain.Transaction, error) {
	if txn == nil {
		return nil, nil
	}
	return r.store.create(ctx, txn, domain.AuditOpTransactionCreate, actor, meta)
}

func (r *TransactionRepo) GetByID(ctx context.Context, id int64) (*domain.Transaction, error) {
	txn, ok := r.store.findByID(id)
	if !ok {
		return nil, nil
	}
	return txn, nil
}

func (r *TransactionRepo) SearchByAccount(ctx context.Context, number snowflake.ID) ([]*domain.Transaction, error) {
	return r.store.findAll(func(t *domain.Transaction) bool {
		return t.Account == number || (t.Destination != nil && *t.Destination == number)
	}), nil
}

func (r *TransactionRepo) SearchByType(ctx context.Context, typ domain.TransactionType) ([]*domain.Transaction, error) {
	return r.store.findAll(func(t *domain.Transaction) bool {
		return t.Type == typ
	}), nil
}

func (r *TransactionRepo) SearchByDateRange(ctx context.Context, from, to time.Time) ([]*domain.Transaction, error) {
	return r.store.findAll(func(t *domain.Transaction) bool {
		return !t.CreatedAt.Before(from) && !t.CreatedAt.After(to)
	}), nil
}

func (r *TransactionRepo) List(ctx context.Context) ([]*domain.Transaction, error) {
	return r.store.list(), nil
}

func (r *TransactionRepo) Void(ctx context.Context, id int64, actor string, meta domain.AuditMeta) (*domain.Transaction, error) {
	txn, ok := r.store.delete(ctx, id, domain.AuditOpTransactionVoid, actor, meta)
	if !ok {
		return nil, nil
	}
	return txn, nil
}

func (r *TransactionRepo) Restore(ctx context.Context, id int64, actor string, meta domain.AuditMeta) (*domain.Transaction, error) {
	txn, ok := r.store.restore(ctx, id, domain.AuditOpTransactionRestore, actor, meta)
	if !ok {
		return nil, nil
	}
	return txn, nil
}

func (r *TransactionRepo) Count(ctx context.Context) int {
	return r.store.count()
}
