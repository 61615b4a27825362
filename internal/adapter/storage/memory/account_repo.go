package memory

import (
	"context"

	"banking-core/internal/core/domain"
	"banking-core/internal/core/ports"

	"github.com/bwmarrin/snowflake"
	"github.com/rs/zerolog"
)

// AccountRepo is the in-memory ports.AccountRepository. Account numbers come
// from a snowflake node, so they are strictly increasing and never reused
// across delete/restore cycles.
type AccountRepo struct {
	store *store[snowflake.ID, *domain.Account]
}

var _ ports.AccountRepository = (*AccountRepo)(nil)

// NewAccountRepo creates an account store generating numbers from node.
func NewAccountRepo(node *snowflake.Node, trail ports.AuditTrail, log zerolog.Logger) *AccountRepo {
	s := newStore[snowflake.ID, *domain.Account](domain.EntityTypeAccount, trail, log)
	s.nextID = func() snowflake.ID { return node.Generate() }
	s.idOf = func(a *domain.Account) snowflake.ID { return a.Number }
	s.setID = func(a *domain.Account, id snowflake.ID) { a.Number = id }
	s.keyStr = func(id snowflake.ID) string { return id.String() }
	s.clone = func(a *domain.Account) *domain.Account { return a.Clone() }
	return &AccountRepo{store: s}
}

func (r *AccountRepo) Create(ctx context.Context, acct *domain.Account, op domain.AuditOperation, actor string, meta domain.AuditMeta) (*domain.Account, error) {
	if acct == nil {
		return nil, nil
	}
	return r.store.create(ctx, acct, op, actor, meta)
}

func (r *AccountRepo) Update(ctx context.Context, acct *domain.Account, op domain.AuditOperation, actor string, meta domain.AuditMeta) (*domain.Account, error) {
	if acct == nil {
		return nil, nil
	}
	updated, ok := r.store.update(ctx, acct, op, actor, meta)
	if !ok {
		return nil, nil
	}
	return updated, nil
}

func (r *AccountRepo) GetByNumber(ctx context.Context, number snowflake.ID) (*domain.Account, error) {
	acct, ok := r.store.findByID(number)
	if !ok {
		return nil, nil
	}
	return acct, nil
}

func (r *AccountRepo) Find(ctx context.Context, pred func(*domain.Account) bool) (*domain.Account, error) {
	acct, ok := r.store.find(pred)
	if !ok {
		return nil, nil
	}
	return acct, nil
}

func (r *AccountRepo) FindAll(ctx context.Context, pred func(*domain.Account) bool) ([]*domain.Account, error) {
	return r.store.findAll(pred), nil
}

func (r *AccountRepo) List(ctx context.Context) ([]*domain.Account, error) {
	return r.store.list(), nil
}

func (r *AccountRepo) Delete(ctx context.Context, number snowflake.ID, actor string, meta domain.AuditMeta) (*domain.Account, error) {
	acct, ok := r.store.delete(ctx, number, domain.AuditOpAccountDelete, actor, meta)
	if !ok {
		return nil, nil
	}
	return acct, nil
}

func (r *AccountRepo) Restore(ctx context.Context, number snowflake.ID, actor string, meta domain.AuditMeta) (*domain.Account, error) {
	acct, ok := r.store.restore(ctx, number, domain.AuditOpAccountRestore, actor, meta)
	if !ok {
		return nil, nil
	}
	return acct, nil
}

func (r *AccountRepo) Count(ctx context.Context) int {
	return r.store.count()
}
