package memory

import (
	"context"
	"testing"
	"time"

	"banking-core/internal/core/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func auditEntry(op domain.AuditOperation, actor, entityID string, age time.Duration) *domain.AuditRecord {
	return &domain.AuditRecord{
		ID:         uuid.New(),
		EntityType: domain.EntityTypeAccount,
		EntityID:   entityID,
		Operation:  op,
		Actor:      actor,
		CreatedAt:  time.Now().UTC().Add(-age),
	}
}

func TestAuditTrail_InsertionOrder(t *testing.T) {
	trail := NewAuditTrail()
	ctx := context.Background()

	first := auditEntry(domain.AuditOpAccountCreate, "teller", "1", 0)
	second := auditEntry(domain.AuditOpBalanceUpdate, "teller", "1", 0)
	third := auditEntry(domain.AuditOpAccountDelete, "admin", "1", 0)

	trail.Record(ctx, first)
	trail.Record(ctx, second)
	trail.Record(ctx, third)
	trail.Record(ctx, nil) // ignored

	require.Equal(t, 3, trail.Len(ctx))

	history := trail.History(ctx, domain.EntityTypeAccount, "1")
	require.Len(t, history, 3)
	assert.Equal(t, first.ID, history[0].ID)
	assert.Equal(t, second.ID, history[1].ID)
	assert.Equal(t, third.ID, history[2].ID)
}

func TestAuditTrail_Queries(t *testing.T) {
	trail := NewAuditTrail()
	ctx := context.Background()

	old := auditEntry(domain.AuditOpAccountCreate, "teller", "1", 48*time.Hour)
	recent := auditEntry(domain.AuditOpBalanceUpdate, "admin", "2", 0)
	trail.Record(ctx, old)
	trail.Record(ctx, recent)

	assert.Equal(t, old.ID, trail.FindByID(ctx, old.ID).ID)
	assert.Nil(t, trail.FindByID(ctx, uuid.New()))

	byActor := trail.FindByActor(ctx, "admin")
	require.Len(t, byActor, 1)
	assert.Equal(t, recent.ID, byActor[0].ID)

	byOp := trail.FindByOperation(ctx, domain.AuditOpAccountCreate)
	require.Len(t, byOp, 1)
	assert.Equal(t, old.ID, byOp[0].ID)

	inRange := trail.FindByDateRange(ctx, time.Now().UTC().Add(-time.Hour), time.Now().UTC())
	require.Len(t, inRange, 1)
	assert.Equal(t, recent.ID, inRange[0].ID)

	assert.Empty(t, trail.History(ctx, domain.EntityTypeTransaction, "1"), "entity type is part of the history key")
}

func TestAuditTrail_ReadsReturnCopies(t *testing.T) {
	trail := NewAuditTrail()
	ctx := context.Background()

	rec := auditEntry(domain.AuditOpAccountCreate, "teller", "1", 0)
	rec.Snapshot = []byte(`{"balance":"100"}`)
	trail.Record(ctx, rec)

	got := trail.FindByID(ctx, rec.ID)
	require.NotNil(t, got)
	got.Actor = "intruder"
	got.Operation = domain.AuditOpAccountDelete
	got.Snapshot[2] = 'X'

	fresh := trail.FindByID(ctx, rec.ID)
	assert.Equal(t, "teller", fresh.Actor, "mutating a query result must not edit the log")
	assert.Equal(t, domain.AuditOpAccountCreate, fresh.Operation)
	assert.Equal(t, []byte(`{"balance":"100"}`), []byte(fresh.Snapshot))

	history := trail.History(ctx, domain.EntityTypeAccount, "1")
	require.Len(t, history, 1)
	history[0].Actor = "intruder"
	assert.Equal(t, "teller", trail.History(ctx, domain.EntityTypeAccount, "1")[0].Actor)
}
