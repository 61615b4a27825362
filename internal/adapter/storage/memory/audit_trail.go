package memory

import (
	"context"
	"sync"
	"time"

	"banking-core/internal/core/domain"
	"banking-core/internal/core/ports"

	"github.com/google/uuid"
)

// AuditTrail is the in-memory ports.AuditTrail: an append-only log of
// operation records. Entries are never edited or removed; queries return
// copies of the matches in insertion order.
type AuditTrail struct {
	mu      sync.RWMutex
	entries []*domain.AuditRecord
}

var _ ports.AuditTrail = (*AuditTrail)(nil)

// NewAuditTrail creates an empty trail.
func NewAuditTrail() *AuditTrail {
	return &AuditTrail{}
}

// Record appends the entry. It always succeeds.
func (t *AuditTrail) Record(ctx context.Context, rec *domain.AuditRecord) {
	if rec == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.entries = append(t.entries, rec)
}

func (t *AuditTrail) FindByID(ctx context.Context, id uuid.UUID) *domain.AuditRecord {
	t.mu.RLock()
	defer t.mu.RUnlock()
	for _, rec := range t.entries {
		if rec.ID == id {
			return rec.Clone()
		}
	}
	return nil
}

func (t *AuditTrail) FindByActor(ctx context.Context, actor string) []*domain.AuditRecord {
	return t.scan(func(rec *domain.AuditRecord) bool {
		return rec.Actor == actor
	})
}

func (t *AuditTrail) FindByOperation(ctx context.Context, op domain.AuditOperation) []*domain.AuditRecord {
	return t.scan(func(rec *domain.AuditRecord) bool {
		return rec.Operation == op
	})
}

func (t *AuditTrail) FindByDateRange(ctx context.Context, from, to time.Time) []*domain.AuditRecord {
	return t.scan(func(rec *domain.AuditRecord) bool {
		return !rec.CreatedAt.Before(from) && !rec.CreatedAt.After(to)
	})
}

// History returns every record documenting mutations of one entity.
func (t *AuditTrail) History(ctx context.Context, entityType domain.EntityType, entityID string) []*domain.AuditRecord {
	return t.scan(func(rec *domain.AuditRecord) bool {
		return rec.EntityType == entityType && rec.EntityID == entityID
	})
}

func (t *AuditTrail) Len(ctx context.Context) int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.entries)
}

func (t *AuditTrail) scan(pred func(*domain.AuditRecord) bool) []*domain.AuditRecord {
	t.mu.RLock()
	defer t.mu.RUnlock()
	var out []*domain.AuditRecord
	for _, rec := range t.entries {
		if pred(rec) {
			out = append(out, rec.Clone())
		}
	}
	return out
}
