// Package memory provides the in-memory entity stores backing the ledger.
// Records are never physically destroyed while the process runs: deletion
// flips a lifecycle state on the record, so an id can never be live and
// deleted at the same time.
package memory

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"banking-core/internal/core/domain"
	"banking-core/internal/core/ports"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type lifecycle int

const (
	stateLive lifecycle = iota
	stateDeleted
)

type record[E any] struct {
	entity E
	state  lifecycle
}

// store is a generic soft-delete collection for one entity kind. Every
// mutating call appends exactly one audit record through the trail.
type store[K comparable, E any] struct {
	mu      sync.RWMutex
	records map[K]*record[E]
	order   []K // insertion order of ids, for deterministic scans

	entity domain.EntityType
	nextID func() K
	idOf   func(E) K
	setID  func(E, K)
	keyStr func(K) string
	clone  func(E) E

	trail ports.AuditTrail
	log   zerolog.Logger
}

func newStore[K comparable, E any](entity domain.EntityType, trail ports.AuditTrail, log zerolog.Logger) *store[K, E] {
	return &store[K, E]{
		records: make(map[K]*record[E]),
		entity:  entity,
		trail:   trail,
		log:     log.With().Str("entity", string(entity)).Logger(),
	}
}

// create stores the entity, assigning the next id when the entity carries
// the zero id. An id already present, live or deleted, is rejected.
func (s *store[K, E]) create(ctx context.Context, e E, op domain.AuditOperation, actor string, meta domain.AuditMeta) (E, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var zeroID K
	id := s.idOf(e)
	if id == zeroID {
		id = s.nextID()
		s.setID(e, id)
	} else if _, ok := s.records[id]; ok {
		var zero E
		return zero, ports.ErrDuplicateID
	}

	stored := s.clone(e)
	s.records[id] = &record[E]{entity: stored}
	s.order = append(s.order, id)

	s.audit(ctx, id, stored, op, actor, meta)
	return s.clone(stored), nil
}

// update replaces the live entity with the same id. Returns the zero value
// when no live entity carries that id.
func (s *store[K, E]) update(ctx context.Context, e E, op domain.AuditOperation, actor string, meta domain.AuditMeta) (E, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.idOf(e)
	rec, ok := s.records[id]
	if !ok || rec.state != stateLive {
		var zero E
		return zero, false
	}

	stored := s.clone(e)
	rec.entity = stored

	s.audit(ctx, id, stored, op, actor, meta)
	return s.clone(stored), true
}

func (s *store[K, E]) findByID(id K) (E, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[id]
	if !ok || rec.state != stateLive {
		var zero E
		return zero, false
	}
	return s.clone(rec.entity), true
}

func (s *store[K, E]) find(pred func(E) bool) (E, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, id := range s.order {
		rec := s.records[id]
		if rec.state == stateLive && pred(rec.entity) {
			return s.clone(rec.entity), true
		}
	}
	var zero E
	return zero, false
}

func (s *store[K, E]) findAll(pred func(E) bool) []E {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []E
	for _, id := range s.order {
		rec := s.records[id]
		if rec.state == stateLive && pred(rec.entity) {
			out = append(out, s.clone(rec.entity))
		}
	}
	return out
}

func (s *store[K, E]) list() []E {
	return s.findAll(func(E) bool { return true })
}

// delete moves the live entity with the given id into the deleted state.
func (s *store[K, E]) delete(ctx context.Context, id K, op domain.AuditOperation, actor string, meta domain.AuditMeta) (E, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[id]
	if !ok || rec.state != stateLive {
		var zero E
		return zero, false
	}
	rec.state = stateDeleted

	s.audit(ctx, id, rec.entity, op, actor, meta)
	return s.clone(rec.entity), true
}

// restore re-admits a deleted entity into the live set.
func (s *store[K, E]) restore(ctx context.Context, id K, op domain.AuditOperation, actor string, meta domain.AuditMeta) (E, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[id]
	if !ok || rec.state != stateDeleted {
		var zero E
		return zero, false
	}
	rec.state = stateLive

	s.audit(ctx, id, rec.entity, op, actor, meta)
	return s.clone(rec.entity), true
}

func (s *store[K, E]) count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0
	for _, rec := range s.records {
		if rec.state == stateLive {
			n++
		}
	}
	return n
}

// audit appends the record documenting a mutation. Callers hold s.mu, so
// the audit entry lands in the same logical step as the mutation itself.
func (s *store[K, E]) audit(ctx context.Context, id K, e E, op domain.AuditOperation, actor string, meta domain.AuditMeta) {
	snapshot, err := json.Marshal(e)
	if err != nil {
		s.log.Warn().Err(err).Str("op", string(op)).Msg("failed to snapshot entity for audit")
		snapshot = nil
	}

	s.trail.Record(ctx, &domain.AuditRecord{
		ID:         uuid.New(),
		EntityType: s.entity,
		EntityID:   s.keyStr(id),
		Operation:  op,
		Snapshot:   snapshot,
		Actor:      actor,
		Amount:     meta.Amount,
		Detail:     meta.Detail,
		CreatedAt:  time.Now().UTC(),
	})
}
