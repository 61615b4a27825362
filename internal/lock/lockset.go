// Package lock provides the process-wide registry of account numbers
// currently undergoing a mutating operation.
package lock

import (
	"context"
	"sort"
	"sync"

	"github.com/bwmarrin/snowflake"
)

// AccountLockSet guards a set of busy account numbers with a single
// coordination mutex. Acquiring one or more accounts is an all-or-nothing
// test-and-set: either every requested account is marked busy, or none is.
// The set only exists for the lifetime of the process.
type AccountLockSet struct {
	mu      sync.Mutex
	busy    map[snowflake.ID]struct{}
	changed chan struct{} // closed and replaced on every release
}

// New creates an empty lock set.
func New() *AccountLockSet {
	return &AccountLockSet{
		busy:    make(map[snowflake.ID]struct{}),
		changed: make(chan struct{}),
	}
}

// TryAcquire marks the accounts busy without blocking. When any of them is
// already busy it marks nothing and reports false. The returned release
// func is safe to call more than once and must run on every exit path.
func (l *AccountLockSet) TryAcquire(ids ...snowflake.ID) (release func(), ok bool) {
	ids = canonical(ids)

	l.mu.Lock()
	defer l.mu.Unlock()

	for _, id := range ids {
		if _, held := l.busy[id]; held {
			return nil, false
		}
	}
	for _, id := range ids {
		l.busy[id] = struct{}{}
	}
	return l.releaser(ids), true
}

// Acquire blocks until every account is free or ctx is done. The wait mode
// of the coordinator bounds ctx with its configured timeout.
func (l *AccountLockSet) Acquire(ctx context.Context, ids ...snowflake.ID) (release func(), err error) {
	ids = canonical(ids)

	for {
		l.mu.Lock()
		free := true
		for _, id := range ids {
			if _, held := l.busy[id]; held {
				free = false
				break
			}
		}
		if free {
			for _, id := range ids {
				l.busy[id] = struct{}{}
			}
			rel := l.releaser(ids)
			l.mu.Unlock()
			return rel, nil
		}
		ch := l.changed
		l.mu.Unlock()

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ch:
		}
	}
}

// Busy reports whether the account is currently marked busy.
func (l *AccountLockSet) Busy(id snowflake.ID) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, held := l.busy[id]
	return held
}

func (l *AccountLockSet) releaser(ids []snowflake.ID) func() {
	var once sync.Once
	return func() {
		once.Do(func() {
			l.mu.Lock()
			for _, id := range ids {
				delete(l.busy, id)
			}
			close(l.changed)
			l.changed = make(chan struct{})
			l.mu.Unlock()
		})
	}
}

// canonical sorts and dedupes the requested ids. The total order keeps
// multi-account acquisition deterministic between contending callers.
func canonical(ids []snowflake.ID) []snowflake.ID {
	out := make([]snowflake.ID, 0, len(ids))
	seen := make(map[snowflake.ID]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
