package lock

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTryAcquire_Conflict(t *testing.T) {
	locks := New()

	release, ok := locks.TryAcquire(snowflake.ID(1))
	require.True(t, ok)
	assert.True(t, locks.Busy(snowflake.ID(1)))

	_, ok = locks.TryAcquire(snowflake.ID(1))
	assert.False(t, ok, "second acquisition of a busy account must fail")

	release()
	assert.False(t, locks.Busy(snowflake.ID(1)))

	_, ok = locks.TryAcquire(snowflake.ID(1))
	assert.True(t, ok, "account is free again after release")
}

func TestTryAcquire_AllOrNothing(t *testing.T) {
	locks := New()

	_, ok := locks.TryAcquire(snowflake.ID(2))
	require.True(t, ok)

	// 1 is free but 2 is busy: nothing may be taken.
	_, ok = locks.TryAcquire(snowflake.ID(1), snowflake.ID(2))
	require.False(t, ok)
	assert.False(t, locks.Busy(snowflake.ID(1)), "failed multi-acquire must not leave partial locks")
}

func TestTryAcquire_DuplicateIDs(t *testing.T) {
	locks := New()

	release, ok := locks.TryAcquire(snowflake.ID(1), snowflake.ID(1))
	require.True(t, ok, "duplicate ids collapse to one lock")
	release()
	assert.False(t, locks.Busy(snowflake.ID(1)))
}

func TestRelease_Idempotent(t *testing.T) {
	locks := New()

	release, ok := locks.TryAcquire(snowflake.ID(1))
	require.True(t, ok)

	release()
	release() // must not panic or double-free

	again, ok := locks.TryAcquire(snowflake.ID(1))
	require.True(t, ok)
	defer again()
}

func TestAcquire_BlocksUntilReleased(t *testing.T) {
	locks := New()

	release, ok := locks.TryAcquire(snowflake.ID(1))
	require.True(t, ok)

	acquired := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		rel, err := locks.Acquire(context.Background(), snowflake.ID(1))
		assert.NoError(t, err)
		close(acquired)
		rel()
	}()

	select {
	case <-acquired:
		t.Fatal("Acquire returned while the account was still busy")
	case <-time.After(50 * time.Millisecond):
	}

	release()

	select {
	case <-acquired:
	case <-time.After(time.Second):
		t.Fatal("Acquire did not wake up after release")
	}
	wg.Wait()
}

func TestAcquire_ContextTimeout(t *testing.T) {
	locks := New()

	release, ok := locks.TryAcquire(snowflake.ID(1))
	require.True(t, ok)
	defer release()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := locks.Acquire(ctx, snowflake.ID(1))
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestAcquire_Immediate(t *testing.T) {
	locks := New()

	release, err := locks.Acquire(context.Background(), snowflake.ID(1), snowflake.ID(2))
	require.NoError(t, err)
	assert.True(t, locks.Busy(snowflake.ID(1)))
	assert.True(t, locks.Busy(snowflake.ID(2)))
	release()
}

func TestAcquire_Contention(t *testing.T) {
	locks := New()

	const workers = 16
	var counter, peak int
	var mu sync.Mutex
	var wg sync.WaitGroup

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			release, err := locks.Acquire(context.Background(), snowflake.ID(7))
			if err != nil {
				t.Error(err)
				return
			}
			mu.Lock()
			counter++
			if counter > peak {
				peak = counter
			}
			mu.Unlock()

			time.Sleep(time.Millisecond)

			mu.Lock()
			counter--
			mu.Unlock()
			release()
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, peak, "at most one holder of the same account at a time")
}
