package syncutil

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLockContext_SerializesSameCustomer(t *testing.T) {
	m := NewContextShardedMutex()
	ctx := context.Background()

	// Read-then-write without atomics; lost updates mean the lock leaked.
	counter := 0
	var wg sync.WaitGroup
	for range 100 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock, err := m.LockContext(ctx, "cust_1")
			if err != nil {
				t.Errorf("lock: %v", err)
				return
			}
			v := counter
			time.Sleep(time.Microsecond)
			counter = v + 1
			unlock()
		}()
	}
	wg.Wait()

	assert.Equal(t, 100, counter)
}

func TestLockContext_WaiterGivesUp(t *testing.T) {
	m := NewContextShardedMutex()

	unlock, err := m.LockContext(context.Background(), "cust_1")
	require.NoError(t, err)
	defer unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = m.LockContext(ctx, "cust_1")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestLockContext_ReleaseHandsOver(t *testing.T) {
	m := NewContextShardedMutex()
	ctx := context.Background()

	unlock, err := m.LockContext(ctx, "cust_1")
	require.NoError(t, err)

	acquired := make(chan struct{})
	go func() {
		u, err := m.LockContext(ctx, "cust_1")
		if err != nil {
			return
		}
		close(acquired)
		u()
	}()

	select {
	case <-acquired:
		t.Fatal("second caller acquired a held lock")
	case <-time.After(20 * time.Millisecond):
	}

	unlock()

	select {
	case <-acquired:
	case <-time.After(time.Second):
		t.Fatal("second caller never acquired the lock")
	}
}

func TestLockContext_OtherCustomersProceed(t *testing.T) {
	m := NewContextShardedMutex()
	if m.shardIdx("cust_alpha") == m.shardIdx("cust_beta") {
		t.Skip("keys share a shard")
	}

	unlock, err := m.LockContext(context.Background(), "cust_alpha")
	require.NoError(t, err)
	defer unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	other, err := m.LockContext(ctx, "cust_beta")
	require.NoError(t, err)
	other()
}

func TestNewContextShardedMutexN_MinimumOneShard(t *testing.T) {
	m := NewContextShardedMutexN(0)
	require.Len(t, m.shards, 1)

	unlock, err := m.LockContext(context.Background(), "cust_a")
	require.NoError(t, err)
	defer unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = m.LockContext(ctx, "cust_b")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
