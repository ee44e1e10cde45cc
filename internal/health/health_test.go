package health

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_EmptyIsHealthy(t *testing.T) {
	healthy, statuses := NewRegistry().CheckAll(context.Background())
	assert.True(t, healthy)
	assert.Empty(t, statuses)
}

func TestRegistry_OneUnhealthyFailsAggregate(t *testing.T) {
	r := NewRegistry()
	r.Register("storage", StaticChecker("memory"))
	r.Register("database", func(context.Context) Status {
		return Status{Healthy: false, Detail: "connection refused"}
	})

	healthy, statuses := r.CheckAll(context.Background())
	assert.False(t, healthy)
	require.Len(t, statuses, 2)
	assert.Equal(t, "storage", statuses[0].Name)
	assert.Equal(t, "memory", statuses[0].Detail)
	assert.Equal(t, "database", statuses[1].Name)
	assert.Equal(t, "connection refused", statuses[1].Detail)
}

func TestRegistry_ChecksRunConcurrently(t *testing.T) {
	r := NewRegistry()
	slow := func(context.Context) Status {
		time.Sleep(50 * time.Millisecond)
		return Status{Healthy: true}
	}
	for range 4 {
		r.Register("slow", slow)
	}

	start := time.Now()
	healthy, statuses := r.CheckAll(context.Background())
	assert.True(t, healthy)
	assert.Len(t, statuses, 4)
	assert.Less(t, time.Since(start), 150*time.Millisecond)
	assert.GreaterOrEqual(t, statuses[0].LatencyMs, int64(50))
}

func TestRegistry_ConcurrentRegisterAndCheck(t *testing.T) {
	r := NewRegistry()
	var wg sync.WaitGroup
	for range 10 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			r.Register("storage", StaticChecker("memory"))
		}()
		go func() {
			defer wg.Done()
			r.CheckAll(context.Background())
		}()
	}
	wg.Wait()

	_, statuses := r.CheckAll(context.Background())
	assert.Len(t, statuses, 10)
}

type fakePinger struct {
	err      error
	deadline bool
}

func (f *fakePinger) PingContext(ctx context.Context) error {
	_, f.deadline = ctx.Deadline()
	return f.err
}

func TestPingChecker(t *testing.T) {
	up := &fakePinger{}
	st := PingChecker(up, time.Second)(context.Background())
	assert.True(t, st.Healthy)
	assert.True(t, up.deadline, "ping should run under a deadline")

	down := &fakePinger{err: errors.New("connection refused")}
	st = PingChecker(down, 0)(context.Background())
	assert.False(t, st.Healthy)
	assert.Equal(t, "connection refused", st.Detail)
	assert.False(t, down.deadline, "zero timeout adds no deadline")
}
