// internal/platform/workerpool/worker_pool_test.go
package workerpool

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"redrecon/internal/core/ports"
	perrors "redrecon/internal/platform/errors"
	"redrecon/internal/platform/logx"
)

func newTestPool(workers int) *WorkerPool {
	return NewWorkerPool(WorkerPoolConfig{Workers: workers, Logger: logx.NewNop()})
}

func TestDefaultWorkers(t *testing.T) {
	n := DefaultWorkers()
	assert.Greater(t, n, 4)
	assert.LessOrEqual(t, n, 32)
}

func TestWorkerPool_SubmitReturnsValue(t *testing.T) {
	pool := newTestPool(2)
	defer pool.Stop()

	res := <-pool.Submit(context.Background(), "A", func(ctx context.Context) (any, error) {
		return []string{"93.184.216.34"}, nil
	})

	require.NoError(t, res.Err)
	assert.Equal(t, "A", res.Name)
	assert.Equal(t, []string{"93.184.216.34"}, res.Value)
}

func TestWorkerPool_ErrorAndPanicAreIsolated(t *testing.T) {
	pool := newTestPool(2)
	defer pool.Stop()

	ctx := context.Background()
	failing := pool.Submit(ctx, "MX", func(ctx context.Context) (any, error) {
		return nil, errors.New("servfail")
	})
	panicking := pool.Submit(ctx, "TXT", func(ctx context.Context) (any, error) {
		panic("resolver exploded")
	})
	ok := pool.Submit(ctx, "NS", func(ctx context.Context) (any, error) {
		return "ns1.example.com.", nil
	})

	assert.EqualError(t, (<-failing).Err, "servfail")
	assert.True(t, perrors.IsPanic((<-panicking).Err))
	assert.NoError(t, (<-ok).Err)
}

func TestWorkerPool_BoundsConcurrency(t *testing.T) {
	const workers = 3
	pool := newTestPool(workers)
	defer pool.Stop()

	var running, peak int32
	replies := make([]<-chan ports.TaskResult, 0, 12)
	for i := 0; i < 12; i++ {
		replies = append(replies, pool.Submit(context.Background(), "task", func(ctx context.Context) (any, error) {
			cur := atomic.AddInt32(&running, 1)
			for {
				old := atomic.LoadInt32(&peak)
				if cur <= old || atomic.CompareAndSwapInt32(&peak, old, cur) {
					break
				}
			}
			time.Sleep(10 * time.Millisecond)
			atomic.AddInt32(&running, -1)
			return nil, nil
		}))
	}
	for _, r := range replies {
		<-r
	}

	assert.LessOrEqual(t, atomic.LoadInt32(&peak), int32(workers))
}

func TestWorkerPool_SubmitAfterStop(t *testing.T) {
	pool := newTestPool(1)
	pool.Start()
	pool.Stop()
	pool.Stop()

	res := <-pool.Submit(context.Background(), "late", func(ctx context.Context) (any, error) {
		return "never", nil
	})
	assert.ErrorIs(t, res.Err, ErrPoolStopped)
}

func TestWorkerPool_CanceledContextSkipsWork(t *testing.T) {
	pool := newTestPool(1)
	defer pool.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var called atomic.Bool
	res := <-pool.Submit(ctx, "A", func(ctx context.Context) (any, error) {
		called.Store(true)
		return nil, nil
	})

	assert.ErrorIs(t, res.Err, context.Canceled)
	assert.False(t, called.Load())
}
