package parallel

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestWorkerPoolRunsEveryTask(t *testing.T) {
	pool := NewWorkerPool(4)
	defer pool.Shutdown()
	assert.Equal(t, 4, pool.Workers())

	var ran atomic.Int64
	for i := 0; i < 100; i++ {
		require.NoError(t, pool.Submit(context.Background(), func() { ran.Add(1) }))
	}
	pool.Wait()
	assert.Equal(t, int64(100), ran.Load())
}

func TestWorkerPoolDefaultsToCPUs(t *testing.T) {
	pool := NewWorkerPool(0)
	defer pool.Shutdown()
	assert.Positive(t, pool.Workers())
}

func TestWorkerPoolNilTask(t *testing.T) {
	pool := NewWorkerPool(1)
	defer pool.Shutdown()
	require.NoError(t, pool.Submit(context.Background(), nil))
	pool.Wait()
}

func TestWorkerPoolSubmitAfterShutdown(t *testing.T) {
	pool := NewWorkerPool(2)
	pool.Shutdown()
	pool.Shutdown()

	err := pool.Submit(context.Background(), func() {})
	assert.ErrorIs(t, err, ErrPoolShutdown)
	pool.Wait()
}

func TestWorkerPoolSubmitHonoursContext(t *testing.T) {
	pool := NewWorkerPool(1)
	defer pool.Shutdown()

	started := make(chan struct{})
	release := make(chan struct{})
	require.NoError(t, pool.Submit(context.Background(), func() {
		close(started)
		<-release
	}))
	<-started

	// One worker busy, two tasks fill the buffer.
	require.NoError(t, pool.Submit(context.Background(), func() {}))
	require.NoError(t, pool.Submit(context.Background(), func() {}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := pool.Submit(ctx, func() { t.Error("cancelled task ran") })
	assert.ErrorIs(t, err, context.Canceled)

	close(release)
	pool.Wait()
}

func TestWorkerPoolShutdownDiscardsQueued(t *testing.T) {
	pool := NewWorkerPool(1)

	started := make(chan struct{})
	release := make(chan struct{})
	require.NoError(t, pool.Submit(context.Background(), func() {
		close(started)
		<-release
	}))
	<-started

	var ran atomic.Int64
	for i := 0; i < 2; i++ {
		require.NoError(t, pool.Submit(context.Background(), func() { ran.Add(1) }))
	}

	done := make(chan struct{})
	go func() {
		pool.Shutdown()
		close(done)
	}()
	close(release)
	<-done

	// Wait must not hang on discarded tasks.
	pool.Wait()
	assert.LessOrEqual(t, ran.Load(), int64(2))
}
