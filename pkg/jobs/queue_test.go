package jobs

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueueProcessesJobs(t *testing.T) {
	var mu sync.Mutex
	seen := map[string]interface{}{}
	q := NewQueue("test", func(ctx context.Context, job Job) error {
		mu.Lock()
		defer mu.Unlock()
		seen[job.ID] = job.Payload
		return nil
	}, QueueConfig{Workers: 2})
	q.Start(context.Background())

	require.NoError(t, q.Enqueue(Job{ID: "a", Payload: 1}))
	require.NoError(t, q.Enqueue(Job{Payload: 2}))

	require.NoError(t, q.Stop(context.Background()))

	mu.Lock()
	defer mu.Unlock()
	assert.Len(t, seen, 2)
	assert.Equal(t, 1, seen["a"])
	assert.Equal(t, uint64(2), q.Stats().Processed)
}

func TestQueueRetriesFailedJobs(t *testing.T) {
	var attempts int32
	done := make(chan struct{})
	q := NewQueue("retry", func(ctx context.Context, job Job) error {
		if atomic.AddInt32(&attempts, 1) < 3 {
			return errors.New("transient")
		}
		close(done)
		return nil
	}, QueueConfig{MaxRetries: 3, RetryDelay: time.Millisecond})
	q.Start(context.Background())

	require.NoError(t, q.Enqueue(Job{Type: "delivery_log"}))

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("job was not retried")
	}
	require.NoError(t, q.Stop(context.Background()))
	assert.Equal(t, int32(3), atomic.LoadInt32(&attempts))
}

func TestQueueGivesUpAfterMaxRetries(t *testing.T) {
	var attempts int32
	q := NewQueue("give-up", func(ctx context.Context, job Job) error {
		atomic.AddInt32(&attempts, 1)
		return errors.New("permanent")
	}, QueueConfig{MaxRetries: 0})
	q.Start(context.Background())

	require.NoError(t, q.Enqueue(Job{}))
	require.NoError(t, q.Stop(context.Background()))

	assert.Equal(t, int32(1), atomic.LoadInt32(&attempts))
	assert.Equal(t, uint64(1), q.Stats().Failed)
}

func TestQueueRejectsWhenNotRunning(t *testing.T) {
	q := NewQueue("idle", func(ctx context.Context, job Job) error { return nil }, QueueConfig{})

	assert.ErrorIs(t, q.Enqueue(Job{}), ErrQueueNotRunning)

	q.Start(context.Background())
	require.NoError(t, q.Stop(context.Background()))
	assert.ErrorIs(t, q.Enqueue(Job{}), ErrQueueNotRunning)
}

func TestQueueFullDropsJob(t *testing.T) {
	block := make(chan struct{})
	started := make(chan struct{}, 1)
	q := NewQueue("full", func(ctx context.Context, job Job) error {
		started <- struct{}{}
		<-block
		return nil
	}, QueueConfig{Workers: 1, BufferSize: 1})
	q.Start(context.Background())

	require.NoError(t, q.Enqueue(Job{}))
	<-started
	require.NoError(t, q.Enqueue(Job{}))

	assert.ErrorIs(t, q.Enqueue(Job{}), ErrQueueFull)
	assert.Equal(t, uint64(1), q.Stats().Dropped)

	close(block)
	require.NoError(t, q.Stop(context.Background()))
}
