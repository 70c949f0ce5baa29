package jobs

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueueProcessesJobs(t *testing.T) {
	done := make(chan []string, 1)
	q := NewQueue("test", func(_ context.Context, job Job[[]string]) error {
		done <- job.Payload
		return nil
	}, QueueConfig[[]string]{Workers: 1})
	q.Start(context.Background())
	defer q.Stop()

	require.NoError(t, q.Enqueue(Job[[]string]{ID: "a", Payload: []string{"/news"}}))
	select {
	case paths := <-done:
		assert.Equal(t, []string{"/news"}, paths)
	case <-time.After(time.Second):
		t.Fatal("job not processed")
	}
}

func TestQueueRetriesFailedJobs(t *testing.T) {
	var calls int32
	done := make(chan int, 1)
	q := NewQueue("retry", func(_ context.Context, job Job[int]) error {
		if atomic.AddInt32(&calls, 1) < 2 {
			return errors.New("transient")
		}
		done <- job.Attempt
		return nil
	}, QueueConfig[int]{Workers: 1, MaxRetries: 3, RetryDelay: 10 * time.Millisecond})
	q.Start(context.Background())
	defer q.Stop()

	require.NoError(t, q.Enqueue(Job[int]{ID: "r"}))
	select {
	case attempt := <-done:
		assert.Equal(t, 1, attempt)
	case <-time.After(time.Second):
		t.Fatal("job not retried")
	}
	assert.EqualValues(t, 2, atomic.LoadInt32(&calls))
}

func TestQueueGivesUpAfterMaxRetries(t *testing.T) {
	abandoned := make(chan Job[string], 1)
	var calls int32
	q := NewQueue("giveup", func(context.Context, Job[string]) error {
		atomic.AddInt32(&calls, 1)
		return errors.New("down")
	}, QueueConfig[string]{
		Workers:    1,
		MaxRetries: 1,
		RetryDelay: 5 * time.Millisecond,
		OnGiveUp:   func(job Job[string], _ error) { abandoned <- job },
	})
	q.Start(context.Background())
	defer q.Stop()

	require.NoError(t, q.Enqueue(Job[string]{ID: "g", Payload: "/faculties"}))
	select {
	case job := <-abandoned:
		assert.Equal(t, "/faculties", job.Payload)
		assert.Equal(t, 2, job.Attempt)
	case <-time.After(time.Second):
		t.Fatal("job never abandoned")
	}
	assert.EqualValues(t, 2, atomic.LoadInt32(&calls))
}

func TestEnqueueDoesNotBlockWhenFull(t *testing.T) {
	block := make(chan struct{})
	q := NewQueue("full", func(ctx context.Context, _ Job[int]) error {
		select {
		case <-block:
		case <-ctx.Done():
		}
		return nil
	}, QueueConfig[int]{Workers: 1, BufferSize: 1})
	q.Start(context.Background())
	defer q.Stop()
	defer close(block)

	require.NoError(t, q.Enqueue(Job[int]{ID: "1"}))
	// the worker may or may not have picked up the first job yet
	var err error
	for i := 0; i < 3 && err == nil; i++ {
		err = q.Enqueue(Job[int]{ID: "n"})
	}
	assert.ErrorIs(t, err, ErrQueueFull)
}

func TestEnqueueOutsideRunningState(t *testing.T) {
	q := NewQueue("idle", func(context.Context, Job[int]) error { return nil }, QueueConfig[int]{})
	assert.ErrorIs(t, q.Enqueue(Job[int]{ID: "x"}), ErrNotRunning)

	q.Start(context.Background())
	q.Stop()
	assert.ErrorIs(t, q.Enqueue(Job[int]{ID: "y"}), ErrNotRunning)
	assert.Equal(t, 0, q.Len())
}
