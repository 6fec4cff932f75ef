package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestQueue(workers int) *Queue {
	return NewQueue(Config{Workers: workers, QueueSize: 16, MaxRetries: 2}, zap.NewNop())
}

func TestQueue_RunsHandler(t *testing.T) {
	q := newTestQueue(2)

	done := make(chan string, 1)
	q.Register("greet", func(ctx context.Context, job Job) error {
		var payload struct {
			Name string `json:"name"`
		}
		if err := json.Unmarshal(job.Payload, &payload); err != nil {
			return err
		}
		done <- payload.Name
		return nil
	})
	q.Start()
	defer q.Stop(context.Background())

	id, err := q.Enqueue("greet", map[string]string{"name": "trip"})
	require.NoError(t, err)
	assert.Regexp(t, `^job_`, id)

	select {
	case name := <-done:
		assert.Equal(t, "trip", name)
	case <-time.After(2 * time.Second):
		t.Fatal("job never ran")
	}
}

func TestQueue_RetriesUntilSuccess(t *testing.T) {
	q := newTestQueue(1)

	var attempts atomic.Int32
	done := make(chan struct{}, 1)
	q.Register("flaky", func(ctx context.Context, job Job) error {
		if attempts.Add(1) < 2 {
			return errors.New("transient")
		}
		done <- struct{}{}
		return nil
	})
	q.Start()
	defer q.Stop(context.Background())

	_, err := q.Enqueue("flaky", nil)
	require.NoError(t, err)

	select {
	case <-done:
		assert.Equal(t, int32(2), attempts.Load())
	case <-time.After(5 * time.Second):
		t.Fatal("job never succeeded")
	}
}

func TestQueue_EnqueueFailsWhenFull(t *testing.T) {
	// Not started, so nothing drains the channel.
	q := NewQueue(Config{Workers: 1, QueueSize: 1, MaxRetries: 0}, zap.NewNop())
	q.Register("noop", func(ctx context.Context, job Job) error { return nil })

	_, err := q.Enqueue("noop", nil)
	require.NoError(t, err)
	_, err = q.Enqueue("noop", nil)
	assert.Error(t, err)
}

func TestQueue_StopDrainsInFlightJobs(t *testing.T) {
	q := newTestQueue(1)

	var ran atomic.Int32
	q.Register("slow", func(ctx context.Context, job Job) error {
		time.Sleep(50 * time.Millisecond)
		ran.Add(1)
		return nil
	})
	q.Start()

	for i := 0; i < 3; i++ {
		_, err := q.Enqueue("slow", nil)
		require.NoError(t, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, q.Stop(ctx))
	assert.Equal(t, int32(3), ran.Load())
}
