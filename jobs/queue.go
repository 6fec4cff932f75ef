// Package jobs runs background work (confirmation emails, payment capture)
// on an in-process worker pool. The queue is constructed in main and
// drained on shutdown; it holds no package-level state.
package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"tripbazaar/metrics"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Job is one unit of queued work. Payloads are JSON so handlers stay
// decoupled from the enqueuing site.
type Job struct {
	ID        string
	Type      string
	Payload   json.RawMessage
	Retries   int
	CreatedAt time.Time
}

type Handler func(ctx context.Context, job Job) error

type Config struct {
	Workers    int
	QueueSize  int
	MaxRetries int
}

type Queue struct {
	cfg      Config
	log      *zap.Logger
	jobs     chan Job
	handlers map[string]Handler
	mu       sync.RWMutex
	wg       sync.WaitGroup
	cancel   context.CancelFunc
	started  bool
}

func NewQueue(cfg Config, log *zap.Logger) *Queue {
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	if cfg.QueueSize < 1 {
		cfg.QueueSize = 64
	}
	return &Queue{
		cfg:      cfg,
		log:      log,
		jobs:     make(chan Job, cfg.QueueSize),
		handlers: make(map[string]Handler),
	}
}

// Register binds a handler to a job type. Must be called before Start.
func (q *Queue) Register(jobType string, handler Handler) {
	q.mu.Lock()
	q.handlers[jobType] = handler
	q.mu.Unlock()
	q.log.Info("job handler registered", zap.String("type", jobType))
}

// Start launches the worker pool.
func (q *Queue) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	q.cancel = cancel
	q.started = true
	for i := 0; i < q.cfg.Workers; i++ {
		q.wg.Add(1)
		go q.worker(ctx)
	}
	q.log.Info("job queue started", zap.Int("workers", q.cfg.Workers))
}

// Stop closes the queue, lets workers drain in-flight jobs and waits up to
// the context deadline.
func (q *Queue) Stop(ctx context.Context) error {
	if !q.started {
		return nil
	}
	close(q.jobs)

	done := make(chan struct{})
	go func() {
		q.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		q.cancel()
		return fmt.Errorf("job queue drain interrupted: %w", ctx.Err())
	}
	q.cancel()
	return nil
}

// Enqueue marshals the payload and queues a job. Returns the job id, or an
// error when the queue is full.
func (q *Queue) Enqueue(jobType string, payload any) (string, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal %s payload: %w", jobType, err)
	}
	job := Job{
		ID:        "job_" + uuid.New().String(),
		Type:      jobType,
		Payload:   raw,
		CreatedAt: time.Now().UTC(),
	}
	select {
	case q.jobs <- job:
		metrics.JobsQueued.WithLabelValues(jobType).Inc()
		q.log.Debug("job queued", zap.String("id", job.ID), zap.String("type", jobType))
		return job.ID, nil
	default:
		return "", fmt.Errorf("job queue full, dropping %s job", jobType)
	}
}

func (q *Queue) worker(ctx context.Context) {
	defer q.wg.Done()
	for job := range q.jobs {
		q.run(ctx, job)
	}
}

func (q *Queue) run(ctx context.Context, job Job) {
	q.mu.RLock()
	handler, ok := q.handlers[job.Type]
	q.mu.RUnlock()
	if !ok {
		q.log.Error("no handler for job type", zap.String("type", job.Type), zap.String("id", job.ID))
		metrics.JobsFailed.WithLabelValues(job.Type).Inc()
		return
	}

	start := time.Now()
	err := handler(ctx, job)
	duration := time.Since(start)
	if err == nil {
		metrics.JobsCompleted.WithLabelValues(job.Type).Inc()
		metrics.JobDuration.WithLabelValues(job.Type).Observe(duration.Seconds())
		q.log.Debug("job completed",
			zap.String("id", job.ID), zap.String("type", job.Type), zap.Duration("took", duration))
		return
	}

	if job.Retries < q.cfg.MaxRetries {
		job.Retries++
		backoff := time.Duration(1<<job.Retries) * time.Second
		q.log.Warn("job failed, retrying",
			zap.String("id", job.ID), zap.String("type", job.Type),
			zap.Int("retry", job.Retries), zap.Duration("backoff", backoff), zap.Error(err))
		metrics.JobsRetried.WithLabelValues(job.Type).Inc()

		retry := job
		q.wg.Add(1)
		go func() {
			defer q.wg.Done()
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return
			}
			// Direct send: the channel may already be closed during
			// shutdown, in which case the retry is dropped with the
			// rest of the backlog.
			defer func() { recover() }()
			q.jobs <- retry
		}()
		return
	}

	q.log.Error("job failed permanently",
		zap.String("id", job.ID), zap.String("type", job.Type),
		zap.Int("retries", job.Retries), zap.Error(err))
	metrics.JobsFailed.WithLabelValues(job.Type).Inc()
}
