// Package service implements the bounded background persistence queue
package service

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"insightbff/internal/core/inflight"
	"insightbff/internal/platform/logger"
	"insightbff/internal/services/persistq/domain"
	rdom "insightbff/internal/services/resolver/domain"

	"github.com/google/uuid"
)

// Config tunes the queue
type Config struct {
	Concurrency int
	Buffer      int
	JobTimeout  time.Duration
}

// Queue drains jobs with a fixed number of workers; a failing job never blocks later ones
type Queue struct {
	cfg    Config
	ensure rdom.EnsurePort
	log    logger.Logger

	mu      sync.Mutex
	ch      chan domain.Job
	queued  map[string]struct{}
	stopped bool

	started atomic.Bool
	done    chan struct{}

	running   atomic.Int64
	processed atomic.Int64
	failed    atomic.Int64
	dropped   atomic.Int64
}

var (
	_ domain.EnqueuePort = (*Queue)(nil)
	_ domain.WorkerPort  = (*Queue)(nil)
	_ domain.StatsPort   = (*Queue)(nil)
)

// New builds a queue; ensure backs EnqueueResolve
func New(ensure rdom.EnsurePort, cfg Config, log logger.Logger) *Queue {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 1
	}
	if cfg.Buffer <= 0 {
		cfg.Buffer = 256
	}
	if cfg.JobTimeout <= 0 {
		cfg.JobTimeout = time.Minute
	}
	return &Queue{
		cfg:    cfg,
		ensure: ensure,
		log:    log,
		ch:     make(chan domain.Job, cfg.Buffer),
		queued: make(map[string]struct{}),
		done:   make(chan struct{}),
	}
}

// Enqueue adds j without blocking. A job whose key is already waiting is
// accepted as a no-op; a full buffer or a stopped queue drops it
func (q *Queue) Enqueue(j domain.Job) bool {
	if j.Run == nil {
		return false
	}
	if j.ID == "" {
		j.ID = uuid.NewString()
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.stopped {
		q.dropped.Add(1)
		return false
	}
	if j.Key != "" {
		if _, ok := q.queued[j.Key]; ok {
			return true
		}
	}
	select {
	case q.ch <- j:
		if j.Key != "" {
			q.queued[j.Key] = struct{}{}
		}
		return true
	default:
		q.dropped.Add(1)
		q.log.Warn().Str("job", j.Name).Str("key", j.Key).Msg("background queue full, job dropped")
		return false
	}
}

// EnqueueResolve schedules resolving and persisting a cluster in lang
func (q *Queue) EnqueueResolve(clusterID, lang string) bool {
	if q.ensure == nil {
		return false
	}
	return q.Enqueue(domain.Job{
		Name: "resolve",
		Key:  inflight.Key(clusterID, lang),
		Run: func(ctx context.Context) error {
			_, err := q.ensure.EnsureDedup(ctx, clusterID, lang)
			return err
		},
	})
}

// Run starts the workers and blocks until ctx ends or Shutdown has drained the queue
func (q *Queue) Run(ctx context.Context) error {
	if !q.started.CompareAndSwap(false, true) {
		return fmt.Errorf("persistq: already running")
	}
	defer close(q.done)

	log := q.log.With().Str("component", "persistq").Int("workers", q.cfg.Concurrency).Logger()
	log.Info().Msg("background queue started")

	var wg sync.WaitGroup
	for i := 0; i < q.cfg.Concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case j, ok := <-q.ch:
					if !ok {
						return
					}
					q.exec(ctx, j)
				}
			}
		}()
	}
	wg.Wait()
	log.Info().Int("left", len(q.ch)).Msg("background queue stopped")
	return nil
}

// Shutdown stops intake and waits for queued jobs to finish or ctx to expire
func (q *Queue) Shutdown(ctx context.Context) error {
	q.mu.Lock()
	if !q.stopped {
		q.stopped = true
		close(q.ch)
	}
	q.mu.Unlock()

	if !q.started.Load() {
		return nil
	}
	select {
	case <-q.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Depth returns the number of waiting jobs
func (q *Queue) Depth() int { return len(q.ch) }

// Stats returns the queue counters
func (q *Queue) Stats() domain.Stats {
	return domain.Stats{
		Depth:     q.Depth(),
		Running:   q.running.Load(),
		Processed: q.processed.Load(),
		Failed:    q.failed.Load(),
		Dropped:   q.dropped.Load(),
	}
}

func (q *Queue) exec(ctx context.Context, j domain.Job) {
	if j.Key != "" {
		q.mu.Lock()
		delete(q.queued, j.Key)
		q.mu.Unlock()
	}
	q.running.Add(1)
	defer q.running.Add(-1)

	start := time.Now()
	err := q.safeRun(ctx, j)
	q.processed.Add(1)
	if err != nil {
		q.failed.Add(1)
		q.log.Warn().Err(err).Str("job_id", j.ID).Str("job", j.Name).Str("key", j.Key).
			Dur("elapsed", time.Since(start)).Msg("background job failed")
	}
}

func (q *Queue) safeRun(ctx context.Context, j domain.Job) (err error) {
	jctx, cancel := context.WithTimeout(ctx, q.cfg.JobTimeout)
	defer cancel()
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("panic: %v", p)
		}
	}()
	return j.Run(jctx)
}
