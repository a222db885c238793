// Package shardqueue provides a lightweight sharded work-queue that guarantees
// FIFO order *per key* while allowing parallelism across shards.
//
// **Contract**: Callers **must not** invoke Submit concurrently for the *same*
// key.  FIFO ordering relies on that external serialisation.
package shardqueue

import (
	"context"
	"fmt"
	"hash/fnv"
	"sync"
	"sync/atomic"
	"time"

	backoff "github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog/log"

	"github.com/recallrai/sdk-go/internal/errors"
)

type queuedJob struct {
	ctx context.Context
	job Job
}

// ShardExecutor executes Jobs on worker goroutines partitioned by a stable hash
// of the key (e.g. a session id).  FIFO ordering is preserved within a shard;
// jobs with different keys may run in parallel.
type ShardExecutor struct {
	cfg    Config
	queues []chan queuedJob // len == cfg.Shards

	// Submit sends under mu.RLock; Stop closes done under mu.Lock, so every
	// accepted job is queued before the workers start their final drain.
	mu       sync.RWMutex
	stopping chan struct{} // closed first in Stop, releases waiting Submits
	done     chan struct{} // closed in Stop once no Submit is in flight
	closed   uint32        // 0 → running, 1 → closed

	wg sync.WaitGroup
}

// NewShardExecutor constructs the executor and starts its shard workers.
func NewShardExecutor(cfg Config) *ShardExecutor {
	// Apply zero-value defaults.
	if cfg.Shards <= 0 {
		cfg.Shards = 4
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 128
	}
	if cfg.EnqueueTimeout <= 0 {
		cfg.EnqueueTimeout = 100 * time.Millisecond
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 1
	}
	if cfg.BaseBackoff <= 0 {
		cfg.BaseBackoff = 100 * time.Millisecond
	}
	if cfg.MaxInterval <= 0 {
		cfg.MaxInterval = 20 * time.Second
	}

	p := &ShardExecutor{
		cfg:    cfg,
		queues:   make([]chan queuedJob, cfg.Shards),
		stopping: make(chan struct{}),
		done:     make(chan struct{}),
	}
	for i := 0; i < cfg.Shards; i++ {
		ch := make(chan queuedJob, cfg.QueueSize)
		p.queues[i] = ch
		p.wg.Add(1)
		go p.runWorker(i, ch)
	}
	return p
}

// Submit enqueues job for the shard derived from key.
//
//   - Returns nil on success.
//   - Returns ErrExecutorClosed if the executor is stopped.
//   - Returns ErrQueueFull (wrapped in *QueueFullError) if the shard is full
//     after EnqueueTimeout elapses.
//   - Returns ctx.Err() if the caller-provided context is cancelled first.
//
// A job that implements Settler is settled exactly once if and only if
// Submit returns nil.
func (p *ShardExecutor) Submit(ctx context.Context, key string, job Job) error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if atomic.LoadUint32(&p.closed) == 1 {
		return ErrExecutorClosed
	}

	qj := queuedJob{ctx: ctx, job: job}
	shard := p.shardFor(key)
	ch := p.queues[shard]

	timer := time.NewTimer(p.cfg.EnqueueTimeout)
	defer timer.Stop()

	select {
	case ch <- qj:
		submissionsTotal.WithLabelValues(labelFor(shard)).Inc()
		return nil

	case <-p.stopping: // Stop() may be called while waiting for space
		return ErrExecutorClosed

	case <-ctx.Done():
		return ctx.Err()

	case <-timer.C:
		queueFullTotal.WithLabelValues(labelFor(shard)).Inc()
		return &QueueFullError{
			Shard:    shard,
			Length:   len(ch),
			Capacity: cap(ch),
		}
	}
}

// Barrier enqueues a no-op job on the shard for key and waits until it runs,
// ensuring all previously submitted jobs for that key have completed.
func (p *ShardExecutor) Barrier(ctx context.Context, key string) error {
	done := make(chan struct{})
	j := JobFunc(func(context.Context) error {
		close(done)
		return nil
	})
	if err := p.Submit(ctx, key, j); err != nil {
		return err
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-done:
		return nil
	}
}

// Stop signals every worker to finish draining its current queue, waits for
// them to terminate, and then returns.  It is idempotent and safe for
// concurrent use.
func (p *ShardExecutor) Stop() {
	if !atomic.CompareAndSwapUint32(&p.closed, 0, 1) {
		return // already closed
	}

	log.Debug().Int("shards", p.cfg.Shards).Msg("shardqueue: stopping executor, draining shards")

	close(p.stopping)
	p.mu.Lock()
	close(p.done)
	p.mu.Unlock()
	p.wg.Wait()

	log.Debug().Msg("shardqueue: executor stopped, all queues drained")
}

// Close lets ShardExecutor satisfy io.Closer.
func (p *ShardExecutor) Close() error {
	p.Stop()
	return nil
}

// ------------------------- internals -------------------------

func (p *ShardExecutor) runWorker(idx int, ch <-chan queuedJob) {
	defer p.wg.Done()

	label := labelFor(idx)

	for {
		select {
		case qj := <-ch:
			if qj.job == nil {
				continue
			}
			stopped := p.execute(qj, label)
			queueDepth.WithLabelValues(label).Set(float64(len(ch)))
			if stopped {
				p.drain(idx, ch, label)
				return
			}

		case <-p.done:
			p.drain(idx, ch, label)
			return
		}
	}
}

// execute runs one job with the retry policy and settles it. It reports
// whether Stop interrupted a backoff wait.
func (p *ShardExecutor) execute(qj queuedJob, label string) (stopped bool) {
	// Honour caller context so a cancelled job doesn't stall the shard.
	if err := qj.ctx.Err(); err != nil {
		p.safeHandleError(err)
		settle(qj.job, err)
		return false
	}

	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = p.cfg.BaseBackoff
	exp.Multiplier = 2
	exp.MaxInterval = p.cfg.MaxInterval
	exp.MaxElapsedTime = 0
	exp.Reset()

	attempts := 0
	for {
		start := time.Now()
		err := p.runOnce(qj)
		runDuration.WithLabelValues(label).Observe(time.Since(start).Seconds())

		if err == nil {
			settle(qj.job, nil)
			return false
		}

		// Only transport-level and 500 failures are worth another attempt.
		if !isRecoverableError(err) || attempts >= p.cfg.MaxAttempts-1 {
			p.safeHandleError(err)
			settle(qj.job, err)
			return false
		}

		attempts++
		retriesTotal.WithLabelValues(label).Inc()
		wait := exp.NextBackOff()
		timer := time.NewTimer(wait)
		select {
		case <-timer.C:
		case <-p.done:
			timer.Stop()
			p.safeHandleError(err)
			settle(qj.job, err)
			return true
		case <-qj.ctx.Done():
			timer.Stop()
			p.safeHandleError(qj.ctx.Err())
			settle(qj.job, qj.ctx.Err())
			return false
		}
	}
}

// drain runs the remaining jobs once each, preserving FIFO, then returns.
func (p *ShardExecutor) drain(idx int, ch <-chan queuedJob, label string) {
	remaining := len(ch)
	if remaining > 0 {
		log.Debug().Int("worker", idx).Int("jobs", remaining).Msg("shardqueue: draining remaining jobs")
	}

	drained := 0
	for {
		select {
		case qj := <-ch:
			if qj.job == nil {
				continue
			}
			if err := qj.ctx.Err(); err != nil {
				settle(qj.job, err)
				continue
			}
			err := p.runOnce(qj)
			if err != nil {
				p.safeHandleError(err)
			}
			settle(qj.job, err)
			drained++
		default:
			if drained > 0 {
				log.Debug().Int("worker", idx).Int("jobs", drained).Msg("shardqueue: drained jobs")
			}
			queueDepth.WithLabelValues(label).Set(0)
			return
		}
	}
}

// runOnce protects the worker from a panicking job.
func (p *ShardExecutor) runOnce(qj queuedJob) (err error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("shardqueue: job panic")
			err = fmt.Errorf("shardqueue: job panic: %v", r)
		}
	}()
	return qj.job.Run(qj.ctx)
}

func (p *ShardExecutor) safeHandleError(err error) {
	if err == nil || p.cfg.ErrorHandler == nil {
		return
	}
	func() {
		// Guard against panics in the user-supplied handler.
		defer func() {
			if r := recover(); r != nil {
				log.Error().Interface("panic", r).Msg("shardqueue: error handler panic")
			}
		}()
		p.cfg.ErrorHandler(err)
	}()
}

func (p *ShardExecutor) shardFor(key string) int {
	h := fnv.New32a() // fast and sufficient at our scale
	_, _ = h.Write([]byte(key))
	return int(h.Sum32() % uint32(p.cfg.Shards))
}

// isRecoverableError checks if an error may be retried.
func isRecoverableError(err error) bool {
	return errors.IsRecoverable(err)
}
