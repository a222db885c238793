package shardqueue

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	sdkerrors "github.com/recallrai/sdk-go/internal/errors"
)

// recordingJob counts Settle calls and exposes the first settled error.
type recordingJob struct {
	run     func(context.Context) error
	settles int32
	done    chan error
}

func newRecordingJob(run func(context.Context) error) *recordingJob {
	return &recordingJob{run: run, done: make(chan error, 1)}
}

func (j *recordingJob) Run(ctx context.Context) error { return j.run(ctx) }

func (j *recordingJob) Settle(err error) {
	if atomic.AddInt32(&j.settles, 1) == 1 {
		j.done <- err
	}
}

func (j *recordingJob) wait(t *testing.T) error {
	t.Helper()
	select {
	case err := <-j.done:
		return err
	case <-time.After(2 * time.Second):
		t.Fatal("job was never settled")
		return nil
	}
}

func TestSettle_SuccessAndFailure(t *testing.T) {
	ex := NewShardExecutor(Config{Shards: 1, QueueSize: 4, MaxAttempts: 1})
	defer ex.Stop()

	ok := newRecordingJob(func(context.Context) error { return nil })
	boom := errors.New("boom")
	bad := newRecordingJob(func(context.Context) error { return boom })

	_ = ex.Submit(context.Background(), "k", ok)
	_ = ex.Submit(context.Background(), "k", bad)

	if err := ok.wait(t); err != nil {
		t.Fatalf("ok job settled with %v", err)
	}
	if err := bad.wait(t); !errors.Is(err, boom) {
		t.Fatalf("bad job settled with %v", err)
	}
}

func TestSettle_CanceledJobSettledWithCtxErr(t *testing.T) {
	ex := NewShardExecutor(Config{Shards: 1, QueueSize: 4, MaxAttempts: 1})
	defer ex.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	// Queue has room, so Submit accepts the job even though ctx is done.
	j := newRecordingJob(func(context.Context) error { return nil })
	if err := ex.Submit(ctx, "k", j); err != nil && !errors.Is(err, context.Canceled) {
		t.Fatalf("submit: %v", err)
	} else if err != nil {
		return
	}
	if err := j.wait(t); !errors.Is(err, context.Canceled) {
		t.Fatalf("settled with %v, want context.Canceled", err)
	}
}

// Stop during a backoff wait settles the job and still drains the queue.
func TestSettle_StopDuringBackoffDrainsQueue(t *testing.T) {
	ex := NewShardExecutor(Config{Shards: 1, QueueSize: 4, MaxAttempts: 5, BaseBackoff: time.Second, MaxInterval: time.Second})

	started := make(chan struct{})
	var once int32
	retrying := newRecordingJob(func(context.Context) error {
		if atomic.CompareAndSwapInt32(&once, 0, 1) {
			close(started)
		}
		return sdkerrors.New(sdkerrors.KindTimeout, "slow")
	})
	queued := newRecordingJob(func(context.Context) error { return nil })

	_ = ex.Submit(context.Background(), "k", retrying)
	<-started
	_ = ex.Submit(context.Background(), "k", queued)

	stopped := make(chan struct{})
	go func() { ex.Stop(); close(stopped) }()

	if err := retrying.wait(t); err == nil {
		t.Fatal("retrying job should settle with its last error")
	}
	if err := queued.wait(t); err != nil {
		t.Fatalf("queued job settled with %v", err)
	}
	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop did not complete")
	}
	if atomic.LoadInt32(&retrying.settles) != 1 || atomic.LoadInt32(&queued.settles) != 1 {
		t.Fatal("each job must settle exactly once")
	}
}

func TestSettle_PanicBecomesError(t *testing.T) {
	ex := NewShardExecutor(Config{Shards: 1, QueueSize: 4, MaxAttempts: 1})
	defer ex.Stop()

	j := newRecordingJob(func(context.Context) error { panic("kaboom") })
	_ = ex.Submit(context.Background(), "k", j)
	if err := j.wait(t); err == nil {
		t.Fatal("panicking job should settle with an error")
	}
}
