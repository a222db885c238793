package recallrai

import (
	"context"
	"errors"
	"fmt"

	"github.com/recallrai/sdk-go/internal/job"
	"github.com/recallrai/sdk-go/internal/shardqueue"
)

// Future is the pending result of a call submitted with Go.
type Future[T any] = job.Future[T]

// Go runs fn on the client's executor and returns immediately. Calls that
// share key run one at a time in submission order, so passing a handle's id
// serializes work on that handle; different keys run in parallel.
//
// fn is attempted once unless WithAsyncRetries was given, in which case
// recoverable errors are retried with exponential backoff. Close drains
// pending calls before returning.
//
// The executor exists only for Go and AwaitConsistency and is started on
// first use. Blocking methods on Client and its handles never go through
// it and never retry.
//
//	f, err := recallrai.Go(ctx, c, sess.ID(), func(ctx context.Context) (recallrai.Context, error) {
//		return sess.GetContext(ctx, recallrai.ContextParams{})
//	})
//	...
//	rc, err := f.Await(ctx)
func Go[T any](ctx context.Context, c *Client, key string, fn func(context.Context) (T, error)) (*Future[T], error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if fn == nil {
		return nil, fmt.Errorf("go: %w", job.ErrNilFunc)
	}
	exec, err := c.executor()
	if err != nil {
		return nil, err
	}

	shard := job.ShardLabel(key)
	f := job.NewFuture(func(ctx context.Context) (T, error) {
		v, err := fn(ctx)
		if err != nil {
			asyncFailedTotal.WithLabelValues(shard).Inc()
		}
		return v, err
	})
	if err := exec.Submit(ctx, key, f); err != nil {
		switch {
		case errors.Is(err, shardqueue.ErrQueueFull):
			return nil, fmt.Errorf("%w: %v", ErrBackPressure, err)
		case errors.Is(err, shardqueue.ErrExecutorClosed):
			return nil, ErrClientClosed
		}
		return nil, err
	}
	asyncSubmittedTotal.WithLabelValues(shard).Inc()
	return f, nil
}
