package job

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// ErrNilFunc is returned when a Future has no function to run.
var ErrNilFunc = errors.New("nil func")

// Future is a job that produces a value. The executor calls Run one or more
// times and then Settle exactly once; callers read the outcome with Await.
type Future[T any] struct {
	fn func(context.Context) (T, error)

	once sync.Once
	done chan struct{}

	val T
	err error
}

// NewFuture wraps fn as a Future.
func NewFuture[T any](fn func(context.Context) (T, error)) *Future[T] {
	return &Future[T]{fn: fn, done: make(chan struct{})}
}

// Run executes fn and keeps its value when it succeeds.
func (f *Future[T]) Run(ctx context.Context) error {
	if f.fn == nil {
		return fmt.Errorf("future: %w", ErrNilFunc)
	}
	v, err := f.fn(ctx)
	if err != nil {
		return err
	}
	f.val = v
	return nil
}

// Settle records the final outcome. Only the first call has any effect.
func (f *Future[T]) Settle(err error) {
	f.once.Do(func() {
		f.err = err
		if err != nil {
			var zero T
			f.val = zero
		}
		close(f.done)
	})
}

// Done is closed once the outcome is known.
func (f *Future[T]) Done() <-chan struct{} { return f.done }

// Await blocks until the future settles or ctx ends.
func (f *Future[T]) Await(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.val, f.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}
