package job

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFuture_RunThenSettle(t *testing.T) {
	t.Parallel()
	f := NewFuture(func(context.Context) (string, error) { return "ok", nil })
	require.NoError(t, f.Run(context.Background()))
	f.Settle(nil)

	v, err := f.Await(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ok", v)
}

func TestFuture_SettleErrorClearsValue(t *testing.T) {
	t.Parallel()
	calls := 0
	f := NewFuture(func(context.Context) (int, error) {
		calls++
		if calls == 1 {
			return 7, nil
		}
		return 0, errors.New("second")
	})
	require.NoError(t, f.Run(context.Background()))
	boom := errors.New("boom")
	f.Settle(boom)

	v, err := f.Await(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.Zero(t, v)
}

func TestFuture_SettleOnlyOnce(t *testing.T) {
	t.Parallel()
	f := NewFuture(func(context.Context) (int, error) { return 1, nil })
	_ = f.Run(context.Background())
	f.Settle(nil)
	f.Settle(errors.New("late"))

	select {
	case <-f.Done():
	default:
		t.Fatal("Done should be closed after Settle")
	}
	_, err := f.Await(context.Background())
	assert.NoError(t, err)
}

func TestFuture_AwaitHonoursContext(t *testing.T) {
	t.Parallel()
	f := NewFuture(func(context.Context) (int, error) { return 1, nil })
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err := f.Await(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestFuture_NilFunc(t *testing.T) {
	t.Parallel()
	f := NewFuture[int](nil)
	assert.ErrorIs(t, f.Run(context.Background()), ErrNilFunc)
}
