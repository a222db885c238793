package recallrai

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGo_ReturnsResultThroughFuture(t *testing.T) {
	t.Parallel()
	srv := newSpyServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, userJSON)
	})
	c := newTestClient(t, srv)

	f, err := Go(context.Background(), c, "u1", func(ctx context.Context) (*User, error) {
		return c.GetUser(ctx, "u1")
	})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	u, err := f.Await(ctx)
	require.NoError(t, err)
	assert.Equal(t, "u1", u.ID())
}

func TestGo_PropagatesTypedErrors(t *testing.T) {
	t.Parallel()
	srv := newSpyServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, `{"detail":"Invalid API key"}`)
	})
	c := newTestClient(t, srv)

	f, err := Go(context.Background(), c, "u1", func(ctx context.Context) (*User, error) {
		return c.GetUser(ctx, "u1")
	})
	require.NoError(t, err)
	_, err = f.Await(context.Background())
	assert.ErrorIs(t, err, ErrAuthentication)
	assert.Equal(t, 1, srv.count(), "no retries by default")
}

func TestGo_SameKeyRunsInOrder(t *testing.T) {
	t.Parallel()
	c, err := New(testAPIKey, testProjectID)
	require.NoError(t, err)
	defer c.Close()

	var (
		mu    sync.Mutex
		order []int
	)
	futures := make([]*Future[int], 0, 20)
	for i := 0; i < 20; i++ {
		v := i
		f, err := Go(context.Background(), c, "session-1", func(context.Context) (int, error) {
			mu.Lock()
			order = append(order, v)
			mu.Unlock()
			return v, nil
		})
		require.NoError(t, err)
		futures = append(futures, f)
	}
	require.NoError(t, c.AwaitConsistency(context.Background(), "session-1"))
	for i, f := range futures {
		v, err := f.Await(context.Background())
		require.NoError(t, err)
		assert.Equal(t, i, v)
	}
	for i, v := range order {
		assert.Equal(t, i, v)
	}
}

func TestGo_RetriesRecoverableWhenEnabled(t *testing.T) {
	t.Parallel()
	var hits int32
	srv := newSpyServer(t, func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&hits, 1) < 3 {
			writeJSON(w, http.StatusInternalServerError, `{"detail":"boom"}`)
			return
		}
		writeJSON(w, http.StatusOK, userJSON)
	})
	c := newTestClient(t, srv, WithAsyncRetries(3, time.Millisecond))

	f, err := Go(context.Background(), c, "u1", func(ctx context.Context) (*User, error) {
		return c.GetUser(ctx, "u1")
	})
	require.NoError(t, err)
	u, err := f.Await(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "u1", u.ID())
	assert.Equal(t, 3, srv.count())
}

func TestGo_DoesNotRetryIrrecoverable(t *testing.T) {
	t.Parallel()
	srv := newSpyServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, `{"detail":"User u1 not found"}`)
	})
	c := newTestClient(t, srv, WithAsyncRetries(5, time.Millisecond))

	f, err := Go(context.Background(), c, "u1", func(ctx context.Context) (*User, error) {
		return c.GetUser(ctx, "u1")
	})
	require.NoError(t, err)
	_, err = f.Await(context.Background())
	assert.ErrorIs(t, err, ErrUserNotFound)
	assert.Equal(t, 1, srv.count())
}

func TestGo_CloseDrainsPendingCalls(t *testing.T) {
	t.Parallel()
	c, err := New(testAPIKey, testProjectID)
	require.NoError(t, err)

	release := make(chan struct{})
	first, err := Go(context.Background(), c, "k", func(context.Context) (string, error) {
		<-release
		return "first", nil
	})
	require.NoError(t, err)
	second, err := Go(context.Background(), c, "k", func(context.Context) (string, error) {
		return "second", nil
	})
	require.NoError(t, err)

	closed := make(chan struct{})
	go func() { _ = c.Close(); close(closed) }()
	close(release)

	select {
	case <-closed:
	case <-time.After(2 * time.Second):
		t.Fatal("Close did not return")
	}
	v, err := first.Await(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "first", v)
	v, err = second.Await(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "second", v)
}

func TestGo_AfterCloseFails(t *testing.T) {
	t.Parallel()
	c, err := New(testAPIKey, testProjectID)
	require.NoError(t, err)
	require.NoError(t, c.Close())

	_, err = Go(context.Background(), c, "k", func(context.Context) (int, error) { return 1, nil })
	assert.ErrorIs(t, err, ErrClientClosed)
	assert.ErrorIs(t, c.AwaitConsistency(context.Background(), "k"), ErrClientClosed)
}

func TestGo_BackPressure(t *testing.T) {
	t.Parallel()
	c, err := New(testAPIKey, testProjectID, WithAsyncConfig(1, 1, 5*time.Millisecond))
	require.NoError(t, err)

	release := make(chan struct{})
	started := make(chan struct{})
	_, err = Go(context.Background(), c, "k", func(context.Context) (int, error) {
		close(started)
		<-release
		return 0, nil
	})
	require.NoError(t, err)
	<-started
	_, err = Go(context.Background(), c, "k", func(context.Context) (int, error) { return 0, nil })
	require.NoError(t, err)

	_, err = Go(context.Background(), c, "k", func(context.Context) (int, error) { return 0, nil })
	assert.True(t, IsBackPressure(err), "got %v", err)

	close(release)
	require.NoError(t, c.Close())
}

func TestGo_NilFuncAndCanceledContext(t *testing.T) {
	t.Parallel()
	c, err := New(testAPIKey, testProjectID)
	require.NoError(t, err)
	defer c.Close()

	_, err = Go[int](context.Background(), c, "k", nil)
	assert.Error(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = Go(ctx, c, "k", func(context.Context) (int, error) { return 1, nil })
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestBlockingCallsNeverStartExecutor(t *testing.T) {
	t.Parallel()
	srv := newSpyServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusInternalServerError, `{"detail":"boom"}`)
	})
	c := newTestClient(t, srv, WithAsyncRetries(5, time.Millisecond))

	_, err := c.GetUser(context.Background(), "u1")
	assert.ErrorIs(t, err, ErrInternalServer)
	assert.Equal(t, 1, srv.count(), "blocking calls are attempted once")

	c.execMu.Lock()
	defer c.execMu.Unlock()
	assert.Nil(t, c.exec)
}

func TestGo_CloseRacingSubmitSettlesEveryFuture(t *testing.T) {
	t.Parallel()
	for round := 0; round < 50; round++ {
		c, err := New(testAPIKey, testProjectID, WithAsyncConfig(2, 16, 20*time.Millisecond))
		require.NoError(t, err)

		var (
			mu      sync.Mutex
			futures []*Future[int]
			wg      sync.WaitGroup
		)
		for i := 0; i < 4; i++ {
			wg.Add(1)
			go func(key string) {
				defer wg.Done()
				for {
					f, err := Go(context.Background(), c, key, func(context.Context) (int, error) { return 1, nil })
					if errors.Is(err, ErrClientClosed) {
						return
					}
					if err == nil {
						mu.Lock()
						futures = append(futures, f)
						mu.Unlock()
					}
				}
			}(string(rune('a' + i)))
		}
		time.Sleep(time.Millisecond)
		require.NoError(t, c.Close())
		wg.Wait()

		for _, f := range futures {
			select {
			case <-f.Done():
			case <-time.After(time.Second):
				t.Fatalf("round %d: accepted call never settled", round)
			}
		}
	}
}
