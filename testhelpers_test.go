package recallrai

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
)

const (
	testAPIKey    = "rai_test_key"
	testProjectID = "proj_123"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}

// spyServer is an httptest server that counts requests.
type spyServer struct {
	*httptest.Server
	calls int32
}

func (s *spyServer) count() int { return int(atomic.LoadInt32(&s.calls)) }

func newSpyServer(t *testing.T, h http.HandlerFunc) *spyServer {
	t.Helper()
	s := &spyServer{}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&s.calls, 1)
		h(w, r)
	}))
	t.Cleanup(s.Close)
	return s
}

func newTestClient(t *testing.T, srv *spyServer, opts ...Option) *Client {
	t.Helper()
	c, err := New(testAPIKey, testProjectID, append([]Option{WithBaseURL(srv.URL)}, opts...)...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}

func readBody(t *testing.T, r *http.Request) map[string]any {
	t.Helper()
	var m map[string]any
	b, err := io.ReadAll(r.Body)
	require.NoError(t, err)
	if len(b) > 0 {
		require.NoError(t, json.Unmarshal(b, &m))
	}
	return m
}

const (
	userJSON     = `{"user":{"user_id":"u1","metadata":{"plan":"pro"},"created_at":"2025-01-02T03:04:05Z","last_active_at":"2025-01-03T03:04:05Z"}}`
	sessionJSON  = `{"session":{"session_id":"s1","status":"pending","created_at":"2025-01-02T03:04:05Z","metadata":{}}}`
	userItemJSON = `{"user_id":"u%d","metadata":{},"created_at":"2025-01-02T03:04:05Z","last_active_at":"2025-01-02T03:04:05Z"}`
)
