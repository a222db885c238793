package api

import (
	"context"
	"sync"
)

// fakeDoer records requests and answers them from a fixed response or a
// handler.
type fakeDoer struct {
	mu      sync.Mutex
	calls   []Request
	status  int
	body    string
	err     error
	handler func(Request) (*Response, error)
}

func respond(status int, body string) *fakeDoer {
	return &fakeDoer{status: status, body: body}
}

func (f *fakeDoer) Do(_ context.Context, req Request) (*Response, error) {
	f.mu.Lock()
	f.calls = append(f.calls, req)
	f.mu.Unlock()
	if f.handler != nil {
		return f.handler(req)
	}
	if f.err != nil {
		return nil, f.err
	}
	return &Response{StatusCode: f.status, Body: []byte(f.body)}, nil
}

func (f *fakeDoer) last() Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[len(f.calls)-1]
}

func (f *fakeDoer) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

const (
	userBody    = `{"user":{"user_id":"u1","metadata":{"a":1},"created_at":"2025-01-02T03:04:05Z","last_active_at":"2025-01-02T03:04:05Z"}}`
	sessionBody = `{"session":{"session_id":"s1","status":"pending","created_at":"2025-01-02T03:04:05Z","metadata":{}}}`
	userItem    = `{"user_id":"u%d","metadata":{},"created_at":"2025-01-02T03:04:05Z","last_active_at":"2025-01-02T03:04:05Z"}`
)
