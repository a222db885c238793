// Package recallrai is the Go client for the RecallrAI memory service.
//
// A Client is constructed once per project and hands out handles (User,
// Session, MergeConflict) that cache the last snapshot the server returned.
// Every handle method issues exactly one request; mutating methods replace
// the cached snapshot from the response.
package recallrai

import (
	"context"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/recallrai/sdk-go/internal/api"
	"github.com/recallrai/sdk-go/internal/shardqueue"
	"github.com/recallrai/sdk-go/internal/types"
)

// Version is reported in the User-Agent header.
const Version = "0.3.1"

const (
	// DefaultBaseURL is the hosted service endpoint.
	DefaultBaseURL = "https://api.recallrai.com"
	// DefaultTimeout bounds a single HTTP request.
	DefaultTimeout = 30 * time.Second

	defaultMaxConns     = 100
	defaultMaxIdleConns = 20

	apiKeyHeader    = "X-Recallr-Api-Key"
	projectIDHeader = "X-Recallr-Project-Id"
)

// --------------------------------------------------------------------
// Client core
// --------------------------------------------------------------------

// Client talks to one RecallrAI project. It is safe for concurrent use;
// handles it returns are not.
type Client struct {
	baseURL   string
	apiKey    string
	projectID string
	http      *http.Client
	log       zerolog.Logger
	debug     bool
	timeout   time.Duration // WithHTTPTimeout; zero keeps http.Timeout

	maxConns     int
	maxIdleConns int

	tr   *api.Transport
	conn *conn

	asyncCfg shardqueue.Config
	execMu   sync.Mutex
	exec     executor

	closedOnce uint32 // ensures Close is idempotent
}

// New constructs a Client for projectID. The API key must start with "rai_";
// nothing is built and no option runs when it does not.
func New(apiKey, projectID string, opts ...Option) (*Client, error) {
	if err := types.ValidateAPIKey(apiKey); err != nil {
		return nil, err
	}
	if err := types.ValidateIDPresent(projectID, "projectId"); err != nil {
		return nil, err
	}

	c := &Client{
		baseURL:      DefaultBaseURL,
		apiKey:       apiKey,
		projectID:    projectID,
		http:         &http.Client{Timeout: DefaultTimeout},
		log:          log.Logger,
		maxConns:     defaultMaxConns,
		maxIdleConns: defaultMaxIdleConns,
		asyncCfg:     shardqueue.Config{Shards: 4, QueueSize: 1000, MaxAttempts: 1},
	}

	// Auto-enable debug via env variable without changing code.
	if debugLoggingRequested() {
		opts = append(opts, WithDebugLogging(true))
	}

	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}

	c.http = c.buildHTTPClient()
	c.tr = api.NewTransport(api.TransportConfig{
		BaseURL:    c.baseURL,
		UserAgent:  "RecallrAI-Go-SDK/" + Version,
		HTTPClient: c.http,
		Logger:     c.log,
	})
	c.conn = &conn{d: c.tr, log: c.log, closed: &c.closedOnce}
	return c, nil
}

// buildHTTPClient copies the configured client and layers the pooled
// transport, the optional debug dump and the auth headers, outermost last.
func (c *Client) buildHTTPClient() *http.Client {
	hc := *c.http
	if c.timeout > 0 {
		hc.Timeout = c.timeout
	}
	base := hc.Transport
	if base == nil {
		base = newPooledTransport(c.maxConns, c.maxIdleConns)
	}
	if c.debug {
		base = &debugTransport{base: base, log: c.log}
	}
	hc.Transport = &apiKeyTransport{
		base:      base,
		apiKey:    c.apiKey,
		projectID: c.projectID,
	}
	return &hc
}

func newPooledTransport(maxConns, maxIdle int) *http.Transport {
	return &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   30 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxConnsPerHost:       maxConns,
		MaxIdleConns:          maxIdle,
		MaxIdleConnsPerHost:   maxIdle,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}
}

// apiKeyTransport wraps an http.RoundTripper to add the project credentials.
type apiKeyTransport struct {
	base      http.RoundTripper
	apiKey    string
	projectID string
}

// closeIdler is implemented by transports that pool connections.
type closeIdler interface{ CloseIdleConnections() }

// closeIdle forwards to rt when it pools connections.
func closeIdle(rt http.RoundTripper) {
	if ci, ok := rt.(closeIdler); ok {
		ci.CloseIdleConnections()
	}
}

// CloseIdleConnections lets http.Client.CloseIdleConnections reach the pool.
func (t *apiKeyTransport) CloseIdleConnections() { closeIdle(t.base) }

func (t *apiKeyTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	// Clone the request to avoid modifying the original
	cloned := req.Clone(req.Context())
	cloned.Header.Set(apiKeyHeader, t.apiKey)
	cloned.Header.Set(projectIDHeader, t.projectID)
	return t.base.RoundTrip(cloned)
}

// Close stops the async executor (draining queued calls) and releases idle
// pooled connections. Safe to call multiple times; calls made after Close
// fail with ErrClientClosed.
func (c *Client) Close() error {
	if !atomic.CompareAndSwapUint32(&c.closedOnce, 0, 1) {
		return nil
	}
	c.execMu.Lock()
	exec := c.exec
	c.execMu.Unlock()
	if exec != nil {
		exec.Stop()
	}
	if c.tr != nil {
		c.tr.Close()
	}
	c.log.Debug().Str("project_id", c.projectID).Msg("recallrai: client closed")
	return nil
}

// AwaitConsistency blocks until every call previously submitted with Go for
// key has finished.
func (c *Client) AwaitConsistency(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	exec, err := c.executor()
	if err != nil {
		return err
	}
	return exec.Barrier(ctx, key)
}

// --------------------------------------------------------------------
// User operations
// --------------------------------------------------------------------

// CreateUser registers userID with the given metadata (nil means empty).
func (c *Client) CreateUser(ctx context.Context, userID string, metadata map[string]any) (*User, error) {
	if err := c.conn.check(); err != nil {
		return nil, err
	}
	snap, err := api.CreateUser(ctx, c.conn.d, userID, metadata)
	if err != nil {
		return nil, err
	}
	return newUser(c.conn, snap), nil
}

// GetUser fetches a user by id.
func (c *Client) GetUser(ctx context.Context, userID string) (*User, error) {
	if err := c.conn.check(); err != nil {
		return nil, err
	}
	snap, err := api.GetUser(ctx, c.conn.d, userID)
	if err != nil {
		return nil, err
	}
	return newUser(c.conn, snap), nil
}

// ListUsers returns one page of users.
func (c *Client) ListUsers(ctx context.Context, p ListUsersParams) (*UserList, error) {
	if err := c.conn.check(); err != nil {
		return nil, err
	}
	page, err := api.ListUsers(ctx, c.conn.d, p)
	if err != nil {
		return nil, err
	}
	out := &UserList{Users: make([]*User, 0, len(page.Items)), Total: page.Total, HasMore: page.HasMore}
	for _, u := range page.Items {
		out.Users = append(out.Users, newUser(c.conn, u))
	}
	return out, nil
}

// --------------------------------------------------------------------
// Shared handle plumbing
// --------------------------------------------------------------------

// conn is what every handle needs to issue further calls.
type conn struct {
	d      api.Doer
	log    zerolog.Logger
	closed *uint32
}

func (c *conn) check() error {
	if c.closed != nil && atomic.LoadUint32(c.closed) == 1 {
		return ErrClientClosed
	}
	return nil
}
