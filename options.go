package recallrai

// This file defines functional options that configure the Client during
// construction. Keeping them in a standalone file makes it easy to discover
// all available knobs at a glance.

import (
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"
)

// Option configures a Client during construction in New.
//
// Options run in order after the API key check and before the transport
// stack is assembled. WithHTTPTimeout wins over a Timeout carried by
// WithHTTPClient whichever comes first; otherwise a later option overrides
// an earlier one. Options must be deterministic and side-effect free.
type Option func(*Client) error

// WithBaseURL points the client at another deployment.
func WithBaseURL(raw string) Option {
	return func(c *Client) error {
		u, err := url.Parse(raw)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("invalid base url %q", raw)
		}
		c.baseURL = raw
		return nil
	}
}

// WithHTTPTimeout sets the underlying http.Client Timeout used by the SDK.
//
// Prefer per-request context deadlines where possible; this timeout bounds
// the total time spent on a single HTTP request. The value must be greater
// than zero.
func WithHTTPTimeout(d time.Duration) Option {
	return func(c *Client) error {
		if d <= 0 {
			return fmt.Errorf("http timeout must be > 0")
		}
		c.timeout = d
		return nil
	}
}

// WithConnectionLimits sizes the connection pool. It has no effect when
// WithHTTPClient supplies its own Transport.
func WithConnectionLimits(maxConns, maxIdleConns int) Option {
	return func(c *Client) error {
		if maxConns <= 0 || maxIdleConns <= 0 {
			return fmt.Errorf("connection limits must be > 0")
		}
		if maxIdleConns > maxConns {
			return fmt.Errorf("max idle connections (%d) exceed max connections (%d)", maxIdleConns, maxConns)
		}
		c.maxConns = maxConns
		c.maxIdleConns = maxIdleConns
		return nil
	}
}

// WithDebugLogging logs each request and response dump when enabled is true.
//
// The debug transport sits beneath the credential wrapper, so dumps do not
// include the API key header. Do not enable this in production: bodies are
// logged verbatim.
func WithDebugLogging(enabled bool) Option {
	return func(c *Client) error {
		if enabled {
			c.debug = true
		}
		return nil
	}
}

// WithHTTPClient uses hc (copied) instead of the default pooled client. A
// zero hc.Timeout falls back to DefaultTimeout.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) error {
		if hc == nil {
			return fmt.Errorf("http client cannot be nil")
		}
		cp := *hc
		if cp.Timeout == 0 {
			cp.Timeout = DefaultTimeout
		}
		c.http = &cp
		return nil
	}
}

// WithLogger replaces the global zerolog logger for this client.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) error {
		c.log = l
		return nil
	}
}

// WithAsyncRetries lets calls submitted through Go retry recoverable
// failures (timeouts, connection errors, 500s) with exponential backoff.
// maxAttempts counts the first attempt.
func WithAsyncRetries(maxAttempts int, baseBackoff time.Duration) Option {
	return func(c *Client) error {
		if maxAttempts < 1 {
			return fmt.Errorf("max attempts must be >= 1")
		}
		if baseBackoff <= 0 {
			return fmt.Errorf("base backoff must be > 0")
		}
		c.asyncCfg.MaxAttempts = maxAttempts
		c.asyncCfg.BaseBackoff = baseBackoff
		return nil
	}
}

// WithAsyncConfig sizes the executor behind Go: number of shards, per-shard
// queue capacity and how long Go waits for queue space.
func WithAsyncConfig(shards, queueSize int, enqueueTimeout time.Duration) Option {
	return func(c *Client) error {
		if shards <= 0 || queueSize <= 0 {
			return fmt.Errorf("async shards and queue size must be > 0")
		}
		c.asyncCfg.Shards = shards
		c.asyncCfg.QueueSize = queueSize
		if enqueueTimeout > 0 {
			c.asyncCfg.EnqueueTimeout = enqueueTimeout
		}
		return nil
	}
}
