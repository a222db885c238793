package recallrai

import (
	"context"

	"github.com/recallrai/sdk-go/internal/shardqueue"
)

// executor abstracts the async job runner behind Go.
type executor interface {
	Submit(context.Context, string, shardqueue.Job) error
	Barrier(context.Context, string) error
	Stop()
}

// executor starts the shard executor on first use.
func (c *Client) executor() (executor, error) {
	c.execMu.Lock()
	defer c.execMu.Unlock()
	if err := c.conn.check(); err != nil {
		return nil, err
	}
	if c.exec == nil {
		cfg := c.asyncCfg
		cfg.ErrorHandler = func(err error) {
			c.log.Debug().Err(err).Msg("recallrai: async call failed")
		}
		c.exec = shardqueue.NewShardExecutor(cfg)
	}
	return c.exec, nil
}
