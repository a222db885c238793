package shardqueue

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config groups all tunables.  Values are taken from environment variables with
// the prefix "RECALLRAI_ASYNC_". Example: RECALLRAI_ASYNC_SHARDS=8.
type Config struct {
	Shards         int           `envconfig:"SHARDS"          default:"4"`
	QueueSize      int           `envconfig:"QUEUE_SIZE"      default:"128"`
	EnqueueTimeout time.Duration `envconfig:"ENQUEUE_TIMEOUT" default:"100ms"`

	// ErrorHandler is called synchronously after a Job's final attempt fails.
	// Leave nil if you do not care.
	ErrorHandler func(error) `envconfig:"-"`

	// MaxAttempts counts the first run. Only recoverable errors are retried.
	MaxAttempts int           `envconfig:"MAX_ATTEMPTS" default:"3"`
	BaseBackoff time.Duration `envconfig:"BASE_BACKOFF" default:"200ms"`
	MaxInterval time.Duration `envconfig:"MAX_INTERVAL" default:"5s"`
}

// EnvPrefix is the envconfig prefix used by LoadConfig.
const EnvPrefix = "RECALLRAI_ASYNC"

// LoadConfig populates Config from environment variables (prefix RECALLRAI_ASYNC_).
func LoadConfig() (Config, error) {
	var c Config
	return c, envconfig.Process(EnvPrefix, &c)
}
