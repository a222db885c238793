package recallrai

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix prefixes every variable read by LoadConfig.
const EnvPrefix = "RECALLRAI"

// Config holds client settings read from the environment, e.g.
// RECALLRAI_API_KEY=rai_... RECALLRAI_PROJECT_ID=proj_... .
type Config struct {
	APIKey       string        `envconfig:"API_KEY" required:"true"`
	ProjectID    string        `envconfig:"PROJECT_ID" required:"true"`
	BaseURL      string        `envconfig:"BASE_URL" default:"https://api.recallrai.com"`
	Timeout      time.Duration `envconfig:"TIMEOUT" default:"30s"`
	MaxConns     int           `envconfig:"MAX_CONNS" default:"100"`
	MaxIdleConns int           `envconfig:"MAX_IDLE_CONNS" default:"20"`
	Debug        bool          `envconfig:"DEBUG" default:"false"`
}

// LoadConfig populates Config from environment variables (prefix RECALLRAI_).
func LoadConfig() (Config, error) {
	var c Config
	return c, envconfig.Process(EnvPrefix, &c)
}

// Options converts the loaded settings into construction options.
func (c Config) Options() []Option {
	return []Option{
		WithBaseURL(c.BaseURL),
		WithHTTPTimeout(c.Timeout),
		WithConnectionLimits(c.MaxConns, c.MaxIdleConns),
		WithDebugLogging(c.Debug),
	}
}

// NewFromEnv builds a Client from LoadConfig. opts are applied after the
// environment-derived ones and win on conflict.
func NewFromEnv(opts ...Option) (*Client, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, err
	}
	return New(cfg.APIKey, cfg.ProjectID, append(cfg.Options(), opts...)...)
}
