package app

import (
	"errors"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds runtime configuration for the admin client and the stub API.
type Config struct {
	AppEnv    string `envconfig:"APP_ENV" default:"development"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"pretty"`

	APIBaseURL    string        `envconfig:"API_BASE_URL" default:"http://127.0.0.1:8080/api/v1"`
	APIToken      string        `envconfig:"API_TOKEN"`
	APITimeout    time.Duration `envconfig:"API_TIMEOUT" default:"30s"`
	APIRetryCount int           `envconfig:"API_RETRY_COUNT" default:"2"`

	RedisAddr string        `envconfig:"REDIS_ADDR" default:"127.0.0.1:6379"`
	CacheTTL  time.Duration `envconfig:"CACHE_TTL" default:"5m"`

	DownloadDir string `envconfig:"DOWNLOAD_DIR" default:"downloads"`

	StubAddr         string        `envconfig:"STUB_ADDR" default:":8080"`
	StubToken        string        `envconfig:"STUB_TOKEN" default:"local-dev-token"`
	StubReadTimeout  time.Duration `envconfig:"STUB_READ_TIMEOUT" default:"15s"`
	StubWriteTimeout time.Duration `envconfig:"STUB_WRITE_TIMEOUT" default:"15s"`
}

// LoadConfig reads configuration from environment variables.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if strings.TrimSpace(cfg.APIBaseURL) == "" {
		return nil, errors.New("api base url must be provided")
	}
	return &cfg, nil
}

// IsProduction returns true when the application runs in production.
func (c *Config) IsProduction() bool {
	return c != nil && c.AppEnv == "production"
}
