package config

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/caarlos0/env/v11"
)

var ErrInvalidConfig = errors.New("invalid configuration")

// Config is resolved once at startup and passed to the components that
// need it. Nothing reads the environment after Load.
type Config struct {
	// ServerURL is the game server's HTTP base URL. The websocket endpoint
	// is derived from it.
	ServerURL   string        `env:"WORDLE_SERVER_URL" envDefault:"http://localhost:8080"`
	HTTPTimeout time.Duration `env:"WORDLE_HTTP_TIMEOUT" envDefault:"10s"`
	Cooldown    time.Duration `env:"WORDLE_COOLDOWN" envDefault:"2s"`

	LogLevel string `env:"WORDLE_LOG_LEVEL" envDefault:"info"`
	LogFile  string `env:"WORDLE_LOG_FILE"`

	// Reference server
	ListenAddr string `env:"WORDLE_LISTEN_ADDR" envDefault:"localhost:8080"`
	CORSOrigin string `env:"CORS_ORIGIN"`

	NgrokEnabled   bool   `env:"NGROK_ENABLED"`
	NgrokAuthToken string `env:"NGROK_AUTHTOKEN"`
	NgrokDomain    string `env:"NGROK_DOMAIN"`
}

// Load parses the environment into a Config and validates it.
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the values a client cannot run without.
func (c *Config) Validate() error {
	u, err := url.Parse(c.ServerURL)
	if err != nil || u.Host == "" {
		return fmt.Errorf("%w: server url %q", ErrInvalidConfig, c.ServerURL)
	}
	switch u.Scheme {
	case "http", "https":
	default:
		return fmt.Errorf("%w: server url scheme must be http or https, got %q", ErrInvalidConfig, u.Scheme)
	}
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("%w: http timeout must be positive", ErrInvalidConfig)
	}
	if c.Cooldown <= 0 {
		return fmt.Errorf("%w: cooldown must be positive", ErrInvalidConfig)
	}
	return nil
}
