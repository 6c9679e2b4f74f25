package config

import (
	"errors"
	"fmt"
	"os"
	"time"
)

// DefaultBaseURL is the mock REST backend used when nothing else is given.
const DefaultBaseURL = "https://672885dc270bd0b97555ee35.mockapi.io"

// EnvPrefix prefixes every environment variable read by the overlay.
const EnvPrefix = "USERDESK_"

var ErrInvalidConfig = errors.New("invalid config")

// Config holds runtime settings for the userdesk CLI.
//
// Units: DebounceWindow and RequestTimeout are time.Duration values; on the
// command line they are given in milliseconds and seconds respectively.
type Config struct {
	BaseURL           string        `env:"BASE_URL"`
	DebounceWindow    time.Duration `env:"DEBOUNCE"`
	RequestTimeout    time.Duration `env:"REQUEST_TIMEOUT"`
	DeleteConcurrency int           `env:"DELETE_CONCURRENCY"`
	StateDBPath       string        `env:"STATE_DB"`
	HistoryFile       string        `env:"HISTORY_FILE"`
	LogLevel          string        `env:"LOG_LEVEL"`
	OtelEndpoint      string        `env:"OTEL_ENDPOINT"`
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.BaseURL = DefaultBaseURL
	c.DebounceWindow = 200 * time.Millisecond
	c.RequestTimeout = 10 * time.Second
	c.DeleteConcurrency = 8
	c.StateDBPath = "userdesk.db"
	c.HistoryFile = ".userdesk_history"
	c.LogLevel = "info"
	c.OtelEndpoint = ""
}

// Validate rejects values the client cannot run with.
func (c *Config) Validate() error {
	switch {
	case c.BaseURL == "":
		return fmt.Errorf("%w: base url is empty", ErrInvalidConfig)
	case c.DebounceWindow < 0:
		return fmt.Errorf("%w: negative debounce window %s", ErrInvalidConfig, c.DebounceWindow)
	case c.RequestTimeout <= 0:
		return fmt.Errorf("%w: request timeout must be positive, got %s", ErrInvalidConfig, c.RequestTimeout)
	case c.DeleteConcurrency < 1:
		return fmt.Errorf("%w: delete concurrency must be at least 1, got %d", ErrInvalidConfig, c.DeleteConcurrency)
	}
	return nil
}

// Load constructs a Config from args (without the program name): defaults,
// then the JSON file, then the environment, then flags. Later sources take
// precedence over earlier ones.
func Load(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := parseJson(cfg, args); err != nil {
		return nil, err
	}
	environ, err := environment(args)
	if err != nil {
		return nil, err
	}
	if err := parseEnv(cfg, environ); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadConfig is Load over the process arguments.
func LoadConfig() (*Config, error) {
	return Load(os.Args[1:])
}
