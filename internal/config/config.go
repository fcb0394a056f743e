package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config is the process-wide configuration shared by the CLI, the board and
// the HTTP server. Flags override it per command.
type Config struct {
	// DBPath is empty when the default (~/.kannacs.db) should be used.
	DBPath        string        `env:"KANNACS_DB_PATH"`
	Addr          string        `env:"KANNACS_ADDR" envDefault:"127.0.0.1:8078"`
	ThinkDelay    time.Duration `env:"KANNACS_THINK_DELAY" envDefault:"1s"`
	DisplayDelay  time.Duration `env:"KANNACS_DISPLAY_DELAY" envDefault:"2s"`
	CookieTTL     time.Duration `env:"KANNACS_COOKIE_TTL" envDefault:"720h"`
	ResetPolicy   string        `env:"KANNACS_RESET_POLICY" envDefault:"relock"`
	SecureCookies bool          `env:"KANNACS_SECURE_COOKIES" envDefault:"false"`
}

// Load parses the environment and validates the result.
func Load() (Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	var errs []error
	if c.ThinkDelay < 0 {
		errs = append(errs, fmt.Errorf("KANNACS_THINK_DELAY must not be negative, got %s", c.ThinkDelay))
	}
	if c.DisplayDelay < 0 {
		errs = append(errs, fmt.Errorf("KANNACS_DISPLAY_DELAY must not be negative, got %s", c.DisplayDelay))
	}
	if c.CookieTTL <= 0 {
		errs = append(errs, fmt.Errorf("KANNACS_COOKIE_TTL must be positive, got %s", c.CookieTTL))
	}
	if c.Addr == "" {
		errs = append(errs, errors.New("KANNACS_ADDR must not be empty"))
	}
	return errors.Join(errs...)
}
