package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aussiebroadwan/bookshelf/pkg/httpx"
	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Auth      AuthConfig
	Database  DatabaseConfig
	Bootstrap BootstrapConfig

	PepperFile          string        `env:"PEPPER_FILE, default=pepper"`
	Env                 string        `env:"ENV, default=dev"`
	LogLevel            string        `env:"LOG_LEVEL, default=info"`
	LogFormat           string        `env:"LOG_FORMAT, default=json"`
	Port                int           `env:"PORT, default=8080"`
	ShutdownGracePeriod time.Duration `env:"SHUTDOWN_GRACE_PERIOD, default=10s"`

	RateLimits httpx.RateLimits
}

type AuthConfig struct {
	Secret    string        `env:"AUTH_SECRET, required"`
	Algorithm string        `env:"AUTH_ALGORITHM, default=HS256"` // HS256, HS384 or HS512
	TokenTTL  time.Duration `env:"AUTH_TOKEN_TTL, default=30m"`
}

type DatabaseConfig struct {
	Driver string `env:"DATABASE_DRIVER, default=sqlite"` // sqlite or postgres
	DSN    string `env:"DATABASE_DSN"`                    // postgres connection string
	File   string `env:"DATABASE_FILE, default=catalog.db"`
}

type BootstrapConfig struct {
	AdminUsername string `env:"BOOTSTRAP_ADMIN_USERNAME, default=admin"`
	AdminPassword string `env:"BOOTSTRAP_ADMIN_PASSWORD"` // generated when empty
}

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// LoadConfig reads the configuration from the process environment.
func LoadConfig(ctx context.Context) (Config, error) {
	return loadConfig(ctx, envconfig.OsLookuper())
}

func loadConfig(ctx context.Context, l envconfig.Lookuper) (Config, error) {
	cfg := Config{RateLimits: httpx.DefaultRateLimits()}
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// Validate checks the settings envconfig cannot express as tags.
func (c Config) Validate() error {
	var errs []error

	switch c.Database.Driver {
	case DriverSQLite:
	case DriverPostgres:
		if c.Database.DSN == "" {
			errs = append(errs, errors.New("DATABASE_DSN is required for the postgres driver"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown DATABASE_DRIVER %q", c.Database.Driver))
	}

	if c.Auth.TokenTTL <= 0 {
		errs = append(errs, errors.New("AUTH_TOKEN_TTL must be positive"))
	}
	if c.Bootstrap.AdminUsername == "" {
		errs = append(errs, errors.New("BOOTSTRAP_ADMIN_USERNAME must not be empty"))
	}

	for name, rl := range map[string]httpx.RateLimitConfig{
		"strict":   c.RateLimits.Strict,
		"moderate": c.RateLimits.Moderate,
		"lenient":  c.RateLimits.Lenient,
		"public":   c.RateLimits.Public,
	} {
		if err := rl.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("rate limit %s: %w", name, err))
		}
	}

	return errors.Join(errs...)
}
