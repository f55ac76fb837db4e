package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
	"golang.org/x/crypto/bcrypt"
)

// MinSecretLength is the shortest accepted token-signing secret, in bytes.
const MinSecretLength = 32

// Config holds the application configuration.
type Config struct {
	ServerPort   int    `env:"PORT, required"`
	DatabasePath string `env:"DATABASE_PATH, required"`
	JWTSecret    string `env:"JWT_SECRET, required"`

	Env      string `env:"APP_ENV, default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	AllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS, default=http://localhost:3000"`

	EventRetention     time.Duration `env:"EVENT_RETENTION, default=720h"`
	EventPruneSchedule string        `env:"EVENT_PRUNE_SCHEDULE, default=@hourly"`

	BcryptCost int `env:"BCRYPT_COST, default=10"`
}

// IsProduction reports whether the service runs with production settings.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Load reads the configuration from the process environment.
func Load(ctx context.Context) (*Config, error) {
	return LoadWith(ctx, envconfig.OsLookuper())
}

// LoadWith reads the configuration through the given lookuper and validates it.
func LoadWith(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.ServerPort <= 0 || c.ServerPort > 65535 {
		return fmt.Errorf("PORT %d out of range", c.ServerPort)
	}
	if len(c.JWTSecret) < MinSecretLength {
		return fmt.Errorf("JWT_SECRET must be at least %d bytes", MinSecretLength)
	}
	if c.EventRetention <= 0 {
		return fmt.Errorf("EVENT_RETENTION must be positive")
	}
	if c.BcryptCost < bcrypt.MinCost || c.BcryptCost > bcrypt.MaxCost {
		return fmt.Errorf("BCRYPT_COST must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost)
	}
	return nil
}
