// Package config loads server configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Storage backends accepted by STORAGE_TYPE
const (
	StorageMemory   = "memory"
	StorageRedis    = "redis"
	StorageSQLite   = "sqlite"
	StoragePostgres = "postgres"
)

// Config is the full server configuration
type Config struct {
	// Telegram; the bot is disabled when empty
	BotToken string `env:"BOT_TKN"`

	// Game server RCON
	ServerHost   string        `env:"MC_SERVER_IP,required,notEmpty"`
	RCONPort     int           `env:"RCON_PORT"     envDefault:"25575"`
	RCONPassword string        `env:"RCON_PASSWD,required,notEmpty"`
	RCONTimeout  time.Duration `env:"RCON_TIMEOUT"  envDefault:"5s"`

	RequestTimeout   time.Duration `env:"REQUEST_TIMEOUT"   envDefault:"30s"`
	RotationCooldown time.Duration `env:"ROTATION_COOLDOWN" envDefault:"24h"`

	StorageType string `env:"STORAGE_TYPE" envDefault:"sqlite"`
	SQLitePath  string `env:"SQLITE_PATH"  envDefault:"minecraft_bot.db"`
	RedisURL    string `env:"REDIS_URL"`
	PostgresDSN string `env:"POSTGRES_DSN"`

	// HTTP API; disabled when APIToken is empty
	HTTPPort int    `env:"HTTP_PORT" envDefault:"8080"`
	APIToken string `env:"API_TOKEN"`

	// Tracing is off when empty
	OTELEndpoint string `env:"OTEL_ENDPOINT"`
}

// Load reads the given dotenv files (default ".env", skipped if missing)
// into the process environment and parses it. Variables already set in
// the environment win over file values.
func Load(files ...string) (*Config, error) {
	if len(files) == 0 {
		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load .env: %w", err)
		}
	} else if err := godotenv.Load(files...); err != nil {
		return nil, fmt.Errorf("load env files: %w", err)
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks cross-field constraints that struct tags cannot express
func (c *Config) Validate() error {
	var errs []error

	switch c.StorageType {
	case StorageMemory:
	case StorageSQLite:
		if c.SQLitePath == "" {
			errs = append(errs, errors.New("SQLITE_PATH is required when STORAGE_TYPE=sqlite"))
		}
	case StorageRedis:
		if c.RedisURL == "" {
			errs = append(errs, errors.New("REDIS_URL is required when STORAGE_TYPE=redis"))
		}
	case StoragePostgres:
		if c.PostgresDSN == "" {
			errs = append(errs, errors.New("POSTGRES_DSN is required when STORAGE_TYPE=postgres"))
		}
	default:
		errs = append(errs, fmt.Errorf("invalid STORAGE_TYPE %q: must be memory, redis, sqlite or postgres", c.StorageType))
	}

	if c.BotToken == "" && c.APIToken == "" {
		errs = append(errs, errors.New("at least one of BOT_TKN or API_TOKEN must be set"))
	}
	if c.RCONPort <= 0 || c.RCONPort > 65535 {
		errs = append(errs, fmt.Errorf("invalid RCON_PORT %d", c.RCONPort))
	}
	if c.RCONTimeout <= 0 {
		errs = append(errs, errors.New("RCON_TIMEOUT must be positive"))
	}
	if c.RequestTimeout <= 0 {
		errs = append(errs, errors.New("REQUEST_TIMEOUT must be positive"))
	}
	if c.RotationCooldown <= 0 {
		errs = append(errs, errors.New("ROTATION_COOLDOWN must be positive"))
	}

	return errors.Join(errs...)
}

// BotEnabled reports whether the Telegram front end should run
func (c *Config) BotEnabled() bool {
	return c.BotToken != ""
}

// APIEnabled reports whether the HTTP API should run
func (c *Config) APIEnabled() bool {
	return c.APIToken != ""
}
