package factory

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/mcoot/mcregbot/internal/bot"
	"github.com/mcoot/mcregbot/internal/config"
	"github.com/mcoot/mcregbot/internal/dependencies/clock"
	"github.com/mcoot/mcregbot/internal/rcon"
	"github.com/mcoot/mcregbot/internal/services/allowlist"
	"github.com/mcoot/mcregbot/internal/services/locks"
	"github.com/mcoot/mcregbot/internal/services/registration"
	"github.com/mcoot/mcregbot/internal/services/rotation"
	"github.com/mcoot/mcregbot/internal/storage"
	"github.com/mcoot/mcregbot/internal/storage/memory"
	"github.com/mcoot/mcregbot/internal/storage/postgres"
	redisstorage "github.com/mcoot/mcregbot/internal/storage/redis"
	"github.com/mcoot/mcregbot/internal/storage/sqlite"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock     clock.Clock
	Allowlist *allowlist.Client

	// Services
	Locks               *locks.Set
	RegistrationService *registration.Service
	RotationService     *rotation.Service
	Dispatcher          *bot.Dispatcher
}

// Config holds configuration for the application factory
type Config struct {
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// Executor sends commands to the game server (required)
	Executor allowlist.Executor
	// StorageType selects the storage backend
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
	// SQLitePath is the database file (required if StorageType is "sqlite")
	SQLitePath string
	// PostgresDSN is the connection string (required if StorageType is "postgres")
	PostgresDSN string

	AllowlistConfig allowlist.Config
	RotationConfig  rotation.Config
	// RequestTimeout bounds one chat command end to end
	RequestTimeout time.Duration
}

// FromEnv derives a factory Config from the loaded environment, dialling RCON per command
func FromEnv(env *config.Config, logger *slog.Logger) Config {
	cfg := Config{
		Logger: logger,
		Executor: rcon.New(rcon.Config{
			Host:     env.ServerHost,
			Port:     env.RCONPort,
			Password: env.RCONPassword,
			Timeout:  env.RCONTimeout,
		}),
		StorageType:     env.StorageType,
		SQLitePath:      env.SQLitePath,
		PostgresDSN:     env.PostgresDSN,
		AllowlistConfig: allowlist.Config{CommandTimeout: env.RCONTimeout},
		RotationConfig:  rotation.Config{Cooldown: env.RotationCooldown},
		RequestTimeout:  env.RequestTimeout,
	}
	if env.StorageType == config.StorageRedis {
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = env.RedisURL
		cfg.RedisConfig = &redisCfg
	}
	return cfg
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	if cfg.Executor == nil {
		return nil, errors.New("Executor is required")
	}

	store, err := openStorage(cfg)
	if err != nil {
		return nil, err
	}

	return newWithDependencies(store, cfg.Executor, clock.New(), cfg, logger), nil
}

func openStorage(cfg Config) (storage.Storage, error) {
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = config.StorageMemory
	}

	switch storageType {
	case config.StorageMemory:
		return memory.New(), nil
	case config.StorageRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		return redisstorage.New(*cfg.RedisConfig)
	case config.StorageSQLite:
		return sqlite.Open(cfg.SQLitePath)
	case config.StoragePostgres:
		return postgres.Open(cfg.PostgresDSN)
	default:
		return nil, fmt.Errorf("invalid StorageType %q: must be memory, redis, sqlite or postgres", storageType)
	}
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(
	store storage.Storage,
	executor allowlist.Executor,
	clk clock.Clock,
	cfg Config,
	logger *slog.Logger,
) *App {
	client := allowlist.New(executor, cfg.AllowlistConfig, logger)
	set := locks.NewSet()
	registrationService := registration.New(store, client, set, clk, logger)
	rotationService := rotation.New(store, client, set, clk, cfg.RotationConfig, logger)
	dispatcher := bot.NewDispatcher(registrationService, rotationService, store, clk, cfg.RequestTimeout, logger)

	return &App{
		Storage:             store,
		Clock:               clk,
		Allowlist:           client,
		Locks:               set,
		RegistrationService: registrationService,
		RotationService:     rotationService,
		Dispatcher:          dispatcher,
	}
}

// Close releases the storage backend
func (a *App) Close() error {
	return a.Storage.Close()
}
