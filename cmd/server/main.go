package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/mcoot/mcregbot/internal/api"
	"github.com/mcoot/mcregbot/internal/bot"
	"github.com/mcoot/mcregbot/internal/config"
	"github.com/mcoot/mcregbot/internal/factory"
	"github.com/mcoot/mcregbot/internal/telemetry"
)

const serviceName = "mcregbot"

func main() {
	os.Exit(serve())
}

// serve wires the application and returns the process exit code
func serve() int {
	// Set up logging with JSON output
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	env, err := config.Load()
	if err != nil {
		logger.Error("invalid configuration", slog.String("error", err.Error()))
		return 1
	}

	// Handle graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := telemetry.Setup(ctx, serviceName, env.OTELEndpoint)
	if err != nil {
		logger.Error("failed to set up tracing", slog.String("error", err.Error()))
		return 1
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(shutdownCtx); err != nil {
			logger.Warn("tracing shutdown error", slog.String("error", err.Error()))
		}
	}()

	app, err := factory.New(factory.FromEnv(env, logger))
	if err != nil {
		logger.Error("failed to create application", slog.String("error", err.Error()))
		return 1
	}
	defer func() {
		if err := app.Close(); err != nil {
			logger.Warn("storage close error", slog.String("error", err.Error()))
		}
	}()

	return run(ctx, env, app, logger)
}

// run starts the enabled frontends and blocks until ctx is done or
// one of them fails. It returns the process exit code.
func run(ctx context.Context, env *config.Config, app *factory.App, logger *slog.Logger) int {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	errCh := make(chan error, 2)

	if env.BotEnabled() {
		tg, err := bot.NewTelegramAPI(env.BotToken)
		if err != nil {
			logger.Error("failed to connect to Telegram", slog.String("error", err.Error()))
			return 1
		}
		b := bot.New(tg, app.Dispatcher, logger)

		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := b.Run(ctx); err != nil {
				errCh <- err
			}
		}()
		logger.Info("bot started")
	}

	var server *api.Server
	if env.APIEnabled() {
		router := api.NewRouter(api.RouterConfig{
			Logger:              logger,
			Token:               env.APIToken,
			RequestTimeout:      env.RequestTimeout,
			RegistrationService: app.RegistrationService,
			RotationService:     app.RotationService,
			Storage:             app.Storage,
		})

		serverConfig := api.DefaultServerConfig()
		serverConfig.Port = env.HTTPPort
		server = api.NewServer(router, serverConfig, logger)

		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := server.Start(); err != nil {
				errCh <- err
			}
		}()
		logger.Info("server started", slog.String("addr", server.Addr()))
	}

	// Wait for shutdown or error
	code := 0
	select {
	case err := <-errCh:
		logger.Error("frontend error", slog.String("error", err.Error()))
		code = 1
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}
	cancel()

	if server != nil {
		if err := server.Shutdown(context.Background()); err != nil {
			logger.Error("shutdown error", slog.String("error", err.Error()))
			code = 1
		}
	}
	wg.Wait()

	logger.Info("server stopped")
	return code
}
