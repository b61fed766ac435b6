// Command voxtale is the interview progression and transcript assembly
// daemon. It owns the postgres-backed outline and answer stores, exposes
// the engine to sibling services as a library, and serves an operational
// HTTP surface: /healthz, /readyz, and Prometheus /metrics.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/voxtale/voxtale/internal/app"
	"github.com/voxtale/voxtale/internal/config"
	"github.com/voxtale/voxtale/internal/observe"
)

func main() {
	os.Exit(run())
}

func run() int {
	configFlag := flag.String("config", "config.yaml", "path to the YAML configuration file")
	flag.Parse()

	// A local .env is optional; deployments set real environment variables.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "voxtale: load .env: %v\n", err)
		return 1
	}

	cfg, err := config.Load(*configFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "voxtale: %v\n", err)
		return 1
	}

	slog.SetDefault(newLogger(cfg.Server.LogLevel))
	slog.Info("starting",
		"config", *configFlag,
		"listen_addr", cfg.Server.ListenAddr,
		"log_level", cfg.Server.LogLevel,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	otelShutdown, err := observe.InitProvider(ctx, observe.ProviderConfig{ServiceName: "voxtale"})
	if err != nil {
		slog.Error("telemetry init failed", "err", err)
		return 1
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := otelShutdown(flushCtx); err != nil {
			slog.Warn("telemetry shutdown", "err", err)
		}
	}()

	// The production generator and synthesis backends are registered by the
	// services that embed this daemon; standalone runs operate without them.
	application, err := app.New(ctx, cfg, app.Collaborators{})
	if err != nil {
		slog.Error("startup failed", "err", err)
		return 1
	}

	slog.Info("engine ready, Ctrl+C to stop")

	if err := application.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		slog.Error("serve failed", "err", err)
		return 1
	}

	slog.Info("shutdown signal received")

	stopCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := application.Shutdown(stopCtx); err != nil {
		slog.Error("shutdown failed", "err", err)
		return 1
	}
	slog.Info("stopped")
	return 0
}

// newLogger builds the process-wide text logger at the configured level.
func newLogger(level config.LogLevel) *slog.Logger {
	levels := map[config.LogLevel]slog.Level{
		config.LogDebug: slog.LevelDebug,
		config.LogInfo:  slog.LevelInfo,
		config.LogWarn:  slog.LevelWarn,
		config.LogError: slog.LevelError,
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: levels[level]}))
}
