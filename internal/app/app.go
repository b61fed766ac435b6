// Package app wires the Voxtale subsystems into a running daemon.
//
// The App struct owns the full lifecycle: [New] connects the database,
// migrates the stores, and builds the interview service; [Run] serves the
// operational HTTP surface until the context is cancelled; [Shutdown]
// tears everything down in order.
//
// Sibling services embedding the engine in-process reach it through
// [App.Interview]; everything else (request routing, uploads, exports)
// lives outside this repository.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/voxtale/voxtale/internal/answer"
	"github.com/voxtale/voxtale/internal/config"
	"github.com/voxtale/voxtale/internal/health"
	"github.com/voxtale/voxtale/internal/interview"
	"github.com/voxtale/voxtale/internal/observe"
	"github.com/voxtale/voxtale/internal/outline"
	"github.com/voxtale/voxtale/internal/transcript/textnorm"
	"github.com/voxtale/voxtale/pkg/provider/generate"
	"github.com/voxtale/voxtale/pkg/provider/synthesis"
)

// Collaborators holds the optional external providers the engine talks to.
// Nil fields disable the corresponding service operation.
type Collaborators struct {
	// Generator invents follow-up question text.
	Generator generate.Provider

	// Synthesis reports prompt-audio readiness for speech interviews.
	Synthesis synthesis.Provider
}

// App owns the daemon's subsystems.
type App struct {
	cfg    *config.Config
	pool   *pgxpool.Pool
	svc    *interview.Service
	server *http.Server
}

// New connects to postgres, migrates the outline and answer stores, and
// assembles the interview service and HTTP surface. Call [App.Run] to start
// serving and [App.Shutdown] to tear down.
func New(ctx context.Context, cfg *config.Config, collab Collaborators) (*App, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.Database.DSN)
	if err != nil {
		return nil, fmt.Errorf("app: parse database dsn: %w", err)
	}
	if cfg.Database.MaxConns > 0 {
		poolCfg.MaxConns = cfg.Database.MaxConns
	}
	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("app: create database pool: %w", err)
	}

	outlineStore := outline.NewPostgresStore(pool)
	answerStore := answer.NewPostgresStore(pool)

	if err := outlineStore.Migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	if err := answerStore.Migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	var normOpts []textnorm.Option
	if cfg.Normalizer.SplitThreshold > 0 {
		normOpts = append(normOpts, textnorm.WithSplitThreshold(cfg.Normalizer.SplitThreshold))
	}
	if cfg.Normalizer.MinParagraphLength > 0 {
		normOpts = append(normOpts, textnorm.WithMinParagraphLength(cfg.Normalizer.MinParagraphLength))
	}
	if len(cfg.Normalizer.ExtraFillerWords) > 0 {
		normOpts = append(normOpts, textnorm.WithFillerWords(cfg.Normalizer.ExtraFillerWords...))
	}

	svcOpts := []interview.Option{
		interview.WithNormalizer(textnorm.New(normOpts...)),
		interview.WithMaxFollowUps(cfg.Interview.MaxFollowUpsPerAnswer),
		interview.WithSynthesisConcurrency(cfg.Interview.SynthesisConcurrency),
	}
	if collab.Generator != nil {
		svcOpts = append(svcOpts, interview.WithGenerator(collab.Generator))
	}
	if collab.Synthesis != nil {
		svcOpts = append(svcOpts, interview.WithSynthesis(collab.Synthesis))
	}
	svc := interview.NewService(outlineStore, answerStore, svcOpts...)

	checker := health.New(health.Checker{
		Name:  "database",
		Check: func(ctx context.Context) error { return pool.Ping(ctx) },
	})

	mux := http.NewServeMux()
	checker.Register(mux)
	mux.Handle("GET /metrics", promhttp.Handler())

	server := &http.Server{
		Addr:              cfg.Server.ListenAddr,
		Handler:           observe.Middleware(observe.DefaultMetrics())(mux),
		ReadHeaderTimeout: 10 * time.Second,
	}

	return &App{
		cfg:    cfg,
		pool:   pool,
		svc:    svc,
		server: server,
	}, nil
}

// Interview returns the interview service for in-process callers.
func (a *App) Interview() *interview.Service { return a.svc }

// Run serves the operational HTTP endpoints until ctx is cancelled or the
// server fails. A cancelled context is a normal shutdown, not an error.
func (a *App) Run(ctx context.Context) error {
	serverErr := make(chan error, 1)
	go func() {
		slog.Info("http server listening", "addr", a.cfg.Server.ListenAddr)
		if a.cfg.Server.TLS != nil {
			serverErr <- a.server.ListenAndServeTLS(a.cfg.Server.TLS.CertFile, a.cfg.Server.TLS.KeyFile)
			return
		}
		serverErr <- a.server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-serverErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("app: http server: %w", err)
		}
		return nil
	}
}

// Shutdown stops the HTTP server gracefully and closes the database pool.
func (a *App) Shutdown(ctx context.Context) error {
	var errs []error
	if err := a.server.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("app: http shutdown: %w", err))
	}
	a.pool.Close()
	return errors.Join(errs...)
}
