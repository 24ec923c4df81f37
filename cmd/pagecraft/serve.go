// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"pagecraft/internal/cache"
	"pagecraft/internal/config"
	"pagecraft/internal/converter"
	"pagecraft/internal/database"
	"pagecraft/internal/engine"
	"pagecraft/internal/handlers"
	"pagecraft/internal/metrics"
	"pagecraft/internal/middleware"
	"pagecraft/internal/renderer"
	"pagecraft/internal/resolver"
	"pagecraft/internal/revision"
	"pagecraft/internal/router"
	"pagecraft/internal/store"
)

func newServeCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		Long: `Connects to PostgreSQL, runs pending migrations, and serves the JSON API
and the published site. Settings are read from the environment.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx, root)
		},
	}
}

func serve(ctx context.Context, root *rootOptions) error {
	// Load configuration from environment variables.
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	if root.registryFile == "" {
		root.registryFile = cfg.RegistryFile
	}
	slog.Info("configuration loaded", "env", cfg.Env, "addr", cfg.Addr())

	reg, err := root.loadRegistry()
	if err != nil {
		return err
	}
	conv := converter.New(reg,
		converter.WithLimits(converter.Limits{MaxNodes: cfg.ConvertMaxNodes}),
		converter.WithLogger(slog.Default().With("component", "converter")),
	)
	rend := renderer.New(reg,
		renderer.WithMaxDepth(cfg.RenderMaxDepth),
		renderer.WithLogger(slog.Default().With("component", "renderer")),
	)
	slog.Info("module registry loaded", "types", len(reg.List()), "file", root.registryFile)

	// Connect to PostgreSQL and run pending migrations.
	db, err := database.Connect(cfg.DSN())
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	// Seed development data (no-op if data already exists).
	if cfg.IsDev() {
		if err := database.Seed(db, conv); err != nil {
			return fmt.Errorf("seed database: %w", err)
		}
	}

	pageStore := store.NewPageStore(db)
	templateStore := store.NewTemplateStore(db)
	revisionStore := store.NewRevisionStore(db)

	m := metrics.New()
	engOpts := []engine.Option{
		engine.WithMetrics(m),
		engine.WithLogger(slog.Default().With("component", "engine")),
	}
	if cfg.RenderCacheEntries > 0 {
		engOpts = append(engOpts, engine.WithL1Size(cfg.RenderCacheEntries))
	}

	// The L2 render cache is optional: without Valkey, published output is
	// only cached in process.
	if cfg.ValkeyHost != "" {
		valkeyClient, err := cache.ConnectValkey(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
		if err != nil {
			slog.Warn("valkey unavailable, render cache is in-process only", "error", err)
		} else {
			defer valkeyClient.Close()
			engOpts = append(engOpts, engine.WithRenderCache(cache.NewRenderCache(valkeyClient, cfg.RenderCacheTTL)))
		}
	}

	res := resolver.New(templateStore)
	eng := engine.New(pageStore, res, rend, engOpts...)
	revisions := revision.NewService(revisionStore, revision.WithLogger(slog.Default().With("component", "revision")))

	api := handlers.NewAPI(reg, conv, eng, res, pageStore, templateStore, revisions, m)
	public := handlers.NewPublic(eng)

	var limiter *middleware.RateLimiter
	if cfg.ConvertRateLimit > 0 {
		limiter = middleware.NewRateLimiter(cfg.ConvertRateLimit, time.Minute)
		defer limiter.Stop()
	}

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      router.New(api, public, limiter, m.Handler(), slog.Default()),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
		slog.Info("shutdown signal received")
	}

	// Give active requests up to 30 seconds to complete.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	slog.Info("server stopped gracefully")
	return nil
}
