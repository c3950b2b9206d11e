// NextTrack - Adaptive Music Recommendation Service
// Copyright 2026 zayLatt25
// SPDX-License-Identifier: MIT
// https://github.com/zayLatt25/NextTrack

// Package main is the entry point for the NextTrack server.
//
// NextTrack is an adaptive music recommendation service. It mines a
// listener's recent history, reference tracks, explicit preferences, and
// mood to discover and rank candidate tracks from an external music
// catalog.
//
// The server initializes components in the following order:
//
//  1. Configuration: layered settings from defaults, config.yaml, and
//     environment variables (Koanf v2)
//  2. Logging: structured zerolog output
//  3. Catalog client: rate-limited HTTP client with response caching,
//     wrapped in a circuit breaker
//  4. Recommendation engine
//  5. HTTP server: REST API with Prometheus metrics
//
// The server shuts down gracefully on SIGINT and SIGTERM.
package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/zayLatt25/NextTrack/internal/api"
	"github.com/zayLatt25/NextTrack/internal/catalog"
	"github.com/zayLatt25/NextTrack/internal/config"
	"github.com/zayLatt25/NextTrack/internal/logging"
	"github.com/zayLatt25/NextTrack/internal/recommend"
)

func main() {
	if err := run(); err != nil {
		logging.Error().Err(err).Msg("server exited with error")
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Timestamp: true,
	})

	logger := logging.Logger()
	logger.Info().
		Str("profile", cfg.Recommend.Profile).
		Str("catalog", cfg.Catalog.BaseURL).
		Msg("starting nexttrack server")

	client := catalog.NewClient(cfg.Catalog, logger)
	breaker := catalog.NewBreakerClient(client, cfg.Catalog, logger)

	engine, err := recommend.NewEngine(cfg.EngineConfig(), breaker, logger)
	if err != nil {
		return fmt.Errorf("create engine: %w", err)
	}

	handler := api.NewHandler(engine, breaker)
	router := api.NewRouter(cfg, handler)

	addr := net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port))
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", addr).Msg("http server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info().Str("signal", sig.String()).Msg("received shutdown signal")
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	logger.Info().Msg("server stopped")
	return nil
}
