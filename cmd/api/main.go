// Command api serves the scintillation analysis HTTP API: upload three matrix
// CSVs, run the pipeline, and query the latest result.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/Jaylaelike/s4c-trajectory-api-services/internal/adapter/httpapi"
	"github.com/Jaylaelike/s4c-trajectory-api-services/internal/config"
	"github.com/Jaylaelike/s4c-trajectory-api-services/internal/observability"
	"github.com/Jaylaelike/s4c-trajectory-api-services/internal/pipeline"
	"github.com/Jaylaelike/s4c-trajectory-api-services/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()
	analyzer := pipeline.NewAnalyzer(logger, metrics)

	var results store.ResultStore
	if cfg.RedisEnabled {
		redisStore := store.NewRedis(cfg.RedisAddr, 0)
		defer redisStore.Close() //nolint:errcheck
		results = redisStore
		logger.Info("using redis result store", "addr", cfg.RedisAddr)
	} else {
		results = store.NewMemory()
	}

	srv := httpapi.NewServer(cfg.HTTPAddr, analyzer, results, nil, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}

	logger.Info("shutdown complete")
}
