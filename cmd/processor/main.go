// Command processor runs the automated processing cycle: every interval it
// reads the three matrix CSVs from the data directory, runs the analysis
// pipeline, rewrites data.csv, optionally publishes to GitHub and Kafka, and
// merges qualifying records into the persisted alert log.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Jaylaelike/s4c-trajectory-api-services/internal/adapter/csvfile"
	"github.com/Jaylaelike/s4c-trajectory-api-services/internal/adapter/github"
	"github.com/Jaylaelike/s4c-trajectory-api-services/internal/adapter/httpapi"
	kafkaadapter "github.com/Jaylaelike/s4c-trajectory-api-services/internal/adapter/kafka"
	"github.com/Jaylaelike/s4c-trajectory-api-services/internal/alertlog"
	"github.com/Jaylaelike/s4c-trajectory-api-services/internal/config"
	"github.com/Jaylaelike/s4c-trajectory-api-services/internal/observability"
	"github.com/Jaylaelike/s4c-trajectory-api-services/internal/pipeline"
	"github.com/Jaylaelike/s4c-trajectory-api-services/internal/store"
	"github.com/jonboulle/clockwork"
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

	source := csvfile.NewSource(cfg.DataDir, cfg.LatFile, cfg.LonFile, cfg.S4CFile)
	sinks := []pipeline.ResultSink{
		store.NewSink(results),
		csvfile.NewSink(cfg.OutputFile),
	}

	if cfg.GitHubEnabled {
		client := github.NewClient(cfg.GitHubToken, cfg.GitHubOwner, cfg.GitHubRepo, 30*time.Second, logger)
		sinks = append(sinks, github.NewSink(client, cfg.GitHubPath))
		logger.Info("github upload enabled", "owner", cfg.GitHubOwner, "repo", cfg.GitHubRepo, "path", cfg.GitHubPath)
	} else {
		logger.Info("github upload disabled")
	}

	if cfg.KafkaEnabled {
		publisher := kafkaadapter.NewPublisher(cfg.KafkaBrokers, cfg.KafkaAlertTopic, cfg.AlertThreshold, logger)
		defer publisher.Close() //nolint:errcheck
		sinks = append(sinks, publisher)
		logger.Info("kafka alert publishing enabled", "topic", cfg.KafkaAlertTopic)
	} else {
		logger.Info("kafka alert publishing disabled")
	}

	alerts := alertlog.New(
		cfg.AlertLogPath,
		cfg.AlertThreshold,
		alertlog.Policy{RetentionDays: cfg.RetentionDays},
		clockwork.NewRealClock(),
		logger,
	)

	proc := pipeline.NewProcessor(source, sinks, alerts, analyzer, logger, metrics, cfg.CycleInterval)

	// The query endpoints serve whatever the cycles have stored.
	srv := httpapi.NewServer(cfg.HTTPAddr, analyzer, results, proc, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	go func() {
		if err := proc.Run(ctx); err != nil {
			logger.Error("processor error", "error", err)
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
