package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/confluentinc/confluent-kafka-go/kafka"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spacesedan/corenlp-sentiment/config"
	"github.com/spacesedan/corenlp-sentiment/internal/clients"
	"github.com/spacesedan/corenlp-sentiment/internal/clients/kafka_client"
	"github.com/spacesedan/corenlp-sentiment/internal/consumers"
	"github.com/spacesedan/corenlp-sentiment/internal/db"
	"github.com/spacesedan/corenlp-sentiment/internal/logging"
	"github.com/spacesedan/corenlp-sentiment/internal/monitoring"
	"github.com/spacesedan/corenlp-sentiment/internal/pipeline"
	"github.com/spacesedan/corenlp-sentiment/internal/settings"
)

func main() {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "dev"
	}
	config.LoadEnv(env)
	cfg := config.Load()
	logging.InitLogger(cfg.LogLevel)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	reg := prometheus.NewRegistry()
	monitoring.InitMetrics(reg)

	pipelineHealthy := &atomic.Bool{}
	srv := &http.Server{
		Addr:              cfg.MetricsAddr,
		Handler:           monitoring.NewMux(pipelineHealthy, reg),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		slog.Info("[Main] Serving health and metrics", slog.String("addr", cfg.MetricsAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("[Main] Metrics server failed", slog.String("error", err.Error()))
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s, err := settings.Load(cfg.SettingsFile)
	if err != nil {
		slog.Error("[Main] Failed to load settings", slog.String("error", err.Error()))
		os.Exit(1)
	}

	p, err := pipeline.Build(ctx, cfg, s)
	if err != nil {
		slog.Error("[Main] Failed to build pipeline", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer p.Close()
	pipelineHealthy.Store(true)
	go monitoring.MonitorPipelineHealth(ctx, p.Client, pipelineHealthy, monitoring.HEALTHCHECK_TIMER)

	var store consumers.RowStore
	if cfg.DynamoDB.Table != "" {
		dynamo, err := clients.NewDynamoDBClient(ctx, cfg.DynamoDB)
		if err != nil {
			slog.Error("[Main] Failed to create DynamoDB client", slog.String("error", err.Error()))
			os.Exit(1)
		}
		store = db.NewRowSink(dynamo, cfg.DynamoDB.Table)
	}

	var producer *kafka_client.Producer
	for producer == nil {
		producer, err = kafka_client.NewProducer(cfg.Kafka)
		if err == nil {
			break
		}
		slog.Warn("[Main] Kafka init failed, retrying...", slog.String("error", err.Error()))
		select {
		case <-ctx.Done():
			return
		case <-time.After(5 * time.Second):
		}
	}
	defer producer.Close()

	consumer, err := kafka_client.NewConsumer(cfg.Kafka)
	if err != nil {
		slog.Error("[Main] Failed to start consumer", slog.String("error", err.Error()))
		return
	}
	defer consumer.Close()

	handler := consumers.NewBatchRequestHandler(p.Processor, producer, store, cfg.Kafka.ResultTopic)
	run := consumers.WrapConsumer(func(ctx context.Context, c *kafka.Consumer) {
		consumers.StartBatchRequestConsumer(ctx, c, handler, pipelineHealthy)
	}).WithHealthCheck(pipelineHealthy).Handler()

	run(ctx, consumer)
	slog.Info("[Main] Worker stopped")
}
