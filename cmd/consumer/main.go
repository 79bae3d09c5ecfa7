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

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/spacesedan/reviewlens/config"
	"github.com/spacesedan/reviewlens/internal/bootstrap"
	"github.com/spacesedan/reviewlens/internal/clients/kafka_client"
	"github.com/spacesedan/reviewlens/internal/consumers"
	"github.com/spacesedan/reviewlens/internal/logging"
	"github.com/spacesedan/reviewlens/internal/monitoring"
	"github.com/spacesedan/reviewlens/internal/utils"
)

const SCORER_HEALTH_CHECK = "sentiment-service"

func main() {
	config.LoadEnv(config.AppEnv())
	cfg, err := config.Load()
	if err != nil {
		slog.Error("[Main] Invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logging.InitLogger(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.Build(ctx, cfg)
	if err != nil {
		slog.Error("[Main] Failed to build pipeline", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer app.Close()

	go serveMetrics(ctx, cfg.MetricsAddr)

	kafkaCfg := kafka_client.GetKafkaConfig(cfg.KafkaBroker, cfg.KafkaConsumerGroupID)

	var producer *kafka_client.Producer
	for producer == nil {
		producer, err = kafka_client.NewProducer(ctx, kafkaCfg)
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

	scorerHealthy := &atomic.Bool{}
	scorerHealthy.Store(true)
	if app.ScorerHealth != nil {
		go monitoring.MonitorHealth(ctx, SCORER_HEALTH_CHECK, app.ScorerHealth, scorerHealthy, monitoring.HEALTHCHECK_TIMER)
	}
	for name, check := range app.HealthChecks {
		if name == SCORER_HEALTH_CHECK {
			continue
		}
		go monitoring.MonitorHealth(ctx, name, check, &atomic.Bool{}, monitoring.HEALTHCHECK_TIMER)
	}

	reviewConsumer := consumers.NewReviewConsumer(app.Service, producer, app.Store, utils.BATCH_SIZE)

	registry := kafka_client.NewRegistry()
	registry.Register(kafka_client.KAFKA_TOPIC_REVIEW_TEXT,
		consumers.WrapConsumer(reviewConsumer.Run).WithHealthCheck(scorerHealthy).Handler())

	if err := registry.Start(ctx, kafkaCfg); err != nil {
		slog.Error("[Main] Failed to start consumer",
			slog.String("error", err.Error()))
	}
}

func serveMetrics(ctx context.Context, addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	slog.Info("[Main] Serving metrics", slog.String("addr", addr))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("[Main] Metrics server failed", slog.String("error", err.Error()))
	}
}
