package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/google/uuid"

	"github.com/spacesedan/reviewlens/config"
	"github.com/spacesedan/reviewlens/internal/clients/kafka_client"
	"github.com/spacesedan/reviewlens/internal/logging"
	"github.com/spacesedan/reviewlens/internal/models"
	"github.com/spacesedan/reviewlens/internal/utils"
)

// producer reads reviews from stdin, one per line, and publishes them to
// review-text in batches.
func main() {
	batchSize := flag.Int("batch", utils.BATCH_SIZE, "reviews per kafka message")
	source := flag.String("source", "stdin", "source tag attached to each review")
	flag.Parse()

	config.LoadEnv(config.AppEnv())
	cfg, err := config.Load()
	if err != nil {
		slog.Error("[Producer] Invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logging.InitLogger(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	kafkaCfg := kafka_client.GetKafkaConfig(cfg.KafkaBroker, cfg.KafkaConsumerGroupID)
	kafkaCfg.TransactionalID = "reviewlens-stdin-producer"
	producer, err := kafka_client.NewProducer(ctx, kafkaCfg)
	if err != nil {
		slog.Error("[Producer] Kafka init failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer producer.Close()

	buffer := utils.NewBatchBuffer[models.ReviewInput](*batchSize)
	publish := func() {
		batch := buffer.GetAndClear()
		if len(batch) == 0 {
			return
		}
		if err := producer.Publish(ctx, kafka_client.KAFKA_TOPIC_REVIEW_TEXT, batch[0].ReviewID, batch); err != nil {
			slog.Error("[Producer] Failed to publish batch",
				slog.Int("batch_size", len(batch)),
				slog.String("error", err.Error()))
			return
		}
		slog.Info("[Producer] Published reviews", slog.Int("batch_size", len(batch)))
	}

	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() && ctx.Err() == nil {
		in, ok := parseLine(scanner.Text(), *source)
		if !ok {
			continue
		}
		if buffer.Add(in) {
			publish()
		}
	}
	if err := scanner.Err(); err != nil {
		slog.Error("[Producer] Failed to read stdin", slog.String("error", err.Error()))
	}
	publish()
}

// parseLine accepts plain text or a ReviewInput JSON object. Reviews without
// an id get a fresh uuid so consumers can track them.
func parseLine(line, source string) (models.ReviewInput, bool) {
	line = strings.TrimSpace(line)
	if line == "" {
		return models.ReviewInput{}, false
	}

	in := models.ReviewInput{Text: line}
	if strings.HasPrefix(line, "{") {
		if err := json.Unmarshal([]byte(line), &in); err != nil {
			slog.Warn("[Producer] Skipping malformed review", slog.String("error", err.Error()))
			return models.ReviewInput{}, false
		}
	}
	if in.ReviewID == "" {
		in.ReviewID = uuid.NewString()
	}
	if in.Source == "" {
		in.Source = source
	}
	return in, true
}
