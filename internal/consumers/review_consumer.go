package consumers

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/confluentinc/confluent-kafka-go/kafka"

	"github.com/spacesedan/reviewlens/internal/clients/kafka_client"
	"github.com/spacesedan/reviewlens/internal/db"
	"github.com/spacesedan/reviewlens/internal/metrics"
	"github.com/spacesedan/reviewlens/internal/models"
	"github.com/spacesedan/reviewlens/internal/utils"
)

const (
	PUBLISH_ATTEMPTS = 3
	STORE_ATTEMPTS   = 3
	RETRY_DELAY      = 2 * time.Second
	PAUSE_INTERVAL   = 5 * time.Second
	SHUTDOWN_TIMEOUT = 10 * time.Second
)

type Analyzer interface {
	AnalyzeBatch(ctx context.Context, inputs []models.ReviewInput) []models.ReviewAnalysis
}

type Publisher interface {
	Publish(ctx context.Context, topic, key string, value any) error
}

type MessageSource interface {
	Next() (*kafka.Message, error)
}

type Committer interface {
	Commit(msg *kafka.Message) error
}

// ReviewConsumer drains review-text, analyses each message, and flushes the
// buffered analyses to review-analysis and the result store. Offsets are
// committed only after a successful flush.
type ReviewConsumer struct {
	analyzer  Analyzer
	publisher Publisher
	store     db.ResultStore
	buffer    *utils.BatchBuffer[models.ReviewAnalysis]
	tracker   *utils.MessageTracker[*kafka.Message]
	timeout   time.Duration
	retry     time.Duration
	pause     time.Duration
}

// NewReviewConsumer builds a consumer; publisher and store may be nil.
func NewReviewConsumer(analyzer Analyzer, publisher Publisher, store db.ResultStore, batchSize int) *ReviewConsumer {
	return &ReviewConsumer{
		analyzer:  analyzer,
		publisher: publisher,
		store:     store,
		buffer:    utils.NewBatchBuffer[models.ReviewAnalysis](batchSize),
		tracker:   utils.NewMessageTracker[*kafka.Message](),
		timeout:   utils.BATCH_TIMEOUT,
		retry:     RETRY_DELAY,
		pause:     PAUSE_INTERVAL,
	}
}

// Run matches HealthAwareFunc. Consumption pauses while any health flag is
// false.
func (c *ReviewConsumer) Run(ctx context.Context, consumer *kafka.Consumer, health ...*atomic.Bool) {
	iterator := kafka_client.NewKafkaMessageIterator(ctx, consumer)
	committer := kafka_client.NewCommitHandler(ctx, consumer)
	c.consume(ctx, iterator, committer, health...)
}

func (c *ReviewConsumer) consume(ctx context.Context, source MessageSource, committer Committer, health ...*atomic.Bool) {
	slog.Info("[ReviewConsumer] Listening for reviews...")

	ticker := time.NewTicker(c.timeout)
	defer ticker.Stop()

	paused := false
	for {
		select {
		case <-ctx.Done():
			slog.Warn("[ReviewConsumer] Stopping consumer...")
			flushCtx, cancel := context.WithTimeout(context.Background(), SHUTDOWN_TIMEOUT)
			c.flush(flushCtx, committer)
			cancel()
			return
		case <-ticker.C:
			c.flush(ctx, committer)
		default:
			if !allHealthy(health) {
				if !paused {
					slog.Warn("[ReviewConsumer] Dependency unhealthy, pausing consumption")
					paused = true
				}
				select {
				case <-ctx.Done():
				case <-time.After(c.pause):
				}
				continue
			}
			if paused {
				slog.Info("[ReviewConsumer] Dependencies healthy, resuming consumption")
				paused = false
			}

			msg, err := source.Next()
			if err != nil {
				utils.HandleConsumerError(err)
				continue
			}
			if msg == nil {
				continue
			}

			if full := c.handle(ctx, msg, committer); full {
				c.flush(ctx, committer)
			}
		}
	}
}

// handle analyses one message and reports whether the buffer is full.
// Undecodable messages are committed and dropped.
func (c *ReviewConsumer) handle(ctx context.Context, msg *kafka.Message, committer Committer) bool {
	inputs, err := utils.DeserializeOneOrMany[models.ReviewInput](msg.Value)
	if err != nil || len(inputs) == 0 {
		slog.Warn("[ReviewConsumer] Dropping undecodable message",
			slog.Int64("offset", int64(msg.TopicPartition.Offset)))
		if err := committer.Commit(msg); err != nil {
			slog.Warn("[ReviewConsumer] Failed to commit offset",
				slog.String("error", err.Error()))
		}
		return false
	}

	analyses := c.analyzer.AnalyzeBatch(ctx, inputs)
	for _, a := range analyses {
		if !a.OK {
			slog.Warn("[ReviewConsumer] Review analysis failed",
				slog.String("review_id", a.ReviewID),
				slog.String("error", a.Error))
		}
	}

	c.tracker.Track(utils.MessageKey(msg), msg)
	return c.buffer.Add(analyses...)
}

func (c *ReviewConsumer) flush(ctx context.Context, committer Committer) {
	batch := c.buffer.GetAndClear()
	if len(batch) == 0 {
		return
	}
	c.buffer.LogBatchProcessing("review-analysis")

	if c.publisher != nil && !c.publish(ctx, batch) {
		dropped := c.tracker.TakeAll()
		slog.Error("[ReviewConsumer] Giving up on batch, offsets left uncommitted",
			slog.Int("batch_size", len(batch)),
			slog.Int("messages", len(dropped)))
		return
	}
	if c.store != nil {
		c.storeBatch(ctx, batch)
	}

	for _, msg := range c.tracker.TakeAll() {
		if err := committer.Commit(msg); err != nil {
			slog.Warn("[ReviewConsumer] Failed to commit offset",
				slog.String("error", err.Error()))
		}
	}
}

func (c *ReviewConsumer) publish(ctx context.Context, batch []models.ReviewAnalysis) bool {
	for i := 0; i < PUBLISH_ATTEMPTS; i++ {
		err := c.publisher.Publish(ctx, kafka_client.KAFKA_TOPIC_REVIEW_ANALYSIS, batch[0].ReviewID, batch)
		if err == nil {
			return true
		}
		slog.Warn("[ReviewConsumer] Batch publishing failed",
			slog.Int("attempt", i+1),
			slog.String("error", err.Error()))
		if !sleep(ctx, c.retry) {
			return false
		}
	}
	return false
}

// storeBatch never blocks commits; the published topic remains the record.
func (c *ReviewConsumer) storeBatch(ctx context.Context, batch []models.ReviewAnalysis) {
	backend := c.store.Name()
	for i := 0; i < STORE_ATTEMPTS; i++ {
		err := c.store.StoreAnalyses(ctx, batch)
		if err == nil {
			metrics.ResultsStored.WithLabelValues(backend, "ok").Add(float64(len(batch)))
			return
		}
		slog.Error("[ReviewConsumer] Failed to write results to store",
			slog.String("backend", backend),
			slog.Int("attempt", i+1),
			slog.String("error", err.Error()))
		if !sleep(ctx, c.retry) {
			break
		}
	}
	metrics.ResultsStored.WithLabelValues(backend, "error").Add(float64(len(batch)))
}

func sleep(ctx context.Context, d time.Duration) bool {
	select {
	case <-ctx.Done():
		return false
	case <-time.After(d):
		return true
	}
}
