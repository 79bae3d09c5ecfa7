package kafka_client

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/confluentinc/confluent-kafka-go/kafka"
)

type ConsumerFunc func(context.Context, *kafka.Consumer)

// Registry maps a topic to the handler that drains it.
type Registry struct {
	handlers map[string]ConsumerFunc
}

func NewRegistry() *Registry {
	return &Registry{handlers: make(map[string]ConsumerFunc)}
}

func (r *Registry) Register(topic string, fn ConsumerFunc) {
	r.handlers[topic] = fn
}

func (r *Registry) Lookup(topic string) (ConsumerFunc, bool) {
	fn, ok := r.handlers[topic]
	return fn, ok
}

// Start subscribes to cfg.Topic and runs its handler until ctx ends.
func (r *Registry) Start(ctx context.Context, cfg KafkaConfig) error {
	consumerFunc, exists := r.Lookup(cfg.Topic)
	if !exists {
		return fmt.Errorf("no consumer found for topic: %s", cfg.Topic)
	}

	consumer, err := NewConsumer(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize Kafka consumer: %w", err)
	}
	defer consumer.Close()

	slog.Info("[ConsumerFactory] Starting consumer for topic...", slog.String("topic", cfg.Topic))
	consumerFunc(ctx, consumer)

	return nil
}
