package kafka_client

import (
	"context"
	"testing"

	"github.com/confluentinc/confluent-kafka-go/kafka"
	"github.com/stretchr/testify/assert"
)

func TestGetKafkaConfig(t *testing.T) {
	cfg := GetKafkaConfig("broker:9092", "group")
	assert.Equal(t, KAFKA_TOPIC_REVIEW_TEXT, cfg.Topic)
	assert.Equal(t, "broker:9092", cfg.Broker)

	other := cfg.WithTopic(KAFKA_TOPIC_REVIEW_ANALYSIS)
	assert.Equal(t, KAFKA_TOPIC_REVIEW_ANALYSIS, other.Topic)
	assert.Equal(t, KAFKA_TOPIC_REVIEW_TEXT, cfg.Topic)
}

func TestRegistry_StartUnknownTopic(t *testing.T) {
	r := NewRegistry()
	r.Register(KAFKA_TOPIC_REVIEW_TEXT, func(context.Context, *kafka.Consumer) {})

	_, ok := r.Lookup(KAFKA_TOPIC_REVIEW_TEXT)
	assert.True(t, ok)

	err := r.Start(context.Background(), GetKafkaConfig("localhost:1", "g").WithTopic("nope"))
	assert.ErrorContains(t, err, "no consumer found")
}

func TestIteratorAndCommitterRequireConsumer(t *testing.T) {
	_, err := NewKafkaMessageIterator(context.Background(), nil).Next()
	assert.Error(t, err)

	assert.Error(t, NewCommitHandler(context.Background(), nil).Commit(&kafka.Message{}))
}
