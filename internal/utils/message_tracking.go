package utils

import (
	"fmt"
	"sync"

	"github.com/confluentinc/confluent-kafka-go/kafka"
)

// MessageTracker remembers source messages until they are taken, so offsets
// are committed only after the work they carry has been flushed. Messages
// come back in the order they were first tracked.
type MessageTracker[M any] struct {
	mu       sync.Mutex
	order    []string
	messages map[string]M
}

func NewMessageTracker[M any]() *MessageTracker[M] {
	return &MessageTracker[M]{messages: make(map[string]M)}
}

// Track stores msg under key; tracking a key again replaces its message but
// keeps its position.
func (t *MessageTracker[M]) Track(key string, msg M) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, exists := t.messages[key]; !exists {
		t.order = append(t.order, key)
	}
	t.messages[key] = msg
}

// Take returns and forgets the message tracked under key.
func (t *MessageTracker[M]) Take(key string) (M, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	msg, ok := t.messages[key]
	if ok {
		delete(t.messages, key)
	}
	return msg, ok
}

// TakeAll returns every tracked message in tracking order and resets the
// tracker.
func (t *MessageTracker[M]) TakeAll() []M {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]M, 0, len(t.messages))
	for _, key := range t.order {
		if msg, ok := t.messages[key]; ok {
			out = append(out, msg)
		}
	}
	t.order = nil
	t.messages = make(map[string]M)
	return out
}

func (t *MessageTracker[M]) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.messages)
}

// MessageKey identifies a message by its log position.
func MessageKey(msg *kafka.Message) string {
	topic := ""
	if msg.TopicPartition.Topic != nil {
		topic = *msg.TopicPartition.Topic
	}
	return fmt.Sprintf("%s/%d/%d", topic, msg.TopicPartition.Partition, msg.TopicPartition.Offset)
}
