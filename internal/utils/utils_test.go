package utils

import (
	"sync"
	"testing"

	"github.com/confluentinc/confluent-kafka-go/kafka"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBatchBuffer(t *testing.T) {
	b := NewBatchBuffer[int](3)
	assert.False(t, b.HasData())
	assert.Nil(t, b.GetAndClear())

	assert.False(t, b.Add(1))
	assert.False(t, b.Add(2))
	assert.True(t, b.Add(3))
	assert.Equal(t, []int{1, 2, 3}, b.Peek())

	assert.Equal(t, []int{1, 2, 3}, b.GetAndClear())
	assert.Equal(t, 0, b.Size())
}

func TestBatchBuffer_DefaultCapacity(t *testing.T) {
	b := NewBatchBuffer[string](0)
	for i := 0; i < BATCH_SIZE-1; i++ {
		assert.False(t, b.Add("x"))
	}
	assert.True(t, b.Add("x"))
}

func TestBatchBuffer_ConcurrentAdd(t *testing.T) {
	b := NewBatchBuffer[int](1000)
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			b.Add(i)
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 50, b.Size())
}

func TestMessageTracker(t *testing.T) {
	tr := NewMessageTracker[*string]()
	msg := "offset-7"
	tr.Track("r1", &msg)

	got, ok := tr.Take("r1")
	require.True(t, ok)
	assert.Equal(t, "offset-7", *got)

	_, ok = tr.Take("r1")
	assert.False(t, ok)
}

func TestMessageTracker_TakeAllKeepsOrder(t *testing.T) {
	tr := NewMessageTracker[int]()
	tr.Track("c", 3)
	tr.Track("a", 1)
	tr.Track("b", 2)
	tr.Track("c", 30)

	_, _ = tr.Take("a")
	assert.Equal(t, 2, tr.Len())
	assert.Equal(t, []int{30, 2}, tr.TakeAll())
	assert.Empty(t, tr.TakeAll())
	assert.Zero(t, tr.Len())
}

func TestMessageKey(t *testing.T) {
	topic := "review-text"
	a := &kafka.Message{TopicPartition: kafka.TopicPartition{Topic: &topic, Partition: 2, Offset: 10}}
	b := &kafka.Message{TopicPartition: kafka.TopicPartition{Topic: &topic, Partition: 2, Offset: 11}}

	assert.Equal(t, "review-text/2/10", MessageKey(a))
	assert.NotEqual(t, MessageKey(a), MessageKey(b))
	assert.Equal(t, "/0/5", MessageKey(&kafka.Message{TopicPartition: kafka.TopicPartition{Offset: 5}}))
}

type item struct {
	ID string `json:"id"`
}

func TestDeserializeOneOrMany(t *testing.T) {
	many, err := DeserializeOneOrMany[item]([]byte(` [{"id":"a"},{"id":"b"}]`))
	require.NoError(t, err)
	assert.Equal(t, []item{{ID: "a"}, {ID: "b"}}, many)

	one, err := DeserializeOneOrMany[item]([]byte(`{"id":"c"}`))
	require.NoError(t, err)
	assert.Equal(t, []item{{ID: "c"}}, one)

	_, err = DeserializeOneOrMany[item]([]byte(`{"id":`))
	assert.Error(t, err)
}
