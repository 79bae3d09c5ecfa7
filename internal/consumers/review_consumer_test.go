package consumers

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/confluentinc/confluent-kafka-go/kafka"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spacesedan/reviewlens/internal/db"
	"github.com/spacesedan/reviewlens/internal/models"
)

type fakeSource struct {
	mu   sync.Mutex
	msgs []*kafka.Message
}

func (f *fakeSource) push(value string, offset int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.msgs = append(f.msgs, &kafka.Message{
		Value:          []byte(value),
		TopicPartition: kafka.TopicPartition{Offset: kafka.Offset(offset)},
	})
}

func (f *fakeSource) Next() (*kafka.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.msgs) == 0 {
		time.Sleep(time.Millisecond)
		return nil, nil
	}
	msg := f.msgs[0]
	f.msgs = f.msgs[1:]
	return msg, nil
}

type fakeCommitter struct {
	mu      sync.Mutex
	offsets []int64
}

func (f *fakeCommitter) Commit(msg *kafka.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.offsets = append(f.offsets, int64(msg.TopicPartition.Offset))
	return nil
}

func (f *fakeCommitter) committed() []int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]int64(nil), f.offsets...)
}

type fakeAnalyzer struct{}

func (fakeAnalyzer) AnalyzeBatch(_ context.Context, inputs []models.ReviewInput) []models.ReviewAnalysis {
	out := make([]models.ReviewAnalysis, len(inputs))
	for i, in := range inputs {
		out[i] = models.ReviewAnalysis{
			ReviewInput: in,
			Sentiment:   &models.SentimentVerdict{Label: models.LabelNeutral},
			OK:          true,
		}
	}
	return out
}

type fakePublisher struct {
	mu      sync.Mutex
	batches [][]models.ReviewAnalysis
	fail    bool
}

func (f *fakePublisher) Publish(_ context.Context, topic, key string, value any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return errors.New("broker down")
	}
	f.batches = append(f.batches, value.([]models.ReviewAnalysis))
	return nil
}

func (f *fakePublisher) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.batches)
}

type fakeStore struct {
	mu     sync.Mutex
	stored int
}

func (f *fakeStore) Name() string { return "fake" }

func (f *fakeStore) StoreAnalyses(_ context.Context, analyses []models.ReviewAnalysis) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stored += len(analyses)
	return nil
}

func newTestConsumer(pub Publisher, store db.ResultStore, batchSize int) *ReviewConsumer {
	c := NewReviewConsumer(fakeAnalyzer{}, pub, store, batchSize)
	c.timeout = time.Hour
	c.retry = time.Millisecond
	c.pause = time.Millisecond
	return c
}

func TestReviewConsumer_FlushesFullBatch(t *testing.T) {
	src := &fakeSource{}
	src.push(`{"review_id":"r1","text":"Great phone."}`, 1)
	src.push(`[{"review_id":"r2","text":"Bad camera."}]`, 2)

	pub := &fakePublisher{}
	store := &fakeStore{}
	committer := &fakeCommitter{}
	c := newTestConsumer(pub, store, 2)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		c.consume(ctx, src, committer)
		close(done)
	}()

	assert.Eventually(t, func() bool { return len(committer.committed()) == 2 }, time.Second, time.Millisecond)
	cancel()
	<-done

	require.Equal(t, 1, pub.count())
	assert.Len(t, pub.batches[0], 2)
	assert.Equal(t, 2, store.stored)
	assert.Equal(t, []int64{1, 2}, committer.committed())
}

func TestReviewConsumer_FlushesOnShutdown(t *testing.T) {
	src := &fakeSource{}
	src.push(`{"review_id":"r1","text":"Okay."}`, 7)

	pub := &fakePublisher{}
	committer := &fakeCommitter{}
	c := newTestConsumer(pub, nil, 10)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		c.consume(ctx, src, committer)
		close(done)
	}()

	assert.Eventually(t, func() bool { return c.buffer.Size() == 1 }, time.Second, time.Millisecond)
	cancel()
	<-done

	assert.Equal(t, 1, pub.count())
	assert.Equal(t, []int64{7}, committer.committed())
}

func TestReviewConsumer_DropsUndecodableMessage(t *testing.T) {
	c := newTestConsumer(nil, nil, 10)
	committer := &fakeCommitter{}

	full := c.handle(context.Background(), &kafka.Message{
		Value:          []byte(`not json`),
		TopicPartition: kafka.TopicPartition{Offset: 3},
	}, committer)

	assert.False(t, full)
	assert.Equal(t, 0, c.buffer.Size())
	assert.Equal(t, []int64{3}, committer.committed())
}

func TestReviewConsumer_PublishFailureSkipsCommit(t *testing.T) {
	pub := &fakePublisher{fail: true}
	c := newTestConsumer(pub, nil, 10)
	committer := &fakeCommitter{}

	c.handle(context.Background(), &kafka.Message{Value: []byte(`{"review_id":"r1","text":"x"}`)}, committer)
	c.flush(context.Background(), committer)

	assert.Empty(t, committer.committed())
}

func TestReviewConsumer_CommitsMessagesSharingReviewIDs(t *testing.T) {
	pub := &fakePublisher{}
	c := newTestConsumer(pub, nil, 10)
	committer := &fakeCommitter{}

	values := []string{
		`{"review_id":"dup","text":"Fine."}`,
		`{"review_id":"dup","text":"Also fine."}`,
		`{"text":"No id here."}`,
		`{"text":"Nor here."}`,
	}
	for i, v := range values {
		c.handle(context.Background(), &kafka.Message{
			Value:          []byte(v),
			TopicPartition: kafka.TopicPartition{Offset: kafka.Offset(4 + i)},
		}, committer)
	}
	c.flush(context.Background(), committer)

	require.Equal(t, 1, pub.count())
	assert.Equal(t, []int64{4, 5, 6, 7}, committer.committed())
}

func TestReviewConsumer_FailedBatchOffsetsNotCommittedLater(t *testing.T) {
	pub := &fakePublisher{fail: true}
	c := newTestConsumer(pub, nil, 10)
	committer := &fakeCommitter{}

	c.handle(context.Background(), &kafka.Message{
		Value:          []byte(`{"review_id":"r1","text":"x"}`),
		TopicPartition: kafka.TopicPartition{Offset: 1},
	}, committer)
	c.flush(context.Background(), committer)

	pub.mu.Lock()
	pub.fail = false
	pub.mu.Unlock()

	c.handle(context.Background(), &kafka.Message{
		Value:          []byte(`{"review_id":"r2","text":"y"}`),
		TopicPartition: kafka.TopicPartition{Offset: 2},
	}, committer)
	c.flush(context.Background(), committer)

	assert.Equal(t, []int64{2}, committer.committed())
}

func TestReviewConsumer_PausesWhileUnhealthy(t *testing.T) {
	src := &fakeSource{}
	src.push(`{"review_id":"r1","text":"Fine."}`, 1)

	var healthy atomic.Bool
	c := newTestConsumer(nil, nil, 1)
	committer := &fakeCommitter{}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		c.consume(ctx, src, committer, &healthy)
		close(done)
	}()

	time.Sleep(20 * time.Millisecond)
	assert.Empty(t, committer.committed())

	healthy.Store(true)
	assert.Eventually(t, func() bool { return len(committer.committed()) == 1 }, time.Second, time.Millisecond)
	cancel()
	<-done
}

func TestConsumerWrapper_AppendsHealth(t *testing.T) {
	var a, b atomic.Bool
	a.Store(true)

	var got []*atomic.Bool
	w := WrapConsumer(func(_ context.Context, _ *kafka.Consumer, health ...*atomic.Bool) {
		got = health
	}, &a).WithHealthCheck(&b)

	w.Handler()(context.Background(), nil)
	require.Len(t, got, 2)
	assert.False(t, allHealthy(got))

	b.Store(true)
	assert.True(t, allHealthy(got))
}
