package db

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/spacesedan/reviewlens/internal/models"
)

const (
	REVIEW_ANALYSIS_TABLE_NAME = "ReviewAnalyses"
	DYNAMODB_BATCH_SIZE        = 25
	DYNAMODB_RESULT_TTL        = 30 * 24 * time.Hour
	DYNAMODB_MAX_RETRIES       = 3
)

// BatchWriter is the slice of the DynamoDB client the store needs.
type BatchWriter interface {
	BatchWriteItem(ctx context.Context, params *dynamodb.BatchWriteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.BatchWriteItemOutput, error)
}

type DynamoStore struct {
	client  BatchWriter
	table   string
	backoff time.Duration
	now     func() time.Time
}

func NewDynamoStore(client BatchWriter) *DynamoStore {
	return &DynamoStore{
		client:  client,
		table:   REVIEW_ANALYSIS_TABLE_NAME,
		backoff: 500 * time.Millisecond,
		now:     time.Now,
	}
}

func (s *DynamoStore) Name() string { return "dynamodb" }

// StoreAnalyses writes in chunks of 25 and retries unprocessed items with
// exponential backoff.
func (s *DynamoStore) StoreAnalyses(ctx context.Context, analyses []models.ReviewAnalysis) error {
	rows := completed(analyses)
	now := s.now()

	for i := 0; i < len(rows); i += DYNAMODB_BATCH_SIZE {
		if err := ctx.Err(); err != nil {
			slog.Warn("[DynamoDB] context canceled")
			return err
		}

		end := min(i+DYNAMODB_BATCH_SIZE, len(rows))
		writeRequests := make([]types.WriteRequest, 0, end-i)
		for _, a := range rows[i:end] {
			item, err := AnalysisToDynamoDBItem(a, now)
			if err != nil {
				return err
			}
			writeRequests = append(writeRequests, types.WriteRequest{
				PutRequest: &types.PutRequest{Item: item},
			})
		}

		if err := s.writeChunk(ctx, writeRequests); err != nil {
			return err
		}
	}

	if len(rows) > 0 {
		slog.Info("[DynamoDB] Successfully stored review analyses", slog.Int("count", len(rows)))
	}
	return nil
}

func (s *DynamoStore) writeChunk(ctx context.Context, writeRequests []types.WriteRequest) error {
	out, err := s.client.BatchWriteItem(ctx, &dynamodb.BatchWriteItemInput{
		RequestItems: map[string][]types.WriteRequest{
			s.table: writeRequests,
		},
	})
	if err != nil {
		return fmt.Errorf("failed to batch write review analyses: %w", err)
	}

	backoff := s.backoff
	for retry := 0; len(out.UnprocessedItems) > 0 && retry < DYNAMODB_MAX_RETRIES; retry++ {
		slog.Warn("[DynamoDB] Retrying unprocessed items...",
			slog.Int("attempt", retry+1),
			slog.Int("remaining", len(out.UnprocessedItems[s.table])))

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
		backoff *= 2

		out, err = s.client.BatchWriteItem(ctx, &dynamodb.BatchWriteItemInput{
			RequestItems: out.UnprocessedItems,
		})
		if err != nil {
			return fmt.Errorf("failed to retry batch write: %w", err)
		}
	}

	if remaining := len(out.UnprocessedItems[s.table]); remaining > 0 {
		slog.Error("[DynamoDB] Some items were not written even after retries",
			slog.Int("remaining", remaining))
		return fmt.Errorf("%d review analyses left unprocessed", remaining)
	}
	return nil
}

// AnalysisToDynamoDBItem flattens the whole-text verdict into top-level
// attributes and stores the aspect records as a list of maps.
func AnalysisToDynamoDBItem(a models.ReviewAnalysis, now time.Time) (map[string]types.AttributeValue, error) {
	if a.Sentiment == nil {
		return nil, fmt.Errorf("review %s has no sentiment verdict", a.ReviewID)
	}
	v := a.Sentiment

	aspects, err := attributevalue.MarshalList(a.Aspects)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal aspects for review %s: %w", a.ReviewID, err)
	}

	item := map[string]types.AttributeValue{
		"review_id":       &types.AttributeValueMemberS{Value: a.ReviewID},
		"text":            &types.AttributeValueMemberS{Value: a.Text},
		"sentiment_score": numberAttr(v.Score),
		"sentiment_label": &types.AttributeValueMemberS{Value: string(v.Label)},
		"confidence":      numberAttr(v.Confidence),
		"aspects":         &types.AttributeValueMemberL{Value: aspects},
		"analyzed_at":     &types.AttributeValueMemberN{Value: strconv.FormatInt(a.AnalyzedAt.Unix(), 10)},
		"ttl":             &types.AttributeValueMemberN{Value: strconv.FormatInt(now.Add(DYNAMODB_RESULT_TTL).Unix(), 10)},
	}

	if v.Source != "" {
		item["verdict_source"] = &types.AttributeValueMemberS{Value: string(v.Source)}
	}
	if v.Rule != "" {
		item["rule"] = &types.AttributeValueMemberS{Value: v.Rule}
	}
	if a.Source != "" {
		item["source"] = &types.AttributeValueMemberS{Value: a.Source}
	}
	if a.Rating != nil {
		item["rating"] = numberAttr(*a.Rating)
	}
	if a.Summary != "" {
		item["summary"] = &types.AttributeValueMemberS{Value: a.Summary}
	}

	return item, nil
}

func numberAttr(v float64) *types.AttributeValueMemberN {
	return &types.AttributeValueMemberN{Value: strconv.FormatFloat(v, 'f', -1, 64)}
}
