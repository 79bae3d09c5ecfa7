package trends

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spacesedan/reviewlens/internal/models"
)

func analysis(score float64, aspects ...models.AspectRecord) models.ReviewAnalysis {
	return models.ReviewAnalysis{
		OK:        true,
		Sentiment: &models.SentimentVerdict{Score: score, Label: models.LabelForScore(score)},
		Aspects:   aspects,
	}
}

func aspect(name string, score float64) models.AspectRecord {
	return models.AspectRecord{
		Aspect:           name,
		SentimentVerdict: models.SentimentVerdict{Score: score, Label: models.LabelForScore(score)},
	}
}

func sample() []models.ReviewAnalysis {
	return []models.ReviewAnalysis{
		analysis(0.8, aspect("battery life", 0.9), aspect("camera quality", -0.7)),
		analysis(-0.6, aspect("camera quality", -0.8), aspect("overheating", -0.8)),
		analysis(0.1, aspect("battery life", 0.5), aspect("camera quality", 0.2)),
		{ReviewInput: models.ReviewInput{ReviewID: "failed"}, Error: "scorer unavailable"},
	}
}

func TestTopAspects_SortedByCountThenName(t *testing.T) {
	top := TopAspects(sample(), 0)
	require.Len(t, top, 3)

	assert.Equal(t, "camera quality", top[0].Aspect)
	assert.Equal(t, 3, top[0].Count)
	assert.InDelta(t, -0.433333, top[0].AvgSentiment, 1e-5)
	assert.Equal(t, models.LabelNegative, top[0].Label)

	assert.Equal(t, "battery life", top[1].Aspect)
	assert.Equal(t, 2, top[1].Count)
	assert.InDelta(t, 0.7, top[1].AvgSentiment, 1e-9)
	assert.Equal(t, models.LabelPositive, top[1].Label)

	assert.Equal(t, "overheating", top[2].Aspect)
}

func TestTopAspects_Limit(t *testing.T) {
	top := TopAspects(sample(), 2)
	require.Len(t, top, 2)
	assert.Equal(t, "battery life", top[1].Aspect)

	assert.Empty(t, TopAspects(nil, 5))
}

func TestDistribution_SkipsFailures(t *testing.T) {
	dist, avg, n := Distribution(sample())

	assert.Equal(t, 3, n)
	assert.Equal(t, 1, dist[models.LabelPositive])
	assert.Equal(t, 1, dist[models.LabelNeutral])
	assert.Equal(t, 1, dist[models.LabelNegative])
	assert.InDelta(t, 0.1, avg, 1e-9)
}

func TestBuildTrend(t *testing.T) {
	day := time.Date(2026, 3, 14, 18, 30, 0, 0, time.UTC)

	trend := BuildTrend(day, sample(), DEFAULT_TOP_ASPECTS)
	assert.Equal(t, "2026-03-14", trend.Date)
	assert.Equal(t, 3, trend.TotalReviews)
	assert.Len(t, trend.TopAspects, 3)

	empty := BuildTrend(day, nil, DEFAULT_TOP_ASPECTS)
	assert.Zero(t, empty.TotalReviews)
	assert.Zero(t, empty.AvgSentiment)
	assert.Equal(t, 0, empty.Distribution[models.LabelPositive])
}
