package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLabelForScore_Thresholds(t *testing.T) {
	assert.Equal(t, LabelPositive, LabelForScore(0.31))
	assert.Equal(t, LabelNeutral, LabelForScore(0.3))
	assert.Equal(t, LabelNeutral, LabelForScore(0))
	assert.Equal(t, LabelNeutral, LabelForScore(-0.3))
	assert.Equal(t, LabelNegative, LabelForScore(-0.31))
	assert.Equal(t, LabelPositive, LabelForScore(1))
	assert.Equal(t, LabelNegative, LabelForScore(-1))
}

func TestProbabilitiesForScore(t *testing.T) {
	p := ProbabilitiesForScore(0.8)
	assert.InDelta(t, 0.1, p.Negative, 1e-9)
	assert.InDelta(t, 0.9, p.Positive, 1e-9)

	p = ProbabilitiesForScore(-0.7)
	assert.InDelta(t, 0.85, p.Negative, 1e-9)
	assert.InDelta(t, 0.15, p.Positive, 1e-9)
}

func TestAspectRecord_FlattensVerdict(t *testing.T) {
	rec := AspectRecord{
		Aspect: "battery life",
		SentimentVerdict: SentimentVerdict{
			Score:      0.9,
			Label:      LabelPositive,
			Confidence: 0.9,
		},
		RelevantText: "The battery life is incredible lasting all day.",
	}

	data, err := json.Marshal(rec)
	require.NoError(t, err)

	var row map[string]any
	require.NoError(t, json.Unmarshal(data, &row))
	assert.Equal(t, "battery life", row["aspect"])
	assert.Equal(t, 0.9, row["sentiment_score"])
	assert.Equal(t, "positive", row["sentiment_label"])
	assert.Equal(t, 0.9, row["confidence"])
	assert.Equal(t, "The battery life is incredible lasting all day.", row["relevant_text"])
}

func TestSentimentVerdict_Consistent(t *testing.T) {
	assert.True(t, SentimentVerdict{Score: 0.8, Label: LabelPositive}.Consistent())
	assert.True(t, SentimentVerdict{Score: 0.05, Label: LabelNeutral}.Consistent())
	assert.False(t, SentimentVerdict{Score: -0.8, Label: LabelPositive}.Consistent())
}
