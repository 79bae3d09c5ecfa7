package rules

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spacesedan/reviewlens/internal/lexicon"
	"github.com/spacesedan/reviewlens/internal/metrics"
	"github.com/spacesedan/reviewlens/internal/models"
	"github.com/spacesedan/reviewlens/internal/patterns"
)

func newDefaultEvaluator(t *testing.T) *Evaluator {
	t.Helper()
	lex, err := lexicon.Default()
	require.NoError(t, err)
	bank, err := patterns.Default()
	require.NoError(t, err)
	return NewEvaluator(lex, bank)
}

func TestEvaluate_EmptyInput(t *testing.T) {
	e := newDefaultEvaluator(t)

	for _, text := range []string{"", "   ", "\n\t"} {
		_, ok := e.Evaluate(text)
		assert.False(t, ok, "%q", text)
	}
}

func TestEvaluate_PhraseBeatsPattern(t *testing.T) {
	e := newDefaultEvaluator(t)

	v, ok := e.Evaluate("The battery life is incredible, lasting all day without needing a charge.")
	require.True(t, ok)
	assert.Equal(t, 0.8, v.Score)
	assert.Equal(t, models.LabelPositive, v.Label)
	assert.Equal(t, models.SourcePhrase, v.Source)
	assert.Equal(t, "all day", v.Rule)
}

func TestEvaluate_CameraStruggle(t *testing.T) {
	e := newDefaultEvaluator(t)

	v, ok := e.Evaluate("The camera struggles in low light conditions.")
	require.True(t, ok)
	assert.Equal(t, -0.7, v.Score)
	assert.Equal(t, models.LabelNegative, v.Label)
	assert.Equal(t, models.SourcePattern, v.Source)
	assert.Equal(t, "camera_struggle", v.Rule)
}

func TestEvaluate_NegativePhrase(t *testing.T) {
	e := newDefaultEvaluator(t)

	v, ok := e.Evaluate("Honestly NOT WORTH the price.")
	require.True(t, ok)
	assert.Equal(t, -0.8, v.Score)
	assert.Equal(t, models.LabelNegative, v.Label)
}

func TestEvaluate_KeywordFallback(t *testing.T) {
	e := newDefaultEvaluator(t)

	v, ok := e.Evaluate("Great screen, excellent speakers, beautiful colors, awesome value.")
	require.True(t, ok)
	assert.Equal(t, 0.6, v.Score)
	assert.Equal(t, models.LabelPositive, v.Label)
	assert.Equal(t, models.SourceKeyword, v.Source)

	v, ok = e.Evaluate("Terrible, awful, useless and broken.")
	require.True(t, ok)
	assert.Equal(t, -0.6, v.Score)
	assert.Equal(t, models.LabelNegative, v.Label)
}

func TestEvaluate_KeywordMarginNotReached(t *testing.T) {
	e := newDefaultEvaluator(t)

	_, ok := e.Evaluate("Good phone, great price, bad case.")
	assert.False(t, ok)

	_, ok = e.Evaluate("It is an average product.")
	assert.False(t, ok)
}

func TestEvaluate_VerdictsAreConsistent(t *testing.T) {
	e := newDefaultEvaluator(t)

	texts := []string{
		"The battery is amazing",
		"Overheats during gaming",
		"Charging takes longer than my old phone",
		"The build quality feels premium",
		"I was disappointed with the camera",
		"Terrible, awful, useless and broken.",
	}
	for _, text := range texts {
		v, ok := e.Evaluate(text)
		require.True(t, ok, text)
		assert.True(t, v.Consistent(), text)
	}
}

func TestCountKeywords_CaseInsensitive(t *testing.T) {
	e := newDefaultEvaluator(t)

	pos, neg := e.CountKeywords("GREAT screen but SLOW")
	assert.Equal(t, 1, pos)
	assert.Equal(t, 1, neg)
}

func TestEvaluate_CountsFiringsByRule(t *testing.T) {
	e := newDefaultEvaluator(t)

	cases := map[string]string{
		"all day":          "The battery life is incredible, lasting all day without needing a charge.",
		"camera_struggle":  "The camera struggles in low light conditions.",
		"keyword_positive": "Great screen, excellent speakers, beautiful colors, awesome value.",
		"keyword_negative": "Terrible, awful, useless and broken.",
	}
	for rule, text := range cases {
		before := testutil.ToFloat64(metrics.RuleVerdicts.WithLabelValues(rule))

		v, ok := e.Evaluate(text)
		require.True(t, ok, text)
		assert.Equal(t, rule, v.Rule)
		assert.Equal(t, before+1, testutil.ToFloat64(metrics.RuleVerdicts.WithLabelValues(rule)), rule)
	}
}

func TestEvaluate_NoVerdictCountsNothing(t *testing.T) {
	e := newDefaultEvaluator(t)

	before := testutil.CollectAndCount(metrics.RuleVerdicts)
	_, ok := e.Evaluate("It is an average product.")
	assert.False(t, ok)
	assert.Equal(t, before, testutil.CollectAndCount(metrics.RuleVerdicts))
}

// Every regex rule must be reachable past the literal phrase lists.
func TestEvaluate_EveryPatternReachable(t *testing.T) {
	e := newDefaultEvaluator(t)

	cases := map[string]string{
		"battery_praise":         "The battery is amazing",
		"camera_struggle":        "The camera struggles in low light conditions.",
		"overheat_temporal":      "Overheats during gaming",
		"performance_responsive": "Performance is snappy",
		"charging_delay":         "Charging takes longer than my old phone",
		"audio_praise":           "The sound is crisp",
		"disappointed_camera":    "I was disappointed with the camera",
		"build_premium":          "The build quality feels solid",
	}
	for rule, text := range cases {
		v, ok := e.Evaluate(text)
		require.True(t, ok, text)
		assert.Equal(t, models.SourcePattern, v.Source, text)
		assert.Equal(t, rule, v.Rule, text)
	}
}
