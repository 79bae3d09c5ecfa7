package bootstrap

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spacesedan/reviewlens/config"
	"github.com/spacesedan/reviewlens/internal/apperrors"
	"github.com/spacesedan/reviewlens/internal/models"
)

func localConfig() config.Config {
	return config.Config{
		RulesEnabled:      true,
		AspectStrategy:    config.ASPECT_SMARTPHONE,
		ScorerBackend:     config.SCORER_VADER,
		SummarizerBackend: config.SUMMARIZER_NONE,
		StoreBackend:      config.STORE_NONE,
		AnalysisWorkers:   2,
	}
}

func TestBuild_LocalPipeline(t *testing.T) {
	app, err := Build(context.Background(), localConfig())
	require.NoError(t, err)
	defer app.Close()

	assert.Nil(t, app.Store)
	assert.Nil(t, app.ScorerHealth)
	assert.Empty(t, app.HealthChecks)
	assert.Equal(t, "smartphone", app.Extractor.Strategy())

	analysis, err := app.Service.Analyze(context.Background(), models.ReviewInput{
		ReviewID: "r1",
		Text:     "The battery life is incredible lasting all day. The camera struggles in low light though.",
	})
	require.NoError(t, err)
	require.True(t, analysis.OK)

	byAspect := map[string]models.AspectRecord{}
	for _, rec := range analysis.Aspects {
		byAspect[rec.Aspect] = rec
	}
	assert.Len(t, analysis.Aspects, 2)
	assert.Equal(t, 0.9, byAspect["battery life"].Score)
	assert.Equal(t, -0.7, byAspect["camera quality"].Score)
}

func TestBuild_NounPhraseStrategy(t *testing.T) {
	cfg := localConfig()
	cfg.AspectStrategy = config.ASPECT_NOUN_PHRASE

	app, err := Build(context.Background(), cfg)
	require.NoError(t, err)
	defer app.Close()
	assert.Equal(t, "noun_phrase", app.Extractor.Strategy())
}

func TestBuild_HuggingFaceRegistersHealthChecks(t *testing.T) {
	cfg := localConfig()
	cfg.ScorerBackend = config.SCORER_HUGGINGFACE
	cfg.HFSentimentEndpoint = "http://127.0.0.1:1/analyze_batch"
	cfg.SummarizerBackend = config.SUMMARIZER_HUGGINGFACE
	cfg.HFSummaryEndpoint = "http://127.0.0.1:1/summarize"

	app, err := Build(context.Background(), cfg)
	require.NoError(t, err)
	defer app.Close()

	assert.NotNil(t, app.ScorerHealth)
	assert.Contains(t, app.HealthChecks, "sentiment-service")
	assert.Contains(t, app.HealthChecks, "summarizer")
}

func TestBuildRules_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lexicon.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
positive_words: [crisp, snappy]
negative_words: [laggy]
aspects:
  - name: display
    terms: [screen, display]
context_phrases:
  negative: [not worth it]
`), 0o600))

	lex, bank, err := BuildRules(path)
	require.NoError(t, err)
	pos, neg := lex.CountPolarity("snappy but laggy")
	assert.Equal(t, 1, pos)
	assert.Equal(t, 1, neg)
	assert.Equal(t, []string{"display"}, lex.Aspects().Categories())

	rule, ok := bank.MatchPhrase("honestly not worth it")
	require.True(t, ok)
	assert.Equal(t, models.LabelNegative, rule.Label)
}

func TestBuildRules_BadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lexicon.yaml")
	require.NoError(t, os.WriteFile(path, []byte("aspects: [unclosed"), 0o600))

	_, _, err := BuildRules(path)
	assert.True(t, apperrors.IsConfiguration(err))
}

func TestBuildRules_ExampleFile(t *testing.T) {
	lex, bank, err := BuildRules(filepath.Join("..", "..", "config", "lexicon.example.yaml"))
	require.NoError(t, err)
	assert.Len(t, lex.Aspects().Categories(), 8)

	_, ok := bank.MatchPhrase("it lasts all day")
	assert.True(t, ok)
}
