package sentiment

import (
	"context"
	"time"

	"github.com/spacesedan/reviewlens/internal/metrics"
	"github.com/spacesedan/reviewlens/internal/models"
)

// MAX_SCORER_INPUT_RUNES bounds what any scorer sees of a single text.
const MAX_SCORER_INPUT_RUNES = 2000

// Scorer is the statistical classifier the rule layer falls back to.
// Implementations must be safe for concurrent use; ones that are not
// serialize internally.
type Scorer interface {
	Score(ctx context.Context, text string) (models.Score, error)
}

type ScorerFunc func(ctx context.Context, text string) (models.Score, error)

func (f ScorerFunc) Score(ctx context.Context, text string) (models.Score, error) {
	return f(ctx, text)
}

// Truncate cuts text to at most MAX_SCORER_INPUT_RUNES runes.
func Truncate(text string) string {
	runes := []rune(text)
	if len(runes) <= MAX_SCORER_INPUT_RUNES {
		return text
	}
	return string(runes[:MAX_SCORER_INPUT_RUNES])
}

type instrumentedScorer struct {
	backend string
	next    Scorer
}

// Instrument records call counts and latency for the wrapped scorer.
func Instrument(backend string, next Scorer) Scorer {
	return &instrumentedScorer{backend: backend, next: next}
}

func (s *instrumentedScorer) Score(ctx context.Context, text string) (models.Score, error) {
	start := time.Now()
	score, err := s.next.Score(ctx, text)
	metrics.ScorerDuration.WithLabelValues(s.backend).Observe(time.Since(start).Seconds())

	status := "ok"
	if err != nil {
		status = "error"
	}
	metrics.ScorerRequests.WithLabelValues(s.backend, status).Inc()
	return score, err
}

func scoreFromProbabilities(raw models.RawProbabilities) models.Score {
	return models.Score{
		Value:            clamp(raw.Positive - raw.Negative),
		Confidence:       max(raw.Positive, raw.Negative),
		RawProbabilities: raw,
	}
}

func clamp(v float64) float64 {
	return max(-1.0, min(1.0, v))
}
