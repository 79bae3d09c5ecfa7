// Package sentiment turns a text into a single normalized verdict, letting
// the rule layer override the statistical scorer.
package sentiment

import (
	"context"

	"github.com/spacesedan/reviewlens/internal/apperrors"
	"github.com/spacesedan/reviewlens/internal/models"
	"github.com/spacesedan/reviewlens/internal/rules"
)

const (
	RULE_CONFIDENCE = 0.9
	NUDGE_STEP      = 0.1
)

// Resolver is immutable and safe for concurrent use when its scorer is.
type Resolver struct {
	scorer       Scorer
	evaluator    *rules.Evaluator
	rulesEnabled bool
}

// NewResolver builds a resolver. With rulesEnabled false, or without an
// evaluator, verdicts come from the scorer alone.
func NewResolver(scorer Scorer, evaluator *rules.Evaluator, rulesEnabled bool) *Resolver {
	return &Resolver{
		scorer:       scorer,
		evaluator:    evaluator,
		rulesEnabled: rulesEnabled && evaluator != nil,
	}
}

func (r *Resolver) Resolve(ctx context.Context, text string) (models.SentimentVerdict, error) {
	if r.rulesEnabled {
		if v, ok := r.evaluator.Evaluate(text); ok {
			v.Confidence = RULE_CONFIDENCE
			v.RawProbabilities = models.ProbabilitiesForScore(v.Score)
			return v, nil
		}
	}

	base, err := r.scorer.Score(ctx, text)
	if err != nil {
		return models.SentimentVerdict{}, apperrors.ScorerUnavailable("sentiment.Resolve", err)
	}

	score := clamp(base.Value)
	if r.rulesEnabled {
		score = nudge(score, r.evaluator, text)
	}

	return models.SentimentVerdict{
		Score:            score,
		Label:            models.LabelForScore(score),
		Confidence:       base.Confidence,
		RawProbabilities: base.RawProbabilities,
		Source:           models.SourceScorer,
	}, nil
}

// nudge shifts the score by NUDGE_STEP per keyword of surplus polarity,
// staying inside [-1, 1].
func nudge(score float64, evaluator *rules.Evaluator, text string) float64 {
	pos, neg := evaluator.CountKeywords(text)
	switch {
	case pos > neg:
		return min(1.0, score+NUDGE_STEP*float64(pos-neg))
	case neg > pos:
		return max(-1.0, score-NUDGE_STEP*float64(neg-pos))
	}
	return score
}

func (r *Resolver) RulesEnabled() bool {
	return r.rulesEnabled
}
