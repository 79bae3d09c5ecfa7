// Package rules decides a sentiment verdict from lexical evidence alone:
// context phrases, regex rules and finally keyword counts.
package rules

import (
	"strings"

	"github.com/spacesedan/reviewlens/internal/lexicon"
	"github.com/spacesedan/reviewlens/internal/metrics"
	"github.com/spacesedan/reviewlens/internal/models"
	"github.com/spacesedan/reviewlens/internal/patterns"
)

const (
	KEYWORD_MARGIN         = 2
	KEYWORD_POSITIVE_SCORE = 0.6
	KEYWORD_NEGATIVE_SCORE = -0.6

	keywordPositiveRule = "keyword_positive"
	keywordNegativeRule = "keyword_negative"
)

type Evaluator struct {
	lexicon *lexicon.Lexicon
	bank    *patterns.Bank
}

func NewEvaluator(lex *lexicon.Lexicon, bank *patterns.Bank) *Evaluator {
	return &Evaluator{
		lexicon: lex,
		bank:    bank,
	}
}

// Evaluate returns a verdict with Score, Label, Source and Rule set, or false
// when no rule fires. Confidence and probabilities are left to the caller.
func (e *Evaluator) Evaluate(text string) (models.SentimentVerdict, bool) {
	if strings.TrimSpace(text) == "" {
		return models.SentimentVerdict{}, false
	}
	lower := strings.ToLower(text)

	if r, ok := e.bank.MatchPhrase(lower); ok {
		return fired(r.Score, r.Label, models.SourcePhrase, r.Name), true
	}

	if r, ok := e.bank.MatchPattern(lower); ok {
		return fired(r.Score, r.Label, models.SourcePattern, r.Name), true
	}

	pos, neg := e.lexicon.CountPolarity(lower)
	switch {
	case pos > neg+KEYWORD_MARGIN:
		return fired(KEYWORD_POSITIVE_SCORE, models.LabelPositive, models.SourceKeyword, keywordPositiveRule), true
	case neg > pos+KEYWORD_MARGIN:
		return fired(KEYWORD_NEGATIVE_SCORE, models.LabelNegative, models.SourceKeyword, keywordNegativeRule), true
	}

	return models.SentimentVerdict{}, false
}

// CountKeywords counts lexicon polarity words in text, case-insensitively.
func (e *Evaluator) CountKeywords(text string) (positive, negative int) {
	return e.lexicon.CountPolarity(strings.ToLower(text))
}

func fired(score float64, label models.Label, source models.VerdictSource, rule string) models.SentimentVerdict {
	metrics.RuleVerdicts.WithLabelValues(rule).Inc()
	return models.SentimentVerdict{
		Score:  score,
		Label:  label,
		Source: source,
		Rule:   rule,
	}
}
