// Package patterns holds the ordered context phrases and regex rules that
// force a fixed sentiment verdict when they match.
package patterns

import (
	"regexp"
	"strings"

	"github.com/spacesedan/reviewlens/internal/apperrors"
	"github.com/spacesedan/reviewlens/internal/models"
)

type Polarity string

const (
	Positive Polarity = "positive"
	Negative Polarity = "negative"
)

const (
	PHRASE_POSITIVE_SCORE = 0.8
	PHRASE_NEGATIVE_SCORE = -0.8
)

// Rule forces Score and Label when its matcher hits. Exactly one of Phrase
// and Regexp is set.
type Rule struct {
	Name     string
	Phrase   string
	Regexp   *regexp.Regexp
	Polarity Polarity
	Score    float64
	Label    models.Label
}

// Matches expects lower-cased text.
func (r Rule) Matches(lower string) bool {
	if r.Regexp != nil {
		return r.Regexp.MatchString(lower)
	}
	return r.Phrase != "" && strings.Contains(lower, r.Phrase)
}

// Bank is immutable after construction and safe for concurrent use.
type Bank struct {
	positivePhrases []Rule
	negativePhrases []Rule
	rules           []Rule
}

// NewBank builds the bank from literal phrases and regex rules. Every rule
// must carry a label that agrees with its score under the label thresholds.
func NewBank(positivePhrases, negativePhrases []string, rules []Rule) (*Bank, error) {
	if len(positivePhrases) == 0 || len(negativePhrases) == 0 {
		return nil, apperrors.Configuration("patterns.NewBank", "context phrase lists must not be empty")
	}

	b := &Bank{}
	var err error
	if b.positivePhrases, err = phraseRules(positivePhrases, Positive, PHRASE_POSITIVE_SCORE); err != nil {
		return nil, err
	}
	if b.negativePhrases, err = phraseRules(negativePhrases, Negative, PHRASE_NEGATIVE_SCORE); err != nil {
		return nil, err
	}

	for _, r := range rules {
		if r.Regexp == nil && r.Phrase == "" {
			return nil, apperrors.Configurationf("patterns.NewBank", "rule %q has no matcher", r.Name)
		}
		if err := validateRule(r); err != nil {
			return nil, err
		}
	}
	b.rules = append([]Rule(nil), rules...)

	return b, nil
}

// Default builds the smartphone bank.
func Default() (*Bank, error) {
	return NewBank(DefaultPositivePhrases, DefaultNegativePhrases, DefaultRules())
}

func phraseRules(phrases []string, polarity Polarity, score float64) ([]Rule, error) {
	out := make([]Rule, 0, len(phrases))
	for _, p := range phrases {
		p = strings.ToLower(strings.TrimSpace(p))
		if p == "" {
			return nil, apperrors.Configurationf("patterns.NewBank", "empty %s phrase", polarity)
		}
		out = append(out, Rule{
			Name:     p,
			Phrase:   p,
			Polarity: polarity,
			Score:    score,
			Label:    models.LabelForScore(score),
		})
	}
	return out, nil
}

func validateRule(r Rule) error {
	if r.Score < -1 || r.Score > 1 {
		return apperrors.Configurationf("patterns.NewBank", "rule %q score %.2f out of range", r.Name, r.Score)
	}
	if r.Label != models.LabelForScore(r.Score) {
		return apperrors.Configurationf("patterns.NewBank", "rule %q label %s disagrees with score %.2f", r.Name, r.Label, r.Score)
	}
	switch {
	case r.Polarity == Positive && r.Label != models.LabelPositive,
		r.Polarity == Negative && r.Label != models.LabelNegative:
		return apperrors.Configurationf("patterns.NewBank", "rule %q polarity %s disagrees with label %s", r.Name, r.Polarity, r.Label)
	}
	return nil
}

// MatchPhrase returns the first matching literal phrase, positive group first.
func (b *Bank) MatchPhrase(lower string) (Rule, bool) {
	for _, r := range b.positivePhrases {
		if r.Matches(lower) {
			return r, true
		}
	}
	for _, r := range b.negativePhrases {
		if r.Matches(lower) {
			return r, true
		}
	}
	return Rule{}, false
}

// MatchPattern returns the first regex rule that matches, in priority order.
func (b *Bank) MatchPattern(lower string) (Rule, bool) {
	for _, r := range b.rules {
		if r.Matches(lower) {
			return r, true
		}
	}
	return Rule{}, false
}

func (b *Bank) Rules() []Rule {
	return append([]Rule(nil), b.rules...)
}
