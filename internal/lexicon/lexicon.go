// Package lexicon holds the polarity word lists and the aspect trigger table
// the rule layer reads. A Lexicon is immutable once built.
package lexicon

import (
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/spacesedan/reviewlens/internal/apperrors"
)

type Lexicon struct {
	positive mapset.Set[string]
	negative mapset.Set[string]
	aspects  *AspectTable
}

func New(positive, negative []string, categories []AspectCategory) (*Lexicon, error) {
	pos := normalizeWords(positive)
	if pos.Cardinality() == 0 {
		return nil, apperrors.Configuration("lexicon.New", "positive word list is empty")
	}
	neg := normalizeWords(negative)
	if neg.Cardinality() == 0 {
		return nil, apperrors.Configuration("lexicon.New", "negative word list is empty")
	}

	aspects, err := NewAspectTable(categories)
	if err != nil {
		return nil, err
	}

	return &Lexicon{
		positive: pos,
		negative: neg,
		aspects:  aspects,
	}, nil
}

// Default builds the smartphone lexicon.
func Default() (*Lexicon, error) {
	return New(DefaultPositiveWords, DefaultNegativeWords, DefaultAspectCategories)
}

func normalizeWords(words []string) mapset.Set[string] {
	set := mapset.NewThreadUnsafeSet[string]()
	for _, w := range words {
		w = strings.ToLower(strings.TrimSpace(w))
		if w != "" {
			set.Add(w)
		}
	}
	return set
}

// CountPolarity counts non-overlapping occurrences of every lexicon word as a
// substring of lower. Counts are summed across words, so entries that contain
// one another ("overheat", "heat") both count.
func (l *Lexicon) CountPolarity(lower string) (positive, negative int) {
	if lower == "" {
		return 0, 0
	}
	l.positive.Each(func(w string) bool {
		positive += strings.Count(lower, w)
		return false
	})
	l.negative.Each(func(w string) bool {
		negative += strings.Count(lower, w)
		return false
	})
	return positive, negative
}

func (l *Lexicon) Aspects() *AspectTable {
	return l.aspects
}
