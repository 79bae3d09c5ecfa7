package aspects

import (
	"context"
	"fmt"
	"strings"

	"github.com/spacesedan/reviewlens/internal/lexicon"
	"github.com/spacesedan/reviewlens/internal/metrics"
	"github.com/spacesedan/reviewlens/internal/models"
)

const (
	STRATEGY_SMARTPHONE    = "smartphone"
	IMPLICATION_CONFIDENCE = 0.9
)

// Override forces a score onto the matched sentence when every Requires
// phrase is present and, if AnyOf is set, at least one of AnyOf is too.
type Override struct {
	Name     string
	Requires []string
	AnyOf    []string
	Score    float64
}

func (o Override) matches(lower string) bool {
	for _, p := range o.Requires {
		if !strings.Contains(lower, p) {
			return false
		}
	}
	if len(o.AnyOf) == 0 {
		return true
	}
	for _, p := range o.AnyOf {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}

// Implication synthesizes a category from the whole text when the category
// was not detected directly.
type Implication struct {
	Name     string
	AnyOf    []string
	Category string
	Score    float64
}

var DefaultOverrides = []Override{
	{Name: "incredible_battery", Requires: []string{"incredible", "battery"}, Score: 0.9},
	{Name: "struggling_camera", Requires: []string{"struggles", "camera"}, Score: -0.7},
	{Name: "overheating", AnyOf: []string{"overheats", "gets hot"}, Score: -0.8},
	{Name: "responsive_performance", Requires: []string{"fast and responsive", "performance"}, Score: 0.8},
	{Name: "slow_charging", Requires: []string{"takes longer", "charging"}, Score: -0.6},
	{Name: "fantastic_sound", Requires: []string{"fantastic", "sound"}, Score: 0.9},
	{Name: "disappointing_camera", Requires: []string{"disappointed", "camera"}, Score: -0.8},
	{Name: "premium_build", Requires: []string{"premium", "build"}, Score: 0.7},
}

var DefaultImplications = []Implication{
	{Name: "all_day_battery", AnyOf: []string{"all day without worrying"}, Category: "battery life", Score: 0.8},
	{Name: "runs_hot", AnyOf: []string{"gets hot", "overheats"}, Category: "overheating", Score: -0.8},
}

// SmartphoneStrategy matches trigger terms from the aspect table and layers
// fixed per-aspect overrides over the resolved sentence verdict.
type SmartphoneStrategy struct {
	table        *lexicon.AspectTable
	resolver     Resolver
	splitter     SentenceSplitter
	overrides    []Override
	implications []Implication
}

func NewSmartphoneStrategy(table *lexicon.AspectTable, resolver Resolver, splitter SentenceSplitter) *SmartphoneStrategy {
	return &SmartphoneStrategy{
		table:        table,
		resolver:     resolver,
		splitter:     splitter,
		overrides:    DefaultOverrides,
		implications: DefaultImplications,
	}
}

func (s *SmartphoneStrategy) Name() string {
	return STRATEGY_SMARTPHONE
}

func (s *SmartphoneStrategy) Extract(ctx context.Context, text string) ([]models.AspectRecord, error) {
	if strings.TrimSpace(text) == "" {
		return []models.AspectRecord{}, nil
	}

	lower := strings.ToLower(text)
	sentences := s.splitter.Split(text)
	lowerSentences := make([]string, len(sentences))
	for i, sent := range sentences {
		lowerSentences[i] = strings.ToLower(sent)
	}

	found := newAspectSet()
	resolver := newSentenceResolver(s.resolver)

	for _, term := range s.table.Terms() {
		if !strings.Contains(lower, term) {
			continue
		}
		idx := firstContaining(lowerSentences, term)
		if idx < 0 {
			continue
		}
		category, _ := s.table.CategoryOf(term)

		verdict, err := resolver.resolve(ctx, sentences[idx])
		if err != nil {
			return nil, fmt.Errorf("aspect %q: %w", category, err)
		}
		verdict = s.applyOverrides(verdict, lowerSentences[idx])

		found.offer(models.AspectRecord{
			Aspect:           category,
			SentimentVerdict: verdict,
			RelevantText:     sentences[idx],
		})
	}

	for _, imp := range s.implications {
		if found.has(imp.Category) || !containsAny(lower, imp.AnyOf) {
			continue
		}
		found.offer(models.AspectRecord{
			Aspect: imp.Category,
			SentimentVerdict: models.SentimentVerdict{
				Score:            imp.Score,
				Label:            models.LabelForScore(imp.Score),
				Confidence:       IMPLICATION_CONFIDENCE,
				RawProbabilities: models.ProbabilitiesForScore(imp.Score),
				Source:           models.SourceImplication,
				Rule:             imp.Name,
			},
			RelevantText: text,
		})
	}

	return found.records, nil
}

// HasCategory reports whether aspect is a table category or an implied one.
func (s *SmartphoneStrategy) HasCategory(aspect string) bool {
	if s.table.Has(aspect) {
		return true
	}
	for _, imp := range s.implications {
		if imp.Category == aspect {
			return true
		}
	}
	return false
}

// applyOverrides runs every override in order; a later match replaces an
// earlier one. Only score and label change.
func (s *SmartphoneStrategy) applyOverrides(v models.SentimentVerdict, lowerSentence string) models.SentimentVerdict {
	for _, o := range s.overrides {
		if !o.matches(lowerSentence) {
			continue
		}
		metrics.AspectOverrides.WithLabelValues(o.Name).Inc()
		v.Score = o.Score
		v.Label = models.LabelForScore(o.Score)
		v.Source = models.SourceAspectOverride
		v.Rule = o.Name
	}
	return v
}

func firstContaining(lowerSentences []string, term string) int {
	for i, sent := range lowerSentences {
		if strings.Contains(sent, term) {
			return i
		}
	}
	return -1
}

func containsAny(lower string, phrases []string) bool {
	for _, p := range phrases {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}
