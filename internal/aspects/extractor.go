// Package aspects attributes sentiment to product aspects mentioned in a
// review. Strategies decide which aspects exist; the Extractor runs one.
package aspects

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"github.com/spacesedan/reviewlens/internal/metrics"
	"github.com/spacesedan/reviewlens/internal/models"
)

// Resolver produces the sentence-level verdict aspects are built from.
type Resolver interface {
	Resolve(ctx context.Context, text string) (models.SentimentVerdict, error)
}

// Strategy finds aspects in one text. Records come back in order of first
// detection with one record per aspect.
type Strategy interface {
	Name() string
	Extract(ctx context.Context, text string) ([]models.AspectRecord, error)
}

// UNCATEGORIZED_ASPECT is the metric label for aspects outside a fixed
// category table.
const UNCATEGORIZED_ASPECT = "uncategorized"

// categorized is implemented by strategies whose aspects come from a fixed
// set of categories.
type categorized interface {
	HasCategory(aspect string) bool
}

type Extractor struct {
	strategy Strategy
}

func NewExtractor(strategy Strategy) *Extractor {
	return &Extractor{strategy: strategy}
}

func (e *Extractor) Strategy() string {
	return e.strategy.Name()
}

func (e *Extractor) Extract(ctx context.Context, text string) ([]models.AspectRecord, error) {
	records, err := e.strategy.Extract(ctx, text)
	if err != nil {
		return nil, err
	}
	for _, r := range records {
		metrics.AspectsExtracted.WithLabelValues(e.strategy.Name(), e.metricAspect(r.Aspect)).Inc()
	}
	return records, nil
}

func (e *Extractor) metricAspect(aspect string) string {
	if c, ok := e.strategy.(categorized); ok && c.HasCategory(aspect) {
		return aspect
	}
	return UNCATEGORIZED_ASPECT
}

// ExtractBatch extracts every text independently; one failure never affects
// its siblings. Texts left when ctx is cancelled are reported as failed.
func (e *Extractor) ExtractBatch(ctx context.Context, texts []string) []models.AspectBatchResult {
	results := make([]models.AspectBatchResult, len(texts))
	for i, text := range texts {
		if err := ctx.Err(); err != nil {
			results[i] = models.AspectBatchResult{Aspects: []models.AspectRecord{}, Error: err.Error()}
			continue
		}

		records, err := e.Extract(ctx, text)
		if err != nil {
			slog.Warn("[AspectExtractor] Extraction failed",
				slog.Int("index", i),
				slog.String("strategy", e.strategy.Name()),
				slog.String("error", err.Error()))
			results[i] = models.AspectBatchResult{Aspects: []models.AspectRecord{}, Error: err.Error()}
			continue
		}
		results[i] = models.AspectBatchResult{Aspects: records, OK: true}
	}
	return results
}

// aspectSet keeps one record per aspect in first-detection order, replacing
// a record only when a later candidate has a strictly larger magnitude.
type aspectSet struct {
	records []models.AspectRecord
	index   map[string]int
}

func newAspectSet() *aspectSet {
	return &aspectSet{
		records: []models.AspectRecord{},
		index:   make(map[string]int),
	}
}

func (s *aspectSet) offer(rec models.AspectRecord) {
	i, exists := s.index[rec.Aspect]
	if !exists {
		s.index[rec.Aspect] = len(s.records)
		s.records = append(s.records, rec)
		return
	}
	if math.Abs(rec.Score) > math.Abs(s.records[i].Score) {
		s.records[i] = rec
	}
}

func (s *aspectSet) has(aspect string) bool {
	_, ok := s.index[aspect]
	return ok
}

// sentenceResolver memoizes verdicts per sentence within one extraction so
// several trigger terms in the same sentence cost one resolve.
type sentenceResolver struct {
	resolver Resolver
	seen     map[string]models.SentimentVerdict
}

func newSentenceResolver(r Resolver) *sentenceResolver {
	return &sentenceResolver{resolver: r, seen: make(map[string]models.SentimentVerdict)}
}

func (s *sentenceResolver) resolve(ctx context.Context, sentence string) (models.SentimentVerdict, error) {
	if v, ok := s.seen[sentence]; ok {
		return v, nil
	}
	v, err := s.resolver.Resolve(ctx, sentence)
	if err != nil {
		return models.SentimentVerdict{}, fmt.Errorf("failed to resolve sentence: %w", err)
	}
	s.seen[sentence] = v
	return v, nil
}
