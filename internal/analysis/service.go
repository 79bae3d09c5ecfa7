// Package analysis runs the full per-review pipeline: whole-text sentiment,
// aspect attribution and an optional summary.
package analysis

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/spacesedan/reviewlens/internal/aspects"
	"github.com/spacesedan/reviewlens/internal/metrics"
	"github.com/spacesedan/reviewlens/internal/models"
)

const (
	DEFAULT_WORKERS = 4
	// reviews shorter than this are their own summary
	SUMMARY_MIN_WORDS = 40
)

// Summarizer condenses a review. It is optional and never fails an analysis.
type Summarizer interface {
	Summarize(ctx context.Context, text string) (string, error)
}

type Service struct {
	resolver   aspects.Resolver
	extractor  *aspects.Extractor
	summarizer Summarizer
	workers    int
}

// NewService wires the pipeline. summarizer may be nil.
func NewService(resolver aspects.Resolver, extractor *aspects.Extractor, summarizer Summarizer, workers int) *Service {
	if workers <= 0 {
		workers = DEFAULT_WORKERS
	}
	return &Service{
		resolver:   resolver,
		extractor:  extractor,
		summarizer: summarizer,
		workers:    workers,
	}
}

// Analyze returns the analysis of one review. A scorer failure fails the
// whole review; a summarizer failure only leaves Summary empty.
func (s *Service) Analyze(ctx context.Context, input models.ReviewInput) (models.ReviewAnalysis, error) {
	if input.ReviewID == "" {
		input.ReviewID = uuid.NewString()
	}
	result := models.ReviewAnalysis{
		ReviewInput: input,
		Aspects:     []models.AspectRecord{},
	}

	verdict, err := s.resolver.Resolve(ctx, input.Text)
	if err != nil {
		return result, fmt.Errorf("review %s: %w", input.ReviewID, err)
	}
	result.Sentiment = &verdict

	records, err := s.extractor.Extract(ctx, input.Text)
	if err != nil {
		return result, fmt.Errorf("review %s: %w", input.ReviewID, err)
	}
	result.Aspects = records

	result.Summary = s.summarize(ctx, input)
	result.OK = true
	result.AnalyzedAt = time.Now().UTC()
	return result, nil
}

func (s *Service) summarize(ctx context.Context, input models.ReviewInput) string {
	if s.summarizer == nil || len(strings.Fields(input.Text)) < SUMMARY_MIN_WORDS {
		return ""
	}
	summary, err := s.summarizer.Summarize(ctx, input.Text)
	if err != nil {
		slog.Warn("[AnalysisService] Summarizer failed, continuing without summary",
			slog.String("review_id", input.ReviewID),
			slog.String("error", err.Error()))
		return ""
	}
	return summary
}

// AnalyzeBatch analyzes every input on a bounded worker pool. Results keep
// input order and carry per-item OK/Error so one failure never aborts the
// rest.
func (s *Service) AnalyzeBatch(ctx context.Context, inputs []models.ReviewInput) []models.ReviewAnalysis {
	results := make([]models.ReviewAnalysis, len(inputs))
	if len(inputs) == 0 {
		return results
	}

	jobs := make(chan int)
	var wg sync.WaitGroup

	workers := min(s.workers, len(inputs))
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = s.analyzeItem(ctx, inputs[i])
			}
		}()
	}

	for i := range inputs {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	slog.Info("[AnalysisService] Batch analyzed",
		slog.Int("batch_size", len(inputs)),
		slog.Int("workers", workers))
	return results
}

func (s *Service) analyzeItem(ctx context.Context, input models.ReviewInput) models.ReviewAnalysis {
	if err := ctx.Err(); err != nil {
		metrics.BatchItems.WithLabelValues("error").Inc()
		return failed(input, err)
	}

	result, err := s.Analyze(ctx, input)
	if err != nil {
		slog.Warn("[AnalysisService] Review analysis failed",
			slog.String("review_id", result.ReviewID),
			slog.String("error", err.Error()))
		metrics.BatchItems.WithLabelValues("error").Inc()
		return failed(result.ReviewInput, err)
	}
	metrics.BatchItems.WithLabelValues("ok").Inc()
	return result
}

func failed(input models.ReviewInput, err error) models.ReviewAnalysis {
	return models.ReviewAnalysis{
		ReviewInput: input,
		Aspects:     []models.AspectRecord{},
		Error:       err.Error(),
		AnalyzedAt:  time.Now().UTC(),
	}
}

// ExtractBatch runs aspect extraction alone over texts.
func (s *Service) ExtractBatch(ctx context.Context, texts []string) []models.AspectBatchResult {
	return s.extractor.ExtractBatch(ctx, texts)
}
