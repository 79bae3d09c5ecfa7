package db

import (
	"context"

	"github.com/spacesedan/reviewlens/internal/models"
)

// ResultStore persists finished analyses. Implementations skip analyses that
// did not complete.
type ResultStore interface {
	Name() string
	StoreAnalyses(ctx context.Context, analyses []models.ReviewAnalysis) error
}

func completed(analyses []models.ReviewAnalysis) []models.ReviewAnalysis {
	out := make([]models.ReviewAnalysis, 0, len(analyses))
	for _, a := range analyses {
		if a.OK && a.Sentiment != nil {
			out = append(out, a)
		}
	}
	return out
}
