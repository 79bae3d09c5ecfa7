// Package trends aggregates analyzed reviews into the per-day rows the
// dashboard reads: sentiment distribution and the most discussed aspects.
package trends

import (
	"sort"
	"time"

	"github.com/spacesedan/reviewlens/internal/models"
)

const DEFAULT_TOP_ASPECTS = 5

// TopAspects counts aspect mentions across successful analyses, sorted by
// count descending then name, and truncated to limit (limit <= 0 keeps all).
func TopAspects(analyses []models.ReviewAnalysis, limit int) []models.AspectSummary {
	type acc struct {
		count int
		total float64
	}
	byAspect := make(map[string]*acc)

	for _, a := range analyses {
		if !a.OK {
			continue
		}
		for _, rec := range a.Aspects {
			entry, ok := byAspect[rec.Aspect]
			if !ok {
				entry = &acc{}
				byAspect[rec.Aspect] = entry
			}
			entry.count++
			entry.total += rec.Score
		}
	}

	summaries := make([]models.AspectSummary, 0, len(byAspect))
	for aspect, entry := range byAspect {
		avg := entry.total / float64(entry.count)
		summaries = append(summaries, models.AspectSummary{
			Aspect:       aspect,
			Count:        entry.count,
			AvgSentiment: avg,
			Label:        models.LabelForScore(avg),
		})
	}

	sort.Slice(summaries, func(i, j int) bool {
		if summaries[i].Count != summaries[j].Count {
			return summaries[i].Count > summaries[j].Count
		}
		return summaries[i].Aspect < summaries[j].Aspect
	})

	if limit > 0 && len(summaries) > limit {
		summaries = summaries[:limit]
	}
	return summaries
}

// Distribution counts whole-text labels and averages their scores over the
// successful analyses.
func Distribution(analyses []models.ReviewAnalysis) (map[models.Label]int, float64, int) {
	dist := map[models.Label]int{
		models.LabelPositive: 0,
		models.LabelNeutral:  0,
		models.LabelNegative: 0,
	}
	var total float64
	n := 0
	for _, a := range analyses {
		if !a.OK || a.Sentiment == nil {
			continue
		}
		dist[a.Sentiment.Label]++
		total += a.Sentiment.Score
		n++
	}
	if n == 0 {
		return dist, 0, 0
	}
	return dist, total / float64(n), n
}

// BuildTrend summarizes one batch of analyses as a trend row for day.
func BuildTrend(day time.Time, analyses []models.ReviewAnalysis, topN int) models.ReviewTrend {
	dist, avg, n := Distribution(analyses)
	return models.ReviewTrend{
		Date:         day.UTC().Format(time.DateOnly),
		TotalReviews: n,
		AvgSentiment: avg,
		Distribution: dist,
		TopAspects:   TopAspects(analyses, topN),
	}
}
