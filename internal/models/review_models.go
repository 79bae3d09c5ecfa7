package models

import "time"

type ReviewInput struct {
	ReviewID string   `json:"review_id"`
	Text     string   `json:"text"`
	Rating   *float64 `json:"rating,omitempty"`
	Source   string   `json:"source,omitempty"`
}

type ReviewAnalysis struct {
	ReviewInput
	Sentiment  *SentimentVerdict `json:"sentiment,omitempty"`
	Aspects    []AspectRecord    `json:"aspects"`
	Summary    string            `json:"summary,omitempty"`
	OK         bool              `json:"ok"`
	Error      string            `json:"error,omitempty"`
	AnalyzedAt time.Time         `json:"analyzed_at"`
}

type AspectBatchResult struct {
	Aspects []AspectRecord `json:"aspects"`
	OK      bool           `json:"ok"`
	Error   string         `json:"error,omitempty"`
}

type AspectSummary struct {
	Aspect       string  `json:"aspect"`
	Count        int     `json:"count"`
	AvgSentiment float64 `json:"avg_sentiment"`
	Label        Label   `json:"sentiment_label"`
}

type ReviewTrend struct {
	Date         string          `json:"date"`
	TotalReviews int             `json:"total_reviews"`
	AvgSentiment float64         `json:"avg_sentiment"`
	Distribution map[Label]int   `json:"distribution"`
	TopAspects   []AspectSummary `json:"top_aspects"`
}
