package models

type Label string

const (
	LabelPositive Label = "positive"
	LabelNeutral  Label = "neutral"
	LabelNegative Label = "negative"
)

const (
	POSITIVE_THRESHOLD = 0.3
	NEGATIVE_THRESHOLD = -0.3
)

// LabelForScore maps a score in [-1, 1] onto the three sentiment buckets.
func LabelForScore(score float64) Label {
	switch {
	case score > POSITIVE_THRESHOLD:
		return LabelPositive
	case score < NEGATIVE_THRESHOLD:
		return LabelNegative
	default:
		return LabelNeutral
	}
}

type RawProbabilities struct {
	Negative float64 `json:"negative" dynamodbav:"negative"`
	Positive float64 `json:"positive" dynamodbav:"positive"`
}

// ProbabilitiesForScore synthesizes a two-class distribution centred on the score.
func ProbabilitiesForScore(score float64) RawProbabilities {
	return RawProbabilities{
		Negative: 0.5 - score/2,
		Positive: 0.5 + score/2,
	}
}

// Score is what a statistical scorer returns for one text.
type Score struct {
	Value            float64          `json:"sentiment_score"`
	Confidence       float64          `json:"confidence"`
	RawProbabilities RawProbabilities `json:"raw_probabilities"`
}

type VerdictSource string

const (
	SourcePhrase         VerdictSource = "phrase"
	SourcePattern        VerdictSource = "pattern"
	SourceKeyword        VerdictSource = "keyword"
	SourceScorer         VerdictSource = "scorer"
	SourceAspectOverride VerdictSource = "aspect_override"
	SourceImplication    VerdictSource = "implication"
)

type SentimentVerdict struct {
	Score            float64          `json:"sentiment_score" dynamodbav:"sentiment_score"`
	Label            Label            `json:"sentiment_label" dynamodbav:"sentiment_label"`
	Confidence       float64          `json:"confidence" dynamodbav:"confidence"`
	RawProbabilities RawProbabilities `json:"raw_probabilities" dynamodbav:"raw_probabilities"`
	Source           VerdictSource    `json:"source,omitempty" dynamodbav:"source,omitempty"`
	Rule             string           `json:"rule,omitempty" dynamodbav:"rule,omitempty"`
}

// Consistent reports whether the label agrees with the score thresholds.
func (v SentimentVerdict) Consistent() bool {
	return v.Label == LabelForScore(v.Score)
}

// AspectRecord is one aspect's sentiment. JSON flattens the verdict so the
// record matches the persisted row shape.
type AspectRecord struct {
	Aspect string `json:"aspect" dynamodbav:"aspect"`
	SentimentVerdict
	RelevantText string `json:"relevant_text" dynamodbav:"relevant_text"`
}
