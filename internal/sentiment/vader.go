package sentiment

import (
	"context"
	"regexp"
	"strings"

	"github.com/jonreiter/govader"
	"github.com/russross/blackfriday/v2"

	"github.com/spacesedan/reviewlens/internal/models"
)

var (
	linkPattern = regexp.MustCompile(`\[(.*?)\]\((https?:\/\/[^\s\)]+)\)`)
	urlPattern  = regexp.MustCompile(`https?://\S+|www\.\S+`)
	tagPattern  = regexp.MustCompile(`<[^>]+>`)
)

func RemoveLinks(input string) string {
	input = linkPattern.ReplaceAllString(input, "$1") // keep only the link text
	return urlPattern.ReplaceAllString(input, "")
}

// ConvertMarkdownToText renders review markdown and strips the markup so
// the scorer only sees prose.
func ConvertMarkdownToText(input string) string {
	output := blackfriday.Run([]byte(RemoveLinks(input)), blackfriday.WithNoExtensions())
	plainText := tagPattern.ReplaceAllString(string(output), " ")

	return strings.Join(strings.Fields(plainText), " ")
}

// VaderScorer scores with the VADER compound score. It needs no model files
// and is safe for concurrent use.
type VaderScorer struct {
	analyzer *govader.SentimentIntensityAnalyzer
}

func NewVaderScorer() *VaderScorer {
	return &VaderScorer{
		analyzer: govader.NewSentimentIntensityAnalyzer(),
	}
}

func (v *VaderScorer) Score(_ context.Context, text string) (models.Score, error) {
	plainText := ConvertMarkdownToText(Truncate(text))

	compound := clamp(v.analyzer.PolarityScores(plainText).Compound)
	raw := models.ProbabilitiesForScore(compound)

	return models.Score{
		Value:            compound,
		Confidence:       max(raw.Positive, raw.Negative),
		RawProbabilities: raw,
	}, nil
}
