package sentiment

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/knights-analytics/hugot"
	"github.com/knights-analytics/hugot/pipelines"

	"github.com/spacesedan/reviewlens/internal/models"
)

const hugotPipelineName = "reviewSentimentPipeline"

// HugotScorer runs a local two-class (SST-2 style) ONNX classifier. The
// pipeline is not safe for concurrent use, so calls are serialized.
type HugotScorer struct {
	mu       sync.Mutex
	session  *hugot.Session
	pipeline *pipelines.TextClassificationPipeline
}

func NewHugotScorer(modelPath string) (*HugotScorer, error) {
	session, err := hugot.NewORTSession()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize hugot session: %w", err)
	}

	config := hugot.TextClassificationConfig{
		ModelPath: modelPath,
		Name:      hugotPipelineName,
	}
	pipeline, err := hugot.NewPipeline(session, config)
	if err != nil {
		if destroyErr := session.Destroy(); destroyErr != nil {
			slog.Warn("[HugotScorer] Failed to destroy session",
				slog.String("error", destroyErr.Error()))
		}
		return nil, fmt.Errorf("failed to initialize classification pipeline: %w", err)
	}

	slog.Info("[HugotScorer] Pipeline ready", slog.String("model_path", modelPath))
	return &HugotScorer{
		session:  session,
		pipeline: pipeline,
	}, nil
}

func (h *HugotScorer) Score(ctx context.Context, text string) (models.Score, error) {
	if err := ctx.Err(); err != nil {
		return models.Score{}, err
	}

	h.mu.Lock()
	out, err := h.pipeline.RunPipeline([]string{Truncate(text)})
	h.mu.Unlock()
	if err != nil {
		return models.Score{}, fmt.Errorf("classification pipeline failed: %w", err)
	}
	if len(out.ClassificationOutputs) == 0 || len(out.ClassificationOutputs[0]) == 0 {
		return models.Score{}, fmt.Errorf("classification pipeline returned no labels")
	}

	top := out.ClassificationOutputs[0][0]
	return scoreFromTopLabel(top.Label, float64(top.Score))
}

// scoreFromTopLabel turns the winning label of a two-class model into the
// full distribution.
func scoreFromTopLabel(label string, p float64) (models.Score, error) {
	var raw models.RawProbabilities
	switch strings.ToLower(label) {
	case "positive", "label_1", "pos":
		raw = models.RawProbabilities{Negative: 1 - p, Positive: p}
	case "negative", "label_0", "neg":
		raw = models.RawProbabilities{Negative: p, Positive: 1 - p}
	default:
		return models.Score{}, fmt.Errorf("unexpected classifier label %q", label)
	}
	return scoreFromProbabilities(raw), nil
}

func (h *HugotScorer) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.session.Destroy()
}
