package sentiment

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"time"

	"github.com/spacesedan/reviewlens/internal/metrics"
	"github.com/spacesedan/reviewlens/internal/models"
)

// ScoreCache stores scorer results keyed by CacheKey.
type ScoreCache interface {
	GetScore(ctx context.Context, key string) (models.Score, bool, error)
	SetScore(ctx context.Context, key string, score models.Score, ttl time.Duration) error
}

func CacheKey(backend, text string) string {
	sum := sha256.Sum256([]byte(text))
	return "score:" + backend + ":" + hex.EncodeToString(sum[:])
}

// CachingScorer consults the cache before the wrapped scorer. Cache failures
// are logged and never fail the call.
type CachingScorer struct {
	backend string
	next    Scorer
	cache   ScoreCache
	ttl     time.Duration
}

func NewCachingScorer(backend string, next Scorer, cache ScoreCache, ttl time.Duration) *CachingScorer {
	return &CachingScorer{
		backend: backend,
		next:    next,
		cache:   cache,
		ttl:     ttl,
	}
}

func (c *CachingScorer) Score(ctx context.Context, text string) (models.Score, error) {
	key := CacheKey(c.backend, text)

	cached, found, err := c.cache.GetScore(ctx, key)
	if err != nil {
		slog.Warn("[ScoreCache] Lookup failed, scoring directly",
			slog.String("backend", c.backend),
			slog.String("error", err.Error()))
	}
	if found {
		metrics.ScoreCacheHits.Inc()
		return cached, nil
	}
	metrics.ScoreCacheMisses.Inc()

	score, err := c.next.Score(ctx, text)
	if err != nil {
		return models.Score{}, err
	}

	if err := c.cache.SetScore(ctx, key, score, c.ttl); err != nil {
		slog.Warn("[ScoreCache] Failed to store score",
			slog.String("backend", c.backend),
			slog.String("error", err.Error()))
	}
	return score, nil
}
