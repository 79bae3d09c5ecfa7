package monitoring

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/spacesedan/reviewlens/internal/metrics"
)

const HEALTHCHECK_TIMER = 15 * time.Second

type CheckFunc func(ctx context.Context) bool

// MonitorHealth probes check immediately and then every interval until ctx
// ends, storing the latest result in healthy.
func MonitorHealth(ctx context.Context, name string, check CheckFunc, healthy *atomic.Bool, interval time.Duration) {
	if interval <= 0 {
		interval = HEALTHCHECK_TIMER
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	probe(ctx, name, check, healthy)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			probe(ctx, name, check, healthy)
		}
	}
}

func probe(ctx context.Context, name string, check CheckFunc, healthy *atomic.Bool) {
	probeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	isHealthy := check(probeCtx)
	was := healthy.Swap(isHealthy)

	gauge := 0.0
	if isHealthy {
		gauge = 1
	}
	metrics.DependencyHealthy.WithLabelValues(name).Set(gauge)

	switch {
	case !isHealthy:
		slog.Warn("[HealthCheck] Dependency is unhealthy", slog.String("dependency", name))
	case !was:
		slog.Info("[HealthCheck] Dependency recovered", slog.String("dependency", name))
	}
}
