package monitoring

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/spacesedan/reviewlens/internal/metrics"
)

func TestMonitorHealth_ProbesImmediately(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	var healthy atomic.Bool
	healthy.Store(true)

	done := make(chan struct{})
	go func() {
		MonitorHealth(ctx, "test-dep", func(context.Context) bool { return false }, &healthy, time.Hour)
		close(done)
	}()

	assert.Eventually(t, func() bool { return !healthy.Load() }, time.Second, 5*time.Millisecond)
	cancel()
	<-done

	assert.Equal(t, 0.0, testutil.ToFloat64(metrics.DependencyHealthy.WithLabelValues("test-dep")))
}

func TestMonitorHealth_Recovers(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var calls atomic.Int32
	var healthy atomic.Bool

	go MonitorHealth(ctx, "flaky-dep", func(context.Context) bool {
		return calls.Add(1) > 1
	}, &healthy, 10*time.Millisecond)

	assert.Eventually(t, healthy.Load, time.Second, 5*time.Millisecond)
	assert.Eventually(t, func() bool {
		return testutil.ToFloat64(metrics.DependencyHealthy.WithLabelValues("flaky-dep")) == 1
	}, time.Second, 5*time.Millisecond)
}
