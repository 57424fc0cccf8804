package monitoring

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"
)

const HEALTHCHECK_TIMER = 15 * time.Second

type ReadinessProber interface {
	Ready(ctx context.Context) bool
}

// MonitorPipelineHealth polls the pipeline until ctx is done and stores the
// latest answer in healthy.
func MonitorPipelineHealth(ctx context.Context, prober ReadinessProber, healthy *atomic.Bool, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			isHealthy := prober.Ready(ctx)
			if healthy.Swap(isHealthy) != isHealthy {
				if isHealthy {
					slog.Info("[HealthCheck] CoreNLP pipeline recovered")
				} else {
					slog.Warn("[HealthCheck] CoreNLP pipeline is unhealthy")
				}
			}
		}
	}
}
